package apiclient

import (
	"context"
	"net/http"

	"github.com/premiumshare/paytracker/internal/models"
)

func (c *Client) ListClients(ctx context.Context) ([]models.Client, error) {
	output := []models.Client{}
	err := c.do(ctx, http.MethodGet, "/clients", nil, &output)
	return output, err
}

func (c *Client) GetClient(ctx context.Context, clientID string) (models.Client, error) {
	output := models.Client{}
	err := c.do(ctx, http.MethodGet, "/clients/"+escape(clientID), nil, &output)
	return output, err
}

func (c *Client) CreateClient(ctx context.Context, req models.CreateClientRequest) (models.Client, error) {
	if err := req.Validate(); err != nil {
		return models.Client{}, err
	}
	output := models.Client{}
	err := c.do(ctx, http.MethodPost, "/clients", req, &output)
	return output, err
}

func (c *Client) UpdateClient(ctx context.Context, clientID string, req models.UpdateClientRequest) (models.Client, error) {
	if err := req.Validate(); err != nil {
		return models.Client{}, err
	}
	output := models.Client{}
	err := c.do(ctx, http.MethodPut, "/clients/"+escape(clientID), req, &output)
	return output, err
}

func (c *Client) DeleteClient(ctx context.Context, clientID string) error {
	return c.do(ctx, http.MethodDelete, "/clients/"+escape(clientID), nil, nil)
}
