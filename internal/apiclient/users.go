package apiclient

import (
	"context"
	"net/http"

	"github.com/premiumshare/paytracker/internal/models"
)

// The /users endpoints are kept for API revisions that predate the clients collection.

func (c *Client) ListUsers(ctx context.Context) ([]models.User, error) {
	output := []models.User{}
	err := c.do(ctx, http.MethodGet, "/users", nil, &output)
	return output, err
}

func (c *Client) GetUser(ctx context.Context, userID string) (models.User, error) {
	output := models.User{}
	err := c.do(ctx, http.MethodGet, "/users/"+escape(userID), nil, &output)
	return output, err
}

func (c *Client) CreateUser(ctx context.Context, req models.CreateUserRequest) (models.User, error) {
	if err := req.Validate(); err != nil {
		return models.User{}, err
	}
	output := models.User{}
	err := c.do(ctx, http.MethodPost, "/users", req, &output)
	return output, err
}

func (c *Client) UpdateUser(ctx context.Context, userID string, req models.UpdateUserRequest) (models.User, error) {
	if err := req.Validate(); err != nil {
		return models.User{}, err
	}
	output := models.User{}
	err := c.do(ctx, http.MethodPut, "/users/"+escape(userID), req, &output)
	return output, err
}

func (c *Client) DeleteUser(ctx context.Context, userID string) error {
	return c.do(ctx, http.MethodDelete, "/users/"+escape(userID), nil, nil)
}
