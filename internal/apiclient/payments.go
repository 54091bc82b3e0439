package apiclient

import (
	"context"
	"net/http"

	"github.com/premiumshare/paytracker/internal/models"
)

func (c *Client) ListPayments(ctx context.Context) ([]models.Payment, error) {
	output := []models.Payment{}
	err := c.do(ctx, http.MethodGet, "/payments", nil, &output)
	return output, err
}

func (c *Client) GetPayment(ctx context.Context, paymentID string) (models.Payment, error) {
	output := models.Payment{}
	err := c.do(ctx, http.MethodGet, "/payments/"+escape(paymentID), nil, &output)
	return output, err
}

// RecordPayment registers an already settled payment through the top level collection.
func (c *Client) RecordPayment(ctx context.Context, req models.CreatePaymentRequest) (models.Payment, error) {
	if err := req.Validate(); err != nil {
		return models.Payment{}, err
	}
	output := models.Payment{}
	err := c.do(ctx, http.MethodPost, "/payments", req, &output)
	return output, err
}

func (c *Client) UpdatePayment(ctx context.Context, paymentID string, req models.UpdatePaymentRequest) (models.Payment, error) {
	if err := req.Validate(); err != nil {
		return models.Payment{}, err
	}
	output := models.Payment{}
	err := c.do(ctx, http.MethodPut, "/payments/"+escape(paymentID), req, &output)
	return output, err
}

func (c *Client) DeletePayment(ctx context.Context, paymentID string) error {
	return c.do(ctx, http.MethodDelete, "/payments/"+escape(paymentID), nil, nil)
}

func (c *Client) ListClientPayments(ctx context.Context, clientID string) ([]models.Payment, error) {
	output := []models.Payment{}
	err := c.do(ctx, http.MethodGet, "/clients/"+escape(clientID, "payments"), nil, &output)
	return output, err
}

// CreatePayment starts a payment for the client. The returned payment may still be processing.
func (c *Client) CreatePayment(ctx context.Context, clientID string, amount float64) (models.Payment, error) {
	output := models.Payment{}
	req := models.CreatePaymentRequest{ClientID: clientID, Amount: amount}
	err := c.do(ctx, http.MethodPost, "/clients/"+escape(clientID, "payments"), req, &output)
	return output, err
}

func (c *Client) GetClientPayment(ctx context.Context, clientID string, paymentID string) (models.Payment, error) {
	output := models.Payment{}
	err := c.do(ctx, http.MethodGet, "/clients/"+escape(clientID, "payments", paymentID), nil, &output)
	return output, err
}
