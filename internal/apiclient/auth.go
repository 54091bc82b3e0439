package apiclient

import (
	"context"
	"net/http"

	"github.com/premiumshare/paytracker/internal/models"
)

// AuthClient calls the unauthenticated endpoints of the API. It has to use a client without
// the token store transport, a refresh must never trigger another refresh.
type AuthClient struct {
	api *Client
}

func NewAuthClient(api *Client) *AuthClient {
	return &AuthClient{api: api}
}

func (a *AuthClient) Login(ctx context.Context, req models.LoginRequest) (models.AuthResponse, error) {
	if err := req.Validate(); err != nil {
		return models.AuthResponse{}, err
	}
	output := models.AuthResponse{}
	err := a.api.do(ctx, http.MethodPost, "/login", req, &output)
	return output, err
}

func (a *AuthClient) Register(ctx context.Context, req models.RegisterRequest) (models.AuthResponse, error) {
	if err := req.Validate(); err != nil {
		return models.AuthResponse{}, err
	}
	output := models.AuthResponse{}
	err := a.api.do(ctx, http.MethodPost, "/register", req, &output)
	return output, err
}

// Refresh exchanges the refresh token for a new access token.
func (a *AuthClient) Refresh(ctx context.Context, refreshToken string) (models.RefreshResponse, error) {
	output := models.RefreshResponse{}
	err := a.api.do(ctx, http.MethodPost, "/refresh", models.RefreshRequest{RefreshToken: refreshToken}, &output)
	return output, err
}
