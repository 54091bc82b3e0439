package models

import (
	"net/mail"

	"github.com/premiumshare/paytracker/internal/apierrors"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() error {
	if _, err := mail.ParseAddress(r.Email); err != nil {
		return apierrors.NewValidationError("email", "the email address is not valid")
	}
	if r.Password == "" {
		return apierrors.NewValidationError("password", "the password is required")
	}
	return nil
}

type RegisterRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Name      string `json:"name"`
	CellPhone string `json:"cell_phone"`
	DateToPay string `json:"date_to_pay"`
}

func (r RegisterRequest) Validate() error {
	if r.Username == "" {
		return apierrors.NewValidationError("username", "the username is required")
	}
	if r.Name == "" {
		return apierrors.NewValidationError("name", "the name is required")
	}
	if err := (LoginRequest{Email: r.Email, Password: r.Password}).Validate(); err != nil {
		return err
	}
	if len(r.Password) < 6 {
		return apierrors.NewValidationError("password", "the password must have at least 6 characters")
	}
	return ValidateCellPhone(r.CellPhone)
}

// Account is the operator account returned by the login and register endpoints.
type Account struct {
	ID       string `json:"id"`
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	Name     string `json:"name,omitempty"`
}

type AuthResponse struct {
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
	TokenType    string   `json:"token_type"`
	ExpiresIn    int64    `json:"expires_in"`
	User         *Account `json:"user,omitempty"`
}

// Session extracts the token pair from the response.
func (a AuthResponse) Session() Session {
	return Session{
		AccessToken:  a.AccessToken,
		RefreshToken: a.RefreshToken,
		TokenType:    a.TokenType,
		ExpiresAt:    tokenExpiry(a.AccessToken, a.ExpiresIn),
	}
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// RefreshResponse always carries a new access token, the refresh token is only present
// when the server rotates it.
type RefreshResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	TokenType    string `json:"token_type,omitempty"`
	ExpiresIn    int64  `json:"expires_in,omitempty"`
}
