package dashboard

import (
	"context"

	"github.com/premiumshare/paytracker/internal/models"
)

type AuthAPI interface {
	Login(ctx context.Context, req models.LoginRequest) (models.AuthResponse, error)
	Register(ctx context.Context, req models.RegisterRequest) (models.AuthResponse, error)
}

// SessionManager keeps the token pair of the logged in operator.
type SessionManager interface {
	StartSession(ctx context.Context, session models.Session) error
	EndSession(ctx context.Context) error
	Authenticated(ctx context.Context) bool
}

// DashboardAPI is the part of the authenticated API client used by the handlers.
type DashboardAPI interface {
	ListClients(ctx context.Context) ([]models.Client, error)
	GetClient(ctx context.Context, clientID string) (models.Client, error)
	CreateClient(ctx context.Context, req models.CreateClientRequest) (models.Client, error)
	UpdateClient(ctx context.Context, clientID string, req models.UpdateClientRequest) (models.Client, error)
	DeleteClient(ctx context.Context, clientID string) error
	ListPayments(ctx context.Context) ([]models.Payment, error)
	ListClientPayments(ctx context.Context, clientID string) ([]models.Payment, error)
	GetPayment(ctx context.Context, paymentID string) (models.Payment, error)
	RecordPayment(ctx context.Context, req models.CreatePaymentRequest) (models.Payment, error)
	UpdatePayment(ctx context.Context, paymentID string, req models.UpdatePaymentRequest) (models.Payment, error)
	DeletePayment(ctx context.Context, paymentID string) error
	UserAPI
}

// UserAPI serves the user list of older API revisions, where clients were called users.
type UserAPI interface {
	ListUsers(ctx context.Context) ([]models.User, error)
	GetUser(ctx context.Context, userID string) (models.User, error)
	CreateUser(ctx context.Context, req models.CreateUserRequest) (models.User, error)
	UpdateUser(ctx context.Context, userID string, req models.UpdateUserRequest) (models.User, error)
	DeleteUser(ctx context.Context, userID string) error
}
