// Package dashboard serves the operator dashboard on top of the remote payments API.
package dashboard

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/premiumshare/paytracker/internal/payments"
)

const (
	LoginPath     string = "/auth/login"
	DashboardPath string = "/dashboard"
)

type Server struct {
	authAPI  AuthAPI
	api      DashboardAPI
	sessions SessionManager
	registry *payments.Registry
	currency string
	now      func() time.Time
}

func (s *Server) RegisterHandlers(server *echo.Echo, commonMiddlewares ...echo.MiddlewareFunc) {
	auth := server.Group("/auth")
	auth.Use(commonMiddlewares...)
	auth.Use(NoCaching)
	auth.GET("/login", s.GetLoginStatus)
	auth.POST("/login", s.PostLogin)
	auth.POST("/register", s.PostRegister)
	auth.POST("/logout", s.PostLogout)

	e := server.Group("")
	e.Use(commonMiddlewares...)
	e.Use(s.LoginRequired, NoCaching)
	e.GET(DashboardPath, s.GetDashboard)
	e.POST("/clients", s.PostClient)
	e.GET("/clients/:id", s.GetClient)
	e.PUT("/clients/:id/edit", s.PutClient)
	e.DELETE("/clients/:id", s.DeleteClient)
	e.POST("/users/payment/:id", s.PostPayment)
	e.GET("/users/payment/:id", s.GetPaymentState)
	e.POST("/users/payment/:id/retry", s.PostPaymentRetry)
	e.DELETE("/users/payment/:id", s.DeletePaymentSession)
	e.GET("/users", s.GetUsers)
	e.POST("/users", s.PostUser)
	e.GET("/users/:id", s.GetUser)
	e.PUT("/users/:id", s.PutUser)
	e.DELETE("/users/:id", s.DeleteUser)
	e.GET("/payments/history", s.GetPaymentHistory)
	e.POST("/payments", s.PostPaymentRecord)
	e.GET("/payments/:id", s.GetPayment)
	e.PUT("/payments/:id", s.PutPayment)
	e.DELETE("/payments/:id", s.DeletePayment)
	e.GET("/statistics", s.GetStatistics)
	e.GET("/statistics/export.csv", s.GetStatisticsExport)
	e.GET("/statistics/export.xlsx", s.GetStatisticsWorkbook)
}

// Reauthenticate is called by the token store when the session cannot be recovered.
// All running payment sessions are torn down, the operator has to log in again.
func (s *Server) Reauthenticate(err error) {
	slog.Info("DASHBOARD", "message", "session expired, closing payment sessions", "error", err)
	s.registry.CloseAll()
}

type ServerOption func(*Server) error

func WithAuthAPI(authAPI AuthAPI) ServerOption {
	return func(s *Server) error {
		s.authAPI = authAPI
		return nil
	}
}

func WithDashboardAPI(api DashboardAPI) ServerOption {
	return func(s *Server) error {
		s.api = api
		return nil
	}
}

func WithSessionManager(sessions SessionManager) ServerOption {
	return func(s *Server) error {
		s.sessions = sessions
		return nil
	}
}

func WithRegistry(registry *payments.Registry) ServerOption {
	return func(s *Server) error {
		s.registry = registry
		return nil
	}
}

func WithCurrency(currency string) ServerOption {
	return func(s *Server) error {
		s.currency = currency
		return nil
	}
}

// WithClock sets the time source used for the statistics.
func WithClock(now func() time.Time) ServerOption {
	return func(s *Server) error {
		s.now = now
		return nil
	}
}

// NewServer creates the dashboard server, all the API dependencies are required.
func NewServer(options ...ServerOption) (*Server, error) {
	server := Server{currency: "COP", now: time.Now}
	for _, opt := range options {
		err := opt(&server)
		if err != nil {
			return nil, err
		}
	}
	if server.authAPI == nil {
		return nil, fmt.Errorf("auth API not initialized")
	}
	if server.api == nil {
		return nil, fmt.Errorf("dashboard API not initialized")
	}
	if server.sessions == nil {
		return nil, fmt.Errorf("session manager not initialized")
	}
	if server.registry == nil {
		return nil, fmt.Errorf("payment registry not initialized")
	}
	return &server, nil
}
