package dashboard

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/premiumshare/paytracker/internal/apierrors"
	"github.com/premiumshare/paytracker/internal/models"
	"github.com/premiumshare/paytracker/internal/utils"
)

const authFailedMessage string = "authentication failed"

type AuthStatus struct {
	Authenticated bool            `json:"authenticated"`
	User          *models.Account `json:"user,omitempty"`
	Redirect      string          `json:"redirect,omitempty"`
}

func (s *Server) GetLoginStatus(c echo.Context) error {
	return c.JSON(http.StatusOK, AuthStatus{Authenticated: s.sessions.Authenticated(utils.RequestContext(c))})
}

func (s *Server) PostLogin(c echo.Context) error {
	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "the login request is malformed"})
	}
	res, err := s.authAPI.Login(utils.RequestContext(c), req)
	if err != nil {
		return s.renderAuthError(c, err)
	}
	return s.startSession(c, http.StatusOK, res)
}

func (s *Server) PostRegister(c echo.Context) error {
	var req models.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "the registration request is malformed"})
	}
	res, err := s.authAPI.Register(utils.RequestContext(c), req)
	if err != nil {
		return s.renderAuthError(c, err)
	}
	return s.startSession(c, http.StatusCreated, res)
}

func (s *Server) PostLogout(c echo.Context) error {
	s.logout(c)
	slog.Info("DASHBOARD", "message", "logged out", "requestID", utils.GetRequestID(c))
	return c.JSON(http.StatusOK, AuthStatus{Authenticated: false, Redirect: LoginPath})
}

// startSession stores the tokens of a successful login or registration. A response without
// an access token cannot be used for anything and counts as a failed authentication.
func (s *Server) startSession(c echo.Context, code int, res models.AuthResponse) error {
	if res.AccessToken == "" {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: authFailedMessage})
	}
	// a previous operator's payments must not keep polling with the new tokens
	s.registry.CloseAll()
	err := s.sessions.StartSession(utils.RequestContext(c), res.Session())
	if err != nil {
		return s.renderError(c, err, "cannot store the session")
	}
	slog.Info("DASHBOARD", "message", "session started", "requestID", utils.GetRequestID(c))
	return c.JSON(code, AuthStatus{Authenticated: true, User: res.User, Redirect: DashboardPath})
}

// renderAuthError reports failed credentials as 401, they never end in a redirect.
func (s *Server) renderAuthError(c echo.Context, err error) error {
	if errors.Is(err, apierrors.ErrUnauthorized) {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: apierrors.DisplayMessage(err, authFailedMessage)})
	}
	return s.renderError(c, err, authFailedMessage)
}
