package dashboard

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/premiumshare/paytracker/internal/apierrors"
	"github.com/premiumshare/paytracker/internal/payments"
	"github.com/premiumshare/paytracker/internal/utils"
)

type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// statusCode picks the response code for an error of the remote API or of the dashboard.
func statusCode(err error) int {
	var validationErr *apierrors.ValidationError
	var apiErr *apierrors.APIError
	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest
	case errors.Is(err, payments.ErrPaymentInProgress), errors.Is(err, payments.ErrPaymentSettled):
		return http.StatusConflict
	case errors.Is(err, apierrors.ErrNotFound):
		return http.StatusNotFound
	case apierrors.IsTransport(err):
		return http.StatusBadGateway
	case errors.As(err, &apiErr):
		if apiErr.StatusCode >= 400 && apiErr.StatusCode < 500 {
			return apiErr.StatusCode
		}
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func sessionLost(err error) bool {
	return errors.Is(err, apierrors.ErrReauthenticate) || errors.Is(err, apierrors.ErrUnauthorized)
}

// renderError writes the error as JSON. Errors that mean the session is gone end the session
// and send the operator to the login page instead.
func (s *Server) renderError(c echo.Context, err error, fallback string) error {
	if sessionLost(err) {
		s.logout(c)
		return c.Redirect(http.StatusFound, LoginPath)
	}
	code := statusCode(err)
	if code >= http.StatusInternalServerError {
		slog.Error(
			"DASHBOARD",
			"message",
			fallback,
			"error",
			err,
			"requestID",
			utils.GetRequestID(c),
			"traceID",
			utils.GetTraceID(c),
		)
	}
	output := ErrorResponse{Error: apierrors.DisplayMessage(err, fallback)}
	var validationErr *apierrors.ValidationError
	if errors.As(err, &validationErr) {
		output.Field = validationErr.Field
	}
	return c.JSON(code, output)
}

func (s *Server) logout(c echo.Context) {
	s.registry.CloseAll()
	err := s.sessions.EndSession(utils.RequestContext(c))
	if err != nil {
		slog.Error("DASHBOARD", "message", "removing the session failed", "error", err, "requestID", utils.GetRequestID(c))
	}
}
