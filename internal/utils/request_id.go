package utils

import (
	"context"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type requestIDCtxKey struct{}

func GetRequestID(c echo.Context) string {
	return c.Response().Header().Get(echo.HeaderXRequestID)
}

// WithRequestID stores the request ID so that calls to the API made while serving the
// request carry the same ID.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	if requestID == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDCtxKey{}, requestID)
}

// RequestIDFromContext returns the stored request ID or a new random one.
func RequestIDFromContext(ctx context.Context) string {
	if requestID, ok := ctx.Value(requestIDCtxKey{}).(string); ok && requestID != "" {
		return requestID
	}
	return uuid.NewString()
}

// RequestContext returns the context of the echo request with its request ID attached.
func RequestContext(c echo.Context) context.Context {
	return WithRequestID(c.Request().Context(), GetRequestID(c))
}
