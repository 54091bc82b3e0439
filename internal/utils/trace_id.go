package utils

import (
	"context"

	"github.com/getsentry/sentry-go"
	sentryecho "github.com/getsentry/sentry-go/echo"
	"github.com/labstack/echo/v4"
)

// GetTraceID returns the sentry trace of the dashboard request, empty when sentry is disabled.
func GetTraceID(c echo.Context) string {
	if span := sentryecho.GetSpanFromContext(c); span != nil {
		return span.TraceID.String()
	}
	return ""
}

// GetTraceParent returns the sentry-trace header value to forward to the API. The span of the
// request is preferred over the hub.
func GetTraceParent(ctx context.Context) string {
	if span := sentry.SpanFromContext(ctx); span != nil {
		return span.ToSentryTrace()
	}
	if hub := sentry.GetHubFromContext(ctx); hub != nil {
		return hub.GetTraceparent()
	}
	return ""
}
