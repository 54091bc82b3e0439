package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/premiumshare/paytracker/internal/utils"
)

var logLevel *slog.LevelVar = new(slog.LevelVar)
var jsonLogger *slog.Logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))

// newRequestLogger logs every dashboard request. Rejected requests are logged as warnings,
// server side failures as errors.
func newRequestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogError:     true,
		LogRequestID: true,
		LogRoutePath: true,
		LogMethod:    true,
		LogLatency:   true,
		HandleError:  true, // forwards error to the global error handler, so it can decide appropriate status code
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []slog.Attr{
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.String("requestID", v.RequestID),
				slog.String("method", v.Method),
				slog.String("handler", v.RoutePath),
				slog.Duration("latency", v.Latency),
			}
			// the payment and client routes all carry the client or payment as :id
			if id := c.Param("id"); id != "" {
				attrs = append(attrs, slog.String("resourceID", id))
			}
			if traceID := utils.GetTraceID(c); traceID != "" {
				attrs = append(attrs, slog.String("traceID", traceID))
			}
			level := slog.LevelInfo
			message := "REQUEST"
			switch {
			case v.Error != nil:
				level = slog.LevelError
				message = "REQUEST_ERROR"
				attrs = append(attrs, slog.String("error", v.Error.Error()))
			case v.Status >= 500:
				level = slog.LevelError
			case v.Status >= 400:
				level = slog.LevelWarn
			}
			logger.LogAttrs(context.Background(), level, message, attrs...)
			return nil
		},
	})
}

var commonMiddlewares []echo.MiddlewareFunc = []echo.MiddlewareFunc{newRequestLogger(jsonLogger)}
