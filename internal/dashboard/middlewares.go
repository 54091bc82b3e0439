package dashboard

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/premiumshare/paytracker/internal/utils"
)

// NoCaching sets headers in responses that prevent caching by the browser.
func NoCaching(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		var noCacheHeaders = map[string]string{
			"Expires":         time.Unix(0, 0).Format(time.RFC1123),
			"Cache-Control":   "no-cache, no-store, must-revalidate, max-age=0",
			"X-Accel-Expires": "0",
		}
		for k, v := range noCacheHeaders {
			c.Response().Header().Set(k, v)
		}
		return next(c)
	}
}

// LoginRequired sends requests without a stored session to the login page.
func (s *Server) LoginRequired(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !s.sessions.Authenticated(utils.RequestContext(c)) {
			slog.Debug(
				"DASHBOARD",
				"message",
				"no session, redirecting to login",
				"path",
				c.Request().URL.Path,
				"requestID",
				utils.GetRequestID(c),
			)
			return c.Redirect(http.StatusFound, LoginPath)
		}
		return next(c)
	}
}
