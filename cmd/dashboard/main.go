package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"time"

	"github.com/getsentry/sentry-go"
	sentryecho "github.com/getsentry/sentry-go/echo"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/premiumshare/paytracker/internal/apiclient"
	"github.com/premiumshare/paytracker/internal/config"
	"github.com/premiumshare/paytracker/internal/dashboard"
	"github.com/premiumshare/paytracker/internal/db"
	"github.com/premiumshare/paytracker/internal/payments"
	"github.com/premiumshare/paytracker/internal/tokenstore"
	"golang.org/x/time/rate"
)

func main() {
	// Logging setup
	slog.SetDefault(jsonLogger)
	// Load configuration
	ch := config.NewConfigHandler()
	dashboardConfig, err := ch.Config()
	if err != nil {
		slog.Error("loading the configuration failed", "error", err)
		os.Exit(1)
	}
	slog.Info("loaded config", "config", dashboardConfig)
	err = dashboardConfig.Validate()
	if err != nil {
		slog.Error("the config validation failed", "error", err)
		os.Exit(1)
	}
	// Set log level to "debug" if activated
	if dashboardConfig.DebugMode {
		logLevel.Set(slog.LevelDebug)
	}
	// Only the log level can change at runtime, everything else needs a restart
	ch.HandleChanges(func(newConfig config.Config, err error) {
		if err != nil {
			slog.Error("reloading the configuration failed", "error", err)
			return
		}
		if newConfig.DebugMode {
			logLevel.Set(slog.LevelDebug)
		} else {
			logLevel.Set(slog.LevelInfo)
		}
		slog.Info("configuration reloaded", "debugMode", newConfig.DebugMode)
	})
	ch.Watch()
	// Setup
	e := echo.New()
	e.Pre(middleware.RequestID(), middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover())
	// The banner and the port do not respect the logger formatting we set below so we remove them
	// the port will be logged further down when the server starts.
	e.HideBanner = true
	e.HidePort = true
	// Initialize the db adapter that keeps the tokens of the operator
	dbAdapter, err := db.NewRedisAdapter(
		db.WithRedisConfig(dashboardConfig.Redis),
		db.WithSessionConfig(dashboardConfig.Session),
	)
	if err != nil {
		slog.Error("DB adapter initialization failed", "error", err)
		os.Exit(1)
	}
	if dashboardConfig.Session.TokenEncryption.Enabled {
		slog.Info("token encryption is enabled")
	}
	// Health check
	e.GET("/health", func(c echo.Context) error {
		err := dbAdapter.Ping(c.Request().Context())
		if err != nil {
			slog.Error("health check failed", "error", err)
			return c.NoContent(http.StatusServiceUnavailable)
		}
		return c.NoContent(http.StatusOK)
	})
	// Version endpoint
	buildInfo, ok := debug.ReadBuildInfo()
	version := ""
	if ok && buildInfo != nil {
		version = buildInfo.Main.Version
	}
	e.GET("/version", func(c echo.Context) error {
		return c.String(http.StatusOK, version)
	})
	// The auth client never goes through the token store, a refresh must not trigger another refresh
	plainClient, err := apiclient.NewClient(apiclient.WithConfig(dashboardConfig.API))
	if err != nil {
		slog.Error("API client initialization failed", "error", err)
		os.Exit(1)
	}
	authClient := apiclient.NewAuthClient(plainClient)
	// The dashboard server is created last, the token store only calls it while serving requests
	var dashboardServer *dashboard.Server
	tokenStore, err := tokenstore.NewTokenStore(
		tokenstore.WithConfig(dashboardConfig.Session),
		tokenstore.WithSessionRepository(dbAdapter),
		tokenstore.WithRefresher(authClient),
		tokenstore.WithReauthenticateHandler(func(err error) {
			if dashboardServer != nil {
				dashboardServer.Reauthenticate(err)
			}
		}),
	)
	if err != nil {
		slog.Error("token store initialization failed", "error", err)
		os.Exit(1)
	}
	apiClient, err := apiclient.NewClient(
		apiclient.WithConfig(dashboardConfig.API),
		apiclient.WithTransport(tokenStore.Transport(http.DefaultTransport)),
	)
	if err != nil {
		slog.Error("authenticated API client initialization failed", "error", err)
		os.Exit(1)
	}
	// Payments
	poller, err := payments.NewPoller(
		payments.WithPaymentAPI(apiClient),
		payments.WithConfig(dashboardConfig.Payments),
	)
	if err != nil {
		slog.Error("payment poller initialization failed", "error", err)
		os.Exit(1)
	}
	registry := payments.NewRegistry(poller)
	dashboardServer, err = dashboard.NewServer(
		dashboard.WithAuthAPI(authClient),
		dashboard.WithDashboardAPI(apiClient),
		dashboard.WithSessionManager(tokenStore),
		dashboard.WithRegistry(registry),
		dashboard.WithCurrency(dashboardConfig.Payments.Currency),
	)
	if err != nil {
		slog.Error("dashboard handlers initialization failed", "error", err)
		os.Exit(1)
	}
	dashboardServer.RegisterHandlers(e, commonMiddlewares...)
	// Rate limiting
	if dashboardConfig.Server.RateLimits.Enabled {
		e.Use(middleware.RateLimiter(
			middleware.NewRateLimiterMemoryStoreWithConfig(
				middleware.RateLimiterMemoryStoreConfig{
					Rate:      rate.Limit(dashboardConfig.Server.RateLimits.Rate),
					Burst:     dashboardConfig.Server.RateLimits.Burst,
					ExpiresIn: 3 * time.Minute,
				}),
		),
		)
	}
	// CORS
	if len(dashboardConfig.Server.AllowOrigin) > 0 {
		e.Use(middleware.CORSWithConfig(middleware.CORSConfig{AllowOrigins: dashboardConfig.Server.AllowOrigin}))
	}
	// Sentry
	if dashboardConfig.Monitoring.Sentry.Enabled {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:              string(dashboardConfig.Monitoring.Sentry.Dsn),
			TracesSampleRate: dashboardConfig.Monitoring.Sentry.SampleRate,
			Environment:      dashboardConfig.Monitoring.Sentry.Environment,
		})
		if err != nil {
			slog.Error("sentry initialization failed", "error", err)
		}
		e.Use(sentryecho.New(sentryecho.Options{Repanic: true}))
	}
	// Prometheus
	if dashboardConfig.Monitoring.Prometheus.Enabled {
		e.Use(echoprometheus.NewMiddleware("paytracker"))
		go func() {
			metrics := echo.New()
			metrics.HideBanner = true
			metrics.HidePort = true
			metrics.GET("/metrics", echoprometheus.NewHandler())
			err := metrics.Start(fmt.Sprintf(":%d", dashboardConfig.Monitoring.Prometheus.Port))
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("prometheus server failed to start", "error", err)
				os.Exit(1)
			}
		}()
	}
	// Start server
	address := fmt.Sprintf("%s:%d", dashboardConfig.Server.Host, dashboardConfig.Server.Port)
	slog.Info("starting the server on address " + address)
	go func() {
		err := e.Start(address)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("shutting down the server gracefuly failed", "error", err)
			os.Exit(1)
		}
	}()
	// Wait for interrupt signal to gracefully shutdown the server with a timeout of 10 seconds.
	// Use a buffered channel to avoid missing signals as recommended for signal.Notify
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit
	slog.Info("received signal to shut down the server")
	registry.CloseAll()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		slog.Error("shutting down the server gracefully failed", "error", err)
		os.Exit(1)
	}
}
