package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aussiebroadwan/jdmatchr/internal/gateway/backend"
	httpapi "github.com/aussiebroadwan/jdmatchr/internal/gateway/http"
	"github.com/aussiebroadwan/jdmatchr/internal/gateway/metrics"
	"github.com/aussiebroadwan/jdmatchr/internal/gateway/oauth"
	"github.com/aussiebroadwan/jdmatchr/internal/gateway/service"
	"github.com/aussiebroadwan/jdmatchr/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"

	providerDiscoveryTimeout = 10 * time.Second
)

// Application encapsulates the gateway with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	auth      *service.AuthConfig
	metrics   *metrics.Metrics
	backend   *backend.Client
	providers *oauth.Registry
	flows     *oauth.FlowStore

	// Services
	reader    *service.SessionReader
	issuer    *service.SessionIssuer
	registrar *service.Registrar
	proxy     *service.AuthenticatedProxy

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized.
// A missing secret or backend URL is a configuration error and nothing is
// started.
func New(cfg Config) (*Application, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "jdmatchr-gateway",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	app.auth = app.cfg.AuthConfig()
	app.metrics = metrics.New()
	app.backend = backend.NewClient(app.cfg.BackendURL, app.cfg.BackendTimeout, app.metrics)

	if err := app.initProviders(); err != nil {
		return nil, err
	}

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Handler is the fully wired HTTP handler.
func (app *Application) Handler() http.Handler {
	return app.router
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.logger.Info("gateway starting",
		"port", app.cfg.Port,
		"version", BuildVersion,
		"backend", app.cfg.BackendURL,
		"cookie", app.auth.SessionCookieName(),
		"providers", app.providers.Names(),
	)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a shutdown signal or server error
	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down gateway...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
		return err
	}

	app.logger.Info("gateway stopped")
	return nil
}

// initProviders discovers the configured OAuth providers. Discovery needs
// the provider to be reachable, so a failure here stops startup.
func (app *Application) initProviders() error {
	var list []oauth.Provider

	if app.cfg.GoogleEnabled() {
		ctx, cancel := context.WithTimeout(context.Background(), providerDiscoveryTimeout)
		defer cancel()

		google, err := oauth.NewGoogle(ctx,
			app.cfg.GoogleClientID,
			app.cfg.GoogleClientSecret,
			app.cfg.PublicURL+"/api/auth/callback/google",
		)
		if err != nil {
			return fmt.Errorf("failed to initialize google sign-in: %w", err)
		}
		list = append(list, google)
	}

	app.providers = oauth.NewRegistry(list...)
	if len(list) == 0 {
		app.logger.Info("no oauth providers configured, credentials sign-in only")
		return nil
	}

	flows, err := oauth.NewFlowStore(app.cfg.Secret, app.cfg.Secure())
	if err != nil {
		return fmt.Errorf("failed to initialize oauth flow store: %w", err)
	}
	app.flows = flows
	return nil
}

// initServices initializes all business logic services
func (app *Application) initServices() {
	app.reader = &service.SessionReader{Config: app.auth}
	app.issuer = &service.SessionIssuer{
		Config:      app.auth,
		Credentials: &service.CredentialAuthenticator{API: app.backend},
		OAuth:       &service.OAuthIdentityReconciler{API: app.backend},
		Metrics:     app.metrics,
	}
	app.registrar = &service.Registrar{
		API:     app.backend,
		Issuer:  app.issuer,
		Metrics: app.metrics,
	}
	app.proxy = &service.AuthenticatedProxy{
		Reader: app.reader,
		API:    app.backend,
	}
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.cfg.PublicURL,
		BuildVersion,
		app.cfg.IsDev(),
		app.logger,
	)

	// Wire services to router
	router.Auth = app.auth
	router.Reader = app.reader
	router.Issuer = app.issuer
	router.Registrar = app.registrar
	router.Proxy = app.proxy
	router.Backend = app.backend
	router.Providers = app.providers
	router.Flows = app.flows // nil without providers
	router.Metrics = app.metrics
	router.ApplyRoutes()

	app.router = router

	// Initialize HTTP server
	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
