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

	httpapi "github.com/checkinhq/checkin/internal/checkin/http"
	"github.com/checkinhq/checkin/internal/checkin/integration"
	"github.com/checkinhq/checkin/internal/checkin/search"
	"github.com/checkinhq/checkin/internal/checkin/service"
	"github.com/checkinhq/checkin/internal/checkin/store"
	"github.com/checkinhq/checkin/internal/checkin/store/drivers/sqlite"
	"github.com/checkinhq/checkin/pkg/mailx"
	"github.com/checkinhq/checkin/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// invitationTemplateBody is the plain-text body of the workspace invitation
// email.
const invitationTemplateBody = `Hi,

{{.SenderName}} has invited you to join the {{.WorkspaceName}} workspace as a {{.Role}}.

Use the token below to accept the invitation:

    {{.Token}}

If you weren't expecting this invitation you can ignore this email.
`

// Application encapsulates the check-in service with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db    store.Store
	hooks *integration.Registry

	// Services
	workspaceService    *service.WorkspaceService
	membershipService   *service.MembershipService
	invitationService   *service.InvitationService
	venueService        *service.VenueService
	housekeepingService *service.HousekeepingService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "checkin-service",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	if err := app.initServices(); err != nil {
		_ = app.db.Close()
		return nil, err
	}
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	// Start housekeeping service
	app.housekeepingService.Start()

	app.logger.Info("checkin service starting", "port", app.cfg.Port, "version", BuildVersion)

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

		// Perform graceful shutdown
		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down checkin service...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	// Shutdown the HTTP server
	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	// Stop the housekeeping service
	app.housekeepingService.Stop()

	// Close database connection
	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("checkin service stopped")
	return nil
}

// initDatabase initializes the database and applies migrations
func (app *Application) initDatabase() error {
	host := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(host)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

// initServices initializes all business logic services
func (app *Application) initServices() error {
	mailer, err := app.initMailer()
	if err != nil {
		return err
	}

	app.hooks = integration.NewRegistry()
	if app.cfg.ZapierWebhookURL != "" {
		if err := app.hooks.Register(integration.NewZapier(app.cfg.ZapierWebhookURL)); err != nil {
			return fmt.Errorf("failed to register zapier integration: %w", err)
		}
		app.logger.Info("zapier integration enabled")
	}

	var indexer search.Indexer = search.Noop{}
	if app.cfg.SearchIndexURL != "" {
		indexer = search.NewHTTPIndexer(app.cfg.SearchIndexURL)
		app.logger.Info("search index refresh enabled", "url", app.cfg.SearchIndexURL)
	}

	app.membershipService = &service.MembershipService{
		Store:   app.db,
		Indexer: indexer,
		Hooks:   app.hooks,
	}
	app.workspaceService = &service.WorkspaceService{
		Store:   app.db,
		Members: app.membershipService,
	}
	app.invitationService = &service.InvitationService{
		Store:  app.db,
		Mailer: mailer,
		TTL:    app.cfg.InvitationTTL,
		Hooks:  app.hooks,
	}
	app.venueService = &service.VenueService{Store: app.db}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
	)

	return nil
}

// initMailer builds the SMTP mailer, falling back to a log-only mailer when
// no relay is configured so dev environments work out of the box.
func (app *Application) initMailer() (mailx.Mailer, error) {
	if app.cfg.SMTPHost == "" {
		app.logger.Warn("no SMTP relay configured, invitation emails will be logged only")
		return &logMailer{logger: app.logger}, nil
	}

	mailer, err := mailx.NewSMTPMailer(mailx.SMTPConfig{
		Host:     app.cfg.SMTPHost,
		Port:     app.cfg.SMTPPort,
		From:     app.cfg.SMTPFrom,
		Username: app.cfg.SMTPUsername,
		Password: app.cfg.SMTPPassword,
	}, map[string]string{
		service.InvitationTemplateID: invitationTemplateBody,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize mailer: %w", err)
	}
	return mailer, nil
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(BuildVersion, app.db, app.logger)

	// Wire services to router
	router.WorkspaceService = app.workspaceService
	router.MembershipService = app.membershipService
	router.InvitationService = app.invitationService
	router.VenueService = app.venueService
	router.ApplyRoutes()

	app.router = router

	// Initialize HTTP server
	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}

// logMailer records invitations in the application log instead of sending
// them. Used when SMTP is not configured.
type logMailer struct {
	logger *slog.Logger
}

func (m *logMailer) SendTemplate(ctx context.Context, tpl mailx.Template, opts mailx.Options) error {
	m.logger.Info("invitation email suppressed (no SMTP relay)",
		"to", opts.To,
		"subject", opts.Subject,
		"template", tpl.ID,
	)
	return nil
}
