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

	"github.com/fourpaws/petstore/internal/petstore/domain"
	httpapi "github.com/fourpaws/petstore/internal/petstore/http"
	"github.com/fourpaws/petstore/internal/petstore/service"
	"github.com/fourpaws/petstore/internal/petstore/store"
	"github.com/fourpaws/petstore/internal/petstore/store/drivers/sqlite"
	"github.com/fourpaws/petstore/pkg/cryptox"
	"github.com/fourpaws/petstore/pkg/idx"
	"github.com/fourpaws/petstore/pkg/jwtx"
	"github.com/fourpaws/petstore/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application encapsulates the petstore service with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db       store.Store
	signer   jwtx.Signer
	keys     *jwtx.KeySet
	verifier jwtx.Verifier

	tokenService        *service.TokenService
	petService          *service.PetService
	orderService        *service.OrderService
	userService         *service.UserService
	housekeepingService *service.HousekeepingService

	server *http.Server
	router *httpapi.Router
}

// New creates an Application with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "petstore",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	if err := app.initKeys(); err != nil {
		return nil, err
	}

	app.initServices()
	app.initHTTP()

	if err := app.seedAdminUser(); err != nil {
		return nil, err
	}

	return app, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.housekeepingService.Start()

	app.logger.Info("petstore service starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

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

// Shutdown gracefully shuts down the application.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down petstore service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeepingService.Stop()

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("petstore service stopped")
	return nil
}

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

// initKeys generates an ephemeral Ed25519 signing key. Tokens do not
// survive a restart, which is acceptable for a short-lived access token
// model with refresh grants.
func (app *Application) initKeys() error {
	signer, err := jwtx.NewEphemeralSignerEdDSA(idx.New().String())
	if err != nil {
		return fmt.Errorf("failed to initialize signing key: %w", err)
	}

	keys := jwtx.NewKeySet()
	keys.AddSigner(signer)

	app.signer = signer
	app.keys = keys
	app.verifier = jwtx.NewVerifierEdDSA(keys, app.cfg.Issuer, []string{app.cfg.Audience})

	app.logger.Info("ephemeral signing key initialized", "kid", signer.KID(), "alg", signer.Alg())
	return nil
}

func (app *Application) initServices() {
	app.tokenService = &service.TokenService{
		Signer:     app.signer,
		Store:      app.db,
		Issuer:     app.cfg.Issuer,
		Audience:   app.cfg.Audience,
		AccessTTL:  app.cfg.AccessTTL,
		RefreshTTL: app.cfg.RefreshTTL,
	}

	app.petService = &service.PetService{Store: app.db}
	app.orderService = &service.OrderService{Store: app.db}
	app.userService = &service.UserService{Store: app.db}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
	)
}

func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.keys,
		app.verifier,
		BuildVersion,
		app.db,
		app.logger,
	)

	router.TokenService = app.tokenService
	router.PetService = app.petService
	router.OrderService = app.orderService
	router.UserService = app.userService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}

// seedAdminUser creates an initial account when the user table is empty so
// a fresh deployment is immediately usable. The generated password is
// logged once; rotate it after first login.
func (app *Application) seedAdminUser() error {
	ctx := context.Background()

	empty, err := app.db.Users().IsEmpty(ctx)
	if err != nil {
		return fmt.Errorf("failed to check user table: %w", err)
	}
	if !empty {
		return nil
	}

	password := app.cfg.SeedPassword
	generated := false
	if password == "" {
		password, err = cryptox.GeneratePassword()
		if err != nil {
			return fmt.Errorf("failed to generate seed password: %w", err)
		}
		generated = true
	}

	u, err := app.userService.Register(ctx, domain.User{
		Username: app.cfg.SeedUsername,
		Scopes:   []string{"read", "write"},
	}, password)
	if err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}

	if generated {
		app.logger.Warn("seeded initial user with generated password",
			"username", u.Username, "password", password)
	} else {
		app.logger.Info("seeded initial user", "username", u.Username)
	}
	return nil
}
