// Package server wires the vault server together: it opens storage, applies
// migrations, resolves the vault key, builds the services and runs the gRPC
// transport until a termination signal arrives.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/credvault/internal/cryptox"
	"github.com/dmitrijs2005/credvault/internal/logging"
	"github.com/dmitrijs2005/credvault/internal/server/config"
	"github.com/dmitrijs2005/credvault/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/credvault/internal/server/services"

	gs "github.com/dmitrijs2005/credvault/internal/server/grpc"
)

type App struct {
	config        *config.Config
	logger        logging.Logger
	db            *sql.DB
	userService   *services.UserService
	vaultService  *services.VaultService
	folderService *services.FolderService
	backupService *services.BackupService
}

// NewApp validates c, opens and migrates the database and builds the
// services. Log records go to out.
func NewApp(ctx context.Context, c *config.Config, out io.Writer) (*App, error) {

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	logger, err := logging.NewJSONLogger(out, c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("logger init error: %w", err)
	}

	key, fallback, err := cryptox.ResolveKey(c.VaultKey, c.Environment)
	if err != nil {
		return nil, fmt.Errorf("vault key error: %w", err)
	}
	if fallback {
		logger.Warn(ctx, "vault key not configured, using the public development key",
			"environment", c.Environment)
	}

	cipher, err := cryptox.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("cipher init error: %w", err)
	}

	rm, err := repomanager.New(c.DatabaseDriver)
	if err != nil {
		return nil, err
	}

	db, err := repomanager.OpenDB(ctx, c.DatabaseDriver, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	return &App{
		config:        c,
		logger:        logger,
		db:            db,
		userService:   services.NewUserService(db, rm, c, logger),
		vaultService:  services.NewVaultService(db, rm, cipher, logger),
		folderService: services.NewFolderService(db, rm, logger),
		backupService: services.NewBackupService(db, rm, cipher, c, logger),
	}, nil
}

func (app *App) initSignalHandler(ctx context.Context, cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		defer signal.Stop(sigs)
		select {
		case s := <-sigs:
			app.logger.Info(ctx, "Signal received", "signal", s.String())
			cancelFunc()
		case <-ctx.Done():
		}
	}()
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) error {

	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger,
		app.userService, app.vaultService, app.folderService, app.backupService,
		app.config.SecretKey)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, "gRPC server failed", "error", err)
		cancelFunc()
		return err
	}
	return nil
}

// Run serves until ctx is cancelled or a termination signal arrives, then
// closes the database.
func (app *App) Run(ctx context.Context) error {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "driver", app.config.DatabaseDriver,
		"environment", app.config.Environment)

	app.initSignalHandler(ctx, cancelFunc)

	var (
		wg      sync.WaitGroup
		grpcErr error
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		grpcErr = app.startGRPCServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "closing database", "error", err)
	}

	app.logger.Info(ctx, "App stopped")
	return grpcErr
}
