// Package server wires the invoice archive together: PostgreSQL index,
// S3 presigning, the gRPC API and the HTTP PDF endpoint, run side by side
// until a signal arrives or one of them fails.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/dmitrijs2005/autobody/internal/export"
	"github.com/dmitrijs2005/autobody/internal/logging"
	"github.com/dmitrijs2005/autobody/internal/server/auth"
	"github.com/dmitrijs2005/autobody/internal/server/config"
	"github.com/dmitrijs2005/autobody/internal/server/httpapi"
	"github.com/dmitrijs2005/autobody/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/autobody/internal/server/services"
	"github.com/dmitrijs2005/autobody/internal/server/storage"

	gs "github.com/dmitrijs2005/autobody/internal/server/grpc"
)

// runner is a long-lived server that stops when its context is done.
type runner interface {
	Run(ctx context.Context) error
}

type App struct {
	config  *config.Config
	logger  logging.Logger
	db      *sql.DB
	runners map[string]runner
}

func parseLogLevel(s string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo
	}
	return l
}

// NewApp connects to PostgreSQL, applies migrations and builds both servers.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout, parseLogLevel(c.LogLevel))

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations failed: %w", err)
	}

	authenticator, err := auth.NewAuthenticator(c.AdminUser, c.AdminPasswordHash, c.AdminPassword)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("auth init error: %w", err)
	}

	authService := services.NewAuthService(authenticator, c)
	archiveService := services.NewArchiveService(db, rm, storage.NewS3Store(c))

	pipeline := export.New(c.ExportConfig(), export.ResponseDeliverer{},
		export.WithLogger(logger.With("component", "export")))

	return &App{
		config: c,
		logger: logger,
		db:     db,
		runners: map[string]runner{
			"grpc": gs.NewGRPCServer(c.EndpointAddrGRPC, logger, authService, archiveService),
			"http": httpapi.NewServer(c.EndpointAddrHTTP, logger, pipeline),
		},
	}, nil
}

// initSignalHandler cancels on SIGINT, SIGTERM or SIGQUIT until the
// returned stop function is called.
func (app *App) initSignalHandler(cancelFunc context.CancelFunc) (stop func()) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	done := make(chan struct{})
	go func() {
		select {
		case <-sigs:
			cancelFunc()
		case <-done:
		}
	}()

	return func() {
		signal.Stop(sigs)
		close(done)
	}
}

// Run serves until ctx is cancelled, a signal arrives or a server fails.
// The first server error is returned.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")
	stopSignals := app.initSignalHandler(cancelFunc)
	defer stopSignals()

	var (
		wg       sync.WaitGroup
		once     sync.Once
		firstErr error
	)
	for name, r := range app.runners {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := r.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				app.logger.Error(ctx, "server failed", "server", name, "error", err)
				once.Do(func() { firstErr = fmt.Errorf("%s server: %w", name, err) })
				cancelFunc()
			}
		}()
	}

	wg.Wait()

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Warn(ctx, "closing database", "error", err)
		}
	}

	app.logger.Info(ctx, "App stopped")
	return firstErr
}
