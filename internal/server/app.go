// Package server wires configuration, storage, media signing and the REST
// transport together and runs them until the process is asked to stop.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/profilehub/internal/logging"
	"github.com/dmitrijs2005/profilehub/internal/server/auth"
	"github.com/dmitrijs2005/profilehub/internal/server/config"
	"github.com/dmitrijs2005/profilehub/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/profilehub/internal/server/services"
	"github.com/dmitrijs2005/profilehub/internal/server/storage"

	hs "github.com/dmitrijs2005/profilehub/internal/server/http"
)

// Seams for tests.
var (
	openDB = func(dsn string) (*sql.DB, error) {
		return sql.Open("pgx", dsn)
	}
	newRepositoryManager = repomanager.NewPostgresRepositoryManager
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	server *hs.HTTPServer
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger := logging.NewJSONLogger(os.Stdout, slog.LevelInfo)

	codec, err := auth.NewCodec([]byte(c.SecretKey), c.AccessTokenValidityDuration)
	if err != nil {
		return nil, fmt.Errorf("token codec init error: %w", err)
	}

	db, err := openDB(c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	m := newRepositoryManager()
	if err := m.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	media := storage.NewPresigner(c)

	svc := hs.Services{
		Users:     services.NewUserService(db, m, codec),
		Profiles:  services.NewProfileService(db, m, media, logger.With("module", "profiles")),
		Reactions: services.NewReactionService(db, m),
		Comments:  services.NewCommentService(db, m),
		Roles:     services.NewRoleService(db, m),
	}

	s := hs.NewHTTPServer(c.HTTPAddr, logger, hs.NewGate(codec), svc)

	return &App{config: c, logger: logger, db: db, server: s}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.server.Run(ctx); err != nil {
		app.logger.Error(ctx, "HTTP server stopped", "error", err)
		cancelFunc()
	}
}

// Run blocks until a termination signal arrives, ctx is cancelled or the
// HTTP server fails. The database pool is closed on the way out.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close failed", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
}
