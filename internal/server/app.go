// Package server wires the tweeter server together: configuration, logging,
// the Postgres store and its migrations, the token codec and password hasher,
// the services and the gRPC endpoint. It also handles graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/tweeter/internal/logging"
	"github.com/dmitrijs2005/tweeter/internal/server/auth"
	"github.com/dmitrijs2005/tweeter/internal/server/config"
	"github.com/dmitrijs2005/tweeter/internal/server/password"
	"github.com/dmitrijs2005/tweeter/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/tweeter/internal/server/services"

	gs "github.com/dmitrijs2005/tweeter/internal/server/grpc"

	_ "github.com/jackc/pgx/v5/stdlib"
)

const startupTimeout = 30 * time.Second

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	server *gs.GRPCServer
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel, "app", "tweeter")

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, startupTimeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	params := password.DefaultParams()
	params.Memory = c.Argon2Memory
	params.Time = c.Argon2Time
	params.Threads = c.Argon2Threads
	hasher, err := password.NewArgon2(params)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("hasher init error: %w", err)
	}

	codec := auth.NewCodec(c)

	as := services.NewAuthService(db, rm, codec, hasher, logger)
	us := services.NewUserService(db, rm, logger)
	ts := services.NewTweetService(db, rm, logger)

	s := gs.NewGRPCServer(c.EndpointAddrGRPC, logger, as, us, ts, codec)

	return &App{config: c, logger: logger, db: db, server: s}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.server.Run(ctx); err != nil {
		app.logger.Error(ctx, "grpc server stopped", "err", err)
		cancelFunc()
	}
}

// Run serves until a termination signal arrives or the server fails, then
// closes the database.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "addr", app.config.EndpointAddrGRPC)

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "err", err)
	}
	app.logger.Info(ctx, "Stopped")
}
