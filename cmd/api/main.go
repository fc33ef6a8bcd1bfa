package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/HARSHITRANA2447/fashion-lookbook/internal/config"
	"github.com/HARSHITRANA2447/fashion-lookbook/internal/db"
	"github.com/HARSHITRANA2447/fashion-lookbook/internal/logger"
	"github.com/HARSHITRANA2447/fashion-lookbook/internal/server"
	"github.com/HARSHITRANA2447/fashion-lookbook/internal/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

var mainDepsProvider = defaultDeps
var mainRunner = realMain

func main() {
	mainRunner(mainDepsProvider())
}

type mainDeps struct {
	loadConfig      func() config.Config
	connectPostgres func(config.Config) (*pgxpool.Pool, error)
	connectRedis    func(config.Config) *redis.Client
	connectStorage  func(config.Config) storage.ObjectStorage
	notify          func(chan<- os.Signal, ...os.Signal)
	run             func(context.Context, config.Config, *pgxpool.Pool, *redis.Client, storage.ObjectStorage, <-chan os.Signal, ListenFunc) error
}

func defaultDeps() mainDeps {
	return mainDeps{
		loadConfig:      config.Load,
		connectPostgres: db.ConnectPostgres,
		connectRedis:    db.ConnectRedis,
		connectStorage:  connectObjectStorage,
		notify:          signal.Notify,
		run:             Run,
	}
}

func realMain(deps mainDeps) {
	cfg := deps.loadConfig()
	logger.InitFromConfig(cfg)

	pg, err := deps.connectPostgres(cfg)
	if err != nil {
		logger.Error("postgres connection failed", "error", err)
	}

	rdb := deps.connectRedis(cfg)
	objects := deps.connectStorage(cfg)

	signals := make(chan os.Signal, 1)
	deps.notify(signals, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("starting server", "addr", cfg.ServerPort)
	if err := deps.run(context.Background(), cfg, pg, rdb, objects, signals, nil); err != nil {
		logger.Error("server exited with error", "error", err)
	}
}

// connectObjectStorage returns the MinIO backend, or nil when it is not
// configured or cannot be built.
func connectObjectStorage(cfg config.Config) storage.ObjectStorage {
	client, err := storage.NewMinioClient(cfg.Minio)
	if errors.Is(err, storage.ErrNotConfigured) {
		logger.Info("object storage disabled, uploads will fail")
		return nil
	}
	if err != nil {
		logger.Error("object storage setup failed", "error", err)
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.EnsureBucket(ctx); err != nil {
		logger.Warn("ensure bucket failed", "bucket", client.Bucket(), "error", err)
	}
	return client
}

type ListenFunc func(app *fiber.App, addr string) error

var defaultListen ListenFunc = func(app *fiber.App, addr string) error {
	return app.Listen(addr)
}

var shutdownFn = func(app *fiber.App, ctx context.Context) error {
	return app.ShutdownWithContext(ctx)
}

// Run starts the HTTP server and waits for termination signals.
func Run(ctx context.Context, cfg config.Config, pg *pgxpool.Pool, rdb *redis.Client, objects storage.ObjectStorage, signals <-chan os.Signal, listen ListenFunc) error {
	srv := server.NewServer(cfg, pg, rdb, objects)

	if listen == nil {
		listen = defaultListen
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- listen(srv.App, cfg.ServerPort)
	}()

	select {
	case <-signals:
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := shutdownFn(srv.App, shutdownCtx); err != nil {
		return err
	}
	if pg != nil {
		pg.Close()
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	return nil
}
