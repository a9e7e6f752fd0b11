// Package server wires the files manager together: it opens PostgreSQL and
// Redis, builds the storage backend, the job queue and the services, and runs
// the HTTP API, the gRPC health endpoint and (optionally) the thumbnail
// workers until the process is signalled.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrijs2005/filesmanager/internal/logging"
	"github.com/dmitrijs2005/filesmanager/internal/server/auth"
	"github.com/dmitrijs2005/filesmanager/internal/server/cache"
	"github.com/dmitrijs2005/filesmanager/internal/server/config"
	gs "github.com/dmitrijs2005/filesmanager/internal/server/grpc"
	"github.com/dmitrijs2005/filesmanager/internal/server/httpapi"
	"github.com/dmitrijs2005/filesmanager/internal/server/queue"
	"github.com/dmitrijs2005/filesmanager/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/filesmanager/internal/server/services"
	"github.com/dmitrijs2005/filesmanager/internal/server/session"
	"github.com/dmitrijs2005/filesmanager/internal/server/storage"
	"github.com/dmitrijs2005/filesmanager/internal/server/thumbnail"
)

var errMemoryQueueStandalone = errors.New("the memory queue cannot be shared with a standalone worker")

// infra holds the connections shared by the API process and the worker.
type infra struct {
	db      *sql.DB
	redis   *redis.Client
	repos   repomanager.RepositoryManager
	storage storage.Storage
	queue   queue.Queue
}

func openInfra(ctx context.Context, cfg *config.Config, logger logging.Logger) (*infra, error) {
	db, err := repomanager.OpenPostgres(ctx, cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	repos := repomanager.NewPostgresRepositoryManager()
	if err := repos.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	rc, err := cache.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("redis init error: %w", err)
	}

	in := &infra{db: db, redis: rc, repos: repos}

	if in.storage, err = newStorage(ctx, cfg); err != nil {
		in.close()
		return nil, err
	}
	if in.queue, err = newQueue(cfg, rc, logger); err != nil {
		in.close()
		return nil, err
	}

	return in, nil
}

func (in *infra) close() {
	if in.redis != nil {
		_ = in.redis.Close()
	}
	if in.db != nil {
		_ = in.db.Close()
	}
}

func newStorage(ctx context.Context, cfg *config.Config) (storage.Storage, error) {
	switch cfg.StorageBackend {
	case config.StorageLocal, "":
		return storage.NewLocal(), nil
	case config.StorageS3:
		s3, err := storage.NewS3(ctx, storage.S3Config{
			Region:       cfg.S3Region,
			AccessKey:    cfg.S3RootUser,
			SecretKey:    cfg.S3RootPassword,
			BaseEndpoint: cfg.S3BaseEndpoint,
			Bucket:       cfg.S3Bucket,
		})
		if err != nil {
			return nil, fmt.Errorf("s3 init error: %w", err)
		}
		return s3, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}

func newQueue(cfg *config.Config, client redis.Cmdable, logger logging.Logger) (queue.Queue, error) {
	opts := queue.Options{
		MaxAttempts: cfg.ThumbnailMaxAttempts,
		Logger:      logger,
		OnFailed: func(payload []byte, attempts int, err error) {
			logger.Error(context.Background(), "thumbnail job failed",
				"payload", string(payload),
				"attempts", attempts,
				"error", err,
			)
		},
	}

	switch cfg.QueueBackend {
	case config.QueueRedis, "":
		return queue.NewRedis(client, cfg.ThumbnailQueue, opts), nil
	case config.QueueMemory:
		return queue.NewMemory(opts), nil
	default:
		return nil, fmt.Errorf("unknown queue backend %q", cfg.QueueBackend)
	}
}

func newWorker(in *infra, cfg *config.Config, logger logging.Logger) *thumbnail.Worker {
	return thumbnail.NewWorker(in.repos.Files(in.db), in.storage, cfg.ThumbnailWidths, logger)
}

// signalContext is cancelled on SIGINT, SIGTERM or SIGQUIT.
func signalContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
}

type App struct {
	config *config.Config
	logger logging.Logger
	infra  *infra

	http   *httpapi.Server
	health *gs.HealthServer
	worker *thumbnail.Worker
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)

	in, err := openInfra(ctx, c, logger)
	if err != nil {
		return nil, err
	}

	rc := cache.NewRedisCache(in.redis)
	sessions := session.NewStore(rc, c.SessionTTL)
	resolver := auth.NewResolver(sessions, in.repos.Users(in.db))

	us := services.NewUserService(in.db, in.repos, sessions, rc)
	fs := services.NewFileService(in.db, in.repos, in.storage, thumbnail.NewProducer(in.queue), c.FolderPath, logger)

	app := &App{
		config: c,
		logger: logger,
		infra:  in,
		http:   httpapi.NewServer(c.EndpointAddrHTTP, logger, fs, us, resolver),
	}
	if c.EndpointAddrGRPC != "" {
		app.health = gs.NewHealthServer(c.EndpointAddrGRPC, logger, us, gs.DefaultProbeInterval)
	}
	if c.RunWorker {
		app.worker = newWorker(in, c, logger)
	}

	return app, nil
}

// Run serves until ctx is done or the process receives a termination signal,
// then releases the database and Redis connections.
func (app *App) Run(ctx context.Context) error {
	ctx, stop := signalContext(ctx)
	defer stop()
	defer app.infra.close()

	app.logger.Info(ctx, "Starting app...")

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error { return app.http.Run(gctx) })

	if app.health != nil {
		g.Go(func() error { return app.health.Run(gctx) })
	}

	if app.worker != nil {
		g.Go(func() error {
			return app.worker.Run(gctx, app.infra.queue, app.config.ThumbnailWorkers)
		})
	} else if app.config.QueueBackend == config.QueueMemory {
		app.logger.Warn(ctx, "memory queue without in-process workers: thumbnails will not be generated")
	}

	err := g.Wait()
	app.logger.Info(context.Background(), "App stopped")
	return err
}
