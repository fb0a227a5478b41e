package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"

	"github.com/Vishalsongara77/Task-App/api"
	"github.com/Vishalsongara77/Task-App/storage"
)

const (
	backendMemory = "memory"
	backendSQLite = storage.DriverSQLite
	backendMySQL  = storage.DriverMySQL
	backendTables = "tables"

	shutdownTimeout = 10 * time.Second
)

func storeFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "store",
			Usage:   "Task store backend: memory, sqlite, mysql or tables",
			Value:   backendMemory,
			Sources: cli.EnvVars("STORE_BACKEND"),
		},
		&cli.StringFlag{
			Name:    "dsn",
			Usage:   "Data source name for the sqlite or mysql store",
			Sources: cli.EnvVars("STORE_DSN"),
		},
		&cli.StringFlag{
			Name:    "storage-connection-string",
			Usage:   "Azure Storage connection string for the tables store and the event queue",
			Sources: cli.EnvVars("STORAGE_CONNECTION_STRING"),
		},
		&cli.StringFlag{
			Name:    "tasks-table",
			Usage:   "Azure table holding tasks",
			Value:   "tasks",
			Sources: cli.EnvVars("TASKS_TABLE"),
		},
		&cli.StringFlag{
			Name:    "events-queue",
			Usage:   "Azure queue receiving task change events",
			Sources: cli.EnvVars("TASK_EVENTS_QUEUE"),
		},
	}
}

// NewServeCommand returns the serve subcommand.
func NewServeCommand() *cli.Command {
	flags := append(storeFlags(),
		&cli.StringFlag{
			Name:    "addr",
			Usage:   "Address to listen on",
			Value:   ":8080",
			Sources: cli.EnvVars("TASKY_ADDR"),
		},
		&cli.StringFlag{
			Name:    "redis",
			Usage:   "Redis connection string enabling the list cache and idempotency keys",
			Sources: cli.EnvVars("REDIS_CONNECTION_STRING"),
		},
		&cli.DurationFlag{
			Name:    "cache-ttl",
			Usage:   "Lifetime of the cached task list",
			Value:   30 * time.Second,
			Sources: cli.EnvVars("TASKS_CACHE_TTL"),
		},
		&cli.DurationFlag{
			Name:    "dedupe-ttl",
			Usage:   "Lifetime of create idempotency keys",
			Value:   24 * time.Hour,
			Sources: cli.EnvVars("DEDUPER_TTL"),
		},
	)
	return &cli.Command{
		Name:   "serve",
		Usage:  "Run the task HTTP API",
		Flags:  flags,
		Action: runServe,
	}
}

func runServe(ctx context.Context, cmd *cli.Command) error {
	store, closeStore, err := openStore(ctx, cmd)
	if err != nil {
		return err
	}
	defer closeStore()

	var dedupe api.Deduper
	if conn := cmd.String("redis"); conn != "" {
		if cmd.Duration("dedupe-ttl") <= 0 {
			return errors.New("invalid dedupe-ttl: must be greater than zero")
		}
		rc := redis.NewClient(parseRedisOptions(conn))
		defer rc.Close()
		store = storage.NewCache(store, rc, cmd.Duration("cache-ttl"))
		dedupe = api.NewRedisDeduper(rc, cmd.Duration("dedupe-ttl"))
	}

	var pub api.Publisher
	if queue := cmd.String("events-queue"); queue != "" {
		connStr := cmd.String("storage-connection-string")
		if connStr == "" {
			return errors.New("events-queue requires storage-connection-string")
		}
		q, err := storage.NewEventQueue(connStr, queue)
		if err != nil {
			return fmt.Errorf("event queue: %w", err)
		}
		pub = q
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.Decompress())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, api.HeaderIdempotencyKey},
	}))

	logger := log.StandardLogger()
	api.Register(e, store, pub, dedupe, logger)

	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", cmd.String("addr")).Info("listening")
		errCh <- e.Start(cmd.String("addr"))
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	log.Info("shutting down")
	return e.Shutdown(shutdownCtx)
}

// openStore builds the backend named by --store. The returned func releases it.
func openStore(ctx context.Context, cmd *cli.Command) (api.Storage, func(), error) {
	noop := func() {}
	switch backend := cmd.String("store"); backend {
	case backendMemory:
		return storage.NewMemory(), noop, nil
	case backendSQLite, backendMySQL:
		dsn := cmd.String("dsn")
		if dsn == "" {
			return nil, noop, fmt.Errorf("store %s requires --dsn", backend)
		}
		db, err := storage.OpenSQL(ctx, backend, dsn)
		if err != nil {
			return nil, noop, fmt.Errorf("storage: %w", err)
		}
		return db, func() {
			if err := db.Close(); err != nil {
				log.WithError(err).Warn("close store")
			}
		}, nil
	case backendTables:
		connStr := cmd.String("storage-connection-string")
		if connStr == "" {
			return nil, noop, errors.New("missing storage config")
		}
		tables, err := storage.NewTables(connStr, cmd.String("tasks-table"))
		if err != nil {
			return nil, noop, fmt.Errorf("storage: %w", err)
		}
		return tables, noop, nil
	default:
		return nil, noop, fmt.Errorf("unknown store backend %q", backend)
	}
}
