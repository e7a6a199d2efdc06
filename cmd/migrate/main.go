package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ignite/measure-agent/internal/app"
	"github.com/ignite/measure-agent/internal/config"
	"github.com/ignite/measure-agent/internal/pkg/distlock"
	"github.com/ignite/measure-agent/internal/pkg/logger"
	"github.com/ignite/measure-agent/internal/repository/postgres"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	dir := flag.String("dir", "migrations", "directory of .sql migration files")
	flag.Parse()

	cfg, err := config.LoadFromEnv(*configPath)
	if err != nil {
		fatal("load config", err)
	}
	app.ConfigureLogging(cfg.Logging)
	if cfg.Postgres.DatabaseURL == "" {
		fatal("config", errors.New("DATABASE_URL is required"))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	db, err := app.OpenPostgres(ctx, cfg.Postgres)
	if err != nil {
		fatal("connect", err)
	}
	defer db.Close()

	redisClient, err := openOptionalRedis(ctx, cfg.Redis.URL)
	if err != nil {
		logger.Warn("redis unavailable, using postgres advisory lock", "error", err)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	lock := distlock.NewLock(redisClient, db, "measure-agent:migrate", 5*time.Minute)
	if err := runMigrations(ctx, lock, db, *dir); err != nil {
		fatal("migrate", err)
	}
}

// runMigrations applies dir under lock. Losing the lock to another instance
// is not an error.
func runMigrations(ctx context.Context, lock distlock.Locker, db *sql.DB, dir string) error {
	err := distlock.WithLock(ctx, lock, func(ctx context.Context) error {
		n, err := postgres.ApplyMigrations(ctx, db, dir)
		if err != nil {
			return err
		}
		logger.Info("migrations complete", "applied", n, "dir", dir)
		return nil
	})
	if errors.Is(err, distlock.ErrNotAcquired) {
		logger.Info("another instance is migrating, skipping")
		return nil
	}
	return err
}

func openOptionalRedis(ctx context.Context, url string) (*redis.Client, error) {
	if url == "" {
		return nil, nil
	}
	return app.OpenRedis(ctx, url)
}

func fatal(step string, err error) {
	logger.Error("migrate failed", "step", step, "error", err)
	logger.Sync()
	os.Exit(1)
}
