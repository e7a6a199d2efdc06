// Package app builds the connection pools and services shared by the
// server and the CLI.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/redis/go-redis/v9"

	"github.com/ignite/measure-agent/internal/config"
	"github.com/ignite/measure-agent/internal/pkg/logger"
	"github.com/ignite/measure-agent/internal/repository/postgres"
	"github.com/ignite/measure-agent/internal/service/measure"
	"github.com/ignite/measure-agent/internal/service/onboarding"
	"github.com/ignite/measure-agent/internal/snowflake"
)

// App owns every long-lived resource. Close releases them.
type App struct {
	DB        *sql.DB
	Warehouse *snowflake.Client
	Redis     *redis.Client

	Measure    *measure.Service
	Onboarding *onboarding.Service
}

// ConfigureLogging applies the logging section to the default logger.
func ConfigureLogging(cfg config.LoggingConfig) {
	logger.SetLevel(logger.ParseLevel(cfg.Level))
	logger.SetRedactPII(cfg.Redact())
}

// New opens Postgres, Snowflake and (when configured) Redis, then wires
// the services.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	db, err := OpenPostgres(ctx, cfg.Postgres)
	if err != nil {
		return nil, err
	}
	a := &App{DB: db}

	sfCfg := WarehouseConfig(cfg.Snowflake)
	a.Warehouse, err = snowflake.NewClient(sfCfg, cfg.Snowflake.QueryTimeout())
	if err != nil {
		a.Close()
		return nil, err
	}
	logger.Info("snowflake client ready",
		"account", sfCfg.Account,
		"database", sfCfg.Database,
		"warehouse", sfCfg.Warehouse)

	if cfg.Redis.URL != "" {
		a.Redis, err = OpenRedis(ctx, cfg.Redis.URL)
		if err != nil {
			// Redis only backs locks and health, so run without it.
			logger.Warn("redis unavailable, continuing without it", "error", err)
			a.Redis = nil
		}
	}

	targets, err := postgres.NewTargetRepo(db, cfg.Postgres.TargetsTable)
	if err != nil {
		a.Close()
		return nil, err
	}
	clients := postgres.NewClientRepo(db, sfCfg.Database, sfCfg.Schema)

	a.Measure = measure.NewService(clients, targets, a.Warehouse)
	a.Onboarding = onboarding.NewService(clients, targets)
	return a, nil
}

// Close releases all pools, returning every close error.
func (a *App) Close() error {
	var errs []error
	if a.Warehouse != nil {
		errs = append(errs, a.Warehouse.Close())
	}
	if a.Redis != nil {
		errs = append(errs, a.Redis.Close())
	}
	if a.DB != nil {
		errs = append(errs, a.DB.Close())
	}
	return errors.Join(errs...)
}

// WarehouseConfig combines explicit Snowflake settings with those parsed
// from the connection string. Explicit settings win.
func WarehouseConfig(c config.SnowflakeConfig) snowflake.Config {
	explicit := snowflake.Config{
		Account:   c.Account,
		User:      c.User,
		Password:  c.Password,
		Database:  c.Database,
		Schema:    c.Schema,
		Warehouse: c.Warehouse,
		Role:      c.Role,
	}
	if c.ConnectionString == "" {
		return explicit
	}
	return explicit.Merge(snowflake.ParseConnectionString(c.ConnectionString))
}

// OpenPostgres opens and pings the target store.
func OpenPostgres(ctx context.Context, c config.PostgresConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", c.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(c.MaxOpenConns)
	db.SetMaxIdleConns(c.MaxIdleConns)
	db.SetConnMaxLifetime(c.ConnMaxLifetime())

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres at %s: %w", extractHost(c.DatabaseURL), err)
	}
	logger.Info("postgres connected", "host", extractHost(c.DatabaseURL))
	return db, nil
}

// OpenRedis accepts a redis:// URL or a bare host:port.
func OpenRedis(ctx context.Context, url string) (*redis.Client, error) {
	var client *redis.Client
	if opts, err := redis.ParseURL(url); err == nil {
		client = redis.NewClient(opts)
	} else {
		client = redis.NewClient(&redis.Options{Addr: url})
	}

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// extractHost returns the host part of a DSN without credentials.
func extractHost(dsn string) string {
	at := strings.LastIndex(dsn, "@")
	if at < 0 {
		return "(unknown)"
	}
	rest := dsn[at+1:]
	if slash := strings.IndexAny(rest, "/?"); slash >= 0 {
		rest = rest[:slash]
	}
	return rest
}
