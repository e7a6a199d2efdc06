package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ignite/measure-agent/internal/domain"
)

// ClientRepo reads client rows and their dataslayer_config JSON.
type ClientRepo struct {
	db              *sql.DB
	defaultDatabase string
	defaultSchema   string
}

// NewClientRepo creates a client repository. The defaults are used when a
// client's dataslayer_config does not name a database or schema.
func NewClientRepo(db *sql.DB, defaultDatabase, defaultSchema string) *ClientRepo {
	return &ClientRepo{db: db, defaultDatabase: defaultDatabase, defaultSchema: defaultSchema}
}

// FetchWarehouseLocation resolves where the client's warehouse tables live.
func (r *ClientRepo) FetchWarehouseLocation(ctx context.Context, clientID string) (domain.WarehouseLocation, error) {
	var database, schema, prefix sql.NullString
	err := r.db.QueryRowContext(ctx, `
		SELECT
		  dataslayer_config->>'database'     AS database,
		  dataslayer_config->>'schema'       AS schema,
		  dataslayer_config->>'table_prefix' AS table_prefix
		FROM clients
		WHERE client_id = $1
		LIMIT 1
	`, clientID).Scan(&database, &schema, &prefix)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.WarehouseLocation{}, fmt.Errorf("%w: %s", domain.ErrClientNotFound, clientID)
	}
	if err != nil {
		return domain.WarehouseLocation{}, fmt.Errorf("fetch client config: %w", err)
	}
	if prefix.String == "" {
		return domain.WarehouseLocation{}, fmt.Errorf("%w: %s", domain.ErrTablePrefixMissing, clientID)
	}
	return domain.WarehouseLocation{
		Database:    orDefault(database, r.defaultDatabase),
		Schema:      orDefault(schema, r.defaultSchema),
		TablePrefix: prefix.String,
	}, nil
}

// orDefault treats NULL and the empty string alike, since older rows may
// still carry "database": "".
func orDefault(v sql.NullString, def string) string {
	if v.String == "" {
		return def
	}
	return v.String
}

// ClientExists reports whether a clients row exists.
func (r *ClientRepo) ClientExists(ctx context.Context, clientID string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM clients WHERE client_id = $1)`,
		clientID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("client exists: %w", err)
	}
	return exists, nil
}

// GetClientConfig returns the stored client row with defaults applied.
func (r *ClientRepo) GetClientConfig(ctx context.Context, clientID string) (*domain.ClientConfig, error) {
	var (
		c                        domain.ClientConfig
		name                     sql.NullString
		database, schema, prefix sql.NullString
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT client_id, client_name,
		  dataslayer_config->>'database',
		  dataslayer_config->>'schema',
		  dataslayer_config->>'table_prefix'
		FROM clients
		WHERE client_id = $1
	`, clientID).Scan(&c.ClientID, &name, &database, &schema, &prefix)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", domain.ErrClientNotFound, clientID)
	}
	if err != nil {
		return nil, fmt.Errorf("get client config: %w", err)
	}
	c.ClientName = stringPtr(name)
	c.Database = orDefault(database, r.defaultDatabase)
	c.Schema = orDefault(schema, r.defaultSchema)
	c.TablePrefix = prefix.String
	return &c, nil
}

// UpsertClientConfig inserts the client or replaces its name and config.
// Empty database or schema are left out of the JSON so reads fall back to
// the defaults.
func (r *ClientRepo) UpsertClientConfig(ctx context.Context, c *domain.ClientConfig) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO clients (client_id, client_name, dataslayer_config, updated_at)
		VALUES ($1, $2,
		        jsonb_strip_nulls(jsonb_build_object(
		          'database', NULLIF($3::text, ''),
		          'schema', NULLIF($4::text, ''),
		          'table_prefix', $5::text
		        )),
		        NOW())
		ON CONFLICT (client_id) DO UPDATE
		  SET client_name = EXCLUDED.client_name,
		      dataslayer_config = EXCLUDED.dataslayer_config,
		      updated_at = NOW()
	`, c.ClientID, c.ClientName, c.Database, c.Schema, c.TablePrefix)
	if err != nil {
		return fmt.Errorf("upsert client config: %w", err)
	}
	return nil
}
