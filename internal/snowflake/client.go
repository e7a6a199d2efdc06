package snowflake

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/ignite/measure-agent/internal/domain"
	"github.com/ignite/measure-agent/internal/pkg/sqlident"
)

const (
	adsTablePrefix  = "GOOGLE_ADS_"
	shopTablePrefix = "SHOPIFY_"
)

// Dates are stored as YYYY-MM-DD strings; TRY_TO_DATE drops rows that do
// not parse instead of failing the query. Per-day sums are joined so that a
// day present in only one source still counts.
const actualsQuery = `
WITH ads AS (
	SELECT TRY_TO_DATE("Date", 'YYYY-MM-DD') AS d, SUM("Cost") AS total_cost
	FROM %s
	WHERE TRY_TO_DATE("Date", 'YYYY-MM-DD') BETWEEN TO_DATE(?) AND TO_DATE(?)
	GROUP BY d
),
shop AS (
	SELECT TRY_TO_DATE("Date", 'YYYY-MM-DD') AS d, SUM("NetSales") AS total_revenue
	FROM %s
	WHERE TRY_TO_DATE("Date", 'YYYY-MM-DD') BETWEEN TO_DATE(?) AND TO_DATE(?)
	GROUP BY d
)
SELECT SUM(ads.total_cost) AS total_cost, SUM(shop.total_revenue) AS total_revenue
FROM ads
FULL OUTER JOIN shop ON ads.d = shop.d`

// Client provides access to the Snowflake warehouse holding ad spend and
// shop sales.
type Client struct {
	db           *sql.DB
	queryTimeout time.Duration
}

// NewClient opens a connection pool to Snowflake.
func NewClient(cfg Config, queryTimeout time.Duration) (*Client, error) {
	dsn, err := cfg.DSN()
	if err != nil {
		return nil, fmt.Errorf("build snowflake dsn: %w", err)
	}

	db, err := sql.Open("snowflake", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open snowflake connection: %w", err)
	}

	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	return NewClientWithDB(db, queryTimeout), nil
}

// NewClientWithDB wraps an existing pool.
func NewClientWithDB(db *sql.DB, queryTimeout time.Duration) *Client {
	return &Client{db: db, queryTimeout: queryTimeout}
}

// Close closes the database connection
func (c *Client) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// Ping tests the database connection
func (c *Client) Ping(ctx context.Context) error {
	return c.db.PingContext(ctx)
}

// FetchTotals sums ad cost and shop revenue for the client's tables over the
// inclusive period.
func (c *Client) FetchTotals(ctx context.Context, loc domain.WarehouseLocation, start, end domain.Date) (Totals, error) {
	adsTable, err := sqlident.Qualified(loc.Database, loc.Schema, adsTablePrefix+loc.TablePrefix)
	if err != nil {
		return Totals{}, err
	}
	shopTable, err := sqlident.Qualified(loc.Database, loc.Schema, shopTablePrefix+loc.TablePrefix)
	if err != nil {
		return Totals{}, err
	}

	if c.queryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.queryTimeout)
		defer cancel()
	}

	query := fmt.Sprintf(actualsQuery, adsTable, shopTable)
	from, to := start.String(), end.String()

	var cost, revenue sql.NullFloat64
	err = c.db.QueryRowContext(ctx, query, from, to, from, to).Scan(&cost, &revenue)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return Totals{}, fmt.Errorf("snowflake query failed for %s (%s.%s): %w",
			loc.TablePrefix, loc.Database, loc.Schema, err)
	}

	return Totals{Cost: cost.Float64, Revenue: revenue.Float64}, nil
}

// FetchActuals returns the requested metrics among cost, revenue and roas.
// Unknown metric names are left out of the map.
func (c *Client) FetchActuals(ctx context.Context, loc domain.WarehouseLocation, start, end domain.Date, metrics []string) (map[string]float64, error) {
	totals, err := c.FetchTotals(ctx, loc, start, end)
	if err != nil {
		return nil, err
	}

	out := make(map[string]float64, 3)
	if slices.Contains(metrics, domain.MetricCost) {
		out[domain.MetricCost] = totals.Cost
	}
	if slices.Contains(metrics, domain.MetricRevenue) {
		out[domain.MetricRevenue] = totals.Revenue
	}
	if slices.Contains(metrics, domain.MetricROAS) {
		out[domain.MetricROAS] = totals.ROAS()
	}
	return out, nil
}
