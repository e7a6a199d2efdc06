package measure

import (
	"context"

	"github.com/ignite/measure-agent/internal/domain"
)

// ClientConfigStore resolves where a client's warehouse data lives.
type ClientConfigStore interface {
	// FetchWarehouseLocation returns domain.ErrClientNotFound for unknown
	// clients and domain.ErrTablePrefixMissing when the prefix is unset.
	FetchWarehouseLocation(ctx context.Context, clientID string) (domain.WarehouseLocation, error)
}

// TargetStore loads active targets overlapping a period.
type TargetStore interface {
	FetchTargets(ctx context.Context, clientID string, start, end domain.Date, metrics []string) (map[string]domain.TargetDefinition, error)
}

// ActualsSource computes metric actuals from the warehouse.
type ActualsSource interface {
	FetchActuals(ctx context.Context, loc domain.WarehouseLocation, start, end domain.Date, metrics []string) (map[string]float64, error)
}
