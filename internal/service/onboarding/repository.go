package onboarding

import (
	"context"

	"github.com/ignite/measure-agent/internal/domain"
)

// ClientRepository defines the data access contract for client rows.
type ClientRepository interface {
	ClientExists(ctx context.Context, clientID string) (bool, error)

	// GetClientConfig returns domain.ErrClientNotFound for unknown clients.
	GetClientConfig(ctx context.Context, clientID string) (*domain.ClientConfig, error)

	// UpsertClientConfig inserts the client or replaces its name and config.
	UpsertClientConfig(ctx context.Context, c *domain.ClientConfig) error
}

// TargetRepository defines the data access contract for target rows.
type TargetRepository interface {
	// UpsertTarget inserts t unless the same client, metric and period
	// already exist. It reports whether a row was written.
	UpsertTarget(ctx context.Context, t *domain.Target) (bool, error)
}
