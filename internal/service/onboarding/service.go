package onboarding

import (
	"context"
	"fmt"
	"strings"

	"github.com/ignite/measure-agent/internal/domain"
	"github.com/ignite/measure-agent/internal/pkg/logger"
	"github.com/ignite/measure-agent/internal/pkg/sqlident"
)

// Service implements client and target onboarding.
type Service struct {
	clients ClientRepository
	targets TargetRepository
}

// NewService creates an onboarding service.
func NewService(clients ClientRepository, targets TargetRepository) *Service {
	return &Service{clients: clients, targets: targets}
}

// ClientExists reports whether the client has been onboarded.
func (s *Service) ClientExists(ctx context.Context, clientID string) (bool, error) {
	clientID = strings.TrimSpace(clientID)
	if clientID == "" {
		return false, fmt.Errorf("%w: client_id is required", ErrInvalidClient)
	}
	return s.clients.ClientExists(ctx, clientID)
}

// GetClient returns the stored client config.
func (s *Service) GetClient(ctx context.Context, clientID string) (*domain.ClientConfig, error) {
	clientID = strings.TrimSpace(clientID)
	if clientID == "" {
		return nil, fmt.Errorf("%w: client_id is required", ErrInvalidClient)
	}
	return s.clients.GetClientConfig(ctx, clientID)
}

// UpsertClient creates or updates a client. Warehouse names end up in SQL
// and must be plain identifiers.
func (s *Service) UpsertClient(ctx context.Context, c *domain.ClientConfig) error {
	c.ClientID = strings.TrimSpace(c.ClientID)
	if c.ClientID == "" {
		return fmt.Errorf("%w: client_id is required", ErrInvalidClient)
	}
	if c.TablePrefix == "" {
		return fmt.Errorf("%w: table_prefix is required", ErrInvalidClient)
	}
	idents := []struct{ field, value string }{
		{"database", c.Database},
		{"schema", c.Schema},
		{"table_prefix", c.TablePrefix},
	}
	for _, id := range idents {
		if id.value == "" {
			continue
		}
		if _, err := sqlident.Validate(id.value); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidClient, id.field, err)
		}
	}

	if err := s.clients.UpsertClientConfig(ctx, c); err != nil {
		return err
	}
	logger.Info("client upserted", "client_id", c.ClientID, "table_prefix", c.TablePrefix)
	return nil
}

// UpsertTarget validates t and stores it for an existing client. An
// identical client/metric/period row is left untouched.
func (s *Service) UpsertTarget(ctx context.Context, t *domain.Target) (bool, error) {
	if err := validateTarget(t); err != nil {
		return false, err
	}

	exists, err := s.clients.ClientExists(ctx, t.ClientID)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, fmt.Errorf("%w: %s", domain.ErrClientNotFound, t.ClientID)
	}

	inserted, err := s.targets.UpsertTarget(ctx, t)
	if err != nil {
		return false, err
	}
	logger.Info("target upserted",
		"client_id", t.ClientID,
		"metric", t.MetricName,
		"type", string(t.Type),
		"inserted", inserted)
	return inserted, nil
}

func validateTarget(t *domain.Target) error {
	t.ClientID = strings.TrimSpace(t.ClientID)
	t.MetricName = strings.TrimSpace(t.MetricName)
	t.Type = domain.TargetType(strings.ToUpper(strings.TrimSpace(string(t.Type))))

	switch {
	case t.ClientID == "":
		return fmt.Errorf("%w: client_id is required", ErrInvalidTarget)
	case t.MetricName == "":
		return fmt.Errorf("%w: metric_name is required", ErrInvalidTarget)
	case !t.Type.Valid():
		return fmt.Errorf("%w: target_type must be MIN, MAX or RANGE, got %q", ErrInvalidTarget, t.Type)
	case t.PeriodStart.IsZero() || t.PeriodEnd.IsZero():
		return fmt.Errorf("%w: period_start and period_end are required", ErrInvalidTarget)
	case t.PeriodEnd.Before(t.PeriodStart.Time):
		return fmt.Errorf("%w: period_end is before period_start", ErrInvalidTarget)
	}

	if t.Type == domain.TargetRange {
		if t.Lower == nil || t.Upper == nil {
			return fmt.Errorf("%w: RANGE needs lower_bound and upper_bound", ErrInvalidTarget)
		}
		if *t.Lower > *t.Upper {
			return fmt.Errorf("%w: lower_bound exceeds upper_bound", ErrInvalidTarget)
		}
	} else if t.Value == nil {
		return fmt.Errorf("%w: %s needs target_value", ErrInvalidTarget, t.Type)
	}

	switch t.Status {
	case "":
		t.Status = domain.TargetActive
	case domain.TargetActive, domain.TargetInactive:
	default:
		return fmt.Errorf("%w: unknown status %q", ErrInvalidTarget, t.Status)
	}
	return nil
}
