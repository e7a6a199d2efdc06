package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/ignite/measure-agent/internal/domain"
)

var targetCmd = &cobra.Command{
	Use:   "target",
	Short: "Manage metric targets",
}

var targetUpsertCmd = &cobra.Command{
	Use:   "upsert",
	Short: "Add a target for a client metric and period",
	Long: `Inserts a target row. An existing row for the same client, metric
and period is kept as is.

Examples:
  measurectl target upsert --client acme --metric roas --type MIN --value 3 --start 2025-01-01 --end 2025-01-31
  measurectl target upsert --client acme --metric cost --type RANGE --lower 100 --upper 250 --currency USD \
    --start 2025-01-01 --end 2025-01-31`,
	RunE: runTargetUpsert,
}

var (
	targetClient   string
	targetMetric   string
	targetType     string
	targetValue    float64
	targetLower    float64
	targetUpper    float64
	targetCurrency string
	targetStart    string
	targetEnd      string
	targetStatus   string
)

func init() {
	rootCmd.AddCommand(targetCmd)
	targetCmd.AddCommand(targetUpsertCmd)

	f := targetUpsertCmd.Flags()
	f.StringVar(&targetClient, "client", "", "client id")
	f.StringVar(&targetMetric, "metric", "", "metric name (roas, revenue, cost, ...)")
	f.StringVar(&targetType, "type", "", "MIN, MAX or RANGE")
	f.Float64Var(&targetValue, "value", 0, "target value for MIN/MAX")
	f.Float64Var(&targetLower, "lower", 0, "lower bound for RANGE")
	f.Float64Var(&targetUpper, "upper", 0, "upper bound for RANGE")
	f.StringVar(&targetCurrency, "currency", "", "currency code")
	f.StringVar(&targetStart, "start", "", "period start (YYYY-MM-DD)")
	f.StringVar(&targetEnd, "end", "", "period end (YYYY-MM-DD)")
	f.StringVar(&targetStatus, "status", string(domain.TargetActive), "ACTIVE or INACTIVE")
	for _, name := range []string{"client", "metric", "type", "start", "end"} {
		_ = targetUpsertCmd.MarkFlagRequired(name)
	}
}

func runTargetUpsert(cmd *cobra.Command, args []string) error {
	t, err := targetFromFlags(cmd.Flags())
	if err != nil {
		return err
	}

	return withBackend(cmd, func(ctx context.Context, b backend) error {
		inserted, err := b.UpsertTarget(ctx, t)
		if err != nil {
			return err
		}
		if !inserted {
			fmt.Fprintln(cmd.ErrOrStderr(), "target already exists, left unchanged")
		}
		return printJSON(cmd.OutOrStdout(), t)
	})
}

// targetFromFlags leaves numeric fields nil unless their flag was set.
func targetFromFlags(f *pflag.FlagSet) (*domain.Target, error) {
	start, err := domain.ParseDate(targetStart)
	if err != nil {
		return nil, fmt.Errorf("--start: %w", err)
	}
	end, err := domain.ParseDate(targetEnd)
	if err != nil {
		return nil, fmt.Errorf("--end: %w", err)
	}

	t := &domain.Target{
		ClientID:    targetClient,
		MetricName:  targetMetric,
		PeriodStart: start,
		PeriodEnd:   end,
		Status:      domain.TargetStatus(targetStatus),
		TargetDefinition: domain.TargetDefinition{
			Type: domain.TargetType(targetType),
		},
	}
	if f.Changed("value") {
		v := targetValue
		t.Value = &v
	}
	if f.Changed("lower") {
		v := targetLower
		t.Lower = &v
	}
	if f.Changed("upper") {
		v := targetUpper
		t.Upper = &v
	}
	if f.Changed("currency") {
		c := targetCurrency
		t.Currency = &c
	}
	return t, nil
}
