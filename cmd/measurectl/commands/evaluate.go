package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ignite/measure-agent/internal/domain"
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Evaluate client metrics for a period",
	Long: `Pulls actuals from the warehouse and active targets from Postgres,
then prints the measure response as JSON.

Example:
  measurectl evaluate --client acme --start 2025-01-01 --end 2025-01-31 --metric roas,cost
  measurectl evaluate --client acme --start 2025-01-01 --end 2025-01-31 --metric roas --slack`,
	RunE: runEvaluate,
}

var (
	evalClient  string
	evalStart   string
	evalEnd     string
	evalMetrics []string
	evalSlack   bool
)

func init() {
	rootCmd.AddCommand(evaluateCmd)

	evaluateCmd.Flags().StringVar(&evalClient, "client", "", "client id")
	evaluateCmd.Flags().StringVar(&evalStart, "start", "", "period start (YYYY-MM-DD)")
	evaluateCmd.Flags().StringVar(&evalEnd, "end", "", "period end (YYYY-MM-DD)")
	evaluateCmd.Flags().StringSliceVar(&evalMetrics, "metric", []string{domain.MetricROAS, domain.MetricRevenue, domain.MetricCost}, "metrics to evaluate")
	evaluateCmd.Flags().BoolVar(&evalSlack, "slack", false, "print only the slack message")
	_ = evaluateCmd.MarkFlagRequired("client")
	_ = evaluateCmd.MarkFlagRequired("start")
	_ = evaluateCmd.MarkFlagRequired("end")
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	start, err := domain.ParseDate(evalStart)
	if err != nil {
		return fmt.Errorf("--start: %w", err)
	}
	end, err := domain.ParseDate(evalEnd)
	if err != nil {
		return fmt.Errorf("--end: %w", err)
	}

	req := domain.MeasureRequest{
		ClientID:    evalClient,
		PeriodStart: start,
		PeriodEnd:   end,
		Metrics:     evalMetrics,
	}

	return withBackend(cmd, func(ctx context.Context, b backend) error {
		resp, err := b.Evaluate(ctx, req)
		if err != nil {
			return err
		}
		if evalSlack {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), resp.SlackMessage)
			return err
		}
		return printJSON(cmd.OutOrStdout(), resp)
	})
}
