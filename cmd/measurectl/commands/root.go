package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ignite/measure-agent/internal/app"
	"github.com/ignite/measure-agent/internal/config"
	"github.com/ignite/measure-agent/internal/domain"
	"github.com/ignite/measure-agent/internal/pkg/logger"
)

var (
	// Global flags
	configFile string
	verbose    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "measurectl",
	Short: "DMAIC Measure Agent CLI",
	Long: `measurectl evaluates client metrics against their targets and manages
client onboarding without going through the HTTP API.

Examples:
  measurectl evaluate --client acme --start 2025-01-01 --end 2025-01-31 --metric roas,revenue,cost
  measurectl client upsert --client acme --prefix acme --database ANALYTICS --schema DATASLAYER
  measurectl target upsert --client acme --metric roas --type MIN --value 3 --start 2025-01-01 --end 2025-01-31`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			logger.SetLevel(logger.DEBUG)
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "config/config.yaml", "config file (env and .env override it)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}

// backend is what the commands need from the services.
type backend interface {
	Evaluate(ctx context.Context, req domain.MeasureRequest) (*domain.MeasureResponse, error)
	ClientExists(ctx context.Context, clientID string) (bool, error)
	GetClient(ctx context.Context, clientID string) (*domain.ClientConfig, error)
	UpsertClient(ctx context.Context, c *domain.ClientConfig) error
	UpsertTarget(ctx context.Context, t *domain.Target) (bool, error)
	Close() error
}

// openBackend is replaced in tests.
var openBackend = func(ctx context.Context) (backend, error) {
	cfg, err := config.LoadFromEnv(configFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	app.ConfigureLogging(cfg.Logging)
	if verbose {
		logger.SetLevel(logger.DEBUG)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	a, err := app.New(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return appBackend{a}, nil
}

type appBackend struct{ *app.App }

func (b appBackend) Evaluate(ctx context.Context, req domain.MeasureRequest) (*domain.MeasureResponse, error) {
	return b.Measure.Evaluate(ctx, req)
}

func (b appBackend) ClientExists(ctx context.Context, clientID string) (bool, error) {
	return b.Onboarding.ClientExists(ctx, clientID)
}

func (b appBackend) GetClient(ctx context.Context, clientID string) (*domain.ClientConfig, error) {
	return b.Onboarding.GetClient(ctx, clientID)
}

func (b appBackend) UpsertClient(ctx context.Context, c *domain.ClientConfig) error {
	return b.Onboarding.UpsertClient(ctx, c)
}

func (b appBackend) UpsertTarget(ctx context.Context, t *domain.Target) (bool, error) {
	return b.Onboarding.UpsertTarget(ctx, t)
}

// withBackend opens the backend for the duration of fn.
func withBackend(cmd *cobra.Command, fn func(ctx context.Context, b backend) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	b, err := openBackend(ctx)
	if err != nil {
		return err
	}
	defer b.Close()
	return fn(ctx, b)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
