package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ignite/measure-agent/internal/domain"
)

var clientCmd = &cobra.Command{
	Use:   "client",
	Short: "Manage onboarded clients",
}

var clientUpsertCmd = &cobra.Command{
	Use:   "upsert",
	Short: "Create or update a client's warehouse config",
	Long: `Writes the clients row and its dataslayer_config. Running it again
replaces the name and config.

Example:
  measurectl client upsert --client acme --name "Acme Corp" --prefix acme`,
	RunE: runClientUpsert,
}

var clientExistsCmd = &cobra.Command{
	Use:   "exists",
	Short: "Report whether a client is onboarded (exit 1 when missing)",
	RunE:  runClientExists,
}

var clientGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Print a client's warehouse config",
	RunE:  runClientGet,
}

var (
	clientID       string
	clientName     string
	clientDatabase string
	clientSchema   string
	clientPrefix   string
)

func init() {
	rootCmd.AddCommand(clientCmd)
	clientCmd.AddCommand(clientUpsertCmd, clientExistsCmd, clientGetCmd)

	clientCmd.PersistentFlags().StringVar(&clientID, "client", "", "client id")
	_ = clientCmd.MarkPersistentFlagRequired("client")

	clientUpsertCmd.Flags().StringVar(&clientName, "name", "", "display name")
	clientUpsertCmd.Flags().StringVar(&clientDatabase, "database", "", "warehouse database (defaults to the configured one)")
	clientUpsertCmd.Flags().StringVar(&clientSchema, "schema", "", "warehouse schema (defaults to the configured one)")
	clientUpsertCmd.Flags().StringVar(&clientPrefix, "prefix", "", "table prefix for GOOGLE_ADS_<prefix> and SHOPIFY_<prefix>")
	_ = clientUpsertCmd.MarkFlagRequired("prefix")
}

func runClientUpsert(cmd *cobra.Command, args []string) error {
	c := &domain.ClientConfig{
		ClientID: clientID,
		WarehouseLocation: domain.WarehouseLocation{
			Database:    clientDatabase,
			Schema:      clientSchema,
			TablePrefix: clientPrefix,
		},
	}
	if cmd.Flags().Changed("name") {
		c.ClientName = &clientName
	}

	return withBackend(cmd, func(ctx context.Context, b backend) error {
		if err := b.UpsertClient(ctx, c); err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), c)
	})
}

func runClientExists(cmd *cobra.Command, args []string) error {
	return withBackend(cmd, func(ctx context.Context, b backend) error {
		ok, err := b.ClientExists(ctx, clientID)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), ok)
		if !ok {
			return fmt.Errorf("%w: %s", domain.ErrClientNotFound, clientID)
		}
		return nil
	})
}

func runClientGet(cmd *cobra.Command, args []string) error {
	return withBackend(cmd, func(ctx context.Context, b backend) error {
		c, err := b.GetClient(ctx, clientID)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), c)
	})
}
