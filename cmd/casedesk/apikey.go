package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rpggio/casedesk/internal/config"
	"github.com/rpggio/casedesk/internal/sqlite"
)

var apiKeyCmd = &cobra.Command{
	Use:   "apikey",
	Short: "Manage RPC API keys",
}

var (
	apiKeyTenant string
	apiKeyLabel  string
)

var apiKeyCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an API key for a tenant",
	Long:  `Create an API key for a tenant. The key is printed once; only its hash is stored.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("config error: %w", err)
		}
		db, err := openDB(cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		key, err := sqlite.NewAPIKeyRepository(db).Create(cmd.Context(), apiKeyTenant, apiKeyLabel)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), key)
		return nil
	},
}

func init() {
	apiKeyCreateCmd.Flags().StringVar(&apiKeyTenant, "tenant", "default", "tenant the key resolves to")
	apiKeyCreateCmd.Flags().StringVar(&apiKeyLabel, "label", "", "description stored with the key")
	apiKeyCmd.AddCommand(apiKeyCreateCmd)
}
