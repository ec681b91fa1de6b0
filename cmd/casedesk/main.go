package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rpggio/casedesk/internal/config"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "casedesk",
	Short: "Case management agent for helpline counsellors",
	Long: `casedesk keeps the case connected to each counsellor task, the case
list filters and the contact search behind a JSON-RPC and MCP surface.

Configuration is read from CASEDESK_CONFIG_PATH, a .env file and CASEDESK_*
environment variables. Without a subcommand the transport is picked from
CASEDESK_TRANSPORT ("http" or "stdio").`,
	SilenceUsage: true,
	RunE:         runDefault,
}

func init() {
	rootCmd.Version = version
	rootCmd.AddCommand(serveCmd, stdioCmd, timelineCmd, printCmd, apiKeyCmd)
}

func runDefault(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if cfg.Transport.Mode == "stdio" {
		return runStdio(cmd, args)
	}
	return runServe(cmd, args)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
