package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/rpggio/casedesk/internal/config"
	"github.com/rpggio/casedesk/internal/mcp"
)

var stdioCmd = &cobra.Command{
	Use:   "stdio",
	Short: "Serve the MCP tools over stdin/stdout",
	RunE:  runStdio,
}

func runStdio(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	logger, closeLog := newLogger(cfg, true)
	defer closeLog()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	server := mcp.NewServer(mcp.Config{
		Handler:       a.handler,
		Resolver:      a.apiKeys,
		AuthEnabled:   false,
		TransportMode: "stdio",
		Version:       version,
		Logger:        logger,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting stdio transport", "auth", "disabled")
		// Returns when stdin closes or the context is canceled.
		err := server.Run(gctx, &sdkmcp.StdioTransport{})
		stop()
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		return a.watch(gctx)
	})
	return g.Wait()
}
