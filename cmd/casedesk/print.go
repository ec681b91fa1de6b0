package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rpggio/casedesk/internal/caseprint"
	"github.com/rpggio/casedesk/internal/domain/activity"
)

var printOutput string

var printCmd = &cobra.Command{
	Use:   "print <case.json>",
	Short: "Export a case as a PDF",
	Args:  cobra.ExactArgs(1),
	RunE:  runPrint,
}

func init() {
	printCmd.Flags().StringVarP(&printOutput, "output", "o", "", "PDF path (default: case-<id>.pdf)")
}

func runPrint(cmd *cobra.Command, args []string) error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	f, err := loadCaseFile(cmd.Context(), args[0], logger)
	if err != nil {
		return err
	}

	out := strings.TrimSpace(printOutput)
	if out == "" {
		out = fmt.Sprintf("case-%d.pdf", f.Case.ID)
	}
	file, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("creating %s: %w", out, err)
	}

	timeline := activity.BuildTimeline(&f.Case, nil)
	if err := caseprint.Render(file, f.details(), timeline, f.Counselors); err != nil {
		_ = file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", out, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", out)
	return nil
}
