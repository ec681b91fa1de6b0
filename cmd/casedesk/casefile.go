package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/rpggio/casedesk/internal/config"
	"github.com/rpggio/casedesk/internal/directory"
	"github.com/rpggio/casedesk/internal/domain/casework"
	"github.com/rpggio/casedesk/internal/domain/definition"
)

// caseFile is a case exported from the HRM API, with what is needed to
// present it offline.
type caseFile struct {
	Case       casework.Case
	Definition *definition.Version
	Counselors map[string]string
}

func readCase(path string) (casework.Case, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return casework.Case{}, fmt.Errorf("reading case file: %w", err)
	}
	var c casework.Case
	if err := json.Unmarshal(data, &c); err != nil {
		return casework.Case{}, fmt.Errorf("decoding case file %s: %w", path, err)
	}
	return c, nil
}

// loadCaseFile reads a case and resolves its definition version and the
// counselor directory from the configured locations. Both are optional.
func loadCaseFile(ctx context.Context, path string, logger *slog.Logger) (*caseFile, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}
	c, err := readCase(path)
	if err != nil {
		return nil, err
	}

	counselors, err := directory.Load(cfg.Directory.Path)
	if err != nil {
		logger.Warn("counselor directory not loaded", "path", cfg.Directory.Path, "error", err)
		counselors = map[string]string{}
	}

	version := c.Info.DefinitionVersion
	if version == "" {
		version = cfg.Agent.DefaultDefinition
	}
	def, err := definition.NewRegistry(cfg.Definitions.Dir, nil, logger).Get(ctx, version)
	if err != nil {
		logger.Warn("definition not loaded", "version", version, "error", err)
		def = nil
	}

	return &caseFile{Case: c, Definition: def, Counselors: counselors}, nil
}

func (f *caseFile) details() casework.Details {
	return casework.BuildDetails(casework.DetailsInput{
		Case:       &f.Case,
		PrevStatus: f.Case.Status,
		Definition: f.Definition,
		Counselors: f.Counselors,
	})
}
