package main

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/rpggio/casedesk/internal/config"
	"github.com/rpggio/casedesk/internal/directory"
	"github.com/rpggio/casedesk/internal/domain/caselist"
	"github.com/rpggio/casedesk/internal/domain/connectedcase"
	"github.com/rpggio/casedesk/internal/domain/contact"
	"github.com/rpggio/casedesk/internal/domain/definition"
	"github.com/rpggio/casedesk/internal/hrm"
	"github.com/rpggio/casedesk/internal/mcp"
	"github.com/rpggio/casedesk/internal/sqlite"
	"github.com/rpggio/casedesk/internal/store"
	"github.com/rpggio/casedesk/internal/telemetry"
)

// app holds the wired services of a running agent.
type app struct {
	cfg     config.Config
	logger  *slog.Logger
	db      *sqlite.DB
	store   *store.Store
	apiKeys *sqlite.APIKeyRepository
	handler *mcp.Handler
	watcher *directory.Watcher
}

func openDB(cfg config.Config) (*sqlite.DB, error) {
	if err := ensureDir(cfg.DB.Path); err != nil {
		return nil, fmt.Errorf("preparing database path: %w", err)
	}
	db, err := sqlite.New(cfg.DB.Path)
	if err != nil {
		return nil, err
	}
	if err := db.RunMigrations(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func newApp(ctx context.Context, cfg config.Config, logger *slog.Logger) (*app, error) {
	db, err := openDB(cfg)
	if err != nil {
		return nil, err
	}

	client := hrm.New(hrm.Config{
		BaseURL: cfg.HRM.BaseURL,
		Secret:  cfg.HRM.Secret,
		Token:   cfg.HRM.Token,
		Timeout: cfg.HRM.Timeout,
	}, logger)
	telemetrySvc := telemetry.NewService(sqlite.NewBackendErrorRepository(db), logger)
	registry := definition.NewRegistry(cfg.Definitions.Dir, sqlite.NewDefinitionRepository(db), logger)

	st := store.New(store.InitialState(cfg.Agent.WorkerSID, cfg.Agent.Helpline, cfg.Agent.DefaultDefinition), logger)
	loadDefinitions(ctx, registry, st, cfg.Agent.DefaultDefinition, logger)

	cases := connectedcase.NewService(connectedcase.Deps{
		Store:       st,
		Cases:       client,
		Contacts:    client,
		Completer:   st,
		Telemetry:   telemetrySvc,
		Definitions: registry,
		Logger:      logger,
	})

	list := caselist.NewService(client, st, telemetrySvc, logger)
	list.InvalidateOnSettingsChange(st)

	handler := mcp.NewHandler(mcp.Services{
		Cases:     cases,
		CaseList:  list,
		Contacts:  contact.NewService(client, telemetrySvc, logger),
		Telemetry: telemetrySvc,
		Workspace: st,
	}, logger)

	if err := ensureDir(cfg.Directory.Path); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("preparing directory path: %w", err)
	}

	return &app{
		cfg:     cfg,
		logger:  logger,
		db:      db,
		store:   st,
		apiKeys: sqlite.NewAPIKeyRepository(db),
		handler: handler,
		watcher: directory.NewWatcher(cfg.Directory.Path, st, logger),
	}, nil
}

// loadDefinitions warms the registry with every version in the definitions
// directory plus the default and publishes them to the store. A broken
// document is logged and skipped.
func loadDefinitions(ctx context.Context, registry *definition.Registry, st *store.Store, defaultID string, logger *slog.Logger) {
	ids, err := registry.Available()
	if err != nil {
		logger.Warn("listing definitions", "error", err)
	}
	if defaultID != "" && !slices.Contains(ids, defaultID) {
		ids = append(ids, defaultID)
	}
	if err := registry.Preload(ctx, ids); err != nil {
		logger.Warn("preloading definitions", "error", err)
	}
	for _, id := range ids {
		def, err := registry.Get(ctx, id)
		if err != nil {
			logger.Warn("definition not loaded", "version", id, "default", id == defaultID, "error", err)
			continue
		}
		st.DefinitionVersionLoaded(def)
	}
	logger.Debug("definitions loaded", "versions", len(st.State().Configuration.Definitions))
}

// watch keeps the counselor directory current until ctx is done.
func (a *app) watch(ctx context.Context) error {
	if a.cfg.Directory.Path == "" {
		a.logger.Warn("no counselor directory configured")
		<-ctx.Done()
		return nil
	}
	return a.watcher.Run(ctx)
}

func (a *app) Close() error {
	return a.db.Close()
}
