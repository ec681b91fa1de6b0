package caselist

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rpggio/casedesk/internal/domain/casework"
	"github.com/rpggio/casedesk/internal/domain/definition"
)

// ListLoadingKey is the loading flag of the case-list query.
const ListLoadingKey = "case-list"

// Service handles case-list filtering and queries.
type Service struct {
	api       ListAPI
	store     SettingsStore
	telemetry Telemetry
	logger    *slog.Logger
	now       func() time.Time
}

// NewService creates a new case-list service.
func NewService(api ListAPI, store SettingsStore, telemetry Telemetry, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{api: api, store: store, telemetry: telemetry, logger: logger, now: time.Now}
}

// WithClock sets the clock date presets are resolved against.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Facets returns widget state reconciled with the stored filter.
func (s *Service) Facets(def *definition.Version) FacetState {
	settings := s.store.CaseListSettings()
	return Reconcile(settings.Filter, StatusItems(def), s.store.Counselors(), CategoryItems(def))
}

// UpdateFilter applies a partial filter change and returns to the first page.
// Date presets in the update are resolved to concrete ranges first.
func (s *Service) UpdateFilter(update FilterUpdate) (Filter, error) {
	if len(update.Dates) > 0 {
		dates := make(map[DateField]*DateRange, len(update.Dates))
		for field, r := range update.Dates {
			if field != DateFieldCreatedAt && field != DateFieldUpdatedAt && field != DateFieldFollowUpDate {
				return Filter{}, fmt.Errorf("%w: date facet %q", ErrInvalidQuery, field)
			}
			resolved, err := ResolveDateRange(field, r, s.now())
			if err != nil {
				return Filter{}, err
			}
			dates[field] = resolved
		}
		update.Dates = dates
	}
	s.store.UpdateCaseListFilter(update)
	return s.store.CaseListSettings().Filter, nil
}

// ApplyFacets composes the facet widget state into a filter and makes it the
// stored filter. The orphans flag is not a facet and is kept.
func (s *Service) ApplyFacets(state FacetState) (Filter, error) {
	dates, err := ResolveDates(state.Dates, s.now())
	if err != nil {
		return Filter{}, err
	}
	composed := ComposeFilter(state.Statuses, state.Counselors, state.Categories, dates)
	composed.IncludeOrphans = s.store.CaseListSettings().Filter.IncludeOrphans
	s.store.UpdateCaseListFilter(Replace(composed))
	s.logger.Debug("case list facets applied", "active", HasActiveFilters(composed))
	return s.store.CaseListSettings().Filter, nil
}

// ClearFilter resets every facet.
func (s *Service) ClearFilter() Filter {
	s.store.ClearCaseListFilter()
	return s.store.CaseListSettings().Filter
}

// SetPage moves to a zero-based page.
func (s *Service) SetPage(page int) error {
	if page < 0 {
		return fmt.Errorf("%w: page %d", ErrInvalidQuery, page)
	}
	s.store.UpdateCaseListPage(page)
	return nil
}

// SetSort changes the ordering and returns to the first page.
func (s *Service) SetSort(sortBy, direction string) error {
	if err := ValidateSort(sortBy, direction); err != nil {
		return err
	}
	s.store.UpdateCaseListSort(sortBy, direction)
	return nil
}

// Cached returns the last loaded page while it still matches the current
// settings.
func (s *Service) Cached() (*Page, bool) {
	page, ok := s.store.CaseListResult()
	if !ok {
		return nil, false
	}
	return &page, true
}

// InvalidateOnSettingsChange drops the cached page whenever the filter, page
// or sort order changes, including counsellor selections pruned by a
// directory reload. The returned function stops watching.
func (s *Service) InvalidateOnSettingsChange(w SettingsWatcher) func() {
	return w.OnCaseListSettingsChange(func(settings Settings) {
		if _, loaded := s.store.CaseListResult(); !loaded {
			return
		}
		s.store.InvalidateCaseListResult()
		s.logger.Debug("case list cache invalidated", "counsellors", settings.Filter.Counsellors, "page", settings.Page)
	})
}

// List queries the current page of cases. Only one query runs at a time.
func (s *Service) List(ctx context.Context, helpline string) (*Page, error) {
	if !s.store.TryBeginLoading(ListLoadingKey) {
		return nil, casework.ErrOperationInProgress
	}
	defer s.store.EndLoading(ListLoadingKey)

	settings := s.store.CaseListSettings()
	page, err := s.api.SearchCases(ctx, SearchRequest{
		Helpline: helpline,
		Filter:   settings.Filter,
		Query:    settings.Query(),
	})
	if err != nil {
		s.telemetry.RecordBackendError(ctx, "Search Cases", err)
		return nil, fmt.Errorf("%w: searching cases: %w", casework.ErrBackend, err)
	}
	s.store.SetCaseListResult(*page)
	s.logger.Debug("case list loaded", "count", page.Count, "page", settings.Page)
	return page, nil
}
