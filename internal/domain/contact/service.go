package contact

import (
	"context"
	"fmt"
	"log/slog"
)

// DefaultSearchLimit is the page size of a contact search.
const DefaultSearchLimit = 20

// Service handles contact search.
type Service struct {
	api       SearchAPI
	telemetry Telemetry
	logger    *slog.Logger
}

// NewService creates a new contact service.
func NewService(api SearchAPI, telemetry Telemetry, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{api: api, telemetry: telemetry, logger: logger}
}

// SearchPage is a page of contacts shaped for result views.
type SearchPage struct {
	Count    int             `json:"count"`
	Contacts []SearchContact `json:"contacts"`
}

// Search runs a contact search and adapts the hits.
func (s *Service) Search(ctx context.Context, params SearchParams, limit, offset int) (*SearchPage, error) {
	if limit < 0 || offset < 0 {
		return nil, fmt.Errorf("%w: limit %d offset %d", ErrInvalidSearch, limit, offset)
	}
	if limit == 0 {
		limit = DefaultSearchLimit
	}

	result, err := s.api.SearchContacts(ctx, params, limit, offset)
	if err != nil {
		s.telemetry.RecordBackendError(ctx, "Search Contacts", err)
		return nil, fmt.Errorf("%w: %w", ErrSearchFailed, err)
	}

	page := &SearchPage{Count: result.Count, Contacts: make([]SearchContact, 0, len(result.Contacts))}
	for _, c := range result.Contacts {
		page.Contacts = append(page.Contacts, ToSearchContact(c))
	}
	s.logger.Debug("contacts searched", "count", result.Count, "returned", len(page.Contacts))
	return page, nil
}
