package telemetry

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

const (
	DefaultRecentLimit = 20
	MaxRecentLimit     = 200
)

// Service records backend errors.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService creates a telemetry service. A nil repo only logs.
func NewService(repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, logger: logger}
}

// RecordBackendError logs a failed backend operation and stores it.
func (s *Service) RecordBackendError(ctx context.Context, operation string, err error) {
	if err == nil {
		return
	}
	s.logger.Error("backend error", "operation", operation, "error", err)
	if s.repo == nil {
		return
	}

	entry := &BackendError{
		ID:         uuid.NewString(),
		Operation:  operation,
		Message:    err.Error(),
		OccurredAt: time.Now().UTC(),
	}
	if appendErr := s.repo.Append(ctx, entry); appendErr != nil {
		s.logger.Warn("storing backend error", "operation", operation, "error", appendErr)
	}
}

// Recent lists the most recent backend errors, newest first.
func (s *Service) Recent(ctx context.Context, limit int) ([]BackendError, error) {
	if s.repo == nil {
		return []BackendError{}, nil
	}
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	if limit > MaxRecentLimit {
		limit = MaxRecentLimit
	}
	list, err := s.repo.Recent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("listing backend errors: %w", err)
	}
	return list, nil
}
