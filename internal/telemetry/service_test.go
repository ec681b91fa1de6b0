package telemetry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rpggio/casedesk/internal/repository/mocks"
	"github.com/rpggio/casedesk/internal/telemetry"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRecordBackendError(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.BackendErrorRepository{}
	repo.On("Append", ctx, mock.MatchedBy(func(e *telemetry.BackendError) bool {
		return e.ID != "" && e.Operation == "Update Case" && e.Message == "HTTP 500" && !e.OccurredAt.IsZero()
	})).Return(nil).Once()

	svc := telemetry.NewService(repo, nil)
	svc.RecordBackendError(ctx, "Update Case", errors.New("HTTP 500"))
	svc.RecordBackendError(ctx, "Update Case", nil)
	repo.AssertExpectations(t)
}

func TestRecordBackendError_StoreFailureIsSwallowed(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.BackendErrorRepository{}
	repo.On("Append", ctx, mock.Anything).Return(errors.New("disk full")).Once()

	svc := telemetry.NewService(repo, nil)
	require.NotPanics(t, func() { svc.RecordBackendError(ctx, "Cancel Case", errors.New("x")) })
}

func TestRecent_ClampsLimit(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.BackendErrorRepository{}
	repo.On("Recent", ctx, telemetry.DefaultRecentLimit).Return([]telemetry.BackendError{{ID: "a"}}, nil).Once()
	repo.On("Recent", ctx, telemetry.MaxRecentLimit).Return([]telemetry.BackendError{}, nil).Once()

	svc := telemetry.NewService(repo, nil)
	list, err := svc.Recent(ctx, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)

	_, err = svc.Recent(ctx, 5000)
	require.NoError(t, err)
	repo.AssertExpectations(t)

	empty, err := telemetry.NewService(nil, nil).Recent(ctx, 3)
	require.NoError(t, err)
	require.Empty(t, empty)
}
