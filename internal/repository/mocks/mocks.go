package mocks

import (
	"context"

	"github.com/rpggio/casedesk/internal/domain/caselist"
	"github.com/rpggio/casedesk/internal/domain/casework"
	"github.com/rpggio/casedesk/internal/domain/contact"
	"github.com/rpggio/casedesk/internal/domain/definition"
	"github.com/rpggio/casedesk/internal/telemetry"
	"github.com/stretchr/testify/mock"
)

// DefinitionRepository is a mock for repository.DefinitionRepository.
type DefinitionRepository struct {
	mock.Mock
}

func (m *DefinitionRepository) Get(ctx context.Context, version string) ([]byte, error) {
	args := m.Called(ctx, version)
	if doc, ok := args.Get(0).([]byte); ok {
		return doc, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *DefinitionRepository) Put(ctx context.Context, version string, document []byte) error {
	args := m.Called(ctx, version, document)
	return args.Error(0)
}

// BackendErrorRepository is a mock for repository.BackendErrorRepository.
type BackendErrorRepository struct {
	mock.Mock
}

func (m *BackendErrorRepository) Append(ctx context.Context, e *telemetry.BackendError) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *BackendErrorRepository) Recent(ctx context.Context, limit int) ([]telemetry.BackendError, error) {
	args := m.Called(ctx, limit)
	if list, ok := args.Get(0).([]telemetry.BackendError); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// Telemetry is a mock for the backend error sink used by domain services.
type Telemetry struct {
	mock.Mock
}

func (m *Telemetry) RecordBackendError(ctx context.Context, operation string, err error) {
	m.Called(ctx, operation, err)
}

// CaseAPI is a mock for connectedcase.CaseAPI.
type CaseAPI struct {
	mock.Mock
}

func (m *CaseAPI) GetCase(ctx context.Context, id int64) (*casework.Case, error) {
	args := m.Called(ctx, id)
	if c, ok := args.Get(0).(*casework.Case); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *CaseAPI) UpdateCase(ctx context.Context, c *casework.Case) (*casework.Case, error) {
	args := m.Called(ctx, c)
	if updated, ok := args.Get(0).(*casework.Case); ok {
		return updated, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *CaseAPI) CancelCase(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// ContactAPI is a mock for connectedcase.ContactAPI.
type ContactAPI struct {
	mock.Mock
}

func (m *ContactAPI) SaveContact(ctx context.Context, req contact.SaveRequest) (*contact.Contact, error) {
	args := m.Called(ctx, req)
	if c, ok := args.Get(0).(*contact.Contact); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ContactAPI) ConnectToCase(ctx context.Context, contactID, caseID int64) (*contact.Contact, error) {
	args := m.Called(ctx, contactID, caseID)
	if c, ok := args.Get(0).(*contact.Contact); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

// ContactSearchAPI is a mock for contact.SearchAPI.
type ContactSearchAPI struct {
	mock.Mock
}

func (m *ContactSearchAPI) SearchContacts(ctx context.Context, params contact.SearchParams, limit, offset int) (*contact.SearchResult, error) {
	args := m.Called(ctx, params, limit, offset)
	if res, ok := args.Get(0).(*contact.SearchResult); ok {
		return res, args.Error(1)
	}
	return nil, args.Error(1)
}

// ListAPI is a mock for caselist.ListAPI.
type ListAPI struct {
	mock.Mock
}

func (m *ListAPI) SearchCases(ctx context.Context, req caselist.SearchRequest) (*caselist.Page, error) {
	args := m.Called(ctx, req)
	if page, ok := args.Get(0).(*caselist.Page); ok {
		return page, args.Error(1)
	}
	return nil, args.Error(1)
}

// TaskCompleter is a mock for connectedcase.TaskCompleter.
type TaskCompleter struct {
	mock.Mock
}

func (m *TaskCompleter) CompleteTask(ctx context.Context, task contact.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

// Definitions is a mock for connectedcase.Definitions.
type Definitions struct {
	mock.Mock
}

func (m *Definitions) Get(ctx context.Context, version string) (*definition.Version, error) {
	args := m.Called(ctx, version)
	if v, ok := args.Get(0).(*definition.Version); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}
