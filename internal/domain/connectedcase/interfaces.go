package connectedcase

import (
	"context"

	"github.com/rpggio/casedesk/internal/domain/casework"
	"github.com/rpggio/casedesk/internal/domain/contact"
	"github.com/rpggio/casedesk/internal/domain/definition"
)

// TaskView is a snapshot of one task's state.
type TaskView struct {
	Task       contact.Task
	Form       *contact.TaskEntry
	Case       *casework.Case
	PrevStatus string
	Edited     bool
	Route      casework.Route
	TempInfo   *casework.TemporaryInfo
}

// CaseAPI reads and writes cases on the HRM API.
type CaseAPI interface {
	GetCase(ctx context.Context, id int64) (*casework.Case, error)
	UpdateCase(ctx context.Context, c *casework.Case) (*casework.Case, error)
	CancelCase(ctx context.Context, id int64) error
}

// ContactAPI saves contacts and links them to cases on the HRM API.
type ContactAPI interface {
	SaveContact(ctx context.Context, req contact.SaveRequest) (*contact.Contact, error)
	ConnectToCase(ctx context.Context, contactID, caseID int64) (*contact.Contact, error)
}

// TaskCompleter signals the host runtime that a task is finished.
type TaskCompleter interface {
	CompleteTask(ctx context.Context, task contact.Task) error
}

// Telemetry records failed backend calls.
type Telemetry interface {
	RecordBackendError(ctx context.Context, operation string, err error)
}

// Definitions resolves definition versions that are not loaded yet.
type Definitions interface {
	Get(ctx context.Context, version string) (*definition.Version, error)
}

// Store is the application state the service reads and dispatches to.
type Store interface {
	Task(taskSID string) (TaskView, bool)
	Definition(version string) (*definition.Version, bool)
	WorkerSID() string
	Helpline() string
	Counselors() map[string]string

	SetForm(task contact.Task, form *contact.TaskEntry)
	SetConnectedCase(taskSID string, c *casework.Case, edited bool)
	RemoveConnectedCase(taskSID string)
	UpdateCaseInfo(taskSID string, info casework.Info)
	UpdateCaseStatus(taskSID, status string)
	MarkCaseAsUpdated(taskSID string)
	UpdateTempInfo(taskSID string, info *casework.TemporaryInfo)
	ChangeRoute(taskSID string, route casework.Route)
	DefinitionVersionLoaded(v *definition.Version)
	UpdateCaseListEntry(c casework.Case)

	TryBeginLoading(key string) bool
	EndLoading(key string)
}
