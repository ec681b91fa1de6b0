package connectedcase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rpggio/casedesk/internal/domain/activity"
	"github.com/rpggio/casedesk/internal/domain/casework"
	"github.com/rpggio/casedesk/internal/domain/contact"
	"github.com/rpggio/casedesk/internal/domain/definition"
)

// Service orchestrates the case connected to each task.
type Service struct {
	store       Store
	cases       CaseAPI
	contacts    ContactAPI
	completer   TaskCompleter
	telemetry   Telemetry
	definitions Definitions
	logger      *slog.Logger
	now         func() time.Time
}

// Deps groups the collaborators of the service.
type Deps struct {
	Store       Store
	Cases       CaseAPI
	Contacts    ContactAPI
	Completer   TaskCompleter
	Telemetry   Telemetry
	Definitions Definitions
	Logger      *slog.Logger
	Now         func() time.Time
}

// NewService creates a new connected-case service.
func NewService(deps Deps) *Service {
	s := &Service{
		store:       deps.Store,
		cases:       deps.Cases,
		contacts:    deps.Contacts,
		completer:   deps.Completer,
		telemetry:   deps.Telemetry,
		definitions: deps.Definitions,
		logger:      deps.Logger,
		now:         deps.Now,
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// OpenTask registers a task and its in-progress form.
func (s *Service) OpenTask(task contact.Task, form *contact.TaskEntry) error {
	if task.TaskSID == "" {
		return ErrInvalidInput
	}
	s.store.SetForm(task, form)
	return nil
}

// Connect fetches a case and connects it to the task.
func (s *Service) Connect(ctx context.Context, taskSID string, caseID int64) (*casework.Case, error) {
	if _, ok := s.store.Task(taskSID); !ok {
		return nil, ErrTaskNotFound
	}
	if caseID <= 0 {
		return nil, ErrInvalidInput
	}

	var fetched *casework.Case
	err := s.remote(ctx, taskSID, "Get Case", func() error {
		var err error
		fetched, err = s.cases.GetCase(ctx, caseID)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.store.SetConnectedCase(taskSID, fetched, false)
	s.ensureDefinition(ctx, fetched.Info.DefinitionVersion)
	return fetched, nil
}

// Timeline rebuilds the activity timeline of the task's case.
func (s *Service) Timeline(taskSID string) ([]activity.Activity, error) {
	view, err := s.connected(taskSID)
	if err != nil {
		return nil, err
	}
	return activity.BuildTimeline(view.Case, s.origin(view)), nil
}

// Details returns the case details view model.
func (s *Service) Details(taskSID string) (casework.Details, error) {
	view, err := s.connected(taskSID)
	if err != nil {
		return casework.Details{}, err
	}
	def, _ := s.store.Definition(view.Case.Info.DefinitionVersion)
	return casework.BuildDetails(casework.DetailsInput{
		Case:       view.Case,
		PrevStatus: view.PrevStatus,
		Edited:     view.Edited,
		Form:       view.Form,
		Definition: def,
		Counselors: s.store.Counselors(),
		WorkerSID:  s.store.WorkerSID(),
	}), nil
}

// ChangeStatus sets the case status locally after checking it is reachable
// from the persisted status.
func (s *Service) ChangeStatus(taskSID, status string) error {
	view, err := s.connected(taskSID)
	if err != nil {
		return err
	}
	if err := s.validateStatus(view, status); err != nil {
		return err
	}
	s.store.UpdateCaseStatus(taskSID, status)
	return nil
}

// UpdateInfo edits the case info bag locally.
func (s *Service) UpdateInfo(taskSID string, mutate func(casework.Info) (casework.Info, error)) error {
	view, err := s.connected(taskSID)
	if err != nil {
		return err
	}
	info, err := mutate(view.Case.Info.Clone())
	if err != nil {
		return err
	}
	s.store.UpdateCaseInfo(taskSID, info)
	return nil
}

// Update saves the local case to the HRM API.
func (s *Service) Update(ctx context.Context, taskSID string) (*casework.Case, error) {
	view, err := s.connected(taskSID)
	if err != nil {
		return nil, err
	}
	if err := s.validateStatus(view, view.Case.Status); err != nil {
		return nil, err
	}

	var updated *casework.Case
	err = s.remote(ctx, taskSID, "Update Case", func() error {
		var err error
		updated, err = s.cases.UpdateCase(ctx, view.Case)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.store.SetConnectedCase(taskSID, updated, false)
	s.store.UpdateCaseListEntry(*updated)
	return updated, nil
}

// Cancel deletes a case that is still open and was never updated.
func (s *Service) Cancel(ctx context.Context, taskSID string) error {
	view, err := s.connected(taskSID)
	if err != nil {
		return err
	}
	if err := casework.CanCancel(view.Case); err != nil {
		return err
	}

	err = s.remote(ctx, taskSID, "Cancel Case", func() error {
		return s.cases.CancelCase(ctx, view.Case.ID)
	})
	if err != nil {
		return err
	}
	s.store.ChangeRoute(taskSID, casework.Route{Route: casework.RouteTabbedForms, Subroute: casework.ScreenCaseInformation, AutoFocus: true})
	s.store.RemoveConnectedCase(taskSID)
	return nil
}

// SaveAndEnd submits the contact, saves the case, links the two and
// completes the task.
func (s *Service) SaveAndEnd(ctx context.Context, taskSID string) error {
	view, err := s.connected(taskSID)
	if err != nil {
		return err
	}
	if view.Task.IsStandalone() {
		return ErrStandaloneTask
	}
	if view.Form == nil {
		return ErrNoForm
	}
	if err := s.validateStatus(view, view.Case.Status); err != nil {
		return err
	}

	var categories map[string][]string
	if def, ok := s.store.Definition(view.Case.Info.DefinitionVersion); ok {
		categories = def.CategoryTree()
	}
	helpline := view.Form.Helpline
	if helpline == "" {
		helpline = s.store.Helpline()
	}
	req := contact.BuildSaveRequest(view.Task, *view.Form, s.store.WorkerSID(), helpline, categories, s.now())

	return s.remote(ctx, taskSID, "Save and End Case", func() error {
		saved, err := s.contacts.SaveContact(ctx, req)
		if err != nil {
			return fmt.Errorf("saving contact: %w", err)
		}
		if _, err := s.cases.UpdateCase(ctx, view.Case); err != nil {
			return fmt.Errorf("updating case: %w", err)
		}
		if _, err := s.contacts.ConnectToCase(ctx, saved.ID, view.Case.ID); err != nil {
			return fmt.Errorf("connecting contact %d: %w", saved.ID, err)
		}
		s.store.MarkCaseAsUpdated(taskSID)
		if err := s.completer.CompleteTask(ctx, view.Task); err != nil {
			return fmt.Errorf("completing task: %w", err)
		}
		return nil
	})
}

// remote runs a backend call under the task's loading flag. Failures are
// reported to telemetry and wrapped with casework.ErrBackend.
func (s *Service) remote(ctx context.Context, taskSID, operation string, call func() error) error {
	if !s.store.TryBeginLoading(taskSID) {
		return casework.ErrOperationInProgress
	}
	defer s.store.EndLoading(taskSID)

	if err := call(); err != nil {
		s.logger.Error("backend operation failed", "operation", operation, "task", taskSID, "error", err)
		s.telemetry.RecordBackendError(ctx, operation, err)
		return fmt.Errorf("%w: %s: %w", casework.ErrBackend, operation, err)
	}
	return nil
}

func (s *Service) connected(taskSID string) (TaskView, error) {
	view, ok := s.store.Task(taskSID)
	if !ok {
		return TaskView{}, ErrTaskNotFound
	}
	if view.Case == nil {
		return TaskView{}, ErrCaseNotConnected
	}
	return view, nil
}

func (s *Service) validateStatus(view TaskView, status string) error {
	def, ok := s.store.Definition(view.Case.Info.DefinitionVersion)
	if !ok {
		return casework.ErrDefinitionNotLoaded
	}
	return casework.ValidateTransition(def, view.PrevStatus, status)
}

func (s *Service) origin(view TaskView) *activity.Origin {
	if view.Form == nil {
		return nil
	}
	return &activity.Origin{
		Task:      view.Task,
		Form:      view.Form,
		WorkerSID: s.store.WorkerSID(),
		Now:       s.now(),
	}
}

func (s *Service) ensureDefinition(ctx context.Context, version string) {
	if version == "" || s.definitions == nil {
		return
	}
	if _, ok := s.store.Definition(version); ok {
		return
	}
	def, err := s.definitions.Get(ctx, version)
	if err != nil {
		s.logger.Warn("definition version unavailable", "version", version, "error", err)
		return
	}
	s.store.DefinitionVersionLoaded(def)
}

// EnsureDefinition loads a definition version into the store if missing.
func (s *Service) EnsureDefinition(ctx context.Context, version string) (*definition.Version, error) {
	if def, ok := s.store.Definition(version); ok {
		return def, nil
	}
	if s.definitions == nil {
		return nil, casework.ErrDefinitionNotLoaded
	}
	def, err := s.definitions.Get(ctx, version)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", casework.ErrDefinitionNotLoaded, err)
	}
	s.store.DefinitionVersionLoaded(def)
	return def, nil
}
