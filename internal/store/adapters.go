package store

import (
	"context"
	"maps"

	"github.com/rpggio/casedesk/internal/domain/caselist"
	"github.com/rpggio/casedesk/internal/domain/casework"
	"github.com/rpggio/casedesk/internal/domain/connectedcase"
	"github.com/rpggio/casedesk/internal/domain/contact"
	"github.com/rpggio/casedesk/internal/domain/definition"
)

var (
	_ connectedcase.Store         = (*Store)(nil)
	_ connectedcase.TaskCompleter = (*Store)(nil)
	_ caselist.SettingsStore      = (*Store)(nil)
	_ caselist.SettingsWatcher    = (*Store)(nil)
)

// Task returns a snapshot of a task's state.
func (s *Store) Task(taskSID string) (connectedcase.TaskView, bool) {
	t, ok := s.State().Tasks[taskSID]
	if !ok {
		return connectedcase.TaskView{}, false
	}
	return connectedcase.TaskView{
		Task:       t.Task,
		Form:       t.Form,
		Case:       t.Case.Clone(),
		PrevStatus: t.PrevStatus,
		Edited:     t.Edited,
		Route:      t.Route,
		TempInfo:   t.TempInfo,
	}, true
}

// Definition returns a loaded definition version. An empty version resolves
// to the configured default.
func (s *Store) Definition(version string) (*definition.Version, bool) {
	cfg := s.State().Configuration
	if version == "" {
		version = cfg.DefaultDefinition
	}
	v, ok := cfg.Definitions[version]
	return v, ok && v != nil
}

func (s *Store) WorkerSID() string { return s.State().Configuration.WorkerSID }
func (s *Store) Helpline() string  { return s.State().Configuration.Helpline }

// Counselors returns a copy of the counselor directory.
func (s *Store) Counselors() map[string]string {
	return maps.Clone(s.State().Configuration.Counselors)
}

func (s *Store) SetForm(task contact.Task, form *contact.TaskEntry) {
	s.Dispatch(SetForm{Task: task, Form: form})
}

func (s *Store) SetConnectedCase(taskSID string, c *casework.Case, edited bool) {
	s.Dispatch(SetConnectedCase{TaskSID: taskSID, Case: c, Edited: edited})
}

func (s *Store) RemoveConnectedCase(taskSID string) {
	s.Dispatch(RemoveConnectedCase{TaskSID: taskSID})
}

func (s *Store) UpdateCaseInfo(taskSID string, info casework.Info) {
	s.Dispatch(UpdateCaseInfo{TaskSID: taskSID, Info: info})
}

func (s *Store) UpdateCaseStatus(taskSID, status string) {
	s.Dispatch(UpdateCaseStatus{TaskSID: taskSID, Status: status})
}

func (s *Store) MarkCaseAsUpdated(taskSID string) {
	s.Dispatch(MarkCaseAsUpdated{TaskSID: taskSID, At: s.now().UTC()})
}

func (s *Store) UpdateTempInfo(taskSID string, info *casework.TemporaryInfo) {
	s.Dispatch(UpdateTempInfo{TaskSID: taskSID, Info: info})
}

func (s *Store) ChangeRoute(taskSID string, route casework.Route) {
	s.Dispatch(ChangeRoute{TaskSID: taskSID, Route: route})
}

func (s *Store) DefinitionVersionLoaded(v *definition.Version) {
	s.Dispatch(DefinitionVersionLoaded{Version: v})
}

func (s *Store) UpdateCaseListEntry(c casework.Case) {
	s.Dispatch(UpdateCaseListEntry{Case: c})
}

// SetCounselors replaces the counselor directory.
func (s *Store) SetCounselors(counselors map[string]string) {
	s.Dispatch(CounselorsLoaded{Counselors: counselors})
}

// CaseListSettings returns the case-list settings.
func (s *Store) CaseListSettings() caselist.Settings {
	settings := s.State().CaseList.Settings
	settings.Filter = settings.Filter.Clone()
	return settings
}

func (s *Store) UpdateCaseListFilter(update caselist.FilterUpdate) {
	s.Dispatch(UpdateCaseListFilter{Update: update})
}

func (s *Store) ClearCaseListFilter() {
	s.Dispatch(ClearCaseListFilter{})
}

func (s *Store) UpdateCaseListPage(page int) {
	s.Dispatch(UpdateCaseListPage{Page: page})
}

func (s *Store) UpdateCaseListSort(sortBy, direction string) {
	s.Dispatch(UpdateCaseListSort{SortBy: sortBy, Direction: direction})
}

func (s *Store) InvalidateCaseListResult() {
	s.Dispatch(CaseListInvalidated{})
}

// CaseListResult returns the last loaded page and whether it still matches
// the current settings.
func (s *Store) CaseListResult() (caselist.Page, bool) {
	cl := s.State().CaseList
	return caselist.Page{Count: cl.Result.Count, Cases: cloneCases(cl.Result.Cases)}, cl.Loaded
}

// OnCaseListSettingsChange calls fn with the new settings whenever the
// filter, page or sort order changes.
func (s *Store) OnCaseListSettingsChange(fn func(caselist.Settings)) func() {
	return s.Subscribe(func(st State) any {
		return st.CaseList.Settings
	}, func(selected any) {
		fn(selected.(caselist.Settings))
	})
}

func (s *Store) SetCaseListResult(page caselist.Page) {
	s.Dispatch(CaseListLoaded{Page: page})
}

// TryBeginLoading sets the loading flag for key unless it is already set.
func (s *Store) TryBeginLoading(key string) bool {
	return s.dispatchIf(func(st State) bool { return !st.Loading[key] }, SetLoading{Key: key, Loading: true})
}

// EndLoading clears the loading flag for key.
func (s *Store) EndLoading(key string) {
	s.Dispatch(SetLoading{Key: key, Loading: false})
}

// IsLoading reports whether a request for key is in flight.
func (s *Store) IsLoading(key string) bool {
	return s.State().Loading[key]
}

// CompleteTask drops the state of a finished task.
func (s *Store) CompleteTask(_ context.Context, task contact.Task) error {
	s.Dispatch(RemoveTask{TaskSID: task.TaskSID})
	return nil
}
