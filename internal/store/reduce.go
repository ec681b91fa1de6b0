package store

import (
	"fmt"
	"maps"
	"time"

	"github.com/rpggio/casedesk/internal/domain/caselist"
	"github.com/rpggio/casedesk/internal/domain/casework"
	"github.com/rpggio/casedesk/internal/domain/contact"
	"github.com/rpggio/casedesk/internal/domain/definition"
)

// Action is a state transition request.
type Action interface {
	isAction()
}

type (
	SetForm struct {
		Task contact.Task
		Form *contact.TaskEntry
	}
	SetConnectedCase struct {
		TaskSID string
		Case    *casework.Case
		Edited  bool
	}
	RemoveConnectedCase struct {
		TaskSID string
	}
	UpdateCaseInfo struct {
		TaskSID string
		Info    casework.Info
	}
	UpdateCaseStatus struct {
		TaskSID string
		Status  string
	}
	MarkCaseAsUpdated struct {
		TaskSID string
		At      time.Time
	}
	UpdateTempInfo struct {
		TaskSID string
		Info    *casework.TemporaryInfo
	}
	ChangeRoute struct {
		TaskSID string
		Route   casework.Route
	}
	RemoveTask struct {
		TaskSID string
	}
	SetLoading struct {
		Key     string
		Loading bool
	}
	UpdateCaseListFilter struct {
		Update caselist.FilterUpdate
	}
	ClearCaseListFilter     struct{}
	UpdateCaseListPage      struct{ Page int }
	UpdateCaseListSort      struct{ SortBy, Direction string }
	CaseListLoaded          struct{ Page caselist.Page }
	CaseListInvalidated     struct{}
	UpdateCaseListEntry     struct{ Case casework.Case }
	CounselorsLoaded        struct{ Counselors map[string]string }
	DefinitionVersionLoaded struct{ Version *definition.Version }
)

func (SetForm) isAction()                 {}
func (SetConnectedCase) isAction()        {}
func (RemoveConnectedCase) isAction()     {}
func (UpdateCaseInfo) isAction()          {}
func (UpdateCaseStatus) isAction()        {}
func (MarkCaseAsUpdated) isAction()       {}
func (UpdateTempInfo) isAction()          {}
func (ChangeRoute) isAction()             {}
func (RemoveTask) isAction()              {}
func (SetLoading) isAction()              {}
func (UpdateCaseListFilter) isAction()    {}
func (ClearCaseListFilter) isAction()     {}
func (UpdateCaseListPage) isAction()      {}
func (UpdateCaseListSort) isAction()      {}
func (CaseListLoaded) isAction()          {}
func (CaseListInvalidated) isAction()     {}
func (UpdateCaseListEntry) isAction()     {}
func (CounselorsLoaded) isAction()        {}
func (DefinitionVersionLoaded) isAction() {}

// Reduce returns the state after applying a. The input state is not modified.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case SetForm:
		return withTask(s, a.Task.TaskSID, func(t TaskState) TaskState {
			t.Task = a.Task
			t.Form = a.Form
			return t
		})
	case SetConnectedCase:
		return withTask(s, a.TaskSID, func(t TaskState) TaskState {
			t.Case = a.Case.Clone()
			t.PrevStatus = ""
			if a.Case != nil {
				t.PrevStatus = a.Case.Status
			}
			t.Edited = a.Edited
			return t
		})
	case RemoveConnectedCase:
		return withTask(s, a.TaskSID, func(t TaskState) TaskState {
			t.Case = nil
			t.PrevStatus = ""
			t.Edited = false
			t.TempInfo = nil
			return t
		})
	case UpdateCaseInfo:
		return withCase(s, a.TaskSID, func(c *casework.Case) {
			c.Info = a.Info.Clone()
		}, true)
	case UpdateCaseStatus:
		return withCase(s, a.TaskSID, func(c *casework.Case) {
			c.Status = a.Status
		}, true)
	case MarkCaseAsUpdated:
		next := withCase(s, a.TaskSID, func(c *casework.Case) {
			c.UpdatedAt = a.At
		}, false)
		if t, ok := next.Tasks[a.TaskSID]; ok && t.Case != nil {
			t.PrevStatus = t.Case.Status
			next.Tasks[a.TaskSID] = t
		}
		return next
	case UpdateTempInfo:
		return withTask(s, a.TaskSID, func(t TaskState) TaskState {
			t.TempInfo = a.Info
			return t
		})
	case ChangeRoute:
		return withTask(s, a.TaskSID, func(t TaskState) TaskState {
			t.Route = a.Route
			return t
		})
	case RemoveTask:
		if _, ok := s.Tasks[a.TaskSID]; !ok {
			return s
		}
		s.Tasks = maps.Clone(s.Tasks)
		delete(s.Tasks, a.TaskSID)
		return s
	case SetLoading:
		s.Loading = maps.Clone(s.Loading)
		if s.Loading == nil {
			s.Loading = map[string]bool{}
		}
		if a.Loading {
			s.Loading[a.Key] = true
		} else {
			delete(s.Loading, a.Key)
		}
		return s
	case UpdateCaseListFilter:
		s.CaseList.Settings.Filter = s.CaseList.Settings.Filter.Merge(a.Update)
		s.CaseList.Settings.Page = 0
		return s
	case ClearCaseListFilter:
		cleared := caselist.EmptyFilter()
		cleared.IncludeOrphans = s.CaseList.Settings.Filter.IncludeOrphans
		s.CaseList.Settings.Filter = cleared
		s.CaseList.Settings.Page = 0
		return s
	case UpdateCaseListPage:
		s.CaseList.Settings.Page = max(a.Page, 0)
		return s
	case UpdateCaseListSort:
		s.CaseList.Settings.SortBy = a.SortBy
		s.CaseList.Settings.SortDirection = a.Direction
		s.CaseList.Settings.Page = 0
		return s
	case CaseListLoaded:
		s.CaseList.Result = caselist.Page{Count: a.Page.Count, Cases: cloneCases(a.Page.Cases)}
		s.CaseList.Loaded = true
		return s
	case CaseListInvalidated:
		s.CaseList.Result = caselist.Page{Cases: []casework.Case{}}
		s.CaseList.Loaded = false
		return s
	case UpdateCaseListEntry:
		cases := cloneCases(s.CaseList.Result.Cases)
		for i := range cases {
			if cases[i].ID == a.Case.ID {
				cases[i] = *a.Case.Clone()
			}
		}
		s.CaseList.Result.Cases = cases
		return s
	case CounselorsLoaded:
		counselors := maps.Clone(a.Counselors)
		if counselors == nil {
			counselors = map[string]string{}
		}
		s.Configuration.Counselors = counselors
		s.CaseList.Settings.Filter = caselist.PruneCounsellors(s.CaseList.Settings.Filter, counselors)
		return s
	case DefinitionVersionLoaded:
		if a.Version == nil {
			return s
		}
		s.Configuration.Definitions = maps.Clone(s.Configuration.Definitions)
		if s.Configuration.Definitions == nil {
			s.Configuration.Definitions = map[string]*definition.Version{}
		}
		s.Configuration.Definitions[a.Version.ID] = a.Version
		return s
	default:
		panic(fmt.Sprintf("store: unhandled action %T", a))
	}
}

func withTask(s State, taskSID string, update func(TaskState) TaskState) State {
	t, ok := s.Tasks[taskSID]
	if !ok {
		t = TaskState{
			Task:  contact.Task{TaskSID: taskSID},
			Route: casework.Route{Route: casework.RouteTabbedForms},
		}
	}
	s.Tasks = maps.Clone(s.Tasks)
	if s.Tasks == nil {
		s.Tasks = map[string]TaskState{}
	}
	s.Tasks[taskSID] = update(t)
	return s
}

// withCase edits a copy of the task's connected case. It is a no-op when no
// case is connected.
func withCase(s State, taskSID string, edit func(*casework.Case), edited bool) State {
	t, ok := s.Tasks[taskSID]
	if !ok || t.Case == nil {
		return s
	}
	return withTask(s, taskSID, func(t TaskState) TaskState {
		c := t.Case.Clone()
		edit(c)
		t.Case = c
		if edited {
			t.Edited = true
		}
		return t
	})
}

func cloneCases(cases []casework.Case) []casework.Case {
	out := make([]casework.Case, len(cases))
	for i := range cases {
		out[i] = *cases[i].Clone()
	}
	return out
}
