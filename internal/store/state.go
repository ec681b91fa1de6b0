// Package store holds the agent-facing application state. State changes only
// through Reduce; the Store serializes dispatch and notifies subscribers.
package store

import (
	"github.com/rpggio/casedesk/internal/domain/caselist"
	"github.com/rpggio/casedesk/internal/domain/casework"
	"github.com/rpggio/casedesk/internal/domain/contact"
	"github.com/rpggio/casedesk/internal/domain/definition"
)

// TaskState is the state kept per agent task.
type TaskState struct {
	Task       contact.Task            `json:"task"`
	Form       *contact.TaskEntry      `json:"form,omitempty"`
	Case       *casework.Case          `json:"connectedCase,omitempty"`
	PrevStatus string                  `json:"prevStatus,omitempty"`
	Edited     bool                    `json:"caseHasBeenEdited"`
	TempInfo   *casework.TemporaryInfo `json:"temporaryCaseInfo,omitempty"`
	Route      casework.Route          `json:"route"`
}

// CaseListState is the case-list view state. Loaded is set while Result was
// fetched with the current settings.
type CaseListState struct {
	Settings caselist.Settings `json:"settings"`
	Result   caselist.Page     `json:"result"`
	Loaded   bool              `json:"loaded"`
}

// Configuration is the agent and helpline configuration. DefaultDefinition
// is used for cases that carry no definition version.
type Configuration struct {
	WorkerSID         string                         `json:"workerSid"`
	Helpline          string                         `json:"helpline"`
	DefaultDefinition string                         `json:"defaultDefinition"`
	Counselors        map[string]string              `json:"counselors"`
	Definitions       map[string]*definition.Version `json:"-"`
}

// State is the whole application state. Values handed out by the Store are
// snapshots and must not be mutated.
type State struct {
	Tasks         map[string]TaskState `json:"tasks"`
	CaseList      CaseListState        `json:"caseList"`
	Configuration Configuration        `json:"configuration"`
	Loading       map[string]bool      `json:"loading"`
}

// InitialState returns the empty state for a worker.
func InitialState(workerSID, helpline, defaultDefinition string) State {
	return State{
		Tasks: map[string]TaskState{},
		CaseList: CaseListState{
			Settings: caselist.DefaultSettings(),
			Result:   caselist.Page{Cases: []casework.Case{}},
		},
		Configuration: Configuration{
			WorkerSID:         workerSID,
			Helpline:          helpline,
			DefaultDefinition: defaultDefinition,
			Counselors:        map[string]string{},
			Definitions:       map[string]*definition.Version{},
		},
		Loading: map[string]bool{},
	}
}
