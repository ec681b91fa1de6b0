package mcp

import (
	"github.com/rpggio/casedesk/internal/domain/activity"
	"github.com/rpggio/casedesk/internal/domain/caselist"
	"github.com/rpggio/casedesk/internal/domain/casework"
	"github.com/rpggio/casedesk/internal/domain/contact"
)

// TaskParams addresses a task. The X-Task-Sid header (HTTP) or the
// _meta.task_sid field (stdio) takes precedence over TaskSID.
type TaskParams struct {
	TaskSID string `json:"task_sid,omitempty"`
}

type OpenTaskParams struct {
	Task contact.Task       `json:"task"`
	Form *contact.TaskEntry `json:"form,omitempty"`
}

type SetFormParams struct {
	TaskParams
	Form *contact.TaskEntry `json:"form"`
}

type ConnectCaseParams struct {
	TaskParams
	CaseID int64 `json:"case_id"`
}

type StableIndexParams struct {
	TaskParams
	Position int `json:"position"`
}

type ChangeStatusParams struct {
	TaskParams
	Status string `json:"status"`
}

type UpdateInfoParams struct {
	TaskParams
	Summary       *string `json:"summary,omitempty"`
	FollowUpDate  *string `json:"follow_up_date,omitempty"`
	ChildIsAtRisk *bool   `json:"child_is_at_risk,omitempty"`
}

type SaveNoteParams struct {
	TaskParams
	StableIndex *int   `json:"stable_index,omitempty"`
	Text        string `json:"text"`
}

type SaveReferralParams struct {
	TaskParams
	StableIndex *int   `json:"stable_index,omitempty"`
	Date        string `json:"date,omitempty"`
	ReferredTo  string `json:"referred_to"`
	Comments    string `json:"comments,omitempty"`
}

type SaveSectionParams struct {
	TaskParams
	Section casework.Section `json:"section"`
	Index   *int             `json:"index,omitempty"`
	Form    map[string]any   `json:"form"`
}

type ViewActivityParams struct {
	TaskParams
	Type        activity.Type `json:"type"`
	StableIndex int           `json:"stable_index"`
}

type UpdateFilterParams struct {
	Update caselist.FilterUpdate `json:"update"`
}

// ApplyFacetsParams carries the widget state returned by caselist.facets,
// with the caller's checks applied.
type ApplyFacetsParams struct {
	Facets caselist.FacetState `json:"facets"`
}

type ListCasesParams struct {
	Page          *int   `json:"page,omitempty"`
	SortBy        string `json:"sort_by,omitempty"`
	SortDirection string `json:"sort_direction,omitempty"`
	// Cached reuses the last loaded page when the settings have not changed.
	Cached bool `json:"cached,omitempty"`
}

type SearchContactsParams struct {
	Search contact.SearchParams `json:"search"`
	Limit  int                  `json:"limit,omitempty"`
	Offset int                  `json:"offset,omitempty"`
}

type RecentErrorsParams struct {
	Limit int `json:"limit,omitempty"`
}

// StatusResponse acknowledges a state change.
type StatusResponse struct {
	Status string `json:"status"`
}

type StableIndexResponse struct {
	Type        activity.Type `json:"type"`
	StableIndex int           `json:"stable_index"`
}

type TimelineResponse struct {
	Activities []activity.View `json:"activities"`
}

type CaseListResponse struct {
	Count int            `json:"count"`
	Pages int            `json:"pages"`
	Page  int            `json:"page"`
	Rows  []caselist.Row `json:"rows"`
}
