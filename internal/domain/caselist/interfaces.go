package caselist

import "context"

// SearchRequest is a case-list query sent to the HRM API.
type SearchRequest struct {
	Helpline string    `json:"helpline,omitempty"`
	Filter   Filter    `json:"filter"`
	Query    ListQuery `json:"-"`
}

// ListAPI queries cases remotely.
type ListAPI interface {
	SearchCases(ctx context.Context, req SearchRequest) (*Page, error)
}

// SettingsStore holds the case-list settings and the counselor directory.
type SettingsStore interface {
	CaseListSettings() Settings
	Counselors() map[string]string
	UpdateCaseListFilter(update FilterUpdate)
	ClearCaseListFilter()
	UpdateCaseListPage(page int)
	UpdateCaseListSort(sortBy, direction string)
	SetCaseListResult(page Page)
	CaseListResult() (Page, bool)
	InvalidateCaseListResult()
	TryBeginLoading(key string) bool
	EndLoading(key string)
}

// SettingsWatcher reports case-list settings changes.
type SettingsWatcher interface {
	OnCaseListSettingsChange(fn func(Settings)) func()
}

// Telemetry records failed backend calls.
type Telemetry interface {
	RecordBackendError(ctx context.Context, operation string, err error)
}
