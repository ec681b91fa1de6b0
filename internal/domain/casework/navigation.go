package casework

import (
	"time"

	"github.com/rpggio/casedesk/internal/domain/contact"
)

// Top-level routes of a task.
const (
	RouteTabbedForms    = "tabbed-forms"
	RouteNewCase        = "new-case"
	RouteSelectCallType = "select-call-type"
	RouteCaseList       = "case-list"
)

// Case screens (subroutes).
const (
	ScreenAddNote         = "add-note"
	ScreenEditNote        = "edit-note"
	ScreenViewNote        = "view-note"
	ScreenAddReferral     = "add-referral"
	ScreenEditReferral    = "edit-referral"
	ScreenViewReferral    = "view-referral"
	ScreenViewContact     = "view-contact"
	ScreenAddSection      = "add-section"
	ScreenEditSection     = "edit-section"
	ScreenViewSection     = "view-section"
	ScreenCaseHome        = "case-home"
	ScreenCasePrintView   = "case-print-view"
	ScreenSearch          = "search"
	ScreenCaseInformation = "caseInformation"
)

// Route is where a task's view currently is.
type Route struct {
	Route     string `json:"route"`
	Subroute  string `json:"subroute,omitempty"`
	AutoFocus bool   `json:"autoFocus,omitempty"`
}

// CloseRoute returns the route shown after closing a case screen opened from current.
func CloseRoute(current Route) Route {
	switch current.Route {
	case RouteSelectCallType, RouteNewCase:
		return Route{Route: current.Route}
	default:
		return Route{Route: RouteTabbedForms, Subroute: ScreenSearch}
	}
}

// ContactView is the state of the connected-contact view screen.
type ContactView struct {
	Contact         *contact.Contact `json:"contact,omitempty"`
	DetailsExpanded map[string]bool  `json:"detailsExpanded"`
	CreatedAt       time.Time        `json:"createdAt"`
	TimeOfContact   time.Time        `json:"timeOfContact"`
	Counselor       string           `json:"counselor"`
}

// TemporaryInfo holds the item being viewed or edited on a case screen.
// Timeline items (notes, referrals, contacts) are addressed by ActivityType
// and StableIndex, the same handle the edit methods take. Index addresses a
// section entry; nil means add.
type TemporaryInfo struct {
	Screen       string         `json:"screen"`
	ActivityType string         `json:"activityType,omitempty"`
	StableIndex  *int           `json:"stableIndex,omitempty"`
	Index        *int           `json:"index,omitempty"`
	Note         *NoteEntry     `json:"note,omitempty"`
	Referral     *ReferralEntry `json:"referral,omitempty"`
	Section      Section        `json:"section,omitempty"`
	Entry        *SectionEntry  `json:"entry,omitempty"`
	Contact      *ContactView   `json:"contact,omitempty"`
}

// Contact details sections expanded by default on the view-contact screen.
const (
	DetailsGeneral             = "General details"
	DetailsCallerInformation   = "Caller information"
	DetailsChildInformation    = "Child information"
	DetailsIssueCategorization = "Issue categorization"
	DetailsContactSummary      = "Contact summary"
)

// DefaultDetailsExpanded opens only the general details section.
func DefaultDetailsExpanded() map[string]bool {
	return map[string]bool{
		DetailsGeneral:             true,
		DetailsCallerInformation:   false,
		DetailsChildInformation:    false,
		DetailsIssueCategorization: false,
		DetailsContactSummary:      false,
	}
}
