package casework

import (
	"time"

	"github.com/rpggio/casedesk/internal/domain/contact"
)

// Case is a case record as stored by the HRM API.
type Case struct {
	ID                int64             `json:"id"`
	Helpline          string            `json:"helpline,omitempty"`
	TwilioWorkerID    string            `json:"twilioWorkerId"`
	Status            string            `json:"status"`
	CreatedAt         time.Time         `json:"createdAt"`
	UpdatedAt         time.Time         `json:"updatedAt"`
	Info              Info              `json:"info"`
	ConnectedContacts []contact.Contact `json:"connectedContacts,omitempty"`
}

// Info is the structured case information bag.
type Info struct {
	DefinitionVersion string          `json:"definitionVersion,omitempty"`
	FollowUpDate      string          `json:"followUpDate,omitempty"`
	ChildIsAtRisk     bool            `json:"childIsAtRisk"`
	Summary           string          `json:"summary,omitempty"`
	CounsellorNotes   []NoteEntry     `json:"counsellorNotes,omitempty"`
	Referrals         []ReferralEntry `json:"referrals,omitempty"`
	Households        []SectionEntry  `json:"households,omitempty"`
	Perpetrators      []SectionEntry  `json:"perpetrators,omitempty"`
	Incidents         []SectionEntry  `json:"incidents,omitempty"`
	Documents         []SectionEntry  `json:"documents,omitempty"`
}

// NoteEntry is a counsellor note.
type NoteEntry struct {
	Note           string    `json:"note"`
	TwilioWorkerID string    `json:"twilioWorkerId"`
	CreatedAt      time.Time `json:"createdAt"`
}

// ReferralEntry records a referral to another service. Date is the day the
// referral was made (yyyy-mm-dd).
type ReferralEntry struct {
	Date           string    `json:"date"`
	ReferredTo     string    `json:"referredTo"`
	Comments       string    `json:"comments,omitempty"`
	TwilioWorkerID string    `json:"twilioWorkerId"`
	CreatedAt      time.Time `json:"createdAt"`
}

// ReferralDateLayout is the layout of ReferralEntry.Date and Info.FollowUpDate.
const ReferralDateLayout = "2006-01-02"

// SectionEntry is one item of a form-driven case section (household,
// perpetrator, incident, document).
type SectionEntry struct {
	Form           map[string]any `json:"form"`
	TwilioWorkerID string         `json:"twilioWorkerId"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      *time.Time     `json:"updatedAt,omitempty"`
	UpdatedBy      string         `json:"updatedBy,omitempty"`
}

// Section names a form-driven list in Info.
type Section string

const (
	SectionHouseholds   Section = "households"
	SectionPerpetrators Section = "perpetrators"
	SectionIncidents    Section = "incidents"
	SectionDocuments    Section = "documents"
)

// FormName returns the case form definition key used by the section.
func (s Section) FormName() string {
	switch s {
	case SectionHouseholds:
		return "HouseholdForm"
	case SectionPerpetrators:
		return "PerpetratorForm"
	case SectionIncidents:
		return "IncidentForm"
	case SectionDocuments:
		return "DocumentForm"
	}
	return ""
}

// IsNew reports whether the case has never been updated since creation.
func (c *Case) IsNew() bool {
	return c.UpdatedAt.Equal(c.CreatedAt)
}
