package casework

import (
	"time"

	"github.com/rpggio/casedesk/internal/domain/contact"
	"github.com/rpggio/casedesk/internal/domain/definition"
)

// Details is the case details view model.
type Details struct {
	ID               int64                         `json:"id"`
	Name             contact.Name                  `json:"name"`
	Categories       map[string][]string           `json:"categories"`
	Status           string                        `json:"status"`
	StatusLabel      string                        `json:"statusLabel"`
	PrevStatus       string                        `json:"prevStatus"`
	StatusOptions    []definition.StatusDefinition `json:"statusOptions"`
	CaseCounselor    string                        `json:"caseCounselor"`
	CurrentCounselor string                        `json:"currentCounselor"`
	OpenedDate       time.Time                     `json:"openedDate"`
	LastUpdatedDate  time.Time                     `json:"lastUpdatedDate"`
	FollowUpDate     string                        `json:"followUpDate,omitempty"`
	Households       []SectionEntry                `json:"households"`
	Perpetrators     []SectionEntry                `json:"perpetrators"`
	Incidents        []SectionEntry                `json:"incidents"`
	Documents        []SectionEntry                `json:"documents"`
	SectionViews     map[Section][]SectionView     `json:"sectionViews"`
	Referrals        []ReferralEntry               `json:"referrals"`
	Notes            []NoteEntry                   `json:"notes"`
	Summary          string                        `json:"summary,omitempty"`
	ChildIsAtRisk    bool                          `json:"childIsAtRisk"`
	Office           *definition.HelplineEntry     `json:"office,omitempty"`
	Version          string                        `json:"version,omitempty"`
	Contact          *contact.Contact              `json:"contact,omitempty"`
	Contacts         []contact.Contact             `json:"contacts"`
	Edited           bool                          `json:"edited"`
}

// DetailsInput gathers what BuildDetails reads.
type DetailsInput struct {
	Case       *Case
	PrevStatus string
	Edited     bool
	Form       *contact.TaskEntry
	Definition *definition.Version
	Counselors map[string]string
	WorkerSID  string
}

// BuildDetails derives the case details view model. The child name and
// categories come from the first connected contact, or from the in-progress
// form while the case has no saved contact.
func BuildDetails(in DetailsInput) Details {
	c := in.Case
	if c == nil {
		return Details{}
	}
	first, hasContact := c.FirstContact()

	d := Details{
		ID:               c.ID,
		Name:             detailsName(first, hasContact, in.Form),
		Categories:       detailsCategories(first, hasContact, in.Form, in.Definition),
		Status:           c.Status,
		StatusLabel:      c.Status,
		PrevStatus:       in.PrevStatus,
		CaseCounselor:    in.Counselors[c.TwilioWorkerID],
		CurrentCounselor: in.Counselors[in.WorkerSID],
		OpenedDate:       c.CreatedAt,
		LastUpdatedDate:  c.UpdatedAt,
		FollowUpDate:     c.Info.FollowUpDate,
		Households:       nonNil(c.Info.Households),
		Perpetrators:     nonNil(c.Info.Perpetrators),
		Incidents:        nonNil(c.Info.Incidents),
		Documents:        nonNil(c.Info.Documents),
		Referrals:        nonNil(c.Info.Referrals),
		Notes:            nonNil(c.Info.CounsellorNotes),
		Summary:          c.Info.Summary,
		ChildIsAtRisk:    c.Info.ChildIsAtRisk,
		Version:          c.Info.DefinitionVersion,
		Contacts:         nonNil(c.ConnectedContacts),
		Edited:           in.Edited,
	}
	d.SectionViews = sectionViews(c.Info, in.Definition)
	if hasContact {
		d.Contact = &first
	}
	if def := in.Definition; def != nil {
		d.StatusLabel = def.StatusLabel(c.Status)
		d.StatusOptions = def.StatusOptions(in.PrevStatus)
		if office, ok := helplineData(c.Helpline, def); ok {
			d.Office = &office
		}
	}
	return d
}

// SectionView is a section entry rendered through its definition form.
type SectionView struct {
	Index     int                         `json:"index"`
	CreatedAt time.Time                   `json:"createdAt"`
	Fields    []definition.PresentedField `json:"fields"`
}

// Sections lists the form-driven sections in display order.
var Sections = []Section{SectionHouseholds, SectionPerpetrators, SectionIncidents, SectionDocuments}

func sectionViews(info Info, def *definition.Version) map[Section][]SectionView {
	out := make(map[Section][]SectionView, len(Sections))
	for _, section := range Sections {
		list, _ := info.SectionList(section)
		var fields definition.FieldList
		if def != nil {
			fields = def.Form(section.FormName())
		}
		views := make([]SectionView, 0, len(list))
		for i, entry := range list {
			views = append(views, SectionView{
				Index:     i,
				CreatedAt: entry.CreatedAt,
				Fields:    definition.PresentEntry(fields, entry.Form, nil),
			})
		}
		out[section] = views
	}
	return out
}

func detailsName(first contact.Contact, hasContact bool, form *contact.TaskEntry) contact.Name {
	unknown := contact.Name{FirstName: "Unknown", LastName: "Unknown"}
	if hasContact {
		if name, ok := first.RawJSON.ChildName(); ok {
			return name
		}
		return unknown
	}
	if form != nil && form.ChildInformation != nil {
		firstName, lastName := form.ChildName()
		return contact.Name{FirstName: firstName, LastName: lastName}
	}
	return unknown
}

func detailsCategories(first contact.Contact, hasContact bool, form *contact.TaskEntry, def *definition.Version) map[string][]string {
	if hasContact && first.RawJSON.CaseInformation != nil {
		return contact.RetrieveCategories(first.RawJSON.Categories())
	}
	if form != nil && len(form.Categories) > 0 && def != nil {
		raw := contact.TransformForm(contact.TaskEntry{Categories: form.Categories}, def.CategoryTree())
		return contact.RetrieveCategories(raw.Categories())
	}
	return map[string][]string{}
}

func helplineData(helpline string, def *definition.Version) (definition.HelplineEntry, bool) {
	for _, h := range def.Helplines {
		if h.Value == helpline {
			return h, true
		}
	}
	return def.DefaultHelpline()
}

func nonNil[T any](list []T) []T {
	if list == nil {
		return []T{}
	}
	return list
}
