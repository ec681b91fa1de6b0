package casework

import (
	"maps"
	"slices"

	"github.com/rpggio/casedesk/internal/domain/contact"
)

// UpdateListByIndex replaces list[index] when index is in range and appends
// otherwise. The input slice is never modified.
func UpdateListByIndex[T any](list []T, index int, entry T) []T {
	out := slices.Clone(list)
	if index >= 0 && index < len(out) {
		out[index] = entry
		return out
	}
	return append(out, entry)
}

// Clone returns a copy of the case that shares no slices or maps with c.
func (c *Case) Clone() *Case {
	if c == nil {
		return nil
	}
	out := *c
	out.Info = c.Info.Clone()
	out.ConnectedContacts = slices.Clone(c.ConnectedContacts)
	return &out
}

// Clone returns a copy of the info bag with its own lists.
func (i Info) Clone() Info {
	out := i
	out.CounsellorNotes = slices.Clone(i.CounsellorNotes)
	out.Referrals = slices.Clone(i.Referrals)
	out.Households = cloneSection(i.Households)
	out.Perpetrators = cloneSection(i.Perpetrators)
	out.Incidents = cloneSection(i.Incidents)
	out.Documents = cloneSection(i.Documents)
	return out
}

// SectionList returns the entries of a section.
func (i Info) SectionList(s Section) ([]SectionEntry, error) {
	switch s {
	case SectionHouseholds:
		return i.Households, nil
	case SectionPerpetrators:
		return i.Perpetrators, nil
	case SectionIncidents:
		return i.Incidents, nil
	case SectionDocuments:
		return i.Documents, nil
	}
	return nil, ErrUnknownSection
}

// WithSectionEntry returns a copy of the info with entry written at index
// (edit) or appended (add).
func (i Info) WithSectionEntry(s Section, index int, entry SectionEntry) (Info, error) {
	list, err := i.SectionList(s)
	if err != nil {
		return i, err
	}
	updated := UpdateListByIndex(list, index, entry)
	out := i.Clone()
	switch s {
	case SectionHouseholds:
		out.Households = updated
	case SectionPerpetrators:
		out.Perpetrators = updated
	case SectionIncidents:
		out.Incidents = updated
	case SectionDocuments:
		out.Documents = updated
	}
	return out, nil
}

// FirstContact returns the earliest connected contact, if any.
func (c *Case) FirstContact() (contact.Contact, bool) {
	if c == nil || len(c.ConnectedContacts) == 0 {
		return contact.Contact{}, false
	}
	return c.ConnectedContacts[0], true
}

func cloneSection(list []SectionEntry) []SectionEntry {
	if list == nil {
		return nil
	}
	out := make([]SectionEntry, len(list))
	for i, e := range list {
		e.Form = maps.Clone(e.Form)
		out[i] = e
	}
	return out
}
