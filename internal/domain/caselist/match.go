package caselist

import (
	"cmp"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/rpggio/casedesk/internal/domain/casework"
)

// Page is one page of cases and the total number of matches.
type Page struct {
	Count int             `json:"count"`
	Cases []casework.Case `json:"cases"`
}

// Match reports whether a case satisfies the filter. Cases without connected
// contacts are orphans and only match when IncludeOrphans is set.
func Match(f Filter, c *casework.Case) bool {
	if !f.IncludeOrphans && len(c.ConnectedContacts) == 0 {
		return false
	}
	if len(f.Statuses) > 0 && !slices.Contains(f.Statuses, c.Status) {
		return false
	}
	if len(f.Counsellors) > 0 && !slices.Contains(f.Counsellors, c.TwilioWorkerID) {
		return false
	}
	if len(f.Categories) > 0 && !matchCategories(f.Categories, c) {
		return false
	}
	if f.CreatedAt != nil && !f.CreatedAt.Contains(c.CreatedAt) {
		return false
	}
	if f.UpdatedAt != nil && !f.UpdatedAt.Contains(c.UpdatedAt) {
		return false
	}
	if f.FollowUpDate != nil {
		followUp, ok := FollowUpTime(c)
		if !ok || !f.FollowUpDate.Contains(followUp) {
			return false
		}
	}
	return true
}

// Apply filters, sorts and pages a set of cases.
func Apply(f Filter, cases []casework.Case, q ListQuery) Page {
	matched := make([]casework.Case, 0, len(cases))
	for i := range cases {
		if Match(f, &cases[i]) {
			matched = append(matched, cases[i])
		}
	}
	sortCases(matched, q.SortBy, q.SortDirection)

	page := Page{Count: len(matched), Cases: []casework.Case{}}
	if q.Offset >= len(matched) {
		return page
	}
	end := len(matched)
	if q.Limit > 0 && q.Offset+q.Limit < end {
		end = q.Offset + q.Limit
	}
	page.Cases = matched[max(q.Offset, 0):end]
	return page
}

// FollowUpTime parses the case follow-up date.
func FollowUpTime(c *casework.Case) (time.Time, bool) {
	if c.Info.FollowUpDate == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(casework.ReferralDateLayout, c.Info.FollowUpDate); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, c.Info.FollowUpDate); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// ChildName returns "first last" from the case's first connected contact.
func ChildName(c *casework.Case) string {
	first, ok := c.FirstContact()
	if !ok {
		return ""
	}
	name, ok := first.RawJSON.ChildName()
	if !ok {
		return ""
	}
	return strings.TrimSpace(name.FirstName + " " + name.LastName)
}

func matchCategories(selected []CategoryFilter, c *casework.Case) bool {
	first, ok := c.FirstContact()
	if !ok {
		return false
	}
	categories := first.RawJSON.Categories()
	for _, sel := range selected {
		if categories[sel.Category][sel.Subcategory] {
			return true
		}
	}
	return false
}

func sortCases(cases []casework.Case, sortBy, direction string) {
	compare := func(a, b *casework.Case) int {
		switch sortBy {
		case SortByID:
			return cmp.Compare(a.ID, b.ID)
		case SortByCreatedAt:
			return a.CreatedAt.Compare(b.CreatedAt)
		case SortByFollowUpDate:
			ta, _ := FollowUpTime(a)
			tb, _ := FollowUpTime(b)
			return ta.Compare(tb)
		case SortByChildName:
			return strings.Compare(strings.ToLower(ChildName(a)), strings.ToLower(ChildName(b)))
		default:
			return a.UpdatedAt.Compare(b.UpdatedAt)
		}
	}
	sort.SliceStable(cases, func(i, j int) bool {
		order := compare(&cases[i], &cases[j])
		if direction == SortASC {
			return order < 0
		}
		return order > 0
	})
}
