package caselist

import "slices"

// Filter is the case-list query filter. Facets combine with AND; values
// within a facet combine with OR. IncludeOrphans is a query flag.
type Filter struct {
	Statuses       []string         `json:"statuses"`
	Counsellors    []string         `json:"counsellors"`
	Categories     []CategoryFilter `json:"categories"`
	CreatedAt      *DateRange       `json:"createdAt,omitempty"`
	UpdatedAt      *DateRange       `json:"updatedAt,omitempty"`
	FollowUpDate   *DateRange       `json:"followUpDate,omitempty"`
	IncludeOrphans bool             `json:"includeOrphans"`
}

// EmptyFilter returns a filter with no facet selected.
func EmptyFilter() Filter {
	return Filter{
		Statuses:    []string{},
		Counsellors: []string{},
		Categories:  []CategoryFilter{},
	}
}

// ComposeFilter combines facet widget state into one filter. Equal inputs
// always produce structurally equal filters.
func ComposeFilter(status, counselor []Item, categories []Category, dates DateFacets) Filter {
	return Filter{
		Statuses:     CheckedValues(status),
		Counsellors:  CheckedValues(counselor),
		Categories:   CheckedCategoryPairs(categories),
		CreatedAt:    dates.CreatedAt.clone(),
		UpdatedAt:    dates.UpdatedAt.clone(),
		FollowUpDate: dates.FollowUpDate.clone(),
	}
}

// HasActiveFilters reports whether any facet is selected.
func HasActiveFilters(f Filter) bool {
	return len(f.Statuses) > 0 ||
		len(f.Counsellors) > 0 ||
		len(f.Categories) > 0 ||
		f.CreatedAt != nil ||
		f.UpdatedAt != nil ||
		f.FollowUpDate != nil
}

// Dates returns the date facets of the filter.
func (f Filter) Dates() DateFacets {
	return DateFacets{CreatedAt: f.CreatedAt, UpdatedAt: f.UpdatedAt, FollowUpDate: f.FollowUpDate}
}

// Clone returns a deep copy of the filter.
func (f Filter) Clone() Filter {
	out := f
	out.Statuses = cloneNonNil(f.Statuses)
	out.Counsellors = cloneNonNil(f.Counsellors)
	out.Categories = cloneNonNil(f.Categories)
	out.CreatedAt = f.CreatedAt.clone()
	out.UpdatedAt = f.UpdatedAt.clone()
	out.FollowUpDate = f.FollowUpDate.clone()
	return out
}

// DateField names a date facet.
type DateField string

const (
	DateFieldCreatedAt    DateField = "createdAt"
	DateFieldUpdatedAt    DateField = "updatedAt"
	DateFieldFollowUpDate DateField = "followUpDate"
)

// FilterUpdate changes part of a filter. Nil slices leave a facet unchanged;
// a Dates entry replaces that date facet, and a nil range clears it.
type FilterUpdate struct {
	Statuses       []string                 `json:"statuses,omitempty"`
	Counsellors    []string                 `json:"counsellors,omitempty"`
	Categories     []CategoryFilter         `json:"categories,omitempty"`
	Dates          map[DateField]*DateRange `json:"dates,omitempty"`
	IncludeOrphans *bool                    `json:"includeOrphans,omitempty"`
}

// Merge returns f with the update applied.
func (f Filter) Merge(u FilterUpdate) Filter {
	out := f.Clone()
	if u.Statuses != nil {
		out.Statuses = slices.Clone(u.Statuses)
	}
	if u.Counsellors != nil {
		out.Counsellors = slices.Clone(u.Counsellors)
	}
	if u.Categories != nil {
		out.Categories = slices.Clone(u.Categories)
	}
	for field, r := range u.Dates {
		switch field {
		case DateFieldCreatedAt:
			out.CreatedAt = r.clone()
		case DateFieldUpdatedAt:
			out.UpdatedAt = r.clone()
		case DateFieldFollowUpDate:
			out.FollowUpDate = r.clone()
		}
	}
	if u.IncludeOrphans != nil {
		out.IncludeOrphans = *u.IncludeOrphans
	}
	return out
}

// Replace builds an update that overwrites every facet with those of f.
func Replace(f Filter) FilterUpdate {
	includeOrphans := f.IncludeOrphans
	return FilterUpdate{
		Statuses:    cloneNonNil(f.Statuses),
		Counsellors: cloneNonNil(f.Counsellors),
		Categories:  cloneNonNil(f.Categories),
		Dates: map[DateField]*DateRange{
			DateFieldCreatedAt:    f.CreatedAt,
			DateFieldUpdatedAt:    f.UpdatedAt,
			DateFieldFollowUpDate: f.FollowUpDate,
		},
		IncludeOrphans: &includeOrphans,
	}
}

func cloneNonNil[T any](list []T) []T {
	if list == nil {
		return []T{}
	}
	return slices.Clone(list)
}
