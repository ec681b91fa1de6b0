package caselist

import (
	"slices"
	"sort"

	"github.com/rpggio/casedesk/internal/domain/definition"
)

// FacetState is the widget state of every facet.
type FacetState struct {
	Statuses   []Item     `json:"statuses"`
	Counselors []Item     `json:"counselors"`
	Categories []Category `json:"categories"`
	Dates      DateFacets `json:"dates"`
	Active     bool       `json:"active"`
}

// StatusItems lists the statuses of a definition version, ordered by label.
func StatusItems(def *definition.Version) []Item {
	if def == nil {
		return []Item{}
	}
	out := make([]Item, 0, len(def.CaseStatus))
	for _, s := range def.CaseStatus {
		out = append(out, Item{Value: s.Value, Label: s.Label})
	}
	sortItems(out)
	return out
}

// CounselorItems lists the counselor directory, ordered by name.
func CounselorItems(directory map[string]string) []Item {
	out := make([]Item, 0, len(directory))
	for sid, name := range directory {
		out = append(out, Item{Value: sid, Label: name})
	}
	sortItems(out)
	return out
}

// CategoryItems lists the categories of a definition version, ordered by name.
// Subcategories keep their declared order.
func CategoryItems(def *definition.Version) []Category {
	if def == nil {
		return []Category{}
	}
	names := make([]string, 0, len(def.Categories))
	for name := range def.Categories {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]Category, 0, len(names))
	for _, name := range names {
		subs := def.Categories[name].Subcategories
		items := make([]Item, 0, len(subs))
		for _, sub := range subs {
			items = append(items, Item{Value: sub, Label: sub})
		}
		out = append(out, Category{CategoryName: name, Subcategories: items})
	}
	return out
}

// Reconcile rebuilds widget state from the authoritative filter and the
// current option universes. Counselor items always come from the directory,
// so a selected counselor missing from it is dropped.
func Reconcile(f Filter, statuses []Item, directory map[string]string, categories []Category) FacetState {
	state := FacetState{
		Statuses:   checkItems(statuses, f.Statuses),
		Counselors: checkItems(CounselorItems(directory), f.Counsellors),
		Categories: make([]Category, 0, len(categories)),
		Dates:      DateFacets{CreatedAt: f.CreatedAt.clone(), UpdatedAt: f.UpdatedAt.clone(), FollowUpDate: f.FollowUpDate.clone()},
	}
	for _, c := range categories {
		subs := make([]Item, len(c.Subcategories))
		for i, sub := range c.Subcategories {
			sub.Checked = slices.Contains(f.Categories, CategoryFilter{Category: c.CategoryName, Subcategory: sub.Label})
			subs[i] = sub
		}
		state.Categories = append(state.Categories, Category{CategoryName: c.CategoryName, Subcategories: subs})
	}
	state.Active = HasActiveFilters(ComposeFilter(state.Statuses, state.Counselors, state.Categories, state.Dates))
	return state
}

// PruneCounsellors drops counsellor selections missing from the directory.
func PruneCounsellors(f Filter, directory map[string]string) Filter {
	out := f.Clone()
	out.Counsellors = out.Counsellors[:0]
	for _, sid := range f.Counsellors {
		if _, ok := directory[sid]; ok {
			out.Counsellors = append(out.Counsellors, sid)
		}
	}
	return out
}

func checkItems(universe []Item, selected []string) []Item {
	out := make([]Item, len(universe))
	for i, item := range universe {
		item.Checked = slices.Contains(selected, item.Value)
		out[i] = item
	}
	return out
}

func sortItems(items []Item) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Label != items[j].Label {
			return items[i].Label < items[j].Label
		}
		return items[i].Value < items[j].Value
	})
}
