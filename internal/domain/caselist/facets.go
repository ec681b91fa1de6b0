package caselist

// Item is one selectable option of a multi-select facet.
type Item struct {
	Value   string `json:"value"`
	Label   string `json:"label"`
	Checked bool   `json:"checked"`
}

// Category is a category facet option with its subcategory items.
type Category struct {
	CategoryName  string `json:"categoryName"`
	Subcategories []Item `json:"subcategories"`
}

// CategoryFilter selects one (category, subcategory) pair.
type CategoryFilter struct {
	Category    string `json:"category"`
	Subcategory string `json:"subcategory"`
}

// DateFacets holds the three independent date-range facets. A nil range is unset.
type DateFacets struct {
	CreatedAt    *DateRange `json:"createdAt,omitempty"`
	UpdatedAt    *DateRange `json:"updatedAt,omitempty"`
	FollowUpDate *DateRange `json:"followUpDate,omitempty"`
}

// CheckedValues returns the values of the checked items, in input order.
func CheckedValues(items []Item) []string {
	out := []string{}
	for _, item := range items {
		if item.Checked {
			out = append(out, item.Value)
		}
	}
	return out
}

// CheckedCategoryPairs flattens every checked subcategory into a
// (category, subcategory) pair.
func CheckedCategoryPairs(categories []Category) []CategoryFilter {
	out := []CategoryFilter{}
	for _, category := range categories {
		for _, sub := range category.Subcategories {
			if sub.Checked {
				out = append(out, CategoryFilter{Category: category.CategoryName, Subcategory: sub.Label})
			}
		}
	}
	return out
}
