package caselist

import "fmt"

// CasesPerPage is the page size of the case list.
const CasesPerPage = 5

// Sort columns.
const (
	SortByID           = "id"
	SortByCreatedAt    = "createdAt"
	SortByUpdatedAt    = "updatedAt"
	SortByFollowUpDate = "followUpDate"
	SortByChildName    = "childName"
)

// Sort directions.
const (
	SortASC  = "ASC"
	SortDESC = "DESC"
)

// ListQuery is the paging and ordering of a case-list request.
type ListQuery struct {
	Limit         int    `json:"limit"`
	Offset        int    `json:"offset"`
	SortBy        string `json:"sortBy"`
	SortDirection string `json:"sortDirection"`
}

// Settings is the case-list view state kept by the store.
type Settings struct {
	Filter        Filter `json:"filter"`
	Page          int    `json:"page"`
	SortBy        string `json:"sortBy"`
	SortDirection string `json:"sortDirection"`
}

// DefaultSettings lists newest cases first with no filter.
func DefaultSettings() Settings {
	return Settings{
		Filter:        EmptyFilter(),
		Page:          0,
		SortBy:        SortByUpdatedAt,
		SortDirection: SortDESC,
	}
}

// Query returns the list query for the settings' current page.
func (s Settings) Query() ListQuery {
	return PageQuery(s.Page, s.SortBy, s.SortDirection)
}

// PageQuery returns the query for a zero-based page.
func PageQuery(page int, sortBy, direction string) ListQuery {
	if page < 0 {
		page = 0
	}
	return ListQuery{
		Limit:         CasesPerPage,
		Offset:        page * CasesPerPage,
		SortBy:        sortBy,
		SortDirection: direction,
	}
}

// PagesCount returns the number of pages needed for count cases.
func PagesCount(count int) int {
	return (count + CasesPerPage - 1) / CasesPerPage
}

// ValidateSort checks a sort column and direction.
func ValidateSort(sortBy, direction string) error {
	switch sortBy {
	case SortByID, SortByCreatedAt, SortByUpdatedAt, SortByFollowUpDate, SortByChildName:
	default:
		return fmt.Errorf("%w: sort by %q", ErrInvalidQuery, sortBy)
	}
	if direction != SortASC && direction != SortDESC {
		return fmt.Errorf("%w: direction %q", ErrInvalidQuery, direction)
	}
	return nil
}
