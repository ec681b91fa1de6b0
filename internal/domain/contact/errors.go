package contact

import "errors"

var (
	// ErrInvalidSearch indicates invalid contact search parameters.
	ErrInvalidSearch = errors.New("invalid contact search")
	// ErrSearchFailed indicates the HRM API rejected or failed a search.
	ErrSearchFailed = errors.New("contact search failed")
)
