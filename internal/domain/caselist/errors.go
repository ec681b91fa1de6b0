package caselist

import "errors"

var (
	// ErrUnknownDateOption indicates a date preset not offered for the facet.
	ErrUnknownDateOption = errors.New("unknown date filter option")
	// ErrInvalidRange indicates a custom range whose start is not before its end.
	ErrInvalidRange = errors.New("invalid date range")
	// ErrInvalidQuery indicates an unsupported sort column or direction.
	ErrInvalidQuery = errors.New("invalid list query")
)
