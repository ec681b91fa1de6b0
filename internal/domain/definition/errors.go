package definition

import "errors"

var (
	// ErrUnknownFieldType indicates a form field with an unsupported type tag.
	ErrUnknownFieldType = errors.New("unknown field type")
	// ErrVersionNotFound indicates no document exists for the requested version.
	ErrVersionNotFound = errors.New("definition version not found")
	// ErrInvalidDocument indicates a definition document that could not be decoded.
	ErrInvalidDocument = errors.New("invalid definition document")
)
