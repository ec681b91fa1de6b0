// Package repository holds the errors shared by the persistence layer.
package repository

import "errors"

// ErrNotFound reports a missing row, such as an uncached definition version
// or an unknown API key.
var ErrNotFound = errors.New("not found")

// ErrConflict reports a duplicate key on insert.
var ErrConflict = errors.New("already exists")

// ErrInvalidInput reports arguments rejected before reaching the database.
var ErrInvalidInput = errors.New("invalid input")
