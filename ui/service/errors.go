package service

import "errors"

// Service package errors.
var (
	// ErrNotFound indicates a resource was not found.
	ErrNotFound = errors.New("service: not found")

	// ErrInvalidTag indicates a tag that is empty or contains unsupported characters.
	ErrInvalidTag = errors.New("service: invalid tag")

	// ErrReadOnly indicates a mutation attempted on a read-only dashboard.
	ErrReadOnly = errors.New("service: read-only mode")
)
