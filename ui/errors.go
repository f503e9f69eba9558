package ui

import (
	"errors"

	"github.com/youssefsiam38/mfdash/ui/service"
)

// UI package errors.
var (
	// ErrInvalidConfig indicates invalid configuration.
	ErrInvalidConfig = errors.New("ui: invalid configuration")

	// ErrNotFound indicates a job or model was not found.
	ErrNotFound = service.ErrNotFound

	// ErrReadOnly indicates a write on a read-only dashboard.
	ErrReadOnly = service.ErrReadOnly
)
