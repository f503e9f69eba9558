package mfdash

import "errors"

// ErrInvalidConfig is returned when the dashboard configuration is invalid.
var ErrInvalidConfig = errors.New("mfdash: invalid configuration")
