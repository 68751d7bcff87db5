// Package domain defines domain-level errors for the symbollist feature.
package domain

import "errors"

// ErrInvalidSymbol is returned when a seed entry has no code or no name.
var ErrInvalidSymbol = errors.New("symbol requires a code and a name")
