package core

import (
	"errors"
	"fmt"
)

// Sentinel errors for the failure classes callers branch on. Everything
// else is wrapped I/O or internal failure carried via %w.
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrPermission   = errors.New("permission denied")
)

// NotFoundf wraps ErrNotFound with context so errors.Is keeps working.
func NotFoundf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrNotFound)...)
}

// InvalidInputf wraps ErrInvalidInput with context.
func InvalidInputf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrInvalidInput)...)
}
