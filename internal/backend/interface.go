// Package backend selects and builds the remote backend the engine talks to.
package backend

import (
	"context"

	"finboard/internal/remote"
)

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// Result contains the backend instance and optional cleanup function
type Result struct {
	Backend remote.Backend
	Cleanup CleanupFunc
}

// Close runs the cleanup function when there is one.
func (r *Result) Close() error {
	if r == nil || r.Cleanup == nil {
		return nil
	}
	return r.Cleanup()
}

// Factory creates backends based on configuration
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*Result, error)
}

// Type represents the kind of backend
type Type string

const (
	RestBackend   Type = "rest"
	MemoryBackend Type = "memory"
)

// String implements fmt.Stringer
func (t Type) String() string {
	return string(t)
}

// IsValid returns true if the backend type is valid
func (t Type) IsValid() bool {
	switch t {
	case RestBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
