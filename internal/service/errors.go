package service

import (
	"errors"
	"fmt"
)

// Dependency names used in errors, logs and metrics
const (
	DependencyStore      = "store"
	DependencyDirectory  = "directory"
	DependencyGeneration = "generation"
)

// DependencyError aborts the current event because a collaborator failed
type DependencyError struct {
	Dependency string
	Err        error
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("%s: %v", e.Dependency, e.Err)
}

func (e *DependencyError) Unwrap() error {
	return e.Err
}

func dependencyErr(dependency string, err error) error {
	return &DependencyError{Dependency: dependency, Err: err}
}

// DependencyOf names the failing dependency, or "unknown"
func DependencyOf(err error) string {
	var depErr *DependencyError
	if errors.As(err, &depErr) {
		return depErr.Dependency
	}
	return "unknown"
}
