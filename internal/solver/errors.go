package solver

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrSolverNotFound  = errors.New("solver not found")
	ErrDuplicateSolver = errors.New("solver already registered")
	ErrRegistrySealed  = errors.New("solver registry is sealed")
)

// NotFoundError reports an unknown solver id together with the ids that
// are registered.
type NotFoundError struct {
	ID        string
	Available []string
}

func (e *NotFoundError) Error() string {
	if len(e.Available) == 0 {
		return fmt.Sprintf("no solver %q registered: no solvers are available", e.ID)
	}
	return fmt.Sprintf("no solver %q registered. Available solvers: %s", e.ID, strings.Join(e.Available, ", "))
}

func (e *NotFoundError) Unwrap() error {
	return ErrSolverNotFound
}
