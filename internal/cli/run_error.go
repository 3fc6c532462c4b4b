package cli

import (
	"fmt"

	"go.uber.org/multierr"

	"github.com/toyz/measuregen/internal/models"
)

// TypeFailure is one type that could not be generated
type TypeFailure struct {
	Type models.TypeIdentity
	Err  error
}

// RunError reports every failure of a generation run. The other types of
// the run were still generated.
type RunError struct {
	RunID    string
	Failures []TypeFailure
	err      error
}

func newRunError(runID string, failures []TypeFailure) *RunError {
	var combined error
	for _, f := range failures {
		combined = multierr.Append(combined, f.Err)
	}
	return &RunError{RunID: runID, Failures: failures, err: combined}
}

// Error implements the error interface
func (e *RunError) Error() string {
	if len(e.Failures) == 1 {
		return fmt.Sprintf("run %s: 1 type failed: %v", e.RunID, e.err)
	}
	return fmt.Sprintf("run %s: %d types failed: %v", e.RunID, len(e.Failures), e.err)
}

// Unwrap exposes the individual failures to errors.Is and errors.As
func (e *RunError) Unwrap() []error {
	return multierr.Errors(e.err)
}
