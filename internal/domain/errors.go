package domain

import (
	"errors"
	"fmt"
)

// Sentinel causes, wrapped by the typed errors below
var (
	ErrRunDateLineMissing   = errors.New("run date header line not found")
	ErrRunDateTokenMissing  = errors.New("run date token not found in header line")
	ErrReasonSectionMissing = errors.New("CODE/DESCRIPTION section not found")
	ErrMisalignedRejects    = errors.New("reject columns have different lengths")
	ErrInvalidFileName      = errors.New("file name does not follow the naming convention")
	ErrFileDateMismatch     = errors.New("file date does not match the business date")
	ErrMissingSubsidiary    = errors.New("subsidiary missing on unified row")
	ErrMissingColumn        = errors.New("required column missing")
)

// FormatError reports an artifact that lacks an expected marker or pattern
type FormatError struct {
	Artifact string
	Err      error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("format error in %s: %v", e.Artifact, e.Err)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// ValidationError reports a value that does not match what the run expects
type ValidationError struct {
	Artifact string
	Expected string
	Actual   string
	Err      error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error in %s: %v (expected %s, got %s)", e.Artifact, e.Err, e.Expected, e.Actual)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// PreconditionError reports intermediate data that cannot feed the next step
type PreconditionError struct {
	Step string
	Err  error
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("precondition failed before %s: %v", e.Step, e.Err)
}

func (e *PreconditionError) Unwrap() error {
	return e.Err
}

// RunError aborts a reconciliation run; UserMessage is what the user sees first
type RunError struct {
	Artifact    string
	UserMessage string
	Err         error
}

func (e *RunError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s (%s): %v", e.UserMessage, e.Artifact, e.Err)
	}
	return fmt.Sprintf("%s (%s)", e.UserMessage, e.Artifact)
}

func (e *RunError) Unwrap() error {
	return e.Err
}

// NewRunError creates a run-aborting error for the given artifact
func NewRunError(artifact, userMessage string, err error) error {
	return &RunError{
		Artifact:    artifact,
		UserMessage: userMessage,
		Err:         err,
	}
}

// WarningFrom builds a user-facing warning, keeping the raw error as detail
func WarningFrom(artifact, message string, err error) Warning {
	w := Warning{Artifact: artifact, Message: message}
	if err != nil {
		w.Detail = err.Error()
	}
	return w
}
