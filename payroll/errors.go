/*
errors.go - Centralized error types for the payroll engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  The HTTP layer maps these to status codes without knowing any internals.

ERROR CATEGORIES:
  1. Not-found errors  - Referenced payroll or adjustment does not exist
  2. Conflict errors   - Type or status uniqueness violated
  3. Validation errors - Bad input, unresolvable employee/position
  4. Directory errors  - Employee directory unreachable or misbehaving

PROPAGATION POLICY:
  The ledger never retries and never swallows errors. Conflict and
  validation errors are raised before any mutation, so those paths never
  leave partial writes behind.

SEE ALSO:
  - ledger.go: Raises conflict/not-found errors
  - service.go: Raises validation/directory errors
  - api/handlers.go: Maps these to HTTP status codes
*/
package payroll

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrPayrollNotFound is returned when a referenced payroll doesn't exist.
	ErrPayrollNotFound = errors.New("payroll not found")

	// ErrAdjustmentNotFound is returned when a referenced adjustment doesn't exist.
	ErrAdjustmentNotFound = errors.New("adjustment not found")

	// ErrTypeConflict is returned when an adjustment of the same type already
	// exists anywhere in the store. The scope is system-wide, not per payroll.
	ErrTypeConflict = errors.New("adjustment type already exists")

	// ErrStatusConflict is returned when a payroll with the same status label
	// already exists. Status labels are globally unique.
	ErrStatusConflict = errors.New("payroll status already exists")

	// ErrEmployeeNotFound is returned when the directory has no such employee.
	ErrEmployeeNotFound = errors.New("employee not found in directory")

	// ErrPositionNotFound is returned when the directory has no such position.
	ErrPositionNotFound = errors.New("position not found in directory")

	// ErrDirectoryUnavailable is returned when the employee directory cannot
	// be reached or returns an unexpected response.
	ErrDirectoryUnavailable = errors.New("employee directory unavailable")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// ValidationError reports invalid input. It is always raised before any
// mutation, so a ValidationError guarantees no state change occurred.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// DirectoryError wraps a failure talking to the employee directory.
type DirectoryError struct {
	Op  string // e.g. "employee lookup", "position lookup"
	Err error
}

func (e *DirectoryError) Error() string {
	return fmt.Sprintf("directory %s failed: %v", e.Op, e.Err)
}

func (e *DirectoryError) Unwrap() error {
	return ErrDirectoryUnavailable
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrPayrollNotFound) ||
		errors.Is(err, ErrAdjustmentNotFound)
}

// IsConflict returns true if the error is a uniqueness violation.
func IsConflict(err error) bool {
	return errors.Is(err, ErrTypeConflict) ||
		errors.Is(err, ErrStatusConflict)
}

// IsClientError returns true if the error is due to invalid client input
// rather than a server-side failure.
func IsClientError(err error) bool {
	var ve *ValidationError
	return IsConflict(err) ||
		errors.As(err, &ve) ||
		errors.Is(err, ErrEmployeeNotFound) ||
		errors.Is(err, ErrPositionNotFound)
}
