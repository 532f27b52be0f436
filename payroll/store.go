/*
store.go - Persistence interfaces for payrolls and adjustments

PURPOSE:
  Defines the interface between the domain logic and the database.
  The two stores are modeled as independent key-value stores; there is no
  cross-store transaction. Different implementations can use SQLite or
  in-memory storage.

KEY INTERFACES:
  PayrollStore:    Payroll aggregates, keyed by payroll ID
  AdjustmentStore: Adjustment entries, keyed by adjustment ID

ABSENCE CONVENTION:
  Get* methods return (nil, nil) when the record does not exist. Callers in
  the domain layer translate that into ErrPayrollNotFound or
  ErrAdjustmentNotFound; store implementations never fabricate domain errors.

ID ASSIGNMENT:
  Put assigns a fresh ID when the record's ID is zero (insert) and
  overwrites the existing record otherwise (upsert). The assigned record is
  returned.

NON-ATOMICITY:
  A ledger operation writes the payroll first and the adjustment second.
  A failure between the two leaves the payroll aggregate updated with the
  adjustment entry missing (or, on delete, the entry gone without the
  compensation persisting). This matches the original system's behavior and
  is deliberately not rolled back here. See ledger.go.

IMPLEMENTATIONS:
  - store/sqlite: Production SQLite
  - payroll/store: In-memory for testing and development

SEE ALSO:
  - ledger.go: The only writer of derived payroll fields
*/
package payroll

import "context"

// =============================================================================
// PAYROLL STORE
// =============================================================================

// PayrollStore persists payroll aggregates.
type PayrollStore interface {
	// GetByID returns the payroll or (nil, nil) if absent.
	GetByID(ctx context.Context, id int64) (*Payroll, error)

	// GetByStatus returns the payroll with the given status label or
	// (nil, nil) if absent. Matching is case-insensitive.
	GetByStatus(ctx context.Context, status string) (*Payroll, error)

	// List returns all payrolls ordered by ID.
	List(ctx context.Context) ([]Payroll, error)

	// Put upserts the payroll, assigning an ID when zero.
	Put(ctx context.Context, p *Payroll) (*Payroll, error)

	// Delete removes the payroll. Returns false if it did not exist.
	Delete(ctx context.Context, id int64) (bool, error)
}

// =============================================================================
// ADJUSTMENT STORE
// =============================================================================

// AdjustmentStore persists adjustment entries.
type AdjustmentStore interface {
	// GetByID returns the adjustment or (nil, nil) if absent.
	GetByID(ctx context.Context, id int64) (*Adjustment, error)

	// GetByType returns the adjustment with the given type or (nil, nil) if
	// absent. Types are unique store-wide, so at most one can match.
	GetByType(ctx context.Context, t AdjustmentType) (*Adjustment, error)

	// List returns all adjustments ordered by ID.
	List(ctx context.Context) ([]Adjustment, error)

	// Put upserts the adjustment, assigning an ID when zero.
	Put(ctx context.Context, a *Adjustment) (*Adjustment, error)

	// Delete removes the adjustment. Returns false if it did not exist.
	Delete(ctx context.Context, id int64) (bool, error)
}
