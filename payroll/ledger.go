/*
ledger.go - The adjustment ledger: apply/reverse algorithm for payroll totals

PURPOSE:
  The ledger is the only writer of a payroll's derived fields. Every
  create/update/delete of an adjustment passes through here so that
  TotalAdjustments and NetSalary stay consistent with the set of adjustments
  currently attached to the payroll.

THE ALGORITHM:
  Create:  delta = signed contribution of the new entry
           payroll.TotalAdjustments += delta
  Update:  reverse the OLD contribution, then apply the NEW one, as two
           independent arithmetic steps (never a single diff). When the
           entry moves to a different payroll, the reversal runs against the
           original payroll and the new contribution against the target.
  Delete:  reverse the entry's contribution.
  After every step: NetSalary = BaseSalary + TotalAdjustments.

UNIQUENESS:
  At most one adjustment of a given type may exist across the ENTIRE store,
  not per payroll. This mirrors the system being replaced; see DESIGN.md
  for why it is kept as-is.

ORDERING AND ATOMICITY:
  Uniqueness and validation checks run before any write. The payroll is
  persisted before the adjustment; if the payroll write fails, the
  adjustment write never runs. The two writes are NOT wrapped in a
  cross-store transaction: a failure between them leaves the payroll
  updated without its adjustment (or vice versa on delete). Callers needing
  stronger guarantees must provide stores sharing a transactional backend.

CONCURRENCY:
  Mutations are serialized per payroll with a mutex keyed by payroll ID,
  closing the read-modify-write race on TotalAdjustments that two
  concurrent creates against the same payroll would otherwise hit. Reads
  take no locks.

SEE ALSO:
  - types.go: SignedDelta and the derived-field invariants
  - store.go: The two independent stores
*/
package payroll

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
)

// =============================================================================
// LEDGER
// =============================================================================

// AdjustmentLedger maintains payroll derived fields across adjustment
// mutations. Construct with NewAdjustmentLedger.
type AdjustmentLedger struct {
	payrolls    PayrollStore
	adjustments AdjustmentStore
	locks       keyedMutex
}

// NewAdjustmentLedger creates a ledger over the two stores.
func NewAdjustmentLedger(payrolls PayrollStore, adjustments AdjustmentStore) *AdjustmentLedger {
	return &AdjustmentLedger{payrolls: payrolls, adjustments: adjustments}
}

// AdjustmentInput carries the caller-supplied fields of an adjustment.
type AdjustmentInput struct {
	Type        AdjustmentType
	Description string
	Amount      decimal.Decimal
	PayrollID   int64
}

func (in AdjustmentInput) validate() error {
	if !in.Type.Valid() {
		return &ValidationError{Field: "type", Reason: "must be BONUS or DISCOUNT"}
	}
	if in.Amount.IsNegative() {
		return &ValidationError{Field: "amount", Reason: "must be >= 0"}
	}
	if in.PayrollID == 0 {
		return &ValidationError{Field: "payrollId", Reason: "required"}
	}
	return nil
}

// =============================================================================
// MUTATIONS
// =============================================================================

// Create validates the input, enforces store-wide type uniqueness, applies
// the signed contribution to the owning payroll, and persists the new entry.
// No mutation happens on the validation or conflict paths.
func (l *AdjustmentLedger) Create(ctx context.Context, in AdjustmentInput) (*Adjustment, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	existing, err := l.adjustments.GetByType(ctx, in.Type)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: %s", ErrTypeConflict, in.Type)
	}

	unlock := l.locks.lock(in.PayrollID)
	defer unlock()

	target, err := l.payrolls.GetByID(ctx, in.PayrollID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, fmt.Errorf("%w: id %d", ErrPayrollNotFound, in.PayrollID)
	}

	// Payroll first. If this write fails the entry must never be persisted.
	target.applyDelta(in.Type.SignedDelta(in.Amount))
	if _, err := l.payrolls.Put(ctx, target); err != nil {
		return nil, err
	}

	return l.adjustments.Put(ctx, &Adjustment{
		Type:        in.Type,
		Description: in.Description,
		Amount:      in.Amount,
		PayrollID:   target.ID,
	})
}

// Update replaces an adjustment's fields, reversing its old contribution
// and applying the new one as two independent steps.
//
// When PayrollID changes, the reversal is applied to the adjustment's
// original payroll and the new contribution to the target payroll, so an
// entry can move between payrolls without corrupting either aggregate.
func (l *AdjustmentLedger) Update(ctx context.Context, id int64, in AdjustmentInput) (*Adjustment, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	existing, err := l.adjustments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, fmt.Errorf("%w: id %d", ErrAdjustmentNotFound, id)
	}

	if in.Type != existing.Type {
		conflict, err := l.adjustments.GetByType(ctx, in.Type)
		if err != nil {
			return nil, err
		}
		if conflict != nil {
			return nil, fmt.Errorf("%w: %s", ErrTypeConflict, in.Type)
		}
	}

	unlock := l.locks.lockPair(existing.PayrollID, in.PayrollID)
	defer unlock()

	if existing.PayrollID == in.PayrollID {
		target, err := l.payrolls.GetByID(ctx, in.PayrollID)
		if err != nil {
			return nil, err
		}
		if target == nil {
			return nil, fmt.Errorf("%w: id %d", ErrPayrollNotFound, in.PayrollID)
		}

		// Reverse then apply. Two steps on purpose: the old and new entries
		// may differ in both type and amount.
		target.applyDelta(existing.SignedDelta().Neg())
		target.applyDelta(in.Type.SignedDelta(in.Amount))
		if _, err := l.payrolls.Put(ctx, target); err != nil {
			return nil, err
		}
	} else {
		source, err := l.payrolls.GetByID(ctx, existing.PayrollID)
		if err != nil {
			return nil, err
		}
		target, err := l.payrolls.GetByID(ctx, in.PayrollID)
		if err != nil {
			return nil, err
		}
		if target == nil {
			return nil, fmt.Errorf("%w: id %d", ErrPayrollNotFound, in.PayrollID)
		}

		// The original payroll may have been deleted out from under the
		// entry; there is nothing left to reverse on in that case.
		if source != nil {
			source.applyDelta(existing.SignedDelta().Neg())
			if _, err := l.payrolls.Put(ctx, source); err != nil {
				return nil, err
			}
		}
		target.applyDelta(in.Type.SignedDelta(in.Amount))
		if _, err := l.payrolls.Put(ctx, target); err != nil {
			return nil, err
		}
	}

	existing.Type = in.Type
	existing.Description = in.Description
	existing.Amount = in.Amount
	existing.PayrollID = in.PayrollID
	return l.adjustments.Put(ctx, existing)
}

// Delete reverses the adjustment's contribution on its owning payroll and
// removes the entry. Returns false (and no error) when the entry does not
// exist.
func (l *AdjustmentLedger) Delete(ctx context.Context, id int64) (bool, error) {
	existing, err := l.adjustments.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	if existing == nil {
		return false, nil
	}

	unlock := l.locks.lock(existing.PayrollID)
	defer unlock()

	owner, err := l.payrolls.GetByID(ctx, existing.PayrollID)
	if err != nil {
		return false, err
	}
	// Skip the compensation if the owning payroll is already gone; the
	// dangling entry must still be deletable.
	if owner != nil {
		owner.applyDelta(existing.SignedDelta().Neg())
		if _, err := l.payrolls.Put(ctx, owner); err != nil {
			return false, err
		}
	}

	return l.adjustments.Delete(ctx, id)
}

// =============================================================================
// READS - Pass through to the store, no invariant concerns
// =============================================================================

// GetByID returns the adjustment or ErrAdjustmentNotFound.
func (l *AdjustmentLedger) GetByID(ctx context.Context, id int64) (*Adjustment, error) {
	a, err := l.adjustments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, fmt.Errorf("%w: id %d", ErrAdjustmentNotFound, id)
	}
	return a, nil
}

// GetByType returns the adjustment with the given type or ErrAdjustmentNotFound.
func (l *AdjustmentLedger) GetByType(ctx context.Context, t AdjustmentType) (*Adjustment, error) {
	a, err := l.adjustments.GetByType(ctx, t)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, fmt.Errorf("%w: type %s", ErrAdjustmentNotFound, t)
	}
	return a, nil
}

// List returns all adjustments.
func (l *AdjustmentLedger) List(ctx context.Context) ([]Adjustment, error) {
	return l.adjustments.List(ctx)
}

// =============================================================================
// PER-PAYROLL MUTUAL EXCLUSION
// =============================================================================

// keyedMutex serializes mutations per payroll ID. Zero value is ready to use.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func (k *keyedMutex) get(id int64) *sync.Mutex {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.locks == nil {
		k.locks = make(map[int64]*sync.Mutex)
	}
	m, ok := k.locks[id]
	if !ok {
		m = &sync.Mutex{}
		k.locks[id] = m
	}
	return m
}

func (k *keyedMutex) lock(id int64) func() {
	m := k.get(id)
	m.Lock()
	return m.Unlock
}

// lockPair locks two payrolls in ascending ID order so that concurrent
// cross-payroll updates cannot deadlock.
func (k *keyedMutex) lockPair(a, b int64) func() {
	if a == b {
		return k.lock(a)
	}
	if a > b {
		a, b = b, a
	}
	first, second := k.get(a), k.get(b)
	first.Lock()
	second.Lock()
	return func() {
		second.Unlock()
		first.Unlock()
	}
}
