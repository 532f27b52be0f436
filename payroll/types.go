/*
Package payroll provides the core payroll aggregate and adjustment ledger.

PURPOSE:
  This package contains the domain types and algorithms for keeping a payroll
  record's derived fields consistent as signed adjustment entries (bonuses
  add, discounts subtract) are created, updated, or deleted against it.

KEY CONCEPTS IN THIS FILE (types.go):
  - Payroll: An aggregate per (employee, issuance) with derived totals
  - Adjustment: A single signed ledger entry attached to one payroll
  - AdjustmentType: BONUS or DISCOUNT, determining the sign of the entry

DERIVED-VALUE INVARIANTS:
  1. NetSalary == BaseSalary + TotalAdjustments after every operation
  2. TotalAdjustments equals the sum of signed contributions of all
     adjustments currently attached to the payroll
  3. At most one adjustment per type exists store-wide (see ledger.go)

DESIGN PRINCIPLES:
  1. Precision: Uses decimal.Decimal to avoid floating-point errors
  2. Unsigned magnitudes: Adjustment.Amount is always >= 0; the sign is
     implied by the type and applied via SignedDelta
  3. Derived fields are never set directly by callers; the ledger owns them

SEE ALSO:
  - ledger.go: Apply/reverse algorithm maintaining the invariants
  - service.go: Payroll lifecycle and directory-seeded creation
  - store.go: Persistence interfaces
*/
package payroll

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// ADJUSTMENT TYPE
// =============================================================================

// AdjustmentType determines the sign of an adjustment's contribution.
type AdjustmentType string

const (
	TypeBonus    AdjustmentType = "BONUS"
	TypeDiscount AdjustmentType = "DISCOUNT"
)

// ParseAdjustmentType converts a string to an AdjustmentType.
// Matching is case-insensitive. Returns false for unknown values.
func ParseAdjustmentType(s string) (AdjustmentType, bool) {
	switch AdjustmentType(strings.ToUpper(s)) {
	case TypeBonus:
		return TypeBonus, true
	case TypeDiscount:
		return TypeDiscount, true
	}
	return "", false
}

// Valid reports whether t is a known adjustment type.
func (t AdjustmentType) Valid() bool {
	return t == TypeBonus || t == TypeDiscount
}

// SignedDelta returns the contribution of an adjustment of this type with the
// given unsigned amount: +amount for BONUS, -amount for DISCOUNT.
func (t AdjustmentType) SignedDelta(amount decimal.Decimal) decimal.Decimal {
	if t == TypeDiscount {
		return amount.Neg()
	}
	return amount
}

// =============================================================================
// PAYROLL - Aggregate with derived totals
// =============================================================================

// Payroll is one payroll record per (employee, issuance).
//
// TotalAdjustments and NetSalary are derived fields owned by the ledger.
// Callers must not mutate them directly; every ledger operation recomputes
// NetSalary as BaseSalary + TotalAdjustments before persisting.
type Payroll struct {
	ID               int64
	EmployeeID       int64
	Status           string
	IssueDate        time.Time
	BaseSalary       decimal.Decimal
	TotalAdjustments decimal.Decimal
	NetSalary        decimal.Decimal
}

// applyDelta shifts TotalAdjustments by delta and recomputes NetSalary.
func (p *Payroll) applyDelta(delta decimal.Decimal) {
	p.TotalAdjustments = p.TotalAdjustments.Add(delta)
	p.NetSalary = p.BaseSalary.Add(p.TotalAdjustments)
}

// =============================================================================
// ADJUSTMENT - Signed ledger entry
// =============================================================================

// Adjustment is a single signed modification to a payroll's net salary.
// Amount is an unsigned magnitude; the sign is implied by Type.
type Adjustment struct {
	ID          int64
	Type        AdjustmentType
	Description string
	Amount      decimal.Decimal
	PayrollID   int64
}

// SignedDelta returns this adjustment's contribution to TotalAdjustments.
func (a Adjustment) SignedDelta() decimal.Decimal {
	return a.Type.SignedDelta(a.Amount)
}
