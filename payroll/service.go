/*
service.go - Payroll lifecycle: directory-seeded creation, update, payslips

PURPOSE:
  Owns payroll records themselves, as opposed to the adjustments mutating
  them (ledger.go). Creation resolves the employee through the directory to
  seed BaseSalary from the employee's position; a new payroll always starts
  with TotalAdjustments = 0 and NetSalary = BaseSalary, so the derived-field
  invariant holds trivially.

STATUS UNIQUENESS:
  Only one payroll per status label may exist across ALL employees. Like
  the store-wide adjustment type uniqueness, this mirrors the system being
  replaced and is kept as-is; see DESIGN.md.

FAILURE ORDERING:
  Status conflicts and directory failures are all detected before the first
  write, so a failed creation never leaves a partial payroll behind.

SEE ALSO:
  - directory.go: The lookup boundary
  - ledger.go: The only writer of derived fields after creation
*/
package payroll

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// SERVICE
// =============================================================================

// Service manages payroll records.
type Service struct {
	payrolls  PayrollStore
	directory EmployeeDirectory
}

// NewService creates a payroll service over the store and directory.
func NewService(payrolls PayrollStore, directory EmployeeDirectory) *Service {
	return &Service{payrolls: payrolls, directory: directory}
}

// PayrollInput carries the caller-supplied fields of a payroll. BaseSalary
// is never supplied by the caller; it is seeded from the directory.
type PayrollInput struct {
	Status     string
	IssueDate  time.Time
	EmployeeID int64
}

func (in PayrollInput) validate() error {
	if strings.TrimSpace(in.Status) == "" {
		return &ValidationError{Field: "status", Reason: "required"}
	}
	if in.EmployeeID == 0 {
		return &ValidationError{Field: "employeeId", Reason: "required"}
	}
	return nil
}

// =============================================================================
// CREATE / UPDATE / DELETE
// =============================================================================

// Create validates the status label is unused, resolves the employee and
// their position through the directory, and persists a payroll seeded with
// the position's base salary.
func (s *Service) Create(ctx context.Context, in PayrollInput) (*Payroll, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	existing, err := s.payrolls.GetByStatus(ctx, in.Status)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: %q", ErrStatusConflict, in.Status)
	}

	position, err := s.resolveBaseSalary(ctx, in.EmployeeID)
	if err != nil {
		return nil, err
	}

	return s.payrolls.Put(ctx, &Payroll{
		EmployeeID:       in.EmployeeID,
		Status:           in.Status,
		IssueDate:        in.IssueDate,
		BaseSalary:       position.BaseSalary,
		TotalAdjustments: decimal.Zero,
		NetSalary:        position.BaseSalary,
	})
}

// Update re-resolves the employee's base salary from the directory, keeps
// the accumulated TotalAdjustments, and recomputes NetSalary. A status
// change is re-checked for global uniqueness (case-insensitive compare, so
// relabeling only the casing of a payroll's own status is allowed).
func (s *Service) Update(ctx context.Context, id int64, in PayrollInput) (*Payroll, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	existing, err := s.payrolls.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, fmt.Errorf("%w: id %d", ErrPayrollNotFound, id)
	}

	if !strings.EqualFold(existing.Status, in.Status) {
		conflict, err := s.payrolls.GetByStatus(ctx, in.Status)
		if err != nil {
			return nil, err
		}
		if conflict != nil {
			return nil, fmt.Errorf("%w: %q", ErrStatusConflict, in.Status)
		}
	}

	position, err := s.resolveBaseSalary(ctx, in.EmployeeID)
	if err != nil {
		return nil, err
	}

	existing.Status = in.Status
	existing.IssueDate = in.IssueDate
	existing.EmployeeID = in.EmployeeID
	existing.BaseSalary = position.BaseSalary
	existing.NetSalary = position.BaseSalary.Add(existing.TotalAdjustments)
	return s.payrolls.Put(ctx, existing)
}

// Delete removes a payroll. Returns false when it does not exist.
// Adjustments referencing the payroll are left in place; deleting them
// through the ledger afterwards skips the (now pointless) compensation.
func (s *Service) Delete(ctx context.Context, id int64) (bool, error) {
	return s.payrolls.Delete(ctx, id)
}

// resolveBaseSalary chains the two directory lookups: employee by ID, then
// position by the employee's position name.
func (s *Service) resolveBaseSalary(ctx context.Context, employeeID int64) (*Position, error) {
	employee, err := s.directory.EmployeeByID(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	if employee == nil {
		return nil, fmt.Errorf("%w: id %d", ErrEmployeeNotFound, employeeID)
	}

	position, err := s.directory.PositionByName(ctx, employee.Position)
	if err != nil {
		return nil, err
	}
	if position == nil {
		return nil, fmt.Errorf("%w: %q", ErrPositionNotFound, employee.Position)
	}
	return position, nil
}

// =============================================================================
// READS
// =============================================================================

// GetByID returns the payroll or ErrPayrollNotFound.
func (s *Service) GetByID(ctx context.Context, id int64) (*Payroll, error) {
	p, err := s.payrolls.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("%w: id %d", ErrPayrollNotFound, id)
	}
	return p, nil
}

// GetByStatus returns the payroll with the given status or ErrPayrollNotFound.
func (s *Service) GetByStatus(ctx context.Context, status string) (*Payroll, error) {
	p, err := s.payrolls.GetByStatus(ctx, status)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("%w: status %q", ErrPayrollNotFound, status)
	}
	return p, nil
}

// List returns all payrolls.
func (s *Service) List(ctx context.Context) ([]Payroll, error) {
	return s.payrolls.List(ctx)
}

// =============================================================================
// PAYSLIP
// =============================================================================

// Payslip renders a plain-text payslip for the payroll. The output stands
// in for real PDF generation, matching the system being replaced.
func (s *Service) Payslip(ctx context.Context, id int64) ([]byte, error) {
	p, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Payroll ID: %d\n", p.ID)
	fmt.Fprintf(&b, "Status: %s\n", p.Status)
	fmt.Fprintf(&b, "Issue Date: %s\n", p.IssueDate.Format("2006-01-02"))
	fmt.Fprintf(&b, "Base Salary: %s\n", p.BaseSalary.StringFixed(2))
	fmt.Fprintf(&b, "Total Adjustments: %s\n", p.TotalAdjustments.StringFixed(2))
	fmt.Fprintf(&b, "Net Salary: %s\n", p.NetSalary.StringFixed(2))
	fmt.Fprintf(&b, "Employee ID: %d\n", p.EmployeeID)
	return []byte(b.String()), nil
}
