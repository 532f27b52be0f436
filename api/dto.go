/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

MONEY FIELDS:
  Carried as JSON numbers on the wire, converted to/from decimal.Decimal at
  the boundary. The domain never does arithmetic on floats.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"github.com/shopspring/decimal"

	"github.com/rh-systems/payroll-engine/payroll"
)

// =============================================================================
// PAYROLL TYPES
// =============================================================================

// PayrollDTO represents a payroll in API responses.
type PayrollDTO struct {
	ID               int64   `json:"id"`
	EmployeeID       int64   `json:"employee_id"`
	Status           string  `json:"status"`
	IssueDate        string  `json:"issue_date"`
	BaseSalary       float64 `json:"base_salary"`
	TotalAdjustments float64 `json:"total_adjustments"`
	NetSalary        float64 `json:"net_salary"`
}

// PayrollRequest is the request to create or update a payroll. Base salary
// is never accepted from clients; it is seeded from the employee directory.
type PayrollRequest struct {
	Status     string `json:"status"`
	IssueDate  string `json:"issue_date"`
	EmployeeID int64  `json:"employee_id"`
}

func payrollToDTO(p *payroll.Payroll) PayrollDTO {
	return PayrollDTO{
		ID:               p.ID,
		EmployeeID:       p.EmployeeID,
		Status:           p.Status,
		IssueDate:        p.IssueDate.Format("2006-01-02"),
		BaseSalary:       p.BaseSalary.InexactFloat64(),
		TotalAdjustments: p.TotalAdjustments.InexactFloat64(),
		NetSalary:        p.NetSalary.InexactFloat64(),
	}
}

// =============================================================================
// ADJUSTMENT TYPES
// =============================================================================

// AdjustmentDTO represents an adjustment in API responses.
type AdjustmentDTO struct {
	ID          int64   `json:"id"`
	Type        string  `json:"type"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	PayrollID   int64   `json:"payroll_id"`
}

// AdjustmentRequest is the request body for creating or updating an
// adjustment. The owning payroll comes from the URL path.
type AdjustmentRequest struct {
	Type        string  `json:"type"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
}

func adjustmentToDTO(a *payroll.Adjustment) AdjustmentDTO {
	return AdjustmentDTO{
		ID:          a.ID,
		Type:        string(a.Type),
		Description: a.Description,
		Amount:      a.Amount.InexactFloat64(),
		PayrollID:   a.PayrollID,
	}
}

func (r AdjustmentRequest) toInput(payrollID int64) payroll.AdjustmentInput {
	// Unknown type strings pass through unparsed; the ledger rejects them
	// with a validation error.
	t, _ := payroll.ParseAdjustmentType(r.Type)
	if t == "" {
		t = payroll.AdjustmentType(r.Type)
	}
	return payroll.AdjustmentInput{
		Type:        t,
		Description: r.Description,
		Amount:      decimal.NewFromFloat(r.Amount),
		PayrollID:   payrollID,
	}
}

// =============================================================================
// ERRORS
// =============================================================================

// ErrorResponse is the JSON shape of every error reply.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
