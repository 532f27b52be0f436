/*
handlers.go - HTTP API handlers for the payroll engine

PURPOSE:
  Exposes the payroll service and adjustment ledger via REST. Handles HTTP
  request/response, JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Payrolls:
    GET    /api/payrolls                   List all payrolls
    POST   /api/payrolls                   Create payroll (directory-seeded)
    GET    /api/payrolls/{id}              Get payroll
    GET    /api/payrolls/status/{status}   Get payroll by status
    PUT    /api/payrolls/{id}              Update payroll
    DELETE /api/payrolls/{id}              Delete payroll
    GET    /api/payrolls/{id}/payslip      Rendered payslip

  Adjustments:
    GET    /api/payrolls/adjustments                            List all
    GET    /api/payrolls/adjustments/{adjustmentID}             Get by ID
    GET    /api/payrolls/adjustments/type/{type}                Get by type
    POST   /api/payrolls/{payrollID}/adjustments                Create
    PUT    /api/payrolls/{payrollID}/adjustments/{adjustmentID} Update
    DELETE /api/payrolls/{payrollID}/adjustments/{adjustmentID} Delete

ERROR HANDLING:
  Errors are returned as JSON with status derived from the domain taxonomy:
  - 400: Validation errors, unresolvable employee/position
  - 404: Payroll or adjustment not found
  - 409: Type or status uniqueness conflict
  - 502: Employee directory unreachable
  - 500: Everything else

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/rh-systems/payroll-engine/payroll"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Payrolls *payroll.Service
	Ledger   *payroll.AdjustmentLedger
}

// NewHandler creates a handler over the payroll service and ledger.
func NewHandler(payrolls *payroll.Service, ledger *payroll.AdjustmentLedger) *Handler {
	return &Handler{Payrolls: payrolls, Ledger: ledger}
}

// =============================================================================
// PAYROLL HANDLERS
// =============================================================================

// ListPayrolls returns all payrolls.
func (h *Handler) ListPayrolls(w http.ResponseWriter, r *http.Request) {
	payrolls, err := h.Payrolls.List(r.Context())
	if err != nil {
		writeDomainError(w, "Failed to list payrolls", err)
		return
	}

	dtos := make([]PayrollDTO, len(payrolls))
	for i := range payrolls {
		dtos[i] = payrollToDTO(&payrolls[i])
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreatePayroll creates a payroll seeded from the employee directory.
func (h *Handler) CreatePayroll(w http.ResponseWriter, r *http.Request) {
	var req PayrollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	issueDate, err := time.Parse("2006-01-02", req.IssueDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid issue_date format (use YYYY-MM-DD)", err)
		return
	}

	p, err := h.Payrolls.Create(r.Context(), payroll.PayrollInput{
		Status:     req.Status,
		IssueDate:  issueDate,
		EmployeeID: req.EmployeeID,
	})
	if err != nil {
		writeDomainError(w, "Failed to create payroll", err)
		return
	}
	writeJSON(w, http.StatusCreated, payrollToDTO(p))
}

// GetPayroll returns a single payroll.
func (h *Handler) GetPayroll(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "payrollID")
	if !ok {
		return
	}

	p, err := h.Payrolls.GetByID(r.Context(), id)
	if err != nil {
		writeDomainError(w, "Failed to get payroll", err)
		return
	}
	writeJSON(w, http.StatusOK, payrollToDTO(p))
}

// GetPayrollByStatus returns the payroll carrying the given status label.
func (h *Handler) GetPayrollByStatus(w http.ResponseWriter, r *http.Request) {
	status := chi.URLParam(r, "status")

	p, err := h.Payrolls.GetByStatus(r.Context(), status)
	if err != nil {
		writeDomainError(w, "Failed to get payroll", err)
		return
	}
	writeJSON(w, http.StatusOK, payrollToDTO(p))
}

// UpdatePayroll updates a payroll, re-seeding base salary from the directory.
func (h *Handler) UpdatePayroll(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "payrollID")
	if !ok {
		return
	}

	var req PayrollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	issueDate, err := time.Parse("2006-01-02", req.IssueDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid issue_date format (use YYYY-MM-DD)", err)
		return
	}

	p, err := h.Payrolls.Update(r.Context(), id, payroll.PayrollInput{
		Status:     req.Status,
		IssueDate:  issueDate,
		EmployeeID: req.EmployeeID,
	})
	if err != nil {
		writeDomainError(w, "Failed to update payroll", err)
		return
	}
	writeJSON(w, http.StatusOK, payrollToDTO(p))
}

// DeletePayroll deletes a payroll.
func (h *Handler) DeletePayroll(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "payrollID")
	if !ok {
		return
	}

	deleted, err := h.Payrolls.Delete(r.Context(), id)
	if err != nil {
		writeDomainError(w, "Failed to delete payroll", err)
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "Payroll not found", nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetPayslip returns the rendered payslip for a payroll.
func (h *Handler) GetPayslip(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "payrollID")
	if !ok {
		return
	}

	content, err := h.Payrolls.Payslip(r.Context(), id)
	if err != nil {
		writeDomainError(w, "Failed to render payslip", err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(content)
}

// =============================================================================
// ADJUSTMENT HANDLERS
// =============================================================================

// ListAdjustments returns all adjustments.
func (h *Handler) ListAdjustments(w http.ResponseWriter, r *http.Request) {
	adjustments, err := h.Ledger.List(r.Context())
	if err != nil {
		writeDomainError(w, "Failed to list adjustments", err)
		return
	}

	dtos := make([]AdjustmentDTO, len(adjustments))
	for i := range adjustments {
		dtos[i] = adjustmentToDTO(&adjustments[i])
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetAdjustment returns a single adjustment.
func (h *Handler) GetAdjustment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "adjustmentID")
	if !ok {
		return
	}

	a, err := h.Ledger.GetByID(r.Context(), id)
	if err != nil {
		writeDomainError(w, "Failed to get adjustment", err)
		return
	}
	writeJSON(w, http.StatusOK, adjustmentToDTO(a))
}

// GetAdjustmentByType returns the adjustment with the given type.
func (h *Handler) GetAdjustmentByType(w http.ResponseWriter, r *http.Request) {
	t, ok := payroll.ParseAdjustmentType(chi.URLParam(r, "type"))
	if !ok {
		writeError(w, http.StatusBadRequest, "Unknown adjustment type", nil)
		return
	}

	a, err := h.Ledger.GetByType(r.Context(), t)
	if err != nil {
		writeDomainError(w, "Failed to get adjustment", err)
		return
	}
	writeJSON(w, http.StatusOK, adjustmentToDTO(a))
}

// CreateAdjustment creates an adjustment against the payroll in the path.
func (h *Handler) CreateAdjustment(w http.ResponseWriter, r *http.Request) {
	payrollID, ok := pathID(w, r, "payrollID")
	if !ok {
		return
	}

	var req AdjustmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	a, err := h.Ledger.Create(r.Context(), req.toInput(payrollID))
	if err != nil {
		writeDomainError(w, "Failed to create adjustment", err)
		return
	}
	writeJSON(w, http.StatusCreated, adjustmentToDTO(a))
}

// UpdateAdjustment updates an adjustment. The payroll in the path is the
// target payroll; pointing it at a different payroll moves the entry.
func (h *Handler) UpdateAdjustment(w http.ResponseWriter, r *http.Request) {
	payrollID, ok := pathID(w, r, "payrollID")
	if !ok {
		return
	}
	adjustmentID, ok := pathID(w, r, "adjustmentID")
	if !ok {
		return
	}

	var req AdjustmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	a, err := h.Ledger.Update(r.Context(), adjustmentID, req.toInput(payrollID))
	if err != nil {
		writeDomainError(w, "Failed to update adjustment", err)
		return
	}
	writeJSON(w, http.StatusOK, adjustmentToDTO(a))
}

// DeleteAdjustment deletes an adjustment, reversing its contribution.
func (h *Handler) DeleteAdjustment(w http.ResponseWriter, r *http.Request) {
	adjustmentID, ok := pathID(w, r, "adjustmentID")
	if !ok {
		return
	}

	deleted, err := h.Ledger.Delete(r.Context(), adjustmentID)
	if err != nil {
		writeDomainError(w, "Failed to delete adjustment", err)
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "Adjustment not found", nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// HELPERS
// =============================================================================

func pathID(w http.ResponseWriter, r *http.Request, param string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, param), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "Invalid "+param, err)
		return 0, false
	}
	return id, true
}

// writeDomainError maps a domain error to an HTTP status.
func writeDomainError(w http.ResponseWriter, message string, err error) {
	writeError(w, domainStatus(err), message, err)
}

func domainStatus(err error) int {
	switch {
	case payroll.IsNotFound(err):
		return http.StatusNotFound
	case payroll.IsConflict(err):
		return http.StatusConflict
	case payroll.IsClientError(err):
		return http.StatusBadRequest
	case errors.Is(err, payroll.ErrDirectoryUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
