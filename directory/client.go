/*
Package directory provides clients for the employee directory service.

PURPOSE:
  The payroll engine never stores employee or position data; it reads both
  from the employee service to seed a new payroll's base salary. This
  package implements payroll.EmployeeDirectory two ways:
  - Client: HTTP JSON client against the real employee service
  - Static: fixed in-memory data for tests and local development

FAILURE MAPPING (per the boundary contract in payroll/directory.go):
  - HTTP 404                       -> (nil, nil), caller decides severity
  - transport error / other status -> *payroll.DirectoryError
  No retries; the caller surfaces the error unmodified.

ENDPOINTS (matching the employee service API):
  GET {base}/api/employee/{id}
  GET {base}/api/position/name/{name}
*/
package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rh-systems/payroll-engine/payroll"
)

// =============================================================================
// HTTP CLIENT
// =============================================================================

// Client talks to the employee service over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a directory client for the employee service at baseURL.
// The timeout bounds every lookup; pass 0 for a 10s default.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

type employeePayload struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Position string `json:"position"`
}

type positionPayload struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	BaseSalary float64 `json:"baseSalary"`
}

// EmployeeByID resolves an employee record by ID.
func (c *Client) EmployeeByID(ctx context.Context, id int64) (*payroll.Employee, error) {
	var p employeePayload
	found, err := c.getJSON(ctx, fmt.Sprintf("%s/api/employee/%d", c.baseURL, id), "employee lookup", &p)
	if err != nil || !found {
		return nil, err
	}
	return &payroll.Employee{ID: p.ID, Name: p.Name, Position: p.Position}, nil
}

// PositionByName resolves a position record by name.
func (c *Client) PositionByName(ctx context.Context, name string) (*payroll.Position, error) {
	var p positionPayload
	u := fmt.Sprintf("%s/api/position/name/%s", c.baseURL, url.PathEscape(name))
	found, err := c.getJSON(ctx, u, "position lookup", &p)
	if err != nil || !found {
		return nil, err
	}
	return &payroll.Position{
		ID:         p.ID,
		Name:       p.Name,
		BaseSalary: decimal.NewFromFloat(p.BaseSalary),
	}, nil
}

// getJSON performs a GET and decodes the body into out.
// Returns found=false for 404 without error.
func (c *Client) getJSON(ctx context.Context, u, op string, out any) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return false, &payroll.DirectoryError{Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return false, &payroll.DirectoryError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return false, nil
	case resp.StatusCode != http.StatusOK:
		return false, &payroll.DirectoryError{Op: op, Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return false, &payroll.DirectoryError{Op: op, Err: fmt.Errorf("decoding response: %w", err)}
	}
	return true, nil
}

// =============================================================================
// STATIC DIRECTORY - For tests and local development
// =============================================================================

// Static serves fixed employee/position data without a network.
type Static struct {
	Employees map[int64]payroll.Employee
	Positions map[string]payroll.Position
}

func (s *Static) EmployeeByID(_ context.Context, id int64) (*payroll.Employee, error) {
	if e, ok := s.Employees[id]; ok {
		return &e, nil
	}
	return nil, nil
}

func (s *Static) PositionByName(_ context.Context, name string) (*payroll.Position, error) {
	for n, p := range s.Positions {
		if strings.EqualFold(n, name) {
			p := p
			return &p, nil
		}
	}
	return nil, nil
}
