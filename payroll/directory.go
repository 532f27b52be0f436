/*
directory.go - Read-only employee directory boundary

PURPOSE:
  The directory is the remote employee service used only to seed a new
  payroll's base salary: employee ID resolves to an employee record, whose
  position name resolves to a position carrying the base salary.

  The interface lives here (with the consumer) so the HTTP client in the
  directory package and the static fixture used in tests both implement it
  without the core depending on either.

FAILURE MAPPING:
  A missing employee or position is reported as (nil, nil); the payroll
  service turns that into ErrEmployeeNotFound / ErrPositionNotFound.
  Transport failures surface as *DirectoryError and abort payroll creation
  before any write.

SEE ALSO:
  - service.go: The only consumer
  - directory/client.go: HTTP implementation
*/
package payroll

import (
	"context"

	"github.com/shopspring/decimal"
)

// Employee is the directory's view of an employee.
type Employee struct {
	ID       int64
	Name     string
	Position string
}

// Position is the directory's view of a position. BaseSalary seeds new
// payrolls for employees holding it.
type Position struct {
	ID         int64
	Name       string
	BaseSalary decimal.Decimal
}

// EmployeeDirectory resolves employees and positions from the remote
// employee service. Both lookups return (nil, nil) when the entity does not
// exist and *DirectoryError when the service is unreachable.
type EmployeeDirectory interface {
	EmployeeByID(ctx context.Context, id int64) (*Employee, error)
	PositionByName(ctx context.Context, name string) (*Position, error)
}
