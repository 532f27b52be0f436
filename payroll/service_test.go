package payroll_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rh-systems/payroll-engine/directory"
	"github.com/rh-systems/payroll-engine/payroll"
	"github.com/rh-systems/payroll-engine/payroll/store"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func testDirectory() *directory.Static {
	return &directory.Static{
		Employees: map[int64]payroll.Employee{
			1: {ID: 1, Name: "Ada Lovelace", Position: "Engineer"},
			2: {ID: 2, Name: "Grace Hopper", Position: "Archivist"}, // position unknown
		},
		Positions: map[string]payroll.Position{
			"Engineer": {ID: 1, Name: "Engineer", BaseSalary: decimal.NewFromInt(2000)},
		},
	}
}

func newTestService(t *testing.T) (*payroll.Service, *store.PayrollMemory) {
	t.Helper()
	payrolls := store.NewPayrollMemory()
	return payroll.NewService(payrolls, testDirectory()), payrolls
}

func marchInput(employeeID int64) payroll.PayrollInput {
	return payroll.PayrollInput{
		Status:     "MARCH",
		IssueDate:  time.Date(2025, time.March, 31, 0, 0, 0, 0, time.UTC),
		EmployeeID: employeeID,
	}
}

// downDirectory simulates an unreachable employee service.
type downDirectory struct{}

func (downDirectory) EmployeeByID(context.Context, int64) (*payroll.Employee, error) {
	return nil, &payroll.DirectoryError{Op: "employee lookup", Err: errors.New("connection refused")}
}

func (downDirectory) PositionByName(context.Context, string) (*payroll.Position, error) {
	return nil, &payroll.DirectoryError{Op: "position lookup", Err: errors.New("connection refused")}
}

// =============================================================================
// CREATE
// =============================================================================

func TestService_Create_SeedsBaseSalaryFromPosition(t *testing.T) {
	// GIVEN: Employee 1 holds the Engineer position (base salary 2000)
	// WHEN: A payroll is created for employee 1
	// THEN: baseSalary=2000, totalAdjustments=0, netSalary=2000

	svc, _ := newTestService(t)

	p, err := svc.Create(context.Background(), marchInput(1))
	require.NoError(t, err)
	assert.NotZero(t, p.ID)
	assert.Equal(t, int64(1), p.EmployeeID)
	assert.True(t, p.BaseSalary.Equal(decimal.NewFromInt(2000)))
	assert.True(t, p.TotalAdjustments.IsZero())
	assert.True(t, p.NetSalary.Equal(p.BaseSalary))
}

func TestService_Create_StatusConflict(t *testing.T) {
	// Status labels are unique across ALL payrolls, case-insensitively.
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, marchInput(1))
	require.NoError(t, err)

	in := marchInput(1)
	in.Status = "march"
	_, err = svc.Create(ctx, in)
	assert.ErrorIs(t, err, payroll.ErrStatusConflict)
}

func TestService_Create_EmployeeMissing(t *testing.T) {
	svc, payrolls := newTestService(t)

	in := marchInput(99)
	_, err := svc.Create(context.Background(), in)
	assert.ErrorIs(t, err, payroll.ErrEmployeeNotFound)
	assert.True(t, payroll.IsClientError(err))

	all, listErr := payrolls.List(context.Background())
	require.NoError(t, listErr)
	assert.Empty(t, all, "a failed creation must not leave a partial payroll")
}

func TestService_Create_PositionMissing(t *testing.T) {
	// Employee 2 exists but holds a position the directory can't resolve.
	svc, _ := newTestService(t)

	_, err := svc.Create(context.Background(), marchInput(2))
	assert.ErrorIs(t, err, payroll.ErrPositionNotFound)
}

func TestService_Create_DirectoryDown_NoPartialState(t *testing.T) {
	// GIVEN: The employee service is unreachable
	// WHEN: Creating a payroll
	// THEN: A directory error surfaces and nothing is persisted

	payrolls := store.NewPayrollMemory()
	svc := payroll.NewService(payrolls, downDirectory{})

	_, err := svc.Create(context.Background(), marchInput(1))
	assert.ErrorIs(t, err, payroll.ErrDirectoryUnavailable)
	assert.False(t, payroll.IsClientError(err), "a down dependency is a server-side failure")

	all, listErr := payrolls.List(context.Background())
	require.NoError(t, listErr)
	assert.Empty(t, all)
}

func TestService_Create_MissingFields(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Create(context.Background(), payroll.PayrollInput{EmployeeID: 1})
	var ve *payroll.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "status", ve.Field)
}

// =============================================================================
// UPDATE / DELETE
// =============================================================================

func TestService_Update_PreservesAdjustmentsAndRecomputesNet(t *testing.T) {
	// GIVEN: A payroll with an accumulated total of 300
	// WHEN: The payroll is updated (re-seeding base salary)
	// THEN: The total survives and netSalary = baseSalary + total

	svc, payrolls := newTestService(t)
	ctx := context.Background()

	p, err := svc.Create(ctx, marchInput(1))
	require.NoError(t, err)

	ledger := payroll.NewAdjustmentLedger(payrolls, store.NewAdjustmentMemory())
	_, err = ledger.Create(ctx, payroll.AdjustmentInput{
		Type: payroll.TypeBonus, Amount: decimal.NewFromInt(300), PayrollID: p.ID,
	})
	require.NoError(t, err)

	in := marchInput(1)
	in.Status = "MARCH" // unchanged label is not a conflict
	updated, err := svc.Update(ctx, p.ID, in)
	require.NoError(t, err)

	assert.True(t, updated.TotalAdjustments.Equal(decimal.NewFromInt(300)))
	assert.True(t, updated.NetSalary.Equal(decimal.NewFromInt(2300)))
}

func TestService_Update_StatusConflictWithOtherPayroll(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, marchInput(1))
	require.NoError(t, err)

	aprilIn := marchInput(1)
	aprilIn.Status = "APRIL"
	april, err := svc.Create(ctx, aprilIn)
	require.NoError(t, err)

	in := marchInput(1)
	_, err = svc.Update(ctx, april.ID, in)
	assert.ErrorIs(t, err, payroll.ErrStatusConflict)
}

func TestService_Update_NotFound(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Update(context.Background(), 77, marchInput(1))
	assert.ErrorIs(t, err, payroll.ErrPayrollNotFound)
}

func TestService_Delete(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	p, err := svc.Create(ctx, marchInput(1))
	require.NoError(t, err)

	deleted, err := svc.Delete(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = svc.Delete(ctx, p.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}

// =============================================================================
// PAYSLIP
// =============================================================================

func TestService_Payslip(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	p, err := svc.Create(ctx, marchInput(1))
	require.NoError(t, err)

	content, err := svc.Payslip(ctx, p.ID)
	require.NoError(t, err)
	assert.Contains(t, string(content), "Status: MARCH")
	assert.Contains(t, string(content), "Base Salary: 2000.00")
	assert.Contains(t, string(content), "Net Salary: 2000.00")

	_, err = svc.Payslip(ctx, 999)
	assert.ErrorIs(t, err, payroll.ErrPayrollNotFound)
}
