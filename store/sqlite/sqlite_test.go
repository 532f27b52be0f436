package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rh-systems/payroll-engine/payroll"
	"github.com/rh-systems/payroll-engine/store/sqlite"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	db, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func marchPayroll() *payroll.Payroll {
	return &payroll.Payroll{
		EmployeeID:       1,
		Status:           "MARCH",
		IssueDate:        time.Date(2025, time.March, 31, 0, 0, 0, 0, time.UTC),
		BaseSalary:       decimal.RequireFromString("2000.50"),
		TotalAdjustments: decimal.Zero,
		NetSalary:        decimal.RequireFromString("2000.50"),
	}
}

// =============================================================================
// PAYROLL ROUND-TRIPS
// =============================================================================

func TestSQLite_Payroll_RoundTrip(t *testing.T) {
	db := newTestDB(t)
	payrolls := db.Payrolls()
	ctx := context.Background()

	created, err := payrolls.Put(ctx, marchPayroll())
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	got, err := payrolls.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "MARCH", got.Status)
	assert.True(t, got.BaseSalary.Equal(decimal.RequireFromString("2000.50")),
		"decimal columns must round-trip without precision loss")
	assert.True(t, got.IssueDate.Equal(time.Date(2025, time.March, 31, 0, 0, 0, 0, time.UTC)))
}

func TestSQLite_Payroll_GetByStatus_CaseInsensitive(t *testing.T) {
	db := newTestDB(t)
	payrolls := db.Payrolls()
	ctx := context.Background()

	_, err := payrolls.Put(ctx, marchPayroll())
	require.NoError(t, err)

	got, err := payrolls.GetByStatus(ctx, "march")
	require.NoError(t, err)
	require.NotNil(t, got)

	missing, err := payrolls.GetByStatus(ctx, "JUNE")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestSQLite_Payroll_StatusUniqueIndex(t *testing.T) {
	// The schema backstops the application-level status check.
	db := newTestDB(t)
	payrolls := db.Payrolls()
	ctx := context.Background()

	_, err := payrolls.Put(ctx, marchPayroll())
	require.NoError(t, err)

	dup := marchPayroll()
	dup.Status = "march"
	_, err = payrolls.Put(ctx, dup)
	assert.Error(t, err, "duplicate status must be rejected by the unique index")
}

func TestSQLite_Payroll_UpdateAndDelete(t *testing.T) {
	db := newTestDB(t)
	payrolls := db.Payrolls()
	ctx := context.Background()

	created, err := payrolls.Put(ctx, marchPayroll())
	require.NoError(t, err)

	created.TotalAdjustments = decimal.NewFromInt(300)
	created.NetSalary = created.BaseSalary.Add(created.TotalAdjustments)
	_, err = payrolls.Put(ctx, created)
	require.NoError(t, err)

	got, err := payrolls.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, got.TotalAdjustments.Equal(decimal.NewFromInt(300)))

	deleted, err := payrolls.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	gone, err := payrolls.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
}

// =============================================================================
// ADJUSTMENT ROUND-TRIPS
// =============================================================================

func TestSQLite_Adjustment_RoundTripAndTypeIndex(t *testing.T) {
	db := newTestDB(t)
	adjustments := db.Adjustments()
	ctx := context.Background()

	created, err := adjustments.Put(ctx, &payroll.Adjustment{
		Type:        payroll.TypeBonus,
		Description: "performance bonus",
		Amount:      decimal.RequireFromString("512.25"),
		PayrollID:   1,
	})
	require.NoError(t, err)

	got, err := adjustments.GetByType(ctx, payroll.TypeBonus)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, created.ID, got.ID)
	assert.True(t, got.Amount.Equal(decimal.RequireFromString("512.25")))

	// Second BONUS trips the unique type index.
	_, err = adjustments.Put(ctx, &payroll.Adjustment{
		Type: payroll.TypeBonus, Amount: decimal.NewFromInt(1), PayrollID: 2,
	})
	assert.Error(t, err)
}

// =============================================================================
// LEDGER OVER SQLITE
// =============================================================================

func TestSQLite_LedgerScenario(t *testing.T) {
	// The full bonus/discount/update/delete sequence against the real store.
	db := newTestDB(t)
	ctx := context.Background()

	p, err := db.Payrolls().Put(ctx, marchPayroll())
	require.NoError(t, err)

	ledger := payroll.NewAdjustmentLedger(db.Payrolls(), db.Adjustments())

	bonus, err := ledger.Create(ctx, payroll.AdjustmentInput{
		Type: payroll.TypeBonus, Amount: decimal.NewFromInt(500), PayrollID: p.ID,
	})
	require.NoError(t, err)
	discount, err := ledger.Create(ctx, payroll.AdjustmentInput{
		Type: payroll.TypeDiscount, Amount: decimal.NewFromInt(200), PayrollID: p.ID,
	})
	require.NoError(t, err)

	_, err = ledger.Update(ctx, bonus.ID, payroll.AdjustmentInput{
		Type: payroll.TypeBonus, Amount: decimal.NewFromInt(800), PayrollID: p.ID,
	})
	require.NoError(t, err)

	deleted, err := ledger.Delete(ctx, discount.ID)
	require.NoError(t, err)
	require.True(t, deleted)

	got, err := db.Payrolls().GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, got.TotalAdjustments.Equal(decimal.NewFromInt(800)))
	assert.True(t, got.NetSalary.Equal(decimal.RequireFromString("2800.50")))
}
