package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rh-systems/payroll-engine/payroll"
	"github.com/rh-systems/payroll-engine/payroll/store"
)

func TestPayrollMemory_PutAssignsIDs(t *testing.T) {
	m := store.NewPayrollMemory()
	ctx := context.Background()

	a, err := m.Put(ctx, &payroll.Payroll{Status: "MARCH", IssueDate: time.Now()})
	require.NoError(t, err)
	b, err := m.Put(ctx, &payroll.Payroll{Status: "APRIL", IssueDate: time.Now()})
	require.NoError(t, err)

	assert.Equal(t, int64(1), a.ID)
	assert.Equal(t, int64(2), b.ID)
}

func TestPayrollMemory_GetByStatus_CaseInsensitive(t *testing.T) {
	m := store.NewPayrollMemory()
	ctx := context.Background()

	_, err := m.Put(ctx, &payroll.Payroll{Status: "March"})
	require.NoError(t, err)

	got, err := m.GetByStatus(ctx, "MARCH")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "March", got.Status)

	missing, err := m.GetByStatus(ctx, "JUNE")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestPayrollMemory_PutWithID_Upserts(t *testing.T) {
	m := store.NewPayrollMemory()
	ctx := context.Background()

	p, err := m.Put(ctx, &payroll.Payroll{Status: "MARCH"})
	require.NoError(t, err)

	p.NetSalary = decimal.NewFromInt(2500)
	_, err = m.Put(ctx, p)
	require.NoError(t, err)

	got, err := m.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, got.NetSalary.Equal(decimal.NewFromInt(2500)))
}

func TestPayrollMemory_GetReturnsCopy(t *testing.T) {
	// Mutating a returned record must not leak into the store.
	m := store.NewPayrollMemory()
	ctx := context.Background()

	p, err := m.Put(ctx, &payroll.Payroll{Status: "MARCH"})
	require.NoError(t, err)

	got, err := m.GetByID(ctx, p.ID)
	require.NoError(t, err)
	got.Status = "HACKED"

	again, err := m.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "MARCH", again.Status)
}

func TestAdjustmentMemory_GetByType(t *testing.T) {
	m := store.NewAdjustmentMemory()
	ctx := context.Background()

	_, err := m.Put(ctx, &payroll.Adjustment{
		Type: payroll.TypeBonus, Amount: decimal.NewFromInt(500), PayrollID: 1,
	})
	require.NoError(t, err)

	got, err := m.GetByType(ctx, payroll.TypeBonus)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.Amount.Equal(decimal.NewFromInt(500)))

	missing, err := m.GetByType(ctx, payroll.TypeDiscount)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestAdjustmentMemory_Delete(t *testing.T) {
	m := store.NewAdjustmentMemory()
	ctx := context.Background()

	a, err := m.Put(ctx, &payroll.Adjustment{Type: payroll.TypeBonus, PayrollID: 1})
	require.NoError(t, err)

	deleted, err := m.Delete(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = m.Delete(ctx, a.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}
