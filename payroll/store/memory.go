// Package store provides in-memory PayrollStore and AdjustmentStore
// implementations for testing and development.
package store

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/rh-systems/payroll-engine/payroll"
)

// =============================================================================
// PAYROLL MEMORY STORE
// =============================================================================

type PayrollMemory struct {
	mu     sync.RWMutex
	nextID int64
	byID   map[int64]payroll.Payroll
}

func NewPayrollMemory() *PayrollMemory {
	return &PayrollMemory{byID: make(map[int64]payroll.Payroll)}
}

func (m *PayrollMemory) GetByID(_ context.Context, id int64) (*payroll.Payroll, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if p, ok := m.byID[id]; ok {
		return &p, nil
	}
	return nil, nil
}

func (m *PayrollMemory) GetByStatus(_ context.Context, status string) (*payroll.Payroll, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.byID {
		if strings.EqualFold(p.Status, status) {
			p := p
			return &p, nil
		}
	}
	return nil, nil
}

func (m *PayrollMemory) List(_ context.Context) ([]payroll.Payroll, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]payroll.Payroll, 0, len(m.byID))
	for _, p := range m.byID {
		result = append(result, p)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *PayrollMemory) Put(_ context.Context, p *payroll.Payroll) (*payroll.Payroll, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := *p
	if stored.ID == 0 {
		m.nextID++
		stored.ID = m.nextID
	} else if stored.ID > m.nextID {
		m.nextID = stored.ID
	}
	m.byID[stored.ID] = stored
	return &stored, nil
}

func (m *PayrollMemory) Delete(_ context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[id]; !ok {
		return false, nil
	}
	delete(m.byID, id)
	return true, nil
}

// =============================================================================
// ADJUSTMENT MEMORY STORE
// =============================================================================

type AdjustmentMemory struct {
	mu     sync.RWMutex
	nextID int64
	byID   map[int64]payroll.Adjustment
}

func NewAdjustmentMemory() *AdjustmentMemory {
	return &AdjustmentMemory{byID: make(map[int64]payroll.Adjustment)}
}

func (m *AdjustmentMemory) GetByID(_ context.Context, id int64) (*payroll.Adjustment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if a, ok := m.byID[id]; ok {
		return &a, nil
	}
	return nil, nil
}

func (m *AdjustmentMemory) GetByType(_ context.Context, t payroll.AdjustmentType) (*payroll.Adjustment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, a := range m.byID {
		if a.Type == t {
			a := a
			return &a, nil
		}
	}
	return nil, nil
}

func (m *AdjustmentMemory) List(_ context.Context) ([]payroll.Adjustment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]payroll.Adjustment, 0, len(m.byID))
	for _, a := range m.byID {
		result = append(result, a)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *AdjustmentMemory) Put(_ context.Context, a *payroll.Adjustment) (*payroll.Adjustment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := *a
	if stored.ID == 0 {
		m.nextID++
		stored.ID = m.nextID
	} else if stored.ID > m.nextID {
		m.nextID = stored.ID
	}
	m.byID[stored.ID] = stored
	return &stored, nil
}

func (m *AdjustmentMemory) Delete(_ context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[id]; !ok {
		return false, nil
	}
	delete(m.byID, id)
	return true, nil
}
