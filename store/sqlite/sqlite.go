/*
Package sqlite provides a SQLite-backed implementation of the storage
interfaces.

PURPOSE:
  Implements payroll.PayrollStore and payroll.AdjustmentStore using SQLite.
  In production, the same patterns apply to PostgreSQL - only minor SQL
  dialect differences.

KEY TABLES:
  payrolls:            One row per payroll aggregate
  payroll_adjustments: One row per adjustment entry

UNIQUENESS BACKSTOPS:
  The domain layer checks type and status uniqueness before writing, but
  the schema also enforces them with unique indexes:
  - idx_payrolls_status (COLLATE NOCASE): one payroll per status label
  - idx_adjustments_type: one adjustment per type, store-wide
  A race that slips past the application-level check fails here instead of
  corrupting the store.

MONEY COLUMNS:
  Stored as TEXT in decimal string form and parsed back with
  decimal.NewFromString, so no precision is lost round-tripping.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  multiple readers don't block, single writer at a time.

USAGE:
  db, err := sqlite.New("./data/payroll.db")
  if err != nil {
      log.Fatal(err)
  }
  defer db.Close()
  ledger := payroll.NewAdjustmentLedger(db.Payrolls(), db.Adjustments())

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper migration
  tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - payroll/store.go: Interface definitions
  - payroll/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/rh-systems/payroll-engine/payroll"
)

// DB wraps a SQLite connection and exposes the two stores over it.
type DB struct {
	db *sql.DB
}

// New opens (and migrates) a SQLite database at the given path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*DB, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &DB{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *DB) Close() error {
	return s.db.Close()
}

// Payrolls returns the payroll store view.
func (s *DB) Payrolls() payroll.PayrollStore {
	return &payrollStore{db: s.db}
}

// Adjustments returns the adjustment store view.
func (s *DB) Adjustments() payroll.AdjustmentStore {
	return &adjustmentStore{db: s.db}
}

// migrate creates the database schema.
func (s *DB) migrate() error {
	schema := `
	-- Payroll aggregates
	CREATE TABLE IF NOT EXISTS payrolls (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		employee_id INTEGER NOT NULL,
		status TEXT NOT NULL,
		issue_date TEXT NOT NULL,
		base_salary TEXT NOT NULL,
		total_adjustments TEXT NOT NULL,
		net_salary TEXT NOT NULL
	);

	-- One payroll per status label, store-wide, case-insensitive
	CREATE UNIQUE INDEX IF NOT EXISTS idx_payrolls_status
		ON payrolls(status COLLATE NOCASE);

	-- Adjustment entries
	CREATE TABLE IF NOT EXISTS payroll_adjustments (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		type TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		amount TEXT NOT NULL,
		payroll_id INTEGER NOT NULL
	);

	-- One adjustment per type, store-wide
	CREATE UNIQUE INDEX IF NOT EXISTS idx_adjustments_type
		ON payroll_adjustments(type);

	CREATE INDEX IF NOT EXISTS idx_adjustments_payroll
		ON payroll_adjustments(payroll_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

const dateLayout = time.RFC3339

// =============================================================================
// PAYROLL STORE
// =============================================================================

type payrollStore struct {
	db *sql.DB
}

const payrollColumns = "id, employee_id, status, issue_date, base_salary, total_adjustments, net_salary"

func (s *payrollStore) GetByID(ctx context.Context, id int64) (*payroll.Payroll, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+payrollColumns+" FROM payrolls WHERE id = ?", id)
	return scanPayroll(row)
}

func (s *payrollStore) GetByStatus(ctx context.Context, status string) (*payroll.Payroll, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+payrollColumns+" FROM payrolls WHERE status = ? COLLATE NOCASE", status)
	return scanPayroll(row)
}

func (s *payrollStore) List(ctx context.Context) ([]payroll.Payroll, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+payrollColumns+" FROM payrolls ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []payroll.Payroll
	for rows.Next() {
		p, err := scanPayrollRow(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}
	return result, rows.Err()
}

func (s *payrollStore) Put(ctx context.Context, p *payroll.Payroll) (*payroll.Payroll, error) {
	stored := *p
	if stored.ID == 0 {
		res, err := s.db.ExecContext(ctx, `
			INSERT INTO payrolls (employee_id, status, issue_date, base_salary, total_adjustments, net_salary)
			VALUES (?, ?, ?, ?, ?, ?)`,
			stored.EmployeeID, stored.Status, stored.IssueDate.Format(dateLayout),
			stored.BaseSalary.String(), stored.TotalAdjustments.String(), stored.NetSalary.String())
		if err != nil {
			return nil, err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return nil, err
		}
		stored.ID = id
		return &stored, nil
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE payrolls SET
			employee_id = ?, status = ?, issue_date = ?,
			base_salary = ?, total_adjustments = ?, net_salary = ?
		WHERE id = ?`,
		stored.EmployeeID, stored.Status, stored.IssueDate.Format(dateLayout),
		stored.BaseSalary.String(), stored.TotalAdjustments.String(), stored.NetSalary.String(),
		stored.ID)
	if err != nil {
		return nil, err
	}
	if n, err := res.RowsAffected(); err != nil {
		return nil, err
	} else if n == 0 {
		// Upsert contract: a caller-assigned ID that isn't present inserts.
		_, err = s.db.ExecContext(ctx, `
			INSERT INTO payrolls (id, employee_id, status, issue_date, base_salary, total_adjustments, net_salary)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			stored.ID, stored.EmployeeID, stored.Status, stored.IssueDate.Format(dateLayout),
			stored.BaseSalary.String(), stored.TotalAdjustments.String(), stored.NetSalary.String())
		if err != nil {
			return nil, err
		}
	}
	return &stored, nil
}

func (s *payrollStore) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM payrolls WHERE id = ?", id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// =============================================================================
// ADJUSTMENT STORE
// =============================================================================

type adjustmentStore struct {
	db *sql.DB
}

const adjustmentColumns = "id, type, description, amount, payroll_id"

func (s *adjustmentStore) GetByID(ctx context.Context, id int64) (*payroll.Adjustment, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+adjustmentColumns+" FROM payroll_adjustments WHERE id = ?", id)
	return scanAdjustment(row)
}

func (s *adjustmentStore) GetByType(ctx context.Context, t payroll.AdjustmentType) (*payroll.Adjustment, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+adjustmentColumns+" FROM payroll_adjustments WHERE type = ?", string(t))
	return scanAdjustment(row)
}

func (s *adjustmentStore) List(ctx context.Context) ([]payroll.Adjustment, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+adjustmentColumns+" FROM payroll_adjustments ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []payroll.Adjustment
	for rows.Next() {
		a, err := scanAdjustmentRow(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *a)
	}
	return result, rows.Err()
}

func (s *adjustmentStore) Put(ctx context.Context, a *payroll.Adjustment) (*payroll.Adjustment, error) {
	stored := *a
	if stored.ID == 0 {
		res, err := s.db.ExecContext(ctx, `
			INSERT INTO payroll_adjustments (type, description, amount, payroll_id)
			VALUES (?, ?, ?, ?)`,
			string(stored.Type), stored.Description, stored.Amount.String(), stored.PayrollID)
		if err != nil {
			return nil, err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return nil, err
		}
		stored.ID = id
		return &stored, nil
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE payroll_adjustments SET
			type = ?, description = ?, amount = ?, payroll_id = ?
		WHERE id = ?`,
		string(stored.Type), stored.Description, stored.Amount.String(), stored.PayrollID,
		stored.ID)
	if err != nil {
		return nil, err
	}
	if n, err := res.RowsAffected(); err != nil {
		return nil, err
	} else if n == 0 {
		_, err = s.db.ExecContext(ctx, `
			INSERT INTO payroll_adjustments (id, type, description, amount, payroll_id)
			VALUES (?, ?, ?, ?, ?)`,
			stored.ID, string(stored.Type), stored.Description, stored.Amount.String(), stored.PayrollID)
		if err != nil {
			return nil, err
		}
	}
	return &stored, nil
}

func (s *adjustmentStore) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM payroll_adjustments WHERE id = ?", id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// =============================================================================
// ROW SCANNING
// =============================================================================

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPayroll(row *sql.Row) (*payroll.Payroll, error) {
	p, err := scanPayrollRow(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return p, err
}

func scanPayrollRow(r rowScanner) (*payroll.Payroll, error) {
	var p payroll.Payroll
	var issueDate, baseSalary, totalAdjustments, netSalary string
	if err := r.Scan(&p.ID, &p.EmployeeID, &p.Status, &issueDate,
		&baseSalary, &totalAdjustments, &netSalary); err != nil {
		return nil, err
	}

	var err error
	if p.IssueDate, err = time.Parse(dateLayout, issueDate); err != nil {
		return nil, fmt.Errorf("bad issue_date %q: %w", issueDate, err)
	}
	if p.BaseSalary, err = decimal.NewFromString(baseSalary); err != nil {
		return nil, fmt.Errorf("bad base_salary %q: %w", baseSalary, err)
	}
	if p.TotalAdjustments, err = decimal.NewFromString(totalAdjustments); err != nil {
		return nil, fmt.Errorf("bad total_adjustments %q: %w", totalAdjustments, err)
	}
	if p.NetSalary, err = decimal.NewFromString(netSalary); err != nil {
		return nil, fmt.Errorf("bad net_salary %q: %w", netSalary, err)
	}
	return &p, nil
}

func scanAdjustment(row *sql.Row) (*payroll.Adjustment, error) {
	a, err := scanAdjustmentRow(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return a, err
}

func scanAdjustmentRow(r rowScanner) (*payroll.Adjustment, error) {
	var a payroll.Adjustment
	var typ, amount string
	if err := r.Scan(&a.ID, &typ, &a.Description, &amount, &a.PayrollID); err != nil {
		return nil, err
	}

	t, ok := payroll.ParseAdjustmentType(typ)
	if !ok {
		return nil, fmt.Errorf("bad adjustment type %q", typ)
	}
	a.Type = t

	var err error
	if a.Amount, err = decimal.NewFromString(amount); err != nil {
		return nil, fmt.Errorf("bad amount %q: %w", amount, err)
	}
	return &a, nil
}
