// Package sqlite implements the repositories on an embedded SQLite database.
// It backs single-node deployments and the service tests; production runs
// on the postgresql package.
//
// Dates are stored as YYYY-MM-DD text, timestamps as RFC 3339 text in UTC and
// decimals as text, so values round-trip exactly. The schema is created on
// New.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/balance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/worktime"
	"github.com/mattn/go-sqlite3"
)

// Store owns the database handle and hands out repositories.
type Store struct {
	db *sql.DB
}

var _ database.TxManager = (*Store)(nil)

// New opens the database at dbPath. Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One connection: in-memory databases are per connection, and SQLite
	// allows a single writer anyway.
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS employees (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		role TEXT NOT NULL CHECK (role IN ('ADMIN', 'MANAGER', 'EMPLOYEE')),
		authorities TEXT,
		allowed_absence_days INTEGER NOT NULL DEFAULT 0 CHECK (allowed_absence_days >= 0),
		total_absence_days INTEGER NOT NULL DEFAULT 0,
		allowed_late_early_hours TEXT NOT NULL DEFAULT '0',
		total_late_early_hours TEXT NOT NULL DEFAULT '0',
		status TEXT NOT NULL DEFAULT 'active',
		version INTEGER NOT NULL DEFAULT 1,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		CONSTRAINT chk_employees_absence_balance
			CHECK (total_absence_days >= 0 AND total_absence_days <= allowed_absence_days),
		CONSTRAINT chk_employees_late_early_balance
			CHECK (CAST(total_late_early_hours AS REAL) >= 0
				AND CAST(total_late_early_hours AS REAL) <= CAST(allowed_late_early_hours AS REAL))
	);

	CREATE TABLE IF NOT EXISTS attendances (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL REFERENCES employees (id),
		work_date TEXT NOT NULL,
		check_in TEXT,
		check_out TEXT,
		breaks TEXT NOT NULL DEFAULT '[]',
		total_hours TEXT NOT NULL DEFAULT '0',
		late_minutes INTEGER NOT NULL DEFAULT 0,
		overtime_minutes INTEGER NOT NULL DEFAULT 0,
		early_leave_minutes INTEGER NOT NULL DEFAULT 0,
		classification TEXT NOT NULL,
		has_permission INTEGER NOT NULL DEFAULT 0,
		absence_authorized INTEGER NOT NULL DEFAULT 0,
		auto_closed INTEGER NOT NULL DEFAULT 0,
		version INTEGER NOT NULL DEFAULT 1,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		CONSTRAINT uq_attendances_employee_date UNIQUE (employee_id, work_date)
	);

	CREATE INDEX IF NOT EXISTS idx_attendances_open
		ON attendances (work_date) WHERE check_in IS NOT NULL AND check_out IS NULL;

	CREATE TABLE IF NOT EXISTS requests (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL REFERENCES employees (id),
		type TEXT NOT NULL,
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		duration_minutes INTEGER NOT NULL DEFAULT 0,
		reason TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'pending',
		granted_days INTEGER NOT NULL DEFAULT 0,
		granted_hours TEXT NOT NULL DEFAULT '0',
		reviewer_id TEXT,
		reviewed_at TEXT,
		rejection_reason TEXT,
		revoked_by TEXT,
		revoked_at TEXT,
		version INTEGER NOT NULL DEFAULT 1,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		CHECK (end_date >= start_date)
	);

	CREATE INDEX IF NOT EXISTS idx_requests_employee_dates ON requests (employee_id, start_date, end_date);
	CREATE INDEX IF NOT EXISTS idx_requests_status ON requests (status, created_at);

	CREATE TABLE IF NOT EXISTS audit_entries (
		id TEXT PRIMARY KEY,
		actor_id TEXT NOT NULL,
		action TEXT NOT NULL,
		entity_type TEXT NOT NULL,
		entity_id TEXT NOT NULL,
		before TEXT,
		after TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_audit_entries_entity ON audit_entries (entity_type, entity_id, created_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

type txKey struct{}

// WithinTransaction runs fn in a transaction carried by the context. Nested
// calls join the outer transaction.
func (s *Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return fn(ctx)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		return err
	}
	return tx.Commit()
}

type executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// conn returns the transaction in ctx or the database. Repositories must go
// through it: the pool holds a single connection, so bypassing an open
// transaction would block.
func (s *Store) conn(ctx context.Context) executor {
	if tx, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return tx
	}
	return s.db
}

// translateError maps SQLite constraint failures to domain errors. onUnique
// replaces unique and primary key violations when non-nil.
func translateError(err error, onUnique error) error {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return err
	}

	switch sqliteErr.ExtendedCode {
	case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
		if onUnique != nil {
			return onUnique
		}
	case sqlite3.ErrConstraintCheck:
		if strings.Contains(sqliteErr.Error(), "chk_employees_") {
			return fmt.Errorf("%w: %s", balance.ErrInvalidBalance, sqliteErr.Error())
		}
	}
	return err
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func formatNullableTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: formatTime(*t), Valid: true}
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return t.UTC(), nil
}

func parseNullableTime(s sql.NullString) (*time.Time, error) {
	if !s.Valid {
		return nil, nil
	}
	t, err := parseTime(s.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func formatDate(t time.Time) string {
	return t.Format(worktime.DateLayout)
}

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(worktime.DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return t, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func stringPtr(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}
