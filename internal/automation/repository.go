package automation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Repository persists execution history for rules, scheduled tasks and
// scenes. This abstraction allows different implementations (SQLite, mock,
// etc.) and enables unit testing without database dependencies.
type Repository interface {
	CreateExecution(ctx context.Context, exec *Execution) error
	GetExecution(ctx context.Context, id string) (*Execution, error)
	ListExecutions(ctx context.Context, source ExecutionSource, name string, limit int) ([]Execution, error)
	ListRecent(ctx context.Context, limit int) ([]Execution, error)
}

// Query limits.
const (
	defaultListLimit = 10
	maxListLimit     = 100
)

// executionColumns is the SELECT column list for execution queries.
const executionColumns = `id, source, name, triggered_at, status,
			actions_total, actions_completed, failed_at, error_message, duration_ms`

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite-backed repository.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// CreateExecution inserts a new execution record.
func (r *SQLiteRepository) CreateExecution(ctx context.Context, exec *Execution) error {
	if exec.ID == "" {
		exec.ID = GenerateID()
	}
	query := `
		INSERT INTO automation_executions (
			id, source, name, triggered_at, status,
			actions_total, actions_completed, failed_at, error_message, duration_ms
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		exec.ID,
		string(exec.Source),
		exec.Name,
		exec.TriggeredAt.UTC().Format(time.RFC3339),
		string(exec.Status),
		exec.ActionsTotal,
		exec.ActionsCompleted,
		nullableString(exec.FailedAt),
		nullableString(exec.Error),
		exec.DurationMS,
	)
	if err != nil {
		return fmt.Errorf("inserting execution: %w", err)
	}
	return nil
}

// GetExecution retrieves an execution by ID.
func (r *SQLiteRepository) GetExecution(ctx context.Context, id string) (*Execution, error) {
	query := `SELECT ` + executionColumns + ` FROM automation_executions WHERE id = ?`

	exec, err := scanExecution(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrExecutionNotFound
		}
		return nil, fmt.Errorf("querying execution: %w", err)
	}
	return exec, nil
}

// ListExecutions retrieves recent executions for one rule, task or scene.
func (r *SQLiteRepository) ListExecutions(ctx context.Context, source ExecutionSource, name string, limit int) ([]Execution, error) {
	query := `SELECT ` + executionColumns + `
		FROM automation_executions
		WHERE source = ? AND name = ? COLLATE NOCASE
		ORDER BY triggered_at DESC, rowid DESC
		LIMIT ?`
	return r.queryExecutions(ctx, query, string(source), name, clampLimit(limit))
}

// ListRecent retrieves the most recent executions of any kind.
func (r *SQLiteRepository) ListRecent(ctx context.Context, limit int) ([]Execution, error) {
	query := `SELECT ` + executionColumns + `
		FROM automation_executions
		ORDER BY triggered_at DESC, rowid DESC
		LIMIT ?`
	return r.queryExecutions(ctx, query, clampLimit(limit))
}

func (r *SQLiteRepository) queryExecutions(ctx context.Context, query string, args ...any) ([]Execution, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying executions: %w", err)
	}
	defer rows.Close()

	executions := []Execution{}
	for rows.Next() {
		exec, scanErr := scanExecution(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("scanning execution: %w", scanErr)
		}
		executions = append(executions, *exec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating executions: %w", err)
	}
	return executions, nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultListLimit
	}
	if limit > maxListLimit {
		return maxListLimit
	}
	return limit
}

// ─── Row Scanning Helpers ───────────────────────────────────────────────────

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanExecution(scanner rowScanner) (*Execution, error) {
	var e Execution
	var source, status, triggeredAt string
	var failedAt, errorMessage sql.NullString

	err := scanner.Scan(
		&e.ID,
		&source,
		&e.Name,
		&triggeredAt,
		&status,
		&e.ActionsTotal,
		&e.ActionsCompleted,
		&failedAt,
		&errorMessage,
		&e.DurationMS,
	)
	if err != nil {
		return nil, err
	}

	e.Source = ExecutionSource(source)
	e.Status = ExecutionStatus(status)
	if t, parseErr := time.Parse(time.RFC3339, triggeredAt); parseErr == nil {
		e.TriggeredAt = t
	}
	if failedAt.Valid {
		e.FailedAt = &failedAt.String
	}
	if errorMessage.Valid {
		e.Error = &errorMessage.String
	}
	return &e, nil
}

// ─── SQL Helpers ────────────────────────────────────────────────────────────

func nullableString(s *string) sql.NullString {
	if s == nil || *s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
