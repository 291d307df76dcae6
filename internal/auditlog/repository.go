package auditlog

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"nathanbeddoewebdev/hureg/internal/database"
)

// Repository stores audit entries.
type Repository interface {
	Save(ctx context.Context, entry *AuditEntry) error
	List(ctx context.Context, filter Filter) ([]AuditEntry, error)
	Prune(ctx context.Context, olderThan time.Duration) (int64, error)
	Close() error
}

// Filter narrows List. Zero values match everything; Limit <= 0 means 25.
type Filter struct {
	Command string
	Domain  string
	Outcome string
	Since   time.Time
	Limit   int
}

const defaultLimit = 25

// where renders the filter as a SQL condition and its arguments.
func (f Filter) where() (string, []any) {
	var (
		conds []string
		args  []any
	)
	if f.Command != "" {
		conds = append(conds, "command = ?")
		args = append(args, f.Command)
	}
	if f.Domain != "" {
		conds = append(conds, "resource_type = ? AND resource_name = ?")
		args = append(args, ResourceDomain, f.Domain)
	}
	if f.Outcome != "" {
		conds = append(conds, "outcome = ?")
		args = append(args, f.Outcome)
	}
	if !f.Since.IsZero() {
		conds = append(conds, "created_ms >= ?")
		args = append(args, f.Since.UnixMilli())
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// SQLiteRepository keeps the audit trail in the shared hureg database.
type SQLiteRepository struct {
	db *sql.DB
}

// Open opens the audit trail in the default database.
func Open() (*SQLiteRepository, error) {
	path, err := database.DefaultPath()
	if err != nil {
		return nil, fmt.Errorf("auditlog: %w", err)
	}
	return OpenAt(path)
}

// OpenAt opens the audit trail in the database at path, creating the table
// on first use.
func OpenAt(path string) (*SQLiteRepository, error) {
	db, err := database.Open(path)
	if err != nil {
		return nil, fmt.Errorf("auditlog: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("auditlog: create schema: %w", err)
	}
	return &SQLiteRepository{db: db}, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS audit_entries (
    id            INTEGER PRIMARY KEY AUTOINCREMENT,
    created_ms    INTEGER NOT NULL,
    command       TEXT    NOT NULL,
    args          TEXT    NOT NULL DEFAULT '',
    environment   TEXT    NOT NULL DEFAULT '',
    resource_type TEXT    NOT NULL DEFAULT '',
    resource_name TEXT    NOT NULL DEFAULT '',
    outcome       TEXT    NOT NULL,
    detail        TEXT    NOT NULL DEFAULT '',
    status        INTEGER NOT NULL DEFAULT 0,
    duration_ms   INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS audit_entries_created ON audit_entries(created_ms);
CREATE INDEX IF NOT EXISTS audit_entries_resource ON audit_entries(resource_type, resource_name);
`

const columns = `id, created_ms, command, args, environment, resource_type,
    resource_name, outcome, detail, status, duration_ms`

// Save appends entry, stamping it with the current time if it has none.
func (r *SQLiteRepository) Save(ctx context.Context, entry *AuditEntry) error {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}
	entry.Timestamp = entry.Timestamp.UTC()

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO audit_entries (created_ms, command, args, environment, resource_type,
            resource_name, outcome, detail, status, duration_ms)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.Timestamp.UnixMilli(), entry.Command, entry.Args, entry.Environment, entry.ResourceType,
		entry.ResourceName, entry.Outcome, entry.Detail, entry.Status, entry.DurationMs)
	if err != nil {
		return fmt.Errorf("auditlog: save %s: %w", entry.Command, err)
	}
	if entry.ID, err = res.LastInsertId(); err != nil {
		return fmt.Errorf("auditlog: read entry id: %w", err)
	}
	return nil
}

// List returns up to filter.Limit matching entries, newest first.
func (r *SQLiteRepository) List(ctx context.Context, filter Filter) ([]AuditEntry, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	where, args := filter.where()

	rows, err := r.db.QueryContext(ctx,
		"SELECT "+columns+" FROM audit_entries"+where+" ORDER BY created_ms DESC, id DESC LIMIT ?",
		append(args, limit)...)
	if err != nil {
		return nil, fmt.Errorf("auditlog: list: %w", err)
	}
	defer rows.Close()

	var entries []AuditEntry
	for rows.Next() {
		var (
			e       AuditEntry
			created int64
		)
		if err := rows.Scan(&e.ID, &created, &e.Command, &e.Args, &e.Environment, &e.ResourceType,
			&e.ResourceName, &e.Outcome, &e.Detail, &e.Status, &e.DurationMs); err != nil {
			return nil, fmt.Errorf("auditlog: read entry: %w", err)
		}
		e.Timestamp = time.UnixMilli(created).UTC()
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Prune drops entries recorded more than olderThan ago and reports how many
// went.
func (r *SQLiteRepository) Prune(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan).UnixMilli()
	res, err := r.db.ExecContext(ctx, `DELETE FROM audit_entries WHERE created_ms < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("auditlog: prune: %w", err)
	}
	return res.RowsAffected()
}

// Close closes the underlying database handle.
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}
