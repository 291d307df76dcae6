// Package declstore remembers ownership declarations requested from the
// registry so that the owner's answer can be checked and submitted later,
// from a separate hureg invocation.
//
// Records live in the shared SQLite database next to the audit log.
package declstore

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"nathanbeddoewebdev/hureg/internal/database"
)

// Repository defines the persistence interface for declaration records.
type Repository interface {
	// Save inserts a record (ID == 0) or updates an existing one.
	Save(record *Record) error

	// Pending returns the newest pending record for domainName in env, or
	// nil when there is none.
	Pending(domainName, env string) (*Record, error)

	// ListPending returns every pending record, newest first.
	ListPending() ([]Record, error)

	// MarkSubmitted flags the record for requestID as submitted. Unknown
	// ids are ignored.
	MarkSubmitted(requestID int64) error

	// DeleteOlderThan removes records last updated before d ago.
	DeleteOlderThan(d time.Duration) (int64, error)

	Close() error
}

// SQLiteRepository implements Repository backed by the local database.
type SQLiteRepository struct {
	db *sql.DB
}

// Open opens the repository at the default database path.
func Open() (*SQLiteRepository, error) {
	path, err := database.DefaultPath()
	if err != nil {
		return nil, fmt.Errorf("declstore: %w", err)
	}
	return OpenAt(path)
}

// OpenAt opens the repository stored in the database at path.
func OpenAt(path string) (*SQLiteRepository, error) {
	db, err := database.Open(path)
	if err != nil {
		return nil, fmt.Errorf("declstore: %w", err)
	}

	r := &SQLiteRepository{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return r, nil
}

func (r *SQLiteRepository) migrate() error {
	const ddl = `
		CREATE TABLE IF NOT EXISTS declarations (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			domain      TEXT    NOT NULL,
			request_id  INTEGER NOT NULL,
			hash        TEXT    NOT NULL DEFAULT '',
			environment TEXT    NOT NULL DEFAULT '',
			status      TEXT    NOT NULL DEFAULT 'pending',
			created_at  TEXT    NOT NULL,
			updated_at  TEXT    NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_declarations_domain ON declarations(domain, status);
	`
	if _, err := r.db.Exec(ddl); err != nil {
		return fmt.Errorf("declstore: migration failed: %w", err)
	}
	return nil
}

// Save inserts a new record (ID == 0) or updates an existing one.
func (r *SQLiteRepository) Save(record *Record) error {
	record.Domain = strings.ToLower(strings.TrimSpace(record.Domain))
	if record.Status == "" {
		record.Status = StatusPending
	}
	record.UpdatedAt = time.Now().UTC()

	if record.ID == 0 {
		if record.CreatedAt.IsZero() {
			record.CreatedAt = record.UpdatedAt
		}
		result, err := r.db.Exec(`
			INSERT INTO declarations (domain, request_id, hash, environment, status, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			record.Domain, record.RequestID, record.Hash, record.Environment, record.Status,
			record.CreatedAt.Format(time.RFC3339Nano), record.UpdatedAt.Format(time.RFC3339Nano),
		)
		if err != nil {
			return fmt.Errorf("declstore: insert failed: %w", err)
		}
		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("declstore: failed to get last insert ID: %w", err)
		}
		record.ID = id
		return nil
	}

	result, err := r.db.Exec(`
		UPDATE declarations SET domain=?, request_id=?, hash=?, environment=?, status=?, updated_at=?
		WHERE id=?`,
		record.Domain, record.RequestID, record.Hash, record.Environment, record.Status,
		record.UpdatedAt.Format(time.RFC3339Nano), record.ID,
	)
	if err != nil {
		return fmt.Errorf("declstore: update failed: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("declstore: declaration with ID %d not found", record.ID)
	}
	return nil
}

const columns = `id, domain, request_id, hash, environment, status, created_at, updated_at`

// Pending returns the newest pending record for domainName in env.
func (r *SQLiteRepository) Pending(domainName, env string) (*Record, error) {
	row := r.db.QueryRow(`SELECT `+columns+` FROM declarations
		WHERE domain = ? AND environment = ? AND status = 'pending'
		ORDER BY created_at DESC, id DESC LIMIT 1`,
		strings.ToLower(strings.TrimSpace(domainName)), env)

	var record Record
	err := scan(row, &record)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("declstore: query failed: %w", err)
	}
	return &record, nil
}

// ListPending returns all pending records, newest first.
func (r *SQLiteRepository) ListPending() ([]Record, error) {
	rows, err := r.db.Query(`SELECT ` + columns + ` FROM declarations
		WHERE status = 'pending' ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("declstore: query failed: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var record Record
		if err := scan(rows, &record); err != nil {
			return nil, fmt.Errorf("declstore: scan failed: %w", err)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// MarkSubmitted flags every pending record for requestID as submitted.
func (r *SQLiteRepository) MarkSubmitted(requestID int64) error {
	_, err := r.db.Exec(`UPDATE declarations SET status = 'submitted', updated_at = ?
		WHERE request_id = ? AND status = 'pending'`,
		time.Now().UTC().Format(time.RFC3339Nano), requestID)
	if err != nil {
		return fmt.Errorf("declstore: update failed: %w", err)
	}
	return nil
}

// DeleteOlderThan removes records last updated before d ago.
func (r *SQLiteRepository) DeleteOlderThan(d time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-d).Format(time.RFC3339Nano)
	result, err := r.db.Exec(`DELETE FROM declarations WHERE updated_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("declstore: delete failed: %w", err)
	}
	return result.RowsAffected()
}

// Close releases database resources.
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scan(s scanner, record *Record) error {
	var createdStr, updatedStr string
	err := s.Scan(
		&record.ID, &record.Domain, &record.RequestID, &record.Hash,
		&record.Environment, &record.Status, &createdStr, &updatedStr,
	)
	if err != nil {
		return err
	}
	record.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
	record.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedStr)
	return nil
}
