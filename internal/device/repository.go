package device

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Repository defines the interface for record persistence operations.
// This abstraction allows for different implementations (SQLite, mock, etc.)
// and enables unit testing without database dependencies.
type Repository interface {
	// GetByID retrieves a record by its unique identifier.
	// Returns ErrDeviceNotFound if the record does not exist.
	GetByID(ctx context.Context, id string) (*Record, error)

	// List retrieves all records in insertion order.
	List(ctx context.Context) ([]Record, error)

	// ListByStatus retrieves all records with the given status, in insertion order.
	ListByStatus(ctx context.Context, status Status) ([]Record, error)

	// Create inserts a new record.
	// Returns ErrDeviceExists if a record with the same ID already exists.
	Create(ctx context.Context, record *Record) error

	// MarkCollected sets the record's status to collected with the given
	// timestamp. Returns ErrDeviceNotFound if the record does not exist.
	MarkCollected(ctx context.Context, id string, collectedAt time.Time) error
}

// SQLiteRepository implements Repository using SQLite.
//
// Timestamps are stored as RFC3339 strings and enumerations as their
// string tags, so a round-trip through the database reproduces an
// equivalent record set.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite-backed repository.
// The db parameter should be an open SQLite connection.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// GetByID retrieves a record by its unique identifier.
func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*Record, error) {
	query := `
		SELECT id, name, type, status, registered_at, collected_at
		FROM devices
		WHERE id = ?`

	record, err := scanRecord(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDeviceNotFound
		}
		return nil, fmt.Errorf("querying device by id: %w", err)
	}
	return record, nil
}

// List retrieves all records in insertion order (rowid order matches the
// order Create calls were made in).
func (r *SQLiteRepository) List(ctx context.Context) ([]Record, error) {
	query := `
		SELECT id, name, type, status, registered_at, collected_at
		FROM devices
		ORDER BY rowid`

	return r.queryRecords(ctx, query)
}

// ListByStatus retrieves all records with the given status, in insertion order.
func (r *SQLiteRepository) ListByStatus(ctx context.Context, status Status) ([]Record, error) {
	query := `
		SELECT id, name, type, status, registered_at, collected_at
		FROM devices
		WHERE status = ?
		ORDER BY rowid`

	return r.queryRecords(ctx, query, string(status))
}

// Create inserts a new record. The write is synchronous: once Create
// returns nil the record is durable.
func (r *SQLiteRepository) Create(ctx context.Context, record *Record) error {
	if err := ValidateRecord(record); err != nil {
		return err
	}

	query := `
		INSERT INTO devices (id, name, type, status, registered_at, collected_at)
		VALUES (?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		record.ID,
		record.Name,
		string(record.Type),
		string(record.Status),
		record.RegisteredAt.UTC().Format(time.RFC3339),
		nullableTime(record.CollectedAt),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return ErrDeviceExists
		}
		return fmt.Errorf("%w: inserting device: %w", ErrStorage, err)
	}

	return nil
}

// MarkCollected transitions a record to collected status.
func (r *SQLiteRepository) MarkCollected(ctx context.Context, id string, collectedAt time.Time) error {
	query := `
		UPDATE devices
		SET status = ?, collected_at = ?
		WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query,
		string(StatusCollected),
		collectedAt.UTC().Format(time.RFC3339),
		id,
	)
	if err != nil {
		return fmt.Errorf("%w: updating device: %w", ErrStorage, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: checking rows affected: %w", ErrStorage, err)
	}
	if rowsAffected == 0 {
		return ErrDeviceNotFound
	}

	return nil
}

// queryRecords executes a query and returns a slice of records.
func (r *SQLiteRepository) queryRecords(ctx context.Context, query string, args ...any) ([]Record, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: querying devices: %w", ErrStorage, err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning device: %w", err)
		}
		records = append(records, *record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating devices: %w", ErrStorage, err)
	}

	return records, nil
}

// rowScanner is an interface that sql.Row and sql.Rows both implement.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanRecord scans a row into a Record and validates it, so malformed
// persisted rows are rejected at the storage boundary instead of
// propagating into the cache.
func scanRecord(scanner rowScanner) (*Record, error) {
	var rec Record
	var deviceType, status, registeredAt string
	var collectedAt sql.NullString

	err := scanner.Scan(
		&rec.ID,
		&rec.Name,
		&deviceType,
		&status,
		&registeredAt,
		&collectedAt,
	)
	if err != nil {
		return nil, err
	}

	rec.Type = DeviceType(deviceType)
	rec.Status = Status(status)

	rec.RegisteredAt, err = time.Parse(time.RFC3339, registeredAt)
	if err != nil {
		return nil, fmt.Errorf("parsing registered_at: %w", err)
	}

	if collectedAt.Valid {
		t, err := time.Parse(time.RFC3339, collectedAt.String)
		if err != nil {
			return nil, fmt.Errorf("parsing collected_at: %w", err)
		}
		rec.CollectedAt = &t
	}

	if err := ValidateRecord(&rec); err != nil {
		return nil, err
	}

	return &rec, nil
}

// nullableTime returns a sql.NullString for optional time pointers (as RFC3339 strings).
func nullableTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: t.UTC().Format(time.RFC3339), Valid: true}
}

// isUniqueConstraintError checks if an error is a SQLite unique constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "unique constraint")
}
