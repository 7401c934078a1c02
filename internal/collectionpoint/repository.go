package collectionpoint

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// Repository defines read access to the collection point catalog.
type Repository interface {
	// List retrieves all collection points in insertion order.
	List(ctx context.Context) ([]Point, error)

	// GetByID retrieves a point by its identifier.
	// Returns ErrPointNotFound if the point does not exist.
	GetByID(ctx context.Context, id string) (*Point, error)
}

// SQLiteRepository implements Repository using SQLite.
// Accepted types are stored as a comma-separated tag list.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite-backed repository.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// List retrieves all collection points in insertion order.
func (r *SQLiteRepository) List(ctx context.Context) ([]Point, error) {
	query := `
		SELECT id, name, address, city, latitude, longitude, accepted_types, hours
		FROM collection_points
		ORDER BY rowid`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: listing collection points: %v", ErrStorage, err)
	}
	defer rows.Close()

	var points []Point
	for rows.Next() {
		point, err := scanPoint(rows)
		if err != nil {
			return nil, err
		}
		points = append(points, *point)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating collection points: %v", ErrStorage, err)
	}

	return points, nil
}

// GetByID retrieves a point by its identifier.
func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*Point, error) {
	query := `
		SELECT id, name, address, city, latitude, longitude, accepted_types, hours
		FROM collection_points
		WHERE id = ?`

	point, err := scanPoint(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPointNotFound
		}
		return nil, err
	}
	return point, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPoint(row rowScanner) (*Point, error) {
	var p Point
	var acceptedTypes string

	err := row.Scan(&p.ID, &p.Name, &p.Address, &p.City, &p.Latitude, &p.Longitude, &acceptedTypes, &p.Hours)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: scanning collection point: %v", ErrStorage, err)
	}

	if acceptedTypes != "" {
		p.AcceptedTypes = strings.Split(acceptedTypes, ",")
	}

	return &p, nil
}
