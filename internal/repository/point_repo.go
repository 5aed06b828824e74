package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/ColetaApp/coleta_api/internal/models"
)

var (
	// ErrNotFound indicates the requested point does not exist.
	ErrNotFound = errors.New("point not found")

	// ErrUnknownItem indicates a point creation referenced an item id that
	// is not present in the catalog.
	ErrUnknownItem = errors.New("unknown item id")
)

// pqForeignKeyViolation is the PostgreSQL error code for a foreign key
// constraint violation (class 23).
const pqForeignKeyViolation = "23503"

// PointRepository handles data access for collection points and their item
// associations.
type PointRepository struct {
	db *sqlx.DB
}

// NewPointRepository creates a new PointRepository.
func NewPointRepository(db *sqlx.DB) *PointRepository {
	return &PointRepository{db: db}
}

// Create inserts a point row and one point_items row per item id inside a
// single transaction. Either everything commits or nothing does. An item id
// with no catalog row surfaces as ErrUnknownItem.
func (r *PointRepository) Create(ctx context.Context, point *models.Point, itemIDs []int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	const insertPoint = `
        INSERT INTO points (image, name, email, whatsapp, latitude, longitude, city, uf)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING id`

	err = tx.QueryRowContext(ctx, insertPoint,
		point.Image, point.Name, point.Email, point.Whatsapp,
		point.Latitude, point.Longitude, point.City, point.UF,
	).Scan(&point.ID)
	if err != nil {
		return fmt.Errorf("insert point: %w", err)
	}

	const insertPointItem = `INSERT INTO point_items (point_id, item_id) VALUES ($1, $2)`
	for _, itemID := range itemIDs {
		if _, err := tx.ExecContext(ctx, insertPointItem, point.ID, itemID); err != nil {
			if isForeignKeyViolation(err) {
				return ErrUnknownItem
			}
			return fmt.Errorf("insert point item %d: %w", itemID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit point creation: %w", err)
	}
	return nil
}

// GetByID returns a single point row.
func (r *PointRepository) GetByID(ctx context.Context, id int64) (*models.Point, error) {
	const q = `
        SELECT id, image, name, email, whatsapp, latitude, longitude, city, uf
        FROM points WHERE id = $1`

	var p models.Point
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&p.ID, &p.Image, &p.Name, &p.Email, &p.Whatsapp,
		&p.Latitude, &p.Longitude, &p.City, &p.UF,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// ItemTitlesByPoint returns the titles of the items a point accepts, joined
// through point_items.
func (r *PointRepository) ItemTitlesByPoint(ctx context.Context, pointID int64) ([]string, error) {
	const q = `
        SELECT items.title
        FROM items
        JOIN point_items ON point_items.item_id = items.id
        WHERE point_items.point_id = $1
        ORDER BY items.id`

	rows, err := r.db.QueryContext(ctx, q, pointID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var titles []string
	for rows.Next() {
		var title string
		if err := rows.Scan(&title); err != nil {
			return nil, err
		}
		titles = append(titles, title)
	}
	return titles, rows.Err()
}

// List returns points matching the given filters. Empty city/uf match all;
// an empty itemIDs slice matches points regardless of accepted items.
func (r *PointRepository) List(ctx context.Context, city, uf string, itemIDs []int64) ([]models.Point, error) {
	q := `
        SELECT DISTINCT points.id, points.image, points.name, points.email,
               points.whatsapp, points.latitude, points.longitude, points.city, points.uf
        FROM points`
	var args []interface{}

	if len(itemIDs) > 0 {
		q += ` JOIN point_items ON point_items.point_id = points.id
               AND point_items.item_id = ANY($1)`
		args = append(args, pq.Array(itemIDs))
	}

	where := ""
	if city != "" {
		args = append(args, city)
		where = andWhere(where, fmt.Sprintf("points.city = $%d", len(args)))
	}
	if uf != "" {
		args = append(args, uf)
		where = andWhere(where, fmt.Sprintf("points.uf = $%d", len(args)))
	}
	q += where + ` ORDER BY points.id`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var points []models.Point
	for rows.Next() {
		var p models.Point
		if err := rows.Scan(
			&p.ID, &p.Image, &p.Name, &p.Email, &p.Whatsapp,
			&p.Latitude, &p.Longitude, &p.City, &p.UF,
		); err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	return points, rows.Err()
}

// andWhere appends a condition to a WHERE clause under construction.
func andWhere(where, cond string) string {
	if where == "" {
		return " WHERE " + cond
	}
	return where + " AND " + cond
}

// isForeignKeyViolation reports whether err is a PostgreSQL foreign key
// constraint violation.
func isForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pqForeignKeyViolation
}
