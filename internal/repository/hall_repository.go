package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/laskarj/theatre-api/internal/model"
)

// ErrHallNotFound is returned when a theatre hall lookup fails.
var ErrHallNotFound = errors.New("theatre hall not found")

// HallRepo provides persistence for theatre halls. The seating layout
// is stored as grid dimensions only; individual seats have no rows of
// their own.
type HallRepo struct {
	db *sql.DB
}

func NewHallRepo(db *sql.DB) *HallRepo { return &HallRepo{db: db} }

const hallColumns = `id, name, seat_rows, seats_per_row, created_at, updated_at`

func scanHall(row *sql.Row) (model.TheatreHall, error) {
	var h model.TheatreHall
	err := row.Scan(&h.ID, &h.Name, &h.Rows, &h.SeatsPerRow, &h.CreatedAt, &h.UpdatedAt)
	return h, err
}

// List returns all halls ordered by name.
func (r *HallRepo) List(ctx context.Context) ([]model.TheatreHall, error) {
	const q = `SELECT ` + hallColumns + ` FROM theatre_halls ORDER BY name, id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	halls := make([]model.TheatreHall, 0)
	for rows.Next() {
		var h model.TheatreHall
		if err := rows.Scan(&h.ID, &h.Name, &h.Rows, &h.SeatsPerRow, &h.CreatedAt, &h.UpdatedAt); err != nil {
			return nil, err
		}
		halls = append(halls, h)
	}
	return halls, rows.Err()
}

// GetByID returns a single hall or ErrHallNotFound.
func (r *HallRepo) GetByID(ctx context.Context, id uint64) (model.TheatreHall, error) {
	const q = `SELECT ` + hallColumns + ` FROM theatre_halls WHERE id = ?`
	h, err := scanHall(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.TheatreHall{}, ErrHallNotFound
	}
	return h, err
}

// Create inserts a hall and returns the stored row, including the
// database-assigned timestamps.
func (r *HallRepo) Create(ctx context.Context, name string, seatRows, seatsPerRow uint32) (model.TheatreHall, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO theatre_halls (name, seat_rows, seats_per_row) VALUES (?,?,?)`,
		name, seatRows, seatsPerRow)
	if err != nil {
		return model.TheatreHall{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.TheatreHall{}, err
	}
	return r.GetByID(ctx, uint64(id))
}

// Update overwrites a hall's name and layout and returns the fresh
// row. ErrHallNotFound is returned when the hall does not exist.
func (r *HallRepo) Update(ctx context.Context, id uint64, name string, seatRows, seatsPerRow uint32) (model.TheatreHall, error) {
	if _, err := r.GetByID(ctx, id); err != nil {
		return model.TheatreHall{}, err
	}
	_, err := r.db.ExecContext(ctx,
		`UPDATE theatre_halls SET name = ?, seat_rows = ?, seats_per_row = ? WHERE id = ?`,
		name, seatRows, seatsPerRow, id)
	if err != nil {
		return model.TheatreHall{}, err
	}
	return r.GetByID(ctx, id)
}
