package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/laskarj/theatre-api/internal/model"
)

// ErrPerformanceNotFound indicates that a performance was not located in the DB.
var ErrPerformanceNotFound = errors.New("performance not found")

// PerformanceRepo manages persistence for scheduled performances.
type PerformanceRepo struct {
	db *sql.DB
}

func NewPerformanceRepo(db *sql.DB) *PerformanceRepo { return &PerformanceRepo{db: db} }

// PerformanceFilter narrows performance listings. A zero PlayID and an
// empty Date mean "no filter". Date must be formatted as YYYY-MM-DD and
// matches the calendar date of show_time.
type PerformanceFilter struct {
	PlayID uint64
	Date   string
}

// PerformanceListItem is a performance row shaped for list responses.
// TicketsAvailable is the hall capacity minus tickets already sold.
type PerformanceListItem struct {
	ID                  uint64    `json:"id"`
	ShowTime            time.Time `json:"show_time"`
	PlayID              uint64    `json:"play_id"`
	PlayTitle           string    `json:"play_title"`
	TheatreHallID       uint64    `json:"theatre_hall_id"`
	TheatreHallName     string    `json:"theatre_hall_name"`
	TheatreHallCapacity uint32    `json:"theatre_hall_capacity"`
	TicketsAvailable    int64     `json:"tickets_available"`
}

// PerformancePlay carries the play fields nested in a performance detail.
type PerformancePlay struct {
	ID          uint64 `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	DurationMin uint32 `json:"duration_min"`
}

// PerformanceHall carries the hall fields nested in a performance detail.
type PerformanceHall struct {
	ID          uint64 `json:"id"`
	Name        string `json:"name"`
	Rows        uint32 `json:"rows"`
	SeatsPerRow uint32 `json:"seats_per_row"`
	Capacity    uint32 `json:"capacity"`
}

// SeatPlace identifies a single seat within a hall.
type SeatPlace struct {
	Row  uint32 `json:"row"`
	Seat uint32 `json:"seat"`
}

// PerformanceDetail is a performance with its play, hall and the seats
// already ticketed.
type PerformanceDetail struct {
	ID          uint64          `json:"id"`
	ShowTime    time.Time       `json:"show_time"`
	Play        PerformancePlay `json:"play"`
	TheatreHall PerformanceHall `json:"theatre_hall"`
	TakenPlaces []SeatPlace     `json:"taken_places"`
}

// List returns a page of performances matching the filter together with
// the total count before paging, newest show time first. Availability
// is computed per row as capacity minus sold tickets.
func (r *PerformanceRepo) List(ctx context.Context, f PerformanceFilter, limit, offset int) ([]PerformanceListItem, int, error) {
	conds := []string{}
	args := []interface{}{}
	if f.PlayID != 0 {
		conds = append(conds, "p.play_id = ?")
		args = append(args, f.PlayID)
	}
	if f.Date != "" {
		conds = append(conds, "DATE(p.show_time) = ?")
		args = append(args, f.Date)
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM performances p`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	query := `SELECT p.id, p.show_time, pl.id, pl.title, h.id, h.name,
	                 h.seat_rows * h.seats_per_row,
	                 h.seat_rows * h.seats_per_row - (SELECT COUNT(*) FROM tickets t WHERE t.performance_id = p.id)
	          FROM performances p
	          JOIN plays pl ON pl.id = p.play_id
	          JOIN theatre_halls h ON h.id = p.theatre_hall_id` + where +
		` ORDER BY p.show_time DESC, p.id DESC LIMIT ? OFFSET ?`
	rows, err := r.db.QueryContext(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	items := make([]PerformanceListItem, 0)
	for rows.Next() {
		var it PerformanceListItem
		if err := rows.Scan(
			&it.ID, &it.ShowTime, &it.PlayID, &it.PlayTitle,
			&it.TheatreHallID, &it.TheatreHallName,
			&it.TheatreHallCapacity, &it.TicketsAvailable,
		); err != nil {
			return nil, 0, err
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// GetByID returns one performance with its play, hall and taken seats.
// Taken seats are ordered by row then seat for deterministic output.
// Returns ErrPerformanceNotFound when the ID does not exist.
func (r *PerformanceRepo) GetByID(ctx context.Context, id uint64) (*PerformanceDetail, error) {
	const q = `SELECT p.id, p.show_time,
	                  pl.id, pl.title, pl.description, pl.duration_min,
	                  h.id, h.name, h.seat_rows, h.seats_per_row
	           FROM performances p
	           JOIN plays pl ON pl.id = p.play_id
	           JOIN theatre_halls h ON h.id = p.theatre_hall_id
	           WHERE p.id = ?`
	var det PerformanceDetail
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&det.ID, &det.ShowTime,
		&det.Play.ID, &det.Play.Title, &det.Play.Description, &det.Play.DurationMin,
		&det.TheatreHall.ID, &det.TheatreHall.Name, &det.TheatreHall.Rows, &det.TheatreHall.SeatsPerRow,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPerformanceNotFound
		}
		return nil, err
	}
	det.TheatreHall.Capacity = det.TheatreHall.Rows * det.TheatreHall.SeatsPerRow
	det.TakenPlaces = []SeatPlace{}
	const seatQ = `SELECT row_no, seat_no FROM tickets WHERE performance_id = ? ORDER BY row_no, seat_no`
	rows, err := r.db.QueryContext(ctx, seatQ, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var sp SeatPlace
		if err := rows.Scan(&sp.Row, &sp.Seat); err != nil {
			return nil, err
		}
		det.TakenPlaces = append(det.TakenPlaces, sp)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &det, nil
}

// GetSeatingTx returns the hall dimensions for a performance within the
// provided transaction. Booking validation reads dimensions through the
// same transaction that inserts tickets. Returns ErrPerformanceNotFound
// when the performance does not exist.
func (r *PerformanceRepo) GetSeatingTx(ctx context.Context, tx *sql.Tx, performanceID uint64) (rows, seatsPerRow int, err error) {
	const q = `SELECT h.seat_rows, h.seats_per_row
	           FROM performances p
	           JOIN theatre_halls h ON h.id = p.theatre_hall_id
	           WHERE p.id = ?`
	err = tx.QueryRowContext(ctx, q, performanceID).Scan(&rows, &seatsPerRow)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, 0, ErrPerformanceNotFound
		}
		return 0, 0, err
	}
	return rows, seatsPerRow, nil
}

// Create inserts a new performance after verifying the referenced play
// and hall exist. Reference failures surface as ValidationError so
// handlers can report them per field. On success the generated ID and
// timestamps are populated on the given performance.
func (r *PerformanceRepo) Create(ctx context.Context, p *model.Performance) error {
	if err := r.checkRefs(ctx, p.PlayID, p.TheatreHallID); err != nil {
		return err
	}
	const q = `INSERT INTO performances (play_id, theatre_hall_id, show_time) VALUES (?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, p.PlayID, p.TheatreHallID, p.ShowTime.UTC())
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	return r.readBack(ctx, p)
}

// Update replaces a performance's play, hall and show time. Returns
// ErrPerformanceNotFound when the ID does not exist and ValidationError
// when the new play or hall reference is invalid.
func (r *PerformanceRepo) Update(ctx context.Context, p *model.Performance) error {
	var one int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM performances WHERE id = ?`, p.ID).Scan(&one)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrPerformanceNotFound
		}
		return err
	}
	if err := r.checkRefs(ctx, p.PlayID, p.TheatreHallID); err != nil {
		return err
	}
	const q = `UPDATE performances SET play_id = ?, theatre_hall_id = ?, show_time = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
	if _, err := r.db.ExecContext(ctx, q, p.PlayID, p.TheatreHallID, p.ShowTime.UTC(), p.ID); err != nil {
		return err
	}
	return r.readBack(ctx, p)
}

// Delete removes a performance. Tickets sold for it are removed by the
// foreign key cascade. Returns ErrPerformanceNotFound when the ID does
// not exist.
func (r *PerformanceRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM performances WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrPerformanceNotFound
	}
	return nil
}

func (r *PerformanceRepo) checkRefs(ctx context.Context, playID, hallID uint64) error {
	var one int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM plays WHERE id = ?`, playID).Scan(&one)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return NewValidationError("play_id", "play not found")
		}
		return err
	}
	err = r.db.QueryRowContext(ctx, `SELECT 1 FROM theatre_halls WHERE id = ?`, hallID).Scan(&one)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return NewValidationError("theatre_hall_id", "theatre hall not found")
		}
		return err
	}
	return nil
}

func (r *PerformanceRepo) readBack(ctx context.Context, p *model.Performance) error {
	const sel = `SELECT id, play_id, theatre_hall_id, show_time, created_at, updated_at FROM performances WHERE id = ?`
	return r.db.QueryRowContext(ctx, sel, p.ID).Scan(
		&p.ID, &p.PlayID, &p.TheatreHallID, &p.ShowTime, &p.CreatedAt, &p.UpdatedAt,
	)
}
