package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/laskarj/theatre-api/internal/model"
)

// ErrReservationNotFound is returned when no reservation exists with the
// requested ID, or when it belongs to a different user. Callers scoped
// to a user cannot distinguish the two cases.
var ErrReservationNotFound = errors.New("reservation not found")

// ReservationRepo provides persistence for reservations and their
// tickets. A reservation groups the tickets created in one checkout;
// tickets are stored in the tickets table, one row per seat.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// DB exposes the underlying sql.DB. It allows callers to begin
// transactions spanning multiple repositories. Use this method to
// obtain a *sql.DB when you need fine-grained transaction control.
func (r *ReservationRepo) DB() *sql.DB {
	return r.db
}

// TicketRecord carries one requested seat through checkout. Row and
// Seat stay signed so out-of-range input reaches the validator intact.
type TicketRecord struct {
	ReservationID uint64
	PerformanceID uint64
	Row           int
	Seat          int
}

// CreateTx inserts a new reservation for the user within the scope of
// an existing transaction. The caller must commit or roll back. On
// success the stored row is returned with its generated ID and
// creation timestamp.
func (r *ReservationRepo) CreateTx(ctx context.Context, tx *sql.Tx, userID uint64) (*model.Reservation, error) {
	result, err := tx.ExecContext(ctx, `INSERT INTO reservations (user_id) VALUES (?)`, userID)
	if err != nil {
		return nil, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}
	// Query back the full row to populate the DB-assigned timestamp.
	const sel = `SELECT id, user_id, created_at FROM reservations WHERE id = ?`
	var res model.Reservation
	if err := tx.QueryRowContext(ctx, sel, uint64(id)).Scan(&res.ID, &res.UserID, &res.CreatedAt); err != nil {
		return nil, err
	}
	return &res, nil
}

// CreateTicketsBulkTx inserts multiple tickets in a single statement
// within the provided transaction. When any requested seat collides
// with an existing ticket, the unique key on (performance_id, row_no,
// seat_no) rejects the whole insert and the violation is mapped to a
// ValidationError on the seat field. This is the path a losing racer
// takes when two checkouts request the same seat at once. Passing an
// empty slice has no effect and returns nil.
func (r *ReservationRepo) CreateTicketsBulkTx(ctx context.Context, tx *sql.Tx, tickets []TicketRecord) error {
	if len(tickets) == 0 {
		return nil
	}
	query := `INSERT INTO tickets (reservation_id, performance_id, row_no, seat_no) VALUES `
	args := make([]interface{}, 0, len(tickets)*4)
	for i, t := range tickets {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?)"
		args = append(args, t.ReservationID, t.PerformanceID, t.Row, t.Seat)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		if isDuplicateEntry(err) {
			return NewValidationError("seat", "seat already taken")
		}
		return err
	}
	return nil
}

// TicketDetail is a booked seat joined with its performance context,
// nested inside reservation responses.
type TicketDetail struct {
	ID              uint64    `json:"id"`
	Row             uint32    `json:"row"`
	Seat            uint32    `json:"seat"`
	PerformanceID   uint64    `json:"performance_id"`
	PlayTitle       string    `json:"play_title"`
	TheatreHallName string    `json:"theatre_hall_name"`
	ShowTime        time.Time `json:"show_time"`
}

// ReservationDetail is a reservation with its tickets expanded, as
// returned to customers.
type ReservationDetail struct {
	ID        uint64         `json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	Tickets   []TicketDetail `json:"tickets"`
}

// ListByUser returns a page of the user's reservations with their
// tickets, newest first, together with the total count before paging.
// Tickets within a reservation are ordered by row then seat.
func (r *ReservationRepo) ListByUser(ctx context.Context, userID uint64, limit, offset int) ([]ReservationDetail, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM reservations WHERE user_id = ?`, userID).Scan(&total); err != nil {
		return nil, 0, err
	}
	const q = `SELECT id, created_at FROM reservations WHERE user_id = ? ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`
	rows, err := r.db.QueryContext(ctx, q, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	details := make([]ReservationDetail, 0)
	// Track index by reservation ID so ticket rows can be attached in
	// the second pass.
	index := make(map[uint64]int)
	for rows.Next() {
		var d ReservationDetail
		if err := rows.Scan(&d.ID, &d.CreatedAt); err != nil {
			return nil, 0, err
		}
		d.Tickets = []TicketDetail{}
		index[d.ID] = len(details)
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	if len(details) == 0 {
		return details, total, nil
	}
	// Fetch tickets for the whole page in one query.
	ids := make([]uint64, 0, len(details))
	for _, d := range details {
		ids = append(ids, d.ID)
	}
	ticketQ := `SELECT t.reservation_id, t.id, t.row_no, t.seat_no, t.performance_id,
	                   pl.title, h.name, p.show_time
	            FROM tickets t
	            JOIN performances p ON p.id = t.performance_id
	            JOIN plays pl ON pl.id = p.play_id
	            JOIN theatre_halls h ON h.id = p.theatre_hall_id
	            WHERE t.reservation_id IN (` + placeholders(len(ids)) + `)
	            ORDER BY t.reservation_id, t.row_no, t.seat_no, t.id`
	trows, err := r.db.QueryContext(ctx, ticketQ, idArgs(ids)...)
	if err != nil {
		return nil, 0, err
	}
	defer trows.Close()
	for trows.Next() {
		var resID uint64
		var td TicketDetail
		if err := trows.Scan(
			&resID, &td.ID, &td.Row, &td.Seat, &td.PerformanceID,
			&td.PlayTitle, &td.TheatreHallName, &td.ShowTime,
		); err != nil {
			return nil, 0, err
		}
		idx, ok := index[resID]
		if !ok {
			continue
		}
		details[idx].Tickets = append(details[idx].Tickets, td)
	}
	if err := trows.Err(); err != nil {
		return nil, 0, err
	}
	return details, total, nil
}

// GetByIDForUser returns a single reservation with its tickets,
// restricted to the given user. A reservation owned by someone else is
// reported the same way as a missing one: ErrReservationNotFound.
func (r *ReservationRepo) GetByIDForUser(ctx context.Context, reservationID, userID uint64) (*ReservationDetail, error) {
	const q = `SELECT id, created_at FROM reservations WHERE id = ? AND user_id = ?`
	var det ReservationDetail
	err := r.db.QueryRowContext(ctx, q, reservationID, userID).Scan(&det.ID, &det.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	det.Tickets = []TicketDetail{}
	const ticketQ = `SELECT t.id, t.row_no, t.seat_no, t.performance_id,
	                        pl.title, h.name, p.show_time
	                 FROM tickets t
	                 JOIN performances p ON p.id = t.performance_id
	                 JOIN plays pl ON pl.id = p.play_id
	                 JOIN theatre_halls h ON h.id = p.theatre_hall_id
	                 WHERE t.reservation_id = ?
	                 ORDER BY t.row_no, t.seat_no, t.id`
	trows, err := r.db.QueryContext(ctx, ticketQ, det.ID)
	if err != nil {
		return nil, err
	}
	defer trows.Close()
	for trows.Next() {
		var td TicketDetail
		if err := trows.Scan(
			&td.ID, &td.Row, &td.Seat, &td.PerformanceID,
			&td.PlayTitle, &td.TheatreHallName, &td.ShowTime,
		); err != nil {
			return nil, err
		}
		det.Tickets = append(det.Tickets, td)
	}
	if err := trows.Err(); err != nil {
		return nil, err
	}
	return &det, nil
}

// Delete removes a reservation and, via the foreign key cascade, its
// tickets. The freed seats become bookable again. Returns
// ErrReservationNotFound when the ID does not exist.
func (r *ReservationRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM reservations WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrReservationNotFound
	}
	return nil
}
