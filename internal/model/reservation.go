package model

import "time"

// Reservation records a user's checkout as stored in the
// `reservations` table. It groups one or more tickets created in a
// single transaction. Reservations are never mutated after
// creation; they can only be deleted, which cascades to their
// tickets.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – user who made the reservation.
//  CreatedAt – creation timestamp.
type Reservation struct {
	ID        uint64    // reservations.id
	UserID    uint64    // reservations.user_id
	CreatedAt time.Time // reservations.created_at
}

// Ticket is a row in the `tickets` table: one booked seat within a
// performance. The schema declares UNIQUE (performance_id, row_no,
// seat_no), which is what makes a seat bookable at most once per
// performance.
//
// Fields:
//  ID            – primary key identifier.
//  Row           – row number, 1-based, within the hall grid.
//  Seat          – seat number within the row, 1-based.
//  PerformanceID – performance the seat is booked for.
//  ReservationID – reservation the ticket belongs to.
type Ticket struct {
	ID            uint64 // tickets.id
	Row           uint32 // tickets.row_no
	Seat          uint32 // tickets.seat_no
	PerformanceID uint64 // tickets.performance_id
	ReservationID uint64 // tickets.reservation_id
}
