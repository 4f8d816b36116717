package model

import "time"

// TheatreHall represents a performance venue as stored in the
// `theatre_halls` table. The seating layout is a rectangular grid:
// Rows numbered from 1 and SeatsPerRow seats in each row, also
// numbered from 1. There is no per-seat table; a seat exists by
// virtue of falling inside the grid.
//
// Fields:
//  ID          – primary key identifier.
//  Name        – hall name.
//  Rows        – number of seating rows (>= 1).
//  SeatsPerRow – number of seats in each row (>= 1).
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type TheatreHall struct {
	ID          uint64    // theatre_halls.id
	Name        string    // theatre_halls.name
	Rows        uint32    // theatre_halls.seat_rows
	SeatsPerRow uint32    // theatre_halls.seats_per_row
	CreatedAt   time.Time // theatre_halls.created_at
	UpdatedAt   time.Time // theatre_halls.updated_at
}

// Capacity returns the total number of seats in the hall.
func (h *TheatreHall) Capacity() uint32 {
	return h.Rows * h.SeatsPerRow
}
