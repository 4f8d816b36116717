package model

import "time"

// Performance represents a scheduled staging of a play in a
// particular hall, as stored in the `performances` table. Tickets
// reference performances; the set of taken seats for a performance
// is derived from its tickets.
//
// Fields:
//  ID            – primary key identifier.
//  PlayID        – play being staged.
//  TheatreHallID – hall where the performance takes place.
//  ShowTime      – when the performance begins (UTC).
//  CreatedAt     – creation timestamp.
//  UpdatedAt     – last update timestamp.
type Performance struct {
	ID            uint64    // performances.id
	PlayID        uint64    // performances.play_id
	TheatreHallID uint64    // performances.theatre_hall_id
	ShowTime      time.Time // performances.show_time
	CreatedAt     time.Time // performances.created_at
	UpdatedAt     time.Time // performances.updated_at
}
