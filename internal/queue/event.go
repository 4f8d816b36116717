// Package queue defines message payloads exchanged over the message broker.
package queue

// TicketSeat identifies one booked seat inside an event payload. A single
// reservation may hold tickets for more than one performance, so each seat
// carries its own performance id.
type TicketSeat struct {
	PerformanceID uint64 `json:"performance_id"`
	Row           uint32 `json:"row"`
	Seat          uint32 `json:"seat"`
}

// ReservationCreatedEvent is published after a checkout transaction commits.
// It contains enough information for downstream consumers to log, notify, or
// trigger analytics without querying the primary database.
type ReservationCreatedEvent struct {
	ReservationID uint64       `json:"reservation_id"`
	UserID        uint64       `json:"user_id"`
	Tickets       []TicketSeat `json:"tickets"`
	CreatedAt     string       `json:"created_at"`
}
