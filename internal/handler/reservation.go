package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/laskarj/theatre-api/internal/model"
	"github.com/laskarj/theatre-api/internal/queue"
	"github.com/laskarj/theatre-api/internal/repository"
	"github.com/laskarj/theatre-api/internal/service"
)

// ReservationHandler serves the booking surface: checkout, listing a
// user's own reservations and administrative deletion.
type ReservationHandler struct {
	Reservations *repository.ReservationRepo
	Performances *repository.PerformanceRepo
}

// NewReservationHandler wires the handler with its repositories.
func NewReservationHandler(reservations *repository.ReservationRepo, performances *repository.PerformanceRepo) *ReservationHandler {
	if reservations == nil || performances == nil {
		panic("handler: NewReservationHandler requires non-nil repositories")
	}
	return &ReservationHandler{Reservations: reservations, Performances: performances}
}

type checkoutTicket struct {
	PerformanceID uint64 `json:"performance_id"`
	// Row and Seat bind as signed ints so zero and negative input reach
	// the seat validator instead of failing JSON unmarshalling.
	Row  int `json:"row"`
	Seat int `json:"seat"`
}

type checkoutReq struct {
	Tickets []checkoutTicket `json:"tickets" validate:"required,min=1"`
}

// CreateReservation books one or more seats in a single transaction.
// Every ticket is checked against its performance's hall layout before
// any row is written; the unique key on tickets settles races between
// concurrent checkouts of the same seat.
func (h *ReservationHandler) CreateReservation(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req checkoutReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "at least one ticket is required"})
	}

	ctx := c.Request().Context()
	tx, err := h.Reservations.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	// Load each referenced hall layout once and validate seats as we go.
	type seating struct{ rows, seatsPerRow int }
	layouts := make(map[uint64]seating, len(req.Tickets))
	records := make([]repository.TicketRecord, 0, len(req.Tickets))
	for _, t := range req.Tickets {
		lay, ok := layouts[t.PerformanceID]
		if !ok {
			rows, seatsPerRow, err := h.Performances.GetSeatingTx(ctx, tx, t.PerformanceID)
			if err != nil {
				if errors.Is(err, repository.ErrPerformanceNotFound) {
					return c.JSON(http.StatusBadRequest, echo.Map{"error": "performance not found"})
				}
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load performance"})
			}
			lay = seating{rows: rows, seatsPerRow: seatsPerRow}
			layouts[t.PerformanceID] = lay
		}
		if err := repository.ValidateSeat(t.Row, t.Seat, lay.rows, lay.seatsPerRow); err != nil {
			return c.JSON(http.StatusBadRequest, seatErrorResponse(err))
		}
		records = append(records, repository.TicketRecord{
			PerformanceID: t.PerformanceID,
			Row:           t.Row,
			Seat:          t.Seat,
		})
	}
	if err := repository.CheckDuplicateSeats(records); err != nil {
		return c.JSON(http.StatusBadRequest, seatErrorResponse(err))
	}

	res, err := h.Reservations.CreateTx(ctx, tx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create reservation"})
	}
	for i := range records {
		records[i].ReservationID = res.ID
	}
	if err := h.Reservations.CreateTicketsBulkTx(ctx, tx, records); err != nil {
		var ve *repository.ValidationError
		if errors.As(err, &ve) {
			// A concurrent checkout won the unique key on tickets.
			return c.JSON(http.StatusBadRequest, validationResponse(ve))
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create tickets"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true

	det, err := h.Reservations.GetByIDForUser(ctx, res.ID, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load reservation"})
	}

	go publishReservationCreated(res, records)

	return c.JSON(http.StatusCreated, det)
}

// seatErrorResponse renders a seat validation failure as the standard
// field-to-message errors map.
func seatErrorResponse(err error) echo.Map {
	var ve *repository.ValidationError
	if errors.As(err, &ve) {
		return validationResponse(ve)
	}
	return echo.Map{"error": err.Error()}
}

// publishReservationCreated emits the post-commit event. Publishing is
// best effort: failures are logged inside the publisher and never
// surface to the client.
func publishReservationCreated(res *model.Reservation, records []repository.TicketRecord) {
	ev := queue.ReservationCreatedEvent{
		ReservationID: res.ID,
		UserID:        res.UserID,
		Tickets:       make([]queue.TicketSeat, 0, len(records)),
		CreatedAt:     res.CreatedAt.UTC().Format(time.RFC3339),
	}
	for _, t := range records {
		ev.Tickets = append(ev.Tickets, queue.TicketSeat{
			PerformanceID: t.PerformanceID,
			Row:           uint32(t.Row),
			Seat:          uint32(t.Seat),
		})
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = service.PublishReservationCreated(ctx, ev)
}

// ListReservations returns the authenticated user's reservations,
// newest first.
func (h *ReservationHandler) ListReservations(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	pp := getPageParams(c)
	limit, offset := pp.limitOffset()

	items, total, err := h.Reservations.ListByUser(c.Request().Context(), userID, limit, offset)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load reservations"})
	}
	return c.JSON(http.StatusOK, echo.Map{"count": total, "items": items})
}

// GetReservation returns one of the authenticated user's reservations.
// Another user's reservation is indistinguishable from a missing one.
func (h *ReservationHandler) GetReservation(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}

	det, err := h.Reservations.GetByIDForUser(c.Request().Context(), id, userID)
	if err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load reservation"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": det})
}

// DeleteReservation removes a reservation and, via the FK cascade, its
// tickets. Routed admin-only.
func (h *ReservationHandler) DeleteReservation(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}

	if err := h.Reservations.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete reservation"})
	}
	return c.NoContent(http.StatusNoContent)
}
