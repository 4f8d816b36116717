package router

import (
	"github.com/labstack/echo/v4"

	"github.com/laskarj/theatre-api/internal/handler"
	"github.com/laskarj/theatre-api/internal/middleware"
)

// RegisterReservations registers the booking endpoints under /v1. Any
// authenticated user can check out and see their own reservations;
// deletion is an administrative override and requires the ADMIN role.
func RegisterReservations(e *echo.Echo, h *handler.ReservationHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(middleware.RoleAdmin, middleware.RoleCustomer),
	)
	g.POST("/reservations", h.CreateReservation)
	g.GET("/reservations", h.ListReservations)
	g.GET("/reservations/:id", h.GetReservation)

	adm := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(middleware.RoleAdmin),
	)
	adm.DELETE("/reservations/:id", h.DeleteReservation)
}
