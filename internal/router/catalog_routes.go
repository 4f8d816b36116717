package router

import (
	"github.com/labstack/echo/v4"

	"github.com/laskarj/theatre-api/internal/handler"
	"github.com/laskarj/theatre-api/internal/middleware"
)

// RegisterCatalog registers the catalogue endpoints under /v1. Reads are
// public so visitors can browse the repertoire without an account; every
// write requires a valid JWT with the ADMIN role.
func RegisterCatalog(e *echo.Echo, h *handler.CatalogHandler, jwtSecret string) {
	pub := e.Group("/v1")

	// ---- Genres ----
	pub.GET("/genres", h.ListGenres)

	// ---- Artists ----
	pub.GET("/artists", h.ListArtists)
	pub.GET("/artists/:id", h.GetArtist)

	// ---- Halls ----
	pub.GET("/halls", h.ListHalls)
	pub.GET("/halls/:id", h.GetHall)

	// ---- Plays ----
	pub.GET("/plays", h.ListPlays)
	pub.GET("/plays/:id", h.GetPlay)

	// ---- Performances ----
	pub.GET("/performances", h.ListPerformances)
	pub.GET("/performances/:id", h.GetPerformance)

	adm := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(middleware.RoleAdmin),
	)
	adm.POST("/genres", h.CreateGenre)
	adm.POST("/artists", h.CreateArtist)
	adm.POST("/halls", h.CreateHall)
	adm.PUT("/halls/:id", h.UpdateHall)
	adm.POST("/plays", h.CreatePlay)
	adm.POST("/performances", h.CreatePerformance)
	adm.PUT("/performances/:id", h.UpdatePerformance)
	adm.DELETE("/performances/:id", h.DeletePerformance)
}
