package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/laskarj/theatre-api/internal/repository"
)

// ListArtists handles GET /v1/artists. Supports ?search= matching
// first or last name and standard pagination.
func (h *CatalogHandler) ListArtists(c echo.Context) error {
	p := getPageParams(c)
	limit, offset := p.limitOffset()
	artists, total, err := h.ArtistRepo.List(c.Request().Context(), c.QueryParam("search"), limit, offset)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load artists"})
	}
	return c.JSON(http.StatusOK, echo.Map{"count": total, "items": artists})
}

// GetArtist handles GET /v1/artists/:id and includes the plays the
// artist appears in.
func (h *CatalogHandler) GetArtist(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid artist id"})
	}
	det, err := h.ArtistRepo.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrArtistNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "artist not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load artist"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": det})
}

type createArtistReq struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
}

// CreateArtist handles POST /v1/artists.
func (h *CatalogHandler) CreateArtist(c echo.Context) error {
	var req createArtistReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "first_name and last_name are required"})
	}
	artist, err := h.ArtistRepo.Create(c.Request().Context(), req.FirstName, req.LastName)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create artist"})
	}
	return c.JSON(http.StatusCreated, artist)
}
