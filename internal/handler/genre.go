package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/laskarj/theatre-api/internal/repository"
)

// ListGenres handles GET /v1/genres. Genres are few and unordered
// input, so the whole set is returned without paging.
func (h *CatalogHandler) ListGenres(c echo.Context) error {
	genres, err := h.GenreRepo.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load genres"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": genres})
}

type createGenreReq struct {
	Name string `json:"name" validate:"required"`
}

// CreateGenre handles POST /v1/genres. Genre names are unique; a
// duplicate reports a validation error on the name field.
func (h *CatalogHandler) CreateGenre(c echo.Context) error {
	var req createGenreReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	genre, err := h.GenreRepo.Create(c.Request().Context(), req.Name)
	if err != nil {
		var ve *repository.ValidationError
		if errors.As(err, &ve) {
			return c.JSON(http.StatusBadRequest, validationResponse(ve))
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create genre"})
	}
	return c.JSON(http.StatusCreated, genre)
}
