package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/laskarj/theatre-api/internal/model"
	"github.com/laskarj/theatre-api/internal/repository"
)

// ListPlays handles GET /v1/plays. Supports ?title= substring matching
// and ?genres= / ?artists= comma-separated ID filters alongside
// standard pagination.
func (h *CatalogHandler) ListPlays(c echo.Context) error {
	genreIDs, err := parseIDList(c.QueryParam("genres"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid genres filter"})
	}
	artistIDs, err := parseIDList(c.QueryParam("artists"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid artists filter"})
	}
	filter := repository.PlayFilter{
		Title:     c.QueryParam("title"),
		GenreIDs:  genreIDs,
		ArtistIDs: artistIDs,
	}
	p := getPageParams(c)
	limit, offset := p.limitOffset()
	plays, total, err := h.PlayRepo.List(c.Request().Context(), filter, limit, offset)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load plays"})
	}
	return c.JSON(http.StatusOK, echo.Map{"count": total, "items": plays})
}

// GetPlay handles GET /v1/plays/:id.
func (h *CatalogHandler) GetPlay(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid play id"})
	}
	det, err := h.PlayRepo.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrPlayNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "play not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load play"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": det})
}

type createPlayReq struct {
	Title       string   `json:"title" validate:"required"`
	Description string   `json:"description" validate:"required"`
	DurationMin uint32   `json:"duration_min" validate:"required,min=1"`
	GenreIDs    []uint64 `json:"genre_ids"`
	ArtistIDs   []uint64 `json:"artist_ids"`
}

// CreatePlay handles POST /v1/plays. The play and its genre and artist
// links are inserted in one transaction; referenced IDs are verified
// first so a dangling ID reports which list was wrong.
func (h *CatalogHandler) CreatePlay(c echo.Context) error {
	var req createPlayReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title, description and duration_min are required"})
	}
	ctx := c.Request().Context()
	genreIDs := uniqueIDs(req.GenreIDs)
	artistIDs := uniqueIDs(req.ArtistIDs)
	if len(genreIDs) > 0 {
		n, err := h.GenreRepo.CountByIDs(ctx, genreIDs)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to verify genres"})
		}
		if n != len(genreIDs) {
			return c.JSON(http.StatusBadRequest, validationResponse(
				repository.NewValidationError("genre_ids", "genre not found")))
		}
	}
	if len(artistIDs) > 0 {
		n, err := h.ArtistRepo.CountByIDs(ctx, artistIDs)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to verify artists"})
		}
		if n != len(artistIDs) {
			return c.JSON(http.StatusBadRequest, validationResponse(
				repository.NewValidationError("artist_ids", "artist not found")))
		}
	}
	tx, err := h.PlayRepo.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	play := &model.Play{
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		DurationMin: req.DurationMin,
	}
	if err := h.PlayRepo.CreateTx(ctx, tx, play, genreIDs, artistIDs); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create play"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true
	det, err := h.PlayRepo.GetByID(ctx, play.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load play"})
	}
	return c.JSON(http.StatusCreated, det)
}
