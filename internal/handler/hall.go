package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/laskarj/theatre-api/internal/model"
	"github.com/laskarj/theatre-api/internal/repository"
)

type hallResp struct {
	ID          uint64    `json:"id"`
	Name        string    `json:"name"`
	Rows        uint32    `json:"rows"`
	SeatsPerRow uint32    `json:"seats_per_row"`
	Capacity    uint32    `json:"capacity"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func newHallResp(h model.TheatreHall) hallResp {
	return hallResp{
		ID:          h.ID,
		Name:        h.Name,
		Rows:        h.Rows,
		SeatsPerRow: h.SeatsPerRow,
		Capacity:    h.Capacity(),
		CreatedAt:   h.CreatedAt,
		UpdatedAt:   h.UpdatedAt,
	}
}

// ListHalls handles GET /v1/halls.
func (h *CatalogHandler) ListHalls(c echo.Context) error {
	halls, err := h.HallRepo.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load halls"})
	}
	items := make([]hallResp, 0, len(halls))
	for _, hall := range halls {
		items = append(items, newHallResp(hall))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetHall handles GET /v1/halls/:id.
func (h *CatalogHandler) GetHall(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hall id"})
	}
	hall, err := h.HallRepo.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrHallNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "theatre hall not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load hall"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": newHallResp(hall)})
}

type hallReq struct {
	Name        string `json:"name" validate:"required"`
	Rows        uint32 `json:"rows" validate:"required,min=1"`
	SeatsPerRow uint32 `json:"seats_per_row" validate:"required,min=1"`
}

// CreateHall handles POST /v1/halls. The hall grid is fixed at
// creation; seats are addressed by (row, seat) coordinates rather than
// stored individually.
func (h *CatalogHandler) CreateHall(c echo.Context) error {
	var req hallReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name, rows and seats_per_row are required"})
	}
	hall, err := h.HallRepo.Create(c.Request().Context(), strings.TrimSpace(req.Name), req.Rows, req.SeatsPerRow)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create hall"})
	}
	return c.JSON(http.StatusCreated, newHallResp(hall))
}

// UpdateHall handles PUT /v1/halls/:id. Shrinking a hall does not touch
// existing tickets; coordinates sold under the old grid stay valid.
func (h *CatalogHandler) UpdateHall(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hall id"})
	}
	var req hallReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name, rows and seats_per_row are required"})
	}
	hall, err := h.HallRepo.Update(c.Request().Context(), id, strings.TrimSpace(req.Name), req.Rows, req.SeatsPerRow)
	if err != nil {
		if errors.Is(err, repository.ErrHallNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "theatre hall not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not update hall"})
	}
	return c.JSON(http.StatusOK, newHallResp(hall))
}
