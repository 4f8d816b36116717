package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/laskarj/theatre-api/internal/model"
	"github.com/laskarj/theatre-api/internal/repository"
)

// ListPerformances handles GET /v1/performances. Supports ?play=<id>
// and ?date=YYYY-MM-DD filters alongside standard pagination. Each row
// carries the hall capacity and remaining availability.
func (h *CatalogHandler) ListPerformances(c echo.Context) error {
	var filter repository.PerformanceFilter
	if raw := strings.TrimSpace(c.QueryParam("play")); raw != "" {
		playID, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || playID == 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid play filter"})
		}
		filter.PlayID = playID
	}
	if raw := strings.TrimSpace(c.QueryParam("date")); raw != "" {
		if _, err := time.Parse("2006-01-02", raw); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date filter, expected YYYY-MM-DD"})
		}
		filter.Date = raw
	}
	p := getPageParams(c)
	limit, offset := p.limitOffset()
	items, total, err := h.PerformanceRepo.List(c.Request().Context(), filter, limit, offset)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load performances"})
	}
	return c.JSON(http.StatusOK, echo.Map{"count": total, "items": items})
}

// GetPerformance handles GET /v1/performances/:id. The detail includes
// the seats already ticketed so clients can render availability.
func (h *CatalogHandler) GetPerformance(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid performance id"})
	}
	det, err := h.PerformanceRepo.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrPerformanceNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "performance not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load performance"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": det})
}

type performanceReq struct {
	PlayID        uint64 `json:"play_id" validate:"required"`
	TheatreHallID uint64 `json:"theatre_hall_id" validate:"required"`
	ShowTime      string `json:"show_time" validate:"required"`
}

func (r *performanceReq) showTime() (time.Time, error) {
	return time.Parse(time.RFC3339, strings.TrimSpace(r.ShowTime))
}

// CreatePerformance handles POST /v1/performances.
func (h *CatalogHandler) CreatePerformance(c echo.Context) error {
	var req performanceReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "play_id, theatre_hall_id and show_time are required"})
	}
	showTime, err := req.showTime()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid show_time format"})
	}
	perf := &model.Performance{
		PlayID:        req.PlayID,
		TheatreHallID: req.TheatreHallID,
		ShowTime:      showTime,
	}
	if err := h.PerformanceRepo.Create(c.Request().Context(), perf); err != nil {
		var ve *repository.ValidationError
		if errors.As(err, &ve) {
			return c.JSON(http.StatusBadRequest, validationResponse(ve))
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create performance"})
	}
	det, err := h.PerformanceRepo.GetByID(c.Request().Context(), perf.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load performance"})
	}
	return c.JSON(http.StatusCreated, det)
}

// UpdatePerformance handles PUT /v1/performances/:id.
func (h *CatalogHandler) UpdatePerformance(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid performance id"})
	}
	var req performanceReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "play_id, theatre_hall_id and show_time are required"})
	}
	showTime, err := req.showTime()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid show_time format"})
	}
	perf := &model.Performance{
		ID:            id,
		PlayID:        req.PlayID,
		TheatreHallID: req.TheatreHallID,
		ShowTime:      showTime,
	}
	if err := h.PerformanceRepo.Update(c.Request().Context(), perf); err != nil {
		if errors.Is(err, repository.ErrPerformanceNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "performance not found"})
		}
		var ve *repository.ValidationError
		if errors.As(err, &ve) {
			return c.JSON(http.StatusBadRequest, validationResponse(ve))
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not update performance"})
	}
	det, err := h.PerformanceRepo.GetByID(c.Request().Context(), perf.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load performance"})
	}
	return c.JSON(http.StatusOK, det)
}

// DeletePerformance handles DELETE /v1/performances/:id. Tickets sold
// for the performance are removed by the foreign key cascade.
func (h *CatalogHandler) DeletePerformance(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid performance id"})
	}
	if err := h.PerformanceRepo.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrPerformanceNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "performance not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not delete performance"})
	}
	return c.NoContent(http.StatusNoContent)
}
