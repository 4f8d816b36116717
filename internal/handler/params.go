package handler

import (
	"errors"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/laskarj/theatre-api/internal/repository"
)

// Pagination bounds for collection endpoints.
const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// getUserID extracts the user_id from echo.Context and converts it to
// uint64. JWTAuth stores claims without asserting types, so several
// representations are accepted.
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// parseID parses a numeric path parameter. Zero is rejected along with
// non-numeric input.
func parseID(c echo.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}

// pageParams holds the 1-based page and page size for a listing request.
type pageParams struct {
	Page     int
	PageSize int
}

// getPageParams reads page/page_size query parameters, falling back to
// page 1 and the default size. Sizes are capped at maxPageSize; junk
// values fall back silently.
func getPageParams(c echo.Context) pageParams {
	page := 1
	if v := strings.TrimSpace(c.QueryParam("page")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			page = n
		}
	}
	size := defaultPageSize
	if v := strings.TrimSpace(c.QueryParam("page_size")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			size = n
		}
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	return pageParams{Page: page, PageSize: size}
}

func (p pageParams) limitOffset() (limit, offset int) {
	return p.PageSize, (p.Page - 1) * p.PageSize
}

// parseIDList parses a comma-separated list of IDs such as "1,2,3".
// Empty segments are skipped; a non-numeric or zero segment makes the
// whole list invalid.
func parseIDList(raw string) ([]uint64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]uint64, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseUint(part, 10, 64)
		if err != nil || id == 0 {
			return nil, errors.New("invalid id list")
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// validationResponse shapes a ValidationError the way all write
// endpoints report field errors: {"errors": {"<field>": "<message>"}}.
func validationResponse(ve *repository.ValidationError) echo.Map {
	return echo.Map{"errors": echo.Map{ve.Field: ve.Message}}
}

// uniqueIDs removes duplicate IDs preserving first-seen order.
func uniqueIDs(ids []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(ids))
	out := make([]uint64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
