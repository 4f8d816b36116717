package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/laskarj/theatre-api/internal/repository"
)

func newCatalogHandler(t *testing.T) (*CatalogHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	h := NewCatalogHandler(
		repository.NewGenreRepo(db),
		repository.NewArtistRepo(db),
		repository.NewPlayRepo(db),
		repository.NewHallRepo(db),
		repository.NewPerformanceRepo(db),
	)
	return h, mock
}

func newTestContext(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestListGenres(t *testing.T) {
	h, mock := newCatalogHandler(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, name FROM genres ORDER BY name`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).
			AddRow(2, "Comedy").
			AddRow(1, "Drama"))

	c, rec := newTestContext(t, http.MethodGet, "/v1/genres", "")
	require.NoError(t, h.ListGenres(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"items":[{"id":2,"name":"Comedy"},{"id":1,"name":"Drama"}]}`, rec.Body.String())
}

func TestCreateGenre(t *testing.T) {
	h, mock := newCatalogHandler(t)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO genres (name) VALUES (?)`)).
		WithArgs("Drama").
		WillReturnResult(sqlmock.NewResult(1, 1))

	c, rec := newTestContext(t, http.MethodPost, "/v1/genres", `{"name":"Drama"}`)
	require.NoError(t, h.CreateGenre(c))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"id":1,"name":"Drama"}`, rec.Body.String())
}

func TestCreateGenreDuplicate(t *testing.T) {
	h, mock := newCatalogHandler(t)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO genres (name) VALUES (?)`)).
		WithArgs("Drama").
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'Drama' for key 'genres.uq_genres_name'"})

	c, rec := newTestContext(t, http.MethodPost, "/v1/genres", `{"name":"Drama"}`)
	require.NoError(t, h.CreateGenre(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"errors":{"name":"genre with this name already exists"}}`, rec.Body.String())
}

func TestCreateGenreMissingName(t *testing.T) {
	h, _ := newCatalogHandler(t)

	c, rec := newTestContext(t, http.MethodPost, "/v1/genres", `{}`)
	require.NoError(t, h.CreateGenre(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"name is required"}`, rec.Body.String())
}

func TestCreateHall(t *testing.T) {
	h, mock := newCatalogHandler(t)

	now := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO theatre_halls (name, seat_rows, seats_per_row) VALUES (?,?,?)`)).
		WithArgs("Main Stage", int64(10), int64(20)).
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`FROM theatre_halls WHERE id = ?`)).
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "seat_rows", "seats_per_row", "created_at", "updated_at",
		}).AddRow(2, "Main Stage", 10, 20, now, now))

	c, rec := newTestContext(t, http.MethodPost, "/v1/halls", `{"name":"Main Stage","rows":10,"seats_per_row":20}`)
	require.NoError(t, h.CreateHall(c))

	assert.Equal(t, http.StatusCreated, rec.Code)
	var resp hallResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, uint64(2), resp.ID)
	assert.Equal(t, uint32(200), resp.Capacity)
}

func TestCreateHallRejectsZeroRows(t *testing.T) {
	h, _ := newCatalogHandler(t)

	c, rec := newTestContext(t, http.MethodPost, "/v1/halls", `{"name":"Tiny","rows":0,"seats_per_row":5}`)
	require.NoError(t, h.CreateHall(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"name, rows and seats_per_row are required"}`, rec.Body.String())
}

func TestGetHallNotFound(t *testing.T) {
	h, mock := newCatalogHandler(t)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM theatre_halls WHERE id = ?`)).
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "seat_rows", "seats_per_row", "created_at", "updated_at",
		}))

	c, rec := newTestContext(t, http.MethodGet, "/v1/halls/99", "")
	c.SetParamNames("id")
	c.SetParamValues("99")
	require.NoError(t, h.GetHall(c))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"theatre hall not found"}`, rec.Body.String())
}

func TestGetArtist(t *testing.T) {
	h, mock := newCatalogHandler(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, first_name, last_name FROM artists WHERE id = ?`)).
		WithArgs(int64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "first_name", "last_name"}).
			AddRow(4, "Maggie", "Smith"))
	mock.ExpectQuery(regexp.QuoteMeta(`FROM play_artists pa`)).
		WithArgs(int64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title"}).AddRow(3, "Hamlet"))

	c, rec := newTestContext(t, http.MethodGet, "/v1/artists/4", "")
	c.SetParamNames("id")
	c.SetParamValues("4")
	require.NoError(t, h.GetArtist(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"item":{"id":4,"first_name":"Maggie","last_name":"Smith","full_name":"Maggie Smith","plays":[{"id":3,"title":"Hamlet"}]}}`, rec.Body.String())
}

func TestListPlaysInvalidGenresFilter(t *testing.T) {
	h, _ := newCatalogHandler(t)

	c, rec := newTestContext(t, http.MethodGet, "/v1/plays?genres=1,abc", "")
	require.NoError(t, h.ListPlays(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"invalid genres filter"}`, rec.Body.String())
}

func TestListPerformancesInvalidDate(t *testing.T) {
	h, _ := newCatalogHandler(t)

	c, rec := newTestContext(t, http.MethodGet, "/v1/performances?date=01-05-2026", "")
	require.NoError(t, h.ListPerformances(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"invalid date filter, expected YYYY-MM-DD"}`, rec.Body.String())
}

func TestCreatePerformanceInvalidShowTime(t *testing.T) {
	h, _ := newCatalogHandler(t)

	body := `{"play_id":3,"theatre_hall_id":2,"show_time":"tomorrow evening"}`
	c, rec := newTestContext(t, http.MethodPost, "/v1/performances", body)
	require.NoError(t, h.CreatePerformance(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"invalid show_time format"}`, rec.Body.String())
}
