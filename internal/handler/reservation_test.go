package handler

import (
	"database/sql"
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

func newReservationHandler(t *testing.T) (*ReservationHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewReservationHandler(repository.NewReservationRepo(db), repository.NewPerformanceRepo(db)), mock
}

func newAuthedContext(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
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
	c := e.NewContext(req, rec)
	c.Set("user_id", uint64(42))
	return c, rec
}

func TestCreateReservation(t *testing.T) {
	h, mock := newReservationHandler(t)

	created := time.Date(2026, 4, 2, 11, 0, 0, 0, time.UTC)
	showTime := time.Date(2026, 5, 1, 19, 30, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT h.seat_rows, h.seats_per_row`)).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"seat_rows", "seats_per_row"}).AddRow(10, 20))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO reservations (user_id) VALUES (?)`)).
		WithArgs(42).
		WillReturnResult(sqlmock.NewResult(9, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, user_id, created_at FROM reservations WHERE id = ?`)).
		WithArgs(9).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "created_at"}).AddRow(9, 42, created))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO tickets (reservation_id, performance_id, row_no, seat_no) VALUES (?, ?, ?, ?),(?, ?, ?, ?)`)).
		WithArgs(9, 5, 1, 1, 9, 5, 1, 2).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, created_at FROM reservations WHERE id = ? AND user_id = ?`)).
		WithArgs(9, 42).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(9, created))
	mock.ExpectQuery(`FROM tickets t`).
		WithArgs(int64(9)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "row_no", "seat_no", "performance_id", "title", "name", "show_time",
		}).
			AddRow(31, 1, 1, 5, "Hamlet", "Main Stage", showTime).
			AddRow(32, 1, 2, 5, "Hamlet", "Main Stage", showTime))

	body := `{"tickets":[{"performance_id":5,"row":1,"seat":1},{"performance_id":5,"row":1,"seat":2}]}`
	c, rec := newAuthedContext(t, http.MethodPost, "/v1/reservations", body)
	require.NoError(t, h.CreateReservation(c))

	assert.Equal(t, http.StatusCreated, rec.Code)
	var det repository.ReservationDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &det))
	assert.Equal(t, uint64(9), det.ID)
	require.Len(t, det.Tickets, 2)
	assert.Equal(t, uint32(1), det.Tickets[0].Row)
	assert.Equal(t, uint32(2), det.Tickets[1].Seat)
	assert.Equal(t, "Hamlet", det.Tickets[0].PlayTitle)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateReservationRowOutOfRange(t *testing.T) {
	h, mock := newReservationHandler(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT h.seat_rows, h.seats_per_row`)).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"seat_rows", "seats_per_row"}).AddRow(10, 20))
	mock.ExpectRollback()

	body := `{"tickets":[{"performance_id":5,"row":11,"seat":1}]}`
	c, rec := newAuthedContext(t, http.MethodPost, "/v1/reservations", body)
	require.NoError(t, h.CreateReservation(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"errors":{"row":"row out of range"}}`, rec.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateReservationSeatOutOfRange(t *testing.T) {
	h, mock := newReservationHandler(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT h.seat_rows, h.seats_per_row`)).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"seat_rows", "seats_per_row"}).AddRow(10, 20))
	mock.ExpectRollback()

	body := `{"tickets":[{"performance_id":5,"row":1,"seat":0}]}`
	c, rec := newAuthedContext(t, http.MethodPost, "/v1/reservations", body)
	require.NoError(t, h.CreateReservation(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"errors":{"seat":"seat out of range"}}`, rec.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateReservationDuplicateInBatch(t *testing.T) {
	h, mock := newReservationHandler(t)

	// The layout is loaded once per performance, then the batch check
	// catches the repeat before anything is written.
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT h.seat_rows, h.seats_per_row`)).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"seat_rows", "seats_per_row"}).AddRow(10, 20))
	mock.ExpectRollback()

	body := `{"tickets":[{"performance_id":5,"row":2,"seat":3},{"performance_id":5,"row":2,"seat":3}]}`
	c, rec := newAuthedContext(t, http.MethodPost, "/v1/reservations", body)
	require.NoError(t, h.CreateReservation(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"errors":{"seat":"seat already taken"}}`, rec.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateReservationSeatTakenRace(t *testing.T) {
	h, mock := newReservationHandler(t)

	created := time.Date(2026, 4, 2, 11, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT h.seat_rows, h.seats_per_row`)).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"seat_rows", "seats_per_row"}).AddRow(10, 20))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO reservations (user_id) VALUES (?)`)).
		WithArgs(42).
		WillReturnResult(sqlmock.NewResult(9, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, user_id, created_at FROM reservations WHERE id = ?`)).
		WithArgs(9).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "created_at"}).AddRow(9, 42, created))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO tickets (reservation_id, performance_id, row_no, seat_no) VALUES (?, ?, ?, ?)`)).
		WithArgs(9, 5, 2, 3).
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry '5-2-3' for key 'tickets.uq_tickets_performance_seat'"})
	mock.ExpectRollback()

	body := `{"tickets":[{"performance_id":5,"row":2,"seat":3}]}`
	c, rec := newAuthedContext(t, http.MethodPost, "/v1/reservations", body)
	require.NoError(t, h.CreateReservation(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"errors":{"seat":"seat already taken"}}`, rec.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateReservationUnknownPerformance(t *testing.T) {
	h, mock := newReservationHandler(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT h.seat_rows, h.seats_per_row`)).
		WithArgs(int64(99)).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	body := `{"tickets":[{"performance_id":99,"row":1,"seat":1}]}`
	c, rec := newAuthedContext(t, http.MethodPost, "/v1/reservations", body)
	require.NoError(t, h.CreateReservation(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"performance not found"}`, rec.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateReservationEmptyTickets(t *testing.T) {
	h, _ := newReservationHandler(t)

	c, rec := newAuthedContext(t, http.MethodPost, "/v1/reservations", `{"tickets":[]}`)
	require.NoError(t, h.CreateReservation(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"at least one ticket is required"}`, rec.Body.String())
}

func TestCreateReservationUnauthenticated(t *testing.T) {
	h, _ := newReservationHandler(t)

	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(http.MethodPost, "/v1/reservations", strings.NewReader(`{"tickets":[{"performance_id":5,"row":1,"seat":1}]}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, h.CreateReservation(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestListReservations(t *testing.T) {
	h, mock := newReservationHandler(t)

	created := time.Date(2026, 4, 2, 11, 0, 0, 0, time.UTC)
	showTime := time.Date(2026, 5, 1, 19, 30, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM reservations WHERE user_id = ?`)).
		WithArgs(42).
		WillReturnRows(sqlmock.NewRows([]string{"cnt"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta(`ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`)).
		WithArgs(42, 10, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(12, created))
	mock.ExpectQuery(`FROM tickets t`).
		WithArgs(int64(12)).
		WillReturnRows(sqlmock.NewRows([]string{
			"reservation_id", "id", "row_no", "seat_no", "performance_id",
			"title", "name", "show_time",
		}).AddRow(12, 31, 2, 4, 5, "Hamlet", "Main Stage", showTime))

	c, rec := newAuthedContext(t, http.MethodGet, "/v1/reservations", "")
	require.NoError(t, h.ListReservations(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Count int                            `json:"count"`
		Items []repository.ReservationDetail `json:"items"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Count)
	require.Len(t, resp.Items, 1)
	require.Len(t, resp.Items[0].Tickets, 1)
	assert.Equal(t, "Main Stage", resp.Items[0].Tickets[0].TheatreHallName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetReservationNotFound(t *testing.T) {
	h, mock := newReservationHandler(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, created_at FROM reservations WHERE id = ? AND user_id = ?`)).
		WithArgs(12, 42).
		WillReturnError(sql.ErrNoRows)

	c, rec := newAuthedContext(t, http.MethodGet, "/v1/reservations/12", "")
	c.SetParamNames("id")
	c.SetParamValues("12")
	require.NoError(t, h.GetReservation(c))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"reservation not found"}`, rec.Body.String())
}

func TestDeleteReservation(t *testing.T) {
	h, mock := newReservationHandler(t)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM reservations WHERE id = ?`)).
		WithArgs(12).
		WillReturnResult(sqlmock.NewResult(0, 1))

	c, rec := newAuthedContext(t, http.MethodDelete, "/v1/reservations/12", "")
	c.SetParamNames("id")
	c.SetParamValues("12")
	require.NoError(t, h.DeleteReservation(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM reservations WHERE id = ?`)).
		WithArgs(99).
		WillReturnResult(sqlmock.NewResult(0, 0))

	c, rec = newAuthedContext(t, http.MethodDelete, "/v1/reservations/99", "")
	c.SetParamNames("id")
	c.SetParamValues("99")
	require.NoError(t, h.DeleteReservation(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
