package queue

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatEventLine(t *testing.T) {
	ev := ReservationCreatedEvent{
		ReservationID: 12,
		UserID:        42,
		CreatedAt:     "2026-03-01T19:30:00Z",
		Tickets: []TicketSeat{
			{PerformanceID: 9, Row: 5, Seat: 1},
			{PerformanceID: 9, Row: 5, Seat: 2},
		},
	}
	assert.Equal(t,
		"[2026-03-01T19:30:00Z] Reservation created | reservation_id=12 | user_id=42 | tickets=[9:5/1,9:5/2]\n",
		formatEventLine(ev))
}

func TestHandleMessage(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	body := []byte(`{"reservation_id":12,"user_id":42,"tickets":[{"performance_id":9,"row":5,"seat":1}],"created_at":"2026-03-01T19:30:00Z"}`)
	require.NoError(t, handleMessage(body))

	data, err := os.ReadFile(filepath.Join("logs", "reservations.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "reservation_id=12")
	assert.Contains(t, string(data), "tickets=[9:5/1]")
}

func TestHandleMessageBadPayload(t *testing.T) {
	assert.Error(t, handleMessage([]byte("{not json")))
}
