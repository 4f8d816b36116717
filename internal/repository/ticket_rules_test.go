package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateSeat(t *testing.T) {
	// Grid under test: 10 rows of 20 seats.
	tests := []struct {
		name      string
		row, seat int
		wantField string
		wantMsg   string
	}{
		{name: "first seat", row: 1, seat: 1},
		{name: "last seat", row: 10, seat: 20},
		{name: "row zero", row: 0, seat: 5, wantField: "row", wantMsg: "row out of range"},
		{name: "row negative", row: -3, seat: 5, wantField: "row", wantMsg: "row out of range"},
		{name: "row past last", row: 11, seat: 5, wantField: "row", wantMsg: "row out of range"},
		{name: "seat zero", row: 4, seat: 0, wantField: "seat", wantMsg: "seat out of range"},
		{name: "seat negative", row: 4, seat: -1, wantField: "seat", wantMsg: "seat out of range"},
		{name: "seat past last", row: 4, seat: 21, wantField: "seat", wantMsg: "seat out of range"},
		{name: "both out reports row", row: 0, seat: 99, wantField: "row", wantMsg: "row out of range"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSeat(tt.row, tt.seat, 10, 20)
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.wantField, ve.Field)
			assert.Equal(t, tt.wantMsg, ve.Message)
		})
	}
}

func TestValidateSeatSingleSeatHall(t *testing.T) {
	assert.NoError(t, ValidateSeat(1, 1, 1, 1))

	err := ValidateSeat(2, 1, 1, 1)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "row", ve.Field)
}

func TestCheckDuplicateSeats(t *testing.T) {
	t.Run("distinct seats pass", func(t *testing.T) {
		tickets := []TicketRecord{
			{PerformanceID: 1, Row: 1, Seat: 1},
			{PerformanceID: 1, Row: 1, Seat: 2},
			{PerformanceID: 1, Row: 2, Seat: 1},
		}
		assert.NoError(t, CheckDuplicateSeats(tickets))
	})

	t.Run("repeated seat rejected", func(t *testing.T) {
		tickets := []TicketRecord{
			{PerformanceID: 1, Row: 3, Seat: 7},
			{PerformanceID: 1, Row: 3, Seat: 7},
		}
		err := CheckDuplicateSeats(tickets)
		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "seat", ve.Field)
		assert.Equal(t, "seat already taken", ve.Message)
	})

	t.Run("same coordinates on different performances pass", func(t *testing.T) {
		tickets := []TicketRecord{
			{PerformanceID: 1, Row: 3, Seat: 7},
			{PerformanceID: 2, Row: 3, Seat: 7},
		}
		assert.NoError(t, CheckDuplicateSeats(tickets))
	})

	t.Run("empty batch passes", func(t *testing.T) {
		assert.NoError(t, CheckDuplicateSeats(nil))
	})
}
