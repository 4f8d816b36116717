package repository

// ValidateSeat checks a candidate ticket's coordinates against a hall
// grid: row must lie in [1, rows] and seat in [1, seatsPerRow]. The
// row is checked first, so a ticket that is out of range on both axes
// reports the row. Returns a ValidationError naming the offending
// field, or nil when the coordinates fall inside the grid.
func ValidateSeat(row, seat, rows, seatsPerRow int) error {
	if row < 1 || row > rows {
		return NewValidationError("row", "row out of range")
	}
	if seat < 1 || seat > seatsPerRow {
		return NewValidationError("seat", "seat out of range")
	}
	return nil
}

// CheckDuplicateSeats returns a ValidationError when the same
// (performance, row, seat) triple appears more than once in a single
// checkout batch. The unique key on tickets would reject the second
// insert anyway; catching the duplicate before touching the database
// yields the same error the concurrent-conflict path produces.
func CheckDuplicateSeats(tickets []TicketRecord) error {
	type key struct {
		performanceID uint64
		row, seat     int
	}
	seen := make(map[key]struct{}, len(tickets))
	for _, t := range tickets {
		k := key{t.PerformanceID, t.Row, t.Seat}
		if _, ok := seen[k]; ok {
			return NewValidationError("seat", "seat already taken")
		}
		seen[k] = struct{}{}
	}
	return nil
}
