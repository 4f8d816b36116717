package model

// Artist is a row in the `artists` table. Artists are attached to
// plays through the play_artists join table.
type Artist struct {
	ID        uint64 // artists.id
	FirstName string // artists.first_name
	LastName  string // artists.last_name
}

// FullName returns the artist's display name.
func (a *Artist) FullName() string {
	return a.FirstName + " " + a.LastName
}
