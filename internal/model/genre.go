package model

// Genre is a row in the `genres` table. Genres categorise plays and
// are attached through the play_genres join table.
type Genre struct {
	ID   uint64 // genres.id
	Name string // genres.name (unique)
}
