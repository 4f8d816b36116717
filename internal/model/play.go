package model

import "time"

// Play represents a stage production as stored in the `plays` table.
// Genres and artists are attached through the play_genres and
// play_artists join tables and are loaded by the repository on
// demand rather than being embedded here.
//
// Fields:
//  ID          – primary key identifier.
//  Title       – production title.
//  Description – synopsis text.
//  DurationMin – running time in minutes.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Play struct {
	ID          uint64    // plays.id
	Title       string    // plays.title
	Description string    // plays.description
	DurationMin uint32    // plays.duration_min
	CreatedAt   time.Time // plays.created_at
	UpdatedAt   time.Time // plays.updated_at
}
