package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
)

// ErrArtistNotFound is returned when no artist exists with the requested ID.
var ErrArtistNotFound = errors.New("artist not found")

// ArtistRepo provides persistence for artists and their play credits.
type ArtistRepo struct {
	db *sql.DB
}

func NewArtistRepo(db *sql.DB) *ArtistRepo { return &ArtistRepo{db: db} }

// ArtistRecord is an artist row shaped for JSON list responses.
type ArtistRecord struct {
	ID        uint64 `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	FullName  string `json:"full_name"`
}

// ArtistPlay names a play an artist performs in.
type ArtistPlay struct {
	ID    uint64 `json:"id"`
	Title string `json:"title"`
}

// ArtistDetail extends ArtistRecord with the artist's plays.
type ArtistDetail struct {
	ArtistRecord
	Plays []ArtistPlay `json:"plays"`
}

// List returns a page of artists together with the total count before
// paging. When search is non-empty it matches against first name, last
// name and the concatenated full name, case-insensitively.
func (r *ArtistRepo) List(ctx context.Context, search string, limit, offset int) ([]ArtistRecord, int, error) {
	where := ""
	args := []interface{}{}
	search = strings.TrimSpace(search)
	if search != "" {
		where = ` WHERE first_name LIKE ? OR last_name LIKE ? OR CONCAT(first_name, ' ', last_name) LIKE ?`
		pattern := "%" + search + "%"
		args = append(args, pattern, pattern, pattern)
	}
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM artists`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	query := `SELECT id, first_name, last_name FROM artists` + where +
		` ORDER BY last_name, first_name, id LIMIT ? OFFSET ?`
	rows, err := r.db.QueryContext(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	artists := make([]ArtistRecord, 0)
	for rows.Next() {
		var a ArtistRecord
		if err := rows.Scan(&a.ID, &a.FirstName, &a.LastName); err != nil {
			return nil, 0, err
		}
		a.FullName = a.FirstName + " " + a.LastName
		artists = append(artists, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return artists, total, nil
}

// GetByID returns one artist with the plays they are credited on.
// Plays are ordered by title for deterministic output. Returns
// ErrArtistNotFound when the ID does not exist.
func (r *ArtistRepo) GetByID(ctx context.Context, id uint64) (*ArtistDetail, error) {
	const q = `SELECT id, first_name, last_name FROM artists WHERE id = ?`
	var det ArtistDetail
	err := r.db.QueryRowContext(ctx, q, id).Scan(&det.ID, &det.FirstName, &det.LastName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrArtistNotFound
		}
		return nil, err
	}
	det.FullName = det.FirstName + " " + det.LastName
	det.Plays = []ArtistPlay{}
	const playQ = `SELECT p.id, p.title
	               FROM play_artists pa
	               JOIN plays p ON p.id = pa.play_id
	               WHERE pa.artist_id = ?
	               ORDER BY p.title, p.id`
	rows, err := r.db.QueryContext(ctx, playQ, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var p ArtistPlay
		if err := rows.Scan(&p.ID, &p.Title); err != nil {
			return nil, err
		}
		det.Plays = append(det.Plays, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &det, nil
}

// Create inserts an artist and returns the stored record.
func (r *ArtistRepo) Create(ctx context.Context, firstName, lastName string) (ArtistRecord, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO artists (first_name, last_name) VALUES (?, ?)`,
		strings.TrimSpace(firstName), strings.TrimSpace(lastName))
	if err != nil {
		return ArtistRecord{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return ArtistRecord{}, err
	}
	const sel = `SELECT id, first_name, last_name FROM artists WHERE id = ?`
	var a ArtistRecord
	if err := r.db.QueryRowContext(ctx, sel, uint64(id)).Scan(&a.ID, &a.FirstName, &a.LastName); err != nil {
		return ArtistRecord{}, err
	}
	a.FullName = a.FirstName + " " + a.LastName
	return a, nil
}

// CountByIDs returns how many of the given artist IDs exist.
func (r *ArtistRepo) CountByIDs(ctx context.Context, ids []uint64) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	query := `SELECT COUNT(*) FROM artists WHERE id IN (` + placeholders(len(ids)) + `)`
	var n int
	err := r.db.QueryRowContext(ctx, query, idArgs(ids)...).Scan(&n)
	return n, err
}
