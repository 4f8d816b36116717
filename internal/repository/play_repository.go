package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/laskarj/theatre-api/internal/model"
)

// ErrPlayNotFound indicates that a play was not located in the DB.
var ErrPlayNotFound = errors.New("play not found")

// PlayRepo manages persistence for plays and their genre and artist links.
type PlayRepo struct {
	db *sql.DB
}

func NewPlayRepo(db *sql.DB) *PlayRepo { return &PlayRepo{db: db} }

// DB exposes the underlying sql.DB. It allows callers to begin
// transactions spanning multiple repositories.
func (r *PlayRepo) DB() *sql.DB {
	return r.db
}

// PlayFilter narrows play listings. Zero values mean "no filter".
type PlayFilter struct {
	Title     string
	GenreIDs  []uint64
	ArtistIDs []uint64
}

// PlayListItem is a play row shaped for list responses. Genres carries
// genre names and Artists carries artist full names.
type PlayListItem struct {
	ID          uint64   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	DurationMin uint32   `json:"duration_min"`
	Genres      []string `json:"genres"`
	Artists     []string `json:"artists"`
}

// PlayDetail is a play with its genres and artists expanded to full
// objects, returned by detail endpoints.
type PlayDetail struct {
	ID          uint64         `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	DurationMin uint32         `json:"duration_min"`
	Genres      []GenreRecord  `json:"genres"`
	Artists     []ArtistRecord `json:"artists"`
}

// List returns a page of plays matching the filter together with the
// total count before paging. Title matches are substring matches;
// genre and artist filters match plays linked to ANY of the given IDs.
func (r *PlayRepo) List(ctx context.Context, f PlayFilter, limit, offset int) ([]PlayListItem, int, error) {
	conds := []string{}
	args := []interface{}{}
	if title := strings.TrimSpace(f.Title); title != "" {
		conds = append(conds, "p.title LIKE ?")
		args = append(args, "%"+title+"%")
	}
	if len(f.GenreIDs) > 0 {
		conds = append(conds, "p.id IN (SELECT play_id FROM play_genres WHERE genre_id IN ("+placeholders(len(f.GenreIDs))+"))")
		args = append(args, idArgs(f.GenreIDs)...)
	}
	if len(f.ArtistIDs) > 0 {
		conds = append(conds, "p.id IN (SELECT play_id FROM play_artists WHERE artist_id IN ("+placeholders(len(f.ArtistIDs))+"))")
		args = append(args, idArgs(f.ArtistIDs)...)
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM plays p`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	query := `SELECT p.id, p.title, p.description, p.duration_min FROM plays p` + where +
		` ORDER BY p.title, p.id LIMIT ? OFFSET ?`
	rows, err := r.db.QueryContext(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	items := make([]PlayListItem, 0)
	index := make(map[uint64]int)
	for rows.Next() {
		var it PlayListItem
		if err := rows.Scan(&it.ID, &it.Title, &it.Description, &it.DurationMin); err != nil {
			return nil, 0, err
		}
		it.Genres = []string{}
		it.Artists = []string{}
		index[it.ID] = len(items)
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	if len(items) == 0 {
		return items, total, nil
	}
	// Populate genre and artist names for the whole page in two queries.
	ids := make([]uint64, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ID)
	}
	genreQ := `SELECT pg.play_id, g.name
	           FROM play_genres pg
	           JOIN genres g ON g.id = pg.genre_id
	           WHERE pg.play_id IN (` + placeholders(len(ids)) + `)
	           ORDER BY pg.play_id, g.name`
	grows, err := r.db.QueryContext(ctx, genreQ, idArgs(ids)...)
	if err != nil {
		return nil, 0, err
	}
	defer grows.Close()
	for grows.Next() {
		var playID uint64
		var name string
		if err := grows.Scan(&playID, &name); err != nil {
			return nil, 0, err
		}
		if idx, ok := index[playID]; ok {
			items[idx].Genres = append(items[idx].Genres, name)
		}
	}
	if err := grows.Err(); err != nil {
		return nil, 0, err
	}
	artistQ := `SELECT pa.play_id, a.first_name, a.last_name
	            FROM play_artists pa
	            JOIN artists a ON a.id = pa.artist_id
	            WHERE pa.play_id IN (` + placeholders(len(ids)) + `)
	            ORDER BY pa.play_id, a.last_name, a.first_name`
	arows, err := r.db.QueryContext(ctx, artistQ, idArgs(ids)...)
	if err != nil {
		return nil, 0, err
	}
	defer arows.Close()
	for arows.Next() {
		var playID uint64
		var first, last string
		if err := arows.Scan(&playID, &first, &last); err != nil {
			return nil, 0, err
		}
		if idx, ok := index[playID]; ok {
			items[idx].Artists = append(items[idx].Artists, first+" "+last)
		}
	}
	if err := arows.Err(); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// GetByID returns one play with its genres and artists expanded.
// Returns ErrPlayNotFound when the ID does not exist.
func (r *PlayRepo) GetByID(ctx context.Context, id uint64) (*PlayDetail, error) {
	const q = `SELECT id, title, description, duration_min FROM plays WHERE id = ?`
	var det PlayDetail
	err := r.db.QueryRowContext(ctx, q, id).Scan(&det.ID, &det.Title, &det.Description, &det.DurationMin)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlayNotFound
		}
		return nil, err
	}
	det.Genres = []GenreRecord{}
	det.Artists = []ArtistRecord{}
	const genreQ = `SELECT g.id, g.name
	                FROM play_genres pg
	                JOIN genres g ON g.id = pg.genre_id
	                WHERE pg.play_id = ?
	                ORDER BY g.name`
	grows, err := r.db.QueryContext(ctx, genreQ, id)
	if err != nil {
		return nil, err
	}
	defer grows.Close()
	for grows.Next() {
		var g GenreRecord
		if err := grows.Scan(&g.ID, &g.Name); err != nil {
			return nil, err
		}
		det.Genres = append(det.Genres, g)
	}
	if err := grows.Err(); err != nil {
		return nil, err
	}
	const artistQ = `SELECT a.id, a.first_name, a.last_name
	                 FROM play_artists pa
	                 JOIN artists a ON a.id = pa.artist_id
	                 WHERE pa.play_id = ?
	                 ORDER BY a.last_name, a.first_name`
	arows, err := r.db.QueryContext(ctx, artistQ, id)
	if err != nil {
		return nil, err
	}
	defer arows.Close()
	for arows.Next() {
		var a ArtistRecord
		if err := arows.Scan(&a.ID, &a.FirstName, &a.LastName); err != nil {
			return nil, err
		}
		a.FullName = a.FirstName + " " + a.LastName
		det.Artists = append(det.Artists, a)
	}
	if err := arows.Err(); err != nil {
		return nil, err
	}
	return &det, nil
}

// CreateTx inserts a play and its genre and artist links within the
// provided transaction. The caller must commit or roll back. Genre and
// artist IDs must be distinct and are assumed to exist; callers
// validate them first. On success the generated ID and timestamps are
// populated on the given play.
func (r *PlayRepo) CreateTx(ctx context.Context, tx *sql.Tx, p *model.Play, genreIDs, artistIDs []uint64) error {
	const q = `INSERT INTO plays (title, description, duration_min) VALUES (?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, p.Title, p.Description, p.DurationMin)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	const sel = `SELECT id, title, description, duration_min, created_at, updated_at FROM plays WHERE id = ?`
	if err := tx.QueryRowContext(ctx, sel, p.ID).Scan(
		&p.ID, &p.Title, &p.Description, &p.DurationMin, &p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return err
	}
	if len(genreIDs) > 0 {
		query := `INSERT INTO play_genres (play_id, genre_id) VALUES `
		args := make([]interface{}, 0, len(genreIDs)*2)
		for i, gid := range genreIDs {
			if i > 0 {
				query += ","
			}
			query += "(?, ?)"
			args = append(args, p.ID, gid)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return err
		}
	}
	if len(artistIDs) > 0 {
		query := `INSERT INTO play_artists (play_id, artist_id) VALUES `
		args := make([]interface{}, 0, len(artistIDs)*2)
		for i, aid := range artistIDs {
			if i > 0 {
				query += ","
			}
			query += "(?, ?)"
			args = append(args, p.ID, aid)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return err
		}
	}
	return nil
}
