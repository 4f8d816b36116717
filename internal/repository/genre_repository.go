package repository

import (
	"context"
	"database/sql"
	"strings"
)

// GenreRepo provides persistence for genres.
type GenreRepo struct {
	db *sql.DB
}

func NewGenreRepo(db *sql.DB) *GenreRepo { return &GenreRepo{db: db} }

// GenreRecord is a genre row shaped for JSON responses.
type GenreRecord struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

// List returns all genres ordered by name.
func (r *GenreRepo) List(ctx context.Context) ([]GenreRecord, error) {
	const q = `SELECT id, name FROM genres ORDER BY name`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	genres := make([]GenreRecord, 0)
	for rows.Next() {
		var g GenreRecord
		if err := rows.Scan(&g.ID, &g.Name); err != nil {
			return nil, err
		}
		genres = append(genres, g)
	}
	return genres, rows.Err()
}

// Create inserts a genre. Genre names are unique; inserting an
// existing name returns a ValidationError on the name field.
func (r *GenreRepo) Create(ctx context.Context, name string) (GenreRecord, error) {
	name = strings.TrimSpace(name)
	res, err := r.db.ExecContext(ctx, `INSERT INTO genres (name) VALUES (?)`, name)
	if err != nil {
		if isDuplicateEntry(err) {
			return GenreRecord{}, NewValidationError("name", "genre with this name already exists")
		}
		return GenreRecord{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return GenreRecord{}, err
	}
	return GenreRecord{ID: uint64(id), Name: name}, nil
}

// CountByIDs returns how many of the given genre IDs exist. Callers
// compare the count against the number of distinct IDs they passed to
// detect references to missing genres.
func (r *GenreRepo) CountByIDs(ctx context.Context, ids []uint64) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	query := `SELECT COUNT(*) FROM genres WHERE id IN (` + placeholders(len(ids)) + `)`
	var n int
	err := r.db.QueryRowContext(ctx, query, idArgs(ids)...).Scan(&n)
	return n, err
}
