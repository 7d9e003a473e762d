package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/Kevinzain29/movie-catalog-api/internal/model"
)

// ErrGenreNotFound indicates that a genre was not located in the DB.
var ErrGenreNotFound = errors.New("genre not found")

// ErrGenreExists indicates a uniqueness violation on the genre name.
var ErrGenreExists = errors.New("genre already exists")

// GenreRepo manages persistence for the flat genre registry.
type GenreRepo struct{ DB *sql.DB }

func NewGenreRepo(db *sql.DB) *GenreRepo { return &GenreRepo{DB: db} }

// Create inserts a genre and assigns the generated ID back to g.
func (r *GenreRepo) Create(ctx context.Context, g *model.Genre) error {
	g.Name = strings.TrimSpace(g.Name)
	res, err := r.DB.ExecContext(ctx, "INSERT INTO genres (name) VALUES (?)", g.Name)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrGenreExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	g.ID = uint64(id)
	return nil
}

// GetByID fetches a genre by id.  Returns ErrGenreNotFound when absent.
func (r *GenreRepo) GetByID(ctx context.Context, id uint64) (model.Genre, error) {
	var g model.Genre
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,name FROM genres WHERE id=? LIMIT 1", id).Scan(&g.ID, &g.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return g, ErrGenreNotFound
	}
	return g, err
}

// ListAll returns every genre ordered by name.
func (r *GenreRepo) ListAll(ctx context.Context) ([]model.Genre, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT id,name FROM genres ORDER BY name ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Genre
	for rows.Next() {
		var g model.Genre
		if err := rows.Scan(&g.ID, &g.Name); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// Rename updates a genre's name.  The uniqueness constraint applies to
// renames the same way it applies to creation.
func (r *GenreRepo) Rename(ctx context.Context, id uint64, name string) error {
	name = strings.TrimSpace(name)
	_, err := r.DB.ExecContext(ctx, "UPDATE genres SET name=? WHERE id=?", name, id)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrGenreExists
		}
		return err
	}
	return nil
}

// Delete removes a genre by id.  Returns ErrGenreNotFound when no row matched.
func (r *GenreRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM genres WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrGenreNotFound
	}
	return nil
}
