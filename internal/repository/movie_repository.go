// Package repository contains data access logic for the movie catalog.
// This file defines the movie repository: CRUD over the movies table,
// the filtered catalog search, the curated lists (new/top/random) and
// review persistence with aggregate recomputation.
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"

	"github.com/Kevinzain29/movie-catalog-api/internal/model"
)

// ErrMovieNotFound indicates that a movie was not located in the DB.
var ErrMovieNotFound = errors.New("movie not found")

// ErrAlreadyReviewed indicates the user has already reviewed the movie.
var ErrAlreadyReviewed = errors.New("movie already reviewed")

// MovieRepo manages persistence for movies and their reviews.
type MovieRepo struct{ DB *sql.DB }

func NewMovieRepo(db *sql.DB) *MovieRepo { return &MovieRepo{DB: db} }

const movieCols = "id,title,genre_id,year,cast_list,rating,num_reviews,image,detail,created_at,updated_at"

// scanMovie reads one movie row.  The cast column is stored as JSON and
// may be NULL for movies created without a cast list.
func scanMovie(row interface{ Scan(...any) error }) (model.Movie, error) {
	var (
		m    model.Movie
		cast sql.NullString
	)
	err := row.Scan(&m.ID, &m.Title, &m.GenreID, &m.Year, &cast,
		&m.Rating, &m.NumReviews, &m.Image, &m.Detail, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return m, err
	}
	if cast.Valid && cast.String != "" {
		if err := json.Unmarshal([]byte(cast.String), &m.Cast); err != nil {
			return m, err
		}
	}
	return m, nil
}

// Create inserts a movie and reads the stored row back so DB defaults
// (aggregates, timestamps) are populated on the given struct.
func (r *MovieRepo) Create(ctx context.Context, m *model.Movie) error {
	cast, err := json.Marshal(m.Cast)
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO movies (title, genre_id, year, cast_list, image, detail) VALUES (?,?,?,?,?,?)",
		m.Title, m.GenreID, m.Year, string(cast), m.Image, m.Detail)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = uint64(id)
	stored, err := r.GetByID(ctx, m.ID)
	if err != nil {
		return err
	}
	*m = stored
	return nil
}

// GetByID retrieves a movie by its ID.  Returns ErrMovieNotFound when absent.
func (r *MovieRepo) GetByID(ctx context.Context, id uint64) (model.Movie, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+movieCols+" FROM movies WHERE id=? LIMIT 1", id)
	m, err := scanMovie(row)
	if errors.Is(err, sql.ErrNoRows) {
		return m, ErrMovieNotFound
	}
	return m, err
}

// Update overwrites the mutable fields of a movie.  The handler merges
// partial input into the stored record before calling this, so a full-row
// write is safe here.  Returns ErrMovieNotFound when no row matched.
func (r *MovieRepo) Update(ctx context.Context, m *model.Movie) error {
	cast, err := json.Marshal(m.Cast)
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx,
		`UPDATE movies SET title=?, genre_id=?, year=?, cast_list=?, image=?, detail=?, updated_at=CURRENT_TIMESTAMP
		 WHERE id=?`,
		m.Title, m.GenreID, m.Year, string(cast), m.Image, m.Detail, m.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// Distinguish "missing" from "identical values": the caller already
		// loaded the row, so treat 0 affected rows as success when it exists.
		var one int
		err := r.DB.QueryRowContext(ctx, "SELECT 1 FROM movies WHERE id=? LIMIT 1", m.ID).Scan(&one)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrMovieNotFound
		}
		return err
	}
	return nil
}

// Delete removes a movie by id.  Reviews cascade at the store level; the
// referenced image file is deliberately left on disk.
func (r *MovieRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM movies WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrMovieNotFound
	}
	return nil
}

// MovieSearchQuery defines filters & pagination for the catalog listing.
type MovieSearchQuery struct {
	GenreID  uint64
	Title    string
	Page     int
	PageSize int
}

// Search returns one page of movies plus the total match count.  Title
// matching is a case-insensitive substring match; genre filters by the
// referenced genre id.
func (r *MovieRepo) Search(ctx context.Context, q MovieSearchQuery) ([]model.Movie, int64, error) {
	where := []string{}
	args := []any{}

	if q.GenreID != 0 {
		where = append(where, "genre_id = ?")
		args = append(args, q.GenreID)
	}
	if q.Title != "" {
		where = append(where, "LOWER(title) LIKE ?")
		args = append(args, "%"+strings.ToLower(q.Title)+"%")
	}

	cond := "1=1"
	if len(where) > 0 {
		cond = strings.Join(where, " AND ")
	}

	var total int64
	if err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM movies WHERE "+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := q.PageSize
	offset := (q.Page - 1) * q.PageSize
	argsData := append(append([]any{}, args...), limit, offset)

	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+movieCols+" FROM movies WHERE "+cond+" ORDER BY id ASC LIMIT ? OFFSET ?",
		argsData...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]model.Movie, 0, limit)
	for rows.Next() {
		m, err := scanMovie(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// listBy runs a fixed ORDER BY listing with a limit.  Shared by the
// new/top/random endpoints.
func (r *MovieRepo) listBy(ctx context.Context, orderBy string, limit int) ([]model.Movie, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+movieCols+" FROM movies ORDER BY "+orderBy+" LIMIT ?", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Movie
	for rows.Next() {
		m, err := scanMovie(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// ListNew returns the most recently added movies.
func (r *MovieRepo) ListNew(ctx context.Context, limit int) ([]model.Movie, error) {
	return r.listBy(ctx, "id DESC", limit)
}

// ListTop returns the highest rated movies.
func (r *MovieRepo) ListTop(ctx context.Context, limit int) ([]model.Movie, error) {
	return r.listBy(ctx, "rating DESC", limit)
}

// ListRandom returns a random selection of movies.
func (r *MovieRepo) ListRandom(ctx context.Context, limit int) ([]model.Movie, error) {
	return r.listBy(ctx, "RAND()", limit)
}

// HasReview reports whether the user already reviewed the movie.  The
// one-review-per-user rule is enforced here rather than by a unique
// index, so the duplicate case gets its own error message.
func (r *MovieRepo) HasReview(ctx context.Context, movieID, userID uint64) (bool, error) {
	var one int
	err := r.DB.QueryRowContext(ctx,
		"SELECT 1 FROM reviews WHERE movie_id=? AND user_id=? LIMIT 1",
		movieID, userID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// AddReview appends a review and then recomputes the movie's aggregate
// rating and review count.  Returns ErrAlreadyReviewed when the user has
// a review on this movie.  The insert and the recompute are intentionally
// not wrapped in a transaction: a crash between them leaves a stale
// aggregate until the next review mutation, which is accepted behavior.
func (r *MovieRepo) AddReview(ctx context.Context, rv *model.Review) error {
	dup, err := r.HasReview(ctx, rv.MovieID, rv.UserID)
	if err != nil {
		return err
	}
	if dup {
		return ErrAlreadyReviewed
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO reviews (movie_id, user_id, name, rating, comment) VALUES (?,?,?,?,?)",
		rv.MovieID, rv.UserID, rv.Name, rv.Rating, rv.Comment)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rv.ID = uint64(id)
	return r.recomputeAggregates(ctx, rv.MovieID)
}

// recomputeAggregates rewrites rating and num_reviews from the reviews
// table.  Always a full recompute, never an increment.
func (r *MovieRepo) recomputeAggregates(ctx context.Context, movieID uint64) error {
	_, err := r.DB.ExecContext(ctx,
		`UPDATE movies SET
			rating = COALESCE((SELECT AVG(rating) FROM reviews WHERE movie_id=?), 0),
			num_reviews = (SELECT COUNT(*) FROM reviews WHERE movie_id=?)
		 WHERE id=?`,
		movieID, movieID, movieID)
	return err
}

// ListReviews returns all reviews of a movie, oldest first.
func (r *MovieRepo) ListReviews(ctx context.Context, movieID uint64) ([]model.Review, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id,movie_id,user_id,name,rating,comment,created_at FROM reviews WHERE movie_id=? ORDER BY id ASC",
		movieID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Review
	for rows.Next() {
		var rv model.Review
		if err := rows.Scan(&rv.ID, &rv.MovieID, &rv.UserID, &rv.Name, &rv.Rating, &rv.Comment, &rv.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, rv)
	}
	return out, rows.Err()
}
