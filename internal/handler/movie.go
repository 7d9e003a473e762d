package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Kevinzain29/movie-catalog-api/internal/model"
	"github.com/Kevinzain29/movie-catalog-api/internal/queue"
	"github.com/Kevinzain29/movie-catalog-api/internal/repository"
	queue_publisher "github.com/Kevinzain29/movie-catalog-api/internal/service"
)

// MovieHandler bundles the repositories behind the catalog endpoints.
type MovieHandler struct {
	Movies *repository.MovieRepo
	Genres *repository.GenreRepo
	Users  *repository.UserRepo
}

func NewMovieHandler(movies *repository.MovieRepo, genres *repository.GenreRepo, users *repository.UserRepo) *MovieHandler {
	if movies == nil || genres == nil || users == nil {
		panic("nil repository passed to NewMovieHandler")
	}
	return &MovieHandler{Movies: movies, Genres: genres, Users: users}
}

// ----- DTOs -----

type movieReq struct {
	Title  string   `json:"title"`
	Genre  uint64   `json:"genre"` // genre id
	Year   int      `json:"year"`
	Cast   []string `json:"cast"`
	Image  string   `json:"image"`
	Detail string   `json:"detail"`
}

type movieResp struct {
	ID         uint64    `json:"id"`
	Title      string    `json:"title"`
	Genre      uint64    `json:"genre"`
	Year       int       `json:"year"`
	Cast       []string  `json:"cast"`
	Rating     float64   `json:"rating"`
	NumReviews uint32    `json:"num_reviews"`
	Image      string    `json:"image"`
	Detail     string    `json:"detail"`
	CreatedAt  time.Time `json:"created_at"`
}

type reviewReq struct {
	Rating  float64 `json:"rating"`
	Comment string  `json:"comment"`
}

type reviewResp struct {
	ID        uint64    `json:"id"`
	User      uint64    `json:"user"`
	Name      string    `json:"name"`
	Rating    float64   `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

type movieDetailResp struct {
	movieResp
	Reviews []reviewResp `json:"reviews"`
}

func toMovieResp(m model.Movie) movieResp {
	cast := m.Cast
	if cast == nil {
		cast = []string{}
	}
	return movieResp{
		ID:         m.ID,
		Title:      m.Title,
		Genre:      m.GenreID,
		Year:       m.Year,
		Cast:       cast,
		Rating:     m.Rating,
		NumReviews: m.NumReviews,
		Image:      m.Image,
		Detail:     m.Detail,
		CreatedAt:  m.CreatedAt,
	}
}

func toMovieList(ms []model.Movie) []movieResp {
	out := make([]movieResp, 0, len(ms))
	for _, m := range ms {
		out = append(out, toMovieResp(m))
	}
	return out
}

// ListMovies returns one page of the catalog.  Query parameters: genre
// (genre id), title (case-insensitive substring), page, page_size.
func (h *MovieHandler) ListMovies(c echo.Context) error {
	title := strings.TrimSpace(c.QueryParam("title"))
	genreID, _ := strconv.ParseUint(c.QueryParam("genre"), 10, 64)

	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	ps, _ := strconv.Atoi(c.QueryParam("page_size"))
	if ps < 1 {
		ps = 20
	}
	if ps > 100 {
		ps = 100
	}

	q := repository.MovieSearchQuery{
		GenreID:  genreID,
		Title:    title,
		Page:     page,
		PageSize: ps,
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, total, err := h.Movies.Search(ctx, q)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"data":      toMovieList(items),
		"total":     total,
		"page":      page,
		"page_size": ps,
	})
}

// GetSpecificMovie returns one movie with its review list.
func (h *MovieHandler) GetSpecificMovie(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	m, err := h.Movies.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrMovieNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Movie not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "query failed"})
	}
	reviews, err := h.Movies.ListReviews(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "query failed"})
	}
	detail := movieDetailResp{movieResp: toMovieResp(m), Reviews: make([]reviewResp, 0, len(reviews))}
	for _, rv := range reviews {
		detail.Reviews = append(detail.Reviews, reviewResp{
			ID: rv.ID, User: rv.UserID, Name: rv.Name,
			Rating: rv.Rating, Comment: rv.Comment, CreatedAt: rv.CreatedAt,
		})
	}
	return c.JSON(http.StatusOK, detail)
}

// CreateMovie persists a new catalog entry.  Title, genre, year and
// detail are required; the genre must exist.
func (h *MovieHandler) CreateMovie(c echo.Context) error {
	var req movieReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid body"})
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" || req.Genre == 0 || req.Year == 0 || strings.TrimSpace(req.Detail) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Please fill all the inputs."})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Genres.GetByID(ctx, req.Genre); err != nil {
		if errors.Is(err, repository.ErrGenreNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Genre not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "query failed"})
	}

	m := model.Movie{
		Title:   req.Title,
		GenreID: req.Genre,
		Year:    req.Year,
		Cast:    req.Cast,
		Image:   req.Image,
		Detail:  req.Detail,
	}
	if err := h.Movies.Create(ctx, &m); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "create movie failed"})
	}
	return c.JSON(http.StatusCreated, toMovieResp(m))
}

// UpdateMovie applies a partial update: omitted fields keep the stored
// value.
func (h *MovieHandler) UpdateMovie(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	var req movieReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	m, err := h.Movies.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrMovieNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Movie not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "query failed"})
	}

	if t := strings.TrimSpace(req.Title); t != "" {
		m.Title = t
	}
	if req.Genre != 0 {
		if _, err := h.Genres.GetByID(ctx, req.Genre); err != nil {
			if errors.Is(err, repository.ErrGenreNotFound) {
				return c.JSON(http.StatusNotFound, echo.Map{"message": "Genre not found"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "query failed"})
		}
		m.GenreID = req.Genre
	}
	if req.Year != 0 {
		m.Year = req.Year
	}
	if req.Cast != nil {
		m.Cast = req.Cast
	}
	if req.Image != "" {
		m.Image = req.Image
	}
	if strings.TrimSpace(req.Detail) != "" {
		m.Detail = req.Detail
	}

	if err := h.Movies.Update(ctx, &m); err != nil {
		if errors.Is(err, repository.ErrMovieNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Movie not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "update movie failed"})
	}
	return c.JSON(http.StatusOK, toMovieResp(m))
}

// DeleteMovie removes a catalog entry.  The poster image stays on disk;
// nothing garbage-collects orphaned uploads.
func (h *MovieHandler) DeleteMovie(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Movies.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrMovieNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Movie not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "delete movie failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Movie Deleted Successfully"})
}

// AddReview appends the caller's review to a movie.  One review per user
// per movie; the aggregate rating and count are recomputed by the
// repository.  A review.created event is published afterwards; broker
// failures are logged by the publisher and never fail the request.
func (h *MovieHandler) AddReview(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Not authorized, token failed"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	var req reviewReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid body"})
	}
	if req.Rating < 0 || req.Rating > 10 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Rating must be between 0 and 10"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	m, err := h.Movies.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrMovieNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Movie not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "query failed"})
	}
	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "query failed"})
	}

	rv := model.Review{
		MovieID: id,
		UserID:  uid,
		Name:    u.Username,
		Rating:  req.Rating,
		Comment: req.Comment,
	}
	if err := h.Movies.AddReview(ctx, &rv); err != nil {
		if errors.Is(err, repository.ErrAlreadyReviewed) {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "Movie already reviewed"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "add review failed"})
	}

	_ = queue_publisher.PublishReviewCreated(ctx, queue.ReviewCreatedEvent{
		ReviewID:   rv.ID,
		MovieID:    m.ID,
		MovieTitle: m.Title,
		UserID:     uid,
		Username:   u.Username,
		Rating:     rv.Rating,
		CreatedAt:  time.Now().UTC().Format(time.RFC3339),
	})

	return c.JSON(http.StatusCreated, echo.Map{"message": "Review added"})
}

// GetNewMovies returns the ten most recently added movies.
func (h *MovieHandler) GetNewMovies(c echo.Context) error {
	return h.curatedList(c, h.Movies.ListNew)
}

// GetTopMovies returns the ten highest rated movies.
func (h *MovieHandler) GetTopMovies(c echo.Context) error {
	return h.curatedList(c, h.Movies.ListTop)
}

// GetRandomMovies returns ten random movies.
func (h *MovieHandler) GetRandomMovies(c echo.Context) error {
	return h.curatedList(c, h.Movies.ListRandom)
}

func (h *MovieHandler) curatedList(c echo.Context, list func(context.Context, int) ([]model.Movie, error)) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := list(ctx, 10)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": toMovieList(items)})
}
