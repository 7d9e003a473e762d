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
	"github.com/Kevinzain29/movie-catalog-api/internal/repository"
)

// GenreHandler exposes CRUD over the flat genre registry.  Reads are
// public; writes sit behind the admin gate at the router.
type GenreHandler struct {
	Genres *repository.GenreRepo
}

func NewGenreHandler(g *repository.GenreRepo) *GenreHandler {
	if g == nil {
		panic("nil repository passed to NewGenreHandler")
	}
	return &GenreHandler{Genres: g}
}

type genreReq struct {
	Name string `json:"name"`
}

// ListGenres returns all genres ordered by name.
func (h *GenreHandler) ListGenres(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	genres, err := h.Genres.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "query failed"})
	}
	if genres == nil {
		genres = []model.Genre{}
	}
	return c.JSON(http.StatusOK, genres)
}

// ReadGenre returns a single genre by id.
func (h *GenreHandler) ReadGenre(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	g, err := h.Genres.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrGenreNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Genre not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "query failed"})
	}
	return c.JSON(http.StatusOK, g)
}

// CreateGenre adds a genre.  The name must be non-empty and unique.
func (h *GenreHandler) CreateGenre(c echo.Context) error {
	var req genreReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid body"})
	}
	if strings.TrimSpace(req.Name) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Name is required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	g := model.Genre{Name: req.Name}
	if err := h.Genres.Create(ctx, &g); err != nil {
		if errors.Is(err, repository.ErrGenreExists) {
			return c.JSON(http.StatusConflict, echo.Map{"message": "Genre already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "create genre failed"})
	}
	return c.JSON(http.StatusCreated, g)
}

// UpdateGenre renames a genre.  The uniqueness check applies to renames
// as well.
func (h *GenreHandler) UpdateGenre(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	var req genreReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid body"})
	}
	if strings.TrimSpace(req.Name) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Name is required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	// Existence first so a rename of a missing genre is a 404, not a no-op.
	if _, err := h.Genres.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrGenreNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Genre not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "query failed"})
	}
	if err := h.Genres.Rename(ctx, id, req.Name); err != nil {
		if errors.Is(err, repository.ErrGenreExists) {
			return c.JSON(http.StatusConflict, echo.Map{"message": "Genre already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "update genre failed"})
	}
	return c.JSON(http.StatusOK, model.Genre{ID: id, Name: strings.TrimSpace(req.Name)})
}

// RemoveGenre deletes a genre and echoes the removed record back so the
// client can show what was deleted.
func (h *GenreHandler) RemoveGenre(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	g, err := h.Genres.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrGenreNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Genre not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "query failed"})
	}
	if err := h.Genres.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrGenreNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Genre not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "delete genre failed"})
	}
	return c.JSON(http.StatusOK, g)
}
