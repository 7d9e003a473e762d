package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kevinzain29/movie-catalog-api/internal/repository"
)

func newGenreHandler(t *testing.T) (*GenreHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewGenreHandler(repository.NewGenreRepo(db)), mock
}

func TestCreateGenre(t *testing.T) {
	h, mock := newGenreHandler(t)
	mock.ExpectExec("INSERT INTO genres").WillReturnResult(sqlmock.NewResult(3, 1))

	c, rec := jsonContext(t, http.MethodPost, "/api/genres", `{"name":"Action"}`)
	require.NoError(t, h.CreateGenre(c))

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"id":3`)
	assert.Contains(t, rec.Body.String(), `"name":"Action"`)
}

func TestCreateGenreEmptyName(t *testing.T) {
	h, _ := newGenreHandler(t)
	c, rec := jsonContext(t, http.MethodPost, "/api/genres", `{"name":"  "}`)
	require.NoError(t, h.CreateGenre(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Name is required")
}

func TestCreateGenreDuplicateName(t *testing.T) {
	h, mock := newGenreHandler(t)
	mock.ExpectExec("INSERT INTO genres").
		WillReturnError(errors.New("Error 1062 (23000): Duplicate entry"))

	c, rec := jsonContext(t, http.MethodPost, "/api/genres", `{"name":"Action"}`)
	require.NoError(t, h.CreateGenre(c))

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "Genre already exists")
}

func TestReadGenreNotFound(t *testing.T) {
	h, mock := newGenreHandler(t)
	mock.ExpectQuery("FROM genres WHERE id=").WillReturnError(sql.ErrNoRows)

	c, rec := jsonContext(t, http.MethodGet, "/api/genres/8", "")
	c.SetParamNames("id")
	c.SetParamValues("8")
	require.NoError(t, h.ReadGenre(c))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Genre not found")
}

func TestRemoveGenreReturnsDeletedRecord(t *testing.T) {
	h, mock := newGenreHandler(t)
	mock.ExpectQuery("FROM genres WHERE id=").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(7, "Action"))
	mock.ExpectExec("DELETE FROM genres").WillReturnResult(sqlmock.NewResult(0, 1))

	c, rec := jsonContext(t, http.MethodDelete, "/api/genres/7", "")
	c.SetParamNames("id")
	c.SetParamValues("7")
	require.NoError(t, h.RemoveGenre(c))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"name":"Action"`)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRemoveGenreNotFound(t *testing.T) {
	h, mock := newGenreHandler(t)
	mock.ExpectQuery("FROM genres WHERE id=").WillReturnError(sql.ErrNoRows)

	c, rec := jsonContext(t, http.MethodDelete, "/api/genres/99", "")
	c.SetParamNames("id")
	c.SetParamValues("99")
	require.NoError(t, h.RemoveGenre(c))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Genre not found")
}

func TestListGenres(t *testing.T) {
	h, mock := newGenreHandler(t)
	mock.ExpectQuery("FROM genres ORDER BY name").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).
			AddRow(1, "Action").
			AddRow(2, "Drama"))

	c, rec := jsonContext(t, http.MethodGet, "/api/genres", "")
	require.NoError(t, h.ListGenres(c))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Action")
	assert.Contains(t, rec.Body.String(), "Drama")
}
