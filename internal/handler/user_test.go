package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Kevinzain29/movie-catalog-api/internal/config"
	"github.com/Kevinzain29/movie-catalog-api/internal/repository"
	"github.com/Kevinzain29/movie-catalog-api/internal/utils"
)

var testCfg = config.Config{
	Env:          "dev",
	JWTSecret:    "handler-test-secret",
	TokenTTLDays: 30,
	BcryptCost:   bcrypt.MinCost,
}

const userColumns = "id, username, email, password_hash, is_admin, created_at, updated_at"

func newUserHandler(t *testing.T) (*UserHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewUserHandler(testCfg, repository.NewUserRepo(db)), mock
}

func jsonContext(t *testing.T, method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func userRow(hash string, admin bool) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(strings.Split(userColumns, ", ")).
		AddRow(1, "alice", "alice@example.com", hash, admin, now, now)
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == utils.TokenCookieName {
			return ck
		}
	}
	return nil
}

func TestLoginUserNotFound(t *testing.T) {
	h, mock := newUserHandler(t)
	mock.ExpectQuery("FROM users WHERE email=").WillReturnError(sql.ErrNoRows)

	c, rec := jsonContext(t, http.MethodPost, "/api/users/auth",
		`{"email":"nobody@example.com","password":"password123"}`)
	require.NoError(t, h.Login(c))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "User not found")
}

func TestLoginInvalidPassword(t *testing.T) {
	h, mock := newUserHandler(t)
	hash, err := utils.HashPassword("correct-horse", bcrypt.MinCost)
	require.NoError(t, err)
	mock.ExpectQuery("FROM users WHERE email=").WillReturnRows(userRow(hash, false))

	c, rec := jsonContext(t, http.MethodPost, "/api/users/auth",
		`{"email":"alice@example.com","password":"battery-staple"}`)
	require.NoError(t, h.Login(c))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid password")
}

func TestLoginSuccessSetsSessionCookie(t *testing.T) {
	h, mock := newUserHandler(t)
	hash, err := utils.HashPassword("correct-horse", bcrypt.MinCost)
	require.NoError(t, err)
	mock.ExpectQuery("FROM users WHERE email=").WillReturnRows(userRow(hash, true))

	c, rec := jsonContext(t, http.MethodPost, "/api/users/auth",
		`{"email":"alice@example.com","password":"correct-horse"}`)
	require.NoError(t, h.Login(c))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"is_admin":true`)

	ck := sessionCookie(rec)
	require.NotNil(t, ck, "session cookie must be set")
	assert.NotEmpty(t, ck.Value)
	assert.True(t, ck.HttpOnly)

	claims, err := utils.ParseSessionToken(testCfg.JWTSecret, ck.Value)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), claims.UserID)
	assert.True(t, claims.IsAdmin)
}

func TestLogoutClearsSessionCookie(t *testing.T) {
	h, _ := newUserHandler(t)
	c, rec := jsonContext(t, http.MethodPost, "/api/users/logout", "")
	require.NoError(t, h.Logout(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Logged out successfully")

	ck := sessionCookie(rec)
	require.NotNil(t, ck)
	assert.Equal(t, "", ck.Value)
	assert.True(t, ck.Expires.Before(time.Now()), "cookie expiry must be in the past")
}

func TestRegisterMissingInputs(t *testing.T) {
	h, _ := newUserHandler(t)
	c, rec := jsonContext(t, http.MethodPost, "/api/users", `{"email":"x@example.com"}`)
	require.NoError(t, h.Register(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Please fill all the inputs.")
}

func TestRegisterDuplicateEmail(t *testing.T) {
	h, mock := newUserHandler(t)
	mock.ExpectExec("INSERT INTO users").
		WillReturnError(errors.New("Error 1062 (23000): Duplicate entry"))

	c, rec := jsonContext(t, http.MethodPost, "/api/users",
		`{"username":"alice","email":"alice@example.com","password":"pw"}`)
	require.NoError(t, h.Register(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "User already exists")
}

func TestRegisterSuccess(t *testing.T) {
	h, mock := newUserHandler(t)
	mock.ExpectExec("INSERT INTO users").WillReturnResult(sqlmock.NewResult(1, 1))

	c, rec := jsonContext(t, http.MethodPost, "/api/users",
		`{"username":"alice","email":"alice@example.com","password":"pw"}`)
	require.NoError(t, h.Register(c))

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"username":"alice"`)
	assert.Contains(t, rec.Body.String(), `"is_admin":false`)
	assert.NotContains(t, rec.Body.String(), "password")

	ck := sessionCookie(rec)
	require.NotNil(t, ck, "registration must log the user in")
	assert.NotEmpty(t, ck.Value)
}

func TestDeleteUserNotFound(t *testing.T) {
	h, mock := newUserHandler(t)
	mock.ExpectQuery("FROM users WHERE id=").WillReturnError(sql.ErrNoRows)

	c, rec := jsonContext(t, http.MethodDelete, "/api/users/9", "")
	c.SetParamNames("id")
	c.SetParamValues("9")
	require.NoError(t, h.DeleteUser(c))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "User not found")
}

func TestDeleteUserRefusesAdmin(t *testing.T) {
	h, mock := newUserHandler(t)
	hash, err := utils.HashPassword("pw", bcrypt.MinCost)
	require.NoError(t, err)
	mock.ExpectQuery("FROM users WHERE id=").WillReturnRows(userRow(hash, true))

	c, rec := jsonContext(t, http.MethodDelete, "/api/users/1", "")
	c.SetParamNames("id")
	c.SetParamValues("1")
	require.NoError(t, h.DeleteUser(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Cannot delete admin user")
}
