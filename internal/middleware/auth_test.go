package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kevinzain29/movie-catalog-api/internal/utils"
)

const testSecret = "middleware-test-secret"

// invoke runs the given middleware chain against a request carrying the
// optional session cookie and returns the recorder.
func invoke(t *testing.T, cookie string, mws ...echo.MiddlewareFunc) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: utils.TokenCookieName, Value: cookie})
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := func(c echo.Context) error { return c.String(http.StatusOK, "reached") }
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	require.NoError(t, h(c))
	return rec
}

func TestAuthenticateMissingCookie(t *testing.T) {
	rec := invoke(t, "", Authenticate(testSecret))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Not authorized, no token")
}

func TestAuthenticateBadToken(t *testing.T) {
	rec := invoke(t, "junk-token", Authenticate(testSecret))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Not authorized, token failed")
}

func TestAuthenticateExpiredToken(t *testing.T) {
	token, _, err := utils.NewSessionToken(testSecret, 5, false, -1)
	require.NoError(t, err)
	rec := invoke(t, token, Authenticate(testSecret))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticateValidToken(t *testing.T) {
	token, _, err := utils.NewSessionToken(testSecret, 5, false, 1)
	require.NoError(t, err)
	rec := invoke(t, token, Authenticate(testSecret))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "reached", rec.Body.String())
}

func TestRequireAdminForbidsNonAdmin(t *testing.T) {
	token, _, err := utils.NewSessionToken(testSecret, 5, false, 1)
	require.NoError(t, err)
	rec := invoke(t, token, Authenticate(testSecret), RequireAdmin())
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "Not authorized as an admin")
}

func TestRequireAdminAllowsAdmin(t *testing.T) {
	token, _, err := utils.NewSessionToken(testSecret, 5, true, 1)
	require.NoError(t, err)
	rec := invoke(t, token, Authenticate(testSecret), RequireAdmin())
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireAdminWithoutAuthenticate(t *testing.T) {
	// No identity in context at all: still a 403, never a panic.
	rec := invoke(t, "", RequireAdmin())
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
