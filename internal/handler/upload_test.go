package handler

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kevinzain29/movie-catalog-api/internal/config"
)

// multipartImage builds a multipart body with a single file part carrying
// an explicit Content-Type, the way browsers send uploads.
func multipartImage(t *testing.T, field, filename, mimeType string) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	hdr := textproto.MIMEHeader{}
	hdr.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+filename+`"`)
	hdr.Set("Content-Type", mimeType)
	part, err := w.CreatePart(hdr)
	require.NoError(t, err)
	_, err = part.Write([]byte("fake image bytes"))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf, w.FormDataContentType()
}

func uploadRequest(t *testing.T, dir string, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := NewUploadHandler(config.Config{Env: "dev", UploadDir: dir})
	require.NoError(t, h.UploadImage(c))
	return rec
}

func TestUploadImageAcceptsPNG(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	body, ct := multipartImage(t, "image", "poster.png", "image/png")
	rec := uploadRequest(t, dir, body, ct)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Image uploaded successfully")
	assert.Contains(t, rec.Body.String(), `"image":"/uploads/image-`)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, strings.HasPrefix(entries[0].Name(), "image-"))
	assert.True(t, strings.HasSuffix(entries[0].Name(), ".png"))
}

func TestUploadImagePublicPathHidesUploadDir(t *testing.T) {
	// An absolute upload dir must not leak into the returned URL; the
	// public path is the static prefix (the dir's base name) plus the
	// generated filename.
	dir := filepath.Join(t.TempDir(), "posters")
	body, ct := multipartImage(t, "image", "poster.jpg", "image/jpeg")
	rec := uploadRequest(t, dir, body, ct)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"image":"/posters/image-`)
	assert.NotContains(t, rec.Body.String(), dir)
	assert.NotContains(t, rec.Body.String(), `"image":"//`)
}

func TestUploadImageRejectsGifWithSpoofedMime(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	body, ct := multipartImage(t, "image", "poster.gif", "image/png")
	rec := uploadRequest(t, dir, body, ct)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Images only")

	// Nothing must be written on rejection.
	_, err := os.ReadDir(dir)
	assert.True(t, os.IsNotExist(err))
}

func TestUploadImageRejectsMimeMismatch(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	body, ct := multipartImage(t, "image", "poster.png", "image/webp")
	rec := uploadRequest(t, dir, body, ct)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Images only")
}

func TestUploadImageMissingFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	require.NoError(t, w.WriteField("other", "value"))
	require.NoError(t, w.Close())

	rec := uploadRequest(t, dir, buf, w.FormDataContentType())
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "No image file provided")
}
