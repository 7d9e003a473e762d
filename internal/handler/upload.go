package handler

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Kevinzain29/movie-catalog-api/internal/config"
)

// uploadField is the multipart form field the frontend posts the poster
// image under.  It also prefixes the stored filename.
const uploadField = "image"

// allowedImageTypes maps each accepted extension to the MIME type that
// must accompany it.  An extension outside this map, a MIME type outside
// its values, or a mismatch between the two all reject the upload.
var allowedImageTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
}

// UploadHandler stores poster images on the local filesystem and returns
// the relative path movies reference them by.
type UploadHandler struct {
	Cfg config.Config
}

func NewUploadHandler(cfg config.Config) *UploadHandler {
	return &UploadHandler{Cfg: cfg}
}

// UploadImage accepts a single multipart image and writes it to the
// upload directory under a collision-free name built from the field name,
// the current timestamp and the original extension.  No size limits,
// scanning or re-encoding happen here.
func (h *UploadHandler) UploadImage(c echo.Context) error {
	fh, err := c.FormFile(uploadField)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "No image file provided"})
	}

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	wantMime, ok := allowedImageTypes[ext]
	if !ok || fh.Header.Get("Content-Type") != wantMime {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Images only"})
	}

	if err := os.MkdirAll(h.Cfg.UploadDir, 0o755); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "upload dir unavailable"})
	}

	name := fmt.Sprintf("%s-%d%s", uploadField, time.Now().UnixMilli(), ext)
	dstPath := filepath.Join(h.Cfg.UploadDir, name)

	src, err := fh.Open()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "read upload failed"})
	}
	defer src.Close()

	dst, err := os.Create(dstPath)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "store upload failed"})
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "store upload failed"})
	}

	// The public path is the static route prefix plus the generated name,
	// never the on-disk path: an absolute upload dir must not leak into
	// the URL.
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Image uploaded successfully",
		"image":   path.Join("/", filepath.Base(h.Cfg.UploadDir), name),
	})
}
