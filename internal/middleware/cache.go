package middleware

import (
    "bytes"
    "context"
    "crypto/sha1"
    "encoding/json"
    "fmt"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"

    "github.com/Kevinzain29/movie-catalog-api/internal/config"
)

// cachedResponse is the value stored in Redis per cache key.  Only the
// status and JSON body are kept; catalog responses carry no headers worth
// replaying.
type cachedResponse struct {
    Status int    `json:"status"`
    Body   []byte `json:"body"`
}

// captureWriter buffers the response body while forwarding it to the
// client, up to a configured limit.
type captureWriter struct {
    http.ResponseWriter
    status int
    buf    bytes.Buffer
    limit  int
}

func (cw *captureWriter) WriteHeader(code int) {
    cw.status = code
    cw.ResponseWriter.WriteHeader(code)
}

func (cw *captureWriter) Write(b []byte) (int, error) {
    if cw.limit <= 0 || cw.buf.Len()+len(b) <= cw.limit {
        cw.buf.Write(b)
    } else {
        // Over the limit: poison the buffer so the entry is not stored.
        cw.buf.Reset()
        cw.limit = -1
    }
    return cw.ResponseWriter.Write(b)
}

// cacheKey derives a stable Redis key from the request path and query
// string.  The concrete URL path is used, not the matched route pattern:
// on a param route like /api/movies/:id the pattern is identical for
// every id and would collapse all of them onto one cache entry.  Hashing
// keeps keys short regardless of query length.
func cacheKey(prefix string, c echo.Context) string {
    sum := sha1.Sum([]byte(c.Request().URL.Path + "?" + c.Request().URL.RawQuery))
    return fmt.Sprintf("%s:%x", prefix, sum[:])
}

// NewCatalogCache returns a middleware that serves successful GET
// responses from Redis for the configured TTL.  When caching is disabled
// or rdb is nil the middleware is a pass-through, and any Redis failure
// falls back to the database path, so the catalog stays available without
// Redis.
func NewCatalogCache(cfg config.CacheConfig, rdb *redis.Client) echo.MiddlewareFunc {
    if !cfg.Enabled || rdb == nil {
        return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
    }
    ttl := cfg.TTL
    if ttl <= 0 {
        ttl = 30 * time.Second
    }

    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            if c.Request().Method != http.MethodGet {
                return next(c)
            }

            key := cacheKey(cfg.Prefix, c)
            if raw, err := rdb.Get(c.Request().Context(), key).Bytes(); err == nil {
                var cached cachedResponse
                if json.Unmarshal(raw, &cached) == nil && cached.Status != 0 {
                    c.Response().Header().Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
                    c.Response().Header().Set("X-Cache", "HIT")
                    c.Response().WriteHeader(cached.Status)
                    _, err := c.Response().Write(cached.Body)
                    return err
                }
            }

            cw := &captureWriter{ResponseWriter: c.Response().Writer, status: http.StatusOK, limit: cfg.MaxBodyBytes}
            c.Response().Writer = cw
            c.Response().Header().Set("X-Cache", "MISS")

            if err := next(c); err != nil {
                return err
            }

            if cw.status == http.StatusOK && cw.buf.Len() > 0 {
                raw, err := json.Marshal(cachedResponse{Status: cw.status, Body: cw.buf.Bytes()})
                if err == nil {
                    // Detached context: the request may already be done.
                    _ = rdb.SetEx(context.Background(), key, raw, ttl).Err()
                }
            }
            return nil
        }
    }
}
