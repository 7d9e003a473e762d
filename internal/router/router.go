package router // package router defines how HTTP routes are registered for the API

import (
	"path/filepath"

	"github.com/labstack/echo/v4"

	"github.com/Kevinzain29/movie-catalog-api/internal/handler"
	"github.com/Kevinzain29/movie-catalog-api/internal/middleware"
)

// RegisterRoutes registers routes that do not belong to any API group.
// Currently it exposes only a health check, used by load balancers and
// monitoring to verify the service is up.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterUsers registers the identity endpoints under /api/users.
// Registration, login and logout are public; profile routes require a
// valid session; the listing and delete routes additionally require the
// admin flag.  Login is reachable at both /auth (the path the frontend
// calls) and /login.
func RegisterUsers(e *echo.Echo, u *handler.UserHandler, jwtSecret string) {
	auth := middleware.Authenticate(jwtSecret)
	admin := middleware.RequireAdmin()

	g := e.Group("/api/users")
	g.POST("", u.Register)
	g.POST("/auth", u.Login)
	g.POST("/login", u.Login)
	g.POST("/logout", u.Logout)

	g.GET("/profile", u.GetProfile, auth)
	g.PUT("/profile", u.UpdateProfile, auth)

	g.GET("", u.ListUsers, auth, admin)
	g.DELETE("/:id", u.DeleteUser, auth, admin)
}

// RegisterCatalog registers movie and genre endpoints under /api.  Reads
// are public and wrapped by cacheMW (a pass-through when Redis is not
// configured); catalog mutations require the admin flag and review
// submission requires any authenticated user.
func RegisterCatalog(e *echo.Echo, m *handler.MovieHandler, g *handler.GenreHandler, jwtSecret string, cacheMW echo.MiddlewareFunc) {
	auth := middleware.Authenticate(jwtSecret)
	admin := middleware.RequireAdmin()

	movies := e.Group("/api/movies")
	movies.GET("", m.ListMovies, cacheMW)
	movies.GET("/new", m.GetNewMovies, cacheMW)
	movies.GET("/top", m.GetTopMovies, cacheMW)
	movies.GET("/random", m.GetRandomMovies, cacheMW)
	movies.GET("/:id", m.GetSpecificMovie, cacheMW)

	movies.POST("", m.CreateMovie, auth, admin)
	movies.PUT("/:id", m.UpdateMovie, auth, admin)
	movies.DELETE("/:id", m.DeleteMovie, auth, admin)

	movies.POST("/:id/reviews", m.AddReview, auth)

	genres := e.Group("/api/genres")
	genres.GET("", g.ListGenres, cacheMW)
	genres.GET("/:id", g.ReadGenre, cacheMW)

	genres.POST("", g.CreateGenre, auth, admin)
	genres.PUT("/:id", g.UpdateGenre, auth, admin)
	genres.DELETE("/:id", g.RemoveGenre, auth, admin)
}

// RegisterUpload registers the poster upload endpoint.  Uploads happen
// from the admin movie form, so the route sits behind the admin gate.
// The upload directory is served statically under its base name, so the
// paths the upload handler returns resolve regardless of where the
// directory lives on disk.
func RegisterUpload(e *echo.Echo, u *handler.UploadHandler, jwtSecret string, uploadDir string) {
	e.POST("/api/upload", u.UploadImage, middleware.Authenticate(jwtSecret), middleware.RequireAdmin())
	e.Static("/"+filepath.Base(uploadDir), uploadDir)
}
