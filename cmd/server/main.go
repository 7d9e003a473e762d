package main // Entry point package

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/Kevinzain29/movie-catalog-api/internal/config"
	"github.com/Kevinzain29/movie-catalog-api/internal/database"
	"github.com/Kevinzain29/movie-catalog-api/internal/handler"
	"github.com/Kevinzain29/movie-catalog-api/internal/middleware"
	"github.com/Kevinzain29/movie-catalog-api/internal/queue"
	"github.com/Kevinzain29/movie-catalog-api/internal/repository"
	"github.com/Kevinzain29/movie-catalog-api/internal/router"
)

func main() {
	// Load .env when present; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	users := repository.NewUserRepo(db)
	genres := repository.NewGenreRepo(db)
	movies := repository.NewMovieRepo(db)

	// Redis is optional: a nil client turns the catalog cache into a
	// pass-through.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable, catalog cache disabled")
	}
	cacheMW := middleware.NewCatalogCache(config.LoadCacheConfig(), rdb)

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterUsers(e, handler.NewUserHandler(cfg, users), cfg.JWTSecret)
	router.RegisterCatalog(e, handler.NewMovieHandler(movies, genres, users), handler.NewGenreHandler(genres), cfg.JWTSecret, cacheMW)
	router.RegisterUpload(e, handler.NewUploadHandler(cfg), cfg.JWTSecret, cfg.UploadDir)

	// Background consumer that appends review events to logs/review.log.
	go func() {
		if err := queue.StartReviewConsumer(); err != nil {
			log.Printf("review consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
