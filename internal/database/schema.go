package database

// schema.go bootstraps the catalog tables at startup.  Statements are
// idempotent (CREATE TABLE IF NOT EXISTS) so restarting the server against
// an existing database is safe.  Aggregate fields on movies (rating,
// num_reviews) are derived from the reviews table and recomputed by the
// repository on every review mutation.

import (
	"context"
	"database/sql"
	"time"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		username      VARCHAR(255) NOT NULL,
		email         VARCHAR(255) NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		is_admin      TINYINT(1) NOT NULL DEFAULT 0,
		created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		UNIQUE KEY uq_users_email (email)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS genres (
		id   BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(64) NOT NULL,
		UNIQUE KEY uq_genres_name (name)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS movies (
		id          BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		title       VARCHAR(255) NOT NULL,
		genre_id    BIGINT UNSIGNED NOT NULL,
		year        INT NOT NULL DEFAULT 0,
		cast_list   JSON NULL,
		rating      DOUBLE NOT NULL DEFAULT 0,
		num_reviews INT UNSIGNED NOT NULL DEFAULT 0,
		image       VARCHAR(512) NOT NULL DEFAULT '',
		detail      TEXT NULL,
		created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		KEY idx_movies_genre (genre_id),
		CONSTRAINT fk_movies_genre FOREIGN KEY (genre_id) REFERENCES genres(id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS reviews (
		id         BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		movie_id   BIGINT UNSIGNED NOT NULL,
		user_id    BIGINT UNSIGNED NOT NULL,
		name       VARCHAR(255) NOT NULL,
		rating     DOUBLE NOT NULL,
		comment    TEXT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		KEY idx_reviews_movie (movie_id),
		CONSTRAINT fk_reviews_movie FOREIGN KEY (movie_id) REFERENCES movies(id) ON DELETE CASCADE,
		CONSTRAINT fk_reviews_user FOREIGN KEY (user_id) REFERENCES users(id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// Migrate executes the schema statements in order.  Each statement gets its
// own timeout so a wedged DDL cannot hang startup forever.
func Migrate(db *sql.DB) error {
	for _, stmt := range schemaStatements {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		_, err := db.ExecContext(ctx, stmt)
		cancel()
		if err != nil {
			return err
		}
	}
	return nil
}
