package database

import (
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
)

// Schema statements are idempotent so Migrate can run on every startup.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		user_id       BIGSERIAL PRIMARY KEY,
		username      TEXT NOT NULL UNIQUE,
		salt          TEXT NOT NULL,
		hash_password TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS posts (
		post_id    BIGSERIAL PRIMARY KEY,
		post_title TEXT NOT NULL,
		post_text  TEXT NOT NULL,
		user_id    BIGINT NOT NULL REFERENCES users(user_id),
		post_image TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS likes (
		like_id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL REFERENCES users(user_id),
		post_id BIGINT NOT NULL REFERENCES posts(post_id),
		UNIQUE (user_id, post_id)
	)`,
	`CREATE TABLE IF NOT EXISTS comments (
		post_id     BIGINT NOT NULL REFERENCES posts(post_id),
		post_for_id BIGINT NOT NULL REFERENCES posts(post_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_likes_post_id ON likes(post_id)`,
	`CREATE INDEX IF NOT EXISTS idx_comments_post_for_id ON comments(post_for_id)`,
}

// Migrate creates the schema if it does not exist.
func Migrate(db *sqlx.DB) error {
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	log.Println("Database schema up to date")
	return nil
}
