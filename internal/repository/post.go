package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"corkboard/internal/model"
)

type postRepository struct {
	db *sqlx.DB
}

func NewPostRepository(db *sqlx.DB) PostRepository {
	return &postRepository{db: db}
}

// Create inserts a new post row and returns the generated id. Both top-level
// posts and comment bodies go through here.
func (r *postRepository) Create(ctx context.Context, tx *sqlx.Tx, userID int64, title, text string, imagePath *string) (int64, error) {
	var postID int64
	query := `
		INSERT INTO posts (post_title, post_text, user_id, post_image)
		VALUES ($1, $2, $3, $4)
		RETURNING post_id
	`
	err := tx.GetContext(ctx, &postID, query, title, text, userID, imagePath)
	if err != nil {
		return 0, fmt.Errorf("insert post: %w", err)
	}
	return postID, nil
}

// ListPosts returns a page of post views ordered by post_id ascending.
// Counts come back as 0, never null; user_liked is the viewer's like id or
// null for anonymous viewers and unliked posts.
func (r *postRepository) ListPosts(ctx context.Context, viewerUserID *int64, limit, page int) ([]model.PostView, error) {
	query := `
		WITH like_counts AS (
			SELECT post_id, COUNT(*) AS num_likes
			FROM likes
			GROUP BY post_id
		), comment_counts AS (
			SELECT post_for_id, COUNT(*) AS number_comments
			FROM comments
			GROUP BY post_for_id
		)
		SELECT p.post_id, p.post_title, p.post_text, p.user_id, p.post_image,
		       COALESCE(lc.num_likes, 0) AS num_likes,
		       vl.like_id AS user_liked,
		       COALESCE(cc.number_comments, 0) AS number_comments
		FROM posts p
		LEFT JOIN like_counts lc ON lc.post_id = p.post_id
		LEFT JOIN comment_counts cc ON cc.post_for_id = p.post_id
		LEFT JOIN likes vl ON vl.post_id = p.post_id AND vl.user_id = $1
		ORDER BY p.post_id
		LIMIT $2 OFFSET $3
	`
	posts := []model.PostView{}
	err := r.db.SelectContext(ctx, &posts, query, viewerUserID, limit, limit*page)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return posts, nil
}

// GetPost returns a single post view with the same aggregation as ListPosts.
func (r *postRepository) GetPost(ctx context.Context, postID int64, viewerUserID *int64) (*model.PostView, error) {
	query := `
		WITH like_counts AS (
			SELECT post_id, COUNT(*) AS num_likes
			FROM likes
			GROUP BY post_id
		), comment_counts AS (
			SELECT post_for_id, COUNT(*) AS number_comments
			FROM comments
			GROUP BY post_for_id
		)
		SELECT p.post_id, p.post_title, p.post_text, p.user_id, p.post_image,
		       COALESCE(lc.num_likes, 0) AS num_likes,
		       vl.like_id AS user_liked,
		       COALESCE(cc.number_comments, 0) AS number_comments
		FROM posts p
		LEFT JOIN like_counts lc ON lc.post_id = p.post_id
		LEFT JOIN comment_counts cc ON cc.post_for_id = p.post_id
		LEFT JOIN likes vl ON vl.post_id = p.post_id AND vl.user_id = $2
		WHERE p.post_id = $1
	`
	var post model.PostView
	err := r.db.GetContext(ctx, &post, query, postID, viewerUserID)
	if err == sql.ErrNoRows {
		return nil, model.ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get post: %w", err)
	}
	return &post, nil
}

// ToggleLike deletes the like if present, otherwise inserts it. Runs in a
// transaction; the unique (user_id, post_id) constraint keeps concurrent
// toggles from producing duplicate rows.
func (r *postRepository) ToggleLike(ctx context.Context, userID, postID int64) (bool, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `DELETE FROM likes WHERE user_id = $1 AND post_id = $2`, userID, postID)
	if err != nil {
		return false, fmt.Errorf("delete like: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("get rows affected: %w", err)
	}

	liked := false
	if rows == 0 {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO likes (user_id, post_id)
			VALUES ($1, $2)
			ON CONFLICT (user_id, post_id) DO NOTHING
		`, userID, postID)
		if err != nil {
			if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
				return false, model.ErrPostNotFound
			}
			return false, fmt.Errorf("insert like: %w", err)
		}
		liked = true
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit transaction: %w", err)
	}
	return liked, nil
}

// Exists checks if a post exists.
func (r *postRepository) Exists(ctx context.Context, postID int64) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM posts WHERE post_id = $1)`, postID)
	if err != nil {
		return false, fmt.Errorf("check post exists: %w", err)
	}
	return exists, nil
}
