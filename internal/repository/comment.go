package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"corkboard/internal/model"
)

type commentRepository struct {
	db *sqlx.DB
}

func NewCommentRepository(db *sqlx.DB) CommentRepository {
	return &commentRepository{db: db}
}

// Add inserts the relationship row linking an already-created post (the
// comment body) to its parent. Parent validation is the caller's job; the
// foreign keys backstop it.
func (r *commentRepository) Add(ctx context.Context, tx *sqlx.Tx, commentPostID, parentPostID int64) error {
	query := `INSERT INTO comments (post_id, post_for_id) VALUES ($1, $2)`
	_, err := tx.ExecContext(ctx, query, commentPostID, parentPostID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			return model.ErrPostNotFound
		}
		return fmt.Errorf("insert comment: %w", err)
	}
	return nil
}

// ListForPost returns the post views of a parent's comments in insertion
// order, aggregated the same way as ListPosts.
func (r *commentRepository) ListForPost(ctx context.Context, parentPostID int64, viewerUserID *int64) ([]model.PostView, error) {
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
		FROM comments c
		JOIN posts p ON p.post_id = c.post_id
		LEFT JOIN like_counts lc ON lc.post_id = p.post_id
		LEFT JOIN comment_counts cc ON cc.post_for_id = p.post_id
		LEFT JOIN likes vl ON vl.post_id = p.post_id AND vl.user_id = $2
		WHERE c.post_for_id = $1
		ORDER BY p.post_id
	`
	comments := []model.PostView{}
	err := r.db.SelectContext(ctx, &comments, query, parentPostID, viewerUserID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return comments, nil
}
