package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"corkboard/internal/model"
)

type UserRepository interface {
	Create(ctx context.Context, username, salt, hashPassword string) (int64, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
}

type PostRepository interface {
	// Create inserts a post row on the caller's transaction so post and
	// comment-link inserts can share one commit.
	Create(ctx context.Context, tx *sqlx.Tx, userID int64, title, text string, imagePath *string) (int64, error)
	ListPosts(ctx context.Context, viewerUserID *int64, limit, page int) ([]model.PostView, error)
	GetPost(ctx context.Context, postID int64, viewerUserID *int64) (*model.PostView, error)
	// ToggleLike flips the viewer's like on a post and reports the new state.
	ToggleLike(ctx context.Context, userID, postID int64) (bool, error)
	Exists(ctx context.Context, postID int64) (bool, error)
}

type CommentRepository interface {
	Add(ctx context.Context, tx *sqlx.Tx, commentPostID, parentPostID int64) error
	ListForPost(ctx context.Context, parentPostID int64, viewerUserID *int64) ([]model.PostView, error)
}
