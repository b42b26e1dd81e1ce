package model

import "errors"

// Post represents a stored post row. Comment bodies live in the same table
// and id-space as top-level posts.
type Post struct {
	PostID    int64   `db:"post_id" json:"post_id"`
	PostTitle string  `db:"post_title" json:"post_title"`
	PostText  string  `db:"post_text" json:"post_text"`
	UserID    int64   `db:"user_id" json:"user_id"`
	PostImage *string `db:"post_image" json:"post_image"`
}

// PostView is the read model of a post: the row plus derived like/comment
// counts and the viewer's own like id, if any.
type PostView struct {
	PostID         int64   `db:"post_id" json:"post_id"`
	PostTitle      string  `db:"post_title" json:"post_title"`
	PostText       string  `db:"post_text" json:"post_text"`
	UserID         int64   `db:"user_id" json:"user_id"`
	PostImage      *string `db:"post_image" json:"post_image"`
	NumLikes       int     `db:"num_likes" json:"num_likes"`
	UserLiked      *int64  `db:"user_liked" json:"user_liked"`
	NumberComments int     `db:"number_comments" json:"number_comments"`
}

// PostsResponse wraps a page of post views.
type PostsResponse struct {
	Posts []PostView `json:"posts"`
}

// CreatePostRequest carries the text fields of a new post. The image, when
// present, arrives as a separate multipart file.
type CreatePostRequest struct {
	PostTitle string `json:"post_title"`
	PostText  string `json:"post_text"`
}

// CreatePostResponse returns the generated id of a new post or comment body.
type CreatePostResponse struct {
	PostID int64 `json:"post_id"`
}

// Post content bounds
const (
	MaxPostTitleLength = 200
	MaxPostTextLength  = 5000
)

// Post errors
var (
	ErrPostNotFound  = errors.New("post not found")
	ErrTitleRequired = errors.New("post title is required")
	ErrTextRequired  = errors.New("post text is required")
	ErrTitleTooLong  = errors.New("post title too long")
	ErrTextTooLong   = errors.New("post text too long")
)
