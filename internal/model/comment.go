package model

// Comment links a post acting as a comment body to the post it comments on.
type Comment struct {
	PostID    int64 `db:"post_id" json:"post_id"`         // the comment body
	PostForID int64 `db:"post_for_id" json:"post_for_id"` // the parent
}

// CreateCommentRequest carries the text fields of a new comment body.
type CreateCommentRequest struct {
	PostTitle string `json:"post_title"`
	PostText  string `json:"post_text"`
}

// CommentThread is a parent post's view plus the views of its comments in
// insertion order. Comments is nil when the caller asked to hide them.
type CommentThread struct {
	MainPost PostView   `json:"main_post"`
	Comments []PostView `json:"comments,omitempty"`
}
