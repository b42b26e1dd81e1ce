package model

// Like represents a user's like on a post, unique per (user, post) pair.
type Like struct {
	LikeID int64 `db:"like_id" json:"like_id"`
	UserID int64 `db:"user_id" json:"user_id"`
	PostID int64 `db:"post_id" json:"post_id"`
}

// LikeResult reports the state a like toggle converged to.
type LikeResult struct {
	Liked bool `json:"liked"`
}
