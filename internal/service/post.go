package service

import (
	"context"
	"fmt"
	"log"
	"mime/multipart"
	"strings"

	"github.com/jmoiron/sqlx"

	"corkboard/internal/model"
	"corkboard/internal/repository"
)

// ImageStore is the slice of the image layer PostService drives: store an
// upload, remove it again when the post row never lands.
type ImageStore interface {
	UploadPostImage(ctx context.Context, file multipart.File, header *multipart.FileHeader) (*model.UploadResult, error)
	DeleteObject(ctx context.Context, key string) error
}

type PostService struct {
	postRepo    repository.PostRepository
	commentRepo repository.CommentRepository
	images      ImageStore
	db          *sqlx.DB
}

func NewPostService(
	postRepo repository.PostRepository,
	commentRepo repository.CommentRepository,
	images ImageStore,
	db *sqlx.DB,
) *PostService {
	return &PostService{
		postRepo:    postRepo,
		commentRepo: commentRepo,
		images:      images,
		db:          db,
	}
}

// Create creates a new top-level post. The image, when present, is stored
// only after the text fields pass validation; a post that fails to land
// must not leave an object behind in the bucket.
func (s *PostService) Create(ctx context.Context, userID int64, req model.CreatePostRequest, file multipart.File, header *multipart.FileHeader) (int64, error) {
	if err := validatePostContent(req.PostTitle, req.PostText); err != nil {
		return 0, err
	}

	var imagePath *string
	var imageKey string
	if file != nil {
		upload, err := s.images.UploadPostImage(ctx, file, header)
		if err != nil {
			return 0, err
		}
		imagePath = &upload.URL
		imageKey = upload.Key
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		s.discardImage(ctx, imageKey)
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	postID, err := s.postRepo.Create(ctx, tx, userID, req.PostTitle, req.PostText, imagePath)
	if err != nil {
		s.discardImage(ctx, imageKey)
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		s.discardImage(ctx, imageKey)
		return 0, fmt.Errorf("commit transaction: %w", err)
	}

	log.Printf("[PostService] User %d created post %d", userID, postID)
	return postID, nil
}

// discardImage removes an uploaded object whose post row never landed.
// Deletion failures are logged, not returned.
func (s *PostService) discardImage(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := s.images.DeleteObject(ctx, key); err != nil {
		log.Printf("[PostService] Failed to remove image %s: %v", key, err)
	}
}

// AddComment creates the comment body post and its link to the parent in a
// single transaction, so a failure leaves neither row behind.
func (s *PostService) AddComment(ctx context.Context, parentPostID, userID int64, req model.CreateCommentRequest) (int64, error) {
	if err := validatePostContent(req.PostTitle, req.PostText); err != nil {
		return 0, err
	}

	// Verify parent exists
	exists, err := s.postRepo.Exists(ctx, parentPostID)
	if err != nil {
		return 0, fmt.Errorf("check post exists: %w", err)
	}
	if !exists {
		return 0, model.ErrPostNotFound
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	commentPostID, err := s.postRepo.Create(ctx, tx, userID, req.PostTitle, req.PostText, nil)
	if err != nil {
		return 0, err
	}

	if err := s.commentRepo.Add(ctx, tx, commentPostID, parentPostID); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit transaction: %w", err)
	}

	log.Printf("[PostService] User %d commented on post %d with post %d", userID, parentPostID, commentPostID)
	return commentPostID, nil
}

// maxListPage caps the page index so the OFFSET computed from limit*page
// cannot overflow. Pages past the end of the data come back empty anyway.
const maxListPage = 1000000

// List returns a page of post views for the viewer.
func (s *PostService) List(ctx context.Context, viewerID *int64, limit, page int) (*model.PostsResponse, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 50 {
		limit = 50
	}
	if page < 0 {
		page = 0
	}
	if page > maxListPage {
		page = maxListPage
	}

	posts, err := s.postRepo.ListPosts(ctx, viewerID, limit, page)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}

	return &model.PostsResponse{Posts: posts}, nil
}

// Get returns a single post view for the viewer.
func (s *PostService) Get(ctx context.Context, postID int64, viewerID *int64) (*model.PostView, error) {
	post, err := s.postRepo.GetPost(ctx, postID, viewerID)
	if err != nil {
		return nil, err
	}
	return post, nil
}

// GetThread returns a parent post's view plus its comments in insertion
// order. With hide set only the parent is returned.
func (s *PostService) GetThread(ctx context.Context, parentPostID int64, viewerID *int64, hide bool) (*model.CommentThread, error) {
	mainPost, err := s.postRepo.GetPost(ctx, parentPostID, viewerID)
	if err != nil {
		return nil, err
	}

	thread := &model.CommentThread{MainPost: *mainPost}
	if hide {
		return thread, nil
	}

	comments, err := s.commentRepo.ListForPost(ctx, parentPostID, viewerID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	thread.Comments = comments

	return thread, nil
}

// ToggleLike flips the user's like on a post and reports the new state.
func (s *PostService) ToggleLike(ctx context.Context, userID, postID int64) (*model.LikeResult, error) {
	// Verify post exists first
	exists, err := s.postRepo.Exists(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("check post exists: %w", err)
	}
	if !exists {
		return nil, model.ErrPostNotFound
	}

	liked, err := s.postRepo.ToggleLike(ctx, userID, postID)
	if err != nil {
		return nil, err
	}

	log.Printf("[PostService] User %d toggled like on post %d: liked=%v", userID, postID, liked)
	return &model.LikeResult{Liked: liked}, nil
}

func validatePostContent(title, text string) error {
	if strings.TrimSpace(title) == "" {
		return model.ErrTitleRequired
	}
	if strings.TrimSpace(text) == "" {
		return model.ErrTextRequired
	}
	if len(title) > model.MaxPostTitleLength {
		return model.ErrTitleTooLong
	}
	if len(text) > model.MaxPostTextLength {
		return model.ErrTextTooLong
	}
	return nil
}
