package service

import (
	"bytes"
	"context"
	"errors"
	"math"
	"mime/multipart"
	"strings"
	"testing"

	"github.com/jmoiron/sqlx"

	"corkboard/internal/model"
)

// =============================================================================
// MOCK REPOSITORIES
// =============================================================================

type mockPostRepository struct {
	createFn     func(ctx context.Context, tx *sqlx.Tx, userID int64, title, text string, imagePath *string) (int64, error)
	listPostsFn  func(ctx context.Context, viewerUserID *int64, limit, page int) ([]model.PostView, error)
	getPostFn    func(ctx context.Context, postID int64, viewerUserID *int64) (*model.PostView, error)
	toggleLikeFn func(ctx context.Context, userID, postID int64) (bool, error)
	existsFn     func(ctx context.Context, postID int64) (bool, error)

	// Track calls for assertions
	toggleLikeCalls int
	createCalls     int
}

func (m *mockPostRepository) Create(ctx context.Context, tx *sqlx.Tx, userID int64, title, text string, imagePath *string) (int64, error) {
	m.createCalls++
	if m.createFn != nil {
		return m.createFn(ctx, tx, userID, title, text, imagePath)
	}
	return 1, nil
}

func (m *mockPostRepository) ListPosts(ctx context.Context, viewerUserID *int64, limit, page int) ([]model.PostView, error) {
	if m.listPostsFn != nil {
		return m.listPostsFn(ctx, viewerUserID, limit, page)
	}
	return []model.PostView{}, nil
}

func (m *mockPostRepository) GetPost(ctx context.Context, postID int64, viewerUserID *int64) (*model.PostView, error) {
	if m.getPostFn != nil {
		return m.getPostFn(ctx, postID, viewerUserID)
	}
	return nil, model.ErrPostNotFound
}

func (m *mockPostRepository) ToggleLike(ctx context.Context, userID, postID int64) (bool, error) {
	m.toggleLikeCalls++
	if m.toggleLikeFn != nil {
		return m.toggleLikeFn(ctx, userID, postID)
	}
	return true, nil
}

func (m *mockPostRepository) Exists(ctx context.Context, postID int64) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, postID)
	}
	return true, nil
}

type mockCommentRepository struct {
	addFn         func(ctx context.Context, tx *sqlx.Tx, commentPostID, parentPostID int64) error
	listForPostFn func(ctx context.Context, parentPostID int64, viewerUserID *int64) ([]model.PostView, error)

	listForPostCalls int
}

func (m *mockCommentRepository) Add(ctx context.Context, tx *sqlx.Tx, commentPostID, parentPostID int64) error {
	if m.addFn != nil {
		return m.addFn(ctx, tx, commentPostID, parentPostID)
	}
	return nil
}

func (m *mockCommentRepository) ListForPost(ctx context.Context, parentPostID int64, viewerUserID *int64) ([]model.PostView, error) {
	m.listForPostCalls++
	if m.listForPostFn != nil {
		return m.listForPostFn(ctx, parentPostID, viewerUserID)
	}
	return []model.PostView{}, nil
}

type mockImageStore struct {
	uploadFn func(ctx context.Context, file multipart.File, header *multipart.FileHeader) (*model.UploadResult, error)

	uploadCalls int
	deletedKeys []string
}

func (m *mockImageStore) UploadPostImage(ctx context.Context, file multipart.File, header *multipart.FileHeader) (*model.UploadResult, error) {
	m.uploadCalls++
	if m.uploadFn != nil {
		return m.uploadFn(ctx, file, header)
	}
	return &model.UploadResult{URL: "https://img.example/posts/abc.jpg", Key: "posts/abc.jpg"}, nil
}

func (m *mockImageStore) DeleteObject(ctx context.Context, key string) error {
	m.deletedKeys = append(m.deletedKeys, key)
	return nil
}

// fakeUpload satisfies multipart.File for tests without a real form.
type fakeUpload struct{ *bytes.Reader }

func (fakeUpload) Close() error { return nil }

func newFakeUpload() (multipart.File, *multipart.FileHeader) {
	data := []byte("not a real image")
	return fakeUpload{bytes.NewReader(data)}, &multipart.FileHeader{Filename: "pic.png", Size: int64(len(data))}
}

// newPostService builds a service with mocks and no database or image store.
// Paths that open a transaction are covered by the repository integration
// tests.
func newPostService(postRepo *mockPostRepository, commentRepo *mockCommentRepository) *PostService {
	return NewPostService(postRepo, commentRepo, nil, nil)
}

// =============================================================================
// CONTENT VALIDATION
// =============================================================================

func TestPostService_Create_Validation(t *testing.T) {
	tests := []struct {
		name    string
		title   string
		text    string
		wantErr error
	}{
		{
			name:    "empty title",
			title:   "",
			text:    "some text",
			wantErr: model.ErrTitleRequired,
		},
		{
			name:    "whitespace title",
			title:   "   ",
			text:    "some text",
			wantErr: model.ErrTitleRequired,
		},
		{
			name:    "empty text",
			title:   "a title",
			text:    "",
			wantErr: model.ErrTextRequired,
		},
		{
			name:    "title too long",
			title:   strings.Repeat("a", model.MaxPostTitleLength+1),
			text:    "some text",
			wantErr: model.ErrTitleTooLong,
		},
		{
			name:    "text too long",
			title:   "a title",
			text:    strings.Repeat("a", model.MaxPostTextLength+1),
			wantErr: model.ErrTextTooLong,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockPosts := &mockPostRepository{}
			svc := newPostService(mockPosts, &mockCommentRepository{})

			req := model.CreatePostRequest{PostTitle: tt.title, PostText: tt.text}
			_, err := svc.Create(context.Background(), 1, req, nil, nil)

			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}

			// Validation failures must never reach the repository
			if mockPosts.createCalls != 0 {
				t.Error("Create should not be called on validation failure")
			}
		})
	}
}

func TestPostService_Create_ValidationSkipsUpload(t *testing.T) {
	store := &mockImageStore{}
	svc := NewPostService(&mockPostRepository{}, &mockCommentRepository{}, store, nil)

	file, header := newFakeUpload()
	req := model.CreatePostRequest{PostTitle: "", PostText: "some text"}
	_, err := svc.Create(context.Background(), 1, req, file, header)

	if !errors.Is(err, model.ErrTitleRequired) {
		t.Errorf("error = %v, want %v", err, model.ErrTitleRequired)
	}

	// A rejected post must never reach the bucket
	if store.uploadCalls != 0 {
		t.Error("UploadPostImage should not be called on validation failure")
	}
}

func TestPostService_Create_UploadFailureStopsInsert(t *testing.T) {
	store := &mockImageStore{
		uploadFn: func(ctx context.Context, file multipart.File, header *multipart.FileHeader) (*model.UploadResult, error) {
			return nil, model.ErrInvalidImageType
		},
	}
	mockPosts := &mockPostRepository{}
	svc := NewPostService(mockPosts, &mockCommentRepository{}, store, nil)

	file, header := newFakeUpload()
	req := model.CreatePostRequest{PostTitle: "a title", PostText: "some text"}
	_, err := svc.Create(context.Background(), 1, req, file, header)

	if !errors.Is(err, model.ErrInvalidImageType) {
		t.Errorf("error = %v, want %v", err, model.ErrInvalidImageType)
	}
	if mockPosts.createCalls != 0 {
		t.Error("Create should not be called when the upload fails")
	}
}

func TestPostService_AddComment_Validation(t *testing.T) {
	mockPosts := &mockPostRepository{}
	svc := newPostService(mockPosts, &mockCommentRepository{})

	req := model.CreateCommentRequest{PostTitle: "", PostText: "text"}
	_, err := svc.AddComment(context.Background(), 1, 1, req)

	if !errors.Is(err, model.ErrTitleRequired) {
		t.Errorf("error = %v, want %v", err, model.ErrTitleRequired)
	}
	if mockPosts.createCalls != 0 {
		t.Error("Create should not be called on validation failure")
	}
}

func TestPostService_AddComment_ParentNotFound(t *testing.T) {
	mockPosts := &mockPostRepository{
		existsFn: func(ctx context.Context, postID int64) (bool, error) {
			return false, nil
		},
	}
	svc := newPostService(mockPosts, &mockCommentRepository{})

	req := model.CreateCommentRequest{PostTitle: "reply", PostText: "hello"}
	_, err := svc.AddComment(context.Background(), 999, 1, req)

	if !errors.Is(err, model.ErrPostNotFound) {
		t.Errorf("error = %v, want %v", err, model.ErrPostNotFound)
	}
	if mockPosts.createCalls != 0 {
		t.Error("Create should not be called when the parent is missing")
	}
}

// =============================================================================
// LIST PAGINATION
// =============================================================================

func TestPostService_List_Clamps(t *testing.T) {
	tests := []struct {
		name      string
		limit     int
		page      int
		wantLimit int
		wantPage  int
	}{
		{name: "defaults applied", limit: 0, page: 0, wantLimit: 20, wantPage: 0},
		{name: "negative limit", limit: -5, page: 0, wantLimit: 20, wantPage: 0},
		{name: "limit capped", limit: 100, page: 0, wantLimit: 50, wantPage: 0},
		{name: "negative page", limit: 10, page: -1, wantLimit: 10, wantPage: 0},
		{name: "huge page capped", limit: 10, page: math.MaxInt, wantLimit: 10, wantPage: maxListPage},
		{name: "passed through", limit: 10, page: 3, wantLimit: 10, wantPage: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotLimit, gotPage int
			mockPosts := &mockPostRepository{
				listPostsFn: func(ctx context.Context, viewerUserID *int64, limit, page int) ([]model.PostView, error) {
					gotLimit, gotPage = limit, page
					return []model.PostView{}, nil
				},
			}
			svc := newPostService(mockPosts, &mockCommentRepository{})

			resp, err := svc.List(context.Background(), nil, tt.limit, tt.page)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if resp == nil {
				t.Fatal("expected response, got nil")
			}

			if gotLimit != tt.wantLimit {
				t.Errorf("limit = %d, want %d", gotLimit, tt.wantLimit)
			}
			if gotPage != tt.wantPage {
				t.Errorf("page = %d, want %d", gotPage, tt.wantPage)
			}
		})
	}
}

func TestPostService_List_PassesViewer(t *testing.T) {
	viewer := int64(7)
	var gotViewer *int64
	mockPosts := &mockPostRepository{
		listPostsFn: func(ctx context.Context, viewerUserID *int64, limit, page int) ([]model.PostView, error) {
			gotViewer = viewerUserID
			return []model.PostView{}, nil
		},
	}
	svc := newPostService(mockPosts, &mockCommentRepository{})

	if _, err := svc.List(context.Background(), &viewer, 10, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotViewer == nil || *gotViewer != viewer {
		t.Errorf("viewer = %v, want %d", gotViewer, viewer)
	}
}

// =============================================================================
// GET / THREAD
// =============================================================================

func TestPostService_Get_NotFound(t *testing.T) {
	svc := newPostService(&mockPostRepository{}, &mockCommentRepository{})

	_, err := svc.Get(context.Background(), 999, nil)

	if !errors.Is(err, model.ErrPostNotFound) {
		t.Errorf("error = %v, want %v", err, model.ErrPostNotFound)
	}
}

func TestPostService_GetThread(t *testing.T) {
	mainPost := model.PostView{PostID: 1, PostTitle: "parent", NumLikes: 2, NumberComments: 2}
	comments := []model.PostView{
		{PostID: 2, PostTitle: "first reply"},
		{PostID: 3, PostTitle: "second reply"},
	}

	newMocks := func() (*mockPostRepository, *mockCommentRepository) {
		mockPosts := &mockPostRepository{
			getPostFn: func(ctx context.Context, postID int64, viewerUserID *int64) (*model.PostView, error) {
				return &mainPost, nil
			},
		}
		mockComments := &mockCommentRepository{
			listForPostFn: func(ctx context.Context, parentPostID int64, viewerUserID *int64) ([]model.PostView, error) {
				return comments, nil
			},
		}
		return mockPosts, mockComments
	}

	t.Run("with comments", func(t *testing.T) {
		mockPosts, mockComments := newMocks()
		svc := newPostService(mockPosts, mockComments)

		thread, err := svc.GetThread(context.Background(), 1, nil, false)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if thread.MainPost.PostID != 1 {
			t.Errorf("main post id = %d, want 1", thread.MainPost.PostID)
		}
		if len(thread.Comments) != 2 {
			t.Fatalf("comments = %d, want 2", len(thread.Comments))
		}
		if thread.Comments[0].PostID != 2 || thread.Comments[1].PostID != 3 {
			t.Error("comments out of order")
		}
	})

	t.Run("hide skips comments", func(t *testing.T) {
		mockPosts, mockComments := newMocks()
		svc := newPostService(mockPosts, mockComments)

		thread, err := svc.GetThread(context.Background(), 1, nil, true)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if thread.Comments != nil {
			t.Errorf("comments = %v, want nil", thread.Comments)
		}
		if mockComments.listForPostCalls != 0 {
			t.Error("ListForPost should not be called when hiding comments")
		}
	})

	t.Run("parent not found", func(t *testing.T) {
		svc := newPostService(&mockPostRepository{}, &mockCommentRepository{})

		_, err := svc.GetThread(context.Background(), 999, nil, false)
		if !errors.Is(err, model.ErrPostNotFound) {
			t.Errorf("error = %v, want %v", err, model.ErrPostNotFound)
		}
	})
}

// =============================================================================
// TOGGLE LIKE
// =============================================================================

func TestPostService_ToggleLike(t *testing.T) {
	tests := []struct {
		name         string
		existsFn     func(ctx context.Context, postID int64) (bool, error)
		toggleLikeFn func(ctx context.Context, userID, postID int64) (bool, error)
		wantLiked    bool
		wantErr      error
		wantToggles  int
	}{
		{
			name: "like",
			toggleLikeFn: func(ctx context.Context, userID, postID int64) (bool, error) {
				return true, nil
			},
			wantLiked:   true,
			wantToggles: 1,
		},
		{
			name: "unlike",
			toggleLikeFn: func(ctx context.Context, userID, postID int64) (bool, error) {
				return false, nil
			},
			wantLiked:   false,
			wantToggles: 1,
		},
		{
			name: "post not found",
			existsFn: func(ctx context.Context, postID int64) (bool, error) {
				return false, nil
			},
			wantErr:     model.ErrPostNotFound,
			wantToggles: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockPosts := &mockPostRepository{
				existsFn:     tt.existsFn,
				toggleLikeFn: tt.toggleLikeFn,
			}
			svc := newPostService(mockPosts, &mockCommentRepository{})

			result, err := svc.ToggleLike(context.Background(), 1, 1)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("error = %v, want %v", err, tt.wantErr)
				}
			} else {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if result.Liked != tt.wantLiked {
					t.Errorf("liked = %v, want %v", result.Liked, tt.wantLiked)
				}
			}

			if mockPosts.toggleLikeCalls != tt.wantToggles {
				t.Errorf("ToggleLike called %d times, want %d", mockPosts.toggleLikeCalls, tt.wantToggles)
			}
		})
	}
}
