package handler

import (
	"encoding/json"
	"errors"
	"log"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"corkboard/internal/httputil"
	"corkboard/internal/model"
	"corkboard/internal/service"
	"corkboard/internal/transport/http/middleware"
)

type PostHandler struct {
	postService *service.PostService
}

func NewPostHandler(postService *service.PostService) *PostHandler {
	return &PostHandler{
		postService: postService,
	}
}

// List handles GET /posts
// Returns a page of posts with like and comment counts.
func (h *PostHandler) List(w http.ResponseWriter, r *http.Request) {
	viewerID := viewerFromContext(r)

	limit := 20 // default page size
	if l := r.URL.Query().Get("limit"); l != "" {
		parsed, err := strconv.Atoi(l)
		if err != nil || parsed <= 0 {
			httputil.WriteBadRequest(w, "Invalid limit parameter")
			return
		}
		limit = parsed
	}

	page := 0
	if p := r.URL.Query().Get("page"); p != "" {
		parsed, err := strconv.Atoi(p)
		if err != nil || parsed < 0 {
			httputil.WriteBadRequest(w, "Invalid page parameter")
			return
		}
		page = parsed
	}

	posts, err := h.postService.List(r.Context(), viewerID, limit, page)
	if err != nil {
		log.Printf("[ERROR] List posts handler: err=%v", err)
		httputil.WriteInternalError(w, "Failed to get posts")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, posts)
}

// Get handles GET /posts/:postID
// Returns a single post with its like and comment counts.
func (h *PostHandler) Get(w http.ResponseWriter, r *http.Request) {
	postID, err := parsePostID(r)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid post ID")
		return
	}

	post, err := h.postService.Get(r.Context(), postID, viewerFromContext(r))
	if err != nil {
		if errors.Is(err, model.ErrPostNotFound) {
			httputil.WriteNotFound(w, "Post not found")
			return
		}
		log.Printf("[ERROR] Get post handler: post=%d err=%v", postID, err)
		httputil.WriteInternalError(w, "Failed to get post")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, post)
}

// GetThread handles GET /posts/:postID/thread
// Returns a post together with its comments. With ?hide=true only the
// main post is returned.
func (h *PostHandler) GetThread(w http.ResponseWriter, r *http.Request) {
	postID, err := parsePostID(r)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid post ID")
		return
	}

	hide := false
	if v := r.URL.Query().Get("hide"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			httputil.WriteBadRequest(w, "Invalid hide parameter")
			return
		}
		hide = parsed
	}

	thread, err := h.postService.GetThread(r.Context(), postID, viewerFromContext(r), hide)
	if err != nil {
		if errors.Is(err, model.ErrPostNotFound) {
			httputil.WriteNotFound(w, "Post not found")
			return
		}
		log.Printf("[ERROR] Get thread handler: post=%d err=%v", postID, err)
		httputil.WriteInternalError(w, "Failed to get thread")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, thread)
}

// Create handles multipart POST /posts with an optional image upload.
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	maxFormSize := int64(model.MaxImageSizeBytes) + 1024*1024 // allow form overhead
	r.Body = http.MaxBytesReader(w, r.Body, maxFormSize)
	if err := r.ParseMultipartForm(maxFormSize); err != nil {
		if errors.Is(err, http.ErrNotMultipart) {
			httputil.WriteBadRequest(w, "Content-Type must be multipart/form-data")
			return
		}
		if strings.Contains(err.Error(), "request body too large") {
			httputil.WriteBadRequest(w, "Image exceeds 5MB limit")
			return
		}
		httputil.WriteBadRequest(w, "Invalid form data")
		return
	}

	req := model.CreatePostRequest{
		PostTitle: r.FormValue("post_title"),
		PostText:  r.FormValue("post_text"),
	}

	var file multipart.File
	var header *multipart.FileHeader
	if f, hdr, err := r.FormFile("image"); err == nil {
		defer f.Close()
		file, header = f, hdr
	} else if err != http.ErrMissingFile {
		httputil.WriteBadRequest(w, "Invalid image upload")
		return
	}

	postID, err := h.postService.Create(r.Context(), userID, req, file, header)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrTitleRequired),
			errors.Is(err, model.ErrTextRequired),
			errors.Is(err, model.ErrTitleTooLong),
			errors.Is(err, model.ErrTextTooLong):
			httputil.WriteBadRequest(w, err.Error())
		case errors.Is(err, model.ErrImageTooLarge):
			httputil.WriteBadRequest(w, "Image exceeds 5MB limit")
		case errors.Is(err, model.ErrInvalidImageType):
			httputil.WriteBadRequest(w, "Unsupported image type. Allowed: jpeg, png, gif, webp")
		default:
			log.Printf("[ERROR] Create post handler: user=%d err=%v", userID, err)
			httputil.WriteInternalError(w, "Failed to create post")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, model.CreatePostResponse{PostID: postID})
}

// AddComment handles POST /posts/:postID/comments
// Creates a comment on a post for the authenticated user.
func (h *PostHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	postID, err := parsePostID(r)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid post ID")
		return
	}

	var req model.CreateCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	commentID, err := h.postService.AddComment(r.Context(), postID, userID, req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrPostNotFound):
			httputil.WriteNotFound(w, "Post not found")
		case errors.Is(err, model.ErrTitleRequired),
			errors.Is(err, model.ErrTextRequired),
			errors.Is(err, model.ErrTitleTooLong),
			errors.Is(err, model.ErrTextTooLong):
			httputil.WriteBadRequest(w, err.Error())
		default:
			log.Printf("[ERROR] Add comment handler: user=%d post=%d err=%v", userID, postID, err)
			httputil.WriteInternalError(w, "Failed to add comment")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, model.CreatePostResponse{PostID: commentID})
}

// ToggleLike handles POST /posts/:postID/like
// Likes the post if the user has not liked it, unlikes it otherwise.
func (h *PostHandler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	postID, err := parsePostID(r)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid post ID")
		return
	}

	result, err := h.postService.ToggleLike(r.Context(), userID, postID)
	if err != nil {
		if errors.Is(err, model.ErrPostNotFound) {
			httputil.WriteNotFound(w, "Post not found")
			return
		}
		log.Printf("[ERROR] Toggle like handler: user=%d post=%d err=%v", userID, postID, err)
		httputil.WriteInternalError(w, "Failed to toggle like")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, result)
}

func parsePostID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "postID"), 10, 64)
}

// viewerFromContext resolves the optional authenticated viewer used for
// per-user like status on reads.
func viewerFromContext(r *http.Request) *int64 {
	if id, ok := middleware.GetUserIDFromContext(r.Context()); ok {
		return &id
	}
	return nil
}
