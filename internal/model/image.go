package model

import "errors"

const (
	MaxImageSizeBytes = 5 * 1024 * 1024 // 5MB per uploaded image
	MaxImageWidth     = 1080
	PostImageFolder   = "posts"
	PostImageExt      = ".jpg"
	ImageCacheControl = "public, max-age=31536000" // 1 year
)

// Supported image content types for upload validation
const (
	ContentTypeJPEG = "image/jpeg"
	ContentTypePNG  = "image/png"
	ContentTypeGIF  = "image/gif"
	ContentTypeWebP = "image/webp"
)

var allowedImageTypes = map[string]struct{}{
	ContentTypeJPEG: {},
	ContentTypePNG:  {},
	ContentTypeGIF:  {},
	ContentTypeWebP: {},
}

// Domain errors for image uploads
var (
	ErrImageTooLarge    = errors.New("image too large")
	ErrInvalidImageType = errors.New("invalid image type")
)

// UploadResult represents the stored object location.
// URL is the public-facing path recorded on the post row.
// Key is the object key inside the bucket (useful for future deletes).
type UploadResult struct {
	URL string `json:"url"`
	Key string `json:"key"`
}

// IsAllowedImageType reports if the provided content type is supported
func IsAllowedImageType(contentType string) bool {
	_, ok := allowedImageTypes[contentType]
	return ok
}
