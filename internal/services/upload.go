package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gabriel-vasile/mimetype"
)

const (
	// MaxUploadSize is the largest accepted upload in bytes.
	MaxUploadSize = 5 << 20

	BucketAvatars    = "avatars"
	BucketPostImages = "post-images"
	BucketCovers     = "covers"

	uploadCacheControl = "public, max-age=3600"
)

var ErrStorageUnavailable = errors.New("object storage not configured")

var uploadBuckets = map[string]bool{
	BucketAvatars:    true,
	BucketPostImages: true,
	BucketCovers:     true,
}

var uploadTypes = []struct {
	mime string
	ext  string
}{
	{"image/jpeg", "jpg"},
	{"image/png", "png"},
	{"image/gif", "gif"},
	{"image/webp", "webp"},
}

// ObjectStore writes public objects.
type ObjectStore interface {
	Put(ctx context.Context, path, contentType, cacheControl string, data []byte) error
	PublicURL(path string) string
}

type Upload struct {
	Bucket      string `json:"bucket"`
	Path        string `json:"path"`
	URL         string `json:"url"`
	ContentType string `json:"content_type"`
	Size        int    `json:"size"`
}

type UploadService struct {
	store ObjectStore
	now   func() time.Time
}

// NewUploadService accepts a nil store; uploads then fail with
// ErrStorageUnavailable.
func NewUploadService(store ObjectStore) *UploadService {
	return &UploadService{store: store, now: time.Now}
}

// Upload stores an image under <bucket>/<user id>/<unix millis>.<ext>. The
// type is sniffed from the content, not taken from the client.
func (s *UploadService) Upload(ctx context.Context, userID uint, bucket string, data []byte) (*Upload, error) {
	if err := requireViewer(userID); err != nil {
		return nil, err
	}
	if !uploadBuckets[bucket] {
		return nil, fmt.Errorf("%q: %w", bucket, ErrUnknownBucket)
	}
	if len(data) > MaxUploadSize {
		return nil, ErrFileTooLarge
	}

	mt := mimetype.Detect(data)
	ext := ""
	for _, t := range uploadTypes {
		if mt.Is(t.mime) {
			ext = t.ext
			break
		}
	}
	if ext == "" {
		return nil, fmt.Errorf("%s: %w", mt.String(), ErrUnsupportedType)
	}
	if s.store == nil {
		return nil, ErrStorageUnavailable
	}

	path := fmt.Sprintf("%s/%d/%d.%s", bucket, userID, s.now().UnixMilli(), ext)
	if err := s.store.Put(ctx, path, mt.String(), uploadCacheControl, data); err != nil {
		return nil, fmt.Errorf("upload %s: %w", path, err)
	}
	return &Upload{Bucket: bucket, Path: path, URL: s.store.PublicURL(path), ContentType: mt.String(), Size: len(data)}, nil
}
