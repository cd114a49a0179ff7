package firebase

import (
	"context"
	"fmt"

	"cloud.google.com/go/storage"
)

const publicBaseURL = "https://storage.googleapis.com"

// BucketStore writes objects into a Cloud Storage bucket.
type BucketStore struct {
	bucket *storage.BucketHandle
	name   string
}

func NewBucketStore(bucket *storage.BucketHandle, name string) *BucketStore {
	return &BucketStore{bucket: bucket, name: name}
}

// Put uploads data to path. Existing objects are overwritten.
func (s *BucketStore) Put(ctx context.Context, path, contentType, cacheControl string, data []byte) error {
	w := s.bucket.Object(path).NewWriter(ctx)
	w.ContentType = contentType
	w.CacheControl = cacheControl

	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return fmt.Errorf("write object %s: %w", path, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close object %s: %w", path, err)
	}
	return nil
}

// PublicURL returns the unauthenticated URL for path.
func (s *BucketStore) PublicURL(path string) string {
	return fmt.Sprintf("%s/%s/%s", publicBaseURL, s.name, path)
}
