package services

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	puts         map[string][]byte
	contentType  string
	cacheControl string
	err          error
}

func (f *fakeStore) Put(_ context.Context, path, contentType, cacheControl string, data []byte) error {
	if f.err != nil {
		return f.err
	}
	if f.puts == nil {
		f.puts = map[string][]byte{}
	}
	f.puts[path] = data
	f.contentType = contentType
	f.cacheControl = cacheControl
	return nil
}

func (f *fakeStore) PublicURL(path string) string { return "https://cdn.test/" + path }

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

func TestUploadStoresImage(t *testing.T) {
	store := &fakeStore{}
	svc := NewUploadService(store)
	svc.now = func() time.Time { return time.UnixMilli(1700000000123) }

	up, err := svc.Upload(context.Background(), 7, BucketAvatars, pngHeader)
	require.NoError(t, err)

	assert.Equal(t, "avatars/7/1700000000123.png", up.Path)
	assert.Equal(t, "https://cdn.test/avatars/7/1700000000123.png", up.URL)
	assert.Equal(t, "image/png", up.ContentType)
	assert.Equal(t, "public, max-age=3600", store.cacheControl)
	assert.Contains(t, store.puts, up.Path)
}

func TestUploadRejects(t *testing.T) {
	store := &fakeStore{}
	svc := NewUploadService(store)
	ctx := context.Background()

	_, err := svc.Upload(ctx, 7, "secrets", pngHeader)
	assert.ErrorIs(t, err, ErrUnknownBucket)

	big := append(append([]byte{}, pngHeader...), bytes.Repeat([]byte{0}, MaxUploadSize)...)
	_, err = svc.Upload(ctx, 7, BucketCovers, big)
	assert.ErrorIs(t, err, ErrFileTooLarge)

	_, err = svc.Upload(ctx, 7, BucketPostImages, []byte("%PDF-1.4 not an image"))
	assert.ErrorIs(t, err, ErrUnsupportedType)

	_, err = svc.Upload(ctx, 0, BucketAvatars, pngHeader)
	assert.ErrorIs(t, err, ErrNotAuthenticated)

	assert.Empty(t, store.puts)

	_, err = NewUploadService(nil).Upload(ctx, 7, BucketAvatars, pngHeader)
	assert.ErrorIs(t, err, ErrStorageUnavailable)

	boom := errors.New("bucket down")
	_, err = NewUploadService(&fakeStore{err: boom}).Upload(ctx, 7, BucketAvatars, pngHeader)
	assert.ErrorIs(t, err, boom)
}
