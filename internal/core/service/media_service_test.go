package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diecastgarage/storefront/internal/core/ports"
)

type recordingBlobs struct {
	path, contentType, body string
	err                     error
}

func (b *recordingBlobs) Upload(_ context.Context, path, contentType string, body io.Reader) (ports.BlobRef, error) {
	if b.err != nil {
		return ports.BlobRef{}, b.err
	}
	raw, _ := io.ReadAll(body)
	b.path, b.contentType, b.body = path, contentType, string(raw)
	return ports.BlobRef{Bucket: "media", Path: path}, nil
}

func (b *recordingBlobs) PublicURL(ref ports.BlobRef) string {
	return "https://cdn.example.com/" + ref.Path
}

func TestMediaService_UploadProductImage(t *testing.T) {
	blobs := &recordingBlobs{}
	svc := NewMediaService(blobs, zerolog.Nop())

	url, err := svc.UploadProductImage(context.Background(), "camaro.png", "Image/PNG; charset=binary", strings.NewReader("png"))

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(blobs.path, "products/"))
	assert.True(t, strings.HasSuffix(blobs.path, ".png"))
	assert.Equal(t, "image/png", blobs.contentType)
	assert.Equal(t, "png", blobs.body)
	assert.Equal(t, "https://cdn.example.com/"+blobs.path, url)
}

func TestMediaService_RejectsNonImages(t *testing.T) {
	svc := NewMediaService(&recordingBlobs{}, zerolog.Nop())

	_, err := svc.UploadProductImage(context.Background(), "notes.txt", "text/plain", strings.NewReader("x"))

	assert.ErrorIs(t, err, ErrUnsupportedMedia)
}

func TestMediaService_Disabled(t *testing.T) {
	svc := NewMediaService(nil, zerolog.Nop())

	_, err := svc.UploadProductImage(context.Background(), "a.png", "image/png", strings.NewReader("x"))

	assert.ErrorIs(t, err, ErrStorageDisabled)
}

func TestMediaService_BackendError(t *testing.T) {
	boom := errors.New("bucket gone")
	svc := NewMediaService(&recordingBlobs{err: boom}, zerolog.Nop())

	_, err := svc.UploadProductImage(context.Background(), "a.png", "image/png", strings.NewReader("x"))

	assert.ErrorIs(t, err, boom)
}
