package ports

import (
	"context"
	"io"
)

// BlobRef identifies an uploaded object.
type BlobRef struct {
	Bucket string
	Path   string
}

// BlobStorage stores product images and other uploaded files.
type BlobStorage interface {
	Upload(ctx context.Context, path, contentType string, body io.Reader) (BlobRef, error)
	PublicURL(ref BlobRef) string
}
