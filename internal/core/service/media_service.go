package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/diecastgarage/storefront/internal/core/ports"
)

// ErrUnsupportedMedia is returned for uploads that are not images.
var ErrUnsupportedMedia = errors.New("unsupported media type")

// ErrStorageDisabled is returned when no blob backend is configured.
var ErrStorageDisabled = errors.New("blob storage disabled")

const productImagePrefix = "products"

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// MediaService stores product images and hands back their public URL.
type MediaService struct {
	blobs  ports.BlobStorage
	logger zerolog.Logger
}

func NewMediaService(blobs ports.BlobStorage, logger zerolog.Logger) *MediaService {
	return &MediaService{blobs: blobs, logger: logger}
}

// UploadProductImage writes body under products/<uuid><ext>.
func (s *MediaService) UploadProductImage(ctx context.Context, filename, contentType string, body io.Reader) (string, error) {
	if s.blobs == nil {
		return "", ErrStorageDisabled
	}
	contentType = strings.ToLower(strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0]))
	ext, ok := imageExtensions[contentType]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedMedia, contentType)
	}

	key := path.Join(productImagePrefix, uuid.NewString()+ext)
	ref, err := s.blobs.Upload(ctx, key, contentType, body)
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", filename, err)
	}

	url := s.blobs.PublicURL(ref)
	s.logger.Info().Str("file", filename).Str("path", ref.Path).Msg("product image uploaded")
	return url, nil
}
