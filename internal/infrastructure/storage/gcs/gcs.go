// Package gcs stores uploaded media in a Google Cloud Storage bucket.
package gcs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/diecastgarage/storefront/internal/core/ports"
)

const publicHost = "https://storage.googleapis.com"

type Config struct {
	Bucket          string
	CredentialsFile string
	PublicBaseURL   string
}

// Storage implements ports.BlobStorage on GCS.
type Storage struct {
	client  *storage.Client
	bucket  string
	baseURL string
}

func New(ctx context.Context, cfg Config) (*Storage, error) {
	bucket := strings.TrimSpace(cfg.Bucket)
	if bucket == "" {
		return nil, errors.New("gcs: bucket is empty")
	}

	var opts []option.ClientOption
	if f := strings.TrimSpace(cfg.CredentialsFile); f != "" {
		opts = append(opts, option.WithCredentialsFile(f))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("storage.NewClient: %w", err)
	}

	baseURL := strings.TrimRight(cfg.PublicBaseURL, "/")
	if baseURL == "" {
		baseURL = publicHost + "/" + bucket
	}
	return &Storage{client: client, bucket: bucket, baseURL: baseURL}, nil
}

func (s *Storage) Upload(ctx context.Context, path, contentType string, body io.Reader) (ports.BlobRef, error) {
	object := strings.TrimLeft(path, "/")

	w := s.client.Bucket(s.bucket).Object(object).NewWriter(ctx)
	w.ContentType = contentType
	w.CacheControl = "public, max-age=31536000"

	if _, err := io.Copy(w, body); err != nil {
		_ = w.Close()
		return ports.BlobRef{}, fmt.Errorf("write object %s: %w", object, err)
	}
	if err := w.Close(); err != nil {
		return ports.BlobRef{}, fmt.Errorf("close object %s: %w", object, err)
	}
	return ports.BlobRef{Bucket: s.bucket, Path: object}, nil
}

func (s *Storage) PublicURL(ref ports.BlobRef) string {
	return s.baseURL + "/" + ref.Path
}

func (s *Storage) Ping(ctx context.Context) error {
	_, err := s.client.Bucket(s.bucket).Attrs(ctx)
	if err != nil {
		return fmt.Errorf("get bucket attrs %s: %w", s.bucket, err)
	}
	return nil
}

func (s *Storage) Close() error {
	return s.client.Close()
}

var _ ports.BlobStorage = (*Storage)(nil)
