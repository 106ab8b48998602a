// Package s3 stores uploaded media in an S3-compatible bucket.
package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/diecastgarage/storefront/internal/core/ports"
)

// Config selects the bucket. Endpoint targets an S3-compatible server such
// as LocalStack or MinIO and switches to path-style addressing.
type Config struct {
	Bucket        string
	Region        string
	Endpoint      string
	PublicBaseURL string
}

// Storage implements ports.BlobStorage on S3.
type Storage struct {
	client  *s3.Client
	bucket  string
	baseURL string
}

// New loads the default AWS credential chain and builds the client.
func New(ctx context.Context, cfg Config) (*Storage, error) {
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, errors.New("s3: bucket is empty")
	}

	var loadOpts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(cfg.Region))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = sdkaws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	baseURL := strings.TrimRight(cfg.PublicBaseURL, "/")
	if baseURL == "" {
		if cfg.Endpoint != "" {
			baseURL = strings.TrimRight(cfg.Endpoint, "/") + "/" + cfg.Bucket
		} else {
			baseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, awsCfg.Region)
		}
	}

	return &Storage{client: client, bucket: cfg.Bucket, baseURL: baseURL}, nil
}

// Upload puts the object. Non-seekable bodies are buffered so the request
// can be signed.
func (s *Storage) Upload(ctx context.Context, path, contentType string, body io.Reader) (ports.BlobRef, error) {
	rs, ok := body.(io.ReadSeeker)
	if !ok {
		buf, err := io.ReadAll(body)
		if err != nil {
			return ports.BlobRef{}, fmt.Errorf("read upload: %w", err)
		}
		rs = bytes.NewReader(buf)
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      sdkaws.String(s.bucket),
		Key:         sdkaws.String(path),
		Body:        rs,
		ContentType: sdkaws.String(contentType),
	})
	if err != nil {
		return ports.BlobRef{}, fmt.Errorf("put object %s: %w", path, err)
	}
	return ports.BlobRef{Bucket: s.bucket, Path: path}, nil
}

func (s *Storage) PublicURL(ref ports.BlobRef) string {
	return s.baseURL + "/" + strings.TrimLeft(ref.Path, "/")
}

// Ping checks that the bucket is reachable.
func (s *Storage) Ping(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: sdkaws.String(s.bucket)})
	return err
}

var _ ports.BlobStorage = (*Storage)(nil)
