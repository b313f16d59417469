package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// presignTTL is how long presigned GET URLs stay valid.
const presignTTL = time.Hour

// defaultEndpoint is used when S3_ENDPOINT is not set.
const defaultEndpoint = "s3.amazonaws.com"

// MinioStore stores objects in an S3-compatible bucket.
type MinioStore struct {
	client     *minio.Client
	bucket     string
	publicBase string
}

var _ ObjectStore = (*MinioStore)(nil)

// NewMinioStore connects to the configured S3-compatible endpoint.
func NewMinioStore(opts Options) (*MinioStore, error) {
	host, secure, err := parseEndpoint(opts.Endpoint)
	if err != nil {
		return nil, err
	}

	client, err := minio.New(host, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: secure,
		Region: opts.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("storage: %w", err)
	}

	return &MinioStore{
		client:     client,
		bucket:     opts.Bucket,
		publicBase: opts.PublicBase,
	}, nil
}

// Upload stores an object under the given key.
func (s *MinioStore) Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	_, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("storage: upload %s: %w", key, err)
	}
	return nil
}

// Delete removes an object from the bucket.
func (s *MinioStore) Delete(ctx context.Context, key string) error {
	err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("storage: delete %s: %w", key, err)
	}
	return nil
}

// ResolveURL turns a stored key into a fetchable URL. Absolute URLs pass
// through. With a public base configured the key is joined onto it,
// otherwise a presigned GET URL is generated. If presigning fails the key
// is returned unchanged.
func (s *MinioStore) ResolveURL(ctx context.Context, key string) string {
	if key == "" {
		return ""
	}
	if strings.HasPrefix(key, "http") {
		return key
	}
	if s.publicBase != "" {
		return joinURL(s.publicBase, key)
	}

	u, err := s.client.PresignedGetObject(ctx, s.bucket, key, presignTTL, url.Values{})
	if err != nil {
		return key
	}
	return u.String()
}

// Enabled reports whether uploads can succeed.
func (s *MinioStore) Enabled() bool {
	return true
}

// parseEndpoint splits an endpoint like "https://minio.example.com:9000"
// into the host form minio-go expects plus a TLS flag. Endpoints without
// a scheme are assumed secure. An empty endpoint means AWS S3.
func parseEndpoint(endpoint string) (host string, secure bool, err error) {
	if endpoint == "" {
		return defaultEndpoint, true, nil
	}
	if !strings.Contains(endpoint, "://") {
		return endpoint, true, nil
	}

	u, err := url.Parse(endpoint)
	if err != nil {
		return "", false, fmt.Errorf("storage: invalid endpoint %q: %w", endpoint, err)
	}
	if u.Host == "" {
		return "", false, fmt.Errorf("storage: invalid endpoint %q", endpoint)
	}
	return u.Host, u.Scheme != "http", nil
}

func joinURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(key, "/")
}
