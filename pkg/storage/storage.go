// Package storage provides object storage for event images.
//
// The MinIO-backed store speaks to any S3-compatible endpoint. When no
// bucket is configured the server falls back to a disabled store so the
// API keeps working without image uploads.
package storage

import (
	"context"
	"errors"
	"io"
)

// ErrDisabled is returned by Upload when no object storage is configured.
var ErrDisabled = errors.New("object storage is not configured")

// ObjectStore stores and serves uploaded objects.
type ObjectStore interface {
	// Upload stores an object under the given key.
	Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) error

	// Delete removes an object. Deleting a missing object is not an error.
	Delete(ctx context.Context, key string) error

	// ResolveURL turns a stored key into a URL a client can fetch. Keys
	// that are already absolute URLs pass through unchanged.
	ResolveURL(ctx context.Context, key string) string

	// Enabled reports whether uploads can succeed.
	Enabled() bool
}

// Options configures the object store.
type Options struct {
	Endpoint   string
	Bucket     string
	AccessKey  string
	SecretKey  string
	Region     string
	PublicBase string
}

// New returns a MinIO-backed store, or a disabled store when no bucket
// is configured.
func New(opts Options) (ObjectStore, error) {
	if opts.Bucket == "" {
		return Disabled{}, nil
	}
	return NewMinioStore(opts)
}

// Disabled is an ObjectStore that accepts no uploads.
type Disabled struct{}

func (Disabled) Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	return ErrDisabled
}

func (Disabled) Delete(ctx context.Context, key string) error {
	return nil
}

func (Disabled) ResolveURL(ctx context.Context, key string) string {
	return key
}

func (Disabled) Enabled() bool {
	return false
}
