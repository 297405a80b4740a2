package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"
)

// ErrNotFound is returned by Get when the object does not exist.
var ErrNotFound = errors.New("object not found")

// Storage is the blob store behind message attachments.
type Storage interface {
	// Save stores the object at path, replacing any existing one.
	Save(ctx context.Context, path string, reader io.Reader, contentType string) error

	Get(ctx context.Context, path string) (io.ReadCloser, error)

	// Delete is idempotent: a missing object is not an error.
	Delete(ctx context.Context, path string) error

	Exists(ctx context.Context, path string) (bool, error)

	// URL returns a link clients can fetch: public for public stores, presigned otherwise.
	URL(ctx context.Context, path string) (string, error)

	// Provider names the backend, stored on each upload row.
	Provider() string
}

type Config struct {
	Type       string // local, s3, cloudflare_r2
	BasePath   string // For local storage
	BaseURL    string // Public URL base
	Bucket     string // For S3/R2
	Region     string // For S3
	AccessKey  string // For S3/R2
	SecretKey  string // For S3/R2
	Endpoint   string // For R2 or custom S3
	UseSSL     bool   // For S3/R2
	PublicRead bool   // Public URLs instead of presigned ones
	URLExpiry  time.Duration
}

func NewStorage(cfg Config) (Storage, error) {
	switch cfg.Type {
	case "local", "":
		return NewLocalStorage(cfg)
	case "s3", "cloudflare_r2":
		return NewObjectStorage(cfg)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}
