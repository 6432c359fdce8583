package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
)

// ErrNotConfigured is returned when object storage is required but no bucket
// was configured.
var ErrNotConfigured = errors.New("storage service not configured")

// UploadOptions conveys upload destination metadata.
type UploadOptions struct {
	Bucket      string
	Key         string
	ContentType string
}

// Service stores product media in remote object storage.
type Service interface {
	// Upload writes body under opts.Key and returns its s3:// location.
	Upload(ctx context.Context, body io.Reader, opts UploadOptions) (string, error)
	DeleteObject(ctx context.Context, bucket, key string) error
	GetObjectURL(ctx context.Context, bucket, key string, expires time.Duration) (string, error)
}

// Location formats an s3:// URI.
func Location(bucket, key string) string {
	return fmt.Sprintf("s3://%s/%s", bucket, strings.TrimPrefix(key, "/"))
}

// ParseLocation splits an s3:// URI into bucket and key.
func ParseLocation(location string) (bucket, key string, err error) {
	if !strings.HasPrefix(location, "s3://") {
		return "", "", fmt.Errorf("invalid s3 location")
	}
	rest := strings.TrimPrefix(location, "s3://")
	parts := strings.SplitN(rest, "/", 2)
	if parts[0] == "" {
		return "", "", fmt.Errorf("invalid s3 location")
	}
	if len(parts) == 1 || strings.TrimPrefix(parts[1], "/") == "" {
		return "", "", fmt.Errorf("s3 key missing")
	}
	return parts[0], strings.TrimPrefix(parts[1], "/"), nil
}
