package storage

import (
	"context"
	"strings"

	"golang.org/x/xerrors"
)

type Storage interface {
	// Put stores data with the given key and returns the storage URL
	Put(ctx context.Context, key string, data []byte) (string, error)
	// Get retrieves data from the given storage URL
	Get(ctx context.Context, url string) ([]byte, error)
}

// ForPath picks a backend for an output path and returns the backend
// together with the key to store under: s3://bucket/key paths go to S3,
// everything else to the local filesystem.
func ForPath(ctx context.Context, path string) (Storage, string, error) {
	if strings.HasPrefix(path, "s3://") {
		trimmed := strings.TrimPrefix(path, "s3://")
		bucket, key, ok := strings.Cut(trimmed, "/")
		if !ok || bucket == "" || key == "" {
			return nil, "", xerrors.Errorf("invalid S3 output path: %s", path)
		}

		s, err := NewS3Storage(ctx, S3Config{Bucket: bucket})
		if err != nil {
			return nil, "", err
		}
		return s, key, nil
	}

	s, err := NewFileStorage(ctx, FileConfig{})
	if err != nil {
		return nil, "", err
	}
	return s, path, nil
}
