// Package storage keeps raw file content. Locations are opaque path strings
// produced by the file service; Local maps them to the filesystem and S3
// maps them to object keys in one bucket.
package storage

import "context"

// Storage reads and writes whole blobs by location.
type Storage interface {
	Write(ctx context.Context, path string, data []byte) error
	// Read returns common.ErrorNotFound when nothing is stored at path.
	Read(ctx context.Context, path string) ([]byte, error)
	Exists(ctx context.Context, path string) (bool, error)
	MkdirAll(ctx context.Context, path string) error
}
