package storage

import (
	"context"
	"errors"
	"io"
)

var (
	ErrInvalidPath  = errors.New("invalid file path")
	ErrFileNotFound = errors.New("file not found")
)

// FileStorage keeps uploaded leave certificates.
type FileStorage interface {
	// Upload writes file under path and returns the stored relative path.
	Upload(ctx context.Context, file io.Reader, path string) (string, error)

	// Open returns the stored file for reading.
	Open(ctx context.Context, path string) (io.ReadCloser, error)

	// Delete removes a file. Deleting a missing file is not an error.
	Delete(ctx context.Context, path string) error

	// URL returns the public URL of a stored path.
	URL(path string) string
}
