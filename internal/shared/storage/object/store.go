package object

import (
	"context"
	"io"
)

// ObjectStore defines the contract for saving and retrieving generated artifacts and uploads.
type ObjectStore interface {
	// Save writes r under a collision-free key derived from fileName.
	Save(ctx context.Context, fileName string, r io.Reader) (storageKey string, sizeBytes int64, mimeType string, err error)
	// SaveWithKey writes r at exactly storageKey, replacing any previous object.
	SaveWithKey(ctx context.Context, storageKey string, contentType string, r io.Reader) (int64, error)
	Open(ctx context.Context, storageKey string) (io.ReadCloser, error)
	Remove(ctx context.Context, storageKey string) error
}
