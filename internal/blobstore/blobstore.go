package blobstore

import (
	"context"
	"io"
)

// BlobStore holds photo binaries outside the database. Save returns the
// generated storage filename; entities reference blobs by that name only.
// Deleting an entity does not guarantee blob removal.
type BlobStore interface {
	Save(ctx context.Context, originalName string, r io.Reader) (filename string, err error)
	Get(ctx context.Context, filename string) (io.ReadCloser, string, error)
	Delete(ctx context.Context, filename string) error
}
