// Package storage integrates the S3-compatible media store that hosts the
// uploaded blobs. The database keeps only object keys and public URLs.
package storage

import (
	"context"
	"io"
)

// Object describes a stored blob: its key inside the bucket and the public
// URL it can be fetched from.
type Object struct {
	Key string
	URL string
}

// ObjectStorage is the media-store contract used by the file service.
type ObjectStorage interface {
	// EnsureFolder makes every segment of the slash-delimited path exist
	// in the store. Already-existing segments are not an error.
	EnsureFolder(ctx context.Context, path string) error

	// Upload stores the blob under key and returns its locator.
	Upload(ctx context.Context, key, contentType string, body io.Reader) (*Object, error)

	// Delete removes the blob with the given key.
	Delete(ctx context.Context, key string) error
}
