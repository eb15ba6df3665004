package services

import (
	"context"
	"io"
	"time"
)

// ObjectInfo is the metadata returned by a blob head probe.
type ObjectInfo struct {
	ContentType string
	Size        int64
}

// BlobStore is the content store behind file records. Keys are `/`-joined
// path strings derived from the folder tree; the store itself knows nothing
// about the tree.
type BlobStore interface {
	// Put stores content under a key, overwriting any previous object
	Put(ctx context.Context, key string, body io.Reader, contentType string) error

	// PresignedGet returns a time-limited download URL for a key
	PresignedGet(ctx context.Context, key string, ttl time.Duration) (string, error)

	// Head probes content type and size without fetching the body
	Head(ctx context.Context, key string) (*ObjectInfo, error)

	// Delete removes an object. Deleting a missing key is a no-op so that
	// a partially-deleted subtree can be retried.
	Delete(ctx context.Context, key string) error

	// Copy duplicates an object server-side from sourceKey to destKey
	Copy(ctx context.Context, sourceKey, destKey string) error
}
