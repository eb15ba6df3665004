package services

import (
	"context"

	"drivebox/internal/domain/models"
)

// PathResolver derives the logical storage path of a node from its ancestor
// chain. The resulting `/`-joined string is the blob store key prefix for
// everything under the folder.
type PathResolver interface {
	// ResolvePath returns the ancestor-name chain for a folder, root first,
	// e.g. "root/A/B". Fails with ErrNotFound if an ancestor id does not
	// resolve.
	ResolvePath(ctx context.Context, folder *models.Folder) (string, error)

	// FileKey returns the blob key for a file inside the given folder:
	// the folder's resolved path joined with the file name.
	FileKey(ctx context.Context, folder *models.Folder, fileName string) (string, error)
}
