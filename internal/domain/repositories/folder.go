package repositories

import (
	"context"

	"drivebox/internal/domain/models"
)

// FolderRepository defines data access operations for folders
type FolderRepository interface {
	// Create inserts a new folder and assigns its id
	Create(ctx context.Context, folder *models.Folder) error

	// GetByID retrieves a folder by ID
	GetByID(ctx context.Context, id string) (*models.Folder, error)

	// GetSibling retrieves the folder with the given name among ownerID's
	// folders under parentID (nil for root level), or nil when absent.
	// Names are unique per owner only among siblings.
	GetSibling(ctx context.Context, ownerID int64, parentID *string, name string) (*models.Folder, error)

	// Update persists a mutated folder
	Update(ctx context.Context, folder *models.Folder) error

	// Delete removes a folder record
	Delete(ctx context.Context, id string) error

	// ListChildren lists immediate child folders, ordered by name so that
	// subtree traversals are deterministic
	ListChildren(ctx context.Context, parentID string) ([]models.Folder, error)

	// SearchByName returns owner-owned folders whose name contains the
	// case-sensitive substring
	SearchByName(ctx context.Context, ownerID int64, substring string) ([]models.Folder, error)

	// LockSubtree serializes mutations under the given subtree root. The
	// lock is held until the enclosing transaction ends; callers must be
	// inside a TransactionManager unit of work.
	LockSubtree(ctx context.Context, rootID string) error
}
