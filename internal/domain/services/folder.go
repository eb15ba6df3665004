package services

import (
	"context"

	"drivebox/internal/domain/models"
)

// FolderService handles folder business logic, including the recursive
// engines that act on whole subtrees.
type FolderService interface {
	// CreateFolder creates a new folder owned by the actor
	CreateFolder(ctx context.Context, actorID int64, req *CreateFolderRequest) (*models.Folder, error)

	// GetFolder retrieves a folder after a View check
	GetFolder(ctx context.Context, folderID string, actorID int64) (*models.Folder, error)

	// RenameFolder renames a folder after an Edit check. Descendant blob
	// keys are not relocated; they converge the next time they are resolved.
	RenameFolder(ctx context.Context, folderID string, actorID int64, newName string) (*models.Folder, error)

	// DeleteFolder removes a folder, its entire descendant subtree and the
	// backing blobs. Post-order, fail-closed on blob errors.
	DeleteFolder(ctx context.Context, folderID string, actorID int64) error

	// CloneFolder deep-copies a subtree (records and blobs) under
	// destParentID (nil keeps the source's parent), preserving grants by
	// value. Returns the new top-level folder.
	CloneFolder(ctx context.Context, folderID string, actorID int64, destParentID *string) (*models.Folder, error)
}

// CreateFolderRequest represents a folder creation request
type CreateFolderRequest struct {
	Name     string  `json:"name"`
	ParentID *string `json:"parent_id,omitempty"` // null for root
}

// ShareService applies and revokes grants across a folder and its entire
// descendant subtree in one unit of work.
type ShareService interface {
	// Grant gives targetUserID the level on the folder and every
	// descendant folder and file. Requires Edit on the root folder only.
	Grant(ctx context.Context, folderID string, actorID, targetUserID int64, level models.AccessLevel) error

	// Revoke removes the level from the folder and every descendant.
	Revoke(ctx context.Context, folderID string, actorID, targetUserID int64, level models.AccessLevel) error
}
