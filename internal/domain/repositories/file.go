package repositories

import (
	"context"

	"drivebox/internal/domain/models"
)

// FileRepository defines data access operations for files
type FileRepository interface {
	// Create inserts a new file record and assigns its id
	Create(ctx context.Context, file *models.File) error

	// GetByID retrieves a file by ID
	GetByID(ctx context.Context, id string) (*models.File, error)

	// ListByFolder lists the files directly contained in a folder, ordered
	// by name
	ListByFolder(ctx context.Context, folderID string) ([]models.File, error)

	// Update persists a mutated file
	Update(ctx context.Context, file *models.File) error

	// Delete removes a file record
	Delete(ctx context.Context, id string) error

	// SearchByName returns owner-owned files whose name contains the
	// case-sensitive substring
	SearchByName(ctx context.Context, ownerID int64, substring string) ([]models.File, error)
}
