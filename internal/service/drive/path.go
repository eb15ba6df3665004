package drive

import (
	"context"
	"fmt"

	"drivebox/internal/config"
	"drivebox/internal/domain"
	"drivebox/internal/domain/models"
	"drivebox/internal/domain/repositories"
	"drivebox/internal/domain/services"
)

type pathResolver struct {
	folderRepo repositories.FolderRepository
}

// NewPathResolver creates the ancestor-chain path resolver.
func NewPathResolver(folderRepo repositories.FolderRepository) services.PathResolver {
	return &pathResolver{folderRepo: folderRepo}
}

// ResolvePath walks the parent chain iteratively, prepending each ancestor
// name until a folder with no parent is reached. A missing ancestor is
// ErrNotFound; a chain longer than MaxTreeDepth means the parent graph is
// corrupted.
func (r *pathResolver) ResolvePath(ctx context.Context, folder *models.Folder) (string, error) {
	path := folder.Name
	current := folder

	for depth := 0; current.ParentID != nil; depth++ {
		if depth >= config.MaxTreeDepth {
			return "", &domain.ValidationError{
				Message: fmt.Sprintf("folder %s: ancestor chain exceeds depth %d", folder.ID, config.MaxTreeDepth),
			}
		}

		parent, err := r.folderRepo.GetByID(ctx, *current.ParentID)
		if err != nil {
			return "", fmt.Errorf("resolve path for folder %s: %w", folder.ID, err)
		}

		path = parent.Name + "/" + path
		current = parent
	}

	return path, nil
}

// FileKey joins the folder's resolved path with the file name.
func (r *pathResolver) FileKey(ctx context.Context, folder *models.Folder, fileName string) (string, error) {
	prefix, err := r.ResolvePath(ctx, folder)
	if err != nil {
		return "", err
	}
	return prefix + "/" + fileName, nil
}
