package services

import (
	"context"

	"drivebox/internal/domain/models"
)

// TreeService handles folder-tree retrieval and name search
type TreeService interface {
	// GetTree loads a folder with its direct children and resolved files
	// after a View check
	GetTree(ctx context.Context, folderID string, actorID int64) (*models.FolderTree, error)

	// SearchByName does a case-sensitive substring match over the
	// actor-owned folder and file namespace. No ranking, no pagination.
	SearchByName(ctx context.Context, actorID int64, substring string) (*models.SearchResult, error)
}
