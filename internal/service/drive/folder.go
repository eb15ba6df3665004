package drive

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"drivebox/internal/domain"
	"drivebox/internal/domain/models"
	"drivebox/internal/domain/repositories"
	"drivebox/internal/domain/services"
)

type folderService struct {
	folderRepo repositories.FolderRepository
	fileRepo   repositories.FileRepository
	blobs      services.BlobStore
	paths      services.PathResolver
	access     services.AccessEvaluator
	txManager  repositories.TransactionManager
	logger     *slog.Logger
}

// NewFolderService creates a new folder service
func NewFolderService(
	folderRepo repositories.FolderRepository,
	fileRepo repositories.FileRepository,
	blobs services.BlobStore,
	paths services.PathResolver,
	access services.AccessEvaluator,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) services.FolderService {
	return &folderService{
		folderRepo: folderRepo,
		fileRepo:   fileRepo,
		blobs:      blobs,
		paths:      paths,
		access:     access,
		txManager:  txManager,
		logger:     logger,
	}
}

// CreateFolder creates a new folder owned by the actor. The name must be
// unique within the actor's namespace.
func (s *folderService) CreateFolder(ctx context.Context, actorID int64, req *services.CreateFolderRequest) (*models.Folder, error) {
	name := strings.TrimSpace(req.Name)
	if err := validateFolderName(name); err != nil {
		return nil, &domain.ValidationError{Message: err.Error()}
	}

	// Parent must exist and be writable by the actor
	if req.ParentID != nil {
		parent, err := s.folderRepo.GetByID(ctx, *req.ParentID)
		if err != nil {
			return nil, err
		}
		if err := s.access.CheckFolder(parent, actorID, models.AccessEdit); err != nil {
			return nil, err
		}
	}

	// Names are unique among siblings, not across the whole namespace
	existing, err := s.folderRepo.GetSibling(ctx, actorID, req.ParentID, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, &domain.ConflictError{
			Message:      fmt.Sprintf("a folder named %q already exists here", name),
			ResourceType: "folder",
			ResourceID:   existing.ID,
		}
	}

	now := time.Now()
	folder := &models.Folder{
		Name:      name,
		OwnerID:   actorID,
		ParentID:  req.ParentID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.folderRepo.Create(ctx, folder); err != nil {
		return nil, err
	}

	s.logger.Info("folder created",
		"id", folder.ID,
		"name", folder.Name,
		"owner_id", folder.OwnerID,
		"parent_id", folder.ParentID,
	)

	return folder, nil
}

// GetFolder retrieves a folder after a View check. Existence is resolved
// first, so a missing id is NotFound regardless of who asks.
func (s *folderService) GetFolder(ctx context.Context, folderID string, actorID int64) (*models.Folder, error) {
	folder, err := s.folderRepo.GetByID(ctx, folderID)
	if err != nil {
		return nil, err
	}

	if err := s.access.CheckFolder(folder, actorID, models.AccessView); err != nil {
		return nil, err
	}

	return folder, nil
}

// RenameFolder renames a folder after an Edit check. Descendant blob keys
// keep the old prefix until their next resolution; see the path resolver.
func (s *folderService) RenameFolder(ctx context.Context, folderID string, actorID int64, newName string) (*models.Folder, error) {
	newName = strings.TrimSpace(newName)
	if err := validateFolderName(newName); err != nil {
		return nil, &domain.ValidationError{Message: err.Error()}
	}

	folder, err := s.folderRepo.GetByID(ctx, folderID)
	if err != nil {
		return nil, err
	}

	if err := s.access.CheckFolder(folder, actorID, models.AccessEdit); err != nil {
		return nil, err
	}

	existing, err := s.folderRepo.GetSibling(ctx, folder.OwnerID, folder.ParentID, newName)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.ID != folder.ID {
		return nil, &domain.ConflictError{
			Message:      fmt.Sprintf("a folder named %q already exists here", newName),
			ResourceType: "folder",
			ResourceID:   existing.ID,
		}
	}

	folder.Name = newName
	folder.UpdatedAt = time.Now()

	if err := s.folderRepo.Update(ctx, folder); err != nil {
		return nil, err
	}

	s.logger.Info("folder renamed", "id", folder.ID, "name", folder.Name)

	return folder, nil
}
