package drive

import (
	"context"
	"log/slog"

	"drivebox/internal/config"
	"drivebox/internal/domain"
	"drivebox/internal/domain/models"
	"drivebox/internal/domain/repositories"
	"drivebox/internal/domain/services"
)

type treeService struct {
	folderRepo repositories.FolderRepository
	fileRepo   repositories.FileRepository
	blobs      services.BlobStore
	access     services.AccessEvaluator
	logger     *slog.Logger
}

// NewTreeService creates a new tree query service
func NewTreeService(
	folderRepo repositories.FolderRepository,
	fileRepo repositories.FileRepository,
	blobs services.BlobStore,
	access services.AccessEvaluator,
	logger *slog.Logger,
) services.TreeService {
	return &treeService{
		folderRepo: folderRepo,
		fileRepo:   fileRepo,
		blobs:      blobs,
		access:     access,
		logger:     logger,
	}
}

// GetTree loads a folder with its direct children and resolved files after a
// View check on the folder itself. No ancestor is consulted: an actor sees a
// subfolder only if a grant was propagated onto it.
func (s *treeService) GetTree(ctx context.Context, folderID string, actorID int64) (*models.FolderTree, error) {
	folder, err := s.folderRepo.GetByID(ctx, folderID)
	if err != nil {
		return nil, err
	}

	if err := s.access.CheckFolder(folder, actorID, models.AccessView); err != nil {
		return nil, err
	}

	children, err := s.folderRepo.ListChildren(ctx, folder.ID)
	if err != nil {
		return nil, err
	}

	contained, err := s.fileRepo.ListByFolder(ctx, folder.ID)
	if err != nil {
		return nil, err
	}

	views, err := s.resolveFiles(ctx, contained)
	if err != nil {
		return nil, err
	}

	return &models.FolderTree{
		Folder:  *folder,
		Folders: children,
		Files:   views,
	}, nil
}

// SearchByName does a case-sensitive substring match over the actor-owned
// folder and file namespace, with matched files resolved like a tree query.
func (s *treeService) SearchByName(ctx context.Context, actorID int64, substring string) (*models.SearchResult, error) {
	if substring == "" {
		return nil, &domain.ValidationError{Message: "search term is required"}
	}

	folders, err := s.folderRepo.SearchByName(ctx, actorID, substring)
	if err != nil {
		return nil, err
	}

	matched, err := s.fileRepo.SearchByName(ctx, actorID, substring)
	if err != nil {
		return nil, err
	}

	views, err := s.resolveFiles(ctx, matched)
	if err != nil {
		return nil, err
	}

	return &models.SearchResult{Folders: folders, Files: views}, nil
}

// resolveFiles turns file records into presentable views: a presigned GET
// URL plus content type and size probed from the blob store. A failed head
// probe falls back to the record's stored metadata rather than failing the
// whole query.
func (s *treeService) resolveFiles(ctx context.Context, files []models.File) ([]models.FileView, error) {
	views := make([]models.FileView, 0, len(files))

	for i := range files {
		url, err := s.blobs.PresignedGet(ctx, files[i].StorageKey, config.PresignTTL)
		if err != nil {
			return nil, &domain.StorageError{
				Message: "presign blob " + files[i].StorageKey + ": " + err.Error(),
				Cause:   err,
			}
		}

		view := models.FileView{File: files[i], URL: url}

		info, err := s.blobs.Head(ctx, files[i].StorageKey)
		if err != nil {
			s.logger.Warn("blob head probe failed, using stored metadata",
				"key", files[i].StorageKey,
				"error", err,
			)
		} else {
			view.MimeType = info.ContentType
			view.Size = info.Size
		}

		views = append(views, view)
	}

	return views, nil
}
