package drive

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"drivebox/internal/config"
	"drivebox/internal/domain"
	"drivebox/internal/domain/models"
	"drivebox/internal/domain/repositories"
	"drivebox/internal/domain/services"
)

type fileService struct {
	fileRepo   repositories.FileRepository
	folderRepo repositories.FolderRepository
	userRepo   repositories.UserRepository
	blobs      services.BlobStore
	paths      services.PathResolver
	access     services.AccessEvaluator
	txManager  repositories.TransactionManager
	logger     *slog.Logger
}

// NewFileService creates a new file service
func NewFileService(
	fileRepo repositories.FileRepository,
	folderRepo repositories.FolderRepository,
	userRepo repositories.UserRepository,
	blobs services.BlobStore,
	paths services.PathResolver,
	access services.AccessEvaluator,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) services.FileService {
	return &fileService{
		fileRepo:   fileRepo,
		folderRepo: folderRepo,
		userRepo:   userRepo,
		blobs:      blobs,
		paths:      paths,
		access:     access,
		txManager:  txManager,
		logger:     logger,
	}
}

// UploadFile stores content under the folder's resolved path and creates the
// record. The blob write happens inside the unit of work, before the record
// insert, so a failed put leaves no dangling record.
func (s *fileService) UploadFile(ctx context.Context, actorID int64, req *services.UploadFileRequest) (*models.File, error) {
	name := strings.TrimSpace(req.Name)
	if err := validateFileName(name); err != nil {
		return nil, &domain.ValidationError{Message: err.Error()}
	}

	folder, err := s.folderRepo.GetByID(ctx, req.FolderID)
	if err != nil {
		return nil, err
	}

	if err := s.access.CheckFolder(folder, actorID, models.AccessEdit); err != nil {
		return nil, err
	}

	siblings, err := s.fileRepo.ListByFolder(ctx, folder.ID)
	if err != nil {
		return nil, err
	}
	for i := range siblings {
		if siblings[i].Name == name {
			return nil, &domain.ConflictError{
				Message:      fmt.Sprintf("a file named %q already exists in this folder", name),
				ResourceType: "file",
				ResourceID:   siblings[i].ID,
			}
		}
	}

	key, err := s.paths.FileKey(ctx, folder, name)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	file := &models.File{
		Name:       name,
		StorageKey: key,
		MimeType:   req.MimeType,
		Size:       req.Size,
		FolderID:   folder.ID,
		OwnerID:    actorID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.blobs.Put(txCtx, key, req.Content, req.MimeType); err != nil {
			return &domain.StorageError{
				Message: fmt.Sprintf("put blob %q: %v", key, err),
				Cause:   err,
			}
		}
		return s.fileRepo.Create(txCtx, file)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("file uploaded",
		"id", file.ID,
		"name", file.Name,
		"folder_id", file.FolderID,
		"key", file.StorageKey,
		"size", file.Size,
	)

	return file, nil
}

// GetFile retrieves a file after a View check, resolved with a presigned
// download URL.
func (s *fileService) GetFile(ctx context.Context, fileID string, actorID int64) (*models.FileView, error) {
	file, err := s.fileRepo.GetByID(ctx, fileID)
	if err != nil {
		return nil, err
	}

	if err := s.access.CheckFile(file, actorID, models.AccessView); err != nil {
		return nil, err
	}

	url, err := s.blobs.PresignedGet(ctx, file.StorageKey, config.PresignTTL)
	if err != nil {
		return nil, &domain.StorageError{
			Message: fmt.Sprintf("presign blob %q: %v", file.StorageKey, err),
			Cause:   err,
		}
	}

	return &models.FileView{File: *file, URL: url}, nil
}

// RenameFile changes a file's display name after an Edit check. Like folder
// renames, the stored blob key is left alone; the key records where the bytes
// were written, not the current name.
func (s *fileService) RenameFile(ctx context.Context, fileID string, actorID int64, newName string) (*models.File, error) {
	newName = strings.TrimSpace(newName)
	if err := validateFileName(newName); err != nil {
		return nil, &domain.ValidationError{Message: err.Error()}
	}

	file, err := s.fileRepo.GetByID(ctx, fileID)
	if err != nil {
		return nil, err
	}

	if err := s.access.CheckFile(file, actorID, models.AccessEdit); err != nil {
		return nil, err
	}

	siblings, err := s.fileRepo.ListByFolder(ctx, file.FolderID)
	if err != nil {
		return nil, err
	}
	for i := range siblings {
		if siblings[i].ID != file.ID && siblings[i].Name == newName {
			return nil, &domain.ConflictError{
				Message:      fmt.Sprintf("a file named %q already exists in this folder", newName),
				ResourceType: "file",
				ResourceID:   siblings[i].ID,
			}
		}
	}

	file.Name = newName
	file.UpdatedAt = time.Now()
	if err := s.fileRepo.Update(ctx, file); err != nil {
		return nil, err
	}

	s.logger.Info("file renamed", "id", file.ID, "name", file.Name)

	return file, nil
}

// DeleteFile removes the blob, then the record. Only the owner may delete a
// file directly; subtree deletion goes through FolderService.
func (s *fileService) DeleteFile(ctx context.Context, fileID string, actorID int64) error {
	file, err := s.fileRepo.GetByID(ctx, fileID)
	if err != nil {
		return err
	}

	if file.OwnerID != actorID {
		return &domain.ForbiddenError{Message: "only the owner can delete a file"}
	}

	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.blobs.Delete(txCtx, file.StorageKey); err != nil {
			return &domain.StorageError{
				Message: fmt.Sprintf("delete blob %q: %v", file.StorageKey, err),
				Cause:   err,
			}
		}
		return s.fileRepo.Delete(txCtx, file.ID)
	})
	if err != nil {
		return err
	}

	s.logger.Info("file deleted", "id", file.ID, "name", file.Name, "key", file.StorageKey)

	return nil
}

// Grant adds a single-file grant. Requires Edit on the file; the mutation is
// idempotent and never materializes the owner in a grant set.
func (s *fileService) Grant(ctx context.Context, fileID string, actorID, targetUserID int64, level models.AccessLevel) error {
	return s.mutateGrant(ctx, fileID, actorID, targetUserID, level, true)
}

// Revoke removes a single-file grant. Requires Edit on the file.
func (s *fileService) Revoke(ctx context.Context, fileID string, actorID, targetUserID int64, level models.AccessLevel) error {
	return s.mutateGrant(ctx, fileID, actorID, targetUserID, level, false)
}

func (s *fileService) mutateGrant(ctx context.Context, fileID string, actorID, targetUserID int64, level models.AccessLevel, add bool) error {
	file, err := s.fileRepo.GetByID(ctx, fileID)
	if err != nil {
		return err
	}

	if err := s.access.CheckFile(file, actorID, models.AccessEdit); err != nil {
		return err
	}

	if _, err := s.userRepo.GetByID(ctx, targetUserID); err != nil {
		return err
	}

	if !mutateFileGrants(file, targetUserID, level, add) {
		return nil
	}

	file.UpdatedAt = time.Now()
	return s.fileRepo.Update(ctx, file)
}
