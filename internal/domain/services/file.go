package services

import (
	"context"
	"io"

	"drivebox/internal/domain/models"
)

// FileService handles file business logic
type FileService interface {
	// UploadFile stores content in the blob store under the folder's
	// resolved path and creates the file record. Requires Edit on the
	// folder.
	UploadFile(ctx context.Context, actorID int64, req *UploadFileRequest) (*models.File, error)

	// GetFile retrieves a file after a View check, resolved to a
	// presentable form with a presigned download URL
	GetFile(ctx context.Context, fileID string, actorID int64) (*models.FileView, error)

	// RenameFile changes a file's display name. Requires Edit on the
	// file. The storage key is not rewritten.
	RenameFile(ctx context.Context, fileID string, actorID int64, newName string) (*models.File, error)

	// DeleteFile removes the blob first, then the record (fail-closed).
	// Only the owner may delete a file directly.
	DeleteFile(ctx context.Context, fileID string, actorID int64) error

	// Grant adds a grant on a single file; used directly and by subtree
	// propagation. Idempotent.
	Grant(ctx context.Context, fileID string, actorID, targetUserID int64, level models.AccessLevel) error

	// Revoke removes a grant on a single file. Idempotent.
	Revoke(ctx context.Context, fileID string, actorID, targetUserID int64, level models.AccessLevel) error
}

// UploadFileRequest represents a file upload
type UploadFileRequest struct {
	FolderID string
	Name     string
	MimeType string
	Size     int64
	Content  io.Reader
}
