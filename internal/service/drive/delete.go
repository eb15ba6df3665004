package drive

import (
	"context"
	"fmt"

	"drivebox/internal/domain"
	"drivebox/internal/domain/models"
)

// DeleteFolder removes a folder, its entire descendant subtree and the
// backing blobs. Edit is required on the root only; the traversal trusts the
// root-level check.
//
// The walk is an explicit worklist over folder ids, not recursion: the
// subtree is collected breadth-first into an in-memory arena and then
// processed in reverse, which visits every child before its parent. That
// post-order means no folder record is ever removed before all of its
// descendants, so the reachable tree stays acyclic at every point during the
// operation.
//
// Blob ordering is blob-before-record, fail-closed: a blob delete failure
// aborts the whole unit of work with a StorageError and no record is removed
// for that file. The recovery story is re-running the operation - blob
// deletes of already-gone keys are no-ops, so a retry converges.
func (s *folderService) DeleteFolder(ctx context.Context, folderID string, actorID int64) error {
	folder, err := s.folderRepo.GetByID(ctx, folderID)
	if err != nil {
		return err
	}

	if err := s.access.CheckFolder(folder, actorID, models.AccessEdit); err != nil {
		return err
	}

	var folders, files int

	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.folderRepo.LockSubtree(txCtx, folder.ID); err != nil {
			return err
		}

		order, err := s.collectSubtree(txCtx, folder)
		if err != nil {
			return err
		}
		folders = len(order)

		for i := len(order) - 1; i >= 0; i-- {
			n, err := s.deleteFolderContents(txCtx, order[i])
			if err != nil {
				return err
			}
			files += n

			if err := s.folderRepo.Delete(txCtx, order[i].ID); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("subtree deleted",
		"root_id", folder.ID,
		"name", folder.Name,
		"folders", folders,
		"files", files,
	)

	return nil
}

// collectSubtree returns the subtree rooted at folder in breadth-first
// order, root first. Children arrive name-sorted from the repository, so the
// order is deterministic and a partial failure replays identically.
func (s *folderService) collectSubtree(ctx context.Context, folder *models.Folder) ([]*models.Folder, error) {
	order := []*models.Folder{folder}

	for i := 0; i < len(order); i++ {
		children, err := s.folderRepo.ListChildren(ctx, order[i].ID)
		if err != nil {
			return nil, err
		}
		for j := range children {
			order = append(order, &children[j])
		}
	}

	return order, nil
}

// deleteFolderContents removes every file directly in the folder, blob
// first. The blob lives at the file's stored key, which may predate a folder
// rename - that key is where the object actually is.
func (s *folderService) deleteFolderContents(ctx context.Context, folder *models.Folder) (int, error) {
	files, err := s.fileRepo.ListByFolder(ctx, folder.ID)
	if err != nil {
		return 0, err
	}

	for i := range files {
		if err := s.blobs.Delete(ctx, files[i].StorageKey); err != nil {
			return 0, &domain.StorageError{
				Message: fmt.Sprintf("delete blob %q: %v", files[i].StorageKey, err),
				Cause:   err,
			}
		}

		if err := s.fileRepo.Delete(ctx, files[i].ID); err != nil {
			return 0, err
		}
	}

	return len(files), nil
}
