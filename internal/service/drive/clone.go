package drive

import (
	"context"
	"fmt"
	"time"

	"drivebox/internal/config"
	"drivebox/internal/domain"
	"drivebox/internal/domain/models"
)

// CloneFolder deep-copies a subtree - records and blobs - under
// destParentID (nil keeps the source's parent). Cloning is a read of the
// source, so View access suffices. The clone is owned by the actor, carries
// fresh ids throughout, and copies grant sets by value: mutating the clone's
// grants never affects the source.
//
// The destination parent must not be the source folder or any of its
// descendants; accepting one would stitch the copy into the subtree being
// copied and the walk would never terminate.
func (s *folderService) CloneFolder(ctx context.Context, folderID string, actorID int64, destParentID *string) (*models.Folder, error) {
	source, err := s.folderRepo.GetByID(ctx, folderID)
	if err != nil {
		return nil, err
	}

	if err := s.access.CheckFolder(source, actorID, models.AccessView); err != nil {
		return nil, err
	}

	if destParentID != nil {
		dest, err := s.folderRepo.GetByID(ctx, *destParentID)
		if err != nil {
			return nil, err
		}
		if err := s.access.CheckFolder(dest, actorID, models.AccessEdit); err != nil {
			return nil, err
		}
		if err := s.checkCloneDestination(ctx, source.ID, *destParentID); err != nil {
			return nil, err
		}
	}

	var root *models.Folder
	var folders, files int

	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.folderRepo.LockSubtree(txCtx, source.ID); err != nil {
			return err
		}

		type task struct {
			src        *models.Folder
			destParent *string
			top        bool
		}

		queue := []task{{src: source, destParent: destParentID, top: true}}
		if destParentID == nil {
			queue[0].destParent = source.ParentID
		}

		for len(queue) > 0 {
			t := queue[0]
			queue = queue[1:]

			clone, err := s.cloneOneFolder(txCtx, t.src, actorID, t.destParent, t.top)
			if err != nil {
				return err
			}
			folders++
			if t.top {
				root = clone
			}

			n, err := s.cloneFolderFiles(txCtx, t.src, clone, actorID)
			if err != nil {
				return err
			}
			files += n

			children, err := s.folderRepo.ListChildren(txCtx, t.src.ID)
			if err != nil {
				return err
			}
			for i := range children {
				queue = append(queue, task{src: &children[i], destParent: &clone.ID})
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("subtree cloned",
		"source_id", source.ID,
		"clone_id", root.ID,
		"owner_id", actorID,
		"folders", folders,
		"files", files,
	)

	return root, nil
}

// checkCloneDestination walks the destination's ancestor chain and rejects
// the clone when the source subtree root appears in it.
func (s *folderService) checkCloneDestination(ctx context.Context, sourceID, destParentID string) error {
	current := destParentID

	for depth := 0; ; depth++ {
		if current == sourceID {
			return &domain.ValidationError{
				Message: "destination parent is inside the subtree being cloned",
			}
		}
		if depth >= config.MaxTreeDepth {
			return &domain.ValidationError{
				Message: fmt.Sprintf("destination ancestor chain exceeds depth %d", config.MaxTreeDepth),
			}
		}

		folder, err := s.folderRepo.GetByID(ctx, current)
		if err != nil {
			return err
		}
		if folder.ParentID == nil {
			return nil
		}
		current = *folder.ParentID
	}
}

// cloneOneFolder creates the copy of a single source folder. Only the
// subtree root gets the "_copy" suffix; nested folders keep their names so
// the copied hierarchy reads the same as the original.
func (s *folderService) cloneOneFolder(ctx context.Context, src *models.Folder, actorID int64, destParent *string, top bool) (*models.Folder, error) {
	name := src.Name
	if top {
		name += "_copy"
	}

	now := time.Now()
	clone := &models.Folder{
		Name:       name,
		OwnerID:    actorID,
		ParentID:   destParent,
		ViewGrants: src.ViewGrants.Clone().Remove(actorID),
		EditGrants: src.EditGrants.Clone().Remove(actorID),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.folderRepo.Create(ctx, clone); err != nil {
		return nil, err
	}

	return clone, nil
}

// cloneFolderFiles copies the blobs and records of every file directly in
// src into the already-created clone folder. Destination keys derive from
// the clone's resolved path, which is visible inside the transaction.
func (s *folderService) cloneFolderFiles(ctx context.Context, src, clone *models.Folder, actorID int64) (int, error) {
	srcFiles, err := s.fileRepo.ListByFolder(ctx, src.ID)
	if err != nil {
		return 0, err
	}

	for i := range srcFiles {
		f := &srcFiles[i]
		newName := "copy_" + f.Name

		destKey, err := s.paths.FileKey(ctx, clone, newName)
		if err != nil {
			return 0, err
		}

		if err := s.blobs.Copy(ctx, f.StorageKey, destKey); err != nil {
			return 0, &domain.StorageError{
				Message: fmt.Sprintf("copy blob %q to %q: %v", f.StorageKey, destKey, err),
				Cause:   err,
			}
		}

		now := time.Now()
		copied := &models.File{
			Name:       newName,
			StorageKey: destKey,
			MimeType:   f.MimeType,
			Size:       f.Size,
			FolderID:   clone.ID,
			OwnerID:    actorID,
			ViewGrants: f.ViewGrants.Clone().Remove(actorID),
			EditGrants: f.EditGrants.Clone().Remove(actorID),
			CreatedAt:  now,
			UpdatedAt:  now,
		}

		if err := s.fileRepo.Create(ctx, copied); err != nil {
			return 0, err
		}
	}

	return len(srcFiles), nil
}
