package drive

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"drivebox/internal/domain/models"
	"drivebox/internal/domain/repositories"
	"drivebox/internal/domain/services"
)

type shareService struct {
	folderRepo repositories.FolderRepository
	fileRepo   repositories.FileRepository
	userRepo   repositories.UserRepository
	access     services.AccessEvaluator
	txManager  repositories.TransactionManager
	notifier   services.Notifier
	logger     *slog.Logger
}

// NewShareService creates the grant propagation service.
func NewShareService(
	folderRepo repositories.FolderRepository,
	fileRepo repositories.FileRepository,
	userRepo repositories.UserRepository,
	access services.AccessEvaluator,
	txManager repositories.TransactionManager,
	notifier services.Notifier,
	logger *slog.Logger,
) services.ShareService {
	return &shareService{
		folderRepo: folderRepo,
		fileRepo:   fileRepo,
		userRepo:   userRepo,
		access:     access,
		txManager:  txManager,
		notifier:   notifier,
		logger:     logger,
	}
}

// Grant gives targetUserID the level on the folder and every descendant
// folder and file. The actor's Edit access is checked once, at the root;
// the traversal trusts that check. After the unit of work commits the target
// is notified best-effort - a delivery failure is logged, never surfaced.
func (s *shareService) Grant(ctx context.Context, folderID string, actorID, targetUserID int64, level models.AccessLevel) error {
	folder, target, err := s.prepare(ctx, folderID, actorID, targetUserID)
	if err != nil {
		return err
	}

	if err := s.propagate(ctx, folder, targetUserID, level, true); err != nil {
		return err
	}

	subject := fmt.Sprintf("Access to %s", folder.Name)
	body := fmt.Sprintf("You have been given %s access to %q.", level, folder.Name)
	if err := s.notifier.Notify(ctx, target.Email, subject, body); err != nil {
		s.logger.Warn("share notification failed",
			"email", target.Email,
			"folder_id", folder.ID,
			"error", err,
		)
	}

	return nil
}

// Revoke removes the level from the folder and every descendant. Same
// traversal and root-only access check as Grant; no notification.
func (s *shareService) Revoke(ctx context.Context, folderID string, actorID, targetUserID int64, level models.AccessLevel) error {
	folder, _, err := s.prepare(ctx, folderID, actorID, targetUserID)
	if err != nil {
		return err
	}

	return s.propagate(ctx, folder, targetUserID, level, false)
}

// prepare resolves the root folder, checks the actor's Edit access on it and
// resolves the target user.
func (s *shareService) prepare(ctx context.Context, folderID string, actorID, targetUserID int64) (*models.Folder, *models.User, error) {
	folder, err := s.folderRepo.GetByID(ctx, folderID)
	if err != nil {
		return nil, nil, err
	}

	if err := s.access.CheckFolder(folder, actorID, models.AccessEdit); err != nil {
		return nil, nil, err
	}

	target, err := s.userRepo.GetByID(ctx, targetUserID)
	if err != nil {
		return nil, nil, err
	}

	return folder, target, nil
}

// propagate applies the grant mutation across the subtree inside one unit of
// work under the subtree lock. The walk is an explicit queue over folder
// ids; children arrive name-sorted so a replay after a partial failure
// visits nodes in the same order, and the set mutations themselves are
// idempotent.
func (s *shareService) propagate(ctx context.Context, root *models.Folder, targetUserID int64, level models.AccessLevel, add bool) error {
	var folders, files int

	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.folderRepo.LockSubtree(txCtx, root.ID); err != nil {
			return err
		}

		queue := []string{root.ID}

		for len(queue) > 0 {
			id := queue[0]
			queue = queue[1:]

			folder, err := s.folderRepo.GetByID(txCtx, id)
			if err != nil {
				return err
			}

			if mutateFolderGrants(folder, targetUserID, level, add) {
				folder.UpdatedAt = time.Now()
				if err := s.folderRepo.Update(txCtx, folder); err != nil {
					return err
				}
			}
			folders++

			children, err := s.folderRepo.ListChildren(txCtx, id)
			if err != nil {
				return err
			}
			for i := range children {
				queue = append(queue, children[i].ID)
			}

			contained, err := s.fileRepo.ListByFolder(txCtx, id)
			if err != nil {
				return err
			}
			for i := range contained {
				if mutateFileGrants(&contained[i], targetUserID, level, add) {
					contained[i].UpdatedAt = time.Now()
					if err := s.fileRepo.Update(txCtx, &contained[i]); err != nil {
						return err
					}
				}
				files++
			}
		}

		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("grant propagated",
		"root_id", root.ID,
		"target_user_id", targetUserID,
		"level", level.String(),
		"added", add,
		"folders", folders,
		"files", files,
	)

	return nil
}

// mutateFolderGrants applies one idempotent set mutation. The owner never
// appears in a grant set - owner access is implicit - so granting to a
// node's own owner is a no-op on that node. Returns whether anything
// changed.
func mutateFolderGrants(folder *models.Folder, userID int64, level models.AccessLevel, add bool) bool {
	if add && userID == folder.OwnerID {
		return false
	}

	if level == models.AccessEdit {
		before := len(folder.EditGrants)
		if add {
			folder.EditGrants = folder.EditGrants.Add(userID)
		} else {
			folder.EditGrants = folder.EditGrants.Remove(userID)
		}
		return len(folder.EditGrants) != before
	}

	before := len(folder.ViewGrants)
	if add {
		folder.ViewGrants = folder.ViewGrants.Add(userID)
	} else {
		folder.ViewGrants = folder.ViewGrants.Remove(userID)
	}
	return len(folder.ViewGrants) != before
}

func mutateFileGrants(file *models.File, userID int64, level models.AccessLevel, add bool) bool {
	if add && userID == file.OwnerID {
		return false
	}

	if level == models.AccessEdit {
		before := len(file.EditGrants)
		if add {
			file.EditGrants = file.EditGrants.Add(userID)
		} else {
			file.EditGrants = file.EditGrants.Remove(userID)
		}
		return len(file.EditGrants) != before
	}

	before := len(file.ViewGrants)
	if add {
		file.ViewGrants = file.ViewGrants.Add(userID)
	} else {
		file.ViewGrants = file.ViewGrants.Remove(userID)
	}
	return len(file.ViewGrants) != before
}
