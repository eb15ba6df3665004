package drive

import (
	"drivebox/internal/domain"
	"drivebox/internal/domain/models"
	"drivebox/internal/domain/services"
)

type accessEvaluator struct{}

// NewAccessEvaluator creates the grant-set based access evaluator.
//
// The evaluator is pure: it looks only at the node handed to it. A grant on
// an ancestor does not authorize access to a descendant here - transitive
// access exists only because ShareService copies grants onto descendants.
func NewAccessEvaluator() services.AccessEvaluator {
	return &accessEvaluator{}
}

// CheckFolder returns nil when the actor owns the folder or holds the
// required grant. Editors pass View checks even though they are not members
// of the view grant set.
func (e *accessEvaluator) CheckFolder(folder *models.Folder, actorID int64, level models.AccessLevel) error {
	return check(folder.OwnerID, folder.ViewGrants, folder.EditGrants, actorID, level)
}

func (e *accessEvaluator) CheckFile(file *models.File, actorID int64, level models.AccessLevel) error {
	return check(file.OwnerID, file.ViewGrants, file.EditGrants, actorID, level)
}

func check(ownerID int64, viewGrants, editGrants models.GrantSet, actorID int64, level models.AccessLevel) error {
	if actorID == ownerID {
		return nil
	}

	switch level {
	case models.AccessEdit:
		if editGrants.Contains(actorID) {
			return nil
		}
	case models.AccessView:
		if viewGrants.Contains(actorID) || editGrants.Contains(actorID) {
			return nil
		}
	}

	return &domain.ForbiddenError{
		Message: "you do not have " + level.String() + " access to this resource",
	}
}
