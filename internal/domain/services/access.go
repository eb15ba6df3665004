package services

import "drivebox/internal/domain/models"

// AccessEvaluator decides whether an actor may act on a node at a given
// level. It is invoked independently at every entry point; no effective
// permission is cached, and no ancestor lookup happens at check time.
// Transitive access exists only because grants are propagated onto
// descendants when they are made.
//
// Callers resolve existence first: the evaluator assumes the node exists.
type AccessEvaluator interface {
	// CheckFolder returns ErrForbidden unless actorID is the owner or holds
	// the required grant on the folder
	CheckFolder(folder *models.Folder, actorID int64, level models.AccessLevel) error

	// CheckFile is CheckFolder for file nodes
	CheckFile(file *models.File, actorID int64, level models.AccessLevel) error
}
