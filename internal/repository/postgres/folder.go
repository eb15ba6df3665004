package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"drivebox/internal/domain"
	"drivebox/internal/domain/models"
	"drivebox/internal/domain/repositories"
)

// PostgresFolderRepository implements the FolderRepository interface
type PostgresFolderRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewFolderRepository creates a new folder repository
func NewFolderRepository(config *RepositoryConfig) repositories.FolderRepository {
	return &PostgresFolderRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

const folderColumns = "id, name, owner_id, parent_id, view_grants, edit_grants, created_at, updated_at"

// Create inserts a new folder, assigning its id
func (r *PostgresFolderRepository) Create(ctx context.Context, folder *models.Folder) error {
	if folder.ID == "" {
		folder.ID = uuid.NewString()
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, name, owner_id, parent_id, view_grants, edit_grants, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, r.tables.Folders)

	_, err := GetExecutor(ctx, r.pool).Exec(ctx, query,
		folder.ID,
		folder.Name,
		folder.OwnerID,
		folder.ParentID,
		grantsParam(folder.ViewGrants),
		grantsParam(folder.EditGrants),
		folder.CreatedAt,
		folder.UpdatedAt,
	)

	if err != nil {
		if isPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("folder %q already exists", folder.Name),
				ResourceType: "folder",
				ResourceID:   folder.ID,
			}
		}
		return &domain.StorageError{Message: "create folder: " + err.Error(), Cause: err}
	}

	return nil
}

// GetByID retrieves a folder by ID
func (r *PostgresFolderRepository) GetByID(ctx context.Context, id string) (*models.Folder, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, folderColumns, r.tables.Folders)

	folder, err := scanFolder(GetExecutor(ctx, r.pool).QueryRow(ctx, query, id))
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, &domain.NotFoundError{Message: fmt.Sprintf("folder %s not found", id)}
		}
		return nil, &domain.StorageError{Message: "get folder: " + err.Error(), Cause: err}
	}

	return folder, nil
}

// GetSibling retrieves the folder with the given name among ownerID's
// folders under parentID, or nil when absent. IS NOT DISTINCT FROM makes the
// nil parent (root level) comparable in one query.
func (r *PostgresFolderRepository) GetSibling(ctx context.Context, ownerID int64, parentID *string, name string) (*models.Folder, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE owner_id = $1 AND name = $2 AND parent_id IS NOT DISTINCT FROM $3
	`, folderColumns, r.tables.Folders)

	folder, err := scanFolder(GetExecutor(ctx, r.pool).QueryRow(ctx, query, ownerID, name, parentID))
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, nil // Not found, not an error
		}
		return nil, &domain.StorageError{Message: "get sibling folder: " + err.Error(), Cause: err}
	}

	return folder, nil
}

// Update persists a mutated folder
func (r *PostgresFolderRepository) Update(ctx context.Context, folder *models.Folder) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET name = $1, parent_id = $2, view_grants = $3, edit_grants = $4, updated_at = $5
		WHERE id = $6
	`, r.tables.Folders)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query,
		folder.Name,
		folder.ParentID,
		grantsParam(folder.ViewGrants),
		grantsParam(folder.EditGrants),
		folder.UpdatedAt,
		folder.ID,
	)

	if err != nil {
		if isPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("folder %q already exists", folder.Name),
				ResourceType: "folder",
				ResourceID:   folder.ID,
			}
		}
		return &domain.StorageError{Message: "update folder: " + err.Error(), Cause: err}
	}

	if result.RowsAffected() == 0 {
		return &domain.NotFoundError{Message: fmt.Sprintf("folder %s not found", folder.ID)}
	}

	return nil
}

// Delete removes a folder record
func (r *PostgresFolderRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.Folders)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query, id)
	if err != nil {
		if isPgForeignKeyError(err) {
			return &domain.ConflictError{
				Message:      "cannot delete folder with children",
				ResourceType: "folder",
				ResourceID:   id,
			}
		}
		return &domain.StorageError{Message: "delete folder: " + err.Error(), Cause: err}
	}

	if result.RowsAffected() == 0 {
		return &domain.NotFoundError{Message: fmt.Sprintf("folder %s not found", id)}
	}

	return nil
}

// ListChildren lists immediate child folders ordered by name, which keeps
// subtree traversals deterministic
func (r *PostgresFolderRepository) ListChildren(ctx context.Context, parentID string) ([]models.Folder, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE parent_id = $1
		ORDER BY name ASC
	`, folderColumns, r.tables.Folders)

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, parentID)
	if err != nil {
		return nil, &domain.StorageError{Message: "list folder children: " + err.Error(), Cause: err}
	}
	defer rows.Close()

	return collectFolders(rows)
}

// SearchByName returns owner-owned folders whose name contains the
// case-sensitive substring. strpos avoids LIKE-metacharacter surprises in
// user input.
func (r *PostgresFolderRepository) SearchByName(ctx context.Context, ownerID int64, substring string) ([]models.Folder, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE owner_id = $1 AND strpos(name, $2) > 0
		ORDER BY name ASC
	`, folderColumns, r.tables.Folders)

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, ownerID, substring)
	if err != nil {
		return nil, &domain.StorageError{Message: "search folders: " + err.Error(), Cause: err}
	}
	defer rows.Close()

	return collectFolders(rows)
}

// LockSubtree takes a transaction-scoped advisory lock keyed by the subtree
// root id, serializing concurrent mutations of the same subtree. Must run
// inside a transaction; the lock releases at commit or rollback.
func (r *PostgresFolderRepository) LockSubtree(ctx context.Context, rootID string) error {
	if repositories.GetTx(ctx) == nil {
		return &domain.StorageError{Message: "subtree lock requires a transaction"}
	}

	_, err := GetExecutor(ctx, r.pool).Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, rootID)
	if err != nil {
		return &domain.StorageError{Message: "lock subtree: " + err.Error(), Cause: err}
	}

	return nil
}

// grantsParam normalizes a nil grant set to an empty array so the NOT NULL
// column accepts it.
func grantsParam(g models.GrantSet) []int64 {
	if g == nil {
		return []int64{}
	}
	return []int64(g)
}

func scanFolder(row pgx.Row) (*models.Folder, error) {
	var folder models.Folder
	var viewGrants, editGrants []int64

	err := row.Scan(
		&folder.ID,
		&folder.Name,
		&folder.OwnerID,
		&folder.ParentID,
		&viewGrants,
		&editGrants,
		&folder.CreatedAt,
		&folder.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	folder.ViewGrants = models.GrantSet(viewGrants)
	folder.EditGrants = models.GrantSet(editGrants)

	return &folder, nil
}

func collectFolders(rows pgx.Rows) ([]models.Folder, error) {
	var folders []models.Folder

	for rows.Next() {
		folder, err := scanFolder(rows)
		if err != nil {
			return nil, &domain.StorageError{Message: "scan folder: " + err.Error(), Cause: err}
		}
		folders = append(folders, *folder)
	}

	if err := rows.Err(); err != nil {
		return nil, &domain.StorageError{Message: "iterate folders: " + err.Error(), Cause: err}
	}

	return folders, nil
}
