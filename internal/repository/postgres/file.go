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

// PostgresFileRepository implements the FileRepository interface
type PostgresFileRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewFileRepository creates a new file repository
func NewFileRepository(config *RepositoryConfig) repositories.FileRepository {
	return &PostgresFileRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

const fileColumns = "id, name, storage_key, mime_type, size, folder_id, owner_id, view_grants, edit_grants, created_at, updated_at"

// Create inserts a new file record, assigning its id
func (r *PostgresFileRepository) Create(ctx context.Context, file *models.File) error {
	if file.ID == "" {
		file.ID = uuid.NewString()
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, name, storage_key, mime_type, size, folder_id, owner_id, view_grants, edit_grants, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, r.tables.Files)

	_, err := GetExecutor(ctx, r.pool).Exec(ctx, query,
		file.ID,
		file.Name,
		file.StorageKey,
		file.MimeType,
		file.Size,
		file.FolderID,
		file.OwnerID,
		grantsParam(file.ViewGrants),
		grantsParam(file.EditGrants),
		file.CreatedAt,
		file.UpdatedAt,
	)

	if err != nil {
		if isPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("file %q already exists", file.Name),
				ResourceType: "file",
				ResourceID:   file.ID,
			}
		}
		if isPgForeignKeyError(err) {
			return &domain.NotFoundError{Message: fmt.Sprintf("folder %s not found", file.FolderID)}
		}
		return &domain.StorageError{Message: "create file: " + err.Error(), Cause: err}
	}

	return nil
}

// GetByID retrieves a file by ID
func (r *PostgresFileRepository) GetByID(ctx context.Context, id string) (*models.File, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, fileColumns, r.tables.Files)

	file, err := scanFile(GetExecutor(ctx, r.pool).QueryRow(ctx, query, id))
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, &domain.NotFoundError{Message: fmt.Sprintf("file %s not found", id)}
		}
		return nil, &domain.StorageError{Message: "get file: " + err.Error(), Cause: err}
	}

	return file, nil
}

// ListByFolder lists the files directly contained in a folder, ordered by name
func (r *PostgresFileRepository) ListByFolder(ctx context.Context, folderID string) ([]models.File, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE folder_id = $1
		ORDER BY name ASC
	`, fileColumns, r.tables.Files)

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, folderID)
	if err != nil {
		return nil, &domain.StorageError{Message: "list files: " + err.Error(), Cause: err}
	}
	defer rows.Close()

	return collectFiles(rows)
}

// Update persists a mutated file
func (r *PostgresFileRepository) Update(ctx context.Context, file *models.File) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET name = $1, storage_key = $2, mime_type = $3, size = $4, folder_id = $5,
		    view_grants = $6, edit_grants = $7, updated_at = $8
		WHERE id = $9
	`, r.tables.Files)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query,
		file.Name,
		file.StorageKey,
		file.MimeType,
		file.Size,
		file.FolderID,
		grantsParam(file.ViewGrants),
		grantsParam(file.EditGrants),
		file.UpdatedAt,
		file.ID,
	)

	if err != nil {
		return &domain.StorageError{Message: "update file: " + err.Error(), Cause: err}
	}

	if result.RowsAffected() == 0 {
		return &domain.NotFoundError{Message: fmt.Sprintf("file %s not found", file.ID)}
	}

	return nil
}

// Delete removes a file record
func (r *PostgresFileRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.Files)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query, id)
	if err != nil {
		return &domain.StorageError{Message: "delete file: " + err.Error(), Cause: err}
	}

	if result.RowsAffected() == 0 {
		return &domain.NotFoundError{Message: fmt.Sprintf("file %s not found", id)}
	}

	return nil
}

// SearchByName returns owner-owned files whose name contains the
// case-sensitive substring
func (r *PostgresFileRepository) SearchByName(ctx context.Context, ownerID int64, substring string) ([]models.File, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE owner_id = $1 AND strpos(name, $2) > 0
		ORDER BY name ASC
	`, fileColumns, r.tables.Files)

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, ownerID, substring)
	if err != nil {
		return nil, &domain.StorageError{Message: "search files: " + err.Error(), Cause: err}
	}
	defer rows.Close()

	return collectFiles(rows)
}

func scanFile(row pgx.Row) (*models.File, error) {
	var file models.File
	var viewGrants, editGrants []int64

	err := row.Scan(
		&file.ID,
		&file.Name,
		&file.StorageKey,
		&file.MimeType,
		&file.Size,
		&file.FolderID,
		&file.OwnerID,
		&viewGrants,
		&editGrants,
		&file.CreatedAt,
		&file.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	file.ViewGrants = models.GrantSet(viewGrants)
	file.EditGrants = models.GrantSet(editGrants)

	return &file, nil
}

func collectFiles(rows pgx.Rows) ([]models.File, error) {
	var files []models.File

	for rows.Next() {
		file, err := scanFile(rows)
		if err != nil {
			return nil, &domain.StorageError{Message: "scan file: " + err.Error(), Cause: err}
		}
		files = append(files, *file)
	}

	if err := rows.Err(); err != nil {
		return nil, &domain.StorageError{Message: "iterate files: " + err.Error(), Cause: err}
	}

	return files, nil
}
