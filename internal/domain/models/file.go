package models

import "time"

// File is a leaf in the tree. StorageKey is the blob store key derived from
// the ancestor folder names at the time it was last resolved; it changes only
// through rename and clone.
type File struct {
	ID         string    `json:"id" db:"id"`
	Name       string    `json:"name" db:"name"`
	StorageKey string    `json:"storage_key" db:"storage_key"`
	MimeType   string    `json:"mime_type" db:"mime_type"`
	Size       int64     `json:"size" db:"size"`
	FolderID   string    `json:"folder_id" db:"folder_id"`
	OwnerID    int64     `json:"owner_id" db:"owner_id"`
	ViewGrants GrantSet  `json:"view_grants" db:"view_grants"`
	EditGrants GrantSet  `json:"edit_grants" db:"edit_grants"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}
