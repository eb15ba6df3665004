package models

import "time"

// Folder is a node in the ownership tree. ParentID nil means root. OwnerID
// never changes after creation; the parent-link graph is kept acyclic by the
// services that reparent and clone.
type Folder struct {
	ID         string    `json:"id" db:"id"`
	Name       string    `json:"name" db:"name"`
	OwnerID    int64     `json:"owner_id" db:"owner_id"`
	ParentID   *string   `json:"parent_id" db:"parent_id"` // NULL = root
	ViewGrants GrantSet  `json:"view_grants" db:"view_grants"`
	EditGrants GrantSet  `json:"edit_grants" db:"edit_grants"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

// IsRoot reports whether the folder has no parent.
func (f *Folder) IsRoot() bool {
	return f.ParentID == nil
}
