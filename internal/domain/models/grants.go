package models

import "slices"

// GrantSet is the explicit set of user ids given View or Edit access to a
// node. The owner is never a member; owner access is implicit. Mutations are
// idempotent by construction so grant/revoke can be replayed safely after a
// partial failure.
type GrantSet []int64

// Contains reports whether userID is a member of the set.
func (g GrantSet) Contains(userID int64) bool {
	return slices.Contains(g, userID)
}

// Add returns the set with userID present exactly once. Adding an
// already-present id is a no-op.
func (g GrantSet) Add(userID int64) GrantSet {
	if g.Contains(userID) {
		return g
	}
	return append(g, userID)
}

// Remove returns the set without userID. Removing an absent id is a no-op.
func (g GrantSet) Remove(userID int64) GrantSet {
	i := slices.Index(g, userID)
	if i < 0 {
		return g
	}
	return slices.Delete(g, i, i+1)
}

// Clone returns an independent copy so that mutating a clone's grants never
// affects the source.
func (g GrantSet) Clone() GrantSet {
	if g == nil {
		return nil
	}
	return slices.Clone(g)
}

// AccessLevel is the permission level checked against a node.
type AccessLevel int

const (
	// AccessView allows reading a node and its content.
	AccessView AccessLevel = iota
	// AccessEdit allows mutating a node. Edit implies View at evaluation
	// time, not in storage.
	AccessEdit
)

func (l AccessLevel) String() string {
	if l == AccessEdit {
		return "edit"
	}
	return "view"
}

// ParseAccessLevel converts the wire form ("view" or "edit") to an
// AccessLevel. The second return is false for anything else.
func ParseAccessLevel(s string) (AccessLevel, bool) {
	switch s {
	case "view":
		return AccessView, true
	case "edit":
		return AccessEdit, true
	default:
		return AccessView, false
	}
}
