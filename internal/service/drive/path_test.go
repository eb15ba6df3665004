package drive

import (
	"context"
	"errors"
	"testing"

	"drivebox/internal/domain"
	"drivebox/internal/domain/models"
)

// chain creates root/A/B/... in the repo and returns the folders in order.
func chain(t *testing.T, repo *fakeFolderRepo, ownerID int64, names ...string) []*models.Folder {
	t.Helper()

	var out []*models.Folder
	var parentID *string
	for _, name := range names {
		f := &models.Folder{Name: name, OwnerID: ownerID, ParentID: parentID}
		if err := repo.Create(context.Background(), f); err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
		out = append(out, f)
		parentID = &f.ID
	}
	return out
}

func TestResolvePath(t *testing.T) {
	repo := newFakeFolderRepo()
	folders := chain(t, repo, 1, "root", "A", "B", "C")

	resolver := NewPathResolver(repo)

	tests := []struct {
		name   string
		folder *models.Folder
		want   string
	}{
		{name: "root resolves to its own name", folder: folders[0], want: "root"},
		{name: "leaf resolves the full chain", folder: folders[3], want: "root/A/B/C"},
		{name: "middle node", folder: folders[2], want: "root/A/B"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolver.ResolvePath(context.Background(), tt.folder)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFileKeyJoinsPathAndName(t *testing.T) {
	repo := newFakeFolderRepo()
	folders := chain(t, repo, 1, "root", "A")

	resolver := NewPathResolver(repo)

	got, err := resolver.FileKey(context.Background(), folders[1], "x.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "root/A/x.txt" {
		t.Errorf("got %q, want %q", got, "root/A/x.txt")
	}
}

func TestResolvePathMissingAncestor(t *testing.T) {
	repo := newFakeFolderRepo()

	missing := "no-such-id"
	orphan := &models.Folder{ID: "orphan", Name: "orphan", OwnerID: 1, ParentID: &missing}

	resolver := NewPathResolver(repo)

	_, err := resolver.ResolvePath(context.Background(), orphan)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestResolvePathBoundsCorruptChains(t *testing.T) {
	repo := newFakeFolderRepo()

	// Two folders pointing at each other; the depth bound must fire.
	a := &models.Folder{ID: "a", Name: "a", OwnerID: 1}
	b := &models.Folder{ID: "b", Name: "b", OwnerID: 1, ParentID: &a.ID}
	a.ParentID = &b.ID
	repo.folders["a"] = a
	repo.folders["b"] = b

	resolver := NewPathResolver(repo)

	_, err := resolver.ResolvePath(context.Background(), a)
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected ErrValidation for a cyclic chain, got %v", err)
	}
}
