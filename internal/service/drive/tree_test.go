package drive

import (
	"context"
	"errors"
	"testing"

	"drivebox/internal/domain"
	"drivebox/internal/domain/models"
)

func TestGetTree(t *testing.T) {
	e := newTestEnv(alice)
	ctx := context.Background()

	root := mkFolder(t, e, "root", alice.ID, nil)
	mkFolder(t, e, "b-sub", alice.ID, root)
	mkFolder(t, e, "a-sub", alice.ID, root)
	doc := mkFile(t, e, root, "x.txt", alice.ID)

	// Skew the stored size so the probe is observable.
	doc.Size = 999
	if err := e.files.Update(ctx, doc); err != nil {
		t.Fatalf("update: %v", err)
	}

	tree, err := e.treeSvc.GetTree(ctx, root.ID, alice.ID)
	if err != nil {
		t.Fatalf("get tree: %v", err)
	}

	if tree.ID != root.ID {
		t.Errorf("tree root id = %s, want %s", tree.ID, root.ID)
	}
	if len(tree.Folders) != 2 || tree.Folders[0].Name != "a-sub" || tree.Folders[1].Name != "b-sub" {
		t.Errorf("children = %+v, want a-sub then b-sub", tree.Folders)
	}
	if len(tree.Files) != 1 {
		t.Fatalf("files = %+v, want one", tree.Files)
	}

	view := tree.Files[0]
	if view.URL != "https://blobs.test/"+doc.StorageKey {
		t.Errorf("url = %q", view.URL)
	}
	// Metadata comes from the head probe, not the record.
	if view.MimeType != "text/plain" || view.Size != int64(len("content of x.txt")) {
		t.Errorf("probed metadata = %s/%d", view.MimeType, view.Size)
	}
}

func TestGetTreeHeadProbeFallsBack(t *testing.T) {
	e := newTestEnv(alice)
	ctx := context.Background()

	root := mkFolder(t, e, "root", alice.ID, nil)
	doc := mkFile(t, e, root, "x.txt", alice.ID)

	// Keep the object presignable but break the head probe by removing it
	// after capturing the record.
	delete(e.blobs.objects, doc.StorageKey)

	tree, err := e.treeSvc.GetTree(ctx, root.ID, alice.ID)
	if err != nil {
		t.Fatalf("get tree: %v", err)
	}
	if len(tree.Files) != 1 {
		t.Fatalf("files = %+v, want one", tree.Files)
	}
	if tree.Files[0].MimeType != doc.MimeType || tree.Files[0].Size != doc.Size {
		t.Errorf("fallback metadata = %s/%d, want stored %s/%d",
			tree.Files[0].MimeType, tree.Files[0].Size, doc.MimeType, doc.Size)
	}
}

func TestGetTreeAccess(t *testing.T) {
	e := newTestEnv(alice, bob)
	ctx := context.Background()

	root := mkFolder(t, e, "root", alice.ID, nil)

	if _, err := e.treeSvc.GetTree(ctx, root.ID, bob.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}
	if _, err := e.treeSvc.GetTree(ctx, "no-such-id", bob.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSearchByName(t *testing.T) {
	e := newTestEnv(alice, bob)
	ctx := context.Background()

	root := mkFolder(t, e, "reports", alice.ID, nil)
	mkFolder(t, e, "old-reports", alice.ID, root)
	mkFolder(t, e, "photos", alice.ID, root)
	mkFile(t, e, root, "report-2026.txt", alice.ID)
	mkFile(t, e, root, "holiday.jpg", alice.ID)

	// Another owner's nodes never appear.
	mkFolder(t, e, "reports", bob.ID, nil)

	result, err := e.treeSvc.SearchByName(ctx, alice.ID, "report")
	if err != nil {
		t.Fatalf("search: %v", err)
	}

	if len(result.Folders) != 2 {
		t.Errorf("folders = %+v, want reports and old-reports", result.Folders)
	}
	if len(result.Files) != 1 || result.Files[0].Name != "report-2026.txt" {
		t.Errorf("files = %+v, want report-2026.txt", result.Files)
	}
	if result.Files[0].URL == "" {
		t.Errorf("matched file should be resolved with a URL")
	}

	// Substring match is case-sensitive.
	caseResult, err := e.treeSvc.SearchByName(ctx, alice.ID, "Report")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(caseResult.Folders) != 0 || len(caseResult.Files) != 0 {
		t.Errorf("case-sensitive search should match nothing, got %+v", caseResult)
	}
}

func TestSearchByNameRequiresTerm(t *testing.T) {
	e := newTestEnv(alice)

	_, err := e.treeSvc.SearchByName(context.Background(), alice.ID, "")
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
}

// The scenario behind propagation: sharing a root makes every nested folder
// directly queryable by the grantee, with no ancestor lookup at read time.
func TestSharedSubtreeIsQueryableAtAnyDepth(t *testing.T) {
	e := newTestEnv(alice, bob)
	ctx := context.Background()

	root := mkFolder(t, e, "root", alice.ID, nil)
	mid := mkFolder(t, e, "mid", alice.ID, root)
	leaf := mkFolder(t, e, "leaf", alice.ID, mid)

	if _, err := e.treeSvc.GetTree(ctx, leaf.ID, bob.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("precondition: bob must not see the leaf yet, got %v", err)
	}

	if err := e.shareSvc.Grant(ctx, root.ID, alice.ID, bob.ID, models.AccessView); err != nil {
		t.Fatalf("grant: %v", err)
	}

	for _, f := range []*models.Folder{root, mid, leaf} {
		if _, err := e.treeSvc.GetTree(ctx, f.ID, bob.ID); err != nil {
			t.Errorf("bob blocked on %s after subtree grant: %v", f.Name, err)
		}
	}
}
