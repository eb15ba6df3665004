package drive

import (
	"context"
	"errors"
	"strings"
	"testing"

	"drivebox/internal/domain"
	"drivebox/internal/domain/models"
	"drivebox/internal/domain/services"
)

func uploadReq(folderID, name, content string) *services.UploadFileRequest {
	return &services.UploadFileRequest{
		FolderID: folderID,
		Name:     name,
		MimeType: "text/plain",
		Size:     int64(len(content)),
		Content:  strings.NewReader(content),
	}
}

func TestUploadFile(t *testing.T) {
	e := newTestEnv(alice)
	ctx := context.Background()

	root := mkFolder(t, e, "root", alice.ID, nil)
	a := mkFolder(t, e, "A", alice.ID, root)

	file, err := e.fileSvc.UploadFile(ctx, alice.ID, uploadReq(a.ID, "x.txt", "hello"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	if file.StorageKey != "root/A/x.txt" {
		t.Errorf("storage key = %q, want %q", file.StorageKey, "root/A/x.txt")
	}
	obj, ok := e.blobs.objects[file.StorageKey]
	if !ok {
		t.Fatalf("blob missing at %q", file.StorageKey)
	}
	if string(obj.data) != "hello" {
		t.Errorf("blob content = %q, want %q", obj.data, "hello")
	}
	if file.OwnerID != alice.ID {
		t.Errorf("owner = %d, want %d", file.OwnerID, alice.ID)
	}
}

func TestUploadFileSiblingNameConflicts(t *testing.T) {
	e := newTestEnv(alice)
	ctx := context.Background()

	root := mkFolder(t, e, "root", alice.ID, nil)

	if _, err := e.fileSvc.UploadFile(ctx, alice.ID, uploadReq(root.ID, "x.txt", "one")); err != nil {
		t.Fatalf("first upload: %v", err)
	}
	_, err := e.fileSvc.UploadFile(ctx, alice.ID, uploadReq(root.ID, "x.txt", "two"))
	if !errors.Is(err, domain.ErrConflict) {
		t.Errorf("expected ErrConflict, got %v", err)
	}
}

func TestUploadFileRequiresEditOnFolder(t *testing.T) {
	e := newTestEnv(alice, bob)
	ctx := context.Background()

	root := mkFolder(t, e, "root", alice.ID, nil)

	_, err := e.fileSvc.UploadFile(ctx, bob.ID, uploadReq(root.ID, "x.txt", "hi"))
	if !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}

	if err := e.shareSvc.Grant(ctx, root.ID, alice.ID, bob.ID, models.AccessEdit); err != nil {
		t.Fatalf("grant: %v", err)
	}
	if _, err := e.fileSvc.UploadFile(ctx, bob.ID, uploadReq(root.ID, "y.txt", "hi")); err != nil {
		t.Errorf("edit grantee should upload: %v", err)
	}
}

func TestUploadFileValidation(t *testing.T) {
	e := newTestEnv(alice)
	ctx := context.Background()

	root := mkFolder(t, e, "root", alice.ID, nil)

	for _, name := range []string{"", "a/b"} {
		if _, err := e.fileSvc.UploadFile(ctx, alice.ID, uploadReq(root.ID, name, "hi")); !errors.Is(err, domain.ErrValidation) {
			t.Errorf("name %q: expected ErrValidation, got %v", name, err)
		}
	}
}

func TestGetFilePresignsTheStorageKey(t *testing.T) {
	e := newTestEnv(alice, bob)
	ctx := context.Background()

	root := mkFolder(t, e, "root", alice.ID, nil)
	doc := mkFile(t, e, root, "x.txt", alice.ID)

	view, err := e.fileSvc.GetFile(ctx, doc.ID, alice.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if view.URL != "https://blobs.test/"+doc.StorageKey {
		t.Errorf("url = %q", view.URL)
	}

	if _, err := e.fileSvc.GetFile(ctx, doc.ID, bob.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("expected ErrForbidden without a grant, got %v", err)
	}
}

func TestRenameFile(t *testing.T) {
	e := newTestEnv(alice, bob)
	ctx := context.Background()

	root := mkFolder(t, e, "root", alice.ID, nil)
	doc := mkFile(t, e, root, "x.txt", alice.ID)
	taken := mkFile(t, e, root, "taken.txt", alice.ID)

	renamed, err := e.fileSvc.RenameFile(ctx, doc.ID, alice.ID, "notes.txt")
	if err != nil {
		t.Fatalf("rename: %v", err)
	}
	if renamed.Name != "notes.txt" {
		t.Errorf("name = %q, want %q", renamed.Name, "notes.txt")
	}
	// The blob stays where it was written.
	if renamed.StorageKey != doc.StorageKey {
		t.Errorf("storage key = %q, want the original %q", renamed.StorageKey, doc.StorageKey)
	}
	if _, ok := e.blobs.objects[doc.StorageKey]; !ok {
		t.Errorf("blob should still exist under the original key")
	}

	// Renaming onto an existing sibling name conflicts ...
	if _, err := e.fileSvc.RenameFile(ctx, doc.ID, alice.ID, taken.Name); !errors.Is(err, domain.ErrConflict) {
		t.Errorf("expected ErrConflict, got %v", err)
	}
	// ... but renaming to the current name is fine.
	if _, err := e.fileSvc.RenameFile(ctx, doc.ID, alice.ID, "notes.txt"); err != nil {
		t.Errorf("self-rename should pass: %v", err)
	}

	for _, name := range []string{"", "a/b"} {
		if _, err := e.fileSvc.RenameFile(ctx, doc.ID, alice.ID, name); !errors.Is(err, domain.ErrValidation) {
			t.Errorf("name %q: expected ErrValidation, got %v", name, err)
		}
	}
}

func TestRenameFileRequiresEdit(t *testing.T) {
	e := newTestEnv(alice, bob)
	ctx := context.Background()

	root := mkFolder(t, e, "root", alice.ID, nil)
	doc := mkFile(t, e, root, "x.txt", alice.ID)

	if _, err := e.fileSvc.RenameFile(ctx, doc.ID, bob.ID, "stolen.txt"); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("expected ErrForbidden without a grant, got %v", err)
	}

	if err := e.fileSvc.Grant(ctx, doc.ID, alice.ID, bob.ID, models.AccessView); err != nil {
		t.Fatalf("grant: %v", err)
	}
	if _, err := e.fileSvc.RenameFile(ctx, doc.ID, bob.ID, "stolen.txt"); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("expected ErrForbidden for viewer, got %v", err)
	}

	if err := e.fileSvc.Grant(ctx, doc.ID, alice.ID, bob.ID, models.AccessEdit); err != nil {
		t.Fatalf("grant: %v", err)
	}
	if _, err := e.fileSvc.RenameFile(ctx, doc.ID, bob.ID, "shared.txt"); err != nil {
		t.Errorf("edit grantee should rename: %v", err)
	}
}

func TestDeleteFileIsOwnerOnly(t *testing.T) {
	e := newTestEnv(alice, bob)
	ctx := context.Background()

	root := mkFolder(t, e, "root", alice.ID, nil)
	doc := mkFile(t, e, root, "x.txt", alice.ID)

	// Even an edit grant on the file does not allow direct deletion.
	if err := e.fileSvc.Grant(ctx, doc.ID, alice.ID, bob.ID, models.AccessEdit); err != nil {
		t.Fatalf("grant: %v", err)
	}
	if err := e.fileSvc.DeleteFile(ctx, doc.ID, bob.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("expected ErrForbidden for non-owner, got %v", err)
	}

	if err := e.fileSvc.DeleteFile(ctx, doc.ID, alice.ID); err != nil {
		t.Fatalf("owner delete: %v", err)
	}
	if _, ok := e.blobs.objects[doc.StorageKey]; ok {
		t.Errorf("blob should be gone")
	}
	if _, err := e.files.GetByID(ctx, doc.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("record should be gone")
	}
}

func TestFileGrantAndRevoke(t *testing.T) {
	e := newTestEnv(alice, bob)
	ctx := context.Background()

	root := mkFolder(t, e, "root", alice.ID, nil)
	doc := mkFile(t, e, root, "x.txt", alice.ID)

	// Grant twice; membership stays single.
	for i := 0; i < 2; i++ {
		if err := e.fileSvc.Grant(ctx, doc.ID, alice.ID, bob.ID, models.AccessView); err != nil {
			t.Fatalf("grant #%d: %v", i+1, err)
		}
	}
	got, _ := e.files.GetByID(ctx, doc.ID)
	if len(got.ViewGrants) != 1 {
		t.Errorf("view grants = %v, want exactly one entry", got.ViewGrants)
	}

	if _, err := e.fileSvc.GetFile(ctx, doc.ID, bob.ID); err != nil {
		t.Errorf("grantee read failed: %v", err)
	}

	if err := e.fileSvc.Revoke(ctx, doc.ID, alice.ID, bob.ID, models.AccessView); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if _, err := e.fileSvc.GetFile(ctx, doc.ID, bob.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("expected ErrForbidden after revoke, got %v", err)
	}
}

func TestUploadFailsClosedOnBlobError(t *testing.T) {
	e := newTestEnv(alice)
	ctx := context.Background()

	root := mkFolder(t, e, "root", alice.ID, nil)
	e.blobs.failPut = true

	_, err := e.fileSvc.UploadFile(ctx, alice.ID, uploadReq(root.ID, "x.txt", "hi"))
	if !errors.Is(err, domain.ErrStorage) {
		t.Fatalf("expected ErrStorage, got %v", err)
	}

	// No record without a blob.
	files, _ := e.files.ListByFolder(ctx, root.ID)
	if len(files) != 0 {
		t.Errorf("no file record should exist after a failed put, got %+v", files)
	}
}
