package drive

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"drivebox/internal/config"
	"drivebox/internal/domain"
	"drivebox/internal/domain/models"
	"drivebox/internal/domain/repositories"
	"drivebox/internal/domain/services"
)

// In-memory fakes for the repository and blob interfaces. They return value
// copies so tests observe only what services explicitly persist via Update,
// the same way the SQL repositories behave.

type fakeFolderRepo struct {
	folders map[string]*models.Folder
}

func newFakeFolderRepo() *fakeFolderRepo {
	return &fakeFolderRepo{folders: make(map[string]*models.Folder)}
}

func copyFolder(f *models.Folder) *models.Folder {
	c := *f
	c.ViewGrants = f.ViewGrants.Clone()
	c.EditGrants = f.EditGrants.Clone()
	return &c
}

// sameParent compares parent pointers the way IS NOT DISTINCT FROM does.
func sameParent(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// checkSiblingUnique mirrors the UNIQUE(owner_id, parent_id, name)
// constraint the SQL repository relies on.
func (r *fakeFolderRepo) checkSiblingUnique(folder *models.Folder) error {
	for _, f := range r.folders {
		if f.ID != folder.ID && f.OwnerID == folder.OwnerID &&
			sameParent(f.ParentID, folder.ParentID) && f.Name == folder.Name {
			return &domain.ConflictError{
				Message:      "folder " + folder.Name + " already exists",
				ResourceType: "folder",
				ResourceID:   f.ID,
			}
		}
	}
	return nil
}

func (r *fakeFolderRepo) Create(ctx context.Context, folder *models.Folder) error {
	if folder.ID == "" {
		folder.ID = uuid.NewString()
	}
	if err := r.checkSiblingUnique(folder); err != nil {
		return err
	}
	r.folders[folder.ID] = copyFolder(folder)
	return nil
}

func (r *fakeFolderRepo) GetByID(ctx context.Context, id string) (*models.Folder, error) {
	f, ok := r.folders[id]
	if !ok {
		return nil, &domain.NotFoundError{Message: "folder " + id + " not found"}
	}
	return copyFolder(f), nil
}

func (r *fakeFolderRepo) GetSibling(ctx context.Context, ownerID int64, parentID *string, name string) (*models.Folder, error) {
	for _, f := range r.folders {
		if f.OwnerID == ownerID && sameParent(f.ParentID, parentID) && f.Name == name {
			return copyFolder(f), nil
		}
	}
	return nil, nil
}

func (r *fakeFolderRepo) Update(ctx context.Context, folder *models.Folder) error {
	if _, ok := r.folders[folder.ID]; !ok {
		return &domain.NotFoundError{Message: "folder " + folder.ID + " not found"}
	}
	if err := r.checkSiblingUnique(folder); err != nil {
		return err
	}
	r.folders[folder.ID] = copyFolder(folder)
	return nil
}

func (r *fakeFolderRepo) Delete(ctx context.Context, id string) error {
	delete(r.folders, id)
	return nil
}

func (r *fakeFolderRepo) ListChildren(ctx context.Context, parentID string) ([]models.Folder, error) {
	var out []models.Folder
	for _, f := range r.folders {
		if f.ParentID != nil && *f.ParentID == parentID {
			out = append(out, *copyFolder(f))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakeFolderRepo) SearchByName(ctx context.Context, ownerID int64, substring string) ([]models.Folder, error) {
	var out []models.Folder
	for _, f := range r.folders {
		if f.OwnerID == ownerID && strings.Contains(f.Name, substring) {
			out = append(out, *copyFolder(f))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakeFolderRepo) LockSubtree(ctx context.Context, rootID string) error {
	return nil
}

type fakeFileRepo struct {
	files map[string]*models.File
}

func newFakeFileRepo() *fakeFileRepo {
	return &fakeFileRepo{files: make(map[string]*models.File)}
}

func copyFile(f *models.File) *models.File {
	c := *f
	c.ViewGrants = f.ViewGrants.Clone()
	c.EditGrants = f.EditGrants.Clone()
	return &c
}

func (r *fakeFileRepo) Create(ctx context.Context, file *models.File) error {
	if file.ID == "" {
		file.ID = uuid.NewString()
	}
	r.files[file.ID] = copyFile(file)
	return nil
}

func (r *fakeFileRepo) GetByID(ctx context.Context, id string) (*models.File, error) {
	f, ok := r.files[id]
	if !ok {
		return nil, &domain.NotFoundError{Message: "file " + id + " not found"}
	}
	return copyFile(f), nil
}

func (r *fakeFileRepo) ListByFolder(ctx context.Context, folderID string) ([]models.File, error) {
	var out []models.File
	for _, f := range r.files {
		if f.FolderID == folderID {
			out = append(out, *copyFile(f))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakeFileRepo) Update(ctx context.Context, file *models.File) error {
	if _, ok := r.files[file.ID]; !ok {
		return &domain.NotFoundError{Message: "file " + file.ID + " not found"}
	}
	r.files[file.ID] = copyFile(file)
	return nil
}

func (r *fakeFileRepo) Delete(ctx context.Context, id string) error {
	delete(r.files, id)
	return nil
}

func (r *fakeFileRepo) SearchByName(ctx context.Context, ownerID int64, substring string) ([]models.File, error) {
	var out []models.File
	for _, f := range r.files {
		if f.OwnerID == ownerID && strings.Contains(f.Name, substring) {
			out = append(out, *copyFile(f))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type fakeUserRepo struct {
	users map[int64]*models.User
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[int64]*models.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	if user.ID == 0 {
		user.ID = int64(len(r.users) + 1)
	}
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id int64) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, &domain.NotFoundError{Message: fmt.Sprintf("user %d not found", id)}
	}
	return u, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

type fakeObject struct {
	data        []byte
	contentType string
}

type fakeBlobStore struct {
	objects map[string]fakeObject

	// failDelete and failCopy inject storage failures for specific keys.
	failDelete map[string]bool
	failCopy   bool
	failPut    bool
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{
		objects:    make(map[string]fakeObject),
		failDelete: make(map[string]bool),
	}
}

func (b *fakeBlobStore) Put(ctx context.Context, key string, body io.Reader, contentType string) error {
	if b.failPut {
		return fmt.Errorf("put %s: backend down", key)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	b.objects[key] = fakeObject{data: data, contentType: contentType}
	return nil
}

func (b *fakeBlobStore) PresignedGet(ctx context.Context, key string, ttl time.Duration) (string, error) {
	return "https://blobs.test/" + key, nil
}

func (b *fakeBlobStore) Head(ctx context.Context, key string) (*services.ObjectInfo, error) {
	obj, ok := b.objects[key]
	if !ok {
		return nil, fmt.Errorf("head %s: not found", key)
	}
	return &services.ObjectInfo{ContentType: obj.contentType, Size: int64(len(obj.data))}, nil
}

func (b *fakeBlobStore) Delete(ctx context.Context, key string) error {
	if b.failDelete[key] {
		return fmt.Errorf("delete %s: backend down", key)
	}
	delete(b.objects, key) // deleting a missing key is a no-op
	return nil
}

func (b *fakeBlobStore) Copy(ctx context.Context, sourceKey, destKey string) error {
	if b.failCopy {
		return fmt.Errorf("copy %s: backend down", sourceKey)
	}
	obj, ok := b.objects[sourceKey]
	if !ok {
		return fmt.Errorf("copy %s: not found", sourceKey)
	}
	b.objects[destKey] = obj
	return nil
}

// fakeTxManager runs the unit of work directly; the fakes have no
// transactional state to roll back, so failure tests assert on what the
// services wrote before the error instead.
type fakeTxManager struct{}

func (fakeTxManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	return fn(ctx)
}

// testEnv wires the full service graph over the fakes.
type testEnv struct {
	folders  *fakeFolderRepo
	files    *fakeFileRepo
	users    *fakeUserRepo
	blobs    *fakeBlobStore
	notifier *fakeNotifier

	folderSvc services.FolderService
	fileSvc   services.FileService
	shareSvc  services.ShareService
	treeSvc   services.TreeService
	paths     services.PathResolver
}

func newTestEnv(users ...*models.User) *testEnv {
	e := &testEnv{
		folders:  newFakeFolderRepo(),
		files:    newFakeFileRepo(),
		users:    newFakeUserRepo(users...),
		blobs:    newFakeBlobStore(),
		notifier: &fakeNotifier{},
	}

	logger := config.NewTestLogger()
	access := NewAccessEvaluator()
	e.paths = NewPathResolver(e.folders)
	tx := fakeTxManager{}

	e.folderSvc = NewFolderService(e.folders, e.files, e.blobs, e.paths, access, tx, logger)
	e.fileSvc = NewFileService(e.files, e.folders, e.users, e.blobs, e.paths, access, tx, logger)
	e.shareSvc = NewShareService(e.folders, e.files, e.users, access, tx, e.notifier, logger)
	e.treeSvc = NewTreeService(e.folders, e.files, e.blobs, access, logger)

	return e
}

type sentMail struct {
	email, subject, body string
}

type fakeNotifier struct {
	sent []sentMail
	err  error
}

func (n *fakeNotifier) Notify(ctx context.Context, email, subject, body string) error {
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, sentMail{email: email, subject: subject, body: body})
	return nil
}
