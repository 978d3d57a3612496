package services

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/dmitrijs2005/filevault/internal/logging"
	"github.com/dmitrijs2005/filevault/internal/server/identity"
	"github.com/dmitrijs2005/filevault/internal/server/models"
	"github.com/dmitrijs2005/filevault/internal/server/repositories/files"
	"github.com/dmitrijs2005/filevault/internal/server/repositories/repomanager"
	usersrepo "github.com/dmitrijs2005/filevault/internal/server/repositories/users"
	"github.com/dmitrijs2005/filevault/internal/server/storage"
)

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// --- fakes ---

type fakeUsersRepo struct {
	createOut *models.User
	createErr error

	getOut *models.User
	getErr error

	listOut []*models.User
	listErr error

	updateOut    *models.User
	updateErr    error
	updateParams usersrepo.UpdateParams

	deleteErr    error
	deleteCalled bool

	count        int
	countActive  int
	countByRole  map[string]int
	countRecent  int
	countErr     error
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	if f.createOut != nil {
		return f.createOut, nil
	}
	return u, nil
}
func (f *fakeUsersRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}
func (f *fakeUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}
func (f *fakeUsersRepo) GetByAPIKey(ctx context.Context, key string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}
func (f *fakeUsersRepo) List(ctx context.Context) ([]*models.User, error) {
	return f.listOut, f.listErr
}
func (f *fakeUsersRepo) Search(ctx context.Context, query string) ([]*models.User, error) {
	return f.listOut, f.listErr
}
func (f *fakeUsersRepo) ListByRole(ctx context.Context, role string) ([]*models.User, error) {
	return f.listOut, f.listErr
}
func (f *fakeUsersRepo) Update(ctx context.Context, id string, params usersrepo.UpdateParams) (*models.User, error) {
	f.updateParams = params
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	return f.updateOut, nil
}
func (f *fakeUsersRepo) Delete(ctx context.Context, id string) error {
	f.deleteCalled = true
	return f.deleteErr
}
func (f *fakeUsersRepo) Count(ctx context.Context) (int, error) {
	return f.count, f.countErr
}
func (f *fakeUsersRepo) CountActive(ctx context.Context) (int, error) {
	return f.countActive, f.countErr
}
func (f *fakeUsersRepo) CountByRole(ctx context.Context, role string) (int, error) {
	return f.countByRole[role], f.countErr
}
func (f *fakeUsersRepo) CountCreatedSince(ctx context.Context, since time.Time) (int, error) {
	return f.countRecent, f.countErr
}

type fakeFilesRepo struct {
	createOut *models.StoredFile
	createErr error

	getOut *models.StoredFile
	getErr error

	listOut    []*models.StoredFile
	listErr    error
	listParams files.ListParams

	count    int
	countErr error

	folderNames    []string
	folderNamesErr error

	updateOut *models.StoredFile
	updateErr error

	deleteErr    error
	deleteCalled bool

	deleteByUserErr    error
	deleteByUserCalled bool

	statsOut *files.Stats
	statsErr error
}

func (f *fakeFilesRepo) Create(ctx context.Context, file *models.StoredFile) (*models.StoredFile, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	if f.createOut != nil {
		return f.createOut, nil
	}
	return file, nil
}
func (f *fakeFilesRepo) GetByID(ctx context.Context, id, userID string) (*models.StoredFile, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}
func (f *fakeFilesRepo) List(ctx context.Context, params files.ListParams) ([]*models.StoredFile, error) {
	f.listParams = params
	return f.listOut, f.listErr
}
func (f *fakeFilesRepo) Count(ctx context.Context, userID string, folder *string) (int, error) {
	return f.count, f.countErr
}
func (f *fakeFilesRepo) FolderNames(ctx context.Context, userID string) ([]string, error) {
	return f.folderNames, f.folderNamesErr
}
func (f *fakeFilesRepo) UpdateOriginalName(ctx context.Context, id, userID, originalName string) (*models.StoredFile, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	return f.updateOut, nil
}
func (f *fakeFilesRepo) Delete(ctx context.Context, id, userID string) error {
	f.deleteCalled = true
	return f.deleteErr
}
func (f *fakeFilesRepo) DeleteByUser(ctx context.Context, userID string) error {
	f.deleteByUserCalled = true
	return f.deleteByUserErr
}
func (f *fakeFilesRepo) Stats(ctx context.Context, userID string) (*files.Stats, error) {
	return f.statsOut, f.statsErr
}

type fakeRepoManager struct {
	u *fakeUsersRepo
	f *fakeFilesRepo

	txErr error
}

func (m *fakeRepoManager) Users() usersrepo.Repository { return m.u }
func (m *fakeRepoManager) Files() files.Repository     { return m.f }
func (m *fakeRepoManager) WithTx(ctx context.Context, fn func(ctx context.Context, rm repomanager.RepositoryManager) error) error {
	if m.txErr != nil {
		return m.txErr
	}
	return fn(ctx, m)
}
func (m *fakeRepoManager) Close() error { return nil }

type fakeStorage struct {
	ensureErr     error
	ensuredPath   string
	uploadOut     *storage.Object
	uploadErr     error
	uploadedKeys  []string
	deleteErr     error
	deletedKeys   []string
}

func (f *fakeStorage) EnsureFolder(ctx context.Context, path string) error {
	f.ensuredPath = path
	return f.ensureErr
}
func (f *fakeStorage) Upload(ctx context.Context, key, contentType string, body io.Reader) (*storage.Object, error) {
	if f.uploadErr != nil {
		return nil, f.uploadErr
	}
	f.uploadedKeys = append(f.uploadedKeys, key)
	if f.uploadOut != nil {
		return f.uploadOut, nil
	}
	return &storage.Object{Key: key, URL: "https://s3.local/media/" + key}, nil
}
func (f *fakeStorage) Delete(ctx context.Context, key string) error {
	f.deletedKeys = append(f.deletedKeys, key)
	return f.deleteErr
}

type fakeIdentity struct {
	signUpID  string
	signUpErr error

	verifyOut *identity.Identity
	verifyErr error
}

func (f *fakeIdentity) SignUp(ctx context.Context, email, password string) (string, error) {
	if f.signUpErr != nil {
		return "", f.signUpErr
	}
	return f.signUpID, nil
}
func (f *fakeIdentity) Verify(ctx context.Context, token string) (*identity.Identity, error) {
	if f.verifyErr != nil {
		return nil, f.verifyErr
	}
	return f.verifyOut, nil
}
