package httpapi

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/dmitrijs2005/filevault/internal/common"
	"github.com/dmitrijs2005/filevault/internal/logging"
	"github.com/dmitrijs2005/filevault/internal/server/identity"
	"github.com/dmitrijs2005/filevault/internal/server/models"
	"github.com/dmitrijs2005/filevault/internal/server/repositories/files"
	usersrepo "github.com/dmitrijs2005/filevault/internal/server/repositories/users"
	"github.com/dmitrijs2005/filevault/internal/server/storage"
)

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

type fakeProvider struct {
	out *identity.Identity
	err error
}

func (f *fakeProvider) SignUp(ctx context.Context, email, password string) (string, error) {
	return "", f.err
}
func (f *fakeProvider) Verify(ctx context.Context, token string) (*identity.Identity, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.out, nil
}

// fakeUsersRepo keys lookups by the value passed in, so one fake can serve
// GetByID, GetByAPIKey and GetByEmail at once.
type fakeUsersRepo struct {
	byID  map[string]*models.User
	byKey map[string]*models.User
}

func (f *fakeUsersRepo) get(m map[string]*models.User, k string) (*models.User, error) {
	if u, ok := m[k]; ok {
		return u, nil
	}
	return nil, common.ErrorNotFound
}
func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	return u, nil
}
func (f *fakeUsersRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	return f.get(f.byID, id)
}
func (f *fakeUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return nil, common.ErrorNotFound
}
func (f *fakeUsersRepo) GetByAPIKey(ctx context.Context, key string) (*models.User, error) {
	return f.get(f.byKey, key)
}
func (f *fakeUsersRepo) List(ctx context.Context) ([]*models.User, error)   { return nil, nil }
func (f *fakeUsersRepo) Search(ctx context.Context, q string) ([]*models.User, error) {
	return nil, nil
}
func (f *fakeUsersRepo) ListByRole(ctx context.Context, role string) ([]*models.User, error) {
	return nil, nil
}
func (f *fakeUsersRepo) Update(ctx context.Context, id string, params usersrepo.UpdateParams) (*models.User, error) {
	return f.get(f.byID, id)
}
func (f *fakeUsersRepo) Delete(ctx context.Context, id string) error { return nil }
func (f *fakeUsersRepo) Count(ctx context.Context) (int, error)      { return len(f.byID), nil }
func (f *fakeUsersRepo) CountActive(ctx context.Context) (int, error) {
	return len(f.byID), nil
}
func (f *fakeUsersRepo) CountByRole(ctx context.Context, role string) (int, error) { return 0, nil }
func (f *fakeUsersRepo) CountCreatedSince(ctx context.Context, since time.Time) (int, error) {
	return 0, nil
}

type fakeFilesRepo struct {
	byID map[string]*models.StoredFile
}

func (f *fakeFilesRepo) Create(ctx context.Context, file *models.StoredFile) (*models.StoredFile, error) {
	file.ID = "f-new"
	return file, nil
}
func (f *fakeFilesRepo) GetByID(ctx context.Context, id, userID string) (*models.StoredFile, error) {
	if file, ok := f.byID[id]; ok && file.UserID == userID {
		return file, nil
	}
	return nil, common.ErrorNotFound
}
func (f *fakeFilesRepo) List(ctx context.Context, params files.ListParams) ([]*models.StoredFile, error) {
	return nil, nil
}
func (f *fakeFilesRepo) Count(ctx context.Context, userID string, folder *string) (int, error) {
	return 0, nil
}
func (f *fakeFilesRepo) FolderNames(ctx context.Context, userID string) ([]string, error) {
	return nil, nil
}
func (f *fakeFilesRepo) UpdateOriginalName(ctx context.Context, id, userID, name string) (*models.StoredFile, error) {
	return f.GetByID(ctx, id, userID)
}
func (f *fakeFilesRepo) Delete(ctx context.Context, id, userID string) error {
	if _, err := f.GetByID(ctx, id, userID); err != nil {
		return err
	}
	delete(f.byID, id)
	return nil
}
func (f *fakeFilesRepo) DeleteByUser(ctx context.Context, userID string) error { return nil }
func (f *fakeFilesRepo) Stats(ctx context.Context, userID string) (*files.Stats, error) {
	return &files.Stats{FolderBreakdown: []files.FolderStat{}}, nil
}

type fakeStorage struct{}

func (f *fakeStorage) EnsureFolder(ctx context.Context, path string) error { return nil }
func (f *fakeStorage) Upload(ctx context.Context, key, contentType string, body io.Reader) (*storage.Object, error) {
	return &storage.Object{Key: key, URL: "https://s3.local/media/" + key}, nil
}
func (f *fakeStorage) Delete(ctx context.Context, key string) error { return nil }
