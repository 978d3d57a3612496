package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/filevault/internal/common"
	"github.com/dmitrijs2005/filevault/internal/server/models"
	"github.com/dmitrijs2005/filevault/internal/server/repositories/users"
)

func TestUserList_Success(t *testing.T) {
	rm := &fakeRepoManager{u: &fakeUsersRepo{
		listOut:     []*models.User{{ID: "u1"}, {ID: "u2"}},
		count:       2,
		countActive: 1,
	}}
	s := NewUserService(rm, testLogger())

	list, err := s.List(context.Background())
	require.NoError(t, err)

	assert.Len(t, list.Users, 2)
	assert.Equal(t, 2, list.Statistics.Total)
	assert.Equal(t, 1, list.Statistics.Active)
	assert.Equal(t, 1, list.Statistics.Inactive)
}

func TestUserUpdate_InvalidRole(t *testing.T) {
	rm := &fakeRepoManager{u: &fakeUsersRepo{}}
	s := NewUserService(rm, testLogger())

	role := "SUPERUSER"
	_, err := s.Update(context.Background(), "u1", users.UpdateParams{Role: &role})
	assert.ErrorIs(t, err, common.ErrorValidation)
}

func TestUserUpdate_Success(t *testing.T) {
	repo := &fakeUsersRepo{updateOut: &models.User{ID: "u1", Role: models.RoleEditor}}
	s := NewUserService(&fakeRepoManager{u: repo}, testLogger())

	role := models.RoleEditor
	user, err := s.Update(context.Background(), "u1", users.UpdateParams{Role: &role})
	require.NoError(t, err)
	assert.Equal(t, models.RoleEditor, user.Role)
}

func TestActivate_AlreadyActive(t *testing.T) {
	repo := &fakeUsersRepo{getOut: &models.User{ID: "u1", Active: true}}
	s := NewUserService(&fakeRepoManager{u: repo}, testLogger())

	_, err := s.Activate(context.Background(), "u1")
	assert.ErrorIs(t, err, common.ErrorValidation)
}

func TestDeactivate_Success(t *testing.T) {
	repo := &fakeUsersRepo{
		getOut:    &models.User{ID: "u1", Active: true},
		updateOut: &models.User{ID: "u1", Active: false},
	}
	s := NewUserService(&fakeRepoManager{u: repo}, testLogger())

	user, err := s.Deactivate(context.Background(), "u1")
	require.NoError(t, err)

	assert.False(t, user.Active)
	require.NotNil(t, repo.updateParams.Active)
	assert.False(t, *repo.updateParams.Active)
}

func TestDeactivate_AlreadyInactive(t *testing.T) {
	repo := &fakeUsersRepo{getOut: &models.User{ID: "u1", Active: false}}
	s := NewUserService(&fakeRepoManager{u: repo}, testLogger())

	_, err := s.Deactivate(context.Background(), "u1")
	assert.ErrorIs(t, err, common.ErrorValidation)
}

func TestUserDelete_Success(t *testing.T) {
	u := &fakeUsersRepo{getOut: &models.User{ID: "u1"}}
	f := &fakeFilesRepo{}
	s := NewUserService(&fakeRepoManager{u: u, f: f}, testLogger())

	err := s.Delete(context.Background(), "u1")
	require.NoError(t, err)

	assert.True(t, f.deleteByUserCalled)
	assert.True(t, u.deleteCalled)
}

func TestUserDelete_NotFound(t *testing.T) {
	u := &fakeUsersRepo{getErr: common.ErrorNotFound}
	f := &fakeFilesRepo{}
	s := NewUserService(&fakeRepoManager{u: u, f: f}, testLogger())

	err := s.Delete(context.Background(), "missing")
	assert.ErrorIs(t, err, common.ErrorNotFound)
	assert.False(t, f.deleteByUserCalled)
}

func TestUserDelete_TxError(t *testing.T) {
	u := &fakeUsersRepo{getOut: &models.User{ID: "u1"}}
	rm := &fakeRepoManager{u: u, f: &fakeFilesRepo{}, txErr: errors.New("tx failed")}
	s := NewUserService(rm, testLogger())

	err := s.Delete(context.Background(), "u1")
	assert.Error(t, err)
}

func TestSearch_QueryTooShort(t *testing.T) {
	s := NewUserService(&fakeRepoManager{u: &fakeUsersRepo{}}, testLogger())

	_, err := s.Search(context.Background(), "  a ")
	assert.ErrorIs(t, err, common.ErrorValidation)
}

func TestSearch_Success(t *testing.T) {
	repo := &fakeUsersRepo{listOut: []*models.User{{ID: "u1"}}}
	s := NewUserService(&fakeRepoManager{u: repo}, testLogger())

	result, err := s.Search(context.Background(), " john ")
	require.NoError(t, err)

	assert.Equal(t, "john", result.Query)
	assert.Equal(t, 1, result.Count)
}

func TestByRole_InvalidRole(t *testing.T) {
	s := NewUserService(&fakeRepoManager{u: &fakeUsersRepo{}}, testLogger())

	_, err := s.ByRole(context.Background(), "WIZARD")
	assert.ErrorIs(t, err, common.ErrorValidation)
}

func TestByRole_Success(t *testing.T) {
	repo := &fakeUsersRepo{listOut: []*models.User{{ID: "u1", Role: models.RoleAdmin}}}
	s := NewUserService(&fakeRepoManager{u: repo}, testLogger())

	result, err := s.ByRole(context.Background(), models.RoleAdmin)
	require.NoError(t, err)

	assert.Equal(t, models.RoleAdmin, result.Role)
	assert.Equal(t, 1, result.Count)
}

func TestStatistics_Success(t *testing.T) {
	repo := &fakeUsersRepo{
		count:       10,
		countActive: 7,
		countRecent: 3,
		countByRole: map[string]int{
			models.RoleAdmin:  1,
			models.RoleEditor: 2,
			models.RoleUser:   6,
		},
	}
	s := NewUserService(&fakeRepoManager{u: repo}, testLogger())

	stats, err := s.Statistics(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 10, stats.Total)
	assert.Equal(t, 7, stats.Active)
	assert.Equal(t, 3, stats.Inactive)
	assert.Equal(t, 3, stats.Recent)
	assert.Equal(t, RoleBreakdown{Admin: 1, Editor: 2, User: 6, Other: 1}, stats.ByRole)
}
