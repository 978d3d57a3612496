package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/filevault/internal/common"
	"github.com/dmitrijs2005/filevault/internal/logging"
	"github.com/dmitrijs2005/filevault/internal/server/models"
	"github.com/dmitrijs2005/filevault/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/filevault/internal/server/repositories/users"
)

// recentWindow is the look-back period for the "recent" statistics bucket.
const recentWindow = 30 * 24 * time.Hour

// UserStatistics summarises the account population.
type UserStatistics struct {
	Total    int `json:"total"`
	Active   int `json:"active"`
	Inactive int `json:"inactive"`
}

// UserList is the admin listing: all users plus headline statistics.
type UserList struct {
	Users      []*models.User `json:"users"`
	Statistics UserStatistics `json:"statistics"`
}

// SearchResult echoes the query alongside the matched users.
type SearchResult struct {
	Users []*models.User `json:"users"`
	Count int            `json:"count"`
	Query string         `json:"query"`
}

// RoleList groups users sharing one role.
type RoleList struct {
	Users []*models.User `json:"users"`
	Count int            `json:"count"`
	Role  string         `json:"role"`
}

// RoleBreakdown counts users per role; Other catches rows with unknown roles.
type RoleBreakdown struct {
	Admin  int `json:"admin"`
	Editor int `json:"editor"`
	User   int `json:"user"`
	Other  int `json:"other"`
}

// FullStatistics is the admin statistics endpoint payload.
type FullStatistics struct {
	Total    int           `json:"total"`
	Active   int           `json:"active"`
	Inactive int           `json:"inactive"`
	Recent   int           `json:"recent"`
	ByRole   RoleBreakdown `json:"byRole"`
}

// UserService implements the administrative user operations.
type UserService struct {
	rm     repomanager.RepositoryManager
	logger logging.Logger
}

func NewUserService(rm repomanager.RepositoryManager, logger logging.Logger) *UserService {
	return &UserService{rm: rm, logger: logger.With("module", "user_service")}
}

func (s *UserService) List(ctx context.Context) (*UserList, error) {
	repo := s.rm.Users()

	list, err := repo.List(ctx)
	if err != nil {
		return nil, err
	}
	total, err := repo.Count(ctx)
	if err != nil {
		return nil, err
	}
	active, err := repo.CountActive(ctx)
	if err != nil {
		return nil, err
	}

	return &UserList{
		Users: list,
		Statistics: UserStatistics{
			Total:    total,
			Active:   active,
			Inactive: total - active,
		},
	}, nil
}

func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	return s.rm.Users().GetByID(ctx, id)
}

// Update applies a partial admin update; a present role must be valid.
func (s *UserService) Update(ctx context.Context, id string, params users.UpdateParams) (*models.User, error) {
	if params.Role != nil && !models.ValidRole(*params.Role) {
		return nil, fmt.Errorf("%w: unknown role %q", common.ErrorValidation, *params.Role)
	}
	return s.rm.Users().Update(ctx, id, params)
}

func (s *UserService) setActive(ctx context.Context, id string, active bool) (*models.User, error) {
	user, err := s.rm.Users().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if user.Active == active {
		state := "inactive"
		if active {
			state = "active"
		}
		return nil, fmt.Errorf("%w: user is already %s", common.ErrorValidation, state)
	}

	return s.rm.Users().Update(ctx, id, users.UpdateParams{Active: &active})
}

// Activate re-enables a deactivated account.
func (s *UserService) Activate(ctx context.Context, id string) (*models.User, error) {
	return s.setActive(ctx, id, true)
}

// Deactivate soft-deletes an account: the record stays, access stops.
func (s *UserService) Deactivate(ctx context.Context, id string) (*models.User, error) {
	return s.setActive(ctx, id, false)
}

// Delete removes the user permanently together with their file records.
// Both deletes run in one transaction.
func (s *UserService) Delete(ctx context.Context, id string) error {
	if _, err := s.rm.Users().GetByID(ctx, id); err != nil {
		return err
	}

	err := s.rm.WithTx(ctx, func(ctx context.Context, rm repomanager.RepositoryManager) error {
		if err := rm.Files().DeleteByUser(ctx, id); err != nil {
			return err
		}
		return rm.Users().Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	s.logger.Info(ctx, "user deleted", "user_id", id)
	return nil
}

func (s *UserService) Search(ctx context.Context, query string) (*SearchResult, error) {
	q := strings.TrimSpace(query)
	if len(q) < 2 {
		return nil, fmt.Errorf("%w: search query must be at least 2 characters", common.ErrorValidation)
	}

	matched, err := s.rm.Users().Search(ctx, q)
	if err != nil {
		return nil, err
	}

	return &SearchResult{Users: matched, Count: len(matched), Query: q}, nil
}

func (s *UserService) ByRole(ctx context.Context, role string) (*RoleList, error) {
	if !models.ValidRole(role) {
		return nil, fmt.Errorf("%w: unknown role %q", common.ErrorValidation, role)
	}

	list, err := s.rm.Users().ListByRole(ctx, role)
	if err != nil {
		return nil, err
	}

	return &RoleList{Users: list, Count: len(list), Role: role}, nil
}

func (s *UserService) Statistics(ctx context.Context) (*FullStatistics, error) {
	repo := s.rm.Users()

	total, err := repo.Count(ctx)
	if err != nil {
		return nil, err
	}
	active, err := repo.CountActive(ctx)
	if err != nil {
		return nil, err
	}
	recent, err := repo.CountCreatedSince(ctx, time.Now().Add(-recentWindow))
	if err != nil {
		return nil, err
	}

	byRole := RoleBreakdown{}
	if byRole.Admin, err = repo.CountByRole(ctx, models.RoleAdmin); err != nil {
		return nil, err
	}
	if byRole.Editor, err = repo.CountByRole(ctx, models.RoleEditor); err != nil {
		return nil, err
	}
	if byRole.User, err = repo.CountByRole(ctx, models.RoleUser); err != nil {
		return nil, err
	}
	byRole.Other = total - byRole.Admin - byRole.Editor - byRole.User

	return &FullStatistics{
		Total:    total,
		Active:   active,
		Inactive: total - active,
		Recent:   recent,
		ByRole:   byRole,
	}, nil
}
