// Package services implements the application logic between the HTTP surface
// and the repositories/delegates.
package services

import (
	"context"
	"fmt"
	"net/mail"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/filevault/internal/common"
	"github.com/dmitrijs2005/filevault/internal/logging"
	"github.com/dmitrijs2005/filevault/internal/server/identity"
	"github.com/dmitrijs2005/filevault/internal/server/models"
	"github.com/dmitrijs2005/filevault/internal/server/repositories/users"
	"github.com/dmitrijs2005/filevault/internal/server/storage"
)

const minPasswordLength = 6

// AuthService handles registration and the profile of the authenticated user.
type AuthService struct {
	users    users.Repository
	identity identity.Provider
	storage  storage.ObjectStorage
	logger   logging.Logger
}

func NewAuthService(repo users.Repository, provider identity.Provider, store storage.ObjectStorage, logger logging.Logger) *AuthService {
	return &AuthService{
		users:    repo,
		identity: provider,
		storage:  store,
		logger:   logger.With("module", "auth_service"),
	}
}

// Register creates the identity-provider account, provisions the user's root
// media folder, and persists the local user record with a fresh API key.
// A duplicate email surfaces as common.ErrorAlreadyExists.
func (s *AuthService) Register(ctx context.Context, email, password, name string) (*models.User, error) {

	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("%w: invalid email address", common.ErrorValidation)
	}
	if len(password) < minPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", common.ErrorValidation, minPasswordLength)
	}

	id, err := s.identity.SignUp(ctx, email, password)
	if err != nil {
		return nil, err
	}

	if err := s.storage.EnsureFolder(ctx, email); err != nil {
		return nil, fmt.Errorf("error provisioning media folder: %w", err)
	}

	user := &models.User{
		ID:     id,
		Email:  email,
		Name:   name,
		Role:   models.RoleUser,
		Active: true,
		APIKey: uuid.NewString(),
	}

	user, err = s.users.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "user registered", "user_id", user.ID)

	return user, nil
}

// Profile returns the local user record for a bearer identity.
func (s *AuthService) Profile(ctx context.Context, userID string) (*models.User, error) {
	return s.users.GetByID(ctx, userID)
}

// UpdateProfile changes the display name of the authenticated user.
func (s *AuthService) UpdateProfile(ctx context.Context, userID, name string) (*models.User, error) {
	return s.users.Update(ctx, userID, users.UpdateParams{Name: &name})
}

// APIKey returns the API key of the authenticated user.
func (s *AuthService) APIKey(ctx context.Context, userID string) (string, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}
	return user.APIKey, nil
}
