// Package users contains the persistence layer for user accounts.
package users

import (
	"context"
	"time"

	"github.com/dmitrijs2005/filevault/internal/server/models"
)

// UpdateParams carries a partial user update. Nil fields are left unchanged.
type UpdateParams struct {
	Name   *string
	Role   *string
	Active *bool
}

// Repository defines storage operations for user accounts.
type Repository interface {
	// Create inserts a new user. A duplicate email or API key yields
	// common.ErrorAlreadyExists.
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// GetByAPIKey resolves the user owning the given API key.
	GetByAPIKey(ctx context.Context, key string) (*models.User, error)
	// List returns all users, newest first.
	List(ctx context.Context) ([]*models.User, error)
	// Search matches query against email and name, case-insensitive,
	// capped at 50 results.
	Search(ctx context.Context, query string) ([]*models.User, error)
	ListByRole(ctx context.Context, role string) ([]*models.User, error)
	// Update applies a partial update and returns the updated user.
	Update(ctx context.Context, id string, params UpdateParams) (*models.User, error)
	// Delete removes the user permanently.
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
	CountActive(ctx context.Context) (int, error)
	CountByRole(ctx context.Context, role string) (int, error)
	CountCreatedSince(ctx context.Context, since time.Time) (int, error)
}
