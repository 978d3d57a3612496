// Package repomanager aggregates the per-resource repositories over a single
// database handle and owns schema migration on startup.
package repomanager

import (
	"context"

	"github.com/dmitrijs2005/filevault/internal/server/repositories/files"
	"github.com/dmitrijs2005/filevault/internal/server/repositories/users"
)

// RepositoryManager exposes the per-resource repositories.
type RepositoryManager interface {
	Users() users.Repository
	Files() files.Repository

	// WithTx runs fn with a manager whose repositories share one database
	// transaction; commit/rollback follows fn's error.
	WithTx(ctx context.Context, fn func(ctx context.Context, rm RepositoryManager) error) error

	Close() error
}
