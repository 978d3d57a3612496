// Package files contains the persistence layer for stored-file metadata.
package files

import (
	"context"

	"github.com/dmitrijs2005/filevault/internal/server/models"
)

// ListParams filters and pages a per-user file listing. A nil Folder means
// "any folder"; a non-nil Folder matches folder_name exactly (empty string
// selects the root).
type ListParams struct {
	UserID string
	Folder *string
	Limit  int
	Offset int
}

// FolderStat aggregates usage for a single folder.
type FolderStat struct {
	FolderName string `json:"folderName"`
	FileCount  int    `json:"fileCount"`
	TotalSize  int64  `json:"totalSize"`
}

// Stats aggregates storage usage for one user.
type Stats struct {
	TotalFiles      int          `json:"totalFiles"`
	TotalSize       int64        `json:"totalSize"`
	FolderBreakdown []FolderStat `json:"folderBreakdown"`
}

// Repository defines storage operations for file metadata. Every read and
// write is scoped to the owning user; a record owned by someone else is
// indistinguishable from a missing one (common.ErrorNotFound).
type Repository interface {
	Create(ctx context.Context, file *models.StoredFile) (*models.StoredFile, error)
	GetByID(ctx context.Context, id, userID string) (*models.StoredFile, error)
	// List returns files ordered by upload time, newest first.
	List(ctx context.Context, params ListParams) ([]*models.StoredFile, error)
	// Count returns the number of files matching the same filter as List.
	Count(ctx context.Context, userID string, folder *string) (int, error)
	// FolderNames returns the distinct non-empty folder paths of the user's files.
	FolderNames(ctx context.Context, userID string) ([]string, error)
	// UpdateOriginalName renames a file and returns the updated record.
	UpdateOriginalName(ctx context.Context, id, userID, originalName string) (*models.StoredFile, error)
	Delete(ctx context.Context, id, userID string) error
	// DeleteByUser removes all file records of one user.
	DeleteByUser(ctx context.Context, userID string) error
	Stats(ctx context.Context, userID string) (*Stats, error)
}
