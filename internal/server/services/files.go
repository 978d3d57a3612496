package services

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/filevault/internal/common"
	"github.com/dmitrijs2005/filevault/internal/logging"
	"github.com/dmitrijs2005/filevault/internal/server/folders"
	"github.com/dmitrijs2005/filevault/internal/server/models"
	"github.com/dmitrijs2005/filevault/internal/server/repositories/files"
	"github.com/dmitrijs2005/filevault/internal/server/storage"
)

// UploadInput is one file of an upload batch.
type UploadInput struct {
	OriginalName string
	MimeType     string
	Size         int64
	Body         io.Reader
}

// UploadFailure records why one file of a batch was rejected.
type UploadFailure struct {
	OriginalName string `json:"originalName"`
	Error        string `json:"error"`
}

// UploadResult partitions an upload batch. Both slices keep the order of the
// input batch.
type UploadResult struct {
	Success []*models.StoredFile `json:"success"`
	Failed  []UploadFailure      `json:"failed"`
}

// Pagination describes one page of a listing.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// FileList is one page of a user's files.
type FileList struct {
	Files      []*models.StoredFile `json:"files"`
	Pagination Pagination           `json:"pagination"`
}

// FolderList is the full implied folder tree of a user.
type FolderList struct {
	Folders []string `json:"folders"`
	Count   int      `json:"count"`
}

// BrowseResult is one level of the folder tree: the files stored exactly at
// the current path plus the names of its immediate subfolders.
type BrowseResult struct {
	CurrentFolder string               `json:"currentFolder"`
	Files         []*models.StoredFile `json:"files"`
	Folders       []string             `json:"folders"`
	Pagination    Pagination           `json:"pagination"`
}

// FileService implements upload, listing and management of stored files.
type FileService struct {
	files   files.Repository
	storage storage.ObjectStorage
	logger  logging.Logger
}

func NewFileService(repo files.Repository, store storage.ObjectStorage, logger logging.Logger) *FileService {
	return &FileService{
		files:   repo,
		storage: store,
		logger:  logger.With("module", "file_service"),
	}
}

func paginate(page, limit, total int) Pagination {
	totalPages := 0
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}
	return Pagination{Page: page, Limit: limit, Total: total, TotalPages: totalPages}
}

// objectKey builds a collision-free storage key inside the user's namespace.
func objectKey(namespace string) string {
	return fmt.Sprintf("%s/%d_%s", namespace, time.Now().UnixMilli(), uuid.New())
}

// Upload stores a batch of files under the user's namespace, optionally in a
// subfolder. An invalid folder name or a failure to provision the folder
// rejects the whole batch; per-file errors (size ceiling, storage write,
// metadata write) only fail that file. Order inside each partition follows
// the batch order.
func (s *FileService) Upload(ctx context.Context, user *models.User, batch []UploadInput, folderName string) (*UploadResult, error) {
	if len(batch) == 0 {
		return nil, fmt.Errorf("%w: no files provided", common.ErrorValidation)
	}

	if err := folders.ValidateName(folderName); err != nil {
		return nil, err
	}
	folder := folders.Clean(folderName)

	namespace := user.Email
	if !folder.IsRoot() {
		namespace = user.Email + "/" + folder.String()
	}

	if err := s.storage.EnsureFolder(ctx, namespace); err != nil {
		return nil, fmt.Errorf("error provisioning media folder: %w", err)
	}

	result := &UploadResult{
		Success: []*models.StoredFile{},
		Failed:  []UploadFailure{},
	}

	for _, in := range batch {
		stored, err := s.uploadOne(ctx, user, in, folder, namespace)
		if err != nil {
			s.logger.Warn(ctx, "file upload failed", "user_id", user.ID, "file", in.OriginalName, "error", err.Error())
			result.Failed = append(result.Failed, UploadFailure{OriginalName: in.OriginalName, Error: err.Error()})
			continue
		}
		result.Success = append(result.Success, stored)
	}

	return result, nil
}

func (s *FileService) uploadOne(ctx context.Context, user *models.User, in UploadInput, folder folders.Path, namespace string) (*models.StoredFile, error) {
	category, limit := sizeLimitFor(in.MimeType)
	if in.Size > limit {
		return nil, fmt.Errorf("file size exceeds the %dMB limit for %s files", limit/mb, category)
	}

	obj, err := s.storage.Upload(ctx, objectKey(namespace), in.MimeType, in.Body)
	if err != nil {
		return nil, fmt.Errorf("error uploading to storage: %w", err)
	}

	file := &models.StoredFile{
		UserID:        user.ID,
		OriginalName:  in.OriginalName,
		FileName:      in.OriginalName,
		FolderName:    folder.String(),
		MimeType:      in.MimeType,
		Size:          in.Size,
		URL:           obj.URL,
		PublicID:      obj.Key,
		StorageFolder: namespace,
	}

	return s.files.Create(ctx, file)
}

// List returns one page of the user's files, optionally restricted to one
// exact folder path.
func (s *FileService) List(ctx context.Context, userID string, folder *string, page, limit int) (*FileList, error) {
	if folder != nil {
		clean := folders.Clean(*folder).String()
		folder = &clean
	}

	total, err := s.files.Count(ctx, userID, folder)
	if err != nil {
		return nil, err
	}

	list, err := s.files.List(ctx, files.ListParams{
		UserID: userID,
		Folder: folder,
		Limit:  limit,
		Offset: (page - 1) * limit,
	})
	if err != nil {
		return nil, err
	}

	return &FileList{Files: list, Pagination: paginate(page, limit, total)}, nil
}

// Folders returns the ancestor-closed folder tree implied by the user's files.
func (s *FileService) Folders(ctx context.Context, userID string) (*FolderList, error) {
	names, err := s.files.FolderNames(ctx, userID)
	if err != nil {
		return nil, err
	}

	all := folders.All(names)
	return &FolderList{Folders: all, Count: len(all)}, nil
}

// Browse returns one level of the folder tree: files stored exactly at the
// given path plus its immediate subfolders.
func (s *FileService) Browse(ctx context.Context, userID, folderName string, page, limit int) (*BrowseResult, error) {
	if err := folders.ValidateName(folderName); err != nil {
		return nil, err
	}
	current := folders.Clean(folderName)
	exact := current.String()

	total, err := s.files.Count(ctx, userID, &exact)
	if err != nil {
		return nil, err
	}

	list, err := s.files.List(ctx, files.ListParams{
		UserID: userID,
		Folder: &exact,
		Limit:  limit,
		Offset: (page - 1) * limit,
	})
	if err != nil {
		return nil, err
	}

	names, err := s.files.FolderNames(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &BrowseResult{
		CurrentFolder: exact,
		Files:         list,
		Folders:       folders.Children(folders.All(names), current),
		Pagination:    paginate(page, limit, total),
	}, nil
}

func (s *FileService) Get(ctx context.Context, id, userID string) (*models.StoredFile, error) {
	return s.files.GetByID(ctx, id, userID)
}

// Rename changes the display name of a file. The stored blob is untouched.
func (s *FileService) Rename(ctx context.Context, id, userID, originalName string) (*models.StoredFile, error) {
	if originalName == "" {
		return nil, fmt.Errorf("%w: file name cannot be empty", common.ErrorValidation)
	}
	return s.files.UpdateOriginalName(ctx, id, userID, originalName)
}

// Delete removes the metadata record and, best effort, the stored blob.
// A storage failure is logged but does not fail the delete.
func (s *FileService) Delete(ctx context.Context, id, userID string) error {
	file, err := s.files.GetByID(ctx, id, userID)
	if err != nil {
		return err
	}

	if err := s.storage.Delete(ctx, file.PublicID); err != nil {
		s.logger.Warn(ctx, "error deleting blob from storage", "key", file.PublicID, "error", err.Error())
	}

	return s.files.Delete(ctx, id, userID)
}

// Stats returns the user's storage usage summary.
func (s *FileService) Stats(ctx context.Context, userID string) (*files.Stats, error) {
	return s.files.Stats(ctx, userID)
}
