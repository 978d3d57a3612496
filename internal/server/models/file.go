package models

import "time"

// StoredFile describes metadata for a binary payload kept in object storage.
// The blob itself lives in the media store; only its locator is persisted.
type StoredFile struct {
	ID           string `json:"id"`
	UserID       string `json:"userId"`
	OriginalName string `json:"originalName"`
	FileName     string `json:"fileName"`
	// FolderName is a normalized slash-delimited path ("" means root).
	FolderName string `json:"folderName"`
	MimeType   string `json:"mimeType"`
	Size       int64  `json:"size"`
	URL        string `json:"url"`
	// PublicID is the media-store object key used for deletes.
	PublicID string `json:"publicId"`
	// StorageFolder is the namespace the media store filed the blob under.
	StorageFolder string    `json:"storageFolder"`
	UploadedAt    time.Time `json:"uploadedAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}
