package services

import "strings"

// MIME categories used for per-file size ceilings.
const (
	CategoryImage    = "image"
	CategoryDocument = "document"
	CategoryVideo    = "video"
	CategoryAudio    = "audio"
	CategoryArchive  = "archive"
	CategoryDefault  = "default"
)

const mb = 1024 * 1024

// sizeLimits holds the per-category upload ceilings in bytes.
var sizeLimits = map[string]int64{
	CategoryImage:    50 * mb,
	CategoryDocument: 250 * mb,
	CategoryVideo:    200 * mb,
	CategoryAudio:    200 * mb,
	CategoryArchive:  500 * mb,
	CategoryDefault:  500 * mb,
}

// mimeCategory classifies a MIME type into a size-limit category.
func mimeCategory(mimeType string) string {
	m := strings.ToLower(mimeType)

	switch {
	case strings.HasPrefix(m, "image/"):
		return CategoryImage
	case strings.HasPrefix(m, "video/"):
		return CategoryVideo
	case strings.HasPrefix(m, "audio/"):
		return CategoryAudio
	case strings.Contains(m, "pdf"), strings.Contains(m, "document"),
		strings.Contains(m, "text"), strings.Contains(m, "csv"), strings.Contains(m, "excel"):
		return CategoryDocument
	case strings.Contains(m, "zip"), strings.Contains(m, "rar"), strings.Contains(m, "7z"):
		return CategoryArchive
	}

	return CategoryDefault
}

// sizeLimitFor returns the upload ceiling for a MIME type.
func sizeLimitFor(mimeType string) (category string, limit int64) {
	category = mimeCategory(mimeType)
	return category, sizeLimits[category]
}
