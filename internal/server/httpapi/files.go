package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrijs2005/filevault/internal/server/services"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100

	// maxMultipartMemory bounds the in-memory portion of a multipart parse;
	// larger parts spill to temporary files.
	maxMultipartMemory = 32 << 20
)

type FilesHandler struct {
	files *services.FileService
}

func NewFilesHandler(svc *services.FileService) *FilesHandler {
	return &FilesHandler{files: svc}
}

type renameRequest struct {
	OriginalName string `json:"originalName"`
}

// pageParams reads page and limit query parameters, applying defaults and
// the upper limit cap.
func pageParams(r *http.Request) (page, limit int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return page, limit
}

func (h *FilesHandler) Upload(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart body", "upload failed")
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	var batch []services.UploadInput
	for _, header := range r.MultipartForm.File["file"] {
		part, err := header.Open()
		if err != nil {
			writeError(w, http.StatusBadRequest, "unreadable file part", "upload failed")
			return
		}
		defer part.Close()

		batch = append(batch, services.UploadInput{
			OriginalName: header.Filename,
			MimeType:     header.Header.Get("Content-Type"),
			Size:         header.Size,
			Body:         part,
		})
	}

	result, err := h.files.Upload(r.Context(), user, batch, r.FormValue("folderName"))
	if err != nil {
		writeDomainError(w, err, "upload failed")
		return
	}

	code := http.StatusCreated
	if len(result.Success) == 0 {
		code = http.StatusBadRequest
		writeError(w, code, result, "all uploads failed")
		return
	}

	writeOK(w, code, result, "upload completed")
}

func (h *FilesHandler) List(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())
	page, limit := pageParams(r)

	var folder *string
	if q := r.URL.Query(); q.Has("folder") {
		f := q.Get("folder")
		folder = &f
	}

	list, err := h.files.List(r.Context(), user.ID, folder, page, limit)
	if err != nil {
		writeDomainError(w, err, "error retrieving files")
		return
	}

	writeOK(w, http.StatusOK, list, "files retrieved")
}

func (h *FilesHandler) Folders(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())

	list, err := h.files.Folders(r.Context(), user.ID)
	if err != nil {
		writeDomainError(w, err, "error retrieving folders")
		return
	}

	writeOK(w, http.StatusOK, list, "folders retrieved")
}

func (h *FilesHandler) Browse(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())
	page, limit := pageParams(r)

	result, err := h.files.Browse(r.Context(), user.ID, r.URL.Query().Get("path"), page, limit)
	if err != nil {
		writeDomainError(w, err, "error browsing folder")
		return
	}

	writeOK(w, http.StatusOK, result, "folder retrieved")
}

func (h *FilesHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())

	file, err := h.files.Get(r.Context(), chi.URLParam(r, "id"), user.ID)
	if err != nil {
		writeDomainError(w, err, "error retrieving file")
		return
	}

	writeOK(w, http.StatusOK, file, "file retrieved")
}

func (h *FilesHandler) Rename(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())

	var req renameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "error renaming file")
		return
	}

	file, err := h.files.Rename(r.Context(), chi.URLParam(r, "id"), user.ID, req.OriginalName)
	if err != nil {
		writeDomainError(w, err, "error renaming file")
		return
	}

	writeOK(w, http.StatusOK, file, "file renamed")
}

func (h *FilesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())

	if err := h.files.Delete(r.Context(), chi.URLParam(r, "id"), user.ID); err != nil {
		writeDomainError(w, err, "error deleting file")
		return
	}

	writeOK(w, http.StatusOK, "file deleted", "file deleted")
}

func (h *FilesHandler) Stats(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())

	stats, err := h.files.Stats(r.Context(), user.ID)
	if err != nil {
		writeDomainError(w, err, "error retrieving statistics")
		return
	}

	writeOK(w, http.StatusOK, stats, "statistics retrieved")
}
