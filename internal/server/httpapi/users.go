package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrijs2005/filevault/internal/server/repositories/users"
	"github.com/dmitrijs2005/filevault/internal/server/services"
)

type UsersHandler struct {
	users *services.UserService
}

func NewUsersHandler(svc *services.UserService) *UsersHandler {
	return &UsersHandler{users: svc}
}

type updateUserRequest struct {
	Name   *string `json:"name"`
	Role   *string `json:"role"`
	Active *bool   `json:"active"`
}

func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.users.List(r.Context())
	if err != nil {
		writeDomainError(w, err, "error retrieving users")
		return
	}
	writeOK(w, http.StatusOK, list, "users retrieved")
}

func (h *UsersHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err, "error retrieving user")
		return
	}
	writeOK(w, http.StatusOK, user, "user retrieved")
}

func (h *UsersHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "error updating user")
		return
	}

	user, err := h.users.Update(r.Context(), chi.URLParam(r, "id"), users.UpdateParams{
		Name:   req.Name,
		Role:   req.Role,
		Active: req.Active,
	})
	if err != nil {
		writeDomainError(w, err, "error updating user")
		return
	}

	writeOK(w, http.StatusOK, user, "user updated")
}

func (h *UsersHandler) Activate(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.Activate(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err, "error activating user")
		return
	}
	writeOK(w, http.StatusOK, user, "user activated")
}

func (h *UsersHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.Deactivate(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err, "error deactivating user")
		return
	}
	writeOK(w, http.StatusOK, user, "user deactivated")
}

func (h *UsersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.users.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, err, "error deleting user")
		return
	}
	writeOK(w, http.StatusOK, "user deleted", "user deleted")
}

func (h *UsersHandler) Search(w http.ResponseWriter, r *http.Request) {
	result, err := h.users.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeDomainError(w, err, "error searching users")
		return
	}
	writeOK(w, http.StatusOK, result, "search completed")
}

func (h *UsersHandler) ByRole(w http.ResponseWriter, r *http.Request) {
	result, err := h.users.ByRole(r.Context(), chi.URLParam(r, "role"))
	if err != nil {
		writeDomainError(w, err, "error retrieving users")
		return
	}
	writeOK(w, http.StatusOK, result, "users retrieved")
}

func (h *UsersHandler) Statistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.users.Statistics(r.Context())
	if err != nil {
		writeDomainError(w, err, "error retrieving statistics")
		return
	}
	writeOK(w, http.StatusOK, stats, "statistics retrieved")
}
