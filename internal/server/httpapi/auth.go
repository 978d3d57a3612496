package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/dmitrijs2005/filevault/internal/server/services"
)

type AuthHandler struct {
	auth *services.AuthService
}

func NewAuthHandler(auth *services.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type updateProfileRequest struct {
	Name string `json:"name"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "registration failed")
		return
	}

	user, err := h.auth.Register(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		writeDomainError(w, err, "registration failed")
		return
	}

	writeOK(w, http.StatusCreated, user, "user registered")
}

func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	principal, _ := PrincipalFromContext(r.Context())

	user, err := h.auth.Profile(r.Context(), principal.ID)
	if err != nil {
		writeDomainError(w, err, "error retrieving profile")
		return
	}

	writeOK(w, http.StatusOK, user, "profile retrieved")
}

func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	principal, _ := PrincipalFromContext(r.Context())

	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "error updating profile")
		return
	}

	user, err := h.auth.UpdateProfile(r.Context(), principal.ID, req.Name)
	if err != nil {
		writeDomainError(w, err, "error updating profile")
		return
	}

	writeOK(w, http.StatusOK, user, "profile updated")
}

func (h *AuthHandler) APIKey(w http.ResponseWriter, r *http.Request) {
	principal, _ := PrincipalFromContext(r.Context())

	key, err := h.auth.APIKey(r.Context(), principal.ID)
	if err != nil {
		writeDomainError(w, err, "error retrieving API key")
		return
	}

	writeOK(w, http.StatusOK, map[string]string{"apiKey": key}, "API key retrieved")
}
