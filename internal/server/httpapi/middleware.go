package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/filevault/internal/common"
	"github.com/dmitrijs2005/filevault/internal/server/identity"
	"github.com/dmitrijs2005/filevault/internal/server/models"
	"github.com/dmitrijs2005/filevault/internal/server/repositories/users"
)

// contextKey avoids collisions with other packages' context values.
type contextKey string

const (
	contextKeyPrincipal contextKey = "principal"
	contextKeyUser      contextKey = "user"
)

// PrincipalFromContext returns the bearer identity attached by BearerAuth.
func PrincipalFromContext(ctx context.Context) (*identity.Identity, bool) {
	p, ok := ctx.Value(contextKeyPrincipal).(*identity.Identity)
	return p, ok
}

// UserFromContext returns the full user record attached by APIKeyAuth.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	u, ok := ctx.Value(contextKeyUser).(*models.User)
	return u, ok
}

// BearerAuth verifies the Authorization header against the identity provider
// and attaches the resulting principal to the request context.
func BearerAuth(provider identity.Provider) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || token == "" {
				writeError(w, http.StatusUnauthorized, "missing bearer token", "authentication required")
				return
			}

			principal, err := provider.Verify(r.Context(), token)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "invalid or expired token", "authentication required")
				return
			}

			ctx := context.WithValue(r.Context(), contextKeyPrincipal, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole checks the bearer principal against the local user record and
// lets the request through only if the account is active and its role is one
// of roles. A missing or inactive account gets 401, a wrong role 403.
func RequireRole(repo users.Repository, roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := PrincipalFromContext(r.Context())
			if !ok {
				writeError(w, http.StatusUnauthorized, "missing bearer token", "authentication required")
				return
			}

			user, err := repo.GetByID(r.Context(), principal.ID)
			if err != nil || !user.Active {
				writeError(w, http.StatusUnauthorized, "account not found or deactivated", "authentication required")
				return
			}

			for _, role := range roles {
				if user.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}

			writeError(w, http.StatusForbidden, "insufficient role", "access denied")
		})
	}
}

// APIKeyAuth resolves the X-API-Key header to a user record and attaches it
// to the request context. An unknown key gets 401, an inactive owner 403.
func APIKeyAuth(repo users.Repository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get("X-API-Key")
			if key == "" {
				writeError(w, http.StatusUnauthorized, "missing API key", "authentication required")
				return
			}

			user, err := repo.GetByAPIKey(r.Context(), key)
			if err != nil {
				if errors.Is(err, common.ErrorNotFound) {
					writeError(w, http.StatusUnauthorized, "invalid API key", "authentication required")
					return
				}
				writeError(w, http.StatusInternalServerError, "internal server error", "authentication failed")
				return
			}

			if !user.Active {
				writeError(w, http.StatusForbidden, "account is deactivated", "access denied")
				return
			}

			ctx := context.WithValue(r.Context(), contextKeyUser, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
