package httpapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrijs2005/filevault/internal/logging"
	"github.com/dmitrijs2005/filevault/internal/server/config"
	"github.com/dmitrijs2005/filevault/internal/server/identity"
	"github.com/dmitrijs2005/filevault/internal/server/models"
	"github.com/dmitrijs2005/filevault/internal/server/repositories/users"
)

// Server is the HTTP front of the service.
type Server struct {
	httpServer *http.Server
	logger     logging.Logger
	cfg        *config.Config
}

// Router assembles the full route tree with both auth schemes applied.
func Router(provider identity.Provider, repo users.Repository,
	auth *AuthHandler, usersH *UsersHandler, files *FilesHandler) chi.Router {

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", auth.Register)

		r.Group(func(r chi.Router) {
			r.Use(BearerAuth(provider))

			r.Get("/auth/profile", auth.Profile)
			r.Put("/auth/profile", auth.UpdateProfile)
			r.Get("/auth/api-key", auth.APIKey)

			r.Get("/users/search", usersH.Search)
			r.Get("/users/{id}", usersH.Get)

			r.Group(func(r chi.Router) {
				r.Use(RequireRole(repo, models.RoleAdmin))

				r.Get("/users", usersH.List)
				r.Get("/users/statistics", usersH.Statistics)
				r.Get("/users/role/{role}", usersH.ByRole)
				r.Put("/users/{id}", usersH.Update)
				r.Put("/users/{id}/activate", usersH.Activate)
				r.Put("/users/{id}/deactivate", usersH.Deactivate)
				r.Delete("/users/{id}", usersH.Delete)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(APIKeyAuth(repo))

			r.Post("/files/upload", files.Upload)
			r.Get("/files", files.List)
			r.Get("/files/folders", files.Folders)
			r.Get("/files/browse", files.Browse)
			r.Get("/files/stats", files.Stats)
			r.Get("/files/{id}", files.Get)
			r.Put("/files/{id}", files.Rename)
			r.Delete("/files/{id}", files.Delete)
		})
	})

	return r
}

func NewServer(cfg *config.Config, logger logging.Logger, handler http.Handler) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:    cfg.EndpointAddrHTTP,
			Handler: handler,
		},
		logger: logger.With("module", "http_server"),
		cfg:    cfg,
	}
}

// Run serves until ctx is cancelled, then drains in-flight requests within
// the configured grace period.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info(ctx, "http server started", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server error: %w", err)
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	s.logger.Info(shutdownCtx, "shutting down http server")
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown error: %w", err)
	}

	return nil
}
