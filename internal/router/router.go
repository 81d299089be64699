package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"go-workspace-service/internal/config"
	"go-workspace-service/internal/handler"
	"go-workspace-service/internal/middleware"
)

func New(
	cfg *config.Config,
	identityMiddleware *middleware.IdentityMiddleware,
	workspaceHandler *handler.WorkspaceHandler,
	documentHandler *handler.DocumentHandler,
	trashHandler *handler.TrashHandler,
) http.Handler {
	r := chi.NewRouter()
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(cfg.RateLimitRPM)

	r.Use(middleware.Recovery)
	r.Use(identityMiddleware.Extract)
	r.Use(middleware.Logging)
	r.Use(middleware.CORS(cfg.CORSOrigins, cfg.IdentityHeader))
	r.Use(rateLimitMiddleware.Handler)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api/workspaces", func(api chi.Router) {
		api.Use(middleware.Timeout(cfg.RequestTimeout))

		// Anonymous callers may hit these; the service decides per node
		// whether a public ACL grants access.
		api.Get("/{id}", workspaceHandler.GetFolder)
		api.Get("/{id}/isOwner", workspaceHandler.IsOwner)
		api.Get("/documents/{id}", documentHandler.Download)
		api.Get("/documents/{id}/metadata", documentHandler.Metadata)

		api.Group(func(authed chi.Router) {
			authed.Use(identityMiddleware.RequireIdentity)

			authed.Post("/", workspaceHandler.CreateWorkspace)
			authed.Get("/", workspaceHandler.ListWorkspaces)
			authed.Get("/search", workspaceHandler.Search)
			authed.Get("/trash", trashHandler.List)
			authed.Post("/signed-put-url", documentHandler.IssueUploadURL)

			authed.Post("/{id}/directories", workspaceHandler.CreateDirectory)
			authed.Post("/{id}/documents", documentHandler.CreateDocument)

			authed.Put("/{id}/name", workspaceHandler.Rename)
			authed.Put("/{id}/share", workspaceHandler.Share)
			authed.Put("/{id}/move", workspaceHandler.Move)
			authed.Put("/{id}/tags", workspaceHandler.UpdateTags)
			authed.Put("/{id}/star", workspaceHandler.UpdateStar)
			authed.Put("/{id}/restore", trashHandler.Restore)

			authed.Delete("/{id}", workspaceHandler.Delete)
			authed.Delete("/{id}/permanent", trashHandler.DeletePermanent)
		})
	})

	return r
}
