package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"go-workspace-service/internal/middleware"
	"go-workspace-service/internal/model"
	"go-workspace-service/internal/repository"
	"go-workspace-service/internal/service"
	"go-workspace-service/internal/storage"
)

const identityHeader = "User-National-Id"

type staticResolver struct{}

func (staticResolver) ResolveIDs(_ context.Context, emails []string) ([]string, error) {
	ids := make([]string, len(emails))
	for i, email := range emails {
		ids[i] = "id-" + email
	}
	return ids, nil
}

type env struct {
	router  http.Handler
	service *service.WorkspaceService
	nodes   *repository.MemoryNodeStore
	objects *storage.MockStorage
}

func newEnv() *env {
	nodes := repository.NewMemoryNodeStore()
	trash := repository.NewMemoryTrashStore()
	objects := &storage.MockStorage{}

	svc := service.NewWorkspaceService(nodes, trash, objects, staticResolver{})

	workspaceHandler := NewWorkspaceHandler(svc)
	documentHandler := NewDocumentHandler(svc)
	trashHandler := NewTrashHandler(svc)

	identityMiddleware := middleware.NewIdentityMiddleware(identityHeader)

	r := chi.NewRouter()
	r.Use(identityMiddleware.Extract)
	r.Route("/api/workspaces", func(api chi.Router) {
		api.Get("/{id}", workspaceHandler.GetFolder)
		api.Get("/{id}/isOwner", workspaceHandler.IsOwner)
		api.Get("/documents/{id}", documentHandler.Download)

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

	return &env{router: r, service: svc, nodes: nodes, objects: objects}
}

func (e *env) do(t *testing.T, method string, path string, requesterID string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if requesterID != "" {
		req.Header.Set(identityHeader, requesterID)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) model.APIResponse {
	t.Helper()

	var resp model.APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestCreateWorkspaceEndpoint(t *testing.T) {
	t.Parallel()

	t.Run("creates and returns the workspace", func(t *testing.T) {
		e := newEnv()
		rec := e.do(t, http.MethodPost, "/api/workspaces/", "cc-1", model.NameRequest{Name: "Projects"})

		require.Equal(t, http.StatusCreated, rec.Code)
		resp := decodeResponse(t, rec)
		require.True(t, resp.Success)

		data := resp.Data.(map[string]any)
		require.Equal(t, "Projects", data["name"])
		require.Equal(t, "~", data["parent_id"])
		require.Equal(t, "cc-1", data["owner_id"])
	})

	t.Run("rejects a blank name", func(t *testing.T) {
		e := newEnv()
		rec := e.do(t, http.MethodPost, "/api/workspaces/", "cc-1", model.NameRequest{Name: "  "})

		require.Equal(t, http.StatusBadRequest, rec.Code)
		resp := decodeResponse(t, rec)
		require.Equal(t, "BAD_REQUEST", resp.Error.Code)
	})

	t.Run("rejects an anonymous caller", func(t *testing.T) {
		e := newEnv()
		rec := e.do(t, http.MethodPost, "/api/workspaces/", "", model.NameRequest{Name: "Projects"})

		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestGetFolderEndpoint(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("owner sees the listing", func(t *testing.T) {
		e := newEnv()
		workspace, err := e.service.CreateWorkspace(ctx, "Projects", "cc-1")
		require.NoError(t, err)
		_, err = e.service.CreateDirectory(ctx, workspace.ID, "Docs", "cc-1")
		require.NoError(t, err)

		rec := e.do(t, http.MethodGet, "/api/workspaces/"+workspace.ID, "cc-1", nil)

		require.Equal(t, http.StatusOK, rec.Code)
		resp := decodeResponse(t, rec)
		data := resp.Data.(map[string]any)
		require.Equal(t, "Projects", data["name"])
		require.Equal(t, true, data["is_owner"])
		require.Len(t, data["files"], 1)
	})

	t.Run("anonymous caller on a private folder gets 401", func(t *testing.T) {
		e := newEnv()
		workspace, err := e.service.CreateWorkspace(ctx, "Projects", "cc-1")
		require.NoError(t, err)

		rec := e.do(t, http.MethodGet, "/api/workspaces/"+workspace.ID, "", nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("stranger on a private folder gets 403", func(t *testing.T) {
		e := newEnv()
		workspace, err := e.service.CreateWorkspace(ctx, "Projects", "cc-1")
		require.NoError(t, err)

		rec := e.do(t, http.MethodGet, "/api/workspaces/"+workspace.ID, "cc-2", nil)
		require.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("unknown folder gets 404", func(t *testing.T) {
		e := newEnv()
		rec := e.do(t, http.MethodGet, "/api/workspaces/missing", "cc-1", nil)
		require.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("bad starred filter gets 400", func(t *testing.T) {
		e := newEnv()
		workspace, err := e.service.CreateWorkspace(ctx, "Projects", "cc-1")
		require.NoError(t, err)

		rec := e.do(t, http.MethodGet, "/api/workspaces/"+workspace.ID+"?starred=banana", "cc-1", nil)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestRenameEndpoint(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	e := newEnv()
	workspace, err := e.service.CreateWorkspace(ctx, "Projects", "cc-1")
	require.NoError(t, err)

	rec := e.do(t, http.MethodPut, "/api/workspaces/"+workspace.ID+"/name", "cc-1", model.NameRequest{Name: "Archive"})
	require.Equal(t, http.StatusOK, rec.Code)

	renamed, err := e.nodes.Get(ctx, workspace.ID)
	require.NoError(t, err)
	require.Equal(t, "Archive", renamed.Name)
}

func TestDeleteRestoreEndpoints(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	e := newEnv()
	workspace, err := e.service.CreateWorkspace(ctx, "Projects", "cc-1")
	require.NoError(t, err)

	rec := e.do(t, http.MethodDelete, "/api/workspaces/"+workspace.ID, "cc-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = e.do(t, http.MethodGet, "/api/workspaces/trash", "cc-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	require.Len(t, resp.Data, 1)

	rec = e.do(t, http.MethodPut, "/api/workspaces/"+workspace.ID+"/restore", "cc-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	_, err = e.nodes.Get(ctx, workspace.ID)
	require.NoError(t, err)

	// Restoring again is a 404: the trash entry is gone.
	rec = e.do(t, http.MethodPut, "/api/workspaces/"+workspace.ID+"/restore", "cc-1", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSignedPutURLEndpoint(t *testing.T) {
	t.Parallel()

	e := newEnv()
	e.objects.On("IssuePutURL", mock.Anything, mock.AnythingOfType("string")).Return("https://bucket.example/upload", nil)

	rec := e.do(t, http.MethodPost, "/api/workspaces/signed-put-url", "cc-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeResponse(t, rec)
	data := resp.Data.(map[string]any)
	require.NotEmpty(t, data["key"])
	require.Equal(t, "https://bucket.example/upload", data["url"])
}

func TestDownloadEndpoint(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	e := newEnv()
	workspace, err := e.service.CreateWorkspace(ctx, "Projects", "cc-1")
	require.NoError(t, err)
	doc, err := e.service.CreateDocument(ctx, workspace.ID, model.CreateDocumentRequest{
		ID: "key-1", Name: "notes", Extension: "txt",
	}, "cc-1")
	require.NoError(t, err)

	e.objects.On("IssueGetURL", mock.Anything, doc.ID).Return("https://bucket.example/key-1", nil)

	rec := e.do(t, http.MethodGet, "/api/workspaces/documents/"+doc.ID, "cc-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeResponse(t, rec)
	data := resp.Data.(map[string]any)
	require.Equal(t, "notes", data["name"])
	require.Equal(t, "https://bucket.example/key-1", data["url"])
}

func TestShareEndpoint(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	e := newEnv()
	workspace, err := e.service.CreateWorkspace(ctx, "Projects", "cc-1")
	require.NoError(t, err)

	rec := e.do(t, http.MethodPut, "/api/workspaces/"+workspace.ID+"/share", "cc-1", model.ShareRequest{
		AllowedUsers: []string{"ana@example.com"},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	shared, err := e.nodes.Get(ctx, workspace.ID)
	require.NoError(t, err)
	require.Equal(t, []string{"id-ana@example.com"}, shared.AllowedUsers)
}

func TestIsOwnerEndpoint(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	e := newEnv()
	workspace, err := e.service.CreateWorkspace(ctx, "Projects", "cc-1")
	require.NoError(t, err)

	rec := e.do(t, http.MethodGet, "/api/workspaces/"+workspace.ID+"/isOwner", "cc-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, map[string]any{"is_owner": true}, decodeResponse(t, rec).Data)

	rec = e.do(t, http.MethodGet, "/api/workspaces/"+workspace.ID+"/isOwner", "cc-2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, map[string]any{"is_owner": false}, decodeResponse(t, rec).Data)
}
