package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"go-workspace-service/internal/middleware"
	"go-workspace-service/internal/model"
	"go-workspace-service/internal/service"
	"go-workspace-service/pkg/apierror"
)

type WorkspaceHandler struct {
	service *service.WorkspaceService
}

func NewWorkspaceHandler(service *service.WorkspaceService) *WorkspaceHandler {
	return &WorkspaceHandler{service: service}
}

func (h *WorkspaceHandler) CreateWorkspace(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	requesterID, _ := middleware.RequesterFromContext(r.Context())

	var payload model.NameRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.New("BAD_REQUEST", "invalid JSON body", "", http.StatusBadRequest))
		return
	}

	if strings.TrimSpace(payload.Name) == "" {
		writeError(w, apierror.New("BAD_REQUEST", "workspace name is required", "name", http.StatusBadRequest))
		return
	}

	data, err := h.service.CreateWorkspace(r.Context(), payload.Name, requesterID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, data)
}

func (h *WorkspaceHandler) ListWorkspaces(w http.ResponseWriter, r *http.Request) {
	requesterID, _ := middleware.RequesterFromContext(r.Context())

	params, err := parseSearchParams(r)
	if err != nil {
		writeError(w, err)
		return
	}

	data, err := h.service.ListWorkspaces(r.Context(), requesterID, params)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, data)
}

func (h *WorkspaceHandler) Search(w http.ResponseWriter, r *http.Request) {
	requesterID, _ := middleware.RequesterFromContext(r.Context())

	params, err := parseSearchParams(r)
	if err != nil {
		writeError(w, err)
		return
	}

	parentID := strings.TrimSpace(r.URL.Query().Get("parent_id"))

	data, err := h.service.Search(r.Context(), requesterID, parentID, params)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, data)
}

func (h *WorkspaceHandler) GetFolder(w http.ResponseWriter, r *http.Request) {
	requesterID, _ := middleware.RequesterFromContext(r.Context())

	params, err := parseSearchParams(r)
	if err != nil {
		writeError(w, err)
		return
	}

	data, err := h.service.ListChildren(r.Context(), chi.URLParam(r, "id"), requesterID, params)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, data)
}

func (h *WorkspaceHandler) IsOwner(w http.ResponseWriter, r *http.Request) {
	requesterID, _ := middleware.RequesterFromContext(r.Context())

	owner := h.service.IsOwner(r.Context(), chi.URLParam(r, "id"), requesterID)

	writeSuccess(w, http.StatusOK, model.OwnershipInfo{IsOwner: owner})
}

func (h *WorkspaceHandler) CreateDirectory(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	requesterID, _ := middleware.RequesterFromContext(r.Context())

	var payload model.NameRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.New("BAD_REQUEST", "invalid JSON body", "", http.StatusBadRequest))
		return
	}

	if strings.TrimSpace(payload.Name) == "" {
		writeError(w, apierror.New("BAD_REQUEST", "directory name is required", "name", http.StatusBadRequest))
		return
	}

	data, err := h.service.CreateDirectory(r.Context(), chi.URLParam(r, "id"), payload.Name, requesterID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, data)
}

func (h *WorkspaceHandler) Rename(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	requesterID, _ := middleware.RequesterFromContext(r.Context())

	var payload model.NameRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.New("BAD_REQUEST", "invalid JSON body", "", http.StatusBadRequest))
		return
	}

	if strings.TrimSpace(payload.Name) == "" {
		writeError(w, apierror.New("BAD_REQUEST", "name is required", "name", http.StatusBadRequest))
		return
	}

	if err := h.service.Rename(r.Context(), chi.URLParam(r, "id"), payload.Name, requesterID); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, nil)
}

func (h *WorkspaceHandler) Move(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	requesterID, _ := middleware.RequesterFromContext(r.Context())

	var payload model.MoveRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.New("BAD_REQUEST", "invalid JSON body", "", http.StatusBadRequest))
		return
	}

	if strings.TrimSpace(payload.NewParentID) == "" {
		writeError(w, apierror.New("BAD_REQUEST", "new parent id is required", "new_parent_id", http.StatusBadRequest))
		return
	}

	if err := h.service.Move(r.Context(), chi.URLParam(r, "id"), payload.NewParentID, requesterID); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, nil)
}

func (h *WorkspaceHandler) Share(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	requesterID, _ := middleware.RequesterFromContext(r.Context())

	var payload model.ShareRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.New("BAD_REQUEST", "invalid JSON body", "", http.StatusBadRequest))
		return
	}

	if err := h.service.Share(r.Context(), chi.URLParam(r, "id"), payload, requesterID); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, nil)
}

func (h *WorkspaceHandler) UpdateTags(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	requesterID, _ := middleware.RequesterFromContext(r.Context())

	var payload model.TagsRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.New("BAD_REQUEST", "invalid JSON body", "", http.StatusBadRequest))
		return
	}

	if err := h.service.UpdateTags(r.Context(), chi.URLParam(r, "id"), payload.Tags, requesterID); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, nil)
}

func (h *WorkspaceHandler) UpdateStar(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	requesterID, _ := middleware.RequesterFromContext(r.Context())

	var payload model.StarRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.New("BAD_REQUEST", "invalid JSON body", "", http.StatusBadRequest))
		return
	}

	if err := h.service.UpdateStar(r.Context(), chi.URLParam(r, "id"), payload.IsStarred, requesterID); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, nil)
}

func (h *WorkspaceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	requesterID, _ := middleware.RequesterFromContext(r.Context())

	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id"), requesterID); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, nil)
}

// parseSearchParams reads the shared listing/search query parameters. Bad
// booleans and dates are rejected rather than silently dropped; bad numbers
// fall back like every other paged endpoint.
func parseSearchParams(r *http.Request) (model.SearchParams, error) {
	query := r.URL.Query()

	params := model.SearchParams{
		Query:    strings.TrimSpace(query.Get("q")),
		Kind:     strings.TrimSpace(query.Get("kind")),
		Page:     parseIntOrDefault(query.Get("page"), 0),
		PageSize: parseIntOrDefault(query.Get("size"), model.DefaultPageSize),
	}

	if raw := strings.TrimSpace(query.Get("starred")); raw != "" {
		starred, err := strconv.ParseBool(raw)
		if err != nil {
			return model.SearchParams{}, apierror.New("BAD_REQUEST", "starred must be a boolean", "starred", http.StatusBadRequest)
		}
		params.IsStarred = &starred
	}

	if raw := strings.TrimSpace(query.Get("start_date")); raw != "" {
		start, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return model.SearchParams{}, apierror.New("BAD_REQUEST", "start_date must be RFC 3339", "start_date", http.StatusBadRequest)
		}
		params.StartDate = &start
	}

	if raw := strings.TrimSpace(query.Get("end_date")); raw != "" {
		end, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return model.SearchParams{}, apierror.New("BAD_REQUEST", "end_date must be RFC 3339", "end_date", http.StatusBadRequest)
		}
		params.EndDate = &end
	}

	return params, nil
}

func parseIntOrDefault(raw string, fallback int) int {
	if strings.TrimSpace(raw) == "" {
		return fallback
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}

	return v
}
