package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"go-workspace-service/internal/middleware"
	"go-workspace-service/internal/model"
	"go-workspace-service/internal/service"
	"go-workspace-service/pkg/apierror"
)

type DocumentHandler struct {
	service *service.WorkspaceService
}

func NewDocumentHandler(service *service.WorkspaceService) *DocumentHandler {
	return &DocumentHandler{service: service}
}

// IssueUploadURL hands out a fresh object key and a presigned PUT URL. The
// client uploads directly to object storage, then registers the document
// with CreateDocument using the key as id.
func (h *DocumentHandler) IssueUploadURL(w http.ResponseWriter, r *http.Request) {
	data, err := h.service.IssueUploadURL(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, data)
}

func (h *DocumentHandler) CreateDocument(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	requesterID, _ := middleware.RequesterFromContext(r.Context())

	var payload model.CreateDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.New("BAD_REQUEST", "invalid JSON body", "", http.StatusBadRequest))
		return
	}

	if strings.TrimSpace(payload.Name) == "" {
		writeError(w, apierror.New("BAD_REQUEST", "document name is required", "name", http.StatusBadRequest))
		return
	}

	data, err := h.service.CreateDocument(r.Context(), chi.URLParam(r, "id"), payload, requesterID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, data)
}

func (h *DocumentHandler) Metadata(w http.ResponseWriter, r *http.Request) {
	requesterID, _ := middleware.RequesterFromContext(r.Context())

	data, err := h.service.DocumentMetadata(r.Context(), chi.URLParam(r, "id"), requesterID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, data)
}

func (h *DocumentHandler) Download(w http.ResponseWriter, r *http.Request) {
	requesterID, _ := middleware.RequesterFromContext(r.Context())

	data, err := h.service.Download(r.Context(), chi.URLParam(r, "id"), requesterID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, data)
}
