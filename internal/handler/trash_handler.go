package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"go-workspace-service/internal/middleware"
	"go-workspace-service/internal/service"
)

type TrashHandler struct {
	service *service.WorkspaceService
}

func NewTrashHandler(service *service.WorkspaceService) *TrashHandler {
	return &TrashHandler{service: service}
}

func (h *TrashHandler) List(w http.ResponseWriter, r *http.Request) {
	requesterID, _ := middleware.RequesterFromContext(r.Context())

	data, err := h.service.GetTrash(r.Context(), requesterID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, data)
}

func (h *TrashHandler) Restore(w http.ResponseWriter, r *http.Request) {
	requesterID, _ := middleware.RequesterFromContext(r.Context())

	if err := h.service.Restore(r.Context(), chi.URLParam(r, "id"), requesterID); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, nil)
}

func (h *TrashHandler) DeletePermanent(w http.ResponseWriter, r *http.Request) {
	requesterID, _ := middleware.RequesterFromContext(r.Context())

	if err := h.service.DeletePermanent(r.Context(), chi.URLParam(r, "id"), requesterID); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, nil)
}
