package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"go-workspace-service/internal/model"
	"go-workspace-service/pkg/apierror"
)

func writeSuccess(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.APIResponse{
		Success: true,
		Data:    data,
	})
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	body := &model.APIError{
		Code:    "INTERNAL_ERROR",
		Message: "Unexpected server error",
	}

	var apiErr *apierror.APIError
	if errors.As(err, &apiErr) {
		status = apiErr.HTTPStatus
		body.Code = apiErr.Code
		body.Message = apiErr.Message
		body.Details = apiErr.Details
	} else if errors.Is(err, model.ErrNodeNotFound) {
		status = http.StatusNotFound
		body.Code = "NOT_FOUND"
		body.Message = "File not found"
	} else if errors.Is(err, model.ErrTrashEntryNotFound) {
		status = http.StatusNotFound
		body.Code = "NOT_FOUND"
		body.Message = "Trash entry not found"
	} else if errors.Is(err, model.ErrUnauthenticated) {
		status = http.StatusUnauthorized
		body.Code = "UNAUTHENTICATED"
		body.Message = "Authentication required"
	} else if errors.Is(err, model.ErrAccessDenied) {
		status = http.StatusForbidden
		body.Code = "FORBIDDEN"
		body.Message = "Access denied"
	} else if errors.Is(err, model.ErrParentNotExist) {
		status = http.StatusConflict
		body.Code = "CONFLICT"
		body.Message = "Parent folder no longer exists"
	} else if errors.Is(err, model.ErrNameExists) {
		status = http.StatusConflict
		body.Code = "ALREADY_EXISTS"
		body.Message = "Name already exists in this folder"
	} else if errors.Is(err, model.ErrInvalidOperation) {
		status = http.StatusBadRequest
		body.Code = "INVALID_OPERATION"
		body.Message = "Operation not valid for this file"
		body.Details = err.Error()
	} else if errors.Is(err, model.ErrInvalidInput) {
		status = http.StatusBadRequest
		body.Code = "BAD_REQUEST"
		body.Message = "Invalid input"
		body.Details = err.Error()
	} else {
		// Log unclassified errors so they are visible in container logs.
		slog.Error("unhandled error in writeError", "error", err.Error())
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.APIResponse{
		Success: false,
		Error:   body,
	})
}
