package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/vanshsoni916/VideoTweetApp/internal/content"
	"github.com/vanshsoni916/VideoTweetApp/internal/logging"
)

func respondJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logging.FromContext(ctx).Error("encode response body", "status", status, "error", err)
		return
	}

	logger := logging.FromContext(ctx)
	switch {
	case status >= http.StatusInternalServerError:
		logger.Error("request failed", "status", status, "response", payload)
	case status >= http.StatusBadRequest:
		logger.Warn("request returned client error", "status", status, "response", payload)
	}
}

// respondError translates service-layer failures into HTTP statuses. The
// response body carries the error kind's generic message, never wrapped
// internals.
func respondError(ctx context.Context, w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "internal error"

	switch {
	case errors.Is(err, content.ErrValidation):
		status = http.StatusBadRequest
		message = err.Error()
	case errors.Is(err, content.ErrNotFound):
		status = http.StatusNotFound
		message = "resource not found"
	case errors.Is(err, content.ErrForbidden):
		status = http.StatusForbidden
		message = "you do not own this resource"
	case errors.Is(err, content.ErrConflict):
		status = http.StatusConflict
		message = "resource already exists"
	case errors.Is(err, content.ErrUpstream):
		status = http.StatusBadGateway
		message = "upstream service failure"
	}

	if status == http.StatusInternalServerError {
		logging.FromContext(ctx).Error("unhandled service error", "error", err)
	}

	respondJSON(ctx, w, status, map[string]string{"error": message})
}
