package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/vanshsoni916/VideoTweetApp/internal/content"
	"github.com/vanshsoni916/VideoTweetApp/internal/models"
)

// PlaylistHandler implements playlist CRUD and membership endpoints.
type PlaylistHandler struct {
	Playlists PlaylistManager
	Sessions  SessionManager
}

// Create handles POST /api/v1/playlists.
func (h PlaylistHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	ownerID, err := requireUser(r, h.Sessions)
	if err != nil {
		respondJSON(ctx, w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		return
	}

	var req playlistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	playlist, err := h.Playlists.Create(ctx, ownerID, req.Name, req.Description)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusCreated, playlist)
}

// ForUser handles GET /api/v1/playlists/user/{userId}.
func (h PlaylistHandler) ForUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	playlists, err := h.Playlists.ListForUser(ctx, r.PathValue("userId"))
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	if playlists == nil {
		playlists = []models.PlaylistSummary{}
	}

	respondJSON(ctx, w, http.StatusOK, playlists)
}

// Detail handles GET /api/v1/playlists/{playlistId}.
func (h PlaylistHandler) Detail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	detail, err := h.Playlists.Detail(ctx, r.PathValue("playlistId"))
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	if detail.Videos == nil {
		detail.Videos = []models.VideoWithOwner{}
	}

	respondJSON(ctx, w, http.StatusOK, detail)
}

// AddVideo handles POST /api/v1/playlists/{playlistId}/videos/{videoId}.
func (h PlaylistHandler) AddVideo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actorID, err := requireUser(r, h.Sessions)
	if err != nil {
		respondJSON(ctx, w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		return
	}

	playlist, err := h.Playlists.AddVideo(ctx, r.PathValue("playlistId"), r.PathValue("videoId"), actorID)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, playlist)
}

// RemoveVideo handles DELETE /api/v1/playlists/{playlistId}/videos/{videoId}.
func (h PlaylistHandler) RemoveVideo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actorID, err := requireUser(r, h.Sessions)
	if err != nil {
		respondJSON(ctx, w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		return
	}

	playlist, err := h.Playlists.RemoveVideo(ctx, r.PathValue("playlistId"), r.PathValue("videoId"), actorID)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, playlist)
}

// Update handles PATCH /api/v1/playlists/{playlistId}.
func (h PlaylistHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actorID, err := requireUser(r, h.Sessions)
	if err != nil {
		respondJSON(ctx, w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		return
	}

	var req playlistUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	playlist, err := h.Playlists.Update(ctx, r.PathValue("playlistId"), content.PlaylistUpdate{
		Name:        req.Name,
		Description: req.Description,
	}, actorID)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, playlist)
}

// Delete handles DELETE /api/v1/playlists/{playlistId}.
func (h PlaylistHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actorID, err := requireUser(r, h.Sessions)
	if err != nil {
		respondJSON(ctx, w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		return
	}

	if err := h.Playlists.Delete(ctx, r.PathValue("playlistId"), actorID); err != nil {
		respondError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, map[string]string{"status": "deleted"})
}

type playlistRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type playlistUpdateRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}
