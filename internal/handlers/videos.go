package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/vanshsoni916/VideoTweetApp/internal/content"
	"github.com/vanshsoni916/VideoTweetApp/internal/logging"
	"github.com/vanshsoni916/VideoTweetApp/internal/media"
	"github.com/vanshsoni916/VideoTweetApp/internal/models"
)

// VideoHandler implements video publishing and the video views.
type VideoHandler struct {
	Videos   VideoManager
	Sessions SessionManager
	Media    MediaStore
	TempDir  string
}

// Feed handles GET /api/v1/videos. Anonymous callers are welcome.
func (h VideoHandler) Feed(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	filter := content.VideoFilter{
		Query:   strings.TrimSpace(r.URL.Query().Get("query")),
		OwnerID: strings.TrimSpace(r.URL.Query().Get("userId")),
	}

	videos, err := h.Videos.Feed(ctx, filter, parsePage(r))
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	if videos == nil {
		videos = []models.VideoWithOwner{}
	}

	respondJSON(ctx, w, http.StatusOK, videos)
}

// Publish handles POST /api/v1/videos. The request is multipart: title and
// description fields plus the video file and its thumbnail.
func (h VideoHandler) Publish(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	ownerID, err := requireUser(r, h.Sessions)
	if err != nil {
		respondJSON(ctx, w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		logger.Warn("invalid publish payload", "error", err)
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "multipart form required"})
		return
	}

	videoPath, err := stageUpload(r, "videoFile", h.TempDir)
	if err != nil {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "video file is required"})
		return
	}
	videoAsset, err := h.Media.Upload(ctx, videoPath, media.CategoryVideos)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	thumbPath, err := stageUpload(r, "thumbnail", h.TempDir)
	if err != nil {
		h.releaseQuietly(r, videoAsset.PublicID, "video")
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "thumbnail is required"})
		return
	}
	thumbnail, err := h.Media.Upload(ctx, thumbPath, media.CategoryThumbnails)
	if err != nil {
		h.releaseQuietly(r, videoAsset.PublicID, "video")
		respondError(ctx, w, err)
		return
	}

	video, err := h.Videos.Publish(ctx, ownerID, r.FormValue("title"), r.FormValue("description"), videoAsset, thumbnail)
	if err != nil {
		h.releaseQuietly(r, videoAsset.PublicID, "video")
		h.releaseQuietly(r, thumbnail.PublicID, "image")
		respondError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusCreated, video)
}

// Detail handles GET /api/v1/videos/{videoId}. A successful read counts a
// view and, for authenticated viewers, records watch history.
func (h VideoHandler) Detail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	viewerID := optionalUser(r, h.Sessions)
	detail, err := h.Videos.Detail(ctx, r.PathValue("videoId"), viewerID)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, detail)
}

// Update handles PATCH /api/v1/videos/{videoId}. Title and description come
// as JSON unless the request carries a multipart thumbnail replacement.
func (h VideoHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actorID, err := requireUser(r, h.Sessions)
	if err != nil {
		respondJSON(ctx, w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		return
	}

	var fields content.VideoUpdate
	var newThumbnail *models.MediaAsset

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid multipart form"})
			return
		}
		if title := r.FormValue("title"); title != "" {
			fields.Title = &title
		}
		if description := r.FormValue("description"); description != "" {
			fields.Description = &description
		}
		if thumbPath, err := stageUpload(r, "thumbnail", h.TempDir); err == nil {
			uploaded, err := h.Media.Upload(ctx, thumbPath, media.CategoryThumbnails)
			if err != nil {
				respondError(ctx, w, err)
				return
			}
			newThumbnail = &uploaded
		}
	} else {
		var req videoUpdateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}
		fields.Title = req.Title
		fields.Description = req.Description
	}

	video, err := h.Videos.Update(ctx, r.PathValue("videoId"), actorID, fields, newThumbnail)
	if err != nil {
		if newThumbnail != nil {
			h.releaseQuietly(r, newThumbnail.PublicID, "image")
		}
		respondError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, video)
}

// Delete handles DELETE /api/v1/videos/{videoId}.
func (h VideoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actorID, err := requireUser(r, h.Sessions)
	if err != nil {
		respondJSON(ctx, w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		return
	}

	if err := h.Videos.Delete(ctx, r.PathValue("videoId"), actorID); err != nil {
		respondError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, map[string]string{"status": "deleted"})
}

// TogglePublish handles POST /api/v1/videos/{videoId}/toggle-publish.
func (h VideoHandler) TogglePublish(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actorID, err := requireUser(r, h.Sessions)
	if err != nil {
		respondJSON(ctx, w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		return
	}

	published, err := h.Videos.TogglePublish(ctx, r.PathValue("videoId"), actorID)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, map[string]bool{"isPublished": published})
}

func (h VideoHandler) releaseQuietly(r *http.Request, publicID, kind string) {
	if publicID == "" {
		return
	}
	if err := h.Media.Release(r.Context(), publicID, kind); err != nil {
		logging.FromContext(r.Context()).Warn("release orphaned asset", "publicId", publicID, "error", err)
	}
}

type videoUpdateRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}
