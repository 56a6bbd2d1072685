package handlers

import (
	"encoding/json"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/vanshsoni916/VideoTweetApp/internal/logging"
	"github.com/vanshsoni916/VideoTweetApp/internal/media"
	"github.com/vanshsoni916/VideoTweetApp/internal/models"
)

// UserHandler implements account maintenance and the channel views.
type UserHandler struct {
	Users    UserStore
	Sessions SessionManager
	Channels ChannelManager
	Media    MediaStore
	TempDir  string
	NowFunc  func() time.Time
}

// Me handles GET /api/v1/users/me.
func (h UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, err := requireUser(r, h.Sessions)
	if err != nil {
		respondJSON(ctx, w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		return
	}

	user, err := h.Users.FindUserByID(ctx, userID)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, publicUser(user))
}

// UpdateAccount handles PATCH /api/v1/users/me, merging display name and
// email changes.
func (h UserHandler) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, err := requireUser(r, h.Sessions)
	if err != nil {
		respondJSON(ctx, w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		return
	}

	var req updateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.DisplayName == nil && req.Email == nil {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "nothing to update"})
		return
	}

	user, err := h.Users.FindUserByID(ctx, userID)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	if req.DisplayName != nil {
		displayName := strings.TrimSpace(*req.DisplayName)
		if displayName == "" {
			respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "display name cannot be empty"})
			return
		}
		user.DisplayName = displayName
	}
	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if _, err := mail.ParseAddress(email); err != nil {
			respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid email address"})
			return
		}
		user.Email = email
	}

	user.UpdatedAt = h.now()
	if err := h.Users.UpdateUser(ctx, user); err != nil {
		respondError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, publicUser(user))
}

// UpdateAvatar handles PATCH /api/v1/users/me/avatar. The old avatar is
// released only after the record references the new one.
func (h UserHandler) UpdateAvatar(w http.ResponseWriter, r *http.Request) {
	h.replaceImage(w, r, media.CategoryAvatars, func(user *models.User, asset models.MediaAsset) string {
		old := user.Avatar.PublicID
		user.Avatar = asset
		return old
	})
}

// UpdateCover handles PATCH /api/v1/users/me/cover.
func (h UserHandler) UpdateCover(w http.ResponseWriter, r *http.Request) {
	h.replaceImage(w, r, media.CategoryCovers, func(user *models.User, asset models.MediaAsset) string {
		var old string
		if user.CoverImage != nil {
			old = user.CoverImage.PublicID
		}
		user.CoverImage = &asset
		return old
	})
}

func (h UserHandler) replaceImage(w http.ResponseWriter, r *http.Request, category string, apply func(*models.User, models.MediaAsset) string) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	userID, err := requireUser(r, h.Sessions)
	if err != nil {
		respondJSON(ctx, w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "multipart form required"})
		return
	}

	stagedPath, err := stageUpload(r, "image", h.TempDir)
	if err != nil {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "image file is required"})
		return
	}

	asset, err := h.Media.Upload(ctx, stagedPath, category)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	user, err := h.Users.FindUserByID(ctx, userID)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	oldPublicID := apply(&user, asset)
	user.UpdatedAt = h.now()
	if err := h.Users.UpdateUser(ctx, user); err != nil {
		respondError(ctx, w, err)
		return
	}

	if oldPublicID != "" {
		if err := h.Media.Release(ctx, oldPublicID, "image"); err != nil {
			logger.Warn("release replaced image", "publicId", oldPublicID, "error", err)
		}
	}

	respondJSON(ctx, w, http.StatusOK, publicUser(user))
}

// Channel handles GET /api/v1/users/channel/{username}.
func (h UserHandler) Channel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	viewerID := optionalUser(r, h.Sessions)
	profile, err := h.Channels.Profile(ctx, r.PathValue("username"), viewerID)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, profile)
}

// WatchHistory handles GET /api/v1/users/me/history.
func (h UserHandler) WatchHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, err := requireUser(r, h.Sessions)
	if err != nil {
		respondJSON(ctx, w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		return
	}

	entries, err := h.Channels.WatchHistory(ctx, userID)
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	if entries == nil {
		entries = []models.WatchEntry{}
	}

	respondJSON(ctx, w, http.StatusOK, entries)
}

type updateAccountRequest struct {
	DisplayName *string `json:"displayName"`
	Email       *string `json:"email"`
}

func (h UserHandler) now() time.Time {
	if h.NowFunc != nil {
		return h.NowFunc()
	}
	return time.Now().UTC()
}
