package handlers

import (
	"net/http"

	"github.com/vanshsoni916/VideoTweetApp/internal/models"
)

// LikeHandler implements the like toggles and the liked-videos view.
type LikeHandler struct {
	Engagement EngagementManager
	Sessions   SessionManager
}

// ToggleVideo handles POST /api/v1/likes/toggle/video/{videoId}.
func (h LikeHandler) ToggleVideo(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, models.LikeTargetVideo, r.PathValue("videoId"))
}

// ToggleTweet handles POST /api/v1/likes/toggle/tweet/{tweetId}.
func (h LikeHandler) ToggleTweet(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, models.LikeTargetTweet, r.PathValue("tweetId"))
}

// ToggleComment handles POST /api/v1/likes/toggle/comment/{commentId}.
func (h LikeHandler) ToggleComment(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, models.LikeTargetComment, r.PathValue("commentId"))
}

func (h LikeHandler) toggle(w http.ResponseWriter, r *http.Request, targetType, targetID string) {
	ctx := r.Context()

	actorID, err := requireUser(r, h.Sessions)
	if err != nil {
		respondJSON(ctx, w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		return
	}

	liked, err := h.Engagement.ToggleLike(ctx, actorID, targetType, targetID)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, map[string]bool{"isLiked": liked})
}

// Videos handles GET /api/v1/likes/videos, the caller's liked-video feed.
func (h LikeHandler) Videos(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actorID, err := requireUser(r, h.Sessions)
	if err != nil {
		respondJSON(ctx, w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		return
	}

	liked, err := h.Engagement.LikedVideos(ctx, actorID, parsePage(r))
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	if liked == nil {
		liked = []models.LikedVideo{}
	}

	respondJSON(ctx, w, http.StatusOK, liked)
}
