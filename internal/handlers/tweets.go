package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/vanshsoni916/VideoTweetApp/internal/models"
)

// TweetHandler implements the tweet endpoints.
type TweetHandler struct {
	Tweets   TweetManager
	Sessions SessionManager
}

// Create handles POST /api/v1/tweets.
func (h TweetHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	ownerID, err := requireUser(r, h.Sessions)
	if err != nil {
		respondJSON(ctx, w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		return
	}

	var req tweetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	tweet, err := h.Tweets.Create(ctx, ownerID, req.Content)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusCreated, tweet)
}

// ForUser handles GET /api/v1/tweets/user/{userId}.
func (h TweetHandler) ForUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	tweets, err := h.Tweets.UserTweets(ctx, r.PathValue("userId"), parsePage(r))
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	if tweets == nil {
		tweets = []models.TweetWithOwner{}
	}

	respondJSON(ctx, w, http.StatusOK, tweets)
}

// Update handles PATCH /api/v1/tweets/{tweetId}.
func (h TweetHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actorID, err := requireUser(r, h.Sessions)
	if err != nil {
		respondJSON(ctx, w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		return
	}

	var req tweetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	tweet, err := h.Tweets.Update(ctx, r.PathValue("tweetId"), actorID, req.Content)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, tweet)
}

// Delete handles DELETE /api/v1/tweets/{tweetId}.
func (h TweetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actorID, err := requireUser(r, h.Sessions)
	if err != nil {
		respondJSON(ctx, w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		return
	}

	if err := h.Tweets.Delete(ctx, r.PathValue("tweetId"), actorID); err != nil {
		respondError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, map[string]string{"status": "deleted"})
}

type tweetRequest struct {
	Content string `json:"content"`
}
