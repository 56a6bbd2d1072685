package handlers

import (
	"net/http"

	"github.com/vanshsoni916/VideoTweetApp/internal/models"
)

// SubscriptionHandler implements the subscription toggle and member lists.
type SubscriptionHandler struct {
	Engagement EngagementManager
	Sessions   SessionManager
}

// Toggle handles POST /api/v1/subscriptions/toggle/{channelId}.
func (h SubscriptionHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actorID, err := requireUser(r, h.Sessions)
	if err != nil {
		respondJSON(ctx, w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		return
	}

	subscribed, err := h.Engagement.ToggleSubscription(ctx, actorID, r.PathValue("channelId"))
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, map[string]bool{"isSubscribed": subscribed})
}

// Subscribers handles GET /api/v1/subscriptions/subscribers/{channelId}.
func (h SubscriptionHandler) Subscribers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	members, err := h.Engagement.Subscribers(ctx, r.PathValue("channelId"), parsePage(r))
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	if members == nil {
		members = []models.ChannelMember{}
	}

	respondJSON(ctx, w, http.StatusOK, members)
}

// Channels handles GET /api/v1/subscriptions/channels/{subscriberId}.
func (h SubscriptionHandler) Channels(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	members, err := h.Engagement.SubscribedChannels(ctx, r.PathValue("subscriberId"), parsePage(r))
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	if members == nil {
		members = []models.ChannelMember{}
	}

	respondJSON(ctx, w, http.StatusOK, members)
}
