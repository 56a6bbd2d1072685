package content

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/vanshsoni916/VideoTweetApp/internal/logging"
	"github.com/vanshsoni916/VideoTweetApp/internal/models"
)

// ChannelService builds the channel profile and watch-history views. Both
// are pure reads over the entity and relation stores.
type ChannelService struct {
	users      UserStore
	engagement EngagementStore
	history    HistoryStore
}

// NewChannelService constructs a channel view builder.
func NewChannelService(users UserStore, engagement EngagementStore, history HistoryStore) *ChannelService {
	return &ChannelService{users: users, engagement: engagement, history: history}
}

// Profile locates a channel by its case-folded username and computes the
// subscription counts live from edge parity. When a viewer is supplied,
// IsSubscribed reflects the presence of that exact (viewer, channel) edge.
func (s *ChannelService) Profile(ctx context.Context, username, viewerID string) (models.ChannelProfile, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" {
		return models.ChannelProfile{}, fmt.Errorf("%w: username is required", ErrValidation)
	}

	ctx, span := logging.StartSpan(ctx, "channel.profile")
	defer span.End()

	user, err := s.users.FindUserByUsername(ctx, username)
	if err != nil {
		return models.ChannelProfile{}, err
	}

	subscribers, err := s.engagement.CountSubscribers(ctx, user.ID)
	if err != nil {
		return models.ChannelProfile{}, fmt.Errorf("count subscribers: %w", err)
	}
	subscribedTo, err := s.engagement.CountSubscribedTo(ctx, user.ID)
	if err != nil {
		return models.ChannelProfile{}, fmt.Errorf("count subscribed channels: %w", err)
	}

	isSubscribed := false
	if viewerID != "" {
		_, err := s.engagement.FindSubscription(ctx, viewerID, user.ID)
		switch {
		case err == nil:
			isSubscribed = true
		case errors.Is(err, ErrNotFound):
		default:
			return models.ChannelProfile{}, fmt.Errorf("check subscription: %w", err)
		}
	}

	profile := models.ChannelProfile{
		ID:                user.ID,
		Username:          user.Username,
		DisplayName:       user.DisplayName,
		Email:             user.Email,
		Avatar:            user.Avatar.URL,
		SubscribersCount:  subscribers,
		SubscribedToCount: subscribedTo,
		IsSubscribed:      isSubscribed,
	}
	if user.CoverImage != nil {
		profile.CoverImage = user.CoverImage.URL
	}

	return profile, nil
}

// WatchHistory returns the user's watched videos, most recent first, each
// joined to a single owner projection. A missing owner yields a row with a
// nil owner rather than dropping the row.
func (s *ChannelService) WatchHistory(ctx context.Context, userID string) ([]models.WatchEntry, error) {
	if err := validateReference(userID); err != nil {
		return nil, err
	}
	entries, err := s.history.ListWatchHistory(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list watch history: %w", err)
	}
	return entries, nil
}
