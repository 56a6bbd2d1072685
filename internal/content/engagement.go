package content

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vanshsoni916/VideoTweetApp/internal/models"
)

// EngagementService implements toggle semantics for like and subscription
// edges. Edge presence is the boolean state; there is no cached counter, so
// counts always reflect edge parity. Two concurrent toggles for the same
// key race to a last-write-wins outcome, which is acceptable for
// user-intent-driven, convergent actions.
type EngagementService struct {
	store EngagementStore

	now   func() time.Time
	newID func() string
}

// NewEngagementService constructs the toggle engine over the provided store.
func NewEngagementService(store EngagementStore) *EngagementService {
	return &EngagementService{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.NewString,
	}
}

// ToggleLike flips the like edge for (actor, kind, target) and returns the
// resulting state: true when the edge now exists.
func (s *EngagementService) ToggleLike(ctx context.Context, actorID, targetType, targetID string) (bool, error) {
	if err := validateLikeTarget(targetType, targetID); err != nil {
		return false, err
	}

	existing, err := s.store.FindLike(ctx, actorID, targetType, targetID)
	if err == nil {
		if err := s.store.DeleteLike(ctx, existing.ID); err != nil {
			return false, fmt.Errorf("delete like: %w", err)
		}
		return false, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return false, fmt.Errorf("find like: %w", err)
	}

	like := models.Like{
		ID:         s.newID(),
		ActorID:    actorID,
		TargetType: targetType,
		TargetID:   targetID,
		CreatedAt:  s.now(),
	}
	if err := s.store.CreateLike(ctx, like); err != nil {
		return false, fmt.Errorf("create like: %w", err)
	}

	return true, nil
}

// IsLiked reports whether the actor currently likes the target.
func (s *EngagementService) IsLiked(ctx context.Context, actorID, targetType, targetID string) (bool, error) {
	if err := validateLikeTarget(targetType, targetID); err != nil {
		return false, err
	}

	_, err := s.store.FindLike(ctx, actorID, targetType, targetID)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	return false, fmt.Errorf("find like: %w", err)
}

// LikeCount computes the live like count for a target from edge parity.
func (s *EngagementService) LikeCount(ctx context.Context, targetType, targetID string) (int64, error) {
	if err := validateLikeTarget(targetType, targetID); err != nil {
		return 0, err
	}
	return s.store.CountLikes(ctx, targetType, targetID)
}

// LikedVideos returns the actor's liked videos joined to their owners,
// ordered by when each like was created, newest first. An empty page is a
// valid outcome, not an error.
func (s *EngagementService) LikedVideos(ctx context.Context, actorID string, page PageRequest) ([]models.LikedVideo, error) {
	page = page.Normalize(SortFieldCreatedAt)
	rows, err := s.store.ListLikedVideos(ctx, actorID, page)
	if err != nil {
		return nil, fmt.Errorf("list liked videos: %w", err)
	}
	return rows, nil
}

// ToggleSubscription flips the subscription edge between the actor and the
// channel. Subscribing to your own channel is always rejected.
func (s *EngagementService) ToggleSubscription(ctx context.Context, actorID, channelID string) (bool, error) {
	if err := validateReference(channelID); err != nil {
		return false, err
	}
	if channelID == actorID {
		return false, fmt.Errorf("%w: cannot subscribe to your own channel", ErrValidation)
	}

	existing, err := s.store.FindSubscription(ctx, actorID, channelID)
	if err == nil {
		if err := s.store.DeleteSubscription(ctx, existing.ID); err != nil {
			return false, fmt.Errorf("delete subscription: %w", err)
		}
		return false, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return false, fmt.Errorf("find subscription: %w", err)
	}

	sub := models.Subscription{
		ID:           s.newID(),
		SubscriberID: actorID,
		ChannelID:    channelID,
		CreatedAt:    s.now(),
	}
	if err := s.store.CreateSubscription(ctx, sub); err != nil {
		return false, fmt.Errorf("create subscription: %w", err)
	}

	return true, nil
}

// Subscribers lists the users subscribed to a channel, newest first.
func (s *EngagementService) Subscribers(ctx context.Context, channelID string, page PageRequest) ([]models.ChannelMember, error) {
	if err := validateReference(channelID); err != nil {
		return nil, err
	}
	page = page.Normalize(SortFieldCreatedAt)
	rows, err := s.store.ListSubscribers(ctx, channelID, page)
	if err != nil {
		return nil, fmt.Errorf("list subscribers: %w", err)
	}
	return rows, nil
}

// SubscribedChannels lists the channels a user subscribes to, newest first.
func (s *EngagementService) SubscribedChannels(ctx context.Context, subscriberID string, page PageRequest) ([]models.ChannelMember, error) {
	if err := validateReference(subscriberID); err != nil {
		return nil, err
	}
	page = page.Normalize(SortFieldCreatedAt)
	rows, err := s.store.ListSubscribedChannels(ctx, subscriberID, page)
	if err != nil {
		return nil, fmt.Errorf("list subscribed channels: %w", err)
	}
	return rows, nil
}

func validateLikeTarget(targetType, targetID string) error {
	switch targetType {
	case models.LikeTargetVideo, models.LikeTargetTweet, models.LikeTargetComment:
	default:
		return fmt.Errorf("%w: unknown like target %q", ErrValidation, targetType)
	}
	return validateReference(targetID)
}

// validateReference rejects malformed entity references before they reach
// the store.
func validateReference(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: invalid id %q", ErrValidation, id)
	}
	return nil
}
