package content

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/vanshsoni916/VideoTweetApp/internal/models"
)

// maxTweetLength bounds tweet content, counted in runes.
const maxTweetLength = 350

// TweetService manages tweet lifecycle and the user-tweets view.
type TweetService struct {
	tweets TweetStore

	now   func() time.Time
	newID func() string
}

// NewTweetService constructs a tweet manager.
func NewTweetService(tweets TweetStore) *TweetService {
	return &TweetService{
		tweets: tweets,
		now:    func() time.Time { return time.Now().UTC() },
		newID:  uuid.NewString,
	}
}

// Create posts a new tweet for the owner.
func (s *TweetService) Create(ctx context.Context, ownerID, body string) (models.Tweet, error) {
	if err := validateTweetContent(body); err != nil {
		return models.Tweet{}, err
	}

	tweet := models.Tweet{
		ID:        s.newID(),
		OwnerID:   ownerID,
		Content:   body,
		CreatedAt: s.now(),
	}
	if err := s.tweets.CreateTweet(ctx, tweet); err != nil {
		return models.Tweet{}, fmt.Errorf("create tweet: %w", err)
	}

	return tweet, nil
}

// Update rewrites a tweet's content after the owner guard passes.
func (s *TweetService) Update(ctx context.Context, tweetID, actorID, body string) (models.Tweet, error) {
	if err := validateReference(tweetID); err != nil {
		return models.Tweet{}, err
	}
	if err := validateTweetContent(body); err != nil {
		return models.Tweet{}, err
	}

	tweet, err := s.tweets.FindTweetByID(ctx, tweetID)
	if err != nil {
		return models.Tweet{}, err
	}
	if err := requireOwner(actorID, tweet.OwnerID); err != nil {
		return models.Tweet{}, err
	}

	tweet.Content = body
	if err := s.tweets.UpdateTweet(ctx, tweet); err != nil {
		return models.Tweet{}, fmt.Errorf("update tweet: %w", err)
	}

	return tweet, nil
}

// Delete removes a tweet after the owner guard passes.
func (s *TweetService) Delete(ctx context.Context, tweetID, actorID string) error {
	if err := validateReference(tweetID); err != nil {
		return err
	}

	tweet, err := s.tweets.FindTweetByID(ctx, tweetID)
	if err != nil {
		return err
	}
	if err := requireOwner(actorID, tweet.OwnerID); err != nil {
		return err
	}

	if err := s.tweets.DeleteTweet(ctx, tweetID); err != nil {
		return fmt.Errorf("delete tweet: %w", err)
	}
	return nil
}

// UserTweets returns a user's tweets joined to the owner projection, newest
// first. Empty is not an error.
func (s *TweetService) UserTweets(ctx context.Context, userID string, page PageRequest) ([]models.TweetWithOwner, error) {
	if err := validateReference(userID); err != nil {
		return nil, err
	}
	page = page.Normalize(SortFieldCreatedAt)
	rows, err := s.tweets.ListTweetsByOwner(ctx, userID, page)
	if err != nil {
		return nil, fmt.Errorf("list user tweets: %w", err)
	}
	return rows, nil
}

func validateTweetContent(body string) error {
	if strings.TrimSpace(body) == "" {
		return fmt.Errorf("%w: content is required", ErrValidation)
	}
	if utf8.RuneCountInString(body) > maxTweetLength {
		return fmt.Errorf("%w: content exceeds %d characters", ErrValidation, maxTweetLength)
	}
	return nil
}
