package repositories

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/vanshsoni916/VideoTweetApp/internal/content"
	"github.com/vanshsoni916/VideoTweetApp/internal/models"
)

// MemoryStore is a mutex-guarded in-memory implementation of every store
// contract the content package declares, plus the user persistence the auth
// handlers need. It backs tests and local development; the join and
// ordering semantics here mirror the SQL implementations.
type MemoryStore struct {
	mu            sync.Mutex
	users         map[string]models.User
	videos        map[string]models.Video
	tweets        map[string]models.Tweet
	likes         map[string]models.Like
	subscriptions map[string]models.Subscription
	playlists     map[string]models.Playlist
	history       map[string][]string
}

// NewMemoryStore constructs an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:         make(map[string]models.User),
		videos:        make(map[string]models.Video),
		tweets:        make(map[string]models.Tweet),
		likes:         make(map[string]models.Like),
		subscriptions: make(map[string]models.Subscription),
		playlists:     make(map[string]models.Playlist),
		history:       make(map[string][]string),
	}
}

// CreateUser persists a new user, enforcing username and email uniqueness.
func (s *MemoryStore) CreateUser(_ context.Context, user models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Username == user.Username || existing.Email == user.Email {
			return ErrConflict
		}
	}
	s.users[user.ID] = user
	return nil
}

// FindUserByID fetches a user by id.
func (s *MemoryStore) FindUserByID(_ context.Context, id string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return models.User{}, ErrNotFound
	}
	return user, nil
}

// FindUserByUsername fetches a user by their case-folded username.
func (s *MemoryStore) FindUserByUsername(_ context.Context, username string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, user := range s.users {
		if user.Username == strings.ToLower(username) {
			return user, nil
		}
	}
	return models.User{}, ErrNotFound
}

// FindUserByEmail fetches a user by email.
func (s *MemoryStore) FindUserByEmail(_ context.Context, email string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, user := range s.users {
		if user.Email == email {
			return user, nil
		}
	}
	return models.User{}, ErrNotFound
}

// UpdateUser replaces an existing user record, enforcing the same username
// and email uniqueness as creation.
func (s *MemoryStore) UpdateUser(_ context.Context, user models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.ID]; !ok {
		return ErrNotFound
	}
	for id, existing := range s.users {
		if id == user.ID {
			continue
		}
		if existing.Username == user.Username || existing.Email == user.Email {
			return ErrConflict
		}
	}
	s.users[user.ID] = user
	return nil
}

// CreateVideo persists a new video record.
func (s *MemoryStore) CreateVideo(_ context.Context, video models.Video) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.videos[video.ID]; ok {
		return ErrConflict
	}
	s.videos[video.ID] = video
	return nil
}

// FindVideoByID fetches a video regardless of publish state.
func (s *MemoryStore) FindVideoByID(_ context.Context, id string) (models.Video, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	video, ok := s.videos[id]
	if !ok {
		return models.Video{}, ErrNotFound
	}
	return video, nil
}

// UpdateVideo replaces an existing video record.
func (s *MemoryStore) UpdateVideo(_ context.Context, video models.Video) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.videos[video.ID]; !ok {
		return ErrNotFound
	}
	s.videos[video.ID] = video
	return nil
}

// DeleteVideo removes a video record.
func (s *MemoryStore) DeleteVideo(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.videos[id]; !ok {
		return ErrNotFound
	}
	delete(s.videos, id)
	return nil
}

// IncrementViews adds one successful fetch to the video's view counter.
func (s *MemoryStore) IncrementViews(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	video, ok := s.videos[id]
	if !ok {
		return ErrNotFound
	}
	video.Views++
	s.videos[id] = video
	return nil
}

// ListPublished returns the filtered, sorted, paginated published feed.
func (s *MemoryStore) ListPublished(_ context.Context, filter content.VideoFilter, page content.PageRequest) ([]models.VideoWithOwner, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var matched []models.Video
	query := strings.ToLower(filter.Query)
	for _, video := range s.videos {
		if !video.IsPublished {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(video.Title), query) {
			continue
		}
		if filter.OwnerID != "" && video.OwnerID != filter.OwnerID {
			continue
		}
		matched = append(matched, video)
	}

	sortVideos(matched, page)

	matched = pageSlice(matched, page)
	rows := make([]models.VideoWithOwner, 0, len(matched))
	for _, video := range matched {
		rows = append(rows, models.VideoWithOwner{
			ID:              video.ID,
			Title:           video.Title,
			Description:     video.Description,
			Thumbnail:       video.Thumbnail.URL,
			DurationSeconds: video.DurationSeconds,
			Views:           video.Views,
			CreatedAt:       video.CreatedAt,
			Owner:           s.ownerSummaryLocked(video.OwnerID),
		})
	}
	return rows, nil
}

// FindPublishedDetail fetches a published video joined to its owner.
func (s *MemoryStore) FindPublishedDetail(_ context.Context, id string) (models.VideoDetail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	video, ok := s.videos[id]
	if !ok || !video.IsPublished {
		return models.VideoDetail{}, ErrNotFound
	}

	return models.VideoDetail{
		ID:              video.ID,
		Title:           video.Title,
		Description:     video.Description,
		VideoFile:       video.VideoFile,
		Thumbnail:       video.Thumbnail.URL,
		DurationSeconds: video.DurationSeconds,
		Views:           video.Views,
		CreatedAt:       video.CreatedAt,
		Owner:           s.ownerSummaryLocked(video.OwnerID),
	}, nil
}

// CreateTweet persists a new tweet.
func (s *MemoryStore) CreateTweet(_ context.Context, tweet models.Tweet) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tweets[tweet.ID]; ok {
		return ErrConflict
	}
	s.tweets[tweet.ID] = tweet
	return nil
}

// FindTweetByID fetches a tweet by id.
func (s *MemoryStore) FindTweetByID(_ context.Context, id string) (models.Tweet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tweet, ok := s.tweets[id]
	if !ok {
		return models.Tweet{}, ErrNotFound
	}
	return tweet, nil
}

// UpdateTweet replaces an existing tweet.
func (s *MemoryStore) UpdateTweet(_ context.Context, tweet models.Tweet) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tweets[tweet.ID]; !ok {
		return ErrNotFound
	}
	s.tweets[tweet.ID] = tweet
	return nil
}

// DeleteTweet removes a tweet.
func (s *MemoryStore) DeleteTweet(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tweets[id]; !ok {
		return ErrNotFound
	}
	delete(s.tweets, id)
	return nil
}

// ListTweetsByOwner returns a user's tweets joined to the owner projection.
func (s *MemoryStore) ListTweetsByOwner(_ context.Context, ownerID string, page content.PageRequest) ([]models.TweetWithOwner, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var matched []models.Tweet
	for _, tweet := range s.tweets {
		if tweet.OwnerID == ownerID {
			matched = append(matched, tweet)
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID < matched[j].ID
	})

	matched = pageSlice(matched, page)
	rows := make([]models.TweetWithOwner, 0, len(matched))
	for _, tweet := range matched {
		rows = append(rows, models.TweetWithOwner{
			ID:        tweet.ID,
			Content:   tweet.Content,
			CreatedAt: tweet.CreatedAt,
			Owner:     s.ownerSummaryLocked(tweet.OwnerID),
		})
	}
	return rows, nil
}

// FindLike looks up a like edge by its composite key.
func (s *MemoryStore) FindLike(_ context.Context, actorID, targetType, targetID string) (models.Like, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, like := range s.likes {
		if like.ActorID == actorID && like.TargetType == targetType && like.TargetID == targetID {
			return like, nil
		}
	}
	return models.Like{}, ErrNotFound
}

// CreateLike persists a like edge, enforcing composite uniqueness.
func (s *MemoryStore) CreateLike(_ context.Context, like models.Like) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.likes {
		if existing.ActorID == like.ActorID && existing.TargetType == like.TargetType && existing.TargetID == like.TargetID {
			return ErrConflict
		}
	}
	s.likes[like.ID] = like
	return nil
}

// DeleteLike hard-deletes a like edge.
func (s *MemoryStore) DeleteLike(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.likes[id]; !ok {
		return ErrNotFound
	}
	delete(s.likes, id)
	return nil
}

// CountLikes counts the like edges for a target.
func (s *MemoryStore) CountLikes(_ context.Context, targetType, targetID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var count int64
	for _, like := range s.likes {
		if like.TargetType == targetType && like.TargetID == targetID {
			count++
		}
	}
	return count, nil
}

// ListLikedVideos joins the actor's video likes to videos and owners,
// ordered by the like's own creation time, newest first.
func (s *MemoryStore) ListLikedVideos(_ context.Context, actorID string, page content.PageRequest) ([]models.LikedVideo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var matched []models.Like
	for _, like := range s.likes {
		if like.ActorID != actorID || like.TargetType != models.LikeTargetVideo {
			continue
		}
		if _, ok := s.videos[like.TargetID]; !ok {
			continue
		}
		matched = append(matched, like)
	}

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID < matched[j].ID
	})

	matched = pageSlice(matched, page)
	rows := make([]models.LikedVideo, 0, len(matched))
	for _, like := range matched {
		video := s.videos[like.TargetID]
		rows = append(rows, models.LikedVideo{
			Video: models.VideoWithOwner{
				ID:              video.ID,
				Title:           video.Title,
				Description:     video.Description,
				Thumbnail:       video.Thumbnail.URL,
				DurationSeconds: video.DurationSeconds,
				Views:           video.Views,
				CreatedAt:       video.CreatedAt,
				Owner:           s.ownerSummaryLocked(video.OwnerID),
			},
			LikedAt: like.CreatedAt,
		})
	}
	return rows, nil
}

// FindSubscription looks up a subscription edge by its composite key.
func (s *MemoryStore) FindSubscription(_ context.Context, subscriberID, channelID string) (models.Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, sub := range s.subscriptions {
		if sub.SubscriberID == subscriberID && sub.ChannelID == channelID {
			return sub, nil
		}
	}
	return models.Subscription{}, ErrNotFound
}

// CreateSubscription persists a subscription edge, enforcing uniqueness.
func (s *MemoryStore) CreateSubscription(_ context.Context, sub models.Subscription) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.subscriptions {
		if existing.SubscriberID == sub.SubscriberID && existing.ChannelID == sub.ChannelID {
			return ErrConflict
		}
	}
	s.subscriptions[sub.ID] = sub
	return nil
}

// DeleteSubscription hard-deletes a subscription edge.
func (s *MemoryStore) DeleteSubscription(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.subscriptions[id]; !ok {
		return ErrNotFound
	}
	delete(s.subscriptions, id)
	return nil
}

// CountSubscribers counts the subscription edges pointing at a channel.
func (s *MemoryStore) CountSubscribers(_ context.Context, channelID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var count int64
	for _, sub := range s.subscriptions {
		if sub.ChannelID == channelID {
			count++
		}
	}
	return count, nil
}

// CountSubscribedTo counts the channels a user subscribes to.
func (s *MemoryStore) CountSubscribedTo(_ context.Context, subscriberID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var count int64
	for _, sub := range s.subscriptions {
		if sub.SubscriberID == subscriberID {
			count++
		}
	}
	return count, nil
}

// ListSubscribers returns the subscriber user projections of a channel.
func (s *MemoryStore) ListSubscribers(_ context.Context, channelID string, page content.PageRequest) ([]models.ChannelMember, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listMembersLocked(page, func(sub models.Subscription) (string, bool) {
		return sub.SubscriberID, sub.ChannelID == channelID
	}), nil
}

// ListSubscribedChannels returns the channels a user subscribes to.
func (s *MemoryStore) ListSubscribedChannels(_ context.Context, subscriberID string, page content.PageRequest) ([]models.ChannelMember, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listMembersLocked(page, func(sub models.Subscription) (string, bool) {
		return sub.ChannelID, sub.SubscriberID == subscriberID
	}), nil
}

// CreatePlaylist persists a new playlist.
func (s *MemoryStore) CreatePlaylist(_ context.Context, playlist models.Playlist) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.playlists[playlist.ID]; ok {
		return ErrConflict
	}
	s.playlists[playlist.ID] = playlist
	return nil
}

// FindPlaylistByID fetches a playlist by id.
func (s *MemoryStore) FindPlaylistByID(_ context.Context, id string) (models.Playlist, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	playlist, ok := s.playlists[id]
	if !ok {
		return models.Playlist{}, ErrNotFound
	}
	return playlist, nil
}

// UpdatePlaylist replaces the name and description of a playlist.
func (s *MemoryStore) UpdatePlaylist(_ context.Context, playlist models.Playlist) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.playlists[playlist.ID]
	if !ok {
		return ErrNotFound
	}
	existing.Name = playlist.Name
	existing.Description = playlist.Description
	s.playlists[playlist.ID] = existing
	return nil
}

// DeletePlaylist removes a playlist.
func (s *MemoryStore) DeletePlaylist(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.playlists[id]; !ok {
		return ErrNotFound
	}
	delete(s.playlists, id)
	return nil
}

// ListPlaylistsByOwner returns a user's playlist summaries, newest first.
func (s *MemoryStore) ListPlaylistsByOwner(_ context.Context, ownerID string) ([]models.PlaylistSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	summaries := make([]models.PlaylistSummary, 0)
	for _, playlist := range s.playlists {
		if playlist.OwnerID != ownerID {
			continue
		}
		summaries = append(summaries, models.PlaylistSummary{
			ID:          playlist.ID,
			Name:        playlist.Name,
			Description: playlist.Description,
			TotalVideos: len(playlist.VideoIDs),
			CreatedAt:   playlist.CreatedAt,
		})
	}

	sort.Slice(summaries, func(i, j int) bool {
		if !summaries[i].CreatedAt.Equal(summaries[j].CreatedAt) {
			return summaries[i].CreatedAt.After(summaries[j].CreatedAt)
		}
		return summaries[i].ID < summaries[j].ID
	})
	return summaries, nil
}

// AddVideo set-inserts a video reference, preserving insertion order.
func (s *MemoryStore) AddVideo(_ context.Context, playlistID, videoID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	playlist, ok := s.playlists[playlistID]
	if !ok {
		return ErrNotFound
	}
	for _, existing := range playlist.VideoIDs {
		if existing == videoID {
			return nil
		}
	}
	playlist.VideoIDs = append(playlist.VideoIDs, videoID)
	s.playlists[playlistID] = playlist
	return nil
}

// RemoveVideo removes every occurrence of the video reference.
func (s *MemoryStore) RemoveVideo(_ context.Context, playlistID, videoID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	playlist, ok := s.playlists[playlistID]
	if !ok {
		return ErrNotFound
	}
	kept := make([]string, 0, len(playlist.VideoIDs))
	for _, existing := range playlist.VideoIDs {
		if existing != videoID {
			kept = append(kept, existing)
		}
	}
	playlist.VideoIDs = kept
	s.playlists[playlistID] = playlist
	return nil
}

// FindPlaylistDetail joins a playlist to its resolvable videos and owners.
// Dangling video ids are dropped silently.
func (s *MemoryStore) FindPlaylistDetail(_ context.Context, id string) (models.PlaylistDetail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	playlist, ok := s.playlists[id]
	if !ok {
		return models.PlaylistDetail{}, ErrNotFound
	}

	detail := models.PlaylistDetail{
		ID:          playlist.ID,
		Name:        playlist.Name,
		Description: playlist.Description,
		CreatedAt:   playlist.CreatedAt,
		Owner:       s.ownerSummaryLocked(playlist.OwnerID),
		Videos:      make([]models.VideoWithOwner, 0, len(playlist.VideoIDs)),
	}
	for _, videoID := range playlist.VideoIDs {
		video, ok := s.videos[videoID]
		if !ok {
			continue
		}
		detail.Videos = append(detail.Videos, models.VideoWithOwner{
			ID:              video.ID,
			Title:           video.Title,
			Description:     video.Description,
			Thumbnail:       video.Thumbnail.URL,
			DurationSeconds: video.DurationSeconds,
			Views:           video.Views,
			CreatedAt:       video.CreatedAt,
			Owner:           s.ownerSummaryLocked(video.OwnerID),
		})
	}
	return detail, nil
}

// RecordWatch moves the video to the front of the user's watch history.
func (s *MemoryStore) RecordWatch(_ context.Context, userID, videoID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.history[userID]
	kept := make([]string, 0, len(entries)+1)
	kept = append(kept, videoID)
	for _, existing := range entries {
		if existing != videoID {
			kept = append(kept, existing)
		}
	}
	s.history[userID] = kept
	return nil
}

// ListWatchHistory returns the user's watch history, most recent first. Videos that no
// longer exist are dropped; a missing owner yields a nil owner projection.
func (s *MemoryStore) ListWatchHistory(_ context.Context, userID string) ([]models.WatchEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := make([]models.WatchEntry, 0, len(s.history[userID]))
	for _, videoID := range s.history[userID] {
		video, ok := s.videos[videoID]
		if !ok {
			continue
		}
		entry := models.WatchEntry{
			ID:              video.ID,
			Title:           video.Title,
			Thumbnail:       video.Thumbnail.URL,
			DurationSeconds: video.DurationSeconds,
			Views:           video.Views,
			CreatedAt:       video.CreatedAt,
		}
		if owner, ok := s.users[video.OwnerID]; ok {
			entry.Owner = &models.OwnerSummary{ID: owner.ID, Username: owner.Username, Avatar: owner.Avatar.URL}
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (s *MemoryStore) listMembersLocked(page content.PageRequest, pick func(models.Subscription) (string, bool)) []models.ChannelMember {
	var matched []models.Subscription
	userIDs := make(map[string]string)
	for _, sub := range s.subscriptions {
		userID, ok := pick(sub)
		if !ok {
			continue
		}
		matched = append(matched, sub)
		userIDs[sub.ID] = userID
	}

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID < matched[j].ID
	})

	matched = pageSlice(matched, page)
	members := make([]models.ChannelMember, 0, len(matched))
	for _, sub := range matched {
		member := models.ChannelMember{UserID: userIDs[sub.ID], SubscribedAt: sub.CreatedAt}
		if user, ok := s.users[member.UserID]; ok {
			member.Username = user.Username
			member.DisplayName = user.DisplayName
			member.Avatar = user.Avatar.URL
		}
		members = append(members, member)
	}
	return members
}

func (s *MemoryStore) ownerSummaryLocked(ownerID string) models.OwnerSummary {
	owner, ok := s.users[ownerID]
	if !ok {
		return models.OwnerSummary{ID: ownerID}
	}
	return models.OwnerSummary{ID: owner.ID, Username: owner.Username, Avatar: owner.Avatar.URL}
}

func sortVideos(videos []models.Video, page content.PageRequest) {
	asc := page.SortDir == content.SortAsc
	sort.Slice(videos, func(i, j int) bool {
		a, b := videos[i], videos[j]
		var less, equal bool
		switch page.SortBy {
		case content.SortFieldViews:
			less, equal = a.Views < b.Views, a.Views == b.Views
		case content.SortFieldDuration:
			less, equal = a.DurationSeconds < b.DurationSeconds, a.DurationSeconds == b.DurationSeconds
		default:
			less, equal = a.CreatedAt.Before(b.CreatedAt), a.CreatedAt.Equal(b.CreatedAt)
		}
		if equal {
			return a.ID < b.ID
		}
		if asc {
			return less
		}
		return !less
	})
}

func pageSlice[T any](rows []T, page content.PageRequest) []T {
	offset := page.Offset()
	if offset >= len(rows) {
		return nil
	}
	rows = rows[offset:]
	if page.Limit > 0 && len(rows) > page.Limit {
		rows = rows[:page.Limit]
	}
	return rows
}

var (
	_ content.UserStore       = (*MemoryStore)(nil)
	_ content.VideoStore      = (*MemoryStore)(nil)
	_ content.TweetStore      = (*MemoryStore)(nil)
	_ content.EngagementStore = (*MemoryStore)(nil)
	_ content.PlaylistStore   = (*MemoryStore)(nil)
	_ content.HistoryStore    = (*MemoryStore)(nil)
)
