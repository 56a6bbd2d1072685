package content

import (
	"context"

	"github.com/vanshsoni916/VideoTweetApp/internal/models"
)

// UserStore captures the user lookups required by the view builders.
type UserStore interface {
	FindUserByID(ctx context.Context, id string) (models.User, error)
	FindUserByUsername(ctx context.Context, username string) (models.User, error)
}

// VideoFilter narrows the published-video feed.
type VideoFilter struct {
	// Query is matched case-insensitively against video titles.
	Query string
	// OwnerID restricts the feed to a single channel when set.
	OwnerID string
}

// VideoStore captures persistence for videos, including the typed view
// queries that join each video to its owner projection.
type VideoStore interface {
	CreateVideo(ctx context.Context, video models.Video) error
	FindVideoByID(ctx context.Context, id string) (models.Video, error)
	UpdateVideo(ctx context.Context, video models.Video) error
	DeleteVideo(ctx context.Context, id string) error
	IncrementViews(ctx context.Context, id string) error
	ListPublished(ctx context.Context, filter VideoFilter, page PageRequest) ([]models.VideoWithOwner, error)
	FindPublishedDetail(ctx context.Context, id string) (models.VideoDetail, error)
}

// EngagementStore persists like and subscription edges and answers the
// joined engagement views. Composite uniqueness is enforced by the store;
// the toggle engine additionally reads before writing.
type EngagementStore interface {
	FindLike(ctx context.Context, actorID, targetType, targetID string) (models.Like, error)
	CreateLike(ctx context.Context, like models.Like) error
	DeleteLike(ctx context.Context, id string) error
	CountLikes(ctx context.Context, targetType, targetID string) (int64, error)
	ListLikedVideos(ctx context.Context, actorID string, page PageRequest) ([]models.LikedVideo, error)

	FindSubscription(ctx context.Context, subscriberID, channelID string) (models.Subscription, error)
	CreateSubscription(ctx context.Context, sub models.Subscription) error
	DeleteSubscription(ctx context.Context, id string) error
	CountSubscribers(ctx context.Context, channelID string) (int64, error)
	CountSubscribedTo(ctx context.Context, subscriberID string) (int64, error)
	ListSubscribers(ctx context.Context, channelID string, page PageRequest) ([]models.ChannelMember, error)
	ListSubscribedChannels(ctx context.Context, subscriberID string, page PageRequest) ([]models.ChannelMember, error)
}

// TweetStore captures persistence for tweets.
type TweetStore interface {
	CreateTweet(ctx context.Context, tweet models.Tweet) error
	FindTweetByID(ctx context.Context, id string) (models.Tweet, error)
	UpdateTweet(ctx context.Context, tweet models.Tweet) error
	DeleteTweet(ctx context.Context, id string) error
	ListTweetsByOwner(ctx context.Context, ownerID string, page PageRequest) ([]models.TweetWithOwner, error)
}

// PlaylistStore captures persistence for playlists and their membership.
type PlaylistStore interface {
	CreatePlaylist(ctx context.Context, playlist models.Playlist) error
	FindPlaylistByID(ctx context.Context, id string) (models.Playlist, error)
	UpdatePlaylist(ctx context.Context, playlist models.Playlist) error
	DeletePlaylist(ctx context.Context, id string) error
	ListPlaylistsByOwner(ctx context.Context, ownerID string) ([]models.PlaylistSummary, error)
	// AddVideo set-inserts the video reference, preserving insertion order.
	AddVideo(ctx context.Context, playlistID, videoID string) error
	// RemoveVideo removes every occurrence and succeeds when none exist.
	RemoveVideo(ctx context.Context, playlistID, videoID string) error
	FindPlaylistDetail(ctx context.Context, id string) (models.PlaylistDetail, error)
}

// HistoryStore maintains each user's watch-history list.
type HistoryStore interface {
	// Record moves the video to the front of the user's history, keeping
	// the list duplicate-free.
	RecordWatch(ctx context.Context, userID, videoID string) error
	ListWatchHistory(ctx context.Context, userID string) ([]models.WatchEntry, error)
}

// MediaStore is the remote binary-asset collaborator. Upload must remove
// the staged local file before returning, on success and on failure.
type MediaStore interface {
	Upload(ctx context.Context, localPath, category string) (models.MediaAsset, error)
	Release(ctx context.Context, publicID, kind string) error
}
