package handlers

import (
	"context"

	"github.com/vanshsoni916/VideoTweetApp/internal/content"
	"github.com/vanshsoni916/VideoTweetApp/internal/models"
)

// UserStore captures the persistence operations required by the account
// handlers.
type UserStore interface {
	CreateUser(ctx context.Context, user models.User) error
	FindUserByID(ctx context.Context, id string) (models.User, error)
	FindUserByUsername(ctx context.Context, username string) (models.User, error)
	FindUserByEmail(ctx context.Context, email string) (models.User, error)
	UpdateUser(ctx context.Context, user models.User) error
}

// SessionManager issues, resolves, and revokes authentication tokens.
type SessionManager interface {
	Issue(ctx context.Context, userID string) (models.SessionTokens, error)
	Authenticate(ctx context.Context, accessToken string) (string, error)
	Refresh(ctx context.Context, refreshToken string) (models.SessionTokens, error)
	Revoke(ctx context.Context, token string)
	RevokeAll(ctx context.Context, userID string) error
}

// MediaStore uploads staged files and releases remote assets.
type MediaStore interface {
	Upload(ctx context.Context, localPath, category string) (models.MediaAsset, error)
	Release(ctx context.Context, publicID, kind string) error
}

// VideoManager drives the video lifecycle and views.
type VideoManager interface {
	Publish(ctx context.Context, ownerID, title, description string, videoAsset, thumbnail models.MediaAsset) (models.Video, error)
	Feed(ctx context.Context, filter content.VideoFilter, page content.PageRequest) ([]models.VideoWithOwner, error)
	Detail(ctx context.Context, videoID, viewerID string) (models.VideoDetail, error)
	Update(ctx context.Context, videoID, actorID string, fields content.VideoUpdate, newThumbnail *models.MediaAsset) (models.Video, error)
	Delete(ctx context.Context, videoID, actorID string) error
	TogglePublish(ctx context.Context, videoID, actorID string) (bool, error)
}

// TweetManager drives the tweet lifecycle.
type TweetManager interface {
	Create(ctx context.Context, ownerID, body string) (models.Tweet, error)
	Update(ctx context.Context, tweetID, actorID, body string) (models.Tweet, error)
	Delete(ctx context.Context, tweetID, actorID string) error
	UserTweets(ctx context.Context, userID string, page content.PageRequest) ([]models.TweetWithOwner, error)
}

// EngagementManager drives the like and subscription toggles and their views.
type EngagementManager interface {
	ToggleLike(ctx context.Context, actorID, targetType, targetID string) (bool, error)
	LikedVideos(ctx context.Context, actorID string, page content.PageRequest) ([]models.LikedVideo, error)
	ToggleSubscription(ctx context.Context, actorID, channelID string) (bool, error)
	Subscribers(ctx context.Context, channelID string, page content.PageRequest) ([]models.ChannelMember, error)
	SubscribedChannels(ctx context.Context, subscriberID string, page content.PageRequest) ([]models.ChannelMember, error)
}

// PlaylistManager drives playlists and their membership.
type PlaylistManager interface {
	Create(ctx context.Context, ownerID, name, description string) (models.Playlist, error)
	ListForUser(ctx context.Context, userID string) ([]models.PlaylistSummary, error)
	Detail(ctx context.Context, playlistID string) (models.PlaylistDetail, error)
	AddVideo(ctx context.Context, playlistID, videoID, actorID string) (models.Playlist, error)
	RemoveVideo(ctx context.Context, playlistID, videoID, actorID string) (models.Playlist, error)
	Update(ctx context.Context, playlistID string, fields content.PlaylistUpdate, actorID string) (models.Playlist, error)
	Delete(ctx context.Context, playlistID, actorID string) error
}

// ChannelManager builds the channel profile and watch-history views.
type ChannelManager interface {
	Profile(ctx context.Context, username, viewerID string) (models.ChannelProfile, error)
	WatchHistory(ctx context.Context, userID string) ([]models.WatchEntry, error)
}
