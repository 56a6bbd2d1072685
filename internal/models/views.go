package models

import "time"

// OwnerSummary is the public projection of a user embedded in joined views.
type OwnerSummary struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
}

// ChannelProfile is the denormalized public view of a user's channel.
type ChannelProfile struct {
	ID                string `json:"id"`
	Username          string `json:"username"`
	DisplayName       string `json:"displayName"`
	Email             string `json:"email"`
	Avatar            string `json:"avatar"`
	CoverImage        string `json:"coverImage,omitempty"`
	SubscribersCount  int64  `json:"subscribersCount"`
	SubscribedToCount int64  `json:"subscribedToCount"`
	IsSubscribed      bool   `json:"isSubscribed"`
}

// VideoWithOwner joins a video to its owner's public projection.
type VideoWithOwner struct {
	ID              string       `json:"id"`
	Title           string       `json:"title"`
	Description     string       `json:"description"`
	Thumbnail       string       `json:"thumbnail"`
	DurationSeconds int64        `json:"durationSeconds"`
	Views           int64        `json:"views"`
	CreatedAt       time.Time    `json:"createdAt"`
	Owner           OwnerSummary `json:"owner"`
}

// VideoDetail is the full single-video view, including the playable asset.
type VideoDetail struct {
	ID              string       `json:"id"`
	Title           string       `json:"title"`
	Description     string       `json:"description"`
	VideoFile       MediaAsset   `json:"videoFile"`
	Thumbnail       string       `json:"thumbnail"`
	DurationSeconds int64        `json:"durationSeconds"`
	Views           int64        `json:"views"`
	CreatedAt       time.Time    `json:"createdAt"`
	Owner           OwnerSummary `json:"owner"`
}

// LikedVideo is a feed row ordered by when the like itself was created.
type LikedVideo struct {
	Video   VideoWithOwner `json:"video"`
	LikedAt time.Time      `json:"likedAt"`
}

// WatchEntry is one watch-history row. Owner is nil when the owning account
// no longer exists; the row is still returned.
type WatchEntry struct {
	ID              string        `json:"id"`
	Title           string        `json:"title"`
	Thumbnail       string        `json:"thumbnail"`
	DurationSeconds int64         `json:"durationSeconds"`
	Views           int64         `json:"views"`
	CreatedAt       time.Time     `json:"createdAt"`
	Owner           *OwnerSummary `json:"owner"`
}

// TweetWithOwner joins a tweet to its owner's public projection.
type TweetWithOwner struct {
	ID        string       `json:"id"`
	Content   string       `json:"content"`
	CreatedAt time.Time    `json:"createdAt"`
	Owner     OwnerSummary `json:"owner"`
}

// ChannelMember is a subscriber-list or subscribed-channel row.
type ChannelMember struct {
	UserID       string    `json:"userId"`
	Username     string    `json:"username"`
	DisplayName  string    `json:"displayName"`
	Avatar       string    `json:"avatar"`
	SubscribedAt time.Time `json:"subscribedAt"`
}

// PlaylistSummary lists a playlist without materializing its videos.
type PlaylistSummary struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	TotalVideos int       `json:"totalVideos"`
	CreatedAt   time.Time `json:"createdAt"`
}

// PlaylistDetail joins a playlist to its resolvable member videos and the
// playlist's own owner projection.
type PlaylistDetail struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	CreatedAt   time.Time        `json:"createdAt"`
	Owner       OwnerSummary     `json:"owner"`
	Videos      []VideoWithOwner `json:"videos"`
}
