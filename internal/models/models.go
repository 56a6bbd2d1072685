package models

import "time"

// MediaAsset references an uploaded binary object in the remote media store.
type MediaAsset struct {
	URL             string `json:"url"`
	PublicID        string `json:"publicId"`
	DurationSeconds int64  `json:"durationSeconds,omitempty"`
}

// IsZero reports whether the asset references nothing.
func (a MediaAsset) IsZero() bool {
	return a.URL == "" && a.PublicID == ""
}

// User represents an account within the VideoTweet platform.
type User struct {
	ID          string      `json:"id"`
	Username    string      `json:"username"`
	Email       string      `json:"email"`
	DisplayName string      `json:"displayName"`
	Avatar      MediaAsset  `json:"avatar"`
	CoverImage  *MediaAsset `json:"coverImage,omitempty"`
	Password    string      `json:"-"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// Video is an uploaded video together with its cached asset references.
type Video struct {
	ID              string     `json:"id"`
	OwnerID         string     `json:"ownerId"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	VideoFile       MediaAsset `json:"videoFile"`
	Thumbnail       MediaAsset `json:"thumbnail"`
	DurationSeconds int64      `json:"durationSeconds"`
	Views           int64      `json:"views"`
	IsPublished     bool       `json:"isPublished"`
	CreatedAt       time.Time  `json:"createdAt"`
}

// Tweet is a short text post owned by a user.
type Tweet struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"ownerId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// Comment participates in the model only as a like target; its CRUD lives
// outside this service.
type Comment struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"ownerId"`
	TargetID  string    `json:"targetId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// Like target kinds.
const (
	LikeTargetVideo   = "video"
	LikeTargetTweet   = "tweet"
	LikeTargetComment = "comment"
)

// Like is a relation edge whose presence is the liked state. At most one
// row exists per (actor, target kind, target).
type Like struct {
	ID         string    `json:"id"`
	ActorID    string    `json:"actorId"`
	TargetType string    `json:"targetType"`
	TargetID   string    `json:"targetId"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Subscription links a subscriber to a channel. At most one row exists per
// pair, and a user never subscribes to themselves.
type Subscription struct {
	ID           string    `json:"id"`
	SubscriberID string    `json:"subscriberId"`
	ChannelID    string    `json:"channelId"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Playlist holds an ordered, duplicate-free list of video references.
type Playlist struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"ownerId"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	VideoIDs    []string  `json:"videoIds"`
	CreatedAt   time.Time `json:"createdAt"`
}

// SessionTokens groups the bearer credentials issued to authenticated users.
type SessionTokens struct {
	AccessToken      string    `json:"accessToken"`
	AccessExpiresAt  time.Time `json:"accessExpiresAt"`
	RefreshToken     string    `json:"refreshToken"`
	RefreshExpiresAt time.Time `json:"refreshExpiresAt"`
}
