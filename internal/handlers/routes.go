package handlers

import "net/http"

// Dependencies aggregates collaborators required by HTTP handlers.
type Dependencies struct {
	Users       UserStore
	Sessions    SessionManager
	Media       MediaStore
	Videos      VideoManager
	Tweets      TweetManager
	Engagement  EngagementManager
	Playlists   PlaylistManager
	Channels    ChannelManager
	TempDir     string
	AuthLimiter RateLimiter
}

// RegisterRoutes wires HTTP handlers into the provided ServeMux.
func RegisterRoutes(mux *http.ServeMux, deps Dependencies) {
	health := HealthHandler{}
	auth := AuthHandler{Users: deps.Users, Sessions: deps.Sessions, Media: deps.Media, TempDir: deps.TempDir, Limiter: deps.AuthLimiter}
	users := UserHandler{Users: deps.Users, Sessions: deps.Sessions, Channels: deps.Channels, Media: deps.Media, TempDir: deps.TempDir}
	videos := VideoHandler{Videos: deps.Videos, Sessions: deps.Sessions, Media: deps.Media, TempDir: deps.TempDir}
	tweets := TweetHandler{Tweets: deps.Tweets, Sessions: deps.Sessions}
	likes := LikeHandler{Engagement: deps.Engagement, Sessions: deps.Sessions}
	subscriptions := SubscriptionHandler{Engagement: deps.Engagement, Sessions: deps.Sessions}
	playlists := PlaylistHandler{Playlists: deps.Playlists, Sessions: deps.Sessions}

	mux.HandleFunc("GET /healthz", health.Handle)

	mux.HandleFunc("POST /api/v1/auth/register", auth.Register)
	mux.HandleFunc("POST /api/v1/auth/login", auth.Login)
	mux.HandleFunc("POST /api/v1/auth/logout", auth.Logout)
	mux.HandleFunc("POST /api/v1/auth/refresh", auth.Refresh)
	mux.HandleFunc("POST /api/v1/auth/change-password", auth.ChangePassword)

	mux.HandleFunc("GET /api/v1/users/me", users.Me)
	mux.HandleFunc("PATCH /api/v1/users/me", users.UpdateAccount)
	mux.HandleFunc("PATCH /api/v1/users/me/avatar", users.UpdateAvatar)
	mux.HandleFunc("PATCH /api/v1/users/me/cover", users.UpdateCover)
	mux.HandleFunc("GET /api/v1/users/me/history", users.WatchHistory)
	mux.HandleFunc("GET /api/v1/users/channel/{username}", users.Channel)

	mux.HandleFunc("GET /api/v1/videos", videos.Feed)
	mux.HandleFunc("POST /api/v1/videos", videos.Publish)
	mux.HandleFunc("GET /api/v1/videos/{videoId}", videos.Detail)
	mux.HandleFunc("PATCH /api/v1/videos/{videoId}", videos.Update)
	mux.HandleFunc("DELETE /api/v1/videos/{videoId}", videos.Delete)
	mux.HandleFunc("POST /api/v1/videos/{videoId}/toggle-publish", videos.TogglePublish)

	mux.HandleFunc("POST /api/v1/tweets", tweets.Create)
	mux.HandleFunc("GET /api/v1/tweets/user/{userId}", tweets.ForUser)
	mux.HandleFunc("PATCH /api/v1/tweets/{tweetId}", tweets.Update)
	mux.HandleFunc("DELETE /api/v1/tweets/{tweetId}", tweets.Delete)

	mux.HandleFunc("POST /api/v1/likes/toggle/video/{videoId}", likes.ToggleVideo)
	mux.HandleFunc("POST /api/v1/likes/toggle/tweet/{tweetId}", likes.ToggleTweet)
	mux.HandleFunc("POST /api/v1/likes/toggle/comment/{commentId}", likes.ToggleComment)
	mux.HandleFunc("GET /api/v1/likes/videos", likes.Videos)

	mux.HandleFunc("POST /api/v1/subscriptions/toggle/{channelId}", subscriptions.Toggle)
	mux.HandleFunc("GET /api/v1/subscriptions/subscribers/{channelId}", subscriptions.Subscribers)
	mux.HandleFunc("GET /api/v1/subscriptions/channels/{subscriberId}", subscriptions.Channels)

	mux.HandleFunc("POST /api/v1/playlists", playlists.Create)
	mux.HandleFunc("GET /api/v1/playlists/user/{userId}", playlists.ForUser)
	mux.HandleFunc("GET /api/v1/playlists/{playlistId}", playlists.Detail)
	mux.HandleFunc("PATCH /api/v1/playlists/{playlistId}", playlists.Update)
	mux.HandleFunc("DELETE /api/v1/playlists/{playlistId}", playlists.Delete)
	mux.HandleFunc("POST /api/v1/playlists/{playlistId}/videos/{videoId}", playlists.AddVideo)
	mux.HandleFunc("DELETE /api/v1/playlists/{playlistId}/videos/{videoId}", playlists.RemoveVideo)
}
