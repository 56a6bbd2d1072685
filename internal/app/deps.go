package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/vanshsoni916/VideoTweetApp/internal/auth"
	"github.com/vanshsoni916/VideoTweetApp/internal/config"
	"github.com/vanshsoni916/VideoTweetApp/internal/content"
	"github.com/vanshsoni916/VideoTweetApp/internal/db"
	"github.com/vanshsoni916/VideoTweetApp/internal/handlers"
	"github.com/vanshsoni916/VideoTweetApp/internal/media"
	"github.com/vanshsoni916/VideoTweetApp/internal/middleware"
	"github.com/vanshsoni916/VideoTweetApp/internal/repositories"
)

// buildDependencies wires together concrete implementations used by the HTTP handlers.
func buildDependencies(ctx context.Context, pool db.Pool, cfg config.Config) (handlers.Dependencies, error) {
	prober := media.NewFFProbe(cfg.FFProbePath, cfg.FFProbeTimeout)
	mediaStore, err := media.NewS3MediaStore(ctx, cfg.ObjectStore, prober)
	if err != nil {
		return handlers.Dependencies{}, fmt.Errorf("configure media store: %w", err)
	}

	users := repositories.NewPostgresUserRepository(pool)
	videos := repositories.NewPostgresVideoRepository(pool)
	tweets := repositories.NewPostgresTweetRepository(pool)
	engagement := repositories.NewPostgresEngagementRepository(pool)
	playlists := repositories.NewPostgresPlaylistRepository(pool)
	history := repositories.NewPostgresHistoryRepository(pool)
	sessionStore := repositories.NewPostgresSessionStore(pool)

	return handlers.Dependencies{
		Users:       users,
		Sessions:    auth.NewManager(cfg.AccessTokenTTL, cfg.RefreshTokenTTL, sessionStore),
		Media:       mediaStore,
		Videos:      content.NewVideoService(videos, history, mediaStore),
		Tweets:      content.NewTweetService(tweets),
		Engagement:  content.NewEngagementService(engagement),
		Playlists:   content.NewPlaylistService(playlists, videos),
		Channels:    content.NewChannelService(users, engagement, history),
		TempDir:     cfg.UploadTempDir,
		AuthLimiter: middleware.NewIPRateLimiter(cfg.AuthRateLimit, time.Minute, cfg.AuthRateBurst, 10*time.Minute),
	}, nil
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
