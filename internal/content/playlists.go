package content

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vanshsoni916/VideoTweetApp/internal/models"
)

// PlaylistUpdate carries the optional fields of a playlist update.
type PlaylistUpdate struct {
	Name        *string
	Description *string
}

// PlaylistService maintains playlists and their ordered, duplicate-free
// video membership.
type PlaylistService struct {
	playlists PlaylistStore
	videos    VideoStore

	now   func() time.Time
	newID func() string
}

// NewPlaylistService constructs a playlist manager.
func NewPlaylistService(playlists PlaylistStore, videos VideoStore) *PlaylistService {
	return &PlaylistService{
		playlists: playlists,
		videos:    videos,
		now:       func() time.Time { return time.Now().UTC() },
		newID:     uuid.NewString,
	}
}

// Create makes an empty playlist for the owner.
func (s *PlaylistService) Create(ctx context.Context, ownerID, name, description string) (models.Playlist, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Playlist{}, fmt.Errorf("%w: playlist name is required", ErrValidation)
	}

	playlist := models.Playlist{
		ID:          s.newID(),
		OwnerID:     ownerID,
		Name:        name,
		Description: description,
		CreatedAt:   s.now(),
	}
	if err := s.playlists.CreatePlaylist(ctx, playlist); err != nil {
		return models.Playlist{}, fmt.Errorf("create playlist: %w", err)
	}

	return playlist, nil
}

// ListForUser returns a user's playlist summaries. Empty is not an error.
func (s *PlaylistService) ListForUser(ctx context.Context, userID string) ([]models.PlaylistSummary, error) {
	if err := validateReference(userID); err != nil {
		return nil, err
	}
	summaries, err := s.playlists.ListPlaylistsByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list playlists: %w", err)
	}
	return summaries, nil
}

// Detail joins the playlist to its resolvable member videos and owner
// projections. Member ids that no longer resolve to a video are silently
// dropped; only a missing playlist is a not-found failure.
func (s *PlaylistService) Detail(ctx context.Context, playlistID string) (models.PlaylistDetail, error) {
	if err := validateReference(playlistID); err != nil {
		return models.PlaylistDetail{}, err
	}
	detail, err := s.playlists.FindPlaylistDetail(ctx, playlistID)
	if err != nil {
		return models.PlaylistDetail{}, err
	}
	return detail, nil
}

// AddVideo set-inserts a video reference. Adding a video that is already a
// member is a successful no-op.
func (s *PlaylistService) AddVideo(ctx context.Context, playlistID, videoID, actorID string) (models.Playlist, error) {
	if err := validateReference(playlistID); err != nil {
		return models.Playlist{}, err
	}
	if err := validateReference(videoID); err != nil {
		return models.Playlist{}, err
	}

	if _, err := s.videos.FindVideoByID(ctx, videoID); err != nil {
		return models.Playlist{}, err
	}
	playlist, err := s.playlists.FindPlaylistByID(ctx, playlistID)
	if err != nil {
		return models.Playlist{}, err
	}
	if err := requireOwner(actorID, playlist.OwnerID); err != nil {
		return models.Playlist{}, err
	}

	if err := s.playlists.AddVideo(ctx, playlistID, videoID); err != nil {
		return models.Playlist{}, fmt.Errorf("add playlist video: %w", err)
	}

	return s.playlists.FindPlaylistByID(ctx, playlistID)
}

// RemoveVideo removes all occurrences of the video reference. Removing a
// reference that is not a member is a successful no-op.
func (s *PlaylistService) RemoveVideo(ctx context.Context, playlistID, videoID, actorID string) (models.Playlist, error) {
	if err := validateReference(playlistID); err != nil {
		return models.Playlist{}, err
	}
	if err := validateReference(videoID); err != nil {
		return models.Playlist{}, err
	}

	playlist, err := s.playlists.FindPlaylistByID(ctx, playlistID)
	if err != nil {
		return models.Playlist{}, err
	}
	if err := requireOwner(actorID, playlist.OwnerID); err != nil {
		return models.Playlist{}, err
	}

	if err := s.playlists.RemoveVideo(ctx, playlistID, videoID); err != nil {
		return models.Playlist{}, fmt.Errorf("remove playlist video: %w", err)
	}

	return s.playlists.FindPlaylistByID(ctx, playlistID)
}

// Update applies an owner-guarded partial merge of name and description.
func (s *PlaylistService) Update(ctx context.Context, playlistID string, fields PlaylistUpdate, actorID string) (models.Playlist, error) {
	if err := validateReference(playlistID); err != nil {
		return models.Playlist{}, err
	}
	if fields.Name == nil && fields.Description == nil {
		return models.Playlist{}, fmt.Errorf("%w: nothing to update", ErrValidation)
	}

	playlist, err := s.playlists.FindPlaylistByID(ctx, playlistID)
	if err != nil {
		return models.Playlist{}, err
	}
	if err := requireOwner(actorID, playlist.OwnerID); err != nil {
		return models.Playlist{}, err
	}

	if fields.Name != nil {
		name := strings.TrimSpace(*fields.Name)
		if name == "" {
			return models.Playlist{}, fmt.Errorf("%w: playlist name cannot be empty", ErrValidation)
		}
		playlist.Name = name
	}
	if fields.Description != nil {
		playlist.Description = *fields.Description
	}

	if err := s.playlists.UpdatePlaylist(ctx, playlist); err != nil {
		return models.Playlist{}, fmt.Errorf("update playlist: %w", err)
	}

	return playlist, nil
}

// Delete removes the playlist after the owner guard passes.
func (s *PlaylistService) Delete(ctx context.Context, playlistID, actorID string) error {
	if err := validateReference(playlistID); err != nil {
		return err
	}

	playlist, err := s.playlists.FindPlaylistByID(ctx, playlistID)
	if err != nil {
		return err
	}
	if err := requireOwner(actorID, playlist.OwnerID); err != nil {
		return err
	}

	if err := s.playlists.DeletePlaylist(ctx, playlistID); err != nil {
		return fmt.Errorf("delete playlist: %w", err)
	}
	return nil
}
