package content

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vanshsoni916/VideoTweetApp/internal/logging"
	"github.com/vanshsoni916/VideoTweetApp/internal/models"
)

// VideoUpdate carries the optional fields of a video update. Nil means
// "leave unchanged".
type VideoUpdate struct {
	Title       *string
	Description *string
}

// VideoService manages video lifecycle and the video views.
type VideoService struct {
	videos  VideoStore
	history HistoryStore
	media   MediaStore

	now   func() time.Time
	newID func() string
}

// NewVideoService constructs a video manager over the provided collaborators.
func NewVideoService(videos VideoStore, history HistoryStore, media MediaStore) *VideoService {
	return &VideoService{
		videos:  videos,
		history: history,
		media:   media,
		now:     func() time.Time { return time.Now().UTC() },
		newID:   uuid.NewString,
	}
}

// Publish creates a published video from already-uploaded assets.
func (s *VideoService) Publish(ctx context.Context, ownerID, title, description string, videoAsset, thumbnail models.MediaAsset) (models.Video, error) {
	title = strings.TrimSpace(title)
	if title == "" || strings.TrimSpace(description) == "" {
		return models.Video{}, fmt.Errorf("%w: title and description are required", ErrValidation)
	}
	if videoAsset.IsZero() || thumbnail.IsZero() {
		return models.Video{}, fmt.Errorf("%w: video file and thumbnail are required", ErrValidation)
	}

	video := models.Video{
		ID:              s.newID(),
		OwnerID:         ownerID,
		Title:           title,
		Description:     description,
		VideoFile:       videoAsset,
		Thumbnail:       thumbnail,
		DurationSeconds: videoAsset.DurationSeconds,
		Views:           0,
		IsPublished:     true,
		CreatedAt:       s.now(),
	}
	if err := s.videos.CreateVideo(ctx, video); err != nil {
		return models.Video{}, fmt.Errorf("create video: %w", err)
	}

	return video, nil
}

// Feed lists published videos joined to their owners. The filter may narrow
// by title substring or owner; an empty result is a valid outcome.
func (s *VideoService) Feed(ctx context.Context, filter VideoFilter, page PageRequest) ([]models.VideoWithOwner, error) {
	page = page.Normalize(SortFieldCreatedAt, SortFieldViews, SortFieldDuration)
	rows, err := s.videos.ListPublished(ctx, filter, page)
	if err != nil {
		return nil, fmt.Errorf("list published videos: %w", err)
	}
	return rows, nil
}

// Detail fetches a published video joined to its full owner projection. A
// successful fetch counts one view regardless of who is watching, and moves
// the video to the front of an authenticated viewer's watch history. Both
// side effects are best-effort; the read does not fail with them.
func (s *VideoService) Detail(ctx context.Context, videoID, viewerID string) (models.VideoDetail, error) {
	if err := validateReference(videoID); err != nil {
		return models.VideoDetail{}, err
	}

	ctx, span := logging.StartSpan(ctx, "video.detail")
	defer span.End()

	detail, err := s.videos.FindPublishedDetail(ctx, videoID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return models.VideoDetail{}, ErrNotFound
		}
		return models.VideoDetail{}, fmt.Errorf("find video detail: %w", err)
	}

	logger := logging.FromContext(ctx)
	if err := s.videos.IncrementViews(ctx, videoID); err != nil {
		logger.Warn("increment view count", "videoId", videoID, "error", err)
	}
	if viewerID != "" {
		if err := s.history.RecordWatch(ctx, viewerID, videoID); err != nil {
			logger.Warn("record watch history", "videoId", videoID, "viewerId", viewerID, "error", err)
		}
	}

	return detail, nil
}

// Update applies an owner-guarded partial merge. When a new thumbnail is
// supplied the old asset is released only after the record durably
// references the new one.
func (s *VideoService) Update(ctx context.Context, videoID, actorID string, fields VideoUpdate, newThumbnail *models.MediaAsset) (models.Video, error) {
	if err := validateReference(videoID); err != nil {
		return models.Video{}, err
	}

	video, err := s.videos.FindVideoByID(ctx, videoID)
	if err != nil {
		return models.Video{}, err
	}
	if err := requireOwner(actorID, video.OwnerID); err != nil {
		return models.Video{}, err
	}

	changed := false
	if fields.Title != nil {
		title := strings.TrimSpace(*fields.Title)
		if title == "" {
			return models.Video{}, fmt.Errorf("%w: title cannot be empty", ErrValidation)
		}
		video.Title = title
		changed = true
	}
	if fields.Description != nil {
		video.Description = *fields.Description
		changed = true
	}

	oldThumbnail := video.Thumbnail
	if newThumbnail != nil {
		if newThumbnail.IsZero() {
			return models.Video{}, fmt.Errorf("%w: replacement thumbnail is empty", ErrValidation)
		}
		video.Thumbnail = *newThumbnail
		changed = true
	}

	if !changed {
		return models.Video{}, fmt.Errorf("%w: nothing to update", ErrValidation)
	}

	if err := s.videos.UpdateVideo(ctx, video); err != nil {
		return models.Video{}, fmt.Errorf("update video: %w", err)
	}

	if newThumbnail != nil && oldThumbnail.PublicID != "" {
		if err := s.media.Release(ctx, oldThumbnail.PublicID, "image"); err != nil {
			logging.FromContext(ctx).Warn("release replaced thumbnail", "publicId", oldThumbnail.PublicID, "error", err)
		}
	}

	return video, nil
}

// Delete releases the video's remote assets and removes the record. A
// release failure is reported as a warning but does not keep the record
// alive; the orphaned asset is an accepted gap.
func (s *VideoService) Delete(ctx context.Context, videoID, actorID string) error {
	if err := validateReference(videoID); err != nil {
		return err
	}

	video, err := s.videos.FindVideoByID(ctx, videoID)
	if err != nil {
		return err
	}
	if err := requireOwner(actorID, video.OwnerID); err != nil {
		return err
	}

	logger := logging.FromContext(ctx)
	if video.VideoFile.PublicID != "" {
		if err := s.media.Release(ctx, video.VideoFile.PublicID, "video"); err != nil {
			logger.Warn("release video asset", "publicId", video.VideoFile.PublicID, "error", err)
		}
	}
	if video.Thumbnail.PublicID != "" {
		if err := s.media.Release(ctx, video.Thumbnail.PublicID, "image"); err != nil {
			logger.Warn("release thumbnail asset", "publicId", video.Thumbnail.PublicID, "error", err)
		}
	}

	if err := s.videos.DeleteVideo(ctx, videoID); err != nil {
		return fmt.Errorf("delete video: %w", err)
	}

	return nil
}

// TogglePublish flips the publish flag and returns the new state.
func (s *VideoService) TogglePublish(ctx context.Context, videoID, actorID string) (bool, error) {
	if err := validateReference(videoID); err != nil {
		return false, err
	}

	video, err := s.videos.FindVideoByID(ctx, videoID)
	if err != nil {
		return false, err
	}
	if err := requireOwner(actorID, video.OwnerID); err != nil {
		return false, err
	}

	video.IsPublished = !video.IsPublished
	if err := s.videos.UpdateVideo(ctx, video); err != nil {
		return false, fmt.Errorf("update publish state: %w", err)
	}

	return video.IsPublished, nil
}
