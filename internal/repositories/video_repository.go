package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/vanshsoni916/VideoTweetApp/internal/content"
	"github.com/vanshsoni916/VideoTweetApp/internal/db"
	"github.com/vanshsoni916/VideoTweetApp/internal/models"
)

// PostgresVideoRepository provides PostgreSQL-backed persistence for videos,
// including the owner-joined feed and detail views.
type PostgresVideoRepository struct {
	pool db.Pool
}

// NewPostgresVideoRepository constructs a video repository backed by PostgreSQL.
func NewPostgresVideoRepository(pool db.Pool) *PostgresVideoRepository {
	return &PostgresVideoRepository{pool: pool}
}

// CreateVideo stores a new video record.
func (r *PostgresVideoRepository) CreateVideo(ctx context.Context, video models.Video) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `
        INSERT INTO videos (id, owner_id, title, description, video_url, video_public_id,
                            thumbnail_url, thumbnail_public_id, duration_seconds, views,
                            is_published, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
    `, video.ID, video.OwnerID, video.Title, video.Description,
		video.VideoFile.URL, video.VideoFile.PublicID,
		video.Thumbnail.URL, video.Thumbnail.PublicID,
		video.DurationSeconds, video.Views, video.IsPublished, video.CreatedAt)
	if err != nil {
		return mapWriteError("insert video", err)
	}

	return nil
}

// FindVideoByID fetches a video regardless of publish state. Mutations use
// this so ownership is checked against the real record.
func (r *PostgresVideoRepository) FindVideoByID(ctx context.Context, id string) (models.Video, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.Video{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        SELECT id, owner_id, title, description, video_url, video_public_id,
               thumbnail_url, thumbnail_public_id, duration_seconds, views,
               is_published, created_at
        FROM videos
        WHERE id = $1
    `, id)

	var video models.Video
	err = row.Scan(&video.ID, &video.OwnerID, &video.Title, &video.Description,
		&video.VideoFile.URL, &video.VideoFile.PublicID,
		&video.Thumbnail.URL, &video.Thumbnail.PublicID,
		&video.DurationSeconds, &video.Views, &video.IsPublished, &video.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Video{}, ErrNotFound
		}
		return models.Video{}, fmt.Errorf("select video: %w", err)
	}

	return video, nil
}

// UpdateVideo replaces the mutable fields of a video record.
func (r *PostgresVideoRepository) UpdateVideo(ctx context.Context, video models.Video) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `
        UPDATE videos
        SET title = $2, description = $3, thumbnail_url = $4, thumbnail_public_id = $5,
            is_published = $6
        WHERE id = $1
    `, video.ID, video.Title, video.Description,
		video.Thumbnail.URL, video.Thumbnail.PublicID, video.IsPublished)
	if err != nil {
		return mapWriteError("update video", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// DeleteVideo hard-deletes a video record.
func (r *PostgresVideoRepository) DeleteVideo(ctx context.Context, id string) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `DELETE FROM videos WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete video: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// IncrementViews bumps the monotonically increasing view counter.
func (r *PostgresVideoRepository) IncrementViews(ctx context.Context, id string) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `UPDATE videos SET views = views + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("increment views: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// ListPublished returns the published feed joined to owner projections,
// filtered, sorted, and paginated. Ties on the sort key break by id so
// OFFSET pagination never repeats or skips rows.
func (r *PostgresVideoRepository) ListPublished(ctx context.Context, filter content.VideoFilter, page content.PageRequest) ([]models.VideoWithOwner, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	query := `
        SELECT v.id, v.title, v.description, v.thumbnail_url, v.duration_seconds,
               v.views, v.created_at, u.id, u.username, u.avatar_url
        FROM videos v
        INNER JOIN users u ON u.id = v.owner_id
        WHERE v.is_published`
	args := []any{}

	if filter.Query != "" {
		args = append(args, "%"+likeEscape(filter.Query)+"%")
		query += fmt.Sprintf(` AND v.title ILIKE $%d ESCAPE '\'`, len(args))
	}
	if filter.OwnerID != "" {
		args = append(args, filter.OwnerID)
		query += fmt.Sprintf(" AND v.owner_id = $%d", len(args))
	}

	query += fmt.Sprintf(" ORDER BY %s %s, v.id ASC", sortColumn(page.SortBy), sortDirection(page.SortDir))

	args = append(args, page.Limit, page.Offset())
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query video feed: %w", err)
	}
	defer rows.Close()

	var feed []models.VideoWithOwner
	for rows.Next() {
		var (
			v             models.VideoWithOwner
			ownerID       string
			ownerUsername string
			ownerAvatar   string
		)
		if err := rows.Scan(&v.ID, &v.Title, &v.Description, &v.Thumbnail, &v.DurationSeconds,
			&v.Views, &v.CreatedAt, &ownerID, &ownerUsername, &ownerAvatar); err != nil {
			return nil, fmt.Errorf("scan video feed row: %w", err)
		}
		v.Owner = ownerSummary(ownerID, ownerUsername, ownerAvatar)
		feed = append(feed, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate video feed: %w", err)
	}

	return feed, nil
}

// FindPublishedDetail fetches a published video with its full owner
// projection. Unpublished videos are indistinguishable from missing ones.
func (r *PostgresVideoRepository) FindPublishedDetail(ctx context.Context, id string) (models.VideoDetail, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.VideoDetail{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        SELECT v.id, v.title, v.description, v.video_url, v.video_public_id,
               v.thumbnail_url, v.duration_seconds, v.views, v.created_at,
               u.id, u.username, u.avatar_url
        FROM videos v
        INNER JOIN users u ON u.id = v.owner_id
        WHERE v.id = $1 AND v.is_published
    `, id)

	var (
		detail        models.VideoDetail
		ownerID       string
		ownerUsername string
		ownerAvatar   string
	)
	err = row.Scan(&detail.ID, &detail.Title, &detail.Description,
		&detail.VideoFile.URL, &detail.VideoFile.PublicID, &detail.Thumbnail,
		&detail.DurationSeconds, &detail.Views, &detail.CreatedAt,
		&ownerID, &ownerUsername, &ownerAvatar)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.VideoDetail{}, ErrNotFound
		}
		return models.VideoDetail{}, fmt.Errorf("select video detail: %w", err)
	}

	detail.Owner = ownerSummary(ownerID, ownerUsername, ownerAvatar)
	return detail, nil
}

var _ content.VideoStore = (*PostgresVideoRepository)(nil)
