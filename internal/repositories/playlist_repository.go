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

// PostgresPlaylistRepository stores playlists and their ordered membership.
// Membership rows carry a monotonically assigned position so insertion order
// survives round trips, and the (playlist_id, video_id) primary key keeps
// the list duplicate-free.
type PostgresPlaylistRepository struct {
	pool db.Pool
}

// NewPostgresPlaylistRepository constructs a playlist repository backed by
// PostgreSQL.
func NewPostgresPlaylistRepository(pool db.Pool) *PostgresPlaylistRepository {
	return &PostgresPlaylistRepository{pool: pool}
}

// CreatePlaylist inserts an empty playlist.
func (r *PostgresPlaylistRepository) CreatePlaylist(ctx context.Context, playlist models.Playlist) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `
        INSERT INTO playlists (id, owner_id, name, description, created_at)
        VALUES ($1, $2, $3, $4, $5)
    `, playlist.ID, playlist.OwnerID, playlist.Name, playlist.Description, playlist.CreatedAt)
	if err != nil {
		return mapWriteError("insert playlist", err)
	}

	return nil
}

// FindPlaylistByID fetches a playlist row along with its ordered video ids.
func (r *PostgresPlaylistRepository) FindPlaylistByID(ctx context.Context, id string) (models.Playlist, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.Playlist{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        SELECT id, owner_id, name, description, created_at
        FROM playlists
        WHERE id = $1
    `, id)

	var playlist models.Playlist
	if err := row.Scan(&playlist.ID, &playlist.OwnerID, &playlist.Name,
		&playlist.Description, &playlist.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Playlist{}, ErrNotFound
		}
		return models.Playlist{}, fmt.Errorf("select playlist: %w", err)
	}

	rows, err := conn.Query(ctx, `
        SELECT video_id FROM playlist_videos
        WHERE playlist_id = $1
        ORDER BY position
    `, id)
	if err != nil {
		return models.Playlist{}, fmt.Errorf("query playlist videos: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var videoID string
		if err := rows.Scan(&videoID); err != nil {
			return models.Playlist{}, fmt.Errorf("scan playlist video: %w", err)
		}
		playlist.VideoIDs = append(playlist.VideoIDs, videoID)
	}

	if err := rows.Err(); err != nil {
		return models.Playlist{}, fmt.Errorf("iterate playlist videos: %w", err)
	}

	return playlist, nil
}

// UpdatePlaylist rewrites a playlist's name and description.
func (r *PostgresPlaylistRepository) UpdatePlaylist(ctx context.Context, playlist models.Playlist) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `
        UPDATE playlists SET name = $2, description = $3
        WHERE id = $1
    `, playlist.ID, playlist.Name, playlist.Description)
	if err != nil {
		return mapWriteError("update playlist", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// DeletePlaylist removes a playlist; membership rows cascade with it.
func (r *PostgresPlaylistRepository) DeletePlaylist(ctx context.Context, id string) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `DELETE FROM playlists WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete playlist: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// ListPlaylistsByOwner returns a user's playlists with member counts,
// newest first.
func (r *PostgresPlaylistRepository) ListPlaylistsByOwner(ctx context.Context, ownerID string) ([]models.PlaylistSummary, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
        SELECT p.id, p.name, p.description, p.created_at,
               (SELECT COUNT(*) FROM playlist_videos pv WHERE pv.playlist_id = p.id)
        FROM playlists p
        WHERE p.owner_id = $1
        ORDER BY p.created_at DESC, p.id ASC
    `, ownerID)
	if err != nil {
		return nil, fmt.Errorf("query playlists: %w", err)
	}
	defer rows.Close()

	var summaries []models.PlaylistSummary
	for rows.Next() {
		var summary models.PlaylistSummary
		if err := rows.Scan(&summary.ID, &summary.Name, &summary.Description,
			&summary.CreatedAt, &summary.TotalVideos); err != nil {
			return nil, fmt.Errorf("scan playlist summary: %w", err)
		}
		summaries = append(summaries, summary)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate playlists: %w", err)
	}

	return summaries, nil
}

// AddVideo appends a video reference. Re-adding an existing member is a
// no-op that keeps the original position.
func (r *PostgresPlaylistRepository) AddVideo(ctx context.Context, playlistID, videoID string) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `
        INSERT INTO playlist_videos (playlist_id, video_id, position)
        SELECT $1, $2, COALESCE(MAX(position) + 1, 0)
        FROM playlist_videos
        WHERE playlist_id = $1
        ON CONFLICT (playlist_id, video_id) DO NOTHING
    `, playlistID, videoID)
	if err != nil {
		return mapWriteError("insert playlist video", err)
	}

	return nil
}

// RemoveVideo deletes a membership row and succeeds even when none exists.
func (r *PostgresPlaylistRepository) RemoveVideo(ctx context.Context, playlistID, videoID string) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `
        DELETE FROM playlist_videos
        WHERE playlist_id = $1 AND video_id = $2
    `, playlistID, videoID)
	if err != nil {
		return fmt.Errorf("delete playlist video: %w", err)
	}

	return nil
}

// FindPlaylistDetail materializes a playlist with its member videos in
// insertion order and the owner projection.
func (r *PostgresPlaylistRepository) FindPlaylistDetail(ctx context.Context, id string) (models.PlaylistDetail, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.PlaylistDetail{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        SELECT p.id, p.name, p.description, p.created_at,
               u.id, u.username, u.avatar_url
        FROM playlists p
        INNER JOIN users u ON u.id = p.owner_id
        WHERE p.id = $1
    `, id)

	var (
		detail        models.PlaylistDetail
		ownerID       string
		ownerUsername string
		ownerAvatar   string
	)
	if err := row.Scan(&detail.ID, &detail.Name, &detail.Description, &detail.CreatedAt,
		&ownerID, &ownerUsername, &ownerAvatar); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.PlaylistDetail{}, ErrNotFound
		}
		return models.PlaylistDetail{}, fmt.Errorf("select playlist detail: %w", err)
	}
	detail.Owner = ownerSummary(ownerID, ownerUsername, ownerAvatar)

	rows, err := conn.Query(ctx, `
        SELECT v.id, v.title, v.description, v.thumbnail_url, v.duration_seconds,
               v.views, v.created_at, u.id, u.username, u.avatar_url
        FROM playlist_videos pv
        INNER JOIN videos v ON v.id = pv.video_id
        INNER JOIN users u ON u.id = v.owner_id
        WHERE pv.playlist_id = $1
        ORDER BY pv.position
    `, id)
	if err != nil {
		return models.PlaylistDetail{}, fmt.Errorf("query playlist detail videos: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			video        models.VideoWithOwner
			vOwnerID     string
			vOwnerName   string
			vOwnerAvatar string
		)
		if err := rows.Scan(&video.ID, &video.Title, &video.Description, &video.Thumbnail,
			&video.DurationSeconds, &video.Views, &video.CreatedAt,
			&vOwnerID, &vOwnerName, &vOwnerAvatar); err != nil {
			return models.PlaylistDetail{}, fmt.Errorf("scan playlist detail video: %w", err)
		}
		video.Owner = ownerSummary(vOwnerID, vOwnerName, vOwnerAvatar)
		detail.Videos = append(detail.Videos, video)
	}

	if err := rows.Err(); err != nil {
		return models.PlaylistDetail{}, fmt.Errorf("iterate playlist detail videos: %w", err)
	}

	return detail, nil
}

var _ content.PlaylistStore = (*PostgresPlaylistRepository)(nil)
