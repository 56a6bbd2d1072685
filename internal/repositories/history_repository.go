package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/vanshsoni916/VideoTweetApp/internal/content"
	"github.com/vanshsoni916/VideoTweetApp/internal/db"
	"github.com/vanshsoni916/VideoTweetApp/internal/models"
)

// PostgresHistoryRepository keeps each user's watch history. One row exists
// per (user, video); rewatching refreshes the timestamp, which moves the
// entry back to the front of the list.
type PostgresHistoryRepository struct {
	pool db.Pool

	// NowFunc returns the current time and can be overridden in tests.
	NowFunc func() time.Time
}

// NewPostgresHistoryRepository constructs a watch-history repository backed
// by PostgreSQL.
func NewPostgresHistoryRepository(pool db.Pool) *PostgresHistoryRepository {
	return &PostgresHistoryRepository{
		pool:    pool,
		NowFunc: func() time.Time { return time.Now().UTC() },
	}
}

// RecordWatch upserts a history row, refreshing watched_at on rewatch.
func (r *PostgresHistoryRepository) RecordWatch(ctx context.Context, userID, videoID string) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `
        INSERT INTO watch_history (user_id, video_id, watched_at)
        VALUES ($1, $2, $3)
        ON CONFLICT (user_id, video_id) DO UPDATE SET watched_at = EXCLUDED.watched_at
    `, userID, videoID, r.NowFunc())
	if err != nil {
		return mapWriteError("insert watch history", err)
	}

	return nil
}

// ListWatchHistory returns the user's history, most recently watched first.
// The owner join is left outer so entries survive their owner's deletion.
func (r *PostgresHistoryRepository) ListWatchHistory(ctx context.Context, userID string) ([]models.WatchEntry, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
        SELECT v.id, v.title, v.thumbnail_url, v.duration_seconds, v.views,
               v.created_at, u.id, u.username, u.avatar_url
        FROM watch_history h
        INNER JOIN videos v ON v.id = h.video_id
        LEFT JOIN users u ON u.id = v.owner_id
        WHERE h.user_id = $1
        ORDER BY h.watched_at DESC, v.id ASC
    `, userID)
	if err != nil {
		return nil, fmt.Errorf("query watch history: %w", err)
	}
	defer rows.Close()

	var entries []models.WatchEntry
	for rows.Next() {
		var (
			entry         models.WatchEntry
			ownerID       *string
			ownerUsername *string
			ownerAvatar   *string
		)
		if err := rows.Scan(&entry.ID, &entry.Title, &entry.Thumbnail,
			&entry.DurationSeconds, &entry.Views, &entry.CreatedAt,
			&ownerID, &ownerUsername, &ownerAvatar); err != nil {
			return nil, fmt.Errorf("scan watch entry: %w", err)
		}
		if ownerID != nil {
			owner := ownerSummary(*ownerID, *ownerUsername, *ownerAvatar)
			entry.Owner = &owner
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate watch history: %w", err)
	}

	return entries, nil
}

var _ content.HistoryStore = (*PostgresHistoryRepository)(nil)
