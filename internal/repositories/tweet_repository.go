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

// PostgresTweetRepository provides PostgreSQL-backed persistence for tweets.
type PostgresTweetRepository struct {
	pool db.Pool
}

// NewPostgresTweetRepository constructs a tweet repository backed by PostgreSQL.
func NewPostgresTweetRepository(pool db.Pool) *PostgresTweetRepository {
	return &PostgresTweetRepository{pool: pool}
}

// CreateTweet stores a new tweet record.
func (r *PostgresTweetRepository) CreateTweet(ctx context.Context, tweet models.Tweet) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `
        INSERT INTO tweets (id, owner_id, content, created_at)
        VALUES ($1, $2, $3, $4)
    `, tweet.ID, tweet.OwnerID, tweet.Content, tweet.CreatedAt)
	if err != nil {
		return mapWriteError("insert tweet", err)
	}

	return nil
}

// FindTweetByID fetches a tweet by id.
func (r *PostgresTweetRepository) FindTweetByID(ctx context.Context, id string) (models.Tweet, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.Tweet{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        SELECT id, owner_id, content, created_at
        FROM tweets
        WHERE id = $1
    `, id)

	var tweet models.Tweet
	if err := row.Scan(&tweet.ID, &tweet.OwnerID, &tweet.Content, &tweet.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Tweet{}, ErrNotFound
		}
		return models.Tweet{}, fmt.Errorf("select tweet: %w", err)
	}

	return tweet, nil
}

// UpdateTweet rewrites a tweet's content.
func (r *PostgresTweetRepository) UpdateTweet(ctx context.Context, tweet models.Tweet) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `
        UPDATE tweets SET content = $2 WHERE id = $1
    `, tweet.ID, tweet.Content)
	if err != nil {
		return mapWriteError("update tweet", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// DeleteTweet hard-deletes a tweet.
func (r *PostgresTweetRepository) DeleteTweet(ctx context.Context, id string) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `DELETE FROM tweets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete tweet: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// ListTweetsByOwner returns a user's tweets joined to their owner summary,
// newest first with an id tie-break for stable pages.
func (r *PostgresTweetRepository) ListTweetsByOwner(ctx context.Context, ownerID string, page content.PageRequest) ([]models.TweetWithOwner, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
        SELECT t.id, t.content, t.created_at, u.id, u.username, u.avatar_url
        FROM tweets t
        INNER JOIN users u ON u.id = t.owner_id
        WHERE t.owner_id = $1
        ORDER BY t.created_at DESC, t.id ASC
        LIMIT $2 OFFSET $3
    `, ownerID, page.Limit, page.Offset())
	if err != nil {
		return nil, fmt.Errorf("query user tweets: %w", err)
	}
	defer rows.Close()

	var tweets []models.TweetWithOwner
	for rows.Next() {
		var (
			t             models.TweetWithOwner
			ownerUserID   string
			ownerUsername string
			ownerAvatar   string
		)
		if err := rows.Scan(&t.ID, &t.Content, &t.CreatedAt, &ownerUserID, &ownerUsername, &ownerAvatar); err != nil {
			return nil, fmt.Errorf("scan user tweet: %w", err)
		}
		t.Owner = ownerSummary(ownerUserID, ownerUsername, ownerAvatar)
		tweets = append(tweets, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate user tweets: %w", err)
	}

	return tweets, nil
}

var _ content.TweetStore = (*PostgresTweetRepository)(nil)
