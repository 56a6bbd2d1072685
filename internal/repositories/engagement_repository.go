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

// PostgresEngagementRepository persists like and subscription edges. The
// composite unique indexes on (actor_id, target_type, target_id) and
// (subscriber_id, channel_id) back the toggle engine's invariants even when
// concurrent toggles race past its read-before-write.
type PostgresEngagementRepository struct {
	pool db.Pool
}

// NewPostgresEngagementRepository constructs an engagement repository backed
// by PostgreSQL.
func NewPostgresEngagementRepository(pool db.Pool) *PostgresEngagementRepository {
	return &PostgresEngagementRepository{pool: pool}
}

// FindLike looks up a like edge by its composite key.
func (r *PostgresEngagementRepository) FindLike(ctx context.Context, actorID, targetType, targetID string) (models.Like, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.Like{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        SELECT id, actor_id, target_type, target_id, created_at
        FROM likes
        WHERE actor_id = $1 AND target_type = $2 AND target_id = $3
    `, actorID, targetType, targetID)

	var like models.Like
	if err := row.Scan(&like.ID, &like.ActorID, &like.TargetType, &like.TargetID, &like.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Like{}, ErrNotFound
		}
		return models.Like{}, fmt.Errorf("select like: %w", err)
	}

	return like, nil
}

// CreateLike inserts a like edge.
func (r *PostgresEngagementRepository) CreateLike(ctx context.Context, like models.Like) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `
        INSERT INTO likes (id, actor_id, target_type, target_id, created_at)
        VALUES ($1, $2, $3, $4, $5)
    `, like.ID, like.ActorID, like.TargetType, like.TargetID, like.CreatedAt)
	if err != nil {
		return mapWriteError("insert like", err)
	}

	return nil
}

// DeleteLike hard-deletes a like edge.
func (r *PostgresEngagementRepository) DeleteLike(ctx context.Context, id string) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `DELETE FROM likes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete like: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// CountLikes counts the like edges currently present for a target.
func (r *PostgresEngagementRepository) CountLikes(ctx context.Context, targetType, targetID string) (int64, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return 0, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	var count int64
	row := conn.QueryRow(ctx, `
        SELECT COUNT(*) FROM likes WHERE target_type = $1 AND target_id = $2
    `, targetType, targetID)
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("count likes: %w", err)
	}

	return count, nil
}

// ListLikedVideos joins an actor's video likes to videos and their owners,
// ordered by the like's own creation time.
func (r *PostgresEngagementRepository) ListLikedVideos(ctx context.Context, actorID string, page content.PageRequest) ([]models.LikedVideo, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
        SELECT v.id, v.title, v.description, v.thumbnail_url, v.duration_seconds,
               v.views, v.created_at, u.id, u.username, u.avatar_url, l.created_at
        FROM likes l
        INNER JOIN videos v ON v.id = l.target_id
        INNER JOIN users u ON u.id = v.owner_id
        WHERE l.actor_id = $1 AND l.target_type = $2
        ORDER BY l.created_at DESC, l.id ASC
        LIMIT $3 OFFSET $4
    `, actorID, models.LikeTargetVideo, page.Limit, page.Offset())
	if err != nil {
		return nil, fmt.Errorf("query liked videos: %w", err)
	}
	defer rows.Close()

	var liked []models.LikedVideo
	for rows.Next() {
		var (
			lv            models.LikedVideo
			ownerID       string
			ownerUsername string
			ownerAvatar   string
		)
		if err := rows.Scan(&lv.Video.ID, &lv.Video.Title, &lv.Video.Description,
			&lv.Video.Thumbnail, &lv.Video.DurationSeconds, &lv.Video.Views,
			&lv.Video.CreatedAt, &ownerID, &ownerUsername, &ownerAvatar, &lv.LikedAt); err != nil {
			return nil, fmt.Errorf("scan liked video: %w", err)
		}
		lv.Video.Owner = ownerSummary(ownerID, ownerUsername, ownerAvatar)
		liked = append(liked, lv)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate liked videos: %w", err)
	}

	return liked, nil
}

// FindSubscription looks up a subscription edge by its composite key.
func (r *PostgresEngagementRepository) FindSubscription(ctx context.Context, subscriberID, channelID string) (models.Subscription, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.Subscription{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        SELECT id, subscriber_id, channel_id, created_at
        FROM subscriptions
        WHERE subscriber_id = $1 AND channel_id = $2
    `, subscriberID, channelID)

	var sub models.Subscription
	if err := row.Scan(&sub.ID, &sub.SubscriberID, &sub.ChannelID, &sub.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Subscription{}, ErrNotFound
		}
		return models.Subscription{}, fmt.Errorf("select subscription: %w", err)
	}

	return sub, nil
}

// CreateSubscription inserts a subscription edge.
func (r *PostgresEngagementRepository) CreateSubscription(ctx context.Context, sub models.Subscription) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `
        INSERT INTO subscriptions (id, subscriber_id, channel_id, created_at)
        VALUES ($1, $2, $3, $4)
    `, sub.ID, sub.SubscriberID, sub.ChannelID, sub.CreatedAt)
	if err != nil {
		return mapWriteError("insert subscription", err)
	}

	return nil
}

// DeleteSubscription hard-deletes a subscription edge.
func (r *PostgresEngagementRepository) DeleteSubscription(ctx context.Context, id string) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `DELETE FROM subscriptions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete subscription: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// CountSubscribers counts the subscription edges pointing at a channel.
func (r *PostgresEngagementRepository) CountSubscribers(ctx context.Context, channelID string) (int64, error) {
	return r.countSubscriptions(ctx, `channel_id`, channelID)
}

// CountSubscribedTo counts the channels a user subscribes to.
func (r *PostgresEngagementRepository) CountSubscribedTo(ctx context.Context, subscriberID string) (int64, error) {
	return r.countSubscriptions(ctx, `subscriber_id`, subscriberID)
}

func (r *PostgresEngagementRepository) countSubscriptions(ctx context.Context, column, id string) (int64, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return 0, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	var count int64
	row := conn.QueryRow(ctx, `SELECT COUNT(*) FROM subscriptions WHERE `+column+` = $1`, id)
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("count subscriptions: %w", err)
	}

	return count, nil
}

// ListSubscribers returns the user projections subscribed to a channel.
func (r *PostgresEngagementRepository) ListSubscribers(ctx context.Context, channelID string, page content.PageRequest) ([]models.ChannelMember, error) {
	return r.listMembers(ctx, `s.subscriber_id`, `s.channel_id`, channelID, page)
}

// ListSubscribedChannels returns the channels a user subscribes to.
func (r *PostgresEngagementRepository) ListSubscribedChannels(ctx context.Context, subscriberID string, page content.PageRequest) ([]models.ChannelMember, error) {
	return r.listMembers(ctx, `s.channel_id`, `s.subscriber_id`, subscriberID, page)
}

func (r *PostgresEngagementRepository) listMembers(ctx context.Context, joinColumn, whereColumn, id string, page content.PageRequest) ([]models.ChannelMember, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
        SELECT u.id, u.username, u.display_name, u.avatar_url, s.created_at
        FROM subscriptions s
        INNER JOIN users u ON u.id = `+joinColumn+`
        WHERE `+whereColumn+` = $1
        ORDER BY s.created_at DESC, s.id ASC
        LIMIT $2 OFFSET $3
    `, id, page.Limit, page.Offset())
	if err != nil {
		return nil, fmt.Errorf("query subscription members: %w", err)
	}
	defer rows.Close()

	var members []models.ChannelMember
	for rows.Next() {
		var member models.ChannelMember
		if err := rows.Scan(&member.UserID, &member.Username, &member.DisplayName,
			&member.Avatar, &member.SubscribedAt); err != nil {
			return nil, fmt.Errorf("scan subscription member: %w", err)
		}
		members = append(members, member)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate subscription members: %w", err)
	}

	return members, nil
}

var _ content.EngagementStore = (*PostgresEngagementRepository)(nil)
