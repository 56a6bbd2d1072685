package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/vanshsoni916/VideoTweetApp/internal/content"
	"github.com/vanshsoni916/VideoTweetApp/internal/db"
	"github.com/vanshsoni916/VideoTweetApp/internal/models"
)

// PostgresUserRepository provides PostgreSQL-backed persistence for users.
type PostgresUserRepository struct {
	pool db.Pool
}

// NewPostgresUserRepository constructs a user repository backed by PostgreSQL.
func NewPostgresUserRepository(pool db.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

const userColumns = `id, username, email, display_name, avatar_url, avatar_public_id,
       cover_url, cover_public_id, password_hash, created_at, updated_at`

// CreateUser persists a new user record. Usernames are stored case-folded.
func (r *PostgresUserRepository) CreateUser(ctx context.Context, user models.User) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	var coverURL, coverPublicID *string
	if user.CoverImage != nil {
		coverURL = &user.CoverImage.URL
		coverPublicID = &user.CoverImage.PublicID
	}

	_, err = conn.Exec(ctx, `
        INSERT INTO users (id, username, email, display_name, avatar_url, avatar_public_id,
                           cover_url, cover_public_id, password_hash, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
    `, user.ID, strings.ToLower(user.Username), user.Email, user.DisplayName,
		user.Avatar.URL, user.Avatar.PublicID, coverURL, coverPublicID,
		user.Password, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		return mapWriteError("insert user", err)
	}

	return nil
}

// FindUserByID fetches a user by id.
func (r *PostgresUserRepository) FindUserByID(ctx context.Context, id string) (models.User, error) {
	return r.findUser(ctx, `WHERE id = $1`, id)
}

// FindUserByUsername fetches a user by their case-folded username.
func (r *PostgresUserRepository) FindUserByUsername(ctx context.Context, username string) (models.User, error) {
	return r.findUser(ctx, `WHERE username = $1`, strings.ToLower(username))
}

// FindUserByEmail fetches a user by their email address.
func (r *PostgresUserRepository) FindUserByEmail(ctx context.Context, email string) (models.User, error) {
	return r.findUser(ctx, `WHERE email = $1`, email)
}

func (r *PostgresUserRepository) findUser(ctx context.Context, where string, arg any) (models.User, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.User{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `SELECT `+userColumns+` FROM users `+where, arg)

	var (
		user          models.User
		coverURL      *string
		coverPublicID *string
	)
	err = row.Scan(&user.ID, &user.Username, &user.Email, &user.DisplayName,
		&user.Avatar.URL, &user.Avatar.PublicID, &coverURL, &coverPublicID,
		&user.Password, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, fmt.Errorf("select user: %w", err)
	}

	if coverURL != nil {
		cover := models.MediaAsset{URL: *coverURL}
		if coverPublicID != nil {
			cover.PublicID = *coverPublicID
		}
		user.CoverImage = &cover
	}

	return user, nil
}

// UpdateUser modifies an existing user record.
func (r *PostgresUserRepository) UpdateUser(ctx context.Context, user models.User) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	var coverURL, coverPublicID *string
	if user.CoverImage != nil {
		coverURL = &user.CoverImage.URL
		coverPublicID = &user.CoverImage.PublicID
	}

	tag, err := conn.Exec(ctx, `
        UPDATE users
        SET username = $2, email = $3, display_name = $4, avatar_url = $5,
            avatar_public_id = $6, cover_url = $7, cover_public_id = $8,
            password_hash = $9, updated_at = $10
        WHERE id = $1
    `, user.ID, strings.ToLower(user.Username), user.Email, user.DisplayName,
		user.Avatar.URL, user.Avatar.PublicID, coverURL, coverPublicID,
		user.Password, user.UpdatedAt)
	if err != nil {
		return mapWriteError("update user", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

var _ content.UserStore = (*PostgresUserRepository)(nil)
