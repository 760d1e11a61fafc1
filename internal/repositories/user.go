package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/walletapp/digital-wallet/internal/logger"
	"github.com/walletapp/digital-wallet/internal/models"
)

// UserReadRepository handles user lookups.
type UserReadRepository struct {
	db *sqlx.DB
}

func NewUserReadRepository(db *sqlx.DB) *UserReadRepository {
	return &UserReadRepository{db: db}
}

// GetByEmail returns the user with the given email, or nil if none exists.
func (r *UserReadRepository) GetByEmail(ctx context.Context, email string) (*models.UserDB, error) {
	const query = `
		SELECT user_id, username, email, password_hash, refresh_token, refresh_token_expires_at, created_at, updated_at
		FROM users
		WHERE email = $1
	`

	var user models.UserDB
	err := sqlx.GetContext(ctx, executor(ctx, r.db), &user, query, email)

	logger.Log.Infow("user query executed",
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{email},
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByUsernameOrEmail returns a user matching either the username or the
// email (nil arguments are ignored), or nil if no user matches.
func (r *UserReadRepository) GetByUsernameOrEmail(ctx context.Context, username, email *string) (*models.UserDB, error) {
	const query = `
		SELECT user_id, username, email, password_hash, refresh_token, refresh_token_expires_at, created_at, updated_at
		FROM users
		WHERE ($1::VARCHAR IS NOT NULL AND username = $1)
		   OR ($2::VARCHAR IS NOT NULL AND email = $2)
		LIMIT 1
	`

	var user models.UserDB
	err := sqlx.GetContext(ctx, executor(ctx, r.db), &user, query, username, email)

	logger.Log.Infow("user query executed",
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{username, email},
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByRefreshToken returns the user holding the given refresh token, or nil.
func (r *UserReadRepository) GetByRefreshToken(ctx context.Context, refreshToken string) (*models.UserDB, error) {
	const query = `
		SELECT user_id, username, email, password_hash, refresh_token, refresh_token_expires_at, created_at, updated_at
		FROM users
		WHERE refresh_token = $1
	`

	var user models.UserDB
	err := sqlx.GetContext(ctx, executor(ctx, r.db), &user, query, refreshToken)

	logger.Log.Infow("user query executed",
		"query", strings.Join(strings.Fields(query), " "),
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UserWriteRepository handles user write operations.
type UserWriteRepository struct {
	db *sqlx.DB
}

func NewUserWriteRepository(db *sqlx.DB) *UserWriteRepository {
	return &UserWriteRepository{db: db}
}

// Save inserts a new user and returns the generated user id.
func (r *UserWriteRepository) Save(ctx context.Context, username, email, passwordHash string) (uuid.UUID, error) {
	const query = `
		INSERT INTO users (user_id, username, email, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING user_id
	`

	var userID uuid.UUID
	err := sqlx.GetContext(ctx, executor(ctx, r.db), &userID, query, uuid.New(), username, email, passwordHash)

	logger.Log.Infow("user query executed",
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{username, email},
		"result", userID,
		"error", err,
	)

	return userID, err
}

// UpdateRefreshToken stores (or clears, with nil arguments) the user's refresh token.
func (r *UserWriteRepository) UpdateRefreshToken(ctx context.Context, userID uuid.UUID, refreshToken *string, expiresAt *time.Time) error {
	const query = `
		UPDATE users
		SET refresh_token = $2, refresh_token_expires_at = $3, updated_at = NOW()
		WHERE user_id = $1
	`

	_, err := executor(ctx, r.db).ExecContext(ctx, query, userID, refreshToken, expiresAt)

	logger.Log.Infow("user query executed",
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{userID},
		"error", err,
	)

	return err
}
