package models

import (
	"time"

	"github.com/google/uuid"
)

// UserDB represents a user row in the database
type UserDB struct {
	UserID                uuid.UUID  `json:"user_id" db:"user_id"`            // Primary key
	Username              string     `json:"username" db:"username"`          // Unique username
	Email                 string     `json:"email" db:"email"`                // Unique user email
	PasswordHash          string     `json:"-" db:"password_hash"`            // Hashed password
	RefreshToken          *string    `json:"-" db:"refresh_token"`            // Current refresh token, nil if none issued
	RefreshTokenExpiresAt *time.Time `json:"-" db:"refresh_token_expires_at"` // Expiry of the refresh token
	CreatedAt             time.Time  `json:"created_at" db:"created_at"`      // Creation timestamp
	UpdatedAt             time.Time  `json:"updated_at" db:"updated_at"`      // Last update timestamp
}
