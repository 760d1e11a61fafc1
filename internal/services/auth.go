package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/walletapp/digital-wallet/internal/logger"
	"github.com/walletapp/digital-wallet/internal/models"
)

// Error variables
var (
	ErrUserAlreadyExists   = errors.New("username or email already exists")
	ErrUserDoesNotExist    = errors.New("user does not exist")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")
)

// UserReader defines read-only operations for users.
type UserReader interface {
	GetByEmail(ctx context.Context, email string) (*models.UserDB, error)
	GetByUsernameOrEmail(ctx context.Context, username, email *string) (*models.UserDB, error)
	GetByRefreshToken(ctx context.Context, refreshToken string) (*models.UserDB, error)
}

// UserWriter defines write operations for users.
type UserWriter interface {
	Save(ctx context.Context, username, email, passwordHash string) (uuid.UUID, error)
	UpdateRefreshToken(ctx context.Context, userID uuid.UUID, refreshToken *string, expiresAt *time.Time) error
}

// WalletCreator creates the wallet that accompanies every new user.
type WalletCreator interface {
	Create(ctx context.Context, userID uuid.UUID) error
}

// JWTGenerator defines an interface for generating JWT access tokens.
type JWTGenerator interface {
	Generate(ctx context.Context, userID uuid.UUID) (string, error)
}

// TokenPair holds an access token and its paired refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// AuthService handles registration, login, and refresh-token rotation.
type AuthService struct {
	runner     TransactionRunner
	reader     UserReader
	writer     UserWriter
	wallets    WalletCreator
	jwt        JWTGenerator
	refreshExp time.Duration
}

// NewAuthService creates a new AuthService instance.
func NewAuthService(
	runner TransactionRunner,
	reader UserReader,
	writer UserWriter,
	wallets WalletCreator,
	jwt JWTGenerator,
	refreshExp time.Duration,
) *AuthService {
	return &AuthService{
		runner:     runner,
		reader:     reader,
		writer:     writer,
		wallets:    wallets,
		jwt:        jwt,
		refreshExp: refreshExp,
	}
}

// Register registers a new user and creates their wallet in one transaction.
func (svc *AuthService) Register(ctx context.Context, username, email, password string) error {
	user, err := svc.reader.GetByUsernameOrEmail(ctx, &username, &email)
	if err != nil {
		logger.Log.Errorw("failed to check user exists", "err", err)
		return err
	}
	if user != nil {
		logger.Log.Errorw("user already exists", "username", username, "email", email)
		return ErrUserAlreadyExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		logger.Log.Errorw("failed to hash password", "err", err)
		return err
	}

	return svc.runner.WithTransaction(ctx, func(ctx context.Context) error {
		userID, err := svc.writer.Save(ctx, username, email, string(hashedPassword))
		if err != nil {
			logger.Log.Errorw("failed to save user", "err", err)
			return err
		}
		if err := svc.wallets.Create(ctx, userID); err != nil {
			logger.Log.Errorw("failed to create wallet", "userID", userID, "err", err)
			return err
		}
		return nil
	})
}

// Login authenticates a user and returns a new token pair.
func (svc *AuthService) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	user, err := svc.reader.GetByEmail(ctx, email)
	if err != nil {
		logger.Log.Errorw("failed to get user", "err", err)
		return nil, err
	}
	if user == nil {
		logger.Log.Errorw("user does not exist", "email", email)
		return nil, ErrUserDoesNotExist
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		logger.Log.Errorw("invalid credentials", "email", email)
		return nil, ErrInvalidCredentials
	}

	return svc.issueTokens(ctx, user.UserID)
}

// Refresh validates a refresh token, rotates it, and returns a new token pair.
func (svc *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	user, err := svc.reader.GetByRefreshToken(ctx, refreshToken)
	if err != nil {
		logger.Log.Errorw("failed to get user by refresh token", "err", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidRefreshToken
	}
	if user.RefreshTokenExpiresAt == nil || user.RefreshTokenExpiresAt.Before(time.Now()) {
		logger.Log.Errorw("refresh token expired", "userID", user.UserID)
		return nil, ErrInvalidRefreshToken
	}

	return svc.issueTokens(ctx, user.UserID)
}

// issueTokens generates an access token and a rotated refresh token, and
// persists the refresh token on the user row.
func (svc *AuthService) issueTokens(ctx context.Context, userID uuid.UUID) (*TokenPair, error) {
	accessToken, err := svc.jwt.Generate(ctx, userID)
	if err != nil {
		logger.Log.Errorw("failed to generate JWT", "err", err)
		return nil, err
	}

	refreshToken := uuid.NewString()
	expiresAt := time.Now().Add(svc.refreshExp)
	if err := svc.writer.UpdateRefreshToken(ctx, userID, &refreshToken, &expiresAt); err != nil {
		logger.Log.Errorw("failed to store refresh token", "userID", userID, "err", err)
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}
