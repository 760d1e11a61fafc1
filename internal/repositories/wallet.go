package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/walletapp/digital-wallet/internal/logger"
	"github.com/walletapp/digital-wallet/internal/models"
)

// WalletWriteRepository handles wallet write operations. Balance mutations are
// expected to run inside a TxRunner transaction so that the FOR UPDATE lock
// taken by GetForUpdate serializes concurrent operations on the same wallet.
type WalletWriteRepository struct {
	db *sqlx.DB
}

func NewWalletWriteRepository(db *sqlx.DB) *WalletWriteRepository {
	return &WalletWriteRepository{db: db}
}

// Create inserts an empty wallet for the given user.
func (r *WalletWriteRepository) Create(ctx context.Context, userID uuid.UUID) error {
	const query = `
		INSERT INTO wallets (wallet_id, user_id, balance, created_at, updated_at)
		VALUES ($1, $2, 0, NOW(), NOW())
	`

	_, err := executor(ctx, r.db).ExecContext(ctx, query, uuid.New(), userID)

	logger.Log.Infow("wallet query executed",
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{userID},
		"error", err,
	)

	return err
}

// GetForUpdate reads the user's wallet row with a row lock, returning nil when
// the wallet does not exist. Must be called inside a transaction.
func (r *WalletWriteRepository) GetForUpdate(ctx context.Context, userID uuid.UUID) (*models.WalletDB, error) {
	const query = `
		SELECT wallet_id, user_id, balance, created_at, updated_at
		FROM wallets
		WHERE user_id = $1
		FOR UPDATE
	`

	var wallet models.WalletDB
	err := sqlx.GetContext(ctx, executor(ctx, r.db), &wallet, query, userID)

	logger.Log.Infow("wallet query executed",
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{userID},
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &wallet, nil
}

// GetPairForUpdate locks the wallets of both users in a single statement,
// ordered by user id so opposite-direction transfers cannot deadlock.
// The result map is keyed by user id; missing wallets are simply absent.
func (r *WalletWriteRepository) GetPairForUpdate(ctx context.Context, userA, userB uuid.UUID) (map[uuid.UUID]*models.WalletDB, error) {
	const query = `
		SELECT wallet_id, user_id, balance, created_at, updated_at
		FROM wallets
		WHERE user_id IN ($1, $2)
		ORDER BY user_id
		FOR UPDATE
	`

	var wallets []models.WalletDB
	err := sqlx.SelectContext(ctx, executor(ctx, r.db), &wallets, query, userA, userB)

	logger.Log.Infow("wallet query executed",
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{userA, userB},
		"error", err,
	)

	if err != nil {
		return nil, err
	}

	result := make(map[uuid.UUID]*models.WalletDB, len(wallets))
	for i := range wallets {
		result[wallets[i].UserID] = &wallets[i]
	}
	return result, nil
}

// SetBalance writes a new balance for the user's wallet. The row must already
// be locked via GetForUpdate / GetPairForUpdate in the same transaction; the
// CHECK (balance >= 0) constraint is the last-resort overdraft guard.
func (r *WalletWriteRepository) SetBalance(ctx context.Context, userID uuid.UUID, balance float64) error {
	const query = `
		UPDATE wallets
		SET balance = $2, updated_at = NOW()
		WHERE user_id = $1
	`

	res, err := executor(ctx, r.db).ExecContext(ctx, query, userID, balance)

	var rowsAffected int64
	if res != nil {
		rowsAffected, _ = res.RowsAffected()
	}

	logger.Log.Infow("wallet query executed",
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{userID, balance},
		"result", rowsAffected,
		"error", err,
	)

	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// WalletReadRepository handles wallet read operations.
type WalletReadRepository struct {
	db *sqlx.DB
}

func NewWalletReadRepository(db *sqlx.DB) *WalletReadRepository {
	return &WalletReadRepository{db: db}
}

// GetByUserID returns the user's wallet without locking, or nil if it does not exist.
func (r *WalletReadRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.WalletDB, error) {
	const query = `
		SELECT wallet_id, user_id, balance, created_at, updated_at
		FROM wallets
		WHERE user_id = $1
	`

	var wallet models.WalletDB
	err := sqlx.GetContext(ctx, executor(ctx, r.db), &wallet, query, userID)

	logger.Log.Infow("wallet query executed",
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{userID},
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &wallet, nil
}
