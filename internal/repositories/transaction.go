package repositories

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/walletapp/digital-wallet/internal/logger"
	"github.com/walletapp/digital-wallet/internal/models"
)

// TransactionWriteRepository appends immutable ledger entries.
type TransactionWriteRepository struct {
	db *sqlx.DB
}

func NewTransactionWriteRepository(db *sqlx.DB) *TransactionWriteRepository {
	return &TransactionWriteRepository{db: db}
}

// Save appends one ledger entry. Amount must be a positive magnitude; the
// sign is implied by the transaction type.
func (r *TransactionWriteRepository) Save(ctx context.Context, userID uuid.UUID, amount float64, transactionType, description string) error {
	const query = `
		INSERT INTO transactions (user_id, amount, transaction_type, description, created_at)
		VALUES ($1, $2, $3, $4, NOW())
	`

	_, err := executor(ctx, r.db).ExecContext(ctx, query, userID, amount, transactionType, description)

	logger.Log.Infow("transaction query executed",
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{userID, amount, transactionType},
		"error", err,
	)

	return err
}

// TransactionReadRepository reads the transaction history.
type TransactionReadRepository struct {
	db *sqlx.DB
}

func NewTransactionReadRepository(db *sqlx.DB) *TransactionReadRepository {
	return &TransactionReadRepository{db: db}
}

// CountByUserID returns the total number of the user's transactions.
func (r *TransactionReadRepository) CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	const query = `
		SELECT COUNT(*)
		FROM transactions
		WHERE user_id = $1
	`

	var count int64
	err := sqlx.GetContext(ctx, executor(ctx, r.db), &count, query, userID)

	logger.Log.Infow("transaction query executed",
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{userID},
		"result", count,
		"error", err,
	)

	return count, err
}

// ListByUserID returns one history page, most recent first. Ties on the
// timestamp are broken by descending id so pages are deterministic.
func (r *TransactionReadRepository) ListByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.TransactionDB, error) {
	const query = `
		SELECT id, user_id, amount, transaction_type, description, created_at
		FROM transactions
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`

	var transactions []models.TransactionDB
	err := sqlx.SelectContext(ctx, executor(ctx, r.db), &transactions, query, userID, limit, offset)

	logger.Log.Infow("transaction query executed",
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{userID, limit, offset},
		"result", len(transactions),
		"error", err,
	)

	return transactions, err
}
