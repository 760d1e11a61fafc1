package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/walletapp/digital-wallet/internal/logger"
	"github.com/walletapp/digital-wallet/internal/models"
)

// Ledger error taxonomy. Handlers map these to HTTP statuses; everything else
// that escapes a ledger operation is reported as ErrTransactionFailed after a
// full rollback, so callers may safely retry.
var (
	ErrInvalidAmount     = errors.New("amount must be positive")
	ErrUserNotFound      = errors.New("user not found")
	ErrWalletNotFound    = errors.New("wallet not found")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrTransactionFailed = errors.New("transaction failed")
	ErrSelfTransfer      = errors.New("cannot transfer to the same wallet")
)

// Pagination bounds for ListTransactions. Out-of-range values are clamped,
// not rejected.
const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// TransactionRunner runs a function inside a single database transaction.
type TransactionRunner interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// UserGetter resolves a user identity from an email address.
type UserGetter interface {
	GetByEmail(ctx context.Context, email string) (*models.UserDB, error)
}

// WalletLocker provides locked wallet access for balance mutations.
type WalletLocker interface {
	GetForUpdate(ctx context.Context, userID uuid.UUID) (*models.WalletDB, error)                                // Locks and returns the user's wallet
	GetPairForUpdate(ctx context.Context, userA, userB uuid.UUID) (map[uuid.UUID]*models.WalletDB, error)        // Locks two wallets in a deadlock-safe order
	SetBalance(ctx context.Context, userID uuid.UUID, balance float64) error                                     // Writes a new balance for a locked wallet
}

// WalletReader provides unlocked wallet reads.
type WalletReader interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*models.WalletDB, error)
}

// TransactionWriter appends ledger entries.
type TransactionWriter interface {
	Save(ctx context.Context, userID uuid.UUID, amount float64, transactionType, description string) error
}

// TransactionReader reads the transaction history.
type TransactionReader interface {
	CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error)
	ListByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.TransactionDB, error)
}

// BalanceCache caches balances between ledger writes.
type BalanceCache interface {
	Get(ctx context.Context, userID uuid.UUID) (float64, error)
	Set(ctx context.Context, userID uuid.UUID, balance float64) error
	Invalidate(ctx context.Context, userIDs ...uuid.UUID) error
}

// KafkaWriter defines a Kafka writer abstraction.
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error // Writes messages to Kafka
	Close() error                                                   // Closes the Kafka writer
}

// LedgerService owns all balance-affecting operations. Every mutation runs
// inside a single transaction: the balance update and the ledger entry commit
// together or not at all, and the FOR UPDATE lock taken on the wallet row
// serializes concurrent operations on the same wallet.
type LedgerService struct {
	runner      TransactionRunner
	users       UserGetter
	wallets     WalletLocker
	walletRead  WalletReader
	txWriter    TransactionWriter
	txReader    TransactionReader
	cache       BalanceCache
	kafkaWriter KafkaWriter
}

// NewLedgerService creates a new LedgerService. cache and kafkaWriter may be
// nil; both are best-effort collaborators, not ledger state.
func NewLedgerService(
	runner TransactionRunner,
	users UserGetter,
	wallets WalletLocker,
	walletRead WalletReader,
	txWriter TransactionWriter,
	txReader TransactionReader,
	cache BalanceCache,
	kafkaWriter KafkaWriter,
) *LedgerService {
	return &LedgerService{
		runner:      runner,
		users:       users,
		wallets:     wallets,
		walletRead:  walletRead,
		txWriter:    txWriter,
		txReader:    txReader,
		cache:       cache,
		kafkaWriter: kafkaWriter,
	}
}

// resolveUser maps an email to a user, translating "no such user" into ErrUserNotFound.
func (s *LedgerService) resolveUser(ctx context.Context, email string) (*models.UserDB, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		logger.Log.Errorw("failed to look up user", "email", email, "error", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// ledgerErr passes the caller-visible sentinels through unchanged and folds
// everything else into ErrTransactionFailed. The transaction has already been
// rolled back by the runner at this point.
func ledgerErr(err error) error {
	switch {
	case errors.Is(err, ErrWalletNotFound),
		errors.Is(err, ErrInsufficientFunds):
		return err
	default:
		logger.Log.Errorw("ledger transaction failed", "error", err)
		return ErrTransactionFailed
	}
}

// GetBalance returns the user's current balance. Read-only.
func (s *LedgerService) GetBalance(ctx context.Context, email string) (float64, error) {
	user, err := s.resolveUser(ctx, email)
	if err != nil {
		return 0, err
	}

	if s.cache != nil {
		if balance, err := s.cache.Get(ctx, user.UserID); err == nil {
			return balance, nil
		}
	}

	wallet, err := s.walletRead.GetByUserID(ctx, user.UserID)
	if err != nil {
		logger.Log.Errorw("failed to get wallet", "userID", user.UserID, "error", err)
		return 0, err
	}
	if wallet == nil {
		return 0, ErrWalletNotFound
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, user.UserID, wallet.Balance); err != nil {
			logger.Log.Warnw("failed to cache balance", "userID", user.UserID, "error", err)
		}
	}

	return wallet.Balance, nil
}

// Deposit atomically increments the wallet balance and appends one Deposit
// ledger entry. Returns the new balance.
func (s *LedgerService) Deposit(ctx context.Context, email string, amount float64, description string) (float64, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}

	user, err := s.resolveUser(ctx, email)
	if err != nil {
		return 0, err
	}

	var newBalance float64
	err = s.runner.WithTransaction(ctx, func(ctx context.Context) error {
		wallet, err := s.wallets.GetForUpdate(ctx, user.UserID)
		if err != nil {
			return err
		}
		if wallet == nil {
			return ErrWalletNotFound
		}

		newBalance = wallet.Balance + amount
		if err := s.wallets.SetBalance(ctx, user.UserID, newBalance); err != nil {
			return err
		}
		return s.txWriter.Save(ctx, user.UserID, amount, models.KindDeposit, description)
	})
	if err != nil {
		return 0, ledgerErr(err)
	}

	s.invalidateBalances(ctx, user.UserID)
	s.publishTransaction(ctx, user.UserID, amount, models.KindDeposit)

	return newBalance, nil
}

// Withdraw atomically decrements the wallet balance and appends one
// Withdrawal ledger entry. Fails with ErrInsufficientFunds when the balance
// is lower than the requested amount; the wallet is left untouched.
func (s *LedgerService) Withdraw(ctx context.Context, email string, amount float64, description string) (float64, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}

	user, err := s.resolveUser(ctx, email)
	if err != nil {
		return 0, err
	}

	var newBalance float64
	err = s.runner.WithTransaction(ctx, func(ctx context.Context) error {
		wallet, err := s.wallets.GetForUpdate(ctx, user.UserID)
		if err != nil {
			return err
		}
		if wallet == nil {
			return ErrWalletNotFound
		}
		if wallet.Balance < amount {
			return ErrInsufficientFunds
		}

		newBalance = wallet.Balance - amount
		if err := s.wallets.SetBalance(ctx, user.UserID, newBalance); err != nil {
			return err
		}
		return s.txWriter.Save(ctx, user.UserID, amount, models.KindWithdrawal, description)
	})
	if err != nil {
		return 0, ledgerErr(err)
	}

	s.invalidateBalances(ctx, user.UserID)
	s.publishTransaction(ctx, user.UserID, amount, models.KindWithdrawal)

	return newBalance, nil
}

// Transfer atomically moves amount from the sender's wallet to the
// recipient's, appending a TransferOut entry on the sender and a TransferIn
// entry on the recipient. The two entries net to zero. A failure anywhere
// leaves both wallets at their pre-transfer balances. Returns the sender's
// new balance.
func (s *LedgerService) Transfer(ctx context.Context, senderEmail, recipientEmail string, amount float64, description string) (float64, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}

	sender, err := s.resolveUser(ctx, senderEmail)
	if err != nil {
		return 0, err
	}
	recipient, err := s.resolveUser(ctx, recipientEmail)
	if err != nil {
		return 0, err
	}
	if sender.UserID == recipient.UserID {
		return 0, ErrSelfTransfer
	}

	outDescription := description
	if outDescription == "" {
		outDescription = "Transfer to " + recipient.Email
	}
	inDescription := "Transfer from " + sender.Email

	var newBalance float64
	err = s.runner.WithTransaction(ctx, func(ctx context.Context) error {
		wallets, err := s.wallets.GetPairForUpdate(ctx, sender.UserID, recipient.UserID)
		if err != nil {
			return err
		}
		senderWallet, recipientWallet := wallets[sender.UserID], wallets[recipient.UserID]
		if senderWallet == nil || recipientWallet == nil {
			return ErrWalletNotFound
		}
		if senderWallet.Balance < amount {
			return ErrInsufficientFunds
		}

		newBalance = senderWallet.Balance - amount
		if err := s.wallets.SetBalance(ctx, sender.UserID, newBalance); err != nil {
			return err
		}
		if err := s.wallets.SetBalance(ctx, recipient.UserID, recipientWallet.Balance+amount); err != nil {
			return err
		}
		if err := s.txWriter.Save(ctx, sender.UserID, amount, models.KindTransferOut, outDescription); err != nil {
			return err
		}
		return s.txWriter.Save(ctx, recipient.UserID, amount, models.KindTransferIn, inDescription)
	})
	if err != nil {
		return 0, ledgerErr(err)
	}

	s.invalidateBalances(ctx, sender.UserID, recipient.UserID)
	s.publishTransaction(ctx, sender.UserID, amount, models.KindTransferOut)
	s.publishTransaction(ctx, recipient.UserID, amount, models.KindTransferIn)

	return newBalance, nil
}

// ListTransactions returns one page of the user's transaction history, most
// recent first. Invalid pagination values are clamped: page < 1 becomes 1,
// pageSize < 1 becomes 10, pageSize > 100 becomes 100.
func (s *LedgerService) ListTransactions(ctx context.Context, email string, page, pageSize int) (*models.TransactionPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	user, err := s.resolveUser(ctx, email)
	if err != nil {
		return nil, err
	}

	total, err := s.txReader.CountByUserID(ctx, user.UserID)
	if err != nil {
		logger.Log.Errorw("failed to count transactions", "userID", user.UserID, "error", err)
		return nil, err
	}

	transactions, err := s.txReader.ListByUserID(ctx, user.UserID, pageSize, (page-1)*pageSize)
	if err != nil {
		logger.Log.Errorw("failed to list transactions", "userID", user.UserID, "error", err)
		return nil, err
	}

	return &models.TransactionPage{
		TotalCount:   total,
		Page:         page,
		PageSize:     pageSize,
		Transactions: transactions,
	}, nil
}

// invalidateBalances drops cached balances after a committed ledger write.
func (s *LedgerService) invalidateBalances(ctx context.Context, userIDs ...uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, userIDs...); err != nil {
		logger.Log.Warnw("failed to invalidate balance cache", "userIDs", userIDs, "error", err)
	}
}

// publishTransaction publishes a committed ledger write to Kafka. Best-effort:
// the ledger state is already durable, so failures are only logged.
func (s *LedgerService) publishTransaction(ctx context.Context, userID uuid.UUID, amount float64, operation string) {
	if s.kafkaWriter == nil {
		logger.Log.Warnw("Kafka writer not configured, skipping publishing", "userID", userID, "operation", operation)
		return
	}

	event := models.TransactionEvent{
		TransactionID: uuid.NewString(),
		Timestamp:     time.Now().Unix(),
		Amount:        amount,
		UserID:        userID.String(),
		Operation:     operation,
	}

	data, err := json.Marshal(event)
	if err != nil {
		logger.Log.Errorw("Failed to marshal transaction event for Kafka", "transaction_id", event.TransactionID, "error", err)
		return
	}

	msg := kafka.Message{
		Key:   []byte(event.TransactionID),
		Value: data,
	}

	if err := s.kafkaWriter.WriteMessages(ctx, msg); err != nil {
		logger.Log.Errorw("Failed to publish transaction event to Kafka", "transaction_id", event.TransactionID, "error", err)
	} else {
		logger.Log.Infow("Transaction event published to Kafka", "transaction_id", event.TransactionID, "amount", event.Amount)
	}
}
