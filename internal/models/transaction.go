package models

import (
	"time"

	"github.com/google/uuid"
)

// Canonical transaction kind labels. These are part of the external API
// contract: clients match on the exact spelling.
const (
	KindDeposit     = "Deposit"
	KindWithdrawal  = "Withdrawal"
	KindTransferIn  = "TransferIn"
	KindTransferOut = "TransferOut"
)

// TransactionDB represents an immutable ledger entry. The amount is always a
// positive magnitude; the sign is implied by the transaction type.
type TransactionDB struct {
	ID              int64     `json:"id" db:"id"`                              // Auto-assigned sequential identifier
	UserID          uuid.UUID `json:"user_id" db:"user_id"`                    // Owner of the affected wallet
	Amount          float64   `json:"amount" db:"amount"`                      // Positive magnitude
	TransactionType string    `json:"transaction_type" db:"transaction_type"` // One of the Kind* labels
	Description     string    `json:"description" db:"description"`            // Free-text description
	CreatedAt       time.Time `json:"created_at" db:"created_at"`              // UTC timestamp of the operation
}

// TransactionPage is one page of a user's transaction history, ordered by
// timestamp descending with id as the tiebreaker.
type TransactionPage struct {
	TotalCount   int64           `json:"total_count"`  // Total number of the user's transactions
	Page         int             `json:"page"`         // Page actually served (after clamping)
	PageSize     int             `json:"page_size"`    // Page size actually served (after clamping)
	Transactions []TransactionDB `json:"transactions"` // The page slice, most recent first
}

// TransactionEvent is the payload published to Kafka for each ledger write.
type TransactionEvent struct {
	TransactionID string  `json:"transaction_id"` // TransactionID is a unique identifier for the event.
	Timestamp     int64   `json:"timestamp"`      // Timestamp is the Unix timestamp (in seconds) when the operation occurred.
	Amount        float64 `json:"amount"`         // Amount is the monetary value of the operation.
	UserID        string  `json:"user_id"`        // UserID is the identifier of the affected wallet's owner.
	Operation     string  `json:"operation"`      // Operation is the transaction kind label, e.g. "Deposit".
}
