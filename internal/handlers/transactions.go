package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/walletapp/digital-wallet/internal/logger"
	"github.com/walletapp/digital-wallet/internal/models"
	"github.com/walletapp/digital-wallet/internal/services"
)

// TransactionLister defines the interface that the ledger service must implement.
type TransactionLister interface {
	ListTransactions(ctx context.Context, email string, page, pageSize int) (*models.TransactionPage, error)
}

// TransactionView is one serialized history entry
// swagger:model TransactionView
type TransactionView struct {
	// Positive amount; the sign is implied by transactionType
	Amount float64 `json:"amount"`

	// One of Deposit, Withdrawal, TransferIn, TransferOut
	TransactionType string `json:"transactionType"`

	// UTC timestamp of the operation
	Timestamp time.Time `json:"timestamp"`

	// Free-text description
	Description string `json:"description"`
}

// TransactionsResponse represents one page of the transaction history
// swagger:model TransactionsResponse
type TransactionsResponse struct {
	// Total number of the user's transactions
	TotalCount int64 `json:"totalCount"`

	// Page served (after clamping)
	Page int `json:"page"`

	// Page size served (after clamping)
	PageSize int `json:"pageSize"`

	// History entries, most recent first
	Transactions []TransactionView `json:"transactions"`
}

// TransactionsErrorResponse represents an error response for the history endpoint
// swagger:model TransactionsErrorResponse
type TransactionsErrorResponse struct {
	// Error message
	// default: User not found
	Error string `json:"error"`
}

// NewGetTransactionsHandler returns an HTTP handler for the paginated transaction history.
// @Summary List transactions
// @Description Returns one page of the user's transaction history, most recent first
// @Tags wallet
// @Produce json
// @Param email query string true "User email"
// @Param page query int false "Page number, starting at 1"
// @Param pageSize query int false "Page size, defaults to 10"
// @Success 200 {object} handlers.TransactionsResponse "Transaction history page"
// @Failure 400 {object} handlers.TransactionsErrorResponse "Missing email"
// @Failure 404 {object} handlers.TransactionsErrorResponse "User not found"
// @Failure 500 {object} handlers.TransactionsErrorResponse "Internal server error"
// @Router /wallet/transactions [get]
// @Security BearerAuth
func NewGetTransactionsHandler(svc TransactionLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		email := r.URL.Query().Get("email")
		if email == "" {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(TransactionsErrorResponse{Error: "Email is required"})
			return
		}

		// Garbage pagination values fall back to zero and get clamped by the service.
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		pageSize, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))

		result, err := svc.ListTransactions(r.Context(), email, page, pageSize)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrUserNotFound):
				w.WriteHeader(http.StatusNotFound)
				json.NewEncoder(w).Encode(TransactionsErrorResponse{Error: "User not found"})
			default:
				logger.Log.Errorw("failed to list transactions", "email", email, "error", err)
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(TransactionsErrorResponse{Error: "Internal server error"})
			}
			return
		}

		views := make([]TransactionView, 0, len(result.Transactions))
		for _, txn := range result.Transactions {
			views = append(views, TransactionView{
				Amount:          txn.Amount,
				TransactionType: txn.TransactionType,
				Timestamp:       txn.CreatedAt.UTC(),
				Description:     txn.Description,
			})
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(TransactionsResponse{
			TotalCount:   result.TotalCount,
			Page:         result.Page,
			PageSize:     result.PageSize,
			Transactions: views,
		})
	}
}
