package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/walletapp/digital-wallet/internal/logger"
	"github.com/walletapp/digital-wallet/internal/services"
)

// Depositor defines the interface that the ledger service must implement.
type Depositor interface {
	Deposit(ctx context.Context, email string, amount float64, description string) (float64, error)
}

// DepositRequest represents the JSON body for depositing funds
// swagger:model DepositRequest
type DepositRequest struct {
	// Amount to deposit
	// required: true
	// default: 100.0
	Amount float64 `json:"amount"`

	// Free-text description of the deposit
	// default: Salary
	Description string `json:"description"`
}

// DepositResponse represents a successful deposit response
// swagger:model DepositResponse
type DepositResponse struct {
	// New balance of the wallet
	NewBalance float64 `json:"newBalance"`
}

// DepositErrorResponse represents an error response for deposit
// swagger:model DepositErrorResponse
type DepositErrorResponse struct {
	// Error message
	// default: Invalid amount
	Error string `json:"error"`
}

// NewDepositHandler returns an HTTP handler for depositing funds into a wallet.
// @Summary Deposit funds
// @Description Add funds to the user's wallet and record a Deposit transaction
// @Tags wallet
// @Accept json
// @Produce json
// @Param email query string true "User email"
// @Param request body handlers.DepositRequest true "Deposit Request"
// @Success 200 {object} handlers.DepositResponse "New wallet balance"
// @Failure 400 {object} handlers.DepositErrorResponse "Invalid amount"
// @Failure 404 {object} handlers.DepositErrorResponse "User or wallet not found"
// @Failure 500 {object} handlers.DepositErrorResponse "Transaction failed"
// @Router /wallet/deposit [post]
// @Security BearerAuth
func NewDepositHandler(svc Depositor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		email := r.URL.Query().Get("email")
		if email == "" {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(DepositErrorResponse{Error: "Email is required"})
			return
		}

		var req DepositRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(DepositErrorResponse{Error: "Invalid request body"})
			return
		}

		newBalance, err := svc.Deposit(r.Context(), email, req.Amount, req.Description)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrInvalidAmount):
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(DepositErrorResponse{Error: "Invalid amount"})
			case errors.Is(err, services.ErrUserNotFound),
				errors.Is(err, services.ErrWalletNotFound):
				w.WriteHeader(http.StatusNotFound)
				json.NewEncoder(w).Encode(DepositErrorResponse{Error: "User not found"})
			default:
				logger.Log.Errorw("deposit failed", "email", email, "amount", req.Amount, "error", err)
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(DepositErrorResponse{Error: "Transaction failed"})
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(DepositResponse{NewBalance: newBalance})
	}
}
