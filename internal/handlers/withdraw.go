package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/walletapp/digital-wallet/internal/logger"
	"github.com/walletapp/digital-wallet/internal/services"
)

// Withdrawer defines the interface that the ledger service must implement.
type Withdrawer interface {
	Withdraw(ctx context.Context, email string, amount float64, description string) (float64, error)
}

// WithdrawRequest represents the JSON body for withdrawing funds
// swagger:model WithdrawRequest
type WithdrawRequest struct {
	// Amount to withdraw
	// required: true
	// default: 50.0
	Amount float64 `json:"amount"`

	// Free-text description of the withdrawal
	// default: Rent
	Description string `json:"description"`
}

// WithdrawResponse represents a successful withdrawal response
// swagger:model WithdrawResponse
type WithdrawResponse struct {
	// New balance of the wallet
	NewBalance float64 `json:"newBalance"`
}

// WithdrawErrorResponse represents an error response for withdrawal
// swagger:model WithdrawErrorResponse
type WithdrawErrorResponse struct {
	// Error message
	// default: Insufficient funds
	Error string `json:"error"`
}

// NewWithdrawHandler returns an HTTP handler for withdrawing funds from a wallet.
// @Summary Withdraw funds
// @Description Remove funds from the user's wallet and record a Withdrawal transaction
// @Tags wallet
// @Accept json
// @Produce json
// @Param email query string true "User email"
// @Param request body handlers.WithdrawRequest true "Withdraw Request"
// @Success 200 {object} handlers.WithdrawResponse "New wallet balance"
// @Failure 400 {object} handlers.WithdrawErrorResponse "Invalid amount or insufficient funds"
// @Failure 404 {object} handlers.WithdrawErrorResponse "User or wallet not found"
// @Failure 500 {object} handlers.WithdrawErrorResponse "Transaction failed"
// @Router /wallet/withdraw [post]
// @Security BearerAuth
func NewWithdrawHandler(svc Withdrawer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		email := r.URL.Query().Get("email")
		if email == "" {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(WithdrawErrorResponse{Error: "Email is required"})
			return
		}

		var req WithdrawRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(WithdrawErrorResponse{Error: "Invalid request body"})
			return
		}

		newBalance, err := svc.Withdraw(r.Context(), email, req.Amount, req.Description)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrInvalidAmount):
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(WithdrawErrorResponse{Error: "Invalid amount"})
			case errors.Is(err, services.ErrInsufficientFunds):
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(WithdrawErrorResponse{Error: "Insufficient funds"})
			case errors.Is(err, services.ErrUserNotFound),
				errors.Is(err, services.ErrWalletNotFound):
				w.WriteHeader(http.StatusNotFound)
				json.NewEncoder(w).Encode(WithdrawErrorResponse{Error: "User not found"})
			default:
				logger.Log.Errorw("withdrawal failed", "email", email, "amount", req.Amount, "error", err)
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(WithdrawErrorResponse{Error: "Transaction failed"})
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(WithdrawResponse{NewBalance: newBalance})
	}
}
