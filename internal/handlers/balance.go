package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/walletapp/digital-wallet/internal/logger"
	"github.com/walletapp/digital-wallet/internal/services"
)

// BalanceProvider defines the interface that the ledger service must implement.
type BalanceProvider interface {
	GetBalance(ctx context.Context, email string) (float64, error)
}

// BalanceResponse represents a successful response with the wallet balance
// swagger:model BalanceResponse
type BalanceResponse struct {
	// Current wallet balance
	// default: 100.0
	Balance float64 `json:"balance"`
}

// BalanceErrorResponse represents an error response when fetching balance
// swagger:model BalanceErrorResponse
type BalanceErrorResponse struct {
	// Error message
	// default: User not found
	Error string `json:"error"`
}

// NewGetBalanceHandler returns an HTTP handler for fetching the wallet balance.
// @Summary Get wallet balance
// @Description Returns the current balance of the user's wallet
// @Tags wallet
// @Produce json
// @Param email query string true "User email"
// @Success 200 {object} handlers.BalanceResponse "Wallet balance"
// @Failure 400 {object} handlers.BalanceErrorResponse "Missing email"
// @Failure 404 {object} handlers.BalanceErrorResponse "User or wallet not found"
// @Failure 500 {object} handlers.BalanceErrorResponse "Internal server error"
// @Router /wallet/balance [get]
// @Security BearerAuth
func NewGetBalanceHandler(svc BalanceProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		email := r.URL.Query().Get("email")
		if email == "" {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(BalanceErrorResponse{Error: "Email is required"})
			return
		}

		balance, err := svc.GetBalance(r.Context(), email)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrUserNotFound),
				errors.Is(err, services.ErrWalletNotFound):
				w.WriteHeader(http.StatusNotFound)
				json.NewEncoder(w).Encode(BalanceErrorResponse{Error: "User not found"})
			default:
				logger.Log.Errorw("failed to get balance", "email", email, "error", err)
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(BalanceErrorResponse{Error: "Internal server error"})
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(BalanceResponse{Balance: balance})
	}
}
