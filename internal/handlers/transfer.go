package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/walletapp/digital-wallet/internal/logger"
	"github.com/walletapp/digital-wallet/internal/services"
)

// Transferer defines the interface that the ledger service must implement.
type Transferer interface {
	Transfer(ctx context.Context, senderEmail, recipientEmail string, amount float64, description string) (float64, error)
}

// TransferRequest represents the JSON body for transferring funds
// swagger:model TransferRequest
type TransferRequest struct {
	// Amount to transfer
	// required: true
	// default: 25.0
	Amount float64 `json:"amount"`

	// Free-text description of the transfer
	Description string `json:"description"`
}

// TransferResponse represents a successful transfer response
// swagger:model TransferResponse
type TransferResponse struct {
	// New balance of the sender's wallet
	NewBalance float64 `json:"newBalance"`
}

// TransferErrorResponse represents an error response for transfer
// swagger:model TransferErrorResponse
type TransferErrorResponse struct {
	// Error message
	// default: Insufficient funds
	Error string `json:"error"`
}

// NewTransferHandler returns an HTTP handler for transferring funds between wallets.
// @Summary Transfer funds
// @Description Move funds from the sender's wallet to the recipient's, recording a TransferOut/TransferIn record pair
// @Tags wallet
// @Accept json
// @Produce json
// @Param senderEmail query string true "Sender email"
// @Param recipientEmail query string true "Recipient email"
// @Param request body handlers.TransferRequest true "Transfer Request"
// @Success 200 {object} handlers.TransferResponse "Sender's new wallet balance"
// @Failure 400 {object} handlers.TransferErrorResponse "Invalid amount or insufficient funds"
// @Failure 404 {object} handlers.TransferErrorResponse "User or wallet not found"
// @Failure 500 {object} handlers.TransferErrorResponse "Transaction failed"
// @Router /wallet/transfer [post]
// @Security BearerAuth
func NewTransferHandler(svc Transferer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		senderEmail := r.URL.Query().Get("senderEmail")
		recipientEmail := r.URL.Query().Get("recipientEmail")
		if senderEmail == "" || recipientEmail == "" {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(TransferErrorResponse{Error: "Sender and recipient emails are required"})
			return
		}

		var req TransferRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(TransferErrorResponse{Error: "Invalid request body"})
			return
		}

		newBalance, err := svc.Transfer(r.Context(), senderEmail, recipientEmail, req.Amount, req.Description)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrInvalidAmount),
				errors.Is(err, services.ErrSelfTransfer):
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(TransferErrorResponse{Error: "Invalid transfer request"})
			case errors.Is(err, services.ErrInsufficientFunds):
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(TransferErrorResponse{Error: "Insufficient funds"})
			case errors.Is(err, services.ErrUserNotFound),
				errors.Is(err, services.ErrWalletNotFound):
				w.WriteHeader(http.StatusNotFound)
				json.NewEncoder(w).Encode(TransferErrorResponse{Error: "User not found"})
			default:
				logger.Log.Errorw("transfer failed",
					"sender", senderEmail,
					"recipient", recipientEmail,
					"amount", req.Amount,
					"error", err,
				)
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(TransferErrorResponse{Error: "Transaction failed"})
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(TransferResponse{NewBalance: newBalance})
	}
}
