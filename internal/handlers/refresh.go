package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/walletapp/digital-wallet/internal/logger"
	"github.com/walletapp/digital-wallet/internal/services"
)

// Refresher defines the interface that the refresh-token service must implement.
type Refresher interface {
	Refresh(ctx context.Context, refreshToken string) (*services.TokenPair, error)
}

// RefreshRequest represents the JSON body for refreshing tokens
// swagger:model RefreshRequest
type RefreshRequest struct {
	// Refresh token issued at login
	// required: true
	RefreshToken string `json:"refreshToken"`
}

// RefreshResponse represents a successful refresh response
// swagger:model RefreshResponse
type RefreshResponse struct {
	// New JWT access token
	AccessToken string `json:"accessToken"`

	// Rotated refresh token
	RefreshToken string `json:"refreshToken"`
}

// RefreshErrorResponse represents an error response for refresh
// swagger:model RefreshErrorResponse
type RefreshErrorResponse struct {
	// Error message
	// default: Invalid or expired refresh token
	Error string `json:"error"`
}

// NewRefreshHandler returns an HTTP handler for refresh-token rotation.
// @Summary Refresh tokens
// @Description Exchange a valid refresh token for a new access/refresh token pair
// @Tags auth
// @Accept json
// @Produce json
// @Param refreshRequest body handlers.RefreshRequest true "Refresh Request"
// @Success 200 {object} handlers.RefreshResponse "New token pair returned"
// @Failure 400 {object} handlers.RefreshErrorResponse "Invalid request body"
// @Failure 401 {object} handlers.RefreshErrorResponse "Invalid or expired refresh token"
// @Router /refresh-token [post]
func NewRefreshHandler(svc Refresher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RefreshRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RefreshToken == "" {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(RefreshErrorResponse{Error: "Invalid request body"})
			return
		}

		pair, err := svc.Refresh(r.Context(), req.RefreshToken)
		if err != nil {
			if errors.Is(err, services.ErrInvalidRefreshToken) {
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(RefreshErrorResponse{Error: "Invalid or expired refresh token"})
				return
			}
			logger.Log.Errorw("internal server error", "err", err)
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(RefreshErrorResponse{Error: "Internal server error"})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(RefreshResponse{
			AccessToken:  pair.AccessToken,
			RefreshToken: pair.RefreshToken,
		})
	}
}
