package server

import (
	"encoding/json"
	"net/http"

	"BeatWave/logger"
)

// DepositRequest is the body for crediting the caller's wallet.
type DepositRequest struct {
	Amount uint64 `json:"amount"`
}

// GetWalletHandler returns the caller's wallet balance.
func (h *APIHandler) GetWalletHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	balance, err := h.userRepo.GetBalance(r.Context(), userID)
	if err != nil {
		logger.Error("failed to get balance", logger.Int64("userId", userID), logger.ErrorField(err))
		http.Error(w, "Failed to get balance", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"balance": balance})
}

// DepositHandler credits the caller's wallet. This stands in for an
// external payment rail; the ledger only cares that balances exist.
func (h *APIHandler) DepositHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req DepositRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Amount == 0 {
		http.Error(w, "Amount must be positive", http.StatusBadRequest)
		return
	}

	if err := h.userRepo.Deposit(r.Context(), userID, req.Amount); err != nil {
		logger.Error("failed to deposit", logger.Int64("userId", userID), logger.ErrorField(err))
		http.Error(w, "Failed to deposit", http.StatusInternalServerError)
		return
	}

	balance, err := h.userRepo.GetBalance(r.Context(), userID)
	if err != nil {
		http.Error(w, "Failed to get balance", http.StatusInternalServerError)
		return
	}

	logger.Info("wallet deposit",
		logger.Int64("userId", userID),
		logger.Uint64("amount", req.Amount),
	)

	writeJSON(w, http.StatusOK, map[string]interface{}{"balance": balance})
}
