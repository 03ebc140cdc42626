package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"BeatWave/cache"
	"BeatWave/logger"

	"github.com/gorilla/mux"
)

// UploadBeatRequest is the body for registering a new beat.
type UploadBeatRequest struct {
	ContentRef string `json:"contentRef"`
	Title      string `json:"title"`
	Price      uint64 `json:"price"`
}

// ListBeatRequest is the body for putting a beat on the market.
type ListBeatRequest struct {
	Price uint64 `json:"price"`
}

// BuyBeatRequest is the body for buying a listed beat. Payment must match
// the listed price exactly.
type BuyBeatRequest struct {
	Payment uint64 `json:"payment"`
}

// LikeBeatRequest keeps the legacy call shape; the flag carries no
// meaning and is ignored.
type LikeBeatRequest struct {
	Flag bool `json:"flag"`
}

// TransferOwnerRequest is the body for handing a beat to another user.
type TransferOwnerRequest struct {
	NewOwner int64 `json:"newOwner"`
}

func beatIDFromRequest(r *http.Request) (int64, error) {
	vars := mux.Vars(r)
	return strconv.ParseInt(vars["id"], 10, 64)
}

// UploadBeatHandler registers a new beat owned by the caller.
func (h *APIHandler) UploadBeatHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req UploadBeatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	id, err := h.store.UploadBeat(r.Context(), userID, req.ContentRef, req.Title, req.Price)
	if err != nil {
		logger.Warn("upload beat rejected",
			logger.Int64("userId", userID),
			logger.ErrorField(err),
		)
		writeLedgerError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{"id": id})
}

// GetBeatHandler returns the current record for a beat id. Reads go
// through the Redis cache when it is available.
func (h *APIHandler) GetBeatHandler(w http.ResponseWriter, r *http.Request) {
	id, err := beatIDFromRequest(r)
	if err != nil {
		http.Error(w, "Invalid beat id", http.StatusBadRequest)
		return
	}

	if cached, err := cache.GetCachedBeat(r.Context(), id); err == nil && cached != nil {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	beat, err := h.store.GetBeat(r.Context(), id)
	if err != nil {
		writeLedgerError(w, err)
		return
	}

	if err := cache.CacheBeat(r.Context(), beat); err != nil {
		logger.Debug("failed to cache beat", logger.Int64("beatId", id), logger.ErrorField(err))
	}
	writeJSON(w, http.StatusOK, beat)
}

// BrowseBeatsHandler lists beats, optionally filtered to the market or
// to one owner.
func (h *APIHandler) BrowseBeatsHandler(w http.ResponseWriter, r *http.Request) {
	if ownerParam := r.URL.Query().Get("owner"); ownerParam != "" {
		ownerID, err := strconv.ParseInt(ownerParam, 10, 64)
		if err != nil {
			http.Error(w, "Invalid owner id", http.StatusBadRequest)
			return
		}
		beats, err := h.store.BeatsByOwner(r.Context(), ownerID)
		if err != nil {
			http.Error(w, "Failed to list beats", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, beats)
		return
	}

	forSaleOnly := r.URL.Query().Get("forSale") == "true"
	beats, err := h.store.Browse(r.Context(), forSaleOnly)
	if err != nil {
		http.Error(w, "Failed to list beats", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, beats)
}

// ListBeatForSaleHandler puts the caller's beat on the market.
func (h *APIHandler) ListBeatForSaleHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	id, err := beatIDFromRequest(r)
	if err != nil {
		http.Error(w, "Invalid beat id", http.StatusBadRequest)
		return
	}

	var req ListBeatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.store.ListBeatForSale(r.Context(), userID, id, req.Price); err != nil {
		writeLedgerError(w, err)
		return
	}

	cache.InvalidateBeat(r.Context(), id)
	writeJSON(w, http.StatusOK, map[string]interface{}{"id": id, "isForSale": true, "price": req.Price})
}

// DeleteBeatForSaleHandler takes the caller's beat off the market. The
// record itself is retained; only the sale flag is cleared.
func (h *APIHandler) DeleteBeatForSaleHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	id, err := beatIDFromRequest(r)
	if err != nil {
		http.Error(w, "Invalid beat id", http.StatusBadRequest)
		return
	}

	if err := h.store.DeleteBeatForSale(r.Context(), userID, id); err != nil {
		writeLedgerError(w, err)
		return
	}

	cache.InvalidateBeat(r.Context(), id)
	writeJSON(w, http.StatusOK, map[string]interface{}{"id": id, "isForSale": false})
}

// BuyBeatHandler buys a listed beat at its exact price.
func (h *APIHandler) BuyBeatHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	id, err := beatIDFromRequest(r)
	if err != nil {
		http.Error(w, "Invalid beat id", http.StatusBadRequest)
		return
	}

	var req BuyBeatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.store.BuyBeat(r.Context(), userID, id, req.Payment); err != nil {
		logger.Warn("buy beat rejected",
			logger.Int64("beatId", id),
			logger.Int64("buyerId", userID),
			logger.ErrorField(err),
		)
		writeLedgerError(w, err)
		return
	}

	cache.InvalidateBeat(r.Context(), id)
	writeJSON(w, http.StatusOK, map[string]interface{}{"id": id, "ownerId": userID})
}

// LikeBeatHandler bumps the like counter. Likes are not deduplicated per
// caller and the owner may like their own beat.
func (h *APIHandler) LikeBeatHandler(w http.ResponseWriter, r *http.Request) {
	id, err := beatIDFromRequest(r)
	if err != nil {
		http.Error(w, "Invalid beat id", http.StatusBadRequest)
		return
	}

	// Body is optional; the legacy flag is accepted and ignored.
	var req LikeBeatRequest
	_ = json.NewDecoder(r.Body).Decode(&req)

	if err := h.store.LikeBeat(r.Context(), id); err != nil {
		writeLedgerError(w, err)
		return
	}

	cache.InvalidateBeat(r.Context(), id)
	beat, err := h.store.GetBeat(r.Context(), id)
	if err != nil {
		writeLedgerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"id": id, "numberOfLikes": beat.NumberOfLikes})
}

// TransferOwnerHandler hands the caller's beat to another user without payment.
func (h *APIHandler) TransferOwnerHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	id, err := beatIDFromRequest(r)
	if err != nil {
		http.Error(w, "Invalid beat id", http.StatusBadRequest)
		return
	}

	var req TransferOwnerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.store.TransferOwner(r.Context(), userID, id, req.NewOwner); err != nil {
		writeLedgerError(w, err)
		return
	}

	cache.InvalidateBeat(r.Context(), id)
	writeJSON(w, http.StatusOK, map[string]interface{}{"id": id, "ownerId": req.NewOwner})
}
