package server

import (
	"net/http"
	"strconv"

	"BeatWave/logger"
)

const defaultEventLimit = 100

// GetEventsHandler queries the journaled ledger events, newest first.
// With ?beatId=N only that beat's history is returned.
func (h *APIHandler) GetEventsHandler(w http.ResponseWriter, r *http.Request) {
	if h.eventRepo == nil {
		http.Error(w, "Event journal not available", http.StatusServiceUnavailable)
		return
	}

	limit := defaultEventLimit
	if limitParam := r.URL.Query().Get("limit"); limitParam != "" {
		if parsed, err := strconv.Atoi(limitParam); err == nil && parsed > 0 && parsed <= 1000 {
			limit = parsed
		}
	}

	if beatParam := r.URL.Query().Get("beatId"); beatParam != "" {
		beatID, err := strconv.ParseInt(beatParam, 10, 64)
		if err != nil {
			http.Error(w, "Invalid beat id", http.StatusBadRequest)
			return
		}
		events, err := h.eventRepo.ListByBeat(r.Context(), beatID, limit)
		if err != nil {
			logger.Error("failed to query event journal", logger.ErrorField(err))
			http.Error(w, "Failed to query events", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, events)
		return
	}

	events, err := h.eventRepo.ListRecent(r.Context(), limit)
	if err != nil {
		logger.Error("failed to query event journal", logger.ErrorField(err))
		http.Error(w, "Failed to query events", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, events)
}
