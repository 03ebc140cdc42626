package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"BeatWave/config"
	"BeatWave/core/auth"
	"BeatWave/core/event"
	"BeatWave/core/ledger"
	"BeatWave/repository"
)

// APIHandler handles all API requests.
type APIHandler struct {
	store     *ledger.Store
	userRepo  repository.UserRepository
	eventRepo repository.EventRepository
	hub       *event.Hub
	cfg       *config.Config
}

// NewAPIHandler creates a new API handler.
func NewAPIHandler(
	store *ledger.Store,
	userRepo repository.UserRepository,
	eventRepo repository.EventRepository,
	hub *event.Hub,
	cfg *config.Config,
) *APIHandler {
	return &APIHandler{
		store:     store,
		userRepo:  userRepo,
		eventRepo: eventRepo,
		hub:       hub,
		cfg:       cfg,
	}
}

// AuthMiddleware is a middleware function that checks for a valid JWT token.
func (h *APIHandler) AuthMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "Authorization header is required", http.StatusUnauthorized)
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			http.Error(w, "Invalid authorization header format", http.StatusUnauthorized)
			return
		}

		claims, err := auth.ParseToken(parts[1])
		if err != nil {
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), "userID", claims.UserID)
		ctx = context.WithValue(ctx, "username", claims.Username)

		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// GetUserIDFromContext extracts the user ID from the request context.
func GetUserIDFromContext(ctx context.Context) (int64, error) {
	userID, ok := ctx.Value("userID").(int64)
	if !ok {
		return 0, fmt.Errorf("user ID not found in context")
	}
	return userID, nil
}

// GetUsernameFromContext extracts the username from the request context.
func GetUsernameFromContext(ctx context.Context) (string, error) {
	username, ok := ctx.Value("username").(string)
	if !ok {
		return "", fmt.Errorf("username not found in context")
	}
	return username, nil
}

// writeJSON writes a JSON response body.
func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// writeLedgerError maps the ledger error taxonomy onto HTTP status codes.
// Every rejection carries the ledger's reason; anything outside the
// taxonomy is an internal error.
func writeLedgerError(w http.ResponseWriter, err error) {
	var notFound ledger.NotFoundError
	var unauthorized ledger.UnauthorizedError
	var invalid ledger.InvalidError

	switch {
	case errors.As(err, &notFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.As(err, &unauthorized):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.As(err, &invalid):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
