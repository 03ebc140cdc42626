package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"BeatWave/model"
)

// MemoryUserRepository is an in-memory UserRepository, used by tests and
// local development.
type MemoryUserRepository struct {
	mu     sync.RWMutex
	users  map[int64]*model.User
	nextID int64
}

// NewMemoryUserRepository creates an empty in-memory user repository.
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		users:  make(map[int64]*model.User),
		nextID: 1,
	}
}

func cloneUser(user *model.User) *model.User {
	copied := *user
	return &copied
}

// CreateUser stores a new user and returns its assigned id.
func (r *MemoryUserRepository) CreateUser(ctx context.Context, user *model.User) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	stored := cloneUser(user)
	stored.ID = r.nextID
	stored.CreatedAt = now
	stored.UpdatedAt = now
	r.users[stored.ID] = stored
	r.nextID++

	user.ID = stored.ID
	return stored.ID, nil
}

// GetUserByID returns the user with the given id, or (nil, nil) when missing.
func (r *MemoryUserRepository) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	return cloneUser(user), nil
}

// GetUserByUsername returns the user with the given username, or (nil, nil).
func (r *MemoryUserRepository) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.users {
		if user.Username == username {
			return cloneUser(user), nil
		}
	}
	return nil, nil
}

// GetUserByEmail returns the user with the given email, or (nil, nil).
func (r *MemoryUserRepository) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.users {
		if user.Email == email {
			return cloneUser(user), nil
		}
	}
	return nil, nil
}

// GetBalance returns the current wallet balance for a user.
func (r *MemoryUserRepository) GetBalance(ctx context.Context, id int64) (uint64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return 0, fmt.Errorf("user %d not found", id)
	}
	return user.Balance, nil
}

// Deposit credits the user's wallet.
func (r *MemoryUserRepository) Deposit(ctx context.Context, id int64, amount uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return fmt.Errorf("user %d not found", id)
	}
	user.Balance += amount
	user.UpdatedAt = time.Now()
	return nil
}
