package repository

import (
	"context"
	"database/sql"
	"fmt"

	"BeatWave/model"
)

// UserRepository defines the interface for user account storage.
type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) (int64, error)
	GetUserByID(ctx context.Context, id int64) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetBalance(ctx context.Context, id int64) (uint64, error)
	Deposit(ctx context.Context, id int64, amount uint64) error
}

// mysqlUserRepository implements UserRepository for MySQL.
type mysqlUserRepository struct {
	DB *sql.DB
}

// NewMySQLUserRepository creates a new instance of mysqlUserRepository.
func NewMySQLUserRepository(db *sql.DB) UserRepository {
	return &mysqlUserRepository{DB: db}
}

const userColumns = `id, username, email, password_hash, balance, phone, created_at, updated_at`

func (r *mysqlUserRepository) scanUser(row *sql.Row) (*model.User, error) {
	user := &model.User{}
	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash,
		&user.Balance, &user.Phone, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // user not found
		}
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	return user, nil
}

// CreateUser adds a new user account and returns its id.
func (r *mysqlUserRepository) CreateUser(ctx context.Context, user *model.User) (int64, error) {
	query := `INSERT INTO users (username, email, password_hash, balance, phone) VALUES (?, ?, ?, ?, ?)`
	res, err := r.DB.ExecContext(ctx, query, user.Username, user.Email, user.PasswordHash, user.Balance, user.Phone)
	if err != nil {
		return 0, fmt.Errorf("failed to execute CreateUser: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID for CreateUser: %w", err)
	}
	user.ID = id
	return id, nil
}

// GetUserByID retrieves a user by id, or (nil, nil) when missing.
func (r *mysqlUserRepository) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ?`
	return r.scanUser(r.DB.QueryRowContext(ctx, query, id))
}

// GetUserByUsername retrieves a user by username, or (nil, nil) when missing.
func (r *mysqlUserRepository) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = ?`
	return r.scanUser(r.DB.QueryRowContext(ctx, query, username))
}

// GetUserByEmail retrieves a user by email, or (nil, nil) when missing.
func (r *mysqlUserRepository) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = ?`
	return r.scanUser(r.DB.QueryRowContext(ctx, query, email))
}

// GetBalance returns the current wallet balance for a user.
func (r *mysqlUserRepository) GetBalance(ctx context.Context, id int64) (uint64, error) {
	var balance uint64
	err := r.DB.QueryRowContext(ctx, `SELECT balance FROM users WHERE id = ?`, id).Scan(&balance)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, fmt.Errorf("user %d not found", id)
		}
		return 0, fmt.Errorf("failed to get balance for user %d: %w", id, err)
	}
	return balance, nil
}

// Deposit credits the user's wallet.
func (r *mysqlUserRepository) Deposit(ctx context.Context, id int64, amount uint64) error {
	res, err := r.DB.ExecContext(ctx, `UPDATE users SET balance = balance + ? WHERE id = ?`, amount, id)
	if err != nil {
		return fmt.Errorf("failed to deposit for user %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deposit result for user %d: %w", id, err)
	}
	if affected == 0 {
		return fmt.Errorf("user %d not found", id)
	}
	return nil
}
