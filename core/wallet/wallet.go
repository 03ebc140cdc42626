package wallet

import (
	"context"
	"database/sql"
	"fmt"

	"BeatWave/core/ledger"
	"BeatWave/logger"
)

// mysqlPayments implements ledger.Payments over the users.balance column.
// Debit and credit run in one SQL transaction so a transfer either moves
// the full amount or changes nothing.
type mysqlPayments struct {
	DB *sql.DB
}

// NewMySQLPayments creates a payments engine over the given database.
func NewMySQLPayments(db *sql.DB) ledger.Payments {
	return &mysqlPayments{DB: db}
}

// Transfer moves amount from one wallet to another. Returns
// ledger.ErrInsufficientFunds when the payer cannot cover it.
func (p *mysqlPayments) Transfer(ctx context.Context, from, to int64, amount uint64) error {
	if amount == 0 {
		return nil
	}

	tx, err := p.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transfer transaction: %w", err)
	}
	defer tx.Rollback()

	// The balance guard in the WHERE clause is what rejects overdrafts.
	res, err := tx.ExecContext(ctx,
		`UPDATE users SET balance = balance - ? WHERE id = ? AND balance >= ?`,
		amount, from, amount)
	if err != nil {
		return fmt.Errorf("failed to debit user %d: %w", from, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check debit result for user %d: %w", from, err)
	}
	if affected == 0 {
		return ledger.ErrInsufficientFunds
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE users SET balance = balance + ? WHERE id = ?`,
		amount, to); err != nil {
		return fmt.Errorf("failed to credit user %d: %w", to, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transfer: %w", err)
	}

	logger.Debug("funds transferred",
		logger.Int64("from", from),
		logger.Int64("to", to),
		logger.Uint64("amount", amount),
	)
	return nil
}
