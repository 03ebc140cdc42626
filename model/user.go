package model

import (
	"database/sql"
	"time"
)

// User is a registered account. The account id doubles as the ledger
// principal: beats are owned by user ids and sale proceeds are credited
// to the owner's wallet balance.
type User struct {
	ID           int64          `json:"id"`
	Username     string         `json:"username"`
	Email        string         `json:"email"`
	PasswordHash string         `json:"-"`
	Balance      uint64         `json:"balance"` // wallet, smallest currency unit
	Phone        sql.NullString `json:"phone,omitempty"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
}
