package model

import "time"

// Beat represents a content record in the marketplace ledger.
// Ids are assigned sequentially starting at 1 and are never reused;
// records are never deleted, unlisting only clears the sale flag.
type Beat struct {
	ID            int64     `json:"id"`
	OwnerID       int64     `json:"ownerId"`
	ContentRef    string    `json:"contentRef"` // opaque key of the stored audio, immutable
	Title         string    `json:"title"`      // immutable
	Price         uint64    `json:"price"`      // smallest currency unit; meaningful only while listed
	IsForSale     bool      `json:"isForSale"`
	NumberOfLikes uint64    `json:"numberOfLikes"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}
