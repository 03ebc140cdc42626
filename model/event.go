package model

import "time"

// EventType names a ledger notification.
type EventType string

const (
	EventBeatUploaded      EventType = "BeatUploaded"
	EventBeatListedForSale EventType = "BeatListedForSale"
	EventBeatSold          EventType = "BeatSold"
	EventTransfer          EventType = "Transfer"
)

// Event is a notification emitted on every ledger mutation, consumed by
// external listeners (indexers, UIs). Fields that do not apply to a given
// event type are omitted from the JSON encoding.
type Event struct {
	Type          EventType `json:"type"`
	BeatID        int64     `json:"beatId"`
	OwnerID       int64     `json:"ownerId,omitempty"`
	PreviousOwner int64     `json:"previousOwner,omitempty"`
	NewOwner      int64     `json:"newOwner,omitempty"`
	ContentRef    string    `json:"contentRef,omitempty"`
	Title         string    `json:"title,omitempty"`
	Price         uint64    `json:"price,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

// LedgerEvent is the persisted form of Event, journaled for indexers.
type LedgerEvent struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Type      string    `json:"type" gorm:"size:64;index"`
	BeatID    int64     `json:"beatId" gorm:"index"`
	Payload   string    `json:"payload" gorm:"type:text"` // full Event as JSON
	CreatedAt time.Time `json:"createdAt"`
}

// TableName keeps the journal table name stable.
func (LedgerEvent) TableName() string {
	return "ledger_events"
}
