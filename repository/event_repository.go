package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"BeatWave/model"

	"gorm.io/gorm"
)

// EventRepository persists the ledger event journal consumed by indexers.
type EventRepository interface {
	Append(ctx context.Context, event model.Event) error
	ListByBeat(ctx context.Context, beatID int64, limit int) ([]*model.LedgerEvent, error)
	ListRecent(ctx context.Context, limit int) ([]*model.LedgerEvent, error)
}

// gormEventRepository implements EventRepository over GORM.
type gormEventRepository struct {
	DB *gorm.DB
}

// NewGormEventRepository creates a new instance of gormEventRepository.
func NewGormEventRepository(db *gorm.DB) EventRepository {
	return &gormEventRepository{DB: db}
}

// Append journals one emitted event.
func (r *gormEventRepository) Append(ctx context.Context, event model.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event for journal: %w", err)
	}

	row := &model.LedgerEvent{
		Type:      string(event.Type),
		BeatID:    event.BeatID,
		Payload:   string(payload),
		CreatedAt: event.Timestamp,
	}
	if err := r.DB.WithContext(ctx).Create(row).Error; err != nil {
		return fmt.Errorf("failed to journal event: %w", err)
	}
	return nil
}

// ListByBeat returns the journaled events for one beat, newest first.
func (r *gormEventRepository) ListByBeat(ctx context.Context, beatID int64, limit int) ([]*model.LedgerEvent, error) {
	var events []*model.LedgerEvent
	err := r.DB.WithContext(ctx).
		Where("beat_id = ?", beatID).
		Order("id DESC").
		Limit(limit).
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list events for beat %d: %w", beatID, err)
	}
	return events, nil
}

// ListRecent returns the newest journaled events across all beats.
func (r *gormEventRepository) ListRecent(ctx context.Context, limit int) ([]*model.LedgerEvent, error) {
	var events []*model.LedgerEvent
	err := r.DB.WithContext(ctx).
		Order("id DESC").
		Limit(limit).
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list recent events: %w", err)
	}
	return events, nil
}
