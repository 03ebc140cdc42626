package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"BeatWave/core/ledger"
	"BeatWave/model"
)

// mysqlBeatRepository implements ledger.Repository for MySQL. The beats
// table uses AUTO_INCREMENT starting at 1, which carries the sequential,
// never-reused id contract.
type mysqlBeatRepository struct {
	DB *sql.DB
}

// NewMySQLBeatRepository creates a new instance of mysqlBeatRepository.
func NewMySQLBeatRepository(db *sql.DB) ledger.Repository {
	return &mysqlBeatRepository{DB: db}
}

const beatColumns = `id, owner_id, content_ref, title, price, is_for_sale, number_of_likes, created_at, updated_at`

func scanBeat(row interface{ Scan(dest ...interface{}) error }) (*model.Beat, error) {
	beat := &model.Beat{}
	err := row.Scan(&beat.ID, &beat.OwnerID, &beat.ContentRef, &beat.Title, &beat.Price,
		&beat.IsForSale, &beat.NumberOfLikes, &beat.CreatedAt, &beat.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return beat, nil
}

// CreateBeat adds a new beat record and returns its assigned id.
func (r *mysqlBeatRepository) CreateBeat(ctx context.Context, beat *model.Beat) (int64, error) {
	query := `INSERT INTO beats (owner_id, content_ref, title, price, is_for_sale, number_of_likes, created_at, updated_at)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	stmt, err := r.DB.PrepareContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare statement for CreateBeat: %w", err)
	}
	defer stmt.Close()

	now := time.Now()
	res, err := stmt.ExecContext(ctx, beat.OwnerID, beat.ContentRef, beat.Title, beat.Price, beat.IsForSale, beat.NumberOfLikes, now, now)
	if err != nil {
		return 0, fmt.Errorf("failed to execute CreateBeat: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID for CreateBeat: %w", err)
	}
	beat.ID = id
	beat.CreatedAt = now
	beat.UpdatedAt = now
	return id, nil
}

// GetBeatByID retrieves a beat by its id, or (nil, nil) when missing.
func (r *mysqlBeatRepository) GetBeatByID(ctx context.Context, id int64) (*model.Beat, error) {
	query := `SELECT ` + beatColumns + ` FROM beats WHERE id = ?`
	row := r.DB.QueryRowContext(ctx, query, id)

	beat, err := scanBeat(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // beat not found
		}
		return nil, fmt.Errorf("failed to scan beat by ID %d: %w", id, err)
	}
	return beat, nil
}

// GetAllBeats retrieves every beat record, newest first.
func (r *mysqlBeatRepository) GetAllBeats(ctx context.Context) ([]*model.Beat, error) {
	query := `SELECT ` + beatColumns + ` FROM beats ORDER BY id DESC`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query beats: %w", err)
	}
	defer rows.Close()

	return collectBeats(rows)
}

// GetBeatsByOwnerID retrieves all beats owned by the given user.
func (r *mysqlBeatRepository) GetBeatsByOwnerID(ctx context.Context, ownerID int64) ([]*model.Beat, error) {
	query := `SELECT ` + beatColumns + ` FROM beats WHERE owner_id = ? ORDER BY id DESC`
	rows, err := r.DB.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query beats for owner ID %d: %w", ownerID, err)
	}
	defer rows.Close()

	return collectBeats(rows)
}

func collectBeats(rows *sql.Rows) ([]*model.Beat, error) {
	beats := make([]*model.Beat, 0)
	for rows.Next() {
		beat, err := scanBeat(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan beat row: %w", err)
		}
		beats = append(beats, beat)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during beat rows iteration: %w", err)
	}
	return beats, nil
}

// UpdateListing sets the sale flag and price for a beat.
func (r *mysqlBeatRepository) UpdateListing(ctx context.Context, id int64, isForSale bool, price uint64) error {
	query := `UPDATE beats SET is_for_sale = ?, price = ?, updated_at = ? WHERE id = ?`
	stmt, err := r.DB.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare statement for UpdateListing: %w", err)
	}
	defer stmt.Close()

	_, err = stmt.ExecContext(ctx, isForSale, price, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to execute UpdateListing for beat ID %d: %w", id, err)
	}
	return nil
}

// UpdateOwner sets the owner and sale flag for a beat.
func (r *mysqlBeatRepository) UpdateOwner(ctx context.Context, id int64, newOwner int64, isForSale bool) error {
	query := `UPDATE beats SET owner_id = ?, is_for_sale = ?, updated_at = ? WHERE id = ?`
	stmt, err := r.DB.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare statement for UpdateOwner: %w", err)
	}
	defer stmt.Close()

	_, err = stmt.ExecContext(ctx, newOwner, isForSale, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to execute UpdateOwner for beat ID %d: %w", id, err)
	}
	return nil
}

// IncrementLikes bumps the like counter by one. The counter only grows.
func (r *mysqlBeatRepository) IncrementLikes(ctx context.Context, id int64) error {
	query := `UPDATE beats SET number_of_likes = number_of_likes + 1, updated_at = ? WHERE id = ?`
	_, err := r.DB.ExecContext(ctx, query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to execute IncrementLikes for beat ID %d: %w", id, err)
	}
	return nil
}
