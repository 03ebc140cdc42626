package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"BeatWave/model"
)

// MemoryBeatRepository is an in-memory ledger.Repository, used by tests
// and local development. Ids start at 1 and are never reused, matching
// the MySQL implementation.
type MemoryBeatRepository struct {
	mu     sync.RWMutex
	beats  map[int64]*model.Beat
	nextID int64
}

// NewMemoryBeatRepository creates an empty in-memory beat repository.
func NewMemoryBeatRepository() *MemoryBeatRepository {
	return &MemoryBeatRepository{
		beats:  make(map[int64]*model.Beat),
		nextID: 1,
	}
}

func cloneBeat(beat *model.Beat) *model.Beat {
	copied := *beat
	return &copied
}

// CreateBeat stores a new beat and returns its assigned id.
func (r *MemoryBeatRepository) CreateBeat(ctx context.Context, beat *model.Beat) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	stored := cloneBeat(beat)
	stored.ID = r.nextID
	stored.CreatedAt = now
	stored.UpdatedAt = now
	r.beats[stored.ID] = stored
	r.nextID++

	beat.ID = stored.ID
	beat.CreatedAt = now
	beat.UpdatedAt = now
	return stored.ID, nil
}

// GetBeatByID returns the beat with the given id, or (nil, nil) when missing.
func (r *MemoryBeatRepository) GetBeatByID(ctx context.Context, id int64) (*model.Beat, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	beat, ok := r.beats[id]
	if !ok {
		return nil, nil
	}
	return cloneBeat(beat), nil
}

// GetAllBeats returns every stored beat, newest first.
func (r *MemoryBeatRepository) GetAllBeats(ctx context.Context) ([]*model.Beat, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	beats := make([]*model.Beat, 0, len(r.beats))
	for _, beat := range r.beats {
		beats = append(beats, cloneBeat(beat))
	}
	sort.Slice(beats, func(i, j int) bool { return beats[i].ID > beats[j].ID })
	return beats, nil
}

// GetBeatsByOwnerID returns all beats owned by the given user, newest first.
func (r *MemoryBeatRepository) GetBeatsByOwnerID(ctx context.Context, ownerID int64) ([]*model.Beat, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	beats := make([]*model.Beat, 0)
	for _, beat := range r.beats {
		if beat.OwnerID == ownerID {
			beats = append(beats, cloneBeat(beat))
		}
	}
	sort.Slice(beats, func(i, j int) bool { return beats[i].ID > beats[j].ID })
	return beats, nil
}

// UpdateListing sets the sale flag and price for a beat.
func (r *MemoryBeatRepository) UpdateListing(ctx context.Context, id int64, isForSale bool, price uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	beat, ok := r.beats[id]
	if !ok {
		return nil // the ledger has already checked existence
	}
	beat.IsForSale = isForSale
	beat.Price = price
	beat.UpdatedAt = time.Now()
	return nil
}

// UpdateOwner sets the owner and sale flag for a beat.
func (r *MemoryBeatRepository) UpdateOwner(ctx context.Context, id int64, newOwner int64, isForSale bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	beat, ok := r.beats[id]
	if !ok {
		return nil
	}
	beat.OwnerID = newOwner
	beat.IsForSale = isForSale
	beat.UpdatedAt = time.Now()
	return nil
}

// IncrementLikes bumps the like counter by one.
func (r *MemoryBeatRepository) IncrementLikes(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	beat, ok := r.beats[id]
	if !ok {
		return nil
	}
	beat.NumberOfLikes++
	beat.UpdatedAt = time.Now()
	return nil
}
