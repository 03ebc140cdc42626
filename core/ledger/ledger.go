package ledger

import (
	"context"
	"fmt"
	"sync"
	"time"

	"BeatWave/logger"
	"BeatWave/model"
)

// Repository defines the interface for beat record storage. Implementations
// must assign ids sequentially starting at 1 and never reuse them.
// GetBeatByID returns (nil, nil) when the id has no record.
type Repository interface {
	CreateBeat(ctx context.Context, beat *model.Beat) (int64, error)
	GetBeatByID(ctx context.Context, id int64) (*model.Beat, error)
	GetAllBeats(ctx context.Context) ([]*model.Beat, error)
	GetBeatsByOwnerID(ctx context.Context, ownerID int64) ([]*model.Beat, error)
	UpdateListing(ctx context.Context, id int64, isForSale bool, price uint64) error
	UpdateOwner(ctx context.Context, id int64, newOwner int64, isForSale bool) error
	IncrementLikes(ctx context.Context, id int64) error
}

// Payments moves funds between principals. Transfer must either move the
// full amount or leave both balances untouched, returning
// ErrInsufficientFunds when the payer cannot cover it.
type Payments interface {
	Transfer(ctx context.Context, from, to int64, amount uint64) error
}

// Emitter receives a notification for every committed mutation.
type Emitter interface {
	Emit(event model.Event)
}

// Store is the marketplace ledger. It owns the authoritative record set
// and enforces the authorization and payment rules that gate every
// mutation. Mutations are serialized by an internal mutex so each one is
// a single indivisible transaction against the shared record set.
type Store struct {
	mu       sync.Mutex
	repo     Repository
	payments Payments
	emitter  Emitter
}

// NewStore creates a ledger store over the given collaborators.
func NewStore(repo Repository, payments Payments, emitter Emitter) *Store {
	return &Store{
		repo:     repo,
		payments: payments,
		emitter:  emitter,
	}
}

func (s *Store) emit(event model.Event) {
	if s.emitter != nil {
		event.Timestamp = time.Now()
		s.emitter.Emit(event)
	}
}

// getExisting loads a beat and normalizes the missing case to ErrBeatNotFound.
func (s *Store) getExisting(ctx context.Context, id int64) (*model.Beat, error) {
	beat, err := s.repo.GetBeatByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load beat %d: %w", id, err)
	}
	if beat == nil {
		return nil, ErrBeatNotFound
	}
	return beat, nil
}

// UploadBeat registers a new beat owned by the caller. The new record is
// not for sale and has no likes; the given price is retained but inert
// until the beat is listed. Any caller may upload.
func (s *Store) UploadBeat(ctx context.Context, caller int64, contentRef, title string, price uint64) (int64, error) {
	if contentRef == "" {
		return 0, ErrEmptyContentRef
	}
	if title == "" {
		return 0, ErrEmptyTitle
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	beat := &model.Beat{
		OwnerID:    caller,
		ContentRef: contentRef,
		Title:      title,
		Price:      price,
	}
	id, err := s.repo.CreateBeat(ctx, beat)
	if err != nil {
		return 0, fmt.Errorf("failed to create beat: %w", err)
	}

	logger.Info("beat uploaded",
		logger.Int64("beatId", id),
		logger.Int64("ownerId", caller),
		logger.String("title", title),
	)

	s.emit(model.Event{
		Type:       model.EventBeatUploaded,
		BeatID:     id,
		OwnerID:    caller,
		ContentRef: contentRef,
		Title:      title,
		Price:      price,
	})
	return id, nil
}

// ListBeatForSale puts the caller's beat on the market at the given price.
func (s *Store) ListBeatForSale(ctx context.Context, caller, id int64, price uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	beat, err := s.getExisting(ctx, id)
	if err != nil {
		return err
	}
	if beat.OwnerID != caller {
		return ErrNotOwner
	}

	if err := s.repo.UpdateListing(ctx, id, true, price); err != nil {
		return fmt.Errorf("failed to list beat %d: %w", id, err)
	}

	logger.Info("beat listed for sale",
		logger.Int64("beatId", id),
		logger.Int64("ownerId", caller),
		logger.Uint64("price", price),
	)

	s.emit(model.Event{
		Type:    model.EventBeatListedForSale,
		BeatID:  id,
		OwnerID: caller,
		Price:   price,
	})
	return nil
}

// DeleteBeatForSale takes the caller's beat off the market. The record
// itself is never removed and the stale price is retained.
func (s *Store) DeleteBeatForSale(ctx context.Context, caller, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	beat, err := s.getExisting(ctx, id)
	if err != nil {
		return err
	}
	if beat.OwnerID != caller {
		return ErrNotOwner
	}

	if err := s.repo.UpdateListing(ctx, id, false, beat.Price); err != nil {
		return fmt.Errorf("failed to unlist beat %d: %w", id, err)
	}

	logger.Info("beat unlisted",
		logger.Int64("beatId", id),
		logger.Int64("ownerId", caller),
	)
	return nil
}

// BuyBeat sells a listed beat to the caller. The payment must match the
// listed price exactly. Funds move to the previous owner first; if the
// ownership write then fails the payment is refunded, so a failed purchase
// leaves both the ledger and the balances untouched.
func (s *Store) BuyBeat(ctx context.Context, caller, id int64, payment uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	beat, err := s.getExisting(ctx, id)
	if err != nil {
		return err
	}
	if !beat.IsForSale {
		return ErrNotForSale
	}
	if payment != beat.Price {
		return ErrIncorrectPrice
	}

	seller := beat.OwnerID
	if err := s.payments.Transfer(ctx, caller, seller, beat.Price); err != nil {
		return err
	}

	if err := s.repo.UpdateOwner(ctx, id, caller, false); err != nil {
		// Funds moved but the sale did not commit; give them back.
		if refundErr := s.payments.Transfer(ctx, seller, caller, beat.Price); refundErr != nil {
			logger.Error("refund after failed sale did not go through",
				logger.Int64("beatId", id),
				logger.Int64("buyerId", caller),
				logger.Int64("sellerId", seller),
				logger.ErrorField(refundErr),
			)
		}
		return fmt.Errorf("failed to record sale of beat %d: %w", id, err)
	}

	logger.Info("beat sold",
		logger.Int64("beatId", id),
		logger.Int64("sellerId", seller),
		logger.Int64("buyerId", caller),
		logger.Uint64("price", beat.Price),
	)

	s.emit(model.Event{
		Type:          model.EventBeatSold,
		BeatID:        id,
		PreviousOwner: seller,
		NewOwner:      caller,
		Price:         beat.Price,
	})
	return nil
}

// LikeBeat increments the like counter. Any caller may like any beat,
// repeatedly; the counter only ever grows.
func (s *Store) LikeBeat(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.getExisting(ctx, id); err != nil {
		return err
	}
	if err := s.repo.IncrementLikes(ctx, id); err != nil {
		return fmt.Errorf("failed to like beat %d: %w", id, err)
	}
	return nil
}

// TransferOwner hands the caller's beat to another principal without
// payment. The sale flag is left as-is.
func (s *Store) TransferOwner(ctx context.Context, caller, id, newOwner int64) error {
	if newOwner <= 0 {
		return ErrInvalidRecipient
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	beat, err := s.getExisting(ctx, id)
	if err != nil {
		return err
	}
	if beat.OwnerID != caller {
		return ErrNotOwner
	}
	if newOwner == caller {
		return ErrInvalidRecipient
	}

	if err := s.repo.UpdateOwner(ctx, id, newOwner, beat.IsForSale); err != nil {
		return fmt.Errorf("failed to transfer beat %d: %w", id, err)
	}

	logger.Info("beat ownership transferred",
		logger.Int64("beatId", id),
		logger.Int64("previousOwner", caller),
		logger.Int64("newOwner", newOwner),
	)

	s.emit(model.Event{
		Type:          model.EventTransfer,
		BeatID:        id,
		PreviousOwner: caller,
		NewOwner:      newOwner,
	})
	return nil
}

// GetBeat returns the current record for id, or ErrBeatNotFound.
func (s *Store) GetBeat(ctx context.Context, id int64) (*model.Beat, error) {
	return s.getExisting(ctx, id)
}

// Browse returns all beats, optionally only those currently for sale.
func (s *Store) Browse(ctx context.Context, forSaleOnly bool) ([]*model.Beat, error) {
	beats, err := s.repo.GetAllBeats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to browse beats: %w", err)
	}
	if !forSaleOnly {
		return beats, nil
	}
	listed := make([]*model.Beat, 0, len(beats))
	for _, beat := range beats {
		if beat.IsForSale {
			listed = append(listed, beat)
		}
	}
	return listed, nil
}

// BeatsByOwner returns every beat currently owned by the given principal.
func (s *Store) BeatsByOwner(ctx context.Context, ownerID int64) ([]*model.Beat, error) {
	beats, err := s.repo.GetBeatsByOwnerID(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load beats for owner %d: %w", ownerID, err)
	}
	return beats, nil
}
