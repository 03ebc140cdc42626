package ledger_test

import (
	"context"
	"errors"
	"testing"

	"BeatWave/core/ledger"
	"BeatWave/core/wallet"
	"BeatWave/model"
	"BeatWave/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingOwnerRepo wraps the memory repository and fails the ownership
// write, simulating a storage fault in the middle of a sale.
type failingOwnerRepo struct {
	*repository.MemoryBeatRepository
}

func (r *failingOwnerRepo) UpdateOwner(ctx context.Context, id int64, newOwner int64, isForSale bool) error {
	return errors.New("storage unavailable")
}

func TestBuyBeatRefundsWhenSaleDoesNotCommit(t *testing.T) {
	repo := &failingOwnerRepo{repository.NewMemoryBeatRepository()}
	payments := wallet.NewMemoryPayments()
	emitter := &recordingEmitter{}
	store := ledger.NewStore(repo, payments, emitter)
	ctx := context.Background()

	beat := &model.Beat{OwnerID: alice, ContentRef: "cid123", Title: "My beat"}
	id, err := repo.MemoryBeatRepository.CreateBeat(ctx, beat)
	require.NoError(t, err)
	require.NoError(t, repo.MemoryBeatRepository.UpdateListing(ctx, id, true, oneCoin))

	payments.Credit(bob, 2*oneCoin)
	before := emitter.count()

	err = store.BuyBeat(ctx, bob, id, oneCoin)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ledger.ErrIncorrectPrice)

	// The payment was refunded and no sale event was emitted.
	assert.Equal(t, 2*oneCoin, payments.Balance(bob))
	assert.Equal(t, uint64(0), payments.Balance(alice))
	assert.Equal(t, before, emitter.count())

	stored, err := repo.MemoryBeatRepository.GetBeatByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, alice, stored.OwnerID)
	assert.True(t, stored.IsForSale)
}
