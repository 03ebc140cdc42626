package wallet_test

import (
	"context"
	"testing"

	"BeatWave/core/ledger"
	"BeatWave/core/wallet"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryPaymentsTransfer(t *testing.T) {
	payments := wallet.NewMemoryPayments()
	ctx := context.Background()

	payments.Credit(1, 100)

	err := payments.Transfer(ctx, 1, 2, 60)
	require.NoError(t, err)
	assert.Equal(t, uint64(40), payments.Balance(1))
	assert.Equal(t, uint64(60), payments.Balance(2))
}

func TestMemoryPaymentsInsufficientFunds(t *testing.T) {
	payments := wallet.NewMemoryPayments()
	ctx := context.Background()

	payments.Credit(1, 50)

	err := payments.Transfer(ctx, 1, 2, 60)
	assert.ErrorIs(t, err, ledger.ErrInsufficientFunds)

	// nothing moved
	assert.Equal(t, uint64(50), payments.Balance(1))
	assert.Equal(t, uint64(0), payments.Balance(2))
}

func TestMemoryPaymentsZeroAmount(t *testing.T) {
	payments := wallet.NewMemoryPayments()

	err := payments.Transfer(context.Background(), 1, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), payments.Balance(1))
	assert.Equal(t, uint64(0), payments.Balance(2))
}

func TestMemoryPaymentsSelfTransfer(t *testing.T) {
	payments := wallet.NewMemoryPayments()
	ctx := context.Background()

	payments.Credit(1, 100)

	err := payments.Transfer(ctx, 1, 1, 100)
	require.NoError(t, err)
	assert.Equal(t, uint64(100), payments.Balance(1))
}
