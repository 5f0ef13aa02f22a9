package integration

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	ledgerapp "github.com/store/backoffice/internal/application/ledger"
	"github.com/store/backoffice/internal/domain/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Concurrent writers against the same location-variant pair must never
// lose an update or drive on-hand stock below what was actually there.
func TestConcurrentAdjustments(t *testing.T) {
	tdb := NewTestDB(t)
	fx := newLedgerFixture(t, tdb)
	ctx := context.Background()

	_, err := fx.service.AdjustQuantity(ctx, fx.tenantID, ledgerapp.AdjustQuantityRequest{
		LocationID:    fx.storeID,
		ItemVariantID: fx.variantID,
		Kind:          string(ledger.KindPurchase),
		Quantity:      decimal.NewFromInt(200),
	})
	require.NoError(t, err)

	const workers = 10

	t.Run("concurrent decrements all land", func(t *testing.T) {
		var wg sync.WaitGroup
		errs := make([]error, workers)

		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, errs[i] = fx.service.AdjustQuantity(ctx, fx.tenantID, ledgerapp.AdjustQuantityRequest{
					LocationID:    fx.storeID,
					ItemVariantID: fx.variantID,
					Kind:          string(ledger.KindSale),
					Quantity:      decimal.NewFromInt(-5),
				})
			}(i)
		}
		wg.Wait()

		succeeded := 0
		for _, err := range errs {
			if err == nil {
				succeeded++
			}
		}

		level, err := fx.service.GetLevel(ctx, fx.tenantID, fx.storeID, fx.variantID)
		require.NoError(t, err)

		expected := decimal.NewFromInt(200).Sub(decimal.NewFromInt(int64(succeeded * 5)))
		assert.True(t, level.QuantityOnHand.Equal(expected),
			"on-hand %s does not match %d successful decrements", level.QuantityOnHand, succeeded)

		rows, total, err := fx.service.ListTransactions(ctx, fx.tenantID, ledgerapp.TransactionListFilter{
			Kind: string(ledger.KindSale), PageSize: 100,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(succeeded), total)
		assert.Len(t, rows, succeeded)
	})

	t.Run("concurrent reservations never exceed available", func(t *testing.T) {
		before, err := fx.service.GetLevel(ctx, fx.tenantID, fx.storeID, fx.variantID)
		require.NoError(t, err)

		var wg sync.WaitGroup
		errs := make([]error, workers)

		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, errs[i] = fx.service.Reserve(ctx, fx.tenantID, ledgerapp.ReserveRequest{
					LocationID:    fx.storeID,
					ItemVariantID: fx.variantID,
					Quantity:      decimal.NewFromInt(10),
				})
			}(i)
		}
		wg.Wait()

		succeeded := 0
		for _, err := range errs {
			if err == nil {
				succeeded++
			}
		}

		after, err := fx.service.GetLevel(ctx, fx.tenantID, fx.storeID, fx.variantID)
		require.NoError(t, err)

		expectedReserved := decimal.NewFromInt(int64(succeeded * 10))
		assert.True(t, after.QuantityReserved.Equal(expectedReserved))
		assert.True(t, after.QuantityAvailable.GreaterThanOrEqual(decimal.Zero))
		assert.True(t, after.QuantityOnHand.Equal(before.QuantityOnHand),
			"reservations must not change on-hand stock")
	})
}
