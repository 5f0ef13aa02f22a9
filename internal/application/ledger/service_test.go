package ledger

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/store/backoffice/internal/domain/ledger"
	"github.com/store/backoffice/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeLevelRepo is an in-memory InventoryLevelRepository
type fakeLevelRepo struct {
	levels map[string]*ledger.InventoryLevel
}

func newFakeLevelRepo() *fakeLevelRepo {
	return &fakeLevelRepo{levels: make(map[string]*ledger.InventoryLevel)}
}

func levelKey(tenantID, locationID, itemVariantID uuid.UUID) string {
	return fmt.Sprintf("%s|%s|%s", tenantID, locationID, itemVariantID)
}

func (r *fakeLevelRepo) FindByKey(_ context.Context, tenantID, locationID, itemVariantID uuid.UUID) (*ledger.InventoryLevel, error) {
	level, ok := r.levels[levelKey(tenantID, locationID, itemVariantID)]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return level, nil
}

func (r *fakeLevelRepo) FindByKeyForUpdate(ctx context.Context, tenantID, locationID, itemVariantID uuid.UUID) (*ledger.InventoryLevel, error) {
	return r.FindByKey(ctx, tenantID, locationID, itemVariantID)
}

func (r *fakeLevelRepo) FindByLocation(_ context.Context, tenantID, locationID uuid.UUID) ([]*ledger.InventoryLevel, error) {
	var out []*ledger.InventoryLevel
	for _, level := range r.levels {
		if level.TenantID == tenantID && level.LocationID == locationID {
			out = append(out, level)
		}
	}
	return out, nil
}

func (r *fakeLevelRepo) FindByVariant(_ context.Context, tenantID, itemVariantID uuid.UUID) ([]*ledger.InventoryLevel, error) {
	var out []*ledger.InventoryLevel
	for _, level := range r.levels {
		if level.TenantID == tenantID && level.ItemVariantID == itemVariantID {
			out = append(out, level)
		}
	}
	return out, nil
}

func (r *fakeLevelRepo) FindAllForTenant(_ context.Context, tenantID uuid.UUID, _ shared.Filter) ([]*ledger.InventoryLevel, error) {
	var out []*ledger.InventoryLevel
	for _, level := range r.levels {
		if level.TenantID == tenantID {
			out = append(out, level)
		}
	}
	return out, nil
}

func (r *fakeLevelRepo) FindLowStock(_ context.Context, tenantID uuid.UUID) ([]*ledger.InventoryLevel, error) {
	var out []*ledger.InventoryLevel
	for _, level := range r.levels {
		if level.TenantID == tenantID && level.IsLowStock() {
			out = append(out, level)
		}
	}
	return out, nil
}

func (r *fakeLevelRepo) GetOrCreate(_ context.Context, tenantID, locationID, itemVariantID uuid.UUID) (*ledger.InventoryLevel, error) {
	key := levelKey(tenantID, locationID, itemVariantID)
	if level, ok := r.levels[key]; ok {
		return level, nil
	}
	level, err := ledger.NewInventoryLevel(tenantID, locationID, itemVariantID)
	if err != nil {
		return nil, err
	}
	r.levels[key] = level
	return level, nil
}

func (r *fakeLevelRepo) Save(_ context.Context, level *ledger.InventoryLevel) error {
	r.levels[levelKey(level.TenantID, level.LocationID, level.ItemVariantID)] = level
	return nil
}

func (r *fakeLevelRepo) SaveWithLock(ctx context.Context, level *ledger.InventoryLevel) error {
	return r.Save(ctx, level)
}

func (r *fakeLevelRepo) CountForTenant(_ context.Context, tenantID uuid.UUID, _ shared.Filter) (int64, error) {
	var n int64
	for _, level := range r.levels {
		if level.TenantID == tenantID {
			n++
		}
	}
	return n, nil
}

// fakeTransactionRepo is an in-memory InventoryTransactionRepository
type fakeTransactionRepo struct {
	rows []*ledger.InventoryTransaction
}

func (r *fakeTransactionRepo) Create(_ context.Context, tx *ledger.InventoryTransaction) error {
	r.rows = append(r.rows, tx)
	return nil
}

func (r *fakeTransactionRepo) FindByID(_ context.Context, tenantID, id uuid.UUID) (*ledger.InventoryTransaction, error) {
	for _, tx := range r.rows {
		if tx.TenantID == tenantID && tx.ID == id {
			return tx, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeTransactionRepo) FindByVariant(_ context.Context, tenantID, itemVariantID uuid.UUID, _ shared.Filter) ([]*ledger.InventoryTransaction, error) {
	var out []*ledger.InventoryTransaction
	for _, tx := range r.rows {
		if tx.TenantID == tenantID && tx.ItemVariantID == itemVariantID {
			out = append(out, tx)
		}
	}
	return out, nil
}

func (r *fakeTransactionRepo) FindByLocation(_ context.Context, tenantID, locationID uuid.UUID, _ shared.Filter) ([]*ledger.InventoryTransaction, error) {
	var out []*ledger.InventoryTransaction
	for _, tx := range r.rows {
		if tx.TenantID == tenantID && tx.LocationID == locationID {
			out = append(out, tx)
		}
	}
	return out, nil
}

func (r *fakeTransactionRepo) FindForTenant(_ context.Context, tenantID uuid.UUID, _ shared.Filter) ([]*ledger.InventoryTransaction, error) {
	var out []*ledger.InventoryTransaction
	for _, tx := range r.rows {
		if tx.TenantID == tenantID {
			out = append(out, tx)
		}
	}
	return out, nil
}

func (r *fakeTransactionRepo) CountForTenant(_ context.Context, tenantID uuid.UUID, _ shared.Filter) (int64, error) {
	var n int64
	for _, tx := range r.rows {
		if tx.TenantID == tenantID {
			n++
		}
	}
	return n, nil
}

// stubResolver resolves from fixed maps, ignoring tenancy
type stubResolver struct {
	locations map[uuid.UUID]*LocationRef
	variants  map[uuid.UUID]*VariantRef
}

func (r *stubResolver) ResolveLocation(_ context.Context, _, locationID uuid.UUID) (*LocationRef, error) {
	if ref, ok := r.locations[locationID]; ok {
		return ref, nil
	}
	return nil, shared.ErrNotFound
}

func (r *stubResolver) ResolveVariant(_ context.Context, _, itemVariantID uuid.UUID) (*VariantRef, error) {
	if ref, ok := r.variants[itemVariantID]; ok {
		return ref, nil
	}
	return nil, shared.ErrNotFound
}

// flakyScope fails the first N executions with a concurrency conflict
type flakyScope struct {
	inner    TransactionScope
	failures int
	calls    int
}

func (s *flakyScope) Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error {
	s.calls++
	if s.calls <= s.failures {
		return shared.ErrConcurrencyConflict
	}
	return s.inner.Execute(ctx, fn)
}

type fixture struct {
	service   *Service
	levelRepo *fakeLevelRepo
	txRepo    *fakeTransactionRepo
	tenantID  uuid.UUID
	storeID   uuid.UUID
	depotID   uuid.UUID
	variantID uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		levelRepo: newFakeLevelRepo(),
		txRepo:    &fakeTransactionRepo{},
		tenantID:  uuid.New(),
		storeID:   uuid.New(),
		depotID:   uuid.New(),
		variantID: uuid.New(),
	}
	resolver := &stubResolver{
		locations: map[uuid.UUID]*LocationRef{
			f.storeID: {ID: f.storeID, Name: "Downtown Store"},
			f.depotID: {ID: f.depotID, Name: "Central Depot"},
		},
		variants: map[uuid.UUID]*VariantRef{
			f.variantID: {ID: f.variantID, SKU: "TSHIRT-01-M-BLK", ItemName: "Crew Neck Tee", VariantName: "Medium / Black"},
		},
	}
	scope := NewNoOpTransactionScope(f.levelRepo, f.txRepo)
	f.service = NewService(f.levelRepo, f.txRepo, scope, resolver)
	return f
}

func (f *fixture) seedLevel(t *testing.T, locationID uuid.UUID, onHand, reserved int64) {
	t.Helper()
	level, err := ledger.NewInventoryLevel(f.tenantID, locationID, f.variantID)
	require.NoError(t, err)
	level.QuantityOnHand = decimal.NewFromInt(onHand)
	level.QuantityReserved = decimal.NewFromInt(reserved)
	require.NoError(t, f.levelRepo.Save(context.Background(), level))
}

func TestService_AdjustQuantity(t *testing.T) {
	ctx := context.Background()

	t.Run("purchase creates the level and a ledger row", func(t *testing.T) {
		f := newFixture(t)

		resp, err := f.service.AdjustQuantity(ctx, f.tenantID, AdjustQuantityRequest{
			LocationID:    f.storeID,
			ItemVariantID: f.variantID,
			Kind:          "PURCHASE",
			Quantity:      decimal.NewFromInt(25),
			ReferenceType: "PURCHASE_ORDER",
			ReferenceID:   "PO-1001",
		})

		require.NoError(t, err)
		assert.Equal(t, decimal.NewFromInt(25), resp.QuantityOnHand)
		assert.Equal(t, "Downtown Store", resp.LocationName)
		assert.Equal(t, "TSHIRT-01-M-BLK", resp.SKU)

		require.Len(t, f.txRepo.rows, 1)
		row := f.txRepo.rows[0]
		assert.Equal(t, ledger.KindPurchase, row.Kind)
		assert.Equal(t, decimal.NewFromInt(25), row.Quantity)
		assert.Equal(t, "PO-1001", row.ReferenceID)
	})

	t.Run("sale beyond available fails with decorated error", func(t *testing.T) {
		f := newFixture(t)
		f.seedLevel(t, f.storeID, 10, 5)

		_, err := f.service.AdjustQuantity(ctx, f.tenantID, AdjustQuantityRequest{
			LocationID:    f.storeID,
			ItemVariantID: f.variantID,
			Kind:          "SALE",
			Quantity:      decimal.NewFromInt(-6),
		})

		require.Error(t, err)
		var insufficientErr *ledger.InsufficientInventoryError
		require.True(t, errors.As(err, &insufficientErr))
		assert.Equal(t, "TSHIRT-01-M-BLK", insufficientErr.SKU)
		assert.Equal(t, "Downtown Store", insufficientErr.LocationName)
		assert.Equal(t, decimal.NewFromInt(5), insufficientErr.Available)
		assert.Empty(t, f.txRepo.rows)
	})

	t.Run("count stamps the level with the count time", func(t *testing.T) {
		f := newFixture(t)
		f.seedLevel(t, f.storeID, 10, 0)

		resp, err := f.service.AdjustQuantity(ctx, f.tenantID, AdjustQuantityRequest{
			LocationID:    f.storeID,
			ItemVariantID: f.variantID,
			Kind:          "COUNT",
			Quantity:      decimal.NewFromInt(2),
		})

		require.NoError(t, err)
		assert.NotNil(t, resp.LastCountedAt)
		assert.Equal(t, decimal.NewFromInt(12), resp.QuantityOnHand)
	})

	t.Run("accepts a single transfer leg", func(t *testing.T) {
		f := newFixture(t)
		f.seedLevel(t, f.storeID, 10, 0)

		resp, err := f.service.AdjustQuantity(ctx, f.tenantID, AdjustQuantityRequest{
			LocationID:    f.storeID,
			ItemVariantID: f.variantID,
			Kind:          "TRANSFER_OUT",
			Quantity:      decimal.NewFromInt(-4),
			ReferenceType: "TRANSFER",
			ReferenceID:   "TR-7",
		})

		require.NoError(t, err)
		assert.Equal(t, decimal.NewFromInt(6), resp.QuantityOnHand)

		require.Len(t, f.txRepo.rows, 1)
		assert.Equal(t, ledger.KindTransferOut, f.txRepo.rows[0].Kind)
	})

	t.Run("rejects zero quantity", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.service.AdjustQuantity(ctx, f.tenantID, AdjustQuantityRequest{
			LocationID:    f.storeID,
			ItemVariantID: f.variantID,
			Kind:          "ADJUSTMENT",
			Quantity:      decimal.Zero,
		})

		require.Error(t, err)
	})

	t.Run("unknown location yields not found", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.service.AdjustQuantity(ctx, f.tenantID, AdjustQuantityRequest{
			LocationID:    uuid.New(),
			ItemVariantID: f.variantID,
			Kind:          "ADJUSTMENT",
			Quantity:      decimal.NewFromInt(1),
		})

		require.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestService_Reserve(t *testing.T) {
	ctx := context.Background()

	t.Run("reserve moves available into reserved and records a zero-quantity row", func(t *testing.T) {
		f := newFixture(t)
		f.seedLevel(t, f.storeID, 20, 0)

		resp, err := f.service.Reserve(ctx, f.tenantID, ReserveRequest{
			LocationID:    f.storeID,
			ItemVariantID: f.variantID,
			Quantity:      decimal.NewFromInt(5),
			ReferenceType: "SALES_ORDER",
			ReferenceID:   "SO-42",
		})

		require.NoError(t, err)
		assert.Equal(t, decimal.NewFromInt(5), resp.QuantityReserved)
		assert.Equal(t, decimal.NewFromInt(20), resp.QuantityOnHand)
		assert.Equal(t, decimal.NewFromInt(15), resp.QuantityAvailable)

		require.Len(t, f.txRepo.rows, 1)
		row := f.txRepo.rows[0]
		assert.Equal(t, ledger.KindTransferOut, row.Kind)
		assert.True(t, row.Quantity.IsZero())
		assert.Equal(t, "Reserved 5 units", row.Notes)
		assert.Equal(t, "SO-42", row.ReferenceID)
	})

	t.Run("reserve beyond available fails", func(t *testing.T) {
		f := newFixture(t)
		f.seedLevel(t, f.storeID, 10, 8)

		_, err := f.service.Reserve(ctx, f.tenantID, ReserveRequest{
			LocationID:    f.storeID,
			ItemVariantID: f.variantID,
			Quantity:      decimal.NewFromInt(3),
		})

		require.Error(t, err)
		var insufficientErr *ledger.InsufficientInventoryError
		require.True(t, errors.As(err, &insufficientErr))
		assert.Equal(t, decimal.NewFromInt(2), insufficientErr.Available)
		assert.Empty(t, f.txRepo.rows)
	})
}

func TestService_Release(t *testing.T) {
	ctx := context.Background()

	t.Run("release returns reserved stock and records a zero-quantity row", func(t *testing.T) {
		f := newFixture(t)
		f.seedLevel(t, f.storeID, 20, 5)

		resp, err := f.service.Release(ctx, f.tenantID, ReleaseRequest{
			LocationID:    f.storeID,
			ItemVariantID: f.variantID,
			Quantity:      decimal.NewFromInt(3),
		})

		require.NoError(t, err)
		assert.Equal(t, decimal.NewFromInt(2), resp.QuantityReserved)

		require.Len(t, f.txRepo.rows, 1)
		row := f.txRepo.rows[0]
		assert.Equal(t, ledger.KindTransferIn, row.Kind)
		assert.True(t, row.Quantity.IsZero())
		assert.Equal(t, "Released 3 units from reservation", row.Notes)
	})

	t.Run("release without a level row is not found", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.service.Release(ctx, f.tenantID, ReleaseRequest{
			LocationID:    f.storeID,
			ItemVariantID: f.variantID,
			Quantity:      decimal.NewFromInt(1),
		})

		require.ErrorIs(t, err, shared.ErrNotFound)
		assert.Empty(t, f.levelRepo.levels)
	})

	t.Run("release beyond reserved is an invalid operation", func(t *testing.T) {
		f := newFixture(t)
		f.seedLevel(t, f.storeID, 20, 2)

		_, err := f.service.Release(ctx, f.tenantID, ReleaseRequest{
			LocationID:    f.storeID,
			ItemVariantID: f.variantID,
			Quantity:      decimal.NewFromInt(5),
		})

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "INVALID_OPERATION", domainErr.Code)
		assert.Empty(t, f.txRepo.rows)
	})
}

func TestService_Transfer(t *testing.T) {
	ctx := context.Background()

	t.Run("transfer moves stock and records both legs", func(t *testing.T) {
		f := newFixture(t)
		f.seedLevel(t, f.storeID, 30, 0)

		err := f.service.Transfer(ctx, f.tenantID, TransferRequest{
			SourceLocationID:      f.storeID,
			DestinationLocationID: f.depotID,
			ItemVariantID:         f.variantID,
			Quantity:              decimal.NewFromInt(10),
			Notes:                 "restock",
		})

		require.NoError(t, err)

		source, err := f.levelRepo.FindByKey(ctx, f.tenantID, f.storeID, f.variantID)
		require.NoError(t, err)
		assert.Equal(t, decimal.NewFromInt(20), source.QuantityOnHand)

		dest, err := f.levelRepo.FindByKey(ctx, f.tenantID, f.depotID, f.variantID)
		require.NoError(t, err)
		assert.Equal(t, decimal.NewFromInt(10), dest.QuantityOnHand)

		require.Len(t, f.txRepo.rows, 2)
		outRow, inRow := f.txRepo.rows[0], f.txRepo.rows[1]
		assert.Equal(t, ledger.KindTransferOut, outRow.Kind)
		assert.Equal(t, decimal.NewFromInt(-10), outRow.Quantity)
		assert.Equal(t, "Transfer to Central Depot: restock", outRow.Notes)
		assert.Equal(t, ledger.KindTransferIn, inRow.Kind)
		assert.Equal(t, decimal.NewFromInt(10), inRow.Quantity)
		assert.Equal(t, "Transfer from Downtown Store: restock", inRow.Notes)
		assert.Equal(t, "TRANSFER", outRow.ReferenceType)
		assert.Equal(t, outRow.ReferenceID, inRow.ReferenceID)
		assert.NotEmpty(t, outRow.ReferenceID)
	})

	t.Run("transfer beyond source stock fails before any write", func(t *testing.T) {
		f := newFixture(t)
		f.seedLevel(t, f.storeID, 3, 0)

		err := f.service.Transfer(ctx, f.tenantID, TransferRequest{
			SourceLocationID:      f.storeID,
			DestinationLocationID: f.depotID,
			ItemVariantID:         f.variantID,
			Quantity:              decimal.NewFromInt(10),
		})

		require.Error(t, err)
		var insufficientErr *ledger.InsufficientInventoryError
		require.True(t, errors.As(err, &insufficientErr))
		assert.Equal(t, "Downtown Store", insufficientErr.LocationName)
		assert.Empty(t, f.txRepo.rows)
	})

	t.Run("transfer to the same location is rejected", func(t *testing.T) {
		f := newFixture(t)

		err := f.service.Transfer(ctx, f.tenantID, TransferRequest{
			SourceLocationID:      f.storeID,
			DestinationLocationID: f.storeID,
			ItemVariantID:         f.variantID,
			Quantity:              decimal.NewFromInt(1),
		})

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "INVALID_OPERATION", domainErr.Code)
	})

	t.Run("non-positive quantity is rejected", func(t *testing.T) {
		f := newFixture(t)

		err := f.service.Transfer(ctx, f.tenantID, TransferRequest{
			SourceLocationID:      f.storeID,
			DestinationLocationID: f.depotID,
			ItemVariantID:         f.variantID,
			Quantity:              decimal.Zero,
		})

		require.Error(t, err)
	})
}

func TestService_GetLevel(t *testing.T) {
	ctx := context.Background()

	t.Run("missing pair returns zero view without creating a row", func(t *testing.T) {
		f := newFixture(t)

		resp, err := f.service.GetLevel(ctx, f.tenantID, f.storeID, f.variantID)

		require.NoError(t, err)
		assert.True(t, resp.QuantityOnHand.IsZero())
		assert.True(t, resp.QuantityAvailable.IsZero())
		assert.Equal(t, "Downtown Store", resp.LocationName)
		assert.Equal(t, uuid.Nil, resp.ID)
		assert.Empty(t, f.levelRepo.levels)
	})

	t.Run("existing pair returns stored quantities", func(t *testing.T) {
		f := newFixture(t)
		f.seedLevel(t, f.storeID, 42, 7)

		resp, err := f.service.GetLevel(ctx, f.tenantID, f.storeID, f.variantID)

		require.NoError(t, err)
		assert.Equal(t, decimal.NewFromInt(42), resp.QuantityOnHand)
		assert.Equal(t, decimal.NewFromInt(35), resp.QuantityAvailable)
		assert.Equal(t, "Crew Neck Tee", resp.ItemName)
	})

	t.Run("unknown variant yields not found", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.service.GetLevel(ctx, f.tenantID, f.storeID, uuid.New())

		require.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestService_SetReorderPolicy(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	resp, err := f.service.SetReorderPolicy(ctx, f.tenantID, SetReorderPolicyRequest{
		LocationID:      f.storeID,
		ItemVariantID:   f.variantID,
		ReorderPoint:    decimal.NewFromInt(10),
		ReorderQuantity: decimal.NewFromInt(50),
	})

	require.NoError(t, err)
	assert.Equal(t, decimal.NewFromInt(10), resp.ReorderPoint)
	assert.True(t, resp.LowStock) // zero on-hand is at or below the new point
	assert.Empty(t, f.txRepo.rows)
}

func TestService_LowStock(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seedLevel(t, f.storeID, 10, 0)

	_, err := f.service.SetReorderPolicy(ctx, f.tenantID, SetReorderPolicyRequest{
		LocationID:      f.storeID,
		ItemVariantID:   f.variantID,
		ReorderPoint:    decimal.NewFromInt(10),
		ReorderQuantity: decimal.NewFromInt(40),
	})
	require.NoError(t, err)

	levels, err := f.service.LowStock(ctx, f.tenantID)

	require.NoError(t, err)
	require.Len(t, levels, 1)
	assert.True(t, levels[0].LowStock)
	assert.Equal(t, "Downtown Store", levels[0].LocationName)
}

func TestService_ListTransactions(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seedLevel(t, f.storeID, 50, 0)

	_, err := f.service.AdjustQuantity(ctx, f.tenantID, AdjustQuantityRequest{
		LocationID:    f.storeID,
		ItemVariantID: f.variantID,
		Kind:          "SALE",
		Quantity:      decimal.NewFromInt(-5),
	})
	require.NoError(t, err)

	rows, total, err := f.service.ListTransactions(ctx, f.tenantID, TransactionListFilter{
		ItemVariantID: &f.variantID,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, rows, 1)
	assert.Equal(t, "SALE", rows[0].Kind)
	assert.Equal(t, decimal.NewFromInt(-5), rows[0].Quantity)
}

func TestService_RetriesConcurrencyConflicts(t *testing.T) {
	ctx := context.Background()

	t.Run("succeeds after transient conflicts", func(t *testing.T) {
		f := newFixture(t)
		flaky := &flakyScope{inner: NewNoOpTransactionScope(f.levelRepo, f.txRepo), failures: 2}
		resolver := &stubResolver{
			locations: map[uuid.UUID]*LocationRef{f.storeID: {ID: f.storeID, Name: "Downtown Store"}},
			variants:  map[uuid.UUID]*VariantRef{f.variantID: {ID: f.variantID, SKU: "SKU-1"}},
		}
		service := NewService(f.levelRepo, f.txRepo, flaky, resolver)

		_, err := service.AdjustQuantity(ctx, f.tenantID, AdjustQuantityRequest{
			LocationID:    f.storeID,
			ItemVariantID: f.variantID,
			Kind:          "PURCHASE",
			Quantity:      decimal.NewFromInt(1),
		})

		require.NoError(t, err)
		assert.Equal(t, 3, flaky.calls)
	})

	t.Run("gives up after repeated conflicts", func(t *testing.T) {
		f := newFixture(t)
		flaky := &flakyScope{inner: NewNoOpTransactionScope(f.levelRepo, f.txRepo), failures: 10}
		resolver := &stubResolver{
			locations: map[uuid.UUID]*LocationRef{f.storeID: {ID: f.storeID, Name: "Downtown Store"}},
			variants:  map[uuid.UUID]*VariantRef{f.variantID: {ID: f.variantID, SKU: "SKU-1"}},
		}
		service := NewService(f.levelRepo, f.txRepo, flaky, resolver)

		_, err := service.AdjustQuantity(ctx, f.tenantID, AdjustQuantityRequest{
			LocationID:    f.storeID,
			ItemVariantID: f.variantID,
			Kind:          "PURCHASE",
			Quantity:      decimal.NewFromInt(1),
		})

		require.ErrorIs(t, err, shared.ErrConcurrencyConflict)
		assert.Equal(t, maxMutationAttempts, flaky.calls)
	})
}
