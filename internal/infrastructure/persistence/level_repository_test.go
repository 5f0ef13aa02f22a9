package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/store/backoffice/internal/domain/ledger"
	"github.com/store/backoffice/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockDB creates a GORM handle backed by sqlmock
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return gormDB, mock, mockDB
}

func levelColumns() []string {
	return []string{
		"id", "tenant_id", "location_id", "item_variant_id",
		"quantity_on_hand", "quantity_reserved",
		"reorder_point", "reorder_quantity", "version",
	}
}

func TestGormInventoryLevelRepository_FindByKey(t *testing.T) {
	t.Run("finds existing level", func(t *testing.T) {
		db, mock, sqlDB := newMockDB(t)
		defer sqlDB.Close()
		repo := NewGormInventoryLevelRepository(db)

		levelID := uuid.New()
		tenantID := uuid.New()
		locationID := uuid.New()
		variantID := uuid.New()

		rows := sqlmock.NewRows(levelColumns()).AddRow(
			levelID, tenantID, locationID, variantID,
			decimal.NewFromInt(40), decimal.NewFromInt(5),
			decimal.NewFromInt(10), decimal.NewFromInt(25), 3,
		)

		mock.ExpectQuery(`SELECT \* FROM "inventory_levels" WHERE tenant_id = \$1 AND location_id = \$2 AND item_variant_id = \$3`).
			WithArgs(tenantID, locationID, variantID, 1).
			WillReturnRows(rows)

		level, err := repo.FindByKey(context.Background(), tenantID, locationID, variantID)

		assert.NoError(t, err)
		require.NotNil(t, level)
		assert.Equal(t, levelID, level.ID)
		assert.True(t, level.QuantityOnHand.Equal(decimal.NewFromInt(40)))
		assert.Equal(t, 3, level.Version)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns not found for missing pair", func(t *testing.T) {
		db, mock, sqlDB := newMockDB(t)
		defer sqlDB.Close()
		repo := NewGormInventoryLevelRepository(db)

		tenantID := uuid.New()
		locationID := uuid.New()
		variantID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "inventory_levels" WHERE tenant_id = \$1 AND location_id = \$2 AND item_variant_id = \$3`).
			WithArgs(tenantID, locationID, variantID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		level, err := repo.FindByKey(context.Background(), tenantID, locationID, variantID)

		assert.Nil(t, level)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormInventoryLevelRepository_FindByKeyForUpdate(t *testing.T) {
	t.Run("locks the row", func(t *testing.T) {
		db, mock, sqlDB := newMockDB(t)
		defer sqlDB.Close()
		repo := NewGormInventoryLevelRepository(db)

		tenantID := uuid.New()
		locationID := uuid.New()
		variantID := uuid.New()

		rows := sqlmock.NewRows(levelColumns()).AddRow(
			uuid.New(), tenantID, locationID, variantID,
			decimal.NewFromInt(12), decimal.Zero,
			decimal.Zero, decimal.Zero, 1,
		)

		mock.ExpectQuery(`SELECT \* FROM "inventory_levels" WHERE tenant_id = \$1 AND location_id = \$2 AND item_variant_id = \$3 .* FOR UPDATE`).
			WithArgs(tenantID, locationID, variantID, 1).
			WillReturnRows(rows)

		level, err := repo.FindByKeyForUpdate(context.Background(), tenantID, locationID, variantID)

		assert.NoError(t, err)
		require.NotNil(t, level)
		assert.True(t, level.QuantityOnHand.Equal(decimal.NewFromInt(12)))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormInventoryLevelRepository_FindLowStock(t *testing.T) {
	t.Run("returns only levels at or below their reorder point", func(t *testing.T) {
		db, mock, sqlDB := newMockDB(t)
		defer sqlDB.Close()
		repo := NewGormInventoryLevelRepository(db)

		tenantID := uuid.New()

		rows := sqlmock.NewRows(levelColumns()).AddRow(
			uuid.New(), tenantID, uuid.New(), uuid.New(),
			decimal.NewFromInt(3), decimal.Zero,
			decimal.NewFromInt(10), decimal.NewFromInt(20), 2,
		)

		mock.ExpectQuery(`SELECT \* FROM "inventory_levels" WHERE tenant_id = \$1 AND reorder_point > 0 AND quantity_on_hand <= reorder_point`).
			WithArgs(tenantID).
			WillReturnRows(rows)

		levels, err := repo.FindLowStock(context.Background(), tenantID)

		assert.NoError(t, err)
		require.Len(t, levels, 1)
		assert.True(t, levels[0].QuantityOnHand.Equal(decimal.NewFromInt(3)))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormInventoryLevelRepository_SaveWithLock(t *testing.T) {
	t.Run("updates row at the expected version", func(t *testing.T) {
		db, mock, sqlDB := newMockDB(t)
		defer sqlDB.Close()
		repo := NewGormInventoryLevelRepository(db)

		level, err := ledger.NewInventoryLevel(uuid.New(), uuid.New(), uuid.New())
		require.NoError(t, err)
		level.ID = uuid.New()
		require.NoError(t, level.ApplyDelta(decimal.NewFromInt(10)))

		mock.ExpectExec(`UPDATE "inventory_levels" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err = repo.SaveWithLock(context.Background(), level)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("reports conflict when the version moved on", func(t *testing.T) {
		db, mock, sqlDB := newMockDB(t)
		defer sqlDB.Close()
		repo := NewGormInventoryLevelRepository(db)

		level, err := ledger.NewInventoryLevel(uuid.New(), uuid.New(), uuid.New())
		require.NoError(t, err)
		level.ID = uuid.New()
		require.NoError(t, level.ApplyDelta(decimal.NewFromInt(10)))

		mock.ExpectExec(`UPDATE "inventory_levels" SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err = repo.SaveWithLock(context.Background(), level)

		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormInventoryLevelRepository_GetOrCreate(t *testing.T) {
	t.Run("returns the existing level without inserting", func(t *testing.T) {
		db, mock, sqlDB := newMockDB(t)
		defer sqlDB.Close()
		repo := NewGormInventoryLevelRepository(db)

		tenantID := uuid.New()
		locationID := uuid.New()
		variantID := uuid.New()

		rows := sqlmock.NewRows(levelColumns()).AddRow(
			uuid.New(), tenantID, locationID, variantID,
			decimal.NewFromInt(7), decimal.Zero,
			decimal.Zero, decimal.Zero, 1,
		)

		mock.ExpectQuery(`SELECT \* FROM "inventory_levels" WHERE tenant_id = \$1 AND location_id = \$2 AND item_variant_id = \$3`).
			WithArgs(tenantID, locationID, variantID, 1).
			WillReturnRows(rows)

		level, err := repo.GetOrCreate(context.Background(), tenantID, locationID, variantID)

		assert.NoError(t, err)
		require.NotNil(t, level)
		assert.True(t, level.QuantityOnHand.Equal(decimal.NewFromInt(7)))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("inserts a zero level when none exists", func(t *testing.T) {
		db, mock, sqlDB := newMockDB(t)
		defer sqlDB.Close()
		repo := NewGormInventoryLevelRepository(db)

		tenantID := uuid.New()
		locationID := uuid.New()
		variantID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "inventory_levels" WHERE tenant_id = \$1 AND location_id = \$2 AND item_variant_id = \$3`).
			WithArgs(tenantID, locationID, variantID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		mock.ExpectExec(`INSERT INTO "inventory_levels" .* ON CONFLICT \("location_id","item_variant_id"\) DO NOTHING`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		level, err := repo.GetOrCreate(context.Background(), tenantID, locationID, variantID)

		assert.NoError(t, err)
		require.NotNil(t, level)
		assert.True(t, level.QuantityOnHand.IsZero())
		assert.True(t, level.QuantityReserved.IsZero())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("refetches the winner after losing the creation race", func(t *testing.T) {
		db, mock, sqlDB := newMockDB(t)
		defer sqlDB.Close()
		repo := NewGormInventoryLevelRepository(db)

		tenantID := uuid.New()
		locationID := uuid.New()
		variantID := uuid.New()
		winnerID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "inventory_levels" WHERE tenant_id = \$1 AND location_id = \$2 AND item_variant_id = \$3`).
			WithArgs(tenantID, locationID, variantID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		// DO NOTHING means zero rows affected when another writer won
		mock.ExpectExec(`INSERT INTO "inventory_levels" .* ON CONFLICT \("location_id","item_variant_id"\) DO NOTHING`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		rows := sqlmock.NewRows(levelColumns()).AddRow(
			winnerID, tenantID, locationID, variantID,
			decimal.NewFromInt(3), decimal.Zero,
			decimal.Zero, decimal.Zero, 2,
		)
		mock.ExpectQuery(`SELECT \* FROM "inventory_levels" WHERE tenant_id = \$1 AND location_id = \$2 AND item_variant_id = \$3`).
			WithArgs(tenantID, locationID, variantID, 1).
			WillReturnRows(rows)

		level, err := repo.GetOrCreate(context.Background(), tenantID, locationID, variantID)

		assert.NoError(t, err)
		require.NotNil(t, level)
		assert.Equal(t, winnerID, level.ID)
		assert.True(t, level.QuantityOnHand.Equal(decimal.NewFromInt(3)))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormInventoryLevelRepository_CountForTenant(t *testing.T) {
	t.Run("counts levels for a tenant", func(t *testing.T) {
		db, mock, sqlDB := newMockDB(t)
		defer sqlDB.Close()
		repo := NewGormInventoryLevelRepository(db)

		tenantID := uuid.New()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "inventory_levels" WHERE tenant_id = \$1`).
			WithArgs(tenantID).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

		count, err := repo.CountForTenant(context.Background(), tenantID, shared.Filter{})

		assert.NoError(t, err)
		assert.Equal(t, int64(4), count)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
