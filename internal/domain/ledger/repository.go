package ledger

import (
	"context"

	"github.com/google/uuid"
	"github.com/store/backoffice/internal/domain/shared"
)

// InventoryLevelRepository manages inventory level persistence
type InventoryLevelRepository interface {
	// FindByKey returns the level for a (location, variant) pair, or ErrNotFound
	FindByKey(ctx context.Context, tenantID, locationID, itemVariantID uuid.UUID) (*InventoryLevel, error)
	// FindByKeyForUpdate locks the level row for the duration of the
	// enclosing transaction. Must be called inside a transaction scope.
	FindByKeyForUpdate(ctx context.Context, tenantID, locationID, itemVariantID uuid.UUID) (*InventoryLevel, error)
	// FindByLocation returns all levels at a location
	FindByLocation(ctx context.Context, tenantID, locationID uuid.UUID) ([]*InventoryLevel, error)
	// FindByVariant returns the levels for a variant across all locations
	FindByVariant(ctx context.Context, tenantID, itemVariantID uuid.UUID) ([]*InventoryLevel, error)
	// FindAllForTenant returns levels matching the filter
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*InventoryLevel, error)
	// FindLowStock returns levels at or below their reorder point
	FindLowStock(ctx context.Context, tenantID uuid.UUID) ([]*InventoryLevel, error)
	// GetOrCreate returns the existing level or creates a zero-quantity one
	GetOrCreate(ctx context.Context, tenantID, locationID, itemVariantID uuid.UUID) (*InventoryLevel, error)
	// Save persists the level
	Save(ctx context.Context, level *InventoryLevel) error
	// SaveWithLock persists the level only if its version has not moved,
	// returning ErrConcurrencyConflict otherwise
	SaveWithLock(ctx context.Context, level *InventoryLevel) error
	// CountForTenant returns the number of levels matching the filter
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
}

// InventoryTransactionRepository manages the append-only transaction ledger
type InventoryTransactionRepository interface {
	// Create appends a transaction row. Rows are never updated or deleted.
	Create(ctx context.Context, tx *InventoryTransaction) error
	// FindByID returns a transaction scoped to a tenant
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*InventoryTransaction, error)
	// FindByVariant returns the movement history of a variant, newest first
	FindByVariant(ctx context.Context, tenantID, itemVariantID uuid.UUID, filter shared.Filter) ([]*InventoryTransaction, error)
	// FindByLocation returns the movement history at a location, newest first
	FindByLocation(ctx context.Context, tenantID, locationID uuid.UUID, filter shared.Filter) ([]*InventoryTransaction, error)
	// FindForTenant returns transactions matching the filter, newest first
	FindForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*InventoryTransaction, error)
	// CountForTenant returns the number of transactions matching the filter
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
}
