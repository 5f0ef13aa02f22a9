package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/store/backoffice/internal/domain/ledger"
	"github.com/store/backoffice/internal/domain/shared"
	"gorm.io/gorm"
)

// GormInventoryTransactionRepository implements InventoryTransactionRepository using GORM.
// Rows are append-only; there is no update or delete path.
type GormInventoryTransactionRepository struct {
	db *gorm.DB
}

// NewGormInventoryTransactionRepository creates a new GormInventoryTransactionRepository
func NewGormInventoryTransactionRepository(db *gorm.DB) *GormInventoryTransactionRepository {
	return &GormInventoryTransactionRepository{db: db}
}

// Create appends a transaction row
func (r *GormInventoryTransactionRepository) Create(ctx context.Context, transaction *ledger.InventoryTransaction) error {
	return r.db.WithContext(ctx).Create(transaction).Error
}

// FindByID finds a transaction by ID within a tenant
func (r *GormInventoryTransactionRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*ledger.InventoryTransaction, error) {
	var transaction ledger.InventoryTransaction
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &transaction, nil
}

// FindByVariant finds the history of a variant, newest first
func (r *GormInventoryTransactionRepository) FindByVariant(ctx context.Context, tenantID, itemVariantID uuid.UUID, filter shared.Filter) ([]*ledger.InventoryTransaction, error) {
	var transactions []*ledger.InventoryTransaction
	query := applyTransactionFilter(
		r.db.WithContext(ctx).Model(&ledger.InventoryTransaction{}).
			Where("tenant_id = ? AND item_variant_id = ?", tenantID, itemVariantID),
		filter,
	)
	if err := query.Find(&transactions).Error; err != nil {
		return nil, err
	}
	return transactions, nil
}

// FindByLocation finds the history of a location, newest first
func (r *GormInventoryTransactionRepository) FindByLocation(ctx context.Context, tenantID, locationID uuid.UUID, filter shared.Filter) ([]*ledger.InventoryTransaction, error) {
	var transactions []*ledger.InventoryTransaction
	query := applyTransactionFilter(
		r.db.WithContext(ctx).Model(&ledger.InventoryTransaction{}).
			Where("tenant_id = ? AND location_id = ?", tenantID, locationID),
		filter,
	)
	if err := query.Find(&transactions).Error; err != nil {
		return nil, err
	}
	return transactions, nil
}

// FindForTenant finds all transactions for a tenant matching the filter, newest first
func (r *GormInventoryTransactionRepository) FindForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*ledger.InventoryTransaction, error) {
	var transactions []*ledger.InventoryTransaction
	query := applyTransactionFilter(
		r.db.WithContext(ctx).Model(&ledger.InventoryTransaction{}).
			Where("tenant_id = ?", tenantID),
		filter,
	)
	if err := query.Find(&transactions).Error; err != nil {
		return nil, err
	}
	return transactions, nil
}

// CountForTenant counts transactions matching the filter
func (r *GormInventoryTransactionRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := applyTransactionFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&ledger.InventoryTransaction{}).
			Where("tenant_id = ?", tenantID),
		filter,
	)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func applyTransactionFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = applyTransactionFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	// Whitelist the sort field; user input never reaches the SQL text
	sortField := ValidateSortField(filter.OrderBy, TransactionSortFields, "created_at")
	query = query.Order(sortField + " " + ValidateSortOrder(filter.OrderDir))

	return query
}

func applyTransactionFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "kind":
			query = query.Where("kind = ?", value)
		case "location_id":
			query = query.Where("location_id = ?", value)
		case "item_variant_id":
			query = query.Where("item_variant_id = ?", value)
		case "reference_id":
			query = query.Where("reference_id = ?", value)
		}
	}
	return query
}

var _ ledger.InventoryTransactionRepository = (*GormInventoryTransactionRepository)(nil)
