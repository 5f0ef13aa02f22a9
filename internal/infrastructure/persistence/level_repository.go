package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/store/backoffice/internal/domain/ledger"
	"github.com/store/backoffice/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormInventoryLevelRepository implements InventoryLevelRepository using GORM
type GormInventoryLevelRepository struct {
	db *gorm.DB
}

// NewGormInventoryLevelRepository creates a new GormInventoryLevelRepository
func NewGormInventoryLevelRepository(db *gorm.DB) *GormInventoryLevelRepository {
	return &GormInventoryLevelRepository{db: db}
}

// FindByKey finds the level for a location-variant pair
func (r *GormInventoryLevelRepository) FindByKey(ctx context.Context, tenantID, locationID, itemVariantID uuid.UUID) (*ledger.InventoryLevel, error) {
	var level ledger.InventoryLevel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND location_id = ? AND item_variant_id = ?", tenantID, locationID, itemVariantID).
		First(&level).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &level, nil
}

// FindByKeyForUpdate finds the level and takes a row lock for the duration
// of the surrounding transaction
func (r *GormInventoryLevelRepository) FindByKeyForUpdate(ctx context.Context, tenantID, locationID, itemVariantID uuid.UUID) (*ledger.InventoryLevel, error) {
	var level ledger.InventoryLevel
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("tenant_id = ? AND location_id = ? AND item_variant_id = ?", tenantID, locationID, itemVariantID).
		First(&level).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &level, nil
}

// FindByLocation finds all levels at a location
func (r *GormInventoryLevelRepository) FindByLocation(ctx context.Context, tenantID, locationID uuid.UUID) ([]*ledger.InventoryLevel, error) {
	var levels []*ledger.InventoryLevel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND location_id = ?", tenantID, locationID).
		Order("created_at DESC").
		Find(&levels).Error; err != nil {
		return nil, err
	}
	return levels, nil
}

// FindByVariant finds the levels of a variant across all locations
func (r *GormInventoryLevelRepository) FindByVariant(ctx context.Context, tenantID, itemVariantID uuid.UUID) ([]*ledger.InventoryLevel, error) {
	var levels []*ledger.InventoryLevel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND item_variant_id = ?", tenantID, itemVariantID).
		Order("created_at DESC").
		Find(&levels).Error; err != nil {
		return nil, err
	}
	return levels, nil
}

// FindAllForTenant finds levels matching the filter
func (r *GormInventoryLevelRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*ledger.InventoryLevel, error) {
	var levels []*ledger.InventoryLevel
	query := applyLevelFilter(
		r.db.WithContext(ctx).Model(&ledger.InventoryLevel{}).Where("tenant_id = ?", tenantID),
		filter,
	)
	if err := query.Find(&levels).Error; err != nil {
		return nil, err
	}
	return levels, nil
}

// FindLowStock finds levels at or below their reorder point. A zero
// reorder point opts the pair out of the check.
func (r *GormInventoryLevelRepository) FindLowStock(ctx context.Context, tenantID uuid.UUID) ([]*ledger.InventoryLevel, error) {
	var levels []*ledger.InventoryLevel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND reorder_point > 0 AND quantity_on_hand <= reorder_point", tenantID).
		Order("quantity_on_hand ASC").
		Find(&levels).Error; err != nil {
		return nil, err
	}
	return levels, nil
}

// GetOrCreate gets the existing level or creates a zero-quantity one.
// ON CONFLICT handles the race of two writers creating the same pair.
func (r *GormInventoryLevelRepository) GetOrCreate(ctx context.Context, tenantID, locationID, itemVariantID uuid.UUID) (*ledger.InventoryLevel, error) {
	level, err := r.FindByKey(ctx, tenantID, locationID, itemVariantID)
	if err == nil {
		return level, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	level, err = ledger.NewInventoryLevel(tenantID, locationID, itemVariantID)
	if err != nil {
		return nil, err
	}

	// The conflict target must name the columns of the unique index
	// on (location_id, item_variant_id).
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "location_id"}, {Name: "item_variant_id"}},
			DoNothing: true,
		}).
		Create(level)
	if result.Error != nil {
		return nil, result.Error
	}

	// The insert lost the creation race; fetch the winner's row.
	if result.RowsAffected == 0 {
		return r.FindByKey(ctx, tenantID, locationID, itemVariantID)
	}

	return level, nil
}

// Save creates or updates a level
func (r *GormInventoryLevelRepository) Save(ctx context.Context, level *ledger.InventoryLevel) error {
	return r.db.WithContext(ctx).Save(level).Error
}

// SaveWithLock saves with optimistic locking (checks version)
func (r *GormInventoryLevelRepository) SaveWithLock(ctx context.Context, level *ledger.InventoryLevel) error {
	result := r.db.WithContext(ctx).
		Model(level).
		Where("id = ? AND version = ?", level.ID, level.Version-1).
		Updates(map[string]interface{}{
			"quantity_on_hand":  level.QuantityOnHand,
			"quantity_reserved": level.QuantityReserved,
			"reorder_point":     level.ReorderPoint,
			"reorder_quantity":  level.ReorderQuantity,
			"last_counted_at":   level.LastCountedAt,
			"version":           level.Version,
			"updated_at":        level.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// CountForTenant counts levels matching the filter
func (r *GormInventoryLevelRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := applyLevelFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&ledger.InventoryLevel{}).Where("tenant_id = ?", tenantID),
		filter,
	)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func applyLevelFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = applyLevelFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	// Whitelist the sort field; user input never reaches the SQL text
	sortField := ValidateSortField(filter.OrderBy, LevelSortFields, "created_at")
	query = query.Order(sortField + " " + ValidateSortOrder(filter.OrderDir))

	return query
}

func applyLevelFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "location_id":
			query = query.Where("location_id = ?", value)
		case "item_variant_id":
			query = query.Where("item_variant_id = ?", value)
		case "low_stock":
			if value == true {
				query = query.Where("reorder_point > 0 AND quantity_on_hand <= reorder_point")
			}
		}
	}
	return query
}

var _ ledger.InventoryLevelRepository = (*GormInventoryLevelRepository)(nil)
