package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/store/backoffice/internal/domain/shared"
)

// LocationRepository defines the interface for location persistence
type LocationRepository interface {
	// FindByID finds a location by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Location, error)

	// FindByIDForTenant finds a location by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Location, error)

	// FindAllForTenant finds all locations for a tenant
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Location, error)

	// ExistsByName checks whether a location name is taken within a tenant
	ExistsByName(ctx context.Context, tenantID uuid.UUID, name string) (bool, error)

	// Save creates or updates a location
	Save(ctx context.Context, location *Location) error

	// CountForTenant counts locations for a tenant
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
}

// ItemRepository defines the interface for item persistence
type ItemRepository interface {
	// FindByID finds an item by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Item, error)

	// FindByIDForTenant finds an item by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Item, error)

	// FindByItemCode finds an item by its code within a tenant
	FindByItemCode(ctx context.Context, tenantID uuid.UUID, itemCode string) (*Item, error)

	// FindAllForTenant finds all items for a tenant
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Item, error)

	// Save creates or updates an item together with its variants
	Save(ctx context.Context, item *Item) error

	// CountForTenant counts items for a tenant
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
}

// ItemVariantRepository defines the interface for item variant persistence
type ItemVariantRepository interface {
	// FindByID finds a variant by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*ItemVariant, error)

	// FindBySKU finds a variant by SKU
	FindBySKU(ctx context.Context, sku string) (*ItemVariant, error)

	// FindByItem finds all variants of an item
	FindByItem(ctx context.Context, itemID uuid.UUID) ([]ItemVariant, error)

	// Save creates or updates a variant
	Save(ctx context.Context, variant *ItemVariant) error
}

// BrandRepository defines the interface for brand persistence
type BrandRepository interface {
	// FindByID finds a brand by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Brand, error)

	// FindByIDForTenant finds a brand by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Brand, error)

	// FindAllForTenant finds all brands for a tenant
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Brand, error)

	// Save creates or updates a brand
	Save(ctx context.Context, brand *Brand) error
}

// CategoryRepository defines the interface for category persistence
type CategoryRepository interface {
	// FindByID finds a category by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Category, error)

	// FindByIDForTenant finds a category by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Category, error)

	// FindChildren finds the direct children of a category
	FindChildren(ctx context.Context, tenantID, parentID uuid.UUID) ([]Category, error)

	// FindAllForTenant finds all categories for a tenant
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Category, error)

	// Save creates or updates a category
	Save(ctx context.Context, category *Category) error
}
