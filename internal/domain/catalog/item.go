package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/store/backoffice/internal/domain/shared"
)

// Item represents a sellable product. An item can have multiple
// variants (size, color, style); stock is tracked per variant.
type Item struct {
	shared.TenantAggregateRoot
	ItemCode    string       `gorm:"type:varchar(100);not null;uniqueIndex:idx_items_tenant_code,priority:2"`
	UPCCode     string       `gorm:"type:varchar(100)"`
	Name        string       `gorm:"type:varchar(255);not null"`
	Description string       `gorm:"type:varchar(1000)"`
	CategoryID  *uuid.UUID   `gorm:"type:uuid;index"`
	BrandID     *uuid.UUID   `gorm:"type:uuid;index"`
	Status      EntityStatus `gorm:"type:varchar(20);not null;default:'ACTIVE'"`

	// Association - loaded on demand
	Variants []ItemVariant `gorm:"foreignKey:ItemID;references:ID"`
}

// TableName returns the table name for GORM
func (Item) TableName() string {
	return "items"
}

// NewItem creates a new active item for a tenant
func NewItem(tenantID uuid.UUID, itemCode, name, description string) (*Item, error) {
	if itemCode == "" {
		return nil, shared.NewDomainError("INVALID_ITEM_CODE", "Item code cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Item name cannot be empty")
	}

	return &Item{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ItemCode:            itemCode,
		Name:                name,
		Description:         description,
		Status:              StatusActive,
		Variants:            make([]ItemVariant, 0),
	}, nil
}

// AddVariant attaches a new variant to the item
func (i *Item) AddVariant(sku, variantName string) (*ItemVariant, error) {
	variant, err := NewItemVariant(i.ID, sku, variantName)
	if err != nil {
		return nil, err
	}
	i.Variants = append(i.Variants, *variant)
	i.UpdatedAt = time.Now()
	i.IncrementVersion()
	return variant, nil
}

// MarkDeleted soft-deletes the item
func (i *Item) MarkDeleted() {
	i.Status = StatusDeleted
	i.UpdatedAt = time.Now()
	i.IncrementVersion()
}

// IsVisible reports whether the item appears in lookups
func (i *Item) IsVisible() bool {
	return i.Status.IsVisible()
}

// ItemVariant represents a concrete variant of an item identified by SKU.
// Inventory levels and transactions are keyed by variant, never by item.
type ItemVariant struct {
	shared.BaseEntity
	ItemID      uuid.UUID    `gorm:"type:uuid;not null;index"`
	SKU         string       `gorm:"type:varchar(100);not null;uniqueIndex"`
	VariantName string       `gorm:"type:varchar(255)"`
	Status      EntityStatus `gorm:"type:varchar(20);not null;default:'ACTIVE'"`
}

// TableName returns the table name for GORM
func (ItemVariant) TableName() string {
	return "item_variants"
}

// NewItemVariant creates a new active variant for an item
func NewItemVariant(itemID uuid.UUID, sku, variantName string) (*ItemVariant, error) {
	if itemID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ITEM", "Item ID cannot be empty")
	}
	if sku == "" {
		return nil, shared.NewDomainError("INVALID_SKU", "SKU cannot be empty")
	}

	return &ItemVariant{
		BaseEntity:  shared.NewBaseEntity(),
		ItemID:      itemID,
		SKU:         sku,
		VariantName: variantName,
		Status:      StatusActive,
	}, nil
}

// MarkDeleted soft-deletes the variant
func (v *ItemVariant) MarkDeleted() {
	v.Status = StatusDeleted
	v.UpdatedAt = time.Now()
}

// IsVisible reports whether the variant appears in lookups
func (v *ItemVariant) IsVisible() bool {
	return v.Status.IsVisible()
}
