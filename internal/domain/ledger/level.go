package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/store/backoffice/internal/domain/shared"
)

// InventoryLevel tracks on-hand and reserved stock for one item variant
// at one location. It is the aggregate root for all quantity mutations;
// the composite identifier is TenantID + LocationID + ItemVariantID.
type InventoryLevel struct {
	shared.TenantAggregateRoot
	LocationID       uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_inventory_levels_key,priority:2"`
	ItemVariantID    uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_inventory_levels_key,priority:3"`
	QuantityOnHand   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	QuantityReserved decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ReorderPoint     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ReorderQuantity  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	LastCountedAt    *time.Time      `gorm:"type:timestamptz"`
}

// TableName returns the table name for GORM
func (InventoryLevel) TableName() string {
	return "inventory_levels"
}

// NewInventoryLevel creates a zero-quantity level row for a location-variant pair
func NewInventoryLevel(tenantID, locationID, itemVariantID uuid.UUID) (*InventoryLevel, error) {
	if locationID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_LOCATION", "Location ID cannot be empty")
	}
	if itemVariantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ITEM_VARIANT", "Item variant ID cannot be empty")
	}

	return &InventoryLevel{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		LocationID:          locationID,
		ItemVariantID:       itemVariantID,
		QuantityOnHand:      decimal.Zero,
		QuantityReserved:    decimal.Zero,
		ReorderPoint:        decimal.Zero,
		ReorderQuantity:     decimal.Zero,
	}, nil
}

// QuantityAvailable returns on-hand minus reserved. It can be negative
// when counts or adjustments have driven on-hand below the reservations.
func (l *InventoryLevel) QuantityAvailable() decimal.Decimal {
	return l.QuantityOnHand.Sub(l.QuantityReserved)
}

// ApplyDelta moves on-hand by the signed delta. Negative deltas are
// rejected when |available| < |delta|; positive deltas always pass.
// Note the guard compares absolute values, so an already-negative
// available quantity still absorbs decrements up to its magnitude.
func (l *InventoryLevel) ApplyDelta(delta decimal.Decimal) error {
	if delta.IsNegative() {
		available := l.QuantityAvailable()
		if available.Abs().LessThan(delta.Abs()) {
			return &InsufficientInventoryError{
				Available: available,
				Requested: delta.Abs(),
			}
		}
	}

	l.QuantityOnHand = l.QuantityOnHand.Add(delta)
	l.UpdatedAt = time.Now()
	l.IncrementVersion()
	return nil
}

// MarkCounted records the timestamp of a physical count
func (l *InventoryLevel) MarkCounted(at time.Time) {
	l.LastCountedAt = &at
}

// Reserve earmarks quantity for a pending order without moving on-hand
func (l *InventoryLevel) Reserve(quantity decimal.Decimal) error {
	if !quantity.IsPositive() {
		return shared.NewDomainError("INVALID_QUANTITY", "Reserve quantity must be positive")
	}

	available := l.QuantityAvailable()
	if available.LessThan(quantity) {
		return &InsufficientInventoryError{
			Available: available,
			Requested: quantity,
		}
	}

	l.QuantityReserved = l.QuantityReserved.Add(quantity)
	l.UpdatedAt = time.Now()
	l.IncrementVersion()
	return nil
}

// Release returns previously reserved quantity to the available pool
func (l *InventoryLevel) Release(quantity decimal.Decimal) error {
	if !quantity.IsPositive() {
		return shared.NewDomainError("INVALID_QUANTITY", "Release quantity must be positive")
	}
	if l.QuantityReserved.LessThan(quantity) {
		return shared.NewDomainError("INVALID_OPERATION",
			"Cannot release more than the reserved quantity. Reserved: "+
				l.QuantityReserved.String()+", Requested: "+quantity.String())
	}

	l.QuantityReserved = l.QuantityReserved.Sub(quantity)
	l.UpdatedAt = time.Now()
	l.IncrementVersion()
	return nil
}

// SetReorderPolicy updates the reorder threshold and suggested order size
func (l *InventoryLevel) SetReorderPolicy(reorderPoint, reorderQuantity decimal.Decimal) error {
	if reorderPoint.IsNegative() {
		return shared.NewDomainError("INVALID_QUANTITY", "Reorder point cannot be negative")
	}
	if reorderQuantity.IsNegative() {
		return shared.NewDomainError("INVALID_QUANTITY", "Reorder quantity cannot be negative")
	}

	l.ReorderPoint = reorderPoint
	l.ReorderQuantity = reorderQuantity
	l.UpdatedAt = time.Now()
	l.IncrementVersion()
	return nil
}

// IsLowStock reports whether on-hand has fallen to or below the reorder
// point. A zero reorder point disables the check entirely.
func (l *InventoryLevel) IsLowStock() bool {
	return l.ReorderPoint.IsPositive() && l.QuantityOnHand.LessThanOrEqual(l.ReorderPoint)
}
