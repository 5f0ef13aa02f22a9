package ledger

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/store/backoffice/internal/domain/shared"
)

// TransactionKind classifies a stock movement
type TransactionKind string

const (
	// KindPurchase is inventory received from a purchase
	KindPurchase TransactionKind = "PURCHASE"
	// KindSale is inventory sold
	KindSale TransactionKind = "SALE"
	// KindAdjustment is a manual correction (damage, loss, shrinkage)
	KindAdjustment TransactionKind = "ADJUSTMENT"
	// KindTransferIn is inventory arriving from another location.
	// Also recorded with quantity zero when a reservation is released;
	// the released amount then lives in the notes, not the quantity.
	KindTransferIn TransactionKind = "TRANSFER_IN"
	// KindTransferOut is inventory leaving for another location.
	// Also recorded with quantity zero when stock is reserved.
	KindTransferOut TransactionKind = "TRANSFER_OUT"
	// KindReturn is inventory returned by a customer
	KindReturn TransactionKind = "RETURN"
	// KindCount is a physical count correction
	KindCount TransactionKind = "COUNT"
)

// String returns the string representation of TransactionKind
func (k TransactionKind) String() string {
	return string(k)
}

// IsValid returns true if the transaction kind is a known value
func (k TransactionKind) IsValid() bool {
	switch k {
	case KindPurchase, KindSale, KindAdjustment,
		KindTransferIn, KindTransferOut, KindReturn, KindCount:
		return true
	}
	return false
}

// InventoryTransaction is an immutable record of a stock movement.
// Rows are never updated or deleted; corrections are new rows.
type InventoryTransaction struct {
	shared.BaseEntity
	TenantID        uuid.UUID       `gorm:"type:uuid;not null;index:idx_inventory_tx_tenant_time,priority:1"`
	LocationID      uuid.UUID       `gorm:"type:uuid;not null;index:idx_inventory_tx_location"`
	ItemVariantID   uuid.UUID       `gorm:"type:uuid;not null;index:idx_inventory_tx_variant"`
	Kind            TransactionKind `gorm:"type:varchar(30);not null;index:idx_inventory_tx_kind"`
	Quantity        decimal.Decimal `gorm:"type:decimal(18,4);not null"` // Signed delta; zero for reserve/release rows
	ReferenceType   string          `gorm:"type:varchar(50);index:idx_inventory_tx_reference"`
	ReferenceID     string          `gorm:"type:varchar(100);index:idx_inventory_tx_reference"`
	Notes           string          `gorm:"type:varchar(500)"`
	CreatedByUserID *uuid.UUID      `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (InventoryTransaction) TableName() string {
	return "inventory_transactions"
}

// NewInventoryTransaction creates a new ledger row
func NewInventoryTransaction(
	tenantID uuid.UUID,
	locationID uuid.UUID,
	itemVariantID uuid.UUID,
	kind TransactionKind,
	quantity decimal.Decimal,
	referenceType string,
	referenceID string,
	notes string,
) (*InventoryTransaction, error) {
	if tenantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TENANT", "Tenant ID cannot be empty")
	}
	if locationID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_LOCATION", "Location ID cannot be empty")
	}
	if itemVariantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ITEM_VARIANT", "Item variant ID cannot be empty")
	}
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_TRANSACTION_KIND", "Invalid transaction kind")
	}

	return &InventoryTransaction{
		BaseEntity:    shared.NewBaseEntity(),
		TenantID:      tenantID,
		LocationID:    locationID,
		ItemVariantID: itemVariantID,
		Kind:          kind,
		Quantity:      quantity,
		ReferenceType: referenceType,
		ReferenceID:   referenceID,
		Notes:         notes,
	}, nil
}

// WithCreatedBy sets the acting user for the transaction
func (t *InventoryTransaction) WithCreatedBy(userID uuid.UUID) *InventoryTransaction {
	t.CreatedByUserID = &userID
	return t
}
