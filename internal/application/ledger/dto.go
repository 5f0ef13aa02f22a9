package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/store/backoffice/internal/domain/ledger"
)

// LevelResponse represents an inventory level in API responses. A pair
// that has never been written returns a zero-quantity response without
// creating a row.
type LevelResponse struct {
	ID                uuid.UUID       `json:"id"`
	LocationID        uuid.UUID       `json:"location_id"`
	LocationName      string          `json:"location_name"`
	ItemVariantID     uuid.UUID       `json:"item_variant_id"`
	SKU               string          `json:"sku"`
	ItemName          string          `json:"item_name"`
	VariantName       string          `json:"variant_name"`
	QuantityOnHand    decimal.Decimal `json:"quantity_on_hand"`
	QuantityReserved  decimal.Decimal `json:"quantity_reserved"`
	QuantityAvailable decimal.Decimal `json:"quantity_available"`
	ReorderPoint      decimal.Decimal `json:"reorder_point"`
	ReorderQuantity   decimal.Decimal `json:"reorder_quantity"`
	LowStock          bool            `json:"low_stock"`
	LastCountedAt     *time.Time      `json:"last_counted_at,omitempty"`
	UpdatedAt         time.Time       `json:"updated_at"`
	Version           int             `json:"version"`
}

// TransactionResponse represents a ledger row in API responses
type TransactionResponse struct {
	ID              uuid.UUID       `json:"id"`
	LocationID      uuid.UUID       `json:"location_id"`
	ItemVariantID   uuid.UUID       `json:"item_variant_id"`
	Kind            string          `json:"kind"`
	Quantity        decimal.Decimal `json:"quantity"`
	ReferenceType   string          `json:"reference_type,omitempty"`
	ReferenceID     string          `json:"reference_id,omitempty"`
	Notes           string          `json:"notes,omitempty"`
	CreatedByUserID *uuid.UUID      `json:"created_by_user_id,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

// AdjustQuantityRequest represents a request to move on-hand stock by a
// signed delta. Transfer kinds are rejected here; transfers go through
// the dedicated transfer operation so both legs stay atomic.
type AdjustQuantityRequest struct {
	LocationID    uuid.UUID       `json:"location_id" binding:"required"`
	ItemVariantID uuid.UUID       `json:"item_variant_id" binding:"required"`
	Kind          string          `json:"kind" binding:"required"` // any valid TransactionKind
	Quantity      decimal.Decimal `json:"quantity" binding:"required"`
	ReferenceType string          `json:"reference_type"`
	ReferenceID   string          `json:"reference_id"`
	Notes         string          `json:"notes"`
	OperatorID    *uuid.UUID      `json:"operator_id"`
}

// ReserveRequest represents a request to earmark stock for a pending order
type ReserveRequest struct {
	LocationID    uuid.UUID       `json:"location_id" binding:"required"`
	ItemVariantID uuid.UUID       `json:"item_variant_id" binding:"required"`
	Quantity      decimal.Decimal `json:"quantity" binding:"required"`
	ReferenceType string          `json:"reference_type"`
	ReferenceID   string          `json:"reference_id"`
	OperatorID    *uuid.UUID      `json:"operator_id"`
}

// ReleaseRequest represents a request to return reserved stock to the
// available pool
type ReleaseRequest struct {
	LocationID    uuid.UUID       `json:"location_id" binding:"required"`
	ItemVariantID uuid.UUID       `json:"item_variant_id" binding:"required"`
	Quantity      decimal.Decimal `json:"quantity" binding:"required"`
	ReferenceType string          `json:"reference_type"`
	ReferenceID   string          `json:"reference_id"`
	OperatorID    *uuid.UUID      `json:"operator_id"`
}

// TransferRequest represents a request to move stock between two locations
type TransferRequest struct {
	SourceLocationID      uuid.UUID       `json:"source_location_id" binding:"required"`
	DestinationLocationID uuid.UUID       `json:"destination_location_id" binding:"required"`
	ItemVariantID         uuid.UUID       `json:"item_variant_id" binding:"required"`
	Quantity              decimal.Decimal `json:"quantity" binding:"required"`
	ReferenceID           string          `json:"reference_id"`
	Notes                 string          `json:"notes"`
	OperatorID            *uuid.UUID      `json:"operator_id"`
}

// SetReorderPolicyRequest represents a request to update the reorder
// threshold and suggested order size for a location-variant pair
type SetReorderPolicyRequest struct {
	LocationID      uuid.UUID       `json:"location_id" binding:"required"`
	ItemVariantID   uuid.UUID       `json:"item_variant_id" binding:"required"`
	ReorderPoint    decimal.Decimal `json:"reorder_point"`
	ReorderQuantity decimal.Decimal `json:"reorder_quantity"`
}

// LevelListFilter represents filter options for listing levels
type LevelListFilter struct {
	LocationID    *uuid.UUID `form:"location_id"`
	ItemVariantID *uuid.UUID `form:"item_variant_id"`
	Page          int        `form:"page" binding:"min=0"`
	PageSize      int        `form:"page_size" binding:"min=0,max=100"`
	OrderBy       string     `form:"order_by"`
	OrderDir      string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// TransactionListFilter represents filter options for the transaction ledger
type TransactionListFilter struct {
	LocationID    *uuid.UUID `form:"location_id"`
	ItemVariantID *uuid.UUID `form:"item_variant_id"`
	Kind          string     `form:"kind"`
	ReferenceID   string     `form:"reference_id"`
	Page          int        `form:"page" binding:"min=0"`
	PageSize      int        `form:"page_size" binding:"min=0,max=100"`
	OrderBy       string     `form:"order_by"`
	OrderDir      string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

func toTransactionResponse(tx *ledger.InventoryTransaction) TransactionResponse {
	return TransactionResponse{
		ID:              tx.ID,
		LocationID:      tx.LocationID,
		ItemVariantID:   tx.ItemVariantID,
		Kind:            tx.Kind.String(),
		Quantity:        tx.Quantity,
		ReferenceType:   tx.ReferenceType,
		ReferenceID:     tx.ReferenceID,
		Notes:           tx.Notes,
		CreatedByUserID: tx.CreatedByUserID,
		CreatedAt:       tx.CreatedAt,
	}
}
