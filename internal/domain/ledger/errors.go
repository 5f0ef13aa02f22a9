package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// InsufficientInventoryError is returned when a decrement or reservation
// asks for more than the available quantity at a location.
type InsufficientInventoryError struct {
	SKU          string
	LocationName string
	Available    decimal.Decimal
	Requested    decimal.Decimal
}

// Error implements the error interface
func (e *InsufficientInventoryError) Error() string {
	return fmt.Sprintf("insufficient inventory for SKU %s at %s: available %s, requested %s",
		e.SKU, e.LocationName, e.Available.String(), e.Requested.String())
}

// Code returns the stable error code for transport mapping
func (e *InsufficientInventoryError) Code() string {
	return "INSUFFICIENT_INVENTORY"
}
