package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// LevelSortFields contains allowed sort fields for inventory levels
var LevelSortFields = map[string]bool{
	"id":                true,
	"created_at":        true,
	"updated_at":        true,
	"location_id":       true,
	"item_variant_id":   true,
	"quantity_on_hand":  true,
	"quantity_reserved": true,
	"reorder_point":     true,
	"last_counted_at":   true,
}

// TransactionSortFields contains allowed sort fields for inventory transactions
var TransactionSortFields = map[string]bool{
	"id":              true,
	"created_at":      true,
	"kind":            true,
	"location_id":     true,
	"item_variant_id": true,
	"quantity":        true,
	"reference_type":  true,
	"reference_id":    true,
}
