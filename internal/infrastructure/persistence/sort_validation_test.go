package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSortOrder(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty string returns DESC", "", "DESC"},
		{"ASC uppercase returns ASC", "ASC", "ASC"},
		{"asc lowercase returns ASC", "asc", "ASC"},
		{"desc lowercase returns DESC", "desc", "DESC"},
		{"invalid value returns DESC", "INVALID", "DESC"},
		{"sql injection attempt returns DESC", "ASC; DROP TABLE inventory_levels;--", "DESC"},
		{"whitespace around ASC returns ASC", "  asc  ", "ASC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidateSortOrder(tt.input))
		})
	}
}

func TestValidateSortField(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		allowedMap   map[string]bool
		defaultField string
		expected     string
	}{
		{"empty string returns default", "", LevelSortFields, "created_at", "created_at"},
		{"valid level field returns field", "quantity_on_hand", LevelSortFields, "created_at", "quantity_on_hand"},
		{"valid transaction field returns field", "kind", TransactionSortFields, "created_at", "kind"},
		{"invalid field returns default", "notes", TransactionSortFields, "created_at", "created_at"},
		{"sql injection attempt returns default", "id; DROP TABLE inventory_transactions;--", TransactionSortFields, "created_at", "created_at"},
		{"case sensitive - uppercase invalid", "KIND", TransactionSortFields, "created_at", "created_at"},
		{"field with quotes injection returns default", "kind'--", TransactionSortFields, "created_at", "created_at"},
		{"whitespace around valid field returns field", "  reorder_point  ", LevelSortFields, "created_at", "reorder_point"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidateSortField(tt.input, tt.allowedMap, tt.defaultField))
		})
	}
}
