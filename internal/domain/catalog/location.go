package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/store/backoffice/internal/domain/shared"
)

// LocationType classifies a physical stock-holding site
type LocationType string

const (
	LocationTypeStore     LocationType = "STORE"
	LocationTypeWarehouse LocationType = "WAREHOUSE"
)

// IsValid returns true if the location type is a known value
func (t LocationType) IsValid() bool {
	switch t {
	case LocationTypeStore, LocationTypeWarehouse:
		return true
	}
	return false
}

// Location represents a physical site where inventory is held,
// such as a store or a warehouse.
type Location struct {
	shared.TenantAggregateRoot
	Name    string       `gorm:"type:varchar(255);not null;uniqueIndex:idx_locations_tenant_name,priority:2"`
	Type    LocationType `gorm:"type:varchar(30);not null"`
	Address string       `gorm:"type:varchar(500)"`
	Status  EntityStatus `gorm:"type:varchar(20);not null;default:'ACTIVE'"`
}

// TableName returns the table name for GORM
func (Location) TableName() string {
	return "locations"
}

// NewLocation creates a new active location for a tenant
func NewLocation(tenantID uuid.UUID, name string, locType LocationType, address string) (*Location, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Location name cannot be empty")
	}
	if !locType.IsValid() {
		return nil, shared.NewDomainError("INVALID_LOCATION_TYPE", "Invalid location type")
	}

	return &Location{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                name,
		Type:                locType,
		Address:             address,
		Status:              StatusActive,
	}, nil
}

// Deactivate marks the location as temporarily out of use
func (l *Location) Deactivate() {
	l.Status = StatusInactive
	l.UpdatedAt = time.Now()
	l.IncrementVersion()
}

// Activate returns the location to active use
func (l *Location) Activate() {
	l.Status = StatusActive
	l.UpdatedAt = time.Now()
	l.IncrementVersion()
}

// MarkDeleted soft-deletes the location. Existing ledger rows keep
// referencing it, but it disappears from lookups.
func (l *Location) MarkDeleted() {
	l.Status = StatusDeleted
	l.UpdatedAt = time.Now()
	l.IncrementVersion()
}

// IsVisible reports whether the location appears in lookups
func (l *Location) IsVisible() bool {
	return l.Status.IsVisible()
}
