package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/store/backoffice/internal/domain/shared"
)

// Brand represents a product brand
type Brand struct {
	shared.TenantAggregateRoot
	Name        string       `gorm:"type:varchar(255);not null;uniqueIndex:idx_brands_tenant_name,priority:2"`
	Description string       `gorm:"type:varchar(500)"`
	Status      EntityStatus `gorm:"type:varchar(20);not null;default:'ACTIVE'"`
}

// TableName returns the table name for GORM
func (Brand) TableName() string {
	return "brands"
}

// NewBrand creates a new active brand for a tenant
func NewBrand(tenantID uuid.UUID, name, description string) (*Brand, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Brand name cannot be empty")
	}

	return &Brand{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                name,
		Description:         description,
		Status:              StatusActive,
	}, nil
}

// MarkDeleted soft-deletes the brand
func (b *Brand) MarkDeleted() {
	b.Status = StatusDeleted
	b.UpdatedAt = time.Now()
	b.IncrementVersion()
}

// IsVisible reports whether the brand appears in lookups
func (b *Brand) IsVisible() bool {
	return b.Status.IsVisible()
}
