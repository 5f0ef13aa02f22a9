package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/store/backoffice/internal/domain/shared"
)

// Category represents a product category. Categories form a tree via
// ParentID; the hierarchy must stay acyclic.
type Category struct {
	shared.TenantAggregateRoot
	Name        string       `gorm:"type:varchar(255);not null;uniqueIndex:idx_categories_tenant_name,priority:2"`
	Description string       `gorm:"type:varchar(500)"`
	ParentID    *uuid.UUID   `gorm:"type:uuid;index"`
	Status      EntityStatus `gorm:"type:varchar(20);not null;default:'ACTIVE'"`
}

// TableName returns the table name for GORM
func (Category) TableName() string {
	return "categories"
}

// NewCategory creates a new active category for a tenant
func NewCategory(tenantID uuid.UUID, name, description string, parentID *uuid.UUID) (*Category, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Category name cannot be empty")
	}

	return &Category{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                name,
		Description:         description,
		ParentID:            parentID,
		Status:              StatusActive,
	}, nil
}

// SetParent reparents the category. Cycle checking spans multiple
// aggregates and is enforced by the application service.
func (c *Category) SetParent(parentID *uuid.UUID) error {
	if parentID != nil && *parentID == c.ID {
		return shared.NewDomainError("INVALID_OPERATION", "Category cannot be its own parent")
	}
	c.ParentID = parentID
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	return nil
}

// Rename updates the category name
func (c *Category) Rename(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Category name cannot be empty")
	}
	c.Name = name
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	return nil
}

// MarkDeleted soft-deletes the category
func (c *Category) MarkDeleted() {
	c.Status = StatusDeleted
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// IsVisible reports whether the category appears in lookups
func (c *Category) IsVisible() bool {
	return c.Status.IsVisible()
}
