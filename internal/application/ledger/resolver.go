package ledger

import (
	"context"

	"github.com/google/uuid"
)

// LocationRef is a resolved location reference
type LocationRef struct {
	ID   uuid.UUID
	Name string
}

// VariantRef is a resolved item variant reference together with its item
type VariantRef struct {
	ID          uuid.UUID
	SKU         string
	ItemName    string
	VariantName string
}

// ReferenceResolver resolves location and variant references for a tenant.
// Implementations must return shared.ErrNotFound for references that do
// not exist, belong to another tenant, or are soft-deleted; callers never
// learn whether a foreign reference exists.
type ReferenceResolver interface {
	// ResolveLocation resolves a location visible to the tenant
	ResolveLocation(ctx context.Context, tenantID, locationID uuid.UUID) (*LocationRef, error)
	// ResolveVariant resolves an item variant visible to the tenant
	ResolveVariant(ctx context.Context, tenantID, itemVariantID uuid.UUID) (*VariantRef, error)
}
