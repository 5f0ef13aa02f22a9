package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	appledger "github.com/store/backoffice/internal/application/ledger"
	"github.com/store/backoffice/internal/domain/catalog"
	"github.com/store/backoffice/internal/domain/shared"
)

// Resolver resolves references against the catalog. Soft-deleted
// entities and entities of other tenants resolve to not found, so a
// caller never learns whether a foreign reference exists.
type Resolver struct {
	locationRepo catalog.LocationRepository
	variantRepo  catalog.ItemVariantRepository
	itemRepo     catalog.ItemRepository
}

// NewResolver creates a new catalog Resolver
func NewResolver(
	locationRepo catalog.LocationRepository,
	variantRepo catalog.ItemVariantRepository,
	itemRepo catalog.ItemRepository,
) *Resolver {
	return &Resolver{
		locationRepo: locationRepo,
		variantRepo:  variantRepo,
		itemRepo:     itemRepo,
	}
}

// ResolveLocation resolves a location visible to the tenant
func (r *Resolver) ResolveLocation(ctx context.Context, tenantID, locationID uuid.UUID) (*appledger.LocationRef, error) {
	loc, err := r.locationRepo.FindByIDForTenant(ctx, tenantID, locationID)
	if err != nil {
		return nil, err
	}
	if !loc.IsVisible() {
		return nil, shared.ErrNotFound
	}
	return &appledger.LocationRef{ID: loc.ID, Name: loc.Name}, nil
}

// ResolveVariant resolves an item variant visible to the tenant. The
// tenant check goes through the owning item since variants do not carry
// a tenant column of their own.
func (r *Resolver) ResolveVariant(ctx context.Context, tenantID, itemVariantID uuid.UUID) (*appledger.VariantRef, error) {
	variant, err := r.variantRepo.FindByID(ctx, itemVariantID)
	if err != nil {
		return nil, err
	}
	if !variant.IsVisible() {
		return nil, shared.ErrNotFound
	}

	item, err := r.itemRepo.FindByIDForTenant(ctx, tenantID, variant.ItemID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	if !item.IsVisible() {
		return nil, shared.ErrNotFound
	}

	return &appledger.VariantRef{
		ID:          variant.ID,
		SKU:         variant.SKU,
		ItemName:    item.Name,
		VariantName: variant.VariantName,
	}, nil
}

var _ appledger.ReferenceResolver = (*Resolver)(nil)
