package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/store/backoffice/internal/domain/catalog"
	"github.com/store/backoffice/internal/domain/shared"
)

// ItemService handles item and variant management
type ItemService struct {
	itemRepo     catalog.ItemRepository
	variantRepo  catalog.ItemVariantRepository
	categoryRepo catalog.CategoryRepository
	brandRepo    catalog.BrandRepository
}

// NewItemService creates a new ItemService
func NewItemService(
	itemRepo catalog.ItemRepository,
	variantRepo catalog.ItemVariantRepository,
	categoryRepo catalog.CategoryRepository,
	brandRepo catalog.BrandRepository,
) *ItemService {
	return &ItemService{
		itemRepo:     itemRepo,
		variantRepo:  variantRepo,
		categoryRepo: categoryRepo,
		brandRepo:    brandRepo,
	}
}

// Create creates an item and its initial variants. Item codes are unique
// per tenant and SKUs are unique globally.
func (s *ItemService) Create(ctx context.Context, tenantID uuid.UUID, req CreateItemRequest) (*ItemResponse, error) {
	existing, err := s.itemRepo.FindByItemCode(ctx, tenantID, req.ItemCode)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "An item with this code already exists")
	}

	if req.CategoryID != nil {
		if err := s.checkCategory(ctx, tenantID, *req.CategoryID); err != nil {
			return nil, err
		}
	}
	if req.BrandID != nil {
		if err := s.checkBrand(ctx, tenantID, *req.BrandID); err != nil {
			return nil, err
		}
	}

	item, err := catalog.NewItem(tenantID, req.ItemCode, req.Name, req.Description)
	if err != nil {
		return nil, err
	}
	item.UPCCode = req.UPCCode
	item.CategoryID = req.CategoryID
	item.BrandID = req.BrandID

	for _, v := range req.Variants {
		if err := s.checkSKUAvailable(ctx, v.SKU); err != nil {
			return nil, err
		}
		if _, err := item.AddVariant(v.SKU, v.VariantName); err != nil {
			return nil, err
		}
	}

	if err := s.itemRepo.Save(ctx, item); err != nil {
		return nil, err
	}
	resp := toItemResponse(item)
	return &resp, nil
}

// GetByID returns an item with its visible variants
func (s *ItemService) GetByID(ctx context.Context, tenantID, itemID uuid.UUID) (*ItemResponse, error) {
	item, err := s.itemRepo.FindByIDForTenant(ctx, tenantID, itemID)
	if err != nil {
		return nil, err
	}
	if !item.IsVisible() {
		return nil, shared.ErrNotFound
	}
	resp := toItemResponse(item)
	return &resp, nil
}

// List returns the tenant's items
func (s *ItemService) List(ctx context.Context, tenantID uuid.UUID, filter ListFilter) ([]ItemResponse, int64, error) {
	domainFilter := toDomainFilter(filter)

	items, err := s.itemRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.itemRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]ItemResponse, 0, len(items))
	for i := range items {
		responses = append(responses, toItemResponse(&items[i]))
	}
	return responses, total, nil
}

// AddVariant attaches a new variant to an existing item
func (s *ItemService) AddVariant(ctx context.Context, tenantID, itemID uuid.UUID, req CreateVariantRequest) (*VariantResponse, error) {
	item, err := s.itemRepo.FindByIDForTenant(ctx, tenantID, itemID)
	if err != nil {
		return nil, err
	}
	if !item.IsVisible() {
		return nil, shared.ErrNotFound
	}

	if err := s.checkSKUAvailable(ctx, req.SKU); err != nil {
		return nil, err
	}

	variant, err := item.AddVariant(req.SKU, req.VariantName)
	if err != nil {
		return nil, err
	}
	if err := s.itemRepo.Save(ctx, item); err != nil {
		return nil, err
	}

	resp := toVariantResponse(variant)
	return &resp, nil
}

// Delete soft-deletes an item. Its ledger history stays intact.
func (s *ItemService) Delete(ctx context.Context, tenantID, itemID uuid.UUID) error {
	item, err := s.itemRepo.FindByIDForTenant(ctx, tenantID, itemID)
	if err != nil {
		return err
	}
	if !item.IsVisible() {
		return shared.ErrNotFound
	}
	item.MarkDeleted()
	return s.itemRepo.Save(ctx, item)
}

func (s *ItemService) checkSKUAvailable(ctx context.Context, sku string) error {
	_, err := s.variantRepo.FindBySKU(ctx, sku)
	if err == nil {
		return shared.NewDomainError("ALREADY_EXISTS", "A variant with this SKU already exists")
	}
	if errors.Is(err, shared.ErrNotFound) {
		return nil
	}
	return err
}

func (s *ItemService) checkCategory(ctx context.Context, tenantID, categoryID uuid.UUID) error {
	category, err := s.categoryRepo.FindByIDForTenant(ctx, tenantID, categoryID)
	if err != nil {
		return err
	}
	if !category.IsVisible() {
		return shared.ErrNotFound
	}
	return nil
}

func (s *ItemService) checkBrand(ctx context.Context, tenantID, brandID uuid.UUID) error {
	brand, err := s.brandRepo.FindByIDForTenant(ctx, tenantID, brandID)
	if err != nil {
		return err
	}
	if !brand.IsVisible() {
		return shared.ErrNotFound
	}
	return nil
}
