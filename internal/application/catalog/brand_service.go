package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/store/backoffice/internal/domain/catalog"
	"github.com/store/backoffice/internal/domain/shared"
)

// BrandService handles brand management
type BrandService struct {
	brandRepo catalog.BrandRepository
}

// NewBrandService creates a new BrandService
func NewBrandService(brandRepo catalog.BrandRepository) *BrandService {
	return &BrandService{brandRepo: brandRepo}
}

// Create creates a new brand
func (s *BrandService) Create(ctx context.Context, tenantID uuid.UUID, req CreateBrandRequest) (*BrandResponse, error) {
	brand, err := catalog.NewBrand(tenantID, req.Name, req.Description)
	if err != nil {
		return nil, err
	}
	if err := s.brandRepo.Save(ctx, brand); err != nil {
		return nil, err
	}
	resp := toBrandResponse(brand)
	return &resp, nil
}

// GetByID returns a brand visible to the tenant
func (s *BrandService) GetByID(ctx context.Context, tenantID, brandID uuid.UUID) (*BrandResponse, error) {
	brand, err := s.brandRepo.FindByIDForTenant(ctx, tenantID, brandID)
	if err != nil {
		return nil, err
	}
	if !brand.IsVisible() {
		return nil, shared.ErrNotFound
	}
	resp := toBrandResponse(brand)
	return &resp, nil
}

// List returns the tenant's brands
func (s *BrandService) List(ctx context.Context, tenantID uuid.UUID, filter ListFilter) ([]BrandResponse, error) {
	brands, err := s.brandRepo.FindAllForTenant(ctx, tenantID, toDomainFilter(filter))
	if err != nil {
		return nil, err
	}

	responses := make([]BrandResponse, 0, len(brands))
	for i := range brands {
		responses = append(responses, toBrandResponse(&brands[i]))
	}
	return responses, nil
}

// Delete soft-deletes a brand
func (s *BrandService) Delete(ctx context.Context, tenantID, brandID uuid.UUID) error {
	brand, err := s.brandRepo.FindByIDForTenant(ctx, tenantID, brandID)
	if err != nil {
		return err
	}
	if !brand.IsVisible() {
		return shared.ErrNotFound
	}
	brand.MarkDeleted()
	return s.brandRepo.Save(ctx, brand)
}
