package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/store/backoffice/internal/domain/catalog"
	"github.com/store/backoffice/internal/domain/shared"
)

// LocationService handles location management
type LocationService struct {
	locationRepo catalog.LocationRepository
}

// NewLocationService creates a new LocationService
func NewLocationService(locationRepo catalog.LocationRepository) *LocationService {
	return &LocationService{locationRepo: locationRepo}
}

// Create creates a new location. Names are unique per tenant.
func (s *LocationService) Create(ctx context.Context, tenantID uuid.UUID, req CreateLocationRequest) (*LocationResponse, error) {
	exists, err := s.locationRepo.ExistsByName(ctx, tenantID, req.Name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "A location with this name already exists")
	}

	loc, err := catalog.NewLocation(tenantID, req.Name, catalog.LocationType(req.Type), req.Address)
	if err != nil {
		return nil, err
	}
	if err := s.locationRepo.Save(ctx, loc); err != nil {
		return nil, err
	}

	resp := toLocationResponse(loc)
	return &resp, nil
}

// GetByID returns a location visible to the tenant
func (s *LocationService) GetByID(ctx context.Context, tenantID, locationID uuid.UUID) (*LocationResponse, error) {
	loc, err := s.locationRepo.FindByIDForTenant(ctx, tenantID, locationID)
	if err != nil {
		return nil, err
	}
	if !loc.IsVisible() {
		return nil, shared.ErrNotFound
	}
	resp := toLocationResponse(loc)
	return &resp, nil
}

// List returns the tenant's visible locations
func (s *LocationService) List(ctx context.Context, tenantID uuid.UUID, filter ListFilter) ([]LocationResponse, int64, error) {
	domainFilter := toDomainFilter(filter)

	locations, err := s.locationRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.locationRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]LocationResponse, 0, len(locations))
	for i := range locations {
		responses = append(responses, toLocationResponse(&locations[i]))
	}
	return responses, total, nil
}

// Update applies partial changes to a location
func (s *LocationService) Update(ctx context.Context, tenantID, locationID uuid.UUID, req UpdateLocationRequest) (*LocationResponse, error) {
	loc, err := s.locationRepo.FindByIDForTenant(ctx, tenantID, locationID)
	if err != nil {
		return nil, err
	}
	if !loc.IsVisible() {
		return nil, shared.ErrNotFound
	}

	if req.Name != nil && *req.Name != loc.Name {
		exists, err := s.locationRepo.ExistsByName(ctx, tenantID, *req.Name)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "A location with this name already exists")
		}
		loc.Name = *req.Name
	}
	if req.Address != nil {
		loc.Address = *req.Address
	}
	if req.Status != nil {
		switch catalog.EntityStatus(*req.Status) {
		case catalog.StatusActive:
			loc.Activate()
		case catalog.StatusInactive:
			loc.Deactivate()
		}
	}

	if err := s.locationRepo.Save(ctx, loc); err != nil {
		return nil, err
	}
	resp := toLocationResponse(loc)
	return &resp, nil
}

// Delete soft-deletes a location. Ledger history keeps referencing it.
func (s *LocationService) Delete(ctx context.Context, tenantID, locationID uuid.UUID) error {
	loc, err := s.locationRepo.FindByIDForTenant(ctx, tenantID, locationID)
	if err != nil {
		return err
	}
	if !loc.IsVisible() {
		return shared.ErrNotFound
	}
	loc.MarkDeleted()
	return s.locationRepo.Save(ctx, loc)
}

func toDomainFilter(filter ListFilter) shared.Filter {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		domainFilter.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		domainFilter.OrderDir = filter.OrderDir
	}
	domainFilter.Search = filter.Search
	return domainFilter
}
