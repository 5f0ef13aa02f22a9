package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/store/backoffice/internal/domain/catalog"
	"github.com/store/backoffice/internal/domain/shared"
)

// maxCategoryDepth bounds the ancestor walk so a corrupted hierarchy
// cannot loop forever.
const maxCategoryDepth = 32

// CategoryService handles category tree management
type CategoryService struct {
	categoryRepo catalog.CategoryRepository
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(categoryRepo catalog.CategoryRepository) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo}
}

// Create creates a new category, optionally under a parent
func (s *CategoryService) Create(ctx context.Context, tenantID uuid.UUID, req CreateCategoryRequest) (*CategoryResponse, error) {
	if req.ParentID != nil {
		if _, err := s.visibleCategory(ctx, tenantID, *req.ParentID); err != nil {
			return nil, err
		}
	}

	category, err := catalog.NewCategory(tenantID, req.Name, req.Description, req.ParentID)
	if err != nil {
		return nil, err
	}
	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, err
	}

	resp := toCategoryResponse(category)
	return &resp, nil
}

// GetByID returns a category visible to the tenant
func (s *CategoryService) GetByID(ctx context.Context, tenantID, categoryID uuid.UUID) (*CategoryResponse, error) {
	category, err := s.visibleCategory(ctx, tenantID, categoryID)
	if err != nil {
		return nil, err
	}
	resp := toCategoryResponse(category)
	return &resp, nil
}

// List returns the tenant's categories
func (s *CategoryService) List(ctx context.Context, tenantID uuid.UUID, filter ListFilter) ([]CategoryResponse, error) {
	categories, err := s.categoryRepo.FindAllForTenant(ctx, tenantID, toDomainFilter(filter))
	if err != nil {
		return nil, err
	}

	responses := make([]CategoryResponse, 0, len(categories))
	for i := range categories {
		responses = append(responses, toCategoryResponse(&categories[i]))
	}
	return responses, nil
}

// Update renames a category
func (s *CategoryService) Update(ctx context.Context, tenantID, categoryID uuid.UUID, req UpdateCategoryRequest) (*CategoryResponse, error) {
	category, err := s.visibleCategory(ctx, tenantID, categoryID)
	if err != nil {
		return nil, err
	}

	if err := category.Rename(req.Name); err != nil {
		return nil, err
	}
	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, err
	}

	resp := toCategoryResponse(category)
	return &resp, nil
}

// Move reparents a category. Moving a category under its own descendant
// would cut the subtree loose from the root, so the ancestor chain of
// the new parent is checked first.
func (s *CategoryService) Move(ctx context.Context, tenantID, categoryID uuid.UUID, req MoveCategoryRequest) (*CategoryResponse, error) {
	category, err := s.visibleCategory(ctx, tenantID, categoryID)
	if err != nil {
		return nil, err
	}

	if req.ParentID != nil {
		if _, err := s.visibleCategory(ctx, tenantID, *req.ParentID); err != nil {
			return nil, err
		}
		if err := s.checkNoCycle(ctx, tenantID, categoryID, *req.ParentID); err != nil {
			return nil, err
		}
	}

	if err := category.SetParent(req.ParentID); err != nil {
		return nil, err
	}
	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, err
	}

	resp := toCategoryResponse(category)
	return &resp, nil
}

// Delete soft-deletes a category. Categories with children cannot be
// deleted; move or delete the children first.
func (s *CategoryService) Delete(ctx context.Context, tenantID, categoryID uuid.UUID) error {
	category, err := s.visibleCategory(ctx, tenantID, categoryID)
	if err != nil {
		return err
	}

	children, err := s.categoryRepo.FindChildren(ctx, tenantID, categoryID)
	if err != nil {
		return err
	}
	for i := range children {
		if children[i].IsVisible() {
			return shared.NewDomainError("INVALID_OPERATION", "Category has child categories")
		}
	}

	category.MarkDeleted()
	return s.categoryRepo.Save(ctx, category)
}

// checkNoCycle walks the ancestor chain of the candidate parent and
// fails if the category being moved appears in it.
func (s *CategoryService) checkNoCycle(ctx context.Context, tenantID, categoryID, parentID uuid.UUID) error {
	current := parentID
	for depth := 0; depth < maxCategoryDepth; depth++ {
		if current == categoryID {
			return shared.NewDomainError("INVALID_OPERATION", "Cannot move a category under its own descendant")
		}
		ancestor, err := s.categoryRepo.FindByIDForTenant(ctx, tenantID, current)
		if err != nil {
			return err
		}
		if ancestor.ParentID == nil {
			return nil
		}
		current = *ancestor.ParentID
	}
	return shared.NewDomainError("INVALID_OPERATION", "Category hierarchy is too deep")
}

func (s *CategoryService) visibleCategory(ctx context.Context, tenantID, categoryID uuid.UUID) (*catalog.Category, error) {
	category, err := s.categoryRepo.FindByIDForTenant(ctx, tenantID, categoryID)
	if err != nil {
		return nil, err
	}
	if !category.IsVisible() {
		return nil, shared.ErrNotFound
	}
	return category, nil
}
