package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/store/backoffice/internal/domain/catalog"
)

// LocationResponse represents a location in API responses
type LocationResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Address   string    `json:"address,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateLocationRequest represents a request to create a location
type CreateLocationRequest struct {
	Name    string `json:"name" binding:"required,max=255"`
	Type    string `json:"type" binding:"required,oneof=STORE WAREHOUSE"`
	Address string `json:"address" binding:"max=500"`
}

// UpdateLocationRequest represents a request to update a location
type UpdateLocationRequest struct {
	Name    *string `json:"name" binding:"omitempty,max=255"`
	Address *string `json:"address" binding:"omitempty,max=500"`
	Status  *string `json:"status" binding:"omitempty,oneof=ACTIVE INACTIVE"`
}

// ItemResponse represents an item in API responses
type ItemResponse struct {
	ID          uuid.UUID         `json:"id"`
	ItemCode    string            `json:"item_code"`
	UPCCode     string            `json:"upc_code,omitempty"`
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	CategoryID  *uuid.UUID        `json:"category_id,omitempty"`
	BrandID     *uuid.UUID        `json:"brand_id,omitempty"`
	Status      string            `json:"status"`
	Variants    []VariantResponse `json:"variants,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// VariantResponse represents an item variant in API responses
type VariantResponse struct {
	ID          uuid.UUID `json:"id"`
	ItemID      uuid.UUID `json:"item_id"`
	SKU         string    `json:"sku"`
	VariantName string    `json:"variant_name,omitempty"`
	Status      string    `json:"status"`
}

// CreateItemRequest represents a request to create an item with variants
type CreateItemRequest struct {
	ItemCode    string                 `json:"item_code" binding:"required,max=100"`
	UPCCode     string                 `json:"upc_code" binding:"max=100"`
	Name        string                 `json:"name" binding:"required,max=255"`
	Description string                 `json:"description" binding:"max=1000"`
	CategoryID  *uuid.UUID             `json:"category_id"`
	BrandID     *uuid.UUID             `json:"brand_id"`
	Variants    []CreateVariantRequest `json:"variants" binding:"dive"`
}

// CreateVariantRequest represents a request to add a variant to an item
type CreateVariantRequest struct {
	SKU         string `json:"sku" binding:"required,max=100"`
	VariantName string `json:"variant_name" binding:"max=255"`
}

// BrandResponse represents a brand in API responses
type BrandResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateBrandRequest represents a request to create a brand
type CreateBrandRequest struct {
	Name        string `json:"name" binding:"required,max=255"`
	Description string `json:"description" binding:"max=500"`
}

// CategoryResponse represents a category in API responses
type CategoryResponse struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	ParentID    *uuid.UUID `json:"parent_id,omitempty"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
}

// CreateCategoryRequest represents a request to create a category
type CreateCategoryRequest struct {
	Name        string     `json:"name" binding:"required,max=255"`
	Description string     `json:"description" binding:"max=500"`
	ParentID    *uuid.UUID `json:"parent_id"`
}

// UpdateCategoryRequest represents a request to rename a category
type UpdateCategoryRequest struct {
	Name string `json:"name" binding:"required,max=255"`
}

// MoveCategoryRequest represents a request to reparent a category
type MoveCategoryRequest struct {
	ParentID *uuid.UUID `json:"parent_id"`
}

// ListFilter represents shared filter options for catalog listings
type ListFilter struct {
	Search   string `form:"search"`
	Page     int    `form:"page" binding:"min=0"`
	PageSize int    `form:"page_size" binding:"min=0,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

func toLocationResponse(loc *catalog.Location) LocationResponse {
	return LocationResponse{
		ID:        loc.ID,
		Name:      loc.Name,
		Type:      string(loc.Type),
		Address:   loc.Address,
		Status:    loc.Status.String(),
		CreatedAt: loc.CreatedAt,
		UpdatedAt: loc.UpdatedAt,
	}
}

func toItemResponse(item *catalog.Item) ItemResponse {
	resp := ItemResponse{
		ID:          item.ID,
		ItemCode:    item.ItemCode,
		UPCCode:     item.UPCCode,
		Name:        item.Name,
		Description: item.Description,
		CategoryID:  item.CategoryID,
		BrandID:     item.BrandID,
		Status:      item.Status.String(),
		CreatedAt:   item.CreatedAt,
		UpdatedAt:   item.UpdatedAt,
	}
	for i := range item.Variants {
		variant := &item.Variants[i]
		if !variant.IsVisible() {
			continue
		}
		resp.Variants = append(resp.Variants, toVariantResponse(variant))
	}
	return resp
}

func toVariantResponse(variant *catalog.ItemVariant) VariantResponse {
	return VariantResponse{
		ID:          variant.ID,
		ItemID:      variant.ItemID,
		SKU:         variant.SKU,
		VariantName: variant.VariantName,
		Status:      variant.Status.String(),
	}
}

func toBrandResponse(brand *catalog.Brand) BrandResponse {
	return BrandResponse{
		ID:          brand.ID,
		Name:        brand.Name,
		Description: brand.Description,
		Status:      brand.Status.String(),
		CreatedAt:   brand.CreatedAt,
	}
}

func toCategoryResponse(category *catalog.Category) CategoryResponse {
	return CategoryResponse{
		ID:          category.ID,
		Name:        category.Name,
		Description: category.Description,
		ParentID:    category.ParentID,
		Status:      category.Status.String(),
		CreatedAt:   category.CreatedAt,
	}
}
