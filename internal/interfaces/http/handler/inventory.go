package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	ledgerapp "github.com/store/backoffice/internal/application/ledger"
)

// InventoryHandler handles inventory level and ledger API endpoints
type InventoryHandler struct {
	BaseHandler
	ledgerService *ledgerapp.Service
}

// NewInventoryHandler creates a new InventoryHandler
func NewInventoryHandler(ledgerService *ledgerapp.Service) *InventoryHandler {
	return &InventoryHandler{ledgerService: ledgerService}
}

// RegisterRoutes registers all inventory routes
func (h *InventoryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	inventory := rg.Group("/inventory")
	{
		inventory.GET("/levels", h.ListLevels)
		inventory.GET("/levels/lookup", h.GetLevel)
		inventory.GET("/levels/low-stock", h.LowStock)
		inventory.GET("/levels/by-location/:id", h.LevelsByLocation)
		inventory.GET("/levels/by-variant/:id", h.LevelsByVariant)
		inventory.POST("/adjust", h.AdjustQuantity)
		inventory.POST("/reserve", h.Reserve)
		inventory.POST("/release", h.Release)
		inventory.POST("/transfer", h.Transfer)
		inventory.PUT("/reorder-policy", h.SetReorderPolicy)
		inventory.GET("/transactions", h.ListTransactions)
		inventory.GET("/transactions/:id", h.GetTransaction)
	}
}

// GetLevel returns the level for a location-variant pair. Pairs that
// were never written come back with zero quantities.
func (h *InventoryHandler) GetLevel(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant context required")
		return
	}

	locationID, err := uuid.Parse(c.Query("location_id"))
	if err != nil {
		h.BadRequest(c, "Invalid location ID format")
		return
	}

	variantID, err := uuid.Parse(c.Query("item_variant_id"))
	if err != nil {
		h.BadRequest(c, "Invalid item variant ID format")
		return
	}

	level, err := h.ledgerService.GetLevel(c.Request.Context(), tenantID, locationID, variantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, level)
}

// ListLevels lists levels for the tenant with optional filters
func (h *InventoryHandler) ListLevels(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant context required")
		return
	}

	var filter ledgerapp.LevelListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	levels, total, err := h.ledgerService.ListLevels(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	page := filter.Page
	if page == 0 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize == 0 {
		pageSize = 20
	}

	h.SuccessWithMeta(c, levels, total, page, pageSize)
}

// LowStock lists levels at or below their reorder point
func (h *InventoryHandler) LowStock(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant context required")
		return
	}

	levels, err := h.ledgerService.LowStock(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, levels)
}

// LevelsByLocation lists all levels at a location
func (h *InventoryHandler) LevelsByLocation(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant context required")
		return
	}

	locationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid location ID format")
		return
	}

	levels, err := h.ledgerService.LevelsByLocation(c.Request.Context(), tenantID, locationID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, levels)
}

// LevelsByVariant lists the levels of a variant across all locations
func (h *InventoryHandler) LevelsByVariant(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant context required")
		return
	}

	variantID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid item variant ID format")
		return
	}

	levels, err := h.ledgerService.LevelsByVariant(c.Request.Context(), tenantID, variantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, levels)
}

// AdjustQuantity applies a signed stock movement and records it
func (h *InventoryHandler) AdjustQuantity(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant context required")
		return
	}

	var req ledgerapp.AdjustQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	h.fillOperator(c, &req.OperatorID)

	level, err := h.ledgerService.AdjustQuantity(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, level)
}

// Reserve earmarks available stock for a pending order
func (h *InventoryHandler) Reserve(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant context required")
		return
	}

	var req ledgerapp.ReserveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	h.fillOperator(c, &req.OperatorID)

	level, err := h.ledgerService.Reserve(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, level)
}

// Release returns reserved stock to the available pool
func (h *InventoryHandler) Release(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant context required")
		return
	}

	var req ledgerapp.ReleaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	h.fillOperator(c, &req.OperatorID)

	level, err := h.ledgerService.Release(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, level)
}

// Transfer moves stock between two locations in one atomic operation
func (h *InventoryHandler) Transfer(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant context required")
		return
	}

	var req ledgerapp.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	h.fillOperator(c, &req.OperatorID)

	if err := h.ledgerService.Transfer(c.Request.Context(), tenantID, req); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// SetReorderPolicy updates the reorder threshold of a pair
func (h *InventoryHandler) SetReorderPolicy(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant context required")
		return
	}

	var req ledgerapp.SetReorderPolicyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	level, err := h.ledgerService.SetReorderPolicy(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, level)
}

// ListTransactions lists ledger rows newest first
func (h *InventoryHandler) ListTransactions(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant context required")
		return
	}

	var filter ledgerapp.TransactionListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	transactions, total, err := h.ledgerService.ListTransactions(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	page := filter.Page
	if page == 0 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize == 0 {
		pageSize = 20
	}

	h.SuccessWithMeta(c, transactions, total, page, pageSize)
}

// GetTransaction returns a single ledger row
func (h *InventoryHandler) GetTransaction(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant context required")
		return
	}

	txID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid transaction ID format")
		return
	}

	transaction, err := h.ledgerService.GetTransaction(c.Request.Context(), tenantID, txID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, transaction)
}

// fillOperator stamps the authenticated user on the request when the
// body did not name one
func (h *InventoryHandler) fillOperator(c *gin.Context, operatorID **uuid.UUID) {
	if *operatorID != nil {
		return
	}
	if userID, err := getUserID(c); err == nil {
		*operatorID = &userID
	}
}
