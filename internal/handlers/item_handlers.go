package handlers

import (
	"net/http"

	"buildcost/internal/common"
	"buildcost/internal/models"
	"buildcost/internal/repositories"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// ItemHandlers handles item catalog HTTP requests
type ItemHandlers struct {
	itemRepo     repositories.ItemRepository
	categoryRepo repositories.CategoryRepository
}

func NewItemHandlers(itemRepo repositories.ItemRepository, categoryRepo repositories.CategoryRepository) *ItemHandlers {
	return &ItemHandlers{
		itemRepo:     itemRepo,
		categoryRepo: categoryRepo,
	}
}

// ListItemsRequest represents query parameters for listing items
type ListItemsRequest struct {
	CategoryID string `query:"category_id"`
	Limit      int    `query:"limit"`
	Offset     int    `query:"offset"`
}

// ListItems handles listing catalog items, optionally scoped to a category
func (h *ItemHandlers) ListItems(c echo.Context) error {
	ctx := c.Request().Context()

	var req ListItemsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid query parameters")
	}
	limit, offset, err := common.ValidatePaginationParams(req.Limit, req.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var categoryID *uuid.UUID
	if req.CategoryID != "" {
		id, err := common.ValidateUUID(req.CategoryID, "category_id")
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		categoryID = &id
	}

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Tenant not found")
	}

	items, err := h.itemRepo.List(ctx, tenantID, categoryID, limit, offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to list items")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"items":  items,
		"limit":  limit,
		"offset": offset,
	})
}

// CreateItemRequest represents the item creation request payload
type CreateItemRequest struct {
	CategoryID      string  `json:"category_id"`
	Name            string  `json:"name"`
	Unit            string  `json:"unit"`
	RatePerUnit     float64 `json:"rate_per_unit"`
	DefaultVendorID *string `json:"default_vendor_id"`
}

// CreateItem handles creating a new catalog item
func (h *ItemHandlers) CreateItem(c echo.Context) error {
	ctx := c.Request().Context()

	var req CreateItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if req.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Name is required")
	}
	if req.Unit == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Unit is required")
	}
	categoryID, err := common.ValidateUUID(req.CategoryID, "category_id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Tenant not found")
	}

	if _, err := h.categoryRepo.GetByID(ctx, tenantID, categoryID); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Category not found")
	}
	if req.RatePerUnit < 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "Rate per unit cannot be negative")
	}

	var defaultVendorID *uuid.UUID
	if req.DefaultVendorID != nil && *req.DefaultVendorID != "" {
		id, err := common.ValidateUUID(*req.DefaultVendorID, "default_vendor_id")
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		defaultVendorID = &id
	}

	item := &models.Item{
		ID:              uuid.New(),
		TenantID:        tenantID,
		CategoryID:      categoryID,
		Name:            req.Name,
		Unit:            req.Unit,
		RatePerUnit:     req.RatePerUnit,
		DefaultVendorID: defaultVendorID,
	}

	if err := h.itemRepo.Create(ctx, item); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create item")
	}
	return c.JSON(http.StatusCreated, item)
}

// GetItem handles getting item details by ID
func (h *ItemHandlers) GetItem(c echo.Context) error {
	ctx := c.Request().Context()

	itemID, err := common.ValidateUUID(c.Param("id"), "item ID")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Tenant not found")
	}

	item, err := h.itemRepo.GetByID(ctx, tenantID, itemID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Item not found")
	}
	return c.JSON(http.StatusOK, item)
}

// UpdateItemRequest represents the item update request payload
type UpdateItemRequest struct {
	Name        *string  `json:"name"`
	Unit        *string  `json:"unit"`
	RatePerUnit *float64 `json:"rate_per_unit"`
}

// UpdateItem handles updating item details
func (h *ItemHandlers) UpdateItem(c echo.Context) error {
	ctx := c.Request().Context()

	itemID, err := common.ValidateUUID(c.Param("id"), "item ID")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var req UpdateItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Tenant not found")
	}

	item, err := h.itemRepo.GetByID(ctx, tenantID, itemID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Item not found")
	}

	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.Unit != nil {
		item.Unit = *req.Unit
	}
	if req.RatePerUnit != nil {
		if *req.RatePerUnit < 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "Rate per unit cannot be negative")
		}
		item.RatePerUnit = *req.RatePerUnit
	}

	if err := h.itemRepo.Update(ctx, item); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update item")
	}
	return c.JSON(http.StatusOK, item)
}

// DeleteItem handles deleting a catalog item
func (h *ItemHandlers) DeleteItem(c echo.Context) error {
	ctx := c.Request().Context()

	itemID, err := common.ValidateUUID(c.Param("id"), "item ID")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Tenant not found")
	}

	if _, err := h.itemRepo.GetByID(ctx, tenantID, itemID); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Item not found")
	}
	if err := h.itemRepo.Delete(ctx, tenantID, itemID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete item")
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Item deleted successfully",
	})
}
