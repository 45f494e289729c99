package handlers

import (
	"net/http"

	"buildcost/internal/common"
	"buildcost/internal/models"
	"buildcost/internal/repositories"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// CategoryHandlers handles category-related HTTP requests
type CategoryHandlers struct {
	categoryRepo repositories.CategoryRepository
	phaseRepo    repositories.PhaseRepository
}

func NewCategoryHandlers(categoryRepo repositories.CategoryRepository, phaseRepo repositories.PhaseRepository) *CategoryHandlers {
	return &CategoryHandlers{
		categoryRepo: categoryRepo,
		phaseRepo:    phaseRepo,
	}
}

// ListCategories handles listing categories for a phase
func (h *CategoryHandlers) ListCategories(c echo.Context) error {
	ctx := c.Request().Context()

	phaseID, err := common.ValidateUUID(c.QueryParam("phase_id"), "phase_id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Tenant not found")
	}

	categories, err := h.categoryRepo.ListByPhase(ctx, tenantID, phaseID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to list categories")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"categories": categories,
	})
}

// CreateCategoryRequest represents the category creation request payload
type CreateCategoryRequest struct {
	PhaseID     string  `json:"phase_id"`
	ParentID    *string `json:"parent_id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

// CreateCategory handles creating a new category under a phase
func (h *CategoryHandlers) CreateCategory(c echo.Context) error {
	ctx := c.Request().Context()

	var req CreateCategoryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if req.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Name is required")
	}
	phaseID, err := common.ValidateUUID(req.PhaseID, "phase_id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Tenant not found")
	}

	if _, err := h.phaseRepo.GetByID(ctx, tenantID, phaseID); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Phase not found")
	}

	var parentID *uuid.UUID
	if req.ParentID != nil && *req.ParentID != "" {
		parentUUID, err := common.ValidateUUID(*req.ParentID, "parent_id")
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}

		parent, err := h.categoryRepo.GetByID(ctx, tenantID, parentUUID)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Parent category not found")
		}
		if parent.PhaseID != phaseID {
			return echo.NewHTTPError(http.StatusBadRequest, "Parent category belongs to a different phase")
		}

		depth, err := h.categoryRepo.Depth(ctx, tenantID, parentUUID)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to resolve category depth")
		}
		if depth+1 > models.MaxCategoryDepth {
			return echo.NewHTTPError(http.StatusBadRequest, "Category nesting limit reached")
		}

		parentID = &parentUUID
	}

	category := &models.Category{
		ID:          uuid.New(),
		TenantID:    tenantID,
		PhaseID:     phaseID,
		ParentID:    parentID,
		Name:        req.Name,
		Description: req.Description,
	}

	if err := h.categoryRepo.Create(ctx, category); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create category")
	}
	return c.JSON(http.StatusCreated, category)
}

// GetCategory handles getting category details by ID
func (h *CategoryHandlers) GetCategory(c echo.Context) error {
	ctx := c.Request().Context()

	categoryID, err := common.ValidateUUID(c.Param("id"), "category ID")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Tenant not found")
	}

	category, err := h.categoryRepo.GetByID(ctx, tenantID, categoryID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Category not found")
	}
	return c.JSON(http.StatusOK, category)
}

// UpdateCategoryRequest represents the category update request payload
type UpdateCategoryRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// UpdateCategory handles updating category details
func (h *CategoryHandlers) UpdateCategory(c echo.Context) error {
	ctx := c.Request().Context()

	categoryID, err := common.ValidateUUID(c.Param("id"), "category ID")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var req UpdateCategoryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Tenant not found")
	}

	category, err := h.categoryRepo.GetByID(ctx, tenantID, categoryID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Category not found")
	}

	if req.Name != nil {
		category.Name = *req.Name
	}
	if req.Description != nil {
		category.Description = req.Description
	}

	if err := h.categoryRepo.Update(ctx, category); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update category")
	}
	return c.JSON(http.StatusOK, category)
}

// DeleteCategory handles deleting a category
func (h *CategoryHandlers) DeleteCategory(c echo.Context) error {
	ctx := c.Request().Context()

	categoryID, err := common.ValidateUUID(c.Param("id"), "category ID")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Tenant not found")
	}

	if _, err := h.categoryRepo.GetByID(ctx, tenantID, categoryID); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Category not found")
	}
	if err := h.categoryRepo.Delete(ctx, tenantID, categoryID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete category")
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Category deleted successfully",
	})
}
