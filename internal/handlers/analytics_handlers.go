package handlers

import (
	"net/http"
	"strconv"

	"buildcost/internal/analytics"
	"buildcost/internal/common"
	"buildcost/internal/models"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// AnalyticsHandlers exposes the spend rollups and budget comparisons
type AnalyticsHandlers struct {
	analyticsService *analytics.AnalyticsService
}

func NewAnalyticsHandlers(analyticsService *analytics.AnalyticsService) *AnalyticsHandlers {
	return &AnalyticsHandlers{analyticsService: analyticsService}
}

// GetTotalSpend returns summed spend for the tenant, optionally narrowed to
// a project, phase or category.
func (h *AnalyticsHandlers) GetTotalSpend(c echo.Context) error {
	ctx := c.Request().Context()

	filter, err := buildPurchaseFilter(c.QueryParam("project_id"), c.QueryParam("phase_id"), c.QueryParam("category_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Tenant not found")
	}

	totals, err := h.analyticsService.TotalSpend(ctx, tenantID, filter)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to compute total spend")
	}
	return c.JSON(http.StatusOK, totals)
}

// GetItemBreakdown returns top items by spend, highest first.
func (h *AnalyticsHandlers) GetItemBreakdown(c echo.Context) error {
	ctx := c.Request().Context()

	projectID, err := optionalUUIDParam(c.QueryParam("project_id"), "project_id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	limit := 0
	if limitStr := c.QueryParam("limit"); limitStr != "" {
		limit, err = strconv.Atoi(limitStr)
		if err != nil || limit < 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid limit")
		}
	}

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Tenant not found")
	}

	rows, err := h.analyticsService.ItemBreakdown(ctx, tenantID, projectID, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to compute item breakdown")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"items": rows,
	})
}

// GetVendorSpend returns spend grouped by vendor, highest first.
func (h *AnalyticsHandlers) GetVendorSpend(c echo.Context) error {
	ctx := c.Request().Context()

	projectID, err := optionalUUIDParam(c.QueryParam("project_id"), "project_id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Tenant not found")
	}

	rows, err := h.analyticsService.VendorSpend(ctx, tenantID, projectID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to compute vendor spend")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"vendors": rows,
	})
}

// GetPhaseSummary returns spend grouped by phase in name order.
func (h *AnalyticsHandlers) GetPhaseSummary(c echo.Context) error {
	ctx := c.Request().Context()

	projectID, err := optionalUUIDParam(c.QueryParam("project_id"), "project_id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Tenant not found")
	}

	rows, err := h.analyticsService.PhaseSummary(ctx, tenantID, projectID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to compute phase summary")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"phases": rows,
	})
}

// GetBudgetOverview returns budget-vs-actual for every project of the tenant.
func (h *AnalyticsHandlers) GetBudgetOverview(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Tenant not found")
	}

	overview, err := h.analyticsService.BudgetOverview(ctx, tenantID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to compute budget overview")
	}
	if overview == nil {
		overview = []*models.BudgetComparison{}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"projects": overview,
	})
}

func optionalUUIDParam(value, fieldName string) (*uuid.UUID, error) {
	if value == "" {
		return nil, nil
	}
	id, err := common.ValidateUUID(value, fieldName)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
