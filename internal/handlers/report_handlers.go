package handlers

import (
	"net/http"

	"buildcost/internal/common"
	"buildcost/internal/reports"

	"github.com/labstack/echo/v4"
)

// ReportHandlers exposes period spend reports
type ReportHandlers struct {
	reportService *reports.ReportService
}

func NewReportHandlers(reportService *reports.ReportService) *ReportHandlers {
	return &ReportHandlers{reportService: reportService}
}

// GetPeriodReport builds the daily, weekly or monthly purchase report.
func (h *ReportHandlers) GetPeriodReport(c echo.Context) error {
	ctx := c.Request().Context()

	period := c.Param("period")
	if err := common.ValidateReportPeriod(period); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Tenant not found")
	}

	report, err := h.reportService.BuildPeriodReport(ctx, tenantID, period)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to build report")
	}
	return c.JSON(http.StatusOK, report)
}
