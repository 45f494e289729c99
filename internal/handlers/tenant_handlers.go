package handlers

import (
	"net/http"
	"strings"

	"buildcost/internal/common"
	"buildcost/internal/models"
	"buildcost/internal/repositories"
	"buildcost/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// TenantHandlers handles tenant provisioning requests
type TenantHandlers struct {
	tenantRepo  repositories.TenantRepository
	authService services.AuthService
}

func NewTenantHandlers(tenantRepo repositories.TenantRepository, authService services.AuthService) *TenantHandlers {
	return &TenantHandlers{
		tenantRepo:  tenantRepo,
		authService: authService,
	}
}

// CreateTenantRequest represents the tenant signup payload. The first user
// becomes the tenant admin.
type CreateTenantRequest struct {
	Name          string `json:"name"`
	Subdomain     string `json:"subdomain"`
	AdminEmail    string `json:"admin_email"`
	AdminPassword string `json:"admin_password"`
	AdminName     string `json:"admin_name"`
}

// CreateTenant provisions a tenant together with its first admin user
func (h *TenantHandlers) CreateTenant(c echo.Context) error {
	ctx := c.Request().Context()

	var req CreateTenantRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if req.Name == "" || req.Subdomain == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Name and subdomain are required")
	}
	if req.AdminEmail == "" || req.AdminPassword == "" || req.AdminName == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Admin email, password and name are required")
	}

	tenant := &models.Tenant{
		ID:        uuid.New(),
		Name:      req.Name,
		Subdomain: strings.ToLower(strings.TrimSpace(req.Subdomain)),
		Status:    "active",
	}
	if err := h.tenantRepo.Create(ctx, tenant); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create tenant")
	}

	admin, err := h.authService.Register(ctx, tenant.ID, req.AdminEmail, req.AdminPassword, req.AdminName, models.RoleAdmin)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"tenant": tenant,
		"admin":  admin,
	})
}

// GetTenant returns the caller's tenant record
func (h *TenantHandlers) GetTenant(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Tenant not found")
	}

	tenant, err := h.tenantRepo.GetByID(ctx, tenantID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Tenant not found")
	}
	return c.JSON(http.StatusOK, tenant)
}
