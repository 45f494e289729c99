package handlers

import (
	"net/http"

	"buildcost/internal/common"
	"buildcost/internal/models"
	"buildcost/internal/repositories"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// VendorHandlers handles vendor-related HTTP requests
type VendorHandlers struct {
	vendorRepo repositories.VendorRepository
}

func NewVendorHandlers(vendorRepo repositories.VendorRepository) *VendorHandlers {
	return &VendorHandlers{vendorRepo: vendorRepo}
}

// ListVendorsRequest represents query parameters for listing vendors
type ListVendorsRequest struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

// ListVendors handles listing vendors with tenant filtering
func (h *VendorHandlers) ListVendors(c echo.Context) error {
	ctx := c.Request().Context()

	var req ListVendorsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid query parameters")
	}
	limit, offset, err := common.ValidatePaginationParams(req.Limit, req.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Tenant not found")
	}

	vendors, err := h.vendorRepo.List(ctx, tenantID, limit, offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to list vendors")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"vendors": vendors,
		"limit":   limit,
		"offset":  offset,
	})
}

// CreateVendorRequest represents the vendor creation request payload
type CreateVendorRequest struct {
	Name    string   `json:"name"`
	Contact *string  `json:"contact"`
	Address *string  `json:"address"`
	Rating  *float64 `json:"rating"`
}

// CreateVendor handles creating a new vendor
func (h *VendorHandlers) CreateVendor(c echo.Context) error {
	ctx := c.Request().Context()

	var req CreateVendorRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if req.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Name is required")
	}
	if req.Rating != nil && (*req.Rating < 0 || *req.Rating > 5) {
		return echo.NewHTTPError(http.StatusBadRequest, "Rating must be between 0 and 5")
	}

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Tenant not found")
	}

	vendor := &models.Vendor{
		ID:       uuid.New(),
		TenantID: tenantID,
		Name:     req.Name,
		Contact:  req.Contact,
		Address:  req.Address,
		Rating:   req.Rating,
	}

	if err := h.vendorRepo.Create(ctx, vendor); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create vendor")
	}
	return c.JSON(http.StatusCreated, vendor)
}

// GetVendor handles getting vendor details by ID
func (h *VendorHandlers) GetVendor(c echo.Context) error {
	ctx := c.Request().Context()

	vendorID, err := common.ValidateUUID(c.Param("id"), "vendor ID")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Tenant not found")
	}

	vendor, err := h.vendorRepo.GetByID(ctx, tenantID, vendorID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Vendor not found")
	}
	return c.JSON(http.StatusOK, vendor)
}

// UpdateVendorRequest represents the vendor update request payload
type UpdateVendorRequest struct {
	Name    *string  `json:"name"`
	Contact *string  `json:"contact"`
	Address *string  `json:"address"`
	Rating  *float64 `json:"rating"`
}

// UpdateVendor handles updating vendor details
func (h *VendorHandlers) UpdateVendor(c echo.Context) error {
	ctx := c.Request().Context()

	vendorID, err := common.ValidateUUID(c.Param("id"), "vendor ID")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var req UpdateVendorRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Tenant not found")
	}

	vendor, err := h.vendorRepo.GetByID(ctx, tenantID, vendorID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Vendor not found")
	}

	if req.Name != nil {
		vendor.Name = *req.Name
	}
	if req.Contact != nil {
		vendor.Contact = req.Contact
	}
	if req.Address != nil {
		vendor.Address = req.Address
	}
	if req.Rating != nil {
		if *req.Rating < 0 || *req.Rating > 5 {
			return echo.NewHTTPError(http.StatusBadRequest, "Rating must be between 0 and 5")
		}
		vendor.Rating = req.Rating
	}

	if err := h.vendorRepo.Update(ctx, vendor); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update vendor")
	}
	return c.JSON(http.StatusOK, vendor)
}

// DeleteVendor handles deleting a vendor. Purchases that referenced the
// vendor fall into the "Unknown" bucket on vendor spend rollups.
func (h *VendorHandlers) DeleteVendor(c echo.Context) error {
	ctx := c.Request().Context()

	vendorID, err := common.ValidateUUID(c.Param("id"), "vendor ID")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Tenant not found")
	}

	if _, err := h.vendorRepo.GetByID(ctx, tenantID, vendorID); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Vendor not found")
	}
	if err := h.vendorRepo.Delete(ctx, tenantID, vendorID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete vendor")
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Vendor deleted successfully",
	})
}
