package handlers

import (
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"buildcost/internal/common"
	"buildcost/internal/models"
	"buildcost/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const invoiceBucket = "invoices"

// PurchaseHandlers handles the purchase write path and purchase queries
type PurchaseHandlers struct {
	purchaseService *services.PurchaseService
	minioService    services.MinioService
}

func NewPurchaseHandlers(purchaseService *services.PurchaseService, minioService services.MinioService) *PurchaseHandlers {
	return &PurchaseHandlers{
		purchaseService: purchaseService,
		minioService:    minioService,
	}
}

// CreatePurchaseRequest represents the purchase creation request payload
type CreatePurchaseRequest struct {
	ProjectID    string  `json:"project_id"`
	PhaseID      string  `json:"phase_id"`
	CategoryID   string  `json:"category_id"`
	ItemID       string  `json:"item_id"`
	VendorID     *string `json:"vendor_id"`
	Quantity     float64 `json:"quantity"`
	PricePerUnit float64 `json:"price_per_unit"`
	InvoiceURL   *string `json:"invoice_url"`
	PurchaseDate string  `json:"purchase_date"`
}

// CreatePurchase records a purchase and triggers budget alert evaluation.
// Alerting runs after the write commits and cannot fail this request.
func (h *PurchaseHandlers) CreatePurchase(c echo.Context) error {
	ctx := c.Request().Context()

	var req CreatePurchaseRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	projectID, err := common.ValidateUUID(req.ProjectID, "project_id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	phaseID, err := common.ValidateUUID(req.PhaseID, "phase_id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	categoryID, err := common.ValidateUUID(req.CategoryID, "category_id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	itemID, err := common.ValidateUUID(req.ItemID, "item_id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	var vendorID *uuid.UUID
	if req.VendorID != nil && *req.VendorID != "" {
		id, err := common.ValidateUUID(*req.VendorID, "vendor_id")
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		vendorID = &id
	}

	if err := common.ValidatePositiveFloat(req.Quantity, "quantity", 1e9); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := common.ValidateNonNegativeFloat(req.PricePerUnit, "price_per_unit", 1e12); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var purchaseDate time.Time
	if req.PurchaseDate != "" {
		if err := common.ValidateDateFormat(req.PurchaseDate, "purchase_date"); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		purchaseDate, err = time.Parse("2006-01-02", req.PurchaseDate)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "purchase_date must be in YYYY-MM-DD format")
		}
	}

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Tenant not found")
	}
	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	input := &services.CreatePurchaseInput{
		ProjectID:    projectID,
		PhaseID:      phaseID,
		CategoryID:   categoryID,
		ItemID:       itemID,
		VendorID:     vendorID,
		Quantity:     req.Quantity,
		PricePerUnit: req.PricePerUnit,
		InvoiceURL:   req.InvoiceURL,
		PurchaseDate: purchaseDate,
	}

	purchase, err := h.purchaseService.CreatePurchase(ctx, tenantID, userID, input)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, purchase)
}

// ListPurchasesRequest represents query parameters for listing purchases
type ListPurchasesRequest struct {
	ProjectID  string `query:"project_id"`
	PhaseID    string `query:"phase_id"`
	CategoryID string `query:"category_id"`
	Limit      int    `query:"limit"`
	Offset     int    `query:"offset"`
}

// ListPurchases handles listing purchases with optional hierarchy filters
func (h *PurchaseHandlers) ListPurchases(c echo.Context) error {
	ctx := c.Request().Context()

	var req ListPurchasesRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid query parameters")
	}
	limit, offset, err := common.ValidatePaginationParams(req.Limit, req.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	filter, err := buildPurchaseFilter(req.ProjectID, req.PhaseID, req.CategoryID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Tenant not found")
	}

	purchases, err := h.purchaseService.ListPurchases(ctx, tenantID, filter, limit, offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to list purchases")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"purchases": purchases,
		"limit":     limit,
		"offset":    offset,
	})
}

// GetPurchase handles getting purchase details by ID
func (h *PurchaseHandlers) GetPurchase(c echo.Context) error {
	ctx := c.Request().Context()

	purchaseID, err := common.ValidateUUID(c.Param("id"), "purchase ID")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Tenant not found")
	}

	purchase, err := h.purchaseService.GetPurchase(ctx, tenantID, purchaseID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Purchase not found")
	}
	return c.JSON(http.StatusOK, purchase)
}

// UploadInvoice stores an invoice document and returns a presigned URL for it
func (h *PurchaseHandlers) UploadInvoice(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Tenant not found")
	}

	file, err := c.FormFile("invoice")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invoice file is required")
	}
	src, err := file.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Failed to open invoice file")
	}
	defer src.Close()

	objectName := fmt.Sprintf("%s/%s%s", tenantID.String(), uuid.NewString(), filepath.Ext(file.Filename))
	contentType := file.Header.Get("Content-Type")

	if err := h.minioService.EnsureBucketExists(ctx, invoiceBucket); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to prepare invoice storage")
	}
	if err := h.minioService.UploadInvoice(ctx, invoiceBucket, objectName, src, file.Size, contentType); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to upload invoice")
	}

	url, err := h.minioService.GetPresignedURL(invoiceBucket, objectName, 24*time.Hour)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate invoice URL")
	}

	return c.JSON(http.StatusCreated, map[string]string{
		"object_name": objectName,
		"invoice_url": url,
	})
}

func buildPurchaseFilter(projectID, phaseID, categoryID string) (*models.PurchaseFilter, error) {
	filter := &models.PurchaseFilter{}
	if projectID != "" {
		id, err := common.ValidateUUID(projectID, "project_id")
		if err != nil {
			return nil, err
		}
		filter.ProjectID = &id
	}
	if phaseID != "" {
		id, err := common.ValidateUUID(phaseID, "phase_id")
		if err != nil {
			return nil, err
		}
		filter.PhaseID = &id
	}
	if categoryID != "" {
		id, err := common.ValidateUUID(categoryID, "category_id")
		if err != nil {
			return nil, err
		}
		filter.CategoryID = &id
	}
	return filter, nil
}
