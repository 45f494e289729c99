package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"buildcost/internal/alerting"
	"buildcost/internal/analytics"
	"buildcost/internal/common"
	"buildcost/internal/models"
	"buildcost/internal/repositories"

	"github.com/google/uuid"
)

const alertDispatchTimeout = 30 * time.Second

// CreatePurchaseInput carries a validated purchase creation request.
type CreatePurchaseInput struct {
	ProjectID    uuid.UUID
	PhaseID      uuid.UUID
	CategoryID   uuid.UUID
	ItemID       uuid.UUID
	VendorID     *uuid.UUID
	Quantity     float64
	PricePerUnit float64
	InvoiceURL   *string
	PurchaseDate time.Time
}

// PurchaseService owns the purchase write path: reference validation, cost
// derivation, the insert, and the post-commit alert dispatch.
type PurchaseService struct {
	purchaseRepo repositories.PurchaseRepository
	projectRepo  repositories.ProjectRepository
	phaseRepo    repositories.PhaseRepository
	categoryRepo repositories.CategoryRepository
	itemRepo     repositories.ItemRepository
	vendorRepo   repositories.VendorRepository
	analyticsSvc *analytics.AnalyticsService
	alertSvc     *alerting.AlertService
}

func NewPurchaseService(
	purchaseRepo repositories.PurchaseRepository,
	projectRepo repositories.ProjectRepository,
	phaseRepo repositories.PhaseRepository,
	categoryRepo repositories.CategoryRepository,
	itemRepo repositories.ItemRepository,
	vendorRepo repositories.VendorRepository,
	analyticsSvc *analytics.AnalyticsService,
	alertSvc *alerting.AlertService,
) *PurchaseService {
	return &PurchaseService{
		purchaseRepo: purchaseRepo,
		projectRepo:  projectRepo,
		phaseRepo:    phaseRepo,
		categoryRepo: categoryRepo,
		itemRepo:     itemRepo,
		vendorRepo:   vendorRepo,
		analyticsSvc: analyticsSvc,
		alertSvc:     alertSvc,
	}
}

// CreatePurchase validates the hierarchy references, derives total_cost from
// quantity and unit price, commits the purchase, then kicks off budget alert
// evaluation. The alert side channel never fails the purchase write.
func (s *PurchaseService) CreatePurchase(ctx context.Context, tenantID, userID uuid.UUID, input *CreatePurchaseInput) (*models.Purchase, error) {
	if input.Quantity <= 0 {
		return nil, fmt.Errorf("quantity must be positive")
	}
	if input.PricePerUnit < 0 {
		return nil, fmt.Errorf("price per unit cannot be negative")
	}

	if _, err := s.projectRepo.GetByID(ctx, tenantID, input.ProjectID); err != nil {
		return nil, fmt.Errorf("project not found: %w", err)
	}
	phase, err := s.phaseRepo.GetByID(ctx, tenantID, input.PhaseID)
	if err != nil {
		return nil, fmt.Errorf("phase not found: %w", err)
	}
	if phase.ProjectID != input.ProjectID {
		return nil, fmt.Errorf("phase does not belong to project")
	}
	category, err := s.categoryRepo.GetByID(ctx, tenantID, input.CategoryID)
	if err != nil {
		return nil, fmt.Errorf("category not found: %w", err)
	}
	if category.PhaseID != input.PhaseID {
		return nil, fmt.Errorf("category does not belong to phase")
	}
	if _, err := s.itemRepo.GetByID(ctx, tenantID, input.ItemID); err != nil {
		return nil, fmt.Errorf("item not found: %w", err)
	}
	if input.VendorID != nil {
		if _, err := s.vendorRepo.GetByID(ctx, tenantID, *input.VendorID); err != nil {
			return nil, fmt.Errorf("vendor not found: %w", err)
		}
	}

	purchaseDate := input.PurchaseDate
	if purchaseDate.IsZero() {
		purchaseDate = time.Now()
	}

	purchase := &models.Purchase{
		ID:           uuid.New(),
		TenantID:     tenantID,
		ProjectID:    input.ProjectID,
		PhaseID:      input.PhaseID,
		CategoryID:   input.CategoryID,
		ItemID:       input.ItemID,
		VendorID:     input.VendorID,
		Quantity:     input.Quantity,
		PricePerUnit: input.PricePerUnit,
		TotalCost:    input.Quantity * input.PricePerUnit,
		InvoiceURL:   input.InvoiceURL,
		PurchaseDate: purchaseDate,
		CreatedBy:    userID,
	}

	if err := s.purchaseRepo.Create(ctx, purchase); err != nil {
		return nil, err
	}

	s.analyticsSvc.InvalidateBudgetOverview(ctx, tenantID)
	s.dispatchAlertCheck(ctx, tenantID, purchase.ProjectID)

	return purchase, nil
}

// dispatchAlertCheck evaluates budget thresholds on a detached context so
// the evaluation survives the originating request ending.
func (s *PurchaseService) dispatchAlertCheck(ctx context.Context, tenantID, projectID uuid.UUID) {
	userID, _ := common.GetUserIDFromContext(ctx)
	role, _ := common.GetUserRoleFromContext(ctx)

	go func() {
		detached := common.WithIdentity(context.Background(), tenantID, userID, role)
		detached, cancel := context.WithTimeout(detached, alertDispatchTimeout)
		defer cancel()

		if fired := s.alertSvc.CheckProjectBudgetAlerts(detached, tenantID, projectID); len(fired) > 0 {
			log.Printf("Budget alerts fired for project %s: %v", projectID.String(), fired)
		}
	}()
}

func (s *PurchaseService) GetPurchase(ctx context.Context, tenantID, id uuid.UUID) (*models.Purchase, error) {
	return s.purchaseRepo.GetByID(ctx, tenantID, id)
}

func (s *PurchaseService) ListPurchases(ctx context.Context, tenantID uuid.UUID, filter *models.PurchaseFilter, limit, offset int) ([]models.PurchaseDetail, error) {
	return s.purchaseRepo.ListDetailed(ctx, tenantID, filter, limit, offset)
}
