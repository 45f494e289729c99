package analytics

import (
	"context"
	"log"
	"math"
	"time"

	"buildcost/internal/caching"
	"buildcost/internal/models"
	"buildcost/internal/repositories"

	"github.com/google/uuid"
)

const budgetOverviewTTL = 5 * time.Minute

// AnalyticsService computes spend rollups and budget-versus-actual
// comparisons over the purchase log.
type AnalyticsService struct {
	purchaseRepo repositories.PurchaseRepository
	projectRepo  repositories.ProjectRepository
	cacheService caching.CacheService
}

func NewAnalyticsService(purchaseRepo repositories.PurchaseRepository, projectRepo repositories.ProjectRepository, cacheService caching.CacheService) *AnalyticsService {
	return &AnalyticsService{
		purchaseRepo: purchaseRepo,
		projectRepo:  projectRepo,
		cacheService: cacheService,
	}
}

// TotalSpend sums the stored total_cost of purchases matching the filter.
// An empty filter covers the whole tenant.
func (a *AnalyticsService) TotalSpend(ctx context.Context, tenantID uuid.UUID, filter *models.PurchaseFilter) (*models.RollupTotals, error) {
	return a.purchaseRepo.TotalSpend(ctx, tenantID, filter)
}

// ItemBreakdown returns spend grouped by item name, highest first.
// Purchases whose item no longer exists are excluded.
func (a *AnalyticsService) ItemBreakdown(ctx context.Context, tenantID uuid.UUID, projectID *uuid.UUID, limit int) ([]models.ItemBreakdownRow, error) {
	return a.purchaseRepo.ItemBreakdown(ctx, tenantID, projectID, limit)
}

// VendorSpend returns spend grouped by vendor, highest first. Purchases with
// no vendor land in a single "Unknown" bucket.
func (a *AnalyticsService) VendorSpend(ctx context.Context, tenantID uuid.UUID, projectID *uuid.UUID) ([]models.VendorSpendRow, error) {
	return a.purchaseRepo.VendorSpend(ctx, tenantID, projectID)
}

// PhaseSummary returns spend grouped by phase name in alphabetical order.
func (a *AnalyticsService) PhaseSummary(ctx context.Context, tenantID uuid.UUID, projectID *uuid.UUID) ([]models.PhaseSummaryRow, error) {
	return a.purchaseRepo.PhaseSummary(ctx, tenantID, projectID)
}

// CompareProject computes budget versus actual spend for one project.
// Remaining goes negative once a project overruns; percentUsed is rounded to
// two decimals for display.
func (a *AnalyticsService) CompareProject(ctx context.Context, tenantID uuid.UUID, project *models.Project) (*models.BudgetComparison, error) {
	filter := &models.PurchaseFilter{ProjectID: &project.ID}
	totals, err := a.purchaseRepo.TotalSpend(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}

	return &models.BudgetComparison{
		ProjectID:   project.ID,
		ProjectName: project.Name,
		Budget:      project.TotalBudget,
		TotalSpent:  Round2(totals.TotalSpent),
		Remaining:   Round2(project.TotalBudget - totals.TotalSpent),
		PercentUsed: Round2(PercentUsed(totals.TotalSpent, project.TotalBudget)),
	}, nil
}

// BudgetOverview compares every project of the tenant against its budget.
// Results are cached per tenant; a failure on one project is logged and that
// project is skipped rather than failing the whole overview.
func (a *AnalyticsService) BudgetOverview(ctx context.Context, tenantID uuid.UUID) ([]*models.BudgetComparison, error) {
	if a.cacheService != nil {
		cached, err := a.cacheService.GetBudgetOverview(ctx, tenantID)
		if err != nil {
			log.Printf("Failed to read budget overview cache for tenant %s: %v", tenantID.String(), err)
		} else if cached != nil {
			return cached, nil
		}
	}

	projects, err := a.projectRepo.List(ctx, tenantID, 10000, 0)
	if err != nil {
		return nil, err
	}

	overview := make([]*models.BudgetComparison, 0, len(projects))
	for _, project := range projects {
		comparison, err := a.CompareProject(ctx, tenantID, project)
		if err != nil {
			log.Printf("Failed to compare budget for project %s: %v", project.ID.String(), err)
			continue
		}
		overview = append(overview, comparison)
	}

	if a.cacheService != nil {
		if err := a.cacheService.SetBudgetOverview(ctx, tenantID, overview, budgetOverviewTTL); err != nil {
			log.Printf("Failed to cache budget overview for tenant %s: %v", tenantID.String(), err)
		}
	}

	return overview, nil
}

// InvalidateBudgetOverview drops the cached overview after spend changes.
func (a *AnalyticsService) InvalidateBudgetOverview(ctx context.Context, tenantID uuid.UUID) {
	if a.cacheService == nil {
		return
	}
	if err := a.cacheService.DeleteBudgetOverview(ctx, tenantID); err != nil {
		log.Printf("Failed to invalidate budget overview cache for tenant %s: %v", tenantID.String(), err)
	}
}

// PercentUsed returns the unrounded budget utilization percentage. A zero or
// negative budget yields 0 so downstream consumers never divide by zero.
func PercentUsed(spent, budget float64) float64 {
	if budget <= 0 {
		return 0
	}
	return spent / budget * 100
}

// Round2 rounds to two decimal places for display.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
