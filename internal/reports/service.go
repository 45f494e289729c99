package reports

import (
	"context"
	"fmt"
	"time"

	"buildcost/internal/models"
	"buildcost/internal/repositories"

	"github.com/google/uuid"
)

// ReportService assembles spend reports over rolling time windows.
type ReportService struct {
	purchaseRepo repositories.PurchaseRepository
	projectRepo  repositories.ProjectRepository
}

func NewReportService(purchaseRepo repositories.PurchaseRepository, projectRepo repositories.ProjectRepository) *ReportService {
	return &ReportService{
		purchaseRepo: purchaseRepo,
		projectRepo:  projectRepo,
	}
}

// PeriodWindow resolves a period selector into [start, now]. Monthly means
// one calendar month back, not a fixed 30 days.
func PeriodWindow(period string, now time.Time) (time.Time, time.Time, error) {
	switch period {
	case "daily":
		return now.Add(-24 * time.Hour), now, nil
	case "weekly":
		return now.AddDate(0, 0, -7), now, nil
	case "monthly":
		return now.AddDate(0, -1, 0), now, nil
	default:
		return time.Time{}, time.Time{}, fmt.Errorf("invalid report period: %s", period)
	}
}

// BuildPeriodReport returns all purchases in the period window with their
// project, item and vendor names resolved, plus tenant-level totals.
func (s *ReportService) BuildPeriodReport(ctx context.Context, tenantID uuid.UUID, period string) (*models.PeriodReport, error) {
	start, end, err := PeriodWindow(period, time.Now())
	if err != nil {
		return nil, err
	}

	purchases, err := s.purchaseRepo.ListDetailedByDateRange(ctx, tenantID, start, end)
	if err != nil {
		return nil, err
	}

	var totalSpent float64
	for _, purchase := range purchases {
		totalSpent += purchase.TotalCost
	}

	projectCount, err := s.projectRepo.Count(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	return &models.PeriodReport{
		Period:        period,
		Start:         start,
		End:           end,
		PurchaseCount: len(purchases),
		TotalSpent:    totalSpent,
		ProjectCount:  projectCount,
		Purchases:     purchases,
	}, nil
}
