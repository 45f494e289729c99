package alerting

import (
	"context"
	"fmt"
	"log"
	"time"

	"buildcost/internal/analytics"
	"buildcost/internal/models"
	"buildcost/internal/repositories"

	"github.com/google/uuid"
)

// Threshold is one trip point on the budget alert ladder.
type Threshold struct {
	Percent  int
	Severity string
	Phrase   string
}

// Budget thresholds are evaluated independently: a purchase that jumps spend
// past several of them fires every threshold not already alerted in the
// dedup window.
var Thresholds = []Threshold{
	{Percent: 80, Severity: models.SeverityWarning, Phrase: "has reached 80% of budget"},
	{Percent: 90, Severity: models.SeverityWarning, Phrase: "has reached 90% of budget"},
	{Percent: 100, Severity: models.SeverityError, Phrase: "has reached 100% of budget"},
	{Percent: 110, Severity: models.SeverityError, Phrase: "has exceeded budget by 10%"},
}

const dedupWindow = 24 * time.Hour

// EmailSender delivers a budget alert to a single recipient.
type EmailSender interface {
	SendBudgetAlertEmail(ctx context.Context, recipient, projectName string, percentUsed float64) error
}

// AlertService evaluates budget thresholds after purchase writes and fans
// out notifications to elevated users. Every failure in this pipeline is
// logged and swallowed; alerting never fails the write that triggered it.
type AlertService struct {
	projectRepo      repositories.ProjectRepository
	purchaseRepo     repositories.PurchaseRepository
	userRepo         repositories.UserRepository
	notificationRepo repositories.NotificationRepository
	emailSvc         EmailSender
}

// NewAlertService constructs the alert pipeline. emailSvc may be nil, in
// which case alerts fan out as in-app notifications only.
func NewAlertService(projectRepo repositories.ProjectRepository, purchaseRepo repositories.PurchaseRepository, userRepo repositories.UserRepository, notificationRepo repositories.NotificationRepository, emailSvc EmailSender) *AlertService {
	return &AlertService{
		projectRepo:      projectRepo,
		purchaseRepo:     purchaseRepo,
		userRepo:         userRepo,
		notificationRepo: notificationRepo,
		emailSvc:         emailSvc,
	}
}

// CheckProjectBudgetAlerts recomputes the project's spend and fires any
// threshold the current utilization has reached that has not alerted within
// the last 24 hours. Returns the threshold percents that fired, for
// observability; errors are handled internally.
func (s *AlertService) CheckProjectBudgetAlerts(ctx context.Context, tenantID, projectID uuid.UUID) []int {
	project, err := s.projectRepo.GetByID(ctx, tenantID, projectID)
	if err != nil {
		log.Printf("Budget alert check: failed to load project %s: %v", projectID.String(), err)
		return nil
	}
	if project == nil {
		return nil
	}

	// A project with no budget set has nothing to measure against.
	if project.TotalBudget <= 0 {
		return nil
	}

	filter := &models.PurchaseFilter{ProjectID: &projectID}
	totals, err := s.purchaseRepo.TotalSpend(ctx, tenantID, filter)
	if err != nil {
		log.Printf("Budget alert check: failed to total spend for project %s: %v", projectID.String(), err)
		return nil
	}

	// Alerting compares the raw ratio; display rounding happens elsewhere.
	percentUsed := analytics.PercentUsed(totals.TotalSpent, project.TotalBudget)

	var recipients []*models.User
	var fired []int
	for _, threshold := range Thresholds {
		if percentUsed < float64(threshold.Percent) {
			continue
		}

		since := time.Now().Add(-dedupWindow)
		exists, err := s.notificationRepo.BudgetAlertExists(ctx, tenantID, projectID, threshold.Phrase, since)
		if err != nil {
			log.Printf("Budget alert check: dedup lookup failed for project %s threshold %d: %v", projectID.String(), threshold.Percent, err)
			continue
		}
		if exists {
			continue
		}

		// The existence check and the insert are not atomic across
		// concurrent purchase writes, so the fan-out is gated on a
		// unique claim row per (project, threshold, UTC day).
		windowDay := time.Now().UTC().Format("2006-01-02")
		claimed, err := s.notificationRepo.ClaimBudgetAlert(ctx, tenantID, projectID, threshold.Percent, windowDay)
		if err != nil {
			log.Printf("Budget alert check: claim failed for project %s threshold %d: %v", projectID.String(), threshold.Percent, err)
			continue
		}
		if !claimed {
			continue
		}

		if recipients == nil {
			recipients, err = s.userRepo.ListElevated(ctx, tenantID)
			if err != nil {
				log.Printf("Budget alert check: failed to list recipients for tenant %s: %v", tenantID.String(), err)
				return fired
			}
		}

		notifications := make([]*models.Notification, 0, len(recipients))
		for _, user := range recipients {
			entityType := models.EntityTypeProject
			entityID := projectID
			actionURL := fmt.Sprintf("/projects/%s", projectID.String())
			notifications = append(notifications, &models.Notification{
				ID:                uuid.New(),
				TenantID:          tenantID,
				UserID:            user.ID,
				Type:              models.NotificationTypeBudgetAlert,
				Title:             fmt.Sprintf("Budget Alert: %s", project.Name),
				Message:           fmt.Sprintf("Project %q %s. Total spent: $%.2f of $%.2f", project.Name, threshold.Phrase, totals.TotalSpent, project.TotalBudget),
				Severity:          threshold.Severity,
				RelatedEntityType: &entityType,
				RelatedEntityID:   &entityID,
				ActionURL:         &actionURL,
			})
		}

		if err := s.notificationRepo.CreateMany(ctx, notifications); err != nil {
			log.Printf("Budget alert check: failed to create notifications for project %s threshold %d: %v", projectID.String(), threshold.Percent, err)
			continue
		}

		if s.emailSvc != nil {
			for _, user := range recipients {
				if err := s.emailSvc.SendBudgetAlertEmail(ctx, user.Email, project.Name, percentUsed); err != nil {
					log.Printf("Budget alert check: failed to email %s for project %s: %v", user.Email, projectID.String(), err)
				}
			}
		}
		fired = append(fired, threshold.Percent)
	}

	return fired
}
