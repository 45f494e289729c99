package services

import (
	"context"
	"fmt"
	"log"

	"buildcost/internal/models"
)

// EmailService delivers digest and alert emails. The current implementation
// logs the message that would be sent; wiring a real provider is a
// deployment concern.
type EmailService interface {
	SendBudgetAlertEmail(ctx context.Context, recipient, projectName string, percentUsed float64) error
	SendPeriodDigest(ctx context.Context, recipient string, report *models.PeriodReport) error
}

type logEmailService struct{}

func NewLogEmailService() EmailService {
	return &logEmailService{}
}

func (s *logEmailService) SendBudgetAlertEmail(ctx context.Context, recipient, projectName string, percentUsed float64) error {
	subject := fmt.Sprintf("Budget Alert: %s", projectName)
	body := fmt.Sprintf("The project %s has reached %.2f%% of its budget.", projectName, percentUsed)
	log.Printf("[EMAIL] To=%s, Subject=%s, Body=%s", recipient, subject, body)
	return nil
}

func (s *logEmailService) SendPeriodDigest(ctx context.Context, recipient string, report *models.PeriodReport) error {
	subject := fmt.Sprintf("%s spend report", report.Period)
	body := fmt.Sprintf("%d purchases totaling %.2f between %s and %s across %d projects.",
		report.PurchaseCount, report.TotalSpent,
		report.Start.Format("2006-01-02"), report.End.Format("2006-01-02"),
		report.ProjectCount)
	log.Printf("[EMAIL] To=%s, Subject=%s, Body=%s", recipient, subject, body)
	return nil
}
