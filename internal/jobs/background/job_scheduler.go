package background

import (
	"context"
	"log"
	"sync"
	"time"

	"buildcost/internal/analytics"
	"buildcost/internal/reports"
	"buildcost/internal/repositories"
	"buildcost/internal/services"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
)

// JobScheduler runs the recurring maintenance work: budget overview cache
// refresh and the daily spend digest.
type JobScheduler struct {
	scheduler    gocron.Scheduler
	analyticsSvc *analytics.AnalyticsService
	reportSvc    *reports.ReportService
	emailSvc     services.EmailService
	tenantRepo   repositories.TenantRepository
	userRepo     repositories.UserRepository
	jobs         map[string]gocron.Job
	mu           sync.RWMutex
}

func NewJobScheduler(analyticsSvc *analytics.AnalyticsService, reportSvc *reports.ReportService,
	emailSvc services.EmailService, tenantRepo repositories.TenantRepository,
	userRepo repositories.UserRepository) *JobScheduler {

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		log.Fatalf("Failed to create scheduler: %v", err)
	}

	js := &JobScheduler{
		scheduler:    scheduler,
		analyticsSvc: analyticsSvc,
		reportSvc:    reportSvc,
		emailSvc:     emailSvc,
		tenantRepo:   tenantRepo,
		userRepo:     userRepo,
		jobs:         make(map[string]gocron.Job),
	}

	js.registerJobs()

	return js
}

// Start starts the job scheduler
func (js *JobScheduler) Start() error {
	log.Printf("Starting background job scheduler")
	js.scheduler.Start()
	return nil
}

// Stop stops the job scheduler
func (js *JobScheduler) Stop() error {
	log.Printf("Stopping background job scheduler")
	return js.scheduler.Shutdown()
}

func (js *JobScheduler) registerJobs() {
	// Budget overview refresh - every 15 minutes
	overviewJob, err := js.scheduler.NewJob(
		gocron.DurationJob(15*time.Minute),
		gocron.NewTask(js.refreshBudgetOverviews, context.Background()),
		gocron.WithName("budget-overview-refresh"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.Printf("Failed to create budget overview job: %v", err)
	} else {
		js.jobs["budget-overview-refresh"] = overviewJob
	}

	// Daily spend digest - every 24 hours
	digestJob, err := js.scheduler.NewJob(
		gocron.DurationJob(24*time.Hour),
		gocron.NewTask(js.sendDailyDigests, context.Background()),
		gocron.WithName("daily-spend-digest"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.Printf("Failed to create daily digest job: %v", err)
	} else {
		js.jobs["daily-spend-digest"] = digestJob
	}

	log.Printf("Registered %d background jobs", len(js.jobs))
}

// refreshBudgetOverviews rebuilds the cached budget overview for every
// active tenant so dashboards stay warm.
func (js *JobScheduler) refreshBudgetOverviews(ctx context.Context) error {
	log.Printf("Starting budget overview refresh")

	tenants, err := js.tenantRepo.List(ctx, 1000, 0)
	if err != nil {
		log.Printf("Failed to get tenants for budget overview refresh: %v", err)
		return err
	}

	semaphore := make(chan struct{}, 5)
	var wg sync.WaitGroup

	for _, tenant := range tenants {
		if tenant.Status != "active" {
			continue
		}

		wg.Add(1)
		go func(tenantID uuid.UUID) {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			js.analyticsSvc.InvalidateBudgetOverview(ctx, tenantID)
			if _, err := js.analyticsSvc.BudgetOverview(ctx, tenantID); err != nil {
				log.Printf("Failed to refresh budget overview for tenant %s: %v", tenantID.String(), err)
			}
		}(tenant.ID)
	}

	wg.Wait()
	log.Printf("Completed budget overview refresh for %d tenants", len(tenants))
	return nil
}

// sendDailyDigests emails each tenant's elevated users a summary of the last
// 24 hours of purchase activity.
func (js *JobScheduler) sendDailyDigests(ctx context.Context) error {
	log.Printf("Starting daily spend digests")

	tenants, err := js.tenantRepo.List(ctx, 1000, 0)
	if err != nil {
		log.Printf("Failed to get tenants for daily digests: %v", err)
		return err
	}

	for _, tenant := range tenants {
		if tenant.Status != "active" {
			continue
		}

		report, err := js.reportSvc.BuildPeriodReport(ctx, tenant.ID, "daily")
		if err != nil {
			log.Printf("Failed to build daily report for tenant %s: %v", tenant.ID.String(), err)
			continue
		}
		if report.PurchaseCount == 0 {
			continue
		}

		recipients, err := js.userRepo.ListElevated(ctx, tenant.ID)
		if err != nil {
			log.Printf("Failed to list digest recipients for tenant %s: %v", tenant.ID.String(), err)
			continue
		}
		for _, user := range recipients {
			if err := js.emailSvc.SendPeriodDigest(ctx, user.Email, report); err != nil {
				log.Printf("Failed to send digest to %s: %v", user.Email, err)
			}
		}
	}

	log.Printf("Completed daily spend digests")
	return nil
}
