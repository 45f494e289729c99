package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/random"

	"buildcost/internal/alerting"
	"buildcost/internal/analytics"
	"buildcost/internal/caching"
	"buildcost/internal/handlers"
	"buildcost/internal/jobs/background"
	"buildcost/internal/middleware"
	"buildcost/internal/reports"
	"buildcost/internal/repositories"
	"buildcost/internal/services"
	"buildcost/pkg/database"
)

const version = "1.0.0"

func main() {
	// Database connection
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	pool, err := database.NewPool(databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	// JWT configuration
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = random.String(32) // Generate random secret for development
		log.Printf("WARNING: Using generated JWT secret")
	}

	// Redis configuration
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}
	redisPassword := os.Getenv("REDIS_PASSWORD")
	redisDB := 0
	if redisDBStr := os.Getenv("REDIS_DB"); redisDBStr != "" {
		if db, err := strconv.Atoi(redisDBStr); err == nil {
			redisDB = db
		}
	}

	// MinIO configuration
	minioEndpoint := os.Getenv("MINIO_ENDPOINT")
	if minioEndpoint == "" {
		minioEndpoint = "localhost:9000"
	}
	minioAccessKey := os.Getenv("MINIO_ACCESS_KEY")
	if minioAccessKey == "" {
		minioAccessKey = "minioadmin" // Default for development
	}
	minioSecretKey := os.Getenv("MINIO_SECRET_KEY")
	if minioSecretKey == "" {
		minioSecretKey = "minioadmin" // Default for development
	}
	useSSL := os.Getenv("MINIO_USE_SSL") == "true"

	minioSvc, err := services.NewMinioService(minioEndpoint, minioAccessKey, minioSecretKey, useSSL)
	if err != nil {
		log.Fatalf("Failed to initialize MinIO service: %v", err)
	}

	// Create repositories
	tenantRepo := repositories.NewTenantRepository(pool)
	userRepo := repositories.NewUserRepository(pool)
	projectRepo := repositories.NewProjectRepository(pool)
	phaseRepo := repositories.NewPhaseRepository(pool)
	categoryRepo := repositories.NewCategoryRepository(pool)
	itemRepo := repositories.NewItemRepository(pool)
	vendorRepo := repositories.NewVendorRepository(pool)
	purchaseRepo := repositories.NewPurchaseRepository(pool)
	notificationRepo := repositories.NewNotificationRepository(pool)

	// Create cache service
	cacheSvc := caching.NewRedisCacheService(redisAddr, redisPassword, redisDB)

	// Create services
	analyticsSvc := analytics.NewAnalyticsService(purchaseRepo, projectRepo, cacheSvc)
	emailSvc := services.NewLogEmailService()
	alertSvc := alerting.NewAlertService(projectRepo, purchaseRepo, userRepo, notificationRepo, emailSvc)
	reportSvc := reports.NewReportService(purchaseRepo, projectRepo)
	authSvc := services.NewAuthService(userRepo, cacheSvc, jwtSecret, 3600, 86400*7)
	purchaseSvc := services.NewPurchaseService(purchaseRepo, projectRepo, phaseRepo, categoryRepo, itemRepo, vendorRepo, analyticsSvc, alertSvc)

	// Create handlers
	healthHandlers := handlers.NewHealthHandlers(pool)
	authHandlers := handlers.NewAuthHandlers(authSvc, userRepo, cacheSvc)
	tenantHandlers := handlers.NewTenantHandlers(tenantRepo, authSvc)
	projectHandlers := handlers.NewProjectHandlers(projectRepo, cacheSvc)
	phaseHandlers := handlers.NewPhaseHandlers(phaseRepo, projectRepo)
	categoryHandlers := handlers.NewCategoryHandlers(categoryRepo, phaseRepo)
	itemHandlers := handlers.NewItemHandlers(itemRepo, categoryRepo)
	vendorHandlers := handlers.NewVendorHandlers(vendorRepo)
	purchaseHandlers := handlers.NewPurchaseHandlers(purchaseSvc, minioSvc)
	notificationHandlers := handlers.NewNotificationHandlers(notificationRepo)
	analyticsHandlers := handlers.NewAnalyticsHandlers(analyticsSvc)
	reportHandlers := handlers.NewReportHandlers(reportSvc)

	// Background jobs
	scheduler := background.NewJobScheduler(analyticsSvc, reportSvc, emailSvc, tenantRepo, userRepo)
	if err := scheduler.Start(); err != nil {
		log.Fatalf("Failed to start job scheduler: %v", err)
	}
	defer scheduler.Stop()

	// Create Echo instance
	e := echo.New()

	// Global middleware
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.RemoveTrailingSlash())

	// Health endpoints (no auth required)
	e.GET("/health", healthHandlers.HealthCheck)
	e.GET("/health/live", healthHandlers.LivenessCheck)

	v1 := e.Group("/v1")

	// Authentication routes (no JWT required for signup/login)
	auth := v1.Group("/auth")
	auth.POST("/signup", tenantHandlers.CreateTenant)
	auth.POST("/login", authHandlers.Login)
	auth.POST("/refresh", authHandlers.Refresh)

	// Protected routes
	protected := v1.Group("")
	protected.Use(middleware.JWTMiddleware(jwtSecret))

	protected.GET("/me", authHandlers.Me)
	protected.POST("/users", authHandlers.RegisterUser, middleware.RequireAdmin())
	protected.GET("/tenant", tenantHandlers.GetTenant)

	// Project hierarchy routes
	protected.GET("/projects", projectHandlers.ListProjects)
	protected.POST("/projects", projectHandlers.CreateProject, middleware.RequireManager())
	protected.GET("/projects/:id", projectHandlers.GetProject)
	protected.PUT("/projects/:id", projectHandlers.UpdateProject, middleware.RequireManager())
	protected.DELETE("/projects/:id", projectHandlers.DeleteProject, middleware.RequireAdmin())

	protected.GET("/phases", phaseHandlers.ListPhases)
	protected.POST("/phases", phaseHandlers.CreatePhase, middleware.RequireManager())
	protected.GET("/phases/:id", phaseHandlers.GetPhase)
	protected.PUT("/phases/:id", phaseHandlers.UpdatePhase, middleware.RequireManager())
	protected.DELETE("/phases/:id", phaseHandlers.DeletePhase, middleware.RequireManager())

	protected.GET("/categories", categoryHandlers.ListCategories)
	protected.POST("/categories", categoryHandlers.CreateCategory, middleware.RequireManager())
	protected.GET("/categories/:id", categoryHandlers.GetCategory)
	protected.PUT("/categories/:id", categoryHandlers.UpdateCategory, middleware.RequireManager())
	protected.DELETE("/categories/:id", categoryHandlers.DeleteCategory, middleware.RequireManager())

	protected.GET("/items", itemHandlers.ListItems)
	protected.POST("/items", itemHandlers.CreateItem, middleware.RequireManager())
	protected.GET("/items/:id", itemHandlers.GetItem)
	protected.PUT("/items/:id", itemHandlers.UpdateItem, middleware.RequireManager())
	protected.DELETE("/items/:id", itemHandlers.DeleteItem, middleware.RequireManager())

	protected.GET("/vendors", vendorHandlers.ListVendors)
	protected.POST("/vendors", vendorHandlers.CreateVendor, middleware.RequireManager())
	protected.GET("/vendors/:id", vendorHandlers.GetVendor)
	protected.PUT("/vendors/:id", vendorHandlers.UpdateVendor, middleware.RequireManager())
	protected.DELETE("/vendors/:id", vendorHandlers.DeleteVendor, middleware.RequireManager())

	// Purchase routes
	protected.GET("/purchases", purchaseHandlers.ListPurchases)
	protected.POST("/purchases", purchaseHandlers.CreatePurchase, middleware.RequireManager())
	protected.GET("/purchases/:id", purchaseHandlers.GetPurchase)
	protected.POST("/purchases/invoice", purchaseHandlers.UploadInvoice, middleware.RequireManager())

	// Notification routes
	protected.GET("/notifications", notificationHandlers.ListNotifications)
	protected.PUT("/notifications/:id/read", notificationHandlers.MarkNotificationRead)
	protected.DELETE("/notifications/:id", notificationHandlers.DeleteNotification)

	// Analytics routes
	protected.GET("/analytics/total-spend", analyticsHandlers.GetTotalSpend)
	protected.GET("/analytics/item-breakdown", analyticsHandlers.GetItemBreakdown)
	protected.GET("/analytics/vendor-spend", analyticsHandlers.GetVendorSpend)
	protected.GET("/analytics/phase-summary", analyticsHandlers.GetPhaseSummary)
	protected.GET("/analytics/budget-overview", analyticsHandlers.GetBudgetOverview)

	// Report routes
	protected.GET("/reports/:period", reportHandlers.GetPeriodReport)

	// Start server
	portStr := os.Getenv("PORT")
	if portStr == "" {
		portStr = "8080"
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		log.Fatalf("Invalid port %s: %v", portStr, err)
	}

	log.Printf("Buildcost server v%s starting on port %d", version, port)
	e.Logger.Fatal(e.Start(fmt.Sprintf(":%d", port)))
}
