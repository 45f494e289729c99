package handlers

import (
	"log"
	"net/http"
	"time"

	"buildcost/internal/caching"
	"buildcost/internal/common"
	"buildcost/internal/models"
	"buildcost/internal/repositories"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// projectCacheTTL bounds staleness of cached project reads.
const projectCacheTTL = 5 * time.Minute

// ProjectHandlers handles project-related HTTP requests
type ProjectHandlers struct {
	projectRepo repositories.ProjectRepository
	cacheSvc    caching.CacheService
}

func NewProjectHandlers(projectRepo repositories.ProjectRepository, cacheSvc caching.CacheService) *ProjectHandlers {
	return &ProjectHandlers{projectRepo: projectRepo, cacheSvc: cacheSvc}
}

// ListProjectsRequest represents query parameters for listing projects
type ListProjectsRequest struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

// ListProjects handles getting a list of projects with tenant filtering
func (h *ProjectHandlers) ListProjects(c echo.Context) error {
	ctx := c.Request().Context()

	var req ListProjectsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid query parameters")
	}
	limit, offset, err := common.ValidatePaginationParams(req.Limit, req.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	req.Limit, req.Offset = limit, offset

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Tenant not found")
	}

	projects, err := h.projectRepo.List(ctx, tenantID, req.Limit, req.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to list projects")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"projects": projects,
		"limit":    req.Limit,
		"offset":   req.Offset,
	})
}

// CreateProjectRequest represents the project creation request payload
type CreateProjectRequest struct {
	Name        string  `json:"name"`
	Client      string  `json:"client"`
	Location    *string `json:"location"`
	TotalBudget float64 `json:"total_budget"`
	StartDate   string  `json:"start_date"`
	EndDate     *string `json:"end_date"`
}

// CreateProject handles creating a new project
func (h *ProjectHandlers) CreateProject(c echo.Context) error {
	ctx := c.Request().Context()

	var req CreateProjectRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if req.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Name is required")
	}
	if req.TotalBudget < 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "Total budget cannot be negative")
	}

	if err := common.ValidateDateFormat(req.StartDate, "start_date"); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "start_date must be in YYYY-MM-DD format")
	}
	var endDate *time.Time
	if req.EndDate != nil && *req.EndDate != "" {
		if err := common.ValidateDateFormat(*req.EndDate, "end_date"); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		parsed, err := time.Parse("2006-01-02", *req.EndDate)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "end_date must be in YYYY-MM-DD format")
		}
		endDate = &parsed
	}

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Tenant not found")
	}
	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	project := &models.Project{
		ID:          uuid.New(),
		TenantID:    tenantID,
		Name:        req.Name,
		Client:      req.Client,
		Location:    req.Location,
		TotalBudget: req.TotalBudget,
		StartDate:   startDate,
		EndDate:     endDate,
		CreatedBy:   userID,
	}

	if err := h.projectRepo.Create(ctx, project); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create project")
	}
	return c.JSON(http.StatusCreated, project)
}

// GetProject handles getting project details by ID
func (h *ProjectHandlers) GetProject(c echo.Context) error {
	ctx := c.Request().Context()

	projectID, err := common.ValidateUUID(c.Param("id"), "project ID")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid project ID format")
	}

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Tenant not found")
	}

	cached, err := h.cacheSvc.GetProject(ctx, tenantID, projectID)
	if err != nil {
		log.Printf("WARN: project cache read failed: %v", err)
	}
	if cached != nil {
		return c.JSON(http.StatusOK, cached)
	}

	project, err := h.projectRepo.GetByID(ctx, tenantID, projectID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Project not found")
	}
	if err := h.cacheSvc.SetProject(ctx, tenantID, project, projectCacheTTL); err != nil {
		log.Printf("WARN: project cache write failed: %v", err)
	}
	return c.JSON(http.StatusOK, project)
}

// UpdateProjectRequest represents the project update request payload
type UpdateProjectRequest struct {
	Name        *string  `json:"name"`
	Client      *string  `json:"client"`
	Location    *string  `json:"location"`
	TotalBudget *float64 `json:"total_budget"`
	EndDate     *string  `json:"end_date"`
}

// UpdateProject handles updating project details
func (h *ProjectHandlers) UpdateProject(c echo.Context) error {
	ctx := c.Request().Context()

	projectID, err := common.ValidateUUID(c.Param("id"), "project ID")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid project ID format")
	}

	var req UpdateProjectRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Tenant not found")
	}

	project, err := h.projectRepo.GetByID(ctx, tenantID, projectID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Project not found")
	}

	if req.Name != nil {
		project.Name = *req.Name
	}
	if req.Client != nil {
		project.Client = *req.Client
	}
	if req.Location != nil {
		project.Location = req.Location
	}
	if req.TotalBudget != nil {
		if *req.TotalBudget < 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "Total budget cannot be negative")
		}
		project.TotalBudget = *req.TotalBudget
	}
	if req.EndDate != nil && *req.EndDate != "" {
		if err := common.ValidateDateFormat(*req.EndDate, "end_date"); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		parsed, err := time.Parse("2006-01-02", *req.EndDate)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "end_date must be in YYYY-MM-DD format")
		}
		project.EndDate = &parsed
	}

	if err := h.projectRepo.Update(ctx, project); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update project")
	}
	if err := h.cacheSvc.DeleteProject(ctx, tenantID, projectID); err != nil {
		log.Printf("WARN: project cache invalidation failed: %v", err)
	}
	if err := h.cacheSvc.DeleteBudgetOverview(ctx, tenantID); err != nil {
		log.Printf("WARN: budget overview cache invalidation failed: %v", err)
	}
	return c.JSON(http.StatusOK, project)
}

// DeleteProject handles deleting a project
func (h *ProjectHandlers) DeleteProject(c echo.Context) error {
	ctx := c.Request().Context()

	projectID, err := common.ValidateUUID(c.Param("id"), "project ID")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid project ID format")
	}

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Tenant not found")
	}

	if _, err := h.projectRepo.GetByID(ctx, tenantID, projectID); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Project not found")
	}
	if err := h.projectRepo.Delete(ctx, tenantID, projectID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete project")
	}
	if err := h.cacheSvc.InvalidateTenantCache(ctx, tenantID); err != nil {
		log.Printf("WARN: tenant cache invalidation failed: %v", err)
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Project deleted successfully",
	})
}
