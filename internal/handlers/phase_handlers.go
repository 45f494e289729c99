package handlers

import (
	"net/http"

	"buildcost/internal/common"
	"buildcost/internal/models"
	"buildcost/internal/repositories"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// PhaseHandlers handles phase-related HTTP requests
type PhaseHandlers struct {
	phaseRepo   repositories.PhaseRepository
	projectRepo repositories.ProjectRepository
}

func NewPhaseHandlers(phaseRepo repositories.PhaseRepository, projectRepo repositories.ProjectRepository) *PhaseHandlers {
	return &PhaseHandlers{
		phaseRepo:   phaseRepo,
		projectRepo: projectRepo,
	}
}

// ListPhases handles listing phases for a project
func (h *PhaseHandlers) ListPhases(c echo.Context) error {
	ctx := c.Request().Context()

	projectID, err := common.ValidateUUID(c.QueryParam("project_id"), "project_id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Tenant not found")
	}

	phases, err := h.phaseRepo.ListByProject(ctx, tenantID, projectID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to list phases")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"phases": phases,
	})
}

// CreatePhaseRequest represents the phase creation request payload
type CreatePhaseRequest struct {
	ProjectID   string  `json:"project_id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

// CreatePhase handles creating a new phase under a project
func (h *PhaseHandlers) CreatePhase(c echo.Context) error {
	ctx := c.Request().Context()

	var req CreatePhaseRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if !models.ValidPhaseName(req.Name) {
		return echo.NewHTTPError(http.StatusBadRequest, "Phase name must be Grey or Finishing")
	}
	projectID, err := common.ValidateUUID(req.ProjectID, "project_id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Tenant not found")
	}

	if _, err := h.projectRepo.GetByID(ctx, tenantID, projectID); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Project not found")
	}

	phase := &models.Phase{
		ID:          uuid.New(),
		TenantID:    tenantID,
		ProjectID:   projectID,
		Name:        req.Name,
		Description: req.Description,
		Status:      "active",
	}

	if err := h.phaseRepo.Create(ctx, phase); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create phase")
	}
	return c.JSON(http.StatusCreated, phase)
}

// GetPhase handles getting phase details by ID
func (h *PhaseHandlers) GetPhase(c echo.Context) error {
	ctx := c.Request().Context()

	phaseID, err := common.ValidateUUID(c.Param("id"), "phase ID")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Tenant not found")
	}

	phase, err := h.phaseRepo.GetByID(ctx, tenantID, phaseID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Phase not found")
	}
	return c.JSON(http.StatusOK, phase)
}

// UpdatePhaseRequest represents the phase update request payload
type UpdatePhaseRequest struct {
	Description        *string `json:"description"`
	Status             *string `json:"status"`
	ProgressPercentage *int    `json:"progress_percentage"`
}

// UpdatePhase handles updating phase details
func (h *PhaseHandlers) UpdatePhase(c echo.Context) error {
	ctx := c.Request().Context()

	phaseID, err := common.ValidateUUID(c.Param("id"), "phase ID")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var req UpdatePhaseRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Tenant not found")
	}

	phase, err := h.phaseRepo.GetByID(ctx, tenantID, phaseID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Phase not found")
	}

	if req.Description != nil {
		phase.Description = req.Description
	}
	if req.Status != nil {
		phase.Status = *req.Status
	}
	if req.ProgressPercentage != nil {
		if *req.ProgressPercentage < 0 || *req.ProgressPercentage > 100 {
			return echo.NewHTTPError(http.StatusBadRequest, "Progress percentage must be between 0 and 100")
		}
		phase.ProgressPercentage = *req.ProgressPercentage
	}

	if err := h.phaseRepo.Update(ctx, phase); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update phase")
	}
	return c.JSON(http.StatusOK, phase)
}

// DeletePhase handles deleting a phase
func (h *PhaseHandlers) DeletePhase(c echo.Context) error {
	ctx := c.Request().Context()

	phaseID, err := common.ValidateUUID(c.Param("id"), "phase ID")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Tenant not found")
	}

	if _, err := h.phaseRepo.GetByID(ctx, tenantID, phaseID); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Phase not found")
	}
	if err := h.phaseRepo.Delete(ctx, tenantID, phaseID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete phase")
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Phase deleted successfully",
	})
}
