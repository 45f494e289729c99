package repositories

import (
	"context"

	"buildcost/internal/models"

	"github.com/google/uuid"
)

type PhaseRepository interface {
	Create(ctx context.Context, phase *models.Phase) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Phase, error)
	Update(ctx context.Context, phase *models.Phase) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	ListByProject(ctx context.Context, tenantID, projectID uuid.UUID) ([]*models.Phase, error)
}

type phaseRepo struct {
	db Database
}

func NewPhaseRepository(db Database) PhaseRepository {
	return &phaseRepo{db: db}
}

func (r *phaseRepo) Create(ctx context.Context, phase *models.Phase) error {
	query := `
		INSERT INTO phases (id, tenant_id, project_id, name, description, status, progress_percentage, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, phase.ID, phase.TenantID, phase.ProjectID, phase.Name, phase.Description, phase.Status, phase.ProgressPercentage)
	return err
}

func (r *phaseRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Phase, error) {
	phase := &models.Phase{}
	query := `
		SELECT id, tenant_id, project_id, name, description, status, progress_percentage, created_at, updated_at
		FROM phases
		WHERE tenant_id = $1 AND id = $2
	`
	err := r.db.QueryRow(ctx, query, tenantID, id).Scan(&phase.ID, &phase.TenantID, &phase.ProjectID, &phase.Name, &phase.Description, &phase.Status, &phase.ProgressPercentage, &phase.CreatedAt, &phase.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return phase, nil
}

func (r *phaseRepo) Update(ctx context.Context, phase *models.Phase) error {
	query := `
		UPDATE phases
		SET name = $1, description = $2, status = $3, progress_percentage = $4, updated_at = NOW()
		WHERE tenant_id = $5 AND id = $6
	`
	_, err := r.db.Exec(ctx, query, phase.Name, phase.Description, phase.Status, phase.ProgressPercentage, phase.TenantID, phase.ID)
	return err
}

func (r *phaseRepo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	query := `DELETE FROM phases WHERE tenant_id = $1 AND id = $2`
	_, err := r.db.Exec(ctx, query, tenantID, id)
	return err
}

func (r *phaseRepo) ListByProject(ctx context.Context, tenantID, projectID uuid.UUID) ([]*models.Phase, error) {
	query := `
		SELECT id, tenant_id, project_id, name, description, status, progress_percentage, created_at, updated_at
		FROM phases
		WHERE tenant_id = $1 AND project_id = $2
		ORDER BY name ASC
	`
	rows, err := r.db.Query(ctx, query, tenantID, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var phases []*models.Phase
	for rows.Next() {
		phase := &models.Phase{}
		if err := rows.Scan(&phase.ID, &phase.TenantID, &phase.ProjectID, &phase.Name, &phase.Description, &phase.Status, &phase.ProgressPercentage, &phase.CreatedAt, &phase.UpdatedAt); err != nil {
			return nil, err
		}
		phases = append(phases, phase)
	}
	return phases, rows.Err()
}
