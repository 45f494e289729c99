package repositories

import (
	"context"

	"buildcost/internal/models"

	"github.com/google/uuid"
)

type ProjectRepository interface {
	Create(ctx context.Context, project *models.Project) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Project, error)
	Update(ctx context.Context, project *models.Project) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Project, error)
	Count(ctx context.Context, tenantID uuid.UUID) (int, error)
}

type projectRepo struct {
	db Database
}

func NewProjectRepository(db Database) ProjectRepository {
	return &projectRepo{db: db}
}

func (r *projectRepo) Create(ctx context.Context, project *models.Project) error {
	query := `
		INSERT INTO projects (id, tenant_id, name, client, location, total_budget, start_date, end_date, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, project.ID, project.TenantID, project.Name, project.Client, project.Location, project.TotalBudget, project.StartDate, project.EndDate, project.CreatedBy)
	return err
}

func (r *projectRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Project, error) {
	project := &models.Project{}
	query := `
		SELECT id, tenant_id, name, client, location, total_budget, start_date, end_date, created_by, created_at, updated_at
		FROM projects
		WHERE tenant_id = $1 AND id = $2
	`
	err := r.db.QueryRow(ctx, query, tenantID, id).Scan(&project.ID, &project.TenantID, &project.Name, &project.Client, &project.Location, &project.TotalBudget, &project.StartDate, &project.EndDate, &project.CreatedBy, &project.CreatedAt, &project.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return project, nil
}

func (r *projectRepo) Update(ctx context.Context, project *models.Project) error {
	query := `
		UPDATE projects
		SET name = $1, client = $2, location = $3, total_budget = $4, start_date = $5, end_date = $6, updated_at = NOW()
		WHERE tenant_id = $7 AND id = $8
	`
	_, err := r.db.Exec(ctx, query, project.Name, project.Client, project.Location, project.TotalBudget, project.StartDate, project.EndDate, project.TenantID, project.ID)
	return err
}

func (r *projectRepo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	query := `DELETE FROM projects WHERE tenant_id = $1 AND id = $2`
	_, err := r.db.Exec(ctx, query, tenantID, id)
	return err
}

func (r *projectRepo) List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Project, error) {
	query := `
		SELECT id, tenant_id, name, client, location, total_budget, start_date, end_date, created_by, created_at, updated_at
		FROM projects
		WHERE tenant_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, tenantID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []*models.Project
	for rows.Next() {
		project := &models.Project{}
		if err := rows.Scan(&project.ID, &project.TenantID, &project.Name, &project.Client, &project.Location, &project.TotalBudget, &project.StartDate, &project.EndDate, &project.CreatedBy, &project.CreatedAt, &project.UpdatedAt); err != nil {
			return nil, err
		}
		projects = append(projects, project)
	}
	return projects, rows.Err()
}

func (r *projectRepo) Count(ctx context.Context, tenantID uuid.UUID) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM projects WHERE tenant_id = $1`
	err := r.db.QueryRow(ctx, query, tenantID).Scan(&count)
	return count, err
}
