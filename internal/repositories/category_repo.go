package repositories

import (
	"context"

	"buildcost/internal/models"

	"github.com/google/uuid"
)

type CategoryRepository interface {
	Create(ctx context.Context, category *models.Category) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Category, error)
	Update(ctx context.Context, category *models.Category) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	ListByPhase(ctx context.Context, tenantID, phaseID uuid.UUID) ([]*models.Category, error)
	Depth(ctx context.Context, tenantID, id uuid.UUID) (int, error)
}

type categoryRepo struct {
	db Database
}

func NewCategoryRepository(db Database) CategoryRepository {
	return &categoryRepo{db: db}
}

func (r *categoryRepo) Create(ctx context.Context, category *models.Category) error {
	query := `
		INSERT INTO categories (id, tenant_id, phase_id, parent_id, name, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, category.ID, category.TenantID, category.PhaseID, category.ParentID, category.Name, category.Description)
	return err
}

func (r *categoryRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Category, error) {
	category := &models.Category{}
	query := `
		SELECT id, tenant_id, phase_id, parent_id, name, description, created_at, updated_at
		FROM categories
		WHERE tenant_id = $1 AND id = $2
	`
	err := r.db.QueryRow(ctx, query, tenantID, id).Scan(&category.ID, &category.TenantID, &category.PhaseID, &category.ParentID, &category.Name, &category.Description, &category.CreatedAt, &category.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return category, nil
}

func (r *categoryRepo) Update(ctx context.Context, category *models.Category) error {
	query := `
		UPDATE categories
		SET name = $1, description = $2, parent_id = $3, updated_at = NOW()
		WHERE tenant_id = $4 AND id = $5
	`
	_, err := r.db.Exec(ctx, query, category.Name, category.Description, category.ParentID, category.TenantID, category.ID)
	return err
}

func (r *categoryRepo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	query := `DELETE FROM categories WHERE tenant_id = $1 AND id = $2`
	_, err := r.db.Exec(ctx, query, tenantID, id)
	return err
}

func (r *categoryRepo) ListByPhase(ctx context.Context, tenantID, phaseID uuid.UUID) ([]*models.Category, error) {
	query := `
		SELECT id, tenant_id, phase_id, parent_id, name, description, created_at, updated_at
		FROM categories
		WHERE tenant_id = $1 AND phase_id = $2
		ORDER BY name ASC
	`
	rows, err := r.db.Query(ctx, query, tenantID, phaseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []*models.Category
	for rows.Next() {
		category := &models.Category{}
		if err := rows.Scan(&category.ID, &category.TenantID, &category.PhaseID, &category.ParentID, &category.Name, &category.Description, &category.CreatedAt, &category.UpdatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

// Depth walks the parent chain and returns the nesting level of the category,
// 1 for a root category. Nesting is capped at models.MaxCategoryDepth.
func (r *categoryRepo) Depth(ctx context.Context, tenantID, id uuid.UUID) (int, error) {
	var depth int
	query := `
		WITH RECURSIVE ancestry AS (
			SELECT id, parent_id, 1 AS depth
			FROM categories
			WHERE tenant_id = $1 AND id = $2
			UNION ALL
			SELECT c.id, c.parent_id, a.depth + 1
			FROM categories c
			JOIN ancestry a ON c.id = a.parent_id
			WHERE c.tenant_id = $1
		)
		SELECT MAX(depth) FROM ancestry
	`
	err := r.db.QueryRow(ctx, query, tenantID, id).Scan(&depth)
	return depth, err
}
