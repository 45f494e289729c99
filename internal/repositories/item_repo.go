package repositories

import (
	"context"

	"buildcost/internal/models"

	"github.com/google/uuid"
)

type ItemRepository interface {
	Create(ctx context.Context, item *models.Item) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Item, error)
	Update(ctx context.Context, item *models.Item) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	List(ctx context.Context, tenantID uuid.UUID, categoryID *uuid.UUID, limit, offset int) ([]*models.Item, error)
}

type itemRepo struct {
	db Database
}

func NewItemRepository(db Database) ItemRepository {
	return &itemRepo{db: db}
}

func (r *itemRepo) Create(ctx context.Context, item *models.Item) error {
	query := `
		INSERT INTO items (id, tenant_id, category_id, name, unit, rate_per_unit, default_vendor_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, item.ID, item.TenantID, item.CategoryID, item.Name, item.Unit, item.RatePerUnit, item.DefaultVendorID)
	return err
}

func (r *itemRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Item, error) {
	item := &models.Item{}
	query := `
		SELECT id, tenant_id, category_id, name, unit, rate_per_unit, default_vendor_id, created_at, updated_at
		FROM items
		WHERE tenant_id = $1 AND id = $2
	`
	err := r.db.QueryRow(ctx, query, tenantID, id).Scan(&item.ID, &item.TenantID, &item.CategoryID, &item.Name, &item.Unit, &item.RatePerUnit, &item.DefaultVendorID, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (r *itemRepo) Update(ctx context.Context, item *models.Item) error {
	query := `
		UPDATE items
		SET name = $1, unit = $2, rate_per_unit = $3, default_vendor_id = $4, category_id = $5, updated_at = NOW()
		WHERE tenant_id = $6 AND id = $7
	`
	_, err := r.db.Exec(ctx, query, item.Name, item.Unit, item.RatePerUnit, item.DefaultVendorID, item.CategoryID, item.TenantID, item.ID)
	return err
}

func (r *itemRepo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	query := `DELETE FROM items WHERE tenant_id = $1 AND id = $2`
	_, err := r.db.Exec(ctx, query, tenantID, id)
	return err
}

func (r *itemRepo) List(ctx context.Context, tenantID uuid.UUID, categoryID *uuid.UUID, limit, offset int) ([]*models.Item, error) {
	query := `
		SELECT id, tenant_id, category_id, name, unit, rate_per_unit, default_vendor_id, created_at, updated_at
		FROM items
		WHERE tenant_id = $1 AND ($2::uuid IS NULL OR category_id = $2)
		ORDER BY name ASC
		LIMIT $3 OFFSET $4
	`
	rows, err := r.db.Query(ctx, query, tenantID, categoryID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*models.Item
	for rows.Next() {
		item := &models.Item{}
		if err := rows.Scan(&item.ID, &item.TenantID, &item.CategoryID, &item.Name, &item.Unit, &item.RatePerUnit, &item.DefaultVendorID, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
