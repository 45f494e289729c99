package repositories

import (
	"context"

	"buildcost/internal/models"

	"github.com/google/uuid"
)

type VendorRepository interface {
	Create(ctx context.Context, vendor *models.Vendor) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Vendor, error)
	Update(ctx context.Context, vendor *models.Vendor) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Vendor, error)
}

type vendorRepo struct {
	db Database
}

func NewVendorRepository(db Database) VendorRepository {
	return &vendorRepo{db: db}
}

func (r *vendorRepo) Create(ctx context.Context, vendor *models.Vendor) error {
	query := `
		INSERT INTO vendors (id, tenant_id, name, contact, address, rating, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, vendor.ID, vendor.TenantID, vendor.Name, vendor.Contact, vendor.Address, vendor.Rating)
	return err
}

func (r *vendorRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Vendor, error) {
	vendor := &models.Vendor{}
	query := `
		SELECT id, tenant_id, name, contact, address, rating, created_at, updated_at
		FROM vendors
		WHERE tenant_id = $1 AND id = $2
	`
	err := r.db.QueryRow(ctx, query, tenantID, id).Scan(&vendor.ID, &vendor.TenantID, &vendor.Name, &vendor.Contact, &vendor.Address, &vendor.Rating, &vendor.CreatedAt, &vendor.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return vendor, nil
}

func (r *vendorRepo) Update(ctx context.Context, vendor *models.Vendor) error {
	query := `
		UPDATE vendors
		SET name = $1, contact = $2, address = $3, rating = $4, updated_at = NOW()
		WHERE tenant_id = $5 AND id = $6
	`
	_, err := r.db.Exec(ctx, query, vendor.Name, vendor.Contact, vendor.Address, vendor.Rating, vendor.TenantID, vendor.ID)
	return err
}

func (r *vendorRepo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	query := `DELETE FROM vendors WHERE tenant_id = $1 AND id = $2`
	_, err := r.db.Exec(ctx, query, tenantID, id)
	return err
}

func (r *vendorRepo) List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Vendor, error) {
	query := `
		SELECT id, tenant_id, name, contact, address, rating, created_at, updated_at
		FROM vendors
		WHERE tenant_id = $1
		ORDER BY name ASC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, tenantID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var vendors []*models.Vendor
	for rows.Next() {
		vendor := &models.Vendor{}
		if err := rows.Scan(&vendor.ID, &vendor.TenantID, &vendor.Name, &vendor.Contact, &vendor.Address, &vendor.Rating, &vendor.CreatedAt, &vendor.UpdatedAt); err != nil {
			return nil, err
		}
		vendors = append(vendors, vendor)
	}
	return vendors, rows.Err()
}
