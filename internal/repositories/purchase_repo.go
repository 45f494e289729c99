package repositories

import (
	"context"
	"fmt"
	"time"

	"buildcost/internal/models"

	"github.com/google/uuid"
)

type PurchaseRepository interface {
	Create(ctx context.Context, purchase *models.Purchase) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Purchase, error)
	ListDetailed(ctx context.Context, tenantID uuid.UUID, filter *models.PurchaseFilter, limit, offset int) ([]models.PurchaseDetail, error)
	ListDetailedByDateRange(ctx context.Context, tenantID uuid.UUID, start, end time.Time) ([]models.PurchaseDetail, error)

	TotalSpend(ctx context.Context, tenantID uuid.UUID, filter *models.PurchaseFilter) (*models.RollupTotals, error)
	ItemBreakdown(ctx context.Context, tenantID uuid.UUID, projectID *uuid.UUID, limit int) ([]models.ItemBreakdownRow, error)
	VendorSpend(ctx context.Context, tenantID uuid.UUID, projectID *uuid.UUID) ([]models.VendorSpendRow, error)
	PhaseSummary(ctx context.Context, tenantID uuid.UUID, projectID *uuid.UUID) ([]models.PhaseSummaryRow, error)
}

type purchaseRepo struct {
	db Database
}

func NewPurchaseRepository(db Database) PurchaseRepository {
	return &purchaseRepo{db: db}
}

func (r *purchaseRepo) Create(ctx context.Context, purchase *models.Purchase) error {
	query := `
		INSERT INTO purchases (id, tenant_id, project_id, phase_id, category_id, item_id, vendor_id, quantity, price_per_unit, total_cost, invoice_url, purchase_date, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NOW())
	`
	_, err := r.db.Exec(ctx, query, purchase.ID, purchase.TenantID, purchase.ProjectID, purchase.PhaseID, purchase.CategoryID, purchase.ItemID, purchase.VendorID, purchase.Quantity, purchase.PricePerUnit, purchase.TotalCost, purchase.InvoiceURL, purchase.PurchaseDate, purchase.CreatedBy)
	return err
}

func (r *purchaseRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Purchase, error) {
	purchase := &models.Purchase{}
	query := `
		SELECT id, tenant_id, project_id, phase_id, category_id, item_id, vendor_id, quantity, price_per_unit, total_cost, invoice_url, purchase_date, created_by, created_at
		FROM purchases
		WHERE tenant_id = $1 AND id = $2
	`
	err := r.db.QueryRow(ctx, query, tenantID, id).Scan(&purchase.ID, &purchase.TenantID, &purchase.ProjectID, &purchase.PhaseID, &purchase.CategoryID, &purchase.ItemID, &purchase.VendorID, &purchase.Quantity, &purchase.PricePerUnit, &purchase.TotalCost, &purchase.InvoiceURL, &purchase.PurchaseDate, &purchase.CreatedBy, &purchase.CreatedAt)
	if err != nil {
		return nil, err
	}
	return purchase, nil
}

// filterClause appends hierarchy conditions to a query fragment. The tenant
// condition is always present and always $1.
func filterClause(base string, filter *models.PurchaseFilter, args []interface{}) (string, []interface{}) {
	n := len(args)
	if filter == nil {
		return base, args
	}
	if filter.ProjectID != nil {
		n++
		base += fmt.Sprintf(` AND p.project_id = $%d`, n)
		args = append(args, *filter.ProjectID)
	}
	if filter.PhaseID != nil {
		n++
		base += fmt.Sprintf(` AND p.phase_id = $%d`, n)
		args = append(args, *filter.PhaseID)
	}
	if filter.CategoryID != nil {
		n++
		base += fmt.Sprintf(` AND p.category_id = $%d`, n)
		args = append(args, *filter.CategoryID)
	}
	return base, args
}

const purchaseDetailSelect = `
		SELECT p.id, p.tenant_id, p.project_id, p.phase_id, p.category_id, p.item_id, p.vendor_id,
		       p.quantity, p.price_per_unit, p.total_cost, p.invoice_url, p.purchase_date, p.created_by, p.created_at,
		       COALESCE(pr.name, ''), COALESCE(ph.name, ''), COALESCE(i.name, ''), COALESCE(i.unit, ''), COALESCE(v.name, '')
		FROM purchases p
		LEFT JOIN projects pr ON pr.tenant_id = p.tenant_id AND pr.id = p.project_id
		LEFT JOIN phases ph ON ph.tenant_id = p.tenant_id AND ph.id = p.phase_id
		LEFT JOIN items i ON i.tenant_id = p.tenant_id AND i.id = p.item_id
		LEFT JOIN vendors v ON v.tenant_id = p.tenant_id AND v.id = p.vendor_id
		WHERE p.tenant_id = $1`

func (r *purchaseRepo) scanDetails(ctx context.Context, query string, args ...interface{}) ([]models.PurchaseDetail, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var purchases []models.PurchaseDetail
	for rows.Next() {
		var d models.PurchaseDetail
		if err := rows.Scan(&d.ID, &d.TenantID, &d.ProjectID, &d.PhaseID, &d.CategoryID, &d.ItemID, &d.VendorID,
			&d.Quantity, &d.PricePerUnit, &d.TotalCost, &d.InvoiceURL, &d.PurchaseDate, &d.CreatedBy, &d.CreatedAt,
			&d.ProjectName, &d.PhaseName, &d.ItemName, &d.ItemUnit, &d.VendorName); err != nil {
			return nil, err
		}
		purchases = append(purchases, d)
	}
	return purchases, rows.Err()
}

func (r *purchaseRepo) ListDetailed(ctx context.Context, tenantID uuid.UUID, filter *models.PurchaseFilter, limit, offset int) ([]models.PurchaseDetail, error) {
	args := []interface{}{tenantID}
	query, args := filterClause(purchaseDetailSelect, filter, args)
	query += fmt.Sprintf(` ORDER BY p.purchase_date DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)
	return r.scanDetails(ctx, query, args...)
}

func (r *purchaseRepo) ListDetailedByDateRange(ctx context.Context, tenantID uuid.UUID, start, end time.Time) ([]models.PurchaseDetail, error) {
	query := purchaseDetailSelect + ` AND p.purchase_date >= $2 AND p.purchase_date <= $3 ORDER BY p.purchase_date DESC`
	return r.scanDetails(ctx, query, tenantID, start, end)
}

// TotalSpend sums stored total_cost over the matching purchases. The stored
// value is trusted; quantity and price are never recomputed here.
func (r *purchaseRepo) TotalSpend(ctx context.Context, tenantID uuid.UUID, filter *models.PurchaseFilter) (*models.RollupTotals, error) {
	base := `
		SELECT COALESCE(SUM(p.total_cost), 0), COUNT(*)
		FROM purchases p
		WHERE p.tenant_id = $1`
	args := []interface{}{tenantID}
	query, args := filterClause(base, filter, args)

	totals := &models.RollupTotals{}
	err := r.db.QueryRow(ctx, query, args...).Scan(&totals.TotalSpent, &totals.PurchaseCount)
	if err != nil {
		return nil, err
	}
	return totals, nil
}

// ItemBreakdown groups spend by item name. The inner join drops purchases
// whose item has been deleted.
func (r *purchaseRepo) ItemBreakdown(ctx context.Context, tenantID uuid.UUID, projectID *uuid.UUID, limit int) ([]models.ItemBreakdownRow, error) {
	if limit <= 0 {
		limit = 10 // Default top-N
	}
	query := `
		SELECT i.name, SUM(p.total_cost), SUM(p.quantity), COUNT(*)
		FROM purchases p
		JOIN items i ON i.tenant_id = p.tenant_id AND i.id = p.item_id
		WHERE p.tenant_id = $1 AND ($2::uuid IS NULL OR p.project_id = $2)
		GROUP BY i.name
		ORDER BY SUM(p.total_cost) DESC
		LIMIT $3
	`
	rows, err := r.db.Query(ctx, query, tenantID, projectID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var breakdown []models.ItemBreakdownRow
	for rows.Next() {
		var row models.ItemBreakdownRow
		if err := rows.Scan(&row.ItemName, &row.TotalCost, &row.TotalQuantity, &row.PurchaseCount); err != nil {
			return nil, err
		}
		breakdown = append(breakdown, row)
	}
	return breakdown, rows.Err()
}

// VendorSpend groups spend by vendor. Purchases with no vendor land in a
// single "Unknown" bucket instead of being dropped.
func (r *purchaseRepo) VendorSpend(ctx context.Context, tenantID uuid.UUID, projectID *uuid.UUID) ([]models.VendorSpendRow, error) {
	query := `
		SELECT v.id, COALESCE(v.name, 'Unknown'), SUM(p.total_cost), COUNT(*)
		FROM purchases p
		LEFT JOIN vendors v ON v.tenant_id = p.tenant_id AND v.id = p.vendor_id
		WHERE p.tenant_id = $1 AND ($2::uuid IS NULL OR p.project_id = $2)
		GROUP BY v.id, v.name
		ORDER BY SUM(p.total_cost) DESC
	`
	rows, err := r.db.Query(ctx, query, tenantID, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var spend []models.VendorSpendRow
	for rows.Next() {
		var row models.VendorSpendRow
		if err := rows.Scan(&row.VendorID, &row.VendorName, &row.TotalSpend, &row.PurchaseCount); err != nil {
			return nil, err
		}
		spend = append(spend, row)
	}
	return spend, rows.Err()
}

// PhaseSummary groups spend by phase name, sorted by name ascending. The
// inner join drops purchases whose phase has been deleted.
func (r *purchaseRepo) PhaseSummary(ctx context.Context, tenantID uuid.UUID, projectID *uuid.UUID) ([]models.PhaseSummaryRow, error) {
	query := `
		SELECT ph.name, SUM(p.total_cost), COUNT(*)
		FROM purchases p
		JOIN phases ph ON ph.tenant_id = p.tenant_id AND ph.id = p.phase_id
		WHERE p.tenant_id = $1 AND ($2::uuid IS NULL OR p.project_id = $2)
		GROUP BY ph.name
		ORDER BY ph.name ASC
	`
	rows, err := r.db.Query(ctx, query, tenantID, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summary []models.PhaseSummaryRow
	for rows.Next() {
		var row models.PhaseSummaryRow
		if err := rows.Scan(&row.PhaseName, &row.TotalCost, &row.PurchaseCount); err != nil {
			return nil, err
		}
		summary = append(summary, row)
	}
	return summary, rows.Err()
}
