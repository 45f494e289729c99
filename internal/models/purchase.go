package models

import (
	"time"

	"github.com/google/uuid"
)

// Purchase is the transaction record. It is immutable once created; TotalCost
// is computed at write time and trusted as stored data by every rollup.
type Purchase struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	TenantID     uuid.UUID  `json:"tenant_id" db:"tenant_id"`
	ProjectID    uuid.UUID  `json:"project_id" db:"project_id"`
	PhaseID      uuid.UUID  `json:"phase_id" db:"phase_id"`
	CategoryID   uuid.UUID  `json:"category_id" db:"category_id"`
	ItemID       uuid.UUID  `json:"item_id" db:"item_id"`
	VendorID     *uuid.UUID `json:"vendor_id" db:"vendor_id"`
	Quantity     float64    `json:"quantity" db:"quantity"`
	PricePerUnit float64    `json:"price_per_unit" db:"price_per_unit"`
	TotalCost    float64    `json:"total_cost" db:"total_cost"`
	InvoiceURL   *string    `json:"invoice_url" db:"invoice_url"`
	PurchaseDate time.Time  `json:"purchase_date" db:"purchase_date"`
	CreatedBy    uuid.UUID  `json:"created_by" db:"created_by"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
}

// PurchaseFilter narrows purchase queries to a slice of the hierarchy.
// TenantID is implied by the repository call and never optional.
type PurchaseFilter struct {
	ProjectID  *uuid.UUID `json:"project_id,omitempty"`
	PhaseID    *uuid.UUID `json:"phase_id,omitempty"`
	CategoryID *uuid.UUID `json:"category_id,omitempty"`
}

// PurchaseDetail is a purchase with referenced display names resolved.
// Missing references resolve to empty names; the row itself is kept.
type PurchaseDetail struct {
	Purchase
	ProjectName string `json:"project_name"`
	PhaseName   string `json:"phase_name"`
	ItemName    string `json:"item_name"`
	ItemUnit    string `json:"item_unit"`
	VendorName  string `json:"vendor_name"`
}
