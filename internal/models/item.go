package models

import (
	"time"

	"github.com/google/uuid"
)

// Item is a catalog entry, not a transaction.
type Item struct {
	ID              uuid.UUID  `json:"id" db:"id"`
	TenantID        uuid.UUID  `json:"tenant_id" db:"tenant_id"`
	CategoryID      uuid.UUID  `json:"category_id" db:"category_id"`
	Name            string     `json:"name" db:"name"`
	Unit            string     `json:"unit" db:"unit"`
	RatePerUnit     float64    `json:"rate_per_unit" db:"rate_per_unit"`
	DefaultVendorID *uuid.UUID `json:"default_vendor_id" db:"default_vendor_id"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at" db:"updated_at"`
}
