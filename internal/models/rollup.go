package models

import (
	"time"

	"github.com/google/uuid"
)

// RollupTotals is a sum/count aggregate over matching purchases.
type RollupTotals struct {
	TotalSpent    float64 `json:"totalSpent"`
	PurchaseCount int     `json:"purchaseCount"`
}

// ItemBreakdownRow is a per-item spend aggregate. Purchases whose item has
// been deleted are dropped from the breakdown.
type ItemBreakdownRow struct {
	ItemName      string  `json:"name"`
	TotalCost     float64 `json:"totalCost"`
	TotalQuantity float64 `json:"totalQuantity"`
	PurchaseCount int     `json:"purchaseCount"`
}

// VendorSpendRow is a per-vendor spend aggregate. Purchases without a vendor
// aggregate into a single "Unknown" bucket.
type VendorSpendRow struct {
	VendorID      *uuid.UUID `json:"id"`
	VendorName    string     `json:"name"`
	TotalSpend    float64    `json:"totalSpend"`
	PurchaseCount int        `json:"purchaseCount"`
}

// PhaseSummaryRow is a per-phase spend aggregate, keyed by phase name.
type PhaseSummaryRow struct {
	PhaseName     string  `json:"name"`
	TotalCost     float64 `json:"totalCost"`
	PurchaseCount int     `json:"purchaseCount"`
}

// BudgetComparison is one project's budget-vs-actual figures. PercentUsed is
// rounded to 2 decimal places for display; alerting recomputes unrounded.
type BudgetComparison struct {
	ProjectID   uuid.UUID `json:"projectId"`
	ProjectName string    `json:"projectName"`
	Budget      float64   `json:"budget"`
	TotalSpent  float64   `json:"totalSpent"`
	Remaining   float64   `json:"remaining"`
	PercentUsed float64   `json:"percentUsed"`
}

// PeriodReport is a digest of purchase activity over a time window.
type PeriodReport struct {
	Period        string           `json:"period"`
	Start         time.Time        `json:"start"`
	End           time.Time        `json:"end"`
	PurchaseCount int              `json:"purchaseCount"`
	TotalSpent    float64          `json:"totalSpent"`
	ProjectCount  int              `json:"projectCount"`
	Purchases     []PurchaseDetail `json:"purchases"`
}
