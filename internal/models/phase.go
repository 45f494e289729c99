package models

import (
	"time"

	"github.com/google/uuid"
)

// Phase names come from a closed set.
const (
	PhaseGrey      = "Grey"
	PhaseFinishing = "Finishing"
)

type Phase struct {
	ID                 uuid.UUID `json:"id" db:"id"`
	TenantID           uuid.UUID `json:"tenant_id" db:"tenant_id"`
	ProjectID          uuid.UUID `json:"project_id" db:"project_id"`
	Name               string    `json:"name" db:"name"`
	Description        *string   `json:"description" db:"description"`
	Status             string    `json:"status" db:"status"`
	ProgressPercentage int       `json:"progress_percentage" db:"progress_percentage"`
	CreatedAt          time.Time `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time `json:"updated_at" db:"updated_at"`
}

// ValidPhaseName reports whether name belongs to the closed phase set.
func ValidPhaseName(name string) bool {
	return name == PhaseGrey || name == PhaseFinishing
}
