package models

import (
	"time"

	"github.com/google/uuid"
)

// MaxCategoryDepth bounds self-referential nesting.
const MaxCategoryDepth = 3

type Category struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	TenantID    uuid.UUID  `json:"tenant_id" db:"tenant_id"`
	PhaseID     uuid.UUID  `json:"phase_id" db:"phase_id"`
	ParentID    *uuid.UUID `json:"parent_id" db:"parent_id"`
	Name        string     `json:"name" db:"name"`
	Description *string    `json:"description" db:"description"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}
