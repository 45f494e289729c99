package models

import (
	"time"

	"github.com/google/uuid"
)

// NotificationType represents the kind of notification
type NotificationType string

const (
	NotificationTypeBudgetAlert      NotificationType = "Budget Alert"
	NotificationTypePurchaseReminder NotificationType = "Purchase Reminder"
	NotificationTypePhaseCompletion  NotificationType = "Phase Completion"
	NotificationTypeSystem           NotificationType = "System"
)

// Severity levels for notifications
const (
	SeverityInfo    = "info"
	SeverityWarning = "warning"
	SeverityError   = "error"
	SeveritySuccess = "success"
)

// Entity types referenced by notifications
const (
	EntityTypeProject  = "Project"
	EntityTypePhase    = "Phase"
	EntityTypeCategory = "Category"
	EntityTypePurchase = "Purchase"
	EntityTypeItem     = "Item"
)

// Notification is a per-user record. Only IsRead ever mutates, and only by
// the owning user.
type Notification struct {
	ID                uuid.UUID        `json:"id" db:"id"`
	TenantID          uuid.UUID        `json:"tenant_id" db:"tenant_id"`
	UserID            uuid.UUID        `json:"user_id" db:"user_id"`
	Type              NotificationType `json:"type" db:"type"`
	Title             string           `json:"title" db:"title"`
	Message           string           `json:"message" db:"message"`
	Severity          string           `json:"severity" db:"severity"`
	IsRead            bool             `json:"is_read" db:"is_read"`
	RelatedEntityType *string          `json:"related_entity_type" db:"related_entity_type"`
	RelatedEntityID   *uuid.UUID       `json:"related_entity_id" db:"related_entity_id"`
	ActionURL         *string          `json:"action_url" db:"action_url"`
	CreatedAt         time.Time        `json:"created_at" db:"created_at"`
}
