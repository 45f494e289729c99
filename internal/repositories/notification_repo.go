package repositories

import (
	"context"
	"time"

	"buildcost/internal/models"

	"github.com/google/uuid"
)

type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	CreateMany(ctx context.Context, notifications []*models.Notification) error
	ListByUser(ctx context.Context, tenantID, userID uuid.UUID, isRead *bool, limit int) ([]*models.Notification, error)
	CountUnread(ctx context.Context, tenantID, userID uuid.UUID) (int, error)
	MarkRead(ctx context.Context, tenantID, userID, id uuid.UUID) (bool, error)
	Delete(ctx context.Context, tenantID, userID, id uuid.UUID) (bool, error)

	// BudgetAlertExists reports whether a budget alert matching the threshold
	// phrase was already created for the project within the lookback window.
	BudgetAlertExists(ctx context.Context, tenantID, projectID uuid.UUID, phrase string, since time.Time) (bool, error)

	// ClaimBudgetAlert atomically claims the right to fan out one threshold
	// for one project on one UTC day. Returns false when another evaluation
	// already holds the claim.
	ClaimBudgetAlert(ctx context.Context, tenantID, projectID uuid.UUID, thresholdPercent int, windowDay string) (bool, error)
}

type notificationRepo struct {
	db Database
}

func NewNotificationRepository(db Database) NotificationRepository {
	return &notificationRepo{db: db}
}

const notificationInsert = `
		INSERT INTO notifications (id, tenant_id, user_id, type, title, message, severity, is_read, related_entity_type, related_entity_id, action_url, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW())
	`

func (r *notificationRepo) Create(ctx context.Context, n *models.Notification) error {
	_, err := r.db.Exec(ctx, notificationInsert, n.ID, n.TenantID, n.UserID, n.Type, n.Title, n.Message, n.Severity, n.IsRead, n.RelatedEntityType, n.RelatedEntityID, n.ActionURL)
	return err
}

// CreateMany inserts the fan-out one row at a time. Each insert commits
// independently; a failure mid-way leaves earlier rows in place, which the
// alerting pipeline accepts.
func (r *notificationRepo) CreateMany(ctx context.Context, notifications []*models.Notification) error {
	for _, n := range notifications {
		if err := r.Create(ctx, n); err != nil {
			return err
		}
	}
	return nil
}

func (r *notificationRepo) ListByUser(ctx context.Context, tenantID, userID uuid.UUID, isRead *bool, limit int) ([]*models.Notification, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT id, tenant_id, user_id, type, title, message, severity, is_read, related_entity_type, related_entity_id, action_url, created_at
		FROM notifications
		WHERE tenant_id = $1 AND user_id = $2 AND ($3::boolean IS NULL OR is_read = $3)
		ORDER BY created_at DESC
		LIMIT $4
	`
	rows, err := r.db.Query(ctx, query, tenantID, userID, isRead, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []*models.Notification
	for rows.Next() {
		n := &models.Notification{}
		if err := rows.Scan(&n.ID, &n.TenantID, &n.UserID, &n.Type, &n.Title, &n.Message, &n.Severity, &n.IsRead, &n.RelatedEntityType, &n.RelatedEntityID, &n.ActionURL, &n.CreatedAt); err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

func (r *notificationRepo) CountUnread(ctx context.Context, tenantID, userID uuid.UUID) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM notifications WHERE tenant_id = $1 AND user_id = $2 AND is_read = FALSE`
	err := r.db.QueryRow(ctx, query, tenantID, userID).Scan(&count)
	return count, err
}

// MarkRead flips is_read for a notification owned by the caller. Returns
// false when the notification does not exist or belongs to someone else.
func (r *notificationRepo) MarkRead(ctx context.Context, tenantID, userID, id uuid.UUID) (bool, error) {
	query := `UPDATE notifications SET is_read = TRUE WHERE tenant_id = $1 AND user_id = $2 AND id = $3`
	tag, err := r.db.Exec(ctx, query, tenantID, userID, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *notificationRepo) Delete(ctx context.Context, tenantID, userID, id uuid.UUID) (bool, error) {
	query := `DELETE FROM notifications WHERE tenant_id = $1 AND user_id = $2 AND id = $3`
	tag, err := r.db.Exec(ctx, query, tenantID, userID, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *notificationRepo) BudgetAlertExists(ctx context.Context, tenantID, projectID uuid.UUID, phrase string, since time.Time) (bool, error) {
	var exists bool
	query := `
		SELECT EXISTS (
			SELECT 1 FROM notifications
			WHERE tenant_id = $1
			  AND type = $2
			  AND related_entity_type = $3
			  AND related_entity_id = $4
			  AND message LIKE '%' || $5 || '%'
			  AND created_at >= $6
		)
	`
	err := r.db.QueryRow(ctx, query, tenantID, models.NotificationTypeBudgetAlert, models.EntityTypeProject, projectID, phrase, since).Scan(&exists)
	return exists, err
}

func (r *notificationRepo) ClaimBudgetAlert(ctx context.Context, tenantID, projectID uuid.UUID, thresholdPercent int, windowDay string) (bool, error) {
	query := `
		INSERT INTO budget_alert_claims (tenant_id, project_id, threshold_percent, window_day, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (tenant_id, project_id, threshold_percent, window_day) DO NOTHING
	`
	tag, err := r.db.Exec(ctx, query, tenantID, projectID, thresholdPercent, windowDay)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
