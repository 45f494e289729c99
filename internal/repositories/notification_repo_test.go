package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"buildcost/internal/models"

	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type NotificationRepoTestSuite struct {
	suite.Suite
	mock      pgxmock.PgxPoolIface
	repo      NotificationRepository
	tenantID  uuid.UUID
	userID    uuid.UUID
	projectID uuid.UUID
	context   context.Context
}

func (suite *NotificationRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock

	suite.repo = NewNotificationRepository(mock)
	suite.tenantID = uuid.New()
	suite.userID = uuid.New()
	suite.projectID = uuid.New()
	suite.context = context.Background()
}

func (suite *NotificationRepoTestSuite) TearDownTest() {
	suite.mock.Close()
}

func TestNotificationRepoTestSuite(t *testing.T) {
	suite.Run(t, new(NotificationRepoTestSuite))
}

func (suite *NotificationRepoTestSuite) buildAlert(title string) *models.Notification {
	entityType := models.EntityTypeProject
	entityID := suite.projectID
	actionURL := "/projects/" + suite.projectID.String()
	return &models.Notification{
		ID:                uuid.New(),
		TenantID:          suite.tenantID,
		UserID:            suite.userID,
		Type:              models.NotificationTypeBudgetAlert,
		Title:             title,
		Message:           "Project \"Hillside Villa\" has reached 80% of budget. Total spent: $800.00 of $1000.00",
		Severity:          models.SeverityWarning,
		RelatedEntityType: &entityType,
		RelatedEntityID:   &entityID,
		ActionURL:         &actionURL,
	}
}

func (suite *NotificationRepoTestSuite) TestCreate_Success() {
	n := suite.buildAlert("Budget Alert: Hillside Villa")

	suite.mock.ExpectExec(`INSERT INTO notifications`).
		WithArgs(n.ID, n.TenantID, n.UserID, n.Type, n.Title, n.Message, n.Severity, n.IsRead, n.RelatedEntityType, n.RelatedEntityID, n.ActionURL).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := suite.repo.Create(suite.context, n)
	assert.NoError(suite.T(), err)
}

func (suite *NotificationRepoTestSuite) TestCreateMany_StopsOnFirstError() {
	first := suite.buildAlert("Budget Alert: Hillside Villa")
	second := suite.buildAlert("Budget Alert: Hillside Villa")

	suite.mock.ExpectExec(`INSERT INTO notifications`).
		WithArgs(first.ID, first.TenantID, first.UserID, first.Type, first.Title, first.Message, first.Severity, first.IsRead, first.RelatedEntityType, first.RelatedEntityID, first.ActionURL).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	suite.mock.ExpectExec(`INSERT INTO notifications`).
		WithArgs(second.ID, second.TenantID, second.UserID, second.Type, second.Title, second.Message, second.Severity, second.IsRead, second.RelatedEntityType, second.RelatedEntityID, second.ActionURL).
		WillReturnError(errors.New("database connection failed"))

	err := suite.repo.CreateMany(suite.context, []*models.Notification{first, second})
	assert.Error(suite.T(), err)
	assert.Contains(suite.T(), err.Error(), "database connection failed")
}

func (suite *NotificationRepoTestSuite) TestListByUser_AllNotifications() {
	n := suite.buildAlert("Budget Alert: Hillside Villa")
	rows := pgxmock.NewRows([]string{"id", "tenant_id", "user_id", "type", "title", "message", "severity", "is_read", "related_entity_type", "related_entity_id", "action_url", "created_at"}).
		AddRow(n.ID, n.TenantID, n.UserID, string(n.Type), n.Title, n.Message, n.Severity, false, n.RelatedEntityType, n.RelatedEntityID, n.ActionURL, time.Now())

	suite.mock.ExpectQuery(`FROM notifications\s+WHERE tenant_id = \$1 AND user_id = \$2 AND \(\$3::boolean IS NULL OR is_read = \$3\)`).
		WithArgs(suite.tenantID, suite.userID, (*bool)(nil), 50).
		WillReturnRows(rows)

	result, err := suite.repo.ListByUser(suite.context, suite.tenantID, suite.userID, nil, 0)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), result, 1)
	assert.Equal(suite.T(), models.NotificationTypeBudgetAlert, result[0].Type)
	assert.False(suite.T(), result[0].IsRead)
}

func (suite *NotificationRepoTestSuite) TestListByUser_UnreadOnly() {
	unreadOnly := false
	rows := pgxmock.NewRows([]string{"id", "tenant_id", "user_id", "type", "title", "message", "severity", "is_read", "related_entity_type", "related_entity_id", "action_url", "created_at"})

	suite.mock.ExpectQuery(`FROM notifications\s+WHERE tenant_id = \$1 AND user_id = \$2 AND \(\$3::boolean IS NULL OR is_read = \$3\)`).
		WithArgs(suite.tenantID, suite.userID, &unreadOnly, 20).
		WillReturnRows(rows)

	result, err := suite.repo.ListByUser(suite.context, suite.tenantID, suite.userID, &unreadOnly, 20)
	assert.NoError(suite.T(), err)
	assert.Empty(suite.T(), result)
}

func (suite *NotificationRepoTestSuite) TestCountUnread_Success() {
	suite.mock.ExpectQuery(`SELECT COUNT\(\*\) FROM notifications WHERE tenant_id = \$1 AND user_id = \$2 AND is_read = FALSE`).
		WithArgs(suite.tenantID, suite.userID).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(4))

	count, err := suite.repo.CountUnread(suite.context, suite.tenantID, suite.userID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 4, count)
}

func (suite *NotificationRepoTestSuite) TestMarkRead_Owned() {
	notificationID := uuid.New()

	suite.mock.ExpectExec(`UPDATE notifications SET is_read = TRUE WHERE tenant_id = \$1 AND user_id = \$2 AND id = \$3`).
		WithArgs(suite.tenantID, suite.userID, notificationID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	updated, err := suite.repo.MarkRead(suite.context, suite.tenantID, suite.userID, notificationID)
	assert.NoError(suite.T(), err)
	assert.True(suite.T(), updated)
}

func (suite *NotificationRepoTestSuite) TestMarkRead_NotOwned() {
	notificationID := uuid.New()
	otherUser := uuid.New()

	suite.mock.ExpectExec(`UPDATE notifications SET is_read = TRUE WHERE tenant_id = \$1 AND user_id = \$2 AND id = \$3`).
		WithArgs(suite.tenantID, otherUser, notificationID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	updated, err := suite.repo.MarkRead(suite.context, suite.tenantID, otherUser, notificationID)
	assert.NoError(suite.T(), err)
	assert.False(suite.T(), updated)
}

func (suite *NotificationRepoTestSuite) TestDelete_NotOwned() {
	notificationID := uuid.New()

	suite.mock.ExpectExec(`DELETE FROM notifications WHERE tenant_id = \$1 AND user_id = \$2 AND id = \$3`).
		WithArgs(suite.tenantID, suite.userID, notificationID).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	deleted, err := suite.repo.Delete(suite.context, suite.tenantID, suite.userID, notificationID)
	assert.NoError(suite.T(), err)
	assert.False(suite.T(), deleted)
}

func (suite *NotificationRepoTestSuite) TestBudgetAlertExists_Found() {
	since := time.Now().Add(-24 * time.Hour)
	phrase := "has reached 80% of budget"

	suite.mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs(suite.tenantID, models.NotificationTypeBudgetAlert, models.EntityTypeProject, suite.projectID, phrase, since).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := suite.repo.BudgetAlertExists(suite.context, suite.tenantID, suite.projectID, phrase, since)
	assert.NoError(suite.T(), err)
	assert.True(suite.T(), exists)
}

func (suite *NotificationRepoTestSuite) TestBudgetAlertExists_OutsideWindow() {
	since := time.Now().Add(-24 * time.Hour)
	phrase := "has reached 100% of budget"

	suite.mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs(suite.tenantID, models.NotificationTypeBudgetAlert, models.EntityTypeProject, suite.projectID, phrase, since).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))

	exists, err := suite.repo.BudgetAlertExists(suite.context, suite.tenantID, suite.projectID, phrase, since)
	assert.NoError(suite.T(), err)
	assert.False(suite.T(), exists)
}

func (suite *NotificationRepoTestSuite) TestClaimBudgetAlert_Claimed() {
	suite.mock.ExpectExec(`INSERT INTO budget_alert_claims \(tenant_id, project_id, threshold_percent, window_day, created_at\)`).
		WithArgs(suite.tenantID, suite.projectID, 80, "2026-08-30").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	claimed, err := suite.repo.ClaimBudgetAlert(suite.context, suite.tenantID, suite.projectID, 80, "2026-08-30")
	assert.NoError(suite.T(), err)
	assert.True(suite.T(), claimed)
}

func (suite *NotificationRepoTestSuite) TestClaimBudgetAlert_AlreadyClaimed() {
	suite.mock.ExpectExec(`INSERT INTO budget_alert_claims \(tenant_id, project_id, threshold_percent, window_day, created_at\)`).
		WithArgs(suite.tenantID, suite.projectID, 100, "2026-08-30").
		WillReturnResult(pgxmock.NewResult("INSERT", 0))

	claimed, err := suite.repo.ClaimBudgetAlert(suite.context, suite.tenantID, suite.projectID, 100, "2026-08-30")
	assert.NoError(suite.T(), err)
	assert.False(suite.T(), claimed)
}

func (suite *NotificationRepoTestSuite) TestClaimBudgetAlert_DatabaseError() {
	suite.mock.ExpectExec(`INSERT INTO budget_alert_claims`).
		WithArgs(suite.tenantID, suite.projectID, 110, "2026-08-30").
		WillReturnError(errors.New("database connection failed"))

	claimed, err := suite.repo.ClaimBudgetAlert(suite.context, suite.tenantID, suite.projectID, 110, "2026-08-30")
	assert.Error(suite.T(), err)
	assert.False(suite.T(), claimed)
}
