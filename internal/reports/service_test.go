package reports

import (
	"context"
	"errors"
	"testing"
	"time"

	"buildcost/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type MockPurchaseRepository struct {
	mock.Mock
}

func (m *MockPurchaseRepository) Create(ctx context.Context, purchase *models.Purchase) error {
	args := m.Called(ctx, purchase)
	return args.Error(0)
}

func (m *MockPurchaseRepository) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Purchase, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Purchase), args.Error(1)
}

func (m *MockPurchaseRepository) ListDetailed(ctx context.Context, tenantID uuid.UUID, filter *models.PurchaseFilter, limit, offset int) ([]models.PurchaseDetail, error) {
	args := m.Called(ctx, tenantID, filter, limit, offset)
	return args.Get(0).([]models.PurchaseDetail), args.Error(1)
}

func (m *MockPurchaseRepository) ListDetailedByDateRange(ctx context.Context, tenantID uuid.UUID, start, end time.Time) ([]models.PurchaseDetail, error) {
	args := m.Called(ctx, tenantID, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.PurchaseDetail), args.Error(1)
}

func (m *MockPurchaseRepository) TotalSpend(ctx context.Context, tenantID uuid.UUID, filter *models.PurchaseFilter) (*models.RollupTotals, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RollupTotals), args.Error(1)
}

func (m *MockPurchaseRepository) ItemBreakdown(ctx context.Context, tenantID uuid.UUID, projectID *uuid.UUID, limit int) ([]models.ItemBreakdownRow, error) {
	args := m.Called(ctx, tenantID, projectID, limit)
	return args.Get(0).([]models.ItemBreakdownRow), args.Error(1)
}

func (m *MockPurchaseRepository) VendorSpend(ctx context.Context, tenantID uuid.UUID, projectID *uuid.UUID) ([]models.VendorSpendRow, error) {
	args := m.Called(ctx, tenantID, projectID)
	return args.Get(0).([]models.VendorSpendRow), args.Error(1)
}

func (m *MockPurchaseRepository) PhaseSummary(ctx context.Context, tenantID uuid.UUID, projectID *uuid.UUID) ([]models.PhaseSummaryRow, error) {
	args := m.Called(ctx, tenantID, projectID)
	return args.Get(0).([]models.PhaseSummaryRow), args.Error(1)
}

type MockProjectRepository struct {
	mock.Mock
}

func (m *MockProjectRepository) Create(ctx context.Context, project *models.Project) error {
	args := m.Called(ctx, project)
	return args.Error(0)
}

func (m *MockProjectRepository) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Project, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Project), args.Error(1)
}

func (m *MockProjectRepository) Update(ctx context.Context, project *models.Project) error {
	args := m.Called(ctx, project)
	return args.Error(0)
}

func (m *MockProjectRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func (m *MockProjectRepository) List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Project, error) {
	args := m.Called(ctx, tenantID, limit, offset)
	return args.Get(0).([]*models.Project), args.Error(1)
}

func (m *MockProjectRepository) Count(ctx context.Context, tenantID uuid.UUID) (int, error) {
	args := m.Called(ctx, tenantID)
	return args.Int(0), args.Error(1)
}

func TestPeriodWindow(t *testing.T) {
	now := time.Date(2026, 3, 31, 12, 0, 0, 0, time.UTC)

	start, end, err := PeriodWindow("daily", now)
	assert.NoError(t, err)
	assert.Equal(t, now.Add(-24*time.Hour), start)
	assert.Equal(t, now, end)

	start, end, err = PeriodWindow("weekly", now)
	assert.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 24, 12, 0, 0, 0, time.UTC), start)
	assert.Equal(t, now, end)

	// Calendar month arithmetic, not a fixed 30 days. Go normalizes
	// Feb 31 to Mar 3 in a non-leap year.
	start, end, err = PeriodWindow("monthly", now)
	assert.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 3, 12, 0, 0, 0, time.UTC), start)
	assert.Equal(t, now, end)

	_, _, err = PeriodWindow("quarterly", now)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid report period")

	_, _, err = PeriodWindow("", now)
	assert.Error(t, err)
}

type ReportServiceTestSuite struct {
	suite.Suite
	mockPurchaseRepo *MockPurchaseRepository
	mockProjectRepo  *MockProjectRepository
	service          *ReportService
	tenantID         uuid.UUID
}

func (suite *ReportServiceTestSuite) SetupTest() {
	suite.mockPurchaseRepo = &MockPurchaseRepository{}
	suite.mockProjectRepo = &MockProjectRepository{}
	suite.service = NewReportService(suite.mockPurchaseRepo, suite.mockProjectRepo)
	suite.tenantID = uuid.New()
}

func (suite *ReportServiceTestSuite) TearDownTest() {
	suite.mockPurchaseRepo.AssertExpectations(suite.T())
	suite.mockProjectRepo.AssertExpectations(suite.T())
}

func TestReportServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ReportServiceTestSuite))
}

func (suite *ReportServiceTestSuite) detail(totalCost float64) models.PurchaseDetail {
	return models.PurchaseDetail{
		Purchase: models.Purchase{
			ID:        uuid.New(),
			TenantID:  suite.tenantID,
			TotalCost: totalCost,
		},
		ProjectName: "Hillside Villa",
		ItemName:    "Cement",
	}
}

func (suite *ReportServiceTestSuite) TestBuildPeriodReport_Daily() {
	purchases := []models.PurchaseDetail{suite.detail(300), suite.detail(450.5), suite.detail(99.5)}

	suite.mockPurchaseRepo.On("ListDetailedByDateRange", mock.Anything, suite.tenantID, mock.AnythingOfType("time.Time"), mock.AnythingOfType("time.Time")).
		Return(purchases, nil).Once()
	suite.mockProjectRepo.On("Count", mock.Anything, suite.tenantID).Return(4, nil).Once()

	report, err := suite.service.BuildPeriodReport(context.Background(), suite.tenantID, "daily")

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "daily", report.Period)
	assert.Equal(suite.T(), 3, report.PurchaseCount)
	assert.Equal(suite.T(), 850.0, report.TotalSpent)
	assert.Equal(suite.T(), 4, report.ProjectCount)
	assert.Len(suite.T(), report.Purchases, 3)
	assert.WithinDuration(suite.T(), time.Now(), report.End, 5*time.Second)
	assert.WithinDuration(suite.T(), time.Now().Add(-24*time.Hour), report.Start, 5*time.Second)
}

func (suite *ReportServiceTestSuite) TestBuildPeriodReport_EmptyWindow() {
	suite.mockPurchaseRepo.On("ListDetailedByDateRange", mock.Anything, suite.tenantID, mock.AnythingOfType("time.Time"), mock.AnythingOfType("time.Time")).
		Return([]models.PurchaseDetail{}, nil).Once()
	suite.mockProjectRepo.On("Count", mock.Anything, suite.tenantID).Return(2, nil).Once()

	report, err := suite.service.BuildPeriodReport(context.Background(), suite.tenantID, "weekly")

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 0, report.PurchaseCount)
	assert.Equal(suite.T(), 0.0, report.TotalSpent)
	assert.Equal(suite.T(), 2, report.ProjectCount)
}

func (suite *ReportServiceTestSuite) TestBuildPeriodReport_InvalidPeriod() {
	report, err := suite.service.BuildPeriodReport(context.Background(), suite.tenantID, "yearly")

	assert.Error(suite.T(), err)
	assert.Nil(suite.T(), report)
	assert.Contains(suite.T(), err.Error(), "invalid report period")
}

func (suite *ReportServiceTestSuite) TestBuildPeriodReport_PurchaseListError() {
	suite.mockPurchaseRepo.On("ListDetailedByDateRange", mock.Anything, suite.tenantID, mock.AnythingOfType("time.Time"), mock.AnythingOfType("time.Time")).
		Return(nil, errors.New("database connection failed")).Once()

	report, err := suite.service.BuildPeriodReport(context.Background(), suite.tenantID, "monthly")

	assert.Error(suite.T(), err)
	assert.Nil(suite.T(), report)
}

func (suite *ReportServiceTestSuite) TestBuildPeriodReport_ProjectCountError() {
	suite.mockPurchaseRepo.On("ListDetailedByDateRange", mock.Anything, suite.tenantID, mock.AnythingOfType("time.Time"), mock.AnythingOfType("time.Time")).
		Return([]models.PurchaseDetail{suite.detail(100)}, nil).Once()
	suite.mockProjectRepo.On("Count", mock.Anything, suite.tenantID).
		Return(0, errors.New("database connection failed")).Once()

	report, err := suite.service.BuildPeriodReport(context.Background(), suite.tenantID, "monthly")

	assert.Error(suite.T(), err)
	assert.Nil(suite.T(), report)
}
