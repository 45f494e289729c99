package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"buildcost/internal/models"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type ProjectHandlersTestSuite struct {
	suite.Suite
	mockProjectRepo *MockProjectRepository
	mockCache       *MockCacheService
	handlers        *ProjectHandlers
	echo            *echo.Echo
	tenantID        uuid.UUID
	userID          uuid.UUID
	projectID       uuid.UUID
}

func (suite *ProjectHandlersTestSuite) SetupTest() {
	suite.mockProjectRepo = &MockProjectRepository{}
	suite.mockCache = &MockCacheService{}
	suite.handlers = NewProjectHandlers(suite.mockProjectRepo, suite.mockCache)
	suite.echo = echo.New()
	suite.tenantID = uuid.New()
	suite.userID = uuid.New()
	suite.projectID = uuid.New()
}

func (suite *ProjectHandlersTestSuite) TearDownTest() {
	suite.mockProjectRepo.AssertExpectations(suite.T())
	suite.mockCache.AssertExpectations(suite.T())
}

func TestProjectHandlersTestSuite(t *testing.T) {
	suite.Run(t, new(ProjectHandlersTestSuite))
}

func (suite *ProjectHandlersTestSuite) project() *models.Project {
	return &models.Project{
		ID:          suite.projectID,
		TenantID:    suite.tenantID,
		Name:        "Hillside Villa",
		Client:      "Sharma Constructions",
		TotalBudget: 500000,
		StartDate:   time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
		CreatedBy:   suite.userID,
	}
}

func (suite *ProjectHandlersTestSuite) projectContext(method, body string) (echo.Context, *httptest.ResponseRecorder) {
	c, rec := newAuthedContext(suite.echo, method, "/projects/"+suite.projectID.String(), body, suite.tenantID, suite.userID, models.RoleManager)
	c.SetParamNames("id")
	c.SetParamValues(suite.projectID.String())
	return c, rec
}

func (suite *ProjectHandlersTestSuite) TestGetProject_CacheHit() {
	// A cached project is served without touching the database.
	suite.mockCache.On("GetProject", mock.Anything, suite.tenantID, suite.projectID).
		Return(suite.project(), nil).Once()

	c, rec := suite.projectContext(http.MethodGet, "")
	err := suite.handlers.GetProject(c)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), http.StatusOK, rec.Code)
	suite.mockProjectRepo.AssertNotCalled(suite.T(), "GetByID", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ProjectHandlersTestSuite) TestGetProject_CacheMissPopulatesCache() {
	suite.mockCache.On("GetProject", mock.Anything, suite.tenantID, suite.projectID).
		Return((*models.Project)(nil), nil).Once()
	suite.mockProjectRepo.On("GetByID", mock.Anything, suite.tenantID, suite.projectID).
		Return(suite.project(), nil).Once()
	suite.mockCache.On("SetProject", mock.Anything, suite.tenantID, mock.AnythingOfType("*models.Project"), 5*time.Minute).
		Return(nil).Once()

	c, rec := suite.projectContext(http.MethodGet, "")
	err := suite.handlers.GetProject(c)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), http.StatusOK, rec.Code)
}

func (suite *ProjectHandlersTestSuite) TestGetProject_CacheErrorFallsThrough() {
	suite.mockCache.On("GetProject", mock.Anything, suite.tenantID, suite.projectID).
		Return((*models.Project)(nil), errors.New("redis unavailable")).Once()
	suite.mockProjectRepo.On("GetByID", mock.Anything, suite.tenantID, suite.projectID).
		Return(suite.project(), nil).Once()
	suite.mockCache.On("SetProject", mock.Anything, suite.tenantID, mock.AnythingOfType("*models.Project"), 5*time.Minute).
		Return(errors.New("redis unavailable")).Once()

	c, rec := suite.projectContext(http.MethodGet, "")
	err := suite.handlers.GetProject(c)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), http.StatusOK, rec.Code)
}

func (suite *ProjectHandlersTestSuite) TestGetProject_NotFound() {
	suite.mockCache.On("GetProject", mock.Anything, suite.tenantID, suite.projectID).
		Return((*models.Project)(nil), nil).Once()
	suite.mockProjectRepo.On("GetByID", mock.Anything, suite.tenantID, suite.projectID).
		Return((*models.Project)(nil), errors.New("no rows in result set")).Once()

	c, _ := suite.projectContext(http.MethodGet, "")
	err := suite.handlers.GetProject(c)

	httpErr, ok := err.(*echo.HTTPError)
	assert.True(suite.T(), ok)
	assert.Equal(suite.T(), http.StatusNotFound, httpErr.Code)
	suite.mockCache.AssertNotCalled(suite.T(), "SetProject", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ProjectHandlersTestSuite) TestUpdateProject_InvalidatesCache() {
	suite.mockProjectRepo.On("GetByID", mock.Anything, suite.tenantID, suite.projectID).
		Return(suite.project(), nil).Once()
	suite.mockProjectRepo.On("Update", mock.Anything, mock.AnythingOfType("*models.Project")).
		Return(nil).Once()
	suite.mockCache.On("DeleteProject", mock.Anything, suite.tenantID, suite.projectID).
		Return(nil).Once()
	suite.mockCache.On("DeleteBudgetOverview", mock.Anything, suite.tenantID).
		Return(nil).Once()

	c, rec := suite.projectContext(http.MethodPut, `{"total_budget":600000}`)
	err := suite.handlers.UpdateProject(c)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), http.StatusOK, rec.Code)
}

func (suite *ProjectHandlersTestSuite) TestDeleteProject_InvalidatesTenantCache() {
	suite.mockProjectRepo.On("GetByID", mock.Anything, suite.tenantID, suite.projectID).
		Return(suite.project(), nil).Once()
	suite.mockProjectRepo.On("Delete", mock.Anything, suite.tenantID, suite.projectID).
		Return(nil).Once()
	suite.mockCache.On("InvalidateTenantCache", mock.Anything, suite.tenantID).
		Return(nil).Once()

	c, rec := suite.projectContext(http.MethodDelete, "")
	err := suite.handlers.DeleteProject(c)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), http.StatusOK, rec.Code)
}
