package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"buildcost/internal/models"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type CategoryHandlersTestSuite struct {
	suite.Suite
	mockCategoryRepo *MockCategoryRepository
	mockPhaseRepo    *MockPhaseRepository
	handlers         *CategoryHandlers
	echo             *echo.Echo
	tenantID         uuid.UUID
	userID           uuid.UUID
	phaseID          uuid.UUID
}

func (suite *CategoryHandlersTestSuite) SetupTest() {
	suite.mockCategoryRepo = &MockCategoryRepository{}
	suite.mockPhaseRepo = &MockPhaseRepository{}
	suite.handlers = NewCategoryHandlers(suite.mockCategoryRepo, suite.mockPhaseRepo)
	suite.echo = echo.New()
	suite.tenantID = uuid.New()
	suite.userID = uuid.New()
	suite.phaseID = uuid.New()
}

func (suite *CategoryHandlersTestSuite) TearDownTest() {
	suite.mockCategoryRepo.AssertExpectations(suite.T())
	suite.mockPhaseRepo.AssertExpectations(suite.T())
}

func TestCategoryHandlersTestSuite(t *testing.T) {
	suite.Run(t, new(CategoryHandlersTestSuite))
}

func (suite *CategoryHandlersTestSuite) phase() *models.Phase {
	return &models.Phase{
		ID:        suite.phaseID,
		TenantID:  suite.tenantID,
		ProjectID: uuid.New(),
		Name:      "Foundation",
		Status:    models.PhaseGrey,
	}
}

func (suite *CategoryHandlersTestSuite) createBody(parentID *uuid.UUID) string {
	if parentID == nil {
		return fmt.Sprintf(`{"phase_id":%q,"name":"Concrete"}`, suite.phaseID.String())
	}
	return fmt.Sprintf(`{"phase_id":%q,"parent_id":%q,"name":"Concrete"}`, suite.phaseID.String(), parentID.String())
}

func (suite *CategoryHandlersTestSuite) TestCreateCategory_Root() {
	suite.mockPhaseRepo.On("GetByID", mock.Anything, suite.tenantID, suite.phaseID).
		Return(suite.phase(), nil).Once()
	suite.mockCategoryRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Category")).
		Return(nil).Once()

	c, rec := newAuthedContext(suite.echo, http.MethodPost, "/categories", suite.createBody(nil), suite.tenantID, suite.userID, models.RoleManager)
	err := suite.handlers.CreateCategory(c)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), http.StatusCreated, rec.Code)
}

func (suite *CategoryHandlersTestSuite) TestCreateCategory_ThirdLevelAllowed() {
	// Parent sits at depth 2, so the child lands on the deepest permitted level.
	parentID := uuid.New()
	parent := &models.Category{ID: parentID, TenantID: suite.tenantID, PhaseID: suite.phaseID, Name: "Concrete"}

	suite.mockPhaseRepo.On("GetByID", mock.Anything, suite.tenantID, suite.phaseID).
		Return(suite.phase(), nil).Once()
	suite.mockCategoryRepo.On("GetByID", mock.Anything, suite.tenantID, parentID).
		Return(parent, nil).Once()
	suite.mockCategoryRepo.On("Depth", mock.Anything, suite.tenantID, parentID).
		Return(models.MaxCategoryDepth-1, nil).Once()
	suite.mockCategoryRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Category")).
		Return(nil).Run(func(args mock.Arguments) {
		category := args.Get(1).(*models.Category)
		assert.Equal(suite.T(), parentID, *category.ParentID)
	}).Once()

	c, rec := newAuthedContext(suite.echo, http.MethodPost, "/categories", suite.createBody(&parentID), suite.tenantID, suite.userID, models.RoleManager)
	err := suite.handlers.CreateCategory(c)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), http.StatusCreated, rec.Code)

	var created models.Category
	assert.NoError(suite.T(), json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(suite.T(), "Concrete", created.Name)
}

func (suite *CategoryHandlersTestSuite) TestCreateCategory_FourthLevelRejected() {
	parentID := uuid.New()
	parent := &models.Category{ID: parentID, TenantID: suite.tenantID, PhaseID: suite.phaseID, Name: "Concrete"}

	suite.mockPhaseRepo.On("GetByID", mock.Anything, suite.tenantID, suite.phaseID).
		Return(suite.phase(), nil).Once()
	suite.mockCategoryRepo.On("GetByID", mock.Anything, suite.tenantID, parentID).
		Return(parent, nil).Once()
	suite.mockCategoryRepo.On("Depth", mock.Anything, suite.tenantID, parentID).
		Return(models.MaxCategoryDepth, nil).Once()

	c, _ := newAuthedContext(suite.echo, http.MethodPost, "/categories", suite.createBody(&parentID), suite.tenantID, suite.userID, models.RoleManager)
	err := suite.handlers.CreateCategory(c)

	httpErr, ok := err.(*echo.HTTPError)
	assert.True(suite.T(), ok)
	assert.Equal(suite.T(), http.StatusBadRequest, httpErr.Code)
	assert.Equal(suite.T(), "Category nesting limit reached", httpErr.Message)
}

func (suite *CategoryHandlersTestSuite) TestCreateCategory_ParentFromOtherPhase() {
	parentID := uuid.New()
	parent := &models.Category{ID: parentID, TenantID: suite.tenantID, PhaseID: uuid.New(), Name: "Concrete"}

	suite.mockPhaseRepo.On("GetByID", mock.Anything, suite.tenantID, suite.phaseID).
		Return(suite.phase(), nil).Once()
	suite.mockCategoryRepo.On("GetByID", mock.Anything, suite.tenantID, parentID).
		Return(parent, nil).Once()

	c, _ := newAuthedContext(suite.echo, http.MethodPost, "/categories", suite.createBody(&parentID), suite.tenantID, suite.userID, models.RoleManager)
	err := suite.handlers.CreateCategory(c)

	httpErr, ok := err.(*echo.HTTPError)
	assert.True(suite.T(), ok)
	assert.Equal(suite.T(), http.StatusBadRequest, httpErr.Code)
	assert.Equal(suite.T(), "Parent category belongs to a different phase", httpErr.Message)
}
