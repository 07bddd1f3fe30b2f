package services

import (
	"context"
	"errors"
	"testing"

	"coworkops/internal/common"
	"coworkops/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

type ItemServiceTestSuite struct {
	suite.Suite
	ctx       context.Context
	items     *MockItemRepository
	cache     *MockCacheService
	auditRepo *MockAuditLogsRepository
	service   ItemService
	actor     Actor
}

func (suite *ItemServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.items = &MockItemRepository{}
	suite.cache = &MockCacheService{}
	suite.auditRepo = &MockAuditLogsRepository{}
	suite.auditRepo.On("Create", mock.Anything, mock.Anything).Return(nil).Maybe()
	suite.service = NewItemService(suite.items, suite.cache, NewAuditLogsService(suite.auditRepo), zap.NewNop())
	suite.actor = Actor{ID: uuid.New(), Role: models.RoleManager}
}

func (suite *ItemServiceTestSuite) TearDownTest() {
	suite.items.AssertExpectations(suite.T())
	suite.cache.AssertExpectations(suite.T())
}

func TestItemServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ItemServiceTestSuite))
}

func (suite *ItemServiceTestSuite) chair() *models.InventoryItem {
	return &models.InventoryItem{
		ID:           uuid.New(),
		Name:         "Ergonomic chair",
		Category:     models.CategoryMoveable,
		Unit:         "piece",
		UnitPrice:    decimal.RequireFromString("249.90"),
		MinimumStock: 5,
		MaximumStock: 40,
		IsActive:     true,
	}
}

func (suite *ItemServiceTestSuite) TestCreate_Success() {
	suite.items.On("Create", mock.Anything, mock.AnythingOfType("*models.InventoryItem")).Return(nil)

	item, err := suite.service.Create(suite.ctx, suite.actor, &CreateItemRequest{
		Name:         " Whiteboard marker ",
		Category:     models.CategoryConsumable,
		Unit:         "box",
		UnitPrice:    decimal.RequireFromString("4.50"),
		MinimumStock: 10,
	})

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Whiteboard marker", item.Name)
	assert.True(suite.T(), item.IsActive)
	assert.NotEqual(suite.T(), uuid.Nil, item.ID)
}

func (suite *ItemServiceTestSuite) TestCreate_Validation() {
	cases := map[string]*CreateItemRequest{
		"blank name":       {Name: " ", Category: models.CategoryFixture, Unit: "piece"},
		"unknown category": {Name: "Desk", Category: "furniture", Unit: "piece"},
		"negative price":   {Name: "Desk", Category: models.CategoryFixture, Unit: "piece", UnitPrice: decimal.NewFromInt(-1)},
		"max below min":    {Name: "Desk", Category: models.CategoryFixture, Unit: "piece", MinimumStock: 5, MaximumStock: 2},
	}
	for name, req := range cases {
		suite.Run(name, func() {
			_, err := suite.service.Create(suite.ctx, suite.actor, req)
			assert.ErrorIs(suite.T(), err, common.ErrValidation)
		})
	}
}

func (suite *ItemServiceTestSuite) TestGetByID_CacheHit() {
	item := suite.chair()
	suite.cache.On("GetItem", mock.Anything, item.ID).Return(item, nil)

	got, err := suite.service.GetByID(suite.ctx, item.ID)

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), item, got)
	suite.items.AssertNotCalled(suite.T(), "GetByID", mock.Anything, mock.Anything)
}

func (suite *ItemServiceTestSuite) TestGetByID_MissPopulatesCache() {
	item := suite.chair()
	suite.cache.On("GetItem", mock.Anything, item.ID).Return(nil, nil)
	suite.items.On("GetByID", mock.Anything, item.ID).Return(item, nil)
	suite.cache.On("SetItem", mock.Anything, item, itemCacheTTL).Return(nil)

	got, err := suite.service.GetByID(suite.ctx, item.ID)

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), item.ID, got.ID)
}

func (suite *ItemServiceTestSuite) TestGetByID_CacheDownFallsBackToDatabase() {
	item := suite.chair()
	suite.cache.On("GetItem", mock.Anything, item.ID).Return(nil, errors.New("connection refused"))
	suite.items.On("GetByID", mock.Anything, item.ID).Return(item, nil)
	suite.cache.On("SetItem", mock.Anything, item, itemCacheTTL).Return(errors.New("connection refused"))

	got, err := suite.service.GetByID(suite.ctx, item.ID)

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), item.ID, got.ID)
}

func (suite *ItemServiceTestSuite) TestUpdate_InvalidatesCache() {
	item := suite.chair()
	price := decimal.RequireFromString("199.00")
	suite.items.On("GetByID", mock.Anything, item.ID).Return(item, nil)
	suite.items.On("Update", mock.Anything, item).Return(nil)
	suite.cache.On("DeleteItem", mock.Anything, item.ID).Return(nil)

	updated, err := suite.service.Update(suite.ctx, suite.actor, item.ID, &UpdateItemRequest{UnitPrice: &price})

	require.NoError(suite.T(), err)
	assert.True(suite.T(), price.Equal(updated.UnitPrice))
	suite.auditRepo.AssertCalled(suite.T(), "Create", mock.Anything, mock.MatchedBy(func(l *models.AuditLog) bool {
		return l.Action == models.ActionUpdate && l.OldValues["unit_price"] == "249.9" && l.NewValues["unit_price"] == "199"
	}))
}

func (suite *ItemServiceTestSuite) TestDeactivate() {
	id := uuid.New()
	suite.items.On("Deactivate", mock.Anything, id).Return(nil)
	suite.cache.On("DeleteItem", mock.Anything, id).Return(nil)

	assert.NoError(suite.T(), suite.service.Deactivate(suite.ctx, suite.actor, id))
}

func (suite *ItemServiceTestSuite) TestDeactivate_NotFound() {
	id := uuid.New()
	suite.items.On("Deactivate", mock.Anything, id).Return(common.ErrNotFound)

	assert.ErrorIs(suite.T(), suite.service.Deactivate(suite.ctx, suite.actor, id), common.ErrNotFound)
}
