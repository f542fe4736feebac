package service

import (
	"context"
	"encoding/json"
	"testing"

	"mistrytech/catalog-service/internal/app/catalog/entity"
	"mistrytech/catalog-service/internal/app/catalog/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestProduct(id int64) *entity.Product {
	return &entity.Product{
		ID:          id,
		Name:        "Sneakers",
		Description: "Running sneakers",
		Slug:        "sneakers",
		Price:       decimal.RequireFromString("100.00"),
		Quantity:    5,
	}
}

// ==================== Product Tests ====================

func TestCatalogService_CreateProduct_GeneratesSlug(t *testing.T) {
	ctx := context.Background()
	svc, deps := newTestService()

	deps.productRepo.On("Create", ctx, mock.AnythingOfType("*entity.Product"), []int64{1}, []int64{2}).Return(nil)

	product, err := svc.CreateProduct(ctx, &entity.CreateProductRequest{
		Name:           "Men's Shoes!!",
		Price:          decimal.RequireFromString("49.99"),
		CategoryIDs:    []int64{1},
		SubCategoryIDs: []int64{2},
	})

	require.NoError(t, err)
	assert.Equal(t, "mens-shoes", product.Slug)
	deps.productRepo.AssertExpectations(t)
}

func TestCatalogService_CreateProduct_NegativePriceRejected(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	product, err := svc.CreateProduct(ctx, &entity.CreateProductRequest{
		Name:  "Sneakers",
		Price: decimal.RequireFromString("-1"),
	})

	assert.Nil(t, product)
	assert.ErrorIs(t, err, ErrInvalidPrice)
}

func TestCatalogService_GetProduct_WithDiscount(t *testing.T) {
	ctx := context.Background()
	svc, deps := newTestService()

	discountID := int64(7)
	product := newTestProduct(10)
	product.DiscountID = &discountID

	deps.productRepo.On("GetByID", ctx, int64(10)).Return(product, nil)
	deps.imageRepo.On("GetByProducts", ctx, []int64{10}).Return(map[int64][]entity.Image{}, nil)
	deps.variantRepo.On("GetByProducts", ctx, []int64{10}).Return(map[int64][]entity.Variant{}, nil)
	deps.discountRepo.On("GetByIDs", ctx, []int64{7}).Return(map[int64]*entity.Discount{
		7: {ID: 7, DiscountValue: decimal.RequireFromString("25.00")},
	}, nil)

	response, err := svc.GetProduct(ctx, 10)

	require.NoError(t, err)
	// 100.00 при скидке 25% дает ровно 75.00
	assert.True(t, response.DiscountedPrice.Equal(decimal.RequireFromString("75.00")),
		"got %s", response.DiscountedPrice)
}

func TestCatalogService_GetProduct_NotFound(t *testing.T) {
	ctx := context.Background()
	svc, deps := newTestService()

	deps.productRepo.On("GetByID", ctx, int64(99)).Return(nil, repository.ErrProductNotFound)

	response, err := svc.GetProduct(ctx, 99)

	assert.Nil(t, response)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestCatalogService_GetProductsBySlug_UnknownSlugReturnsEmpty(t *testing.T) {
	ctx := context.Background()
	svc, deps := newTestService()

	deps.productRepo.On("GetBySlug", ctx, "missing").Return([]entity.Product{}, nil)

	responses, err := svc.GetProductsBySlug(ctx, "missing")

	require.NoError(t, err)
	assert.Empty(t, responses)
}

func TestCatalogService_UpdateProduct_PriceChangePublishesEvent(t *testing.T) {
	ctx := context.Background()
	svc, deps := newTestService()

	deps.productRepo.On("GetByID", ctx, int64(10)).Return(newTestProduct(10), nil)
	deps.productRepo.On("Update", ctx, mock.AnythingOfType("*entity.Product")).Return(nil)
	deps.producer.On("PublishMessage", ctx, "10", mock.Anything).Return(nil)

	newPrice := decimal.RequireFromString("120.00")
	product, err := svc.UpdateProduct(ctx, 10, &entity.UpdateProductRequest{Price: &newPrice})

	require.NoError(t, err)
	assert.True(t, product.Price.Equal(newPrice))

	deps.producer.AssertExpectations(t)
	payload := deps.producer.Calls[0].Arguments.Get(2).([]byte)
	var event entity.ProductEvent
	require.NoError(t, json.Unmarshal(payload, &event))
	assert.Equal(t, entity.EventProductUpdated, event.EventType)
	assert.Equal(t, int64(10), event.ProductID)
}

func TestCatalogService_UpdateProduct_NoPriceChangeNoEvent(t *testing.T) {
	ctx := context.Background()
	svc, deps := newTestService()

	deps.productRepo.On("GetByID", ctx, int64(10)).Return(newTestProduct(10), nil)
	deps.productRepo.On("Update", ctx, mock.AnythingOfType("*entity.Product")).Return(nil)

	_, err := svc.UpdateProduct(ctx, 10, &entity.UpdateProductRequest{Name: "Trainers"})

	require.NoError(t, err)
	deps.producer.AssertNotCalled(t, "PublishMessage", mock.Anything, mock.Anything, mock.Anything)
}

func TestCatalogService_UpdateProduct_ZeroDiscountIDDetaches(t *testing.T) {
	ctx := context.Background()
	svc, deps := newTestService()

	discountID := int64(7)
	product := newTestProduct(10)
	product.DiscountID = &discountID

	deps.productRepo.On("GetByID", ctx, int64(10)).Return(product, nil)
	deps.productRepo.On("Update", ctx, mock.AnythingOfType("*entity.Product")).Return(nil)

	detach := int64(0)
	updated, err := svc.UpdateProduct(ctx, 10, &entity.UpdateProductRequest{DiscountID: &detach})

	require.NoError(t, err)
	assert.Nil(t, updated.DiscountID)
}

func TestCatalogService_UpdateProduct_ReplacesCategoryLinks(t *testing.T) {
	ctx := context.Background()
	svc, deps := newTestService()

	deps.productRepo.On("GetByID", ctx, int64(10)).Return(newTestProduct(10), nil)
	deps.productRepo.On("Update", ctx, mock.AnythingOfType("*entity.Product")).Return(nil)
	deps.productRepo.On("ReplaceCategories", ctx, int64(10), []int64{3, 4}).Return(nil)

	_, err := svc.UpdateProduct(ctx, 10, &entity.UpdateProductRequest{CategoryIDs: []int64{3, 4}})

	require.NoError(t, err)
	deps.productRepo.AssertExpectations(t)
}

func TestCatalogService_DeleteProduct_PublishesDeletedEvent(t *testing.T) {
	ctx := context.Background()
	svc, deps := newTestService()

	deps.productRepo.On("GetByID", ctx, int64(10)).Return(newTestProduct(10), nil)
	deps.productRepo.On("Delete", ctx, int64(10)).Return(nil)
	deps.producer.On("PublishMessage", ctx, "10", mock.Anything).Return(nil)

	err := svc.DeleteProduct(ctx, 10)

	require.NoError(t, err)

	payload := deps.producer.Calls[0].Arguments.Get(2).([]byte)
	var event entity.ProductEvent
	require.NoError(t, json.Unmarshal(payload, &event))
	assert.Equal(t, entity.EventProductDeleted, event.EventType)
}

// ==================== Variant Tests ====================

func TestCatalogService_CreateVariant_UnknownProduct(t *testing.T) {
	ctx := context.Background()
	svc, deps := newTestService()

	deps.variantRepo.On("Create", ctx, mock.AnythingOfType("*entity.Variant")).
		Return(repository.ErrProductNotFound)

	variant, err := svc.CreateVariant(ctx, &entity.CreateVariantRequest{
		ProductID: 42,
		Size:      "M",
		Price:     decimal.RequireFromString("10.00"),
	})

	assert.Nil(t, variant)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestCatalogService_GetVariant_UsesOwnDiscountOnly(t *testing.T) {
	ctx := context.Background()
	svc, deps := newTestService()

	discountID := int64(3)
	variant := &entity.Variant{
		ID:         5,
		ProductID:  10,
		Size:       "L",
		Price:      decimal.RequireFromString("80.00"),
		DiscountID: &discountID,
	}

	deps.variantRepo.On("GetByID", ctx, int64(5)).Return(variant, nil)
	deps.discountRepo.On("GetByID", ctx, int64(3)).Return(&entity.Discount{
		ID:            3,
		DiscountValue: decimal.RequireFromString("12.5"),
	}, nil)

	response, err := svc.GetVariant(ctx, 5)

	require.NoError(t, err)
	// 80.00 при скидке 12.5% дает 70.00
	assert.True(t, response.DiscountedPrice.Equal(decimal.RequireFromString("70.00")),
		"got %s", response.DiscountedPrice)
}

func TestCatalogService_GetVariant_NoDiscountBasePrice(t *testing.T) {
	ctx := context.Background()
	svc, deps := newTestService()

	variant := &entity.Variant{
		ID:        5,
		ProductID: 10,
		Price:     decimal.RequireFromString("80.00"),
	}
	deps.variantRepo.On("GetByID", ctx, int64(5)).Return(variant, nil)

	response, err := svc.GetVariant(ctx, 5)

	require.NoError(t, err)
	assert.True(t, response.DiscountedPrice.Equal(variant.Price))
	deps.discountRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestCatalogService_DeleteVariant_PublishesDeletedEvent(t *testing.T) {
	ctx := context.Background()
	svc, deps := newTestService()

	variant := &entity.Variant{
		ID:        5,
		ProductID: 10,
		Price:     decimal.RequireFromString("80.00"),
	}
	deps.variantRepo.On("GetByID", ctx, int64(5)).Return(variant, nil)
	deps.variantRepo.On("Delete", ctx, int64(5)).Return(nil)
	deps.producer.On("PublishMessage", ctx, "10", mock.Anything).Return(nil)

	err := svc.DeleteVariant(ctx, 5)

	require.NoError(t, err)

	payload := deps.producer.Calls[0].Arguments.Get(2).([]byte)
	var event entity.ProductEvent
	require.NoError(t, json.Unmarshal(payload, &event))
	assert.Equal(t, entity.EventVariantDeleted, event.EventType)
	require.NotNil(t, event.VariantID)
	assert.Equal(t, int64(5), *event.VariantID)
}

func TestCatalogService_DeleteProduct_KafkaFailureDoesNotFailOperation(t *testing.T) {
	ctx := context.Background()
	svc, deps := newTestService()

	deps.productRepo.On("GetByID", ctx, int64(10)).Return(newTestProduct(10), nil)
	deps.productRepo.On("Delete", ctx, int64(10)).Return(nil)
	deps.producer.On("PublishMessage", ctx, "10", mock.Anything).Return(assert.AnError)

	// Товар удален, проблемы с Kafka не валят операцию
	err := svc.DeleteProduct(ctx, 10)

	require.NoError(t, err)
}
