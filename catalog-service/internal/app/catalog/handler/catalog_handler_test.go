package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"mistrytech/catalog-service/internal/app/catalog/entity"
	"mistrytech/catalog-service/internal/app/catalog/repository"
	"mistrytech/catalog-service/internal/app/catalog/repository/mocks"
	"mistrytech/catalog-service/internal/app/catalog/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// Хелперы для создания тестового окружения

type handlerDeps struct {
	categoryRepo    *mocks.MockCategoryRepository
	subcategoryRepo *mocks.MockSubCategoryRepository
	productRepo     *mocks.MockProductRepository
	variantRepo     *mocks.MockVariantRepository
	discountRepo    *mocks.MockDiscountRepository
	imageRepo       *mocks.MockImageRepository
	cache           *mocks.MockCategoryCache
	producer        *mocks.MockMessagePublisher
}

func setupTestHandler() (*CatalogHandler, *handlerDeps) {
	deps := &handlerDeps{
		categoryRepo:    new(mocks.MockCategoryRepository),
		subcategoryRepo: new(mocks.MockSubCategoryRepository),
		productRepo:     new(mocks.MockProductRepository),
		variantRepo:     new(mocks.MockVariantRepository),
		discountRepo:    new(mocks.MockDiscountRepository),
		imageRepo:       new(mocks.MockImageRepository),
		cache:           new(mocks.MockCategoryCache),
		producer:        new(mocks.MockMessagePublisher),
	}

	catalogService := service.NewCatalogService(
		deps.categoryRepo,
		deps.subcategoryRepo,
		deps.productRepo,
		deps.variantRepo,
		deps.discountRepo,
		deps.imageRepo,
		deps.cache,
		deps.producer,
	)

	return NewCatalogHandler(catalogService), deps
}

func newJSONRequest(method, path string, body interface{}) *http.Request {
	data, _ := json.Marshal(body)
	req := httptest.NewRequest(method, path, bytes.NewBuffer(data))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// ==================== Category Handler Tests ====================

func TestCatalogHandler_CreateCategory_Success(t *testing.T) {
	handler, deps := setupTestHandler()

	deps.categoryRepo.On("Create", mock.Anything, mock.AnythingOfType("*entity.Category")).Return(nil)
	deps.cache.On("DeleteCategories", mock.Anything).Return(nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = newJSONRequest(http.MethodPost, "/categories", entity.CreateCategoryRequest{Name: "Electronics"})

	handler.CreateCategory(c)

	assert.Equal(t, http.StatusCreated, w.Code)

	var category entity.Category
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &category))
	assert.Equal(t, "electronics", category.Slug)
}

func TestCatalogHandler_CreateCategory_ValidationError(t *testing.T) {
	handler, _ := setupTestHandler()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	// Имя короче минимума
	c.Request = newJSONRequest(http.MethodPost, "/categories", entity.CreateCategoryRequest{Name: "A"})

	handler.CreateCategory(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCatalogHandler_CreateCategory_SlugConflict(t *testing.T) {
	handler, deps := setupTestHandler()

	deps.categoryRepo.On("Create", mock.Anything, mock.AnythingOfType("*entity.Category")).
		Return(repository.ErrSlugTaken)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = newJSONRequest(http.MethodPost, "/categories", entity.CreateCategoryRequest{Name: "Electronics"})

	handler.CreateCategory(c)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCatalogHandler_GetCategory_NotFound(t *testing.T) {
	handler, deps := setupTestHandler()

	deps.categoryRepo.On("GetByID", mock.Anything, int64(99)).Return(nil, repository.ErrCategoryNotFound)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/categories/99", nil)
	c.Params = gin.Params{{Key: "id", Value: "99"}}

	handler.GetCategory(c)

	// Поиск по id - идентификация: отсутствие это 404
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCatalogHandler_GetCategory_InvalidID(t *testing.T) {
	handler, _ := setupTestHandler()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/categories/abc", nil)
	c.Params = gin.Params{{Key: "id", Value: "abc"}}

	handler.GetCategory(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCatalogHandler_GetCategoriesBySlug_UnknownSlug(t *testing.T) {
	handler, deps := setupTestHandler()

	deps.categoryRepo.On("GetBySlug", mock.Anything, "missing").Return([]entity.Category{}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/categories/slug/missing", nil)
	c.Params = gin.Params{{Key: "slug", Value: "missing"}}

	handler.GetCategoriesBySlug(c)

	// Поиск по slug - фильтр: отсутствие это 200 с пустым списком
	assert.Equal(t, http.StatusOK, w.Code)

	var resp entity.CategoryListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp.Total)
	assert.Empty(t, resp.Categories)
}

func TestCatalogHandler_GetAllCategories_FromCache(t *testing.T) {
	handler, deps := setupTestHandler()

	cached := []entity.CategorySummary{{ID: 1, Name: "Electronics", Slug: "electronics"}}
	deps.cache.On("GetCategories", mock.Anything).Return(cached, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/categories", nil)

	handler.GetAllCategories(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp entity.CategoryListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Total)
}

// ==================== Product Handler Tests ====================

func TestCatalogHandler_GetProduct_DiscountedPriceInResponse(t *testing.T) {
	handler, deps := setupTestHandler()

	discountID := int64(7)
	product := &entity.Product{
		ID:         10,
		Name:       "Sneakers",
		Slug:       "sneakers",
		Price:      decimal.RequireFromString("100.00"),
		DiscountID: &discountID,
	}

	deps.productRepo.On("GetByID", mock.Anything, int64(10)).Return(product, nil)
	deps.imageRepo.On("GetByProducts", mock.Anything, []int64{10}).Return(map[int64][]entity.Image{}, nil)
	deps.variantRepo.On("GetByProducts", mock.Anything, []int64{10}).Return(map[int64][]entity.Variant{}, nil)
	deps.discountRepo.On("GetByIDs", mock.Anything, []int64{7}).Return(map[int64]*entity.Discount{
		7: {ID: 7, DiscountValue: decimal.RequireFromString("25.00")},
	}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/products/10", nil)
	c.Params = gin.Params{{Key: "id", Value: "10"}}

	handler.GetProduct(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.JSONEq(t, `"75"`, string(resp["discounted_price"]))
	// Служебные поля не сериализуются
	assert.NotContains(t, string(w.Body.Bytes()), "created_at")
	assert.NotContains(t, string(w.Body.Bytes()), "is_active")
}

func TestCatalogHandler_DeleteProduct_Success(t *testing.T) {
	handler, deps := setupTestHandler()

	product := &entity.Product{ID: 10, Name: "Sneakers", Price: decimal.RequireFromString("100.00")}
	deps.productRepo.On("GetByID", mock.Anything, int64(10)).Return(product, nil)
	deps.productRepo.On("Delete", mock.Anything, int64(10)).Return(nil)
	deps.producer.On("PublishMessage", mock.Anything, "10", mock.Anything).Return(nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodDelete, "/products/10", nil)
	c.Params = gin.Params{{Key: "id", Value: "10"}}

	handler.DeleteProduct(c)

	assert.Equal(t, http.StatusOK, w.Code)
	deps.producer.AssertExpectations(t)
}

func TestCatalogHandler_CreateProduct_NegativePrice(t *testing.T) {
	handler, _ := setupTestHandler()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = newJSONRequest(http.MethodPost, "/products", entity.CreateProductRequest{
		Name:  "Sneakers",
		Price: decimal.RequireFromString("-5"),
	})

	handler.CreateProduct(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// ==================== Image Handler Tests ====================

func TestCatalogHandler_CreateImage_TwoOwnersRejected(t *testing.T) {
	handler, _ := setupTestHandler()

	productID := int64(1)
	categoryID := int64(2)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = newJSONRequest(http.MethodPost, "/images", entity.CreateImageRequest{
		Image:      "a.png",
		ProductID:  &productID,
		CategoryID: &categoryID,
	})

	handler.CreateImage(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
