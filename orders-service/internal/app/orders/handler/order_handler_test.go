package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"mistrytech/orders-service/internal/app/orders/entity"
	"mistrytech/orders-service/internal/app/orders/repository"
	"mistrytech/orders-service/internal/app/orders/repository/mocks"
	"mistrytech/orders-service/internal/app/orders/service"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

type handlerDeps struct {
	orderRepo     *mocks.MockOrderRepository
	orderItemRepo *mocks.MockOrderItemRepository
	paymentRepo   *mocks.MockPaymentRepository
	catalogClient *mocks.MockCatalogClient
	producer      *mocks.MockMessagePublisher
}

func setupTestRouter() (*gin.Engine, *handlerDeps) {
	deps := &handlerDeps{
		orderRepo:     new(mocks.MockOrderRepository),
		orderItemRepo: new(mocks.MockOrderItemRepository),
		paymentRepo:   new(mocks.MockPaymentRepository),
		catalogClient: new(mocks.MockCatalogClient),
		producer:      new(mocks.MockMessagePublisher),
	}

	orderService := service.NewOrderService(
		deps.orderRepo,
		deps.orderItemRepo,
		deps.paymentRepo,
		deps.catalogClient,
		deps.producer,
	)

	router := SetupRoutes(NewOrderHandler(orderService), NewAuthMiddleware(testSecret))
	return router, deps
}

func makeToken(t *testing.T, userID int64, isAdmin bool) string {
	t.Helper()
	claims := JWTClaims{
		UserID:  userID,
		Email:   "user@example.com",
		IsAdmin: isAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func doJSON(router *gin.Engine, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func validOrderBody() entity.CreateOrderRequest {
	return entity.CreateOrderRequest{
		Items: []entity.OrderItemRequest{{ProductID: ptr(int64(42)), Quantity: 2}},
		ShippingAddress: entity.ShippingAddressRequest{
			FullName: "Ivan Petrov",
			Address:  "Lenina 1",
			City:     "Moscow",
		},
		Total: decimal.RequireFromString("150.00"),
	}
}

func ptr[T any](v T) *T {
	return &v
}

// ==================== CreateOrder ====================

func TestOrderHandler_CreateOrder_Authenticated(t *testing.T) {
	router, deps := setupTestRouter()

	deps.catalogClient.On("GetProduct", mock.Anything, int64(42)).Return(&entity.CatalogProduct{
		ID:              42,
		DiscountedPrice: decimal.RequireFromString("75.00"),
	}, nil)
	deps.orderRepo.On("Create", mock.Anything, mock.AnythingOfType("*entity.Order")).Return(nil)
	deps.producer.On("PublishMessage", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	w := doJSON(router, http.MethodPost, "/orders", validOrderBody(), makeToken(t, 1, false))

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp entity.OrderResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Items, 1)
	assert.True(t, resp.Items[0].Price.Equal(decimal.RequireFromString("75.00")))
	assert.Equal(t, int64(1), *resp.UserID)
}

// Создание заказа доступно и без токена
func TestOrderHandler_CreateOrder_Guest(t *testing.T) {
	router, deps := setupTestRouter()

	deps.catalogClient.On("GetProduct", mock.Anything, int64(42)).Return(&entity.CatalogProduct{
		ID:              42,
		DiscountedPrice: decimal.RequireFromString("75.00"),
	}, nil)
	deps.orderRepo.On("Create", mock.Anything, mock.AnythingOfType("*entity.Order")).Return(nil)
	deps.producer.On("PublishMessage", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	w := doJSON(router, http.MethodPost, "/orders", validOrderBody(), "")

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp entity.OrderResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Nil(t, resp.UserID)
}

func TestOrderHandler_CreateOrder_InvalidToken(t *testing.T) {
	router, _ := setupTestRouter()

	w := doJSON(router, http.MethodPost, "/orders", validOrderBody(), "garbage")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestOrderHandler_CreateOrder_ValidationError(t *testing.T) {
	router, _ := setupTestRouter()

	body := validOrderBody()
	body.Items = nil

	w := doJSON(router, http.MethodPost, "/orders", body, "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOrderHandler_CreateOrder_UnknownProduct(t *testing.T) {
	router, deps := setupTestRouter()

	deps.catalogClient.On("GetProduct", mock.Anything, int64(42)).Return(nil, assert.AnError)

	w := doJSON(router, http.MethodPost, "/orders", validOrderBody(), "")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

// ==================== GetOrder ====================

func TestOrderHandler_GetOrder_RequiresToken(t *testing.T) {
	router, _ := setupTestRouter()

	w := doJSON(router, http.MethodGet, "/orders/10", nil, "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestOrderHandler_GetOrder_Forbidden(t *testing.T) {
	router, deps := setupTestRouter()

	deps.orderRepo.On("GetWithDetails", mock.Anything, int64(10)).Return(&entity.Order{
		ID:     10,
		UserID: ptr(int64(2)),
	}, nil)

	w := doJSON(router, http.MethodGet, "/orders/10", nil, makeToken(t, 1, false))

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestOrderHandler_GetOrder_AdminSeesAnyOrder(t *testing.T) {
	router, deps := setupTestRouter()

	deps.orderRepo.On("GetWithDetails", mock.Anything, int64(10)).Return(&entity.Order{
		ID:     10,
		UserID: ptr(int64(2)),
	}, nil)

	w := doJSON(router, http.MethodGet, "/orders/10", nil, makeToken(t, 1, true))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestOrderHandler_GetOrder_InvalidID(t *testing.T) {
	router, _ := setupTestRouter()

	w := doJSON(router, http.MethodGet, "/orders/abc", nil, makeToken(t, 1, false))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// ==================== UpdateOrderStatus ====================

func TestOrderHandler_UpdateStatus_InvalidTransition(t *testing.T) {
	router, deps := setupTestRouter()

	deps.orderRepo.On("GetByID", mock.Anything, int64(10)).Return(&entity.Order{
		ID:     10,
		UserID: ptr(int64(1)),
		Status: entity.OrderStatusDelivered,
	}, nil)

	w := doJSON(router, http.MethodPatch, "/orders/10",
		entity.UpdateOrderStatusRequest{Status: entity.OrderStatusPending},
		makeToken(t, 1, false))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOrderHandler_UpdateStatus_UnknownStatusRejected(t *testing.T) {
	router, _ := setupTestRouter()

	w := doJSON(router, http.MethodPatch, "/orders/10",
		gin.H{"status": "teleported"},
		makeToken(t, 1, false))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// ==================== Payments ====================

func TestOrderHandler_CreatePayment_Success(t *testing.T) {
	router, deps := setupTestRouter()

	deps.orderRepo.On("GetByID", mock.Anything, int64(10)).Return(&entity.Order{
		ID:     10,
		UserID: ptr(int64(1)),
	}, nil)
	deps.paymentRepo.On("Create", mock.Anything, mock.AnythingOfType("*entity.Payment")).Return(nil)

	w := doJSON(router, http.MethodPost, "/orders/10/payments",
		entity.CreatePaymentRequest{Amount: decimal.RequireFromString("150.00"), Method: "card"},
		makeToken(t, 1, false))

	assert.Equal(t, http.StatusCreated, w.Code)

	var payment entity.Payment
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payment))
	assert.NotEmpty(t, payment.TransactionID)
	assert.Equal(t, entity.PaymentStatusPending, payment.Status)
}

func TestOrderHandler_GetPayments_OrderNotFound(t *testing.T) {
	router, deps := setupTestRouter()

	deps.orderRepo.On("GetByID", mock.Anything, int64(99)).Return(nil, repository.ErrOrderNotFound)

	w := doJSON(router, http.MethodGet, "/orders/99/payments", nil, makeToken(t, 1, false))

	assert.Equal(t, http.StatusNotFound, w.Code)
}
