package handler

import (
	"errors"
	"net/http"
	"strconv"

	"mistrytech/orders-service/internal/app/orders/entity"
	"mistrytech/orders-service/internal/app/orders/service"
	"mistrytech/pkg/metrics"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// OrderHandler обрабатывает HTTP запросы к заказам
type OrderHandler struct {
	orderService service.OrderServiceInterface
	validator    *validator.Validate
}

func NewOrderHandler(orderService service.OrderServiceInterface) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		validator:    validator.New(),
	}
}

// CreateOrder обрабатывает POST /orders
// Заказ может быть гостевым: без токена user_id остается пустым
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	userID := userIDFromContext(c)

	var req entity.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		respondError(c, http.StatusBadRequest, formatValidationError(err))
		return
	}

	order, err := h.orderService.CreateOrder(c.Request.Context(), userID, &req)
	if err != nil {
		h.respondServiceError(c, err, "Failed to create order")
		return
	}

	metrics.OrdersCreated.Inc()

	c.JSON(http.StatusCreated, entity.NewOrderResponse(order))
}

// GetOrder обрабатывает GET /orders/:id
func (h *OrderHandler) GetOrder(c *gin.Context) {
	orderID, ok := parseID(c)
	if !ok {
		return
	}

	order, err := h.orderService.GetOrder(c.Request.Context(), orderID, userIDFromContext(c), isAdminFromContext(c))
	if err != nil {
		h.respondServiceError(c, err, "Failed to get order")
		return
	}

	c.JSON(http.StatusOK, entity.NewOrderResponse(order))
}

// GetUserOrders обрабатывает GET /orders
// Возвращает заказы текущего пользователя, новые первыми
func (h *OrderHandler) GetUserOrders(c *gin.Context) {
	userID := userIDFromContext(c)
	if userID == nil {
		respondError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	orders, err := h.orderService.GetUserOrders(c.Request.Context(), *userID)
	if err != nil {
		h.respondServiceError(c, err, "Failed to get orders")
		return
	}

	c.JSON(http.StatusOK, entity.OrderListResponse{
		Orders: orders,
		Total:  len(orders),
	})
}

// UpdateOrderStatus обрабатывает PATCH /orders/:id
func (h *OrderHandler) UpdateOrderStatus(c *gin.Context) {
	orderID, ok := parseID(c)
	if !ok {
		return
	}

	var req entity.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		respondError(c, http.StatusBadRequest, formatValidationError(err))
		return
	}

	order, err := h.orderService.UpdateOrderStatus(c.Request.Context(), orderID, userIDFromContext(c), isAdminFromContext(c), req.Status)
	if err != nil {
		h.respondServiceError(c, err, "Failed to update order status")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":     order.ID,
		"status": order.Status,
	})
}

// DeleteOrder обрабатывает DELETE /orders/:id
func (h *OrderHandler) DeleteOrder(c *gin.Context) {
	orderID, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.orderService.DeleteOrder(c.Request.Context(), orderID, userIDFromContext(c), isAdminFromContext(c)); err != nil {
		h.respondServiceError(c, err, "Failed to delete order")
		return
	}

	c.JSON(http.StatusOK, entity.SuccessResponse{
		Message: "Order deleted successfully",
	})
}

// CreatePayment обрабатывает POST /orders/:id/payments
func (h *OrderHandler) CreatePayment(c *gin.Context) {
	orderID, ok := parseID(c)
	if !ok {
		return
	}

	var req entity.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		respondError(c, http.StatusBadRequest, formatValidationError(err))
		return
	}

	payment, err := h.orderService.CreatePayment(c.Request.Context(), orderID, userIDFromContext(c), isAdminFromContext(c), &req)
	if err != nil {
		h.respondServiceError(c, err, "Failed to create payment")
		return
	}

	c.JSON(http.StatusCreated, payment)
}

// GetOrderPayments обрабатывает GET /orders/:id/payments
func (h *OrderHandler) GetOrderPayments(c *gin.Context) {
	orderID, ok := parseID(c)
	if !ok {
		return
	}

	payments, err := h.orderService.GetOrderPayments(c.Request.Context(), orderID, userIDFromContext(c), isAdminFromContext(c))
	if err != nil {
		h.respondServiceError(c, err, "Failed to get payments")
		return
	}

	c.JSON(http.StatusOK, entity.PaymentListResponse{
		Payments: payments,
		Total:    len(payments),
	})
}

// === ХЕЛПЕРЫ ===

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(c, http.StatusBadRequest, "Invalid order id")
		return 0, false
	}
	return id, true
}

func userIDFromContext(c *gin.Context) *int64 {
	value, exists := c.Get("user_id")
	if !exists {
		return nil
	}
	userID, ok := value.(int64)
	if !ok {
		return nil
	}
	return &userID
}

func isAdminFromContext(c *gin.Context) bool {
	value, exists := c.Get("is_admin")
	if !exists {
		return false
	}
	isAdmin, _ := value.(bool)
	return isAdmin
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, entity.ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
	})
}

func (h *OrderHandler) respondServiceError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrOrderNotFound):
		respondError(c, http.StatusNotFound, "Order not found")
	case errors.Is(err, service.ErrProductNotFound):
		respondError(c, http.StatusBadRequest, "One or more products not found in catalog")
	case errors.Is(err, service.ErrVariantNotFound):
		respondError(c, http.StatusBadRequest, "One or more variants not found in catalog")
	case errors.Is(err, service.ErrEmptyOrderItem):
		respondError(c, http.StatusBadRequest, "Each item must reference a product or a variant")
	case errors.Is(err, service.ErrInvalidOrderStatus):
		respondError(c, http.StatusBadRequest, "Invalid status transition")
	case errors.Is(err, service.ErrAccessDenied):
		respondError(c, http.StatusForbidden, "Access denied")
	default:
		respondError(c, http.StatusInternalServerError, fallback)
	}
}

func formatValidationError(err error) string {
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, fieldError := range validationErrors {
			return fieldError.Field() + " is " + fieldError.Tag()
		}
	}
	return "Validation failed"
}
