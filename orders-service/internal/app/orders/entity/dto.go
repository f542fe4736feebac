package entity

import (
	"github.com/shopspring/decimal"
)

// === ЗАПРОСЫ ===

// CreateOrderRequest - запрос на создание заказа.
// Суммы принимаются как есть, без сверки с позициями
type CreateOrderRequest struct {
	Items           []OrderItemRequest     `json:"items" validate:"required,min=1,dive"`
	ShippingAddress ShippingAddressRequest `json:"shipping_address" validate:"required"`
	GrossAmount     decimal.Decimal        `json:"gross_amount"`
	DiscountAmount  decimal.Decimal        `json:"discount_amount"`
	ShippingAmount  decimal.Decimal        `json:"shipping_amount"`
	NetAmount       decimal.Decimal        `json:"net_amount"`
	Total           decimal.Decimal        `json:"total"`
}

// OrderItemRequest - позиция заказа. Указывается либо товар,
// либо его вариант; цена подставляется из каталога
type OrderItemRequest struct {
	ProductID *int64 `json:"product_id"`
	VariantID *int64 `json:"variant_id"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

type ShippingAddressRequest struct {
	FullName   string `json:"full_name" validate:"required,max=100"`
	Address    string `json:"address" validate:"required,max=255"`
	City       string `json:"city" validate:"required,max=100"`
	Region     string `json:"region" validate:"max=100"`
	PostalCode string `json:"postal_code" validate:"max=20"`
	Phone      string `json:"phone" validate:"max=20"`
}

type UpdateOrderStatusRequest struct {
	Status OrderStatus `json:"status" validate:"required,oneof=pending confirmed shipped delivered cancelled"`
}

type CreatePaymentRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Method string          `json:"method" validate:"required,oneof=card cash transfer"`
}

// === ОТВЕТЫ ===

type OrderResponse struct {
	ID              int64            `json:"id"`
	UserID          *int64           `json:"user_id,omitempty"`
	Status          OrderStatus      `json:"status"`
	GrossAmount     decimal.Decimal  `json:"gross_amount"`
	DiscountAmount  decimal.Decimal  `json:"discount_amount"`
	ShippingAmount  decimal.Decimal  `json:"shipping_amount"`
	NetAmount       decimal.Decimal  `json:"net_amount"`
	Total           decimal.Decimal  `json:"total"`
	Items           []ItemResponse   `json:"items"`
	ShippingAddress *ShippingAddress `json:"shipping_address,omitempty"`
}

type ItemResponse struct {
	ID        int64           `json:"id"`
	ProductID *int64          `json:"product_id,omitempty"`
	VariantID *int64          `json:"variant_id,omitempty"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

type OrderListResponse struct {
	Orders []Order `json:"orders"`
	Total  int     `json:"total"`
}

type PaymentListResponse struct {
	Payments []Payment `json:"payments"`
	Total    int       `json:"total"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type SuccessResponse struct {
	Message string `json:"message"`
}

// NewOrderResponse формирует проекцию заказа с пересчетом subtotal позиций
func NewOrderResponse(order *Order) OrderResponse {
	items := make([]ItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, ItemResponse{
			ID:        item.ID,
			ProductID: item.ProductID,
			VariantID: item.VariantID,
			Quantity:  item.Quantity,
			Price:     item.Price,
			Subtotal:  item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))),
		})
	}

	return OrderResponse{
		ID:              order.ID,
		UserID:          order.UserID,
		Status:          order.Status,
		GrossAmount:     order.GrossAmount,
		DiscountAmount:  order.DiscountAmount,
		ShippingAmount:  order.ShippingAmount,
		NetAmount:       order.NetAmount,
		Total:           order.Total,
		Items:           items,
		ShippingAddress: order.ShippingAddress,
	}
}
