package service

import (
	"context"

	"mistrytech/orders-service/internal/app/orders/entity"
)

type OrderServiceInterface interface {
	CreateOrder(ctx context.Context, userID *int64, req *entity.CreateOrderRequest) (*entity.Order, error)
	GetOrder(ctx context.Context, orderID int64, userID *int64, isAdmin bool) (*entity.Order, error)
	GetUserOrders(ctx context.Context, userID int64) ([]entity.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID int64, userID *int64, isAdmin bool, newStatus entity.OrderStatus) (*entity.Order, error)
	DeleteOrder(ctx context.Context, orderID int64, userID *int64, isAdmin bool) error
	CreatePayment(ctx context.Context, orderID int64, userID *int64, isAdmin bool, req *entity.CreatePaymentRequest) (*entity.Payment, error)
	GetOrderPayments(ctx context.Context, orderID int64, userID *int64, isAdmin bool) ([]entity.Payment, error)
	HandleProductEvent(ctx context.Context, event *entity.ProductEvent) error
}
