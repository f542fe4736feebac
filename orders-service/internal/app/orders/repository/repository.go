package repository

import (
	"context"
	"errors"

	"mistrytech/orders-service/internal/app/orders/entity"
)

var (
	// Стандартные ошибки репозитория для обработки в service layer
	ErrOrderNotFound = errors.New("order not found")
)

type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	GetByID(ctx context.Context, id int64) (*entity.Order, error)
	GetWithDetails(ctx context.Context, id int64) (*entity.Order, error)
	GetByUserID(ctx context.Context, userID int64) ([]entity.Order, error)
	UpdateStatus(ctx context.Context, id int64, status entity.OrderStatus) error
	Delete(ctx context.Context, id int64) error
}

type OrderItemRepository interface {
	GetByOrderID(ctx context.Context, orderID int64) ([]entity.OrderItem, error)
	DetachProduct(ctx context.Context, productID int64) (int64, error)
	DetachVariant(ctx context.Context, variantID int64) (int64, error)
}

type PaymentRepository interface {
	Create(ctx context.Context, payment *entity.Payment) error
	GetByOrderID(ctx context.Context, orderID int64) ([]entity.Payment, error)
}
