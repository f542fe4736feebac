package repository

import (
	"context"
	"errors"

	"mistrytech/orders-service/internal/app/orders/entity"
	"mistrytech/pkg/metrics"

	"gorm.io/gorm"
)

type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository создает новый репозиторий заказов
func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

// Create сохраняет заказ вместе с позициями и адресом доставки.
// GORM вставляет ассоциации в одной транзакции
func (r *orderRepository) Create(ctx context.Context, order *entity.Order) error {
	timer := metrics.NewDbTimer("orders-service", metrics.DbOpInsert, "orders")
	defer timer.ObserveDuration()

	result := r.db.WithContext(ctx).Create(order)
	if result.Error != nil {
		metrics.RecordDbError("orders-service", metrics.DbOpInsert)
		return result.Error
	}
	return nil
}

// GetByID получает заказ без ассоциаций
func (r *orderRepository) GetByID(ctx context.Context, id int64) (*entity.Order, error) {
	timer := metrics.NewDbTimer("orders-service", metrics.DbOpSelect, "orders")
	defer timer.ObserveDuration()

	var order entity.Order
	result := r.db.WithContext(ctx).First(&order, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		metrics.RecordDbError("orders-service", metrics.DbOpSelect)
		return nil, result.Error
	}

	return &order, nil
}

// GetWithDetails получает заказ с позициями, адресом и платежами
func (r *orderRepository) GetWithDetails(ctx context.Context, id int64) (*entity.Order, error) {
	timer := metrics.NewDbTimer("orders-service", metrics.DbOpSelect, "orders")
	defer timer.ObserveDuration()

	var order entity.Order
	result := r.db.WithContext(ctx).
		Preload("Items").
		Preload("ShippingAddress").
		Preload("Payments").
		First(&order, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		metrics.RecordDbError("orders-service", metrics.DbOpSelect)
		return nil, result.Error
	}

	return &order, nil
}

// GetByUserID получает все заказы пользователя, новые первыми
func (r *orderRepository) GetByUserID(ctx context.Context, userID int64) ([]entity.Order, error) {
	timer := metrics.NewDbTimer("orders-service", metrics.DbOpSelect, "orders")
	defer timer.ObserveDuration()

	var orders []entity.Order
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id DESC").
		Find(&orders)
	if result.Error != nil {
		metrics.RecordDbError("orders-service", metrics.DbOpSelect)
		return nil, result.Error
	}

	return orders, nil
}

// UpdateStatus обновляет статус заказа
func (r *orderRepository) UpdateStatus(ctx context.Context, id int64, status entity.OrderStatus) error {
	timer := metrics.NewDbTimer("orders-service", metrics.DbOpUpdate, "orders")
	defer timer.ObserveDuration()

	result := r.db.WithContext(ctx).Model(&entity.Order{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		metrics.RecordDbError("orders-service", metrics.DbOpUpdate)
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrOrderNotFound
	}

	return nil
}

// Delete удаляет заказ, позиции и адрес удаляются через CASCADE
func (r *orderRepository) Delete(ctx context.Context, id int64) error {
	timer := metrics.NewDbTimer("orders-service", metrics.DbOpDelete, "orders")
	defer timer.ObserveDuration()

	result := r.db.WithContext(ctx).Delete(&entity.Order{}, "id = ?", id)
	if result.Error != nil {
		metrics.RecordDbError("orders-service", metrics.DbOpDelete)
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrOrderNotFound
	}

	return nil
}
