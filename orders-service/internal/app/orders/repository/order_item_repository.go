package repository

import (
	"context"

	"mistrytech/orders-service/internal/app/orders/entity"
	"mistrytech/pkg/metrics"

	"gorm.io/gorm"
)

type orderItemRepository struct {
	db *gorm.DB
}

func NewOrderItemRepository(db *gorm.DB) OrderItemRepository {
	return &orderItemRepository{db: db}
}

func (r *orderItemRepository) GetByOrderID(ctx context.Context, orderID int64) ([]entity.OrderItem, error) {
	timer := metrics.NewDbTimer("orders-service", metrics.DbOpSelect, "order_items")
	defer timer.ObserveDuration()

	var items []entity.OrderItem
	result := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Find(&items)
	if result.Error != nil {
		metrics.RecordDbError("orders-service", metrics.DbOpSelect)
		return nil, result.Error
	}

	return items, nil
}

// DetachProduct обнуляет ссылку на удаленный из каталога товар
// во всех позициях заказов. Снапшот цены и количество не трогаются.
// Возвращает число затронутых позиций
func (r *orderItemRepository) DetachProduct(ctx context.Context, productID int64) (int64, error) {
	timer := metrics.NewDbTimer("orders-service", metrics.DbOpUpdate, "order_items")
	defer timer.ObserveDuration()

	result := r.db.WithContext(ctx).Model(&entity.OrderItem{}).
		Where("product_id = ?", productID).
		Update("product_id", nil)
	if result.Error != nil {
		metrics.RecordDbError("orders-service", metrics.DbOpUpdate)
		return 0, result.Error
	}

	return result.RowsAffected, nil
}

// DetachVariant обнуляет ссылку на удаленный вариант товара
func (r *orderItemRepository) DetachVariant(ctx context.Context, variantID int64) (int64, error) {
	timer := metrics.NewDbTimer("orders-service", metrics.DbOpUpdate, "order_items")
	defer timer.ObserveDuration()

	result := r.db.WithContext(ctx).Model(&entity.OrderItem{}).
		Where("variant_id = ?", variantID).
		Update("variant_id", nil)
	if result.Error != nil {
		metrics.RecordDbError("orders-service", metrics.DbOpUpdate)
		return 0, result.Error
	}

	return result.RowsAffected, nil
}
