package repository

import (
	"context"

	"mistrytech/orders-service/internal/app/orders/entity"
	"mistrytech/pkg/metrics"

	"gorm.io/gorm"
)

type paymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Create(ctx context.Context, payment *entity.Payment) error {
	timer := metrics.NewDbTimer("orders-service", metrics.DbOpInsert, "payments")
	defer timer.ObserveDuration()

	result := r.db.WithContext(ctx).Create(payment)
	if result.Error != nil {
		metrics.RecordDbError("orders-service", metrics.DbOpInsert)
		return result.Error
	}
	return nil
}

func (r *paymentRepository) GetByOrderID(ctx context.Context, orderID int64) ([]entity.Payment, error) {
	timer := metrics.NewDbTimer("orders-service", metrics.DbOpSelect, "payments")
	defer timer.ObserveDuration()

	var payments []entity.Payment
	result := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("id DESC").
		Find(&payments)
	if result.Error != nil {
		metrics.RecordDbError("orders-service", metrics.DbOpSelect)
		return nil, result.Error
	}

	return payments, nil
}
