package infrastructure

import (
	"context"

	"mistrytech/orders-service/internal/app/orders/entity"
)

type MessagePublisher interface {
	PublishMessage(ctx context.Context, key string, value []byte) error
	Close() error
}

// CatalogServiceClient - клиент Catalog Service для получения
// актуальных цен при создании заказа
type CatalogServiceClient interface {
	GetProduct(ctx context.Context, productID int64) (*entity.CatalogProduct, error)
	GetVariant(ctx context.Context, variantID int64) (*entity.CatalogVariant, error)
}
