package util

import (
	"context"
	"time"

	"mistrytech/catalog-service/internal/app/catalog/entity"
)

// CategoryCache интерфейс кеша списка категорий
// Используется для dependency injection и упрощения тестирования
type CategoryCache interface {
	SetCategories(ctx context.Context, categories []entity.CategorySummary, ttl time.Duration) error
	GetCategories(ctx context.Context) ([]entity.CategorySummary, error)
	DeleteCategories(ctx context.Context) error
	Close() error
}

// MessagePublisher интерфейс отправки событий каталога в Kafka
type MessagePublisher interface {
	PublishMessage(ctx context.Context, key string, value []byte) error
	Close() error
}
