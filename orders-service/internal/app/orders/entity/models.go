package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order представляет заказ в системе.
// UserID опционален: заказ может быть оформлен без аккаунта,
// тогда доступ к нему есть только у администратора
type Order struct {
	ID     int64       `json:"id" gorm:"primaryKey"`
	UserID *int64      `json:"user_id,omitempty" gorm:"index"`
	Status OrderStatus `json:"status" gorm:"type:varchar(50);not null;default:'pending'"`

	// Суммы приходят от клиента и сохраняются как есть,
	// пересчет по позициям не выполняется
	GrossAmount    decimal.Decimal `json:"gross_amount" gorm:"type:decimal(12,2);not null"`
	DiscountAmount decimal.Decimal `json:"discount_amount" gorm:"type:decimal(12,2);not null"`
	ShippingAmount decimal.Decimal `json:"shipping_amount" gorm:"type:decimal(12,2);not null"`
	NetAmount      decimal.Decimal `json:"net_amount" gorm:"type:decimal(12,2);not null"`
	Total          decimal.Decimal `json:"total" gorm:"type:decimal(12,2);not null"`

	// Служебные отметки времени наружу не отдаются
	CreatedAt time.Time `json:"-" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"-" gorm:"autoUpdateTime"`

	Items           []OrderItem      `json:"items,omitempty" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	ShippingAddress *ShippingAddress `json:"shipping_address,omitempty" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Payments        []Payment        `json:"payments,omitempty" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

func (Order) TableName() string {
	return "orders"
}

// OrderStatus представляет статусы заказа
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// OrderItem представляет позицию в заказе.
// Price - снапшот действующей (уже со скидкой) цены на момент покупки.
// ProductID/VariantID обнуляются при удалении товара из каталога,
// история заказа при этом сохраняется
type OrderItem struct {
	ID        int64           `json:"id" gorm:"primaryKey"`
	OrderID   int64           `json:"order_id" gorm:"not null;index"`
	ProductID *int64          `json:"product_id,omitempty"`
	VariantID *int64          `json:"variant_id,omitempty"`
	Quantity  int             `json:"quantity" gorm:"not null;check:quantity > 0"`
	Price     decimal.Decimal `json:"price" gorm:"type:decimal(12,2);not null"`
}

func (OrderItem) TableName() string {
	return "order_items"
}

// ShippingAddress - адрес доставки, один на заказ, задается при создании
type ShippingAddress struct {
	ID         int64  `json:"id" gorm:"primaryKey"`
	OrderID    int64  `json:"-" gorm:"not null;uniqueIndex"`
	FullName   string `json:"full_name" gorm:"type:varchar(100);not null"`
	Address    string `json:"address" gorm:"type:varchar(255);not null"`
	City       string `json:"city" gorm:"type:varchar(100);not null"`
	Region     string `json:"region" gorm:"type:varchar(100)"`
	PostalCode string `json:"postal_code" gorm:"type:varchar(20)"`
	Phone      string `json:"phone" gorm:"type:varchar(20)"`
}

func (ShippingAddress) TableName() string {
	return "shipping_addresses"
}

// Payment - запись о платеже по заказу.
// Интеграции с платежным шлюзом нет, хранятся только записи
type Payment struct {
	ID            int64           `json:"id" gorm:"primaryKey"`
	OrderID       int64           `json:"order_id" gorm:"not null;index"`
	Amount        decimal.Decimal `json:"amount" gorm:"type:decimal(12,2);not null"`
	Method        string          `json:"method" gorm:"type:varchar(50);not null"`
	Status        PaymentStatus   `json:"status" gorm:"type:varchar(50);not null;default:'pending'"`
	TransactionID string          `json:"transaction_id" gorm:"type:varchar(36);not null;uniqueIndex"`
	CreatedAt     time.Time       `json:"-" gorm:"autoCreateTime"`
}

func (Payment) TableName() string {
	return "payments"
}

// PaymentStatus представляет статусы платежа
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
)

// OrderEvent представляет событие заказа для Kafka
type OrderEvent struct {
	EventType  string          `json:"event_type"` // ORDER_CREATED, ORDER_UPDATED
	OrderID    int64           `json:"order_id"`
	UserID     *int64          `json:"user_id,omitempty"`
	Total      decimal.Decimal `json:"total"`
	Status     OrderStatus     `json:"status"`
	ItemsCount int             `json:"items_count"`
	Timestamp  time.Time       `json:"timestamp"`
}

// Типы событий заказа для Kafka
const (
	EventOrderCreated = "ORDER_CREATED"
	EventOrderUpdated = "ORDER_UPDATED"
)

// ProductEvent - событие из топика каталога product_events.
// На PRODUCT_DELETED/VARIANT_DELETED ссылки в позициях заказов
// обнуляются, цена и количество остаются нетронутыми
type ProductEvent struct {
	EventType string `json:"event_type"`
	ProductID int64  `json:"product_id"`
	VariantID *int64 `json:"variant_id,omitempty"`
}

// Типы событий каталога
const (
	EventProductUpdated = "PRODUCT_UPDATED"
	EventProductDeleted = "PRODUCT_DELETED"
	EventVariantDeleted = "VARIANT_DELETED"
)

// CatalogProduct - проекция товара из Catalog Service.
// discounted_price уже рассчитан каталогом
type CatalogProduct struct {
	ID              int64           `json:"id"`
	Name            string          `json:"name"`
	Price           decimal.Decimal `json:"price"`
	DiscountedPrice decimal.Decimal `json:"discounted_price"`
	Quantity        int             `json:"quantity"`
}

// CatalogVariant - проекция варианта товара из Catalog Service
type CatalogVariant struct {
	ID              int64           `json:"id"`
	ProductID       int64           `json:"product_id"`
	Size            string          `json:"size"`
	Color           string          `json:"color"`
	Price           decimal.Decimal `json:"price"`
	DiscountedPrice decimal.Decimal `json:"discounted_price"`
	Quantity        int             `json:"quantity"`
}
