package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Category представляет категорию верхнего уровня каталога
// Служебные поля (created_at, updated_at, is_active) наружу не отдаются
type Category struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	Slug        string    `json:"slug" db:"slug"`
	IsActive    bool      `json:"-" db:"is_active"`
	CreatedAt   time.Time `json:"-" db:"created_at"`
	UpdatedAt   time.Time `json:"-" db:"updated_at"`
}

// SubCategory представляет подкатегорию, всегда привязана ровно к одной категории
type SubCategory struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	Slug        string    `json:"slug" db:"slug"`
	CategoryID  int64     `json:"category_id" db:"category_id"`
	IsActive    bool      `json:"-" db:"is_active"`
	CreatedAt   time.Time `json:"-" db:"created_at"`
	UpdatedAt   time.Time `json:"-" db:"updated_at"`
}

// Product представляет товар. Связи с категориями и подкатегориями -
// many-to-many через таблицы product_categories и product_subcategories.
// Цена хранится как decimal, скидочная цена НЕ хранится - всегда вычисляется
type Product struct {
	ID          int64           `json:"id" db:"id"`
	Name        string          `json:"name" db:"name"`
	Description string          `json:"description" db:"description"`
	Slug        string          `json:"slug" db:"slug"`
	Price       decimal.Decimal `json:"price" db:"price"`
	Quantity    int             `json:"quantity" db:"quantity"`
	DiscountID  *int64          `json:"discount_id,omitempty" db:"discount_id"`
	IsActive    bool            `json:"-" db:"is_active"`
	CreatedAt   time.Time       `json:"-" db:"created_at"`
	UpdatedAt   time.Time       `json:"-" db:"updated_at"`
}

// Variant представляет вариант товара (размер/цвет)
// Скидка варианта независима от скидки родительского товара
type Variant struct {
	ID         int64           `json:"id" db:"id"`
	ProductID  int64           `json:"product_id" db:"product_id"`
	Size       string          `json:"size" db:"size"`
	Color      string          `json:"color" db:"color"`
	Price      decimal.Decimal `json:"price" db:"price"`
	Quantity   int             `json:"quantity" db:"quantity"`
	DiscountID *int64          `json:"discount_id,omitempty" db:"discount_id"`
	IsActive   bool            `json:"-" db:"is_active"`
	CreatedAt  time.Time       `json:"-" db:"created_at"`
	UpdatedAt  time.Time       `json:"-" db:"updated_at"`
}

// Discount представляет самостоятельную скидку в процентах
// На одну скидку могут ссылаться несколько товаров и вариантов.
// Временное окно [start_date, end_date] расчетом цены не проверяется
type Discount struct {
	ID            int64           `json:"id" db:"id"`
	DiscountValue decimal.Decimal `json:"discount_value" db:"discount_value"`
	Description   string          `json:"description" db:"description"`
	StartDate     *time.Time      `json:"start_date,omitempty" db:"start_date"`
	EndDate       *time.Time      `json:"end_date,omitempty" db:"end_date"`
	IsActive      bool            `json:"-" db:"is_active"`
	CreatedAt     time.Time       `json:"-" db:"created_at"`
	UpdatedAt     time.Time       `json:"-" db:"updated_at"`
}

// Image представляет изображение, привязанное ровно к одному владельцу:
// товару, категории или подкатегории
type Image struct {
	ID            int64     `json:"id" db:"id"`
	Image         string    `json:"image" db:"image"`
	ProductID     *int64    `json:"product_id,omitempty" db:"product_id"`
	CategoryID    *int64    `json:"category_id,omitempty" db:"category_id"`
	SubCategoryID *int64    `json:"subcategory_id,omitempty" db:"subcategory_id"`
	CreatedAt     time.Time `json:"-" db:"created_at"`
	UpdatedAt     time.Time `json:"-" db:"updated_at"`
}

// Типы событий каталога для Kafka
const (
	EventProductUpdated = "PRODUCT_UPDATED"
	EventProductDeleted = "PRODUCT_DELETED"
	EventVariantDeleted = "VARIANT_DELETED"
)

// ProductEvent представляет событие изменения каталога для Kafka
// Orders Service подписан на эти события, чтобы отвязывать
// удаленные товары и варианты от позиций заказов
type ProductEvent struct {
	EventType string          `json:"event_type"`
	ProductID int64           `json:"product_id"`
	VariantID *int64          `json:"variant_id,omitempty"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Timestamp time.Time       `json:"timestamp"`
}
