package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// === ЗАПРОСЫ ===

type CreateCategoryRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=100"`
	Description string `json:"description" validate:"max=255"`
	// Если slug не передан, он генерируется из имени один раз при создании
	Slug string `json:"slug" validate:"omitempty,max=100"`
}

// UpdateCategoryRequest не принимает slug: после первого присвоения
// slug неизменяем и при переименовании не перегенерируется
type UpdateCategoryRequest struct {
	Name        string `json:"name" validate:"omitempty,min=2,max=100"`
	Description string `json:"description" validate:"omitempty,max=255"`
}

type CreateSubCategoryRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=100"`
	Description string `json:"description" validate:"max=255"`
	Slug        string `json:"slug" validate:"omitempty,max=100"`
	CategoryID  int64  `json:"category_id" validate:"required"`
}

type UpdateSubCategoryRequest struct {
	Name        string `json:"name" validate:"omitempty,min=2,max=100"`
	Description string `json:"description" validate:"omitempty,max=255"`
	CategoryID  int64  `json:"category_id" validate:"omitempty"`
}

type CreateProductRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=100"`
	Description string `json:"description"`
	Slug        string `json:"slug" validate:"omitempty,max=100"`
	// Цена валидируется в service layer: decimal не поддерживает числовые теги
	Price          decimal.Decimal `json:"price"`
	Quantity       int             `json:"quantity" validate:"gte=0"`
	DiscountID     *int64          `json:"discount_id"`
	CategoryIDs    []int64         `json:"category_ids"`
	SubCategoryIDs []int64         `json:"subcategory_ids"`
}

// UpdateProductRequest - частичное обновление, nil-поля не трогаются.
// DiscountID = 0 отвязывает скидку от товара
type UpdateProductRequest struct {
	Name           string           `json:"name" validate:"omitempty,min=2,max=100"`
	Description    *string          `json:"description"`
	Price          *decimal.Decimal `json:"price"`
	Quantity       *int             `json:"quantity"`
	DiscountID     *int64           `json:"discount_id"`
	CategoryIDs    []int64          `json:"category_ids"`
	SubCategoryIDs []int64          `json:"subcategory_ids"`
}

type CreateVariantRequest struct {
	ProductID  int64           `json:"product_id" validate:"required"`
	Size       string          `json:"size" validate:"max=50"`
	Color      string          `json:"color" validate:"max=50"`
	Price      decimal.Decimal `json:"price"`
	Quantity   int             `json:"quantity" validate:"gte=0"`
	DiscountID *int64          `json:"discount_id"`
}

type UpdateVariantRequest struct {
	Size       string           `json:"size" validate:"omitempty,max=50"`
	Color      string           `json:"color" validate:"omitempty,max=50"`
	Price      *decimal.Decimal `json:"price"`
	Quantity   *int             `json:"quantity"`
	DiscountID *int64           `json:"discount_id"`
}

// CreateDiscountRequest: значение скидки сознательно не ограничивается
// диапазоном [0, 100] - значение больше 100 принимается как есть
type CreateDiscountRequest struct {
	DiscountValue decimal.Decimal `json:"discount_value"`
	Description   string          `json:"description"`
	StartDate     *time.Time      `json:"start_date"`
	EndDate       *time.Time      `json:"end_date"`
}

type UpdateDiscountRequest struct {
	DiscountValue *decimal.Decimal `json:"discount_value"`
	Description   *string          `json:"description"`
	StartDate     *time.Time       `json:"start_date"`
	EndDate       *time.Time       `json:"end_date"`
}

// CreateImageRequest: владелец изображения - ровно одно из трех полей,
// проверяется в service layer
type CreateImageRequest struct {
	Image         string `json:"image" validate:"required"`
	ProductID     *int64 `json:"product_id"`
	CategoryID    *int64 `json:"category_id"`
	SubCategoryID *int64 `json:"subcategory_id"`
}

// === ОТВЕТЫ (projection layer) ===
// Два вида проекций: list (минимальные поля для списков) и detail
// (вложенные коллекции, развернутые на один уровень).
// created_at/updated_at/is_active не отдаются ни в одной проекции

// ImageResponse не раскрывает владельца - изображение всегда
// отдается внутри своего владельца
type ImageResponse struct {
	ID    int64  `json:"id"`
	Image string `json:"image"`
}

type DiscountResponse struct {
	ID            int64           `json:"id"`
	DiscountValue decimal.Decimal `json:"discount_value"`
	Description   string          `json:"description"`
	StartDate     *time.Time      `json:"start_date,omitempty"`
	EndDate       *time.Time      `json:"end_date,omitempty"`
}

type VariantResponse struct {
	ID              int64             `json:"id"`
	ProductID       int64             `json:"product_id"`
	Size            string            `json:"size"`
	Color           string            `json:"color"`
	Price           decimal.Decimal   `json:"price"`
	DiscountedPrice decimal.Decimal   `json:"discounted_price"`
	Quantity        int               `json:"quantity"`
	Discount        *DiscountResponse `json:"discount,omitempty"`
}

type ProductResponse struct {
	ID              int64             `json:"id"`
	Name            string            `json:"name"`
	Description     string            `json:"description"`
	Slug            string            `json:"slug"`
	Price           decimal.Decimal   `json:"price"`
	DiscountedPrice decimal.Decimal   `json:"discounted_price"`
	Quantity        int               `json:"quantity"`
	Images          []ImageResponse   `json:"images"`
	Variants        []VariantResponse `json:"variants"`
	Discount        *DiscountResponse `json:"discount,omitempty"`
}

type CategorySummary struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Slug        string          `json:"slug"`
	Images      []ImageResponse `json:"images"`
}

type SubCategorySummary struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Slug        string          `json:"slug"`
	CategoryID  int64           `json:"category_id"`
	Images      []ImageResponse `json:"images"`
}

type CategoryDetail struct {
	ID            int64                `json:"id"`
	Name          string               `json:"name"`
	Description   string               `json:"description"`
	Slug          string               `json:"slug"`
	Images        []ImageResponse      `json:"images"`
	SubCategories []SubCategorySummary `json:"subcategories"`
	// Товары категории собираются через цепочку подкатегорий
	Products []ProductResponse `json:"products"`
}

type SubCategoryDetail struct {
	ID          int64             `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Slug        string            `json:"slug"`
	CategoryID  int64             `json:"category_id"`
	Images      []ImageResponse   `json:"images"`
	Products    []ProductResponse `json:"products"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

type CategoryListResponse struct {
	Categories []CategorySummary `json:"categories"`
	Total      int               `json:"total"`
}

type SubCategoryListResponse struct {
	SubCategories []SubCategorySummary `json:"subcategories"`
	Total         int                  `json:"total"`
}

type ProductListResponse struct {
	Products []ProductResponse `json:"products"`
	Total    int               `json:"total"`
}

// === ПОСТРОИТЕЛИ ПРОЕКЦИЙ ===

func NewImageResponse(img Image) ImageResponse {
	return ImageResponse{ID: img.ID, Image: img.Image}
}

func NewImageResponses(images []Image) []ImageResponse {
	out := make([]ImageResponse, 0, len(images))
	for _, img := range images {
		out = append(out, NewImageResponse(img))
	}
	return out
}

func NewDiscountResponse(d *Discount) *DiscountResponse {
	if d == nil {
		return nil
	}
	return &DiscountResponse{
		ID:            d.ID,
		DiscountValue: d.DiscountValue,
		Description:   d.Description,
		StartDate:     d.StartDate,
		EndDate:       d.EndDate,
	}
}

// NewVariantResponse собирает проекцию варианта: discounted_price
// вычисляется по собственной скидке варианта
func NewVariantResponse(v Variant, discount *Discount) VariantResponse {
	return VariantResponse{
		ID:              v.ID,
		ProductID:       v.ProductID,
		Size:            v.Size,
		Color:           v.Color,
		Price:           v.Price,
		DiscountedPrice: v.DiscountedPrice(discount),
		Quantity:        v.Quantity,
		Discount:        NewDiscountResponse(discount),
	}
}

// NewProductResponse собирает детальную проекцию товара с вложенными
// изображениями, вариантами и скидкой. discounts - скидки по ID для
// товара и его вариантов
func NewProductResponse(p Product, images []Image, variants []Variant, discounts map[int64]*Discount) ProductResponse {
	var productDiscount *Discount
	if p.DiscountID != nil {
		productDiscount = discounts[*p.DiscountID]
	}

	variantResponses := make([]VariantResponse, 0, len(variants))
	for _, v := range variants {
		var variantDiscount *Discount
		if v.DiscountID != nil {
			variantDiscount = discounts[*v.DiscountID]
		}
		variantResponses = append(variantResponses, NewVariantResponse(v, variantDiscount))
	}

	return ProductResponse{
		ID:              p.ID,
		Name:            p.Name,
		Description:     p.Description,
		Slug:            p.Slug,
		Price:           p.Price,
		DiscountedPrice: p.DiscountedPrice(productDiscount),
		Quantity:        p.Quantity,
		Images:          NewImageResponses(images),
		Variants:        variantResponses,
		Discount:        NewDiscountResponse(productDiscount),
	}
}

func NewCategorySummary(c Category, images []Image) CategorySummary {
	return CategorySummary{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Slug:        c.Slug,
		Images:      NewImageResponses(images),
	}
}

func NewSubCategorySummary(s SubCategory, images []Image) SubCategorySummary {
	return SubCategorySummary{
		ID:          s.ID,
		Name:        s.Name,
		Description: s.Description,
		Slug:        s.Slug,
		CategoryID:  s.CategoryID,
		Images:      NewImageResponses(images),
	}
}
