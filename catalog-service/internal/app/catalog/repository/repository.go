package repository

import (
	"context"
	"errors"

	"mistrytech/catalog-service/internal/app/catalog/entity"
)

var (
	// Стандартные ошибки репозиториев для обработки в service layer
	ErrCategoryNotFound    = errors.New("category not found")
	ErrSubCategoryNotFound = errors.New("subcategory not found")
	ErrProductNotFound     = errors.New("product not found")
	ErrVariantNotFound     = errors.New("variant not found")
	ErrDiscountNotFound    = errors.New("discount not found")
	ErrImageNotFound       = errors.New("image not found")

	// ErrSlugTaken - нарушение UNIQUE constraint на slug (pg код 23505)
	ErrSlugTaken = errors.New("slug already exists")
	// ErrForeignKey - ссылка на несуществующую строку (pg код 23503)
	ErrForeignKey = errors.New("foreign key violation")
)

// CategoryRepository: выборка по id - одна строка или ErrCategoryNotFound,
// выборка по slug - фильтр, пустой результат ошибкой не является.
// Эта асимметрия - контракт, а не случайность
type CategoryRepository interface {
	Create(ctx context.Context, category *entity.Category) error
	GetByID(ctx context.Context, id int64) (*entity.Category, error)
	GetBySlug(ctx context.Context, slug string) ([]entity.Category, error)
	GetAll(ctx context.Context) ([]entity.Category, error)
	Update(ctx context.Context, category *entity.Category) error
	Delete(ctx context.Context, id int64) error
}

type SubCategoryRepository interface {
	Create(ctx context.Context, subcategory *entity.SubCategory) error
	GetByID(ctx context.Context, id int64) (*entity.SubCategory, error)
	GetBySlug(ctx context.Context, slug string) ([]entity.SubCategory, error)
	GetAll(ctx context.Context) ([]entity.SubCategory, error)
	GetByCategory(ctx context.Context, categoryID int64) ([]entity.SubCategory, error)
	Update(ctx context.Context, subcategory *entity.SubCategory) error
	Delete(ctx context.Context, id int64) error
}

type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product, categoryIDs, subcategoryIDs []int64) error
	GetByID(ctx context.Context, id int64) (*entity.Product, error)
	GetBySlug(ctx context.Context, slug string) ([]entity.Product, error)
	GetAll(ctx context.Context) ([]entity.Product, error)
	GetBySubCategory(ctx context.Context, subcategoryID int64) ([]entity.Product, error)
	// GetByCategoryViaSubCategories - товары, чья подкатегория принадлежит
	// категории (обход через цепочку подкатегорий, не по прямой связи)
	GetByCategoryViaSubCategories(ctx context.Context, categoryID int64) ([]entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	ReplaceCategories(ctx context.Context, productID int64, categoryIDs []int64) error
	ReplaceSubCategories(ctx context.Context, productID int64, subcategoryIDs []int64) error
	Delete(ctx context.Context, id int64) error
}

type VariantRepository interface {
	Create(ctx context.Context, variant *entity.Variant) error
	GetByID(ctx context.Context, id int64) (*entity.Variant, error)
	GetByProduct(ctx context.Context, productID int64) ([]entity.Variant, error)
	GetByProducts(ctx context.Context, productIDs []int64) (map[int64][]entity.Variant, error)
	Update(ctx context.Context, variant *entity.Variant) error
	Delete(ctx context.Context, id int64) error
}

type DiscountRepository interface {
	Create(ctx context.Context, discount *entity.Discount) error
	GetByID(ctx context.Context, id int64) (*entity.Discount, error)
	GetByIDs(ctx context.Context, ids []int64) (map[int64]*entity.Discount, error)
	GetAll(ctx context.Context) ([]entity.Discount, error)
	Update(ctx context.Context, discount *entity.Discount) error
	Delete(ctx context.Context, id int64) error
}

type ImageRepository interface {
	Create(ctx context.Context, image *entity.Image) error
	GetByID(ctx context.Context, id int64) (*entity.Image, error)
	GetByProduct(ctx context.Context, productID int64) ([]entity.Image, error)
	GetByProducts(ctx context.Context, productIDs []int64) (map[int64][]entity.Image, error)
	GetByCategory(ctx context.Context, categoryID int64) ([]entity.Image, error)
	GetBySubCategory(ctx context.Context, subcategoryID int64) ([]entity.Image, error)
	Delete(ctx context.Context, id int64) error
}
