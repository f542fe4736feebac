package service

import (
	"context"

	"mistrytech/catalog-service/internal/app/catalog/entity"
)

// CatalogServiceInterface - контракт сервиса каталога для handlers
type CatalogServiceInterface interface {
	CreateCategory(ctx context.Context, req *entity.CreateCategoryRequest) (*entity.Category, error)
	GetCategory(ctx context.Context, id int64) (*entity.CategoryDetail, error)
	GetCategoriesBySlug(ctx context.Context, slug string) ([]entity.CategorySummary, error)
	GetAllCategories(ctx context.Context) ([]entity.CategorySummary, error)
	UpdateCategory(ctx context.Context, id int64, req *entity.UpdateCategoryRequest) (*entity.Category, error)
	DeleteCategory(ctx context.Context, id int64) error
	GetCategoryProducts(ctx context.Context, categoryID int64) ([]entity.ProductResponse, error)

	CreateSubCategory(ctx context.Context, req *entity.CreateSubCategoryRequest) (*entity.SubCategory, error)
	GetSubCategory(ctx context.Context, id int64) (*entity.SubCategoryDetail, error)
	GetSubCategoriesBySlug(ctx context.Context, slug string) ([]entity.SubCategorySummary, error)
	GetAllSubCategories(ctx context.Context) ([]entity.SubCategorySummary, error)
	UpdateSubCategory(ctx context.Context, id int64, req *entity.UpdateSubCategoryRequest) (*entity.SubCategory, error)
	DeleteSubCategory(ctx context.Context, id int64) error
	GetSubCategoryProducts(ctx context.Context, subcategoryID int64) ([]entity.ProductResponse, error)

	CreateProduct(ctx context.Context, req *entity.CreateProductRequest) (*entity.Product, error)
	GetProduct(ctx context.Context, id int64) (*entity.ProductResponse, error)
	GetProductsBySlug(ctx context.Context, slug string) ([]entity.ProductResponse, error)
	GetAllProducts(ctx context.Context) ([]entity.ProductResponse, error)
	UpdateProduct(ctx context.Context, id int64, req *entity.UpdateProductRequest) (*entity.Product, error)
	DeleteProduct(ctx context.Context, id int64) error

	CreateVariant(ctx context.Context, req *entity.CreateVariantRequest) (*entity.Variant, error)
	GetVariant(ctx context.Context, id int64) (*entity.VariantResponse, error)
	GetProductVariants(ctx context.Context, productID int64) ([]entity.VariantResponse, error)
	UpdateVariant(ctx context.Context, id int64, req *entity.UpdateVariantRequest) (*entity.Variant, error)
	DeleteVariant(ctx context.Context, id int64) error

	CreateDiscount(ctx context.Context, req *entity.CreateDiscountRequest) (*entity.Discount, error)
	GetDiscount(ctx context.Context, id int64) (*entity.Discount, error)
	GetAllDiscounts(ctx context.Context) ([]entity.Discount, error)
	UpdateDiscount(ctx context.Context, id int64, req *entity.UpdateDiscountRequest) (*entity.Discount, error)
	DeleteDiscount(ctx context.Context, id int64) error

	CreateImage(ctx context.Context, req *entity.CreateImageRequest) (*entity.Image, error)
	GetImage(ctx context.Context, id int64) (*entity.Image, error)
	DeleteImage(ctx context.Context, id int64) error

	RefreshCategoriesCache(ctx context.Context) error
}
