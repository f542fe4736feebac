package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mistrytech/catalog-service/internal/app/catalog/entity"
	"mistrytech/catalog-service/internal/app/catalog/repository"
	"mistrytech/catalog-service/internal/app/catalog/util"
	"mistrytech/pkg/logger"
)

const categoriesCacheTTL = time.Hour

// CatalogService обрабатывает бизнес-логику каталога товаров
// Координирует работу репозиториев, Redis кеша и Kafka producer
type CatalogService struct {
	categoryRepo    repository.CategoryRepository
	subcategoryRepo repository.SubCategoryRepository
	productRepo     repository.ProductRepository
	variantRepo     repository.VariantRepository
	discountRepo    repository.DiscountRepository
	imageRepo       repository.ImageRepository
	cache           util.CategoryCache
	producer        util.MessagePublisher
}

// NewCatalogService создает новый сервис каталога с внедрением зависимостей
func NewCatalogService(
	categoryRepo repository.CategoryRepository,
	subcategoryRepo repository.SubCategoryRepository,
	productRepo repository.ProductRepository,
	variantRepo repository.VariantRepository,
	discountRepo repository.DiscountRepository,
	imageRepo repository.ImageRepository,
	cache util.CategoryCache,
	producer util.MessagePublisher,
) *CatalogService {
	return &CatalogService{
		categoryRepo:    categoryRepo,
		subcategoryRepo: subcategoryRepo,
		productRepo:     productRepo,
		variantRepo:     variantRepo,
		discountRepo:    discountRepo,
		imageRepo:       imageRepo,
		cache:           cache,
		producer:        producer,
	}
}

// === CATEGORIES ===

// CreateCategory создает новую категорию и инвалидирует кеш.
// Если slug не передан, он генерируется из имени ровно один раз -
// дальнейшие переименования slug не меняют
func (s *CatalogService) CreateCategory(ctx context.Context, req *entity.CreateCategoryRequest) (*entity.Category, error) {
	category := &entity.Category{
		Name:        req.Name,
		Description: req.Description,
		Slug:        req.Slug,
	}
	if category.Slug == "" {
		category.Slug = util.Slugify(req.Name)
	}

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		if errors.Is(err, repository.ErrSlugTaken) {
			return nil, ErrSlugConflict
		}
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	s.invalidateCategoriesCache(ctx)

	return category, nil
}

// GetCategory получает детальную проекцию категории: изображения,
// подкатегории и товары, собранные через цепочку подкатегорий
func (s *CatalogService) GetCategory(ctx context.Context, id int64) (*entity.CategoryDetail, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}

	images, err := s.imageRepo.GetByCategory(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get category images: %w", err)
	}

	subcategories, err := s.subcategoryRepo.GetByCategory(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get subcategories: %w", err)
	}

	subcategorySummaries := make([]entity.SubCategorySummary, 0, len(subcategories))
	for _, sc := range subcategories {
		scImages, err := s.imageRepo.GetBySubCategory(ctx, sc.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to get subcategory images: %w", err)
		}
		subcategorySummaries = append(subcategorySummaries, entity.NewSubCategorySummary(sc, scImages))
	}

	products, err := s.productRepo.GetByCategoryViaSubCategories(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get category products: %w", err)
	}

	productResponses, err := s.buildProductResponses(ctx, products)
	if err != nil {
		return nil, err
	}

	return &entity.CategoryDetail{
		ID:            category.ID,
		Name:          category.Name,
		Description:   category.Description,
		Slug:          category.Slug,
		Images:        entity.NewImageResponses(images),
		SubCategories: subcategorySummaries,
		Products:      productResponses,
	}, nil
}

// GetCategoriesBySlug - поиск по slug работает как фильтр:
// несуществующий slug дает пустой список, а не 404.
// Это сознательная асимметрия с поиском по id
func (s *CatalogService) GetCategoriesBySlug(ctx context.Context, slug string) ([]entity.CategorySummary, error) {
	categories, err := s.categoryRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("failed to get categories by slug: %w", err)
	}

	return s.buildCategorySummaries(ctx, categories)
}

// GetAllCategories получает все категории с кешированием в Redis
// Сначала проверяет кеш, если нет - загружает из БД и кеширует
func (s *CatalogService) GetAllCategories(ctx context.Context) ([]entity.CategorySummary, error) {
	cached, err := s.cache.GetCategories(ctx)
	if err == nil && cached != nil {
		return cached, nil
	}

	summaries, err := s.loadCategorySummaries(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetCategories(ctx, summaries, categoriesCacheTTL); err != nil {
		// Данные получены из БД, проблемы с кешем не критичны
		logger.Error().Err(err).Msg("failed to cache categories")
	}

	return summaries, nil
}

// RefreshCategoriesCache принудительно перечитывает категории из БД в кеш
// Вызывается по расписанию, чтобы кеш не остывал между инвалидациями
func (s *CatalogService) RefreshCategoriesCache(ctx context.Context) error {
	summaries, err := s.loadCategorySummaries(ctx)
	if err != nil {
		return err
	}

	if err := s.cache.SetCategories(ctx, summaries, categoriesCacheTTL); err != nil {
		return fmt.Errorf("failed to refresh categories cache: %w", err)
	}

	return nil
}

// UpdateCategory обновляет имя и описание категории. Slug не трогается
func (s *CatalogService) UpdateCategory(ctx context.Context, id int64, req *entity.UpdateCategoryRequest) (*entity.Category, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}

	if req.Name != "" {
		category.Name = req.Name
	}
	if req.Description != "" {
		category.Description = req.Description
	}

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
	}

	s.invalidateCategoriesCache(ctx)

	return category, nil
}

// DeleteCategory удаляет категорию и инвалидирует кеш
func (s *CatalogService) DeleteCategory(ctx context.Context, id int64) error {
	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return ErrCategoryNotFound
		}
		return fmt.Errorf("failed to delete category: %w", err)
	}

	s.invalidateCategoriesCache(ctx)

	return nil
}

// GetCategoryProducts - товары категории, собранные через цепочку
// подкатегорий. Товар, привязанный к категории напрямую, но не через
// одну из ее подкатегорий, в выборку не попадает
func (s *CatalogService) GetCategoryProducts(ctx context.Context, categoryID int64) ([]entity.ProductResponse, error) {
	if _, err := s.categoryRepo.GetByID(ctx, categoryID); err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to verify category: %w", err)
	}

	products, err := s.productRepo.GetByCategoryViaSubCategories(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to get category products: %w", err)
	}

	return s.buildProductResponses(ctx, products)
}

// === SUBCATEGORIES ===

// CreateSubCategory создает подкатегорию внутри существующей категории
func (s *CatalogService) CreateSubCategory(ctx context.Context, req *entity.CreateSubCategoryRequest) (*entity.SubCategory, error) {
	subcategory := &entity.SubCategory{
		Name:        req.Name,
		Description: req.Description,
		Slug:        req.Slug,
		CategoryID:  req.CategoryID,
	}
	if subcategory.Slug == "" {
		subcategory.Slug = util.Slugify(req.Name)
	}

	if err := s.subcategoryRepo.Create(ctx, subcategory); err != nil {
		switch {
		case errors.Is(err, repository.ErrSlugTaken):
			return nil, ErrSlugConflict
		case errors.Is(err, repository.ErrCategoryNotFound):
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to create subcategory: %w", err)
	}

	return subcategory, nil
}

// GetSubCategory получает детальную проекцию подкатегории
// с изображениями и напрямую привязанными товарами
func (s *CatalogService) GetSubCategory(ctx context.Context, id int64) (*entity.SubCategoryDetail, error) {
	subcategory, err := s.subcategoryRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrSubCategoryNotFound) {
			return nil, ErrSubCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get subcategory: %w", err)
	}

	images, err := s.imageRepo.GetBySubCategory(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get subcategory images: %w", err)
	}

	products, err := s.productRepo.GetBySubCategory(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get subcategory products: %w", err)
	}

	productResponses, err := s.buildProductResponses(ctx, products)
	if err != nil {
		return nil, err
	}

	return &entity.SubCategoryDetail{
		ID:          subcategory.ID,
		Name:        subcategory.Name,
		Description: subcategory.Description,
		Slug:        subcategory.Slug,
		CategoryID:  subcategory.CategoryID,
		Images:      entity.NewImageResponses(images),
		Products:    productResponses,
	}, nil
}

// GetSubCategoriesBySlug - фильтр по slug, пустой список при отсутствии
func (s *CatalogService) GetSubCategoriesBySlug(ctx context.Context, slug string) ([]entity.SubCategorySummary, error) {
	subcategories, err := s.subcategoryRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("failed to get subcategories by slug: %w", err)
	}

	return s.buildSubCategorySummaries(ctx, subcategories)
}

func (s *CatalogService) GetAllSubCategories(ctx context.Context) ([]entity.SubCategorySummary, error) {
	subcategories, err := s.subcategoryRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get subcategories: %w", err)
	}

	return s.buildSubCategorySummaries(ctx, subcategories)
}

func (s *CatalogService) UpdateSubCategory(ctx context.Context, id int64, req *entity.UpdateSubCategoryRequest) (*entity.SubCategory, error) {
	subcategory, err := s.subcategoryRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrSubCategoryNotFound) {
			return nil, ErrSubCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get subcategory: %w", err)
	}

	if req.Name != "" {
		subcategory.Name = req.Name
	}
	if req.Description != "" {
		subcategory.Description = req.Description
	}
	if req.CategoryID != 0 {
		subcategory.CategoryID = req.CategoryID
	}

	if err := s.subcategoryRepo.Update(ctx, subcategory); err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to update subcategory: %w", err)
	}

	return subcategory, nil
}

func (s *CatalogService) DeleteSubCategory(ctx context.Context, id int64) error {
	if err := s.subcategoryRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrSubCategoryNotFound) {
			return ErrSubCategoryNotFound
		}
		return fmt.Errorf("failed to delete subcategory: %w", err)
	}

	return nil
}

// GetSubCategoryProducts - товары, напрямую привязанные к подкатегории
func (s *CatalogService) GetSubCategoryProducts(ctx context.Context, subcategoryID int64) ([]entity.ProductResponse, error) {
	if _, err := s.subcategoryRepo.GetByID(ctx, subcategoryID); err != nil {
		if errors.Is(err, repository.ErrSubCategoryNotFound) {
			return nil, ErrSubCategoryNotFound
		}
		return nil, fmt.Errorf("failed to verify subcategory: %w", err)
	}

	products, err := s.productRepo.GetBySubCategory(ctx, subcategoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to get subcategory products: %w", err)
	}

	return s.buildProductResponses(ctx, products)
}

// === ВНУТРЕННИЕ ПОСТРОИТЕЛИ ===

func (s *CatalogService) loadCategorySummaries(ctx context.Context) ([]entity.CategorySummary, error) {
	categories, err := s.categoryRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get categories: %w", err)
	}

	return s.buildCategorySummaries(ctx, categories)
}

func (s *CatalogService) buildCategorySummaries(ctx context.Context, categories []entity.Category) ([]entity.CategorySummary, error) {
	summaries := make([]entity.CategorySummary, 0, len(categories))
	for _, c := range categories {
		images, err := s.imageRepo.GetByCategory(ctx, c.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to get category images: %w", err)
		}
		summaries = append(summaries, entity.NewCategorySummary(c, images))
	}
	return summaries, nil
}

func (s *CatalogService) buildSubCategorySummaries(ctx context.Context, subcategories []entity.SubCategory) ([]entity.SubCategorySummary, error) {
	summaries := make([]entity.SubCategorySummary, 0, len(subcategories))
	for _, sc := range subcategories {
		images, err := s.imageRepo.GetBySubCategory(ctx, sc.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to get subcategory images: %w", err)
		}
		summaries = append(summaries, entity.NewSubCategorySummary(sc, images))
	}
	return summaries, nil
}

// buildProductResponses собирает проекции списка товаров пачками:
// изображения, варианты и скидки выбираются одним запросом на коллекцию,
// а не на каждый товар
func (s *CatalogService) buildProductResponses(ctx context.Context, products []entity.Product) ([]entity.ProductResponse, error) {
	if len(products) == 0 {
		return []entity.ProductResponse{}, nil
	}

	productIDs := make([]int64, 0, len(products))
	for _, p := range products {
		productIDs = append(productIDs, p.ID)
	}

	images, err := s.imageRepo.GetByProducts(ctx, productIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to get product images: %w", err)
	}

	variants, err := s.variantRepo.GetByProducts(ctx, productIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to get product variants: %w", err)
	}

	// Скидки товаров и их вариантов собираются в один батч
	discountIDSet := make(map[int64]struct{})
	for _, p := range products {
		if p.DiscountID != nil {
			discountIDSet[*p.DiscountID] = struct{}{}
		}
	}
	for _, vs := range variants {
		for _, v := range vs {
			if v.DiscountID != nil {
				discountIDSet[*v.DiscountID] = struct{}{}
			}
		}
	}

	discountIDs := make([]int64, 0, len(discountIDSet))
	for id := range discountIDSet {
		discountIDs = append(discountIDs, id)
	}

	discounts, err := s.discountRepo.GetByIDs(ctx, discountIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to get discounts: %w", err)
	}

	responses := make([]entity.ProductResponse, 0, len(products))
	for _, p := range products {
		responses = append(responses, entity.NewProductResponse(p, images[p.ID], variants[p.ID], discounts))
	}

	return responses, nil
}

func (s *CatalogService) invalidateCategoriesCache(ctx context.Context) {
	if err := s.cache.DeleteCategories(ctx); err != nil {
		// Запись уже в БД, проблемы с кешем не критичны
		logger.Error().Err(err).Msg("failed to invalidate categories cache")
	}
}
