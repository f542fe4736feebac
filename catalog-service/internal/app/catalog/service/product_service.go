package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"mistrytech/catalog-service/internal/app/catalog/entity"
	"mistrytech/catalog-service/internal/app/catalog/repository"
	"mistrytech/catalog-service/internal/app/catalog/util"
	"mistrytech/pkg/logger"
)

// === PRODUCTS ===

// CreateProduct создает товар со связями many-to-many.
// Slug генерируется из имени, если не передан. При создании товара
// событие в Kafka не отправляется
func (s *CatalogService) CreateProduct(ctx context.Context, req *entity.CreateProductRequest) (*entity.Product, error) {
	if req.Price.IsNegative() {
		return nil, ErrInvalidPrice
	}

	product := &entity.Product{
		Name:        req.Name,
		Description: req.Description,
		Slug:        req.Slug,
		Price:       req.Price,
		Quantity:    req.Quantity,
		DiscountID:  req.DiscountID,
	}
	if product.Slug == "" {
		product.Slug = util.Slugify(req.Name)
	}

	if err := s.productRepo.Create(ctx, product, req.CategoryIDs, req.SubCategoryIDs); err != nil {
		switch {
		case errors.Is(err, repository.ErrSlugTaken):
			return nil, ErrSlugConflict
		case errors.Is(err, repository.ErrCategoryNotFound):
			return nil, ErrCategoryNotFound
		case errors.Is(err, repository.ErrSubCategoryNotFound):
			return nil, ErrSubCategoryNotFound
		case errors.Is(err, repository.ErrDiscountNotFound):
			return nil, ErrDiscountNotFound
		}
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return product, nil
}

// GetProduct получает детальную проекцию товара с изображениями,
// вариантами и вычисленной скидочной ценой
func (s *CatalogService) GetProduct(ctx context.Context, id int64) (*entity.ProductResponse, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	responses, err := s.buildProductResponses(ctx, []entity.Product{*product})
	if err != nil {
		return nil, err
	}

	return &responses[0], nil
}

// GetProductsBySlug - фильтр по slug, пустой список при отсутствии
func (s *CatalogService) GetProductsBySlug(ctx context.Context, slug string) ([]entity.ProductResponse, error) {
	products, err := s.productRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("failed to get products by slug: %w", err)
	}

	return s.buildProductResponses(ctx, products)
}

func (s *CatalogService) GetAllProducts(ctx context.Context) ([]entity.ProductResponse, error) {
	products, err := s.productRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get products: %w", err)
	}

	return s.buildProductResponses(ctx, products)
}

// UpdateProduct - частичное обновление товара. При изменении цены
// отправляется событие PRODUCT_UPDATED в Kafka. DiscountID = 0
// отвязывает скидку от товара
func (s *CatalogService) UpdateProduct(ctx context.Context, id int64, req *entity.UpdateProductRequest) (*entity.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	oldPrice := product.Price

	if req.Name != "" {
		product.Name = req.Name
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Price != nil {
		if req.Price.IsNegative() {
			return nil, ErrInvalidPrice
		}
		product.Price = *req.Price
	}
	if req.Quantity != nil {
		product.Quantity = *req.Quantity
	}
	if req.DiscountID != nil {
		if *req.DiscountID == 0 {
			product.DiscountID = nil
		} else {
			product.DiscountID = req.DiscountID
		}
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		if errors.Is(err, repository.ErrDiscountNotFound) {
			return nil, ErrDiscountNotFound
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	if req.CategoryIDs != nil {
		if err := s.productRepo.ReplaceCategories(ctx, id, req.CategoryIDs); err != nil {
			if errors.Is(err, repository.ErrCategoryNotFound) {
				return nil, ErrCategoryNotFound
			}
			return nil, fmt.Errorf("failed to replace product categories: %w", err)
		}
	}
	if req.SubCategoryIDs != nil {
		if err := s.productRepo.ReplaceSubCategories(ctx, id, req.SubCategoryIDs); err != nil {
			if errors.Is(err, repository.ErrSubCategoryNotFound) {
				return nil, ErrSubCategoryNotFound
			}
			return nil, fmt.Errorf("failed to replace product subcategories: %w", err)
		}
	}

	// Событие отправляется только при смене цены
	if !product.Price.Equal(oldPrice) {
		s.publishProductEvent(ctx, entity.ProductEvent{
			EventType: entity.EventProductUpdated,
			ProductID: product.ID,
			Name:      product.Name,
			Price:     product.Price,
			Timestamp: time.Now(),
		})
	}

	return product, nil
}

// DeleteProduct удаляет товар и отправляет PRODUCT_DELETED в Kafka.
// Orders Service по этому событию отвязывает товар от позиций заказов,
// не трогая снимки цен - история заказов переживает удаление
func (s *CatalogService) DeleteProduct(ctx context.Context, id int64) error {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return ErrProductNotFound
		}
		return fmt.Errorf("failed to get product: %w", err)
	}

	if err := s.productRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return ErrProductNotFound
		}
		return fmt.Errorf("failed to delete product: %w", err)
	}

	s.publishProductEvent(ctx, entity.ProductEvent{
		EventType: entity.EventProductDeleted,
		ProductID: product.ID,
		Name:      product.Name,
		Price:     product.Price,
		Timestamp: time.Now(),
	})

	return nil
}

// === VARIANTS ===

// CreateVariant создает вариант товара. Скидка варианта независима
// от скидки родительского товара
func (s *CatalogService) CreateVariant(ctx context.Context, req *entity.CreateVariantRequest) (*entity.Variant, error) {
	if req.Price.IsNegative() {
		return nil, ErrInvalidPrice
	}

	variant := &entity.Variant{
		ProductID:  req.ProductID,
		Size:       req.Size,
		Color:      req.Color,
		Price:      req.Price,
		Quantity:   req.Quantity,
		DiscountID: req.DiscountID,
	}

	if err := s.variantRepo.Create(ctx, variant); err != nil {
		switch {
		case errors.Is(err, repository.ErrProductNotFound):
			return nil, ErrProductNotFound
		case errors.Is(err, repository.ErrDiscountNotFound):
			return nil, ErrDiscountNotFound
		}
		return nil, fmt.Errorf("failed to create variant: %w", err)
	}

	return variant, nil
}

// GetVariant получает проекцию варианта со скидочной ценой,
// вычисленной по его собственной скидке
func (s *CatalogService) GetVariant(ctx context.Context, id int64) (*entity.VariantResponse, error) {
	variant, err := s.variantRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrVariantNotFound) {
			return nil, ErrVariantNotFound
		}
		return nil, fmt.Errorf("failed to get variant: %w", err)
	}

	var discount *entity.Discount
	if variant.DiscountID != nil {
		discount, err = s.discountRepo.GetByID(ctx, *variant.DiscountID)
		if err != nil && !errors.Is(err, repository.ErrDiscountNotFound) {
			return nil, fmt.Errorf("failed to get variant discount: %w", err)
		}
	}

	response := entity.NewVariantResponse(*variant, discount)
	return &response, nil
}

func (s *CatalogService) GetProductVariants(ctx context.Context, productID int64) ([]entity.VariantResponse, error) {
	if _, err := s.productRepo.GetByID(ctx, productID); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to verify product: %w", err)
	}

	variants, err := s.variantRepo.GetByProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to get variants: %w", err)
	}

	discountIDs := make([]int64, 0, len(variants))
	for _, v := range variants {
		if v.DiscountID != nil {
			discountIDs = append(discountIDs, *v.DiscountID)
		}
	}

	discounts, err := s.discountRepo.GetByIDs(ctx, discountIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to get variant discounts: %w", err)
	}

	responses := make([]entity.VariantResponse, 0, len(variants))
	for _, v := range variants {
		var discount *entity.Discount
		if v.DiscountID != nil {
			discount = discounts[*v.DiscountID]
		}
		responses = append(responses, entity.NewVariantResponse(v, discount))
	}

	return responses, nil
}

// UpdateVariant - частичное обновление варианта.
// DiscountID = 0 отвязывает скидку
func (s *CatalogService) UpdateVariant(ctx context.Context, id int64, req *entity.UpdateVariantRequest) (*entity.Variant, error) {
	variant, err := s.variantRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrVariantNotFound) {
			return nil, ErrVariantNotFound
		}
		return nil, fmt.Errorf("failed to get variant: %w", err)
	}

	if req.Size != "" {
		variant.Size = req.Size
	}
	if req.Color != "" {
		variant.Color = req.Color
	}
	if req.Price != nil {
		if req.Price.IsNegative() {
			return nil, ErrInvalidPrice
		}
		variant.Price = *req.Price
	}
	if req.Quantity != nil {
		variant.Quantity = *req.Quantity
	}
	if req.DiscountID != nil {
		if *req.DiscountID == 0 {
			variant.DiscountID = nil
		} else {
			variant.DiscountID = req.DiscountID
		}
	}

	if err := s.variantRepo.Update(ctx, variant); err != nil {
		if errors.Is(err, repository.ErrDiscountNotFound) {
			return nil, ErrDiscountNotFound
		}
		return nil, fmt.Errorf("failed to update variant: %w", err)
	}

	return variant, nil
}

// DeleteVariant удаляет вариант и отправляет VARIANT_DELETED в Kafka
func (s *CatalogService) DeleteVariant(ctx context.Context, id int64) error {
	variant, err := s.variantRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrVariantNotFound) {
			return ErrVariantNotFound
		}
		return fmt.Errorf("failed to get variant: %w", err)
	}

	if err := s.variantRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrVariantNotFound) {
			return ErrVariantNotFound
		}
		return fmt.Errorf("failed to delete variant: %w", err)
	}

	s.publishProductEvent(ctx, entity.ProductEvent{
		EventType: entity.EventVariantDeleted,
		ProductID: variant.ProductID,
		VariantID: &variant.ID,
		Price:     variant.Price,
		Timestamp: time.Now(),
	})

	return nil
}

// publishProductEvent отправляет событие каталога в Kafka.
// Key = ProductID, чтобы события одного товара попадали в одну партицию.
// Ошибка отправки не прерывает основную операцию
func (s *CatalogService) publishProductEvent(ctx context.Context, event entity.ProductEvent) {
	eventData, err := json.Marshal(event)
	if err != nil {
		logger.Error().Err(err).Str("event_type", event.EventType).Msg("failed to marshal product event")
		return
	}

	key := strconv.FormatInt(event.ProductID, 10)
	if err := s.producer.PublishMessage(ctx, key, eventData); err != nil {
		logger.Error().
			Err(err).
			Str("event_type", event.EventType).
			Int64("product_id", event.ProductID).
			Msg("failed to publish product event")
	}
}
