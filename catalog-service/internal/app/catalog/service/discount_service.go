package service

import (
	"context"
	"errors"
	"fmt"

	"mistrytech/catalog-service/internal/app/catalog/entity"
	"mistrytech/catalog-service/internal/app/catalog/repository"
)

// === DISCOUNTS ===

// CreateDiscount создает скидку. Значение проверяется только на
// неотрицательность: скидка больше 100% допустима и дает
// отрицательную вычисленную цену
func (s *CatalogService) CreateDiscount(ctx context.Context, req *entity.CreateDiscountRequest) (*entity.Discount, error) {
	if req.DiscountValue.IsNegative() {
		return nil, ErrInvalidDiscountValue
	}

	discount := &entity.Discount{
		DiscountValue: req.DiscountValue,
		Description:   req.Description,
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
	}

	if err := s.discountRepo.Create(ctx, discount); err != nil {
		return nil, fmt.Errorf("failed to create discount: %w", err)
	}

	return discount, nil
}

func (s *CatalogService) GetDiscount(ctx context.Context, id int64) (*entity.Discount, error) {
	discount, err := s.discountRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrDiscountNotFound) {
			return nil, ErrDiscountNotFound
		}
		return nil, fmt.Errorf("failed to get discount: %w", err)
	}

	return discount, nil
}

func (s *CatalogService) GetAllDiscounts(ctx context.Context) ([]entity.Discount, error) {
	discounts, err := s.discountRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get discounts: %w", err)
	}

	return discounts, nil
}

func (s *CatalogService) UpdateDiscount(ctx context.Context, id int64, req *entity.UpdateDiscountRequest) (*entity.Discount, error) {
	discount, err := s.discountRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrDiscountNotFound) {
			return nil, ErrDiscountNotFound
		}
		return nil, fmt.Errorf("failed to get discount: %w", err)
	}

	if req.DiscountValue != nil {
		if req.DiscountValue.IsNegative() {
			return nil, ErrInvalidDiscountValue
		}
		discount.DiscountValue = *req.DiscountValue
	}
	if req.Description != nil {
		discount.Description = *req.Description
	}
	if req.StartDate != nil {
		discount.StartDate = req.StartDate
	}
	if req.EndDate != nil {
		discount.EndDate = req.EndDate
	}

	if err := s.discountRepo.Update(ctx, discount); err != nil {
		return nil, fmt.Errorf("failed to update discount: %w", err)
	}

	return discount, nil
}

// DeleteDiscount удаляет скидку. Товары и варианты, ссылавшиеся на нее,
// возвращаются к базовой цене (discount_id обнуляется на уровне БД)
func (s *CatalogService) DeleteDiscount(ctx context.Context, id int64) error {
	if err := s.discountRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrDiscountNotFound) {
			return ErrDiscountNotFound
		}
		return fmt.Errorf("failed to delete discount: %w", err)
	}

	return nil
}

// === IMAGES ===

// CreateImage привязывает изображение ровно к одному владельцу:
// товару, категории или подкатегории
func (s *CatalogService) CreateImage(ctx context.Context, req *entity.CreateImageRequest) (*entity.Image, error) {
	owners := 0
	if req.ProductID != nil {
		owners++
	}
	if req.CategoryID != nil {
		owners++
	}
	if req.SubCategoryID != nil {
		owners++
	}
	if owners != 1 {
		return nil, ErrImageOwner
	}

	image := &entity.Image{
		Image:         req.Image,
		ProductID:     req.ProductID,
		CategoryID:    req.CategoryID,
		SubCategoryID: req.SubCategoryID,
	}

	if err := s.imageRepo.Create(ctx, image); err != nil {
		switch {
		case errors.Is(err, repository.ErrProductNotFound):
			return nil, ErrProductNotFound
		case errors.Is(err, repository.ErrCategoryNotFound):
			return nil, ErrCategoryNotFound
		case errors.Is(err, repository.ErrSubCategoryNotFound):
			return nil, ErrSubCategoryNotFound
		}
		return nil, fmt.Errorf("failed to create image: %w", err)
	}

	// Кеш категорий содержит их изображения
	if req.CategoryID != nil {
		s.invalidateCategoriesCache(ctx)
	}

	return image, nil
}

func (s *CatalogService) GetImage(ctx context.Context, id int64) (*entity.Image, error) {
	image, err := s.imageRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrImageNotFound) {
			return nil, ErrImageNotFound
		}
		return nil, fmt.Errorf("failed to get image: %w", err)
	}

	return image, nil
}

func (s *CatalogService) DeleteImage(ctx context.Context, id int64) error {
	image, err := s.imageRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrImageNotFound) {
			return ErrImageNotFound
		}
		return fmt.Errorf("failed to get image: %w", err)
	}

	if err := s.imageRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrImageNotFound) {
			return ErrImageNotFound
		}
		return fmt.Errorf("failed to delete image: %w", err)
	}

	if image.CategoryID != nil {
		s.invalidateCategoriesCache(ctx)
	}

	return nil
}
