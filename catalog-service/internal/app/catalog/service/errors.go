package service

import "errors"

// Ошибки бизнес-логики для обработки в handlers
var (
	ErrCategoryNotFound    = errors.New("category not found")
	ErrSubCategoryNotFound = errors.New("subcategory not found")
	ErrProductNotFound     = errors.New("product not found")
	ErrVariantNotFound     = errors.New("variant not found")
	ErrDiscountNotFound    = errors.New("discount not found")
	ErrImageNotFound       = errors.New("image not found")

	// ErrSlugConflict - slug уже занят другой сущностью того же типа
	ErrSlugConflict = errors.New("slug already in use")

	// ErrInvalidPrice - базовая цена не может быть отрицательной.
	// На вычисленную скидочную цену ограничение не распространяется
	ErrInvalidPrice = errors.New("price must not be negative")

	// ErrInvalidDiscountValue - процент скидки не может быть отрицательным.
	// Верхней границы нет: значение больше 100 принимается как есть
	ErrInvalidDiscountValue = errors.New("discount value must not be negative")

	// ErrImageOwner - изображение должно принадлежать ровно одному
	// владельцу: товару, категории или подкатегории
	ErrImageOwner = errors.New("image must reference exactly one owner")
)
