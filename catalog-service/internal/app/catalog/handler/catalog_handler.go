package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"mistrytech/catalog-service/internal/app/catalog/entity"
	"mistrytech/catalog-service/internal/app/catalog/service"
)

// CatalogHandler обрабатывает HTTP запросы к каталогу
type CatalogHandler struct {
	catalogService service.CatalogServiceInterface
	validator      *validator.Validate
}

func NewCatalogHandler(catalogService service.CatalogServiceInterface) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
		validator:      validator.New(),
	}
}

// === CATEGORIES ===

func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	var req entity.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		respondError(c, http.StatusBadRequest, formatValidationError(err))
		return
	}

	category, err := h.catalogService.CreateCategory(c.Request.Context(), &req)
	if err != nil {
		h.respondServiceError(c, err, "Failed to create category")
		return
	}

	c.JSON(http.StatusCreated, category)
}

func (h *CatalogHandler) GetCategory(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	category, err := h.catalogService.GetCategory(c.Request.Context(), id)
	if err != nil {
		h.respondServiceError(c, err, "Failed to get category")
		return
	}

	c.JSON(http.StatusOK, category)
}

// GetCategoriesBySlug - фильтр: несуществующий slug дает 200 с пустым
// списком, а не 404
func (h *CatalogHandler) GetCategoriesBySlug(c *gin.Context) {
	slug := c.Param("slug")

	categories, err := h.catalogService.GetCategoriesBySlug(c.Request.Context(), slug)
	if err != nil {
		h.respondServiceError(c, err, "Failed to get categories")
		return
	}

	c.JSON(http.StatusOK, entity.CategoryListResponse{
		Categories: categories,
		Total:      len(categories),
	})
}

func (h *CatalogHandler) GetAllCategories(c *gin.Context) {
	categories, err := h.catalogService.GetAllCategories(c.Request.Context())
	if err != nil {
		h.respondServiceError(c, err, "Failed to get categories")
		return
	}

	c.JSON(http.StatusOK, entity.CategoryListResponse{
		Categories: categories,
		Total:      len(categories),
	})
}

func (h *CatalogHandler) UpdateCategory(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req entity.UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		respondError(c, http.StatusBadRequest, formatValidationError(err))
		return
	}

	category, err := h.catalogService.UpdateCategory(c.Request.Context(), id, &req)
	if err != nil {
		h.respondServiceError(c, err, "Failed to update category")
		return
	}

	c.JSON(http.StatusOK, category)
}

func (h *CatalogHandler) DeleteCategory(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.catalogService.DeleteCategory(c.Request.Context(), id); err != nil {
		h.respondServiceError(c, err, "Failed to delete category")
		return
	}

	c.JSON(http.StatusOK, entity.SuccessResponse{Message: "Category deleted"})
}

func (h *CatalogHandler) GetCategoryProducts(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	products, err := h.catalogService.GetCategoryProducts(c.Request.Context(), id)
	if err != nil {
		h.respondServiceError(c, err, "Failed to get category products")
		return
	}

	c.JSON(http.StatusOK, entity.ProductListResponse{
		Products: products,
		Total:    len(products),
	})
}

// === SUBCATEGORIES ===

func (h *CatalogHandler) CreateSubCategory(c *gin.Context) {
	var req entity.CreateSubCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		respondError(c, http.StatusBadRequest, formatValidationError(err))
		return
	}

	subcategory, err := h.catalogService.CreateSubCategory(c.Request.Context(), &req)
	if err != nil {
		h.respondServiceError(c, err, "Failed to create subcategory")
		return
	}

	c.JSON(http.StatusCreated, subcategory)
}

func (h *CatalogHandler) GetSubCategory(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	subcategory, err := h.catalogService.GetSubCategory(c.Request.Context(), id)
	if err != nil {
		h.respondServiceError(c, err, "Failed to get subcategory")
		return
	}

	c.JSON(http.StatusOK, subcategory)
}

func (h *CatalogHandler) GetSubCategoriesBySlug(c *gin.Context) {
	slug := c.Param("slug")

	subcategories, err := h.catalogService.GetSubCategoriesBySlug(c.Request.Context(), slug)
	if err != nil {
		h.respondServiceError(c, err, "Failed to get subcategories")
		return
	}

	c.JSON(http.StatusOK, entity.SubCategoryListResponse{
		SubCategories: subcategories,
		Total:         len(subcategories),
	})
}

func (h *CatalogHandler) GetAllSubCategories(c *gin.Context) {
	subcategories, err := h.catalogService.GetAllSubCategories(c.Request.Context())
	if err != nil {
		h.respondServiceError(c, err, "Failed to get subcategories")
		return
	}

	c.JSON(http.StatusOK, entity.SubCategoryListResponse{
		SubCategories: subcategories,
		Total:         len(subcategories),
	})
}

func (h *CatalogHandler) UpdateSubCategory(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req entity.UpdateSubCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		respondError(c, http.StatusBadRequest, formatValidationError(err))
		return
	}

	subcategory, err := h.catalogService.UpdateSubCategory(c.Request.Context(), id, &req)
	if err != nil {
		h.respondServiceError(c, err, "Failed to update subcategory")
		return
	}

	c.JSON(http.StatusOK, subcategory)
}

func (h *CatalogHandler) DeleteSubCategory(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.catalogService.DeleteSubCategory(c.Request.Context(), id); err != nil {
		h.respondServiceError(c, err, "Failed to delete subcategory")
		return
	}

	c.JSON(http.StatusOK, entity.SuccessResponse{Message: "Subcategory deleted"})
}

func (h *CatalogHandler) GetSubCategoryProducts(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	products, err := h.catalogService.GetSubCategoryProducts(c.Request.Context(), id)
	if err != nil {
		h.respondServiceError(c, err, "Failed to get subcategory products")
		return
	}

	c.JSON(http.StatusOK, entity.ProductListResponse{
		Products: products,
		Total:    len(products),
	})
}

// === HELPER FUNCTIONS ===

// parseID извлекает числовой id из пути. Нечисловой id - это 400,
// а не 404: идентификатор есть, но он некорректен
func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid id")
		return 0, false
	}
	return id, true
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, entity.ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
	})
}

// respondServiceError переводит ошибки бизнес-логики в HTTP статусы
func (h *CatalogHandler) respondServiceError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrCategoryNotFound),
		errors.Is(err, service.ErrSubCategoryNotFound),
		errors.Is(err, service.ErrProductNotFound),
		errors.Is(err, service.ErrVariantNotFound),
		errors.Is(err, service.ErrDiscountNotFound),
		errors.Is(err, service.ErrImageNotFound):
		respondError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrSlugConflict):
		respondError(c, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrInvalidPrice),
		errors.Is(err, service.ErrInvalidDiscountValue),
		errors.Is(err, service.ErrImageOwner):
		respondError(c, http.StatusBadRequest, err.Error())
	default:
		respondError(c, http.StatusInternalServerError, fallback)
	}
}

// formatValidationError форматирует ошибки валидации
func formatValidationError(err error) string {
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		if len(validationErrors) > 0 {
			return validationErrors[0].Field() + " validation failed"
		}
	}
	return "Validation failed"
}
