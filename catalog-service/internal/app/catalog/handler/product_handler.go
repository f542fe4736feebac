package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mistrytech/catalog-service/internal/app/catalog/entity"
)

// === PRODUCTS ===

func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	var req entity.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		respondError(c, http.StatusBadRequest, formatValidationError(err))
		return
	}

	product, err := h.catalogService.CreateProduct(c.Request.Context(), &req)
	if err != nil {
		h.respondServiceError(c, err, "Failed to create product")
		return
	}

	c.JSON(http.StatusCreated, product)
}

func (h *CatalogHandler) GetProduct(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	product, err := h.catalogService.GetProduct(c.Request.Context(), id)
	if err != nil {
		h.respondServiceError(c, err, "Failed to get product")
		return
	}

	c.JSON(http.StatusOK, product)
}

func (h *CatalogHandler) GetProductsBySlug(c *gin.Context) {
	slug := c.Param("slug")

	products, err := h.catalogService.GetProductsBySlug(c.Request.Context(), slug)
	if err != nil {
		h.respondServiceError(c, err, "Failed to get products")
		return
	}

	c.JSON(http.StatusOK, entity.ProductListResponse{
		Products: products,
		Total:    len(products),
	})
}

func (h *CatalogHandler) GetAllProducts(c *gin.Context) {
	products, err := h.catalogService.GetAllProducts(c.Request.Context())
	if err != nil {
		h.respondServiceError(c, err, "Failed to get products")
		return
	}

	c.JSON(http.StatusOK, entity.ProductListResponse{
		Products: products,
		Total:    len(products),
	})
}

func (h *CatalogHandler) UpdateProduct(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req entity.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		respondError(c, http.StatusBadRequest, formatValidationError(err))
		return
	}

	product, err := h.catalogService.UpdateProduct(c.Request.Context(), id, &req)
	if err != nil {
		h.respondServiceError(c, err, "Failed to update product")
		return
	}

	c.JSON(http.StatusOK, product)
}

func (h *CatalogHandler) DeleteProduct(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.catalogService.DeleteProduct(c.Request.Context(), id); err != nil {
		h.respondServiceError(c, err, "Failed to delete product")
		return
	}

	c.JSON(http.StatusOK, entity.SuccessResponse{Message: "Product deleted"})
}

// === VARIANTS ===

func (h *CatalogHandler) CreateVariant(c *gin.Context) {
	var req entity.CreateVariantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		respondError(c, http.StatusBadRequest, formatValidationError(err))
		return
	}

	variant, err := h.catalogService.CreateVariant(c.Request.Context(), &req)
	if err != nil {
		h.respondServiceError(c, err, "Failed to create variant")
		return
	}

	c.JSON(http.StatusCreated, variant)
}

func (h *CatalogHandler) GetVariant(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	variant, err := h.catalogService.GetVariant(c.Request.Context(), id)
	if err != nil {
		h.respondServiceError(c, err, "Failed to get variant")
		return
	}

	c.JSON(http.StatusOK, variant)
}

func (h *CatalogHandler) GetProductVariants(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	variants, err := h.catalogService.GetProductVariants(c.Request.Context(), id)
	if err != nil {
		h.respondServiceError(c, err, "Failed to get variants")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"variants": variants,
		"total":    len(variants),
	})
}

func (h *CatalogHandler) UpdateVariant(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req entity.UpdateVariantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		respondError(c, http.StatusBadRequest, formatValidationError(err))
		return
	}

	variant, err := h.catalogService.UpdateVariant(c.Request.Context(), id, &req)
	if err != nil {
		h.respondServiceError(c, err, "Failed to update variant")
		return
	}

	c.JSON(http.StatusOK, variant)
}

func (h *CatalogHandler) DeleteVariant(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.catalogService.DeleteVariant(c.Request.Context(), id); err != nil {
		h.respondServiceError(c, err, "Failed to delete variant")
		return
	}

	c.JSON(http.StatusOK, entity.SuccessResponse{Message: "Variant deleted"})
}
