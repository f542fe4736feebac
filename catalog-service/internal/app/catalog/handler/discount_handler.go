package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mistrytech/catalog-service/internal/app/catalog/entity"
)

// === DISCOUNTS ===

func (h *CatalogHandler) CreateDiscount(c *gin.Context) {
	var req entity.CreateDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	discount, err := h.catalogService.CreateDiscount(c.Request.Context(), &req)
	if err != nil {
		h.respondServiceError(c, err, "Failed to create discount")
		return
	}

	c.JSON(http.StatusCreated, discount)
}

func (h *CatalogHandler) GetDiscount(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	discount, err := h.catalogService.GetDiscount(c.Request.Context(), id)
	if err != nil {
		h.respondServiceError(c, err, "Failed to get discount")
		return
	}

	c.JSON(http.StatusOK, discount)
}

func (h *CatalogHandler) GetAllDiscounts(c *gin.Context) {
	discounts, err := h.catalogService.GetAllDiscounts(c.Request.Context())
	if err != nil {
		h.respondServiceError(c, err, "Failed to get discounts")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"discounts": discounts,
		"total":     len(discounts),
	})
}

func (h *CatalogHandler) UpdateDiscount(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req entity.UpdateDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	discount, err := h.catalogService.UpdateDiscount(c.Request.Context(), id, &req)
	if err != nil {
		h.respondServiceError(c, err, "Failed to update discount")
		return
	}

	c.JSON(http.StatusOK, discount)
}

func (h *CatalogHandler) DeleteDiscount(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.catalogService.DeleteDiscount(c.Request.Context(), id); err != nil {
		h.respondServiceError(c, err, "Failed to delete discount")
		return
	}

	c.JSON(http.StatusOK, entity.SuccessResponse{Message: "Discount deleted"})
}

// === IMAGES ===

func (h *CatalogHandler) CreateImage(c *gin.Context) {
	var req entity.CreateImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		respondError(c, http.StatusBadRequest, formatValidationError(err))
		return
	}

	image, err := h.catalogService.CreateImage(c.Request.Context(), &req)
	if err != nil {
		h.respondServiceError(c, err, "Failed to create image")
		return
	}

	c.JSON(http.StatusCreated, image)
}

func (h *CatalogHandler) GetImage(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	image, err := h.catalogService.GetImage(c.Request.Context(), id)
	if err != nil {
		h.respondServiceError(c, err, "Failed to get image")
		return
	}

	c.JSON(http.StatusOK, image)
}

func (h *CatalogHandler) DeleteImage(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.catalogService.DeleteImage(c.Request.Context(), id); err != nil {
		h.respondServiceError(c, err, "Failed to delete image")
		return
	}

	c.JSON(http.StatusOK, entity.SuccessResponse{Message: "Image deleted"})
}
