package handler

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"mistrytech/pkg/logger"
	"mistrytech/pkg/metrics"
)

// SetupRoutes настраивает все маршруты каталога.
// Чтение публично, запись требует токена администратора
func SetupRoutes(catalogHandler *CatalogHandler, authMiddleware *AuthMiddleware) *gin.Engine {
	router := gin.New()

	// Recovery middleware для обработки panic
	router.Use(gin.Recovery())

	// JSON logging middleware для HTTP-запросов (ELK Stack)
	router.Use(logger.GinLoggerMiddleware())

	// Prometheus metrics middleware
	router.Use(metrics.GinPrometheusMiddleware("catalog-service"))

	// CORS настройки
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"https://*", "http://*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposeHeaders:    []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "catalog-service",
		})
	})

	// Prometheus metrics endpoint
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	admin := authMiddleware.Authenticate()
	adminOnly := authMiddleware.RequireAdmin()

	categories := router.Group("/categories")
	{
		categories.GET("", catalogHandler.GetAllCategories)
		categories.GET("/:id", catalogHandler.GetCategory)
		categories.GET("/:id/products", catalogHandler.GetCategoryProducts)
		categories.GET("/slug/:slug", catalogHandler.GetCategoriesBySlug)
		categories.POST("", admin, adminOnly, catalogHandler.CreateCategory)
		categories.PUT("/:id", admin, adminOnly, catalogHandler.UpdateCategory)
		categories.DELETE("/:id", admin, adminOnly, catalogHandler.DeleteCategory)
	}

	subcategories := router.Group("/subcategories")
	{
		subcategories.GET("", catalogHandler.GetAllSubCategories)
		subcategories.GET("/:id", catalogHandler.GetSubCategory)
		subcategories.GET("/:id/products", catalogHandler.GetSubCategoryProducts)
		subcategories.GET("/slug/:slug", catalogHandler.GetSubCategoriesBySlug)
		subcategories.POST("", admin, adminOnly, catalogHandler.CreateSubCategory)
		subcategories.PUT("/:id", admin, adminOnly, catalogHandler.UpdateSubCategory)
		subcategories.DELETE("/:id", admin, adminOnly, catalogHandler.DeleteSubCategory)
	}

	products := router.Group("/products")
	{
		products.GET("", catalogHandler.GetAllProducts)
		products.GET("/:id", catalogHandler.GetProduct)
		products.GET("/:id/variants", catalogHandler.GetProductVariants)
		products.GET("/slug/:slug", catalogHandler.GetProductsBySlug)
		products.POST("", admin, adminOnly, catalogHandler.CreateProduct)
		products.PUT("/:id", admin, adminOnly, catalogHandler.UpdateProduct)
		products.DELETE("/:id", admin, adminOnly, catalogHandler.DeleteProduct)
	}

	variants := router.Group("/variants")
	{
		variants.GET("/:id", catalogHandler.GetVariant)
		variants.POST("", admin, adminOnly, catalogHandler.CreateVariant)
		variants.PUT("/:id", admin, adminOnly, catalogHandler.UpdateVariant)
		variants.DELETE("/:id", admin, adminOnly, catalogHandler.DeleteVariant)
	}

	discounts := router.Group("/discounts")
	{
		discounts.GET("", catalogHandler.GetAllDiscounts)
		discounts.GET("/:id", catalogHandler.GetDiscount)
		discounts.POST("", admin, adminOnly, catalogHandler.CreateDiscount)
		discounts.PUT("/:id", admin, adminOnly, catalogHandler.UpdateDiscount)
		discounts.DELETE("/:id", admin, adminOnly, catalogHandler.DeleteDiscount)
	}

	images := router.Group("/images")
	{
		images.GET("/:id", catalogHandler.GetImage)
		images.POST("", admin, adminOnly, catalogHandler.CreateImage)
		images.DELETE("/:id", admin, adminOnly, catalogHandler.DeleteImage)
	}

	return router
}
