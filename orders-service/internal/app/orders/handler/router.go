package handler

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"mistrytech/pkg/logger"
	"mistrytech/pkg/metrics"
)

// SetupRoutes настраивает все маршруты Orders Service.
// Создание заказа допускает гостей, остальные операции требуют токен
func SetupRoutes(orderHandler *OrderHandler, authMiddleware *AuthMiddleware) *gin.Engine {
	router := gin.New()

	// Recovery middleware для обработки panic
	router.Use(gin.Recovery())

	// JSON logging middleware для HTTP-запросов (ELK Stack)
	router.Use(logger.GinLoggerMiddleware())

	// Prometheus metrics middleware
	router.Use(metrics.GinPrometheusMiddleware("orders-service"))

	// CORS настройки
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"https://*", "http://*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposeHeaders:    []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "orders-service",
		})
	})

	// Prometheus metrics endpoint
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	orders := router.Group("/orders")
	{
		orders.POST("", authMiddleware.AuthenticateOptional(), orderHandler.CreateOrder)

		auth := authMiddleware.Authenticate()
		orders.GET("", auth, orderHandler.GetUserOrders)
		orders.GET("/:id", auth, orderHandler.GetOrder)
		orders.PATCH("/:id", auth, orderHandler.UpdateOrderStatus)
		orders.DELETE("/:id", auth, orderHandler.DeleteOrder)
		orders.POST("/:id/payments", auth, orderHandler.CreatePayment)
		orders.GET("/:id/payments", auth, orderHandler.GetOrderPayments)
	}

	return router
}
