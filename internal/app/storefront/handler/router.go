package handler

import (
	"net/http"
	"time"

	"meadowmarket/internal/app/storefront/config"
	"meadowmarket/internal/app/storefront/service"
	"meadowmarket/internal/app/storefront/session"
	"meadowmarket/pkg/logger"
	"meadowmarket/pkg/metrics"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const serviceName = "storefront-service"

// NewRouter создает и настраивает Gin router витрины
func NewRouter(
	cfg *config.Config,
	manager *session.Manager,
	queries *service.QueryService,
	mutations *service.MutationService,
) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(logger.GinLoggerMiddleware())
	router.Use(metrics.GinPrometheusMiddleware(serviceName))

	corsConfig := cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.CORS.AllowedOrigins) == 1 && cfg.CORS.AllowedOrigins[0] == "*" {
		corsConfig.AllowAllOrigins = true
		corsConfig.AllowOrigins = nil
	}
	router.Use(cors.New(corsConfig))

	storefront := NewStorefrontHandler(queries, mutations)
	admin := NewAdminHandler(queries, mutations)

	// Health check
	router.GET("/health", func(c *gin.Context) {
		status := "healthy"
		code := http.StatusOK
		if !manager.Ready() {
			// Gateway ещё не отвечал на ping: выборки не выдаются
			status = "initializing"
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{
			"status":  status,
			"service": serviceName,
		})
	})

	// Prometheus метрики
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	v1.Use(SessionMiddleware(manager))
	{
		// Публичный каталог: доступен и анонимным сессиям
		v1.GET("/products", storefront.ListProducts)
		v1.GET("/products/popular", storefront.GetPopularProducts)
		v1.GET("/products/:id", storefront.GetProduct)
		v1.GET("/categories", storefront.ListCategories)

		// Logout сбрасывает кеш и для уже разлогиненных клиентов
		v1.POST("/logout", storefront.Logout)

		authenticated := v1.Group("")
		authenticated.Use(RequireAuthenticated())
		{
			authenticated.GET("/cart", storefront.GetCart)
			authenticated.POST("/cart", storefront.AddToCart)
			authenticated.DELETE("/cart", storefront.ClearCart)
			authenticated.PUT("/cart/:productId", storefront.UpdateCartQuantity)
			authenticated.DELETE("/cart/:productId", storefront.RemoveFromCart)

			authenticated.POST("/checkout", storefront.Checkout)

			authenticated.GET("/orders", storefront.GetOrderHistory)
			authenticated.GET("/orders/:id", storefront.GetOrder)

			authenticated.GET("/profile", storefront.GetProfile)
			authenticated.PUT("/profile", storefront.SaveProfile)
			authenticated.GET("/profile/role", storefront.GetRole)

			authenticated.GET("/mutations/:name/status", storefront.MutationStatus)
		}

		adminGroup := v1.Group("/admin")
		adminGroup.Use(RequireAdmin(queries))
		{
			adminGroup.GET("/dashboard", admin.Dashboard)

			adminGroup.POST("/products", admin.AddProduct)
			adminGroup.PUT("/products/:id", admin.UpdateProduct)
			adminGroup.DELETE("/products/:id", admin.DeleteProduct)

			adminGroup.POST("/categories", admin.AddCategory)

			adminGroup.GET("/orders", admin.GetAllOrders)
			adminGroup.GET("/orders/user/:user", admin.GetOrdersByUser)

			adminGroup.GET("/users/:user/profile", admin.GetUserProfile)

			adminGroup.POST("/roles", admin.AssignRole)

			adminGroup.POST("/initialize", admin.Initialize)
		}
	}

	return router
}
