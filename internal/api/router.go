package api

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/IT22091352/wasana-products/internal/api/handlers"
	"github.com/IT22091352/wasana-products/internal/api/middleware"
	"github.com/IT22091352/wasana-products/internal/config"
	"github.com/IT22091352/wasana-products/internal/services"
	"github.com/IT22091352/wasana-products/internal/store"
)

// SetupRouter configures and returns the main Gin engine. The stores decide
// which backend (MongoDB or flat files) the API runs against; the router
// never knows. notifier may be nil to disable inquiry notifications.
func SetupRouter(cfg *config.Config, stores store.Stores, notifier services.Notifier) *gin.Engine {
	userService := services.NewUserService(stores.Users, cfg)
	inquiryService := services.NewInquiryService(stores.Inquiries, notifier)

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	rateLimiter := middleware.NewRateLimiterMiddleware(cfg)

	// Order matters: correlation ID first so rate-limit rejections carry one.
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.CORSMiddleware())
	r.Use(rateLimiter.Limit())

	authHandler := handlers.NewAuthHandler(cfg, userService)
	inquiryHandler := handlers.NewInquiryHandler(cfg, inquiryService)
	productHandler := handlers.NewProductHandler()

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/products", productHandler.List)

		authGroup := apiGroup.Group("/auth")
		{
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/register", authHandler.Register)

			authRequired := authGroup.Group("/")
			authRequired.Use(middleware.AuthMiddleware(cfg.JwtSecret, userService))
			{
				authRequired.GET("/verify", authHandler.Verify)
				authRequired.POST("/change-password", authHandler.ChangePassword)
			}
		}

		inquiries := apiGroup.Group("/inquiries")
		inquiries.Use(middleware.AuthMiddleware(cfg.JwtSecret, userService))
		{
			inquiries.POST("", inquiryHandler.Create)
			inquiries.GET("", inquiryHandler.List)
			// Fixed paths before the :id wildcard.
			inquiries.GET("/stats/summary", inquiryHandler.Stats)
			inquiries.GET("/stats/monthly", inquiryHandler.MonthlyStats)
			inquiries.GET("/:id", inquiryHandler.Get)
			inquiries.PATCH("/:id", inquiryHandler.Update)
			inquiries.DELETE("/:id", inquiryHandler.Delete)
		}
	}

	if cfg.StaticDir != "" {
		registerStatic(r, cfg.StaticDir)
	}

	return r
}

// registerStatic serves the front-end files for every path the API does not
// claim, with index.html at the root.
func registerStatic(r *gin.Engine, dir string) {
	r.NoRoute(func(c *gin.Context) {
		if c.Request.Method != http.MethodGet || strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Not found"})
			return
		}
		path := filepath.Join(dir, filepath.Clean("/"+c.Request.URL.Path))
		c.File(path)
	})
	r.GET("/", func(c *gin.Context) {
		c.File(filepath.Join(dir, "index.html"))
	})
}
