package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/uniquestorebd/unique-store-api/config"
	"github.com/uniquestorebd/unique-store-api/controllers"
	"github.com/uniquestorebd/unique-store-api/middleware"
	"github.com/uniquestorebd/unique-store-api/models"
	"github.com/uniquestorebd/unique-store-api/services"
)

func main() {
	log.Println("Starting Unique Store API server...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	config.SetConfig(cfg)

	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.PushSubscription{},
		&models.Product{},
		&models.Order{},
		&models.OrderItem{},
		&models.Notification{},
	); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed successfully")

	redisClient, err := config.ConnectRedis(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	cartStore := services.NewRedisCartStore(redisClient, time.Duration(cfg.CartTTLHours)*time.Hour)

	s3Service, err := services.NewS3Service(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize S3 client: %v", err)
	}
	imageService := services.NewImageService(s3Service)
	invoiceService := services.NewInvoiceService()

	notificationService := services.NewNotificationService(db, services.NewVAPIDSender(cfg))
	orderService := services.NewOrderService(db, cfg, notificationService)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	go notificationService.Run(ctx)

	router := setupRouter(cfg, db, cartStore, s3Service, imageService, orderService, invoiceService)

	addr := ":" + cfg.Port
	log.Printf("Server is running on http://localhost%s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// setupRouter wires every route group onto a fresh Gin engine.
func setupRouter(
	cfg *config.Config,
	db *gorm.DB,
	cartStore services.CartStore,
	s3 services.S3Interface,
	images services.ImageService,
	orders *services.OrderService,
	invoices *services.InvoiceService,
) *gin.Engine {
	router := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization", controllers.CartIDHeader)
	corsConfig.ExposeHeaders = append(corsConfig.ExposeHeaders, controllers.CartIDHeader)
	router.Use(cors.New(corsConfig))

	authController := controllers.NewAuthController(db, cfg, s3)
	productController := controllers.NewProductController(db, images)
	orderController := controllers.NewOrderController(db, orders, invoices)
	cartController := controllers.NewCartController(cartStore, cfg.CartClampMinQuantity)
	uploadController := controllers.NewUploadController(images)
	adminController := controllers.NewAdminController(db)

	api := router.Group("/api")
	{
		api.GET("/health", healthCheck)
		api.GET("/database/status", databaseStatus(db))

		auth := api.Group("/auth")
		{
			auth.POST("/register", authController.Register)
			auth.POST("/login", authController.Login)
			auth.POST("/logout", authController.Logout)
			auth.POST("/subscriptions", middleware.RequireAuth(cfg.JWTSecret), authController.SaveSubscription)
			auth.GET("/upload-auth", middleware.RequireAuth(cfg.JWTSecret), middleware.RequireAdmin(), authController.UploadAuth)
		}

		products := api.Group("/products")
		{
			products.GET("", productController.ListProducts)
			products.GET("/:id", productController.GetProduct)
			products.GET("/slug/:slug", productController.GetProductBySlug)
			products.POST("", middleware.RequireAuth(cfg.JWTSecret), middleware.RequireAdmin(), productController.CreateProduct)
			products.PUT("/:id", middleware.RequireAuth(cfg.JWTSecret), middleware.RequireAdmin(), productController.UpdateProduct)
			products.DELETE("/:id", middleware.RequireAuth(cfg.JWTSecret), middleware.RequireAdmin(), productController.DeleteProduct)
		}

		ordersGroup := api.Group("/orders")
		{
			ordersGroup.POST("", middleware.OptionalAuth(cfg.JWTSecret), orderController.CreateOrder)
			ordersGroup.GET("/number/:number", orderController.GetOrderByNumber)
			ordersGroup.GET("", middleware.RequireAuth(cfg.JWTSecret), middleware.RequireAdmin(), orderController.ListOrders)
			ordersGroup.GET("/:id", middleware.RequireAuth(cfg.JWTSecret), middleware.RequireAdmin(), orderController.GetOrder)
			ordersGroup.PUT("/:id", middleware.RequireAuth(cfg.JWTSecret), middleware.RequireAdmin(), orderController.UpdateOrder)
			ordersGroup.GET("/:id/invoice", middleware.RequireAuth(cfg.JWTSecret), middleware.RequireAdmin(), orderController.GetInvoice)
		}

		cart := api.Group("/cart")
		{
			cart.GET("", cartController.GetCart)
			cart.DELETE("", cartController.ClearCart)
			cart.POST("/items", cartController.AddItem)
			cart.PUT("/items/:productId", cartController.UpdateItem)
			cart.DELETE("/items/:productId", cartController.RemoveItem)
		}

		api.POST("/uploads", middleware.RequireAuth(cfg.JWTSecret), middleware.RequireAdmin(), uploadController.UploadImage)

		admin := api.Group("/admin", middleware.RequireAuth(cfg.JWTSecret), middleware.RequireAdmin())
		{
			admin.GET("/stats", adminController.GetStats)
		}
	}

	return router
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Unique Store API is running",
	})
}

// databaseStatus checks database connectivity
func databaseStatus(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DATABASE_ERROR",
					"message": "Failed to get database instance",
				},
			})
			return
		}

		if err := sqlDB.Ping(); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DATABASE_CONNECTION_ERROR",
					"message": "Database connection failed",
				},
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Database connected",
		})
	}
}
