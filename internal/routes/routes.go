// Package routes defines the API routing configuration.
// It sets up all HTTP routes and their corresponding handlers,
// including middleware and authentication requirements.
package routes

import (
	"path/filepath"
	"time"

	"farmtoclick/internal/config"
	"farmtoclick/internal/handlers"
	"farmtoclick/internal/middleware"
	"farmtoclick/internal/repositories"
	"farmtoclick/internal/services/auth"
	"farmtoclick/internal/services/cart"
	"farmtoclick/internal/services/catalog"
	"farmtoclick/internal/services/order"
	"farmtoclick/internal/services/scorer"
	"farmtoclick/internal/services/verification"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// SetupRoutes configures all application routes.
// It groups routes by functionality and applies appropriate middleware.
func SetupRoutes(app *fiber.App, db *gorm.DB) {
	// Repositories
	userRepo := repositories.NewUserRepository(db, repositories.CacheService)
	verificationRepo := repositories.NewVerificationRepository(db)
	productRepo := repositories.NewProductRepository(db)
	cartRepo := repositories.NewCartRepository(db)
	orderRepo := repositories.NewOrderRepository(db)

	// Services
	authService := auth.NewService(userRepo)
	scorerTimeout := config.GetDurationEnv("SCORER_TIMEOUT", 20*time.Second)
	scorerClient := scorer.NewClient(config.GetEnv("SCORER_URL", "http://localhost:8500"), scorerTimeout)
	verificationService := verification.NewService(verificationRepo, userRepo, scorerClient, verification.Config{
		ConfidenceFloor: config.GetFloatEnv("VERIFICATION_CONFIDENCE_FLOOR", 0.40),
		ScorerTimeout:   scorerTimeout,
	})
	catalogService := catalog.NewService(productRepo)
	cartService := cart.NewService(cartRepo, productRepo)
	orderService := order.NewService(orderRepo, cartRepo, productRepo)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userRepo)
	verificationHandler := handlers.NewVerificationHandler(verificationService)
	adminHandler := handlers.NewAdminHandler(verificationService)
	productHandler := handlers.NewProductHandler(catalogService, userRepo)
	cartHandler := handlers.NewCartHandler(cartService)
	orderHandler := handlers.NewOrderHandler(orderService)
	geocodeHandler := handlers.NewGeocodeHandler()

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "FarmtoClick API",
			"status":  "running",
		})
	})
	app.Get("/health", handlers.HealthCheck)
	app.Static("/uploads/verifications",
		filepath.Join(config.GetEnv("UPLOAD_DIR", "uploads"), "verifications"))

	api := app.Group("/api")

	// Public endpoints (no auth required)
	api.Post("/register", userHandler.RegisterUser)
	api.Post("/login", authHandler.LoginUser)
	api.Post("/refresh", authHandler.RefreshToken)
	api.Get("/products", productHandler.ListProducts)
	api.Get("/products/:id", productHandler.GetProduct)
	api.Get("/farmers", userHandler.GetFarmers)
	api.Post("/geocode", geocodeHandler.ReverseGeocode)

	// Protected routes
	authMiddleware := middleware.NewAuthMiddleware(authService)
	protected := api.Use(authMiddleware.Handler)

	protected.Post("/logout", authHandler.Logout)
	protected.Post("/change-password", authHandler.ChangePassword)
	protected.Get("/me", authHandler.Me)

	protected.Post("/products", productHandler.CreateProduct)
	protected.Put("/products/:id", productHandler.UpdateProduct)
	protected.Delete("/products/:id", productHandler.DeleteProduct)

	protected.Get("/cart", cartHandler.GetCart)
	protected.Post("/cart/items", cartHandler.AddItem)
	protected.Put("/cart/items/:id", cartHandler.UpdateItem)
	protected.Delete("/cart/items/:id", cartHandler.RemoveItem)

	protected.Post("/orders/checkout", orderHandler.Checkout)
	protected.Get("/orders", orderHandler.ListOrders)
	protected.Get("/farmer/orders", orderHandler.ListFarmerOrders)

	protected.Post("/user/submit-verification", verificationHandler.SubmitVerification)
	protected.Get("/user/verification-status", verificationHandler.GetVerificationStatus)

	// Admin routes: role is re-checked against the database per request.
	admin := protected.Group("/admin", middleware.RequireAdmin(userRepo))
	admin.Get("/verifications", adminHandler.GetVerificationsDashboard)
	admin.Get("/permit-verifications", adminHandler.GetPermitVerifications)
	admin.Get("/permit-verifications/:id", adminHandler.GetPermitVerificationDetail)
	admin.Put("/permit-verifications/:id", adminHandler.UpdatePermitVerification)
}
