package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/storefront/internal/config"
	"github.com/example/storefront/internal/handlers"
	"github.com/example/storefront/internal/middleware"
	"github.com/example/storefront/internal/models"
	"github.com/example/storefront/internal/services"
)

// Register wires up all HTTP routes.
func Register(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	notifyService := services.NewNotifyService(cfg.TelegramBotToken, cfg.TelegramAdminChat)

	authHandler := handlers.NewAuthHandler(db, cfg)
	productHandler := handlers.NewProductHandler(db)
	categoryHandler := handlers.NewCategoryHandler(db)
	cartHandler := handlers.NewCartHandler(db, cfg)
	wishlistHandler := handlers.NewWishlistHandler(db, cfg)
	orderHandler := handlers.NewOrderHandler(db, cfg, notifyService)
	profileHandler := handlers.NewProfileHandler(db)
	adminHandler := handlers.NewAdminHandler(db, notifyService)

	api := app.Group("/api")

	// Keep-alive ping for clients.
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"success": true, "status": "ok"})
	})

	// Customer auth
	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login(""))
	auth.Post("/logout", authHandler.Logout)
	auth.Get("/me", middleware.RequireSession(cfg), authHandler.Me)
	auth.Post("/refresh", middleware.RequireSession(cfg), authHandler.Refresh)

	// Catalog (wishlist annotation when signed in)
	products := api.Group("/products", middleware.OptionalSession(cfg))
	products.Get("/", productHandler.List)
	products.Get("/:slug", productHandler.Get)

	categories := api.Group("/categories")
	categories.Get("/", categoryHandler.List)
	categories.Get("/:slug", categoryHandler.Get)

	// Cart works for guests and signed-in users alike.
	cart := api.Group("/cart", middleware.OptionalSession(cfg))
	cart.Get("/", cartHandler.Get)
	cart.Post("/items", cartHandler.AddItem)
	cart.Put("/items/:productId", cartHandler.UpdateItem)
	cart.Delete("/items/:productId", cartHandler.RemoveItem)
	cart.Delete("/", cartHandler.Clear)

	// Authenticated customer routes. The guard is attached per concrete
	// group; an empty-prefix group would register it at /api and gate the
	// admin auth surface below.
	requireSession := middleware.RequireSession(cfg)

	wishlist := api.Group("/wishlist", requireSession)
	wishlist.Get("/", wishlistHandler.List)
	wishlist.Post("/toggle", wishlistHandler.Toggle)
	wishlist.Delete("/:productId", wishlistHandler.Remove)
	wishlist.Post("/:productId/move-to-cart", wishlistHandler.MoveToCart)

	orders := api.Group("/orders", requireSession)
	orders.Post("/", orderHandler.Create)
	orders.Get("/", orderHandler.List)
	orders.Get("/:id", orderHandler.Get)

	profile := api.Group("/profile", requireSession)
	profile.Get("/", profileHandler.Get)
	profile.Put("/", profileHandler.Update)
	profile.Put("/password", profileHandler.ChangePassword)
	profile.Get("/addresses", profileHandler.ListAddresses)
	profile.Post("/addresses", profileHandler.CreateAddress)
	profile.Put("/addresses/:id", profileHandler.UpdateAddress)
	profile.Delete("/addresses/:id", profileHandler.DeleteAddress)

	// Admin console
	adminAuth := api.Group("/admin/auth")
	adminAuth.Post("/login", authHandler.Login(models.RoleAdmin))
	adminAuth.Post("/logout", authHandler.Logout)
	adminAuth.Get("/me", middleware.RequireAdmin(cfg), authHandler.Me)
	adminAuth.Post("/refresh", middleware.RequireAdmin(cfg), authHandler.Refresh)

	admin := api.Group("/admin", middleware.RequireAdmin(cfg))
	admin.Get("/stats", adminHandler.DashboardStats)

	admin.Get("/orders", adminHandler.ListOrders)
	admin.Post("/orders/:id/payment/approve", adminHandler.ApprovePayment)
	admin.Post("/orders/:id/payment/reject", adminHandler.RejectPayment)
	admin.Put("/orders/:id/shipping", adminHandler.UpdateShipping)

	admin.Get("/users", adminHandler.ListUsers)
	admin.Post("/users/:id/disable", adminHandler.DisableUser)
	admin.Delete("/users/:id", adminHandler.DeleteUser)

	admin.Post("/products", productHandler.Create)
	admin.Put("/products/:id", productHandler.Update)
	admin.Delete("/products/:id", productHandler.Delete)

	admin.Post("/categories", categoryHandler.Create)
	admin.Put("/categories/:id", categoryHandler.Update)
	admin.Delete("/categories/:id", categoryHandler.Delete)
}
