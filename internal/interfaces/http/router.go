package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/manosunidas/donaciones-api/internal/application/auth"
	"github.com/manosunidas/donaciones-api/internal/application/inventory"
	"github.com/manosunidas/donaciones-api/internal/application/usecase"
	"github.com/manosunidas/donaciones-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	UserUC      *usecase.UserUseCase
	CategoryUC  *usecase.CategoryUseCase
	ProductUC   *usecase.ProductUseCase
	DashboardUC *usecase.DashboardUseCase
	LotUC       *inventory.LotUseCase
	MovementUC  *inventory.MovementUseCase
	KitUC       *inventory.KitUseCase
	DonationUC  *inventory.DonationUseCase
	LabelUC     *inventory.LabelUseCase
	JWTSecret   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/refresh", authHandler.Refresh)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	protected.Post("/auth/logout", authHandler.Logout)

	// Usuarios (solo admin)
	users := protected.Group("/users", RequireRole(entity.RoleAdmin))
	userHandler := NewUserHandler(deps.UserUC)
	users.Get("/", userHandler.List)
	users.Get("/:id", userHandler.GetByID)
	users.Put("/:id/status", userHandler.SetStatus)

	// Categorías
	categories := protected.Group("/categories")
	categoryHandler := NewCategoryHandler(deps.CategoryUC)
	categories.Post("/", categoryHandler.Create)
	categories.Get("/", categoryHandler.List)
	categories.Get("/:id", categoryHandler.GetByID)
	categories.Put("/:id", categoryHandler.Update)
	categories.Delete("/:id", RequireRole(entity.RoleAdmin, entity.RoleCoordinador), categoryHandler.Delete)

	// Productos (catálogo + recetas de kits)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", RequireRole(entity.RoleAdmin, entity.RoleCoordinador), productHandler.Delete)

	// Lotes
	lots := protected.Group("/lots")
	lotHandler := NewLotHandler(deps.LotUC)
	labelHandler := NewLabelHandler(deps.LabelUC)
	movementHandler := NewMovementHandler(deps.MovementUC, deps.KitUC)
	lots.Post("/", lotHandler.Create)
	lots.Get("/", lotHandler.List)
	lots.Get("/with-stock", lotHandler.ListWithStock)
	lots.Get("/near-expiry", lotHandler.ListNearExpiry)
	lots.Get("/:id", lotHandler.GetByID)
	lots.Get("/:id/details", lotHandler.GetDetails)
	lots.Get("/:id/movements", movementHandler.ListByLot)
	lots.Get("/:id/labels", labelHandler.LotLabels)
	lots.Put("/:id", lotHandler.Update)
	lots.Delete("/:id", RequireRole(entity.RoleAdmin, entity.RoleCoordinador), lotHandler.Delete)

	// Movimientos (libro append-only)
	movements := protected.Group("/movements")
	movements.Post("/", movementHandler.Create)
	movements.Post("/product-exit", movementHandler.RegisterProductExit)
	movements.Get("/", movementHandler.List)
	movements.Get("/:id", movementHandler.GetDetails)

	// Kits
	protected.Post("/kits/assemble", movementHandler.AssembleKit)

	// Donaciones (entrada rápida)
	donationHandler := NewDonationHandler(deps.DonationUC)
	protected.Post("/donations/quick-entry", donationHandler.QuickEntry)

	// Etiquetas
	protected.Post("/labels/sheet", labelHandler.Sheet)

	// Dashboard
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	protected.Get("/dashboard", dashboardHandler.Summary)
}
