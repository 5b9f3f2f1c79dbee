package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-materiales/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC *usecase.ProductUseCase
	ReportUC  *usecase.ReportUseCase
	// Tokens nil desactiva la autenticación (uso local de un solo puesto).
	Tokens TokenVerifier
}

// Router registra las rutas de la API.
// Las consultas son públicas; las rutas que modifican el inventario requieren Bearer Token si hay secreto.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	auth := passThrough
	role := func(...string) fiber.Handler { return passThrough }
	if deps.Tokens != nil {
		auth = AuthMiddleware(deps.Tokens)
		role = RequireRole
	}

	productHandler := NewProductHandler(deps.ProductUC)
	inventoryHandler := NewInventoryHandler(deps.ProductUC, deps.ReportUC)

	// Products
	products := api.Group("/products")
	products.Get("/", productHandler.List)
	products.Get("/availability", productHandler.Availability)
	products.Get("/:id", productHandler.GetByID)
	products.Post("/", auth, productHandler.Create)
	products.Put("/:id", auth, productHandler.Update)
	products.Delete("/:id", auth, role(RoleAdmin), productHandler.Delete)
	products.Post("/:id/deliver", auth, role(RoleAdmin, RoleBodeguero), inventoryHandler.Deliver)
	products.Post("/:id/withdraw", auth, role(RoleAdmin, RoleBodeguero), inventoryHandler.Withdraw)

	// Inventory
	inv := api.Group("/inventory")
	inv.Post("/refresh", auth, inventoryHandler.Refresh)
	inv.Get("/report.pdf", inventoryHandler.Report)
}
