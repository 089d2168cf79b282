package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Taller-api/internal/application/inventory"
	"github.com/jhoicas/Taller-api/pkg/jwt"
	"github.com/jhoicas/Taller-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ReceivePurchase *inventory.ReceivePurchaseUseCase
	CreateSale      *inventory.CreateSaleUseCase
	AdjustStock     *inventory.AdjustStockUseCase
	Query           *inventory.QueryUseCase
	Reconciliation  *inventory.ReconciliationUseCase
	Replenishment   *inventory.ReplenishmentUseCase
	JWTSecret       string
	Log             *logger.Logger
}

// Roles por mostrador: bodega recibe y ajusta, mostrador vende.
var (
	WarehouseRoles = []string{jwt.RoleAdmin, jwt.RoleBodeguero}
	CounterRoles   = []string{jwt.RoleAdmin, jwt.RoleVendedor}
)

// Router registra las rutas de la API. Todas requieren Bearer Token.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	log = log.Component("http")

	protected := app.Group("/api", AuthMiddleware(deps.JWTSecret))
	warehouse := RequireRole(WarehouseRoles...)
	counter := RequireRole(CounterRoles...)

	// Compras
	purchaseHandler := NewPurchaseHandler(deps.ReceivePurchase, log)
	protected.Post("/purchases/receipts", warehouse, purchaseHandler.Receive)

	// Ventas
	saleHandler := NewSaleHandler(deps.CreateSale, deps.Query, log)
	protected.Post("/sales", counter, saleHandler.Create)
	protected.Get("/sales/:id", saleHandler.GetByID)

	// Stock: ajustes, alertas y reposición
	inventoryHandler := NewInventoryHandler(deps.AdjustStock, deps.Query, deps.Replenishment, log)
	stock := protected.Group("/stock")
	stock.Post("/adjustments", warehouse, inventoryHandler.Adjust)
	stock.Get("/alerts", inventoryHandler.ListAlerts)
	stock.Post("/alerts/:part_id/read", inventoryHandler.MarkAlertRead)
	stock.Post("/alerts/:part_id/reconcile", inventoryHandler.ReconcileAlert)
	stock.Get("/replenishment", inventoryHandler.GetReplenishmentList)

	// Repuestos
	partHandler := NewPartHandler(deps.Query, deps.Reconciliation, log)
	parts := protected.Group("/parts")
	parts.Get("/:id/movements", partHandler.Movements)
	parts.Get("/:id/batches", partHandler.Batches)
	parts.Get("/:id/reconciliation", partHandler.Reconciliation)
}
