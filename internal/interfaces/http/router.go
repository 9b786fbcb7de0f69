package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-service/internal/application/stock"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Stock        *stock.Service
	Report       *stock.ReplenishmentReportUseCase
	StrictErrors bool
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	stocks := api.Group("/stocks")
	h := NewStockHandler(deps.Stock, deps.Report, deps.StrictErrors)

	stocks.Post("/", h.Create)
	stocks.Put("/", h.Update)
	stocks.Get("/", h.List)

	// Rutas estáticas antes de /:stockId
	stocks.Get("/below-threshold", h.ListBelowThreshold)
	stocks.Get("/replenishment-report", h.ReplenishmentReport)
	stocks.Get("/replenishment-report/pdf", h.ReplenishmentReportPDF)
	stocks.Delete("/notifications/:notificationId", h.DeleteNotification)

	stocks.Get("/:stockId", h.GetByID)
	stocks.Delete("/:stockId", h.Delete)
	stocks.Get("/:stockId/notifications", h.ListNotifications)
	stocks.Post("/:stockId/check", h.Check)
	stocks.Post("/:stockId/adjustments", h.Adjust)
	stocks.Get("/:stockId/replenishment-state", h.ReplenishmentState)
}
