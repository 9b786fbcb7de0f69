package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-service/internal/application/dto"
	"github.com/jhoicas/stock-service/internal/application/stock"
	"github.com/jhoicas/stock-service/internal/domain"
)

// StockHandler maneja las peticiones HTTP de entradas de stock y notificaciones de reposición.
type StockHandler struct {
	svc    *stock.Service
	report *stock.ReplenishmentReportUseCase
	errs   errorMapper
}

// NewStockHandler construye el handler. strictErrors activa el mapeo de errores por tipo.
func NewStockHandler(svc *stock.Service, report *stock.ReplenishmentReportUseCase, strictErrors bool) *StockHandler {
	return &StockHandler{svc: svc, report: report, errs: errorMapper{strict: strictErrors}}
}

// Create POST /api/stocks
func (h *StockHandler) Create(c *fiber.Ctx) error {
	const op = "create stock"
	var in dto.CreateStockRequest
	if err := c.BodyParser(&in); err != nil {
		return h.errs.fail(c, domain.Validation(op, "cuerpo inválido"))
	}
	if in.Quantity == nil {
		return h.errs.fail(c, domain.Validation(op, "quantity es requerido"))
	}
	threshold := in.Threshold()
	if threshold == nil {
		return h.errs.fail(c, domain.Validation(op, "reorderThreshold es requerido"))
	}
	entry, err := h.svc.CreateStock(c.Context(), stock.CreateStockInput{
		ProductID:        in.Product(),
		Color:            in.Color,
		Size:             in.Size,
		Quantity:         *in.Quantity,
		ReorderThreshold: *threshold,
	})
	if err != nil {
		return h.errs.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToStockEntryResponse(entry))
}

// Update PUT /api/stocks. Reemplaza la cantidad y a continuación verifica el umbral.
func (h *StockHandler) Update(c *fiber.Ctx) error {
	const op = "update stock entry"
	var in dto.UpdateStockRequest
	if err := c.BodyParser(&in); err != nil {
		return h.errs.fail(c, domain.Validation(op, "cuerpo inválido"))
	}
	if in.Quantity == nil {
		return h.errs.fail(c, domain.Validation(op, "quantity es requerido"))
	}
	entry, err := h.svc.UpdateStockEntry(c.Context(), in.Stock(), *in.Quantity)
	if err != nil {
		return h.errs.fail(c, err)
	}
	if err := h.svc.CheckReorderThreshold(c.Context(), entry.ID); err != nil {
		return h.errs.fail(c, err)
	}
	return c.JSON(dto.ToStockEntryResponse(entry))
}

// List GET /api/stocks?limit=&offset=
func (h *StockHandler) List(c *fiber.Ctx) error {
	limit, offset := stock.NormalizePage(c.QueryInt("limit", 20), c.QueryInt("offset", 0))
	list, err := h.svc.ListStockEntries(c.Context(), limit, offset)
	if err != nil {
		return h.errs.fail(c, err)
	}
	return c.JSON(dto.StockEntryListResponse{
		Items: dto.ToStockEntryResponses(list),
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	})
}

// ListBelowThreshold GET /api/stocks/below-threshold
func (h *StockHandler) ListBelowThreshold(c *fiber.Ctx) error {
	list, err := h.svc.ListStockEntriesBelowReorderThreshold(c.Context())
	if err != nil {
		return h.errs.fail(c, err)
	}
	return c.JSON(dto.ToStockEntryResponses(list))
}

// GetByID GET /api/stocks/:stockId. Una entrada inexistente es 404 aunque strictErrors esté apagado.
func (h *StockHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("stockId")
	entry, err := h.svc.GetStockEntryDetails(c.Context(), id)
	if err != nil {
		return h.errs.fail(c, err)
	}
	if entry == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Code:    domain.KindNotFound.String(),
			Message: "entrada de stock no encontrada",
		})
	}
	return c.JSON(dto.ToStockEntryResponse(entry))
}

// Delete DELETE /api/stocks/:stockId
func (h *StockHandler) Delete(c *fiber.Ctx) error {
	if err := h.svc.DeleteStockEntry(c.Context(), c.Params("stockId")); err != nil {
		return h.errs.fail(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "entrada de stock eliminada"})
}

// ListNotifications GET /api/stocks/:stockId/notifications
func (h *StockHandler) ListNotifications(c *fiber.Ctx) error {
	list, err := h.svc.GetAllReplenishmentNotifications(c.Context(), c.Params("stockId"))
	if err != nil {
		return h.errs.fail(c, err)
	}
	return c.JSON(dto.ToNotificationResponses(list))
}

// DeleteNotification DELETE /api/stocks/notifications/:notificationId. Descarta la notificación.
func (h *StockHandler) DeleteNotification(c *fiber.Ctx) error {
	n, err := h.svc.DeleteReplenishmentNotification(c.Context(), c.Params("notificationId"))
	if err != nil {
		return h.errs.fail(c, err)
	}
	return c.JSON(dto.DeleteNotificationResponse{
		Message: "notificación de reposición descartada",
		Result:  dto.ToNotificationResponse(n),
	})
}

// Check POST /api/stocks/:stockId/check
func (h *StockHandler) Check(c *fiber.Ctx) error {
	id := c.Params("stockId")
	if err := h.svc.CheckReorderThreshold(c.Context(), id); err != nil {
		return h.errs.fail(c, err)
	}
	state, err := h.svc.GetReplenishmentState(c.Context(), id)
	if err != nil {
		return h.errs.fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "umbral verificado", "state": state})
}

// Adjust POST /api/stocks/:stockId/adjustments
func (h *StockHandler) Adjust(c *fiber.Ctx) error {
	var in dto.AdjustStockRequest
	if err := c.BodyParser(&in); err != nil {
		return h.errs.fail(c, domain.Validation("adjust stock entry", "cuerpo inválido"))
	}
	entry, err := h.svc.AdjustStockEntry(c.Context(), c.Params("stockId"), in.Delta)
	if err != nil {
		return h.errs.fail(c, err)
	}
	if err := h.svc.CheckReorderThreshold(c.Context(), entry.ID); err != nil {
		return h.errs.fail(c, err)
	}
	return c.JSON(dto.ToStockEntryResponse(entry))
}

// ReplenishmentState GET /api/stocks/:stockId/replenishment-state
func (h *StockHandler) ReplenishmentState(c *fiber.Ctx) error {
	id := c.Params("stockId")
	state, err := h.svc.GetReplenishmentState(c.Context(), id)
	if err != nil {
		return h.errs.fail(c, err)
	}
	return c.JSON(dto.ReplenishmentStateResponse{StockID: id, State: string(state)})
}

// ReplenishmentReport GET /api/stocks/replenishment-report
func (h *StockHandler) ReplenishmentReport(c *fiber.Ctx) error {
	list, err := h.report.GenerateReport(c.Context())
	if err != nil {
		return h.errs.fail(c, err)
	}
	return c.JSON(dto.ReplenishmentReportResponse{Total: len(list), Replenishments: list})
}

// ReplenishmentReportPDF GET /api/stocks/replenishment-report/pdf
func (h *StockHandler) ReplenishmentReportPDF(c *fiber.Ctx) error {
	pdfBytes, filename, err := h.report.GenerateReportPDF(c.Context())
	if err != nil {
		return h.errs.fail(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(pdfBytes)
}
