package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-service/internal/application/dto"
	"github.com/jhoicas/stock-service/internal/domain"
)

// errorMapper traduce errores de dominio a respuestas HTTP.
// Con strict=false todo error sale como 500 (contrato histórico de la API).
type errorMapper struct {
	strict bool
}

func (m errorMapper) status(err error) int {
	if !m.strict {
		return fiber.StatusInternalServerError
	}
	switch domain.KindOf(err) {
	case domain.KindValidation:
		return fiber.StatusBadRequest
	case domain.KindNotFound:
		return fiber.StatusNotFound
	case domain.KindConflict:
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

func (m errorMapper) fail(c *fiber.Ctx, err error) error {
	return c.Status(m.status(err)).JSON(dto.ErrorResponse{
		Code:    domain.KindOf(err).String(),
		Message: err.Error(),
	})
}
