package stock

import (
	"context"
	"time"

	"github.com/jhoicas/stock-service/internal/application/dto"
	"github.com/jhoicas/stock-service/internal/domain/entity"
	"github.com/jhoicas/stock-service/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción, pasando repositorios atados a esa tx.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		stockRepo repository.StockEntryRepository,
		notificationRepo repository.ReplenishmentNotificationRepository,
	) error) error
}

// ReplenishmentPublisher emite los eventos de reposición hacia sistemas externos (Kafka, RabbitMQ, log).
type ReplenishmentPublisher interface {
	PublishReplenishmentRequested(ctx context.Context, event entity.ReplenishmentRequested) error
}

// ReportPDFGenerator genera la representación en PDF del reporte de reposición.
type ReportPDFGenerator interface {
	GenerateReplenishmentReportPDF(ctx context.Context, generatedAt time.Time, items []dto.ReplenishmentSuggestionDTO) ([]byte, error)
}
