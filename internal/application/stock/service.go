package stock

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/stock-service/internal/domain"
	"github.com/jhoicas/stock-service/internal/domain/entity"
	"github.com/jhoicas/stock-service/internal/domain/repository"
	"github.com/jhoicas/stock-service/pkg/logger"
)

// Options ajustes de comportamiento del servicio.
type Options struct {
	// CheckOnCreate ejecuta CheckReorderThreshold justo después de CreateStock.
	CheckOnCreate bool
}

// CreateStockInput datos para crear una entrada de stock.
type CreateStockInput struct {
	ProductID        string
	Color            string
	Size             string
	Quantity         int
	ReorderThreshold int
}

// Service mantiene el estado de las entradas de stock y deriva de él las notificaciones de reposición.
// No guarda estado entre llamadas: cada operación relee desde los repositorios.
type Service struct {
	stockRepo        repository.StockEntryRepository
	notificationRepo repository.ReplenishmentNotificationRepository
	txRunner         TxRunner
	publisher        ReplenishmentPublisher
	log              *logger.Logger
	opts             Options
}

// NewService construye el servicio inyectando sus dependencias.
func NewService(
	stockRepo repository.StockEntryRepository,
	notificationRepo repository.ReplenishmentNotificationRepository,
	txRunner TxRunner,
	publisher ReplenishmentPublisher,
	log *logger.Logger,
	opts Options,
) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		stockRepo:        stockRepo,
		notificationRepo: notificationRepo,
		txRunner:         txRunner,
		publisher:        publisher,
		log:              log.Component("stock"),
		opts:             opts,
	}
}

// CreateStock crea una entrada nueva y la devuelve con su ID generado.
func (s *Service) CreateStock(ctx context.Context, in CreateStockInput) (*entity.StockEntry, error) {
	const op = "create stock"
	if strings.TrimSpace(in.ProductID) == "" {
		return nil, domain.Validation(op, "product_id es requerido")
	}
	if in.Quantity < 0 {
		return nil, domain.Validation(op, "quantity debe ser >= 0, recibido %d", in.Quantity)
	}
	if in.ReorderThreshold < 0 {
		return nil, domain.Validation(op, "reorder_threshold debe ser >= 0, recibido %d", in.ReorderThreshold)
	}

	now := time.Now().UTC()
	entry := &entity.StockEntry{
		ID:               uuid.New().String(),
		ProductID:        strings.TrimSpace(in.ProductID),
		Color:            in.Color,
		Size:             in.Size,
		Quantity:         in.Quantity,
		ReorderThreshold: in.ReorderThreshold,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.stockRepo.Create(ctx, entry); err != nil {
		return nil, domain.Internal(op, err)
	}

	// La entrada ya quedó guardada: un fallo de la verificación solo se registra.
	if s.opts.CheckOnCreate {
		if err := s.CheckReorderThreshold(ctx, entry.ID); err != nil {
			s.log.Warn().Err(err).
				Str("stock_id", entry.ID).
				Msg("verificación de umbral tras crear la entrada fallida")
		}
	}
	return entry, nil
}

// UpdateStockEntry reemplaza (no incrementa) la cantidad de la entrada y persiste el cambio.
// No evalúa el umbral: el llamador invoca CheckReorderThreshold a continuación.
func (s *Service) UpdateStockEntry(ctx context.Context, stockID string, quantity int) (*entity.StockEntry, error) {
	const op = "update stock entry"
	if stockID == "" {
		return nil, domain.Validation(op, "stock_id es requerido")
	}
	if quantity < 0 {
		return nil, domain.Validation(op, "quantity debe ser >= 0, recibido %d", quantity)
	}
	entry, err := s.stockRepo.UpdateQuantity(ctx, stockID, quantity, time.Now().UTC())
	if err != nil {
		if domain.KindOf(err) == domain.KindNotFound {
			return nil, domain.NotFound(op, "entrada de stock "+stockID)
		}
		return nil, domain.Internal(op, err)
	}
	return entry, nil
}

// AdjustStockEntry aplica un movimiento relativo (delta) bloqueando la fila.
// Un resultado negativo se rechaza con ErrInsufficientStock (KindConflict).
func (s *Service) AdjustStockEntry(ctx context.Context, stockID string, delta int) (*entity.StockEntry, error) {
	const op = "adjust stock entry"
	if stockID == "" {
		return nil, domain.Validation(op, "stock_id es requerido")
	}
	if delta == 0 {
		return nil, domain.Validation(op, "delta no puede ser 0")
	}

	var updated *entity.StockEntry
	err := s.txRunner.Run(ctx, func(
		stockRepo repository.StockEntryRepository,
		_ repository.ReplenishmentNotificationRepository,
	) error {
		current, err := stockRepo.GetForUpdate(ctx, stockID)
		if err != nil {
			return domain.Internal(op, err)
		}
		if current == nil {
			return domain.NotFound(op, "entrada de stock "+stockID)
		}
		next := current.Quantity + delta
		if next < 0 {
			return domain.Conflict(op, domain.ErrInsufficientStock)
		}
		updated, err = stockRepo.UpdateQuantity(ctx, stockID, next, time.Now().UTC())
		if err != nil {
			return domain.Internal(op, err)
		}
		return nil
	})
	if err != nil {
		return nil, domain.Internal(op, err)
	}
	return updated, nil
}

// CheckReorderThreshold relee la entrada y, si quantity <= reorder_threshold, garantiza que exista
// exactamente una notificación OPEN. Es idempotente: llamarla de nuevo no crea duplicados.
func (s *Service) CheckReorderThreshold(ctx context.Context, stockID string) error {
	const op = "check reorder threshold"
	entry, err := s.stockRepo.GetByID(ctx, stockID)
	if err != nil {
		return domain.Internal(op, err)
	}
	if entry == nil {
		return domain.NotFound(op, "entrada de stock "+stockID)
	}
	if !entry.NeedsReplenishment() {
		return nil
	}

	n := &entity.ReplenishmentNotification{
		ID:               uuid.New().String(),
		StockID:          entry.ID,
		Status:           entity.NotificationOpen,
		Quantity:         entry.Quantity,
		ReorderThreshold: entry.ReorderThreshold,
		CreatedAt:        time.Now().UTC(),
	}
	created, err := s.notificationRepo.CreateIfNoneOpen(ctx, n)
	if err != nil {
		return domain.Internal(op, err)
	}
	if !created {
		return nil
	}

	s.log.Info().
		Str("stock_id", entry.ID).
		Str("notification_id", n.ID).
		Int("quantity", entry.Quantity).
		Int("reorder_threshold", entry.ReorderThreshold).
		Msg("notificación de reposición creada")

	// La notificación ya es el registro de verdad; un fallo al publicar solo se registra.
	if s.publisher != nil {
		if err := s.publisher.PublishReplenishmentRequested(ctx, entity.NewReplenishmentRequested(entry, n)); err != nil {
			s.log.Warn().Err(err).
				Str("notification_id", n.ID).
				Msg("no se pudo publicar el evento de reposición")
		}
	}
	return nil
}

// ListStockEntriesBelowReorderThreshold devuelve las entradas con quantity <= reorder_threshold
// en orden de inserción.
func (s *Service) ListStockEntriesBelowReorderThreshold(ctx context.Context) ([]*entity.StockEntry, error) {
	list, err := s.stockRepo.ListBelowReorderThreshold(ctx)
	if err != nil {
		return nil, domain.Internal("list below reorder threshold", err)
	}
	if list == nil {
		list = []*entity.StockEntry{}
	}
	return list, nil
}

// ListStockEntries lista paginada de entradas en orden de inserción.
func (s *Service) ListStockEntries(ctx context.Context, limit, offset int) ([]*entity.StockEntry, error) {
	limit, offset = NormalizePage(limit, offset)
	list, err := s.stockRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, domain.Internal("list stock entries", err)
	}
	if list == nil {
		list = []*entity.StockEntry{}
	}
	return list, nil
}

// NormalizePage aplica los límites de paginación: limit en [1, 100] (20 por defecto), offset >= 0.
func NormalizePage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// GetAllReplenishmentNotifications devuelve todas las notificaciones del stock, más reciente primero.
func (s *Service) GetAllReplenishmentNotifications(ctx context.Context, stockID string) ([]*entity.ReplenishmentNotification, error) {
	list, err := s.notificationRepo.ListByStock(ctx, stockID)
	if err != nil {
		return nil, domain.Internal("list replenishment notifications", err)
	}
	if list == nil {
		list = []*entity.ReplenishmentNotification{}
	}
	return list, nil
}

// DeleteReplenishmentNotification descarta (DISMISSED) la notificación y la devuelve.
func (s *Service) DeleteReplenishmentNotification(ctx context.Context, notificationID string) (*entity.ReplenishmentNotification, error) {
	const op = "delete replenishment notification"
	n, err := s.notificationRepo.Dismiss(ctx, notificationID, time.Now().UTC())
	if err != nil {
		if domain.KindOf(err) == domain.KindNotFound {
			return nil, domain.NotFound(op, "notificación "+notificationID)
		}
		return nil, domain.Internal(op, err)
	}
	return n, nil
}

// GetStockEntryDetails devuelve la entrada o (nil, nil) si no existe.
func (s *Service) GetStockEntryDetails(ctx context.Context, stockID string) (*entity.StockEntry, error) {
	entry, err := s.stockRepo.GetByID(ctx, stockID)
	if err != nil {
		return nil, domain.Internal("get stock entry", err)
	}
	return entry, nil
}

// GetReplenishmentState devuelve el estado de reposición actual de la entrada.
func (s *Service) GetReplenishmentState(ctx context.Context, stockID string) (entity.ReplenishmentState, error) {
	const op = "get replenishment state"
	entry, err := s.stockRepo.GetByID(ctx, stockID)
	if err != nil {
		return "", domain.Internal(op, err)
	}
	if entry == nil {
		return "", domain.NotFound(op, "entrada de stock "+stockID)
	}
	open, err := s.notificationRepo.GetOpenByStock(ctx, stockID)
	if err != nil {
		return "", domain.Internal(op, err)
	}
	return entry.ReplenishmentState(open != nil), nil
}

// DeleteStockEntry elimina la entrada junto con sus notificaciones (en la misma transacción).
func (s *Service) DeleteStockEntry(ctx context.Context, stockID string) error {
	const op = "delete stock entry"
	var removed int
	err := s.txRunner.Run(ctx, func(
		stockRepo repository.StockEntryRepository,
		notificationRepo repository.ReplenishmentNotificationRepository,
	) error {
		current, err := stockRepo.GetForUpdate(ctx, stockID)
		if err != nil {
			return domain.Internal(op, err)
		}
		if current == nil {
			return domain.NotFound(op, "entrada de stock "+stockID)
		}
		notifications, err := notificationRepo.ListByStock(ctx, stockID)
		if err != nil {
			return domain.Internal(op, err)
		}
		removed = len(notifications)
		// La entrada antes que sus notificaciones: CreateIfNoneOpen rechaza stocks inexistentes.
		if err := stockRepo.Delete(ctx, stockID); err != nil {
			return domain.Internal(op, err)
		}
		if _, err := notificationRepo.DeleteByStock(ctx, stockID); err != nil {
			return domain.Internal(op, err)
		}
		return nil
	})
	if err != nil {
		return domain.Internal(op, err)
	}
	s.log.Info().Str("stock_id", stockID).Int("notifications_removed", removed).Msg("entrada de stock eliminada")
	return nil
}
