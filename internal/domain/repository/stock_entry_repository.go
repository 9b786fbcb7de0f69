package repository

import (
	"context"
	"time"

	"github.com/jhoicas/stock-service/internal/domain/entity"
)

// StockEntryRepository define el puerto de persistencia para StockEntry (DIP).
type StockEntryRepository interface {
	Create(ctx context.Context, stock *entity.StockEntry) error
	// GetByID devuelve (nil, nil) si la entrada no existe.
	GetByID(ctx context.Context, id string) (*entity.StockEntry, error)
	// GetForUpdate como GetByID pero bloquea la fila (SELECT FOR UPDATE) dentro de una tx.
	GetForUpdate(ctx context.Context, id string) (*entity.StockEntry, error)
	// UpdateQuantity reemplaza la cantidad y devuelve la entrada actualizada; domain.ErrNotFound si no existe.
	UpdateQuantity(ctx context.Context, id string, quantity int, at time.Time) (*entity.StockEntry, error)
	List(ctx context.Context, limit, offset int) ([]*entity.StockEntry, error)
	// ListBelowReorderThreshold devuelve las entradas con quantity <= reorder_threshold en orden de inserción.
	ListBelowReorderThreshold(ctx context.Context) ([]*entity.StockEntry, error)
	Delete(ctx context.Context, id string) error
}
