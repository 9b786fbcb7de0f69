// Package memory implementa los repositorios en memoria (desarrollo y tests).
// Cada repositorio protege su estado con un mutex y devuelve copias, nunca punteros internos.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/stock-service/internal/domain"
	"github.com/jhoicas/stock-service/internal/domain/entity"
	"github.com/jhoicas/stock-service/internal/domain/repository"
)

var _ repository.StockEntryRepository = (*StockEntryRepo)(nil)

// StockEntryRepo guarda las entradas y su orden de inserción.
type StockEntryRepo struct {
	mu    sync.RWMutex
	byID  map[string]*entity.StockEntry
	order []string
}

// NewStockEntryRepository construye el repositorio vacío.
func NewStockEntryRepository() *StockEntryRepo {
	return &StockEntryRepo{byID: make(map[string]*entity.StockEntry)}
}

// Create guarda una copia de la entrada; un ID repetido es conflicto.
func (r *StockEntryRepo) Create(_ context.Context, stock *entity.StockEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[stock.ID]; ok {
		return domain.Conflict("insert stock entry", domain.ErrConflict)
	}
	c := *stock
	r.byID[stock.ID] = &c
	r.order = append(r.order, stock.ID)
	return nil
}

// GetByID obtiene una copia de la entrada; (nil, nil) si no existe.
func (r *StockEntryRepo) GetByID(_ context.Context, id string) (*entity.StockEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	c := *s
	return &c, nil
}

// GetForUpdate en memoria equivale a GetByID; la exclusión la da TxRunner.
func (r *StockEntryRepo) GetForUpdate(ctx context.Context, id string) (*entity.StockEntry, error) {
	return r.GetByID(ctx, id)
}

// UpdateQuantity reemplaza la cantidad y devuelve la entrada resultante.
func (r *StockEntryRepo) UpdateQuantity(_ context.Context, id string, quantity int, at time.Time) (*entity.StockEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	s.Quantity = quantity
	s.UpdatedAt = at
	c := *s
	return &c, nil
}

// List lista entradas en orden de inserción con paginación.
func (r *StockEntryRepo) List(_ context.Context, limit, offset int) ([]*entity.StockEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []*entity.StockEntry{}
	if offset >= len(r.order) {
		return out, nil
	}
	end := len(r.order)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	for _, id := range r.order[offset:end] {
		c := *r.byID[id]
		out = append(out, &c)
	}
	return out, nil
}

// ListBelowReorderThreshold entradas con quantity <= reorder_threshold, en orden de inserción.
func (r *StockEntryRepo) ListBelowReorderThreshold(_ context.Context) ([]*entity.StockEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []*entity.StockEntry{}
	for _, id := range r.order {
		s := r.byID[id]
		if s.NeedsReplenishment() {
			c := *s
			out = append(out, &c)
		}
	}
	return out, nil
}

// Delete elimina la entrada; ErrNotFound si no existe.
func (r *StockEntryRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.byID, id)
	r.order = removeID(r.order, id)
	return nil
}

func (r *StockEntryRepo) exists(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.byID[id]
	return ok
}

func removeID(ids []string, id string) []string {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
