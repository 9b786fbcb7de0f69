package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stock-service/internal/domain"
	"github.com/jhoicas/stock-service/internal/domain/entity"
	"github.com/jhoicas/stock-service/internal/domain/repository"
)

var _ repository.StockEntryRepository = (*StockEntryRepo)(nil)

const stockEntryColumns = `id, product_id, color, size, quantity, reorder_threshold, created_at, updated_at`

// StockEntryRepo implementación de StockEntryRepository sobre PostgreSQL (usable con pool o tx).
type StockEntryRepo struct {
	q Querier
}

// NewStockEntryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockEntryRepository(q Querier) *StockEntryRepo {
	return &StockEntryRepo{q: q}
}

// Create persiste una nueva entrada de stock.
func (r *StockEntryRepo) Create(ctx context.Context, s *entity.StockEntry) error {
	query := `
		INSERT INTO stock_entries (` + stockEntryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		s.ID, s.ProductID, s.Color, s.Size, s.Quantity, s.ReorderThreshold, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Conflict("insert stock entry", domain.ErrConflict)
		}
		if isCheckViolation(err) {
			return domain.Validation("insert stock entry", "quantity y reorder_threshold deben ser >= 0")
		}
		return fmt.Errorf("insert stock entry: %w", err)
	}
	return nil
}

// GetByID obtiene una entrada por ID; (nil, nil) si no existe.
func (r *StockEntryRepo) GetByID(ctx context.Context, id string) (*entity.StockEntry, error) {
	query := `SELECT ` + stockEntryColumns + ` FROM stock_entries WHERE id = $1`
	s, err := scanStockEntry(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock entry: %w", err)
	}
	return s, nil
}

// GetForUpdate obtiene la entrada y bloquea la fila (SELECT FOR UPDATE). Usar dentro de una tx.
func (r *StockEntryRepo) GetForUpdate(ctx context.Context, id string) (*entity.StockEntry, error) {
	query := `SELECT ` + stockEntryColumns + ` FROM stock_entries WHERE id = $1 FOR UPDATE`
	s, err := scanStockEntry(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock entry for update: %w", err)
	}
	return s, nil
}

// UpdateQuantity reemplaza la cantidad en una sola sentencia y devuelve la fila resultante.
func (r *StockEntryRepo) UpdateQuantity(ctx context.Context, id string, quantity int, at time.Time) (*entity.StockEntry, error) {
	query := `
		UPDATE stock_entries SET quantity = $2, updated_at = $3
		WHERE id = $1
		RETURNING ` + stockEntryColumns
	s, err := scanStockEntry(r.q.QueryRow(ctx, query, id, quantity, at))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		if isCheckViolation(err) {
			return nil, domain.Validation("update stock quantity", "quantity debe ser >= 0")
		}
		return nil, fmt.Errorf("update stock quantity: %w", err)
	}
	return s, nil
}

// List lista entradas en orden de inserción con paginación.
func (r *StockEntryRepo) List(ctx context.Context, limit, offset int) ([]*entity.StockEntry, error) {
	query := `SELECT ` + stockEntryColumns + ` FROM stock_entries ORDER BY seq LIMIT $1 OFFSET $2`
	return r.list(ctx, "list stock entries", query, limit, offset)
}

// ListBelowReorderThreshold entradas con quantity <= reorder_threshold, en orden de inserción.
func (r *StockEntryRepo) ListBelowReorderThreshold(ctx context.Context) ([]*entity.StockEntry, error) {
	query := `
		SELECT ` + stockEntryColumns + ` FROM stock_entries
		WHERE quantity <= reorder_threshold
		ORDER BY seq`
	return r.list(ctx, "list stock below reorder threshold", query)
}

// Delete elimina la entrada; las notificaciones caen por ON DELETE CASCADE.
func (r *StockEntryRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM stock_entries WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete stock entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *StockEntryRepo) list(ctx context.Context, op, query string, args ...any) ([]*entity.StockEntry, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()
	list := []*entity.StockEntry{}
	for rows.Next() {
		s, err := scanStockEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock entry: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

func scanStockEntry(row scanner) (*entity.StockEntry, error) {
	var s entity.StockEntry
	err := row.Scan(&s.ID, &s.ProductID, &s.Color, &s.Size, &s.Quantity, &s.ReorderThreshold, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
