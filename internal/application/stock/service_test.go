package stock_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-service/internal/application/stock"
	"github.com/jhoicas/stock-service/internal/domain"
	"github.com/jhoicas/stock-service/internal/domain/entity"
	"github.com/jhoicas/stock-service/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

// recordingPublisher guarda los eventos publicados; si err != nil lo devuelve.
type recordingPublisher struct {
	mu     sync.Mutex
	events []entity.ReplenishmentRequested
	err    error
}

func (p *recordingPublisher) PublishReplenishmentRequested(_ context.Context, ev entity.ReplenishmentRequested) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.events)
}

// failingNotifications falla al crear notificaciones; el resto delega en el repositorio en memoria.
type failingNotifications struct {
	*memory.NotificationRepo
	err error
}

func (f failingNotifications) CreateIfNoneOpen(context.Context, *entity.ReplenishmentNotification) (bool, error) {
	return false, f.err
}

func newTestService(t *testing.T, opts stock.Options) (*stock.Service, *recordingPublisher) {
	t.Helper()
	stocks := memory.NewStockEntryRepository()
	notifications := memory.NewNotificationRepository(stocks)
	pub := &recordingPublisher{}
	svc := stock.NewService(stocks, notifications, memory.NewTxRunner(stocks, notifications), pub, nil, opts)
	return svc, pub
}

func mustCreate(t *testing.T, svc *stock.Service, qty, threshold int) *entity.StockEntry {
	t.Helper()
	e, err := svc.CreateStock(context.Background(), stock.CreateStockInput{
		ProductID: "1", Color: "red", Size: "M", Quantity: qty, ReorderThreshold: threshold,
	})
	require.NoError(t, err)
	return e
}

func openCount(list []*entity.ReplenishmentNotification) int {
	n := 0
	for _, x := range list {
		if x.IsOpen() {
			n++
		}
	}
	return n
}

// ──────────────────────────────────────────────────────────────────────────────
// CreateStock
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateStock_DevuelveEntradaConIDUnico(t *testing.T) {
	svc, _ := newTestService(t, stock.Options{})
	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		e := mustCreate(t, svc, i, 5)
		assert.Equal(t, i, e.Quantity)
		assert.Equal(t, 5, e.ReorderThreshold)
		assert.False(t, seen[e.ID], "id repetido %s", e.ID)
		seen[e.ID] = true
	}
}

func TestCreateStock_Validacion(t *testing.T) {
	svc, _ := newTestService(t, stock.Options{})
	ctx := context.Background()

	tests := []struct {
		name string
		in   stock.CreateStockInput
	}{
		{"sin producto", stock.CreateStockInput{ProductID: "  ", Quantity: 1}},
		{"cantidad negativa", stock.CreateStockInput{ProductID: "1", Quantity: -1}},
		{"umbral negativo", stock.CreateStockInput{ProductID: "1", ReorderThreshold: -3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateStock(ctx, tt.in)
			require.Error(t, err)
			assert.Equal(t, domain.KindValidation, domain.KindOf(err))
		})
	}
}

func TestCreateStock_SinVerificacionNoNotifica(t *testing.T) {
	svc, pub := newTestService(t, stock.Options{})
	e := mustCreate(t, svc, 2, 5)

	list, err := svc.GetAllReplenishmentNotifications(context.Background(), e.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Zero(t, pub.count())

	state, err := svc.GetReplenishmentState(context.Background(), e.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StateBelowThresholdNoNotice, state)
}

func TestCreateStock_ConVerificacionNotifica(t *testing.T) {
	svc, pub := newTestService(t, stock.Options{CheckOnCreate: true})
	e := mustCreate(t, svc, 2, 5)

	list, err := svc.GetAllReplenishmentNotifications(context.Background(), e.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, openCount(list))
	assert.Equal(t, 1, pub.count())
}

func TestCreateStock_FalloDeVerificacionDevuelveLaEntrada(t *testing.T) {
	ctx := context.Background()
	stocks := memory.NewStockEntryRepository()
	notifications := failingNotifications{NotificationRepo: memory.NewNotificationRepository(stocks), err: errors.New("db down")}
	svc := stock.NewService(stocks, notifications, memory.NewTxRunner(stocks, notifications.NotificationRepo), nil, nil,
		stock.Options{CheckOnCreate: true})

	e, err := svc.CreateStock(ctx, stock.CreateStockInput{ProductID: "1", Quantity: 2, ReorderThreshold: 5})
	require.NoError(t, err)
	require.NotNil(t, e)

	got, err := svc.GetStockEntryDetails(ctx, e.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 2, got.Quantity)

	all, err := svc.ListStockEntries(ctx, 0, 0)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

// ──────────────────────────────────────────────────────────────────────────────
// UpdateStockEntry / AdjustStockEntry
// ──────────────────────────────────────────────────────────────────────────────

func TestUpdateStockEntry_CantidadNegativaNoModifica(t *testing.T) {
	svc, _ := newTestService(t, stock.Options{})
	ctx := context.Background()
	e := mustCreate(t, svc, 10, 5)

	_, err := svc.UpdateStockEntry(ctx, e.ID, -1)
	require.Error(t, err)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))

	got, err := svc.GetStockEntryDetails(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, got.Quantity)
}

func TestUpdateStockEntry_ReemplazaCantidad(t *testing.T) {
	svc, _ := newTestService(t, stock.Options{})
	e := mustCreate(t, svc, 10, 5)

	got, err := svc.UpdateStockEntry(context.Background(), e.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Quantity)
	assert.False(t, got.UpdatedAt.Before(e.UpdatedAt))
}

func TestUpdateStockEntry_Inexistente(t *testing.T) {
	svc, _ := newTestService(t, stock.Options{})
	_, err := svc.UpdateStockEntry(context.Background(), "no-existe", 3)
	require.Error(t, err)
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
}

func TestAdjustStockEntry(t *testing.T) {
	svc, _ := newTestService(t, stock.Options{})
	ctx := context.Background()
	e := mustCreate(t, svc, 10, 5)

	got, err := svc.AdjustStockEntry(ctx, e.ID, -4)
	require.NoError(t, err)
	assert.Equal(t, 6, got.Quantity)

	_, err = svc.AdjustStockEntry(ctx, e.ID, -7)
	require.Error(t, err)
	assert.Equal(t, domain.KindConflict, domain.KindOf(err))
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	_, err = svc.AdjustStockEntry(ctx, e.ID, 0)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))

	_, err = svc.AdjustStockEntry(ctx, "no-existe", 1)
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))

	cur, err := svc.GetStockEntryDetails(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, 6, cur.Quantity)
}

// ──────────────────────────────────────────────────────────────────────────────
// CheckReorderThreshold
// ──────────────────────────────────────────────────────────────────────────────

func TestCheckReorderThreshold_Idempotente(t *testing.T) {
	for _, calls := range []int{1, 2, 10} {
		svc, pub := newTestService(t, stock.Options{})
		ctx := context.Background()
		e := mustCreate(t, svc, 10, 5)
		_, err := svc.UpdateStockEntry(ctx, e.ID, 5)
		require.NoError(t, err)

		for i := 0; i < calls; i++ {
			require.NoError(t, svc.CheckReorderThreshold(ctx, e.ID))
		}

		list, err := svc.GetAllReplenishmentNotifications(ctx, e.ID)
		require.NoError(t, err)
		assert.Len(t, list, 1, "llamadas=%d", calls)
		assert.Equal(t, 1, openCount(list))
		assert.Equal(t, 1, pub.count())
	}
}

func TestCheckReorderThreshold_Concurrente(t *testing.T) {
	svc, pub := newTestService(t, stock.Options{})
	ctx := context.Background()
	e := mustCreate(t, svc, 1, 5)

	var wg sync.WaitGroup
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, svc.CheckReorderThreshold(ctx, e.ID))
		}()
	}
	wg.Wait()

	list, err := svc.GetAllReplenishmentNotifications(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, openCount(list))
	assert.Equal(t, 1, pub.count())
}

func TestCheckReorderThreshold_SobreUmbralNoNotifica(t *testing.T) {
	svc, pub := newTestService(t, stock.Options{})
	e := mustCreate(t, svc, 6, 5)

	require.NoError(t, svc.CheckReorderThreshold(context.Background(), e.ID))
	list, err := svc.GetAllReplenishmentNotifications(context.Background(), e.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Zero(t, pub.count())
}

func TestCheckReorderThreshold_Inexistente(t *testing.T) {
	svc, _ := newTestService(t, stock.Options{})
	err := svc.CheckReorderThreshold(context.Background(), "no-existe")
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
}

func TestCheckReorderThreshold_FalloAlPublicarNoEsError(t *testing.T) {
	svc, pub := newTestService(t, stock.Options{})
	pub.err = errors.New("broker caído")
	e := mustCreate(t, svc, 0, 5)

	require.NoError(t, svc.CheckReorderThreshold(context.Background(), e.ID))

	list, err := svc.GetAllReplenishmentNotifications(context.Background(), e.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, openCount(list))
}

func TestCheckReorderThreshold_EventoPublicado(t *testing.T) {
	svc, pub := newTestService(t, stock.Options{})
	e := mustCreate(t, svc, 3, 5)
	require.NoError(t, svc.CheckReorderThreshold(context.Background(), e.ID))

	require.Equal(t, 1, pub.count())
	ev := pub.events[0]
	assert.Equal(t, entity.EventReplenishmentRequested, ev.EventType)
	assert.Equal(t, e.ID, ev.StockID)
	assert.Equal(t, 3, ev.Quantity)
	assert.Equal(t, 5, ev.ReorderThreshold)
	assert.NotEmpty(t, ev.NotificationID)
}

// ──────────────────────────────────────────────────────────────────────────────
// Consultas
// ──────────────────────────────────────────────────────────────────────────────

func TestListStockEntriesBelowReorderThreshold_ConjuntoExacto(t *testing.T) {
	svc, _ := newTestService(t, stock.Options{})
	ctx := context.Background()

	below := mustCreate(t, svc, 2, 5)
	equal := mustCreate(t, svc, 5, 5)
	mustCreate(t, svc, 6, 5)
	zero := mustCreate(t, svc, 0, 0)

	list, err := svc.ListStockEntriesBelowReorderThreshold(ctx)
	require.NoError(t, err)

	var got []string
	for _, e := range list {
		got = append(got, e.ID)
	}
	assert.Equal(t, []string{below.ID, equal.ID, zero.ID}, got)
}

func TestListStockEntriesBelowReorderThreshold_VacioNoEsNil(t *testing.T) {
	svc, _ := newTestService(t, stock.Options{})
	list, err := svc.ListStockEntriesBelowReorderThreshold(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestListStockEntries_Paginacion(t *testing.T) {
	svc, _ := newTestService(t, stock.Options{})
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		mustCreate(t, svc, i, 1)
	}

	page, err := svc.ListStockEntries(ctx, 2, 1)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, 1, page[0].Quantity)
	assert.Equal(t, 2, page[1].Quantity)

	all, err := svc.ListStockEntries(ctx, 0, -5)
	require.NoError(t, err)
	assert.Len(t, all, 5)
}

func TestGetStockEntryDetails_InexistenteEsAusente(t *testing.T) {
	svc, _ := newTestService(t, stock.Options{})
	got, err := svc.GetStockEntryDetails(context.Background(), "no-existe")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestGetAllReplenishmentNotifications_StockDesconocido(t *testing.T) {
	svc, _ := newTestService(t, stock.Options{})
	list, err := svc.GetAllReplenishmentNotifications(context.Background(), "no-existe")
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

// ──────────────────────────────────────────────────────────────────────────────
// Notificaciones y estado
// ──────────────────────────────────────────────────────────────────────────────

func TestDeleteReplenishmentNotification(t *testing.T) {
	svc, _ := newTestService(t, stock.Options{})
	ctx := context.Background()
	e := mustCreate(t, svc, 1, 5)
	require.NoError(t, svc.CheckReorderThreshold(ctx, e.ID))

	list, err := svc.GetAllReplenishmentNotifications(ctx, e.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)

	dismissed, err := svc.DeleteReplenishmentNotification(ctx, list[0].ID)
	require.NoError(t, err)
	assert.Equal(t, entity.NotificationDismissed, dismissed.Status)
	require.NotNil(t, dismissed.DismissedAt)

	after, err := svc.GetAllReplenishmentNotifications(ctx, e.ID)
	require.NoError(t, err)
	assert.Zero(t, openCount(after))

	// Descartar de nuevo es idempotente.
	again, err := svc.DeleteReplenishmentNotification(ctx, list[0].ID)
	require.NoError(t, err)
	assert.Equal(t, *dismissed.DismissedAt, *again.DismissedAt)

	_, err = svc.DeleteReplenishmentNotification(ctx, "no-existe")
	require.Error(t, err)
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
}

func TestCheckReorderThreshold_TrasDescartarCreaNueva(t *testing.T) {
	svc, _ := newTestService(t, stock.Options{})
	ctx := context.Background()
	e := mustCreate(t, svc, 1, 5)
	require.NoError(t, svc.CheckReorderThreshold(ctx, e.ID))

	list, err := svc.GetAllReplenishmentNotifications(ctx, e.ID)
	require.NoError(t, err)
	_, err = svc.DeleteReplenishmentNotification(ctx, list[0].ID)
	require.NoError(t, err)

	require.NoError(t, svc.CheckReorderThreshold(ctx, e.ID))
	list, err = svc.GetAllReplenishmentNotifications(ctx, e.ID)
	require.NoError(t, err)
	assert.Len(t, list, 2)
	assert.Equal(t, 1, openCount(list))
	assert.True(t, list[0].IsOpen(), "la más reciente va primero")
}

func TestGetReplenishmentState_Transiciones(t *testing.T) {
	svc, _ := newTestService(t, stock.Options{})
	ctx := context.Background()
	e := mustCreate(t, svc, 10, 5)

	state := func() entity.ReplenishmentState {
		s, err := svc.GetReplenishmentState(ctx, e.ID)
		require.NoError(t, err)
		return s
	}

	assert.Equal(t, entity.StateAboveThreshold, state())

	_, err := svc.UpdateStockEntry(ctx, e.ID, 4)
	require.NoError(t, err)
	assert.Equal(t, entity.StateBelowThresholdNoNotice, state())

	require.NoError(t, svc.CheckReorderThreshold(ctx, e.ID))
	assert.Equal(t, entity.StateBelowThresholdNotified, state())

	_, err = svc.UpdateStockEntry(ctx, e.ID, 20)
	require.NoError(t, err)
	assert.Equal(t, entity.StateAboveThreshold, state())

	// La notificación queda OPEN hasta que se descarta explícitamente.
	list, err := svc.GetAllReplenishmentNotifications(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, openCount(list))

	_, err = svc.GetReplenishmentState(ctx, "no-existe")
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
}

func TestDeleteStockEntry_EliminaNotificaciones(t *testing.T) {
	svc, _ := newTestService(t, stock.Options{})
	ctx := context.Background()
	e := mustCreate(t, svc, 1, 5)
	require.NoError(t, svc.CheckReorderThreshold(ctx, e.ID))

	require.NoError(t, svc.DeleteStockEntry(ctx, e.ID))

	got, err := svc.GetStockEntryDetails(ctx, e.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	list, err := svc.GetAllReplenishmentNotifications(ctx, e.ID)
	require.NoError(t, err)
	assert.Empty(t, list)

	err = svc.DeleteStockEntry(ctx, e.ID)
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
}

func TestDeleteStockEntry_ConcurrenteConVerificacionNoDejaHuerfanas(t *testing.T) {
	svc, _ := newTestService(t, stock.Options{})
	ctx := context.Background()

	for i := 0; i < 50; i++ {
		e := mustCreate(t, svc, 1, 5)

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			if err := svc.CheckReorderThreshold(ctx, e.ID); err != nil {
				assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
			}
		}()
		go func() {
			defer wg.Done()
			assert.NoError(t, svc.DeleteStockEntry(ctx, e.ID))
		}()
		wg.Wait()

		list, err := svc.GetAllReplenishmentNotifications(ctx, e.ID)
		require.NoError(t, err)
		assert.Empty(t, list, "iteración %d", i)
	}
}

// Escenario completo: crear → bajar a 4 → verificar → aparece en la lista y con una notificación OPEN.
func TestEscenario_ReposicionCompleta(t *testing.T) {
	svc, _ := newTestService(t, stock.Options{})
	ctx := context.Background()

	e, err := svc.CreateStock(ctx, stock.CreateStockInput{
		ProductID: "1", Color: "red", Size: "M", Quantity: 10, ReorderThreshold: 5,
	})
	require.NoError(t, err)

	_, err = svc.UpdateStockEntry(ctx, e.ID, 4)
	require.NoError(t, err)
	require.NoError(t, svc.CheckReorderThreshold(ctx, e.ID))

	below, err := svc.ListStockEntriesBelowReorderThreshold(ctx)
	require.NoError(t, err)
	require.Len(t, below, 1)
	assert.Equal(t, e.ID, below[0].ID)

	list, err := svc.GetAllReplenishmentNotifications(ctx, e.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, entity.NotificationOpen, list[0].Status)
	assert.Equal(t, 4, list[0].Quantity)
}
