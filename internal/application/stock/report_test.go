package stock_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-service/internal/application/dto"
	"github.com/jhoicas/stock-service/internal/application/stock"
	"github.com/jhoicas/stock-service/internal/domain"
	"github.com/jhoicas/stock-service/internal/infrastructure/memory"
)

type fakePDF struct {
	items []dto.ReplenishmentSuggestionDTO
}

func (f *fakePDF) GenerateReplenishmentReportPDF(_ context.Context, _ time.Time, items []dto.ReplenishmentSuggestionDTO) ([]byte, error) {
	f.items = items
	return []byte("%PDF-fake"), nil
}

func TestGenerateReport_OrdenYCalculos(t *testing.T) {
	stocks := memory.NewStockEntryRepository()
	notifications := memory.NewNotificationRepository(stocks)
	svc := stock.NewService(stocks, notifications, memory.NewTxRunner(stocks, notifications), nil, nil, stock.Options{})
	uc := stock.NewReplenishmentReportUseCase(stocks, nil, decimal.RequireFromString("1.5"))
	ctx := context.Background()

	mild := mustCreate(t, svc, 4, 5)   // déficit 1
	severe := mustCreate(t, svc, 0, 7) // déficit 7
	mustCreate(t, svc, 9, 5)           // sobre el umbral
	tie := mustCreate(t, svc, 2, 3)    // déficit 1, empata con mild

	items, err := uc.GenerateReport(ctx)
	require.NoError(t, err)
	require.Len(t, items, 3)

	assert.Equal(t, severe.ID, items[0].StockID)
	assert.Equal(t, mild.ID, items[1].StockID)
	assert.Equal(t, tie.ID, items[2].StockID)
	for i, it := range items {
		assert.Equal(t, i+1, it.Priority)
	}

	// umbral 7 * 1.5 = 10.5 → 11
	assert.Equal(t, 11, items[0].TargetStock)
	assert.Equal(t, 11, items[0].SuggestedOrderQty)
	assert.True(t, items[0].Coverage.IsZero())

	// umbral 5 * 1.5 = 7.5 → 8; 4/5 = 80%
	assert.Equal(t, 8, items[1].TargetStock)
	assert.Equal(t, 4, items[1].SuggestedOrderQty)
	assert.True(t, decimal.NewFromInt(80).Equal(items[1].Coverage))
}

func TestGenerateReport_UmbralCero(t *testing.T) {
	stocks := memory.NewStockEntryRepository()
	notifications := memory.NewNotificationRepository(stocks)
	svc := stock.NewService(stocks, notifications, memory.NewTxRunner(stocks, notifications), nil, nil, stock.Options{})
	uc := stock.NewReplenishmentReportUseCase(stocks, nil, decimal.Zero)

	mustCreate(t, svc, 0, 0)
	items, err := uc.GenerateReport(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 0, items[0].TargetStock)
	assert.Equal(t, 0, items[0].SuggestedOrderQty)
	assert.True(t, items[0].Coverage.IsZero())
}

func TestGenerateReport_VacioNoEsNil(t *testing.T) {
	uc := stock.NewReplenishmentReportUseCase(memory.NewStockEntryRepository(), nil, decimal.NewFromInt(2))
	items, err := uc.GenerateReport(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestGenerateReportPDF(t *testing.T) {
	stocks := memory.NewStockEntryRepository()
	notifications := memory.NewNotificationRepository(stocks)
	svc := stock.NewService(stocks, notifications, memory.NewTxRunner(stocks, notifications), nil, nil, stock.Options{})
	gen := &fakePDF{}
	uc := stock.NewReplenishmentReportUseCase(stocks, gen, decimal.RequireFromString("1.5"))

	mustCreate(t, svc, 1, 5)
	out, name, err := uc.GenerateReportPDF(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "%PDF-fake", string(out))
	assert.True(t, strings.HasPrefix(name, "reposicion_"))
	assert.True(t, strings.HasSuffix(name, ".pdf"))
	assert.Len(t, gen.items, 1)

	_, _, err = stock.NewReplenishmentReportUseCase(stocks, nil, decimal.Zero).GenerateReportPDF(context.Background())
	require.Error(t, err)
	assert.Equal(t, domain.KindInternal, domain.KindOf(err))
}
