package stock

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-service/internal/application/dto"
	"github.com/jhoicas/stock-service/internal/domain"
	"github.com/jhoicas/stock-service/internal/domain/repository"
)

// ReplenishmentReportUseCase genera la lista de reposición a partir de las entradas en o bajo su umbral.
type ReplenishmentReportUseCase struct {
	stockRepo    repository.StockEntryRepository
	pdf          ReportPDFGenerator
	targetFactor decimal.Decimal
}

// NewReplenishmentReportUseCase construye el caso de uso. targetFactor <= 0 se reemplaza por 1.5.
func NewReplenishmentReportUseCase(
	stockRepo repository.StockEntryRepository,
	pdf ReportPDFGenerator,
	targetFactor decimal.Decimal,
) *ReplenishmentReportUseCase {
	if !targetFactor.IsPositive() {
		targetFactor = decimal.RequireFromString("1.5")
	}
	return &ReplenishmentReportUseCase{
		stockRepo:    stockRepo,
		pdf:          pdf,
		targetFactor: targetFactor,
	}
}

// GenerateReport devuelve las sugerencias ordenadas por mayor déficit (umbral - cantidad) primero.
// Empates conservan el orden de inserción.
func (uc *ReplenishmentReportUseCase) GenerateReport(ctx context.Context) ([]dto.ReplenishmentSuggestionDTO, error) {
	entries, err := uc.stockRepo.ListBelowReorderThreshold(ctx)
	if err != nil {
		return nil, domain.Internal("replenishment report", err)
	}
	if len(entries) == 0 {
		return []dto.ReplenishmentSuggestionDTO{}, nil
	}

	hundred := decimal.NewFromInt(100)
	suggestions := make([]dto.ReplenishmentSuggestionDTO, 0, len(entries))
	for _, e := range entries {
		threshold := decimal.NewFromInt(int64(e.ReorderThreshold))
		target := int(threshold.Mul(uc.targetFactor).Ceil().IntPart())
		suggested := target - e.Quantity
		if suggested < 0 {
			suggested = 0
		}

		coverage := decimal.Zero
		if e.ReorderThreshold > 0 {
			coverage = decimal.NewFromInt(int64(e.Quantity)).Div(threshold).Mul(hundred).Round(2)
		}

		suggestions = append(suggestions, dto.ReplenishmentSuggestionDTO{
			StockID:           e.ID,
			ProductID:         e.ProductID,
			Color:             e.Color,
			Size:              e.Size,
			CurrentStock:      e.Quantity,
			ReorderThreshold:  e.ReorderThreshold,
			TargetStock:       target,
			SuggestedOrderQty: suggested,
			Coverage:          coverage,
		})
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		a, b := suggestions[i], suggestions[j]
		return a.ReorderThreshold-a.CurrentStock > b.ReorderThreshold-b.CurrentStock
	})
	for i := range suggestions {
		suggestions[i].Priority = i + 1
	}
	return suggestions, nil
}

// GenerateReportPDF genera el reporte en PDF y un nombre de archivo con la fecha.
func (uc *ReplenishmentReportUseCase) GenerateReportPDF(ctx context.Context) (pdfBytes []byte, filename string, err error) {
	if uc.pdf == nil {
		return nil, "", domain.Internal("replenishment report pdf", fmt.Errorf("generador PDF no configurado"))
	}
	items, err := uc.GenerateReport(ctx)
	if err != nil {
		return nil, "", err
	}
	now := time.Now().UTC()
	pdfBytes, err = uc.pdf.GenerateReplenishmentReportPDF(ctx, now, items)
	if err != nil {
		return nil, "", domain.Internal("replenishment report pdf", err)
	}
	return pdfBytes, fmt.Sprintf("reposicion_%s.pdf", now.Format("20060102")), nil
}
