package dto

import "github.com/shopspring/decimal"

// ReplenishmentSuggestionDTO sugerencia de reposición para una entrada en o bajo su umbral.
type ReplenishmentSuggestionDTO struct {
	StockID           string          `json:"stock_id"`
	ProductID         string          `json:"product_id"`
	Color             string          `json:"color"`
	Size              string          `json:"size"`
	CurrentStock      int             `json:"current_stock"`
	ReorderThreshold  int             `json:"reorder_threshold"`
	TargetStock       int             `json:"target_stock"`        // ceil(ReorderThreshold * factor)
	SuggestedOrderQty int             `json:"suggested_order_qty"` // TargetStock - CurrentStock, mínimo 0
	Coverage          decimal.Decimal `json:"coverage_pct"`        // CurrentStock / ReorderThreshold * 100
	Priority          int             `json:"priority"`            // 1 = más urgente
}

// ReplenishmentReportResponse respuesta de GET /api/stocks/replenishment-report.
type ReplenishmentReportResponse struct {
	Total          int                          `json:"total"`
	Replenishments []ReplenishmentSuggestionDTO `json:"replenishments"`
}
