package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// AdjustQuantityRequest body para POST /api/products/:id/deliver y /withdraw.
type AdjustQuantityRequest struct {
	Amount int `json:"amount"`
}

// AvailabilityResponse resultado de la verificación de existencia.
type AvailabilityResponse struct {
	Name         string `json:"name"`
	Type         string `json:"type"`
	Manufacturer string `json:"manufacturer"`
	Available    bool   `json:"available"`
}

// StockReport datos del reporte de existencias (filtrado y ordenado como la búsqueda).
type StockReport struct {
	Title       string
	Type        string
	GeneratedAt time.Time
	Items       []ProductResponse
	Records     int
	Units       int64
	StockValue  decimal.Decimal
}
