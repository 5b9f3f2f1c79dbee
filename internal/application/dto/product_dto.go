package dto

import "github.com/shopspring/decimal"

// CreateProductRequest entrada para agregar un producto (formulario "Додати товар").
type CreateProductRequest struct {
	Name         string          `json:"name"`
	Type         string          `json:"type"`
	Manufacturer string          `json:"manufacturer"`
	Quantity     int             `json:"quantity"`
	Price        decimal.Decimal `json:"price"`
}

// UpdateProductRequest entrada para editar un producto. Campos nil conservan el valor actual.
type UpdateProductRequest struct {
	Name         *string          `json:"name"`
	Type         *string          `json:"type"`
	Manufacturer *string          `json:"manufacturer"`
	Quantity     *int             `json:"quantity"`
	Price        *decimal.Decimal `json:"price"`
}

// ProductResponse salida de un producto.
// Position es el índice actual en la secuencia almacenada (no la fila de una vista filtrada).
type ProductResponse struct {
	ID           string          `json:"id"`
	Position     int             `json:"position"`
	Name         string          `json:"name"`
	Type         string          `json:"type"`
	Manufacturer string          `json:"manufacturer"`
	Quantity     int             `json:"quantity"`
	Price        decimal.Decimal `json:"price"`
}

// ProductListResponse lista de productos de una búsqueda.
type ProductListResponse struct {
	Type  string            `json:"type"`
	Items []ProductResponse `json:"items"`
	Total int               `json:"total"`
}
