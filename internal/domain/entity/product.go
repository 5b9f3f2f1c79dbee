package entity

import "github.com/shopspring/decimal"

// Categorías fijas del formulario de alta. Se admite texto libre en Type.
const (
	TypePaints = "Фарби"
	TypeFacing = "Лицювальний матеріал"
	TypeCement = "Цемент"
	TypeOther  = "Інше"

	// TypeAll es el centinela de búsqueda "sin filtro".
	TypeAll = "Все"
)

// Types devuelve las categorías fijas en el orden en que se muestran.
func Types() []string {
	return []string{TypePaints, TypeFacing, TypeCement, TypeOther}
}

// Product representa una línea de inventario (un lote de stock).
// ID se genera al crear o cargar el registro y no se persiste: el archivo conserva solo los cinco campos.
type Product struct {
	ID           string
	Name         string
	Type         string
	Manufacturer string
	Quantity     int
	Price        decimal.Decimal
}

// SameFields indica si dos productos coinciden en los cinco campos persistidos (ignora ID).
func (p Product) SameFields(o Product) bool {
	return p.Name == o.Name &&
		p.Type == o.Type &&
		p.Manufacturer == o.Manufacturer &&
		p.Quantity == o.Quantity &&
		p.Price.Equal(o.Price)
}

// StockValue devuelve Quantity * Price.
func (p Product) StockValue() decimal.Decimal {
	return p.Price.Mul(decimal.NewFromInt(int64(p.Quantity)))
}
