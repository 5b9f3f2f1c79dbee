package inventory

import (
	"sort"

	"github.com/jhoicas/inventario-materiales/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// FindExact indica si existe un registro con name, type y manufacturer idénticos (sin recortes ni mayúsculas).
func FindExact(records []entity.Product, name, productType, manufacturer string) bool {
	for _, p := range records {
		if p.Name == name && p.Type == productType && p.Manufacturer == manufacturer {
			return true
		}
	}
	return false
}

// FilterByType devuelve una copia de records en su orden original si productType es entity.TypeAll;
// en otro caso, solo los del tipo pedido, ordenados por precio ascendente (estable ante empates).
func FilterByType(records []entity.Product, productType string) []entity.Product {
	if productType == entity.TypeAll {
		out := make([]entity.Product, len(records))
		copy(out, records)
		return out
	}
	out := make([]entity.Product, 0, len(records))
	for _, p := range records {
		if p.Type == productType {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Price.LessThan(out[j].Price)
	})
	return out
}

// Summary totales de un conjunto de registros.
type Summary struct {
	Records    int
	Units      int64
	StockValue decimal.Decimal
}

// Summarize calcula número de registros, unidades totales y valor del stock (Σ cantidad × precio).
func Summarize(records []entity.Product) Summary {
	s := Summary{Records: len(records), StockValue: decimal.Zero}
	for _, p := range records {
		s.Units += int64(p.Quantity)
		s.StockValue = s.StockValue.Add(p.StockValue())
	}
	return s
}
