package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/inventario-materiales/internal/application/dto"
	"github.com/jhoicas/inventario-materiales/internal/application/inventory"
	"github.com/jhoicas/inventario-materiales/internal/domain/entity"
	domaininv "github.com/jhoicas/inventario-materiales/internal/domain/inventory"
)

// StockReportGenerator puerto para generar el documento del reporte de existencias (PDF).
type StockReportGenerator interface {
	GenerateStockReport(ctx context.Context, report dto.StockReport) ([]byte, error)
}

// ReportUseCase arma el reporte de existencias con el mismo filtro y orden que la búsqueda por tipo.
type ReportUseCase struct {
	store     *inventory.Store
	generator StockReportGenerator
	now       func() time.Time
}

// NewReportUseCase construye el caso de uso.
func NewReportUseCase(store *inventory.Store, generator StockReportGenerator) *ReportUseCase {
	return &ReportUseCase{store: store, generator: generator, now: time.Now}
}

// Build devuelve los datos del reporte sin renderizar.
func (uc *ReportUseCase) Build(_ context.Context, productType string) dto.StockReport {
	if productType == "" {
		productType = entity.TypeAll
	}
	all := uc.store.List()
	filtered := domaininv.FilterByType(all, productType)
	sum := domaininv.Summarize(filtered)
	list := toListResponse(productType, all, filtered)
	return dto.StockReport{
		Title:       "Залишки будівельних матеріалів",
		Type:        productType,
		GeneratedAt: uc.now(),
		Items:       list.Items,
		Records:     sum.Records,
		Units:       sum.Units,
		StockValue:  sum.StockValue,
	}
}

// Generate arma el reporte y lo renderiza con el generador configurado.
func (uc *ReportUseCase) Generate(ctx context.Context, productType string) ([]byte, error) {
	report := uc.Build(ctx, productType)
	doc, err := uc.generator.GenerateStockReport(ctx, report)
	if err != nil {
		return nil, fmt.Errorf("generar reporte: %w", err)
	}
	return doc, nil
}
