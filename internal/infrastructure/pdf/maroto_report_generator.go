// Package pdf genera el reporte de existencias en PDF.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: título            │  filtro de tipo + fecha        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: # | Nombre | Tipo | Fabricante | Cant. | Precio | Valor │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: registros / unidades / valor del stock            │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/core/entity"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/johnfercher/maroto/v2/pkg/repository"
	"github.com/shopspring/decimal"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/jhoicas/inventario-materiales/internal/application/dto"
	"github.com/jhoicas/inventario-materiales/internal/application/usecase"
)

var _ usecase.StockReportGenerator = (*MarotoReportGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// Familias UTF-8 registradas. Las fuentes base de PDF (helvetica, arial...) solo cubren cp1252.
const (
	goFontFamily     = "gofont"
	customFontFamily = "inventario-utf8"
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoReportGenerator implementa usecase.StockReportGenerator usando Maroto v2.
// Por defecto incrusta Go Regular/Bold, que cubren cirílico; fontFile (TTF) la reemplaza.
type MarotoReportGenerator struct {
	fontFile string
}

// NewMarotoReportGenerator construye el generador. fontFile puede ser vacío.
func NewMarotoReportGenerator(fontFile string) *MarotoReportGenerator {
	return &MarotoReportGenerator{fontFile: fontFile}
}

// GenerateStockReport genera el PDF y devuelve sus bytes.
func (g *MarotoReportGenerator) GenerateStockReport(_ context.Context, report dto.StockReport) ([]byte, error) {
	b := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithTitle(report.Title, true)

	family, fonts, err := g.loadFonts()
	if err != nil {
		return nil, err
	}
	cfg := b.WithCustomFonts(fonts).
		WithDefaultFont(&props.Font{Family: family, Size: 9}).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(report))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeaderRow())
	for _, r := range tableDetailRows(report.Items) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(report))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

func (g *MarotoReportGenerator) loadFonts() (string, []*entity.CustomFont, error) {
	if g.fontFile == "" {
		fonts, err := repository.New().
			AddUTF8FontFromBytes(goFontFamily, fontstyle.Normal, goregular.TTF).
			AddUTF8FontFromBytes(goFontFamily, fontstyle.Bold, gobold.TTF).
			Load()
		if err != nil {
			return "", nil, fmt.Errorf("pdf: cargar fuente Go: %w", err)
		}
		return goFontFamily, fonts, nil
	}
	fonts, err := repository.New().
		AddUTF8Font(customFontFamily, fontstyle.Normal, g.fontFile).
		AddUTF8Font(customFontFamily, fontstyle.Bold, g.fontFile).
		Load()
	if err != nil {
		return "", nil, fmt.Errorf("pdf: cargar fuente %s: %w", g.fontFile, err)
	}
	return customFontFamily, fonts, nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(r dto.StockReport) core.Row {
	return row.New(16).Add(
		col.New(8).Add(
			text.New(r.Title, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
		),
		col.New(4).Add(
			text.New("Тип: "+r.Type, props.Text{
				Size: 9, Align: align.Right, Top: 1,
			}),
			text.New(r.GeneratedAt.Format("02.01.2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 7, Color: colorGray,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("#", 1, align.Center),
		h("Назва", 3, align.Left),
		h("Тип", 2, align.Left),
		h("Виробник", 2, align.Left),
		h("К-сть", 1, align.Right),
		h("Ціна", 1, align.Right),
		h("Сума", 2, align.Right),
	)
}

func tableDetailRows(items []dto.ProductResponse) []core.Row {
	result := make([]core.Row, 0, len(items))
	for _, p := range items {
		value := p.Price.Mul(decimal.NewFromInt(int64(p.Quantity)))
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(strconv.Itoa(p.Position), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(3).Add(text.New(p.Name, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(p.Type, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(p.Manufacturer, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(1).Add(text.New(strconv.Itoa(p.Quantity), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(1).Add(text.New(formatMoney(p.Price), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(formatMoney(value), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return result
}

func totalsRow(r dto.StockReport) core.Row {
	label := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: top})
	}
	value := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1, Top: top})
	}
	return row.New(20).Add(
		col.New(6),
		col.New(3).Add(
			label("Позицій:", 2),
			label("Одиниць:", 8),
			label("Вартість:", 14),
		),
		col.New(3).Add(
			value(strconv.Itoa(r.Records), 2),
			value(strconv.FormatInt(r.Units, 10), 8),
			value(formatMoney(r.StockValue), 14),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

// formatMoney redondea a 2 decimales e inserta espacios de miles en la parte entera.
// Ej: 1234567.5 → "1 234 567.50"
func formatMoney(d decimal.Decimal) string {
	s := d.StringFixed(2)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, _ := strings.Cut(s, ".")
	n := len(intPart)
	if n <= 3 {
		return sign + s
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, ' ')
		}
		buf = append(buf, c)
	}
	return sign + string(buf) + "." + frac
}
