// Package pdf implementa la generación de la hoja de etiquetas de lote con
// código de barras Code128.
//
// Layout de la página A4 (3 etiquetas por fila):
//
//	┌───────────────┬───────────────┬───────────────┐
//	│ ||||||||||||| │ ||||||||||||| │ ||||||||||||| │
//	│   L-<id>      │   L-<id>      │   L-<id>      │
//	│ Arroz 1kg     │ Frazadas      │ Kit escolar   │
//	│ 15/03/2026    │ 15/03/2026    │ 15/03/2026    │
//	│ 40 UNIDAD     │ 12 UNIDAD     │ 5 UNIDAD      │
//	└───────────────┴───────────────┴───────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/barcode"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/linestyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/manosunidas/donaciones-api/internal/application/inventory"
)

const labelsPerRow = 3

var colorGray = &props.Color{Red: 100, Green: 100, Blue: 100}

// MarotoLabelGenerator implementa inventory.LabelPDFGenerator usando Maroto v2.
type MarotoLabelGenerator struct{}

var _ inventory.LabelPDFGenerator = (*MarotoLabelGenerator)(nil)

// NewMarotoLabelGenerator construye el generador.
func NewMarotoLabelGenerator() *MarotoLabelGenerator { return &MarotoLabelGenerator{} }

// GenerateLabelSheet genera la hoja A4 de etiquetas y devuelve sus bytes.
func (g *MarotoLabelGenerator) GenerateLabelSheet(_ context.Context, labels []inventory.LabelData) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 8}).
		WithTitle("Etiquetas de lote", true).
		Build()

	m := maroto.New(cfg)

	for start := 0; start < len(labels); start += labelsPerRow {
		end := start + labelsPerRow
		if end > len(labels) {
			end = len(labels)
		}
		m.AddRows(labelRow(labels[start:end]))
		m.AddRows(line.NewRow(2, props.Line{Color: colorGray, Thickness: 0.2, Style: linestyle.Dashed}))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar hoja de etiquetas: %w", err)
	}
	return doc.GetBytes(), nil
}

// labelRow una fila con hasta 3 etiquetas, cada una en una columna de 4/12.
func labelRow(labels []inventory.LabelData) core.Row {
	r := row.New(42)
	for _, l := range labels {
		r.Add(labelCol(l))
	}
	// Columnas vacías para completar la grilla de la última fila.
	for i := len(labels); i < labelsPerRow; i++ {
		r.Add(col.New(4))
	}
	return r
}

func labelCol(l inventory.LabelData) core.Col {
	return col.New(4).Add(
		code.NewBar(l.Barcode, props.Barcode{
			Type:    barcode.Code128,
			Percent: 85,
			Center:  true,
			Top:     1,
		}),
		text.New(l.Barcode, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Center, Top: 22,
		}),
		text.New(l.Summary, props.Text{
			Size: 7, Align: align.Center, Top: 27, Color: colorGray,
		}),
		text.New("Entrada: "+l.EntryDate, props.Text{
			Size: 7, Align: align.Center, Top: 32, Color: colorGray,
		}),
		text.New(fmt.Sprintf("%d %s", l.Quantity, l.Unit), props.Text{
			Size: 8, Align: align.Center, Top: 36,
		}),
	)
}
