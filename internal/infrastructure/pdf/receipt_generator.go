// Package pdf implementa la generación del recibo de venta de la farmacia.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Farmacia  │  N° Recibo + Fecha + Atendió           │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Cant | Producto | P.Unit | Subtotal                  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: TOTAL + desglose de pagos                          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: estado de la transacción + leyenda                  │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

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
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/farmacore/ledger-api/internal/application/ledger"
	"github.com/farmacore/ledger-api/internal/domain/entity"
)

var _ ledger.ReceiptGenerator = (*MarotoReceiptGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 16, Green: 98, Blue: 70}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// statusLabels etiqueta visible por estado de la transacción.
var statusLabels = map[string]string{
	entity.TxStatusCompleted: "VENTA COMPLETADA",
	entity.TxStatusVoided:    "VENTA ANULADA",
	entity.TxStatusDamaged:   "DEVOLUCIÓN POR DAÑO",
}

// MarotoReceiptGenerator implementa ledger.ReceiptGenerator usando Maroto v2.
// Los montos se formatean con separador de miles según el locale.
type MarotoReceiptGenerator struct {
	pharmacy string
	printer  *message.Printer
}

// NewMarotoReceiptGenerator construye el generador con el nombre visible de
// la farmacia.
func NewMarotoReceiptGenerator(pharmacy string) *MarotoReceiptGenerator {
	return &MarotoReceiptGenerator{
		pharmacy: pharmacy,
		printer:  message.NewPrinter(language.Spanish),
	}
}

// GenerateReceipt genera el PDF del recibo y devuelve sus bytes.
func (g *MarotoReceiptGenerator) GenerateReceipt(
	_ context.Context,
	tx *entity.Transaction,
	products map[string]*entity.Product,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Recibo de venta", true).
		WithAuthor(g.pharmacy, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(tx))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeaderRow())
	for _, r := range g.tableItemRows(tx, products) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(g.totalsRow(tx))

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(g.footerRow(tx))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: farmacia (izq) y número de recibo + fecha + personal (der).
func (g *MarotoReceiptGenerator) headerRow(tx *entity.Transaction) core.Row {
	fecha := tx.CreatedAt.Format("02/01/2006 15:04")

	return row.New(20).Add(
		col.New(7).Add(
			text.New(g.pharmacy, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Recibo de venta", props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("RECIBO N° "+shortID(tx.ID), props.Text{
				Style: fontstyle.Bold, Size: 11, Align: align.Right, Top: 1,
			}),
			text.New("Fecha: "+fecha, props.Text{
				Size: 8, Align: align.Right, Top: 8, Color: colorGray,
			}),
			text.New("Atendió: "+tx.Staff, props.Text{
				Size: 8, Align: align.Right, Top: 13, Color: colorGray,
			}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de líneas.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Cant.", 1, align.Center),
		h("Producto", 6, align.Left),
		h("Precio Unit.", 2, align.Right),
		h("Subtotal", 3, align.Right),
	)
}

// tableItemRows: una fila por línea de la venta. El nombre sale del catálogo;
// si el producto ya no está, se imprime el ID.
func (g *MarotoReceiptGenerator) tableItemRows(tx *entity.Transaction, products map[string]*entity.Product) []core.Row {
	result := make([]core.Row, 0, len(tx.Items))
	for _, it := range tx.Items {
		name := it.ProductID
		if p, ok := products[it.ProductID]; ok {
			name = p.Name
		}
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(
				fmt.Sprintf("%d", it.Quantity),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(6).Add(text.New(
				name,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				g.money(it.UnitPrice),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(3).Add(text.New(
				g.money(it.Subtotal),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

// totalsRow: total a la derecha y desglose de pagos debajo.
func (g *MarotoReceiptGenerator) totalsRow(tx *entity.Transaction) core.Row {
	components := []core.Component{
		text.New("TOTAL: "+g.money(tx.TotalAmount), props.Text{
			Style: fontstyle.Bold, Size: 11, Align: align.Right,
			Color: colorPrimary, Right: 1,
		}),
	}
	top := 8.0
	for _, p := range tx.Payments {
		components = append(components, text.New(
			fmt.Sprintf("%s: %s", p.Method, g.money(p.Amount)),
			props.Text{Size: 8, Align: align.Right, Top: top, Right: 1, Color: colorGray},
		))
		top += 5
	}

	return row.New(10 + 5*float64(len(tx.Payments))).Add(
		col.New(6),
		col.New(6).Add(components...),
	)
}

// footerRow: estado de la transacción + leyenda.
func (g *MarotoReceiptGenerator) footerRow(tx *entity.Transaction) core.Row {
	label, ok := statusLabels[tx.Status]
	if !ok {
		label = tx.Status
	}
	return row.New(14).Add(col.New(12).Add(
		text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Center,
			Color: colorPrimary, Top: 2,
		}),
		text.New("Conserve este recibo para cambios y devoluciones.", props.Text{
			Size: 7, Align: align.Center, Color: colorGray, Top: 9,
		}),
	))
}

// ── helpers ───────────────────────────────────────────────────────────────────

// money formatea un monto con símbolo y separadores de miles del locale.
func (g *MarotoReceiptGenerator) money(v decimal.Decimal) string {
	return g.printer.Sprintf("$%.2f", v.InexactFloat64())
}

// shortID primeros 8 caracteres del UUID, suficientes para el recibo impreso.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
