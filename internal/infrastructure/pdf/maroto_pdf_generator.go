// Package pdf genera la representación gráfica de facturas y cotizaciones.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Empresa + Tax ID    │  Tipo, Número, Fechas         │
//	│  EMISOR: Dirección / Tel / Email                             │
//	│  CLIENTE: Nombre + Tax ID + contacto                         │
//	│  TABLA: Descripción | Cant | P.Unit | Desc% | Importe        │
//	│  TOTALES: Subtotal / Descuento / Impuesto / TOTAL            │
//	│  NOTAS y TÉRMINOS                                            │
//	│  FOOTER: QR de referencia + leyenda                          │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
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
	"golang.org/x/text/number"

	appbilling "github.com/jhoicas/facturador-api/internal/application/billing"
	"github.com/jhoicas/facturador-api/internal/domain/entity"
)

var _ appbilling.DocumentPDFGenerator = (*MarotoPDFGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa billing.DocumentPDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct {
	printer *message.Printer
}

// NewMarotoPDFGenerator construye el generador. locale es una etiqueta BCP 47 (es-CO, en-US);
// si no se reconoce se usa es-CO para separadores de miles y decimales.
func NewMarotoPDFGenerator(locale string) *MarotoPDFGenerator {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.MustParse("es-CO")
	}
	return &MarotoPDFGenerator{printer: message.NewPrinter(tag)}
}

// GenerateDocumentPDF genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateDocumentPDF(_ context.Context, in appbilling.PDFInput) ([]byte, error) {
	if in.Document == nil || in.Company == nil || in.Customer == nil {
		return nil, fmt.Errorf("pdf: documento, empresa y cliente son obligatorios")
	}
	doc := in.Document

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(fmt.Sprintf("%s %s", kindTitle(doc.Kind), doc.Number), true).
		WithAuthor(in.Company.Name, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(doc, in.Company))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(emisorRow(in.Company))
	m.AddRows(clienteRow(in.Customer))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(g.tableDetailRows(in.Items)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(g.totalsRow(doc, in.Company.Currency))

	m.AddRows(textBlockRows("NOTAS", doc.Notes)...)
	m.AddRows(textBlockRows("TÉRMINOS Y CONDICIONES", doc.Terms)...)

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(g.footerRow(doc, in.Company))

	out, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return out.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func (g *MarotoPDFGenerator) headerRow(doc *entity.Document, company *entity.Company) core.Row {
	dates := "Fecha: " + doc.IssueDate.Format("02/01/2006")
	if doc.DueDate != nil {
		dates += "   " + dueLabel(doc.Kind) + ": " + doc.DueDate.Format("02/01/2006")
	}

	return row.New(18).Add(
		col.New(7).Add(
			text.New(company.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Tax ID: "+company.TaxID, props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New(strings.ToUpper(kindTitle(doc.Kind)), props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(doc.Number, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New(dates, props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

func emisorRow(company *entity.Company) core.Row {
	return row.New(12).Add(
		col.New(12).Add(
			text.New("EMISOR", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("Dirección: %s   |   Tel: %s   |   Email: %s",
				nonEmpty(company.Address, "-"),
				nonEmpty(company.Phone, "-"),
				nonEmpty(company.Email, "-"),
			), props.Text{Size: 8, Top: 7, Color: colorGray}),
		),
	)
}

func clienteRow(customer *entity.Customer) core.Row {
	return row.New(14).Add(
		col.New(12).Add(
			text.New("CLIENTE", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(customer.Name, props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(fmt.Sprintf("Tax ID: %s   |   Email: %s   |   Tel: %s",
				customer.TaxID,
				nonEmpty(customer.Email, "-"),
				nonEmpty(customer.Phone, "-"),
			), props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Descripción", 5, align.Left),
		h("Cant.", 1, align.Center),
		h("Precio Unit.", 2, align.Right),
		h("Desc.%", 1, align.Center),
		h("Importe", 3, align.Right),
	).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

func (g *MarotoPDFGenerator) tableDetailRows(items []*entity.LineItem) []core.Row {
	result := make([]core.Row, 0, len(items))
	for _, it := range items {
		result = append(result, row.New(7).Add(
			col.New(5).Add(text.New(it.Description, props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1})),
			col.New(1).Add(text.New(g.quantity(it.Quantity), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(g.amount(it.UnitPrice), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(1).Add(text.New(g.percent(it.Discount), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(3).Add(text.New(g.amount(it.Amount), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return result
}

func (g *MarotoPDFGenerator) totalsRow(doc *entity.Document, currency string) core.Row {
	label := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: top})
	}
	value := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1, Top: top})
	}

	taxLabel := "Impuesto:"
	if doc.TaxRate != nil {
		taxLabel = fmt.Sprintf("Impuesto (%s):", g.percent(*doc.TaxRate))
	}
	discounted := doc.Total.Sub(doc.Tax)

	return row.New(26).Add(
		col.New(4),
		col.New(4).Add(
			label("Subtotal:", 0),
			label(fmt.Sprintf("Descuento (%s):", g.percent(doc.Discount)), 6),
			label(taxLabel, 12),
			text.New("TOTAL "+currency+":", props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 2, Top: 18,
			}),
		),
		col.New(4).Add(
			value(g.amount(doc.Subtotal), 0),
			value("-"+g.amount(doc.Subtotal.Sub(discounted)), 6),
			value(g.amount(doc.Tax), 12),
			text.New(g.amount(doc.Total), props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 1, Top: 18,
			}),
		),
	)
}

func textBlockRows(title, body string) []core.Row {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil
	}
	rows := []core.Row{
		row.New(6).Add(col.New(12).Add(text.New(title, props.Text{
			Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
		}))),
	}
	for _, ln := range strings.Split(body, "\n") {
		rows = append(rows, row.New(4).Add(col.New(12).Add(
			text.New(ln, props.Text{Size: 7.5, Color: colorGray, Left: 2}),
		)))
	}
	return rows
}

// footerRow QR con la referencia del documento (empresa|número|total) y leyenda.
func (g *MarotoPDFGenerator) footerRow(doc *entity.Document, company *entity.Company) core.Row {
	ref := fmt.Sprintf("%s|%s|%s", company.TaxID, doc.Number, doc.Total.StringFixed(2))
	return row.New(30).Add(
		col.New(3).Add(code.NewQr(ref, props.Rect{Percent: 90, Center: true})),
		col.New(9).Add(
			text.New(fmt.Sprintf("%s %s emitida por %s.", kindTitle(doc.Kind), doc.Number, company.Name), props.Text{
				Size: 8, Top: 6, Left: 3, Color: colorGray,
			}),
			text.New("Estado: "+doc.Status, props.Text{
				Style: fontstyle.Bold, Size: 9, Top: 14, Left: 3, Color: colorPrimary,
			}),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func kindTitle(kind entity.DocumentKind) string {
	if kind == entity.KindQuotation {
		return "Cotización"
	}
	return "Factura"
}

func dueLabel(kind entity.DocumentKind) string {
	if kind == entity.KindQuotation {
		return "Válida hasta"
	}
	return "Vence"
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// amount formatea con separadores del locale y 2 decimales. Los montos ya vienen redondeados.
func (g *MarotoPDFGenerator) amount(d decimal.Decimal) string {
	return g.printer.Sprint(number.Decimal(d.InexactFloat64(), number.Scale(2)))
}

func (g *MarotoPDFGenerator) quantity(d decimal.Decimal) string {
	return g.printer.Sprint(number.Decimal(d.InexactFloat64(), number.MaxFractionDigits(4)))
}

func (g *MarotoPDFGenerator) percent(d decimal.Decimal) string {
	return g.printer.Sprint(number.Decimal(d.InexactFloat64(), number.MaxFractionDigits(2))) + "%"
}
