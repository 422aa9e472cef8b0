// Package pdf genera el estado de cuenta de una factura con Maroto v2.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Empresa            │  N° Factura + Fecha + Vence    │
//	│  TERCERO: Nombre + NIT + contacto                           │
//	│  ─────────────────────────────────────────────────────────  │
//	│  LÍNEAS: Cant | Descripción | P.Unit | IVA | Total           │
//	│  TOTALES: Subtotal neto / Impuestos / Total                  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  PAGOS: Fecha | Medio | Referencia | Valor                   │
//	│  SALDO: Pagado / Saldo pendiente / Estado + QR               │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"
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
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	appbilling "github.com/jhoicas/ledger-api/internal/application/billing"
	"github.com/jhoicas/ledger-api/internal/domain/entity"
	"github.com/jhoicas/ledger-api/internal/domain/money"
	"github.com/jhoicas/ledger-api/internal/domain/settlement"
)

var _ appbilling.StatementPDFGenerator = (*MarotoPDFGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorAlert   = &props.Color{Red: 170, Green: 30, Blue: 30}
)

var statusLabels = map[settlement.Status]string{
	settlement.StatusUnpaid:  "PENDIENTE",
	settlement.StatusPartial: "PAGO PARCIAL",
	settlement.StatusPaid:    "PAGADA",
	settlement.StatusOverdue: "VENCIDA",
}

var methodLabels = map[string]string{
	entity.PaymentCash:         "Efectivo",
	entity.PaymentBankTransfer: "Transferencia",
	entity.PaymentCard:         "Tarjeta",
	entity.PaymentCheque:       "Cheque",
	entity.PaymentOnline:       "En línea",
}

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa billing.StatementPDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct {
	printer *message.Printer
}

// NewMarotoPDFGenerator construye el generador. lang define separadores de miles y decimales (ej: "es-CO").
func NewMarotoPDFGenerator(lang string) *MarotoPDFGenerator {
	tag, err := language.Parse(lang)
	if err != nil {
		tag = language.Spanish
	}
	return &MarotoPDFGenerator{printer: message.NewPrinter(tag)}
}

// GenerateStatementPDF genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateStatementPDF(_ context.Context, data appbilling.StatementData) ([]byte, error) {
	if data.Invoice == nil {
		return nil, fmt.Errorf("pdf: estado de cuenta sin factura")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Estado de cuenta "+data.Invoice.Number, true).
		WithAuthor(data.CompanyName, true).
		Build()

	m := maroto.New(cfg)
	m.AddRows(g.headerRow(data))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	if data.Party != nil {
		m.AddRows(partyRow(data.Invoice.Kind, data.Party))
	}
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	if data.Document != nil && len(data.Document.Items) > 0 {
		m.AddRows(tableHeaderRow(
			heading{"Cant.", 1, align.Center},
			heading{"Descripción", 5, align.Left},
			heading{"Precio Unit.", 2, align.Right},
			heading{"IVA%", 1, align.Center},
			heading{"Total", 3, align.Right},
		))
		m.AddRows(g.itemRows(data.Currency, data.Document.Items)...)
		m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	}
	m.AddRows(g.totalsRow(data))

	m.AddRows(line.NewRow(4))
	m.AddRows(sectionTitle("HISTORIAL DE PAGOS"))
	if len(data.Payments) == 0 {
		m.AddRows(row.New(7).Add(col.New(12).Add(
			text.New("Sin pagos registrados.", props.Text{Size: 8, Color: colorGray, Top: 1}),
		)))
	} else {
		m.AddRows(tableHeaderRow(
			heading{"Fecha", 2, align.Center},
			heading{"Medio", 3, align.Left},
			heading{"Referencia", 4, align.Left},
			heading{"Valor", 3, align.Right},
		))
		m.AddRows(g.paymentRows(data.Currency, data.Payments)...)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(g.balanceRow(data))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func (g *MarotoPDFGenerator) headerRow(data appbilling.StatementData) core.Row {
	inv := data.Invoice
	title := "ESTADO DE CUENTA - FACTURA DE VENTA"
	if inv.Kind == entity.DocumentPurchase {
		title = "ESTADO DE CUENTA - FACTURA DE COMPRA"
	}
	return row.New(20).Add(
		col.New(7).Add(
			text.New(data.CompanyName, props.Text{Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1}),
			text.New("Moneda: "+data.Currency.Code, props.Text{Size: 8, Top: 9, Color: colorGray}),
		),
		col.New(5).Add(
			text.New(title, props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1}),
			text.New(inv.Number, props.Text{Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 6}),
			text.New("Fecha: "+inv.Date.Format("02/01/2006"), props.Text{Size: 8, Align: align.Right, Top: 12, Color: colorGray}),
			text.New("Vence: "+inv.DueDate.Format("02/01/2006"), props.Text{Size: 8, Align: align.Right, Top: 16, Color: colorGray}),
		),
	)
}

func partyRow(kind string, p *entity.Party) core.Row {
	label := "CLIENTE"
	if kind == entity.DocumentPurchase {
		label = "PROVEEDOR"
	}
	return row.New(14).Add(
		col.New(12).Add(
			text.New(label, props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(p.Name, props.Text{Style: fontstyle.Bold, Size: 10, Top: 6}),
			text.New(fmt.Sprintf("NIT/CC: %s   |   Email: %s   |   Tel: %s",
				nonEmpty(p.TaxID, "—"), nonEmpty(p.Email, "—"), nonEmpty(p.Phone, "—"),
			), props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

type heading struct {
	label string
	size  int
	align align.Type
}

func tableHeaderRow(cols ...heading) core.Row {
	r := row.New(8)
	for _, h := range cols {
		r.Add(col.New(h.size).Add(text.New(h.label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: h.align, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		})))
	}
	return r
}

func sectionTitle(s string) core.Row {
	return row.New(7).Add(col.New(12).Add(
		text.New(s, props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
	))
}

func (g *MarotoPDFGenerator) itemRows(cur money.Currency, items []entity.DocumentItem) []core.Row {
	result := make([]core.Row, 0, len(items))
	for _, it := range items {
		desc := nonEmpty(it.Description, "Ítem "+strconv.Itoa(it.Position+1))
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(it.Quantity.String(), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(5).Add(text.New(desc, props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1})),
			col.New(2).Add(text.New(g.amount(cur.FromDecimal(it.UnitPrice)), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(1).Add(text.New(it.TaxRate.String()+"%", props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(3).Add(text.New(g.amount(cur.FromDecimal(it.LineTotal)), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return result
}

func (g *MarotoPDFGenerator) paymentRows(cur money.Currency, payments []*entity.Payment) []core.Row {
	result := make([]core.Row, 0, len(payments))
	for _, p := range payments {
		result = append(result, row.New(7).Add(
			col.New(2).Add(text.New(p.Date.Format("02/01/2006"), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(3).Add(text.New(nonEmpty(methodLabels[p.Method], p.Method), props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(4).Add(text.New(nonEmpty(p.Reference, "—"), props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(3).Add(text.New(g.amount(cur.FromDecimal(p.Amount)), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return result
}

// amountRow columna de etiquetas y columna de valores alineadas a la derecha.
func amountRow(height float64, labels, values []string, emphasis *props.Color) core.Row {
	labelCol := col.New(3)
	valueCol := col.New(3)
	for i := range labels {
		top := float64(i) * 5
		lp := props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: top}
		vp := props.Text{Size: 9, Align: align.Right, Right: 1, Top: top}
		if i == len(labels)-1 && emphasis != nil {
			lp.Color, vp.Color, vp.Style = emphasis, emphasis, fontstyle.Bold
		}
		labelCol.Add(text.New(labels[i], lp))
		valueCol.Add(text.New(values[i], vp))
	}
	return row.New(height).Add(col.New(6), labelCol, valueCol)
}

func (g *MarotoPDFGenerator) totalsRow(data appbilling.StatementData) core.Row {
	inv := data.Invoice
	cur := data.Currency
	return amountRow(17,
		[]string{"Subtotal neto:", "Impuestos:", "TOTAL:"},
		[]string{g.amount(cur.FromDecimal(inv.NetTotal)), g.amount(cur.FromDecimal(inv.TaxTotal)), g.amount(data.State.GrandTotal)},
		colorPrimary,
	)
}

func (g *MarotoPDFGenerator) balanceRow(data appbilling.StatementData) core.Row {
	statusColor := colorPrimary
	if data.Status == settlement.StatusOverdue {
		statusColor = colorAlert
	}
	status := nonEmpty(statusLabels[data.Status], string(data.Status))
	// El QR identifica la factura para conciliación.
	return row.New(30).Add(
		col.New(3).Add(code.NewQr("invoice:"+data.Invoice.ID, props.Rect{Percent: 90, Center: true})),
		col.New(9).Add(
			text.New("Pagado: "+g.amount(data.State.PaidAmount), props.Text{Size: 9, Align: align.Right, Top: 4, Right: 1}),
			text.New("Saldo pendiente: "+g.amount(data.State.BalanceDue), props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right, Top: 10, Right: 1}),
			text.New("Estado: "+status, props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Top: 17, Right: 1, Color: statusColor,
			}),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// amount formatea con separadores del idioma: es → "$1.234.567,50".
func (g *MarotoPDFGenerator) amount(m money.Money) string {
	s := m.String()
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	intPart, frac, _ := strings.Cut(s, ".")
	n, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return m.String()
	}
	out := g.printer.Sprintf("%d", n)
	if frac != "" {
		out += g.decimalSeparator() + frac
	}
	if neg {
		return "-$" + out
	}
	return "$" + out
}

func (g *MarotoPDFGenerator) decimalSeparator() string {
	if s := g.printer.Sprintf("%.1f", 1.5); len(s) == 3 {
		return s[1:2]
	}
	return "."
}
