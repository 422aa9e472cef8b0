package ledger

import (
	"fmt"

	"github.com/jhoicas/ledger-api/internal/domain"
	"github.com/jhoicas/ledger-api/internal/domain/money"
)

// Totals totales derivados de un documento (orden de venta o de compra).
type Totals struct {
	TotalAmount    money.Money // Σ subtotal
	DiscountAmount money.Money // Σ discount
	TaxAmount      money.Money // Σ tax_amount
	GrandTotal     money.Money // total − discount + tax
	ItemCount      int
}

// NetAmount base gravable del documento (total − descuento).
func (t Totals) NetAmount() money.Money { return t.TotalAmount.Sub(t.DiscountAmount) }

// AggregateDocument suma líneas ya calculadas. Una orden sin líneas se rechaza con empty_order.
func AggregateDocument(cur money.Currency, items []LineResult) (Totals, error) {
	agg := NewAggregator(cur)
	for _, it := range items {
		if err := agg.push(it); err != nil {
			return Totals{}, err
		}
	}
	return agg.Totals()
}

// AggregateInputs calcula cada línea y agrega el documento.
func AggregateInputs(cur money.Currency, inputs []LineInput) ([]LineResult, Totals, error) {
	agg := NewAggregator(cur)
	for _, in := range inputs {
		if _, _, err := agg.Add(in); err != nil {
			return nil, Totals{}, err
		}
	}
	totals, err := agg.Totals()
	if err != nil {
		return nil, Totals{}, err
	}
	return agg.Lines(), totals, nil
}

// Aggregator mantiene los totales de un documento mientras se editan sus líneas.
// Agregar, editar o quitar una línea ajusta solo los acumulados por diferencia;
// las líneas hermanas no se recalculan.
type Aggregator struct {
	cur   money.Currency
	lines []LineResult
	sums  sums
	err   error // primer desborde al cargar líneas persistidas
}

// sums acumulados del documento.
type sums struct {
	subtotal money.Money
	discount money.Money
	tax      money.Money
}

// with devuelve los acumulados con la línea sumada (sign 1) o restada (sign -1).
// Ningún acumulado ni el gran total pueden exceder money.MaxMinorUnits.
func (s sums) with(l LineResult, sign int) (sums, error) {
	sub, disc, tax := l.Subtotal, l.Discount, l.TaxAmount
	if sign < 0 {
		sub, disc, tax = sub.Neg(), disc.Neg(), tax.Neg()
	}
	var (
		next sums
		err  error
	)
	if next.subtotal, err = s.subtotal.AddChecked("total_amount", sub); err != nil {
		return s, err
	}
	if next.discount, err = s.discount.AddChecked("discount_amount", disc); err != nil {
		return s, err
	}
	if next.tax, err = s.tax.AddChecked("tax_amount", tax); err != nil {
		return s, err
	}
	if _, err = next.subtotal.Sub(next.discount).AddChecked("grand_total", next.tax); err != nil {
		return s, err
	}
	return next, nil
}

// NewAggregator crea un agregador vacío para la moneda dada.
func NewAggregator(cur money.Currency) *Aggregator {
	return &Aggregator{cur: cur, sums: sums{subtotal: cur.Zero(), discount: cur.Zero(), tax: cur.Zero()}}
}

// Load reconstruye el agregador a partir de líneas persistidas. Un desborde se informa en Totals.
func Load(cur money.Currency, lines []LineResult) *Aggregator {
	agg := NewAggregator(cur)
	for _, l := range lines {
		if err := agg.push(l); err != nil {
			agg.err = err
			break
		}
	}
	return agg
}

func (a *Aggregator) push(l LineResult) error {
	next, err := a.sums.with(l, 1)
	if err != nil {
		return err
	}
	a.lines = append(a.lines, l)
	a.sums = next
	return nil
}

// Add calcula y agrega una línea al final. Devuelve su posición.
func (a *Aggregator) Add(in LineInput) (int, LineResult, error) {
	idx := len(a.lines)
	l, err := computeLine(a.cur, itemPrefix(idx), in)
	if err != nil {
		return 0, LineResult{}, err
	}
	if err := a.push(l); err != nil {
		return 0, LineResult{}, err
	}
	return idx, l, nil
}

// Replace recalcula la línea i con la nueva entrada.
func (a *Aggregator) Replace(i int, in LineInput) (LineResult, error) {
	if err := a.checkIndex(i); err != nil {
		return LineResult{}, err
	}
	l, err := computeLine(a.cur, itemPrefix(i), in)
	if err != nil {
		return LineResult{}, err
	}
	next, err := a.sums.with(a.lines[i], -1)
	if err == nil {
		next, err = next.with(l, 1)
	}
	if err != nil {
		return LineResult{}, err
	}
	a.lines[i] = l
	a.sums = next
	return l, nil
}

// Remove quita la línea i conservando el orden de las demás.
func (a *Aggregator) Remove(i int) error {
	if err := a.checkIndex(i); err != nil {
		return err
	}
	next, err := a.sums.with(a.lines[i], -1)
	if err != nil {
		return err
	}
	a.lines = append(a.lines[:i], a.lines[i+1:]...)
	a.sums = next
	return nil
}

func (a *Aggregator) checkIndex(i int) error {
	if i < 0 || i >= len(a.lines) {
		return fmt.Errorf("%w: línea %d inexistente", domain.ErrNotFound, i)
	}
	return nil
}

// Len número de líneas.
func (a *Aggregator) Len() int { return len(a.lines) }

// Lines copia de las líneas en orden.
func (a *Aggregator) Lines() []LineResult {
	out := make([]LineResult, len(a.lines))
	copy(out, a.lines)
	return out
}

// Totals totales actuales; siempre derivados de las líneas vigentes.
func (a *Aggregator) Totals() (Totals, error) {
	if a.err != nil {
		return Totals{}, a.err
	}
	if len(a.lines) == 0 {
		return Totals{}, domain.NewValidationError(domain.KindEmptyOrder, "items")
	}
	s := a.sums
	return Totals{
		TotalAmount:    s.subtotal,
		DiscountAmount: s.discount,
		TaxAmount:      s.tax,
		GrandTotal:     s.subtotal.Sub(s.discount).Add(s.tax),
		ItemCount:      len(a.lines),
	}, nil
}
