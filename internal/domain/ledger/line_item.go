// Package ledger contiene los cálculos puros del motor: líneas de documento,
// agregación de totales y validación de partida doble.
package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/ledger-api/internal/domain"
	"github.com/jhoicas/ledger-api/internal/domain/money"
)

// LineInput entrada cruda de una línea (tal como llega del formulario o del API).
type LineInput struct {
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
	Discount  decimal.Decimal
	TaxRate   decimal.Decimal // porcentaje 0-100
}

// LineResult valores derivados de una línea.
//
//	subtotal       = unit_price × quantity
//	taxable_amount = subtotal − discount
//	tax_amount     = taxable_amount × tax_rate / 100
//	line_total     = taxable_amount + tax_amount
type LineResult struct {
	Quantity      decimal.Decimal
	UnitPrice     money.Money
	TaxRate       decimal.Decimal
	Subtotal      money.Money
	Discount      money.Money
	TaxableAmount money.Money
	TaxAmount     money.Money
	LineTotal     money.Money
}

// ComputeLineItem calcula la línea. Función pura: se puede invocar en cada edición del usuario.
func ComputeLineItem(cur money.Currency, in LineInput) (LineResult, error) {
	return computeLine(cur, "", in)
}

func computeLine(cur money.Currency, prefix string, in LineInput) (LineResult, error) {
	if err := money.ValidateQuantity(prefix+"quantity", in.Quantity); err != nil {
		return LineResult{}, err
	}
	if err := money.ValidateUnitPrice(prefix+"unit_price", in.UnitPrice); err != nil {
		return LineResult{}, err
	}
	if err := money.ValidateDiscount(prefix+"discount", in.Discount); err != nil {
		return LineResult{}, err
	}
	if err := money.ValidateTaxRate(prefix+"tax_rate", in.TaxRate); err != nil {
		return LineResult{}, err
	}

	unitPrice, err := cur.FromDecimalChecked(prefix+"unit_price", in.UnitPrice)
	if err != nil {
		return LineResult{}, err
	}
	subtotal, err := cur.FromDecimalChecked(prefix+"subtotal", in.UnitPrice.Mul(in.Quantity))
	if err != nil {
		return LineResult{}, err
	}
	discount, err := cur.FromDecimalChecked(prefix+"discount", in.Discount)
	if err != nil {
		return LineResult{}, err
	}
	if discount.GreaterThan(subtotal) {
		return LineResult{}, domain.NewValidationError(domain.KindDiscountExceedsSubtotal, prefix+"discount").
			WithValue(discount.Decimal()).
			WithLimit(subtotal.Decimal()).
			WithPlaces(cur.Exponent)
	}
	taxable := subtotal.Sub(discount)
	tax := taxable.Percent(in.TaxRate)
	total, err := taxable.AddChecked(prefix+"line_total", tax)
	if err != nil {
		return LineResult{}, err
	}

	return LineResult{
		Quantity:      in.Quantity,
		UnitPrice:     unitPrice,
		TaxRate:       in.TaxRate,
		Subtotal:      subtotal,
		Discount:      discount,
		TaxableAmount: taxable,
		TaxAmount:     tax,
		LineTotal:     total,
	}, nil
}

func itemPrefix(i int) string { return fmt.Sprintf("items[%d].", i) }
