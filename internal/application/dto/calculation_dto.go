package dto

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/ledger-api/internal/domain/ledger"
	"github.com/jhoicas/ledger-api/internal/domain/money"
)

// LineItemRequest body para POST /api/calculations/line-item.
type LineItemRequest struct {
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Discount  decimal.Decimal `json:"discount"`
	TaxRate   decimal.Decimal `json:"tax_rate"` // porcentaje 0-100
}

// Input convierte el request a la entrada del calculador.
func (r LineItemRequest) Input() ledger.LineInput {
	return ledger.LineInput{Quantity: r.Quantity, UnitPrice: r.UnitPrice, Discount: r.Discount, TaxRate: r.TaxRate}
}

// LineItemResponse valores derivados de una línea.
type LineItemResponse struct {
	Quantity      decimal.Decimal `json:"quantity"`
	UnitPrice     money.Money     `json:"unit_price"`
	Discount      money.Money     `json:"discount"`
	TaxRate       decimal.Decimal `json:"tax_rate"`
	Subtotal      money.Money     `json:"subtotal"`
	TaxableAmount money.Money     `json:"taxable_amount"`
	TaxAmount     money.Money     `json:"tax_amount"`
	LineTotal     money.Money     `json:"line_total"`
}

// NewLineItemResponse mapea el resultado del calculador.
func NewLineItemResponse(l ledger.LineResult) LineItemResponse {
	return LineItemResponse{
		Quantity:      l.Quantity,
		UnitPrice:     l.UnitPrice,
		Discount:      l.Discount,
		TaxRate:       l.TaxRate,
		Subtotal:      l.Subtotal,
		TaxableAmount: l.TaxableAmount,
		TaxAmount:     l.TaxAmount,
		LineTotal:     l.LineTotal,
	}
}

// DocumentCalcRequest body para POST /api/calculations/document.
type DocumentCalcRequest struct {
	Items []LineItemRequest `json:"items"`
}

// TotalsResponse totales de un documento.
type TotalsResponse struct {
	Currency       string      `json:"currency"`
	TotalAmount    money.Money `json:"total_amount"`
	DiscountAmount money.Money `json:"discount_amount"`
	TaxAmount      money.Money `json:"tax_amount"`
	GrandTotal     money.Money `json:"grand_total"`
	ItemCount      int         `json:"item_count"`
}

// NewTotalsResponse mapea los totales del agregador.
func NewTotalsResponse(cur money.Currency, t ledger.Totals) TotalsResponse {
	return TotalsResponse{
		Currency:       cur.Code,
		TotalAmount:    t.TotalAmount,
		DiscountAmount: t.DiscountAmount,
		TaxAmount:      t.TaxAmount,
		GrandTotal:     t.GrandTotal,
		ItemCount:      t.ItemCount,
	}
}

// DocumentCalcResponse líneas calculadas y totales.
type DocumentCalcResponse struct {
	Items  []LineItemResponse `json:"items"`
	Totals TotalsResponse     `json:"totals"`
}
