package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de documento: venta (cliente) y compra (proveedor). Ambos flujos comparten cálculo.
const (
	DocumentSales    = "sales"
	DocumentPurchase = "purchase"
)

// Estados del documento.
const (
	DocumentDraft     = "draft"
	DocumentConfirmed = "confirmed"
	DocumentInvoiced  = "invoiced" // solo lectura
	DocumentCancelled = "cancelled"
)

// Document orden de venta o de compra. Los totales se derivan siempre de las líneas.
type Document struct {
	ID             string
	CompanyID      string
	Kind           string
	PartyID        string
	Number         string
	OrderDate      time.Time
	DueDate        time.Time
	Status         string
	Currency       string
	TotalAmount    decimal.Decimal // Σ subtotal
	DiscountAmount decimal.Decimal
	TaxAmount      decimal.Decimal
	GrandTotal     decimal.Decimal
	Notes          string
	CreatedBy      string
	CreatedAt      time.Time
	UpdatedAt      time.Time
	Items          []DocumentItem
}

// DocumentItem línea de un documento con sus valores derivados.
type DocumentItem struct {
	ID            string
	DocumentID    string
	Position      int
	ProductID     string // opcional
	Description   string
	Quantity      decimal.Decimal
	UnitPrice     decimal.Decimal
	Discount      decimal.Decimal
	TaxRate       decimal.Decimal
	Subtotal      decimal.Decimal
	TaxableAmount decimal.Decimal
	TaxAmount     decimal.Decimal
	LineTotal     decimal.Decimal
}

// PartyKindFor tipo de tercero que exige el documento.
func PartyKindFor(documentKind string) string {
	if documentKind == DocumentPurchase {
		return PartySupplier
	}
	return PartyCustomer
}

// ValidDocumentKind indica si kind es sales o purchase.
func ValidDocumentKind(kind string) bool {
	return kind == DocumentSales || kind == DocumentPurchase
}

// Editable las líneas solo se modifican en borrador o confirmado.
func (d *Document) Editable() bool {
	return d.Status == DocumentDraft || d.Status == DocumentConfirmed
}
