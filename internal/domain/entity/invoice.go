package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de pago persistidos. overdue no se guarda: se deriva en cada lectura.
const (
	InvoiceUnpaid  = "unpaid"
	InvoicePartial = "partial"
	InvoicePaid    = "paid"
)

// Invoice factura emitida (venta) o recibida (compra) a partir de un documento confirmado.
// GrandTotal queda congelado al facturar; lo pagado y el saldo se derivan de los pagos.
type Invoice struct {
	ID             string
	CompanyID      string
	DocumentID     string
	Kind           string // sales | purchase
	PartyID        string
	Number         string
	Date           time.Time
	DueDate        time.Time
	Currency       string
	NetTotal       decimal.Decimal
	TaxTotal       decimal.Decimal
	GrandTotal     decimal.Decimal
	Status         string
	JournalEntryID string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Medios de pago aceptados.
const (
	PaymentCash         = "cash"
	PaymentBankTransfer = "bank_transfer"
	PaymentCard         = "card"
	PaymentCheque       = "cheque"
	PaymentOnline       = "online"
)

// ValidPaymentMethod indica si m es un medio de pago conocido.
func ValidPaymentMethod(m string) bool {
	switch m {
	case PaymentCash, PaymentBankTransfer, PaymentCard, PaymentCheque, PaymentOnline:
		return true
	}
	return false
}

// Payment pago registrado contra una factura. Solo se agregan, nunca se editan.
type Payment struct {
	ID             string
	CompanyID      string
	InvoiceID      string
	Amount         decimal.Decimal
	Method         string
	Date           time.Time
	Reference      string
	IdempotencyKey string
	JournalEntryID string
	CreatedBy      string
	CreatedAt      time.Time
}
