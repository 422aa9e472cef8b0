package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/ledger-api/internal/domain/money"
	"github.com/jhoicas/ledger-api/internal/domain/settlement"
)

// CreatePartyRequest body para POST /api/customers y POST /api/suppliers.
type CreatePartyRequest struct {
	Name  string `json:"name" validate:"required,min=1,max=200"`
	TaxID string `json:"tax_id" validate:"required,min=1,max=30"`
	Email string `json:"email,omitempty" validate:"omitempty,email"`
	Phone string `json:"phone,omitempty" validate:"omitempty,max=30"`
}

// PartyResponse cliente o proveedor en respuestas.
type PartyResponse struct {
	ID        string `json:"id"`
	CompanyID string `json:"company_id"`
	Kind      string `json:"kind"`
	Name      string `json:"name"`
	TaxID     string `json:"tax_id"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

// DocumentItemRequest línea de documento. UnitPrice y TaxRate nulos toman los del producto.
type DocumentItemRequest struct {
	ProductID   string              `json:"product_id,omitempty" validate:"omitempty,uuid"`
	Description string              `json:"description,omitempty" validate:"max=500"`
	Quantity    decimal.Decimal     `json:"quantity"`
	UnitPrice   decimal.NullDecimal `json:"unit_price"`
	Discount    decimal.Decimal     `json:"discount"`
	TaxRate     decimal.NullDecimal `json:"tax_rate"`
}

// CreateDocumentRequest body para POST /api/documents.
type CreateDocumentRequest struct {
	Kind      string                `json:"kind" validate:"required,oneof=sales purchase"`
	PartyID   string                `json:"party_id" validate:"required"`
	Number    string                `json:"number,omitempty" validate:"max=50"`
	OrderDate string                `json:"order_date,omitempty"`
	DueDate   string                `json:"due_date,omitempty"`
	Notes     string                `json:"notes,omitempty" validate:"max=1000"`
	Items     []DocumentItemRequest `json:"items" validate:"dive"`
}

// DocumentItemResponse línea con valores derivados.
type DocumentItemResponse struct {
	Position      int             `json:"position"`
	ProductID     string          `json:"product_id,omitempty"`
	Description   string          `json:"description,omitempty"`
	Quantity      decimal.Decimal `json:"quantity"`
	UnitPrice     money.Money     `json:"unit_price"`
	Discount      money.Money     `json:"discount"`
	TaxRate       decimal.Decimal `json:"tax_rate"`
	Subtotal      money.Money     `json:"subtotal"`
	TaxableAmount money.Money     `json:"taxable_amount"`
	TaxAmount     money.Money     `json:"tax_amount"`
	LineTotal     money.Money     `json:"line_total"`
}

// DocumentResponse orden de venta o compra.
type DocumentResponse struct {
	ID        string                 `json:"id"`
	Kind      string                 `json:"kind"`
	PartyID   string                 `json:"party_id"`
	Number    string                 `json:"number"`
	OrderDate string                 `json:"order_date"`
	DueDate   string                 `json:"due_date,omitempty"`
	Status    string                 `json:"status"`
	Notes     string                 `json:"notes,omitempty"`
	Totals    TotalsResponse         `json:"totals"`
	Items     []DocumentItemResponse `json:"items"`
}

// InvoiceDocumentRequest body para POST /api/documents/:id/invoice.
type InvoiceDocumentRequest struct {
	Number string `json:"number,omitempty" validate:"max=50"`
	Date   string `json:"date,omitempty"`
}

// PaymentResponse pago registrado.
type PaymentResponse struct {
	ID             string      `json:"id"`
	InvoiceID      string      `json:"invoice_id"`
	Amount         money.Money `json:"amount"`
	Method         string      `json:"method"`
	Date           string      `json:"date"`
	Reference      string      `json:"reference,omitempty"`
	JournalEntryID string      `json:"journal_entry_id,omitempty"`
	CreatedAt      time.Time   `json:"created_at"`
}

// InvoiceResponse factura con su estado de pago derivado en la lectura.
type InvoiceResponse struct {
	ID             string            `json:"id"`
	DocumentID     string            `json:"document_id"`
	Kind           string            `json:"kind"`
	PartyID        string            `json:"party_id"`
	PartyName      string            `json:"party_name,omitempty"`
	Number         string            `json:"number"`
	Date           string            `json:"date"`
	DueDate        string            `json:"due_date,omitempty"`
	Currency       string            `json:"currency"`
	NetTotal       money.Money       `json:"net_total"`
	TaxTotal       money.Money       `json:"tax_total"`
	GrandTotal     money.Money       `json:"grand_total"`
	PaidAmount     money.Money       `json:"paid_amount"`
	BalanceDue     money.Money       `json:"balance_due"`
	Status         settlement.Status `json:"status"` // unpaid | partial | paid
	Overdue        bool              `json:"overdue"`
	DisplayStatus  settlement.Status `json:"display_status"` // status, u overdue si está vencida
	JournalEntryID string            `json:"journal_entry_id,omitempty"`
	Payments       []PaymentResponse `json:"payments,omitempty"`
}

// RecordPaymentRequest body para POST /api/invoices/:id/payments.
// IdempotencyKey también puede llegar en el header Idempotency-Key.
type RecordPaymentRequest struct {
	Amount         decimal.Decimal `json:"amount"`
	Method         string          `json:"method" validate:"required,oneof=cash bank_transfer card cheque online"`
	Date           string          `json:"date,omitempty"`
	Reference      string          `json:"reference,omitempty" validate:"max=100"`
	IdempotencyKey string          `json:"idempotency_key,omitempty" validate:"max=100"`
}

// RecordPaymentResponse pago y estado resultante de la factura.
type RecordPaymentResponse struct {
	Payment    PaymentResponse   `json:"payment"`
	PaidAmount money.Money       `json:"paid_amount"`
	BalanceDue money.Money       `json:"balance_due"`
	Status     settlement.Status `json:"status"`
	Replayed   bool              `json:"replayed,omitempty"`
}

// AgingRequest query de GET /api/invoices/aging.
type AgingRequest struct {
	Kind string `query:"kind" validate:"omitempty,oneof=sales purchase"`
	AsOf string `query:"as_of"`
}

// AgingResponse antigüedad de saldos por cobrar (sales) o por pagar (purchase).
type AgingResponse struct {
	Kind     string                  `json:"kind"`
	AsOf     string                  `json:"as_of"`
	Currency string                  `json:"currency"`
	Buckets  settlement.AgingBuckets `json:"buckets"`
}
