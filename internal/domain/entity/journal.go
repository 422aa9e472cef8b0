package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Origen de un asiento.
const (
	JournalSourceManual  = "manual"
	JournalSourceInvoice = "invoice"
	JournalSourcePayment = "payment"
)

// JournalEntry cabecera de un asiento contable. Solo se persisten asientos balanceados.
type JournalEntry struct {
	ID          string
	CompanyID   string
	Date        time.Time
	Description string
	Source      string
	SourceID    string // factura o pago que originó el asiento
	TotalDebit  decimal.Decimal
	TotalCredit decimal.Decimal
	CreatedBy   string
	CreatedAt   time.Time
	Rows        []JournalRow
}

// JournalRow movimiento de una cuenta: exactamente uno de Debit/Credit es distinto de cero.
type JournalRow struct {
	ID        string
	EntryID   string
	Position  int
	AccountID string
	Debit     decimal.Decimal
	Credit    decimal.Decimal
	Memo      string
}
