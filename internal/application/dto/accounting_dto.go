package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/ledger-api/internal/domain/money"
)

// CreateAccountRequest body para POST /api/accounts.
type CreateAccountRequest struct {
	Code     string `json:"code" validate:"required,min=1,max=20"`
	Name     string `json:"name" validate:"required,min=1,max=200"`
	Type     string `json:"type" validate:"required,oneof=asset liability equity income expense"`
	ParentID string `json:"parent_id,omitempty" validate:"omitempty,uuid"`
}

// AccountResponse cuenta con acumulados (incluyen subcuentas).
type AccountResponse struct {
	ID          string      `json:"id"`
	Code        string      `json:"code"`
	Name        string      `json:"name"`
	Type        string      `json:"type"`
	ParentID    string      `json:"parent_id,omitempty"`
	Depth       int         `json:"depth"`
	DebitTotal  money.Money `json:"debit_total"`
	CreditTotal money.Money `json:"credit_total"`
	Balance     money.Money `json:"balance"`
}

// JournalRowRequest fila de un asiento manual.
type JournalRowRequest struct {
	AccountID string          `json:"account_id"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
	Memo      string          `json:"memo,omitempty" validate:"omitempty,max=250"`
}

// PostJournalEntryRequest body para POST /api/journal-entries (y /validate).
type PostJournalEntryRequest struct {
	Date        string              `json:"date,omitempty"` // YYYY-MM-DD; vacío = hoy
	Description string              `json:"description" validate:"max=500"`
	Rows        []JournalRowRequest `json:"rows" validate:"dive"`
}

// JournalValidationResponse resultado del dry-run.
type JournalValidationResponse struct {
	Balanced    bool        `json:"balanced"`
	TotalDebit  money.Money `json:"total_debit"`
	TotalCredit money.Money `json:"total_credit"`
	RowCount    int         `json:"row_count"`
}

// JournalRowResponse fila persistida.
type JournalRowResponse struct {
	Position    int         `json:"position"`
	AccountID   string      `json:"account_id"`
	AccountCode string      `json:"account_code,omitempty"`
	Debit       money.Money `json:"debit"`
	Credit      money.Money `json:"credit"`
	Memo        string      `json:"memo,omitempty"`
}

// JournalEntryResponse asiento con sus filas.
type JournalEntryResponse struct {
	ID          string               `json:"id"`
	Date        string               `json:"date"`
	Description string               `json:"description"`
	Source      string               `json:"source"`
	SourceID    string               `json:"source_id,omitempty"`
	TotalDebit  money.Money          `json:"total_debit"`
	TotalCredit money.Money          `json:"total_credit"`
	CreatedBy   string               `json:"created_by,omitempty"`
	CreatedAt   time.Time            `json:"created_at"`
	Rows        []JournalRowResponse `json:"rows,omitempty"`
}

// ListJournalRequest filtros de GET /api/journal-entries.
type ListJournalRequest struct {
	PageRequest
	From   string `query:"from"`
	To     string `query:"to"`
	Source string `query:"source" validate:"omitempty,oneof=manual invoice payment"`
}
