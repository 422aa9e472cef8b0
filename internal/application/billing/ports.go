package billing

import (
	"context"

	"github.com/jhoicas/ledger-api/internal/application/accounting"
	"github.com/jhoicas/ledger-api/internal/domain/entity"
	"github.com/jhoicas/ledger-api/internal/domain/money"
	"github.com/jhoicas/ledger-api/internal/domain/repository"
	"github.com/jhoicas/ledger-api/internal/domain/settlement"
)

// BillingTxRunner ejecuta una función dentro de una transacción con los repos de documentos, facturas y libro.
type BillingTxRunner interface {
	RunLedger(ctx context.Context, fn func(repos repository.TxRepos) error) error
}

// JournalPoster registra el asiento espejo de una factura o pago.
// PostInTx usa los repositorios del caller (misma transacción); si retorna error el caller hace rollback.
type JournalPoster interface {
	PostInTx(ctx context.Context, repos repository.TxRepos, draft accounting.EntryDraft) (*entity.JournalEntry, error)
}

// IdempotencyStore reserva claves de idempotencia de RecordPayment.
//
// Reserve devuelve (resultado, true, nil) si la clave ya se completó, domain.ErrInProgress si
// otra petición la tiene reservada, y (nil, false, nil) si quedó reservada para el caller.
type IdempotencyStore interface {
	Reserve(ctx context.Context, key string) ([]byte, bool, error)
	Complete(ctx context.Context, key string, result []byte) error
	Release(ctx context.Context, key string) error
}

// PostingAccounts códigos del plan de cuentas usados por los asientos automáticos.
type PostingAccounts struct {
	Receivable    string // cuentas por cobrar (clientes)
	Payable       string // cuentas por pagar (proveedores)
	Sales         string
	Purchases     string
	TaxPayable    string // IVA generado
	TaxReceivable string // IVA descontable
	Cash          string
	Bank          string
}

// DefaultPostingAccounts códigos por defecto (PUC Colombia), coinciden con cmd/seed_accounts.
func DefaultPostingAccounts() PostingAccounts {
	return PostingAccounts{
		Receivable:    "1305",
		Payable:       "2205",
		Sales:         "4135",
		Purchases:     "6135",
		TaxPayable:    "2408",
		TaxReceivable: "1355",
		Cash:          "1105",
		Bank:          "1110",
	}
}

// StatementData datos de un estado de cuenta de factura.
type StatementData struct {
	CompanyName string
	Currency    money.Currency
	Invoice     *entity.Invoice
	Party       *entity.Party
	Document    *entity.Document
	Payments    []*entity.Payment
	State       settlement.State
	Status      settlement.Status // incluye overdue
}

// StatementPDFGenerator genera el PDF del estado de cuenta.
type StatementPDFGenerator interface {
	GenerateStatementPDF(ctx context.Context, data StatementData) ([]byte, error)
}
