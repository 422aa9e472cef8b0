// Package accounting contiene los casos de uso del plan de cuentas y del libro diario.
package accounting

import (
	"context"
	"time"

	"github.com/jhoicas/ledger-api/internal/domain/ledger"
	"github.com/jhoicas/ledger-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción con todos los repos del libro.
type TxRunner interface {
	RunLedger(ctx context.Context, fn func(repos repository.TxRepos) error) error
}

// EntryDraft asiento por registrar (manual o generado por facturación y pagos).
type EntryDraft struct {
	CompanyID   string
	CreatedBy   string
	Date        time.Time
	Description string
	Source      string
	SourceID    string
	Rows        []ledger.JournalRowInput
}
