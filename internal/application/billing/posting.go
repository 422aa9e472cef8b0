package billing

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/ledger-api/internal/domain"
	"github.com/jhoicas/ledger-api/internal/domain/ledger"
	"github.com/jhoicas/ledger-api/internal/domain/repository"
)

type posting struct {
	code   string
	debit  decimal.Decimal
	credit decimal.Decimal
}

// postingRows resuelve los códigos a cuentas de la empresa. Las filas en cero se omiten.
func postingRows(ctx context.Context, accounts repository.AccountRepository, companyID string, ps ...posting) ([]ledger.JournalRowInput, error) {
	rows := make([]ledger.JournalRowInput, 0, len(ps))
	for _, p := range ps {
		if p.debit.IsZero() && p.credit.IsZero() {
			continue
		}
		acc, err := accounts.GetByCode(ctx, companyID, p.code)
		if err != nil {
			return nil, err
		}
		if acc == nil {
			return nil, fmt.Errorf("%w: la cuenta contable %s no existe en el plan", domain.ErrNotFound, p.code)
		}
		rows = append(rows, ledger.JournalRowInput{AccountID: acc.ID, Debit: p.debit, Credit: p.credit})
	}
	return rows, nil
}
