package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/ledger-api/internal/domain/entity"
)

// AccountRepository define el puerto de persistencia del plan de cuentas.
type AccountRepository interface {
	Create(ctx context.Context, account *entity.Account) error
	GetByID(ctx context.Context, id string) (*entity.Account, error)
	GetByCode(ctx context.Context, companyID, code string) (*entity.Account, error)
	// ListByCompany devuelve las cuentas ordenadas por código.
	ListByCompany(ctx context.Context, companyID string) ([]*entity.Account, error)
	// AddTotals suma debit/credit a los acumulados de la cuenta (total = total + delta).
	AddTotals(ctx context.Context, id string, debit, credit decimal.Decimal) error
	HasChildren(ctx context.Context, id string) (bool, error)
	HasPostings(ctx context.Context, id string) (bool, error)
	Delete(ctx context.Context, id string) error
}
