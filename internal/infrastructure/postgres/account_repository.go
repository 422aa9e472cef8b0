package postgres

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/ledger-api/internal/domain"
	"github.com/jhoicas/ledger-api/internal/domain/entity"
	"github.com/jhoicas/ledger-api/internal/domain/repository"
)

var _ repository.AccountRepository = (*AccountRepo)(nil)

// AccountRepo plan de cuentas (usable con pool o tx).
type AccountRepo struct {
	q Querier
}

// NewAccountRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAccountRepository(q Querier) *AccountRepo {
	return &AccountRepo{q: q}
}

const accountColumns = `id, company_id, code, name, type, parent_id, debit_total, credit_total, created_at, updated_at`

func scanAccount(row interface{ Scan(...any) error }) (*entity.Account, error) {
	var (
		a      entity.Account
		parent *string
	)
	if err := row.Scan(&a.ID, &a.CompanyID, &a.Code, &a.Name, &a.Type, &parent,
		&a.DebitTotal, &a.CreditTotal, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	a.ParentID = deref(parent)
	return &a, nil
}

func (r *AccountRepo) Create(ctx context.Context, acc *entity.Account) error {
	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		acc.ID, acc.CompanyID, acc.Code, acc.Name, acc.Type, nullIfEmpty(acc.ParentID),
		acc.DebitTotal, acc.CreditTotal, acc.CreatedAt, acc.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return storageErr("insert account", err)
	}
	return nil
}

func (r *AccountRepo) GetByID(ctx context.Context, id string) (*entity.Account, error) {
	acc, err := scanAccount(r.q.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, storageErr("get account", err)
	}
	return acc, nil
}

func (r *AccountRepo) GetByCode(ctx context.Context, companyID, code string) (*entity.Account, error) {
	acc, err := scanAccount(r.q.QueryRow(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE company_id = $1 AND code = $2`, companyID, code))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, storageErr("get account by code", err)
	}
	return acc, nil
}

func (r *AccountRepo) ListByCompany(ctx context.Context, companyID string) ([]*entity.Account, error) {
	rows, err := r.q.Query(ctx, `SELECT `+accountColumns+` FROM accounts WHERE company_id = $1 ORDER BY code`, companyID)
	if err != nil {
		return nil, storageErr("list accounts", err)
	}
	defer rows.Close()
	var list []*entity.Account
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, storageErr("scan account", err)
		}
		list = append(list, acc)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list accounts", err)
	}
	return list, nil
}

// AddTotals incremento atómico en la misma fila: no se lee el acumulado previo.
func (r *AccountRepo) AddTotals(ctx context.Context, id string, debit, credit decimal.Decimal) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE accounts
		SET debit_total = debit_total + $2, credit_total = credit_total + $3, updated_at = NOW()
		WHERE id = $1`, id, debit, credit)
	if err != nil {
		return storageErr("update account totals", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *AccountRepo) HasChildren(ctx context.Context, id string) (bool, error) {
	var exists bool
	if err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM accounts WHERE parent_id = $1)`, id).Scan(&exists); err != nil {
		return false, storageErr("account children", err)
	}
	return exists, nil
}

func (r *AccountRepo) HasPostings(ctx context.Context, id string) (bool, error) {
	var exists bool
	if err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM journal_rows WHERE account_id = $1)`, id).Scan(&exists); err != nil {
		return false, storageErr("account postings", err)
	}
	return exists, nil
}

func (r *AccountRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM accounts WHERE id = $1`, id); err != nil {
		return storageErr("delete account", err)
	}
	return nil
}
