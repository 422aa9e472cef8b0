package memory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/ledger-api/internal/domain"
	"github.com/jhoicas/ledger-api/internal/domain/entity"
	"github.com/jhoicas/ledger-api/internal/domain/repository"
)

var _ repository.AccountRepository = (*AccountRepo)(nil)

// AccountRepo plan de cuentas en memoria.
type AccountRepo struct{ a access }

func (r *AccountRepo) Create(_ context.Context, acc *entity.Account) error {
	return r.a.with(func(st *state) error {
		for _, existing := range st.accounts {
			if existing.CompanyID == acc.CompanyID && existing.Code == acc.Code {
				return domain.ErrDuplicate
			}
		}
		st.accounts[acc.ID] = *acc
		return nil
	})
}

func (r *AccountRepo) GetByID(_ context.Context, id string) (*entity.Account, error) {
	var out *entity.Account
	err := r.a.with(func(st *state) error {
		if acc, ok := st.accounts[id]; ok {
			out = &acc
		}
		return nil
	})
	return out, err
}

func (r *AccountRepo) GetByCode(_ context.Context, companyID, code string) (*entity.Account, error) {
	var out *entity.Account
	err := r.a.with(func(st *state) error {
		for _, acc := range st.accounts {
			if acc.CompanyID == companyID && acc.Code == code {
				acc := acc
				out = &acc
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *AccountRepo) ListByCompany(_ context.Context, companyID string) ([]*entity.Account, error) {
	var out []*entity.Account
	err := r.a.with(func(st *state) error {
		for _, acc := range st.accounts {
			if acc.CompanyID == companyID {
				acc := acc
				out = append(out, &acc)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, err
}

func (r *AccountRepo) AddTotals(_ context.Context, id string, debit, credit decimal.Decimal) error {
	return r.a.with(func(st *state) error {
		acc, ok := st.accounts[id]
		if !ok {
			return domain.ErrNotFound
		}
		acc.DebitTotal = acc.DebitTotal.Add(debit)
		acc.CreditTotal = acc.CreditTotal.Add(credit)
		st.accounts[id] = acc
		return nil
	})
}

func (r *AccountRepo) HasChildren(_ context.Context, id string) (bool, error) {
	found := false
	err := r.a.with(func(st *state) error {
		for _, acc := range st.accounts {
			if acc.ParentID == id {
				found = true
				break
			}
		}
		return nil
	})
	return found, err
}

func (r *AccountRepo) HasPostings(_ context.Context, id string) (bool, error) {
	found := false
	err := r.a.with(func(st *state) error {
		for _, e := range st.entries {
			for _, row := range e.Rows {
				if row.AccountID == id {
					found = true
					return nil
				}
			}
		}
		return nil
	})
	return found, err
}

func (r *AccountRepo) Delete(_ context.Context, id string) error {
	return r.a.with(func(st *state) error {
		delete(st.accounts, id)
		return nil
	})
}
