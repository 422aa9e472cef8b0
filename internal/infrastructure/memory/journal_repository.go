package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/ledger-api/internal/domain"
	"github.com/jhoicas/ledger-api/internal/domain/entity"
	"github.com/jhoicas/ledger-api/internal/domain/repository"
)

var _ repository.JournalRepository = (*JournalRepo)(nil)

// JournalRepo libro diario en memoria.
type JournalRepo struct{ a access }

func (r *JournalRepo) Create(_ context.Context, e *entity.JournalEntry) error {
	return r.a.with(func(st *state) error {
		if _, ok := st.entries[e.ID]; ok {
			return domain.ErrDuplicate
		}
		cp := *e
		cp.Rows = append([]entity.JournalRow(nil), e.Rows...)
		st.entries[e.ID] = cp
		st.entryIDs = append(st.entryIDs, e.ID)
		return nil
	})
}

func (r *JournalRepo) GetByID(_ context.Context, id string) (*entity.JournalEntry, error) {
	var out *entity.JournalEntry
	err := r.a.with(func(st *state) error {
		if e, ok := st.entries[id]; ok {
			e.Rows = append([]entity.JournalRow(nil), e.Rows...)
			out = &e
		}
		return nil
	})
	return out, err
}

func (r *JournalRepo) ListByCompany(_ context.Context, companyID string, f repository.JournalFilter) ([]*entity.JournalEntry, error) {
	var all []*entity.JournalEntry
	err := r.a.with(func(st *state) error {
		for _, id := range st.entryIDs {
			e := st.entries[id]
			if e.CompanyID != companyID {
				continue
			}
			if f.Source != "" && e.Source != f.Source {
				continue
			}
			if f.From != nil && e.Date.Before(*f.From) {
				continue
			}
			if f.To != nil && e.Date.After(*f.To) {
				continue
			}
			e.Rows = nil
			all = append(all, &e)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].Date.After(all[j].Date) })
	if f.Offset >= len(all) {
		return nil, nil
	}
	all = all[f.Offset:]
	if f.Limit > 0 && f.Limit < len(all) {
		all = all[:f.Limit]
	}
	return all, nil
}
