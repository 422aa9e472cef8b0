package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/ledger-api/internal/domain"
	"github.com/jhoicas/ledger-api/internal/domain/entity"
	"github.com/jhoicas/ledger-api/internal/domain/repository"
)

var (
	_ repository.PartyRepository   = (*PartyRepo)(nil)
	_ repository.ProductRepository = (*ProductRepo)(nil)
)

// PartyRepo clientes y proveedores en memoria.
type PartyRepo struct{ a access }

func (r *PartyRepo) Create(_ context.Context, p *entity.Party) error {
	return r.a.with(func(st *state) error {
		for _, existing := range st.parties {
			if existing.CompanyID == p.CompanyID && existing.Kind == p.Kind && existing.TaxID == p.TaxID {
				return domain.ErrDuplicate
			}
		}
		st.parties[p.ID] = *p
		return nil
	})
}

func (r *PartyRepo) GetByID(_ context.Context, id string) (*entity.Party, error) {
	var out *entity.Party
	err := r.a.with(func(st *state) error {
		if p, ok := st.parties[id]; ok {
			out = &p
		}
		return nil
	})
	return out, err
}

func (r *PartyRepo) GetByCompanyAndTaxID(_ context.Context, companyID, kind, taxID string) (*entity.Party, error) {
	var out *entity.Party
	err := r.a.with(func(st *state) error {
		for _, p := range st.parties {
			if p.CompanyID == companyID && p.Kind == kind && p.TaxID == taxID {
				p := p
				out = &p
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *PartyRepo) ListByCompany(_ context.Context, companyID, kind string, limit, offset int) ([]*entity.Party, error) {
	var all []*entity.Party
	err := r.a.with(func(st *state) error {
		for _, p := range st.parties {
			if p.CompanyID == companyID && p.Kind == kind {
				p := p
				all = append(all, &p)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return page(all, limit, offset), nil
}

// ProductRepo catálogo en memoria.
type ProductRepo struct{ a access }

func (r *ProductRepo) Create(_ context.Context, p *entity.Product) error {
	return r.a.with(func(st *state) error {
		for _, existing := range st.products {
			if existing.CompanyID == p.CompanyID && existing.SKU == p.SKU {
				return domain.ErrDuplicate
			}
		}
		st.products[p.ID] = *p
		return nil
	})
}

func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	var out *entity.Product
	err := r.a.with(func(st *state) error {
		if p, ok := st.products[id]; ok {
			out = &p
		}
		return nil
	})
	return out, err
}

func (r *ProductRepo) GetByCompanyAndSKU(_ context.Context, companyID, sku string) (*entity.Product, error) {
	var out *entity.Product
	err := r.a.with(func(st *state) error {
		for _, p := range st.products {
			if p.CompanyID == companyID && p.SKU == sku {
				p := p
				out = &p
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *ProductRepo) ListByCompany(_ context.Context, companyID string, limit, offset int) ([]*entity.Product, error) {
	var all []*entity.Product
	err := r.a.with(func(st *state) error {
		for _, p := range st.products {
			if p.CompanyID == companyID {
				p := p
				all = append(all, &p)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return page(all, limit, offset), nil
}

func page[T any](all []T, limit, offset int) []T {
	if offset >= len(all) {
		return nil
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all
}
