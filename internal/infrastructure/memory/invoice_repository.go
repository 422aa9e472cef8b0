package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/ledger-api/internal/domain"
	"github.com/jhoicas/ledger-api/internal/domain/entity"
	"github.com/jhoicas/ledger-api/internal/domain/repository"
)

var (
	_ repository.InvoiceRepository = (*InvoiceRepo)(nil)
	_ repository.PaymentRepository = (*PaymentRepo)(nil)
)

// InvoiceRepo facturas en memoria.
type InvoiceRepo struct{ a access }

func (r *InvoiceRepo) Create(_ context.Context, inv *entity.Invoice) error {
	return r.a.with(func(st *state) error {
		for _, existing := range st.invoices {
			if existing.ID == inv.ID || existing.DocumentID == inv.DocumentID {
				return domain.ErrDuplicate
			}
		}
		st.invoices[inv.ID] = *inv
		return nil
	})
}

func (r *InvoiceRepo) GetByID(_ context.Context, id string) (*entity.Invoice, error) {
	var out *entity.Invoice
	err := r.a.with(func(st *state) error {
		if inv, ok := st.invoices[id]; ok {
			out = &inv
		}
		return nil
	})
	return out, err
}

// GetForUpdate equivale a GetByID: el mutex del Store serializa las transacciones.
func (r *InvoiceRepo) GetForUpdate(ctx context.Context, id string) (*entity.Invoice, error) {
	return r.GetByID(ctx, id)
}

func (r *InvoiceRepo) GetByDocumentID(_ context.Context, documentID string) (*entity.Invoice, error) {
	var out *entity.Invoice
	err := r.a.with(func(st *state) error {
		for _, inv := range st.invoices {
			if inv.DocumentID == documentID {
				inv := inv
				out = &inv
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *InvoiceRepo) UpdateStatus(_ context.Context, id, status string) error {
	return r.a.with(func(st *state) error {
		inv, ok := st.invoices[id]
		if !ok {
			return domain.ErrNotFound
		}
		inv.Status = status
		st.invoices[id] = inv
		return nil
	})
}

func (r *InvoiceRepo) ListOpen(_ context.Context, companyID, kind string) ([]*entity.Invoice, error) {
	var out []*entity.Invoice
	err := r.a.with(func(st *state) error {
		for _, inv := range st.invoices {
			if inv.CompanyID == companyID && inv.Kind == kind && inv.Status != entity.InvoicePaid {
				inv := inv
				out = append(out, &inv)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].DueDate.Before(out[j].DueDate) })
	return out, err
}

// PaymentRepo pagos en memoria.
type PaymentRepo struct{ a access }

func (r *PaymentRepo) Create(_ context.Context, p *entity.Payment) error {
	return r.a.with(func(st *state) error {
		if p.IdempotencyKey != "" {
			for _, list := range st.payments {
				for _, existing := range list {
					if existing.CompanyID == p.CompanyID && existing.IdempotencyKey == p.IdempotencyKey {
						return domain.ErrDuplicate
					}
				}
			}
		}
		st.payments[p.InvoiceID] = append(st.payments[p.InvoiceID], *p)
		return nil
	})
}

func (r *PaymentRepo) ListByInvoice(_ context.Context, invoiceID string) ([]*entity.Payment, error) {
	var out []*entity.Payment
	err := r.a.with(func(st *state) error {
		for _, p := range st.payments[invoiceID] {
			p := p
			out = append(out, &p)
		}
		return nil
	})
	return out, err
}

func (r *PaymentRepo) GetByIdempotencyKey(_ context.Context, companyID, key string) (*entity.Payment, error) {
	var out *entity.Payment
	err := r.a.with(func(st *state) error {
		for _, list := range st.payments {
			for _, p := range list {
				if p.CompanyID == companyID && p.IdempotencyKey == key {
					p := p
					out = &p
					return nil
				}
			}
		}
		return nil
	})
	return out, err
}
