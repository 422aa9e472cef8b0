package memory

import (
	"context"

	"github.com/jhoicas/ledger-api/internal/domain"
	"github.com/jhoicas/ledger-api/internal/domain/entity"
	"github.com/jhoicas/ledger-api/internal/domain/repository"
)

var _ repository.DocumentRepository = (*DocumentRepo)(nil)

// DocumentRepo órdenes de venta y compra en memoria.
type DocumentRepo struct{ a access }

func copyDocument(d entity.Document) *entity.Document {
	d.Items = append([]entity.DocumentItem(nil), d.Items...)
	return &d
}

func (r *DocumentRepo) Create(_ context.Context, doc *entity.Document) error {
	return r.a.with(func(st *state) error {
		if _, ok := st.documents[doc.ID]; ok {
			return domain.ErrDuplicate
		}
		st.documents[doc.ID] = *copyDocument(*doc)
		return nil
	})
}

func (r *DocumentRepo) GetByID(_ context.Context, id string) (*entity.Document, error) {
	var out *entity.Document
	err := r.a.with(func(st *state) error {
		if d, ok := st.documents[id]; ok {
			out = copyDocument(d)
		}
		return nil
	})
	return out, err
}

// GetForUpdate equivale a GetByID: la transacción ya tiene el estado en exclusiva.
func (r *DocumentRepo) GetForUpdate(ctx context.Context, id string) (*entity.Document, error) {
	return r.GetByID(ctx, id)
}

func (r *DocumentRepo) Update(_ context.Context, doc *entity.Document) error {
	return r.a.with(func(st *state) error {
		if _, ok := st.documents[doc.ID]; !ok {
			return domain.ErrNotFound
		}
		st.documents[doc.ID] = *copyDocument(*doc)
		return nil
	})
}
