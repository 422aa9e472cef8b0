package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/ledger-api/internal/domain"
	"github.com/jhoicas/ledger-api/internal/domain/entity"
	"github.com/jhoicas/ledger-api/internal/domain/repository"
)

var _ repository.DocumentRepository = (*DocumentRepo)(nil)

// DocumentRepo órdenes de venta/compra: documents + document_items.
type DocumentRepo struct {
	q Querier
}

// NewDocumentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewDocumentRepository(q Querier) *DocumentRepo {
	return &DocumentRepo{q: q}
}

const documentColumns = `id, company_id, kind, party_id, number, order_date, due_date, status, currency,
	total_amount, discount_amount, tax_amount, grand_total, notes, created_by, created_at, updated_at`

func (r *DocumentRepo) Create(ctx context.Context, doc *entity.Document) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO documents (`+documentColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`,
		doc.ID, doc.CompanyID, doc.Kind, doc.PartyID, doc.Number, doc.OrderDate, doc.DueDate, doc.Status, doc.Currency,
		doc.TotalAmount, doc.DiscountAmount, doc.TaxAmount, doc.GrandTotal, doc.Notes,
		nullIfEmpty(doc.CreatedBy), doc.CreatedAt, doc.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return storageErr("insert document", err)
	}
	return r.insertItems(ctx, doc)
}

func (r *DocumentRepo) insertItems(ctx context.Context, doc *entity.Document) error {
	for _, it := range doc.Items {
		_, err := r.q.Exec(ctx, `
			INSERT INTO document_items (id, document_id, position, product_id, description, quantity, unit_price,
				discount, tax_rate, subtotal, taxable_amount, tax_amount, line_total)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
			it.ID, doc.ID, it.Position, nullIfEmpty(it.ProductID), it.Description, it.Quantity, it.UnitPrice,
			it.Discount, it.TaxRate, it.Subtotal, it.TaxableAmount, it.TaxAmount, it.LineTotal,
		)
		if err != nil {
			return storageErr("insert document item", err)
		}
	}
	return nil
}

func (r *DocumentRepo) GetByID(ctx context.Context, id string) (*entity.Document, error) {
	return r.get(ctx, `SELECT `+documentColumns+` FROM documents WHERE id = $1`, id)
}

// GetForUpdate bloquea la fila del documento hasta el fin de la transacción.
func (r *DocumentRepo) GetForUpdate(ctx context.Context, id string) (*entity.Document, error) {
	return r.get(ctx, `SELECT `+documentColumns+` FROM documents WHERE id = $1 FOR UPDATE`, id)
}

func (r *DocumentRepo) get(ctx context.Context, query, id string) (*entity.Document, error) {
	var (
		d         entity.Document
		createdBy *string
	)
	err := r.q.QueryRow(ctx, query, id).Scan(
		&d.ID, &d.CompanyID, &d.Kind, &d.PartyID, &d.Number, &d.OrderDate, &d.DueDate, &d.Status, &d.Currency,
		&d.TotalAmount, &d.DiscountAmount, &d.TaxAmount, &d.GrandTotal, &d.Notes, &createdBy, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, storageErr("get document", err)
	}
	d.CreatedBy = deref(createdBy)

	rows, err := r.q.Query(ctx, `
		SELECT id, document_id, position, product_id, description, quantity, unit_price,
			discount, tax_rate, subtotal, taxable_amount, tax_amount, line_total
		FROM document_items WHERE document_id = $1 ORDER BY position`, id)
	if err != nil {
		return nil, storageErr("get document items", err)
	}
	d.Items, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.DocumentItem, error) {
		var (
			it        entity.DocumentItem
			productID *string
		)
		err := row.Scan(&it.ID, &it.DocumentID, &it.Position, &productID, &it.Description, &it.Quantity, &it.UnitPrice,
			&it.Discount, &it.TaxRate, &it.Subtotal, &it.TaxableAmount, &it.TaxAmount, &it.LineTotal)
		it.ProductID = deref(productID)
		return it, err
	})
	if err != nil {
		return nil, storageErr("scan document items", err)
	}
	return &d, nil
}

// Update reescribe cabecera y líneas (las líneas se reemplazan completas).
func (r *DocumentRepo) Update(ctx context.Context, doc *entity.Document) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE documents SET status = $2, total_amount = $3, discount_amount = $4, tax_amount = $5,
			grand_total = $6, notes = $7, updated_at = $8
		WHERE id = $1`,
		doc.ID, doc.Status, doc.TotalAmount, doc.DiscountAmount, doc.TaxAmount, doc.GrandTotal, doc.Notes, doc.UpdatedAt,
	)
	if err != nil {
		return storageErr("update document", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM document_items WHERE document_id = $1`, doc.ID); err != nil {
		return storageErr("delete document items", err)
	}
	return r.insertItems(ctx, doc)
}
