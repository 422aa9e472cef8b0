package postgres

import (
	"context"

	"github.com/jhoicas/ledger-api/internal/domain"
	"github.com/jhoicas/ledger-api/internal/domain/entity"
	"github.com/jhoicas/ledger-api/internal/domain/repository"
)

var (
	_ repository.InvoiceRepository = (*InvoiceRepo)(nil)
	_ repository.PaymentRepository = (*PaymentRepo)(nil)
)

// InvoiceRepo implementación de InvoiceRepository (usable con pool o tx).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

const invoiceColumns = `id, company_id, document_id, kind, party_id, number, invoice_date, due_date, currency,
	net_total, tax_total, grand_total, status, journal_entry_id, created_at, updated_at`

func scanInvoice(row interface{ Scan(...any) error }) (*entity.Invoice, error) {
	var (
		inv   entity.Invoice
		entry *string
	)
	if err := row.Scan(&inv.ID, &inv.CompanyID, &inv.DocumentID, &inv.Kind, &inv.PartyID, &inv.Number,
		&inv.Date, &inv.DueDate, &inv.Currency, &inv.NetTotal, &inv.TaxTotal, &inv.GrandTotal,
		&inv.Status, &entry, &inv.CreatedAt, &inv.UpdatedAt); err != nil {
		return nil, err
	}
	inv.JournalEntryID = deref(entry)
	return &inv, nil
}

func (r *InvoiceRepo) Create(ctx context.Context, inv *entity.Invoice) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO invoices (`+invoiceColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		inv.ID, inv.CompanyID, inv.DocumentID, inv.Kind, inv.PartyID, inv.Number, inv.Date, inv.DueDate, inv.Currency,
		inv.NetTotal, inv.TaxTotal, inv.GrandTotal, inv.Status, nullIfEmpty(inv.JournalEntryID), inv.CreatedAt, inv.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return storageErr("insert invoice", err)
	}
	return nil
}

func (r *InvoiceRepo) getOne(ctx context.Context, op, query string, arg any) (*entity.Invoice, error) {
	inv, err := scanInvoice(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, storageErr(op, err)
	}
	return inv, nil
}

func (r *InvoiceRepo) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	return r.getOne(ctx, "get invoice", `SELECT `+invoiceColumns+` FROM invoices WHERE id = $1`, id)
}

// GetForUpdate SELECT ... FOR UPDATE: un segundo pago sobre la misma factura espera el commit del primero.
func (r *InvoiceRepo) GetForUpdate(ctx context.Context, id string) (*entity.Invoice, error) {
	return r.getOne(ctx, "lock invoice", `SELECT `+invoiceColumns+` FROM invoices WHERE id = $1 FOR UPDATE`, id)
}

func (r *InvoiceRepo) GetByDocumentID(ctx context.Context, documentID string) (*entity.Invoice, error) {
	return r.getOne(ctx, "get invoice by document", `SELECT `+invoiceColumns+` FROM invoices WHERE document_id = $1`, documentID)
}

func (r *InvoiceRepo) UpdateStatus(ctx context.Context, id, status string) error {
	tag, err := r.q.Exec(ctx, `UPDATE invoices SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	if err != nil {
		return storageErr("update invoice status", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *InvoiceRepo) ListOpen(ctx context.Context, companyID, kind string) ([]*entity.Invoice, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+invoiceColumns+` FROM invoices
		WHERE company_id = $1 AND kind = $2 AND status <> $3
		ORDER BY due_date`, companyID, kind, entity.InvoicePaid)
	if err != nil {
		return nil, storageErr("list open invoices", err)
	}
	defer rows.Close()
	var list []*entity.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, storageErr("scan invoice", err)
		}
		list = append(list, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list open invoices", err)
	}
	return list, nil
}

// PaymentRepo pagos (solo inserción).
type PaymentRepo struct {
	q Querier
}

// NewPaymentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPaymentRepository(q Querier) *PaymentRepo {
	return &PaymentRepo{q: q}
}

const paymentColumns = `id, company_id, invoice_id, amount, method, payment_date, reference, idempotency_key,
	journal_entry_id, created_by, created_at`

func scanPayment(row interface{ Scan(...any) error }) (*entity.Payment, error) {
	var (
		p                     entity.Payment
		key, entry, createdBy *string
	)
	if err := row.Scan(&p.ID, &p.CompanyID, &p.InvoiceID, &p.Amount, &p.Method, &p.Date, &p.Reference,
		&key, &entry, &createdBy, &p.CreatedAt); err != nil {
		return nil, err
	}
	p.IdempotencyKey = deref(key)
	p.JournalEntryID = deref(entry)
	p.CreatedBy = deref(createdBy)
	return &p, nil
}

// Create el índice único parcial (company_id, idempotency_key) rechaza una clave repetida.
func (r *PaymentRepo) Create(ctx context.Context, p *entity.Payment) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO payments (`+paymentColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		p.ID, p.CompanyID, p.InvoiceID, p.Amount, p.Method, p.Date, p.Reference, nullIfEmpty(p.IdempotencyKey),
		nullIfEmpty(p.JournalEntryID), nullIfEmpty(p.CreatedBy), p.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return storageErr("insert payment", err)
	}
	return nil
}

func (r *PaymentRepo) ListByInvoice(ctx context.Context, invoiceID string) ([]*entity.Payment, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+paymentColumns+` FROM payments WHERE invoice_id = $1 ORDER BY created_at, id`, invoiceID)
	if err != nil {
		return nil, storageErr("list payments", err)
	}
	defer rows.Close()
	var list []*entity.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, storageErr("scan payment", err)
		}
		list = append(list, p)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list payments", err)
	}
	return list, nil
}

func (r *PaymentRepo) GetByIdempotencyKey(ctx context.Context, companyID, key string) (*entity.Payment, error) {
	p, err := scanPayment(r.q.QueryRow(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE company_id = $1 AND idempotency_key = $2`, companyID, key))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, storageErr("get payment by key", err)
	}
	return p, nil
}
