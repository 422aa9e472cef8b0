package repository

import (
	"context"

	"github.com/jhoicas/ledger-api/internal/domain/entity"
)

// InvoiceRepository define el puerto de persistencia para Invoice.
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *entity.Invoice) error
	GetByID(ctx context.Context, id string) (*entity.Invoice, error)
	// GetForUpdate bloquea la fila de la factura: serializa pagos concurrentes sobre la misma factura.
	GetForUpdate(ctx context.Context, id string) (*entity.Invoice, error)
	GetByDocumentID(ctx context.Context, documentID string) (*entity.Invoice, error)
	UpdateStatus(ctx context.Context, id, status string) error
	// ListOpen facturas de la empresa y tipo con estado distinto de paid.
	ListOpen(ctx context.Context, companyID, kind string) ([]*entity.Invoice, error)
}

// PaymentRepository pagos de facturas (solo inserción).
type PaymentRepository interface {
	// Create devuelve domain.ErrDuplicate si la clave de idempotencia ya existe.
	Create(ctx context.Context, payment *entity.Payment) error
	ListByInvoice(ctx context.Context, invoiceID string) ([]*entity.Payment, error)
	GetByIdempotencyKey(ctx context.Context, companyID, key string) (*entity.Payment, error)
}
