package repository

import (
	"context"

	"github.com/jhoicas/ledger-api/internal/domain/entity"
)

// DocumentRepository persiste órdenes de venta y compra con sus líneas.
type DocumentRepository interface {
	Create(ctx context.Context, doc *entity.Document) error
	GetByID(ctx context.Context, id string) (*entity.Document, error)
	// GetForUpdate obtiene el documento y bloquea la fila (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.Document, error)
	// Update reescribe cabecera y líneas.
	Update(ctx context.Context, doc *entity.Document) error
}
