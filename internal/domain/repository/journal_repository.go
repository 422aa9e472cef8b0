package repository

import (
	"context"
	"time"

	"github.com/jhoicas/ledger-api/internal/domain/entity"
)

// JournalFilter filtros de listado de asientos.
type JournalFilter struct {
	From   *time.Time
	To     *time.Time
	Source string
	Limit  int
	Offset int
}

// JournalRepository persiste asientos con sus filas.
type JournalRepository interface {
	// Create guarda cabecera y filas; debe ejecutarse dentro de una transacción.
	Create(ctx context.Context, entry *entity.JournalEntry) error
	GetByID(ctx context.Context, id string) (*entity.JournalEntry, error)
	ListByCompany(ctx context.Context, companyID string, f JournalFilter) ([]*entity.JournalEntry, error)
}
