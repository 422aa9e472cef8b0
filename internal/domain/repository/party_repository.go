package repository

import (
	"context"

	"github.com/jhoicas/ledger-api/internal/domain/entity"
)

// PartyRepository define el puerto de persistencia para clientes y proveedores.
// Los Get devuelven (nil, nil) cuando no existe el registro.
type PartyRepository interface {
	Create(ctx context.Context, party *entity.Party) error
	GetByID(ctx context.Context, id string) (*entity.Party, error)
	GetByCompanyAndTaxID(ctx context.Context, companyID, kind, taxID string) (*entity.Party, error)
	ListByCompany(ctx context.Context, companyID, kind string, limit, offset int) ([]*entity.Party, error)
}
