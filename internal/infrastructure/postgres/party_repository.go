package postgres

import (
	"context"

	"github.com/jhoicas/ledger-api/internal/domain"
	"github.com/jhoicas/ledger-api/internal/domain/entity"
	"github.com/jhoicas/ledger-api/internal/domain/repository"
)

var _ repository.PartyRepository = (*PartyRepo)(nil)

// PartyRepo clientes y proveedores (tabla parties, columna kind).
type PartyRepo struct {
	q Querier
}

// NewPartyRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPartyRepository(q Querier) *PartyRepo {
	return &PartyRepo{q: q}
}

const partyColumns = `id, company_id, kind, name, tax_id, email, phone, created_at, updated_at`

func scanParty(row interface{ Scan(...any) error }) (*entity.Party, error) {
	var p entity.Party
	if err := row.Scan(&p.ID, &p.CompanyID, &p.Kind, &p.Name, &p.TaxID, &p.Email, &p.Phone, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

// Create persiste un nuevo tercero.
func (r *PartyRepo) Create(ctx context.Context, p *entity.Party) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO parties (`+partyColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		p.ID, p.CompanyID, p.Kind, p.Name, p.TaxID, p.Email, p.Phone, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return storageErr("insert party", err)
	}
	return nil
}

// GetByID obtiene un tercero por ID.
func (r *PartyRepo) GetByID(ctx context.Context, id string) (*entity.Party, error) {
	p, err := scanParty(r.q.QueryRow(ctx, `SELECT `+partyColumns+` FROM parties WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, storageErr("get party", err)
	}
	return p, nil
}

// GetByCompanyAndTaxID obtiene un tercero por empresa, tipo y NIT/cédula.
func (r *PartyRepo) GetByCompanyAndTaxID(ctx context.Context, companyID, kind, taxID string) (*entity.Party, error) {
	p, err := scanParty(r.q.QueryRow(ctx,
		`SELECT `+partyColumns+` FROM parties WHERE company_id = $1 AND kind = $2 AND tax_id = $3`, companyID, kind, taxID))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, storageErr("get party by tax_id", err)
	}
	return p, nil
}

// ListByCompany lista terceros de la empresa con paginación.
func (r *PartyRepo) ListByCompany(ctx context.Context, companyID, kind string, limit, offset int) ([]*entity.Party, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+partyColumns+` FROM parties
		WHERE company_id = $1 AND kind = $2
		ORDER BY name LIMIT $3 OFFSET $4`, companyID, kind, limit, offset)
	if err != nil {
		return nil, storageErr("list parties", err)
	}
	defer rows.Close()
	var list []*entity.Party
	for rows.Next() {
		p, err := scanParty(rows)
		if err != nil {
			return nil, storageErr("scan party", err)
		}
		list = append(list, p)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list parties", err)
	}
	return list, nil
}
