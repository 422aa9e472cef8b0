package billing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/ledger-api/internal/application/dto"
	"github.com/jhoicas/ledger-api/internal/domain"
	"github.com/jhoicas/ledger-api/internal/domain/entity"
	"github.com/jhoicas/ledger-api/internal/domain/repository"
	"github.com/jhoicas/ledger-api/pkg/dian"
)

// PartyUseCase casos de uso para clientes y proveedores.
type PartyUseCase struct {
	repo repository.PartyRepository
}

// NewPartyUseCase construye el caso de uso.
func NewPartyUseCase(repo repository.PartyRepository) *PartyUseCase {
	return &PartyUseCase{repo: repo}
}

// Create crea un tercero del tipo indicado. El NIT es único por empresa y tipo;
// si trae dígito de verificación ("900123456-8") debe ser correcto.
func (uc *PartyUseCase) Create(ctx context.Context, companyID, kind string, in dto.CreatePartyRequest) (*dto.PartyResponse, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.TaxID = strings.TrimSpace(in.TaxID)
	if !entity.ValidPartyKind(kind) || in.Name == "" || in.TaxID == "" {
		return nil, domain.ErrInvalidInput
	}
	if err := dian.ValidateTaxID(in.TaxID); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	existing, err := uc.repo.GetByCompanyAndTaxID(ctx, companyID, kind, in.TaxID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	party := &entity.Party{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		Kind:      kind,
		Name:      in.Name,
		TaxID:     in.TaxID,
		Email:     in.Email,
		Phone:     in.Phone,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, party); err != nil {
		return nil, err
	}
	return toPartyResponse(party), nil
}

// List lista terceros del tipo indicado.
func (uc *PartyUseCase) List(ctx context.Context, companyID, kind string, page dto.PageRequest) ([]*dto.PartyResponse, error) {
	if !entity.ValidPartyKind(kind) {
		return nil, domain.ErrInvalidInput
	}
	page.DefaultPage()
	list, err := uc.repo.ListByCompany(ctx, companyID, kind, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.PartyResponse, 0, len(list))
	for _, p := range list {
		out = append(out, toPartyResponse(p))
	}
	return out, nil
}

func toPartyResponse(p *entity.Party) *dto.PartyResponse {
	return &dto.PartyResponse{
		ID:        p.ID,
		CompanyID: p.CompanyID,
		Kind:      p.Kind,
		Name:      p.Name,
		TaxID:     p.TaxID,
		Email:     p.Email,
		Phone:     p.Phone,
	}
}
