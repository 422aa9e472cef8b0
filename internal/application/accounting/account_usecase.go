package accounting

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/ledger-api/internal/application/dto"
	"github.com/jhoicas/ledger-api/internal/domain"
	"github.com/jhoicas/ledger-api/internal/domain/entity"
	"github.com/jhoicas/ledger-api/internal/domain/money"
	"github.com/jhoicas/ledger-api/internal/domain/repository"
)

// maxDepth límite de niveles del árbol de cuentas.
const maxDepth = 16

// AccountUseCase casos de uso del plan de cuentas.
type AccountUseCase struct {
	repo repository.AccountRepository
	cur  money.Currency
}

// NewAccountUseCase construye el caso de uso.
func NewAccountUseCase(repo repository.AccountRepository, cur money.Currency) *AccountUseCase {
	return &AccountUseCase{repo: repo, cur: cur}
}

// Create crea una cuenta. El código es único por empresa y la subcuenta hereda el tipo del padre.
func (uc *AccountUseCase) Create(ctx context.Context, companyID string, in dto.CreateAccountRequest) (*dto.AccountResponse, error) {
	code := strings.TrimSpace(in.Code)
	name := strings.TrimSpace(in.Name)
	if code == "" || name == "" || !entity.ValidAccountType(in.Type) {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.repo.GetByCode(ctx, companyID, code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	depth := 0
	if in.ParentID != "" {
		parent, err := uc.owned(ctx, companyID, in.ParentID)
		if err != nil {
			return nil, err
		}
		if parent.Type != in.Type {
			return nil, fmt.Errorf("%w: la subcuenta debe ser de tipo %s", domain.ErrInvalidInput, parent.Type)
		}
		depth, err = uc.depth(ctx, parent)
		if err != nil {
			return nil, err
		}
		depth++
		if depth >= maxDepth {
			return nil, fmt.Errorf("%w: el plan admite hasta %d niveles", domain.ErrInvalidInput, maxDepth)
		}
	}
	now := time.Now()
	acc := &entity.Account{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		Code:      code,
		Name:      name,
		Type:      in.Type,
		ParentID:  in.ParentID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, acc); err != nil {
		return nil, err
	}
	resp := toAccountResponse(uc.cur, acc, depth)
	return &resp, nil
}

// Get obtiene una cuenta de la empresa.
func (uc *AccountUseCase) Get(ctx context.Context, companyID, id string) (*dto.AccountResponse, error) {
	acc, err := uc.owned(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	depth, err := uc.depth(ctx, acc)
	if err != nil {
		return nil, err
	}
	resp := toAccountResponse(uc.cur, acc, depth)
	return &resp, nil
}

// List devuelve el plan en orden de árbol (cada padre seguido de sus subcuentas por código).
// Los acumulados de cada cuenta ya incluyen los de sus subcuentas.
func (uc *AccountUseCase) List(ctx context.Context, companyID string) ([]dto.AccountResponse, error) {
	list, err := uc.repo.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*entity.Account, len(list))
	for _, a := range list {
		byID[a.ID] = a
	}
	children := make(map[string][]*entity.Account)
	var roots []*entity.Account
	for _, a := range list {
		if _, ok := byID[a.ParentID]; a.ParentID == "" || !ok {
			roots = append(roots, a)
			continue
		}
		children[a.ParentID] = append(children[a.ParentID], a)
	}

	out := make([]dto.AccountResponse, 0, len(list))
	var walk func(a *entity.Account, depth int)
	walk = func(a *entity.Account, depth int) {
		out = append(out, toAccountResponse(uc.cur, a, depth))
		for _, c := range children[a.ID] {
			walk(c, depth+1)
		}
	}
	for _, r := range roots {
		walk(r, 0)
	}
	return out, nil
}

// Delete elimina una cuenta sin subcuentas ni movimientos.
func (uc *AccountUseCase) Delete(ctx context.Context, companyID, id string) error {
	if _, err := uc.owned(ctx, companyID, id); err != nil {
		return err
	}
	hasChildren, err := uc.repo.HasChildren(ctx, id)
	if err != nil {
		return err
	}
	if hasChildren {
		return fmt.Errorf("%w: la cuenta tiene subcuentas", domain.ErrConflict)
	}
	hasPostings, err := uc.repo.HasPostings(ctx, id)
	if err != nil {
		return err
	}
	if hasPostings {
		return fmt.Errorf("%w: la cuenta tiene movimientos", domain.ErrConflict)
	}
	return uc.repo.Delete(ctx, id)
}

func (uc *AccountUseCase) owned(ctx context.Context, companyID, id string) (*entity.Account, error) {
	acc, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if acc == nil {
		return nil, fmt.Errorf("%w: cuenta %s", domain.ErrNotFound, id)
	}
	if acc.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return acc, nil
}

func (uc *AccountUseCase) depth(ctx context.Context, acc *entity.Account) (int, error) {
	depth := 0
	for parentID := acc.ParentID; parentID != "" && depth < maxDepth; depth++ {
		p, err := uc.repo.GetByID(ctx, parentID)
		if err != nil {
			return 0, err
		}
		if p == nil {
			break
		}
		parentID = p.ParentID
	}
	return depth, nil
}

func toAccountResponse(cur money.Currency, a *entity.Account, depth int) dto.AccountResponse {
	return dto.AccountResponse{
		ID:          a.ID,
		Code:        a.Code,
		Name:        a.Name,
		Type:        a.Type,
		ParentID:    a.ParentID,
		Depth:       depth,
		DebitTotal:  cur.FromDecimal(a.DebitTotal),
		CreditTotal: cur.FromDecimal(a.CreditTotal),
		Balance:     cur.FromDecimal(a.Balance()),
	}
}
