package accounting

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/ledger-api/internal/application/dto"
	"github.com/jhoicas/ledger-api/internal/domain"
	"github.com/jhoicas/ledger-api/internal/domain/entity"
	"github.com/jhoicas/ledger-api/internal/domain/ledger"
	"github.com/jhoicas/ledger-api/internal/domain/money"
	"github.com/jhoicas/ledger-api/internal/domain/repository"
	"github.com/jhoicas/ledger-api/pkg/logger"
)

// JournalUseCase valida y registra asientos de partida doble.
type JournalUseCase struct {
	txRunner TxRunner
	accounts repository.AccountRepository
	journal  repository.JournalRepository
	cur      money.Currency
	log      *logger.Logger
}

// NewJournalUseCase construye el caso de uso.
func NewJournalUseCase(
	txRunner TxRunner,
	accounts repository.AccountRepository,
	journal repository.JournalRepository,
	cur money.Currency,
	log *logger.Logger,
) *JournalUseCase {
	return &JournalUseCase{
		txRunner: txRunner,
		accounts: accounts,
		journal:  journal,
		cur:      cur,
		log:      log.Component("journal"),
	}
}

// ValidateEntry dry-run: valida balance y cuentas sin persistir nada.
func (uc *JournalUseCase) ValidateEntry(ctx context.Context, companyID string, in dto.PostJournalEntryRequest) (*dto.JournalValidationResponse, error) {
	v, err := ledger.ValidateJournalEntry(uc.cur, rowInputs(in.Rows))
	if err != nil {
		return nil, err
	}
	for _, row := range v.Rows {
		if _, err := resolveAccount(ctx, uc.accounts, companyID, row); err != nil {
			return nil, err
		}
	}
	return &dto.JournalValidationResponse{
		Balanced:    v.Balanced(),
		TotalDebit:  v.TotalDebit,
		TotalCredit: v.TotalCredit,
		RowCount:    len(v.Rows),
	}, nil
}

// PostEntry registra un asiento manual: cabecera, filas y acumulados en una sola transacción.
func (uc *JournalUseCase) PostEntry(ctx context.Context, companyID, userID string, in dto.PostJournalEntryRequest) (*dto.JournalEntryResponse, error) {
	date, err := dto.ParseDate("date", in.Date, time.Now())
	if err != nil {
		return nil, err
	}
	draft := EntryDraft{
		CompanyID:   companyID,
		CreatedBy:   userID,
		Date:        date,
		Description: strings.TrimSpace(in.Description),
		Source:      entity.JournalSourceManual,
		Rows:        rowInputs(in.Rows),
	}
	var entry *entity.JournalEntry
	err = uc.txRunner.RunLedger(ctx, func(r repository.TxRepos) error {
		var err error
		entry, err = uc.PostInTx(ctx, r, draft)
		return err
	})
	if err != nil {
		if ve, ok := domain.AsValidation(err); ok {
			uc.log.Warn().Str("company_id", companyID).Str("kind", string(ve.Kind)).Str("field", ve.Field).Msg("asiento rechazado")
		}
		return nil, err
	}
	uc.log.Info().
		Str("company_id", companyID).
		Str("entry_id", entry.ID).
		Str("total", entry.TotalDebit.StringFixed(uc.cur.Exponent)).
		Int("rows", len(entry.Rows)).
		Msg("asiento registrado")
	return uc.toResponse(ctx, entry), nil
}

// PostInTx valida y registra el asiento con los repos de la transacción del caller.
// Si retorna error el caller debe hacer rollback; nada queda persistido a medias.
func (uc *JournalUseCase) PostInTx(ctx context.Context, r repository.TxRepos, d EntryDraft) (*entity.JournalEntry, error) {
	v, err := ledger.ValidateJournalEntry(uc.cur, d.Rows)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	entry := &entity.JournalEntry{
		ID:          uuid.New().String(),
		CompanyID:   d.CompanyID,
		Date:        d.Date,
		Description: d.Description,
		Source:      d.Source,
		SourceID:    d.SourceID,
		TotalDebit:  v.TotalDebit.Decimal(),
		TotalCredit: v.TotalCredit.Decimal(),
		CreatedBy:   d.CreatedBy,
		CreatedAt:   now,
	}
	if entry.Date.IsZero() {
		entry.Date = now
	}

	type delta struct{ debit, credit decimal.Decimal }
	deltas := make(map[string]*delta)
	for i, row := range v.Rows {
		acc, err := resolveAccount(ctx, r.Accounts, d.CompanyID, row)
		if err != nil {
			return nil, err
		}
		entry.Rows = append(entry.Rows, entity.JournalRow{
			ID:        uuid.New().String(),
			EntryID:   entry.ID,
			Position:  i,
			AccountID: acc.ID,
			Debit:     row.Debit.Decimal(),
			Credit:    row.Credit.Decimal(),
			Memo:      row.Memo,
		})
		// Roll-up: la cuenta y todos sus ancestros.
		chain, err := ancestry(ctx, r.Accounts, acc)
		if err != nil {
			return nil, err
		}
		for _, id := range chain {
			dl, ok := deltas[id]
			if !ok {
				dl = &delta{}
				deltas[id] = dl
			}
			dl.debit = dl.debit.Add(row.Debit.Decimal())
			dl.credit = dl.credit.Add(row.Credit.Decimal())
		}
	}

	if err := r.Journal.Create(ctx, entry); err != nil {
		return nil, err
	}
	// Orden fijo de actualización entre transacciones concurrentes.
	ids := make([]string, 0, len(deltas))
	for id := range deltas {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		if err := r.Accounts.AddTotals(ctx, id, deltas[id].debit, deltas[id].credit); err != nil {
			return nil, err
		}
	}
	return entry, nil
}

// GetEntry obtiene un asiento de la empresa con sus filas.
func (uc *JournalUseCase) GetEntry(ctx context.Context, companyID, id string) (*dto.JournalEntryResponse, error) {
	entry, err := uc.journal.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, domain.ErrNotFound
	}
	if entry.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return uc.toResponse(ctx, entry), nil
}

// ListEntries lista asientos por fecha descendente (sin filas).
func (uc *JournalUseCase) ListEntries(ctx context.Context, companyID string, in dto.ListJournalRequest) ([]dto.JournalEntryResponse, error) {
	in.DefaultPage()
	f := repository.JournalFilter{Source: in.Source, Limit: in.Limit, Offset: in.Offset}
	if in.From != "" {
		from, err := dto.ParseDate("from", in.From, time.Time{})
		if err != nil {
			return nil, err
		}
		f.From = &from
	}
	if in.To != "" {
		to, err := dto.ParseDate("to", in.To, time.Time{})
		if err != nil {
			return nil, err
		}
		f.To = &to
	}
	list, err := uc.journal.ListByCompany(ctx, companyID, f)
	if err != nil {
		return nil, err
	}
	out := make([]dto.JournalEntryResponse, 0, len(list))
	for _, e := range list {
		resp := uc.header(e)
		out = append(out, resp)
	}
	return out, nil
}

func (uc *JournalUseCase) header(e *entity.JournalEntry) dto.JournalEntryResponse {
	return dto.JournalEntryResponse{
		ID:          e.ID,
		Date:        dto.FormatDate(e.Date),
		Description: e.Description,
		Source:      e.Source,
		SourceID:    e.SourceID,
		TotalDebit:  uc.cur.FromDecimal(e.TotalDebit),
		TotalCredit: uc.cur.FromDecimal(e.TotalCredit),
		CreatedBy:   e.CreatedBy,
		CreatedAt:   e.CreatedAt,
	}
}

func (uc *JournalUseCase) toResponse(ctx context.Context, e *entity.JournalEntry) *dto.JournalEntryResponse {
	resp := uc.header(e)
	codes := make(map[string]string)
	for _, row := range e.Rows {
		code, ok := codes[row.AccountID]
		if !ok {
			if acc, _ := uc.accounts.GetByID(ctx, row.AccountID); acc != nil {
				code = acc.Code
			}
			codes[row.AccountID] = code
		}
		resp.Rows = append(resp.Rows, dto.JournalRowResponse{
			Position:    row.Position,
			AccountID:   row.AccountID,
			AccountCode: code,
			Debit:       uc.cur.FromDecimal(row.Debit),
			Credit:      uc.cur.FromDecimal(row.Credit),
			Memo:        row.Memo,
		})
	}
	return &resp
}

func rowInputs(rows []dto.JournalRowRequest) []ledger.JournalRowInput {
	out := make([]ledger.JournalRowInput, len(rows))
	for i, r := range rows {
		out[i] = ledger.JournalRowInput{
			AccountID: strings.TrimSpace(r.AccountID),
			Debit:     r.Debit,
			Credit:    r.Credit,
			Memo:      r.Memo,
		}
	}
	return out
}

func resolveAccount(ctx context.Context, repo repository.AccountRepository, companyID string, row ledger.PostingRow) (*entity.Account, error) {
	acc, err := repo.GetByID(ctx, row.AccountID)
	if err != nil {
		return nil, err
	}
	if acc == nil || acc.CompanyID != companyID {
		return nil, fmt.Errorf("%w: cuenta %s en rows[%d]", domain.ErrNotFound, row.AccountID, row.Position)
	}
	return acc, nil
}

// ancestry ids de la cuenta y sus ancestros, desde la hoja hacia la raíz.
func ancestry(ctx context.Context, repo repository.AccountRepository, acc *entity.Account) ([]string, error) {
	chain := []string{acc.ID}
	for parentID := acc.ParentID; parentID != "" && len(chain) < maxDepth; {
		p, err := repo.GetByID(ctx, parentID)
		if err != nil {
			return nil, err
		}
		if p == nil {
			break
		}
		chain = append(chain, p.ID)
		parentID = p.ParentID
	}
	return chain, nil
}
