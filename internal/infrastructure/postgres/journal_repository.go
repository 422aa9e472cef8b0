package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/ledger-api/internal/domain"
	"github.com/jhoicas/ledger-api/internal/domain/entity"
	"github.com/jhoicas/ledger-api/internal/domain/repository"
)

var _ repository.JournalRepository = (*JournalRepo)(nil)

// JournalRepo libro diario: journal_entries + journal_rows.
type JournalRepo struct {
	q Querier
}

// NewJournalRepository construye el adaptador. Pasar pool o tx (Querier).
func NewJournalRepository(q Querier) *JournalRepo {
	return &JournalRepo{q: q}
}

const entryColumns = `id, company_id, entry_date, description, source, source_id, total_debit, total_credit, created_by, created_at`

func scanEntry(row interface{ Scan(...any) error }) (*entity.JournalEntry, error) {
	var (
		e                   entity.JournalEntry
		sourceID, createdBy *string
	)
	if err := row.Scan(&e.ID, &e.CompanyID, &e.Date, &e.Description, &e.Source, &sourceID,
		&e.TotalDebit, &e.TotalCredit, &createdBy, &e.CreatedAt); err != nil {
		return nil, err
	}
	e.SourceID = deref(sourceID)
	e.CreatedBy = deref(createdBy)
	return &e, nil
}

// Create inserta cabecera y filas. Debe correr dentro de la transacción del caller.
func (r *JournalRepo) Create(ctx context.Context, e *entity.JournalEntry) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO journal_entries (`+entryColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		e.ID, e.CompanyID, e.Date, e.Description, e.Source, nullIfEmpty(e.SourceID),
		e.TotalDebit, e.TotalCredit, nullIfEmpty(e.CreatedBy), e.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return storageErr("insert journal entry", err)
	}
	for _, row := range e.Rows {
		_, err := r.q.Exec(ctx, `
			INSERT INTO journal_rows (id, entry_id, position, account_id, debit, credit, memo)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			row.ID, e.ID, row.Position, row.AccountID, row.Debit, row.Credit, row.Memo,
		)
		if err != nil {
			return storageErr("insert journal row", err)
		}
	}
	return nil
}

func (r *JournalRepo) GetByID(ctx context.Context, id string) (*entity.JournalEntry, error) {
	e, err := scanEntry(r.q.QueryRow(ctx, `SELECT `+entryColumns+` FROM journal_entries WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, storageErr("get journal entry", err)
	}
	rows, err := r.q.Query(ctx, `
		SELECT id, entry_id, position, account_id, debit, credit, memo
		FROM journal_rows WHERE entry_id = $1 ORDER BY position`, id)
	if err != nil {
		return nil, storageErr("get journal rows", err)
	}
	e.Rows, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.JournalRow, error) {
		var jr entity.JournalRow
		err := row.Scan(&jr.ID, &jr.EntryID, &jr.Position, &jr.AccountID, &jr.Debit, &jr.Credit, &jr.Memo)
		return jr, err
	})
	if err != nil {
		return nil, storageErr("scan journal rows", err)
	}
	return e, nil
}

// ListByCompany cabeceras por fecha descendente con filtros opcionales.
func (r *JournalRepo) ListByCompany(ctx context.Context, companyID string, f repository.JournalFilter) ([]*entity.JournalEntry, error) {
	where := []string{"company_id = $1"}
	args := []any{companyID}
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if f.From != nil {
		add("entry_date >= $%d", *f.From)
	}
	if f.To != nil {
		add("entry_date <= $%d", *f.To)
	}
	if f.Source != "" {
		add("source = $%d", f.Source)
	}
	args = append(args, f.Limit, f.Offset)
	query := fmt.Sprintf(`SELECT %s FROM journal_entries WHERE %s
		ORDER BY entry_date DESC, created_at DESC LIMIT $%d OFFSET $%d`,
		entryColumns, strings.Join(where, " AND "), len(args)-1, len(args))

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, storageErr("list journal entries", err)
	}
	defer rows.Close()
	var list []*entity.JournalEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, storageErr("scan journal entry", err)
		}
		list = append(list, e)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list journal entries", err)
	}
	return list, nil
}
