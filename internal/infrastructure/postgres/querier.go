package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/ledger-api/internal/domain/repository"
)

// Querier lo implementan *pgxpool.Pool y pgx.Tx: los repos funcionan dentro o fuera de una transacción.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repos construye todos los repositorios sobre el mismo Querier (pool o tx).
func Repos(q Querier) repository.TxRepos {
	return repository.TxRepos{
		Accounts:  NewAccountRepository(q),
		Journal:   NewJournalRepository(q),
		Documents: NewDocumentRepository(q),
		Invoices:  NewInvoiceRepository(q),
		Payments:  NewPaymentRepository(q),
		Parties:   NewPartyRepository(q),
		Products:  NewProductRepository(q),
	}
}
