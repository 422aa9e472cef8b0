package accounting_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ledger-api/internal/application/accounting"
	"github.com/jhoicas/ledger-api/internal/application/dto"
	"github.com/jhoicas/ledger-api/internal/domain"
	"github.com/jhoicas/ledger-api/internal/domain/entity"
	"github.com/jhoicas/ledger-api/internal/domain/money"
	"github.com/jhoicas/ledger-api/internal/infrastructure/memory"
	"github.com/jhoicas/ledger-api/pkg/logger"
)

const (
	companyID = "00000000-0000-0000-0000-0000000000c1"
	otherCo   = "00000000-0000-0000-0000-0000000000c2"
	userID    = "00000000-0000-0000-0000-0000000000a1"
)

var usd = money.Currency{Code: "USD", Exponent: 2}

func setup(t *testing.T) (*memory.Store, *accounting.AccountUseCase, *accounting.JournalUseCase) {
	t.Helper()
	store := memory.NewStore()
	repos := store.Repos()
	return store,
		accounting.NewAccountUseCase(repos.Accounts, usd),
		accounting.NewJournalUseCase(store, repos.Accounts, repos.Journal, usd, logger.Nop())
}

func mustAccount(t *testing.T, uc *accounting.AccountUseCase, code, typ, parent string) string {
	t.Helper()
	acc, err := uc.Create(context.Background(), companyID, dto.CreateAccountRequest{Code: code, Name: "Cuenta " + code, Type: typ, ParentID: parent})
	require.NoError(t, err)
	return acc.ID
}

func row(account, debit, credit string) dto.JournalRowRequest {
	return dto.JournalRowRequest{AccountID: account, Debit: decimal.RequireFromString(debit), Credit: decimal.RequireFromString(credit)}
}

func TestAccountUseCase_Create(t *testing.T) {
	_, uc, _ := setup(t)
	ctx := context.Background()
	assets := mustAccount(t, uc, "1", entity.AccountAsset, "")

	_, err := uc.Create(ctx, companyID, dto.CreateAccountRequest{Code: "1", Name: "Otra", Type: entity.AccountAsset})
	assert.True(t, errors.Is(err, domain.ErrDuplicate))

	_, err = uc.Create(ctx, companyID, dto.CreateAccountRequest{Code: "11", Name: "Caja", Type: entity.AccountIncome, ParentID: assets})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput), "la subcuenta conserva el tipo del padre")

	_, err = uc.Create(ctx, otherCo, dto.CreateAccountRequest{Code: "11", Name: "Caja", Type: entity.AccountAsset, ParentID: assets})
	assert.True(t, errors.Is(err, domain.ErrForbidden))

	_, err = uc.Create(ctx, companyID, dto.CreateAccountRequest{Code: "9", Name: "X", Type: "otro"})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	child, err := uc.Create(ctx, companyID, dto.CreateAccountRequest{Code: "11", Name: "Disponible", Type: entity.AccountAsset, ParentID: assets})
	require.NoError(t, err)
	assert.Equal(t, 1, child.Depth)
}

func TestAccountUseCase_ListEnOrdenDeArbol(t *testing.T) {
	_, uc, _ := setup(t)
	assets := mustAccount(t, uc, "1", entity.AccountAsset, "")
	mustAccount(t, uc, "2", entity.AccountLiability, "")
	cash := mustAccount(t, uc, "11", entity.AccountAsset, assets)
	mustAccount(t, uc, "1105", entity.AccountAsset, cash)
	mustAccount(t, uc, "13", entity.AccountAsset, assets)

	list, err := uc.List(context.Background(), companyID)
	require.NoError(t, err)
	codes := make([]string, 0, len(list))
	depths := make([]int, 0, len(list))
	for _, a := range list {
		codes = append(codes, a.Code)
		depths = append(depths, a.Depth)
	}
	assert.Equal(t, []string{"1", "11", "1105", "13", "2"}, codes)
	assert.Equal(t, []int{0, 1, 2, 1, 0}, depths)
}

func TestJournalUseCase_PostEntryAcumulaEnAncestros(t *testing.T) {
	_, accounts, journal := setup(t)
	ctx := context.Background()
	assets := mustAccount(t, accounts, "1", entity.AccountAsset, "")
	cash := mustAccount(t, accounts, "11", entity.AccountAsset, assets)
	till := mustAccount(t, accounts, "1105", entity.AccountAsset, cash)
	income := mustAccount(t, accounts, "4", entity.AccountIncome, "")
	sales := mustAccount(t, accounts, "4135", entity.AccountIncome, income)
	other := mustAccount(t, accounts, "4210", entity.AccountIncome, income)

	entry, err := journal.PostEntry(ctx, companyID, userID, dto.PostJournalEntryRequest{
		Date:        "2026-05-01",
		Description: "Venta de contado",
		Rows:        []dto.JournalRowRequest{row(till, "100.00", "0"), row(sales, "0", "60.00"), row(other, "0", "40.00")},
	})
	require.NoError(t, err)
	assert.Equal(t, "100.00", entry.TotalDebit.String())
	assert.Equal(t, entity.JournalSourceManual, entry.Source)
	require.Len(t, entry.Rows, 3)
	assert.Equal(t, "1105", entry.Rows[0].AccountCode)

	for _, id := range []string{till, cash, assets} {
		acc, err := accounts.Get(ctx, companyID, id)
		require.NoError(t, err)
		assert.Equal(t, "100.00", acc.DebitTotal.String(), acc.Code)
		assert.Equal(t, "100.00", acc.Balance.String(), acc.Code)
	}
	root, err := accounts.Get(ctx, companyID, income)
	require.NoError(t, err)
	assert.Equal(t, "100.00", root.CreditTotal.String())
	assert.Equal(t, "100.00", root.Balance.String())

	got, err := journal.GetEntry(ctx, companyID, entry.ID)
	require.NoError(t, err)
	assert.Len(t, got.Rows, 3)
	_, err = journal.GetEntry(ctx, otherCo, entry.ID)
	assert.True(t, errors.Is(err, domain.ErrForbidden))
}

func TestJournalUseCase_RechazoNoPersisteNada(t *testing.T) {
	_, accounts, journal := setup(t)
	ctx := context.Background()
	a := mustAccount(t, accounts, "1105", entity.AccountAsset, "")
	b := mustAccount(t, accounts, "4135", entity.AccountIncome, "")

	_, err := journal.PostEntry(ctx, companyID, userID, dto.PostJournalEntryRequest{
		Rows: []dto.JournalRowRequest{row(a, "100.00", "0"), row(b, "0", "90.00")},
	})
	ve, ok := domain.AsValidation(err)
	require.True(t, ok)
	assert.Equal(t, domain.KindUnbalancedEntry, ve.Kind)
	assert.Equal(t, "10.00", ve.Difference().StringFixed(2))

	_, err = journal.PostEntry(ctx, companyID, userID, dto.PostJournalEntryRequest{
		Rows: []dto.JournalRowRequest{row(a, "100.00", "0"), row("no-existe", "0", "100.00")},
	})
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	list, err := journal.ListEntries(ctx, companyID, dto.ListJournalRequest{})
	require.NoError(t, err)
	assert.Empty(t, list)
	acc, err := accounts.Get(ctx, companyID, a)
	require.NoError(t, err)
	assert.True(t, acc.DebitTotal.IsZero())
}

func TestJournalUseCase_ValidateEntryNoPersiste(t *testing.T) {
	_, accounts, journal := setup(t)
	ctx := context.Background()
	a := mustAccount(t, accounts, "1105", entity.AccountAsset, "")
	b := mustAccount(t, accounts, "4135", entity.AccountIncome, "")

	v, err := journal.ValidateEntry(ctx, companyID, dto.PostJournalEntryRequest{
		Rows: []dto.JournalRowRequest{row(a, "50.00", "0"), row(b, "0", "50.00"), row(b, "0", "0")},
	})
	require.NoError(t, err)
	assert.True(t, v.Balanced)
	assert.Equal(t, 2, v.RowCount, "las filas en cero se descartan")

	list, err := journal.ListEntries(ctx, companyID, dto.ListJournalRequest{})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestJournalUseCase_ListEntriesFiltros(t *testing.T) {
	_, accounts, journal := setup(t)
	ctx := context.Background()
	a := mustAccount(t, accounts, "1105", entity.AccountAsset, "")
	b := mustAccount(t, accounts, "4135", entity.AccountIncome, "")
	for _, date := range []string{"2026-01-05", "2026-02-05", "2026-03-05"} {
		_, err := journal.PostEntry(ctx, companyID, userID, dto.PostJournalEntryRequest{
			Date: date, Rows: []dto.JournalRowRequest{row(a, "1.00", "0"), row(b, "0", "1.00")},
		})
		require.NoError(t, err)
	}

	list, err := journal.ListEntries(ctx, companyID, dto.ListJournalRequest{From: "2026-02-01"})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "2026-03-05", list[0].Date)

	list, err = journal.ListEntries(ctx, companyID, dto.ListJournalRequest{Source: entity.JournalSourceInvoice})
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = journal.ListEntries(ctx, companyID, dto.ListJournalRequest{From: "05/01/2026"})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestAccountUseCase_DeleteGuardas(t *testing.T) {
	_, accounts, journal := setup(t)
	ctx := context.Background()
	parent := mustAccount(t, accounts, "11", entity.AccountAsset, "")
	child := mustAccount(t, accounts, "1105", entity.AccountAsset, parent)
	income := mustAccount(t, accounts, "4135", entity.AccountIncome, "")
	empty := mustAccount(t, accounts, "1110", entity.AccountAsset, "")

	_, err := journal.PostEntry(ctx, companyID, userID, dto.PostJournalEntryRequest{
		Rows: []dto.JournalRowRequest{row(child, "5.00", "0"), row(income, "0", "5.00")},
	})
	require.NoError(t, err)

	assert.True(t, errors.Is(accounts.Delete(ctx, companyID, parent), domain.ErrConflict))
	assert.True(t, errors.Is(accounts.Delete(ctx, companyID, child), domain.ErrConflict))
	assert.True(t, errors.Is(accounts.Delete(ctx, otherCo, empty), domain.ErrForbidden))
	require.NoError(t, accounts.Delete(ctx, companyID, empty))
	_, err = accounts.Get(ctx, companyID, empty)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}
