package billing_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ledger-api/internal/application/accounting"
	"github.com/jhoicas/ledger-api/internal/application/billing"
	"github.com/jhoicas/ledger-api/internal/application/dto"
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

var cop = money.MustCurrency("COP")

// fixedNow fecha de corte de los tests; anterior a los vencimientos de las facturas de prueba.
var fixedNow = time.Date(2026, 1, 25, 12, 0, 0, 0, time.UTC)

type fixture struct {
	store      *memory.Store
	idem       *memory.IdempotencyStore
	journal    *accounting.JournalUseCase
	documents  *billing.DocumentUseCase
	invoices   *billing.InvoiceUseCase
	settlement *billing.SettlementUseCase
	parties    *billing.PartyUseCase
	products   *billing.ProductUseCase
	accounts   map[string]string // código -> id
	customer   string
	supplier   string
}

// newFixture arma los casos de uso sobre el store en memoria con el plan mínimo de posteo.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	repos := store.Repos()
	log := logger.Nop()
	posting := billing.DefaultPostingAccounts()

	f := &fixture{
		store:    store,
		idem:     memory.NewIdempotencyStore(time.Hour),
		accounts: map[string]string{},
	}
	f.journal = accounting.NewJournalUseCase(store, repos.Accounts, repos.Journal, cop, log)
	f.documents = billing.NewDocumentUseCase(store, repos.Documents, repos.Parties, repos.Products, cop)
	f.invoices = billing.NewInvoiceUseCase(store, f.journal, repos.Invoices, repos.Payments, repos.Parties, posting, cop, log)
	f.invoices.Now = func() time.Time { return fixedNow }
	f.settlement = billing.NewSettlementUseCase(store, f.journal, f.idem, posting, cop, log)
	f.parties = billing.NewPartyUseCase(repos.Parties)
	f.products = billing.NewProductUseCase(repos.Products)

	ctx := context.Background()
	chart := []struct{ code, typ string }{
		{posting.Receivable, entity.AccountAsset},
		{posting.Payable, entity.AccountLiability},
		{posting.Sales, entity.AccountIncome},
		{posting.Purchases, entity.AccountExpense},
		{posting.TaxPayable, entity.AccountLiability},
		{posting.TaxReceivable, entity.AccountAsset},
		{posting.Cash, entity.AccountAsset},
		{posting.Bank, entity.AccountAsset},
	}
	for _, c := range chart {
		acc := &entity.Account{ID: uuid.New().String(), CompanyID: companyID, Code: c.code, Name: "Cuenta " + c.code, Type: c.typ}
		require.NoError(t, repos.Accounts.Create(ctx, acc))
		f.accounts[c.code] = acc.ID
	}

	cust, err := f.parties.Create(ctx, companyID, entity.PartyCustomer, dto.CreatePartyRequest{Name: "Cliente Uno", TaxID: "900123456"})
	require.NoError(t, err)
	f.customer = cust.ID
	supp, err := f.parties.Create(ctx, companyID, entity.PartySupplier, dto.CreatePartyRequest{Name: "Proveedor Uno", TaxID: "800987654"})
	require.NoError(t, err)
	f.supplier = supp.ID
	return f
}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func item(qty, price, discount, rate string) dto.DocumentItemRequest {
	return dto.DocumentItemRequest{
		Description: "Item",
		Quantity:    d(qty),
		UnitPrice:   decimal.NewNullDecimal(d(price)),
		Discount:    d(discount),
		TaxRate:     decimal.NewNullDecimal(d(rate)),
	}
}

// invoiced crea, confirma y factura un documento del tipo dado.
func (f *fixture) invoiced(t *testing.T, kind, dueDate string, items ...dto.DocumentItemRequest) *dto.InvoiceResponse {
	t.Helper()
	ctx := context.Background()
	party := f.customer
	if kind == entity.DocumentPurchase {
		party = f.supplier
	}
	doc, err := f.documents.Create(ctx, companyID, userID, dto.CreateDocumentRequest{
		Kind:      kind,
		PartyID:   party,
		OrderDate: "2026-01-10",
		DueDate:   dueDate,
		Items:     items,
	})
	require.NoError(t, err)
	_, err = f.documents.Confirm(ctx, companyID, doc.ID)
	require.NoError(t, err)
	inv, err := f.invoices.InvoiceDocument(ctx, companyID, userID, doc.ID, dto.InvoiceDocumentRequest{Date: "2026-01-10"})
	require.NoError(t, err)
	return inv
}

// invoiceOf500 factura de venta por 500.00 sin impuesto.
func (f *fixture) invoiceOf500(t *testing.T) *dto.InvoiceResponse {
	t.Helper()
	return f.invoiced(t, entity.DocumentSales, "2026-02-10", item("1", "500.00", "0", "0"))
}

func (f *fixture) pay(amount, method, key string, invoiceID string) (*dto.RecordPaymentResponse, error) {
	return f.settlement.RecordPayment(context.Background(), companyID, userID, invoiceID, dto.RecordPaymentRequest{
		Amount:         d(amount),
		Method:         method,
		Date:           "2026-01-20",
		IdempotencyKey: key,
	})
}

func (f *fixture) account(t *testing.T, code string) *entity.Account {
	t.Helper()
	acc, err := f.store.Repos().Accounts.GetByCode(context.Background(), companyID, code)
	require.NoError(t, err)
	require.NotNil(t, acc)
	return acc
}

func assertDec(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, d(want).Equal(got), "esperado %s, obtenido %s", want, got)
}
