package billing_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ledger-api/internal/application/billing"
	"github.com/jhoicas/ledger-api/internal/domain"
	"github.com/jhoicas/ledger-api/internal/domain/entity"
	"github.com/jhoicas/ledger-api/internal/domain/settlement"
)

type captureGenerator struct {
	got billing.StatementData
	err error
}

func (g *captureGenerator) GenerateStatementPDF(_ context.Context, data billing.StatementData) ([]byte, error) {
	g.got = data
	if g.err != nil {
		return nil, g.err
	}
	return []byte("%PDF-1.4"), nil
}

func newStatementUseCase(f *fixture, gen billing.StatementPDFGenerator) *billing.StatementUseCase {
	repos := f.store.Repos()
	uc := billing.NewStatementUseCase(repos.Invoices, repos.Payments, repos.Parties, repos.Documents, gen, "Empresa Demo", cop)
	uc.Now = func() time.Time { return fixedNow }
	return uc
}

func TestStatementUseCase_DownloadStatement(t *testing.T) {
	f := newFixture(t)
	inv := f.invoiced(t, entity.DocumentSales, "2026-02-10", item("1", "500.00", "0", "0"))
	_, err := f.pay("200.00", entity.PaymentCash, "", inv.ID)
	require.NoError(t, err)

	gen := &captureGenerator{}
	uc := newStatementUseCase(f, gen)
	uc.Now = func() time.Time { return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC) }

	pdf, filename, err := uc.DownloadStatement(context.Background(), companyID, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.4"), pdf)
	assert.Equal(t, "estado_cuenta_"+inv.Number+".pdf", filename)

	assert.Equal(t, "Empresa Demo", gen.got.CompanyName)
	assert.Equal(t, "Cliente Uno", gen.got.Party.Name)
	require.NotNil(t, gen.got.Document)
	assert.Len(t, gen.got.Document.Items, 1)
	assert.Len(t, gen.got.Payments, 1)
	assert.Equal(t, "300.00", gen.got.State.BalanceDue.String())
	assert.Equal(t, settlement.StatusOverdue, gen.got.Status)
}

func TestStatementUseCase_Errores(t *testing.T) {
	f := newFixture(t)
	inv := f.invoiceOf500(t)

	_, _, err := newStatementUseCase(f, &captureGenerator{}).DownloadStatement(context.Background(), otherCo, inv.ID)
	assert.True(t, errors.Is(err, domain.ErrForbidden))

	_, _, err = newStatementUseCase(f, &captureGenerator{err: errors.New("font missing")}).DownloadStatement(context.Background(), companyID, inv.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "font missing")
}
