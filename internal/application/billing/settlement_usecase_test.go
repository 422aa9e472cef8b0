package billing_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ledger-api/internal/application/billing"
	"github.com/jhoicas/ledger-api/internal/application/dto"
	"github.com/jhoicas/ledger-api/internal/domain"
	"github.com/jhoicas/ledger-api/internal/domain/entity"
	"github.com/jhoicas/ledger-api/internal/domain/settlement"
	"github.com/jhoicas/ledger-api/pkg/logger"
)

func TestRecordPayment_PagoParcial(t *testing.T) {
	f := newFixture(t)
	inv := f.invoiceOf500(t)

	_, err := f.pay("200.00", entity.PaymentBankTransfer, "", inv.ID)
	require.NoError(t, err)
	resp, err := f.pay("150.00", entity.PaymentBankTransfer, "", inv.ID)
	require.NoError(t, err)

	assert.Equal(t, "350.00", resp.PaidAmount.String())
	assert.Equal(t, "150.00", resp.BalanceDue.String())
	assert.Equal(t, settlement.StatusPartial, resp.Status)

	got, err := f.invoices.Get(context.Background(), companyID, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, "350.00", got.PaidAmount.String())
	assert.Len(t, got.Payments, 2)
}

func TestRecordPayment_Sobrepago(t *testing.T) {
	f := newFixture(t)
	inv := f.invoiceOf500(t)
	_, err := f.pay("200.00", entity.PaymentBankTransfer, "", inv.ID)
	require.NoError(t, err)
	_, err = f.pay("150.00", entity.PaymentBankTransfer, "", inv.ID)
	require.NoError(t, err)

	_, err = f.pay("200.00", entity.PaymentBankTransfer, "", inv.ID)
	ve, ok := domain.AsValidation(err)
	require.True(t, ok)
	assert.Equal(t, domain.KindOverpayment, ve.Kind)
	assert.Equal(t, "150.00", ve.MaxAllowed().StringFixed(2))

	got, err := f.invoices.Get(context.Background(), companyID, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, "150.00", got.BalanceDue.String(), "el rechazo no cambia el saldo")
	assert.Len(t, got.Payments, 2)
}

func TestRecordPayment_PagoTotal(t *testing.T) {
	f := newFixture(t)
	inv := f.invoiceOf500(t)

	resp, err := f.pay("500.00", entity.PaymentCash, "", inv.ID)
	require.NoError(t, err)
	assert.Equal(t, "0.00", resp.BalanceDue.String())
	assert.Equal(t, settlement.StatusPaid, resp.Status)

	_, err = f.pay("0.01", entity.PaymentCash, "", inv.ID)
	assert.True(t, domain.IsKind(err, domain.KindOverpayment), "una factura pagada no admite más pagos")
}

func TestRecordPayment_Validaciones(t *testing.T) {
	f := newFixture(t)
	inv := f.invoiceOf500(t)

	for _, amount := range []string{"0", "-10.00", "0.004"} {
		_, err := f.pay(amount, entity.PaymentCash, "", inv.ID)
		assert.True(t, domain.IsKind(err, domain.KindNonPositiveAmount), amount)
	}

	// El mensaje nombra el monto recibido, no el redondeado.
	_, err := f.pay("0.004", entity.PaymentCash, "", inv.ID)
	ve, ok := domain.AsValidation(err)
	require.True(t, ok)
	assert.Equal(t, "0.004", ve.Value.String())
	assert.Contains(t, ve.Error(), "got 0.004")

	_, err = f.pay("10.00", "bitcoin", "", inv.ID)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	_, err = f.pay("10.00", entity.PaymentCash, "", "no-existe")
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	_, err = f.settlement.RecordPayment(context.Background(), otherCo, userID, inv.ID, dto.RecordPaymentRequest{Amount: d("10"), Method: entity.PaymentCash})
	assert.True(t, errors.Is(err, domain.ErrForbidden))
}

func TestRecordPayment_MontoFueraDeRango(t *testing.T) {
	f := newFixture(t)
	inv := f.invoiceOf500(t)

	// 2^64 + 116 centavos: sin control se registraba como un pago de 1.00.
	_, err := f.pay("184467440737095517.16", entity.PaymentBankTransfer, "", inv.ID)
	ve, ok := domain.AsValidation(err)
	require.True(t, ok)
	assert.Equal(t, domain.KindOutOfRange, ve.Kind)
	assert.Equal(t, "amount", ve.Field)

	got, err := f.invoices.Get(context.Background(), companyID, inv.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Payments)
	assert.Equal(t, "500.00", got.BalanceDue.String())
}

func TestRecordPayment_AsientoEspejo(t *testing.T) {
	f := newFixture(t)
	sale := f.invoiceOf500(t)

	resp, err := f.pay("120.00", entity.PaymentCash, "", sale.ID)
	require.NoError(t, err)
	_, err = f.pay("80.00", entity.PaymentCard, "", sale.ID)
	require.NoError(t, err)

	assertDec(t, "120", f.account(t, "1105").DebitTotal)
	assertDec(t, "80", f.account(t, "1110").DebitTotal)
	assertDec(t, "500", f.account(t, "1305").DebitTotal)
	assertDec(t, "200", f.account(t, "1305").CreditTotal)

	entry, err := f.journal.GetEntry(context.Background(), companyID, resp.Payment.JournalEntryID)
	require.NoError(t, err)
	assert.Equal(t, entity.JournalSourcePayment, entry.Source)
	assert.Equal(t, resp.Payment.ID, entry.SourceID)

	purchase := f.invoiced(t, entity.DocumentPurchase, "", item("1", "300.00", "0", "0"))
	_, err = f.pay("300.00", entity.PaymentBankTransfer, "", purchase.ID)
	require.NoError(t, err)
	assertDec(t, "300", f.account(t, "2205").DebitTotal)
	assertDec(t, "300", f.account(t, "1110").CreditTotal)
}

func TestRecordPayment_ConcurrentesNoSobrepagan(t *testing.T) {
	f := newFixture(t)
	inv := f.invoiceOf500(t)

	const workers = 10
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		accepted int
		rejected int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.pay("100.00", entity.PaymentBankTransfer, "", inv.ID)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				accepted++
			case domain.IsKind(err, domain.KindOverpayment):
				rejected++
			default:
				t.Errorf("error inesperado: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 5, accepted)
	assert.Equal(t, 5, rejected)
	got, err := f.invoices.Get(context.Background(), companyID, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, "500.00", got.PaidAmount.String())
	assert.Equal(t, "0.00", got.BalanceDue.String())
	assert.Equal(t, settlement.StatusPaid, got.Status)
}

func TestRecordPayment_FalloAlConfirmarNoDejaRastro(t *testing.T) {
	f := newFixture(t)
	inv := f.invoiceOf500(t)
	before := f.account(t, "1305")

	f.store.FailCommit = errors.New("disk full")
	_, err := f.pay("100.00", entity.PaymentCash, "k-1", inv.ID)
	require.Error(t, err)
	assert.True(t, domain.IsStorage(err))

	f.store.FailCommit = nil
	got, err := f.invoices.Get(context.Background(), companyID, inv.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Payments)
	assert.Equal(t, "500.00", got.BalanceDue.String())
	assert.True(t, before.CreditTotal.Equal(f.account(t, "1305").CreditTotal))
	assert.True(t, f.account(t, "1105").DebitTotal.IsZero())

	resp, err := f.pay("100.00", entity.PaymentCash, "k-1", inv.ID)
	require.NoError(t, err, "la clave se libera cuando la transacción falla")
	assert.False(t, resp.Replayed)
}

func TestRecordPayment_Idempotencia(t *testing.T) {
	f := newFixture(t)
	inv := f.invoiceOf500(t)

	first, err := f.pay("100.00", entity.PaymentCash, "pago-1", inv.ID)
	require.NoError(t, err)
	second, err := f.pay("100.00", entity.PaymentCash, "pago-1", inv.ID)
	require.NoError(t, err)

	assert.True(t, second.Replayed)
	assert.Equal(t, first.Payment.ID, second.Payment.ID)
	assert.Equal(t, "400.00", second.BalanceDue.String())

	got, err := f.invoices.Get(context.Background(), companyID, inv.ID)
	require.NoError(t, err)
	assert.Len(t, got.Payments, 1)

	other := f.invoiceOf500(t)
	_, err = f.pay("100.00", entity.PaymentCash, "pago-1", other.ID)
	assert.True(t, errors.Is(err, domain.ErrConflict))
}

func TestRecordPayment_ClaveEnCurso(t *testing.T) {
	f := newFixture(t)
	inv := f.invoiceOf500(t)

	_, done, err := f.idem.Reserve(context.Background(), companyID+":en-curso")
	require.NoError(t, err)
	require.False(t, done)

	_, err = f.pay("100.00", entity.PaymentCash, "en-curso", inv.ID)
	assert.True(t, errors.Is(err, domain.ErrInProgress))
}

func TestRecordPayment_IndiceUnicoSinStoreDeIdempotencia(t *testing.T) {
	f := newFixture(t)
	inv := f.invoiceOf500(t)
	uc := billing.NewSettlementUseCase(f.store, f.journal, nil, billing.DefaultPostingAccounts(), cop, logger.Nop())
	req := dto.RecordPaymentRequest{Amount: d("100.00"), Method: entity.PaymentCash, IdempotencyKey: "sin-redis"}

	first, err := uc.RecordPayment(context.Background(), companyID, userID, inv.ID, req)
	require.NoError(t, err)
	second, err := uc.RecordPayment(context.Background(), companyID, userID, inv.ID, req)
	require.NoError(t, err)

	assert.True(t, second.Replayed)
	assert.Equal(t, first.Payment.ID, second.Payment.ID)
	assert.Equal(t, "400.00", second.BalanceDue.String())
}
