package billing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/ledger-api/internal/application/accounting"
	"github.com/jhoicas/ledger-api/internal/application/dto"
	"github.com/jhoicas/ledger-api/internal/domain"
	"github.com/jhoicas/ledger-api/internal/domain/entity"
	"github.com/jhoicas/ledger-api/internal/domain/money"
	"github.com/jhoicas/ledger-api/internal/domain/repository"
	"github.com/jhoicas/ledger-api/internal/domain/settlement"
	"github.com/jhoicas/ledger-api/pkg/logger"
)

// SettlementUseCase registra pagos contra facturas.
type SettlementUseCase struct {
	txRunner BillingTxRunner
	poster   JournalPoster
	idem     IdempotencyStore // opcional
	accounts PostingAccounts
	cur      money.Currency
	log      *logger.Logger
}

// NewSettlementUseCase construye el caso de uso. idem puede ser nil (sin deduplicación por clave).
func NewSettlementUseCase(
	txRunner BillingTxRunner,
	poster JournalPoster,
	idem IdempotencyStore,
	accounts PostingAccounts,
	cur money.Currency,
	log *logger.Logger,
) *SettlementUseCase {
	return &SettlementUseCase{
		txRunner: txRunner,
		poster:   poster,
		idem:     idem,
		accounts: accounts,
		cur:      cur,
		log:      log.Component("settlement"),
	}
}

// RecordPayment registra un pago.
//
// Dentro de una transacción bloquea la factura, relee todos sus pagos, valida el monto contra el
// saldo posterior al bloqueo, agrega el pago, registra el asiento espejo y actualiza el estado.
// Dos pagos concurrentes sobre la misma factura se serializan: nunca pueden sobrepagarla.
func (uc *SettlementUseCase) RecordPayment(ctx context.Context, companyID, userID, invoiceID string, in dto.RecordPaymentRequest) (*dto.RecordPaymentResponse, error) {
	if !entity.ValidPaymentMethod(in.Method) {
		return nil, fmt.Errorf("%w: medio de pago %q", domain.ErrInvalidInput, in.Method)
	}
	amount, err := uc.cur.FromDecimalChecked("amount", in.Amount)
	if err != nil {
		return nil, err
	}
	if !amount.IsPositive() {
		// Se informa el valor recibido, no el redondeado (0.004 -> "0.004").
		return nil, domain.NewValidationError(domain.KindNonPositiveAmount, "amount").
			WithValue(in.Amount).WithPlaces(uc.cur.Exponent)
	}
	date, err := dto.ParseDate("date", in.Date, time.Now())
	if err != nil {
		return nil, err
	}

	key := strings.TrimSpace(in.IdempotencyKey)
	scoped := companyID + ":" + key
	if key != "" && uc.idem != nil {
		stored, done, err := uc.idem.Reserve(ctx, scoped)
		if err != nil {
			return nil, err
		}
		if done {
			var resp dto.RecordPaymentResponse
			if err := json.Unmarshal(stored, &resp); err != nil {
				return nil, fmt.Errorf("idempotency replay: %w", err)
			}
			if resp.Payment.InvoiceID != invoiceID {
				return nil, fmt.Errorf("%w: la clave de idempotencia ya se usó en otra factura", domain.ErrConflict)
			}
			resp.Replayed = true
			return &resp, nil
		}
	}

	resp, err := uc.record(ctx, companyID, userID, invoiceID, key, amount, date, in)
	if err != nil {
		if key != "" && uc.idem != nil {
			if rerr := uc.idem.Release(context.WithoutCancel(ctx), scoped); rerr != nil {
				uc.log.Error().Err(rerr).Str("key", key).Msg("no se pudo liberar la clave de idempotencia")
			}
		}
		if ve, ok := domain.AsValidation(err); ok {
			uc.log.Warn().
				Str("company_id", companyID).
				Str("invoice_id", invoiceID).
				Str("kind", string(ve.Kind)).
				Str("amount", amount.String()).
				Msg("pago rechazado")
		}
		return nil, err
	}

	if key != "" && uc.idem != nil && !resp.Replayed {
		raw, err := json.Marshal(resp)
		if err == nil {
			err = uc.idem.Complete(context.WithoutCancel(ctx), scoped, raw)
		}
		if err != nil {
			// El pago ya quedó persistido; el índice único sobre la clave cubre un reintento.
			uc.log.Error().Err(err).Str("key", key).Msg("no se pudo guardar el resultado idempotente")
		}
	}
	uc.log.Info().
		Str("company_id", companyID).
		Str("invoice_id", invoiceID).
		Str("payment_id", resp.Payment.ID).
		Str("amount", resp.Payment.Amount.String()).
		Str("balance_due", resp.BalanceDue.String()).
		Str("status", string(resp.Status)).
		Msg("pago registrado")
	return resp, nil
}

func (uc *SettlementUseCase) record(
	ctx context.Context,
	companyID, userID, invoiceID, key string,
	amount money.Money,
	date time.Time,
	in dto.RecordPaymentRequest,
) (*dto.RecordPaymentResponse, error) {
	var resp *dto.RecordPaymentResponse
	err := uc.txRunner.RunLedger(ctx, func(r repository.TxRepos) error {
		inv, err := ownedInvoice(ctx, r.Invoices, companyID, invoiceID, true)
		if err != nil {
			return err
		}
		payments, err := r.Payments.ListByInvoice(ctx, inv.ID)
		if err != nil {
			return err
		}
		state := deriveState(uc.cur, inv, payments)

		if key != "" {
			prev, err := r.Payments.GetByIdempotencyKey(ctx, companyID, key)
			if err != nil {
				return err
			}
			if prev != nil {
				if prev.InvoiceID != inv.ID {
					return fmt.Errorf("%w: la clave de idempotencia ya se usó en otra factura", domain.ErrConflict)
				}
				resp = uc.response(prev, state)
				resp.Replayed = true
				return nil
			}
		}

		next, err := state.Apply(amount)
		if err != nil {
			return err
		}

		now := time.Now()
		payment := &entity.Payment{
			ID:             uuid.New().String(),
			CompanyID:      companyID,
			InvoiceID:      inv.ID,
			Amount:         amount.Decimal(),
			Method:         in.Method,
			Date:           date,
			Reference:      strings.TrimSpace(in.Reference),
			IdempotencyKey: key,
			CreatedBy:      userID,
			CreatedAt:      now,
		}

		rows, err := postingRows(ctx, r.Accounts, companyID, uc.paymentPostings(inv.Kind, in.Method, amount)...)
		if err != nil {
			return err
		}
		entry, err := uc.poster.PostInTx(ctx, r, accounting.EntryDraft{
			CompanyID:   companyID,
			CreatedBy:   userID,
			Date:        date,
			Description: fmt.Sprintf("Pago factura %s", inv.Number),
			Source:      entity.JournalSourcePayment,
			SourceID:    payment.ID,
			Rows:        rows,
		})
		if err != nil {
			return err
		}
		payment.JournalEntryID = entry.ID

		if err := r.Payments.Create(ctx, payment); err != nil {
			if errors.Is(err, domain.ErrDuplicate) {
				return fmt.Errorf("%w: pago con la misma clave de idempotencia", domain.ErrConflict)
			}
			return err
		}
		if string(next.Status) != inv.Status {
			if err := r.Invoices.UpdateStatus(ctx, inv.ID, string(next.Status)); err != nil {
				return err
			}
		}
		resp = uc.response(payment, next)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// paymentPostings venta: Dr caja/banco, Cr cuentas por cobrar; compra: Dr cuentas por pagar, Cr caja/banco.
func (uc *SettlementUseCase) paymentPostings(kind, method string, amount money.Money) []posting {
	funds := uc.accounts.Bank
	if method == entity.PaymentCash {
		funds = uc.accounts.Cash
	}
	v := amount.Decimal()
	if kind == entity.DocumentPurchase {
		return []posting{{code: uc.accounts.Payable, debit: v}, {code: funds, credit: v}}
	}
	return []posting{{code: funds, debit: v}, {code: uc.accounts.Receivable, credit: v}}
}

func (uc *SettlementUseCase) response(p *entity.Payment, st settlement.State) *dto.RecordPaymentResponse {
	return &dto.RecordPaymentResponse{
		Payment:    toPaymentResponse(uc.cur, p),
		PaidAmount: st.PaidAmount,
		BalanceDue: st.BalanceDue,
		Status:     st.Status,
	}
}
