package billing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/ledger-api/internal/application/accounting"
	"github.com/jhoicas/ledger-api/internal/application/dto"
	"github.com/jhoicas/ledger-api/internal/domain"
	"github.com/jhoicas/ledger-api/internal/domain/entity"
	"github.com/jhoicas/ledger-api/internal/domain/ledger"
	"github.com/jhoicas/ledger-api/internal/domain/money"
	"github.com/jhoicas/ledger-api/internal/domain/repository"
	"github.com/jhoicas/ledger-api/internal/domain/settlement"
	"github.com/jhoicas/ledger-api/pkg/logger"
)

// InvoiceUseCase facturación de documentos confirmados y consultas de saldo.
type InvoiceUseCase struct {
	txRunner BillingTxRunner
	poster   JournalPoster
	invoices repository.InvoiceRepository
	payments repository.PaymentRepository
	parties  repository.PartyRepository
	accounts PostingAccounts
	cur      money.Currency
	log      *logger.Logger
	// Now fecha de corte para vencimientos; por defecto time.Now.
	Now func() time.Time
}

// NewInvoiceUseCase construye el caso de uso.
func NewInvoiceUseCase(
	txRunner BillingTxRunner,
	poster JournalPoster,
	invoices repository.InvoiceRepository,
	payments repository.PaymentRepository,
	parties repository.PartyRepository,
	accounts PostingAccounts,
	cur money.Currency,
	log *logger.Logger,
) *InvoiceUseCase {
	return &InvoiceUseCase{
		txRunner: txRunner,
		poster:   poster,
		invoices: invoices,
		payments: payments,
		parties:  parties,
		accounts: accounts,
		cur:      cur,
		log:      log.Component("invoicing"),
		Now:      time.Now,
	}
}

// InvoiceDocument factura un documento confirmado. En una sola transacción: congela el total,
// registra el asiento espejo y deja el documento en solo lectura.
//
//	venta:  Dr cuentas por cobrar (total) / Cr ventas (neto) / Cr IVA generado (impuesto)
//	compra: Dr compras (neto) / Dr IVA descontable (impuesto) / Cr cuentas por pagar (total)
func (uc *InvoiceUseCase) InvoiceDocument(ctx context.Context, companyID, userID, documentID string, in dto.InvoiceDocumentRequest) (*dto.InvoiceResponse, error) {
	now := uc.Now()
	date, err := dto.ParseDate("date", in.Date, now)
	if err != nil {
		return nil, err
	}

	var inv *entity.Invoice
	err = uc.txRunner.RunLedger(ctx, func(r repository.TxRepos) error {
		doc, err := ownedDocument(ctx, r.Documents, companyID, documentID, true)
		if err != nil {
			return err
		}
		switch doc.Status {
		case entity.DocumentInvoiced:
			return domain.ErrReadOnly
		case entity.DocumentConfirmed:
		default:
			return fmt.Errorf("%w: solo se factura un documento confirmado (estado %s)", domain.ErrInvalidStatus, doc.Status)
		}
		if existing, err := r.Invoices.GetByDocumentID(ctx, doc.ID); err != nil {
			return err
		} else if existing != nil {
			return domain.ErrDuplicate
		}

		// Totales recalculados desde las líneas persistidas.
		totals, err := ledger.Load(uc.cur, linesOf(uc.cur, doc.Items)).Totals()
		if err != nil {
			return err
		}

		number := strings.TrimSpace(in.Number)
		if number == "" {
			number = doc.Number
		}
		inv = &entity.Invoice{
			ID:         uuid.New().String(),
			CompanyID:  companyID,
			DocumentID: doc.ID,
			Kind:       doc.Kind,
			PartyID:    doc.PartyID,
			Number:     number,
			Date:       date,
			DueDate:    doc.DueDate,
			Currency:   uc.cur.Code,
			NetTotal:   totals.NetAmount().Decimal(),
			TaxTotal:   totals.TaxAmount.Decimal(),
			GrandTotal: totals.GrandTotal.Decimal(),
			Status:     string(settlement.StatusFor(totals.GrandTotal, totals.GrandTotal)),
			CreatedAt:  now,
			UpdatedAt:  now,
		}

		if totals.GrandTotal.IsPositive() {
			rows, err := uc.invoiceRows(ctx, r.Accounts, companyID, doc.Kind, totals)
			if err != nil {
				return err
			}
			entry, err := uc.poster.PostInTx(ctx, r, accounting.EntryDraft{
				CompanyID:   companyID,
				CreatedBy:   userID,
				Date:        date,
				Description: fmt.Sprintf("Factura %s", number),
				Source:      entity.JournalSourceInvoice,
				SourceID:    inv.ID,
				Rows:        rows,
			})
			if err != nil {
				return err
			}
			inv.JournalEntryID = entry.ID
		}

		if err := r.Invoices.Create(ctx, inv); err != nil {
			return err
		}
		doc.Status = entity.DocumentInvoiced
		doc.UpdatedAt = now
		return r.Documents.Update(ctx, doc)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("company_id", companyID).
		Str("invoice_id", inv.ID).
		Str("document_id", documentID).
		Str("grand_total", inv.GrandTotal.StringFixed(uc.cur.Exponent)).
		Msg("documento facturado")
	return uc.toResponse(inv, nil, nil), nil
}

func (uc *InvoiceUseCase) invoiceRows(ctx context.Context, accounts repository.AccountRepository, companyID, kind string, t ledger.Totals) ([]ledger.JournalRowInput, error) {
	net := t.NetAmount().Decimal()
	tax := t.TaxAmount.Decimal()
	grand := t.GrandTotal.Decimal()
	if kind == entity.DocumentPurchase {
		return postingRows(ctx, accounts, companyID,
			posting{code: uc.accounts.Purchases, debit: net},
			posting{code: uc.accounts.TaxReceivable, debit: tax},
			posting{code: uc.accounts.Payable, credit: grand},
		)
	}
	return postingRows(ctx, accounts, companyID,
		posting{code: uc.accounts.Receivable, debit: grand},
		posting{code: uc.accounts.Sales, credit: net},
		posting{code: uc.accounts.TaxPayable, credit: tax},
	)
}

// Get devuelve la factura con lo pagado, saldo y estado derivados en esta lectura.
func (uc *InvoiceUseCase) Get(ctx context.Context, companyID, id string) (*dto.InvoiceResponse, error) {
	inv, err := ownedInvoice(ctx, uc.invoices, companyID, id, false)
	if err != nil {
		return nil, err
	}
	var (
		payments []*entity.Payment
		party    *entity.Party
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		payments, err = uc.payments.ListByInvoice(gctx, inv.ID)
		return err
	})
	g.Go(func() error {
		var err error
		party, err = uc.parties.GetByID(gctx, inv.PartyID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return uc.toResponse(inv, payments, party), nil
}

// ListPayments pagos de la factura en orden de registro.
func (uc *InvoiceUseCase) ListPayments(ctx context.Context, companyID, id string) ([]dto.PaymentResponse, error) {
	inv, err := ownedInvoice(ctx, uc.invoices, companyID, id, false)
	if err != nil {
		return nil, err
	}
	payments, err := uc.payments.ListByInvoice(ctx, inv.ID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PaymentResponse, 0, len(payments))
	for _, p := range payments {
		out = append(out, toPaymentResponse(uc.cur, p))
	}
	return out, nil
}

// Aging antigüedad de saldos abiertos: sales = por cobrar, purchase = por pagar.
func (uc *InvoiceUseCase) Aging(ctx context.Context, companyID string, in dto.AgingRequest) (*dto.AgingResponse, error) {
	kind := in.Kind
	if kind == "" {
		kind = entity.DocumentSales
	}
	if !entity.ValidDocumentKind(kind) {
		return nil, domain.ErrInvalidInput
	}
	asOf, err := dto.ParseDate("as_of", in.AsOf, uc.Now())
	if err != nil {
		return nil, err
	}
	open, err := uc.invoices.ListOpen(ctx, companyID, kind)
	if err != nil {
		return nil, err
	}

	balances := make([]settlement.Open, len(open))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for i, inv := range open {
		g.Go(func() error {
			payments, err := uc.payments.ListByInvoice(gctx, inv.ID)
			if err != nil {
				return err
			}
			st := deriveState(uc.cur, inv, payments)
			balances[i] = settlement.Open{InvoiceID: inv.ID, PartyID: inv.PartyID, DueDate: inv.DueDate, BalanceDue: st.BalanceDue}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &dto.AgingResponse{
		Kind:     kind,
		AsOf:     dto.FormatDate(asOf),
		Currency: uc.cur.Code,
		Buckets:  settlement.Aging(uc.cur, asOf, balances),
	}, nil
}

func (uc *InvoiceUseCase) toResponse(inv *entity.Invoice, payments []*entity.Payment, party *entity.Party) *dto.InvoiceResponse {
	st := deriveState(uc.cur, inv, payments)
	asOf := uc.Now()
	resp := &dto.InvoiceResponse{
		ID:             inv.ID,
		DocumentID:     inv.DocumentID,
		Kind:           inv.Kind,
		PartyID:        inv.PartyID,
		Number:         inv.Number,
		Date:           dto.FormatDate(inv.Date),
		DueDate:        dto.FormatDate(inv.DueDate),
		Currency:       inv.Currency,
		NetTotal:       uc.cur.FromDecimal(inv.NetTotal),
		TaxTotal:       uc.cur.FromDecimal(inv.TaxTotal),
		GrandTotal:     st.GrandTotal,
		PaidAmount:     st.PaidAmount,
		BalanceDue:     st.BalanceDue,
		Status:         st.Status,
		Overdue:        settlement.IsOverdue(inv.DueDate, asOf, st.BalanceDue),
		DisplayStatus:  settlement.DisplayStatus(st, inv.DueDate, asOf),
		JournalEntryID: inv.JournalEntryID,
	}
	if party != nil {
		resp.PartyName = party.Name
	}
	for _, p := range payments {
		resp.Payments = append(resp.Payments, toPaymentResponse(uc.cur, p))
	}
	return resp
}

func ownedInvoice(ctx context.Context, repo repository.InvoiceRepository, companyID, id string, lock bool) (*entity.Invoice, error) {
	var (
		inv *entity.Invoice
		err error
	)
	if lock {
		inv, err = repo.GetForUpdate(ctx, id)
	} else {
		inv, err = repo.GetByID(ctx, id)
	}
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, fmt.Errorf("%w: factura %s", domain.ErrNotFound, id)
	}
	if inv.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return inv, nil
}

// deriveState recalcula lo pagado y el saldo desde los pagos; nunca se leen de un valor guardado.
func deriveState(cur money.Currency, inv *entity.Invoice, payments []*entity.Payment) settlement.State {
	amounts := make([]money.Money, len(payments))
	for i, p := range payments {
		amounts[i] = cur.FromDecimal(p.Amount)
	}
	return settlement.Derive(cur.FromDecimal(inv.GrandTotal), amounts)
}

func toPaymentResponse(cur money.Currency, p *entity.Payment) dto.PaymentResponse {
	return dto.PaymentResponse{
		ID:             p.ID,
		InvoiceID:      p.InvoiceID,
		Amount:         cur.FromDecimal(p.Amount),
		Method:         p.Method,
		Date:           dto.FormatDate(p.Date),
		Reference:      p.Reference,
		JournalEntryID: p.JournalEntryID,
		CreatedAt:      p.CreatedAt,
	}
}
