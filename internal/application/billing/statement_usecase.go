package billing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/ledger-api/internal/domain/entity"
	"github.com/jhoicas/ledger-api/internal/domain/money"
	"github.com/jhoicas/ledger-api/internal/domain/repository"
	"github.com/jhoicas/ledger-api/internal/domain/settlement"
)

// StatementUseCase genera el estado de cuenta (PDF) de una factura.
type StatementUseCase struct {
	invoices    repository.InvoiceRepository
	payments    repository.PaymentRepository
	parties     repository.PartyRepository
	documents   repository.DocumentRepository
	generator   StatementPDFGenerator
	companyName string
	cur         money.Currency
	Now         func() time.Time
}

// NewStatementUseCase construye el caso de uso inyectando todas sus dependencias.
func NewStatementUseCase(
	invoices repository.InvoiceRepository,
	payments repository.PaymentRepository,
	parties repository.PartyRepository,
	documents repository.DocumentRepository,
	generator StatementPDFGenerator,
	companyName string,
	cur money.Currency,
) *StatementUseCase {
	return &StatementUseCase{
		invoices:    invoices,
		payments:    payments,
		parties:     parties,
		documents:   documents,
		generator:   generator,
		companyName: companyName,
		cur:         cur,
		Now:         time.Now,
	}
}

// DownloadStatement carga factura, tercero, documento y pagos y genera el PDF.
//
// Retorna:
//   - (pdfBytes, filename, nil)  si todo sale bien.
//   - domain.ErrNotFound         si la factura no existe.
//   - domain.ErrForbidden        si la factura no pertenece a la empresa del token.
func (uc *StatementUseCase) DownloadStatement(ctx context.Context, companyID, invoiceID string) (pdfBytes []byte, filename string, err error) {
	inv, err := ownedInvoice(ctx, uc.invoices, companyID, invoiceID, false)
	if err != nil {
		return nil, "", err
	}

	data := StatementData{CompanyName: uc.companyName, Currency: uc.cur, Invoice: inv}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		data.Payments, err = uc.payments.ListByInvoice(gctx, inv.ID)
		return err
	})
	g.Go(func() error {
		var err error
		data.Party, err = uc.parties.GetByID(gctx, inv.PartyID)
		return err
	})
	g.Go(func() error {
		var err error
		data.Document, err = uc.documents.GetByID(gctx, inv.DocumentID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, "", fmt.Errorf("statement: cargar datos: %w", err)
	}
	if data.Party == nil {
		data.Party = &entity.Party{ID: inv.PartyID, Name: "Tercero " + inv.PartyID}
	}

	data.State = deriveState(uc.cur, inv, data.Payments)
	data.Status = settlement.DisplayStatus(data.State, inv.DueDate, uc.Now())

	pdfBytes, err = uc.generator.GenerateStatementPDF(ctx, data)
	if err != nil {
		return nil, "", fmt.Errorf("statement: generación fallida: %w", err)
	}
	filename = fmt.Sprintf("estado_cuenta_%s.pdf", safeFilename(inv.Number))
	return pdfBytes, filename, nil
}

func safeFilename(s string) string {
	if s == "" {
		return "factura"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, s)
}

