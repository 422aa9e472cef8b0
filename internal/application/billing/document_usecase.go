package billing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/ledger-api/internal/application/dto"
	"github.com/jhoicas/ledger-api/internal/domain"
	"github.com/jhoicas/ledger-api/internal/domain/entity"
	"github.com/jhoicas/ledger-api/internal/domain/ledger"
	"github.com/jhoicas/ledger-api/internal/domain/money"
	"github.com/jhoicas/ledger-api/internal/domain/repository"
)

// DocumentUseCase órdenes de venta y de compra. Ambos flujos usan el mismo calculador.
type DocumentUseCase struct {
	txRunner  BillingTxRunner
	documents repository.DocumentRepository
	parties   repository.PartyRepository
	products  repository.ProductRepository
	cur       money.Currency
}

// NewDocumentUseCase construye el caso de uso.
func NewDocumentUseCase(
	txRunner BillingTxRunner,
	documents repository.DocumentRepository,
	parties repository.PartyRepository,
	products repository.ProductRepository,
	cur money.Currency,
) *DocumentUseCase {
	return &DocumentUseCase{
		txRunner:  txRunner,
		documents: documents,
		parties:   parties,
		products:  products,
		cur:       cur,
	}
}

// Create crea el documento en borrador con sus líneas y totales derivados.
func (uc *DocumentUseCase) Create(ctx context.Context, companyID, userID string, in dto.CreateDocumentRequest) (*dto.DocumentResponse, error) {
	if !entity.ValidDocumentKind(in.Kind) || strings.TrimSpace(in.PartyID) == "" {
		return nil, domain.ErrInvalidInput
	}
	party, err := uc.parties.GetByID(ctx, in.PartyID)
	if err != nil {
		return nil, err
	}
	if party == nil {
		return nil, fmt.Errorf("%w: tercero %s", domain.ErrNotFound, in.PartyID)
	}
	if party.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	if want := entity.PartyKindFor(in.Kind); party.Kind != want {
		return nil, fmt.Errorf("%w: un documento %s requiere un tercero de tipo %s", domain.ErrInvalidInput, in.Kind, want)
	}

	now := time.Now()
	orderDate, err := dto.ParseDate("order_date", in.OrderDate, now)
	if err != nil {
		return nil, err
	}
	dueDate, err := dto.ParseDate("due_date", in.DueDate, orderDate)
	if err != nil {
		return nil, err
	}
	if dateOnly(dueDate).Before(dateOnly(orderDate)) {
		return nil, domain.NewValidationError(domain.KindOutOfRange, "due_date")
	}

	inputs := make([]ledger.LineInput, len(in.Items))
	items := make([]entity.DocumentItem, len(in.Items))
	for i, it := range in.Items {
		inputs[i], items[i], err = resolveItem(ctx, uc.products, companyID, i, it)
		if err != nil {
			return nil, err
		}
	}
	lines, totals, err := ledger.AggregateInputs(uc.cur, inputs)
	if err != nil {
		return nil, err
	}

	id := uuid.New().String()
	number := strings.TrimSpace(in.Number)
	if number == "" {
		number = fmt.Sprintf("%s-%s", numberPrefix(in.Kind), strings.ToUpper(id[:8]))
	}
	doc := &entity.Document{
		ID:        id,
		CompanyID: companyID,
		Kind:      in.Kind,
		PartyID:   party.ID,
		Number:    number,
		OrderDate: orderDate,
		DueDate:   dueDate,
		Status:    entity.DocumentDraft,
		Currency:  uc.cur.Code,
		Notes:     in.Notes,
		CreatedBy: userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for i := range items {
		applyLine(&items[i], lines[i])
		items[i].ID = uuid.New().String()
		items[i].DocumentID = doc.ID
		items[i].Position = i
	}
	doc.Items = items
	applyTotals(doc, totals)

	err = uc.txRunner.RunLedger(ctx, func(r repository.TxRepos) error {
		return r.Documents.Create(ctx, doc)
	})
	if err != nil {
		return nil, err
	}
	return toDocumentResponse(uc.cur, doc), nil
}

// Get obtiene un documento de la empresa.
func (uc *DocumentUseCase) Get(ctx context.Context, companyID, id string) (*dto.DocumentResponse, error) {
	doc, err := ownedDocument(ctx, uc.documents, companyID, id, false)
	if err != nil {
		return nil, err
	}
	return toDocumentResponse(uc.cur, doc), nil
}

// AddItem agrega una línea; los totales se ajustan solo por la línea nueva.
func (uc *DocumentUseCase) AddItem(ctx context.Context, companyID, id string, in dto.DocumentItemRequest) (*dto.DocumentResponse, error) {
	return uc.edit(ctx, companyID, id, func(r repository.TxRepos, doc *entity.Document, agg *ledger.Aggregator) error {
		input, item, err := resolveItem(ctx, r.Products, companyID, agg.Len(), in)
		if err != nil {
			return err
		}
		pos, line, err := agg.Add(input)
		if err != nil {
			return err
		}
		applyLine(&item, line)
		item.ID = uuid.New().String()
		item.DocumentID = doc.ID
		item.Position = pos
		doc.Items = append(doc.Items, item)
		return nil
	})
}

// UpdateItem reemplaza la línea en la posición dada.
func (uc *DocumentUseCase) UpdateItem(ctx context.Context, companyID, id string, position int, in dto.DocumentItemRequest) (*dto.DocumentResponse, error) {
	return uc.edit(ctx, companyID, id, func(r repository.TxRepos, doc *entity.Document, agg *ledger.Aggregator) error {
		input, item, err := resolveItem(ctx, r.Products, companyID, position, in)
		if err != nil {
			return err
		}
		line, err := agg.Replace(position, input)
		if err != nil {
			return err
		}
		applyLine(&item, line)
		item.ID = doc.Items[position].ID
		item.DocumentID = doc.ID
		item.Position = position
		doc.Items[position] = item
		return nil
	})
}

// RemoveItem quita la línea en la posición dada. Un documento no puede quedar sin líneas.
func (uc *DocumentUseCase) RemoveItem(ctx context.Context, companyID, id string, position int) (*dto.DocumentResponse, error) {
	return uc.edit(ctx, companyID, id, func(_ repository.TxRepos, doc *entity.Document, agg *ledger.Aggregator) error {
		if err := agg.Remove(position); err != nil {
			return err
		}
		doc.Items = append(doc.Items[:position], doc.Items[position+1:]...)
		for i := range doc.Items {
			doc.Items[i].Position = i
		}
		return nil
	})
}

func (uc *DocumentUseCase) edit(
	ctx context.Context,
	companyID, id string,
	fn func(r repository.TxRepos, doc *entity.Document, agg *ledger.Aggregator) error,
) (*dto.DocumentResponse, error) {
	var doc *entity.Document
	err := uc.txRunner.RunLedger(ctx, func(r repository.TxRepos) error {
		var err error
		doc, err = ownedDocument(ctx, r.Documents, companyID, id, true)
		if err != nil {
			return err
		}
		if err := checkEditable(doc); err != nil {
			return err
		}
		agg := ledger.Load(uc.cur, linesOf(uc.cur, doc.Items))
		if err := fn(r, doc, agg); err != nil {
			return err
		}
		totals, err := agg.Totals()
		if err != nil {
			return err
		}
		applyTotals(doc, totals)
		doc.UpdatedAt = time.Now()
		return r.Documents.Update(ctx, doc)
	})
	if err != nil {
		return nil, err
	}
	return toDocumentResponse(uc.cur, doc), nil
}

// Confirm draft -> confirmed.
func (uc *DocumentUseCase) Confirm(ctx context.Context, companyID, id string) (*dto.DocumentResponse, error) {
	return uc.transition(ctx, companyID, id, entity.DocumentConfirmed, entity.DocumentDraft)
}

// Cancel draft|confirmed -> cancelled.
func (uc *DocumentUseCase) Cancel(ctx context.Context, companyID, id string) (*dto.DocumentResponse, error) {
	return uc.transition(ctx, companyID, id, entity.DocumentCancelled, entity.DocumentDraft, entity.DocumentConfirmed)
}

func (uc *DocumentUseCase) transition(ctx context.Context, companyID, id, to string, from ...string) (*dto.DocumentResponse, error) {
	var doc *entity.Document
	err := uc.txRunner.RunLedger(ctx, func(r repository.TxRepos) error {
		var err error
		doc, err = ownedDocument(ctx, r.Documents, companyID, id, true)
		if err != nil {
			return err
		}
		if doc.Status == entity.DocumentInvoiced {
			return domain.ErrReadOnly
		}
		allowed := false
		for _, s := range from {
			allowed = allowed || doc.Status == s
		}
		if !allowed {
			return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidStatus, doc.Status, to)
		}
		doc.Status = to
		doc.UpdatedAt = time.Now()
		return r.Documents.Update(ctx, doc)
	})
	if err != nil {
		return nil, err
	}
	return toDocumentResponse(uc.cur, doc), nil
}

func checkEditable(doc *entity.Document) error {
	switch {
	case doc.Status == entity.DocumentInvoiced:
		return domain.ErrReadOnly
	case !doc.Editable():
		return fmt.Errorf("%w: documento %s", domain.ErrInvalidStatus, doc.Status)
	}
	return nil
}

func ownedDocument(ctx context.Context, repo repository.DocumentRepository, companyID, id string, lock bool) (*entity.Document, error) {
	var (
		doc *entity.Document
		err error
	)
	if lock {
		doc, err = repo.GetForUpdate(ctx, id)
	} else {
		doc, err = repo.GetByID(ctx, id)
	}
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, fmt.Errorf("%w: documento %s", domain.ErrNotFound, id)
	}
	if doc.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return doc, nil
}

// resolveItem completa precio, tasa y descripción desde el producto cuando no vienen en la línea.
func resolveItem(ctx context.Context, products repository.ProductRepository, companyID string, i int, in dto.DocumentItemRequest) (ledger.LineInput, entity.DocumentItem, error) {
	item := entity.DocumentItem{ProductID: in.ProductID, Description: strings.TrimSpace(in.Description)}
	input := ledger.LineInput{Quantity: in.Quantity, Discount: in.Discount}
	if in.UnitPrice.Valid {
		input.UnitPrice = in.UnitPrice.Decimal
	}
	if in.TaxRate.Valid {
		input.TaxRate = in.TaxRate.Decimal
	}
	if in.ProductID != "" {
		p, err := products.GetByID(ctx, in.ProductID)
		if err != nil {
			return input, item, err
		}
		if p == nil || p.CompanyID != companyID {
			return input, item, fmt.Errorf("%w: producto %s en items[%d]", domain.ErrNotFound, in.ProductID, i)
		}
		if !in.UnitPrice.Valid {
			input.UnitPrice = p.Price
		}
		if !in.TaxRate.Valid {
			input.TaxRate = p.TaxRate
		}
		if item.Description == "" {
			item.Description = p.Name
		}
	} else if !in.UnitPrice.Valid {
		return input, item, domain.NewValidationError(domain.KindRequired, fmt.Sprintf("items[%d].unit_price", i))
	}
	return input, item, nil
}

func applyLine(item *entity.DocumentItem, l ledger.LineResult) {
	item.Quantity = l.Quantity
	item.UnitPrice = l.UnitPrice.Decimal()
	item.Discount = l.Discount.Decimal()
	item.TaxRate = l.TaxRate
	item.Subtotal = l.Subtotal.Decimal()
	item.TaxableAmount = l.TaxableAmount.Decimal()
	item.TaxAmount = l.TaxAmount.Decimal()
	item.LineTotal = l.LineTotal.Decimal()
}

func applyTotals(doc *entity.Document, t ledger.Totals) {
	doc.TotalAmount = t.TotalAmount.Decimal()
	doc.DiscountAmount = t.DiscountAmount.Decimal()
	doc.TaxAmount = t.TaxAmount.Decimal()
	doc.GrandTotal = t.GrandTotal.Decimal()
}

func linesOf(cur money.Currency, items []entity.DocumentItem) []ledger.LineResult {
	out := make([]ledger.LineResult, len(items))
	for i, it := range items {
		out[i] = ledger.LineResult{
			Quantity:      it.Quantity,
			UnitPrice:     cur.FromDecimal(it.UnitPrice),
			TaxRate:       it.TaxRate,
			Subtotal:      cur.FromDecimal(it.Subtotal),
			Discount:      cur.FromDecimal(it.Discount),
			TaxableAmount: cur.FromDecimal(it.TaxableAmount),
			TaxAmount:     cur.FromDecimal(it.TaxAmount),
			LineTotal:     cur.FromDecimal(it.LineTotal),
		}
	}
	return out
}

func numberPrefix(kind string) string {
	if kind == entity.DocumentPurchase {
		return "PO"
	}
	return "SO"
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func toDocumentResponse(cur money.Currency, doc *entity.Document) *dto.DocumentResponse {
	resp := &dto.DocumentResponse{
		ID:        doc.ID,
		Kind:      doc.Kind,
		PartyID:   doc.PartyID,
		Number:    doc.Number,
		OrderDate: dto.FormatDate(doc.OrderDate),
		DueDate:   dto.FormatDate(doc.DueDate),
		Status:    doc.Status,
		Notes:     doc.Notes,
		Totals: dto.TotalsResponse{
			Currency:       cur.Code,
			TotalAmount:    cur.FromDecimal(doc.TotalAmount),
			DiscountAmount: cur.FromDecimal(doc.DiscountAmount),
			TaxAmount:      cur.FromDecimal(doc.TaxAmount),
			GrandTotal:     cur.FromDecimal(doc.GrandTotal),
			ItemCount:      len(doc.Items),
		},
		Items: make([]dto.DocumentItemResponse, 0, len(doc.Items)),
	}
	for _, it := range doc.Items {
		resp.Items = append(resp.Items, dto.DocumentItemResponse{
			Position:      it.Position,
			ProductID:     it.ProductID,
			Description:   it.Description,
			Quantity:      it.Quantity,
			UnitPrice:     cur.FromDecimal(it.UnitPrice),
			Discount:      cur.FromDecimal(it.Discount),
			TaxRate:       it.TaxRate,
			Subtotal:      cur.FromDecimal(it.Subtotal),
			TaxableAmount: cur.FromDecimal(it.TaxableAmount),
			TaxAmount:     cur.FromDecimal(it.TaxAmount),
			LineTotal:     cur.FromDecimal(it.LineTotal),
		})
	}
	return resp
}
