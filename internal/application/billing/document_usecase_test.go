package billing_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ledger-api/internal/application/dto"
	"github.com/jhoicas/ledger-api/internal/domain"
	"github.com/jhoicas/ledger-api/internal/domain/entity"
)

func TestDocumentUseCase_CreateCalculaTotales(t *testing.T) {
	f := newFixture(t)
	doc, err := f.documents.Create(context.Background(), companyID, userID, dto.CreateDocumentRequest{
		Kind:    entity.DocumentSales,
		PartyID: f.customer,
		Items:   []dto.DocumentItemRequest{item("3", "10.00", "5.00", "10"), item("1", "100.00", "0", "19")},
	})
	require.NoError(t, err)

	assert.Equal(t, entity.DocumentDraft, doc.Status)
	assert.Equal(t, "130.00", doc.Totals.TotalAmount.String())
	assert.Equal(t, "5.00", doc.Totals.DiscountAmount.String())
	assert.Equal(t, "21.50", doc.Totals.TaxAmount.String())
	assert.Equal(t, "146.50", doc.Totals.GrandTotal.String())
	require.Len(t, doc.Items, 2)
	assert.Equal(t, "27.50", doc.Items[0].LineTotal.String())
	assert.Equal(t, doc.OrderDate, doc.DueDate, "sin vencimiento se usa la fecha de la orden")
	assert.Contains(t, doc.Number, "SO-")
}

func TestDocumentUseCase_CreateValidaciones(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	t.Run("orden vacía", func(t *testing.T) {
		_, err := f.documents.Create(ctx, companyID, userID, dto.CreateDocumentRequest{Kind: entity.DocumentSales, PartyID: f.customer})
		assert.True(t, domain.IsKind(err, domain.KindEmptyOrder))
	})

	t.Run("vencimiento anterior a la orden", func(t *testing.T) {
		_, err := f.documents.Create(ctx, companyID, userID, dto.CreateDocumentRequest{
			Kind: entity.DocumentSales, PartyID: f.customer,
			OrderDate: "2026-03-10", DueDate: "2026-03-01",
			Items: []dto.DocumentItemRequest{item("1", "10", "0", "0")},
		})
		ve, ok := domain.AsValidation(err)
		require.True(t, ok)
		assert.Equal(t, domain.KindOutOfRange, ve.Kind)
		assert.Equal(t, "due_date", ve.Field)
	})

	t.Run("tercero de otro tipo", func(t *testing.T) {
		_, err := f.documents.Create(ctx, companyID, userID, dto.CreateDocumentRequest{
			Kind: entity.DocumentPurchase, PartyID: f.customer,
			Items: []dto.DocumentItemRequest{item("1", "10", "0", "0")},
		})
		assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	})

	t.Run("tercero inexistente", func(t *testing.T) {
		_, err := f.documents.Create(ctx, companyID, userID, dto.CreateDocumentRequest{
			Kind: entity.DocumentSales, PartyID: "no-existe",
			Items: []dto.DocumentItemRequest{item("1", "10", "0", "0")},
		})
		assert.True(t, errors.Is(err, domain.ErrNotFound))
	})

	t.Run("descuento mayor al subtotal en la segunda línea", func(t *testing.T) {
		_, err := f.documents.Create(ctx, companyID, userID, dto.CreateDocumentRequest{
			Kind: entity.DocumentSales, PartyID: f.customer,
			Items: []dto.DocumentItemRequest{item("1", "10", "0", "0"), item("1", "10", "11", "0")},
		})
		ve, ok := domain.AsValidation(err)
		require.True(t, ok)
		assert.Equal(t, domain.KindDiscountExceedsSubtotal, ve.Kind)
		assert.Equal(t, "items[1].discount", ve.Field)
	})

	t.Run("línea sin producto ni precio", func(t *testing.T) {
		_, err := f.documents.Create(ctx, companyID, userID, dto.CreateDocumentRequest{
			Kind: entity.DocumentSales, PartyID: f.customer,
			Items: []dto.DocumentItemRequest{{Quantity: d("1")}},
		})
		ve, ok := domain.AsValidation(err)
		require.True(t, ok)
		assert.Equal(t, domain.KindRequired, ve.Kind)
		assert.Equal(t, "items[0].unit_price", ve.Field)
	})
}

func TestDocumentUseCase_PrecioPorDefectoDelProducto(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p, err := f.products.Create(ctx, companyID, dto.CreateProductRequest{SKU: "SKU-1", Name: "Servicio", Price: d("12.50"), TaxRate: d("19")})
	require.NoError(t, err)

	doc, err := f.documents.Create(ctx, companyID, userID, dto.CreateDocumentRequest{
		Kind: entity.DocumentSales, PartyID: f.customer,
		Items: []dto.DocumentItemRequest{{ProductID: p.ID, Quantity: d("2")}},
	})
	require.NoError(t, err)
	require.Len(t, doc.Items, 1)
	assert.Equal(t, "12.50", doc.Items[0].UnitPrice.String())
	assert.True(t, d("19").Equal(doc.Items[0].TaxRate))
	assert.Equal(t, "29.75", doc.Totals.GrandTotal.String())
}

func TestDocumentUseCase_EdicionIncremental(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	doc, err := f.documents.Create(ctx, companyID, userID, dto.CreateDocumentRequest{
		Kind: entity.DocumentSales, PartyID: f.customer,
		Items: []dto.DocumentItemRequest{item("3", "10.00", "5.00", "10")},
	})
	require.NoError(t, err)

	doc, err = f.documents.AddItem(ctx, companyID, doc.ID, item("1", "100.00", "0", "19"))
	require.NoError(t, err)
	assert.Equal(t, "146.50", doc.Totals.GrandTotal.String())
	assert.Equal(t, 2, doc.Totals.ItemCount)

	doc, err = f.documents.UpdateItem(ctx, companyID, doc.ID, 1, item("2", "100.00", "0", "19"))
	require.NoError(t, err)
	assert.Equal(t, "265.50", doc.Totals.GrandTotal.String())

	doc, err = f.documents.RemoveItem(ctx, companyID, doc.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, "238.00", doc.Totals.GrandTotal.String())
	require.Len(t, doc.Items, 1)
	assert.Equal(t, 0, doc.Items[0].Position)

	_, err = f.documents.RemoveItem(ctx, companyID, doc.ID, 0)
	assert.True(t, domain.IsKind(err, domain.KindEmptyOrder))
	got, err := f.documents.Get(ctx, companyID, doc.ID)
	require.NoError(t, err)
	assert.Len(t, got.Items, 1, "un rechazo no modifica el documento")

	_, err = f.documents.UpdateItem(ctx, companyID, doc.ID, 5, item("1", "1", "0", "0"))
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestDocumentUseCase_Transiciones(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	inv := f.invoiceOf500(t)

	_, err := f.documents.AddItem(ctx, companyID, inv.DocumentID, item("1", "1", "0", "0"))
	assert.True(t, errors.Is(err, domain.ErrReadOnly), "un documento facturado es de solo lectura")
	_, err = f.documents.Cancel(ctx, companyID, inv.DocumentID)
	assert.True(t, errors.Is(err, domain.ErrReadOnly))

	doc, err := f.documents.Create(ctx, companyID, userID, dto.CreateDocumentRequest{
		Kind: entity.DocumentSales, PartyID: f.customer,
		Items: []dto.DocumentItemRequest{item("1", "1", "0", "0")},
	})
	require.NoError(t, err)
	cancelled, err := f.documents.Cancel(ctx, companyID, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.DocumentCancelled, cancelled.Status)
	_, err = f.documents.Confirm(ctx, companyID, doc.ID)
	assert.True(t, errors.Is(err, domain.ErrInvalidStatus))

	_, err = f.documents.Get(ctx, otherCo, doc.ID)
	assert.True(t, errors.Is(err, domain.ErrForbidden))
}
