package ledger_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ledger-api/internal/domain"
	"github.com/jhoicas/ledger-api/internal/domain/ledger"
	"github.com/jhoicas/ledger-api/internal/domain/money"
)

var usd = money.Currency{Code: "USD", Exponent: 2}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func line(qty, price, disc, rate string) ledger.LineInput {
	return ledger.LineInput{Quantity: d(qty), UnitPrice: d(price), Discount: d(disc), TaxRate: d(rate)}
}

// ─────────────────────────────────────────────────────────────────────────────
// Cálculo de línea
// ─────────────────────────────────────────────────────────────────────────────

func TestComputeLineItem_Basico(t *testing.T) {
	got, err := ledger.ComputeLineItem(usd, line("3", "10.00", "5.00", "10"))
	require.NoError(t, err)

	assert.Equal(t, "30.00", got.Subtotal.String())
	assert.Equal(t, "5.00", got.Discount.String())
	assert.Equal(t, "25.00", got.TaxableAmount.String())
	assert.Equal(t, "2.50", got.TaxAmount.String())
	assert.Equal(t, "27.50", got.LineTotal.String())
}

func TestComputeLineItem_Identidades(t *testing.T) {
	inputs := []ledger.LineInput{
		line("1", "0.01", "0", "19"),
		line("7", "13.33", "2.50", "19"),
		line("0.333", "9.99", "0", "5"),
		line("2.5", "1999.99", "100", "0"),
	}
	for _, in := range inputs {
		got, err := ledger.ComputeLineItem(usd, in)
		require.NoError(t, err)
		assert.True(t, got.TaxableAmount.Equal(got.Subtotal.Sub(got.Discount)))
		assert.True(t, got.LineTotal.Equal(got.TaxableAmount.Add(got.TaxAmount)))
		assert.False(t, got.TaxAmount.IsNegative())
	}
}

func TestComputeLineItem_TasaCeroNoGeneraImpuesto(t *testing.T) {
	got, err := ledger.ComputeLineItem(usd, line("2", "50", "0", "0"))
	require.NoError(t, err)
	assert.True(t, got.TaxAmount.IsZero())
	assert.Equal(t, "100.00", got.LineTotal.String())
}

func TestComputeLineItem_DescuentoIgualAlSubtotal(t *testing.T) {
	got, err := ledger.ComputeLineItem(usd, line("1", "10", "10", "19"))
	require.NoError(t, err)
	assert.True(t, got.LineTotal.IsZero())
}

func TestComputeLineItem_DescuentoMayorAlSubtotal(t *testing.T) {
	_, err := ledger.ComputeLineItem(usd, line("1", "10", "10.01", "19"))
	require.Error(t, err)
	ve, ok := domain.AsValidation(err)
	require.True(t, ok)
	assert.Equal(t, domain.KindDiscountExceedsSubtotal, ve.Kind)
	assert.Equal(t, "discount", ve.Field)
	assert.Equal(t, "10.00", ve.Limit.StringFixed(2))
}

func TestComputeLineItem_EntradasFueraDeRango(t *testing.T) {
	cases := map[string]ledger.LineInput{
		"quantity":   line("0", "10", "0", "0"),
		"unit_price": line("1", "-1", "0", "0"),
		"discount":   line("1", "10", "-1", "0"),
		"tax_rate":   line("1", "10", "0", "101"),
	}
	for field, in := range cases {
		t.Run(field, func(t *testing.T) {
			_, err := ledger.ComputeLineItem(usd, in)
			ve, ok := domain.AsValidation(err)
			require.True(t, ok)
			assert.Equal(t, domain.KindOutOfRange, ve.Kind)
			assert.Equal(t, field, ve.Field)
		})
	}
}

func TestComputeLineItem_MonedaSinDecimales(t *testing.T) {
	jpy := money.Currency{Code: "JPY", Exponent: 0}
	got, err := ledger.ComputeLineItem(jpy, line("3", "333", "0", "10"))
	require.NoError(t, err)
	// 999 * 10% = 99.9 -> 100
	assert.Equal(t, "100", got.TaxAmount.String())
	assert.Equal(t, "1099", got.LineTotal.String())
}

func TestComputeLineItem_MontosFueraDeRango(t *testing.T) {
	_, err := ledger.ComputeLineItem(usd, line("1e15", "1000", "0", "0"))
	ve, ok := domain.AsValidation(err)
	require.True(t, ok)
	assert.Equal(t, domain.KindOutOfRange, ve.Kind)
	assert.Equal(t, "subtotal", ve.Field)

	_, err = ledger.ComputeLineItem(usd, line("1", "184467440737095517.16", "0", "0"))
	assert.True(t, domain.IsKind(err, domain.KindOutOfRange))

	// El subtotal cabe, pero no con el impuesto.
	_, err = ledger.ComputeLineItem(usd, line("1", "10000000000000.00", "0", "19"))
	ve, ok = domain.AsValidation(err)
	require.True(t, ok)
	assert.Equal(t, "line_total", ve.Field)
}
