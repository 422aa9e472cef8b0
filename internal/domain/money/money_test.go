package money_test

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ledger-api/internal/domain"
	"github.com/jhoicas/ledger-api/internal/domain/money"
)

var usd = money.Currency{Code: "USD", Exponent: 2}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestFromDecimal_RedondeoHalfUp(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"99.995", "100.00"},
		{"10.005", "10.01"},
		{"10.004", "10.00"},
		{"0.5", "0.50"},
		{"27.5", "27.50"},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, usd.FromDecimal(dec(tc.in)).String())
		})
	}
}

func TestMoney_AritmeticaEnUnidadesMenores(t *testing.T) {
	a, err := usd.Parse("0.10")
	require.NoError(t, err)
	b, err := usd.Parse("0.20")
	require.NoError(t, err)

	sum := a.Add(b)
	assert.Equal(t, int64(30), sum.MinorUnits())
	assert.Equal(t, "0.30", sum.String())
	assert.Equal(t, "-0.10", a.Sub(b).String())
	assert.True(t, a.LessThan(b))
	assert.True(t, sum.Equal(usd.FromMinor(30)))
}

func TestMoney_PercentRedondeaUnaVez(t *testing.T) {
	taxable := usd.FromMinor(2500)
	assert.Equal(t, "2.50", taxable.Percent(dec("10")).String())
	// 0.33 * 19% = 0.0627 -> 0.06
	assert.Equal(t, "0.06", usd.FromMinor(33).Percent(dec("19")).String())
}

func TestMoney_MulQuantityFraccionaria(t *testing.T) {
	price := usd.FromMinor(1299)
	got, err := price.MulQuantity("subtotal", dec("1.25"))
	require.NoError(t, err)
	assert.Equal(t, "16.24", got.String())

	_, err = price.MulQuantity("subtotal", dec("1e15"))
	assert.True(t, domain.IsKind(err, domain.KindOutOfRange))
}

func TestFromDecimalChecked_FueraDeRango(t *testing.T) {
	// 2^64 + 116 centavos: sin control daría la vuelta a 1.00.
	huge := dec("184467440737095517.16")
	_, err := usd.FromDecimalChecked("amount", huge)
	ve, ok := domain.AsValidation(err)
	require.True(t, ok)
	assert.Equal(t, domain.KindOutOfRange, ve.Kind)
	assert.Equal(t, "amount", ve.Field)
	assert.True(t, ve.Value.Equal(huge))
	assert.Equal(t, "10000000000000.00", ve.Limit.StringFixed(2))

	_, err = usd.FromDecimalChecked("amount", huge.Neg())
	assert.True(t, domain.IsKind(err, domain.KindOutOfRange))

	top, err := usd.FromDecimalChecked("amount", dec("10000000000000.00"))
	require.NoError(t, err)
	assert.True(t, top.Equal(usd.MaxAmount()))
	_, err = usd.FromDecimalChecked("amount", dec("10000000000000.01"))
	assert.Error(t, err)

	_, err = usd.Parse("184467440737095517.16")
	assert.True(t, domain.IsKind(err, domain.KindOutOfRange))

	assert.Panics(t, func() { usd.FromDecimal(huge) })
}

func TestMoney_AddCheckedNoDesborda(t *testing.T) {
	top := usd.MaxAmount()
	_, err := top.AddChecked("total", usd.FromMinor(1))
	assert.True(t, domain.IsKind(err, domain.KindOutOfRange))
	_, err = top.Neg().SubChecked("total", usd.FromMinor(1))
	assert.True(t, domain.IsKind(err, domain.KindOutOfRange))

	// Un operando fuera de rango se rechaza aunque la suma quepa.
	_, err = usd.FromMinor(money.MaxMinorUnits+1).AddChecked("total", usd.FromMinor(-2))
	assert.True(t, domain.IsKind(err, domain.KindOutOfRange))

	sum, err := top.AddChecked("total", usd.FromMinor(-1))
	require.NoError(t, err)
	assert.Equal(t, money.MaxMinorUnits-1, sum.MinorUnits())
}

func TestMoney_ValorCeroSeAlinea(t *testing.T) {
	var zero money.Money
	assert.Equal(t, "12.50", zero.Add(usd.FromMinor(1250)).String())
}

func TestMoney_MarshalJSONComoString(t *testing.T) {
	raw, err := json.Marshal(struct {
		Total money.Money `json:"total"`
	}{Total: usd.FromMinor(2750)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"total":"27.50"}`, string(raw))

	var back struct {
		Total money.Money `json:"total"`
	}
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.True(t, back.Total.Equal(usd.FromMinor(2750)))
	assert.Equal(t, int32(2), back.Total.Exponent())
}

func TestCurrencyFromCode(t *testing.T) {
	c, err := money.CurrencyFromCode("usd")
	require.NoError(t, err)
	assert.Equal(t, "USD", c.Code)
	assert.Equal(t, int32(2), c.Exponent)

	jpy, err := money.CurrencyFromCode("JPY")
	require.NoError(t, err)
	assert.Equal(t, int32(0), jpy.Exponent)

	// CLDR publica COP sin decimales; la contabilidad usa los centavos de ISO 4217.
	cop, err := money.CurrencyFromCode("cop")
	require.NoError(t, err)
	assert.Equal(t, "COP", cop.Code)
	assert.Equal(t, int32(2), cop.Exponent)
	assert.Equal(t, "2.50", cop.FromMinor(2500).Percent(dec("10")).String())

	iqd, err := money.CurrencyFromCode("IQD")
	require.NoError(t, err)
	assert.Equal(t, int32(3), iqd.Exponent)

	_, err = money.CurrencyFromCode("XXXX")
	assert.True(t, domain.IsKind(err, domain.KindOutOfRange))
}

func TestValidadores(t *testing.T) {
	assert.NoError(t, money.ValidateQuantity("quantity", dec("0.5")))
	assert.True(t, domain.IsKind(money.ValidateQuantity("quantity", dec("-1")), domain.KindOutOfRange))
	assert.True(t, domain.IsKind(money.ValidateQuantity("quantity", decimal.Zero), domain.KindOutOfRange))
	assert.True(t, domain.IsKind(money.ValidateUnitPrice("unit_price", dec("-0.01")), domain.KindOutOfRange))
	assert.NoError(t, money.ValidateUnitPrice("unit_price", decimal.Zero))
	assert.NoError(t, money.ValidateTaxRate("tax_rate", dec("100")))
	assert.True(t, domain.IsKind(money.ValidateTaxRate("tax_rate", dec("100.01")), domain.KindOutOfRange))
	assert.True(t, domain.IsKind(money.ValidateTaxRate("tax_rate", dec("-1")), domain.KindOutOfRange))
}

func TestCurrency_WithExponent(t *testing.T) {
	cop := money.MustCurrency("COP")

	whole, err := cop.WithExponent(0)
	require.NoError(t, err)
	assert.Equal(t, "COP", whole.Code)
	assert.Equal(t, "28", whole.FromDecimal(dec("27.50")).String())

	_, err = cop.WithExponent(7)
	assert.True(t, domain.IsKind(err, domain.KindOutOfRange))
	_, err = cop.WithExponent(-1)
	assert.True(t, domain.IsKind(err, domain.KindOutOfRange))
}

func TestFromDecimalChecked_MensajeConLimiteEnMoneda(t *testing.T) {
	_, err := usd.FromDecimalChecked("amount", dec("20000000000000"))
	require.Error(t, err)
	assert.Equal(t, "Value 20000000000000.00 for amount is out of range (limit 10000000000000.00)", err.Error())

	err = money.ValidateTaxRate("tax_rate", dec("150"))
	assert.Equal(t, "Value 150 for tax_rate is out of range (limit 100)", err.Error())
}
