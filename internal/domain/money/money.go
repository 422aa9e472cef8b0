// Package money implementa la aritmética monetaria de punto fijo del motor contable.
//
// Los montos se guardan como enteros en unidades menores (centavos) escalados por el
// exponente de la moneda. Todo valor derivado se redondea una sola vez (half-up) en el
// momento en que se produce, nunca sobre sumas intermedias.
package money

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"

	"github.com/jhoicas/ledger-api/internal/domain"
)

// Currency contexto explícito de moneda: código ISO-4217 y exponente de unidad menor.
type Currency struct {
	Code     string
	Exponent int32
}

// isoMinorUnits exponentes ISO 4217 de las monedas en que CLDR (x/text) publica otra
// cantidad de decimales: CLDR describe el uso en efectivo (COP sin centavos), la
// contabilidad lleva las unidades menores del estándar.
var isoMinorUnits = map[string]int32{
	"AFN": 2, "ALL": 2, "COP": 2, "HUF": 2, "IDR": 2, "IQD": 3, "IRR": 2, "KPW": 2,
	"LAK": 2, "LBP": 2, "MMK": 2, "RSD": 2, "SOS": 2, "SYP": 2, "TWD": 2, "YER": 2,
}

// MaxExponent mayor escala soportada para unidades menores.
const MaxExponent int32 = 6

// CurrencyFromCode resuelve el exponente ISO 4217 de la moneda (COP, USD -> 2; JPY -> 0).
func CurrencyFromCode(code string) (Currency, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	unit, err := currency.ParseISO(code)
	if err != nil {
		return Currency{}, domain.NewValidationError(domain.KindOutOfRange, "currency")
	}
	if exp, ok := isoMinorUnits[unit.String()]; ok {
		return Currency{Code: unit.String(), Exponent: exp}, nil
	}
	scale, _ := currency.Standard.Rounding(unit)
	return Currency{Code: unit.String(), Exponent: int32(scale)}, nil
}

// WithExponent fija la escala de unidades menores (APP_CURRENCY_EXPONENT).
func (c Currency) WithExponent(exp int32) (Currency, error) {
	if exp < 0 || exp > MaxExponent {
		return Currency{}, domain.NewValidationError(domain.KindOutOfRange, "currency_exponent").
			WithValue(decimal.NewFromInt32(exp)).
			WithLimit(decimal.NewFromInt32(MaxExponent))
	}
	c.Exponent = exp
	return c, nil
}

// MustCurrency como CurrencyFromCode pero entra en pánico si el código no existe (solo para constantes).
func MustCurrency(code string) Currency {
	c, err := CurrencyFromCode(code)
	if err != nil {
		panic(fmt.Sprintf("money: moneda desconocida %q", code))
	}
	return c
}

// Zero devuelve cero en la escala de la moneda.
func (c Currency) Zero() Money { return Money{exp: c.Exponent} }

// FromMinor construye un monto a partir de unidades menores.
func (c Currency) FromMinor(minor int64) Money { return Money{minor: minor, exp: c.Exponent} }

// MaxMinorUnits magnitud máxima de cualquier monto del motor, en unidades menores.
const MaxMinorUnits int64 = 1_000_000_000_000_000

var maxMinor = decimal.NewFromInt(MaxMinorUnits)

// MaxAmount mayor monto representable en la moneda.
func (c Currency) MaxAmount() Money { return Money{minor: MaxMinorUnits, exp: c.Exponent} }

// FromDecimalChecked redondea d (half-up) al exponente de la moneda y rechaza con
// out_of_range lo que excede MaxMinorUnits. Toda entrada externa pasa por aquí.
func (c Currency) FromDecimalChecked(field string, d decimal.Decimal) (Money, error) {
	minor := d.Round(c.Exponent).Shift(c.Exponent)
	if minor.Abs().GreaterThan(maxMinor) {
		return Money{}, domain.NewValidationError(domain.KindOutOfRange, field).
			WithValue(d).
			WithLimit(c.MaxAmount().Decimal()).
			WithPlaces(c.Exponent)
	}
	return Money{minor: minor.IntPart(), exp: c.Exponent}, nil
}

// FromDecimal redondea d (half-up) al exponente de la moneda. Solo para montos ya
// validados (persistidos o derivados); entra en pánico si d no cabe en int64.
func (c Currency) FromDecimal(d decimal.Decimal) Money {
	minor := d.Round(c.Exponent).Shift(c.Exponent)
	if !minor.BigInt().IsInt64() {
		panic(fmt.Sprintf("money: %s fuera de rango", d.String()))
	}
	return Money{minor: minor.IntPart(), exp: c.Exponent}
}

// Parse interpreta un string decimal ("27.50") y lo redondea a la moneda.
func (c Currency) Parse(s string) (Money, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return Money{}, fmt.Errorf("%w: monto %q", domain.ErrInvalidInput, s)
	}
	return c.FromDecimalChecked("amount", d)
}

// Money monto de punto fijo. El valor cero es un cero válido en cualquier escala.
type Money struct {
	minor int64
	exp   int32
}

var pow10 = [...]int64{1, 10, 100, 1000, 10000, 100000, 1000000}

func align(a, b Money) (int64, int64, int32) {
	switch {
	case a.exp == b.exp:
		return a.minor, b.minor, a.exp
	case a.exp > b.exp:
		return a.minor, b.minor * pow10[a.exp-b.exp], a.exp
	default:
		return a.minor * pow10[b.exp-a.exp], b.minor, b.exp
	}
}

// Add suma exacta en unidades menores.
func (m Money) Add(o Money) Money {
	x, y, exp := align(m, o)
	return Money{minor: x + y, exp: exp}
}

// Sub resta exacta en unidades menores.
func (m Money) Sub(o Money) Money {
	x, y, exp := align(m, o)
	return Money{minor: x - y, exp: exp}
}

// AddChecked suma y rechaza con out_of_range si algún operando o el resultado excede MaxMinorUnits.
func (m Money) AddChecked(field string, o Money) (Money, error) {
	x, y, exp := align(m, o)
	if !inRange(x) || !inRange(y) || !inRange(x+y) {
		return Money{}, domain.NewValidationError(domain.KindOutOfRange, field).
			WithValue(decimal.New(x, -exp).Add(decimal.New(y, -exp))).
			WithLimit(decimal.New(MaxMinorUnits, -exp)).
			WithPlaces(exp)
	}
	return Money{minor: x + y, exp: exp}, nil
}

// SubChecked como AddChecked para la resta.
func (m Money) SubChecked(field string, o Money) (Money, error) {
	return m.AddChecked(field, o.Neg())
}

func inRange(v int64) bool { return v <= MaxMinorUnits && v >= -MaxMinorUnits }

// Neg invierte el signo.
func (m Money) Neg() Money { return Money{minor: -m.minor, exp: m.exp} }

// Abs valor absoluto.
func (m Money) Abs() Money {
	if m.minor < 0 {
		return m.Neg()
	}
	return m
}

// MulQuantity multiplica por una cantidad (posiblemente fraccionaria) y redondea una vez.
func (m Money) MulQuantity(field string, q decimal.Decimal) (Money, error) {
	return Currency{Exponent: m.exp}.FromDecimalChecked(field, m.Decimal().Mul(q))
}

// Percent calcula m * rate / 100 y redondea una vez.
func (m Money) Percent(rate decimal.Decimal) Money {
	return Currency{Exponent: m.exp}.FromDecimal(m.Decimal().Mul(rate).Shift(-2))
}

// Cmp devuelve -1, 0 o 1.
func (m Money) Cmp(o Money) int {
	x, y, _ := align(m, o)
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	}
	return 0
}

func (m Money) Equal(o Money) bool       { return m.Cmp(o) == 0 }
func (m Money) GreaterThan(o Money) bool { return m.Cmp(o) > 0 }
func (m Money) LessThan(o Money) bool    { return m.Cmp(o) < 0 }
func (m Money) IsZero() bool             { return m.minor == 0 }
func (m Money) IsPositive() bool         { return m.minor > 0 }
func (m Money) IsNegative() bool         { return m.minor < 0 }

// MinorUnits devuelve el entero en unidades menores.
func (m Money) MinorUnits() int64 { return m.minor }

// Exponent devuelve la escala del monto.
func (m Money) Exponent() int32 { return m.exp }

// Decimal expone el monto como decimal exacto.
func (m Money) Decimal() decimal.Decimal { return decimal.New(m.minor, -m.exp) }

// String formato de presentación con exactamente Exponent decimales.
func (m Money) String() string { return m.Decimal().StringFixed(m.exp) }

// MarshalJSON serializa como string decimal, nunca como float.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.String() + `"`), nil
}

// UnmarshalJSON acepta el string decimal producido por MarshalJSON; la escala
// se toma de los decimales presentes ("27.50" -> exponente 2).
func (m *Money) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	d, err := decimal.NewFromString(s)
	if err != nil {
		return fmt.Errorf("%w: monto %q", domain.ErrInvalidInput, s)
	}
	exp := int32(0)
	if d.Exponent() < 0 {
		exp = -d.Exponent()
	}
	minor := d.Shift(exp)
	if minor.Abs().GreaterThan(maxMinor) {
		return domain.NewValidationError(domain.KindOutOfRange, "amount").WithValue(d).WithPlaces(exp)
	}
	m.minor = minor.IntPart()
	m.exp = exp
	return nil
}

// Sum suma una lista de montos.
func Sum(c Currency, ms ...Money) Money {
	total := c.Zero()
	for _, m := range ms {
		total = total.Add(m)
	}
	return total
}

var hundred = decimal.NewFromInt(100)

// ValidateQuantity la cantidad debe ser positiva (admite fracciones para productos por peso).
func ValidateQuantity(field string, q decimal.Decimal) error {
	if !q.IsPositive() {
		return domain.NewValidationError(domain.KindOutOfRange, field).WithValue(q).WithLimit(decimal.Zero)
	}
	return nil
}

// ValidateUnitPrice el precio unitario no puede ser negativo.
func ValidateUnitPrice(field string, p decimal.Decimal) error {
	if p.IsNegative() {
		return domain.NewValidationError(domain.KindOutOfRange, field).WithValue(p).WithLimit(decimal.Zero)
	}
	return nil
}

// ValidateDiscount el descuento no puede ser negativo.
func ValidateDiscount(field string, d decimal.Decimal) error {
	if d.IsNegative() {
		return domain.NewValidationError(domain.KindOutOfRange, field).WithValue(d).WithLimit(decimal.Zero)
	}
	return nil
}

// ValidateTaxRate la tasa es un porcentaje en [0,100].
func ValidateTaxRate(field string, rate decimal.Decimal) error {
	if rate.IsNegative() {
		return domain.NewValidationError(domain.KindOutOfRange, field).WithValue(rate).WithLimit(decimal.Zero)
	}
	if rate.GreaterThan(hundred) {
		return domain.NewValidationError(domain.KindOutOfRange, field).WithValue(rate).WithLimit(hundred)
	}
	return nil
}
