package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errores de dominio.
var (
	ErrNotFound      = errors.New("recurso no encontrado")
	ErrInvalidInput  = errors.New("entrada inválida")
	ErrDuplicate     = errors.New("recurso duplicado")
	ErrUnauthorized  = errors.New("no autorizado")
	ErrForbidden     = errors.New("acceso denegado")
	ErrConflict      = errors.New("conflicto con el estado actual")
	ErrInvalidStatus = errors.New("estado inválido para la operación")
	ErrReadOnly      = errors.New("el documento ya fue facturado y es de solo lectura")
	ErrInProgress    = errors.New("operación con la misma clave de idempotencia en curso")
)

// ValidationKind identifica la regla violada (legible por máquina).
type ValidationKind string

const (
	KindMixedRow                ValidationKind = "mixed_row"
	KindUnbalancedEntry         ValidationKind = "unbalanced_entry"
	KindEmptyEntry              ValidationKind = "empty_entry"
	KindEmptyOrder              ValidationKind = "empty_order"
	KindDiscountExceedsSubtotal ValidationKind = "discount_exceeds_subtotal"
	KindNonPositiveAmount       ValidationKind = "non_positive_amount"
	KindOverpayment             ValidationKind = "overpayment"
	KindOutOfRange              ValidationKind = "out_of_range"
	KindRequired                ValidationKind = "required"
)

// ValidationError rechazo sincrónico de una entrada, antes de cualquier mutación.
// Value es el valor ofensivo (o la diferencia firmada en unbalanced_entry) y
// Limit el límite esperado (max_allowed en overpayment).
type ValidationError struct {
	Kind     ValidationKind
	Field    string
	Value    decimal.Decimal
	Limit    decimal.Decimal
	HasValue bool
	HasLimit bool
	Places   int32
	Amount   bool // Value y Limit son montos en la escala Places
}

// NewValidationError construye el error para un campo.
func NewValidationError(kind ValidationKind, field string) *ValidationError {
	return &ValidationError{Kind: kind, Field: field, Places: 2}
}

// WithValue adjunta el valor ofensivo.
func (e *ValidationError) WithValue(v decimal.Decimal) *ValidationError {
	e.Value = v
	e.HasValue = true
	return e
}

// WithLimit adjunta el límite esperado.
func (e *ValidationError) WithLimit(v decimal.Decimal) *ValidationError {
	e.Limit = v
	e.HasLimit = true
	return e
}

// WithPlaces marca Value y Limit como montos y fija los decimales usados al presentarlos.
func (e *ValidationError) WithPlaces(places int32) *ValidationError {
	e.Places = places
	e.Amount = true
	return e
}

// Difference devuelve debit_sum - credit_sum en unbalanced_entry.
func (e *ValidationError) Difference() decimal.Decimal { return e.Value }

// MaxAllowed devuelve el saldo pendiente en overpayment.
func (e *ValidationError) MaxAllowed() decimal.Decimal { return e.Limit }

func (e *ValidationError) amount(d decimal.Decimal) string {
	return d.StringFixed(e.Places)
}

// input presenta el valor tal como llegó si trae más decimales que la moneda.
func (e *ValidationError) input(d decimal.Decimal) string {
	if d.Exponent() < -e.Places {
		return d.String()
	}
	return e.amount(d)
}

// Error presenta el rechazo como una sola frase que nombra la regla.
func (e *ValidationError) Error() string {
	switch e.Kind {
	case KindMixedRow:
		return fmt.Sprintf("Row %s has both a debit and a credit amount; each row must use exactly one side", e.Field)
	case KindUnbalancedEntry:
		if e.Value.IsNegative() {
			return fmt.Sprintf("Entry is unbalanced: credit exceeds debit by %s", e.amount(e.Value.Abs()))
		}
		return fmt.Sprintf("Entry is unbalanced: debit exceeds credit by %s", e.amount(e.Value))
	case KindEmptyEntry:
		return "Entry is empty: debit and credit totals must be greater than zero"
	case KindEmptyOrder:
		return "Order is empty: at least one line item is required"
	case KindDiscountExceedsSubtotal:
		return fmt.Sprintf("Discount %s exceeds the line subtotal %s", e.amount(e.Value), e.amount(e.Limit))
	case KindNonPositiveAmount:
		return fmt.Sprintf("Payment amount must be greater than zero, got %s", e.input(e.Value))
	case KindOverpayment:
		return fmt.Sprintf("Payment of %s exceeds the outstanding balance; at most %s can be paid", e.amount(e.Value), e.amount(e.Limit))
	case KindRequired:
		return fmt.Sprintf("Field %s is required", e.Field)
	case KindOutOfRange:
		value, limit := e.Value.String(), e.Limit.String()
		if e.Amount {
			value, limit = e.input(e.Value), e.amount(e.Limit)
		}
		if e.HasValue && e.HasLimit {
			return fmt.Sprintf("Value %s for %s is out of range (limit %s)", value, e.Field, limit)
		}
		if e.HasValue {
			return fmt.Sprintf("Value %s for %s is out of range", value, e.Field)
		}
		return fmt.Sprintf("Value for %s is out of range", e.Field)
	}
	return fmt.Sprintf("Validation failed for %s (%s)", e.Field, e.Kind)
}

// AsValidation extrae un *ValidationError de la cadena de errores.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// IsKind indica si err es un ValidationError del tipo dado.
func IsKind(err error, kind ValidationKind) bool {
	ve, ok := AsValidation(err)
	return ok && ve.Kind == kind
}

// StorageError falla del almacenamiento subyacente (begin, commit, consultas).
// El motor no la interpreta ni reintenta: se propaga intacta al caller.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string { return e.Op + ": " + e.Err.Error() }

func (e *StorageError) Unwrap() error { return e.Err }

// IsStorage indica si err proviene del almacenamiento.
func IsStorage(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}
