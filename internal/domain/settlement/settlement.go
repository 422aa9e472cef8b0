// Package settlement implementa el seguimiento de pagos contra una factura:
// pagado a la fecha, saldo pendiente y estado (unpaid -> partial -> paid).
package settlement

import (
	"time"

	"github.com/jhoicas/ledger-api/internal/domain"
	"github.com/jhoicas/ledger-api/internal/domain/money"
)

// Status eje de pago de la factura. Overdue es ortogonal y se deriva de la fecha de vencimiento.
type Status string

const (
	StatusUnpaid  Status = "unpaid"
	StatusPartial Status = "partial"
	StatusPaid    Status = "paid"
	StatusOverdue Status = "overdue"
)

// State estado derivado de una factura a partir de su conjunto de pagos.
type State struct {
	GrandTotal money.Money
	PaidAmount money.Money
	BalanceDue money.Money
	Status     Status
}

// StatusFor aplica la regla de estado: saldo <= 0 -> paid; saldo == total -> unpaid; otro -> partial.
// Una factura en cero queda paid: no hay nada que cobrar.
func StatusFor(grandTotal, balanceDue money.Money) Status {
	switch {
	case !balanceDue.IsPositive():
		return StatusPaid
	case balanceDue.Equal(grandTotal):
		return StatusUnpaid
	default:
		return StatusPartial
	}
}

// Derive recalcula el estado desde cero con todos los pagos persistidos.
func Derive(grandTotal money.Money, payments []money.Money) State {
	paid := money.Currency{Exponent: grandTotal.Exponent()}.Zero()
	for _, p := range payments {
		paid = paid.Add(p)
	}
	balance := grandTotal.Sub(paid)
	return State{
		GrandTotal: grandTotal,
		PaidAmount: paid,
		BalanceDue: balance,
		Status:     StatusFor(grandTotal, balance),
	}
}

// Apply valida un pago contra el saldo actual y devuelve el nuevo estado.
// El saldo nunca puede quedar negativo: un pago mayor al saldo se rechaza con overpayment.
func (s State) Apply(amount money.Money) (State, error) {
	if amount.MinorUnits() > money.MaxMinorUnits {
		return s, domain.NewValidationError(domain.KindOutOfRange, "amount").
			WithValue(amount.Decimal()).
			WithLimit(money.Currency{Exponent: amount.Exponent()}.MaxAmount().Decimal()).
			WithPlaces(amount.Exponent())
	}
	if !amount.IsPositive() {
		return s, domain.NewValidationError(domain.KindNonPositiveAmount, "amount").
			WithValue(amount.Decimal()).
			WithPlaces(amount.Exponent())
	}
	if amount.GreaterThan(s.BalanceDue) {
		return s, domain.NewValidationError(domain.KindOverpayment, "amount").
			WithValue(amount.Decimal()).
			WithLimit(s.BalanceDue.Decimal()).
			WithPlaces(amount.Exponent())
	}
	paid := s.PaidAmount.Add(amount)
	balance := s.GrandTotal.Sub(paid)
	return State{
		GrandTotal: s.GrandTotal,
		PaidAmount: paid,
		BalanceDue: balance,
		Status:     StatusFor(s.GrandTotal, balance),
	}, nil
}

// IsOverdue la factura tiene saldo y la fecha de corte es posterior al vencimiento (por día calendario).
func IsOverdue(dueDate, asOf time.Time, balanceDue money.Money) bool {
	if !balanceDue.IsPositive() || dueDate.IsZero() {
		return false
	}
	return dateOnly(asOf).After(dateOnly(dueDate))
}

// DisplayStatus estado para presentación: overdue prevalece sobre unpaid/partial.
func DisplayStatus(s State, dueDate, asOf time.Time) Status {
	if s.Status != StatusPaid && IsOverdue(dueDate, asOf, s.BalanceDue) {
		return StatusOverdue
	}
	return s.Status
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
