package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de cuenta del plan contable.
const (
	AccountAsset     = "asset"
	AccountLiability = "liability"
	AccountEquity    = "equity"
	AccountIncome    = "income"
	AccountExpense   = "expense"
)

// Account cuenta del plan de cuentas. DebitTotal y CreditTotal acumulan los
// movimientos propios y los de todas sus subcuentas (roll-up).
type Account struct {
	ID          string
	CompanyID   string
	Code        string // único por empresa (ej: 1305)
	Name        string
	Type        string
	ParentID    string // vacío = cuenta raíz
	DebitTotal  decimal.Decimal
	CreditTotal decimal.Decimal
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ValidAccountType indica si t es un tipo de cuenta conocido.
func ValidAccountType(t string) bool {
	switch t {
	case AccountAsset, AccountLiability, AccountEquity, AccountIncome, AccountExpense:
		return true
	}
	return false
}

// DebitNormal las cuentas de activo y gasto crecen por el débito.
func (a *Account) DebitNormal() bool {
	return a.Type == AccountAsset || a.Type == AccountExpense
}

// Balance saldo según la naturaleza de la cuenta.
func (a *Account) Balance() decimal.Decimal {
	if a.DebitNormal() {
		return a.DebitTotal.Sub(a.CreditTotal)
	}
	return a.CreditTotal.Sub(a.DebitTotal)
}
