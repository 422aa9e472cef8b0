package ledger

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/ledger-api/internal/domain"
	"github.com/jhoicas/ledger-api/internal/domain/money"
)

// JournalRowInput fila capturada manualmente: una cuenta con débito o crédito.
type JournalRowInput struct {
	AccountID string
	Debit     decimal.Decimal
	Credit    decimal.Decimal
	Memo      string
}

// PostingRow fila validada: exactamente uno de Debit/Credit es distinto de cero.
type PostingRow struct {
	Position  int // índice en la entrada original
	AccountID string
	Debit     money.Money
	Credit    money.Money
	Memo      string
}

// ValidatedEntry asiento aceptado por el validador, listo para persistirse de forma atómica.
type ValidatedEntry struct {
	Rows        []PostingRow
	TotalDebit  money.Money
	TotalCredit money.Money
}

// Balanced Σ debit == Σ credit y la suma es mayor que cero.
func (e ValidatedEntry) Balanced() bool {
	return e.TotalDebit.Equal(e.TotalCredit) && e.TotalDebit.IsPositive()
}

// ValidateJournalEntry aplica la regla de partida doble sobre las filas.
//
// Cada monto se redondea a la moneda antes de sumarse, de modo que la comparación
// se hace siempre entre valores redondeados (100.00 contra 99.995 -> 100.00 está balanceado).
// Las filas en cero (filas vacías del formulario) se descartan.
func ValidateJournalEntry(cur money.Currency, rows []JournalRowInput) (ValidatedEntry, error) {
	debitSum := cur.Zero()
	creditSum := cur.Zero()
	out := make([]PostingRow, 0, len(rows))

	for i, r := range rows {
		field := fmt.Sprintf("rows[%d]", i)
		if r.Debit.IsNegative() {
			return ValidatedEntry{}, domain.NewValidationError(domain.KindOutOfRange, field+".debit").
				WithValue(r.Debit).WithLimit(decimal.Zero)
		}
		if r.Credit.IsNegative() {
			return ValidatedEntry{}, domain.NewValidationError(domain.KindOutOfRange, field+".credit").
				WithValue(r.Credit).WithLimit(decimal.Zero)
		}
		debit, err := cur.FromDecimalChecked(field+".debit", r.Debit)
		if err != nil {
			return ValidatedEntry{}, err
		}
		credit, err := cur.FromDecimalChecked(field+".credit", r.Credit)
		if err != nil {
			return ValidatedEntry{}, err
		}
		if !debit.IsZero() && !credit.IsZero() {
			return ValidatedEntry{}, domain.NewValidationError(domain.KindMixedRow, field)
		}
		if debit.IsZero() && credit.IsZero() {
			continue
		}
		if strings.TrimSpace(r.AccountID) == "" {
			return ValidatedEntry{}, domain.NewValidationError(domain.KindRequired, field+".account_id")
		}
		if debitSum, err = debitSum.AddChecked("rows.debit_total", debit); err != nil {
			return ValidatedEntry{}, err
		}
		if creditSum, err = creditSum.AddChecked("rows.credit_total", credit); err != nil {
			return ValidatedEntry{}, err
		}
		out = append(out, PostingRow{
			Position:  i,
			AccountID: r.AccountID,
			Debit:     debit,
			Credit:    credit,
			Memo:      r.Memo,
		})
	}

	if !debitSum.Equal(creditSum) {
		return ValidatedEntry{}, domain.NewValidationError(domain.KindUnbalancedEntry, "rows").
			WithValue(debitSum.Sub(creditSum).Decimal()).
			WithPlaces(cur.Exponent)
	}
	if debitSum.IsZero() {
		return ValidatedEntry{}, domain.NewValidationError(domain.KindEmptyEntry, "rows")
	}
	return ValidatedEntry{Rows: out, TotalDebit: debitSum, TotalCredit: creditSum}, nil
}
