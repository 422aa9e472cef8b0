package settlement

import (
	"time"

	"github.com/jhoicas/ledger-api/internal/domain/money"
)

// Open saldo abierto de una factura para el reporte de antigüedad.
type Open struct {
	InvoiceID  string
	PartyID    string
	DueDate    time.Time
	BalanceDue money.Money
}

// AgingBuckets saldos por rango de días vencidos.
type AgingBuckets struct {
	Current  money.Money `json:"current"`
	Days30   money.Money `json:"days_1_30"`
	Days60   money.Money `json:"days_31_60"`
	Days90   money.Money `json:"days_61_90"`
	Over90   money.Money `json:"over_90"`
	Total    money.Money `json:"total"`
	Invoices int         `json:"invoices"`
}

// Aging agrupa los saldos abiertos según los días transcurridos desde el vencimiento.
func Aging(cur money.Currency, asOf time.Time, open []Open) AgingBuckets {
	b := AgingBuckets{
		Current: cur.Zero(), Days30: cur.Zero(), Days60: cur.Zero(),
		Days90: cur.Zero(), Over90: cur.Zero(), Total: cur.Zero(),
	}
	for _, o := range open {
		if !o.BalanceDue.IsPositive() {
			continue
		}
		days := int(dateOnly(asOf).Sub(dateOnly(o.DueDate)).Hours() / 24)
		switch {
		case days <= 0:
			b.Current = b.Current.Add(o.BalanceDue)
		case days <= 30:
			b.Days30 = b.Days30.Add(o.BalanceDue)
		case days <= 60:
			b.Days60 = b.Days60.Add(o.BalanceDue)
		case days <= 90:
			b.Days90 = b.Days90.Add(o.BalanceDue)
		default:
			b.Over90 = b.Over90.Add(o.BalanceDue)
		}
		b.Total = b.Total.Add(o.BalanceDue)
		b.Invoices++
	}
	return b
}
