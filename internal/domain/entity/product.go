package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product producto o servicio del catálogo. Price y TaxRate son los valores por
// defecto de una línea de documento cuando el caller no los envía.
type Product struct {
	ID          string
	CompanyID   string
	SKU         string // código único por empresa
	Name        string
	Description string
	Price       decimal.Decimal
	TaxRate     decimal.Decimal // porcentaje 0-100 (IVA Colombia: 0, 5, 19)
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
