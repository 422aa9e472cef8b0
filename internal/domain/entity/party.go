package entity

import "time"

// Tipos de tercero. Un documento de venta exige cliente; uno de compra, proveedor.
const (
	PartyCustomer = "customer"
	PartySupplier = "supplier"
)

// Party representa un cliente o proveedor de la empresa.
type Party struct {
	ID        string
	CompanyID string
	Kind      string // customer | supplier
	Name      string
	TaxID     string // NIT o Cédula
	Email     string
	Phone     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ValidPartyKind indica si kind es un tipo de tercero conocido.
func ValidPartyKind(kind string) bool {
	return kind == PartyCustomer || kind == PartySupplier
}
