package entity

import "time"

// Estados de una empresa.
const (
	CompanyStatusActive    = "active"
	CompanyStatusSuspended = "suspended"
)

// Company representa una empresa cliente del SaaS: emisor de facturas y cotizaciones.
type Company struct {
	ID        string
	Name      string
	TaxID     string // identificación tributaria (NIT, RUT, VAT...)
	Address   string
	Phone     string
	Email     string
	Currency  string // ISO 4217, solo informativo en el PDF
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}
