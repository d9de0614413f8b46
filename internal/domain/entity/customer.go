package entity

import "time"

// Customer representa un cliente de la empresa (receptor de facturas y cotizaciones).
type Customer struct {
	ID        string
	CompanyID string
	Name      string
	TaxID     string
	Email     string
	Phone     string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
