package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// DocumentKind distingue facturas de cotizaciones; comparten estructura y motor de totales.
type DocumentKind string

const (
	KindInvoice   DocumentKind = "invoice"
	KindQuotation DocumentKind = "quotation"
)

// Valid indica si k es un tipo conocido.
func (k DocumentKind) Valid() bool {
	return k == KindInvoice || k == KindQuotation
}

// NumberPrefix prefijo del consecutivo por tipo.
func (k DocumentKind) NumberPrefix() string {
	if k == KindQuotation {
		return "COT"
	}
	return "FAC"
}

// Document cabecera de una factura o cotización.
// Subtotal, Tax y Total solo los escribe el recálculo de totales.
type Document struct {
	ID         string
	Kind       DocumentKind
	CompanyID  string
	CustomerID string
	Number     string
	IssueDate  time.Time
	DueDate    *time.Time // vencimiento (factura) o validez (cotización)
	Status     string
	Discount   decimal.Decimal  // porcentaje sobre el subtotal
	TaxRate    *decimal.Decimal // porcentaje; nil = sin impuesto
	Subtotal   decimal.Decimal
	Tax        decimal.Decimal
	Total      decimal.Decimal
	Notes      string
	Terms      string
	// LinkedID: en una cotización, la factura generada al convertirla;
	// en una factura, la cotización de origen.
	LinkedID  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// LineItem línea de una factura o cotización. Amount es derivado y nunca viene de la entrada.
type LineItem struct {
	ID          string
	Kind        DocumentKind
	ParentID    string
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	Discount    decimal.Decimal // porcentaje 0..100
	Amount      decimal.Decimal
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
