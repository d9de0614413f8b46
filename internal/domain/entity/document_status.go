package entity

// Estados de factura.
const (
	InvoiceStatusDraft     = "draft"
	InvoiceStatusSent      = "sent"
	InvoiceStatusPaid      = "paid"
	InvoiceStatusOverdue   = "overdue"
	InvoiceStatusCancelled = "cancelled"
)

// Estados de cotización.
const (
	QuotationStatusDraft    = "draft"
	QuotationStatusSent     = "sent"
	QuotationStatusAccepted = "accepted"
	QuotationStatusDeclined = "declined"
	QuotationStatusExpired  = "expired"
)

var invoiceTransitions = map[string][]string{
	InvoiceStatusDraft:     {InvoiceStatusSent, InvoiceStatusCancelled},
	InvoiceStatusSent:      {InvoiceStatusPaid, InvoiceStatusOverdue, InvoiceStatusCancelled},
	InvoiceStatusOverdue:   {InvoiceStatusPaid, InvoiceStatusCancelled},
	InvoiceStatusPaid:      nil,
	InvoiceStatusCancelled: nil,
}

var quotationTransitions = map[string][]string{
	QuotationStatusDraft:    {QuotationStatusSent},
	QuotationStatusSent:     {QuotationStatusAccepted, QuotationStatusDeclined, QuotationStatusExpired},
	QuotationStatusExpired:  {QuotationStatusSent},
	QuotationStatusAccepted: nil,
	QuotationStatusDeclined: nil,
}

func transitionsFor(kind DocumentKind) map[string][]string {
	if kind == KindQuotation {
		return quotationTransitions
	}
	return invoiceTransitions
}

// InitialStatus estado con el que nace todo documento.
func InitialStatus(DocumentKind) string { return InvoiceStatusDraft }

// IsKnownStatus indica si status existe para el tipo de documento.
func IsKnownStatus(kind DocumentKind, status string) bool {
	_, ok := transitionsFor(kind)[status]
	return ok
}

// IsTerminalStatus: pagada/anulada o aceptada/rechazada. No admite más cambios sin override.
func IsTerminalStatus(kind DocumentKind, status string) bool {
	next, ok := transitionsFor(kind)[status]
	return ok && len(next) == 0
}

// CanTransition indica si from -> to es un avance permitido. Reescribir el mismo estado es válido.
func CanTransition(kind DocumentKind, from, to string) bool {
	if from == to {
		return IsKnownStatus(kind, to)
	}
	for _, s := range transitionsFor(kind)[from] {
		if s == to {
			return true
		}
	}
	return false
}
