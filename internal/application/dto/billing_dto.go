package dto

import "time"

// CreateCustomerRequest body para POST /api/customers.
type CreateCustomerRequest struct {
	Name    string `json:"name" validate:"required,min=1,max=200"`
	TaxID   string `json:"tax_id" validate:"required,min=1,max=30"`
	Email   string `json:"email,omitempty" validate:"omitempty,email"`
	Phone   string `json:"phone,omitempty" validate:"max=50"`
	Address string `json:"address,omitempty" validate:"max=300"`
}

// UpdateCustomerRequest body para PUT /api/customers/:id.
type UpdateCustomerRequest struct {
	Name    *string `json:"name" validate:"omitempty,min=1,max=200"`
	TaxID   *string `json:"tax_id" validate:"omitempty,min=1,max=30"`
	Email   *string `json:"email" validate:"omitempty,email"`
	Phone   *string `json:"phone" validate:"omitempty,max=50"`
	Address *string `json:"address" validate:"omitempty,max=300"`
}

// CustomerResponse cliente en respuestas.
type CustomerResponse struct {
	ID        string `json:"id"`
	CompanyID string `json:"company_id"`
	Name      string `json:"name"`
	TaxID     string `json:"tax_id"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Address   string `json:"address,omitempty"`
}

// CreateLineItemRequest body para POST /api/{invoices|quotations}/:id/items.
// Si CatalogItemID viene, description y unit_price se toman del catálogo cuando no se envían.
type CreateLineItemRequest struct {
	CatalogItemID string      `json:"catalog_item_id,omitempty" validate:"omitempty,max=64"`
	Description   string      `json:"description" validate:"max=1000"`
	Quantity      NumberInput `json:"quantity"`
	UnitPrice     NumberInput `json:"unit_price"`
	Discount      NumberInput `json:"discount"`
}

// UpdateLineItemRequest patch tipado: solo se aplican los campos presentes.
type UpdateLineItemRequest struct {
	Description *string     `json:"description" validate:"omitempty,max=1000"`
	Quantity    NumberInput `json:"quantity"`
	UnitPrice   NumberInput `json:"unit_price"`
	Discount    NumberInput `json:"discount"`
}

// LineItemResponse línea con montos como string de 2 decimales.
type LineItemResponse struct {
	ID          string    `json:"id"`
	ParentID    string    `json:"parent_id"`
	Description string    `json:"description"`
	Quantity    string    `json:"quantity"`
	UnitPrice   string    `json:"unit_price"`
	Discount    string    `json:"discount"`
	Amount      string    `json:"amount"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateDocumentRequest body para POST /api/invoices y /api/quotations.
// Fechas en formato YYYY-MM-DD; issue_date vacío = hoy.
type CreateDocumentRequest struct {
	CustomerID string                  `json:"customer_id" validate:"required"`
	IssueDate  string                  `json:"issue_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	DueDate    string                  `json:"due_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Discount   NumberInput             `json:"discount"`
	TaxRate    NumberInput             `json:"tax_rate"`
	Notes      string                  `json:"notes,omitempty" validate:"max=4000"`
	TermID     string                  `json:"term_id,omitempty"`
	Terms      string                  `json:"terms,omitempty" validate:"max=8000"`
	Items      []CreateLineItemRequest `json:"items,omitempty" validate:"dive"`
}

// UpdateDocumentRequest patch de cabecera. tax_rate: null lo quita.
type UpdateDocumentRequest struct {
	CustomerID *string     `json:"customer_id"`
	IssueDate  *string     `json:"issue_date" validate:"omitempty,datetime=2006-01-02"`
	DueDate    *string     `json:"due_date"`
	Discount   NumberInput `json:"discount"`
	TaxRate    NumberInput `json:"tax_rate"`
	Notes      *string     `json:"notes" validate:"omitempty,max=4000"`
	Terms      *string     `json:"terms" validate:"omitempty,max=8000"`
}

// UpdateStatusRequest body para PATCH /api/{invoices|quotations}/:id/status.
// Force solo lo puede usar un admin para saltar la máquina de estados.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
	Force  bool   `json:"force,omitempty"`
}

// ListDocumentsRequest filtros de GET /api/{invoices|quotations}.
type ListDocumentsRequest struct {
	PageRequest
	Status     string `query:"status"`
	CustomerID string `query:"customer_id"`
}

// DocumentResponse cabecera con totales; montos siempre string de 2 decimales.
type DocumentResponse struct {
	ID                 string             `json:"id"`
	Kind               string             `json:"kind"`
	CompanyID          string             `json:"company_id"`
	CustomerID         string             `json:"customer_id"`
	CustomerName       string             `json:"customer_name,omitempty"`
	Number             string             `json:"number"`
	IssueDate          string             `json:"issue_date"`
	DueDate            *string            `json:"due_date"`
	Status             string             `json:"status"`
	Subtotal           string             `json:"subtotal"`
	Discount           string             `json:"discount"`
	DiscountedSubtotal string             `json:"discounted_subtotal"`
	TaxRate            *string            `json:"tax_rate"`
	Tax                string             `json:"tax"`
	Total              string             `json:"total"`
	Notes              string             `json:"notes,omitempty"`
	Terms              string             `json:"terms,omitempty"`
	LinkedID           string             `json:"linked_id,omitempty"`
	Items              []LineItemResponse `json:"items,omitempty"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
}

// DocumentListResponse lista paginada de documentos (sin líneas).
type DocumentListResponse struct {
	Items []DocumentResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
