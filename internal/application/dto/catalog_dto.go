package dto

import "time"

// CreateCatalogItemRequest alta de ítem en el catálogo de la empresa.
type CreateCatalogItemRequest struct {
	Name        string      `json:"name" validate:"required,min=1,max=200"`
	Description string      `json:"description" validate:"max=1000"`
	UnitPrice   NumberInput `json:"unit_price"`
	Unit        string      `json:"unit" validate:"max=30"`
	TaxRate     NumberInput `json:"tax_rate"`
}

// UpdateCatalogItemRequest patch de ítem de catálogo.
type UpdateCatalogItemRequest struct {
	Name        *string     `json:"name" validate:"omitempty,min=1,max=200"`
	Description *string     `json:"description" validate:"omitempty,max=1000"`
	UnitPrice   NumberInput `json:"unit_price"`
	Unit        *string     `json:"unit" validate:"omitempty,max=30"`
	TaxRate     NumberInput `json:"tax_rate"`
}

// CatalogItemResponse ítem de catálogo (propio o central).
type CatalogItemResponse struct {
	ID           string    `json:"id"`
	CompanyID    string    `json:"company_id,omitempty"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	UnitPrice    string    `json:"unit_price"`
	Unit         string    `json:"unit"`
	TaxRate      *string   `json:"tax_rate"`
	MasterItemID string    `json:"master_item_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CatalogItemListResponse lista paginada.
type CatalogItemListResponse struct {
	Items []CatalogItemResponse `json:"items"`
	Page  PageResponse          `json:"page"`
}

// ImportRowError fila rechazada en una importación.
type ImportRowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// ImportResult resultado de POST /api/catalog/items/import.
type ImportResult struct {
	Created int              `json:"created"`
	Errors  []ImportRowError `json:"errors"`
}

// CreateTermRequest alta de términos y condiciones.
type CreateTermRequest struct {
	Title     string `json:"title" validate:"required,min=1,max=200"`
	Body      string `json:"body" validate:"required,min=1,max=8000"`
	IsDefault bool   `json:"is_default"`
}

// UpdateTermRequest patch de términos.
type UpdateTermRequest struct {
	Title     *string `json:"title" validate:"omitempty,min=1,max=200"`
	Body      *string `json:"body" validate:"omitempty,min=1,max=8000"`
	IsDefault *bool   `json:"is_default"`
}

// TermResponse términos en respuestas.
type TermResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	IsDefault bool      `json:"is_default"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
