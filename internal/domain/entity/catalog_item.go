package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// CatalogItem producto o servicio del catálogo propio de una empresa.
// Sirve para precargar descripción y precio al agregar líneas.
type CatalogItem struct {
	ID           string
	CompanyID    string
	Name         string
	Description  string
	UnitPrice    decimal.Decimal
	Unit         string           // unidad de medida libre (hora, und, kg)
	TaxRate      *decimal.Decimal // nil = sin tasa sugerida
	MasterItemID string           // origen si fue copiado del repositorio central
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// MasterItem ítem del repositorio central compartido entre empresas.
// Al usarse se copia al catálogo de la empresa; la copia no sigue al original.
type MasterItem struct {
	ID          string
	Name        string
	Description string
	UnitPrice   decimal.Decimal
	Unit        string
	TaxRate     *decimal.Decimal
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Term términos y condiciones reutilizables que se imprimen al pie del documento.
type Term struct {
	ID        string
	CompanyID string
	Title     string
	Body      string
	IsDefault bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
