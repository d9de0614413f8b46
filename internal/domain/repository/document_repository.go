package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/facturador-api/internal/domain/entity"
)

// DocumentFilter filtros de listado.
type DocumentFilter struct {
	Status     string
	CustomerID string
	Limit      int
	Offset     int
}

// DocumentRepository cabeceras de facturas y cotizaciones. kind selecciona la tabla.
type DocumentRepository interface {
	// NextNumber reserva el siguiente consecutivo de la empresa para el tipo.
	NextNumber(ctx context.Context, companyID string, kind entity.DocumentKind) (int64, error)
	Create(ctx context.Context, doc *entity.Document) error
	GetByID(ctx context.Context, kind entity.DocumentKind, id string) (*entity.Document, error)
	// GetForUpdate igual que GetByID pero bloquea la fila hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, kind entity.DocumentKind, id string) (*entity.Document, error)
	List(ctx context.Context, kind entity.DocumentKind, companyID string, f DocumentFilter) ([]*entity.Document, int, error)
	// Update persiste campos editables de cabecera, estado y vínculo; nunca los totales.
	Update(ctx context.Context, doc *entity.Document) error
	UpdateTotals(ctx context.Context, kind entity.DocumentKind, id string, subtotal, tax, total decimal.Decimal) error
	// Delete elimina la cabecera; las líneas caen en cascada.
	Delete(ctx context.Context, kind entity.DocumentKind, id string) error
}

// LineItemRepository líneas de facturas y cotizaciones.
type LineItemRepository interface {
	Create(ctx context.Context, item *entity.LineItem) error
	GetByID(ctx context.Context, kind entity.DocumentKind, id string) (*entity.LineItem, error)
	ListByParent(ctx context.Context, kind entity.DocumentKind, parentID string) ([]*entity.LineItem, error)
	Update(ctx context.Context, item *entity.LineItem) error
	Delete(ctx context.Context, kind entity.DocumentKind, id string) error
}
