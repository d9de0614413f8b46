package repository

import (
	"context"

	"github.com/jhoicas/facturador-api/internal/domain/entity"
)

// CatalogItemRepository catálogo propio de cada empresa.
type CatalogItemRepository interface {
	Create(ctx context.Context, item *entity.CatalogItem) error
	GetByID(ctx context.Context, id string) (*entity.CatalogItem, error)
	ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.CatalogItem, error)
	Update(ctx context.Context, item *entity.CatalogItem) error
	Delete(ctx context.Context, id string) error
}

// MasterItemRepository repositorio central compartido.
type MasterItemRepository interface {
	Create(ctx context.Context, item *entity.MasterItem) error
	GetByID(ctx context.Context, id string) (*entity.MasterItem, error)
	List(ctx context.Context, limit, offset int) ([]*entity.MasterItem, error)
}

// TermRepository términos y condiciones por empresa.
type TermRepository interface {
	Create(ctx context.Context, term *entity.Term) error
	GetByID(ctx context.Context, id string) (*entity.Term, error)
	ListByCompany(ctx context.Context, companyID string) ([]*entity.Term, error)
	Update(ctx context.Context, term *entity.Term) error
	Delete(ctx context.Context, id string) error
	// ClearDefault quita la marca is_default de todos los términos de la empresa.
	ClearDefault(ctx context.Context, companyID string) error
}
