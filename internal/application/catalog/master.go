package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/facturador-api/internal/application/dto"
	"github.com/jhoicas/facturador-api/internal/domain"
	"github.com/jhoicas/facturador-api/internal/domain/entity"
	"github.com/jhoicas/facturador-api/internal/domain/repository"
)

// MasterUseCase repositorio central de ítems compartido por todas las empresas.
type MasterUseCase struct {
	masters repository.MasterItemRepository
	items   repository.CatalogItemRepository
}

// NewMasterUseCase construye el caso de uso.
func NewMasterUseCase(masters repository.MasterItemRepository, items repository.CatalogItemRepository) *MasterUseCase {
	return &MasterUseCase{masters: masters, items: items}
}

// List ítems centrales ordenados por nombre.
func (uc *MasterUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.CatalogItemListResponse, error) {
	page.DefaultPage()
	list, err := uc.masters.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, fmt.Errorf("listar repositorio central: %w", err)
	}
	out := &dto.CatalogItemListResponse{
		Items: make([]dto.CatalogItemResponse, 0, len(list)),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}
	for _, it := range list {
		out.Items = append(out.Items, toMasterResponse(it))
	}
	return out, nil
}

// Create agrega un ítem central (solo admin, lo controla la capa HTTP).
func (uc *MasterUseCase) Create(ctx context.Context, in dto.CreateCatalogItemRequest) (*dto.CatalogItemResponse, error) {
	base, err := buildItem("", in)
	if err != nil {
		return nil, err
	}
	m := &entity.MasterItem{
		ID:          base.ID,
		Name:        base.Name,
		Description: base.Description,
		UnitPrice:   base.UnitPrice,
		Unit:        base.Unit,
		TaxRate:     base.TaxRate,
		CreatedAt:   base.CreatedAt,
		UpdatedAt:   base.UpdatedAt,
	}
	if err := uc.masters.Create(ctx, m); err != nil {
		return nil, fmt.Errorf("crear ítem central: %w", err)
	}
	resp := toMasterResponse(m)
	return &resp, nil
}

// CopyToCompany copia el ítem central al catálogo de la empresa. La copia es independiente.
func (uc *MasterUseCase) CopyToCompany(ctx context.Context, companyID, masterID string) (*dto.CatalogItemResponse, error) {
	m, err := uc.masters.GetByID(ctx, masterID)
	if err != nil {
		return nil, fmt.Errorf("obtener ítem central: %w", err)
	}
	if m == nil {
		return nil, domain.ErrNotFound
	}
	now := time.Now().UTC()
	it := &entity.CatalogItem{
		ID:           uuid.New().String(),
		CompanyID:    companyID,
		Name:         m.Name,
		Description:  m.Description,
		UnitPrice:    m.UnitPrice,
		Unit:         m.Unit,
		MasterItemID: m.ID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if m.TaxRate != nil {
		r := *m.TaxRate
		it.TaxRate = &r
	}
	if err := uc.items.Create(ctx, it); err != nil {
		return nil, fmt.Errorf("copiar ítem central: %w", err)
	}
	resp := toItemResponse(it)
	return &resp, nil
}
