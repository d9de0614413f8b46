package billing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/facturador-api/internal/application/dto"
	"github.com/jhoicas/facturador-api/internal/domain"
	"github.com/jhoicas/facturador-api/internal/domain/entity"
	"github.com/jhoicas/facturador-api/internal/domain/money"
	"github.com/jhoicas/facturador-api/internal/domain/repository"
)

// LineItemUseCase CRUD de líneas de un tipo de documento.
// Cada escritura y el recálculo del documento se ejecutan en la misma transacción.
type LineItemUseCase struct {
	kind        entity.DocumentKind
	tx          BillingTxRunner
	docRepo     repository.DocumentRepository
	itemRepo    repository.LineItemRepository
	catalogRepo repository.CatalogItemRepository
	recalc      *Recalculator
	now         func() time.Time
}

// NewLineItemUseCase construye el caso de uso para kind.
func NewLineItemUseCase(
	kind entity.DocumentKind,
	tx BillingTxRunner,
	docRepo repository.DocumentRepository,
	itemRepo repository.LineItemRepository,
	catalogRepo repository.CatalogItemRepository,
	recalc *Recalculator,
) *LineItemUseCase {
	return &LineItemUseCase{
		kind:        kind,
		tx:          tx,
		docRepo:     docRepo,
		itemRepo:    itemRepo,
		catalogRepo: catalogRepo,
		recalc:      recalc,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Create agrega una línea al documento y recalcula sus totales.
func (uc *LineItemUseCase) Create(ctx context.Context, companyID, parentID string, in dto.CreateLineItemRequest) (*dto.LineItemResponse, error) {
	in, err := prefillFromCatalog(ctx, uc.catalogRepo, companyID, in)
	if err != nil {
		return nil, err
	}
	v, err := parseLine(in)
	if err != nil {
		return nil, err
	}

	var created *entity.LineItem
	err = uc.tx.RunBilling(ctx, func(docRepo repository.DocumentRepository, itemRepo repository.LineItemRepository) error {
		if _, err := loadParentForWrite(ctx, docRepo, uc.kind, companyID, parentID); err != nil {
			return err
		}
		created = newLineItem(uc.kind, parentID, v, uc.now())
		if err := itemRepo.Create(ctx, created); err != nil {
			return fmt.Errorf("crear línea: %w", err)
		}
		_, err := uc.recalc.Recalculate(ctx, docRepo, itemRepo, uc.kind, parentID)
		return err
	})
	if err != nil {
		return nil, err
	}
	resp := toLineItemResponse(created)
	return &resp, nil
}

// Update aplica solo los campos presentes; amount se recalcula siempre desde los valores resultantes.
func (uc *LineItemUseCase) Update(ctx context.Context, companyID, parentID, itemID string, in dto.UpdateLineItemRequest) (*dto.LineItemResponse, error) {
	var updated *entity.LineItem
	err := uc.tx.RunBilling(ctx, func(docRepo repository.DocumentRepository, itemRepo repository.LineItemRepository) error {
		if _, err := loadParentForWrite(ctx, docRepo, uc.kind, companyID, parentID); err != nil {
			return err
		}
		item, err := loadChild(ctx, itemRepo, uc.kind, parentID, itemID)
		if err != nil {
			return err
		}
		if err := applyLinePatch(item, in); err != nil {
			return err
		}
		item.UpdatedAt = uc.now()
		if err := itemRepo.Update(ctx, item); err != nil {
			return fmt.Errorf("actualizar línea: %w", err)
		}
		updated = item
		_, err = uc.recalc.Recalculate(ctx, docRepo, itemRepo, uc.kind, parentID)
		return err
	})
	if err != nil {
		return nil, err
	}
	resp := toLineItemResponse(updated)
	return &resp, nil
}

// Delete elimina la línea y recalcula el documento que la contenía.
func (uc *LineItemUseCase) Delete(ctx context.Context, companyID, parentID, itemID string) error {
	return uc.tx.RunBilling(ctx, func(docRepo repository.DocumentRepository, itemRepo repository.LineItemRepository) error {
		if _, err := loadParentForWrite(ctx, docRepo, uc.kind, companyID, parentID); err != nil {
			return err
		}
		if _, err := loadChild(ctx, itemRepo, uc.kind, parentID, itemID); err != nil {
			return err
		}
		if err := itemRepo.Delete(ctx, uc.kind, itemID); err != nil {
			return fmt.Errorf("eliminar línea: %w", err)
		}
		_, err := uc.recalc.Recalculate(ctx, docRepo, itemRepo, uc.kind, parentID)
		return err
	})
}

// List devuelve las líneas del documento en orden de creación.
func (uc *LineItemUseCase) List(ctx context.Context, companyID, parentID string) ([]dto.LineItemResponse, error) {
	doc, err := uc.docRepo.GetByID(ctx, uc.kind, parentID)
	if err != nil {
		return nil, fmt.Errorf("obtener documento: %w", err)
	}
	if doc == nil {
		return nil, domain.ErrParentNotFound
	}
	if doc.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	items, err := uc.itemRepo.ListByParent(ctx, uc.kind, parentID)
	if err != nil {
		return nil, fmt.Errorf("listar líneas: %w", err)
	}
	out := make([]dto.LineItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, toLineItemResponse(it))
	}
	return out, nil
}

// loadParentForWrite bloquea el documento y verifica empresa y que admita cambios.
func loadParentForWrite(ctx context.Context, docRepo repository.DocumentRepository, kind entity.DocumentKind, companyID, parentID string) (*entity.Document, error) {
	doc, err := docRepo.GetForUpdate(ctx, kind, parentID)
	if err != nil {
		return nil, fmt.Errorf("obtener documento: %w", err)
	}
	if doc == nil {
		return nil, domain.ErrParentNotFound
	}
	if doc.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	if entity.IsTerminalStatus(kind, doc.Status) {
		return nil, fmt.Errorf("%w: el documento está en estado %s y no admite cambios", domain.ErrConflict, doc.Status)
	}
	return doc, nil
}

func loadChild(ctx context.Context, itemRepo repository.LineItemRepository, kind entity.DocumentKind, parentID, itemID string) (*entity.LineItem, error) {
	item, err := itemRepo.GetByID(ctx, kind, itemID)
	if err != nil {
		return nil, fmt.Errorf("obtener línea: %w", err)
	}
	if item == nil || item.ParentID != parentID {
		return nil, domain.ErrItemNotFound
	}
	return item, nil
}

func newLineItem(kind entity.DocumentKind, parentID string, v lineValues, now time.Time) *entity.LineItem {
	return &entity.LineItem{
		ID:          uuid.New().String(),
		Kind:        kind,
		ParentID:    parentID,
		Description: v.description,
		Quantity:    v.quantity,
		UnitPrice:   v.unitPrice,
		Discount:    v.discount,
		Amount:      v.amount(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// applyLinePatch valida todos los campos presentes antes de tocar item.
func applyLinePatch(item *entity.LineItem, in dto.UpdateLineItemRequest) error {
	v := lineValues{
		description: item.Description,
		quantity:    item.Quantity,
		unitPrice:   item.UnitPrice,
		discount:    item.Discount,
	}
	var err error
	if in.Description != nil {
		v.description = strings.TrimSpace(*in.Description)
		if v.description == "" {
			return fmt.Errorf("%w: description no puede quedar vacía", domain.ErrInvalidInput)
		}
	}
	if in.Quantity.Set {
		if v.quantity, err = parseQuantity(in.Quantity); err != nil {
			return err
		}
	}
	if in.UnitPrice.Set {
		if v.unitPrice, err = parseUnitPrice(in.UnitPrice); err != nil {
			return err
		}
	}
	if in.Discount.Set {
		if v.discount, err = parsePercent("discount", in.Discount); err != nil {
			return err
		}
	}
	amount := v.amount()
	if err := money.CheckAmount("amount", amount); err != nil {
		return err
	}

	item.Description = v.description
	item.Quantity = v.quantity
	item.UnitPrice = v.unitPrice
	item.Discount = v.discount
	item.Amount = amount
	return nil
}

// prefillFromCatalog completa description y unit_price desde el catálogo cuando no se enviaron.
func prefillFromCatalog(ctx context.Context, repo repository.CatalogItemRepository, companyID string, in dto.CreateLineItemRequest) (dto.CreateLineItemRequest, error) {
	if in.CatalogItemID == "" {
		return in, nil
	}
	ci, err := repo.GetByID(ctx, in.CatalogItemID)
	if err != nil {
		return in, fmt.Errorf("obtener ítem de catálogo: %w", err)
	}
	if ci == nil || ci.CompanyID != companyID {
		return in, fmt.Errorf("%w: ítem de catálogo %s", domain.ErrInvalidInput, in.CatalogItemID)
	}
	if strings.TrimSpace(in.Description) == "" {
		in.Description = ci.Name
		if ci.Description != "" {
			in.Description = ci.Name + " - " + ci.Description
		}
	}
	if !in.UnitPrice.Set || in.UnitPrice.Raw == nil {
		in.UnitPrice = dto.Num(ci.UnitPrice)
	}
	return in, nil
}
