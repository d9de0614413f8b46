package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/facturador-api/internal/application/dto"
	"github.com/jhoicas/facturador-api/internal/domain"
	"github.com/jhoicas/facturador-api/internal/domain/entity"
	"github.com/jhoicas/facturador-api/internal/domain/repository"
)

// Columnas reconocidas en la importación (fila de encabezado, sin distinguir mayúsculas).
const (
	colName        = "name"
	colDescription = "description"
	colUnitPrice   = "unit_price"
	colUnit        = "unit"
	colTaxRate     = "tax_rate"
)

// ItemUseCase catálogo propio de la empresa.
type ItemUseCase struct {
	repo   repository.CatalogItemRepository
	sheets SheetReader
	log    zerolog.Logger
}

// NewItemUseCase construye el caso de uso. sheets puede ser nil si no se usa importación.
func NewItemUseCase(repo repository.CatalogItemRepository, sheets SheetReader, log zerolog.Logger) *ItemUseCase {
	return &ItemUseCase{repo: repo, sheets: sheets, log: log}
}

// Create agrega un ítem al catálogo.
func (uc *ItemUseCase) Create(ctx context.Context, companyID string, in dto.CreateCatalogItemRequest) (*dto.CatalogItemResponse, error) {
	it, err := buildItem(companyID, in)
	if err != nil {
		return nil, err
	}
	if err := uc.repo.Create(ctx, it); err != nil {
		return nil, fmt.Errorf("crear ítem: %w", err)
	}
	resp := toItemResponse(it)
	return &resp, nil
}

// Get devuelve un ítem de la empresa.
func (uc *ItemUseCase) Get(ctx context.Context, companyID, id string) (*dto.CatalogItemResponse, error) {
	it, err := uc.load(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	resp := toItemResponse(it)
	return &resp, nil
}

// List ítems de la empresa ordenados por nombre.
func (uc *ItemUseCase) List(ctx context.Context, companyID string, page dto.PageRequest) (*dto.CatalogItemListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.ListByCompany(ctx, companyID, page.Limit, page.Offset)
	if err != nil {
		return nil, fmt.Errorf("listar catálogo: %w", err)
	}
	out := &dto.CatalogItemListResponse{
		Items: make([]dto.CatalogItemResponse, 0, len(list)),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}
	for _, it := range list {
		out.Items = append(out.Items, toItemResponse(it))
	}
	return out, nil
}

// Update aplica los campos presentes. tax_rate: null la quita.
func (uc *ItemUseCase) Update(ctx context.Context, companyID, id string, in dto.UpdateCatalogItemRequest) (*dto.CatalogItemResponse, error) {
	it, err := uc.load(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		if it.Name = strings.TrimSpace(*in.Name); it.Name == "" {
			return nil, fmt.Errorf("%w: name no puede quedar vacío", domain.ErrInvalidInput)
		}
	}
	if in.Description != nil {
		it.Description = strings.TrimSpace(*in.Description)
	}
	if in.Unit != nil {
		it.Unit = strings.TrimSpace(*in.Unit)
	}
	if in.UnitPrice.Set {
		if it.UnitPrice, err = parsePrice(in.UnitPrice); err != nil {
			return nil, err
		}
	}
	if in.TaxRate.Set {
		if it.TaxRate, err = parseRate(in.TaxRate); err != nil {
			return nil, err
		}
	}
	it.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Update(ctx, it); err != nil {
		return nil, fmt.Errorf("actualizar ítem: %w", err)
	}
	resp := toItemResponse(it)
	return &resp, nil
}

// Delete elimina el ítem. Las líneas ya emitidas conservan su copia de descripción y precio.
func (uc *ItemUseCase) Delete(ctx context.Context, companyID, id string) error {
	if _, err := uc.load(ctx, companyID, id); err != nil {
		return err
	}
	return uc.repo.Delete(ctx, id)
}

// Import crea ítems desde un xlsx. La primera fila es el encabezado; las filas inválidas se
// reportan y no detienen la importación.
func (uc *ItemUseCase) Import(ctx context.Context, companyID string, r io.Reader) (*dto.ImportResult, error) {
	if uc.sheets == nil {
		return nil, errors.New("importación no configurada")
	}
	rows, err := uc.sheets.ReadRows(r)
	if err != nil {
		return nil, fmt.Errorf("%w: archivo ilegible: %v", domain.ErrInvalidInput, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: el archivo está vacío", domain.ErrInvalidInput)
	}

	cols := make(map[string]int)
	for i, h := range rows[0] {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, required := range []string{colName, colUnitPrice} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("%w: falta la columna %s", domain.ErrInvalidInput, required)
		}
	}
	cell := func(row []string, col string) string {
		i, ok := cols[col]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	res := &dto.ImportResult{Errors: []dto.ImportRowError{}}
	for i, row := range rows[1:] {
		rowNum := i + 2
		if strings.TrimSpace(strings.Join(row, "")) == "" {
			continue
		}
		in := dto.CreateCatalogItemRequest{
			Name:        cell(row, colName),
			Description: cell(row, colDescription),
			Unit:        cell(row, colUnit),
		}
		if v := cell(row, colUnitPrice); v != "" {
			in.UnitPrice = dto.Num(v)
		}
		if v := cell(row, colTaxRate); v != "" {
			in.TaxRate = dto.Num(v)
		}
		it, err := buildItem(companyID, in)
		if err != nil {
			if domain.IsValidation(err) {
				res.Errors = append(res.Errors, dto.ImportRowError{Row: rowNum, Message: err.Error()})
				continue
			}
			return nil, err
		}
		if err := uc.repo.Create(ctx, it); err != nil {
			return nil, fmt.Errorf("fila %d: %w", rowNum, err)
		}
		res.Created++
	}

	uc.log.Info().Str("company_id", companyID).Int("created", res.Created).Int("rejected", len(res.Errors)).Msg("catálogo importado")
	return res, nil
}

func (uc *ItemUseCase) load(ctx context.Context, companyID, id string) (*entity.CatalogItem, error) {
	it, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("obtener ítem: %w", err)
	}
	if it == nil {
		return nil, domain.ErrNotFound
	}
	if it.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return it, nil
}

func buildItem(companyID string, in dto.CreateCatalogItemRequest) (*entity.CatalogItem, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name es obligatorio", domain.ErrInvalidInput)
	}
	price, err := parsePrice(in.UnitPrice)
	if err != nil {
		return nil, err
	}
	rate, err := parseRate(in.TaxRate)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	return &entity.CatalogItem{
		ID:          uuid.New().String(),
		CompanyID:   companyID,
		Name:        name,
		Description: strings.TrimSpace(in.Description),
		UnitPrice:   price,
		Unit:        strings.TrimSpace(in.Unit),
		TaxRate:     rate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}
