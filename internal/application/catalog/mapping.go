package catalog

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/facturador-api/internal/application/dto"
	"github.com/jhoicas/facturador-api/internal/domain"
	"github.com/jhoicas/facturador-api/internal/domain/entity"
	"github.com/jhoicas/facturador-api/internal/domain/money"
)

func parsePrice(n dto.NumberInput) (decimal.Decimal, error) {
	if !n.Set || n.Raw == nil {
		return decimal.Zero, fmt.Errorf("%w: unit_price es obligatorio", domain.ErrInvalidInput)
	}
	p, err := money.ParseDecimal(n.Raw)
	if err != nil {
		return p, fmt.Errorf("unit_price: %w", err)
	}
	if err := money.CheckFits("unit_price", p, money.QuantityDigits, money.QuantityPlaces); err != nil {
		return p, err
	}
	p = p.Round(money.QuantityPlaces)
	if p.IsNegative() {
		return p, fmt.Errorf("%w: unit_price no puede ser negativo", domain.ErrInvalidInput)
	}
	return p, nil
}

// parseRate: ausente, null o "" = sin tasa.
func parseRate(n dto.NumberInput) (*decimal.Decimal, error) {
	if !n.Set || n.Raw == nil {
		return nil, nil
	}
	if s, ok := n.Raw.(string); ok && strings.TrimSpace(s) == "" {
		return nil, nil
	}
	r, err := money.ParseDecimal(n.Raw)
	if err != nil {
		return nil, fmt.Errorf("tax_rate: %w", err)
	}
	r = r.Round(money.PercentPlaces)
	if err := money.ValidatePercent("tax_rate", r); err != nil {
		return nil, err
	}
	return &r, nil
}

func toItemResponse(it *entity.CatalogItem) dto.CatalogItemResponse {
	return dto.CatalogItemResponse{
		ID:           it.ID,
		CompanyID:    it.CompanyID,
		Name:         it.Name,
		Description:  it.Description,
		UnitPrice:    money.Price(it.UnitPrice),
		Unit:         it.Unit,
		TaxRate:      money.FixedPtr(it.TaxRate),
		MasterItemID: it.MasterItemID,
		CreatedAt:    it.CreatedAt,
		UpdatedAt:    it.UpdatedAt,
	}
}

func toMasterResponse(it *entity.MasterItem) dto.CatalogItemResponse {
	return dto.CatalogItemResponse{
		ID:          it.ID,
		Name:        it.Name,
		Description: it.Description,
		UnitPrice:   money.Price(it.UnitPrice),
		Unit:        it.Unit,
		TaxRate:     money.FixedPtr(it.TaxRate),
		CreatedAt:   it.CreatedAt,
		UpdatedAt:   it.UpdatedAt,
	}
}

func toTermResponse(t *entity.Term) dto.TermResponse {
	return dto.TermResponse{
		ID:        t.ID,
		Title:     t.Title,
		Body:      t.Body,
		IsDefault: t.IsDefault,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}
