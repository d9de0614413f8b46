package billing

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/facturador-api/internal/application/dto"
	"github.com/jhoicas/facturador-api/internal/domain"
	"github.com/jhoicas/facturador-api/internal/domain/money"
)

const dateLayout = "2006-01-02"

// lineValues valores ya validados y normalizados de una línea.
type lineValues struct {
	description string
	quantity    decimal.Decimal
	unitPrice   decimal.Decimal
	discount    decimal.Decimal
}

func (v lineValues) amount() decimal.Decimal {
	return money.LineAmount(v.quantity, v.unitPrice, v.discount)
}

func parseLine(in dto.CreateLineItemRequest) (lineValues, error) {
	var v lineValues
	var err error

	v.description = strings.TrimSpace(in.Description)
	if v.description == "" {
		return v, fmt.Errorf("%w: description es obligatoria", domain.ErrInvalidInput)
	}
	if v.quantity, err = parseQuantity(in.Quantity); err != nil {
		return v, err
	}
	if v.unitPrice, err = parseUnitPrice(in.UnitPrice); err != nil {
		return v, err
	}
	if v.discount, err = parsePercent("discount", in.Discount); err != nil {
		return v, err
	}
	if err := money.CheckAmount("amount", v.amount()); err != nil {
		return v, err
	}
	return v, nil
}

func required(field string, n dto.NumberInput) (decimal.Decimal, error) {
	if !n.Set || n.Raw == nil {
		return decimal.Zero, fmt.Errorf("%w: %s es obligatorio", domain.ErrInvalidInput, field)
	}
	d, err := money.ParseDecimal(n.Raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s: %w", field, err)
	}
	return d, nil
}

func parseQuantity(n dto.NumberInput) (decimal.Decimal, error) {
	q, err := required("quantity", n)
	if err != nil {
		return q, err
	}
	if err := money.CheckFits("quantity", q, money.QuantityDigits, money.QuantityPlaces); err != nil {
		return q, err
	}
	q = q.Round(money.QuantityPlaces)
	if !q.IsPositive() {
		return q, fmt.Errorf("%w: quantity debe ser mayor que 0", domain.ErrInvalidInput)
	}
	return q, nil
}

func parseUnitPrice(n dto.NumberInput) (decimal.Decimal, error) {
	p, err := required("unit_price", n)
	if err != nil {
		return p, err
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

// parsePercent: ausente o null = 0; si viene debe estar en [0,100].
func parsePercent(field string, n dto.NumberInput) (decimal.Decimal, error) {
	if !n.Set || n.Raw == nil {
		return decimal.Zero, nil
	}
	p, err := money.ParseDecimal(n.Raw)
	if err != nil {
		return p, fmt.Errorf("%s: %w", field, err)
	}
	p = p.Round(money.PercentPlaces)
	if err := money.ValidatePercent(field, p); err != nil {
		return p, err
	}
	return p, nil
}

// parseTaxRate: ausente o null = sin impuesto (nil).
func parseTaxRate(n dto.NumberInput) (*decimal.Decimal, error) {
	if !n.Set || n.Raw == nil {
		return nil, nil
	}
	p, err := parsePercent("tax_rate", n)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func parseDate(field, s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, fmt.Errorf("%w: %s debe tener formato YYYY-MM-DD", domain.ErrInvalidInput, field)
	}
	return &t, nil
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
