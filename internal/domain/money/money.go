// Package money concentra la aritmética de montos de facturas y cotizaciones.
// Todo se calcula con decimal.Decimal y se expone como string de 2 decimales; nunca float.
package money

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/facturador-api/internal/domain"
)

// Escalas de almacenamiento.
const (
	AmountPlaces   = 2 // montos, subtotales, impuestos
	QuantityPlaces = 4 // cantidades y precios unitarios
	PercentPlaces  = 2 // descuentos y tasas
)

// Dígitos enteros admitidos por las columnas NUMERIC(14,4) y NUMERIC(14,2).
const (
	QuantityDigits = 10 // cantidades y precios unitarios
	AmountDigits   = 12 // montos, subtotales, impuestos y totales
	PercentDigits  = 3

	// maxExponent acota la notación científica antes de cualquier reescalado.
	maxExponent = 64
)

// MaxAmount mayor monto almacenable (NUMERIC(14,2)).
var MaxAmount = decimal.RequireFromString("999999999999.99")

var (
	hundred = decimal.NewFromInt(100)
	one     = decimal.NewFromInt(1)
)

// ParseDecimal convierte la entrada (string, json.Number, enteros, floats o decimal.Decimal)
// en un decimal finito. Falla con domain.ErrInvalidNumber si no es parseable.
func ParseDecimal(input any) (decimal.Decimal, error) {
	switch v := input.(type) {
	case decimal.Decimal:
		return v, nil
	case *decimal.Decimal:
		if v == nil {
			return decimal.Zero, fmt.Errorf("%w: valor nulo", domain.ErrInvalidNumber)
		}
		return *v, nil
	case string:
		return parseString(v)
	case json.Number:
		return parseString(v.String())
	case int:
		return decimal.NewFromInt(int64(v)), nil
	case int32:
		return decimal.NewFromInt32(v), nil
	case int64:
		return decimal.NewFromInt(v), nil
	case float32:
		return parseFloat(float64(v))
	case float64:
		return parseFloat(v)
	case nil:
		return decimal.Zero, fmt.Errorf("%w: valor nulo", domain.ErrInvalidNumber)
	default:
		return decimal.Zero, fmt.Errorf("%w: tipo %T no soportado", domain.ErrInvalidNumber, input)
	}
}

func parseString(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, fmt.Errorf("%w: valor vacío", domain.ErrInvalidNumber)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", domain.ErrInvalidNumber, s)
	}
	if exp := d.Exponent(); exp > maxExponent || exp < -maxExponent || d.NumDigits() > maxExponent {
		return decimal.Zero, fmt.Errorf("%w: %q fuera de rango", domain.ErrInvalidNumber, s)
	}
	return d, nil
}

func parseFloat(f float64) (decimal.Decimal, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero, fmt.Errorf("%w: %v no es finito", domain.ErrInvalidNumber, f)
	}
	d := decimal.NewFromFloat(f)
	if exp := d.Exponent(); exp > maxExponent || exp < -maxExponent {
		return decimal.Zero, fmt.Errorf("%w: %v fuera de rango", domain.ErrInvalidNumber, f)
	}
	return d, nil
}

// Round2 redondea a 2 decimales, mitad alejándose de cero.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(AmountPlaces)
}

// Fixed formatea con exactamente 2 decimales ("27.00").
func Fixed(d decimal.Decimal) string {
	return d.StringFixed(AmountPlaces)
}

// Price formatea precios unitarios: 2 decimales salvo que la precisión sea mayor ("0.125").
func Price(d decimal.Decimal) string {
	if d.Equal(d.Round(AmountPlaces)) {
		return d.StringFixed(AmountPlaces)
	}
	return d.String()
}

// FixedPtr formatea un decimal opcional; nil => nil.
func FixedPtr(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	s := Fixed(*d)
	return &s
}

// applyPct devuelve base × (1 − pct/100).
func applyPct(base, pct decimal.Decimal) decimal.Decimal {
	return base.Mul(one.Sub(pct.Div(hundred)))
}

// LineAmount = quantity × unitPrice × (1 − discountPct/100), redondeado a 2 decimales.
func LineAmount(quantity, unitPrice, discountPct decimal.Decimal) decimal.Decimal {
	return Round2(applyPct(quantity.Mul(unitPrice), discountPct))
}

// DocumentTotals agregados derivados de un documento.
type DocumentTotals struct {
	Subtotal           decimal.Decimal // Σ amount de las líneas
	DiscountedSubtotal decimal.Decimal // subtotal tras el descuento del documento
	Tax                decimal.Decimal
	Total              decimal.Decimal
}

// Totals es la única regla de agregación: descuento del documento primero, impuesto después,
// sobre la suma de los montos ya redondeados de cada línea.
// El descuento del documento se compone con los descuentos de línea ya aplicados en cada amount.
func Totals(amounts []decimal.Decimal, discountPct decimal.Decimal, taxRate *decimal.Decimal) DocumentTotals {
	subtotal := decimal.Zero
	for _, a := range amounts {
		subtotal = subtotal.Add(a)
	}
	subtotal = Round2(subtotal)

	discounted := Round2(applyPct(subtotal, discountPct))

	tax := decimal.Zero
	if taxRate != nil {
		tax = Round2(discounted.Mul(*taxRate).Div(hundred))
	}

	return DocumentTotals{
		Subtotal:           subtotal,
		DiscountedSubtotal: discounted,
		Tax:                tax,
		Total:              discounted.Add(tax),
	}
}

// ValidatePercent verifica 0 <= pct <= 100.
func ValidatePercent(field string, pct decimal.Decimal) error {
	if pct.IsNegative() || pct.GreaterThan(hundred) {
		return fmt.Errorf("%w: %s debe estar entre 0 y 100", domain.ErrInvalidInput, field)
	}
	return nil
}

// CheckFits verifica que d quepa en una columna con intDigits dígitos enteros y places decimales.
// No redondea: un valor con más decimales distintos de cero falla con domain.ErrInvalidInput.
func CheckFits(field string, d decimal.Decimal, intDigits, places int32) error {
	if d.IsZero() {
		return nil
	}
	exp := d.Exponent()
	if exp > maxExponent || exp < -maxExponent || d.NumDigits() > maxExponent {
		return fmt.Errorf("%w: %s fuera de rango", domain.ErrInvalidInput, field)
	}
	if int64(d.NumDigits())+int64(exp) > int64(intDigits) {
		return fmt.Errorf("%w: %s admite como máximo %d dígitos enteros", domain.ErrInvalidInput, field, intDigits)
	}
	if exp < -places && !d.Equal(d.Truncate(places)) {
		return fmt.Errorf("%w: %s admite como máximo %d decimales", domain.ErrInvalidInput, field, places)
	}
	return nil
}

// CheckAmount falla con domain.ErrInvalidInput si |d| supera MaxAmount.
func CheckAmount(field string, d decimal.Decimal) error {
	if d.Abs().GreaterThan(MaxAmount) {
		return fmt.Errorf("%w: %s supera el máximo %s", domain.ErrInvalidInput, field, Fixed(MaxAmount))
	}
	return nil
}
