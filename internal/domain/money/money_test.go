package money

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/facturador-api/internal/domain"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func ptr(s string) *decimal.Decimal {
	v := d(s)
	return &v
}

func TestParseDecimal(t *testing.T) {
	ok := []struct {
		in   any
		want string
	}{
		{"10.50", "10.5"},
		{"  3 ", "3"},
		{json.Number("2.25"), "2.25"},
		{7, "7"},
		{int64(-4), "-4"},
		{12.75, "12.75"},
		{d("1.10"), "1.1"},
	}
	for _, c := range ok {
		got, err := ParseDecimal(c.in)
		require.NoError(t, err, "%v", c.in)
		assert.True(t, got.Equal(d(c.want)), "%v => %s", c.in, got)
	}

	bad := []any{"", "abc", "1,5", math.NaN(), math.Inf(1), nil, true, []int{1}, "1e3000000", "1e-3000000", 1e300}
	for _, in := range bad {
		_, err := ParseDecimal(in)
		assert.ErrorIs(t, err, domain.ErrInvalidNumber, "%v", in)
	}
}

func TestLineAmount(t *testing.T) {
	cases := []struct {
		qty, price, disc, want string
	}{
		{"3", "10.00", "10", "27.00"},
		{"2", "50", "10", "90.00"},
		{"1", "100", "0", "100.00"},
		{"7", "13.37", "0", "93.59"},
		{"5", "99.99", "100", "0.00"},
		{"1", "0.125", "0", "0.13"},  // mitad se aleja de cero
		{"1", "0.124", "0", "0.12"},
		{"3", "3.335", "0", "10.01"}, // 10.005 -> 10.01
		{"0", "10", "0", "0.00"},
	}
	for _, c := range cases {
		got := LineAmount(d(c.qty), d(c.price), d(c.disc))
		assert.Equal(t, c.want, Fixed(got), "%s x %s @%s%%", c.qty, c.price, c.disc)
		assert.False(t, got.IsNegative())
	}
}

func TestTotals_EscenarioA(t *testing.T) {
	amounts := []decimal.Decimal{
		LineAmount(d("1"), d("100"), d("0")),
		LineAmount(d("2"), d("50"), d("10")),
	}
	got := Totals(amounts, decimal.Zero, ptr("20"))

	assert.Equal(t, "190.00", Fixed(got.Subtotal))
	assert.Equal(t, "190.00", Fixed(got.DiscountedSubtotal))
	assert.Equal(t, "38.00", Fixed(got.Tax))
	assert.Equal(t, "228.00", Fixed(got.Total))
}

func TestTotals_DescuentoAntesDeImpuesto(t *testing.T) {
	got := Totals([]decimal.Decimal{d("200.00")}, d("10"), ptr("19"))

	assert.Equal(t, "200.00", Fixed(got.Subtotal))
	assert.Equal(t, "180.00", Fixed(got.DiscountedSubtotal))
	assert.Equal(t, "34.20", Fixed(got.Tax))
	assert.Equal(t, "214.20", Fixed(got.Total))
}

func TestTotals_SinTasaNiLineas(t *testing.T) {
	got := Totals(nil, decimal.Zero, nil)
	assert.Equal(t, "0.00", Fixed(got.Subtotal))
	assert.Equal(t, "0.00", Fixed(got.Tax))
	assert.Equal(t, "0.00", Fixed(got.Total))

	got = Totals([]decimal.Decimal{d("10.00"), d("5.55")}, decimal.Zero, nil)
	assert.Equal(t, "15.55", Fixed(got.Total))
	assert.True(t, got.Tax.IsZero())
}

func TestTotals_Idempotente(t *testing.T) {
	amounts := []decimal.Decimal{d("33.33"), d("66.67"), d("0.01")}
	a := Totals(amounts, d("12.5"), ptr("7.5"))
	b := Totals(amounts, d("12.5"), ptr("7.5"))
	assert.Equal(t, a, b)
}

func TestValidatePercent(t *testing.T) {
	assert.NoError(t, ValidatePercent("discount", d("0")))
	assert.NoError(t, ValidatePercent("discount", d("100")))
	assert.ErrorIs(t, ValidatePercent("discount", d("-0.01")), domain.ErrInvalidInput)
	assert.ErrorIs(t, ValidatePercent("discount", d("100.01")), domain.ErrInvalidInput)
}

func TestFixedPtr(t *testing.T) {
	assert.Nil(t, FixedPtr(nil))
	assert.Equal(t, "19.00", *FixedPtr(ptr("19")))
}

func TestPrice(t *testing.T) {
	assert.Equal(t, "10.00", Price(d("10.0000")))
	assert.Equal(t, "0.125", Price(d("0.1250")))
	assert.Equal(t, "99.90", Price(d("99.9")))
}

func TestCheckFits(t *testing.T) {
	fits := []string{"0", "1", "9999999999.9999", "-9999999999", "0.0001", "1.50000", "1e9", "12.3400000"}
	for _, v := range fits {
		assert.NoError(t, CheckFits("quantity", d(v), QuantityDigits, QuantityPlaces), v)
	}

	tooLarge := []string{"1e20", "10000000000", "12345678901.5", "1e10"}
	for _, v := range tooLarge {
		err := CheckFits("quantity", d(v), QuantityDigits, QuantityPlaces)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, v)
		assert.Contains(t, err.Error(), "dígitos enteros", v)
	}

	tooPrecise := []string{"1.23456", "0.00001", "-2.00005"}
	for _, v := range tooPrecise {
		err := CheckFits("unit_price", d(v), QuantityDigits, QuantityPlaces)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, v)
		assert.Contains(t, err.Error(), "decimales", v)
	}

	assert.ErrorIs(t, CheckFits("quantity", d("1e3000000"), QuantityDigits, QuantityPlaces), domain.ErrInvalidInput)
	assert.ErrorIs(t, CheckFits("quantity", d("1e-3000000"), QuantityDigits, QuantityPlaces), domain.ErrInvalidInput)
}

func TestCheckAmount(t *testing.T) {
	assert.NoError(t, CheckAmount("total", d("999999999999.99")))
	assert.NoError(t, CheckAmount("total", d("-999999999999.99")))
	assert.ErrorIs(t, CheckAmount("total", d("1000000000000.00")), domain.ErrInvalidInput)
	assert.ErrorIs(t, CheckAmount("amount", LineAmount(d("9999999999"), d("9999999999"), decimal.Zero)), domain.ErrInvalidInput)
}
