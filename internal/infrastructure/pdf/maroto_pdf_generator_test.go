package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appbilling "github.com/jhoicas/facturador-api/internal/application/billing"
	"github.com/jhoicas/facturador-api/internal/domain/entity"
)

func TestGenerateDocumentPDF(t *testing.T) {
	due := time.Date(2026, 4, 30, 0, 0, 0, 0, time.UTC)
	rate := decimal.NewFromInt(19)
	in := appbilling.PDFInput{
		Document: &entity.Document{
			Kind: entity.KindQuotation, Number: "COT-000007", Status: "sent",
			IssueDate: time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), DueDate: &due,
			Discount: decimal.NewFromInt(10), TaxRate: &rate,
			Subtotal: decimal.RequireFromString("250.50"), Tax: decimal.RequireFromString("42.84"),
			Total: decimal.RequireFromString("268.29"), Notes: "Entrega en 5 días", Terms: "Pago a 30 días\nPrecios en COP",
		},
		Items: []*entity.LineItem{{
			Description: "Consultoría", Quantity: decimal.NewFromInt(2),
			UnitPrice: decimal.NewFromInt(100), Amount: decimal.NewFromInt(200),
		}},
		Company:  &entity.Company{Name: "Demo SAS", TaxID: "900111222", Currency: "COP"},
		Customer: &entity.Customer{Name: "Acme", TaxID: "800"},
	}

	out, err := NewMarotoPDFGenerator("es-CO").GenerateDocumentPDF(context.Background(), in)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))

	_, err = NewMarotoPDFGenerator("es-CO").GenerateDocumentPDF(context.Background(), appbilling.PDFInput{})
	assert.Error(t, err)
}

func TestFormatoLocale(t *testing.T) {
	co := NewMarotoPDFGenerator("es-CO")
	assert.Equal(t, "1.234.567,50", co.amount(decimal.RequireFromString("1234567.5")))
	assert.Equal(t, "19%", co.percent(decimal.NewFromInt(19)))

	us := NewMarotoPDFGenerator("en-US")
	assert.Equal(t, "1,234,567.50", us.amount(decimal.RequireFromString("1234567.5")))

	fallback := NewMarotoPDFGenerator("no es un locale!")
	assert.Equal(t, "12,50", fallback.amount(decimal.RequireFromString("12.5")))
}
