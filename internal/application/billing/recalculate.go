package billing

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/facturador-api/internal/domain/entity"
	"github.com/jhoicas/facturador-api/internal/domain/money"
	"github.com/jhoicas/facturador-api/internal/domain/repository"
)

// Recalculator deriva subtotal/tax/total de un documento a partir de sus líneas actuales.
// Debe invocarse con repos atados a la misma transacción que modificó las líneas.
type Recalculator struct {
	log zerolog.Logger
}

// NewRecalculator construye el servicio.
func NewRecalculator(log zerolog.Logger) *Recalculator {
	return &Recalculator{log: log}
}

// Recalculate bloquea el documento, suma los montos de sus líneas, aplica descuento e impuesto
// y persiste los tres totales en un solo UPDATE. Devuelve el documento actualizado.
// Si el documento ya no existe registra un warning y devuelve (nil, nil).
func (r *Recalculator) Recalculate(
	ctx context.Context,
	docRepo repository.DocumentRepository,
	itemRepo repository.LineItemRepository,
	kind entity.DocumentKind,
	parentID string,
) (*entity.Document, error) {
	doc, err := docRepo.GetForUpdate(ctx, kind, parentID)
	if err != nil {
		return nil, fmt.Errorf("recalcular totales: obtener documento: %w", err)
	}
	if doc == nil {
		r.log.Warn().
			Str("kind", string(kind)).
			Str("document_id", parentID).
			Msg("recálculo omitido: documento inexistente")
		return nil, nil
	}

	items, err := itemRepo.ListByParent(ctx, kind, parentID)
	if err != nil {
		return nil, fmt.Errorf("recalcular totales: listar líneas: %w", err)
	}
	amounts := make([]decimal.Decimal, 0, len(items))
	for _, it := range items {
		amounts = append(amounts, it.Amount)
	}

	t := money.Totals(amounts, doc.Discount, doc.TaxRate)
	for field, v := range map[string]decimal.Decimal{"subtotal": t.Subtotal, "tax": t.Tax, "total": t.Total} {
		if err := money.CheckAmount(field, v); err != nil {
			return nil, fmt.Errorf("recalcular totales: %w", err)
		}
	}
	if err := docRepo.UpdateTotals(ctx, kind, parentID, t.Subtotal, t.Tax, t.Total); err != nil {
		return nil, fmt.Errorf("recalcular totales: %w", err)
	}

	doc.Subtotal, doc.Tax, doc.Total = t.Subtotal, t.Tax, t.Total
	r.log.Debug().
		Str("kind", string(kind)).
		Str("document_id", parentID).
		Int("items", len(items)).
		Str("total", money.Fixed(t.Total)).
		Msg("totales recalculados")
	return doc, nil
}
