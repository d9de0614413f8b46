package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/facturador-api/internal/application/dto"
	"github.com/jhoicas/facturador-api/internal/domain"
	"github.com/jhoicas/facturador-api/internal/domain/entity"
	"github.com/jhoicas/facturador-api/internal/domain/repository"
)

// ConversionUseCase convierte una cotización aceptada en una factura en borrador.
type ConversionUseCase struct {
	tx       BillingTxRunner
	invoices *DocumentUseCase
	recalc   *Recalculator
	log      zerolog.Logger
	now      func() time.Time
}

// NewConversionUseCase construye el caso de uso; invoices se usa para armar la respuesta.
func NewConversionUseCase(tx BillingTxRunner, invoices *DocumentUseCase, recalc *Recalculator, log zerolog.Logger) *ConversionUseCase {
	return &ConversionUseCase{
		tx:       tx,
		invoices: invoices,
		recalc:   recalc,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Convert copia cliente, líneas, descuento, tasa, notas y términos a una factura nueva
// y enlaza ambos documentos. Una cotización se convierte una sola vez.
func (uc *ConversionUseCase) Convert(ctx context.Context, companyID, quotationID string) (*dto.DocumentResponse, error) {
	var invoiceID string
	err := uc.tx.RunBilling(ctx, func(docRepo repository.DocumentRepository, itemRepo repository.LineItemRepository) error {
		q, err := docRepo.GetForUpdate(ctx, entity.KindQuotation, quotationID)
		if err != nil {
			return fmt.Errorf("obtener cotización: %w", err)
		}
		if q == nil {
			return domain.ErrParentNotFound
		}
		if q.CompanyID != companyID {
			return domain.ErrForbidden
		}
		if q.LinkedID != "" {
			return fmt.Errorf("%w: la cotización ya fue convertida en la factura %s", domain.ErrConflict, q.LinkedID)
		}
		if q.Status != entity.QuotationStatusAccepted {
			return fmt.Errorf("%w: solo se convierten cotizaciones aceptadas (estado actual %s)", domain.ErrConflict, q.Status)
		}

		seq, err := docRepo.NextNumber(ctx, companyID, entity.KindInvoice)
		if err != nil {
			return fmt.Errorf("reservar consecutivo: %w", err)
		}
		now := uc.now()
		inv := &entity.Document{
			ID:         uuid.New().String(),
			Kind:       entity.KindInvoice,
			CompanyID:  companyID,
			CustomerID: q.CustomerID,
			Number:     FormatNumber(entity.KindInvoice, seq),
			IssueDate:  truncateDay(now),
			Status:     entity.InitialStatus(entity.KindInvoice),
			Discount:   q.Discount,
			TaxRate:    q.TaxRate,
			Subtotal:   decimal.Zero,
			Tax:        decimal.Zero,
			Total:      decimal.Zero,
			Notes:      q.Notes,
			Terms:      q.Terms,
			LinkedID:   q.ID,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := docRepo.Create(ctx, inv); err != nil {
			return fmt.Errorf("crear factura: %w", err)
		}

		items, err := itemRepo.ListByParent(ctx, entity.KindQuotation, q.ID)
		if err != nil {
			return fmt.Errorf("listar líneas de la cotización: %w", err)
		}
		for i, src := range items {
			cp := *src
			cp.ID = uuid.New().String()
			cp.Kind = entity.KindInvoice
			cp.ParentID = inv.ID
			cp.CreatedAt = seqTime(now, i)
			cp.UpdatedAt = cp.CreatedAt
			if err := itemRepo.Create(ctx, &cp); err != nil {
				return fmt.Errorf("copiar línea: %w", err)
			}
		}

		q.LinkedID = inv.ID
		q.UpdatedAt = now
		if err := docRepo.Update(ctx, q); err != nil {
			return fmt.Errorf("enlazar cotización: %w", err)
		}
		if _, err := uc.recalc.Recalculate(ctx, docRepo, itemRepo, entity.KindInvoice, inv.ID); err != nil {
			return err
		}
		invoiceID = inv.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().Str("quotation_id", quotationID).Str("invoice_id", invoiceID).Msg("cotización convertida en factura")
	return uc.invoices.Get(ctx, companyID, invoiceID)
}
