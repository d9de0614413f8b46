package billing

import (
	"context"

	"github.com/jhoicas/facturador-api/internal/domain/entity"
	"github.com/jhoicas/facturador-api/internal/domain/repository"
)

// BillingTxRunner ejecuta fn dentro de una transacción con repos de documentos y líneas atados a ella.
// Si fn devuelve error se hace rollback; la escritura de una línea y el recálculo de su documento
// siempre comparten la misma transacción.
type BillingTxRunner interface {
	RunBilling(ctx context.Context, fn func(
		docRepo repository.DocumentRepository,
		itemRepo repository.LineItemRepository,
	) error) error
}

// PDFInput datos completos para la representación gráfica de un documento.
type PDFInput struct {
	Document *entity.Document
	Items    []*entity.LineItem
	Company  *entity.Company
	Customer *entity.Customer
}

// DocumentPDFGenerator genera el PDF de una factura o cotización.
type DocumentPDFGenerator interface {
	GenerateDocumentPDF(ctx context.Context, in PDFInput) ([]byte, error)
}
