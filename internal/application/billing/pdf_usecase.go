package billing

import (
	"context"
	"fmt"

	"github.com/jhoicas/facturador-api/internal/domain"
	"github.com/jhoicas/facturador-api/internal/domain/entity"
	"github.com/jhoicas/facturador-api/internal/domain/repository"
)

// PDFUseCase genera la representación gráfica (PDF) de una factura o cotización.
type PDFUseCase struct {
	docRepo      repository.DocumentRepository
	itemRepo     repository.LineItemRepository
	companyRepo  repository.CompanyRepository
	customerRepo repository.CustomerRepository
	generator    DocumentPDFGenerator
}

// NewPDFUseCase construye el caso de uso inyectando todas sus dependencias.
func NewPDFUseCase(
	docRepo repository.DocumentRepository,
	itemRepo repository.LineItemRepository,
	companyRepo repository.CompanyRepository,
	customerRepo repository.CustomerRepository,
	generator DocumentPDFGenerator,
) *PDFUseCase {
	return &PDFUseCase{
		docRepo:      docRepo,
		itemRepo:     itemRepo,
		companyRepo:  companyRepo,
		customerRepo: customerRepo,
		generator:    generator,
	}
}

// Download recupera el documento con sus líneas, empresa y cliente y genera el PDF.
//
// Retorna:
//   - (pdfBytes, filename, nil)   si todo sale bien.
//   - domain.ErrParentNotFound    si el documento no existe.
//   - domain.ErrForbidden         si no pertenece a la empresa del token.
func (uc *PDFUseCase) Download(
	ctx context.Context,
	kind entity.DocumentKind,
	companyID, id string,
) (pdfBytes []byte, filename string, err error) {
	doc, err := uc.docRepo.GetByID(ctx, kind, id)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener documento: %w", err)
	}
	if doc == nil {
		return nil, "", domain.ErrParentNotFound
	}
	if doc.CompanyID != companyID {
		return nil, "", domain.ErrForbidden
	}

	company, err := uc.companyRepo.GetByID(ctx, companyID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener empresa: %w", err)
	}
	if company == nil {
		return nil, "", fmt.Errorf("pdf: %w: empresa %s", domain.ErrNotFound, companyID)
	}

	customer, err := uc.customerRepo.GetByID(ctx, doc.CustomerID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener cliente: %w", err)
	}
	if customer == nil {
		return nil, "", fmt.Errorf("pdf: %w: cliente %s", domain.ErrNotFound, doc.CustomerID)
	}

	items, err := uc.itemRepo.ListByParent(ctx, kind, id)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener líneas: %w", err)
	}

	pdfBytes, err = uc.generator.GenerateDocumentPDF(ctx, PDFInput{
		Document: doc,
		Items:    items,
		Company:  company,
		Customer: customer,
	})
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}

	prefix := "factura"
	if kind == entity.KindQuotation {
		prefix = "cotizacion"
	}
	return pdfBytes, fmt.Sprintf("%s_%s.pdf", prefix, doc.Number), nil
}
