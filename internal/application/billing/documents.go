package billing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/facturador-api/internal/application/dto"
	"github.com/jhoicas/facturador-api/internal/domain"
	"github.com/jhoicas/facturador-api/internal/domain/entity"
	"github.com/jhoicas/facturador-api/internal/domain/repository"
)

// DocumentRepos repositorios que necesita el caso de uso de documentos fuera de la transacción.
type DocumentRepos struct {
	Documents repository.DocumentRepository
	Items     repository.LineItemRepository
	Customers repository.CustomerRepository
	Terms     repository.TermRepository
	Catalog   repository.CatalogItemRepository
}

// DocumentUseCase cabeceras de facturas o cotizaciones (según kind).
type DocumentUseCase struct {
	kind   entity.DocumentKind
	tx     BillingTxRunner
	repos  DocumentRepos
	recalc *Recalculator
	log    zerolog.Logger
	now    func() time.Time
}

// NewDocumentUseCase construye el caso de uso para kind.
func NewDocumentUseCase(kind entity.DocumentKind, tx BillingTxRunner, repos DocumentRepos, recalc *Recalculator, log zerolog.Logger) *DocumentUseCase {
	return &DocumentUseCase{
		kind:   kind,
		tx:     tx,
		repos:  repos,
		recalc: recalc,
		log:    log.With().Str("kind", string(kind)).Logger(),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Kind tipo de documento que maneja el caso de uso.
func (uc *DocumentUseCase) Kind() entity.DocumentKind { return uc.kind }

// Create crea el documento en borrador con su consecutivo, las líneas iniciales y los totales.
func (uc *DocumentUseCase) Create(ctx context.Context, companyID string, in dto.CreateDocumentRequest) (*dto.DocumentResponse, error) {
	customer, err := uc.customerOf(ctx, companyID, in.CustomerID)
	if err != nil {
		return nil, err
	}

	issue := truncateDay(uc.now())
	if d, err := parseDate("issue_date", in.IssueDate); err != nil {
		return nil, err
	} else if d != nil {
		issue = *d
	}
	due, err := parseDate("due_date", in.DueDate)
	if err != nil {
		return nil, err
	}
	if err := checkDates(issue, due); err != nil {
		return nil, err
	}
	discount, err := parsePercent("discount", in.Discount)
	if err != nil {
		return nil, err
	}
	taxRate, err := parseTaxRate(in.TaxRate)
	if err != nil {
		return nil, err
	}
	terms, err := uc.resolveTerms(ctx, companyID, in.TermID, in.Terms)
	if err != nil {
		return nil, err
	}

	lines := make([]lineValues, 0, len(in.Items))
	for i, raw := range in.Items {
		raw, err := prefillFromCatalog(ctx, uc.repos.Catalog, companyID, raw)
		if err != nil {
			return nil, fmt.Errorf("items[%d]: %w", i, err)
		}
		v, err := parseLine(raw)
		if err != nil {
			return nil, fmt.Errorf("items[%d]: %w", i, err)
		}
		lines = append(lines, v)
	}

	now := uc.now()
	doc := &entity.Document{
		ID:         uuid.New().String(),
		Kind:       uc.kind,
		CompanyID:  companyID,
		CustomerID: customer.ID,
		IssueDate:  issue,
		DueDate:    due,
		Status:     entity.InitialStatus(uc.kind),
		Discount:   discount,
		TaxRate:    taxRate,
		Subtotal:   decimal.Zero,
		Tax:        decimal.Zero,
		Total:      decimal.Zero,
		Notes:      strings.TrimSpace(in.Notes),
		Terms:      terms,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	var items []*entity.LineItem

	err = uc.tx.RunBilling(ctx, func(docRepo repository.DocumentRepository, itemRepo repository.LineItemRepository) error {
		seq, err := docRepo.NextNumber(ctx, companyID, uc.kind)
		if err != nil {
			return fmt.Errorf("reservar consecutivo: %w", err)
		}
		doc.Number = FormatNumber(uc.kind, seq)
		if err := docRepo.Create(ctx, doc); err != nil {
			return fmt.Errorf("crear documento: %w", err)
		}
		for i, v := range lines {
			it := newLineItem(uc.kind, doc.ID, v, seqTime(now, i))
			if err := itemRepo.Create(ctx, it); err != nil {
				return fmt.Errorf("crear línea: %w", err)
			}
			items = append(items, it)
		}
		updated, err := uc.recalc.Recalculate(ctx, docRepo, itemRepo, uc.kind, doc.ID)
		if err != nil {
			return err
		}
		if updated != nil {
			doc = updated
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().Str("document_id", doc.ID).Str("number", doc.Number).Int("items", len(items)).Msg("documento creado")
	return toDocumentResponse(doc, customer.Name, items), nil
}

// Get devuelve el documento con sus líneas.
func (uc *DocumentUseCase) Get(ctx context.Context, companyID, id string) (*dto.DocumentResponse, error) {
	doc, err := uc.load(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	items, err := uc.repos.Items.ListByParent(ctx, uc.kind, id)
	if err != nil {
		return nil, fmt.Errorf("listar líneas: %w", err)
	}
	return toDocumentResponse(doc, uc.customerName(ctx, doc.CustomerID), items), nil
}

// List documentos de la empresa, sin líneas, más recientes primero.
func (uc *DocumentUseCase) List(ctx context.Context, companyID string, req dto.ListDocumentsRequest) (*dto.DocumentListResponse, error) {
	req.DefaultPage()
	if req.Status != "" && !entity.IsKnownStatus(uc.kind, req.Status) {
		return nil, fmt.Errorf("%w: status %q desconocido", domain.ErrInvalidInput, req.Status)
	}
	docs, total, err := uc.repos.Documents.List(ctx, uc.kind, companyID, repository.DocumentFilter{
		Status:     req.Status,
		CustomerID: req.CustomerID,
		Limit:      req.Limit,
		Offset:     req.Offset,
	})
	if err != nil {
		return nil, fmt.Errorf("listar documentos: %w", err)
	}

	names := make(map[string]string)
	out := &dto.DocumentListResponse{
		Items: make([]dto.DocumentResponse, 0, len(docs)),
		Page:  dto.PageResponse{Limit: req.Limit, Offset: req.Offset, Total: total},
	}
	for _, d := range docs {
		name, ok := names[d.CustomerID]
		if !ok {
			name = uc.customerName(ctx, d.CustomerID)
			names[d.CustomerID] = name
		}
		out.Items = append(out.Items, *toDocumentResponse(d, name, nil))
	}
	return out, nil
}

// Update aplica el patch de cabecera y recalcula (discount y tax_rate afectan los totales).
func (uc *DocumentUseCase) Update(ctx context.Context, companyID, id string, in dto.UpdateDocumentRequest) (*dto.DocumentResponse, error) {
	if in.CustomerID != nil {
		if _, err := uc.customerOf(ctx, companyID, *in.CustomerID); err != nil {
			return nil, err
		}
	}
	err := uc.tx.RunBilling(ctx, func(docRepo repository.DocumentRepository, itemRepo repository.LineItemRepository) error {
		doc, err := loadParentForWrite(ctx, docRepo, uc.kind, companyID, id)
		if err != nil {
			return err
		}
		if err := applyDocumentPatch(doc, in); err != nil {
			return err
		}
		doc.UpdatedAt = uc.now()
		if err := docRepo.Update(ctx, doc); err != nil {
			return fmt.Errorf("actualizar documento: %w", err)
		}
		_, err = uc.recalc.Recalculate(ctx, docRepo, itemRepo, uc.kind, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return uc.Get(ctx, companyID, id)
}

// UpdateStatus aplica la máquina de estados. force (solo admin) permite cualquier estado conocido.
func (uc *DocumentUseCase) UpdateStatus(ctx context.Context, companyID, role, id string, in dto.UpdateStatusRequest) (*dto.DocumentResponse, error) {
	status := strings.ToLower(strings.TrimSpace(in.Status))
	if !entity.IsKnownStatus(uc.kind, status) {
		return nil, fmt.Errorf("%w: status %q desconocido", domain.ErrInvalidInput, in.Status)
	}
	if in.Force && role != entity.RoleAdmin {
		return nil, fmt.Errorf("%w: solo un admin puede forzar el estado", domain.ErrForbidden)
	}

	err := uc.tx.RunBilling(ctx, func(docRepo repository.DocumentRepository, _ repository.LineItemRepository) error {
		doc, err := docRepo.GetForUpdate(ctx, uc.kind, id)
		if err != nil {
			return fmt.Errorf("obtener documento: %w", err)
		}
		if doc == nil {
			return domain.ErrParentNotFound
		}
		if doc.CompanyID != companyID {
			return domain.ErrForbidden
		}
		if doc.Status == status {
			return nil
		}
		if !entity.CanTransition(uc.kind, doc.Status, status) {
			if !in.Force {
				return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, doc.Status, status)
			}
			uc.log.Warn().Str("document_id", id).Str("from", doc.Status).Str("to", status).Msg("cambio de estado forzado")
		}
		doc.Status = status
		doc.UpdatedAt = uc.now()
		if err := docRepo.Update(ctx, doc); err != nil {
			return fmt.Errorf("actualizar estado: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return uc.Get(ctx, companyID, id)
}

// Delete elimina un borrador; las líneas caen en cascada.
func (uc *DocumentUseCase) Delete(ctx context.Context, companyID, id string) error {
	return uc.tx.RunBilling(ctx, func(docRepo repository.DocumentRepository, _ repository.LineItemRepository) error {
		doc, err := docRepo.GetForUpdate(ctx, uc.kind, id)
		if err != nil {
			return fmt.Errorf("obtener documento: %w", err)
		}
		if doc == nil {
			return domain.ErrParentNotFound
		}
		if doc.CompanyID != companyID {
			return domain.ErrForbidden
		}
		if doc.Status != entity.InitialStatus(uc.kind) {
			return fmt.Errorf("%w: solo se pueden eliminar documentos en borrador", domain.ErrConflict)
		}
		if err := docRepo.Delete(ctx, uc.kind, id); err != nil {
			return fmt.Errorf("eliminar documento: %w", err)
		}
		return nil
	})
}

// FormatNumber arma el número visible: FAC-000001, COT-000001.
func FormatNumber(kind entity.DocumentKind, seq int64) string {
	return fmt.Sprintf("%s-%06d", kind.NumberPrefix(), seq)
}

func (uc *DocumentUseCase) load(ctx context.Context, companyID, id string) (*entity.Document, error) {
	doc, err := uc.repos.Documents.GetByID(ctx, uc.kind, id)
	if err != nil {
		return nil, fmt.Errorf("obtener documento: %w", err)
	}
	if doc == nil {
		return nil, domain.ErrParentNotFound
	}
	if doc.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return doc, nil
}

func (uc *DocumentUseCase) customerOf(ctx context.Context, companyID, customerID string) (*entity.Customer, error) {
	if strings.TrimSpace(customerID) == "" {
		return nil, fmt.Errorf("%w: customer_id es obligatorio", domain.ErrInvalidInput)
	}
	c, err := uc.repos.Customers.GetByID(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("obtener cliente: %w", err)
	}
	if c == nil || c.CompanyID != companyID {
		return nil, fmt.Errorf("%w: el cliente %s no existe", domain.ErrInvalidInput, customerID)
	}
	return c, nil
}

func (uc *DocumentUseCase) customerName(ctx context.Context, customerID string) string {
	c, err := uc.repos.Customers.GetByID(ctx, customerID)
	if err != nil || c == nil {
		return ""
	}
	return c.Name
}

// resolveTerms: texto explícito > término elegido > término por defecto de la empresa.
func (uc *DocumentUseCase) resolveTerms(ctx context.Context, companyID, termID, text string) (string, error) {
	if t := strings.TrimSpace(text); t != "" {
		return t, nil
	}
	if termID != "" {
		term, err := uc.repos.Terms.GetByID(ctx, termID)
		if err != nil {
			return "", fmt.Errorf("obtener término: %w", err)
		}
		if term == nil || term.CompanyID != companyID {
			return "", fmt.Errorf("%w: el término %s no existe", domain.ErrInvalidInput, termID)
		}
		return term.Body, nil
	}
	terms, err := uc.repos.Terms.ListByCompany(ctx, companyID)
	if err != nil {
		return "", fmt.Errorf("listar términos: %w", err)
	}
	for _, t := range terms {
		if t.IsDefault {
			return t.Body, nil
		}
	}
	return "", nil
}

// seqTime separa por microsegundos las líneas creadas en bloque para conservar su orden.
func seqTime(base time.Time, i int) time.Time {
	return base.Add(time.Duration(i) * time.Microsecond)
}

func checkDates(issue time.Time, due *time.Time) error {
	if due != nil && due.Before(issue) {
		return fmt.Errorf("%w: due_date no puede ser anterior a issue_date", domain.ErrInvalidInput)
	}
	return nil
}

// applyDocumentPatch valida y aplica los campos presentes. Los totales no se tocan aquí.
func applyDocumentPatch(doc *entity.Document, in dto.UpdateDocumentRequest) error {
	next := *doc
	if in.CustomerID != nil {
		next.CustomerID = *in.CustomerID
	}
	if in.IssueDate != nil {
		d, err := parseDate("issue_date", *in.IssueDate)
		if err != nil {
			return err
		}
		if d == nil {
			return fmt.Errorf("%w: issue_date no puede quedar vacía", domain.ErrInvalidInput)
		}
		next.IssueDate = *d
	}
	if in.DueDate != nil {
		d, err := parseDate("due_date", *in.DueDate)
		if err != nil {
			return err
		}
		next.DueDate = d
	}
	if err := checkDates(next.IssueDate, next.DueDate); err != nil {
		return err
	}
	if in.Discount.Set {
		d, err := parsePercent("discount", in.Discount)
		if err != nil {
			return err
		}
		next.Discount = d
	}
	if in.TaxRate.Set {
		r, err := parseTaxRate(in.TaxRate)
		if err != nil {
			return err
		}
		next.TaxRate = r
	}
	if in.Notes != nil {
		next.Notes = strings.TrimSpace(*in.Notes)
	}
	if in.Terms != nil {
		next.Terms = strings.TrimSpace(*in.Terms)
	}
	*doc = next
	return nil
}
