package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/facturador-api/internal/domain"
	"github.com/jhoicas/facturador-api/internal/domain/entity"
	"github.com/jhoicas/facturador-api/internal/domain/repository"
)

var (
	_ repository.DocumentRepository = (*DocumentRepo)(nil)
	_ repository.LineItemRepository = (*LineItemRepo)(nil)
)

// docTable nombres físicos por tipo de documento. Facturas y cotizaciones comparten
// estructura; solo cambian las tablas, la columna de vencimiento y la del vínculo.
type docTable struct {
	docs      string
	items     string
	parentCol string
	dueCol    string
	linkCol   string
}

var docTables = map[entity.DocumentKind]docTable{
	entity.KindInvoice: {
		docs: "invoices", items: "invoice_items", parentCol: "invoice_id",
		dueCol: "due_date", linkCol: "source_quotation_id",
	},
	entity.KindQuotation: {
		docs: "quotations", items: "quotation_items", parentCol: "quotation_id",
		dueCol: "valid_until", linkCol: "converted_invoice_id",
	},
}

func tableFor(kind entity.DocumentKind) (docTable, error) {
	t, ok := docTables[kind]
	if !ok {
		return docTable{}, fmt.Errorf("%w: tipo de documento %q", domain.ErrInvalidInput, kind)
	}
	return t, nil
}

func (t docTable) columns() string {
	return `id, company_id, customer_id, number, issue_date, ` + t.dueCol + `, status, discount, tax_rate,
		subtotal, tax, total, notes, terms, ` + t.linkCol + `, created_at, updated_at`
}

// DocumentRepo cabeceras de facturas y cotizaciones.
type DocumentRepo struct {
	q Querier
}

// NewDocumentRepository construye el adaptador (pool o tx).
func NewDocumentRepository(q Querier) *DocumentRepo {
	return &DocumentRepo{q: q}
}

// NextNumber incrementa el consecutivo de la empresa; la fila de document_sequences queda
// bloqueada hasta el fin de la transacción, así dos documentos nunca comparten número.
func (r *DocumentRepo) NextNumber(ctx context.Context, companyID string, kind entity.DocumentKind) (int64, error) {
	const query = `
		INSERT INTO document_sequences (company_id, kind, last_value)
		VALUES ($1, $2, 1)
		ON CONFLICT (company_id, kind)
		DO UPDATE SET last_value = document_sequences.last_value + 1
		RETURNING last_value`
	var n int64
	if err := r.q.QueryRow(ctx, query, companyID, string(kind)).Scan(&n); err != nil {
		return 0, fmt.Errorf("next %s number: %w", kind, err)
	}
	return n, nil
}

func (r *DocumentRepo) Create(ctx context.Context, d *entity.Document) error {
	t, err := tableFor(d.Kind)
	if err != nil {
		return err
	}
	query := `INSERT INTO ` + t.docs + ` (` + t.columns() + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`
	_, err = r.q.Exec(ctx, query,
		d.ID, d.CompanyID, d.CustomerID, d.Number, d.IssueDate, d.DueDate, d.Status, d.Discount, d.TaxRate,
		d.Subtotal, d.Tax, d.Total, d.Notes, d.Terms, nullIfEmpty(d.LinkedID), d.CreatedAt, d.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: número %s", domain.ErrDuplicate, d.Number)
		}
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: cliente o documento vinculado inexistente", domain.ErrInvalidInput)
		}
		if isNumericOverflow(err) {
			return errNumericOverflow
		}
		return fmt.Errorf("insert %s: %w", d.Kind, err)
	}
	return nil
}

func (r *DocumentRepo) GetByID(ctx context.Context, kind entity.DocumentKind, id string) (*entity.Document, error) {
	return r.get(ctx, kind, id, false)
}

// GetForUpdate SELECT ... FOR UPDATE; solo tiene efecto dentro de una transacción.
func (r *DocumentRepo) GetForUpdate(ctx context.Context, kind entity.DocumentKind, id string) (*entity.Document, error) {
	return r.get(ctx, kind, id, true)
}

func (r *DocumentRepo) get(ctx context.Context, kind entity.DocumentKind, id string, lock bool) (*entity.Document, error) {
	t, err := tableFor(kind)
	if err != nil {
		return nil, err
	}
	if !validID(id) {
		return nil, nil
	}
	query := `SELECT ` + t.columns() + ` FROM ` + t.docs + ` WHERE id = $1`
	if lock {
		query += ` FOR UPDATE`
	}
	d, err := scanDocument(r.q.QueryRow(ctx, query, id), kind)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get %s: %w", kind, err)
	}
	return d, nil
}

// List documentos de la empresa, más recientes primero, con el total sin paginar.
func (r *DocumentRepo) List(ctx context.Context, kind entity.DocumentKind, companyID string, f repository.DocumentFilter) ([]*entity.Document, int, error) {
	t, err := tableFor(kind)
	if err != nil {
		return nil, 0, err
	}
	const where = ` WHERE company_id = $1 AND ($2 = '' OR status = $2) AND ($3 = '' OR customer_id::text = $3)`

	var total int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM `+t.docs+where, companyID, f.Status, f.CustomerID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count %s: %w", kind, err)
	}

	query := `SELECT ` + t.columns() + ` FROM ` + t.docs + where + ` ORDER BY created_at DESC, number DESC LIMIT $4 OFFSET $5`
	rows, err := r.q.Query(ctx, query, companyID, f.Status, f.CustomerID, f.Limit, f.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list %s: %w", kind, err)
	}
	defer rows.Close()

	var list []*entity.Document
	for rows.Next() {
		d, err := scanDocument(rows, kind)
		if err != nil {
			return nil, 0, fmt.Errorf("scan %s: %w", kind, err)
		}
		list = append(list, d)
	}
	return list, total, rows.Err()
}

// Update nunca toca número, empresa ni totales; los totales solo cambian por UpdateTotals.
func (r *DocumentRepo) Update(ctx context.Context, d *entity.Document) error {
	t, err := tableFor(d.Kind)
	if err != nil {
		return err
	}
	query := `
		UPDATE ` + t.docs + `
		   SET customer_id = $2, issue_date = $3, ` + t.dueCol + ` = $4, status = $5, discount = $6,
		       tax_rate = $7, notes = $8, terms = $9, ` + t.linkCol + ` = $10, updated_at = $11
		 WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		d.ID, d.CustomerID, d.IssueDate, d.DueDate, d.Status, d.Discount,
		d.TaxRate, d.Notes, d.Terms, nullIfEmpty(d.LinkedID), d.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: cliente o documento vinculado inexistente", domain.ErrInvalidInput)
		}
		if isNumericOverflow(err) {
			return errNumericOverflow
		}
		return fmt.Errorf("update %s: %w", d.Kind, err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrParentNotFound
	}
	return nil
}

func (r *DocumentRepo) UpdateTotals(ctx context.Context, kind entity.DocumentKind, id string, subtotal, tax, total decimal.Decimal) error {
	t, err := tableFor(kind)
	if err != nil {
		return err
	}
	query := `UPDATE ` + t.docs + ` SET subtotal = $2, tax = $3, total = $4, updated_at = now() WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query, id, subtotal, tax, total)
	if err != nil {
		if isNumericOverflow(err) {
			return errNumericOverflow
		}
		return fmt.Errorf("update %s totals: %w", kind, err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrParentNotFound
	}
	return nil
}

func (r *DocumentRepo) Delete(ctx context.Context, kind entity.DocumentKind, id string) error {
	t, err := tableFor(kind)
	if err != nil {
		return err
	}
	cmd, err := r.q.Exec(ctx, `DELETE FROM `+t.docs+` WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete %s: %w", kind, err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrParentNotFound
	}
	return nil
}

func scanDocument(row rowScanner, kind entity.DocumentKind) (*entity.Document, error) {
	var (
		d    = entity.Document{Kind: kind}
		link *string
	)
	err := row.Scan(&d.ID, &d.CompanyID, &d.CustomerID, &d.Number, &d.IssueDate, &d.DueDate, &d.Status,
		&d.Discount, &d.TaxRate, &d.Subtotal, &d.Tax, &d.Total, &d.Notes, &d.Terms, &link,
		&d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}
	d.LinkedID = derefString(link)
	return &d, nil
}

// LineItemRepo líneas de facturas y cotizaciones.
type LineItemRepo struct {
	q Querier
}

// NewLineItemRepository construye el adaptador (pool o tx).
func NewLineItemRepository(q Querier) *LineItemRepo {
	return &LineItemRepo{q: q}
}

func (t docTable) itemColumns() string {
	return `id, ` + t.parentCol + `, description, quantity, unit_price, discount, amount, created_at, updated_at`
}

func (r *LineItemRepo) Create(ctx context.Context, it *entity.LineItem) error {
	t, err := tableFor(it.Kind)
	if err != nil {
		return err
	}
	query := `INSERT INTO ` + t.items + ` (` + t.itemColumns() + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err = r.q.Exec(ctx, query,
		it.ID, it.ParentID, it.Description, it.Quantity, it.UnitPrice, it.Discount, it.Amount,
		it.CreatedAt, it.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrParentNotFound
		}
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isNumericOverflow(err) {
			return errNumericOverflow
		}
		return fmt.Errorf("insert %s item: %w", it.Kind, err)
	}
	return nil
}

func (r *LineItemRepo) GetByID(ctx context.Context, kind entity.DocumentKind, id string) (*entity.LineItem, error) {
	t, err := tableFor(kind)
	if err != nil {
		return nil, err
	}
	if !validID(id) {
		return nil, nil
	}
	it, err := scanLineItem(r.q.QueryRow(ctx, `SELECT `+t.itemColumns()+` FROM `+t.items+` WHERE id = $1`, id), kind)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get %s item: %w", kind, err)
	}
	return it, nil
}

// ListByParent líneas en orden de creación.
func (r *LineItemRepo) ListByParent(ctx context.Context, kind entity.DocumentKind, parentID string) ([]*entity.LineItem, error) {
	t, err := tableFor(kind)
	if err != nil {
		return nil, err
	}
	if !validID(parentID) {
		return nil, nil
	}
	query := `SELECT ` + t.itemColumns() + ` FROM ` + t.items + ` WHERE ` + t.parentCol + ` = $1 ORDER BY created_at, id`
	rows, err := r.q.Query(ctx, query, parentID)
	if err != nil {
		return nil, fmt.Errorf("list %s items: %w", kind, err)
	}
	defer rows.Close()

	var list []*entity.LineItem
	for rows.Next() {
		it, err := scanLineItem(rows, kind)
		if err != nil {
			return nil, fmt.Errorf("scan %s item: %w", kind, err)
		}
		list = append(list, it)
	}
	return list, rows.Err()
}

func (r *LineItemRepo) Update(ctx context.Context, it *entity.LineItem) error {
	t, err := tableFor(it.Kind)
	if err != nil {
		return err
	}
	query := `
		UPDATE ` + t.items + `
		   SET description = $2, quantity = $3, unit_price = $4, discount = $5, amount = $6, updated_at = $7
		 WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query, it.ID, it.Description, it.Quantity, it.UnitPrice, it.Discount, it.Amount, it.UpdatedAt)
	if err != nil {
		if isNumericOverflow(err) {
			return errNumericOverflow
		}
		return fmt.Errorf("update %s item: %w", it.Kind, err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrItemNotFound
	}
	return nil
}

func (r *LineItemRepo) Delete(ctx context.Context, kind entity.DocumentKind, id string) error {
	t, err := tableFor(kind)
	if err != nil {
		return err
	}
	cmd, err := r.q.Exec(ctx, `DELETE FROM `+t.items+` WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete %s item: %w", kind, err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrItemNotFound
	}
	return nil
}

func scanLineItem(row rowScanner, kind entity.DocumentKind) (*entity.LineItem, error) {
	it := entity.LineItem{Kind: kind}
	err := row.Scan(&it.ID, &it.ParentID, &it.Description, &it.Quantity, &it.UnitPrice, &it.Discount,
		&it.Amount, &it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &it, nil
}
