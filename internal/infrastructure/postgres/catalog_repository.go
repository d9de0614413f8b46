package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/facturador-api/internal/domain"
	"github.com/jhoicas/facturador-api/internal/domain/entity"
	"github.com/jhoicas/facturador-api/internal/domain/repository"
)

var (
	_ repository.CatalogItemRepository = (*CatalogItemRepo)(nil)
	_ repository.MasterItemRepository  = (*MasterItemRepo)(nil)
	_ repository.TermRepository        = (*TermRepo)(nil)
)

const catalogColumns = `id, company_id, name, description, unit_price, unit, tax_rate, master_item_id, created_at, updated_at`

// CatalogItemRepo catálogo propio de cada empresa.
type CatalogItemRepo struct {
	q Querier
}

func NewCatalogItemRepository(q Querier) *CatalogItemRepo {
	return &CatalogItemRepo{q: q}
}

func (r *CatalogItemRepo) Create(ctx context.Context, it *entity.CatalogItem) error {
	query := `INSERT INTO catalog_items (` + catalogColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		it.ID, it.CompanyID, it.Name, it.Description, it.UnitPrice, it.Unit, it.TaxRate,
		nullIfEmpty(it.MasterItemID), it.CreatedAt, it.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isNumericOverflow(err) {
			return errNumericOverflow
		}
		return fmt.Errorf("insert catalog item: %w", err)
	}
	return nil
}

func (r *CatalogItemRepo) GetByID(ctx context.Context, id string) (*entity.CatalogItem, error) {
	if !validID(id) {
		return nil, nil
	}
	it, err := scanCatalogItem(r.q.QueryRow(ctx, `SELECT `+catalogColumns+` FROM catalog_items WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get catalog item: %w", err)
	}
	return it, nil
}

func (r *CatalogItemRepo) ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.CatalogItem, error) {
	query := `SELECT ` + catalogColumns + ` FROM catalog_items WHERE company_id = $1 ORDER BY name, id LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list catalog items: %w", err)
	}
	defer rows.Close()

	var list []*entity.CatalogItem
	for rows.Next() {
		it, err := scanCatalogItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan catalog item: %w", err)
		}
		list = append(list, it)
	}
	return list, rows.Err()
}

func (r *CatalogItemRepo) Update(ctx context.Context, it *entity.CatalogItem) error {
	query := `
		UPDATE catalog_items
		   SET name = $2, description = $3, unit_price = $4, unit = $5, tax_rate = $6, updated_at = $7
		 WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query, it.ID, it.Name, it.Description, it.UnitPrice, it.Unit, it.TaxRate, it.UpdatedAt)
	if err != nil {
		if isNumericOverflow(err) {
			return errNumericOverflow
		}
		return fmt.Errorf("update catalog item: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *CatalogItemRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM catalog_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete catalog item: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanCatalogItem(row rowScanner) (*entity.CatalogItem, error) {
	var (
		it     entity.CatalogItem
		master *string
	)
	err := row.Scan(&it.ID, &it.CompanyID, &it.Name, &it.Description, &it.UnitPrice, &it.Unit,
		&it.TaxRate, &master, &it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		return nil, err
	}
	it.MasterItemID = derefString(master)
	return &it, nil
}

const masterColumns = `id, name, description, unit_price, unit, tax_rate, created_at, updated_at`

// MasterItemRepo repositorio central, sin empresa.
type MasterItemRepo struct {
	q Querier
}

func NewMasterItemRepository(q Querier) *MasterItemRepo {
	return &MasterItemRepo{q: q}
}

func (r *MasterItemRepo) Create(ctx context.Context, it *entity.MasterItem) error {
	query := `INSERT INTO master_items (` + masterColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query, it.ID, it.Name, it.Description, it.UnitPrice, it.Unit, it.TaxRate, it.CreatedAt, it.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isNumericOverflow(err) {
			return errNumericOverflow
		}
		return fmt.Errorf("insert master item: %w", err)
	}
	return nil
}

func (r *MasterItemRepo) GetByID(ctx context.Context, id string) (*entity.MasterItem, error) {
	if !validID(id) {
		return nil, nil
	}
	it, err := scanMasterItem(r.q.QueryRow(ctx, `SELECT `+masterColumns+` FROM master_items WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get master item: %w", err)
	}
	return it, nil
}

func (r *MasterItemRepo) List(ctx context.Context, limit, offset int) ([]*entity.MasterItem, error) {
	rows, err := r.q.Query(ctx, `SELECT `+masterColumns+` FROM master_items ORDER BY name, id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list master items: %w", err)
	}
	defer rows.Close()

	var list []*entity.MasterItem
	for rows.Next() {
		it, err := scanMasterItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan master item: %w", err)
		}
		list = append(list, it)
	}
	return list, rows.Err()
}

func scanMasterItem(row rowScanner) (*entity.MasterItem, error) {
	var it entity.MasterItem
	if err := row.Scan(&it.ID, &it.Name, &it.Description, &it.UnitPrice, &it.Unit, &it.TaxRate, &it.CreatedAt, &it.UpdatedAt); err != nil {
		return nil, err
	}
	return &it, nil
}

const termColumns = `id, company_id, title, body, is_default, created_at, updated_at`

// TermRepo términos y condiciones. El índice parcial terms_one_default_per_company
// garantiza un único término por defecto por empresa.
type TermRepo struct {
	q Querier
}

func NewTermRepository(q Querier) *TermRepo {
	return &TermRepo{q: q}
}

func (r *TermRepo) Create(ctx context.Context, t *entity.Term) error {
	query := `INSERT INTO terms (` + termColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query, t.ID, t.CompanyID, t.Title, t.Body, t.IsDefault, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: ya hay un término por defecto", domain.ErrConflict)
		}
		return fmt.Errorf("insert term: %w", err)
	}
	return nil
}

func (r *TermRepo) GetByID(ctx context.Context, id string) (*entity.Term, error) {
	if !validID(id) {
		return nil, nil
	}
	t, err := scanTerm(r.q.QueryRow(ctx, `SELECT `+termColumns+` FROM terms WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get term: %w", err)
	}
	return t, nil
}

func (r *TermRepo) ListByCompany(ctx context.Context, companyID string) ([]*entity.Term, error) {
	rows, err := r.q.Query(ctx, `SELECT `+termColumns+` FROM terms WHERE company_id = $1 ORDER BY created_at, id`, companyID)
	if err != nil {
		return nil, fmt.Errorf("list terms: %w", err)
	}
	defer rows.Close()

	var list []*entity.Term
	for rows.Next() {
		t, err := scanTerm(rows)
		if err != nil {
			return nil, fmt.Errorf("scan term: %w", err)
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

func (r *TermRepo) Update(ctx context.Context, t *entity.Term) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE terms SET title = $2, body = $3, is_default = $4, updated_at = $5 WHERE id = $1`,
		t.ID, t.Title, t.Body, t.IsDefault, t.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: ya hay un término por defecto", domain.ErrConflict)
		}
		return fmt.Errorf("update term: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *TermRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM terms WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete term: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *TermRepo) ClearDefault(ctx context.Context, companyID string) error {
	if _, err := r.q.Exec(ctx, `UPDATE terms SET is_default = false WHERE company_id = $1 AND is_default`, companyID); err != nil {
		return fmt.Errorf("clear default term: %w", err)
	}
	return nil
}

func scanTerm(row rowScanner) (*entity.Term, error) {
	var t entity.Term
	if err := row.Scan(&t.ID, &t.CompanyID, &t.Title, &t.Body, &t.IsDefault, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}
