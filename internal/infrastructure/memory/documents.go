package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/facturador-api/internal/domain"
	"github.com/jhoicas/facturador-api/internal/domain/entity"
	"github.com/jhoicas/facturador-api/internal/domain/repository"
)

var (
	_ repository.DocumentRepository = (*DocumentRepo)(nil)
	_ repository.LineItemRepository = (*LineItemRepo)(nil)
)

// DocumentRepo facturas y cotizaciones en memoria.
type DocumentRepo struct {
	store *Store
	inTx  bool
}

// NewDocumentRepository repositorio fuera de transacción.
func NewDocumentRepository(store *Store) *DocumentRepo {
	return &DocumentRepo{store: store}
}

func (r *DocumentRepo) NextNumber(_ context.Context, companyID string, kind entity.DocumentKind) (int64, error) {
	var n int64
	err := r.store.access(r.inTx, func(st *state) error {
		key := companyID + "|" + string(kind)
		st.seqs[key]++
		n = st.seqs[key]
		return nil
	})
	return n, err
}

func (r *DocumentRepo) Create(_ context.Context, doc *entity.Document) error {
	return r.store.access(r.inTx, func(st *state) error {
		m, ok := st.docs[doc.Kind]
		if !ok {
			return fmt.Errorf("%w: tipo %q", domain.ErrInvalidInput, doc.Kind)
		}
		if _, exists := m[doc.ID]; exists {
			return domain.ErrDuplicate
		}
		for _, d := range m {
			if d.CompanyID == doc.CompanyID && d.Number == doc.Number {
				return domain.ErrDuplicate
			}
		}
		m[doc.ID] = *doc
		return nil
	})
}

func (r *DocumentRepo) GetByID(_ context.Context, kind entity.DocumentKind, id string) (*entity.Document, error) {
	var out *entity.Document
	err := r.store.access(r.inTx, func(st *state) error {
		if d, ok := st.docs[kind][id]; ok {
			out = &d
		}
		return nil
	})
	return out, err
}

// GetForUpdate en memoria el lock es el de la transacción completa.
func (r *DocumentRepo) GetForUpdate(ctx context.Context, kind entity.DocumentKind, id string) (*entity.Document, error) {
	return r.GetByID(ctx, kind, id)
}

func (r *DocumentRepo) List(_ context.Context, kind entity.DocumentKind, companyID string, f repository.DocumentFilter) ([]*entity.Document, int, error) {
	var out []*entity.Document
	var total int
	err := r.store.access(r.inTx, func(st *state) error {
		var all []*entity.Document
		for _, d := range st.docs[kind] {
			if d.CompanyID != companyID {
				continue
			}
			if f.Status != "" && d.Status != f.Status {
				continue
			}
			if f.CustomerID != "" && d.CustomerID != f.CustomerID {
				continue
			}
			d := d
			all = append(all, &d)
		}
		sort.Slice(all, func(i, j int) bool {
			if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
				return all[i].CreatedAt.After(all[j].CreatedAt)
			}
			return all[i].Number > all[j].Number
		})
		total = len(all)
		out = page(all, f.Limit, f.Offset)
		return nil
	})
	return out, total, err
}

func (r *DocumentRepo) Update(_ context.Context, doc *entity.Document) error {
	return r.store.access(r.inTx, func(st *state) error {
		cur, ok := st.docs[doc.Kind][doc.ID]
		if !ok {
			return domain.ErrParentNotFound
		}
		next := *doc
		next.Subtotal, next.Tax, next.Total = cur.Subtotal, cur.Tax, cur.Total
		next.Number, next.CompanyID, next.CreatedAt = cur.Number, cur.CompanyID, cur.CreatedAt
		st.docs[doc.Kind][doc.ID] = next
		return nil
	})
}

func (r *DocumentRepo) UpdateTotals(_ context.Context, kind entity.DocumentKind, id string, subtotal, tax, total decimal.Decimal) error {
	return r.store.access(r.inTx, func(st *state) error {
		cur, ok := st.docs[kind][id]
		if !ok {
			return domain.ErrParentNotFound
		}
		cur.Subtotal, cur.Tax, cur.Total = subtotal, tax, total
		st.docs[kind][id] = cur
		return nil
	})
}

// Delete elimina el documento y sus líneas (cascada) y limpia el vínculo del documento
// relacionado, como ON DELETE SET NULL.
func (r *DocumentRepo) Delete(_ context.Context, kind entity.DocumentKind, id string) error {
	return r.store.access(r.inTx, func(st *state) error {
		if _, ok := st.docs[kind][id]; !ok {
			return domain.ErrParentNotFound
		}
		for itemID, it := range st.items[kind] {
			if it.ParentID == id {
				delete(st.items[kind], itemID)
			}
		}
		for other, m := range st.docs {
			if other == kind {
				continue
			}
			for docID, d := range m {
				if d.LinkedID == id {
					d.LinkedID = ""
					m[docID] = d
				}
			}
		}
		delete(st.docs[kind], id)
		return nil
	})
}

// LineItemRepo líneas en memoria.
type LineItemRepo struct {
	store *Store
	inTx  bool
}

// NewLineItemRepository repositorio fuera de transacción.
func NewLineItemRepository(store *Store) *LineItemRepo {
	return &LineItemRepo{store: store}
}

func (r *LineItemRepo) Create(_ context.Context, item *entity.LineItem) error {
	return r.store.access(r.inTx, func(st *state) error {
		if _, ok := st.docs[item.Kind][item.ParentID]; !ok {
			return domain.ErrParentNotFound
		}
		if _, exists := st.items[item.Kind][item.ID]; exists {
			return domain.ErrDuplicate
		}
		st.items[item.Kind][item.ID] = *item
		return nil
	})
}

func (r *LineItemRepo) GetByID(_ context.Context, kind entity.DocumentKind, id string) (*entity.LineItem, error) {
	var out *entity.LineItem
	err := r.store.access(r.inTx, func(st *state) error {
		if it, ok := st.items[kind][id]; ok {
			out = &it
		}
		return nil
	})
	return out, err
}

func (r *LineItemRepo) ListByParent(_ context.Context, kind entity.DocumentKind, parentID string) ([]*entity.LineItem, error) {
	var out []*entity.LineItem
	err := r.store.access(r.inTx, func(st *state) error {
		for _, it := range st.items[kind] {
			if it.ParentID == parentID {
				it := it
				out = append(out, &it)
			}
		}
		sort.Slice(out, func(i, j int) bool {
			if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
				return out[i].CreatedAt.Before(out[j].CreatedAt)
			}
			return out[i].ID < out[j].ID
		})
		return nil
	})
	return out, err
}

func (r *LineItemRepo) Update(_ context.Context, item *entity.LineItem) error {
	return r.store.access(r.inTx, func(st *state) error {
		cur, ok := st.items[item.Kind][item.ID]
		if !ok {
			return domain.ErrItemNotFound
		}
		next := *item
		next.ParentID, next.CreatedAt = cur.ParentID, cur.CreatedAt
		st.items[item.Kind][item.ID] = next
		return nil
	})
}

func (r *LineItemRepo) Delete(_ context.Context, kind entity.DocumentKind, id string) error {
	return r.store.access(r.inTx, func(st *state) error {
		if _, ok := st.items[kind][id]; !ok {
			return domain.ErrItemNotFound
		}
		delete(st.items[kind], id)
		return nil
	})
}
