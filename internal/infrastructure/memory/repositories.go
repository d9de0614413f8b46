package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/jhoicas/facturador-api/internal/domain"
	"github.com/jhoicas/facturador-api/internal/domain/entity"
	"github.com/jhoicas/facturador-api/internal/domain/repository"
)

var (
	_ repository.CompanyRepository     = (*CompanyRepo)(nil)
	_ repository.UserRepository        = (*UserRepo)(nil)
	_ repository.CustomerRepository    = (*CustomerRepo)(nil)
	_ repository.CatalogItemRepository = (*CatalogItemRepo)(nil)
	_ repository.MasterItemRepository  = (*MasterItemRepo)(nil)
	_ repository.TermRepository        = (*TermRepo)(nil)
)

// CompanyRepo empresas en memoria.
type CompanyRepo struct{ store *Store }

func NewCompanyRepository(store *Store) *CompanyRepo { return &CompanyRepo{store: store} }

func (r *CompanyRepo) Create(_ context.Context, c *entity.Company) error {
	return r.store.access(false, func(st *state) error {
		for _, o := range st.companies {
			if o.ID == c.ID || o.TaxID == c.TaxID {
				return domain.ErrDuplicate
			}
		}
		st.companies[c.ID] = *c
		return nil
	})
}

func (r *CompanyRepo) GetByID(_ context.Context, id string) (*entity.Company, error) {
	var out *entity.Company
	err := r.store.access(false, func(st *state) error {
		if c, ok := st.companies[id]; ok {
			out = &c
		}
		return nil
	})
	return out, err
}

func (r *CompanyRepo) GetByTaxID(_ context.Context, taxID string) (*entity.Company, error) {
	var out *entity.Company
	err := r.store.access(false, func(st *state) error {
		for _, c := range st.companies {
			if c.TaxID == taxID {
				c := c
				out = &c
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *CompanyRepo) Update(_ context.Context, c *entity.Company) error {
	return r.store.access(false, func(st *state) error {
		if _, ok := st.companies[c.ID]; !ok {
			return domain.ErrNotFound
		}
		for _, o := range st.companies {
			if o.ID != c.ID && o.TaxID == c.TaxID {
				return domain.ErrDuplicate
			}
		}
		st.companies[c.ID] = *c
		return nil
	})
}

// UserRepo usuarios en memoria. El email se compara sin distinguir mayúsculas.
type UserRepo struct{ store *Store }

func NewUserRepository(store *Store) *UserRepo { return &UserRepo{store: store} }

func (r *UserRepo) Create(_ context.Context, u *entity.User) error {
	return r.store.access(false, func(st *state) error {
		for _, o := range st.users {
			if o.ID == u.ID {
				return domain.ErrDuplicate
			}
			if strings.EqualFold(o.Email, u.Email) {
				return domain.ErrEmailAlreadyExists
			}
		}
		st.users[u.ID] = *u
		return nil
	})
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	var out *entity.User
	err := r.store.access(false, func(st *state) error {
		if u, ok := st.users[id]; ok {
			out = &u
		}
		return nil
	})
	return out, err
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	var out *entity.User
	err := r.store.access(false, func(st *state) error {
		for _, u := range st.users {
			if strings.EqualFold(u.Email, email) {
				u := u
				out = &u
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *UserRepo) ListByCompany(_ context.Context, companyID string) ([]*entity.User, error) {
	var out []*entity.User
	err := r.store.access(false, func(st *state) error {
		for _, u := range st.users {
			if u.CompanyID == companyID {
				u := u
				out = append(out, &u)
			}
		}
		sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
		return nil
	})
	return out, err
}

// CustomerRepo clientes en memoria.
type CustomerRepo struct{ store *Store }

func NewCustomerRepository(store *Store) *CustomerRepo { return &CustomerRepo{store: store} }

func (r *CustomerRepo) Create(_ context.Context, c *entity.Customer) error {
	return r.store.access(false, func(st *state) error {
		for _, o := range st.customers {
			if o.ID == c.ID || (o.CompanyID == c.CompanyID && o.TaxID == c.TaxID) {
				return domain.ErrDuplicate
			}
		}
		st.customers[c.ID] = *c
		return nil
	})
}

func (r *CustomerRepo) GetByID(_ context.Context, id string) (*entity.Customer, error) {
	var out *entity.Customer
	err := r.store.access(false, func(st *state) error {
		if c, ok := st.customers[id]; ok {
			out = &c
		}
		return nil
	})
	return out, err
}

func (r *CustomerRepo) GetByCompanyAndTaxID(_ context.Context, companyID, taxID string) (*entity.Customer, error) {
	var out *entity.Customer
	err := r.store.access(false, func(st *state) error {
		for _, c := range st.customers {
			if c.CompanyID == companyID && c.TaxID == taxID {
				c := c
				out = &c
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *CustomerRepo) ListByCompany(_ context.Context, companyID string, limit, offset int) ([]*entity.Customer, error) {
	var out []*entity.Customer
	err := r.store.access(false, func(st *state) error {
		var all []*entity.Customer
		for _, c := range st.customers {
			if c.CompanyID == companyID {
				c := c
				all = append(all, &c)
			}
		}
		sortByName(all, func(c *entity.Customer) string { return c.Name }, func(c *entity.Customer) string { return c.ID })
		out = page(all, limit, offset)
		return nil
	})
	return out, err
}

func (r *CustomerRepo) Update(_ context.Context, c *entity.Customer) error {
	return r.store.access(false, func(st *state) error {
		if _, ok := st.customers[c.ID]; !ok {
			return domain.ErrNotFound
		}
		for _, o := range st.customers {
			if o.ID != c.ID && o.CompanyID == c.CompanyID && o.TaxID == c.TaxID {
				return domain.ErrDuplicate
			}
		}
		st.customers[c.ID] = *c
		return nil
	})
}

// Delete falla con ErrConflict si el cliente tiene documentos, igual que la FK en PostgreSQL.
func (r *CustomerRepo) Delete(_ context.Context, id string) error {
	return r.store.access(false, func(st *state) error {
		if _, ok := st.customers[id]; !ok {
			return domain.ErrNotFound
		}
		for _, m := range st.docs {
			for _, d := range m {
				if d.CustomerID == id {
					return domain.ErrConflict
				}
			}
		}
		delete(st.customers, id)
		return nil
	})
}

// CatalogItemRepo catálogo por empresa en memoria.
type CatalogItemRepo struct{ store *Store }

func NewCatalogItemRepository(store *Store) *CatalogItemRepo { return &CatalogItemRepo{store: store} }

func (r *CatalogItemRepo) Create(_ context.Context, it *entity.CatalogItem) error {
	return r.store.access(false, func(st *state) error {
		if _, exists := st.catalog[it.ID]; exists {
			return domain.ErrDuplicate
		}
		st.catalog[it.ID] = *it
		return nil
	})
}

func (r *CatalogItemRepo) GetByID(_ context.Context, id string) (*entity.CatalogItem, error) {
	var out *entity.CatalogItem
	err := r.store.access(false, func(st *state) error {
		if it, ok := st.catalog[id]; ok {
			out = &it
		}
		return nil
	})
	return out, err
}

func (r *CatalogItemRepo) ListByCompany(_ context.Context, companyID string, limit, offset int) ([]*entity.CatalogItem, error) {
	var out []*entity.CatalogItem
	err := r.store.access(false, func(st *state) error {
		var all []*entity.CatalogItem
		for _, it := range st.catalog {
			if it.CompanyID == companyID {
				it := it
				all = append(all, &it)
			}
		}
		sortByName(all, func(c *entity.CatalogItem) string { return c.Name }, func(c *entity.CatalogItem) string { return c.ID })
		out = page(all, limit, offset)
		return nil
	})
	return out, err
}

func (r *CatalogItemRepo) Update(_ context.Context, it *entity.CatalogItem) error {
	return r.store.access(false, func(st *state) error {
		if _, ok := st.catalog[it.ID]; !ok {
			return domain.ErrNotFound
		}
		st.catalog[it.ID] = *it
		return nil
	})
}

func (r *CatalogItemRepo) Delete(_ context.Context, id string) error {
	return r.store.access(false, func(st *state) error {
		if _, ok := st.catalog[id]; !ok {
			return domain.ErrNotFound
		}
		delete(st.catalog, id)
		return nil
	})
}

// MasterItemRepo repositorio central en memoria.
type MasterItemRepo struct{ store *Store }

func NewMasterItemRepository(store *Store) *MasterItemRepo { return &MasterItemRepo{store: store} }

func (r *MasterItemRepo) Create(_ context.Context, it *entity.MasterItem) error {
	return r.store.access(false, func(st *state) error {
		if _, exists := st.masters[it.ID]; exists {
			return domain.ErrDuplicate
		}
		st.masters[it.ID] = *it
		return nil
	})
}

func (r *MasterItemRepo) GetByID(_ context.Context, id string) (*entity.MasterItem, error) {
	var out *entity.MasterItem
	err := r.store.access(false, func(st *state) error {
		if it, ok := st.masters[id]; ok {
			out = &it
		}
		return nil
	})
	return out, err
}

func (r *MasterItemRepo) List(_ context.Context, limit, offset int) ([]*entity.MasterItem, error) {
	var out []*entity.MasterItem
	err := r.store.access(false, func(st *state) error {
		all := make([]*entity.MasterItem, 0, len(st.masters))
		for _, it := range st.masters {
			it := it
			all = append(all, &it)
		}
		sortByName(all, func(c *entity.MasterItem) string { return c.Name }, func(c *entity.MasterItem) string { return c.ID })
		out = page(all, limit, offset)
		return nil
	})
	return out, err
}

// TermRepo términos y condiciones en memoria.
type TermRepo struct{ store *Store }

func NewTermRepository(store *Store) *TermRepo { return &TermRepo{store: store} }

func (r *TermRepo) Create(_ context.Context, t *entity.Term) error {
	return r.store.access(false, func(st *state) error {
		if _, exists := st.terms[t.ID]; exists {
			return domain.ErrDuplicate
		}
		st.terms[t.ID] = *t
		return nil
	})
}

func (r *TermRepo) GetByID(_ context.Context, id string) (*entity.Term, error) {
	var out *entity.Term
	err := r.store.access(false, func(st *state) error {
		if t, ok := st.terms[id]; ok {
			out = &t
		}
		return nil
	})
	return out, err
}

func (r *TermRepo) ListByCompany(_ context.Context, companyID string) ([]*entity.Term, error) {
	var out []*entity.Term
	err := r.store.access(false, func(st *state) error {
		for _, t := range st.terms {
			if t.CompanyID == companyID {
				t := t
				out = append(out, &t)
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

func (r *TermRepo) Update(_ context.Context, t *entity.Term) error {
	return r.store.access(false, func(st *state) error {
		if _, ok := st.terms[t.ID]; !ok {
			return domain.ErrNotFound
		}
		st.terms[t.ID] = *t
		return nil
	})
}

func (r *TermRepo) Delete(_ context.Context, id string) error {
	return r.store.access(false, func(st *state) error {
		if _, ok := st.terms[id]; !ok {
			return domain.ErrNotFound
		}
		delete(st.terms, id)
		return nil
	})
}

func (r *TermRepo) ClearDefault(_ context.Context, companyID string) error {
	return r.store.access(false, func(st *state) error {
		for id, t := range st.terms {
			if t.CompanyID == companyID && t.IsDefault {
				t.IsDefault = false
				st.terms[id] = t
			}
		}
		return nil
	})
}
