// Package memory implementa los repositorios en memoria (driver "memory": desarrollo y tests).
// Guarda copias de las entidades; nunca entrega punteros a su estado interno.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/jhoicas/facturador-api/internal/domain/entity"
	"github.com/jhoicas/facturador-api/internal/domain/repository"
)

type state struct {
	companies map[string]entity.Company
	users     map[string]entity.User
	customers map[string]entity.Customer
	catalog   map[string]entity.CatalogItem
	masters   map[string]entity.MasterItem
	terms     map[string]entity.Term
	docs      map[entity.DocumentKind]map[string]entity.Document
	items     map[entity.DocumentKind]map[string]entity.LineItem
	seqs      map[string]int64
}

func newState() *state {
	return &state{
		companies: map[string]entity.Company{},
		users:     map[string]entity.User{},
		customers: map[string]entity.Customer{},
		catalog:   map[string]entity.CatalogItem{},
		masters:   map[string]entity.MasterItem{},
		terms:     map[string]entity.Term{},
		docs: map[entity.DocumentKind]map[string]entity.Document{
			entity.KindInvoice:   {},
			entity.KindQuotation: {},
		},
		items: map[entity.DocumentKind]map[string]entity.LineItem{
			entity.KindInvoice:   {},
			entity.KindQuotation: {},
		},
		seqs: map[string]int64{},
	}
}

// billingSnapshot copia lo que una transacción de facturación puede modificar.
type billingSnapshot struct {
	docs  map[entity.DocumentKind]map[string]entity.Document
	items map[entity.DocumentKind]map[string]entity.LineItem
	seqs  map[string]int64
}

func (s *state) snapshot() billingSnapshot {
	snap := billingSnapshot{
		docs:  make(map[entity.DocumentKind]map[string]entity.Document, len(s.docs)),
		items: make(map[entity.DocumentKind]map[string]entity.LineItem, len(s.items)),
		seqs:  make(map[string]int64, len(s.seqs)),
	}
	for k, m := range s.docs {
		cp := make(map[string]entity.Document, len(m))
		for id, d := range m {
			cp[id] = d
		}
		snap.docs[k] = cp
	}
	for k, m := range s.items {
		cp := make(map[string]entity.LineItem, len(m))
		for id, it := range m {
			cp[id] = it
		}
		snap.items[k] = cp
	}
	for k, v := range s.seqs {
		snap.seqs[k] = v
	}
	return snap
}

func (s *state) restore(snap billingSnapshot) {
	s.docs, s.items, s.seqs = snap.docs, snap.items, snap.seqs
}

// Store estado compartido de todos los repositorios en memoria.
// Un único mutex serializa las transacciones de facturación: dos mutaciones sobre el mismo
// documento nunca se intercalan.
type Store struct {
	mu sync.Mutex
	st *state
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{st: newState()}
}

// Ping siempre responde; existe para el health check.
func (s *Store) Ping(context.Context) error { return nil }

// access ejecuta fn con el estado. Dentro de una transacción el lock ya está tomado.
func (s *Store) access(inTx bool, fn func(st *state) error) error {
	if !inTx {
		s.mu.Lock()
		defer s.mu.Unlock()
	}
	return fn(s.st)
}

// TxRunner transacciones en memoria: lock exclusivo y restauración del snapshot si fn falla o entra en panic.
type TxRunner struct {
	store *Store
}

// NewTxRunner construye el runner.
func NewTxRunner(store *Store) *TxRunner {
	return &TxRunner{store: store}
}

// RunBilling ejecuta fn con repos de documentos y líneas atados a la transacción.
func (r *TxRunner) RunBilling(ctx context.Context, fn func(
	docRepo repository.DocumentRepository,
	itemRepo repository.LineItemRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	snap := r.store.st.snapshot()
	defer func() {
		if p := recover(); p != nil {
			r.store.st.restore(snap)
			panic(p)
		}
	}()
	err := fn(&DocumentRepo{store: r.store, inTx: true}, &LineItemRepo{store: r.store, inTx: true})
	if err != nil {
		r.store.st.restore(snap)
		return err
	}
	return nil
}

func page[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return []T{}
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}

func sortByName[T any](list []T, name func(T) string, id func(T) string) {
	sort.Slice(list, func(i, j int) bool {
		if name(list[i]) != name(list[j]) {
			return name(list[i]) < name(list[j])
		}
		return id(list[i]) < id(list[j])
	})
}
