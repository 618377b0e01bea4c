// Package memory implementa los puertos de persistencia en memoria.
// Las transacciones se serializan con un único candado y trabajan sobre una
// copia del estado que solo se publica al confirmar; sirve para desarrollo
// local (APP_STORAGE=memory) y para pruebas.
package memory

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/jhoicas/inventario-pos/internal/domain/entity"
	"github.com/jhoicas/inventario-pos/internal/domain/repository"
)

var _ repository.TxRunner = (*Store)(nil)

type state struct {
	products   map[string]*entity.Product
	categories map[string]*entity.Category
	items      map[string]*entity.ProductItem
	itemOrder  []string
	movements  []*entity.InventoryMovement
	sales      map[string]*entity.Sale
	saleOrder  []string
	details    []*entity.SaleDetail
	expCats    map[string]*entity.ExpenseCategory
	expenses   []*entity.Expense
}

func newState() *state {
	return &state{
		products:   map[string]*entity.Product{},
		categories: map[string]*entity.Category{},
		items:      map[string]*entity.ProductItem{},
		sales:      map[string]*entity.Sale{},
		expCats:    map[string]*entity.ExpenseCategory{},
	}
}

// clone copia profunda: una transacción fallida no deja rastro en el estado publicado.
func (s *state) clone() *state {
	c := &state{
		products:   make(map[string]*entity.Product, len(s.products)),
		categories: make(map[string]*entity.Category, len(s.categories)),
		items:      make(map[string]*entity.ProductItem, len(s.items)),
		itemOrder:  slices.Clone(s.itemOrder),
		movements:  make([]*entity.InventoryMovement, len(s.movements)),
		sales:      make(map[string]*entity.Sale, len(s.sales)),
		saleOrder:  slices.Clone(s.saleOrder),
		details:    make([]*entity.SaleDetail, len(s.details)),
		expCats:    make(map[string]*entity.ExpenseCategory, len(s.expCats)),
		expenses:   make([]*entity.Expense, len(s.expenses)),
	}
	for k, v := range s.products {
		c.products[k] = copyProduct(v)
	}
	for k, v := range s.categories {
		c.categories[k] = copyCategory(v)
	}
	for k, v := range s.items {
		cp := *v
		c.items[k] = &cp
	}
	for i, v := range s.movements {
		cp := *v
		c.movements[i] = &cp
	}
	for k, v := range s.sales {
		cp := *v
		c.sales[k] = &cp
	}
	for i, v := range s.details {
		cp := *v
		c.details[i] = &cp
	}
	for k, v := range s.expCats {
		cp := *v
		c.expCats[k] = &cp
	}
	for i, v := range s.expenses {
		cp := *v
		c.expenses[i] = &cp
	}
	return c
}

func copyProduct(p *entity.Product) *entity.Product {
	cp := *p
	cp.Attributes = maps.Clone(p.Attributes)
	return &cp
}

func copyCategory(c *entity.Category) *entity.Category {
	cp := *c
	cp.Template = slices.Clone(c.Template)
	return &cp
}

// Store base de datos en memoria.
type Store struct {
	mu sync.RWMutex
	st *state
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{st: newState()}
}

// handle resuelve contra qué estado opera un repositorio: el de una
// transacción abierta (ya bajo candado) o el publicado.
type handle struct {
	store *Store
	tx    *state
}

func (h handle) read(fn func(st *state) error) error {
	if h.tx != nil {
		return fn(h.tx)
	}
	h.store.mu.RLock()
	defer h.store.mu.RUnlock()
	return fn(h.store.st)
}

func (h handle) write(fn func(st *state) error) error {
	if h.tx != nil {
		return fn(h.tx)
	}
	h.store.mu.Lock()
	defer h.store.mu.Unlock()
	return fn(h.store.st)
}

func (s *Store) handle() handle { return handle{store: s} }

// Products repositorio de productos fuera de transacción.
func (s *Store) Products() *ProductRepo { return &ProductRepo{h: s.handle()} }

// Categories repositorio de categorías.
func (s *Store) Categories() *CategoryRepo { return &CategoryRepo{h: s.handle()} }

// Items repositorio de unidades serializadas.
func (s *Store) Items() *ProductItemRepo { return &ProductItemRepo{h: s.handle()} }

// Movements repositorio del libro de movimientos.
func (s *Store) Movements() *InventoryMovementRepo { return &InventoryMovementRepo{h: s.handle()} }

// Stock repositorio de lectura agregada.
func (s *Store) Stock() *StockRepo { return &StockRepo{h: s.handle()} }

// Sales repositorio de ventas.
func (s *Store) Sales() *SaleRepo { return &SaleRepo{h: s.handle()} }

// Expenses repositorio de gastos.
func (s *Store) Expenses() *ExpenseRepo { return &ExpenseRepo{h: s.handle()} }

func reposFor(h handle) repository.Repos {
	return repository.Repos{
		Products:  &ProductRepo{h: h},
		Items:     &ProductItemRepo{h: h},
		Movements: &InventoryMovementRepo{h: h},
		Stock:     &StockRepo{h: h},
		Sales:     &SaleRepo{h: h},
	}
}

// Run ejecuta fn sobre una copia del estado y la publica solo si fn termina sin
// error y ctx sigue vigente. Dentro de fn solo deben usarse los repos recibidos.
func (s *Store) Run(ctx context.Context, fn func(ctx context.Context, repos repository.Repos) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	work := s.st.clone()
	if err := fn(ctx, reposFor(handle{store: s, tx: work})); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.st = work
	return nil
}

// RunReadOnly ejecuta fn sobre una instantánea; lo que fn escriba se descarta.
func (s *Store) RunReadOnly(ctx context.Context, fn func(ctx context.Context, repos repository.Repos) error) error {
	s.mu.RLock()
	snapshot := s.st.clone()
	s.mu.RUnlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(ctx, reposFor(handle{store: s, tx: snapshot}))
}

// Repos repositorios fuera de transacción.
func (s *Store) Repos() repository.Repos { return reposFor(s.handle()) }
