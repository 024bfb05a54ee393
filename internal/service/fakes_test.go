package service

import (
	"context"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/tuanvumaihuynh/stock-ledger/internal/model"
	"github.com/tuanvumaihuynh/stock-ledger/internal/repository"
	"github.com/tuanvumaihuynh/stock-ledger/internal/storage/db"
)

// memStore is an in-memory stand-in for Postgres. Transactions are
// serialised by txMu, which plays the part of the product row lock, and are
// rolled back by restoring a snapshot.
type memStore struct {
	txMu sync.Mutex
	mu   sync.Mutex

	products   map[int64]model.Product
	categories map[int64]model.Category
	suppliers  map[int64]model.Supplier
	movements  []model.Movement
	outbox     []repository.CreateOutboxMsgParams
	nextID     int64

	// outboxErr makes every outbox write fail.
	outboxErr error
}

type memSnapshot struct {
	products   map[int64]model.Product
	categories map[int64]model.Category
	suppliers  map[int64]model.Supplier
	movements  []model.Movement
	outbox     []repository.CreateOutboxMsgParams
}

func newMemStore() *memStore {
	return &memStore{
		products:   map[int64]model.Product{},
		categories: map[int64]model.Category{},
		suppliers:  map[int64]model.Supplier{},
	}
}

func (s *memStore) snapshot() memSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return memSnapshot{
		products:   maps.Clone(s.products),
		categories: maps.Clone(s.categories),
		suppliers:  maps.Clone(s.suppliers),
		movements:  slices.Clone(s.movements),
		outbox:     slices.Clone(s.outbox),
	}
}

func (s *memStore) restore(snap memSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = snap.products
	s.categories = snap.categories
	s.suppliers = snap.suppliers
	s.movements = snap.movements
	s.outbox = snap.outbox
}

func (s *memStore) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *memStore) resolve(p model.Product) model.Product {
	p.CategoryName = s.categories[p.CategoryID].Name
	p.SupplierName = nil
	if p.SupplierID != nil {
		if sup, ok := s.suppliers[*p.SupplierID]; ok {
			p.SupplierName = &sup.Name
		}
	}
	return p
}

// fakeDB embeds a nil db.DB; only WithTx is ever called on it.
type fakeDB struct {
	db.DB
	store *memStore
	inTx  bool
}

func (f *fakeDB) WithTx(_ context.Context, txFunc func(db.DB) error) error {
	if f.inTx {
		return txFunc(f)
	}

	f.store.txMu.Lock()
	defer f.store.txMu.Unlock()

	snap := f.store.snapshot()
	if err := txFunc(&fakeDB{store: f.store, inTx: true}); err != nil {
		f.store.restore(snap)
		return err
	}
	return nil
}

type fakeProductRepo struct{ s *memStore }

func (r fakeProductRepo) WithDB(db.DB) repository.ProductRepository { return r }

func (r fakeProductRepo) GetProduct(_ context.Context, id int64) (model.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok {
		return model.Product{}, repository.ErrNotFound
	}
	return r.s.resolve(p), nil
}

func (r fakeProductRepo) GetProductForUpdate(ctx context.Context, id int64) (model.Product, error) {
	return r.GetProduct(ctx, id)
}

func (r fakeProductRepo) CreateProduct(_ context.Context, params repository.CreateProductParams) (model.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.products {
		if p.Sku == params.Sku {
			return model.Product{}, repository.ErrAlreadyExists
		}
	}
	now := time.Now()
	p := model.Product{
		ID:            r.s.id(),
		Name:          params.Name,
		Description:   params.Description,
		Sku:           params.Sku,
		SupplierPrice: params.SupplierPrice,
		SalePrice:     params.SalePrice,
		MinimumStock:  params.MinimumStock,
		UnitOfMeasure: params.UnitOfMeasure,
		Active:        true,
		CategoryID:    params.CategoryID,
		SupplierID:    params.SupplierID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	r.s.products[p.ID] = p
	return r.s.resolve(p), nil
}

func (r fakeProductRepo) UpdateProduct(_ context.Context, params repository.UpdateProductParams) (model.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[params.ID]
	if !ok {
		return model.Product{}, repository.ErrNotFound
	}
	p.Name = params.Name
	p.Description = params.Description
	p.Sku = params.Sku
	p.SupplierPrice = params.SupplierPrice
	p.SalePrice = params.SalePrice
	p.MinimumStock = params.MinimumStock
	p.UnitOfMeasure = params.UnitOfMeasure
	p.CategoryID = params.CategoryID
	p.SupplierID = params.SupplierID
	p.UpdatedAt = time.Now()
	r.s.products[p.ID] = p
	return r.s.resolve(p), nil
}

func (r fakeProductRepo) UpdateStockQuantity(_ context.Context, id int64, quantity int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok {
		return repository.ErrNotFound
	}
	if quantity < 0 {
		panic("stock quantity went negative")
	}
	p.StockQuantity = quantity
	p.UpdatedAt = time.Now()
	r.s.products[id] = p
	return nil
}

func (r fakeProductRepo) DisableProduct(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok {
		return repository.ErrNotFound
	}
	p.Active = false
	r.s.products[id] = p
	return nil
}

func (r fakeProductRepo) ExistsBySku(_ context.Context, sku string, excludeID *int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.products {
		if p.Sku == sku && (excludeID == nil || p.ID != *excludeID) {
			return true, nil
		}
	}
	return false, nil
}

func (r fakeProductRepo) sorted() []model.Product {
	products := slices.Collect(maps.Values(r.s.products))
	slices.SortFunc(products, func(a, b model.Product) int { return int(a.ID - b.ID) })
	for i := range products {
		products[i] = r.s.resolve(products[i])
	}
	return products
}

func (r fakeProductRepo) ListProducts(_ context.Context, params repository.ListParams) (repository.ListProductsResult, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	products := r.sorted()
	slices.Reverse(products)
	total := int64(len(products))
	start := min(params.Offset, len(products))
	end := min(start+params.Limit, len(products))
	return repository.ListProductsResult{Products: products[start:end], Total: total}, nil
}

func (r fakeProductRepo) ListProductsByCategoryName(_ context.Context, categoryName string) ([]model.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []model.Product
	for _, p := range r.sorted() {
		if p.CategoryName == categoryName {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r fakeProductRepo) CountProductsByCategory(_ context.Context, categoryID int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, p := range r.s.products {
		if p.CategoryID == categoryID {
			n++
		}
	}
	return n, nil
}

func (r fakeProductRepo) CountProductsBySupplier(_ context.Context, supplierID int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, p := range r.s.products {
		if p.SupplierID != nil && *p.SupplierID == supplierID {
			n++
		}
	}
	return n, nil
}

type fakeMovementRepo struct{ s *memStore }

func (r fakeMovementRepo) WithDB(db.DB) repository.MovementRepository { return r }

func (r fakeMovementRepo) CreateMovement(_ context.Context, params repository.CreateMovementParams) (model.Movement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[params.ProductID]
	if !ok {
		return model.Movement{}, repository.ErrNotFound
	}
	now := time.Now()
	m := model.Movement{
		ID:              r.s.id(),
		ProductID:       p.ID,
		ProductName:     p.Name,
		Type:            params.Type,
		Quantity:        params.Quantity,
		DateTime:        now,
		ResponsibleUser: params.ResponsibleUser,
		Reason:          params.Reason,
		SalePrice:       params.SalePrice,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	r.s.movements = append(r.s.movements, m)
	return m, nil
}

func (r fakeMovementRepo) GetMovement(_ context.Context, id int64) (model.Movement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, m := range r.s.movements {
		if m.ID == id {
			return m, nil
		}
	}
	return model.Movement{}, repository.ErrNotFound
}

func (r fakeMovementRepo) ListMovementsByProduct(_ context.Context, productID int64) ([]model.Movement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []model.Movement
	for _, m := range r.s.movements {
		if m.ProductID == productID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r fakeMovementRepo) ListAllMovements(context.Context) ([]model.Movement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return slices.Clone(r.s.movements), nil
}

func matches(m model.Movement, typ model.MovementType, reason *string) bool {
	if m.Type != typ {
		return false
	}
	return reason == nil || (m.Reason != nil && *m.Reason == *reason)
}

func (r fakeMovementRepo) SumQuantity(_ context.Context, params repository.SumQuantityParams) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var total int64
	for _, m := range r.s.movements {
		if m.ProductID == params.ProductID && matches(m, params.Type, params.Reason) {
			total += int64(m.Quantity)
		}
	}
	return total, nil
}

func (r fakeMovementRepo) SumQuantityByProducts(_ context.Context, params repository.SumQuantityByProductsParams) (map[int64]int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	totals := map[int64]int64{}
	for _, m := range r.s.movements {
		if slices.Contains(params.ProductIDs, m.ProductID) && matches(m, params.Type, params.Reason) {
			totals[m.ProductID] += int64(m.Quantity)
		}
	}
	return totals, nil
}

type fakeCategoryRepo struct{ s *memStore }

func (r fakeCategoryRepo) WithDB(db.DB) repository.CategoryRepository { return r }

func (r fakeCategoryRepo) CreateCategory(_ context.Context, params repository.CreateCategoryParams) (model.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c := model.Category{ID: r.s.id(), Name: params.Name, Description: params.Description, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	r.s.categories[c.ID] = c
	return c, nil
}

func (r fakeCategoryRepo) GetCategory(_ context.Context, id int64) (model.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.categories[id]
	if !ok {
		return model.Category{}, repository.ErrNotFound
	}
	return c, nil
}

func (r fakeCategoryRepo) ListCategories(context.Context) ([]model.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := slices.Collect(maps.Values(r.s.categories))
	slices.SortFunc(out, func(a, b model.Category) int { return strings.Compare(a.Name, b.Name) })
	return out, nil
}

func (r fakeCategoryRepo) UpdateCategory(_ context.Context, params repository.UpdateCategoryParams) (model.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.categories[params.ID]
	if !ok {
		return model.Category{}, repository.ErrNotFound
	}
	c.Name = params.Name
	c.Description = params.Description
	c.UpdatedAt = time.Now()
	r.s.categories[c.ID] = c
	return c, nil
}

func (r fakeCategoryRepo) DeleteCategory(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.categories[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.categories, id)
	return nil
}

func (r fakeCategoryRepo) ExistsByName(_ context.Context, name string, excludeID *int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.categories {
		if c.Name == name && (excludeID == nil || c.ID != *excludeID) {
			return true, nil
		}
	}
	return false, nil
}

type fakeSupplierRepo struct{ s *memStore }

func (r fakeSupplierRepo) WithDB(db.DB) repository.SupplierRepository { return r }

func (r fakeSupplierRepo) CreateSupplier(_ context.Context, params repository.CreateSupplierParams) (model.Supplier, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sup := model.Supplier{
		ID:        r.s.id(),
		Name:      params.Name,
		TaxID:     params.TaxID,
		Phone:     params.Phone,
		Email:     params.Email,
		Address:   params.Address,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	r.s.suppliers[sup.ID] = sup
	return sup, nil
}

func (r fakeSupplierRepo) GetSupplier(_ context.Context, id int64) (model.Supplier, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sup, ok := r.s.suppliers[id]
	if !ok {
		return model.Supplier{}, repository.ErrNotFound
	}
	return sup, nil
}

func (r fakeSupplierRepo) ListSuppliers(_ context.Context, params repository.ListSuppliersParams) ([]model.Supplier, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []model.Supplier
	for _, sup := range r.s.suppliers {
		if params.Name == nil || strings.Contains(strings.ToLower(sup.Name), strings.ToLower(*params.Name)) {
			out = append(out, sup)
		}
	}
	slices.SortFunc(out, func(a, b model.Supplier) int { return strings.Compare(a.Name, b.Name) })
	return out, nil
}

func (r fakeSupplierRepo) UpdateSupplier(_ context.Context, params repository.UpdateSupplierParams) (model.Supplier, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sup, ok := r.s.suppliers[params.ID]
	if !ok {
		return model.Supplier{}, repository.ErrNotFound
	}
	sup.Name = params.Name
	sup.TaxID = params.TaxID
	sup.Phone = params.Phone
	sup.Email = params.Email
	sup.Address = params.Address
	r.s.suppliers[sup.ID] = sup
	return sup, nil
}

func (r fakeSupplierRepo) DeleteSupplier(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.suppliers[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.suppliers, id)
	return nil
}

func (r fakeSupplierRepo) ExistsByTaxID(_ context.Context, taxID string, excludeID *int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, sup := range r.s.suppliers {
		if sup.TaxID != nil && *sup.TaxID == taxID && (excludeID == nil || sup.ID != *excludeID) {
			return true, nil
		}
	}
	return false, nil
}

type fakeOutboxMsgRepo struct{ s *memStore }

func (r fakeOutboxMsgRepo) WithDB(db.DB) repository.OutboxMsgRepository { return r }

func (r fakeOutboxMsgRepo) CreateOutboxMsg(_ context.Context, params repository.CreateOutboxMsgParams) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.outboxErr != nil {
		return r.s.outboxErr
	}
	r.s.outbox = append(r.s.outbox, params)
	return nil
}

func (r fakeOutboxMsgRepo) ListUnprocessedOutboxMsgs(context.Context, repository.ListUnprocessedOutboxMsgsParams) ([]repository.ListUnprocessedOutboxMsgsResult, error) {
	return nil, nil
}

func (r fakeOutboxMsgRepo) BulkUpdateOutboxMsgs(context.Context, repository.BulkUpdateOutboxMsgsParams) error {
	return nil
}

func (s *memStore) topics() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.outbox))
	for _, msg := range s.outbox {
		out = append(out, msg.Topic)
	}
	return out
}
