package service

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/stock-ledger/internal/alert"
	"github.com/tuanvumaihuynh/stock-ledger/internal/log"
	"github.com/tuanvumaihuynh/stock-ledger/internal/model"
	"github.com/tuanvumaihuynh/stock-ledger/pkg/validator"
)

type recordingObserver struct {
	mu     sync.Mutex
	alerts []alert.Alert
	err    error
}

func (o *recordingObserver) Notify(_ context.Context, a alert.Alert) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.alerts = append(o.alerts, a)
	return o.err
}

func (o *recordingObserver) received() []alert.Alert {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]alert.Alert(nil), o.alerts...)
}

type testEnv struct {
	store    *memStore
	observer *recordingObserver

	movements  MovementService
	products   ProductService
	reports    ReportService
	categories CategoryService
	suppliers  SupplierService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := newMemStore()
	fdb := &fakeDB{store: store}
	v := validator.MustNewDefaultValidator()
	logger := log.NewDiscardLogger()
	observer := &recordingObserver{}

	productRepo := fakeProductRepo{store}
	movementRepo := fakeMovementRepo{store}
	categoryRepo := fakeCategoryRepo{store}
	supplierRepo := fakeSupplierRepo{store}
	outboxRepo := fakeOutboxMsgRepo{store}

	return &testEnv{
		store:      store,
		observer:   observer,
		movements:  NewMovementService(logger, fdb, v, productRepo, movementRepo, outboxRepo, observer),
		products:   NewProductService(logger, fdb, v, productRepo, categoryRepo, supplierRepo, movementRepo, outboxRepo),
		reports:    NewReportService(v, productRepo, movementRepo),
		categories: NewCategoryService(fdb, v, categoryRepo, productRepo),
		suppliers:  NewSupplierService(fdb, v, supplierRepo, productRepo),
	}
}

func (e *testEnv) category(t *testing.T, name string) model.Category {
	t.Helper()
	c, err := e.categories.CreateCategory(context.Background(), CreateCategoryParams{Name: name})
	require.NoError(t, err)
	return c
}

// seedProduct creates a product in its own category with the given stock.
// Prices are 2.50 cost and 4.00 sale.
func (e *testEnv) seedProduct(t *testing.T, sku string, stock int, minimum *int) model.Product {
	t.Helper()
	c := e.category(t, "cat-"+sku)
	p, err := e.products.CreateProduct(context.Background(), CreateProductParams{
		Name:          "Product " + sku,
		Sku:           sku,
		SupplierPrice: decimal.RequireFromString("2.50"),
		SalePrice:     decimal.RequireFromString("4.00"),
		StockQuantity: stock,
		MinimumStock:  minimum,
		CategoryID:    c.ID,
	})
	require.NoError(t, err)
	return p
}

func (e *testEnv) record(t *testing.T, productID int64, typ model.MovementType, qty int, reason *string) RecordMovementResult {
	t.Helper()
	res, err := e.movements.RecordMovement(context.Background(), RecordMovementParams{
		ProductID: productID,
		Type:      typ,
		Quantity:  qty,
		Reason:    reason,
	})
	require.NoError(t, err)
	return res
}

func (e *testEnv) stock(t *testing.T, productID int64) int {
	t.Helper()
	p, err := e.products.GetProduct(context.Background(), productID)
	require.NoError(t, err)
	return p.StockQuantity
}

// replayed sums the product's ledger independently of the stored quantity.
func (e *testEnv) replayed(t *testing.T, productID int64) int {
	t.Helper()
	movements, err := e.movements.ListMovementsByProduct(context.Background(), productID)
	require.NoError(t, err)
	total := 0
	for _, m := range movements {
		total = m.Type.Apply(total, m.Quantity)
	}
	return total
}
