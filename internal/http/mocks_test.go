package http_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/tuanvumaihuynh/stock-ledger/internal/model"
	"github.com/tuanvumaihuynh/stock-ledger/internal/service"
)

type mockMovementService struct {
	mock.Mock
}

func (m *mockMovementService) RecordMovement(ctx context.Context, params service.RecordMovementParams) (service.RecordMovementResult, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(service.RecordMovementResult), args.Error(1)
}

func (m *mockMovementService) GetMovement(ctx context.Context, id int64) (model.Movement, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Movement), args.Error(1)
}

func (m *mockMovementService) ListMovementsByProduct(ctx context.Context, productID int64) ([]model.Movement, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).([]model.Movement), args.Error(1)
}

func (m *mockMovementService) ListAllMovements(ctx context.Context) ([]model.Movement, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.Movement), args.Error(1)
}

type mockProductService struct {
	mock.Mock
}

func (m *mockProductService) CreateProduct(ctx context.Context, params service.CreateProductParams) (model.Product, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(model.Product), args.Error(1)
}

func (m *mockProductService) GetProduct(ctx context.Context, id int64) (model.Product, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Product), args.Error(1)
}

func (m *mockProductService) ListProducts(ctx context.Context, params service.ListProductsParams) (model.Page[model.ProductSummary], error) {
	args := m.Called(ctx, params)
	return args.Get(0).(model.Page[model.ProductSummary]), args.Error(1)
}

func (m *mockProductService) ListProductsByCategory(ctx context.Context, categoryName string) ([]model.Product, error) {
	args := m.Called(ctx, categoryName)
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *mockProductService) UpdateProduct(ctx context.Context, params service.UpdateProductParams) (model.Product, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(model.Product), args.Error(1)
}

func (m *mockProductService) DisableProduct(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type mockReportService struct {
	mock.Mock
}

func (m *mockReportService) TotalByTypeForProduct(ctx context.Context, productID int64, movementType model.MovementType) (int64, error) {
	args := m.Called(ctx, productID, movementType)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockReportService) TotalSoldForProduct(ctx context.Context, productID int64) (int64, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockReportService) TotalByTypeForProductSet(ctx context.Context, productIDs []int64, movementType model.MovementType) (map[int64]int64, error) {
	args := m.Called(ctx, productIDs, movementType)
	return args.Get(0).(map[int64]int64), args.Error(1)
}

func (m *mockReportService) ProfitForProduct(ctx context.Context, productID int64) (model.Profit, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).(model.Profit), args.Error(1)
}

func (m *mockReportService) MovementTotals(ctx context.Context, productID int64) (model.MovementTotals, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).(model.MovementTotals), args.Error(1)
}

func (m *mockReportService) CategoryStockReport(ctx context.Context, categoryName string) ([]model.StockReportItem, error) {
	args := m.Called(ctx, categoryName)
	return args.Get(0).([]model.StockReportItem), args.Error(1)
}

func (m *mockReportService) CategoryProfitReport(ctx context.Context, categoryName string) ([]model.ProfitReportItem, error) {
	args := m.Called(ctx, categoryName)
	return args.Get(0).([]model.ProfitReportItem), args.Error(1)
}

type mockCategoryService struct {
	mock.Mock
}

func (m *mockCategoryService) CreateCategory(ctx context.Context, params service.CreateCategoryParams) (model.Category, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(model.Category), args.Error(1)
}

func (m *mockCategoryService) GetCategory(ctx context.Context, id int64) (model.Category, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Category), args.Error(1)
}

func (m *mockCategoryService) ListCategories(ctx context.Context) ([]model.Category, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.Category), args.Error(1)
}

func (m *mockCategoryService) UpdateCategory(ctx context.Context, params service.UpdateCategoryParams) (model.Category, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(model.Category), args.Error(1)
}

func (m *mockCategoryService) DeleteCategory(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type mockSupplierService struct {
	mock.Mock
}

func (m *mockSupplierService) CreateSupplier(ctx context.Context, params service.CreateSupplierParams) (model.Supplier, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(model.Supplier), args.Error(1)
}

func (m *mockSupplierService) GetSupplier(ctx context.Context, id int64) (model.Supplier, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Supplier), args.Error(1)
}

func (m *mockSupplierService) ListSuppliers(ctx context.Context, name string) ([]model.Supplier, error) {
	args := m.Called(ctx, name)
	return args.Get(0).([]model.Supplier), args.Error(1)
}

func (m *mockSupplierService) UpdateSupplier(ctx context.Context, params service.UpdateSupplierParams) (model.Supplier, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(model.Supplier), args.Error(1)
}

func (m *mockSupplierService) DeleteSupplier(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type fakeHealth struct {
	err error
}

func (f fakeHealth) IsHealthy(context.Context) (bool, error) {
	return f.err == nil, f.err
}
