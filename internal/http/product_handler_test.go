package http_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/stock-ledger/internal/apperr"
	"github.com/tuanvumaihuynh/stock-ledger/internal/model"
	"github.com/tuanvumaihuynh/stock-ledger/internal/service"
)

func TestCreateProduct(t *testing.T) {
	t.Run("Should create a product", func(t *testing.T) {
		env := newTestEnv(t, nil)
		env.productSvc.On("CreateProduct", mock.Anything, mock.MatchedBy(func(p service.CreateProductParams) bool {
			return p.Sku == "W-1" &&
				p.StockQuantity == 10 &&
				p.CategoryID == 3 &&
				p.SupplierID == nil &&
				p.MinimumStock != nil && *p.MinimumStock == 2 &&
				p.SalePrice.Equal(decimal.RequireFromString("4.5"))
		})).Return(model.Product{ID: 11, Sku: "W-1", StockQuantity: 10}, nil).Once()

		resp := env.do(http.MethodPost, "/api/products",
			`{"name":"Widget","sku":"W-1","supplierPrice":"2","salePrice":4.5,"stockQuantity":10,"minimumStock":2,"categoryId":3}`)

		assert.Equal(t, http.StatusCreated, resp.Code)
		assert.Equal(t, "/api/products/11", resp.Header().Get("Location"))
	})

	t.Run("Should report a duplicate sku", func(t *testing.T) {
		env := newTestEnv(t, nil)
		env.productSvc.On("CreateProduct", mock.Anything, mock.Anything).
			Return(model.Product{}, apperr.SkuAlreadyExistsErr).Once()

		resp := env.do(http.MethodPost, "/api/products", `{"name":"Widget","sku":"W-1","categoryId":3}`)

		assert.Equal(t, http.StatusConflict, resp.Code)
		assert.Equal(t, apperr.SkuAlreadyExistsCode, decodeError(t, resp).Code)
	})
}

func TestListProducts(t *testing.T) {
	t.Run("Should default the page", func(t *testing.T) {
		env := newTestEnv(t, nil)
		env.productSvc.On("ListProducts", mock.Anything, service.ListProductsParams{Page: 0, Size: 10}).
			Return(model.NewPage[model.ProductSummary](nil, 0, 10, 0), nil).Once()

		resp := env.do(http.MethodGet, "/api/products", "")

		assert.Equal(t, http.StatusOK, resp.Code)
		assert.JSONEq(t, `{"items":[],"page":0,"size":10,"totalItems":0,"totalPages":0}`, resp.Body.String())
	})

	t.Run("Should bind page and size", func(t *testing.T) {
		env := newTestEnv(t, nil)
		env.productSvc.On("ListProducts", mock.Anything, service.ListProductsParams{Page: 2, Size: 5}).
			Return(model.NewPage[model.ProductSummary](nil, 2, 5, 11), nil).Once()

		resp := env.do(http.MethodGet, "/api/products?page=2&size=5", "")

		assert.Equal(t, http.StatusOK, resp.Code)
	})

	t.Run("Should reject a non-numeric size", func(t *testing.T) {
		env := newTestEnv(t, nil)

		resp := env.do(http.MethodGet, "/api/products?size=many", "")

		assert.Equal(t, http.StatusBadRequest, resp.Code)
		res := decodeError(t, resp)
		if assert.Len(t, res.Details, 1) {
			assert.Equal(t, "size", res.Details[0].Field)
		}
	})
}

func TestUpdateProduct(t *testing.T) {
	t.Run("Should pass only the fields present", func(t *testing.T) {
		env := newTestEnv(t, nil)
		env.productSvc.On("UpdateProduct", mock.Anything, mock.MatchedBy(func(p service.UpdateProductParams) bool {
			return p.ID == 11 &&
				p.Name != nil && *p.Name == "Gadget" &&
				p.Sku == nil &&
				p.SalePrice == nil
		})).Return(model.Product{ID: 11, Name: "Gadget"}, nil).Once()

		resp := env.do(http.MethodPut, "/api/products/11", `{"name":"Gadget"}`)

		assert.Equal(t, http.StatusOK, resp.Code)
	})

	t.Run("Should not accept a stock quantity", func(t *testing.T) {
		env := newTestEnv(t, nil)

		resp := env.do(http.MethodPut, "/api/products/11", `{"stockQuantity":100}`)

		assert.Equal(t, http.StatusBadRequest, resp.Code)
	})
}

func TestDisableProduct(t *testing.T) {
	env := newTestEnv(t, nil)
	env.productSvc.On("DisableProduct", mock.Anything, int64(11)).Return(nil).Once()

	resp := env.do(http.MethodDelete, "/api/products/11", "")

	assert.Equal(t, http.StatusNoContent, resp.Code)
	assert.Empty(t, resp.Body.String())
}

func TestProductReports(t *testing.T) {
	t.Run("Should get the profit of a product", func(t *testing.T) {
		env := newTestEnv(t, nil)
		env.reportSvc.On("ProfitForProduct", mock.Anything, int64(11)).Return(model.Profit{
			ProductID:   11,
			UnitsSold:   4,
			UnitProfit:  decimal.RequireFromString("1.5"),
			TotalProfit: decimal.RequireFromString("6"),
		}, nil).Once()

		resp := env.do(http.MethodGet, "/api/products/11/profit", "")

		require.Equal(t, http.StatusOK, resp.Code)
		var got model.Profit
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &got))
		assert.Equal(t, int64(4), got.UnitsSold)
		assert.True(t, decimal.RequireFromString("6").Equal(got.TotalProfit))
	})

	t.Run("Should get the movement totals of a product", func(t *testing.T) {
		env := newTestEnv(t, nil)
		env.reportSvc.On("MovementTotals", mock.Anything, int64(11)).
			Return(model.MovementTotals{ProductID: 11, Inbound: 10, Outbound: 4, Sold: 3}, nil).Once()

		resp := env.do(http.MethodGet, "/api/products/11/totals", "")

		assert.Equal(t, http.StatusOK, resp.Code)
		assert.JSONEq(t, `{"productId":11,"inbound":10,"outbound":4,"sold":3}`, resp.Body.String())
	})

	t.Run("Should unescape the category name", func(t *testing.T) {
		env := newTestEnv(t, nil)
		env.productSvc.On("ListProductsByCategory", mock.Anything, "Home Goods").
			Return([]model.Product{{ID: 1}}, nil).Once()
		env.reportSvc.On("CategoryStockReport", mock.Anything, "Home Goods").
			Return([]model.StockReportItem(nil), nil).Once()
		env.reportSvc.On("CategoryProfitReport", mock.Anything, "Home Goods").
			Return([]model.ProfitReportItem{{ProductID: 1}}, nil).Once()

		for _, path := range []string{
			"/api/products/category/Home%20Goods",
			"/api/products/category/Home%20Goods/stock",
			"/api/products/category/Home%20Goods/profit",
		} {
			resp := env.do(http.MethodGet, path, "")
			assert.Equal(t, http.StatusOK, resp.Code, path)
		}
	})
}
