package http

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/tuanvumaihuynh/stock-ledger/internal/service"
)

const defaultPageSize = 10

type createProductRequest struct {
	Name          string          `json:"name"`
	Description   *string         `json:"description"`
	Sku           string          `json:"sku"`
	SupplierPrice decimal.Decimal `json:"supplierPrice"`
	SalePrice     decimal.Decimal `json:"salePrice"`
	StockQuantity int             `json:"stockQuantity"`
	MinimumStock  *int            `json:"minimumStock"`
	UnitOfMeasure *string         `json:"unitOfMeasure"`
	CategoryID    int64           `json:"categoryId"`
	SupplierID    *int64          `json:"supplierId"`
}

type updateProductRequest struct {
	Name          *string          `json:"name"`
	Description   *string          `json:"description"`
	Sku           *string          `json:"sku"`
	SupplierPrice *decimal.Decimal `json:"supplierPrice"`
	SalePrice     *decimal.Decimal `json:"salePrice"`
	MinimumStock  *int             `json:"minimumStock"`
	UnitOfMeasure *string          `json:"unitOfMeasure"`
	CategoryID    *int64           `json:"categoryId"`
	SupplierID    *int64           `json:"supplierId"`
}

type productHandler struct {
	productSvc service.ProductService
	reportSvc  service.ReportService
}

func newProductHandler(productSvc service.ProductService, reportSvc service.ReportService) *productHandler {
	return &productHandler{
		productSvc: productSvc,
		reportSvc:  reportSvc,
	}
}

func (h *productHandler) routes(r chi.Router, wrap func(handlerFunc) http.HandlerFunc) {
	r.Post("/", wrap(h.CreateProduct))
	r.Get("/", wrap(h.ListProducts))
	r.Get("/{id}", wrap(h.GetProduct))
	r.Put("/{id}", wrap(h.UpdateProduct))
	r.Delete("/{id}", wrap(h.DisableProduct))
	r.Get("/{id}/profit", wrap(h.GetProductProfit))
	r.Get("/{id}/totals", wrap(h.GetProductTotals))
	r.Get("/category/{categoryName}", wrap(h.ListProductsByCategory))
	r.Get("/category/{categoryName}/stock", wrap(h.GetCategoryStockReport))
	r.Get("/category/{categoryName}/profit", wrap(h.GetCategoryProfitReport))
}

func (h *productHandler) CreateProduct(w http.ResponseWriter, r *http.Request) error {
	var req createProductRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return err
	}

	product, err := h.productSvc.CreateProduct(r.Context(), service.CreateProductParams{
		Name:          req.Name,
		Description:   req.Description,
		Sku:           req.Sku,
		SupplierPrice: req.SupplierPrice,
		SalePrice:     req.SalePrice,
		StockQuantity: req.StockQuantity,
		MinimumStock:  req.MinimumStock,
		UnitOfMeasure: req.UnitOfMeasure,
		CategoryID:    req.CategoryID,
		SupplierID:    req.SupplierID,
	})
	if err != nil {
		return fmt.Errorf("product service create product: %w", err)
	}

	w.Header().Set("Location", fmt.Sprintf("/api/products/%d", product.ID))
	return writeJSON(w, http.StatusCreated, product)
}

func (h *productHandler) ListProducts(w http.ResponseWriter, r *http.Request) error {
	pageNum, err := queryParam(r, "page", 0)
	if err != nil {
		return err
	}
	size, err := queryParam(r, "size", defaultPageSize)
	if err != nil {
		return err
	}

	page, err := h.productSvc.ListProducts(r.Context(), service.ListProductsParams{
		Page: pageNum,
		Size: size,
	})
	if err != nil {
		return fmt.Errorf("product service list products: %w", err)
	}
	return writeJSON(w, http.StatusOK, page)
}

func (h *productHandler) GetProduct(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r, "id")
	if err != nil {
		return err
	}

	product, err := h.productSvc.GetProduct(r.Context(), id)
	if err != nil {
		return fmt.Errorf("product service get product: %w", err)
	}
	return writeJSON(w, http.StatusOK, product)
}

func (h *productHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r, "id")
	if err != nil {
		return err
	}

	var req updateProductRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return err
	}

	product, err := h.productSvc.UpdateProduct(r.Context(), service.UpdateProductParams{
		ID:            id,
		Name:          req.Name,
		Description:   req.Description,
		Sku:           req.Sku,
		SupplierPrice: req.SupplierPrice,
		SalePrice:     req.SalePrice,
		MinimumStock:  req.MinimumStock,
		UnitOfMeasure: req.UnitOfMeasure,
		CategoryID:    req.CategoryID,
		SupplierID:    req.SupplierID,
	})
	if err != nil {
		return fmt.Errorf("product service update product: %w", err)
	}
	return writeJSON(w, http.StatusOK, product)
}

func (h *productHandler) DisableProduct(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r, "id")
	if err != nil {
		return err
	}

	if err := h.productSvc.DisableProduct(r.Context(), id); err != nil {
		return fmt.Errorf("product service disable product: %w", err)
	}
	return noContent(w)
}

func (h *productHandler) GetProductProfit(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r, "id")
	if err != nil {
		return err
	}

	profit, err := h.reportSvc.ProfitForProduct(r.Context(), id)
	if err != nil {
		return fmt.Errorf("report service profit for product: %w", err)
	}
	return writeJSON(w, http.StatusOK, profit)
}

func (h *productHandler) GetProductTotals(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r, "id")
	if err != nil {
		return err
	}

	totals, err := h.reportSvc.MovementTotals(r.Context(), id)
	if err != nil {
		return fmt.Errorf("report service movement totals: %w", err)
	}
	return writeJSON(w, http.StatusOK, totals)
}

func (h *productHandler) ListProductsByCategory(w http.ResponseWriter, r *http.Request) error {
	var categoryName string
	if err := pathParam(r, "categoryName", &categoryName); err != nil {
		return err
	}

	products, err := h.productSvc.ListProductsByCategory(r.Context(), categoryName)
	if err != nil {
		return fmt.Errorf("product service list products by category: %w", err)
	}
	return writeJSON(w, http.StatusOK, list(products))
}

func (h *productHandler) GetCategoryStockReport(w http.ResponseWriter, r *http.Request) error {
	var categoryName string
	if err := pathParam(r, "categoryName", &categoryName); err != nil {
		return err
	}

	items, err := h.reportSvc.CategoryStockReport(r.Context(), categoryName)
	if err != nil {
		return fmt.Errorf("report service category stock report: %w", err)
	}
	return writeJSON(w, http.StatusOK, list(items))
}

func (h *productHandler) GetCategoryProfitReport(w http.ResponseWriter, r *http.Request) error {
	var categoryName string
	if err := pathParam(r, "categoryName", &categoryName); err != nil {
		return err
	}

	items, err := h.reportSvc.CategoryProfitReport(r.Context(), categoryName)
	if err != nil {
		return fmt.Errorf("report service category profit report: %w", err)
	}
	return writeJSON(w, http.StatusOK, list(items))
}
