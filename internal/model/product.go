package model

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// MaxStockQuantity is the largest stock or movement quantity the INTEGER
// columns can hold.
const MaxStockQuantity = math.MaxInt32

type Product struct {
	ID            int64           `json:"id"`
	Name          string          `json:"name"`
	Description   *string         `json:"description,omitempty"`
	Sku           string          `json:"sku"`
	SupplierPrice decimal.Decimal `json:"supplierPrice"`
	SalePrice     decimal.Decimal `json:"salePrice"`
	StockQuantity int             `json:"stockQuantity"`
	MinimumStock  *int            `json:"minimumStock,omitempty"`
	UnitOfMeasure *string         `json:"unitOfMeasure,omitempty"`
	Active        bool            `json:"active"`
	CategoryID    int64           `json:"categoryId"`
	CategoryName  string          `json:"categoryName"`
	SupplierID    *int64          `json:"supplierId,omitempty"`
	SupplierName  *string         `json:"supplierName,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// UnitProfit is the margin of one unit at the product's current prices.
func (p Product) UnitProfit() decimal.Decimal {
	return p.SalePrice.Sub(p.SupplierPrice)
}

// BelowMinimum reports whether qty is under the configured minimum stock.
// A product without a minimum is never below it.
func (p Product) BelowMinimum(qty int) bool {
	return p.MinimumStock != nil && qty < *p.MinimumStock
}

// ProductSummary is a product listed together with its withdrawal totals.
type ProductSummary struct {
	Product
	UnitsWithdrawn int64           `json:"unitsWithdrawn"`
	TotalProfit    decimal.Decimal `json:"totalProfit"`
}
