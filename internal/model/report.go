package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockReportItem is one row of a category stock report.
type StockReportItem struct {
	ID             int64     `json:"id"`
	ProductName    string    `json:"productName"`
	Sku            string    `json:"sku"`
	StockQuantity  int       `json:"stockQuantity"`
	UnitsWithdrawn int64     `json:"unitsWithdrawn"`
	CategoryName   *string   `json:"categoryName,omitempty"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// ProfitReportItem is one row of a category profit report.
type ProfitReportItem struct {
	ProductID    int64           `json:"productId"`
	ProductName  string          `json:"productName"`
	Sku          string          `json:"sku"`
	UnitsSold    int64           `json:"unitsSold"`
	SupplierCost decimal.Decimal `json:"supplierCost"`
	SalePrice    decimal.Decimal `json:"salePrice"`
	TotalProfit  decimal.Decimal `json:"totalProfit"`
}
