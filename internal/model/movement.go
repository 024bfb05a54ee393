package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type MovementType string

const (
	MovementTypeInbound  MovementType = "INBOUND"
	MovementTypeOutbound MovementType = "OUTBOUND"
)

// Well-known movement reasons. Any other free-text reason is accepted.
const (
	ReasonSale         = "SALE"
	ReasonInitialStock = "INITIAL_STOCK"
)

// NormalizeReason maps the legacy VENDA label and any casing of SALE to
// ReasonSale. Other reasons are returned unchanged.
func NormalizeReason(reason *string) *string {
	if reason == nil {
		return nil
	}
	switch strings.ToUpper(strings.TrimSpace(*reason)) {
	case ReasonSale, "VENDA":
		sale := ReasonSale
		return &sale
	}
	return reason
}

func (t MovementType) Validate() error {
	switch t {
	case MovementTypeInbound, MovementTypeOutbound:
		return nil
	default:
		return fmt.Errorf("invalid movement type: %q", string(t))
	}
}

func (t MovementType) String() string {
	return string(t)
}

// Apply returns the stock quantity after a movement of qty units.
func (t MovementType) Apply(stock, qty int) int {
	if t == MovementTypeOutbound {
		return stock - qty
	}
	return stock + qty
}

// UnmarshalText accepts the canonical names and the legacy ENTRADA/SAIDA
// labels, case-insensitively. Unknown values are kept as-is so that
// validation reports them.
func (t *MovementType) UnmarshalText(text []byte) error {
	switch strings.ToUpper(strings.TrimSpace(string(text))) {
	case "INBOUND", "ENTRADA":
		*t = MovementTypeInbound
	case "OUTBOUND", "SAIDA":
		*t = MovementTypeOutbound
	default:
		*t = MovementType(text)
	}
	return nil
}

// Movement is an immutable ledger entry. ProductName is resolved from the
// product at read time.
type Movement struct {
	ID              int64           `json:"id"`
	ProductID       int64           `json:"productId"`
	ProductName     string          `json:"productName"`
	Type            MovementType    `json:"type"`
	Quantity        int             `json:"quantity"`
	DateTime        time.Time       `json:"dateTime"`
	ResponsibleUser *string         `json:"responsibleUser,omitempty"`
	Reason          *string         `json:"reason,omitempty"`
	SalePrice       decimal.Decimal `json:"salePrice"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// MovementTotals are the per-product sums of the ledger.
type MovementTotals struct {
	ProductID int64 `json:"productId"`
	Inbound   int64 `json:"inbound"`
	Outbound  int64 `json:"outbound"`
	Sold      int64 `json:"sold"`
}

// Profit is computed from the product's current prices.
type Profit struct {
	ProductID   int64           `json:"productId"`
	UnitsSold   int64           `json:"unitsSold"`
	UnitProfit  decimal.Decimal `json:"unitProfit"`
	TotalProfit decimal.Decimal `json:"totalProfit"`
}
