package event

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tuanvumaihuynh/stock-ledger/internal/model"
	"github.com/tuanvumaihuynh/stock-ledger/internal/repository"
	"github.com/tuanvumaihuynh/stock-ledger/pkg/outbox"
)

const (
	TopicProductCreated    = "product.created"
	TopicMovementRecorded  = "movement.recorded"
	TopicStockBelowMinimum = "stock.below-minimum"
)

type ProductCreatedEvent struct {
	ProductID     int64           `json:"productId"`
	Name          string          `json:"name"`
	Sku           string          `json:"sku"`
	SalePrice     decimal.Decimal `json:"salePrice"`
	StockQuantity int             `json:"stockQuantity"`
}

type MovementRecordedEvent struct {
	MovementID    int64              `json:"movementId"`
	ProductID     int64              `json:"productId"`
	Type          model.MovementType `json:"type"`
	Quantity      int                `json:"quantity"`
	Reason        *string            `json:"reason,omitempty"`
	StockQuantity int                `json:"stockQuantity"`
	OccurredAt    time.Time          `json:"occurredAt"`
}

type StockBelowMinimumEvent struct {
	ProductID    int64     `json:"productId"`
	ProductName  string    `json:"productName"`
	Sku          string    `json:"sku"`
	NewQuantity  int       `json:"newQuantity"`
	MinimumStock int       `json:"minimumStock"`
	OccurredAt   time.Time `json:"occurredAt"`
}

// NewOutboxMsg builds the outbox row for an event about a product. Trace and
// correlation data are taken from ctx; the product id is the partition key.
func NewOutboxMsg(ctx context.Context, topic string, productID int64, ev any) (repository.CreateOutboxMsgParams, error) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return repository.CreateOutboxMsgParams{}, fmt.Errorf("marshal %s event: %w", topic, err)
	}

	return repository.CreateOutboxMsgParams{
		Topic:        topic,
		Headers:      outbox.BuildHeaders(ctx),
		Payload:      payload,
		PartitionKey: outbox.ProductKey(productID),
	}, nil
}
