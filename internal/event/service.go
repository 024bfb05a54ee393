package event

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/tuanvumaihuynh/stock-ledger/internal/storage/mq"
)

// Service consumes the inventory topics published by the relay.
type Service struct {
	logger     *slog.Logger
	mqConsumer mq.Consumer
}

func New(
	logger *slog.Logger,
	mqConsumer mq.Consumer,
) *Service {
	return &Service{
		logger:     logger.With(slog.String("service", "event")),
		mqConsumer: mqConsumer,
	}
}

type CleanupFunc func()

func (s *Service) Run(ctx context.Context) (CleanupFunc, error) {
	handlers := map[string]mq.HandlerFunc{
		TopicProductCreated:    jsonHandler(s.handleProductCreated),
		TopicMovementRecorded:  jsonHandler(s.handleMovementRecorded),
		TopicStockBelowMinimum: jsonHandler(s.handleStockBelowMinimum),
	}

	for topic, h := range handlers {
		if err := s.mqConsumer.RegisterHandler(topic, h); err != nil {
			return nil, fmt.Errorf("register %s handler: %w", topic, err)
		}
	}

	mqCleanup, err := s.mqConsumer.Run(ctx)
	if err != nil {
		return nil, fmt.Errorf("run mq consumer: %w", err)
	}

	return CleanupFunc(mqCleanup), nil
}

func jsonHandler[T any](fn func(context.Context, T) error) mq.HandlerFunc {
	return func(ctx context.Context, topic string, payload []byte) error {
		var ev T
		if err := json.Unmarshal(payload, &ev); err != nil {
			return fmt.Errorf("unmarshal %s event: %w", topic, err)
		}
		return fn(ctx, ev)
	}
}

func (s *Service) handleProductCreated(ctx context.Context, ev ProductCreatedEvent) error {
	s.logger.InfoContext(ctx, "product created",
		slog.Int64("product_id", ev.ProductID),
		slog.String("sku", ev.Sku),
		slog.Int("stock_quantity", ev.StockQuantity),
	)
	return nil
}

func (s *Service) handleMovementRecorded(ctx context.Context, ev MovementRecordedEvent) error {
	s.logger.InfoContext(ctx, "movement recorded",
		slog.Int64("movement_id", ev.MovementID),
		slog.Int64("product_id", ev.ProductID),
		slog.String("type", ev.Type.String()),
		slog.Int("quantity", ev.Quantity),
		slog.Int("stock_quantity", ev.StockQuantity),
	)
	return nil
}

func (s *Service) handleStockBelowMinimum(ctx context.Context, ev StockBelowMinimumEvent) error {
	s.logger.WarnContext(ctx, "stock below minimum",
		slog.Int64("product_id", ev.ProductID),
		slog.String("sku", ev.Sku),
		slog.Int("new_quantity", ev.NewQuantity),
		slog.Int("minimum_stock", ev.MinimumStock),
	)
	return nil
}
