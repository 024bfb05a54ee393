package alert

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/tuanvumaihuynh/stock-ledger/internal/event"
	"github.com/tuanvumaihuynh/stock-ledger/internal/repository"
	"github.com/tuanvumaihuynh/stock-ledger/internal/storage/db"
)

type LogObserver struct {
	logger *slog.Logger
}

func NewLogObserver(logger *slog.Logger) *LogObserver {
	return &LogObserver{logger: logger.With(slog.String("service", "alert"))}
}

func (o *LogObserver) Notify(ctx context.Context, a Alert) error {
	o.logger.WarnContext(ctx, "stock below minimum",
		slog.Int64("product_id", a.ProductID),
		slog.String("product_name", a.ProductName),
		slog.String("sku", a.Sku),
		slog.Int("new_quantity", a.NewQuantity),
		slog.Int("minimum_stock", a.MinimumStock),
	)
	return nil
}

// MetricsObserver counts alerts per product.
type MetricsObserver struct {
	alerts *prometheus.CounterVec
}

func NewMetricsObserver(reg prometheus.Registerer) (*MetricsObserver, error) {
	alerts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "stock_below_minimum_alerts_total",
		Help: "Number of movements that left a product below its minimum stock.",
	}, []string{"product_id"})

	if err := reg.Register(alerts); err != nil {
		return nil, fmt.Errorf("register alert counter: %w", err)
	}

	return &MetricsObserver{alerts: alerts}, nil
}

func (o *MetricsObserver) Notify(_ context.Context, a Alert) error {
	o.alerts.WithLabelValues(strconv.FormatInt(a.ProductID, 10)).Inc()
	return nil
}

// OutboxObserver publishes alerts as stock.below-minimum events through the
// transactional outbox.
type OutboxObserver struct {
	db            db.DB
	outboxMsgRepo repository.OutboxMsgRepository
}

func NewOutboxObserver(db db.DB, outboxMsgRepo repository.OutboxMsgRepository) *OutboxObserver {
	return &OutboxObserver{db: db, outboxMsgRepo: outboxMsgRepo}
}

func (o *OutboxObserver) Notify(ctx context.Context, a Alert) error {
	msg, err := event.NewOutboxMsg(ctx, event.TopicStockBelowMinimum, a.ProductID, event.StockBelowMinimumEvent{
		ProductID:    a.ProductID,
		ProductName:  a.ProductName,
		Sku:          a.Sku,
		NewQuantity:  a.NewQuantity,
		MinimumStock: a.MinimumStock,
		OccurredAt:   a.OccurredAt,
	})
	if err != nil {
		return err
	}

	if err := o.outboxMsgRepo.WithDB(o.db).CreateOutboxMsg(ctx, msg); err != nil {
		return fmt.Errorf("outbox msg repository create outbox msg: %w", err)
	}

	return nil
}
