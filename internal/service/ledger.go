package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/tuanvumaihuynh/stock-ledger/internal/apperr"
	"github.com/tuanvumaihuynh/stock-ledger/internal/event"
	"github.com/tuanvumaihuynh/stock-ledger/internal/model"
	"github.com/tuanvumaihuynh/stock-ledger/internal/repository"
	"github.com/tuanvumaihuynh/stock-ledger/internal/storage/db"
)

// ledger appends a movement and moves the product's stock quantity in the
// caller's transaction. The product row stays locked until that transaction
// ends, which serialises movements on the same product.
type ledger struct {
	productRepo   repository.ProductRepository
	movementRepo  repository.MovementRepository
	outboxMsgRepo repository.OutboxMsgRepository
}

type ledgerEntry struct {
	product  model.Product
	movement model.Movement
	newQty   int
}

func (l ledger) append(ctx context.Context, tx db.DB, params RecordMovementParams) (ledgerEntry, error) {
	product, err := l.productRepo.WithDB(tx).GetProductForUpdate(ctx, params.ProductID)
	if err != nil {
		return ledgerEntry{}, fmt.Errorf("product repository get product for update: %w",
			notFound(err, apperr.ProductNotFoundErr))
	}

	if params.Type == model.MovementTypeOutbound && product.StockQuantity < params.Quantity {
		return ledgerEntry{}, apperr.InsufficientStockErr.WithMsg(fmt.Sprintf(
			"insufficient stock for product %d: available %d, requested %d",
			product.ID, product.StockQuantity, params.Quantity,
		))
	}

	if params.Type == model.MovementTypeInbound && product.StockQuantity > model.MaxStockQuantity-params.Quantity {
		return ledgerEntry{}, apperr.ValidationErr.WithMsg(fmt.Sprintf(
			"stock for product %d would exceed %d: available %d, requested %d",
			product.ID, model.MaxStockQuantity, product.StockQuantity, params.Quantity,
		))
	}

	newQty := params.Type.Apply(product.StockQuantity, params.Quantity)

	salePrice := product.SalePrice
	if params.SalePrice != nil {
		salePrice = *params.SalePrice
	}

	movement, err := l.movementRepo.WithDB(tx).CreateMovement(ctx, repository.CreateMovementParams{
		ProductID:       product.ID,
		Type:            params.Type,
		Quantity:        params.Quantity,
		ResponsibleUser: params.ResponsibleUser,
		Reason:          model.NormalizeReason(params.Reason),
		SalePrice:       salePrice,
	})
	if err != nil {
		return ledgerEntry{}, fmt.Errorf("movement repository create movement: %w", err)
	}

	if err := l.productRepo.WithDB(tx).UpdateStockQuantity(ctx, product.ID, newQty); err != nil {
		return ledgerEntry{}, fmt.Errorf("product repository update stock quantity: %w", err)
	}

	msg, err := event.NewOutboxMsg(ctx, event.TopicMovementRecorded, product.ID, event.MovementRecordedEvent{
		MovementID:    movement.ID,
		ProductID:     product.ID,
		Type:          movement.Type,
		Quantity:      movement.Quantity,
		Reason:        movement.Reason,
		StockQuantity: newQty,
		OccurredAt:    movement.DateTime,
	})
	if err != nil {
		return ledgerEntry{}, err
	}

	if err := l.outboxMsgRepo.WithDB(tx).CreateOutboxMsg(ctx, msg); err != nil {
		return ledgerEntry{}, fmt.Errorf("outbox msg repository create outbox msg: %w", err)
	}

	return ledgerEntry{product: product, movement: movement, newQty: newQty}, nil
}

// unitProfitTotal multiplies the product's current unit profit by units.
func unitProfitTotal(product model.Product, units int64) decimal.Decimal {
	return product.UnitProfit().Mul(decimal.NewFromInt(units))
}
