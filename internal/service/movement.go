package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/tuanvumaihuynh/stock-ledger/internal/alert"
	"github.com/tuanvumaihuynh/stock-ledger/internal/apperr"
	"github.com/tuanvumaihuynh/stock-ledger/internal/model"
	"github.com/tuanvumaihuynh/stock-ledger/internal/repository"
	"github.com/tuanvumaihuynh/stock-ledger/internal/storage/db"
	"github.com/tuanvumaihuynh/stock-ledger/pkg/validator"
)

type RecordMovementParams struct {
	ProductID       int64              `validate:"required,gt=0"`
	Type            model.MovementType `validate:"required,enum"`
	Quantity        int                `validate:"gt=0,lte=2147483647"`
	ResponsibleUser *string            `validate:"omitempty,max=100"`
	Reason          *string            `validate:"omitempty,max=255"`
	// SalePrice overrides the product's sale price for this movement.
	SalePrice *decimal.Decimal `validate:"omitempty,gte=0"`
}

type RecordMovementResult struct {
	Movement      model.Movement
	StockQuantity int
}

type MovementService interface {
	// RecordMovement appends a movement and updates the product's stock in one
	// transaction. OUTBOUND movements that would leave negative stock fail
	// with apperr.InsufficientStockErr and change nothing.
	RecordMovement(ctx context.Context, params RecordMovementParams) (RecordMovementResult, error)
	GetMovement(ctx context.Context, id int64) (model.Movement, error)
	// ListMovementsByProduct returns the product's movements in insertion order.
	ListMovementsByProduct(ctx context.Context, productID int64) ([]model.Movement, error)
	ListAllMovements(ctx context.Context) ([]model.Movement, error)
}

type movementService struct {
	logger       *slog.Logger
	db           db.DB
	v            validator.Validator
	ledger       ledger
	productRepo  repository.ProductRepository
	movementRepo repository.MovementRepository
	observer     alert.Observer
}

func NewMovementService(
	logger *slog.Logger,
	db db.DB,
	v validator.Validator,
	productRepo repository.ProductRepository,
	movementRepo repository.MovementRepository,
	outboxMsgRepo repository.OutboxMsgRepository,
	observer alert.Observer,
) MovementService {
	return &movementService{
		logger: logger.With(slog.String("service", "movement")),
		db:     db,
		v:      v,
		ledger: ledger{
			productRepo:   productRepo,
			movementRepo:  movementRepo,
			outboxMsgRepo: outboxMsgRepo,
		},
		productRepo:  productRepo,
		movementRepo: movementRepo,
		observer:     observer,
	}
}

func (s *movementService) RecordMovement(ctx context.Context, params RecordMovementParams) (RecordMovementResult, error) {
	if err := validate(s.v, params); err != nil {
		return RecordMovementResult{}, err
	}

	var entry ledgerEntry
	if err := s.db.WithTx(ctx, func(tx db.DB) error {
		var err error
		entry, err = s.ledger.append(ctx, tx, params)
		return err
	}); err != nil {
		return RecordMovementResult{}, fmt.Errorf("db with tx: %w", err)
	}

	s.logger.DebugContext(ctx, "movement recorded",
		slog.Int64("movement_id", entry.movement.ID),
		slog.Int64("product_id", entry.product.ID),
		slog.String("type", entry.movement.Type.String()),
		slog.Int("quantity", entry.movement.Quantity),
		slog.Int("stock_quantity", entry.newQty),
	)

	if a, ok := alert.Evaluate(entry.product, params.Type, entry.newQty); ok {
		if err := s.observer.Notify(ctx, a); err != nil {
			s.logger.ErrorContext(ctx, "error notifying stock alert",
				slog.Int64("product_id", a.ProductID),
				slog.Any("error", err),
			)
		}
	}

	return RecordMovementResult{
		Movement:      entry.movement,
		StockQuantity: entry.newQty,
	}, nil
}

func (s *movementService) GetMovement(ctx context.Context, id int64) (model.Movement, error) {
	movement, err := s.movementRepo.GetMovement(ctx, id)
	if err != nil {
		return model.Movement{}, fmt.Errorf("movement repository get movement: %w",
			notFound(err, apperr.MovementNotFoundErr))
	}

	return movement, nil
}

func (s *movementService) ListMovementsByProduct(ctx context.Context, productID int64) ([]model.Movement, error) {
	if _, err := s.productRepo.GetProduct(ctx, productID); err != nil {
		return nil, fmt.Errorf("product repository get product: %w", notFound(err, apperr.ProductNotFoundErr))
	}

	movements, err := s.movementRepo.ListMovementsByProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("movement repository list movements by product: %w", err)
	}

	return movements, nil
}

func (s *movementService) ListAllMovements(ctx context.Context) ([]model.Movement, error) {
	movements, err := s.movementRepo.ListAllMovements(ctx)
	if err != nil {
		return nil, fmt.Errorf("movement repository list all movements: %w", err)
	}

	return movements, nil
}
