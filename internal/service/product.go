package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/tuanvumaihuynh/stock-ledger/internal/apperr"
	"github.com/tuanvumaihuynh/stock-ledger/internal/event"
	"github.com/tuanvumaihuynh/stock-ledger/internal/model"
	"github.com/tuanvumaihuynh/stock-ledger/internal/repository"
	"github.com/tuanvumaihuynh/stock-ledger/internal/storage/db"
	"github.com/tuanvumaihuynh/stock-ledger/pkg/ptr"
	"github.com/tuanvumaihuynh/stock-ledger/pkg/validator"
)

type CreateProductParams struct {
	Name          string          `validate:"required,max=150"`
	Description   *string         `validate:"omitempty,max=1000"`
	Sku           string          `validate:"required,max=50"`
	SupplierPrice decimal.Decimal `validate:"gte=0"`
	SalePrice     decimal.Decimal `validate:"gte=0"`
	// StockQuantity is recorded as an INITIAL_STOCK inbound movement.
	StockQuantity int     `validate:"gte=0,lte=2147483647"`
	MinimumStock  *int    `validate:"omitempty,gte=0,lte=2147483647"`
	UnitOfMeasure *string `validate:"omitempty,max=20"`
	CategoryID    int64   `validate:"required,gt=0"`
	SupplierID    *int64  `validate:"omitempty,gt=0"`
}

// UpdateProductParams changes only the fields that are set. Stock quantity
// is not editable here; it moves through the ledger.
type UpdateProductParams struct {
	ID            int64            `validate:"required,gt=0"`
	Name          *string          `validate:"omitempty,min=1,max=150"`
	Description   *string          `validate:"omitempty,max=1000"`
	Sku           *string          `validate:"omitempty,min=1,max=50"`
	SupplierPrice *decimal.Decimal `validate:"omitempty,gte=0"`
	SalePrice     *decimal.Decimal `validate:"omitempty,gte=0"`
	MinimumStock  *int             `validate:"omitempty,gte=0,lte=2147483647"`
	UnitOfMeasure *string          `validate:"omitempty,max=20"`
	CategoryID    *int64           `validate:"omitempty,gt=0"`
	SupplierID    *int64           `validate:"omitempty,gt=0"`
}

type ListProductsParams struct {
	Page int `validate:"gte=0"`
	Size int `validate:"gt=0,lte=100"`
}

type ProductService interface {
	CreateProduct(ctx context.Context, params CreateProductParams) (model.Product, error)
	GetProduct(ctx context.Context, id int64) (model.Product, error)
	// ListProducts returns products, most recently updated first, with their
	// withdrawn units and the profit on them at current prices.
	ListProducts(ctx context.Context, params ListProductsParams) (model.Page[model.ProductSummary], error)
	ListProductsByCategory(ctx context.Context, categoryName string) ([]model.Product, error)
	UpdateProduct(ctx context.Context, params UpdateProductParams) (model.Product, error)
	// DisableProduct marks the product inactive. Products are never deleted.
	DisableProduct(ctx context.Context, id int64) error
}

type productService struct {
	logger        *slog.Logger
	db            db.DB
	v             validator.Validator
	ledger        ledger
	productRepo   repository.ProductRepository
	categoryRepo  repository.CategoryRepository
	supplierRepo  repository.SupplierRepository
	movementRepo  repository.MovementRepository
	outboxMsgRepo repository.OutboxMsgRepository
}

func NewProductService(
	logger *slog.Logger,
	db db.DB,
	v validator.Validator,
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	supplierRepo repository.SupplierRepository,
	movementRepo repository.MovementRepository,
	outboxMsgRepo repository.OutboxMsgRepository,
) ProductService {
	return &productService{
		logger: logger.With(slog.String("service", "product")),
		db:     db,
		v:      v,
		ledger: ledger{
			productRepo:   productRepo,
			movementRepo:  movementRepo,
			outboxMsgRepo: outboxMsgRepo,
		},
		productRepo:   productRepo,
		categoryRepo:  categoryRepo,
		supplierRepo:  supplierRepo,
		movementRepo:  movementRepo,
		outboxMsgRepo: outboxMsgRepo,
	}
}

func (s *productService) CreateProduct(ctx context.Context, params CreateProductParams) (model.Product, error) {
	if err := validate(s.v, params); err != nil {
		return model.Product{}, err
	}

	var product model.Product
	if err := s.db.WithTx(ctx, func(tx db.DB) error {
		if err := s.checkReferences(ctx, tx, &params.Sku, nil, &params.CategoryID, params.SupplierID); err != nil {
			return err
		}

		var err error
		product, err = s.productRepo.WithDB(tx).CreateProduct(ctx, repository.CreateProductParams{
			Name:          params.Name,
			Description:   params.Description,
			Sku:           params.Sku,
			SupplierPrice: params.SupplierPrice,
			SalePrice:     params.SalePrice,
			MinimumStock:  params.MinimumStock,
			UnitOfMeasure: params.UnitOfMeasure,
			CategoryID:    params.CategoryID,
			SupplierID:    params.SupplierID,
		})
		if err != nil {
			if errors.Is(err, repository.ErrAlreadyExists) {
				return apperr.SkuAlreadyExistsErr.WrapParent(err)
			}
			return fmt.Errorf("product repository create product: %w", err)
		}

		if params.StockQuantity > 0 {
			entry, err := s.ledger.append(ctx, tx, RecordMovementParams{
				ProductID: product.ID,
				Type:      model.MovementTypeInbound,
				Quantity:  params.StockQuantity,
				Reason:    ptr.New(model.ReasonInitialStock),
			})
			if err != nil {
				return fmt.Errorf("record initial stock: %w", err)
			}
			product.StockQuantity = entry.newQty
		}

		msg, err := event.NewOutboxMsg(ctx, event.TopicProductCreated, product.ID, event.ProductCreatedEvent{
			ProductID:     product.ID,
			Name:          product.Name,
			Sku:           product.Sku,
			SalePrice:     product.SalePrice,
			StockQuantity: product.StockQuantity,
		})
		if err != nil {
			return err
		}

		if err := s.outboxMsgRepo.WithDB(tx).CreateOutboxMsg(ctx, msg); err != nil {
			return fmt.Errorf("outbox msg repository create outbox msg: %w", err)
		}

		return nil
	}); err != nil {
		return model.Product{}, fmt.Errorf("db with tx: %w", err)
	}

	s.logger.InfoContext(ctx, "product created",
		slog.Int64("product_id", product.ID),
		slog.String("sku", product.Sku),
	)

	return product, nil
}

func (s *productService) GetProduct(ctx context.Context, id int64) (model.Product, error) {
	product, err := s.productRepo.GetProduct(ctx, id)
	if err != nil {
		return model.Product{}, fmt.Errorf("product repository get product: %w", notFound(err, apperr.ProductNotFoundErr))
	}

	return product, nil
}

func (s *productService) ListProducts(ctx context.Context, params ListProductsParams) (model.Page[model.ProductSummary], error) {
	if err := validate(s.v, params); err != nil {
		return model.Page[model.ProductSummary]{}, err
	}

	res, err := s.productRepo.ListProducts(ctx, repository.ListParams{
		Limit:  params.Size,
		Offset: params.Page * params.Size,
	})
	if err != nil {
		return model.Page[model.ProductSummary]{}, fmt.Errorf("product repository list products: %w", err)
	}

	withdrawn, err := s.movementRepo.SumQuantityByProducts(ctx, repository.SumQuantityByProductsParams{
		ProductIDs: productIDs(res.Products),
		Type:       model.MovementTypeOutbound,
	})
	if err != nil {
		return model.Page[model.ProductSummary]{}, fmt.Errorf("movement repository sum quantity by products: %w", err)
	}

	items := make([]model.ProductSummary, 0, len(res.Products))
	for _, p := range res.Products {
		units := withdrawn[p.ID]
		items = append(items, model.ProductSummary{
			Product:        p,
			UnitsWithdrawn: units,
			TotalProfit:    unitProfitTotal(p, units),
		})
	}

	return model.NewPage(items, params.Page, params.Size, res.Total), nil
}

func (s *productService) ListProductsByCategory(ctx context.Context, categoryName string) ([]model.Product, error) {
	products, err := s.productRepo.ListProductsByCategoryName(ctx, categoryName)
	if err != nil {
		return nil, fmt.Errorf("product repository list products by category name: %w", err)
	}

	return products, nil
}

func (s *productService) UpdateProduct(ctx context.Context, params UpdateProductParams) (model.Product, error) {
	if err := validate(s.v, params); err != nil {
		return model.Product{}, err
	}

	var product model.Product
	if err := s.db.WithTx(ctx, func(tx db.DB) error {
		current, err := s.productRepo.WithDB(tx).GetProductForUpdate(ctx, params.ID)
		if err != nil {
			return fmt.Errorf("product repository get product for update: %w", notFound(err, apperr.ProductNotFoundErr))
		}

		changedSku := params.Sku
		if changedSku != nil && *changedSku == current.Sku {
			changedSku = nil
		}
		changedCategory := params.CategoryID
		if changedCategory != nil && *changedCategory == current.CategoryID {
			changedCategory = nil
		}
		if err := s.checkReferences(ctx, tx, changedSku, &current.ID, changedCategory, params.SupplierID); err != nil {
			return err
		}

		update := repository.UpdateProductParams{
			ID:            current.ID,
			Name:          ptr.ValueOr(params.Name, current.Name),
			Description:   ptr.Or(params.Description, current.Description),
			Sku:           ptr.ValueOr(params.Sku, current.Sku),
			SupplierPrice: ptr.ValueOr(params.SupplierPrice, current.SupplierPrice),
			SalePrice:     ptr.ValueOr(params.SalePrice, current.SalePrice),
			MinimumStock:  ptr.Or(params.MinimumStock, current.MinimumStock),
			UnitOfMeasure: ptr.Or(params.UnitOfMeasure, current.UnitOfMeasure),
			CategoryID:    ptr.ValueOr(params.CategoryID, current.CategoryID),
			SupplierID:    ptr.Or(params.SupplierID, current.SupplierID),
		}

		product, err = s.productRepo.WithDB(tx).UpdateProduct(ctx, update)
		if err != nil {
			if errors.Is(err, repository.ErrAlreadyExists) {
				return apperr.SkuAlreadyExistsErr.WrapParent(err)
			}
			return fmt.Errorf("product repository update product: %w", notFound(err, apperr.ProductNotFoundErr))
		}

		return nil
	}); err != nil {
		return model.Product{}, fmt.Errorf("db with tx: %w", err)
	}

	return product, nil
}

func (s *productService) DisableProduct(ctx context.Context, id int64) error {
	if err := s.productRepo.DisableProduct(ctx, id); err != nil {
		return fmt.Errorf("product repository disable product: %w", notFound(err, apperr.ProductNotFoundErr))
	}

	s.logger.InfoContext(ctx, "product disabled", slog.Int64("product_id", id))

	return nil
}

// checkReferences verifies, for the non-nil arguments, that the SKU is free
// and the category and supplier exist.
func (s *productService) checkReferences(
	ctx context.Context,
	tx db.DB,
	sku *string,
	excludeID *int64,
	categoryID *int64,
	supplierID *int64,
) error {
	if sku != nil {
		exists, err := s.productRepo.WithDB(tx).ExistsBySku(ctx, *sku, excludeID)
		if err != nil {
			return fmt.Errorf("product repository exists by sku: %w", err)
		}
		if exists {
			return apperr.SkuAlreadyExistsErr.WithMsg(fmt.Sprintf("sku %q already exists", *sku))
		}
	}

	if categoryID != nil {
		if _, err := s.categoryRepo.WithDB(tx).GetCategory(ctx, *categoryID); err != nil {
			return fmt.Errorf("category repository get category: %w", notFound(err, apperr.CategoryNotFoundErr))
		}
	}

	if supplierID != nil {
		if _, err := s.supplierRepo.WithDB(tx).GetSupplier(ctx, *supplierID); err != nil {
			return fmt.Errorf("supplier repository get supplier: %w", notFound(err, apperr.SupplierNotFoundErr))
		}
	}

	return nil
}
