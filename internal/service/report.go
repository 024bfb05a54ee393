package service

import (
	"context"
	"fmt"

	"github.com/tuanvumaihuynh/stock-ledger/internal/apperr"
	"github.com/tuanvumaihuynh/stock-ledger/internal/model"
	"github.com/tuanvumaihuynh/stock-ledger/internal/repository"
	"github.com/tuanvumaihuynh/stock-ledger/pkg/ptr"
	"github.com/tuanvumaihuynh/stock-ledger/pkg/validator"
)

// ReportService summarises the movement ledger. Totals are computed from the
// committed movements on every call; nothing is cached.
type ReportService interface {
	// TotalByTypeForProduct returns 0 when the product has no movement of
	// that type, including when the product does not exist.
	TotalByTypeForProduct(ctx context.Context, productID int64, movementType model.MovementType) (int64, error)
	// TotalSoldForProduct counts OUTBOUND movements with reason SALE only.
	TotalSoldForProduct(ctx context.Context, productID int64) (int64, error)
	// TotalByTypeForProductSet omits products without matching movements.
	TotalByTypeForProductSet(ctx context.Context, productIDs []int64, movementType model.MovementType) (map[int64]int64, error)
	// ProfitForProduct uses the product's current prices, not the prices
	// recorded on each movement.
	ProfitForProduct(ctx context.Context, productID int64) (model.Profit, error)
	MovementTotals(ctx context.Context, productID int64) (model.MovementTotals, error)
	CategoryStockReport(ctx context.Context, categoryName string) ([]model.StockReportItem, error)
	CategoryProfitReport(ctx context.Context, categoryName string) ([]model.ProfitReportItem, error)
}

type reportService struct {
	v            validator.Validator
	productRepo  repository.ProductRepository
	movementRepo repository.MovementRepository
}

func NewReportService(
	v validator.Validator,
	productRepo repository.ProductRepository,
	movementRepo repository.MovementRepository,
) ReportService {
	return &reportService{
		v:            v,
		productRepo:  productRepo,
		movementRepo: movementRepo,
	}
}

type totalParams struct {
	Type model.MovementType `validate:"required,enum"`
}

func (s *reportService) TotalByTypeForProduct(ctx context.Context, productID int64, movementType model.MovementType) (int64, error) {
	if err := validate(s.v, totalParams{Type: movementType}); err != nil {
		return 0, err
	}

	total, err := s.movementRepo.SumQuantity(ctx, repository.SumQuantityParams{
		ProductID: productID,
		Type:      movementType,
	})
	if err != nil {
		return 0, fmt.Errorf("movement repository sum quantity: %w", err)
	}

	return total, nil
}

func (s *reportService) TotalSoldForProduct(ctx context.Context, productID int64) (int64, error) {
	total, err := s.movementRepo.SumQuantity(ctx, repository.SumQuantityParams{
		ProductID: productID,
		Type:      model.MovementTypeOutbound,
		Reason:    ptr.New(model.ReasonSale),
	})
	if err != nil {
		return 0, fmt.Errorf("movement repository sum quantity: %w", err)
	}

	return total, nil
}

func (s *reportService) TotalByTypeForProductSet(ctx context.Context, productIDs []int64, movementType model.MovementType) (map[int64]int64, error) {
	if err := validate(s.v, totalParams{Type: movementType}); err != nil {
		return nil, err
	}

	totals, err := s.movementRepo.SumQuantityByProducts(ctx, repository.SumQuantityByProductsParams{
		ProductIDs: productIDs,
		Type:       movementType,
	})
	if err != nil {
		return nil, fmt.Errorf("movement repository sum quantity by products: %w", err)
	}

	return totals, nil
}

func (s *reportService) ProfitForProduct(ctx context.Context, productID int64) (model.Profit, error) {
	product, err := s.productRepo.GetProduct(ctx, productID)
	if err != nil {
		return model.Profit{}, fmt.Errorf("product repository get product: %w", notFound(err, apperr.ProductNotFoundErr))
	}

	sold, err := s.TotalSoldForProduct(ctx, productID)
	if err != nil {
		return model.Profit{}, err
	}

	return model.Profit{
		ProductID:   product.ID,
		UnitsSold:   sold,
		UnitProfit:  product.UnitProfit(),
		TotalProfit: unitProfitTotal(product, sold),
	}, nil
}

func (s *reportService) MovementTotals(ctx context.Context, productID int64) (model.MovementTotals, error) {
	if _, err := s.productRepo.GetProduct(ctx, productID); err != nil {
		return model.MovementTotals{}, fmt.Errorf("product repository get product: %w", notFound(err, apperr.ProductNotFoundErr))
	}

	inbound, err := s.TotalByTypeForProduct(ctx, productID, model.MovementTypeInbound)
	if err != nil {
		return model.MovementTotals{}, err
	}
	outbound, err := s.TotalByTypeForProduct(ctx, productID, model.MovementTypeOutbound)
	if err != nil {
		return model.MovementTotals{}, err
	}
	sold, err := s.TotalSoldForProduct(ctx, productID)
	if err != nil {
		return model.MovementTotals{}, err
	}

	return model.MovementTotals{
		ProductID: productID,
		Inbound:   inbound,
		Outbound:  outbound,
		Sold:      sold,
	}, nil
}

func (s *reportService) CategoryStockReport(ctx context.Context, categoryName string) ([]model.StockReportItem, error) {
	products, err := s.productRepo.ListProductsByCategoryName(ctx, categoryName)
	if err != nil {
		return nil, fmt.Errorf("product repository list products by category name: %w", err)
	}

	withdrawn, err := s.movementRepo.SumQuantityByProducts(ctx, repository.SumQuantityByProductsParams{
		ProductIDs: productIDs(products),
		Type:       model.MovementTypeOutbound,
	})
	if err != nil {
		return nil, fmt.Errorf("movement repository sum quantity by products: %w", err)
	}

	items := make([]model.StockReportItem, 0, len(products))
	for _, p := range products {
		items = append(items, model.StockReportItem{
			ID:             p.ID,
			ProductName:    p.Name,
			Sku:            p.Sku,
			StockQuantity:  p.StockQuantity,
			UnitsWithdrawn: withdrawn[p.ID],
			CategoryName:   ptr.New(p.CategoryName),
			UpdatedAt:      p.UpdatedAt,
		})
	}

	return items, nil
}

func (s *reportService) CategoryProfitReport(ctx context.Context, categoryName string) ([]model.ProfitReportItem, error) {
	products, err := s.productRepo.ListProductsByCategoryName(ctx, categoryName)
	if err != nil {
		return nil, fmt.Errorf("product repository list products by category name: %w", err)
	}

	sold, err := s.movementRepo.SumQuantityByProducts(ctx, repository.SumQuantityByProductsParams{
		ProductIDs: productIDs(products),
		Type:       model.MovementTypeOutbound,
		Reason:     ptr.New(model.ReasonSale),
	})
	if err != nil {
		return nil, fmt.Errorf("movement repository sum quantity by products: %w", err)
	}

	items := make([]model.ProfitReportItem, 0, len(products))
	for _, p := range products {
		items = append(items, model.ProfitReportItem{
			ProductID:    p.ID,
			ProductName:  p.Name,
			Sku:          p.Sku,
			UnitsSold:    sold[p.ID],
			SupplierCost: p.SupplierPrice,
			SalePrice:    p.SalePrice,
			TotalProfit:  unitProfitTotal(p, sold[p.ID]),
		})
	}

	return items, nil
}

func productIDs(products []model.Product) []int64 {
	ids := make([]int64, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.ID)
	}
	return ids
}
