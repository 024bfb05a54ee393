package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/tuanvumaihuynh/stock-ledger/internal/model"
	"github.com/tuanvumaihuynh/stock-ledger/internal/storage/db"
)

type CreateProductParams struct {
	Name          string
	Description   *string
	Sku           string
	SupplierPrice decimal.Decimal
	SalePrice     decimal.Decimal
	MinimumStock  *int
	UnitOfMeasure *string
	CategoryID    int64
	SupplierID    *int64
}

type UpdateProductParams struct {
	ID            int64
	Name          string
	Description   *string
	Sku           string
	SupplierPrice decimal.Decimal
	SalePrice     decimal.Decimal
	MinimumStock  *int
	UnitOfMeasure *string
	CategoryID    int64
	SupplierID    *int64
}

type ListProductsResult struct {
	Products []model.Product
	Total    int64
}

// ProductRepository is the product store. Stock quantity is only written
// through UpdateStockQuantity.
type ProductRepository interface {
	WithDB(db db.DB) ProductRepository
	GetProduct(ctx context.Context, id int64) (model.Product, error)
	// GetProductForUpdate locks the product row until the surrounding
	// transaction ends.
	GetProductForUpdate(ctx context.Context, id int64) (model.Product, error)
	CreateProduct(ctx context.Context, params CreateProductParams) (model.Product, error)
	UpdateProduct(ctx context.Context, params UpdateProductParams) (model.Product, error)
	UpdateStockQuantity(ctx context.Context, id int64, quantity int) error
	DisableProduct(ctx context.Context, id int64) error
	ExistsBySku(ctx context.Context, sku string, excludeID *int64) (bool, error)
	ListProducts(ctx context.Context, params ListParams) (ListProductsResult, error)
	ListProductsByCategoryName(ctx context.Context, categoryName string) ([]model.Product, error)
	CountProductsByCategory(ctx context.Context, categoryID int64) (int64, error)
	CountProductsBySupplier(ctx context.Context, supplierID int64) (int64, error)
}

type productRepository struct {
	db db.DB
}

func NewProductRepository(db db.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r productRepository) WithDB(db db.DB) ProductRepository {
	return &productRepository{db: db}
}

const productColumns = `
	p.id, p.name, p.description, p.sku, p.supplier_price, p.sale_price,
	p.stock_quantity, p.minimum_stock, p.unit_of_measure, p.active,
	p.category_id, c.name, p.supplier_id, s.name, p.created_at, p.updated_at`

const productJoins = `
	JOIN categories c ON c.id = p.category_id
	LEFT JOIN suppliers s ON s.id = p.supplier_id`

func (r productRepository) GetProduct(ctx context.Context, id int64) (model.Product, error) {
	row := r.db.QueryRow(ctx, `SELECT `+productColumns+` FROM products p `+productJoins+` WHERE p.id = $1`, id)

	product, err := scanProduct(row)
	if err != nil {
		return model.Product{}, fmt.Errorf("get product: %w", notFoundOr(err))
	}

	return product, nil
}

func (r productRepository) GetProductForUpdate(ctx context.Context, id int64) (model.Product, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+productColumns+`
		FROM products p `+productJoins+`
		WHERE p.id = $1
		FOR UPDATE OF p`, id)

	product, err := scanProduct(row)
	if err != nil {
		return model.Product{}, fmt.Errorf("get product for update: %w", notFoundOr(err))
	}

	return product, nil
}

func (r productRepository) CreateProduct(ctx context.Context, params CreateProductParams) (model.Product, error) {
	row := r.db.QueryRow(ctx, `
		WITH p AS (
			INSERT INTO products (
				name, description, sku, supplier_price, sale_price,
				stock_quantity, minimum_stock, unit_of_measure, active,
				category_id, supplier_id
			)
			VALUES ($1, $2, $3, $4, $5, 0, $6, $7, TRUE, $8, $9)
			RETURNING *
		)
		SELECT `+productColumns+` FROM p `+productJoins,
		params.Name,
		params.Description,
		params.Sku,
		params.SupplierPrice,
		params.SalePrice,
		params.MinimumStock,
		params.UnitOfMeasure,
		params.CategoryID,
		params.SupplierID,
	)

	product, err := scanProduct(row)
	if err != nil {
		if db.IsUniqueViolation(err, "products_sku_key") {
			return model.Product{}, fmt.Errorf("create product: %w", ErrAlreadyExists)
		}
		return model.Product{}, fmt.Errorf("create product: %w", err)
	}

	return product, nil
}

func (r productRepository) UpdateProduct(ctx context.Context, params UpdateProductParams) (model.Product, error) {
	row := r.db.QueryRow(ctx, `
		WITH p AS (
			UPDATE products SET
				name            = $2,
				description     = $3,
				sku             = $4,
				supplier_price  = $5,
				sale_price      = $6,
				minimum_stock   = $7,
				unit_of_measure = $8,
				category_id     = $9,
				supplier_id     = $10,
				updated_at      = NOW()
			WHERE id = $1
			RETURNING *
		)
		SELECT `+productColumns+` FROM p `+productJoins,
		params.ID,
		params.Name,
		params.Description,
		params.Sku,
		params.SupplierPrice,
		params.SalePrice,
		params.MinimumStock,
		params.UnitOfMeasure,
		params.CategoryID,
		params.SupplierID,
	)

	product, err := scanProduct(row)
	if err != nil {
		if db.IsUniqueViolation(err, "products_sku_key") {
			return model.Product{}, fmt.Errorf("update product: %w", ErrAlreadyExists)
		}
		return model.Product{}, fmt.Errorf("update product: %w", notFoundOr(err))
	}

	return product, nil
}

func (r productRepository) UpdateStockQuantity(ctx context.Context, id int64, quantity int) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE products
		SET stock_quantity = $2, updated_at = NOW()
		WHERE id = $1`, id, quantity)
	if err != nil {
		return fmt.Errorf("update stock quantity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update stock quantity: %w", ErrNotFound)
	}

	return nil
}

func (r productRepository) DisableProduct(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `UPDATE products SET active = FALSE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("disable product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("disable product: %w", ErrNotFound)
	}

	return nil
}

func (r productRepository) ExistsBySku(ctx context.Context, sku string, excludeID *int64) (bool, error) {
	var exists bool
	if err := r.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM products
			WHERE sku = $1 AND ($2::bigint IS NULL OR id <> $2)
		)`, sku, excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("exists by sku: %w", err)
	}

	return exists, nil
}

func (r productRepository) ListProducts(ctx context.Context, params ListParams) (ListProductsResult, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM products`).Scan(&total); err != nil {
		return ListProductsResult{}, fmt.Errorf("count products: %w", err)
	}

	rows, err := r.db.Query(ctx, `
		SELECT `+productColumns+`
		FROM products p `+productJoins+`
		ORDER BY p.updated_at DESC, p.id DESC
		LIMIT $1 OFFSET $2`, params.Limit, params.Offset)
	if err != nil {
		return ListProductsResult{}, fmt.Errorf("list products: %w", err)
	}

	products, err := collectProducts(rows)
	if err != nil {
		return ListProductsResult{}, fmt.Errorf("list products: %w", err)
	}

	return ListProductsResult{Products: products, Total: total}, nil
}

func (r productRepository) ListProductsByCategoryName(ctx context.Context, categoryName string) ([]model.Product, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+productColumns+`
		FROM products p `+productJoins+`
		WHERE c.name = $1
		ORDER BY p.id`, categoryName)
	if err != nil {
		return nil, fmt.Errorf("list products by category name: %w", err)
	}

	products, err := collectProducts(rows)
	if err != nil {
		return nil, fmt.Errorf("list products by category name: %w", err)
	}

	return products, nil
}

func (r productRepository) CountProductsByCategory(ctx context.Context, categoryID int64) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM products WHERE category_id = $1`, categoryID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count products by category: %w", err)
	}
	return n, nil
}

func (r productRepository) CountProductsBySupplier(ctx context.Context, supplierID int64) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM products WHERE supplier_id = $1`, supplierID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count products by supplier: %w", err)
	}
	return n, nil
}

func scanProduct(row rowScanner) (model.Product, error) {
	var p model.Product
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.Sku,
		&p.SupplierPrice,
		&p.SalePrice,
		&p.StockQuantity,
		&p.MinimumStock,
		&p.UnitOfMeasure,
		&p.Active,
		&p.CategoryID,
		&p.CategoryName,
		&p.SupplierID,
		&p.SupplierName,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	return p, err
}

func collectProducts(rows pgx.Rows) ([]model.Product, error) {
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Product, error) {
		return scanProduct(row)
	})
}
