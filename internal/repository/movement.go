package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/tuanvumaihuynh/stock-ledger/internal/model"
	"github.com/tuanvumaihuynh/stock-ledger/internal/storage/db"
)

type CreateMovementParams struct {
	ProductID       int64
	Type            model.MovementType
	Quantity        int
	ResponsibleUser *string
	Reason          *string
	SalePrice       decimal.Decimal
}

// SumQuantityParams filters the ledger for a quantity sum. A nil Reason
// matches every reason.
type SumQuantityParams struct {
	ProductID int64
	Type      model.MovementType
	Reason    *string
}

type SumQuantityByProductsParams struct {
	ProductIDs []int64
	Type       model.MovementType
	Reason     *string
}

// MovementRepository is the append-only movement ledger. There is no update
// or delete.
type MovementRepository interface {
	WithDB(db db.DB) MovementRepository
	CreateMovement(ctx context.Context, params CreateMovementParams) (model.Movement, error)
	GetMovement(ctx context.Context, id int64) (model.Movement, error)
	ListMovementsByProduct(ctx context.Context, productID int64) ([]model.Movement, error)
	ListAllMovements(ctx context.Context) ([]model.Movement, error)
	SumQuantity(ctx context.Context, params SumQuantityParams) (int64, error)
	// SumQuantityByProducts omits products without matching movements.
	SumQuantityByProducts(ctx context.Context, params SumQuantityByProductsParams) (map[int64]int64, error)
}

type movementRepository struct {
	db db.DB
}

func NewMovementRepository(db db.DB) MovementRepository {
	return &movementRepository{db: db}
}

func (r movementRepository) WithDB(db db.DB) MovementRepository {
	return &movementRepository{db: db}
}

const movementColumns = `
	m.id, m.product_id, p.name, m.type, m.quantity, m.date_time,
	m.responsible_user, m.reason, m.sale_price, m.created_at, m.updated_at`

func (r movementRepository) CreateMovement(ctx context.Context, params CreateMovementParams) (model.Movement, error) {
	row := r.db.QueryRow(ctx, `
		WITH m AS (
			INSERT INTO movements (
				product_id, type, quantity, date_time,
				responsible_user, reason, sale_price
			)
			VALUES ($1, $2, $3, NOW(), $4, $5, $6)
			RETURNING *
		)
		SELECT `+movementColumns+`
		FROM m JOIN products p ON p.id = m.product_id`,
		params.ProductID,
		params.Type.String(),
		params.Quantity,
		params.ResponsibleUser,
		params.Reason,
		params.SalePrice,
	)

	movement, err := scanMovement(row)
	if err != nil {
		if db.IsForeignKeyViolation(err, "") {
			return model.Movement{}, fmt.Errorf("create movement: %w", ErrNotFound)
		}
		return model.Movement{}, fmt.Errorf("create movement: %w", err)
	}

	return movement, nil
}

func (r movementRepository) GetMovement(ctx context.Context, id int64) (model.Movement, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+movementColumns+`
		FROM movements m JOIN products p ON p.id = m.product_id
		WHERE m.id = $1`, id)

	movement, err := scanMovement(row)
	if err != nil {
		return model.Movement{}, fmt.Errorf("get movement: %w", notFoundOr(err))
	}

	return movement, nil
}

func (r movementRepository) ListMovementsByProduct(ctx context.Context, productID int64) ([]model.Movement, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+movementColumns+`
		FROM movements m JOIN products p ON p.id = m.product_id
		WHERE m.product_id = $1
		ORDER BY m.id`, productID)
	if err != nil {
		return nil, fmt.Errorf("list movements by product: %w", err)
	}

	movements, err := collectMovements(rows)
	if err != nil {
		return nil, fmt.Errorf("list movements by product: %w", err)
	}

	return movements, nil
}

func (r movementRepository) ListAllMovements(ctx context.Context) ([]model.Movement, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+movementColumns+`
		FROM movements m JOIN products p ON p.id = m.product_id
		ORDER BY m.id`)
	if err != nil {
		return nil, fmt.Errorf("list all movements: %w", err)
	}

	movements, err := collectMovements(rows)
	if err != nil {
		return nil, fmt.Errorf("list all movements: %w", err)
	}

	return movements, nil
}

func (r movementRepository) SumQuantity(ctx context.Context, params SumQuantityParams) (int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(quantity), 0)::bigint
		FROM movements
		WHERE product_id = $1
			AND type = $2
			AND ($3::text IS NULL OR reason = $3)`,
		params.ProductID, params.Type.String(), params.Reason,
	).Scan(&total); err != nil {
		return 0, fmt.Errorf("sum quantity: %w", err)
	}

	return total, nil
}

func (r movementRepository) SumQuantityByProducts(ctx context.Context, params SumQuantityByProductsParams) (map[int64]int64, error) {
	totals := make(map[int64]int64, len(params.ProductIDs))
	if len(params.ProductIDs) == 0 {
		return totals, nil
	}

	rows, err := r.db.Query(ctx, `
		SELECT product_id, SUM(quantity)::bigint
		FROM movements
		WHERE product_id = ANY($1)
			AND type = $2
			AND ($3::text IS NULL OR reason = $3)
		GROUP BY product_id`,
		params.ProductIDs, params.Type.String(), params.Reason,
	)
	if err != nil {
		return nil, fmt.Errorf("sum quantity by products: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			productID int64
			total     int64
		)
		if err := rows.Scan(&productID, &total); err != nil {
			return nil, fmt.Errorf("scan quantity sum: %w", err)
		}
		totals[productID] = total
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sum quantity by products: %w", err)
	}

	return totals, nil
}

func scanMovement(row rowScanner) (model.Movement, error) {
	var (
		m   model.Movement
		typ string
	)
	err := row.Scan(
		&m.ID,
		&m.ProductID,
		&m.ProductName,
		&typ,
		&m.Quantity,
		&m.DateTime,
		&m.ResponsibleUser,
		&m.Reason,
		&m.SalePrice,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	m.Type = model.MovementType(typ)
	return m, err
}

func collectMovements(rows pgx.Rows) ([]model.Movement, error) {
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Movement, error) {
		return scanMovement(row)
	})
}
