package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/tuanvumaihuynh/stock-ledger/internal/model"
	"github.com/tuanvumaihuynh/stock-ledger/internal/storage/db"
)

type CreateCategoryParams struct {
	Name        string
	Description *string
}

type UpdateCategoryParams struct {
	ID          int64
	Name        string
	Description *string
}

type CategoryRepository interface {
	WithDB(db db.DB) CategoryRepository
	CreateCategory(ctx context.Context, params CreateCategoryParams) (model.Category, error)
	GetCategory(ctx context.Context, id int64) (model.Category, error)
	ListCategories(ctx context.Context) ([]model.Category, error)
	UpdateCategory(ctx context.Context, params UpdateCategoryParams) (model.Category, error)
	DeleteCategory(ctx context.Context, id int64) error
	ExistsByName(ctx context.Context, name string, excludeID *int64) (bool, error)
}

type categoryRepository struct {
	db db.DB
}

func NewCategoryRepository(db db.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r categoryRepository) WithDB(db db.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

const categoryColumns = `id, name, description, created_at, updated_at`

func (r categoryRepository) CreateCategory(ctx context.Context, params CreateCategoryParams) (model.Category, error) {
	row := r.db.QueryRow(ctx, `
		INSERT INTO categories (name, description)
		VALUES ($1, $2)
		RETURNING `+categoryColumns, params.Name, params.Description)

	category, err := scanCategory(row)
	if err != nil {
		if db.IsUniqueViolation(err, "categories_name_key") {
			return model.Category{}, fmt.Errorf("create category: %w", ErrAlreadyExists)
		}
		return model.Category{}, fmt.Errorf("create category: %w", err)
	}

	return category, nil
}

func (r categoryRepository) GetCategory(ctx context.Context, id int64) (model.Category, error) {
	row := r.db.QueryRow(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id)

	category, err := scanCategory(row)
	if err != nil {
		return model.Category{}, fmt.Errorf("get category: %w", notFoundOr(err))
	}

	return category, nil
}

func (r categoryRepository) ListCategories(ctx context.Context) ([]model.Category, error) {
	rows, err := r.db.Query(ctx, `SELECT `+categoryColumns+` FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	categories, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Category, error) {
		return scanCategory(row)
	})
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	return categories, nil
}

func (r categoryRepository) UpdateCategory(ctx context.Context, params UpdateCategoryParams) (model.Category, error) {
	row := r.db.QueryRow(ctx, `
		UPDATE categories
		SET name = $2, description = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING `+categoryColumns, params.ID, params.Name, params.Description)

	category, err := scanCategory(row)
	if err != nil {
		if db.IsUniqueViolation(err, "categories_name_key") {
			return model.Category{}, fmt.Errorf("update category: %w", ErrAlreadyExists)
		}
		return model.Category{}, fmt.Errorf("update category: %w", notFoundOr(err))
	}

	return category, nil
}

func (r categoryRepository) DeleteCategory(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		if db.IsForeignKeyViolation(err, "") {
			return fmt.Errorf("delete category: %w", ErrReferenced)
		}
		return fmt.Errorf("delete category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete category: %w", ErrNotFound)
	}

	return nil
}

func (r categoryRepository) ExistsByName(ctx context.Context, name string, excludeID *int64) (bool, error) {
	var exists bool
	if err := r.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM categories
			WHERE name = $1 AND ($2::bigint IS NULL OR id <> $2)
		)`, name, excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("category exists by name: %w", err)
	}

	return exists, nil
}

func scanCategory(row rowScanner) (model.Category, error) {
	var c model.Category
	err := row.Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}
