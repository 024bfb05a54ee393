package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/tuanvumaihuynh/stock-ledger/internal/model"
	"github.com/tuanvumaihuynh/stock-ledger/internal/storage/db"
)

type CreateSupplierParams struct {
	Name    string
	TaxID   *string
	Phone   *string
	Email   *string
	Address *string
}

type UpdateSupplierParams struct {
	ID      int64
	Name    string
	TaxID   *string
	Phone   *string
	Email   *string
	Address *string
}

type ListSuppliersParams struct {
	// Name filters by a case-insensitive substring when set.
	Name *string
}

type SupplierRepository interface {
	WithDB(db db.DB) SupplierRepository
	CreateSupplier(ctx context.Context, params CreateSupplierParams) (model.Supplier, error)
	GetSupplier(ctx context.Context, id int64) (model.Supplier, error)
	ListSuppliers(ctx context.Context, params ListSuppliersParams) ([]model.Supplier, error)
	UpdateSupplier(ctx context.Context, params UpdateSupplierParams) (model.Supplier, error)
	DeleteSupplier(ctx context.Context, id int64) error
	ExistsByTaxID(ctx context.Context, taxID string, excludeID *int64) (bool, error)
}

type supplierRepository struct {
	db db.DB
}

func NewSupplierRepository(db db.DB) SupplierRepository {
	return &supplierRepository{db: db}
}

func (r supplierRepository) WithDB(db db.DB) SupplierRepository {
	return &supplierRepository{db: db}
}

const supplierColumns = `id, name, tax_id, phone, email, address, created_at, updated_at`

func (r supplierRepository) CreateSupplier(ctx context.Context, params CreateSupplierParams) (model.Supplier, error) {
	row := r.db.QueryRow(ctx, `
		INSERT INTO suppliers (name, tax_id, phone, email, address)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+supplierColumns,
		params.Name, params.TaxID, params.Phone, params.Email, params.Address)

	supplier, err := scanSupplier(row)
	if err != nil {
		if db.IsUniqueViolation(err, "suppliers_tax_id_key") {
			return model.Supplier{}, fmt.Errorf("create supplier: %w", ErrAlreadyExists)
		}
		return model.Supplier{}, fmt.Errorf("create supplier: %w", err)
	}

	return supplier, nil
}

func (r supplierRepository) GetSupplier(ctx context.Context, id int64) (model.Supplier, error) {
	row := r.db.QueryRow(ctx, `SELECT `+supplierColumns+` FROM suppliers WHERE id = $1`, id)

	supplier, err := scanSupplier(row)
	if err != nil {
		return model.Supplier{}, fmt.Errorf("get supplier: %w", notFoundOr(err))
	}

	return supplier, nil
}

func (r supplierRepository) ListSuppliers(ctx context.Context, params ListSuppliersParams) ([]model.Supplier, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+supplierColumns+`
		FROM suppliers
		WHERE $1::text IS NULL OR name ILIKE '%' || $1 || '%'
		ORDER BY name`, params.Name)
	if err != nil {
		return nil, fmt.Errorf("list suppliers: %w", err)
	}

	suppliers, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Supplier, error) {
		return scanSupplier(row)
	})
	if err != nil {
		return nil, fmt.Errorf("list suppliers: %w", err)
	}

	return suppliers, nil
}

func (r supplierRepository) UpdateSupplier(ctx context.Context, params UpdateSupplierParams) (model.Supplier, error) {
	row := r.db.QueryRow(ctx, `
		UPDATE suppliers
		SET name = $2, tax_id = $3, phone = $4, email = $5, address = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING `+supplierColumns,
		params.ID, params.Name, params.TaxID, params.Phone, params.Email, params.Address)

	supplier, err := scanSupplier(row)
	if err != nil {
		if db.IsUniqueViolation(err, "suppliers_tax_id_key") {
			return model.Supplier{}, fmt.Errorf("update supplier: %w", ErrAlreadyExists)
		}
		return model.Supplier{}, fmt.Errorf("update supplier: %w", notFoundOr(err))
	}

	return supplier, nil
}

func (r supplierRepository) DeleteSupplier(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM suppliers WHERE id = $1`, id)
	if err != nil {
		if db.IsForeignKeyViolation(err, "") {
			return fmt.Errorf("delete supplier: %w", ErrReferenced)
		}
		return fmt.Errorf("delete supplier: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete supplier: %w", ErrNotFound)
	}

	return nil
}

func (r supplierRepository) ExistsByTaxID(ctx context.Context, taxID string, excludeID *int64) (bool, error) {
	var exists bool
	if err := r.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM suppliers
			WHERE tax_id = $1 AND ($2::bigint IS NULL OR id <> $2)
		)`, taxID, excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("supplier exists by tax id: %w", err)
	}

	return exists, nil
}

func scanSupplier(row rowScanner) (model.Supplier, error) {
	var s model.Supplier
	err := row.Scan(&s.ID, &s.Name, &s.TaxID, &s.Phone, &s.Email, &s.Address, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}
