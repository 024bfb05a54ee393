package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tuanvumaihuynh/stock-ledger/internal/apperr"
	"github.com/tuanvumaihuynh/stock-ledger/internal/model"
	"github.com/tuanvumaihuynh/stock-ledger/internal/repository"
	"github.com/tuanvumaihuynh/stock-ledger/internal/storage/db"
	"github.com/tuanvumaihuynh/stock-ledger/pkg/validator"
)

type CreateSupplierParams struct {
	Name    string  `validate:"required,max=150"`
	TaxID   *string `validate:"omitempty,max=20"`
	Phone   *string `validate:"omitempty,max=30"`
	Email   *string `validate:"omitempty,email,max=150"`
	Address *string `validate:"omitempty,max=1000"`
}

type UpdateSupplierParams struct {
	ID      int64   `validate:"required,gt=0"`
	Name    string  `validate:"required,max=150"`
	TaxID   *string `validate:"omitempty,max=20"`
	Phone   *string `validate:"omitempty,max=30"`
	Email   *string `validate:"omitempty,email,max=150"`
	Address *string `validate:"omitempty,max=1000"`
}

type SupplierService interface {
	CreateSupplier(ctx context.Context, params CreateSupplierParams) (model.Supplier, error)
	GetSupplier(ctx context.Context, id int64) (model.Supplier, error)
	// ListSuppliers filters by a case-insensitive name fragment when name is
	// not blank.
	ListSuppliers(ctx context.Context, name string) ([]model.Supplier, error)
	UpdateSupplier(ctx context.Context, params UpdateSupplierParams) (model.Supplier, error)
	// DeleteSupplier refuses suppliers that still have products.
	DeleteSupplier(ctx context.Context, id int64) error
}

type supplierService struct {
	db           db.DB
	v            validator.Validator
	supplierRepo repository.SupplierRepository
	productRepo  repository.ProductRepository
}

func NewSupplierService(
	db db.DB,
	v validator.Validator,
	supplierRepo repository.SupplierRepository,
	productRepo repository.ProductRepository,
) SupplierService {
	return &supplierService{
		db:           db,
		v:            v,
		supplierRepo: supplierRepo,
		productRepo:  productRepo,
	}
}

func (s *supplierService) CreateSupplier(ctx context.Context, params CreateSupplierParams) (model.Supplier, error) {
	if err := validate(s.v, params); err != nil {
		return model.Supplier{}, err
	}

	if err := s.checkTaxID(ctx, params.TaxID, nil); err != nil {
		return model.Supplier{}, err
	}

	supplier, err := s.supplierRepo.CreateSupplier(ctx, repository.CreateSupplierParams{
		Name:    params.Name,
		TaxID:   params.TaxID,
		Phone:   params.Phone,
		Email:   params.Email,
		Address: params.Address,
	})
	if err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return model.Supplier{}, apperr.SupplierTaxIDAlreadyExistsErr.WrapParent(err)
		}
		return model.Supplier{}, fmt.Errorf("supplier repository create supplier: %w", err)
	}

	return supplier, nil
}

func (s *supplierService) GetSupplier(ctx context.Context, id int64) (model.Supplier, error) {
	supplier, err := s.supplierRepo.GetSupplier(ctx, id)
	if err != nil {
		return model.Supplier{}, fmt.Errorf("supplier repository get supplier: %w", notFound(err, apperr.SupplierNotFoundErr))
	}

	return supplier, nil
}

func (s *supplierService) ListSuppliers(ctx context.Context, name string) ([]model.Supplier, error) {
	var params repository.ListSuppliersParams
	if name = strings.TrimSpace(name); name != "" {
		params.Name = &name
	}

	suppliers, err := s.supplierRepo.ListSuppliers(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("supplier repository list suppliers: %w", err)
	}

	return suppliers, nil
}

func (s *supplierService) UpdateSupplier(ctx context.Context, params UpdateSupplierParams) (model.Supplier, error) {
	if err := validate(s.v, params); err != nil {
		return model.Supplier{}, err
	}

	if err := s.checkTaxID(ctx, params.TaxID, &params.ID); err != nil {
		return model.Supplier{}, err
	}

	supplier, err := s.supplierRepo.UpdateSupplier(ctx, repository.UpdateSupplierParams{
		ID:      params.ID,
		Name:    params.Name,
		TaxID:   params.TaxID,
		Phone:   params.Phone,
		Email:   params.Email,
		Address: params.Address,
	})
	if err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return model.Supplier{}, apperr.SupplierTaxIDAlreadyExistsErr.WrapParent(err)
		}
		return model.Supplier{}, fmt.Errorf("supplier repository update supplier: %w", notFound(err, apperr.SupplierNotFoundErr))
	}

	return supplier, nil
}

func (s *supplierService) DeleteSupplier(ctx context.Context, id int64) error {
	return s.db.WithTx(ctx, func(tx db.DB) error {
		n, err := s.productRepo.WithDB(tx).CountProductsBySupplier(ctx, id)
		if err != nil {
			return fmt.Errorf("product repository count products by supplier: %w", err)
		}
		if n > 0 {
			return apperr.SupplierInUseErr.WithMsg(fmt.Sprintf("supplier %d has %d products", id, n))
		}

		if err := s.supplierRepo.WithDB(tx).DeleteSupplier(ctx, id); err != nil {
			if errors.Is(err, repository.ErrReferenced) {
				return apperr.SupplierInUseErr.WrapParent(err)
			}
			return fmt.Errorf("supplier repository delete supplier: %w", notFound(err, apperr.SupplierNotFoundErr))
		}

		return nil
	})
}

func (s *supplierService) checkTaxID(ctx context.Context, taxID *string, excludeID *int64) error {
	if taxID == nil {
		return nil
	}

	exists, err := s.supplierRepo.ExistsByTaxID(ctx, *taxID, excludeID)
	if err != nil {
		return fmt.Errorf("supplier repository exists by tax id: %w", err)
	}
	if exists {
		return apperr.SupplierTaxIDAlreadyExistsErr
	}

	return nil
}
