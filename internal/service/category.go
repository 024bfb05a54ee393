package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/tuanvumaihuynh/stock-ledger/internal/apperr"
	"github.com/tuanvumaihuynh/stock-ledger/internal/model"
	"github.com/tuanvumaihuynh/stock-ledger/internal/repository"
	"github.com/tuanvumaihuynh/stock-ledger/internal/storage/db"
	"github.com/tuanvumaihuynh/stock-ledger/pkg/validator"
)

type CreateCategoryParams struct {
	Name        string  `validate:"required,max=100"`
	Description *string `validate:"omitempty,max=1000"`
}

type UpdateCategoryParams struct {
	ID          int64   `validate:"required,gt=0"`
	Name        string  `validate:"required,max=100"`
	Description *string `validate:"omitempty,max=1000"`
}

type CategoryService interface {
	CreateCategory(ctx context.Context, params CreateCategoryParams) (model.Category, error)
	GetCategory(ctx context.Context, id int64) (model.Category, error)
	ListCategories(ctx context.Context) ([]model.Category, error)
	UpdateCategory(ctx context.Context, params UpdateCategoryParams) (model.Category, error)
	// DeleteCategory refuses categories that still have products.
	DeleteCategory(ctx context.Context, id int64) error
}

type categoryService struct {
	db           db.DB
	v            validator.Validator
	categoryRepo repository.CategoryRepository
	productRepo  repository.ProductRepository
}

func NewCategoryService(
	db db.DB,
	v validator.Validator,
	categoryRepo repository.CategoryRepository,
	productRepo repository.ProductRepository,
) CategoryService {
	return &categoryService{
		db:           db,
		v:            v,
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
	}
}

func (s *categoryService) CreateCategory(ctx context.Context, params CreateCategoryParams) (model.Category, error) {
	if err := validate(s.v, params); err != nil {
		return model.Category{}, err
	}

	exists, err := s.categoryRepo.ExistsByName(ctx, params.Name, nil)
	if err != nil {
		return model.Category{}, fmt.Errorf("category repository exists by name: %w", err)
	}
	if exists {
		return model.Category{}, apperr.CategoryNameAlreadyExistsErr
	}

	category, err := s.categoryRepo.CreateCategory(ctx, repository.CreateCategoryParams{
		Name:        params.Name,
		Description: params.Description,
	})
	if err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return model.Category{}, apperr.CategoryNameAlreadyExistsErr.WrapParent(err)
		}
		return model.Category{}, fmt.Errorf("category repository create category: %w", err)
	}

	return category, nil
}

func (s *categoryService) GetCategory(ctx context.Context, id int64) (model.Category, error) {
	category, err := s.categoryRepo.GetCategory(ctx, id)
	if err != nil {
		return model.Category{}, fmt.Errorf("category repository get category: %w", notFound(err, apperr.CategoryNotFoundErr))
	}

	return category, nil
}

func (s *categoryService) ListCategories(ctx context.Context) ([]model.Category, error) {
	categories, err := s.categoryRepo.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("category repository list categories: %w", err)
	}

	return categories, nil
}

func (s *categoryService) UpdateCategory(ctx context.Context, params UpdateCategoryParams) (model.Category, error) {
	if err := validate(s.v, params); err != nil {
		return model.Category{}, err
	}

	exists, err := s.categoryRepo.ExistsByName(ctx, params.Name, &params.ID)
	if err != nil {
		return model.Category{}, fmt.Errorf("category repository exists by name: %w", err)
	}
	if exists {
		return model.Category{}, apperr.CategoryNameAlreadyExistsErr
	}

	category, err := s.categoryRepo.UpdateCategory(ctx, repository.UpdateCategoryParams{
		ID:          params.ID,
		Name:        params.Name,
		Description: params.Description,
	})
	if err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return model.Category{}, apperr.CategoryNameAlreadyExistsErr.WrapParent(err)
		}
		return model.Category{}, fmt.Errorf("category repository update category: %w", notFound(err, apperr.CategoryNotFoundErr))
	}

	return category, nil
}

func (s *categoryService) DeleteCategory(ctx context.Context, id int64) error {
	return s.db.WithTx(ctx, func(tx db.DB) error {
		n, err := s.productRepo.WithDB(tx).CountProductsByCategory(ctx, id)
		if err != nil {
			return fmt.Errorf("product repository count products by category: %w", err)
		}
		if n > 0 {
			return apperr.CategoryInUseErr.WithMsg(fmt.Sprintf("category %d has %d products", id, n))
		}

		if err := s.categoryRepo.WithDB(tx).DeleteCategory(ctx, id); err != nil {
			if errors.Is(err, repository.ErrReferenced) {
				return apperr.CategoryInUseErr.WrapParent(err)
			}
			return fmt.Errorf("category repository delete category: %w", notFound(err, apperr.CategoryNotFoundErr))
		}

		return nil
	})
}
