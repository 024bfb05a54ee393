package apperr

import "github.com/tuanvumaihuynh/stock-ledger/pkg/zerror"

const (
	ValidationErrorCode = "VALIDATION_FAILED"

	ProductNotFoundCode  = "PRODUCT_NOT_FOUND"
	CategoryNotFoundCode = "CATEGORY_NOT_FOUND"
	SupplierNotFoundCode = "SUPPLIER_NOT_FOUND"
	MovementNotFoundCode = "MOVEMENT_NOT_FOUND"

	InsufficientStockCode = "INSUFFICIENT_STOCK"

	SkuAlreadyExistsCode           = "SKU_ALREADY_EXISTS"
	CategoryNameAlreadyExistsCode  = "CATEGORY_NAME_ALREADY_EXISTS"
	SupplierTaxIDAlreadyExistsCode = "SUPPLIER_TAX_ID_ALREADY_EXISTS"
	CategoryInUseCode              = "CATEGORY_IN_USE"
	SupplierInUseCode              = "SUPPLIER_IN_USE"
)

var (
	ValidationErr = zerror.NewValidationFailed(ValidationErrorCode, "validation error")

	ProductNotFoundErr  = zerror.NewNotFound(ProductNotFoundCode, "product not found")
	CategoryNotFoundErr = zerror.NewNotFound(CategoryNotFoundCode, "category not found")
	SupplierNotFoundErr = zerror.NewNotFound(SupplierNotFoundCode, "supplier not found")
	MovementNotFoundErr = zerror.NewNotFound(MovementNotFoundCode, "movement not found")

	// InsufficientStockErr is a business rule violation, kept apart from
	// request validation.
	InsufficientStockErr = zerror.NewUnprocessableEntity(InsufficientStockCode, "insufficient stock")

	SkuAlreadyExistsErr           = zerror.NewConflict(SkuAlreadyExistsCode, "sku already exists")
	CategoryNameAlreadyExistsErr  = zerror.NewConflict(CategoryNameAlreadyExistsCode, "category name already exists")
	SupplierTaxIDAlreadyExistsErr = zerror.NewConflict(SupplierTaxIDAlreadyExistsCode, "supplier tax id already exists")
	CategoryInUseErr              = zerror.NewConflict(CategoryInUseCode, "category has products")
	SupplierInUseErr              = zerror.NewConflict(SupplierInUseCode, "supplier has products")
)
