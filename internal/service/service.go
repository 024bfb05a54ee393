package service

import (
	"errors"

	"github.com/tuanvumaihuynh/stock-ledger/internal/apperr"
	"github.com/tuanvumaihuynh/stock-ledger/internal/repository"
	"github.com/tuanvumaihuynh/stock-ledger/pkg/validator"
	"github.com/tuanvumaihuynh/stock-ledger/pkg/zerror"
)

func validate(v validator.Validator, params any) error {
	if err := v.Validate(params); err != nil {
		return apperr.ValidationErr.WrapParent(err)
	}
	return nil
}

// notFound replaces a repository.ErrNotFound with the given domain error and
// leaves every other error untouched.
func notFound(err error, zErr zerror.ZError) error {
	if errors.Is(err, repository.ErrNotFound) {
		return zErr.WrapParent(err)
	}
	return err
}
