package apierr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/stock-ledger/internal/apperr"
	"github.com/tuanvumaihuynh/stock-ledger/internal/http/apierr"
	"github.com/tuanvumaihuynh/stock-ledger/pkg/validator"
)

func TestNew(t *testing.T) {
	t.Run("Should map business errors to their status", func(t *testing.T) {
		cases := map[error]int{
			apperr.ProductNotFoundErr:   http.StatusNotFound,
			apperr.InsufficientStockErr: http.StatusUnprocessableEntity,
			apperr.SkuAlreadyExistsErr:  http.StatusConflict,
			apperr.CategoryInUseErr:     http.StatusConflict,
		}
		for err, status := range cases {
			res := apierr.New(fmt.Errorf("service: %w", err))
			assert.Equal(t, status, res.StatusCode, err.Error())
		}
	})

	t.Run("Should keep the specific message of a business error", func(t *testing.T) {
		res := apierr.New(apperr.InsufficientStockErr.WithMsg("only 3 units left"))

		assert.Equal(t, apperr.InsufficientStockCode, res.Code)
		assert.Equal(t, "only 3 units left", res.Message)
	})

	t.Run("Should list field errors of a failed validation", func(t *testing.T) {
		type params struct {
			Quantity int `validate:"gt=0"`
		}
		verr := validator.MustNewDefaultValidator().Validate(params{})
		require.Error(t, verr)

		res := apierr.New(apperr.ValidationErr.WrapParent(verr))

		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
		assert.Equal(t, apperr.ValidationErrorCode, res.Code)
		require.Len(t, res.Details, 1)
		assert.Equal(t, "Quantity", res.Details[0].Field)
		assert.Equal(t, "must be greater than 0", res.Details[0].Message)
	})

	t.Run("Should report binding errors as validation errors", func(t *testing.T) {
		err := &apierr.BindError{Param: "id", Err: errors.New("not a number")}

		res := apierr.New(err)

		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
		require.Len(t, res.Details, 1)
		assert.Equal(t, "id", res.Details[0].Field)
	})

	t.Run("Should hide unknown errors", func(t *testing.T) {
		res := apierr.New(errors.New("connection reset"))

		assert.Equal(t, apierr.InternalServerErr, res)
	})
}
