package http_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/stock-ledger/internal/apperr"
	"github.com/tuanvumaihuynh/stock-ledger/internal/model"
	"github.com/tuanvumaihuynh/stock-ledger/internal/service"
)

func TestRecordMovement(t *testing.T) {
	movement := model.Movement{
		ID:          42,
		ProductID:   7,
		ProductName: "Widget",
		Type:        model.MovementTypeOutbound,
		Quantity:    3,
		DateTime:    time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		SalePrice:   decimal.RequireFromString("9.90"),
	}

	t.Run("Should record a movement and point to it", func(t *testing.T) {
		env := newTestEnv(t, nil)
		env.movementSvc.On("RecordMovement", mock.Anything, mock.MatchedBy(func(p service.RecordMovementParams) bool {
			return p.ProductID == 7 &&
				p.Type == model.MovementTypeOutbound &&
				p.Quantity == 3 &&
				p.Reason != nil && *p.Reason == model.ReasonSale &&
				p.SalePrice != nil && p.SalePrice.Equal(decimal.RequireFromString("9.90"))
		})).Return(service.RecordMovementResult{Movement: movement, StockQuantity: 17}, nil).Once()

		resp := env.do(http.MethodPost, "/api/movements",
			`{"productId":7,"type":"OUTBOUND","quantity":3,"reason":"SALE","salePrice":9.90}`)

		require.Equal(t, http.StatusCreated, resp.Code)
		assert.Equal(t, "/api/movements/42", resp.Header().Get("Location"))

		var body struct {
			model.Movement
			StockQuantity int `json:"stockQuantity"`
		}
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
		assert.Equal(t, 17, body.StockQuantity)
		assert.Equal(t, int64(42), body.ID)
		assert.True(t, movement.SalePrice.Equal(body.SalePrice))

		var raw map[string]any
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &raw))
		assert.NotContains(t, raw, "movement")
		assert.EqualValues(t, 42, raw["id"])
		assert.EqualValues(t, 7, raw["productId"])
	})

	t.Run("Should accept legacy type labels", func(t *testing.T) {
		env := newTestEnv(t, nil)
		env.movementSvc.On("RecordMovement", mock.Anything, mock.MatchedBy(func(p service.RecordMovementParams) bool {
			return p.Type == model.MovementTypeInbound
		})).Return(service.RecordMovementResult{Movement: movement}, nil).Once()

		resp := env.do(http.MethodPost, "/api/movements", `{"productId":7,"type":"entrada","quantity":3}`)

		assert.Equal(t, http.StatusCreated, resp.Code)
	})

	t.Run("Should reject a malformed body without calling the ledger", func(t *testing.T) {
		env := newTestEnv(t, nil)

		for _, body := range []string{"", `{"productId":"seven"}`, `{"productId":7,"warehouse":1}`} {
			resp := env.do(http.MethodPost, "/api/movements", body)

			assert.Equal(t, http.StatusBadRequest, resp.Code, body)
			res := decodeError(t, resp)
			assert.Equal(t, apperr.ValidationErrorCode, res.Code)
			if assert.Len(t, res.Details, 1) {
				assert.Equal(t, "body", res.Details[0].Field)
			}
		}
	})

	t.Run("Should map ledger errors", func(t *testing.T) {
		cases := []struct {
			err  error
			code int
		}{
			{apperr.ValidationErr, http.StatusBadRequest},
			{apperr.ProductNotFoundErr, http.StatusNotFound},
			{apperr.InsufficientStockErr.WithMsg("only 2 units in stock"), http.StatusUnprocessableEntity},
			{fmt.Errorf("begin transaction: %w", assert.AnError), http.StatusInternalServerError},
		}

		for _, tc := range cases {
			env := newTestEnv(t, nil)
			env.movementSvc.On("RecordMovement", mock.Anything, mock.Anything).
				Return(service.RecordMovementResult{}, tc.err).Once()

			resp := env.do(http.MethodPost, "/api/movements", `{"productId":7,"type":"OUTBOUND","quantity":3}`)

			assert.Equal(t, tc.code, resp.Code, tc.err.Error())
			assert.Empty(t, resp.Header().Get("Location"))
		}
	})
}

func TestListMovements(t *testing.T) {
	t.Run("Should encode no movements as an empty list", func(t *testing.T) {
		env := newTestEnv(t, nil)
		env.movementSvc.On("ListAllMovements", mock.Anything).Return([]model.Movement(nil), nil).Once()

		resp := env.do(http.MethodGet, "/api/movements", "")

		assert.Equal(t, http.StatusOK, resp.Code)
		assert.JSONEq(t, `[]`, resp.Body.String())
	})

	t.Run("Should list the movements of a product", func(t *testing.T) {
		env := newTestEnv(t, nil)
		env.movementSvc.On("ListMovementsByProduct", mock.Anything, int64(7)).
			Return([]model.Movement{{ID: 1, ProductID: 7}, {ID: 2, ProductID: 7}}, nil).Once()

		resp := env.do(http.MethodGet, "/api/movements/product/7", "")

		require.Equal(t, http.StatusOK, resp.Code)
		var got []model.Movement
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &got))
		assert.Len(t, got, 2)
	})

	t.Run("Should report an unknown product", func(t *testing.T) {
		env := newTestEnv(t, nil)
		env.movementSvc.On("ListMovementsByProduct", mock.Anything, int64(99)).
			Return([]model.Movement(nil), apperr.ProductNotFoundErr).Once()

		resp := env.do(http.MethodGet, "/api/movements/product/99", "")

		assert.Equal(t, http.StatusNotFound, resp.Code)
		assert.Equal(t, apperr.ProductNotFoundCode, decodeError(t, resp).Code)
	})
}

func TestGetMovement(t *testing.T) {
	t.Run("Should get a movement", func(t *testing.T) {
		env := newTestEnv(t, nil)
		env.movementSvc.On("GetMovement", mock.Anything, int64(42)).Return(model.Movement{ID: 42}, nil).Once()

		resp := env.do(http.MethodGet, "/api/movements/42", "")

		assert.Equal(t, http.StatusOK, resp.Code)
	})

	t.Run("Should reject a non-numeric id", func(t *testing.T) {
		env := newTestEnv(t, nil)

		resp := env.do(http.MethodGet, "/api/movements/abc", "")

		assert.Equal(t, http.StatusBadRequest, resp.Code)
		res := decodeError(t, resp)
		if assert.Len(t, res.Details, 1) {
			assert.Equal(t, "id", res.Details[0].Field)
		}
	})
}
