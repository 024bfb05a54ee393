package http

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/tuanvumaihuynh/stock-ledger/internal/model"
	"github.com/tuanvumaihuynh/stock-ledger/internal/service"
)

type recordMovementRequest struct {
	ProductID       int64              `json:"productId"`
	Type            model.MovementType `json:"type"`
	Quantity        int                `json:"quantity"`
	ResponsibleUser *string            `json:"responsibleUser"`
	Reason          *string            `json:"reason"`
	SalePrice       *decimal.Decimal   `json:"salePrice"`
}

// recordMovementResponse is the movement itself plus the product's stock
// after it was applied.
type recordMovementResponse struct {
	model.Movement
	StockQuantity int `json:"stockQuantity"`
}

type movementHandler struct {
	movementSvc service.MovementService
}

func newMovementHandler(movementSvc service.MovementService) *movementHandler {
	return &movementHandler{
		movementSvc: movementSvc,
	}
}

func (h *movementHandler) routes(r chi.Router, wrap func(handlerFunc) http.HandlerFunc) {
	r.Post("/", wrap(h.RecordMovement))
	r.Get("/", wrap(h.ListMovements))
	r.Get("/{id}", wrap(h.GetMovement))
	r.Get("/product/{productId}", wrap(h.ListMovementsByProduct))
}

func (h *movementHandler) RecordMovement(w http.ResponseWriter, r *http.Request) error {
	var req recordMovementRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return err
	}

	res, err := h.movementSvc.RecordMovement(r.Context(), service.RecordMovementParams{
		ProductID:       req.ProductID,
		Type:            req.Type,
		Quantity:        req.Quantity,
		ResponsibleUser: req.ResponsibleUser,
		Reason:          req.Reason,
		SalePrice:       req.SalePrice,
	})
	if err != nil {
		return fmt.Errorf("movement service record movement: %w", err)
	}

	w.Header().Set("Location", fmt.Sprintf("/api/movements/%d", res.Movement.ID))
	return writeJSON(w, http.StatusCreated, recordMovementResponse{
		Movement:      res.Movement,
		StockQuantity: res.StockQuantity,
	})
}

func (h *movementHandler) ListMovements(w http.ResponseWriter, r *http.Request) error {
	movements, err := h.movementSvc.ListAllMovements(r.Context())
	if err != nil {
		return fmt.Errorf("movement service list all movements: %w", err)
	}
	return writeJSON(w, http.StatusOK, list(movements))
}

func (h *movementHandler) GetMovement(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r, "id")
	if err != nil {
		return err
	}

	movement, err := h.movementSvc.GetMovement(r.Context(), id)
	if err != nil {
		return fmt.Errorf("movement service get movement: %w", err)
	}
	return writeJSON(w, http.StatusOK, movement)
}

func (h *movementHandler) ListMovementsByProduct(w http.ResponseWriter, r *http.Request) error {
	productID, err := pathID(r, "productId")
	if err != nil {
		return err
	}

	movements, err := h.movementSvc.ListMovementsByProduct(r.Context(), productID)
	if err != nil {
		return fmt.Errorf("movement service list movements by product: %w", err)
	}
	return writeJSON(w, http.StatusOK, list(movements))
}
