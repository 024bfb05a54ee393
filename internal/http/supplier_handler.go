package http

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tuanvumaihuynh/stock-ledger/internal/service"
)

type supplierRequest struct {
	Name    string  `json:"name"`
	TaxID   *string `json:"taxId"`
	Phone   *string `json:"phone"`
	Email   *string `json:"email"`
	Address *string `json:"address"`
}

type supplierHandler struct {
	supplierSvc service.SupplierService
}

func newSupplierHandler(supplierSvc service.SupplierService) *supplierHandler {
	return &supplierHandler{
		supplierSvc: supplierSvc,
	}
}

func (h *supplierHandler) routes(r chi.Router, wrap func(handlerFunc) http.HandlerFunc) {
	r.Post("/", wrap(h.CreateSupplier))
	r.Get("/", wrap(h.ListSuppliers))
	r.Get("/{id}", wrap(h.GetSupplier))
	r.Put("/{id}", wrap(h.UpdateSupplier))
	r.Delete("/{id}", wrap(h.DeleteSupplier))
}

func (h *supplierHandler) CreateSupplier(w http.ResponseWriter, r *http.Request) error {
	var req supplierRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return err
	}

	supplier, err := h.supplierSvc.CreateSupplier(r.Context(), service.CreateSupplierParams{
		Name:    req.Name,
		TaxID:   req.TaxID,
		Phone:   req.Phone,
		Email:   req.Email,
		Address: req.Address,
	})
	if err != nil {
		return fmt.Errorf("supplier service create supplier: %w", err)
	}

	w.Header().Set("Location", fmt.Sprintf("/api/suppliers/%d", supplier.ID))
	return writeJSON(w, http.StatusCreated, supplier)
}

func (h *supplierHandler) ListSuppliers(w http.ResponseWriter, r *http.Request) error {
	name, err := queryParam(r, "name", "")
	if err != nil {
		return err
	}

	suppliers, err := h.supplierSvc.ListSuppliers(r.Context(), name)
	if err != nil {
		return fmt.Errorf("supplier service list suppliers: %w", err)
	}
	return writeJSON(w, http.StatusOK, list(suppliers))
}

func (h *supplierHandler) GetSupplier(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r, "id")
	if err != nil {
		return err
	}

	supplier, err := h.supplierSvc.GetSupplier(r.Context(), id)
	if err != nil {
		return fmt.Errorf("supplier service get supplier: %w", err)
	}
	return writeJSON(w, http.StatusOK, supplier)
}

func (h *supplierHandler) UpdateSupplier(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r, "id")
	if err != nil {
		return err
	}

	var req supplierRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return err
	}

	supplier, err := h.supplierSvc.UpdateSupplier(r.Context(), service.UpdateSupplierParams{
		ID:      id,
		Name:    req.Name,
		TaxID:   req.TaxID,
		Phone:   req.Phone,
		Email:   req.Email,
		Address: req.Address,
	})
	if err != nil {
		return fmt.Errorf("supplier service update supplier: %w", err)
	}
	return writeJSON(w, http.StatusOK, supplier)
}

func (h *supplierHandler) DeleteSupplier(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r, "id")
	if err != nil {
		return err
	}

	if err := h.supplierSvc.DeleteSupplier(r.Context(), id); err != nil {
		return fmt.Errorf("supplier service delete supplier: %w", err)
	}
	return noContent(w)
}
