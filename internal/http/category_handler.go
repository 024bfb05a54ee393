package http

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tuanvumaihuynh/stock-ledger/internal/service"
)

type categoryRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

type categoryHandler struct {
	categorySvc service.CategoryService
}

func newCategoryHandler(categorySvc service.CategoryService) *categoryHandler {
	return &categoryHandler{
		categorySvc: categorySvc,
	}
}

func (h *categoryHandler) routes(r chi.Router, wrap func(handlerFunc) http.HandlerFunc) {
	r.Post("/", wrap(h.CreateCategory))
	r.Get("/", wrap(h.ListCategories))
	r.Get("/{id}", wrap(h.GetCategory))
	r.Put("/{id}", wrap(h.UpdateCategory))
	r.Delete("/{id}", wrap(h.DeleteCategory))
}

func (h *categoryHandler) CreateCategory(w http.ResponseWriter, r *http.Request) error {
	var req categoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return err
	}

	category, err := h.categorySvc.CreateCategory(r.Context(), service.CreateCategoryParams{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return fmt.Errorf("category service create category: %w", err)
	}

	w.Header().Set("Location", fmt.Sprintf("/api/categories/%d", category.ID))
	return writeJSON(w, http.StatusCreated, category)
}

func (h *categoryHandler) ListCategories(w http.ResponseWriter, r *http.Request) error {
	categories, err := h.categorySvc.ListCategories(r.Context())
	if err != nil {
		return fmt.Errorf("category service list categories: %w", err)
	}
	return writeJSON(w, http.StatusOK, list(categories))
}

func (h *categoryHandler) GetCategory(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r, "id")
	if err != nil {
		return err
	}

	category, err := h.categorySvc.GetCategory(r.Context(), id)
	if err != nil {
		return fmt.Errorf("category service get category: %w", err)
	}
	return writeJSON(w, http.StatusOK, category)
}

func (h *categoryHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r, "id")
	if err != nil {
		return err
	}

	var req categoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return err
	}

	category, err := h.categorySvc.UpdateCategory(r.Context(), service.UpdateCategoryParams{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return fmt.Errorf("category service update category: %w", err)
	}
	return writeJSON(w, http.StatusOK, category)
}

func (h *categoryHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r, "id")
	if err != nil {
		return err
	}

	if err := h.categorySvc.DeleteCategory(r.Context(), id); err != nil {
		return fmt.Errorf("category service delete category: %w", err)
	}
	return noContent(w)
}
