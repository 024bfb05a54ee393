package model

// Page is a slice of results plus the paging information needed to fetch the
// rest. Page numbers start at 0.
type Page[T any] struct {
	Items      []T   `json:"items"`
	Page       int   `json:"page"`
	Size       int   `json:"size"`
	TotalItems int64 `json:"totalItems"`
	TotalPages int   `json:"totalPages"`
}

func NewPage[T any](items []T, page, size int, total int64) Page[T] {
	if items == nil {
		items = []T{}
	}
	pages := 0
	if size > 0 {
		pages = int((total + int64(size) - 1) / int64(size))
	}
	return Page[T]{
		Items:      items,
		Page:       page,
		Size:       size,
		TotalItems: total,
		TotalPages: pages,
	}
}
