package ptr

// New returns a pointer to a copy of v.
func New[T any](v T) *T { return &v }

// ValueOr dereferences p, or returns fallback when p is nil.
func ValueOr[T any](p *T, fallback T) T {
	if p == nil {
		return fallback
	}
	return *p
}

// Or returns p unless it is nil, in which case it returns fallback.
func Or[T any](p, fallback *T) *T {
	if p == nil {
		return fallback
	}
	return p
}
