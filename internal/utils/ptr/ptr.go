// Package ptr has helpers for the nullable fields of create payloads.
package ptr

// To returns a pointer to a copy of v.
func To[T any](v T) *T {
	return &v
}

// Or dereferences p, or returns fallback when p is nil.
func Or[T any](p *T, fallback T) T {
	if p == nil {
		return fallback
	}
	return *p
}

// NonZero returns a pointer to v, or nil when v is the zero value.
func NonZero[T comparable](v T) *T {
	var zero T
	if v == zero {
		return nil
	}
	return &v
}
