package converter

import "iter"

// Split holds the one to three pages produced from a single source page, in
// reading order. The backing array lives inline so a Split never allocates.
type Split[T any] struct {
	items [3]T
	n     int
}

// One returns a Split with a single page.
func One[T any](a T) Split[T] {
	return Split[T]{items: [3]T{a}, n: 1}
}

// Two returns a Split with two pages.
func Two[T any](a, b T) Split[T] {
	return Split[T]{items: [3]T{a, b}, n: 2}
}

// Three returns a Split with three pages.
func Three[T any](a, b, c T) Split[T] {
	return Split[T]{items: [3]T{a, b, c}, n: 3}
}

// Len returns the number of pages, always 1, 2 or 3 for a constructed Split.
func (s Split[T]) Len() int { return s.n }

// At returns the i-th page. It panics when i is out of range.
func (s Split[T]) At(i int) T {
	if i < 0 || i >= s.n {
		panic("converter: split index out of range")
	}
	return s.items[i]
}

// All iterates the pages with their variant index.
func (s Split[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i := 0; i < s.n; i++ {
			if !yield(i, s.items[i]) {
				return
			}
		}
	}
}

// MapSplit converts every page of s with f, preserving order and count.
func MapSplit[T, U any](s Split[T], f func(T) U) Split[U] {
	out := Split[U]{n: s.n}
	for i := 0; i < s.n; i++ {
		out.items[i] = f(s.items[i])
	}
	return out
}
