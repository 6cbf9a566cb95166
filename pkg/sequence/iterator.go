package sequence

import (
	"iter"
	"slices"
)

// Iterator is a lazy, chainable sequence of T. Chained stages stop pulling
// from their source as soon as the consumer stops.
type Iterator[T any] struct {
	seq iter.Seq[T]
}

// From creates an Iterator over a slice.
func From[T any](data []T) *Iterator[T] {
	return &Iterator[T]{seq: slices.Values(data)}
}

// FromSeq wraps a standard library sequence.
func FromSeq[T any](seq iter.Seq[T]) *Iterator[T] {
	return &Iterator[T]{seq: seq}
}

// FromChannel creates an Iterator that drains ch until it is closed.
func FromChannel[T any](ch <-chan T) *Iterator[T] {
	return &Iterator[T]{
		seq: func(yield func(T) bool) {
			for v := range ch {
				if !yield(v) {
					return
				}
			}
		},
	}
}

// Seq returns the underlying sequence function.
func (i *Iterator[T]) Seq() iter.Seq[T] {
	return i.seq
}

// Pull converts the iterator into a pull-style next/stop pair.
func (i *Iterator[T]) Pull() (next func() (T, bool), stop func()) {
	return iter.Pull(i.seq)
}

// Collect exhausts the iterator and returns every element.
func (i *Iterator[T]) Collect() []T {
	return slices.Collect(i.seq)
}

// Filter keeps the elements that satisfy pred.
func (i *Iterator[T]) Filter(pred func(T) bool) *Iterator[T] {
	return &Iterator[T]{
		seq: func(yield func(T) bool) {
			for v := range i.seq {
				if pred(v) && !yield(v) {
					return
				}
			}
		},
	}
}

// Take yields at most n elements.
func (i *Iterator[T]) Take(n int) *Iterator[T] {
	return &Iterator[T]{
		seq: func(yield func(T) bool) {
			if n <= 0 {
				return
			}
			count := 0
			for v := range i.seq {
				if !yield(v) {
					return
				}
				if count++; count >= n {
					return
				}
			}
		},
	}
}

// Reduce folds the iterator into a single value.
func (i *Iterator[T]) Reduce(init T, reducer func(T, T) T) T {
	acc := init
	for v := range i.seq {
		acc = reducer(acc, v)
	}
	return acc
}

// First returns the first element, or false if empty.
func (i *Iterator[T]) First() (T, bool) {
	for v := range i.seq {
		return v, true
	}
	var zero T
	return zero, false
}

// Any reports whether some element matches pred.
func (i *Iterator[T]) Any(pred func(T) bool) bool {
	for v := range i.seq {
		if pred(v) {
			return true
		}
	}
	return false
}

// Count exhausts the iterator and returns its length.
func (i *Iterator[T]) Count() int {
	n := 0
	for range i.seq {
		n++
	}
	return n
}

// Map applies fn to each element.
func Map[T, R any](it *Iterator[T], fn func(T) R) *Iterator[R] {
	return &Iterator[R]{
		seq: func(yield func(R) bool) {
			for v := range it.seq {
				if !yield(fn(v)) {
					return
				}
			}
		},
	}
}

// Chain concatenates iterators.
func Chain[T any](iters ...*Iterator[T]) *Iterator[T] {
	return &Iterator[T]{
		seq: func(yield func(T) bool) {
			for _, it := range iters {
				for v := range it.seq {
					if !yield(v) {
						return
					}
				}
			}
		},
	}
}
