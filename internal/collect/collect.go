// Package collect wraps a handful of samber/lo generic helpers used by the
// builder package, so call sites there don't import lo
// directly and can use domain-shaped names instead.
package collect

import "github.com/samber/lo"

// Map applies fn across xs, preserving order.
func Map[T, R any](xs []T, fn func(T) R) []R {
	return lo.Map(xs, func(x T, _ int) R { return fn(x) })
}

// Filter keeps elements of xs for which pred returns true.
func Filter[T any](xs []T, pred func(T) bool) []T {
	return lo.Filter(xs, func(x T, _ int) bool { return pred(x) })
}

// Find returns the first element of xs satisfying pred.
func Find[T any](xs []T, pred func(T) bool) (T, bool) {
	return lo.Find(xs, pred)
}

// Last returns the last element of xs, or the zero value if xs is empty.
func Last[T any](xs []T) T {
	return lo.LastOr(xs, *new(T))
}
