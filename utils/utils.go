// Package utils implements various helper functions.
package utils

import (
	"golang.org/x/exp/constraints"
)

// Min returns the minimum between to comparable values.
func Min[T constraints.Ordered](a, b T) T {
	if a <= b {
		return a
	}
	return b
}

// Max returns the maximum between to comparable values.
func Max[T constraints.Ordered](a, b T) T {
	if a >= b {
		return a
	}
	return b
}

// MinSlice returns the minimum value of a slice of comparable values.
func MinSlice[T constraints.Ordered](slice []T) (min T) {
	min = slice[0]
	for _, v := range slice[1:] {
		min = Min(min, v)
	}
	return
}

// MaxSlice returns the maximum value of a slice of comparable values.
func MaxSlice[T constraints.Ordered](slice []T) (max T) {
	max = slice[0]
	for _, v := range slice[1:] {
		max = Max(max, v)
	}
	return
}

// AllDistinct returns true if all elements in s are distinct, and false otherwise.
func AllDistinct[V comparable](s []V) bool {
	m := make(map[V]struct{}, len(s))
	for _, si := range s {
		if _, exists := m[si]; exists {
			return false
		}
		m[si] = struct{}{}
	}
	return true
}
