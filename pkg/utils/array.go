package utils

import (
	"golang.org/x/exp/constraints"
)

// Max returns the biggest item of a sequence. Exercised by AsciiFrame's
// column-width computation.
func Max[T constraints.Ordered](input []T) T {
	max := input[0]

	for _, item := range input {
		if item > max {
			max = item
		}
	}

	return max
}
