package services

import "store-route-service/internal/domain"

// DefaultMaxTwoOptPasses bounds ImproveTour on degenerate matrices.
const DefaultMaxTwoOptPasses = 1000

// ImproveTour applies 2-opt local search to order, a visiting order of points 1..n-1
// that starts from the fixed point 0.
//
// Working on the path [0, p1..pn], every segment path[i..k] with 1 <= i < k <= len(path)-2
// (path positions) is reversed and kept only when the full path cost strictly drops.
// The last path position is never moved. Passes repeat until one finds no
// improvement or maxPasses is reached. The result is a local optimum, not a
// global one, and its cost never exceeds the cost of order.
//
// It returns the improved order and the number of passes run.
func ImproveTour(m domain.DurationMatrix, order []int, maxPasses int) ([]int, int) {
	if maxPasses <= 0 {
		maxPasses = DefaultMaxTwoOptPasses
	}

	path := make([]int, 0, len(order)+1)
	path = append(path, 0)
	path = append(path, order...)

	best := m.PathCost(path)
	passes := 0

	for improved := true; improved && passes < maxPasses; {
		improved = false
		passes++

		for i := 1; i < len(path)-2; i++ {
			for k := i + 1; k < len(path)-1; k++ {
				reverse(path[i : k+1])
				if c := m.PathCost(path); c < best {
					best = c
					improved = true
				} else {
					reverse(path[i : k+1])
				}
			}
		}
	}

	return path[1:], passes
}

func reverse(s []int) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
