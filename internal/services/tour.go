package services

import "store-route-service/internal/domain"

// ConstructTour builds a greedy nearest-neighbour tour over m starting at point 0.
//
// It returns the visiting order of points 1..n-1. At each step the cheapest
// unvisited successor of the current point wins; ties go to the lowest index.
// The result seeds ImproveTour and is not expected to be good on its own.
func ConstructTour(m domain.DurationMatrix) []int {
	n := m.Size()
	if n <= 1 {
		return []int{}
	}

	visited := make([]bool, n)
	visited[0] = true
	order := make([]int, 0, n-1)

	current := 0
	for len(order) < n-1 {
		best := -1
		for j := 1; j < n; j++ {
			if visited[j] {
				continue
			}
			if best == -1 || m[current][j] < m[current][best] {
				best = j
			}
		}

		visited[best] = true
		order = append(order, best)
		current = best
	}

	return order
}
