package geneseq

import (
	"math/rand"
	"slices"
	"sort"
)

// Crossover joins the first half of a with the second half of b.
// The cut is fixed at len(a)/2, so for odd lengths b contributes the larger part.
// The child never shares storage with either parent.
func Crossover[G any](a, b []G) []G {
	mid := len(a) / 2
	child := make([]G, 0, len(b))
	child = append(child, a[:mid]...)
	child = append(child, b[mid:]...)
	return child
}

// pickTwo draws two distinct indices uniformly from [0, n). n must be at least 2.
func pickTwo(n int, rng *rand.Rand) (int, int) {
	i := rng.Intn(n)
	j := rng.Intn(n - 1)
	if j >= i {
		j++
	}
	return i, j
}

// reproduce builds the next, unscored generation from a population sorted by
// descending score: the top keepN are carried over as copies and the rest are
// children of two distinct parents drawn from the top selectN.
func reproduce[G any](sorted [][]G, p Params, rng *rand.Rand) [][]G {
	parents := sorted[:p.SelectN]

	next := make([][]G, 0, p.PopulationSize)
	for _, elite := range sorted[:p.KeepN] {
		next = append(next, slices.Clone(elite))
	}

	for range p.PopulationSize - p.KeepN {
		i, j := pickTwo(len(parents), rng)
		next = append(next, Crossover(parents[i], parents[j]))
	}
	return next
}

// sortByScore reorders population and scores together, highest score first.
// Ties keep their previous relative order.
func sortByScore[G any](population [][]G, scores []float64) {
	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})
	applyOrder(population, scores, order)
}

// applyOrder permutes population and scores so that new position k holds old position order[k].
func applyOrder[G any](population [][]G, scores []float64, order []int) {
	pop := make([][]G, len(order))
	sc := make([]float64, len(order))
	for k, idx := range order {
		pop[k] = population[idx]
		sc[k] = scores[idx]
	}
	copy(population, pop)
	copy(scores, sc)
}
