package geneseq

import (
	"math/rand"
	"slices"
)

// randomIndividual draws length genes uniformly, with replacement, from genes.
func randomIndividual[G comparable](genes []G, length int, rng *rand.Rand) []G {
	ind := make([]G, length)
	for i := range ind {
		ind[i] = genes[rng.Intn(len(genes))]
	}
	return ind
}

// initialPopulation builds generation 0. With a seed every member is an
// independent copy of it; otherwise every member is drawn at random.
// The result is neither scored nor sorted.
func initialPopulation[G comparable](gs *GeneSpace[G], size int, rng *rand.Rand) [][]G {
	population := make([][]G, size)
	for i := range population {
		if gs.initial != nil {
			population[i] = slices.Clone(gs.initial)
		} else {
			population[i] = randomIndividual(gs.genes, gs.Len(), rng)
		}
	}
	return population
}

// clonePopulation deep-copies a population.
func clonePopulation[G any](population [][]G) [][]G {
	if population == nil {
		return nil
	}
	out := make([][]G, len(population))
	for i, ind := range population {
		out[i] = slices.Clone(ind)
	}
	return out
}
