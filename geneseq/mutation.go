package geneseq

import (
	"math/rand"
	"slices"
)

// mutate returns a possibly perturbed copy of individual. With probability
// chance the individual is picked; each of its genes is then resampled from
// genes with probability rate. The input slice is never written.
func mutate[G any](individual, genes []G, chance, rate float64, rng *rand.Rand) []G {
	out := slices.Clone(individual)
	if rng.Float64() >= chance {
		return out
	}
	for i := range out {
		if rng.Float64() < rate {
			out[i] = genes[rng.Intn(len(genes))]
		}
	}
	return out
}

// mutatePopulation applies mutate to every member, elites included.
func mutatePopulation[G any](population [][]G, genes []G, chance, rate float64, rng *rand.Rand) [][]G {
	out := make([][]G, len(population))
	for i, ind := range population {
		out[i] = mutate(ind, genes, chance, rate, rng)
	}
	return out
}
