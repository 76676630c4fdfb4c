package geneseq

import "math"

// evaluate scores one individual against the cached target positions.
// Each gene contributes evalIndex^d where d is the distance in pool order
// between the chosen gene and the target gene; the mean of the contributions
// is the score. A perfect match scores exactly 1.
func evaluate[G comparable](gs *GeneSpace[G], evalIndex float64, individual []G) float64 {
	sum := 0.0
	for i, g := range individual {
		a := gs.index[g]
		b := gs.targetIndices[i]
		d := a - b
		if d < 0 {
			d = -d
		}
		sum += math.Pow(evalIndex, float64(d))
	}
	// Large distances with a small index underflow to 0 (0.01^200 already
	// does); keep the score strictly positive.
	score := sum / float64(len(individual))
	if score == 0 {
		score = math.SmallestNonzeroFloat64
	}
	return score
}

// evaluatePopulation scores every individual, index aligned with population.
func evaluatePopulation[G comparable](gs *GeneSpace[G], evalIndex float64, population [][]G) []float64 {
	scores := make([]float64, len(population))
	for i, ind := range population {
		scores[i] = evaluate(gs, evalIndex, ind)
	}
	return scores
}
