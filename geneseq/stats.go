package geneseq

import (
	"gonum.org/v1/gonum/stat"
)

// Stats summarises the scores of one generation.
type Stats struct {
	Generation int
	Best       float64
	Worst      float64
	Mean       float64
	Stdev      float64 // sample standard deviation, 0 for a single individual
}

// computeStats expects scores sorted in descending order.
func computeStats(generation int, scores []float64) Stats {
	s := Stats{Generation: generation}
	if len(scores) == 0 {
		return s
	}
	s.Best = scores[0]
	s.Worst = scores[len(scores)-1]
	if len(scores) < 2 {
		s.Mean = scores[0]
		return s
	}
	s.Mean, s.Stdev = stat.MeanStdDev(scores, nil)
	return s
}
