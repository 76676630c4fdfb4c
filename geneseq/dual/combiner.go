// Package dual runs two geneseq engines side by side and ranks their
// populations by a shared score, so that index i in both populations always
// describes the same combined individual (for example the pitches and the
// attack points of one melody).
package dual

import (
	"errors"
	"fmt"
	"slices"
	"sort"

	"github.com/baldhumanity/geneseq-go/geneseq"
)

// Combiner drives a primary and a secondary engine in lockstep.
type Combiner[A, B comparable] struct {
	primary    *geneseq.Engine[A]
	secondary  *geneseq.Engine[B]
	weight     float64
	normalized bool

	combined []float64 // sorted descending once started
}

// Option configures a Combiner.
type Option func(*options)

type options struct {
	normalized bool
}

// WithNormalizedScore drops the final halving of the combined score, so a
// pair of perfect individuals scores 1 instead of 0.5. Ranking is the same
// either way.
func WithNormalizedScore() Option {
	return func(o *options) { o.normalized = true }
}

// New pairs two engines. weight is the share of the primary score and must
// lie in [0,1]; both engines must use the same population size.
func New[A, B comparable](primary *geneseq.Engine[A], secondary *geneseq.Engine[B], weight float64, opts ...Option) (*Combiner[A, B], error) {
	if primary == nil || secondary == nil {
		return nil, errors.New("dual: both engines are required")
	}
	if weight < 0 || weight > 1 {
		return nil, fmt.Errorf("%w: weight must be between 0 and 1, got %g", geneseq.ErrConfiguration, weight)
	}
	if pa, pb := primary.Params().PopulationSize, secondary.Params().PopulationSize; pa != pb {
		return nil, fmt.Errorf("%w: population sizes differ (%d vs %d)", geneseq.ErrConfiguration, pa, pb)
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return &Combiner[A, B]{
		primary:    primary,
		secondary:  secondary,
		weight:     weight,
		normalized: o.normalized,
	}, nil
}

// CombinedScore mixes two scores with weight w.
func CombinedScore(w, a, b float64, normalized bool) float64 {
	s := w*a + (1-w)*b
	if normalized {
		return s
	}
	return s / 2
}

// Advance moves both engines one generation forward and reorders both
// populations by combined score, best first.
//
// Pairing is by rank: each engine has already sorted its own population, so
// the combined scores come out non-increasing and the shared order is the
// identity. Index i pairs the i-th best pitch sequence with the i-th best
// attack sequence; no individual is re-matched across engines.
func (c *Combiner[A, B]) Advance() error {
	c.primary.Advance()
	c.secondary.Advance()

	scoresA := c.primary.Scores()
	scoresB := c.secondary.Scores()
	if len(scoresA) != len(scoresB) {
		return fmt.Errorf("dual: population sizes diverged (%d vs %d)", len(scoresA), len(scoresB))
	}

	combined := make([]float64, len(scoresA))
	for i := range combined {
		combined[i] = CombinedScore(c.weight, scoresA[i], scoresB[i], c.normalized)
	}

	order := make([]int, len(combined))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return combined[order[i]] > combined[order[j]]
	})

	if err := c.primary.Permute(order); err != nil {
		return fmt.Errorf("dual: reorder primary: %w", err)
	}
	if err := c.secondary.Permute(order); err != nil {
		return fmt.Errorf("dual: reorder secondary: %w", err)
	}

	sorted := make([]float64, len(order))
	for k, idx := range order {
		sorted[k] = combined[idx]
	}
	c.combined = sorted
	return nil
}

// Reset returns both engines to the not-started state.
func (c *Combiner[A, B]) Reset() {
	c.primary.Reset()
	c.secondary.Reset()
	c.combined = nil
}

// Scores returns the combined scores, best first, or nil before the first Advance.
func (c *Combiner[A, B]) Scores() []float64 {
	if c.combined == nil {
		return nil
	}
	return slices.Clone(c.combined)
}

// Fittest returns the top-ranked pair and its combined score.
func (c *Combiner[A, B]) Fittest() (a []A, b []B, score float64, ok bool) {
	if c.combined == nil {
		return nil, nil, 0, false
	}
	a, _ = c.primary.FittestIndividual()
	b, _ = c.secondary.FittestIndividual()
	return a, b, c.combined[0], true
}

// Generation reports the shared generation number.
func (c *Combiner[A, B]) Generation() (int, bool) {
	if c.combined == nil {
		return 0, false
	}
	return c.primary.Generation()
}

// Primary returns the first engine.
func (c *Combiner[A, B]) Primary() *geneseq.Engine[A] { return c.primary }

// Secondary returns the second engine.
func (c *Combiner[A, B]) Secondary() *geneseq.Engine[B] { return c.secondary }
