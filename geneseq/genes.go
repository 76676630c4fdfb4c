package geneseq

import (
	"fmt"
	"slices"
)

// GeneSpace holds the gene pool and the target sequence an engine evolves toward.
// The position of a gene in the pool is its numeric value for distance purposes.
type GeneSpace[G comparable] struct {
	genes         []G
	index         map[G]int // gene -> first position in genes
	target        []G
	targetIndices []int // index of each target gene in genes
	initial       []G   // optional seed individual, nil when absent
}

// newGeneSpace validates pool and target together and builds the lookup tables.
func newGeneSpace[G comparable](genes, target []G) (*GeneSpace[G], error) {
	gs := &GeneSpace[G]{}
	if err := gs.replace(genes, target); err != nil {
		return nil, err
	}
	return gs, nil
}

// buildIndex maps every gene to the position of its first occurrence.
func buildIndex[G comparable](genes []G) map[G]int {
	index := make(map[G]int, len(genes))
	for i, g := range genes {
		if _, seen := index[g]; !seen {
			index[g] = i
		}
	}
	return index
}

// replace swaps pool and target atomically. Nothing changes on error.
func (gs *GeneSpace[G]) replace(genes, target []G) error {
	if len(genes) == 0 {
		return fmt.Errorf("%w: genes must not be empty", ErrConfiguration)
	}
	if len(target) == 0 {
		return fmt.Errorf("%w: target must not be empty", ErrConfiguration)
	}
	index := buildIndex(genes)
	targetIndices, err := positions(index, target, "target")
	if err != nil {
		return err
	}
	if gs.initial != nil {
		if len(gs.initial) != len(target) {
			return fmt.Errorf("%w: initial_individual length %d does not match target length %d",
				ErrConfiguration, len(gs.initial), len(target))
		}
		if _, err := positions(index, gs.initial, "initial_individual"); err != nil {
			return err
		}
	}

	gs.genes = slices.Clone(genes)
	gs.index = index
	gs.target = slices.Clone(target)
	gs.targetIndices = targetIndices
	return nil
}

// setGenes replaces the pool, keeping the target. The target and the seed
// individual must still be expressible in the new pool.
func (gs *GeneSpace[G]) setGenes(genes []G) error {
	return gs.replace(genes, gs.target)
}

// setTarget replaces the target, keeping the pool.
func (gs *GeneSpace[G]) setTarget(target []G) error {
	return gs.replace(gs.genes, target)
}

// setInitial installs (or with nil clears) the seed individual.
func (gs *GeneSpace[G]) setInitial(seed []G) error {
	if seed == nil {
		gs.initial = nil
		return nil
	}
	if len(seed) != len(gs.target) {
		return fmt.Errorf("%w: initial_individual length %d does not match target length %d",
			ErrConfiguration, len(seed), len(gs.target))
	}
	if _, err := positions(gs.index, seed, "initial_individual"); err != nil {
		return err
	}
	gs.initial = slices.Clone(seed)
	return nil
}

// positions resolves every gene of seq to its pool position.
func positions[G comparable](index map[G]int, seq []G, field string) ([]int, error) {
	out := make([]int, len(seq))
	for i, g := range seq {
		pos, ok := index[g]
		if !ok {
			return nil, fmt.Errorf("%w: %s[%d] = %v is not in genes", ErrConfiguration, field, i, g)
		}
		out[i] = pos
	}
	return out, nil
}

// Contains reports whether g belongs to the pool.
func (gs *GeneSpace[G]) Contains(g G) bool {
	_, ok := gs.index[g]
	return ok
}

// Position returns the pool position of g (first occurrence) and whether it was found.
func (gs *GeneSpace[G]) Position(g G) (int, bool) {
	pos, ok := gs.index[g]
	return pos, ok
}

// Len is the target length L shared by every individual.
func (gs *GeneSpace[G]) Len() int {
	return len(gs.target)
}

// Genes returns a copy of the pool.
func (gs *GeneSpace[G]) Genes() []G { return slices.Clone(gs.genes) }

// Target returns a copy of the target sequence.
func (gs *GeneSpace[G]) Target() []G { return slices.Clone(gs.target) }

// TargetIndices returns a copy of the cached target positions.
func (gs *GeneSpace[G]) TargetIndices() []int { return slices.Clone(gs.targetIndices) }

// Initial returns a copy of the seed individual, or nil.
func (gs *GeneSpace[G]) Initial() []G {
	if gs.initial == nil {
		return nil
	}
	return slices.Clone(gs.initial)
}

// expressible checks that every gene of every individual is in the pool described by index.
func expressible[G comparable](index map[G]int, population [][]G) error {
	for i, ind := range population {
		for j, g := range ind {
			if _, ok := index[g]; !ok {
				return fmt.Errorf("%w: population[%d][%d] = %v is not in genes", ErrConfiguration, i, j, g)
			}
		}
	}
	return nil
}
