package geneseq

import (
	"fmt"
	"iter"
	"math/rand"
	"slices"
)

// Engine evolves a population of gene sequences toward a target, one
// generation per call to Advance. It never stops on its own; callers decide
// how many generations to run.
//
// An Engine is not safe for concurrent use.
type Engine[G comparable] struct {
	params   Params
	space    *GeneSpace[G]
	rng      *rand.Rand
	reporter Reporter

	started    bool
	generation int
	population [][]G     // sorted by descending score once started
	scores     []float64 // index aligned with population
}

// Snapshot is the view of one generation yielded by Engine.Generations.
type Snapshot[G comparable] struct {
	Generation int
	Fittest    []G
	Score      float64
	Stats      Stats
}

type settings struct {
	params   Params
	rng      *rand.Rand
	seed     int64
	hasSeed  bool
	reporter Reporter
	initial  any
}

// Option configures an Engine at construction time.
type Option func(*settings)

// WithParams replaces DefaultParams.
func WithParams(p Params) Option {
	return func(s *settings) { s.params = p }
}

// WithRand makes the engine draw all randomness from rng.
func WithRand(rng *rand.Rand) Option {
	return func(s *settings) { s.rng = rng }
}

// WithSeed seeds a private random source. Ignored when WithRand is also given.
func WithSeed(seed int64) Option {
	return func(s *settings) {
		s.seed = seed
		s.hasSeed = true
	}
}

// WithReporter attaches a progress reporter.
func WithReporter(r Reporter) Option {
	return func(s *settings) { s.reporter = r }
}

// WithInitialIndividual seeds generation 0 with copies of seed.
func WithInitialIndividual[G comparable](seed []G) Option {
	return func(s *settings) { s.initial = seed }
}

// New creates an engine for the given gene pool and target. Every setting is
// validated here; a returned engine always advances without error.
func New[G comparable](genes, target []G, opts ...Option) (*Engine[G], error) {
	s := settings{params: DefaultParams()}
	for _, opt := range opts {
		opt(&s)
	}

	if err := s.params.Validate(); err != nil {
		return nil, err
	}
	space, err := newGeneSpace(genes, target)
	if err != nil {
		return nil, err
	}
	if s.initial != nil {
		seed, ok := s.initial.([]G)
		if !ok {
			return nil, fmt.Errorf("%w: initial_individual has type %T, want %T", ErrConfiguration, s.initial, []G(nil))
		}
		if err := space.setInitial(seed); err != nil {
			return nil, err
		}
	}

	rng := s.rng
	if rng == nil {
		seed := s.seed
		if !s.hasSeed {
			seed = rand.Int63()
		}
		rng = rand.New(rand.NewSource(seed))
	}
	reporter := s.reporter
	if reporter == nil {
		reporter = nopReporter{}
	}

	return &Engine[G]{
		params:   s.params,
		space:    space,
		rng:      rng,
		reporter: reporter,
	}, nil
}

// Advance moves the engine forward by exactly one generation. The first call
// builds and scores generation 0; later calls breed, mutate, score and sort
// the next one.
func (e *Engine[G]) Advance() {
	var next [][]G
	if !e.started {
		next = initialPopulation(e.space, e.params.PopulationSize, e.rng)
	} else {
		next = reproduce(e.population, e.params, e.rng)
		next = mutatePopulation(next, e.space.genes, e.params.MutationChance, e.params.MutationIndex, e.rng)
	}

	scores := evaluatePopulation(e.space, e.params.EvaluationIndex, next)
	sortByScore(next, scores)

	if e.started {
		e.generation++
	} else {
		e.started = true
		e.generation = 0
	}
	e.population = next
	e.scores = scores

	e.reporter.EndGeneration(computeStats(e.generation, e.scores))
}

// Reset discards the population and returns to the not-started state.
// Parameters and the gene space are kept.
func (e *Engine[G]) Reset() {
	e.started = false
	e.generation = 0
	e.population = nil
	e.scores = nil
	e.reporter.Reset()
}

// Generations returns an endless sequence that advances the engine once per
// step and yields the generation number with a snapshot. Stop by breaking
// out of the range loop.
func (e *Engine[G]) Generations() iter.Seq2[int, Snapshot[G]] {
	return func(yield func(int, Snapshot[G]) bool) {
		for {
			e.Advance()
			snap := Snapshot[G]{
				Generation: e.generation,
				Fittest:    slices.Clone(e.population[0]),
				Score:      e.scores[0],
				Stats:      computeStats(e.generation, e.scores),
			}
			if !yield(e.generation, snap) {
				return
			}
		}
	}
}

// Evaluate scores an individual against the target without touching engine state.
func (e *Engine[G]) Evaluate(individual []G) (float64, error) {
	if len(individual) != e.space.Len() {
		return 0, fmt.Errorf("%w: individual length %d does not match target length %d",
			ErrConfiguration, len(individual), e.space.Len())
	}
	if _, err := positions(e.space.index, individual, "individual"); err != nil {
		return 0, err
	}
	return evaluate(e.space, e.params.EvaluationIndex, individual), nil
}

// Permute reorders population and scores in lockstep: position k afterwards
// holds what was at order[k].
func (e *Engine[G]) Permute(order []int) error {
	if !e.started {
		return ErrNotStarted
	}
	if len(order) != len(e.population) {
		return fmt.Errorf("%w: permutation has %d entries, population has %d",
			ErrConfiguration, len(order), len(e.population))
	}
	seen := make([]bool, len(order))
	for _, idx := range order {
		if idx < 0 || idx >= len(order) || seen[idx] {
			return fmt.Errorf("%w: %v is not a permutation", ErrConfiguration, order)
		}
		seen[idx] = true
	}
	applyOrder(e.population, e.scores, order)
	return nil
}

// --- Configuration ---

// SetParams replaces the evolution parameters. The population size cannot
// change while a run is in progress. A new evaluation index re-scores the
// live population.
func (e *Engine[G]) SetParams(p Params) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if e.started && p.PopulationSize != e.params.PopulationSize {
		return fmt.Errorf("%w: population_size cannot change during a run, reset first", ErrConfiguration)
	}
	indexChanged := p.EvaluationIndex != e.params.EvaluationIndex
	e.params = p
	if indexChanged {
		e.rescore()
	}
	return nil
}

// rescore re-evaluates and re-sorts the live population after the gene
// space or the evaluation index changed.
func (e *Engine[G]) rescore() {
	if !e.started {
		return
	}
	e.scores = evaluatePopulation(e.space, e.params.EvaluationIndex, e.population)
	sortByScore(e.population, e.scores)
}

// SetGenes replaces the gene pool. The target, the seed individual and any
// live population must only use genes from the new pool. A live population
// is re-scored against the new distances.
func (e *Engine[G]) SetGenes(genes []G) error {
	if e.started {
		if err := expressible(buildIndex(genes), e.population); err != nil {
			return err
		}
	}
	if err := e.space.setGenes(genes); err != nil {
		return err
	}
	e.rescore()
	return nil
}

// SetTarget replaces the target. During a run its length must stay the same
// and the population is re-scored.
func (e *Engine[G]) SetTarget(target []G) error {
	if e.started && len(target) != e.space.Len() {
		return fmt.Errorf("%w: target length cannot change during a run, reset first", ErrConfiguration)
	}
	if err := e.space.setTarget(target); err != nil {
		return err
	}
	e.rescore()
	return nil
}

// SetGeneSpace replaces pool and target together.
func (e *Engine[G]) SetGeneSpace(genes, target []G) error {
	if e.started {
		if len(target) != e.space.Len() {
			return fmt.Errorf("%w: target length cannot change during a run, reset first", ErrConfiguration)
		}
		if err := expressible(buildIndex(genes), e.population); err != nil {
			return err
		}
	}
	if err := e.space.replace(genes, target); err != nil {
		return err
	}
	e.rescore()
	return nil
}

// SetInitialIndividual sets the seed for generation 0; nil removes it.
func (e *Engine[G]) SetInitialIndividual(seed []G) error {
	return e.space.setInitial(seed)
}

// --- Accessors ---

// Len is the length of the target and of every individual.
func (e *Engine[G]) Len() int { return e.space.Len() }

// Params returns the current parameters.
func (e *Engine[G]) Params() Params { return e.params }

// GeneSpace exposes the read-only gene space.
func (e *Engine[G]) GeneSpace() *GeneSpace[G] { return e.space }

// Generation returns the current generation number; ok is false before the first Advance.
func (e *Engine[G]) Generation() (gen int, ok bool) {
	return e.generation, e.started
}

// FittestIndividual returns a copy of the highest ranked individual.
func (e *Engine[G]) FittestIndividual() ([]G, bool) {
	if !e.started {
		return nil, false
	}
	return slices.Clone(e.population[0]), true
}

// FittestScore returns the score of the highest ranked individual.
func (e *Engine[G]) FittestScore() (float64, bool) {
	if !e.started {
		return 0, false
	}
	return e.scores[0], true
}

// Population returns a deep copy of the current population, nil before the first Advance.
func (e *Engine[G]) Population() [][]G { return clonePopulation(e.population) }

// Scores returns a copy of the current scores, nil before the first Advance.
func (e *Engine[G]) Scores() []float64 {
	if e.scores == nil {
		return nil
	}
	return slices.Clone(e.scores)
}

// Stats summarises the current generation.
func (e *Engine[G]) Stats() (Stats, bool) {
	if !e.started {
		return Stats{}, false
	}
	return computeStats(e.generation, e.scores), true
}
