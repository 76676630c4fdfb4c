package geneseq

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testGenes  = []string{"A", "B", "C", "D", "E", "F"}
	testTarget = []string{"B", "A", "A", "C", "F", "E", "D"}
)

func newTestEngine(t *testing.T, p Params, opts ...Option) *Engine[string] {
	t.Helper()
	opts = append([]Option{WithParams(p), WithSeed(42)}, opts...)
	e, err := New(testGenes, testTarget, opts...)
	require.NoError(t, err)
	return e
}

func smallParams() Params {
	return Params{
		PopulationSize:  30,
		SelectN:         6,
		KeepN:           2,
		MutationChance:  0.3,
		MutationIndex:   0.2,
		EvaluationIndex: 0.2,
	}
}

func TestNew_Defaults(t *testing.T) {
	e, err := New(testGenes, testTarget)
	require.NoError(t, err)

	assert.Equal(t, DefaultParams(), e.Params())
	assert.Equal(t, len(testTarget), e.Len())
	assert.Nil(t, e.GeneSpace().Initial())
}

func TestNew_Rejections(t *testing.T) {
	bad := func(mod func(*Params)) Params {
		p := DefaultParams()
		mod(&p)
		return p
	}
	tests := []struct {
		name string
		opts []Option
	}{
		{"zero population", []Option{WithParams(bad(func(p *Params) { p.PopulationSize = 0 }))}},
		{"select above population", []Option{WithParams(bad(func(p *Params) { p.SelectN = 101 }))}},
		{"select zero", []Option{WithParams(bad(func(p *Params) { p.SelectN = 0 }))}},
		{"single parent", []Option{WithParams(bad(func(p *Params) { p.SelectN = 1 }))}},
		{"keep above population", []Option{WithParams(bad(func(p *Params) { p.KeepN = 101 }))}},
		{"negative keep", []Option{WithParams(bad(func(p *Params) { p.KeepN = -1 }))}},
		{"mutation chance", []Option{WithParams(bad(func(p *Params) { p.MutationChance = 1.5 }))}},
		{"mutation index", []Option{WithParams(bad(func(p *Params) { p.MutationIndex = -0.1 }))}},
		{"evaluation index zero", []Option{WithParams(bad(func(p *Params) { p.EvaluationIndex = 0 }))}},
		{"evaluation index one", []Option{WithParams(bad(func(p *Params) { p.EvaluationIndex = 1 }))}},
		{"seed wrong length", []Option{WithInitialIndividual([]string{"A"})}},
		{"seed unknown gene", []Option{WithInitialIndividual([]string{"A", "A", "A", "A", "A", "A", "Z"})}},
		{"seed wrong type", []Option{WithInitialIndividual([]int{0, 0, 0, 0, 0, 0, 0})}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(testGenes, testTarget, tt.opts...)
			assert.ErrorIs(t, err, ErrConfiguration)
		})
	}
}

func TestParams_SingleParentAllowedWhenAllKept(t *testing.T) {
	p := Params{PopulationSize: 3, SelectN: 1, KeepN: 3, EvaluationIndex: 0.5}
	require.NoError(t, p.Validate())

	e, err := New([]int{0, 1}, []int{1, 1}, WithParams(p), WithSeed(1))
	require.NoError(t, err)
	e.Advance()
	e.Advance()
	gen, _ := e.Generation()
	assert.Equal(t, 1, gen)
}

func TestEngine_NotStarted(t *testing.T) {
	e := newTestEngine(t, smallParams())

	_, ok := e.Generation()
	assert.False(t, ok)
	_, ok = e.FittestIndividual()
	assert.False(t, ok)
	_, ok = e.FittestScore()
	assert.False(t, ok)
	_, ok = e.Stats()
	assert.False(t, ok)
	assert.Nil(t, e.Population())
	assert.Nil(t, e.Scores())
	assert.ErrorIs(t, e.Permute([]int{0}), ErrNotStarted)
}

func TestEngine_AdvanceInvariants(t *testing.T) {
	p := smallParams()
	e := newTestEngine(t, p)

	for want := 0; want < 25; want++ {
		e.Advance()

		gen, ok := e.Generation()
		require.True(t, ok)
		require.Equal(t, want, gen)

		pop := e.Population()
		scores := e.Scores()
		require.Len(t, pop, p.PopulationSize)
		require.Len(t, scores, p.PopulationSize)
		for i, ind := range pop {
			require.Len(t, ind, e.Len())
			for _, g := range ind {
				require.True(t, e.GeneSpace().Contains(g))
			}
			require.Greater(t, scores[i], 0.0)
			require.LessOrEqual(t, scores[i], 1.0)
			if i > 0 {
				require.GreaterOrEqual(t, scores[i-1], scores[i])
			}
		}

		fittest, _ := e.FittestIndividual()
		best, _ := e.FittestScore()
		assert.Equal(t, pop[0], fittest)
		assert.Equal(t, scores[0], best)
	}
}

func TestEngine_ScoresMatchPopulation(t *testing.T) {
	e := newTestEngine(t, smallParams())
	e.Advance()
	e.Advance()

	pop := e.Population()
	for i, score := range e.Scores() {
		got, err := e.Evaluate(pop[i])
		require.NoError(t, err)
		assert.Equal(t, score, got)
	}
}

func TestEngine_Reset(t *testing.T) {
	e := newTestEngine(t, smallParams())
	before := e.Params()

	for range 3 {
		e.Advance()
	}
	e.Reset()

	_, ok := e.Generation()
	assert.False(t, ok)
	assert.Nil(t, e.Population())
	assert.Nil(t, e.Scores())
	assert.Equal(t, before, e.Params())

	e.Advance()
	gen, ok := e.Generation()
	assert.True(t, ok)
	assert.Equal(t, 0, gen)
}

func TestEngine_SeededGenerationZero(t *testing.T) {
	p := Params{PopulationSize: 8, SelectN: 2, EvaluationIndex: 0.2, MutationChance: 1, MutationIndex: 1}
	e, err := New([]int{0, 1}, []int{0, 0, 0}, WithParams(p), WithInitialIndividual([]int{0, 0, 0}), WithSeed(5))
	require.NoError(t, err)

	e.Advance()
	pop := e.Population()
	require.Len(t, pop, 8)
	for _, ind := range pop {
		assert.Equal(t, []int{0, 0, 0}, ind)
	}
	for _, s := range e.Scores() {
		assert.Equal(t, 1.0, s)
	}
}

func TestEngine_PopulationIsACopy(t *testing.T) {
	e := newTestEngine(t, smallParams())
	e.Advance()

	pop := e.Population()
	pop[0][0] = "Z"
	scores := e.Scores()
	scores[0] = -1

	fittest, _ := e.FittestIndividual()
	assert.NotEqual(t, "Z", fittest[0])
	best, _ := e.FittestScore()
	assert.Greater(t, best, 0.0)
}

func TestEngine_ElitismKeepsBestScore(t *testing.T) {
	p := smallParams()
	p.MutationChance = 0
	e := newTestEngine(t, p)

	e.Advance()
	prev, _ := e.FittestScore()
	prevTop := e.Population()[:p.KeepN]
	for range 20 {
		e.Advance()
		best, _ := e.FittestScore()
		assert.GreaterOrEqual(t, best, prev)
		pop := e.Population()
		for _, elite := range prevTop {
			assert.Contains(t, pop, elite)
		}
		prev = best
		prevTop = pop[:p.KeepN]
	}
}

func TestEngine_SameSeedSameRun(t *testing.T) {
	run := func() [][]string {
		e := newTestEngine(t, smallParams())
		for range 10 {
			e.Advance()
		}
		return e.Population()
	}
	assert.Equal(t, run(), run())
}

func TestEngine_WithRand(t *testing.T) {
	p := smallParams()
	a, err := New(testGenes, testTarget, WithParams(p), WithRand(rand.New(rand.NewSource(9))))
	require.NoError(t, err)
	b, err := New(testGenes, testTarget, WithParams(p), WithRand(rand.New(rand.NewSource(9))), WithSeed(1))
	require.NoError(t, err)

	a.Advance()
	b.Advance()
	assert.Equal(t, a.Population(), b.Population())
}

func TestEngine_Converges(t *testing.T) {
	p := Params{PopulationSize: 60, SelectN: 10, KeepN: 2, MutationChance: 0.5, MutationIndex: 0.2, EvaluationIndex: 0.2}
	e := newTestEngine(t, p)

	e.Advance()
	first, _ := e.FittestScore()
	for range 200 {
		e.Advance()
	}
	last, _ := e.FittestScore()
	assert.Greater(t, last, first)
}

func TestEngine_Generations(t *testing.T) {
	e := newTestEngine(t, smallParams())

	var seen []int
	for gen, snap := range e.Generations() {
		seen = append(seen, gen)
		assert.Equal(t, gen, snap.Generation)
		assert.Equal(t, snap.Score, snap.Stats.Best)
		assert.Len(t, snap.Fittest, e.Len())
		if gen == 4 {
			break
		}
	}
	assert.Equal(t, []int{0, 1, 2, 3, 4}, seen)

	// The sequence picks up where the engine is.
	for gen := range e.Generations() {
		assert.Equal(t, 5, gen)
		break
	}
}

func TestEngine_Permute(t *testing.T) {
	p := smallParams()
	p.PopulationSize = 4
	p.SelectN = 2
	p.KeepN = 0
	e := newTestEngine(t, p)
	e.Advance()

	pop := e.Population()
	scores := e.Scores()
	require.NoError(t, e.Permute([]int{3, 2, 1, 0}))
	assert.Equal(t, [][]string{pop[3], pop[2], pop[1], pop[0]}, e.Population())
	assert.Equal(t, []float64{scores[3], scores[2], scores[1], scores[0]}, e.Scores())

	assert.ErrorIs(t, e.Permute([]int{0, 1, 2}), ErrConfiguration)
	assert.ErrorIs(t, e.Permute([]int{0, 1, 1, 2}), ErrConfiguration)
	assert.ErrorIs(t, e.Permute([]int{0, 1, 2, 4}), ErrConfiguration)
}

func TestEngine_SetParams(t *testing.T) {
	e := newTestEngine(t, smallParams())

	bad := smallParams()
	bad.MutationIndex = 2
	assert.ErrorIs(t, e.SetParams(bad), ErrConfiguration)

	e.Advance()
	grown := smallParams()
	grown.PopulationSize = 50
	assert.ErrorIs(t, e.SetParams(grown), ErrConfiguration)

	tuned := smallParams()
	tuned.MutationChance = 0.9
	require.NoError(t, e.SetParams(tuned))
	assert.Equal(t, tuned, e.Params())
	e.Advance()

	e.Reset()
	require.NoError(t, e.SetParams(grown))
	e.Advance()
	assert.Len(t, e.Population(), 50)
}

func TestEngine_SetGenesDuringRun(t *testing.T) {
	p := smallParams()
	e := newTestEngine(t, p)
	e.Advance()

	// Dropping genes the population still uses is refused.
	assert.ErrorIs(t, e.SetGenes([]string{"A", "B", "C"}), ErrConfiguration)

	// Reordering keeps every gene and changes the distances.
	require.NoError(t, e.SetGenes([]string{"F", "E", "D", "C", "B", "A"}))
	assert.Equal(t, []int{4, 5, 5, 3, 0, 1, 2}, e.GeneSpace().TargetIndices())
	e.Advance()
}

func TestEngine_SetTarget(t *testing.T) {
	e := newTestEngine(t, smallParams())

	assert.ErrorIs(t, e.SetTarget([]string{"A", "Q"}), ErrConfiguration)
	require.NoError(t, e.SetTarget([]string{"A", "B"}))
	assert.Equal(t, 2, e.Len())

	e.Advance()
	assert.ErrorIs(t, e.SetTarget([]string{"A", "B", "C"}), ErrConfiguration)
	require.NoError(t, e.SetTarget([]string{"F", "F"}))
	e.Advance()
	for _, ind := range e.Population() {
		assert.Len(t, ind, 2)
	}
}

func TestEngine_SetGeneSpace(t *testing.T) {
	e, err := New([]string{"A", "B"}, []string{"A", "B"}, WithSeed(1))
	require.NoError(t, err)

	// Neither order of single assignments can switch alphabets, the atomic one can.
	assert.ErrorIs(t, e.SetTarget([]string{"x", "y", "z"}), ErrConfiguration)
	assert.ErrorIs(t, e.SetGenes([]string{"x", "y", "z"}), ErrConfiguration)
	require.NoError(t, e.SetGeneSpace([]string{"x", "y", "z"}, []string{"z", "y", "x"}))
	assert.Equal(t, []int{2, 1, 0}, e.GeneSpace().TargetIndices())
}

func TestEngine_SetInitialIndividual(t *testing.T) {
	e, err := New([]int{0, 1, 2}, []int{2, 2}, WithSeed(1), WithParams(Params{
		PopulationSize: 4, SelectN: 2, EvaluationIndex: 0.5,
	}))
	require.NoError(t, err)

	assert.ErrorIs(t, e.SetInitialIndividual([]int{1}), ErrConfiguration)
	require.NoError(t, e.SetInitialIndividual([]int{1, 1}))

	e.Advance()
	for _, ind := range e.Population() {
		assert.Equal(t, []int{1, 1}, ind)
	}
	for _, s := range e.Scores() {
		assert.Equal(t, 0.5, s)
	}
}

func TestEngine_ChangesDuringRunRescore(t *testing.T) {
	p := Params{PopulationSize: 4, SelectN: 2, EvaluationIndex: 0.5}
	e, err := New([]string{"A", "B", "C", "D"}, []string{"A"}, WithParams(p), WithInitialIndividual([]string{"B"}))
	require.NoError(t, err)
	e.Advance()

	best, _ := e.FittestScore()
	require.Equal(t, 0.5, best)

	// B moves one step further from A.
	require.NoError(t, e.SetGenes([]string{"A", "C", "B", "D"}))
	best, _ = e.FittestScore()
	assert.Equal(t, 0.25, best)

	require.NoError(t, e.SetTarget([]string{"B"}))
	best, _ = e.FittestScore()
	assert.Equal(t, 1.0, best)

	require.NoError(t, e.SetTarget([]string{"D"}))
	p.EvaluationIndex = 0.1
	require.NoError(t, e.SetParams(p))
	for _, s := range e.Scores() {
		assert.InDelta(t, 0.1, s, 1e-12)
	}
}

func TestEngine_RescoreKeepsOrder(t *testing.T) {
	e := newTestEngine(t, smallParams())
	for range 3 {
		e.Advance()
	}

	require.NoError(t, e.SetGeneSpace([]string{"F", "E", "D", "C", "B", "A"}, []string{"F", "F", "A", "A", "C", "C", "E"}))

	pop := e.Population()
	scores := e.Scores()
	for i, ind := range pop {
		got, err := e.Evaluate(ind)
		require.NoError(t, err)
		assert.Equal(t, got, scores[i])
		if i > 0 {
			assert.GreaterOrEqual(t, scores[i-1], scores[i])
		}
	}
	best, _ := e.FittestScore()
	assert.Equal(t, scores[0], best)
}
