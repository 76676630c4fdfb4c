package geneseq

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/ini.v1"
)

// ErrConfiguration is wrapped by every validation failure.
var ErrConfiguration = errors.New("config error")

// ErrNotStarted is returned by operations that need at least one generation.
var ErrNotStarted = errors.New("evolution not started")

// Params are the numeric knobs of the evolution.
type Params struct {
	PopulationSize  int     // individuals per generation, > 0
	SelectN         int     // parents drawn from the top of the sorted population
	KeepN           int     // elites copied unchanged into the next generation
	MutationChance  float64 // probability that an individual is mutated at all
	MutationIndex   float64 // per-gene resampling probability once mutated
	EvaluationIndex float64 // base of the geometric distance penalty, in (0,1)
}

// DefaultParams returns the stock parameter set.
func DefaultParams() Params {
	return Params{
		PopulationSize:  100,
		SelectN:         10,
		KeepN:           0,
		MutationChance:  0.2,
		MutationIndex:   0.1,
		EvaluationIndex: 0.2,
	}
}

// Validate checks every field and the relations between them.
func (p Params) Validate() error {
	if p.PopulationSize <= 0 {
		return fmt.Errorf("%w: population_size must be positive, got %d", ErrConfiguration, p.PopulationSize)
	}
	if p.SelectN < 1 || p.SelectN > p.PopulationSize {
		return fmt.Errorf("%w: select_n_parents must be between 1 and population_size (%d), got %d",
			ErrConfiguration, p.PopulationSize, p.SelectN)
	}
	if p.KeepN < 0 || p.KeepN > p.PopulationSize {
		return fmt.Errorf("%w: keep_n_parents must be between 0 and population_size (%d), got %d",
			ErrConfiguration, p.PopulationSize, p.KeepN)
	}
	// Crossover needs two distinct parents whenever any child is bred.
	if p.KeepN < p.PopulationSize && p.SelectN < 2 {
		return fmt.Errorf("%w: select_n_parents must be at least 2 when keep_n_parents < population_size",
			ErrConfiguration)
	}
	if p.MutationChance < 0 || p.MutationChance > 1 {
		return fmt.Errorf("%w: mutation_chance must be between 0 and 1, got %g", ErrConfiguration, p.MutationChance)
	}
	if p.MutationIndex < 0 || p.MutationIndex > 1 {
		return fmt.Errorf("%w: mutation_index must be between 0 and 1, got %g", ErrConfiguration, p.MutationIndex)
	}
	if p.EvaluationIndex <= 0 || p.EvaluationIndex >= 1 {
		return fmt.Errorf("%w: evaluation_index must be strictly between 0 and 1, got %g",
			ErrConfiguration, p.EvaluationIndex)
	}
	return nil
}

// Config is the file form of an evolution setup.
type Config struct {
	Evolution EvolutionConfig
	GeneSpace GeneSpaceConfig
	// Secondary is set when the file carries a [SecondaryGeneSpace] section,
	// which turns on dual-track evolution.
	Secondary *GeneSpaceConfig
	Dual      DualConfig
}

// EvolutionConfig maps the [Evolution] section.
type EvolutionConfig struct {
	PopulationSize  int     `ini:"population_size"`
	SelectN         int     `ini:"select_n_parents"`
	KeepN           int     `ini:"keep_n_parents"`
	MutationChance  float64 `ini:"mutation_chance"`
	MutationIndex   float64 `ini:"mutation_index"`
	EvaluationIndex float64 `ini:"evaluation_index"`
	Seed            int64   `ini:"seed"` // 0 = random
}

// Params converts the section into engine parameters.
func (ec EvolutionConfig) Params() Params {
	return Params{
		PopulationSize:  ec.PopulationSize,
		SelectN:         ec.SelectN,
		KeepN:           ec.KeepN,
		MutationChance:  ec.MutationChance,
		MutationIndex:   ec.MutationIndex,
		EvaluationIndex: ec.EvaluationIndex,
	}
}

// GeneSpaceConfig maps a gene space section. Lists are space separated.
type GeneSpaceConfig struct {
	Genes             []string `ini:"genes" delim:" "`
	Target            []string `ini:"target" delim:" "`
	InitialIndividual []string `ini:"initial_individual" delim:" "`
}

// DualConfig maps the [Dual] section.
type DualConfig struct {
	Weight     float64 `ini:"weight"`
	Normalized bool    `ini:"normalized"`
}

// LoadConfig loads an evolution setup from an INI file.
// Keys missing from the file keep their DefaultParams values.
func LoadConfig(filePath string) (*Config, error) {
	cfg, err := ini.LoadSources(ini.LoadOptions{
		UnescapeValueCommentSymbols: true,
	}, filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file '%s': %w", filePath, err)
	}
	return parseConfig(cfg)
}

func parseConfig(cfg *ini.File) (*Config, error) {
	def := DefaultParams()
	config := &Config{
		Evolution: EvolutionConfig{
			PopulationSize:  def.PopulationSize,
			SelectN:         def.SelectN,
			KeepN:           def.KeepN,
			MutationChance:  def.MutationChance,
			MutationIndex:   def.MutationIndex,
			EvaluationIndex: def.EvaluationIndex,
		},
		Dual: DualConfig{Weight: 0.5},
	}

	if err := cfg.Section("Evolution").StrictMapTo(&config.Evolution); err != nil {
		return nil, fmt.Errorf("%w: failed to map [Evolution] section: %v", ErrConfiguration, err)
	}
	if err := cfg.Section("GeneSpace").MapTo(&config.GeneSpace); err != nil {
		return nil, fmt.Errorf("%w: failed to map [GeneSpace] section: %v", ErrConfiguration, err)
	}
	config.GeneSpace.clean()

	if cfg.HasSection("SecondaryGeneSpace") {
		secondary := &GeneSpaceConfig{}
		if err := cfg.Section("SecondaryGeneSpace").MapTo(secondary); err != nil {
			return nil, fmt.Errorf("%w: failed to map [SecondaryGeneSpace] section: %v", ErrConfiguration, err)
		}
		secondary.clean()
		config.Secondary = secondary
	}
	if err := cfg.Section("Dual").StrictMapTo(&config.Dual); err != nil {
		return nil, fmt.Errorf("%w: failed to map [Dual] section: %v", ErrConfiguration, err)
	}

	// --- Validation ---
	if err := config.Evolution.Params().Validate(); err != nil {
		return nil, err
	}
	if len(config.GeneSpace.Genes) == 0 {
		return nil, fmt.Errorf("%w: [GeneSpace] genes must be specified", ErrConfiguration)
	}
	if len(config.GeneSpace.Target) == 0 {
		return nil, fmt.Errorf("%w: [GeneSpace] target must be specified", ErrConfiguration)
	}
	if config.Secondary != nil {
		if len(config.Secondary.Genes) == 0 || len(config.Secondary.Target) == 0 {
			return nil, fmt.Errorf("%w: [SecondaryGeneSpace] genes and target must be specified", ErrConfiguration)
		}
	}
	if config.Dual.Weight < 0 || config.Dual.Weight > 1 {
		return nil, fmt.Errorf("%w: [Dual] weight must be between 0 and 1, got %g", ErrConfiguration, config.Dual.Weight)
	}
	return config, nil
}

// clean trims whitespace and drops the empty entries that repeated delimiters leave behind.
func (gc *GeneSpaceConfig) clean() {
	gc.Genes = cleanList(gc.Genes)
	gc.Target = cleanList(gc.Target)
	gc.InitialIndividual = cleanList(gc.InitialIndividual)
}

func cleanList(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	out := values[:0]
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// NewFromConfig builds a string-gened engine for one gene space of cfg.
// Options are applied after the ones derived from the file, so callers can
// override the seed or attach a reporter.
func NewFromConfig(cfg *Config, space GeneSpaceConfig, opts ...Option) (*Engine[string], error) {
	base := []Option{WithParams(cfg.Evolution.Params())}
	if cfg.Evolution.Seed != 0 {
		base = append(base, WithSeed(cfg.Evolution.Seed))
	}
	if len(space.InitialIndividual) > 0 {
		base = append(base, WithInitialIndividual(space.InitialIndividual))
	}
	return New(space.Genes, space.Target, append(base, opts...)...)
}
