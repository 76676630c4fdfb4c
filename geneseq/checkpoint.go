package geneseq

import (
	"compress/gzip"
	"encoding/gob"
	"fmt"
	"io"
	"os"
)

// checkpointData is the saved form of an engine. The random source is not
// saved; restored engines get a fresh one unless the caller passes WithRand
// or WithSeed.
type checkpointData[G comparable] struct {
	Params     Params
	Genes      []G
	Target     []G
	Initial    []G
	Started    bool
	Generation int
	Population [][]G
	Scores     []float64
}

// SaveCheckpoint writes the engine state to a gzip-compressed file.
func (e *Engine[G]) SaveCheckpoint(filePath string) error {
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create checkpoint file '%s': %w", filePath, err)
	}
	defer file.Close()

	if err := e.WriteCheckpoint(file); err != nil {
		return err
	}
	return file.Close()
}

// WriteCheckpoint writes the gzip-compressed engine state to w.
func (e *Engine[G]) WriteCheckpoint(w io.Writer) error {
	gzWriter := gzip.NewWriter(w)

	saveData := checkpointData[G]{
		Params:     e.params,
		Genes:      e.space.genes,
		Target:     e.space.target,
		Initial:    e.space.initial,
		Started:    e.started,
		Generation: e.generation,
		Population: e.population,
		Scores:     e.scores,
	}
	if err := gob.NewEncoder(gzWriter).Encode(saveData); err != nil {
		gzWriter.Close()
		return fmt.Errorf("failed to encode engine state: %w", err)
	}
	if err := gzWriter.Close(); err != nil {
		return fmt.Errorf("failed to flush checkpoint: %w", err)
	}
	return nil
}

// LoadCheckpoint restores an engine from a file written by SaveCheckpoint.
// Options apply on top of the saved state; WithParams is ignored.
func LoadCheckpoint[G comparable](filePath string, opts ...Option) (*Engine[G], error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open checkpoint file '%s': %w", filePath, err)
	}
	defer file.Close()
	return ReadCheckpoint[G](file, opts...)
}

// ReadCheckpoint restores an engine from r. All configuration is validated
// again and an invalid gene space or population is rejected. Scores are
// recomputed from the restored population rather than trusted.
func ReadCheckpoint[G comparable](r io.Reader, opts ...Option) (*Engine[G], error) {
	gzReader, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader for checkpoint: %w", err)
	}
	defer gzReader.Close()

	var saveData checkpointData[G]
	if err := gob.NewDecoder(gzReader).Decode(&saveData); err != nil {
		return nil, fmt.Errorf("failed to decode engine state from checkpoint: %w", err)
	}

	base := []Option{}
	base = append(base, opts...)
	base = append(base, WithParams(saveData.Params))
	if saveData.Initial != nil {
		base = append(base, WithInitialIndividual(saveData.Initial))
	}
	e, err := New(saveData.Genes, saveData.Target, base...)
	if err != nil {
		return nil, fmt.Errorf("invalid checkpoint: %w", err)
	}
	if !saveData.Started {
		return e, nil
	}

	if len(saveData.Population) != saveData.Params.PopulationSize || len(saveData.Scores) != len(saveData.Population) {
		return nil, fmt.Errorf("invalid checkpoint: %w: population has %d individuals and %d scores, want %d",
			ErrConfiguration, len(saveData.Population), len(saveData.Scores), saveData.Params.PopulationSize)
	}
	for i, ind := range saveData.Population {
		if len(ind) != e.Len() {
			return nil, fmt.Errorf("invalid checkpoint: %w: population[%d] has length %d, want %d",
				ErrConfiguration, i, len(ind), e.Len())
		}
	}
	if err := expressible(e.space.index, saveData.Population); err != nil {
		return nil, fmt.Errorf("invalid checkpoint: %w", err)
	}

	e.started = true
	e.generation = saveData.Generation
	e.population = saveData.Population
	e.rescore()
	return e, nil
}
