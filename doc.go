// Package geneseq provides a generational evolutionary search over symbolic sequences.
//
// Given a target sequence and an ordered pool of allowed symbols ("genes"),
// an Engine evolves a fixed-size population of candidate sequences toward
// the target. Fitness is positional: each gene scores evaluation_index raised
// to its distance from the target gene, where distance is measured by
// position in the gene pool. Each generation keeps an optional number of
// elites, breeds the rest by single-point crossover of two distinct parents
// from the top of the previous ranking, and mutates genes independently.
//
// The library lives in the geneseq subpackage; geneseq/dual runs two engines
// in lockstep under a combined score.
//
// Basic usage:
//
//	// Load configuration
//	config, err := geneseq.LoadConfig("path/to/config")
//	if err != nil {
//		log.Fatalf("Error loading config: %v", err)
//	}
//
//	// Create a new engine
//	engine, err := geneseq.NewFromConfig(config, config.GeneSpace)
//	if err != nil {
//		log.Fatalf("Error creating engine: %v", err)
//	}
//
//	// The engine never stops by itself; run as many generations as you need.
//	for gen, snap := range engine.Generations() {
//		if snap.Score >= 1.0 || gen == 500 {
//			fmt.Println("Fittest:", snap.Fittest)
//			break
//		}
//	}
package geneseq
