package geneseq

import (
	"fmt"
	"io"
	"os"
	"time"
)

// Reporter is notified as the engine moves between generations.
type Reporter interface {
	// EndGeneration is called after a generation has been scored and sorted.
	EndGeneration(stats Stats)
	// Reset is called when the engine returns to the not-started state.
	Reset()
}

type nopReporter struct{}

func (nopReporter) EndGeneration(Stats) {}
func (nopReporter) Reset()              {}

// StdOutReporter prints a short progress block per generation.
type StdOutReporter struct {
	Out         io.Writer // defaults to os.Stdout
	ShowDetails bool      // also print mean and stdev

	bestEver  float64
	started   bool
	lastStamp time.Time
}

// NewStdOutReporter returns a reporter writing to os.Stdout.
func NewStdOutReporter(showDetails bool) *StdOutReporter {
	return &StdOutReporter{Out: os.Stdout, ShowDetails: showDetails}
}

// EndGeneration prints the generation header, the best score and, with
// ShowDetails, the mean, stdev and worst score.
func (r *StdOutReporter) EndGeneration(stats Stats) {
	out := r.Out
	if out == nil {
		out = os.Stdout
	}
	now := time.Now()
	fmt.Fprintf(out, "****** Generation %d ******\n", stats.Generation)
	if !r.started || stats.Best > r.bestEver {
		r.bestEver = stats.Best
		fmt.Fprintf(out, " New best score: %.4f\n", stats.Best)
	}
	fmt.Fprintf(out, " Best of generation %d: %.4f\n", stats.Generation, stats.Best)
	if r.ShowDetails {
		fmt.Fprintf(out, " Mean: %.4f, Stdev: %.4f, Worst: %.4f\n", stats.Mean, stats.Stdev, stats.Worst)
	}
	if r.started {
		fmt.Fprintf(out, "Generation %d finished in %s\n\n", stats.Generation, now.Sub(r.lastStamp))
	}
	r.started = true
	r.lastStamp = now
}

// Reset forgets the best score seen so far.
func (r *StdOutReporter) Reset() {
	r.started = false
	r.bestEver = 0
}

// ReporterSet fans every notification out to each of its members in order.
type ReporterSet []Reporter

// EndGeneration forwards stats to every member.
func (rs ReporterSet) EndGeneration(stats Stats) {
	for _, r := range rs {
		r.EndGeneration(stats)
	}
}

// Reset resets every member.
func (rs ReporterSet) Reset() {
	for _, r := range rs {
		r.Reset()
	}
}
