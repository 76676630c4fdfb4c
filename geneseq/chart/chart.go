// Package chart records per-generation statistics and draws them as a
// fitness-over-generations line plot.
package chart

import (
	"errors"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/baldhumanity/geneseq-go/geneseq"
)

// Recorder is a geneseq.Reporter that keeps every generation's Stats.
type Recorder struct {
	history []geneseq.Stats
}

// NewRecorder returns an empty recorder.
func NewRecorder() *Recorder { return &Recorder{} }

// EndGeneration appends stats to the history.
func (r *Recorder) EndGeneration(stats geneseq.Stats) {
	r.history = append(r.history, stats)
}

// Reset drops the recorded history, matching the engine's fresh start.
func (r *Recorder) Reset() { r.history = nil }

// History returns the recorded stats in generation order.
func (r *Recorder) History() []geneseq.Stats {
	return append([]geneseq.Stats(nil), r.history...)
}

// Save draws best, mean and worst score against generation and writes the
// plot to outPath. The image format follows the file extension.
func (r *Recorder) Save(title, outPath string) error {
	if len(r.history) == 0 {
		return errors.New("chart: nothing recorded")
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Generation"
	p.Y.Label.Text = "Score"

	best := make(plotter.XYs, len(r.history))
	mean := make(plotter.XYs, len(r.history))
	worst := make(plotter.XYs, len(r.history))
	for i, s := range r.history {
		g := float64(s.Generation)
		best[i].X, best[i].Y = g, s.Best
		mean[i].X, mean[i].Y = g, s.Mean
		worst[i].X, worst[i].Y = g, s.Worst
	}

	bestLine, err := plotter.NewLine(best)
	if err != nil {
		return err
	}
	meanLine, err := plotter.NewLine(mean)
	if err != nil {
		return err
	}
	meanLine.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
	worstLine, err := plotter.NewLine(worst)
	if err != nil {
		return err
	}
	worstLine.Dashes = []vg.Length{vg.Points(1), vg.Points(2)}

	p.Add(bestLine, meanLine, worstLine)
	p.Legend.Add("best", bestLine)
	p.Legend.Add("mean", meanLine)
	p.Legend.Add("worst", worstLine)
	p.Legend.Top = true
	p.Legend.Left = true

	return p.Save(6*vg.Inch, 4*vg.Inch, outPath)
}
