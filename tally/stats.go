// Copyright ©2026 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tally

import (
	"errors"
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// ErrNoData is returned when a histogram is requested for no values.
var ErrNoData = errors.New("tally: no data")

// Summary holds descriptive statistics of a set of lengths.
type Summary struct {
	N      int
	Mean   float64
	StdDev float64
	Median float64
	Min    float64
	Max    float64
}

func (s Summary) String() string {
	return fmt.Sprintf("n=%d mean=%.1f sd=%.1f median=%.0f range=%.0f-%.0f", s.N, s.Mean, s.StdDev, s.Median, s.Min, s.Max)
}

// FinalLengths returns the final selected lengths of rows.
func FinalLengths(rows []Row) []float64 {
	x := make([]float64, 0, len(rows))
	for _, r := range rows {
		if r.FinalLen >= 0 {
			x = append(x, float64(r.FinalLen))
		}
	}
	return x
}

// Stats returns descriptive statistics for x. The standard
// deviation of fewer than two values is zero.
func Stats(x []float64) Summary {
	if len(x) == 0 {
		return Summary{}
	}
	sorted := append([]float64(nil), x...)
	sort.Float64s(sorted)
	s := Summary{
		N:      len(sorted),
		Median: median(sorted),
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
	}
	if len(sorted) < 2 {
		s.Mean = sorted[0]
		return s
	}
	s.Mean, s.StdDev = stat.MeanStdDev(sorted, nil)
	return s
}

// median returns the median of the sorted values in x. For an even
// number of values the two middle values are averaged.
func median(x []float64) float64 {
	m := stat.Quantile(0.5, stat.Empirical, x, nil)
	if len(x)%2 == 0 {
		m = (m + x[len(x)/2]) / 2
	}
	return m
}

// Histogram writes a histogram of x to the named image file. The
// image format is determined by the file extension.
func Histogram(x []float64, title, path string) error {
	if len(x) == 0 {
		return ErrNoData
	}
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "length (aa)"
	p.Y.Label.Text = "candidates"

	bins := 20
	if len(x) < bins {
		bins = len(x)
	}
	h, err := plotter.NewHist(plotter.Values(x), bins)
	if err != nil {
		return err
	}
	p.Add(h)
	return p.Save(15*vg.Centimeter, 10*vg.Centimeter, path)
}
